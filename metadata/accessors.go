package metadata

// Domains enumerates the assemblies loaded in the native domain.
type Domains interface {
	DomainGet() Domain
	DomainGetAssemblies(d Domain) []Assembly
	AssemblyGetImage(a Assembly) Image
}

// Images reads image attributes and the classes an image defines.
type Images interface {
	ImageGetName(img Image) string
	ImageGetClassCount(img Image) int
	ImageGetClass(img Image, index int) Class
}

// Classes reads class attributes and enumerates class members.
type Classes interface {
	ClassFromName(img Image, namespace, name string) Class
	ClassGetName(c Class) string
	ClassGetNamespace(c Class) string
	ClassGetFieldFromName(c Class, name string) Field
	ClassGetFields(c Class, it *Iter) Field
	ClassGetMethods(c Class, it *Iter) Method
	ClassGetNestedTypes(c Class, it *Iter) Class
	ClassIsInflated(c Class) bool
	ClassIsValueType(c Class) bool
}

// Methods reads method attributes.
type Methods interface {
	MethodGetName(m Method) string
	MethodGetToken(m Method) uint32
	MethodGetParamCount(m Method) int
	MethodGetParam(m Method, index int) Type
	MethodGetReturnType(m Method) Type
	MethodIsGeneric(m Method) bool
	MethodGetClass(m Method) Class
}

// Fields reads field attributes.
type Fields interface {
	FieldGetName(f Field) string
	FieldGetType(f Field) Type
	FieldGetOffset(f Field) uintptr
}

// Types renders native type references.
type Types interface {
	TypeGetName(t Type) string
}

// ICalls looks up engine intrinsic calls by signature.
type ICalls interface {
	// ResolveICall returns the entry point address, or 0 when absent.
	ResolveICall(signature string) uintptr
}

// Objects boxes and unboxes value-type payloads.
type Objects interface {
	ValueBox(c Class, data uintptr) uintptr
	ObjectUnbox(obj uintptr) uintptr
}

// Strings converts native string objects.
type Strings interface {
	StringLength(s uintptr) int
	StringChars(s uintptr) uintptr
	StringNewUTF16(chars []uint16) uintptr
}

// Invoker calls a native method.
type Invoker interface {
	// RuntimeInvoke returns the result object and the thrown exception
	// object, if any.
	RuntimeInvoke(m Method, obj uintptr, args []uintptr) (result, exception uintptr)
}

// Runtime is the metadata graph surface the resolver and registry walk.
type Runtime interface {
	Domains
	Images
	Classes
	Methods
	Fields
	Types
	ICalls
}
