package managed

// Kind discriminates the Type variants.
type Kind uint8

const (
	KindNamed Kind = iota
	KindArray
	KindByRef
	KindPointer
	KindGenericParam
	KindGeneric
)

func (k Kind) String() string {
	switch k {
	case KindNamed:
		return "named"
	case KindArray:
		return "array"
	case KindByRef:
		return "byref"
	case KindPointer:
		return "pointer"
	case KindGenericParam:
		return "generic-param"
	case KindGeneric:
		return "generic"
	}
	return "unknown"
}

// Type is a managed type descriptor.
//
// Which fields are meaningful depends on Kind:
//   - KindNamed: FullName, ObfuscatedName, Base, ValueType
//   - KindArray, KindByRef, KindPointer: Elem
//   - KindGenericParam: Name
//   - KindGeneric: Definition, Args, Base
type Type struct {
	Elem       *Type
	Definition *Type
	Base       *Type
	Args       []*Type

	// FullName is the reflection full name, e.g. "Outer+Inner" or "List`1".
	FullName string
	// ObfuscatedName overrides FullName when the binding was generated
	// against renamed metadata.
	ObfuscatedName string
	// Name is the declared name of a generic parameter.
	Name string

	Kind      Kind
	ValueType bool
}

// Named returns a plain named type.
func Named(fullName string) *Type {
	return &Type{Kind: KindNamed, FullName: fullName}
}

// Value returns a plain named value type.
func Value(fullName string) *Type {
	return &Type{Kind: KindNamed, FullName: fullName, ValueType: true}
}

// ArrayOf returns a single-dimension array of elem.
func ArrayOf(elem *Type) *Type {
	return &Type{Kind: KindArray, Elem: elem}
}

// ByRefOf returns a by-reference slot of elem.
func ByRefOf(elem *Type) *Type {
	return &Type{Kind: KindByRef, Elem: elem}
}

// PointerTo returns an unmanaged pointer to elem.
func PointerTo(elem *Type) *Type {
	return &Type{Kind: KindPointer, Elem: elem}
}

// GenericParam returns an unbound generic parameter.
func GenericParam(name string) *Type {
	return &Type{Kind: KindGenericParam, Name: name}
}

// Generic returns def instantiated with args.
func Generic(def *Type, args ...*Type) *Type {
	return &Type{Kind: KindGeneric, Definition: def, Args: args}
}

// WithBase sets the base type and returns t.
func (t *Type) WithBase(base *Type) *Type {
	t.Base = base
	return t
}

// WithObfuscatedName sets the obfuscated name and returns t.
func (t *Type) WithObfuscatedName(name string) *Type {
	t.ObfuscatedName = name
	return t
}

// IsValueType reports whether values of t are stored inline.
func (t *Type) IsValueType() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case KindNamed:
		return t.ValueType
	case KindGeneric:
		return t.Definition != nil && t.Definition.ValueType
	}
	return false
}

// name returns the name a type is rendered under before cleanup.
func (t *Type) name() string {
	if t.ObfuscatedName != "" {
		return t.ObfuscatedName
	}
	return t.FullName
}

// Well-known names.
const (
	// ArrayBaseName is the generic wrapper every native array binding derives from.
	ArrayBaseName = "Il2CppInterop.Runtime.InteropTypes.Arrays.Il2CppArrayBase`1"
	// StringArrayName is the non-generic string array wrapper.
	StringArrayName = "Il2CppInterop.Runtime.InteropTypes.Arrays.Il2CppStringArray"
)

// Common descriptors.
var (
	Void    = Value("System.Void")
	Boolean = Value("System.Boolean")
	Byte    = Value("System.Byte")
	Int16   = Value("System.Int16")
	Int32   = Value("System.Int32")
	Int64   = Value("System.Int64")
	UInt32  = Value("System.UInt32")
	Single  = Value("System.Single")
	Double  = Value("System.Double")
	IntPtr  = Value("System.IntPtr")
	String  = Named("System.String")
	Object  = Named("Il2CppSystem.Object")

	// ArrayBase is the generic array wrapper definition.
	ArrayBase = Named(ArrayBaseName)
	// StringArray is the string array wrapper.
	StringArray = Named(StringArrayName)
)
