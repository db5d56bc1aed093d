package native

import (
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/il2cpp-runtime/exports"
	"github.com/wippyai/il2cpp-runtime/loader"
	"github.com/wippyai/il2cpp-runtime/metadata"
)

// Runtime implements the metadata accessors over the exports of a loaded
// native runtime library. Exports that could not be bound fail with
// errors.KindUnresolved when used.
type Runtime struct {
	binder *loader.Binder

	domainGet           func() uintptr
	domainGetAssemblies func(domain uintptr, size *uintptr) uintptr
	assemblyGetImage    func(assembly uintptr) uintptr

	imageGetName       func(image uintptr) string
	imageGetClassCount func(image uintptr) uintptr
	imageGetClass      func(image, index uintptr) uintptr

	classFromName         func(image uintptr, namespace, name string) uintptr
	classGetName          func(class uintptr) string
	classGetNamespace     func(class uintptr) string
	classGetImage         func(class uintptr) uintptr
	classGetDeclaringType func(class uintptr) uintptr
	classGetFieldFromName func(class uintptr, name string) uintptr
	classGetFields        func(class uintptr, iter *uintptr) uintptr
	classGetMethods       func(class uintptr, iter *uintptr) uintptr
	classGetNestedTypes   func(class uintptr, iter *uintptr) uintptr
	classIsInflated       func(class uintptr) bool
	classIsValueType      func(class uintptr) bool

	methodGetName           func(method uintptr) string
	methodGetToken          func(method uintptr) uint32
	methodGetParamCount     func(method uintptr) uint32
	methodGetParam          func(method uintptr, index uint32) uintptr
	methodGetReturnType     func(method uintptr) uintptr
	methodIsGeneric         func(method uintptr) bool
	methodGetClass          func(method uintptr) uintptr
	methodGetFromReflection func(object uintptr) uintptr

	fieldGetName   func(field uintptr) string
	fieldGetType   func(field uintptr) uintptr
	fieldGetOffset func(field uintptr) uint32

	typeGetName func(typ uintptr) uintptr
	free        func(ptr uintptr)

	resolveICall  func(signature string) uintptr
	runtimeInvoke func(method, obj uintptr, params unsafe.Pointer, exc *uintptr) uintptr

	valueBox       func(class, data uintptr) uintptr
	objectUnbox    func(obj uintptr) uintptr
	stringLength   func(str uintptr) int32
	stringChars    func(str uintptr) uintptr
	stringNewUTF16 func(text *uint16, length int32) uintptr

	wbarrierSetField func(obj, slot, value uintptr)

	hasReflectionLookup bool
	hasWriteBarrier     bool
}

var (
	_ metadata.Runtime = (*Runtime)(nil)
	_ metadata.Invoker = (*Runtime)(nil)
	_ metadata.Objects = (*Runtime)(nil)
	_ metadata.Strings = (*Runtime)(nil)
)

// Open binds the runtime exports of syms, translating names through
// names. The returned Runtime is always usable; err is an
// *errors.MissingExportsError when any required export was missing.
func Open(syms loader.Symbols, names *exports.Map) (*Runtime, error) {
	b := loader.NewBinder(syms, names)
	rt := &Runtime{binder: b}

	b.Bind(&rt.domainGet, "il2cpp_domain_get")
	b.Bind(&rt.domainGetAssemblies, "il2cpp_domain_get_assemblies")
	b.Bind(&rt.assemblyGetImage, "il2cpp_assembly_get_image")

	b.Bind(&rt.imageGetName, "il2cpp_image_get_name")
	b.Bind(&rt.imageGetClassCount, "il2cpp_image_get_class_count")
	b.Bind(&rt.imageGetClass, "il2cpp_image_get_class")

	b.Bind(&rt.classFromName, "il2cpp_class_from_name")
	b.Bind(&rt.classGetName, "il2cpp_class_get_name")
	b.Bind(&rt.classGetNamespace, "il2cpp_class_get_namespace")
	b.Bind(&rt.classGetImage, "il2cpp_class_get_image")
	b.Bind(&rt.classGetDeclaringType, "il2cpp_class_get_declaring_type")
	b.Bind(&rt.classGetFieldFromName, "il2cpp_class_get_field_from_name")
	b.Bind(&rt.classGetFields, "il2cpp_class_get_fields")
	b.Bind(&rt.classGetMethods, "il2cpp_class_get_methods")
	b.Bind(&rt.classGetNestedTypes, "il2cpp_class_get_nested_types")
	b.Bind(&rt.classIsInflated, "il2cpp_class_is_inflated")
	b.Bind(&rt.classIsValueType, "il2cpp_class_is_valuetype")

	b.Bind(&rt.methodGetName, "il2cpp_method_get_name")
	b.Bind(&rt.methodGetToken, "il2cpp_method_get_token")
	b.Bind(&rt.methodGetParamCount, "il2cpp_method_get_param_count")
	b.Bind(&rt.methodGetParam, "il2cpp_method_get_param")
	b.Bind(&rt.methodGetReturnType, "il2cpp_method_get_return_type")
	b.Bind(&rt.methodIsGeneric, "il2cpp_method_is_generic")
	b.Bind(&rt.methodGetClass, "il2cpp_method_get_class")

	b.Bind(&rt.fieldGetName, "il2cpp_field_get_name")
	b.Bind(&rt.fieldGetType, "il2cpp_field_get_type")
	b.Bind(&rt.fieldGetOffset, "il2cpp_field_get_offset")

	b.Bind(&rt.typeGetName, "il2cpp_type_get_name")
	b.Bind(&rt.resolveICall, "il2cpp_resolve_icall")
	b.Bind(&rt.runtimeInvoke, "il2cpp_runtime_invoke")

	b.Bind(&rt.valueBox, "il2cpp_value_box")
	b.Bind(&rt.objectUnbox, "il2cpp_object_unbox")
	b.Bind(&rt.stringLength, "il2cpp_string_length")
	b.Bind(&rt.stringChars, "il2cpp_string_chars")
	b.Bind(&rt.stringNewUTF16, "il2cpp_string_new_utf16")

	// Older runtime builds lack these three.
	if !b.BindOptional(&rt.free, "il2cpp_free") {
		rt.free = func(uintptr) {}
	}
	rt.hasWriteBarrier = b.BindOptional(&rt.wbarrierSetField, "il2cpp_gc_wbarrier_set_field")
	rt.hasReflectionLookup = b.BindOptional(&rt.methodGetFromReflection, "il2cpp_method_get_from_reflection")

	Logger().Debug("native runtime bound",
		zap.String("library", syms.Name()),
		zap.Int("bound", b.Bound()),
		zap.Int("missing", len(b.Missing())),
		zap.Bool("write_barrier", rt.hasWriteBarrier),
		zap.Bool("reflection_lookup", rt.hasReflectionLookup),
	)
	return rt, b.Err()
}

// Binder returns the binder the runtime exports were bound with. It also
// binds intrinsic call addresses for the resolver.
func (rt *Runtime) Binder() *loader.Binder { return rt.binder }

func (rt *Runtime) DomainGet() metadata.Domain {
	return metadata.Domain(rt.domainGet())
}

func (rt *Runtime) DomainGetAssemblies(d metadata.Domain) []metadata.Assembly {
	var size uintptr
	arr := rt.domainGetAssemblies(uintptr(d), &size)
	if arr == 0 || size == 0 {
		return nil
	}
	ptrs := unsafe.Slice((*uintptr)(unsafe.Pointer(arr)), size)
	out := make([]metadata.Assembly, size)
	for i, p := range ptrs {
		out[i] = metadata.Assembly(p)
	}
	return out
}

func (rt *Runtime) AssemblyGetImage(a metadata.Assembly) metadata.Image {
	return metadata.Image(rt.assemblyGetImage(uintptr(a)))
}

func (rt *Runtime) ImageGetName(img metadata.Image) string {
	return rt.imageGetName(uintptr(img))
}

func (rt *Runtime) ImageGetClassCount(img metadata.Image) int {
	return int(rt.imageGetClassCount(uintptr(img)))
}

func (rt *Runtime) ImageGetClass(img metadata.Image, index int) metadata.Class {
	return metadata.Class(rt.imageGetClass(uintptr(img), uintptr(index)))
}

func (rt *Runtime) ClassFromName(img metadata.Image, namespace, name string) metadata.Class {
	return metadata.Class(rt.classFromName(uintptr(img), namespace, name))
}

func (rt *Runtime) ClassGetName(c metadata.Class) string {
	return rt.classGetName(uintptr(c))
}

func (rt *Runtime) ClassGetNamespace(c metadata.Class) string {
	return rt.classGetNamespace(uintptr(c))
}

func (rt *Runtime) ClassGetFieldFromName(c metadata.Class, name string) metadata.Field {
	return metadata.Field(rt.classGetFieldFromName(uintptr(c), name))
}

func (rt *Runtime) ClassGetFields(c metadata.Class, it *metadata.Iter) metadata.Field {
	return metadata.Field(rt.classGetFields(uintptr(c), (*uintptr)(it)))
}

func (rt *Runtime) ClassGetMethods(c metadata.Class, it *metadata.Iter) metadata.Method {
	return metadata.Method(rt.classGetMethods(uintptr(c), (*uintptr)(it)))
}

func (rt *Runtime) ClassGetNestedTypes(c metadata.Class, it *metadata.Iter) metadata.Class {
	return metadata.Class(rt.classGetNestedTypes(uintptr(c), (*uintptr)(it)))
}

func (rt *Runtime) ClassIsInflated(c metadata.Class) bool {
	return rt.classIsInflated(uintptr(c))
}

func (rt *Runtime) ClassIsValueType(c metadata.Class) bool {
	return rt.classIsValueType(uintptr(c))
}

func (rt *Runtime) MethodGetName(m metadata.Method) string {
	return rt.methodGetName(uintptr(m))
}

func (rt *Runtime) MethodGetToken(m metadata.Method) uint32 {
	return rt.methodGetToken(uintptr(m))
}

func (rt *Runtime) MethodGetParamCount(m metadata.Method) int {
	return int(rt.methodGetParamCount(uintptr(m)))
}

func (rt *Runtime) MethodGetParam(m metadata.Method, index int) metadata.Type {
	return metadata.Type(rt.methodGetParam(uintptr(m), uint32(index)))
}

func (rt *Runtime) MethodGetReturnType(m metadata.Method) metadata.Type {
	return metadata.Type(rt.methodGetReturnType(uintptr(m)))
}

func (rt *Runtime) MethodIsGeneric(m metadata.Method) bool {
	return rt.methodIsGeneric(uintptr(m))
}

func (rt *Runtime) MethodGetClass(m metadata.Method) metadata.Class {
	return metadata.Class(rt.methodGetClass(uintptr(m)))
}

func (rt *Runtime) FieldGetName(f metadata.Field) string {
	return rt.fieldGetName(uintptr(f))
}

func (rt *Runtime) FieldGetType(f metadata.Field) metadata.Type {
	return metadata.Type(rt.fieldGetType(uintptr(f)))
}

func (rt *Runtime) FieldGetOffset(f metadata.Field) uintptr {
	return uintptr(rt.fieldGetOffset(uintptr(f)))
}

// TypeGetName returns the runtime's rendering of t. The native buffer is
// released after copying.
func (rt *Runtime) TypeGetName(t metadata.Type) string {
	p := rt.typeGetName(uintptr(t))
	if p == 0 {
		return ""
	}
	s := cString(p)
	rt.free(p)
	return s
}

func (rt *Runtime) ResolveICall(signature string) uintptr {
	return rt.resolveICall(signature)
}

// RuntimeInvoke calls m. args are pointers to the argument values, as the
// runtime expects for its params array.
func (rt *Runtime) RuntimeInvoke(m metadata.Method, obj uintptr, args []uintptr) (result, exception uintptr) {
	var params unsafe.Pointer
	if len(args) > 0 {
		params = unsafe.Pointer(&args[0])
	}
	result = rt.runtimeInvoke(uintptr(m), obj, params, &exception)
	return result, exception
}

func (rt *Runtime) ValueBox(c metadata.Class, data uintptr) uintptr {
	return rt.valueBox(uintptr(c), data)
}

func (rt *Runtime) ObjectUnbox(obj uintptr) uintptr {
	return rt.objectUnbox(obj)
}

func (rt *Runtime) StringLength(s uintptr) int {
	return int(rt.stringLength(s))
}

func (rt *Runtime) StringChars(s uintptr) uintptr {
	return rt.stringChars(s)
}

func (rt *Runtime) StringNewUTF16(chars []uint16) uintptr {
	if len(chars) == 0 {
		var empty uint16
		return rt.stringNewUTF16(&empty, 0)
	}
	return rt.stringNewUTF16(&chars[0], int32(len(chars)))
}

// cString copies the NUL-terminated string at p.
func cString(p uintptr) string {
	n := 0
	for *(*byte)(unsafe.Pointer(p + uintptr(n))) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(p)), n))
}
