package native

import (
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/il2cpp-runtime/metadata"
)

// Object header of a managed object: class pointer and monitor.
const objectHeaderSize = 2 * unsafe.Sizeof(uintptr(0))

// MethodFromReflection returns the method behind a managed reflection
// method object. Runtimes without il2cpp_method_get_from_reflection are
// read directly: the method pointer follows the object header.
func (rt *Runtime) MethodFromReflection(object uintptr) metadata.Method {
	if object == 0 {
		return 0
	}
	if rt.hasReflectionLookup {
		return metadata.Method(rt.methodGetFromReflection(object))
	}
	return metadata.Method(*(*uintptr)(unsafe.Pointer(object + objectHeaderSize)))
}

// NestedType finds the nested type name of an inflated generic class by
// walking the nested types of its generic definition.
func (rt *Runtime) NestedType(class metadata.Class, name string) metadata.Class {
	def := rt.definition(class)
	if def.IsNull() {
		Logger().Debug("generic definition not found",
			zap.String("class", rt.ClassGetName(class)),
		)
		return 0
	}
	return rt.nested(def, name)
}

// definition finds the class declared under the same name as class. For a
// nested class this is found through its declaring type's definition.
func (rt *Runtime) definition(class metadata.Class) metadata.Class {
	if class.IsNull() {
		return 0
	}
	name := rt.ClassGetName(class)
	if outer := metadata.Class(rt.classGetDeclaringType(uintptr(class))); !outer.IsNull() {
		return rt.nested(rt.definition(outer), name)
	}
	img := metadata.Image(rt.classGetImage(uintptr(class)))
	return rt.ClassFromName(img, rt.ClassGetNamespace(class), name)
}

func (rt *Runtime) nested(class metadata.Class, name string) metadata.Class {
	if class.IsNull() {
		return 0
	}
	var it metadata.Iter
	for n := rt.ClassGetNestedTypes(class, &it); !n.IsNull(); n = rt.ClassGetNestedTypes(class, &it) {
		if rt.ClassGetName(n) == name {
			return n
		}
	}
	return 0
}
