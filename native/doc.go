// Package native binds the exports of a loaded native runtime library and
// implements the metadata accessor interfaces over them.
//
//	lib, err := loader.Open(loader.FileName("GameAssembly"))
//	...
//	rt, err := native.Open(lib, names)
//	if err != nil {
//	    // *errors.MissingExportsError; rt still works, missing exports
//	    // fail with errors.KindUnresolved when used
//	}
//
// Two exports are optional. Without il2cpp_gc_wbarrier_set_field, SetField
// falls back to a plain pointer store. Without
// il2cpp_method_get_from_reflection, MethodFromReflection reads the method
// pointer out of the reflection object.
//
// Runtime also resolves nested types of inflated generic classes through
// their generic definition, so it can serve as resolver.Reflection.
package native
