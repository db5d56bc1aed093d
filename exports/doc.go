// Package exports maps the export names the bridge asks for onto the names a
// protected native library actually exports.
//
// Some builds of the native runtime rename their C export table. A separate
// extraction step writes two parallel name lists, each prefixed by a count
// line:
//
//	3
//	il2cpp_init
//	il2cpp_domain_get
//	il2cpp_class_from_name
//
// Line i of the first list pairs with line i of the second. Load verifies
// both lists before exposing anything: a Map is either complete or absent.
//
//	m, err := exports.LoadFiles("savedSecretNameNoEnc.txt", "savedSecretName.txt")
//	if err != nil {
//	    return err // startup cannot continue
//	}
//	name, ok := m.Export("il2cpp_domain_get")
//
// A Map is immutable after construction and safe for concurrent reads.
package exports
