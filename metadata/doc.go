// Package metadata defines the opaque handles and atomic accessors of the
// native runtime's metadata graph.
//
// The native runtime owns every handle. This package never allocates or
// frees them; it only names them. The zero value of each handle type is the
// null sentinel and means "not found".
//
// Members are enumerated with a caller-owned cursor:
//
//	var it metadata.Iter
//	for m := rt.ClassGetMethods(class, &it); !m.IsNull(); m = rt.ClassGetMethods(class, &it) {
//	    ...
//	}
//
// A cursor belongs to one enumeration on one goroutine and must not be
// shared.
package metadata
