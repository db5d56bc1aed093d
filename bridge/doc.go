// Package bridge converts native pointers into Go values.
//
// Each Go type that crosses the boundary is registered with the native
// class it stands for. The registration decides how a pointer is read:
//
//   - value types are boxed when needed and then unboxed into a Go value
//     of the registered type, decoded little-endian with encoding/binary
//   - strings are decoded from UTF-16
//   - reference types are wrapped through the identity pool, so one native
//     object always maps to one Go wrapper
//
// Load takes two flags. isFieldPointer says ptr addresses a field slot
// rather than an object: value-type slots are boxed in place and
// reference slots are dereferenced once. alreadyBoxed says a value-type
// ptr already points at a boxed object rather than a raw payload.
package bridge
