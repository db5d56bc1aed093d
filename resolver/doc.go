// Package resolver locates native metadata handles from descriptive
// queries.
//
// Lookups walk the native metadata graph through the accessor interfaces
// of package metadata. Each call owns its own enumeration cursor and keeps
// no state between calls, so a Resolver is safe for concurrent use once
// the image registry has been built.
//
// Failure handling depends on what was asked for:
//
//   - Classes, fields and nested types have no fallback. A miss is logged
//     at error level and returns the null handle.
//   - Methods never come back null. A miss yields a placeholder handle
//     whose first use through Invoke fails with errors.KindUnresolved.
//   - A signature query with no exact match but exactly one candidate of
//     the right name, arity and genericity returns that candidate as a
//     stub and logs the type mismatch at debug level.
//   - Intrinsic calls that the native table does not know are bound to a
//     trampoline of the requested function type.
//
// Type names in queries are compared after managed.Normalize, so
// "List`1" and "List" or "Outer+Inner" and "Outer.Inner" are equal.
package resolver
