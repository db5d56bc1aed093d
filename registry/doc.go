// Package registry maps assembly names to native image handles.
//
// The registry is built once, after the native runtime is bound and before
// any symbol is resolved, by enumerating the assemblies of the current
// domain. It is read-only afterwards and safe for concurrent readers.
package registry
