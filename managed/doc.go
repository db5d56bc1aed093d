// Package managed describes managed (binding-side) types and renders them to
// the names the native runtime reports.
//
// Comparisons between a binding's expectations and native metadata are plain
// string equality, so both sides must agree on one spelling. Render produces
// that spelling for a Type; Normalize cleans a name that was rendered
// elsewhere.
//
//	list := managed.Generic(managed.Named("System.Collections.Generic.List`1"), managed.Int32)
//	managed.Render(list, false) // "System.Collections.Generic.List<System.Int32>"
package managed
