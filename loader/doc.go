// Package loader opens the native runtime library and binds its exports to
// Go function variables.
//
// Libraries are opened with purego on unix systems and with
// golang.org/x/sys/windows on Windows; neither needs cgo.
//
// A Binder translates each requested export name through an exports.Map
// before looking it up, so callers always use true runtime names:
//
//	b := loader.NewBinder(lib, names)
//	var domainGet func() uintptr
//	b.Bind(&domainGet, "il2cpp_domain_get")
//	if err := b.Err(); err != nil {
//	    // err is an *errors.MissingExportsError listing every export
//	    // that was bound to a trampoline instead
//	}
//
// Exports that cannot be found are not fatal: the variable receives a
// trampoline that fails with errors.KindUnresolved when called.
package loader
