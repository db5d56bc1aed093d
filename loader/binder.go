package loader

import (
	"fmt"
	"sync"

	"github.com/ebitengine/purego"
	"go.uber.org/zap"

	"github.com/wippyai/il2cpp-runtime/errors"
	"github.com/wippyai/il2cpp-runtime/exports"
	"github.com/wippyai/il2cpp-runtime/trampoline"
)

// Symbols looks up export addresses in a native library.
type Symbols interface {
	Name() string
	Symbol(name string) (uintptr, error)
}

// Binder binds exports of one library to Go function variables, mapping
// requested names through an export name map first.
// Safe for concurrent use.
type Binder struct {
	syms    Symbols
	names   *exports.Map
	missing []errors.MissingExport
	bound   int
	mu      sync.Mutex
}

// NewBinder creates a binder. A nil names map only passes through
// non-runtime exports.
func NewBinder(syms Symbols, names *exports.Map) *Binder {
	return &Binder{syms: syms, names: names}
}

// Address returns the address of the export requested under name.
func (b *Binder) Address(name string) (uintptr, error) {
	trueName, ok := b.names.Export(name)
	if !ok {
		return 0, errors.New(errors.PhaseBind, errors.KindMissingExport).
			Source(b.syms.Name()).
			Value(name).
			Detail("no true name mapped for %s", name).
			Build()
	}
	addr, err := b.syms.Symbol(trueName)
	if err != nil {
		return 0, errors.New(errors.PhaseBind, errors.KindMissingExport).
			Source(b.syms.Name()).
			Value(name).
			Cause(err).
			Detail("%s (exported as %s) not found", name, trueName).
			Build()
	}
	return addr, nil
}

// Bind stores a callable for the export name in the function variable fptr
// points to and reports whether the native export was bound. When it was
// not, fptr receives a trampoline and the export is recorded for Err.
func (b *Binder) Bind(fptr any, name string) bool {
	addr, err := b.Address(name)
	if err == nil {
		err = b.BindAddress(fptr, addr)
	}
	if err == nil {
		b.mu.Lock()
		b.bound++
		b.mu.Unlock()
		return true
	}

	reason := "not found"
	if e, ok := err.(*errors.Error); ok && e.Detail != "" {
		reason = e.Detail
	}
	Logger().Warn("native export not bound",
		zap.String("library", b.syms.Name()),
		zap.String("export", name),
		zap.String("reason", reason),
	)
	b.mu.Lock()
	b.missing = append(b.missing, errors.MissingExport{Library: b.syms.Name(), Name: name, Reason: reason})
	b.mu.Unlock()

	if terr := trampoline.Bind(fptr, "export "+name); terr != nil {
		Logger().Error("cannot bind trampoline", zap.String("export", name), zap.Error(terr))
	}
	return false
}

// BindOptional binds the export name if it exists and reports whether it
// did. Absent optional exports leave fptr untouched and are not recorded.
func (b *Binder) BindOptional(fptr any, name string) bool {
	addr, err := b.Address(name)
	if err != nil {
		Logger().Debug("optional export absent", zap.String("export", name))
		return false
	}
	if err := b.BindAddress(fptr, addr); err != nil {
		Logger().Warn("optional export not bindable", zap.String("export", name), zap.Error(err))
		return false
	}
	b.mu.Lock()
	b.bound++
	b.mu.Unlock()
	return true
}

// BindAddress stores a callable for the native function at addr in the
// function variable fptr points to.
func (b *Binder) BindAddress(fptr any, addr uintptr) (err error) {
	if addr == 0 {
		return errors.NilPointer(errors.PhaseBind, nil, fmt.Sprintf("%T", fptr))
	}
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.PhaseBind, errors.KindUnsupported).
				GoType(fmt.Sprintf("%T", fptr)).
				Detail("%v", r).
				Build()
		}
	}()
	purego.RegisterFunc(fptr, addr)
	return nil
}

// Bound returns the number of exports bound to native code.
func (b *Binder) Bound() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bound
}

// Missing returns the exports bound to trampolines so far.
func (b *Binder) Missing() []errors.MissingExport {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]errors.MissingExport, len(b.missing))
	copy(out, b.missing)
	return out
}

// Err returns an *errors.MissingExportsError when any export was bound to
// a trampoline, nil otherwise.
func (b *Binder) Err() error {
	missing := b.Missing()
	if len(missing) == 0 {
		return nil
	}
	return errors.NewMissingExportsError(missing)
}
