package loader

import (
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/il2cpp-runtime/errors"
)

// Library is an opened native library.
type Library struct {
	path   string
	handle uintptr
	mu     sync.Mutex
	closed bool
}

// FileName returns the platform file name for a library base name. Names
// that already carry an extension are returned unchanged.
func FileName(name string) string {
	if filepath.Ext(name) != "" {
		return name
	}
	switch runtime.GOOS {
	case "windows":
		return name + ".dll"
	case "darwin":
		return name + ".dylib"
	default:
		return name + ".so"
	}
}

// Open loads the library at path.
func Open(path string) (*Library, error) {
	handle, err := open(path)
	if err != nil {
		return nil, errors.New(errors.PhaseBind, errors.KindNotFound).
			Source(path).
			Cause(err).
			Detail("cannot open native library").
			Build()
	}
	Logger().Debug("native library opened", zap.String("path", path))
	return &Library{path: path, handle: handle}, nil
}

// Name returns the library's base name without extension.
func (l *Library) Name() string {
	base := filepath.Base(l.path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Path returns the path the library was opened from.
func (l *Library) Path() string { return l.path }

// Symbol returns the address of the export name.
func (l *Library) Symbol(name string) (uintptr, error) {
	l.mu.Lock()
	closed := l.closed
	l.mu.Unlock()
	if closed {
		return 0, errors.NotInitialized(errors.PhaseBind, "library "+l.Name())
	}

	addr, err := symbol(l.handle, name)
	if err != nil {
		return 0, err
	}
	if addr == 0 {
		return 0, errors.NotFound(errors.PhaseBind, "export", name)
	}
	return addr, nil
}

// Close unloads the library. Functions bound from it must not be called
// afterwards.
func (l *Library) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	return closeLib(l.handle)
}
