package runtime

import (
	stderrors "errors"

	"go.uber.org/zap"

	"github.com/wippyai/il2cpp-runtime/bridge"
	"github.com/wippyai/il2cpp-runtime/errors"
	"github.com/wippyai/il2cpp-runtime/exports"
	"github.com/wippyai/il2cpp-runtime/guest"
	"github.com/wippyai/il2cpp-runtime/loader"
	"github.com/wippyai/il2cpp-runtime/metadata"
	"github.com/wippyai/il2cpp-runtime/native"
	"github.com/wippyai/il2cpp-runtime/pool"
	"github.com/wippyai/il2cpp-runtime/registry"
	"github.com/wippyai/il2cpp-runtime/resolver"
	"github.com/wippyai/il2cpp-runtime/trampoline"
)

// Runtime is an opened native runtime with every component wired.
type Runtime struct {
	Names    *exports.Map
	Native   *native.Runtime
	Images   *registry.Images
	Resolver *resolver.Resolver
	// Bridge and Native are nil for runtimes built with New.
	Bridge *bridge.Bridge

	library *loader.Library
	missing error
}

// SetLoggers installs l in every package of the module.
func SetLoggers(l *zap.Logger) {
	SetLogger(l)
	exports.SetLogger(l)
	loader.SetLogger(l)
	native.SetLogger(l)
	registry.SetLogger(l)
	resolver.SetLogger(l)
	trampoline.SetLogger(l)
	bridge.SetLogger(l)
	guest.SetLogger(l)
}

// Open loads the export name map, opens and binds the native library, and
// builds the image registry and resolver. Missing exports are logged and
// reported by MissingExports; they fail Open only with StrictExports.
func Open(cfg Config) (*Runtime, error) {
	cfg = cfg.WithDefaults()
	l, err := cfg.logger()
	if err != nil {
		return nil, err
	}
	SetLoggers(l)

	names, err := exports.LoadFiles(cfg.Names.Obfuscated, cfg.Names.True)
	if err != nil {
		return nil, err
	}

	libPath := loader.FileName(cfg.Library)
	if err := exports.CheckFingerprint(cfg.Fingerprint, libPath); err != nil {
		if cfg.StrictFingerprint {
			return nil, err
		}
		Logger().Warn("export name map may not match library",
			zap.String("library", libPath),
			zap.Error(err),
		)
	}

	lib, err := loader.Open(libPath)
	if err != nil {
		return nil, err
	}

	nrt, missing := native.Open(lib, names)
	if missing != nil {
		if cfg.StrictExports {
			_ = lib.Close()
			return nil, missing
		}
		Logger().Warn("native runtime bound with missing exports", zap.Error(missing))
	}

	rt := newRuntime(nrt, resolver.WithBinder(nrt.Binder()))
	rt.Names = names
	rt.Native = nrt
	rt.library = lib
	rt.missing = missing
	rt.Bridge = bridge.New(nrt, native.Memory{}, pool.New())

	Logger().Info("native runtime opened",
		zap.String("library", lib.Path()),
		zap.Int("names", names.Len()),
		zap.Int("images", rt.Images.Len()),
	)
	return rt, nil
}

// New wires a registry and resolver over an already available metadata
// source, such as a snapshot.
func New(md metadata.Runtime, opts ...resolver.Option) *Runtime {
	return newRuntime(md, opts...)
}

func newRuntime(md metadata.Runtime, opts ...resolver.Option) *Runtime {
	images := registry.Build(md)
	return &Runtime{
		Images:   images,
		Resolver: resolver.New(md, images, opts...),
	}
}

// MissingExports returns the *errors.MissingExportsError recorded while
// binding, or nil.
func (rt *Runtime) MissingExports() error { return rt.missing }

// Close releases the bridge's object pool and unloads the native library.
// Handles and functions obtained from the runtime must not be used
// afterwards.
func (rt *Runtime) Close() error {
	var errs []error
	if rt.Bridge != nil {
		errs = append(errs, rt.Bridge.Pool().Close())
	}
	if rt.library != nil {
		if err := rt.library.Close(); err != nil {
			errs = append(errs, errors.Wrap(errors.PhaseBind, errors.KindInvalidData, err, "close library"))
		}
	}
	return stderrors.Join(errs...)
}
