package guest

import (
	"context"
	"slices"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/il2cpp-runtime/errors"
	"github.com/wippyai/il2cpp-runtime/trampoline"
)

// ICalls looks up intrinsic call entry points. *resolver.Resolver
// implements it.
type ICalls interface {
	ICallAddress(signature string) (uintptr, bool)
}

// Caller calls a native entry point with integer arguments.
// loader.SyscallCaller implements it.
type Caller interface {
	Call(addr uintptr, args ...uintptr) uintptr
}

type definition struct {
	export    string
	signature string
	params    []api.ValueType
	results   []api.ValueType
}

// Builder collects intrinsic calls to expose as functions of one host
// module.
type Builder struct {
	module     string
	defs       []definition
	unresolved []string
}

// NewBuilder creates a builder for the host module named module.
func NewBuilder(module string) *Builder {
	return &Builder{module: module}
}

// Define exports the intrinsic call signature as export with the given
// guest-visible shape. Only integer value types can reach native code; an
// intrinsic with float values or more than one result is exported as a
// trap.
func (b *Builder) Define(export, signature string, params, results []api.ValueType) *Builder {
	b.defs = append(b.defs, definition{
		export:    export,
		signature: signature,
		params:    slices.Clone(params),
		results:   slices.Clone(results),
	})
	return b
}

// Unresolved returns the signatures exported as traps by the last
// Instantiate.
func (b *Builder) Unresolved() []string {
	return slices.Clone(b.unresolved)
}

// Instantiate resolves every defined intrinsic and instantiates the host
// module in r. Unresolved intrinsics become exports that trap with
// errors.KindUnresolved when the guest calls them.
func (b *Builder) Instantiate(ctx context.Context, r wazero.Runtime, icalls ICalls, caller Caller) (api.Module, error) {
	if r == nil || icalls == nil || caller == nil {
		return nil, errors.InvalidInput(errors.PhaseBind, "guest module needs a runtime, an icall resolver and a caller")
	}

	seen := make(map[string]bool, len(b.defs))
	b.unresolved = b.unresolved[:0]
	builder := r.NewHostModuleBuilder(b.module)

	for _, d := range b.defs {
		if seen[d.export] {
			return nil, errors.DuplicateKey(errors.PhaseBind, b.module, d.export)
		}
		seen[d.export] = true

		addr, ok := icalls.ICallAddress(d.signature)
		if ok && !integral(d) {
			Logger().Warn("intrinsic has a shape native calls cannot carry",
				zap.String("export", d.export),
				zap.String("signature", d.signature),
			)
			ok = false
		}
		if !ok {
			b.unresolved = append(b.unresolved, d.signature)
			builder = trampoline.ExportHost(builder, d.export, "icall "+d.signature, d.params, d.results)
			continue
		}

		builder = builder.NewFunctionBuilder().
			WithGoModuleFunction(forward(caller, addr, d), d.params, d.results).
			WithName(d.export).
			Export(d.export)
	}

	Logger().Debug("guest module built",
		zap.String("module", b.module),
		zap.Int("exports", len(b.defs)),
		zap.Strings("unresolved", b.unresolved),
	)
	return builder.Instantiate(ctx)
}

func integral(d definition) bool {
	if len(d.results) > 1 {
		return false
	}
	for _, t := range slices.Concat(d.params, d.results) {
		if t != api.ValueTypeI32 && t != api.ValueTypeI64 {
			return false
		}
	}
	return true
}

// forward passes the guest's stack values to the native entry point.
// i32 values are zero-extended.
func forward(caller Caller, addr uintptr, d definition) api.GoModuleFunction {
	return api.GoModuleFunc(func(_ context.Context, _ api.Module, stack []uint64) {
		args := make([]uintptr, len(d.params))
		for i, t := range d.params {
			if t == api.ValueTypeI32 {
				args[i] = uintptr(api.DecodeU32(stack[i]))
			} else {
				args[i] = uintptr(stack[i])
			}
		}
		ret := caller.Call(addr, args...)
		if len(d.results) == 1 {
			if d.results[0] == api.ValueTypeI32 {
				stack[0] = api.EncodeU32(uint32(ret))
			} else {
				stack[0] = uint64(ret)
			}
		}
	})
}
