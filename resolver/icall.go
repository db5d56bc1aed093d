package resolver

import (
	"go.uber.org/zap"

	"github.com/wippyai/il2cpp-runtime/errors"
	"github.com/wippyai/il2cpp-runtime/metadata"
	"github.com/wippyai/il2cpp-runtime/trampoline"
)

// ICallAddress returns the native entry point of an intrinsic call, e.g.
// "UnityEngine.Time::get_time".
func (r *Resolver) ICallAddress(signature string) (uintptr, bool) {
	addr := r.rt.ResolveICall(signature)
	if addr == 0 {
		Logger().Debug("icall not found", zap.String("signature", signature))
		return 0, false
	}
	return addr, true
}

// ICall returns the intrinsic call signature as a function of type F. When
// the call is unknown, or its address cannot be bound, the result is a
// trampoline that fails on use.
func ICall[F any](r *Resolver, signature string) F {
	description := "icall " + signature

	addr, ok := r.ICallAddress(signature)
	if !ok {
		return trampoline.Func[F](description)
	}
	if r.binder == nil {
		Logger().Warn("icall resolved but no binder configured", zap.String("signature", signature))
		return trampoline.Func[F](description)
	}

	var fn F
	if err := r.binder.BindAddress(&fn, addr); err != nil {
		Logger().Warn("icall bind failed",
			zap.String("signature", signature),
			zap.Error(err),
		)
		return trampoline.Func[F](description)
	}
	return fn
}

// Invoke calls method on obj. A placeholder handle fails with
// errors.KindUnresolved naming what was looked up. A thrown managed
// exception is returned as errors.KindException.
func (r *Resolver) Invoke(method metadata.Method, obj uintptr, args ...uintptr) (uintptr, error) {
	if key, ok := r.placeholders.Lookup(method); ok {
		Logger().Error("unresolved method invoked", zap.String("method", key))
		return 0, trampoline.Error("method " + key)
	}
	if method.IsNull() {
		return 0, errors.NilPointer(errors.PhaseInvoke, nil, "metadata.Method")
	}
	if r.invoker == nil {
		return 0, errors.NotInitialized(errors.PhaseInvoke, "native invoker")
	}

	result, exc := r.invoker.RuntimeInvoke(method, obj, args)
	if exc != 0 {
		class := r.className(r.rt.MethodGetClass(method))
		return 0, errors.Exception([]string{class, r.rt.MethodGetName(method)}, exc)
	}
	return result, nil
}
