// Package guest exposes native intrinsic calls to WebAssembly guests as a
// wazero host module.
//
//	mod, err := guest.NewBuilder("unity").
//	    Define("get_frame_count", "UnityEngine.Time::get_frameCount", nil,
//	        []api.ValueType{api.ValueTypeI32}).
//	    Instantiate(ctx, wazeroRuntime, res, loader.SyscallCaller{})
//
// Intrinsics the runtime does not know are still exported with the shape
// the guest imports, so the guest links; calling one traps with
// errors.KindUnresolved.
package guest
