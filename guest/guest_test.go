package guest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	rterrors "github.com/wippyai/il2cpp-runtime/errors"
	"github.com/wippyai/il2cpp-runtime/wat"
)

type icallTable map[string]uintptr

func (t icallTable) ICallAddress(signature string) (uintptr, bool) {
	addr, ok := t[signature]
	return addr, ok
}

type call struct {
	addr uintptr
	args []uintptr
}

type recordingCaller struct {
	calls []call
	ret   uintptr
}

func (c *recordingCaller) Call(addr uintptr, args ...uintptr) uintptr {
	c.calls = append(c.calls, call{addr, args})
	return c.ret
}

var (
	i32 = api.ValueTypeI32
	i64 = api.ValueTypeI64
	f32 = api.ValueTypeF32
)

// gameModule re-exports every unity import under the same name.
const gameModule = `(module
	(import "unity" "get_frame_count" (func $get_frame_count (result i32)))
	(import "unity" "destroy" (func $destroy (param i64 i32)))
	(import "unity" "get_delta_time" (func $get_delta_time (result f32)))
	(import "unity" "find" (func $find (param i64) (result i64)))
	(import "unity" "child_count" (func $child_count (param i64) (result i64)))
	(func (export "get_frame_count") (result i32)
		(call $get_frame_count))
	(func (export "destroy") (param i64 i32)
		(call $destroy (local.get 0) (local.get 1)))
	(func (export "get_delta_time") (result f32)
		(call $get_delta_time))
	(func (export "find") (param i64) (result i64)
		(call $find (local.get 0)))
	(func (export "child_count") (param i64) (result i64)
		(call $child_count (local.get 0))))`

func instantiateGame(t *testing.T, ctx context.Context, r wazero.Runtime) api.Module {
	t.Helper()
	wasm, err := wat.Compile(gameModule)
	if err != nil {
		t.Fatalf("wat compile: %v", err)
	}
	mod, err := r.InstantiateWithConfig(ctx, wasm, wazero.NewModuleConfig().WithName("game"))
	if err != nil {
		t.Fatalf("instantiate guest: %v", err)
	}
	return mod
}

func TestBuilder_Instantiate(t *testing.T) {
	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	icalls := icallTable{
		"UnityEngine.Time::get_frameCount":      0x100,
		"UnityEngine.Object::Destroy":           0x200,
		"UnityEngine.Time::get_deltaTime":       0x300,
		"UnityEngine.Transform::get_childCount": 0x400,
	}
	caller := &recordingCaller{ret: 0xFFFFFFFF_00000007}

	b := NewBuilder("unity").
		Define("get_frame_count", "UnityEngine.Time::get_frameCount", nil, []api.ValueType{i32}).
		Define("destroy", "UnityEngine.Object::Destroy", []api.ValueType{i64, i32}, nil).
		Define("get_delta_time", "UnityEngine.Time::get_deltaTime", nil, []api.ValueType{f32}).
		Define("find", "UnityEngine.GameObject::Find", []api.ValueType{i64}, []api.ValueType{i64}).
		Define("child_count", "UnityEngine.Transform::get_childCount", []api.ValueType{i64}, []api.ValueType{i64})

	if _, err := b.Instantiate(ctx, r, icalls, caller); err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	mod := instantiateGame(t, ctx, r)

	got := strings.Join(b.Unresolved(), ",")
	if got != "UnityEngine.Time::get_deltaTime,UnityEngine.GameObject::Find" {
		t.Errorf("Unresolved = %s", got)
	}

	res, err := mod.ExportedFunction("get_frame_count").Call(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if api.DecodeU32(res[0]) != 7 {
		t.Errorf("i32 result = 0x%x, want 7", res[0])
	}

	if _, err := mod.ExportedFunction("destroy").Call(ctx, 0xDEADBEEF_0000_0001, api.EncodeI32(-1)); err != nil {
		t.Fatal(err)
	}
	last := caller.calls[len(caller.calls)-1]
	if last.addr != 0x200 || len(last.args) != 2 || last.args[0] != 0xDEADBEEF_0000_0001 || last.args[1] != 0xFFFFFFFF {
		t.Errorf("destroy call = %+v", last)
	}

	res, err = mod.ExportedFunction("child_count").Call(ctx, 42)
	if err != nil || res[0] != 0xFFFFFFFF_00000007 {
		t.Errorf("i64 result = %v, %v", res, err)
	}

	for _, export := range []string{"get_delta_time", "find"} {
		fn := mod.ExportedFunction(export)
		if fn == nil {
			t.Fatalf("%s not exported", export)
		}
		args := make([]uint64, len(fn.Definition().ParamTypes()))
		if _, err := fn.Call(ctx, args...); err == nil || !strings.Contains(err.Error(), "was not resolved") {
			t.Errorf("%s err = %v, want unresolved trap", export, err)
		}
	}
	if len(caller.calls) != 3 {
		t.Errorf("native calls = %d, want 3", len(caller.calls))
	}
}

func TestBuilder_DuplicateExport(t *testing.T) {
	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	_, err := NewBuilder("unity").
		Define("f", "A::f", nil, nil).
		Define("f", "A::g", nil, nil).
		Instantiate(ctx, r, icallTable{}, &recordingCaller{})
	if !errors.Is(err, &rterrors.Error{Phase: rterrors.PhaseBind, Kind: rterrors.KindDuplicateKey}) {
		t.Errorf("err = %v, want duplicate_key", err)
	}
}

func TestBuilder_InvalidInput(t *testing.T) {
	_, err := NewBuilder("unity").Instantiate(context.Background(), nil, icallTable{}, &recordingCaller{})
	if !errors.Is(err, &rterrors.Error{Phase: rterrors.PhaseBind, Kind: rterrors.KindInvalidInput}) {
		t.Errorf("err = %v, want invalid_input", err)
	}
}
