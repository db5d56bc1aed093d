package wat

import (
	"context"
	"strings"
	"testing"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

func TestCompile_Empty(t *testing.T) {
	wasm, err := Compile("(module)")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if len(wasm) != 8 {
		t.Errorf("expected 8 bytes, got %d", len(wasm))
	}
	if wasm[0] != 0x00 || wasm[1] != 0x61 || wasm[2] != 0x73 || wasm[3] != 0x6D {
		t.Error("invalid WASM magic")
	}
}

func TestCompile_Instantiate(t *testing.T) {
	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	_, err := r.NewHostModuleBuilder("env").
		NewFunctionBuilder().
		WithFunc(func(a, b uint64) uint64 { return a*10 + b }).
		Export("combine").
		Instantiate(ctx)
	if err != nil {
		t.Fatalf("host module: %v", err)
	}

	wasm, err := Compile(`
		(module $guest
			;; imported before any definition
			(import "env" "combine" (func $combine (param i64 i64) (result i64)))
			(func $add (export "add") (param $a i32) (param $b i32) (result i32)
				(i32.add (local.get $a) (local.get $b)))
			(func (export "combine") (param i64) (result i64)
				(call $combine (local.get 0) (i64.const 7)))
			(func (export "answer") (result i32)
				(local $x i32)
				i32.const 40
				local.set $x
				(call $add (local.get $x) (i32.const 2)))
			(; block comment ;)
			(func (export "wrap") (result i32)
				(i32.wrap_i64 (i64.const 0x1_0000_0005)))
			(func (export "minus_one") (result i32) (i32.const 0xFFFFFFFF))
			(func (export "half") (result f32) (f32.const 0.5)))`)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	mod, err := r.InstantiateWithConfig(ctx, wasm, wazero.NewModuleConfig().WithName("guest"))
	if err != nil {
		t.Fatalf("Instantiate failed: %v", err)
	}

	tests := []struct {
		export string
		args   []uint64
		want   uint64
		wide   bool
	}{
		{"add", []uint64{2, 3}, 5, false},
		{"combine", []uint64{4}, 47, true},
		{"answer", nil, 42, false},
		{"wrap", nil, 5, false},
		{"minus_one", nil, 0xFFFFFFFF, false},
		{"half", nil, api.EncodeF32(0.5), false},
	}
	for _, tt := range tests {
		t.Run(tt.export, func(t *testing.T) {
			res, err := mod.ExportedFunction(tt.export).Call(ctx, tt.args...)
			if err != nil {
				t.Fatalf("call: %v", err)
			}
			got := res[0]
			if !tt.wide {
				got = uint64(api.DecodeU32(got))
			}
			if got != tt.want {
				t.Errorf("result = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name, wat, wantErr string
	}{
		{"missing_module", "(func)", "expected 'module'"},
		{"unclosed", "(module", "unexpected end"},
		{"unknown_instr", "(module (func (bogus)))", "unknown instruction"},
		{"unknown_type", "(module (func (param bogus)))", "unknown value type"},
		{"unknown_func", "(module (func (call $nope)))", "unknown function"},
		{"unknown_local", "(module (func (local.get $x)))", "unknown local"},
		{"local_range", "(module (func (param i32) (local.get 1)))", "out of range"},
		{"missing_immediate", "(module (func (i32.const)))", "expects an immediate"},
		{"import_after_func", `(module (func) (import "a" "b" (func)))`, "import after function"},
		{"unsupported_field", "(module (memory 1))", "unsupported module field"},
		{"duplicate_func", "(module (func $f) (func $f))", "duplicate function"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.wat)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q missing %q", err, tt.wantErr)
			}
		})
	}
}
