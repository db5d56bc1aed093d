// Package wat compiles a subset of the WebAssembly Text format into
// binary WASM, so guest modules for tests and examples can be written
// by hand.
//
// Basic usage:
//
//	wasm, err := wat.Compile(`(module
//		(import "unity" "get_frame_count" (func $frames (result i32)))
//		(func (export "frames") (result i32)
//			(call $frames)))`)
//
// Supported:
//   - Function imports with inline params and results
//   - Functions with params, results, locals (named and indexed) and exports
//   - call, local.get/set/tee, drop, nop, unreachable, return
//   - Constants for i32, i64, f32 and f64
//   - i32/i64 add and sub, i32.wrap_i64, i64.extend_i32_s/u
//   - Folded and flat instruction forms
//   - Comments: line (;;) and block (; ;)
//
// Memories, tables, globals, control flow and type definitions are not
// supported.
package wat
