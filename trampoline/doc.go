// Package trampoline synthesizes stand-ins for native symbols that could not
// be resolved.
//
// A trampoline has the exact shape the call site expects, so binding code
// stays type-correct, but calling it always fails with an
// errors.KindUnresolved error naming the missing symbol. Functions whose
// last result is error return it; all others panic with it. Nothing ever
// returns a silent zero value or jumps to an invalid native address.
//
// Three flavours exist:
//
//   - Func and Make build Go functions of any signature (icall stand-ins,
//     missing exports bound through the loader).
//   - Host builds wazero host functions with an exact WebAssembly
//     signature (guest imports).
//   - Placeholders mints non-null method handles for lookups that missed.
package trampoline
