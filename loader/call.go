package loader

import "github.com/ebitengine/purego"

// Caller calls a native function with integer-class arguments and returns
// its integer-class result.
type Caller interface {
	Call(addr uintptr, args ...uintptr) uintptr
}

// SyscallCaller calls native functions through purego.SyscallN.
type SyscallCaller struct{}

// Call implements Caller.
func (SyscallCaller) Call(addr uintptr, args ...uintptr) uintptr {
	r1, _, _ := purego.SyscallN(addr, args...)
	return r1
}
