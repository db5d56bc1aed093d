package native

import (
	"unsafe"

	il2cppruntime "github.com/wippyai/il2cpp-runtime"
	"github.com/wippyai/il2cpp-runtime/errors"
)

// Memory accesses the memory of the current process directly.
type Memory struct{}

var _ il2cppruntime.Memory = Memory{}

func (Memory) Read(addr uintptr, length int) ([]byte, error) {
	if addr == 0 {
		return nil, errors.NilPointer(errors.PhaseBridge, []string{"read"}, "[]byte")
	}
	out := make([]byte, length)
	copy(out, unsafe.Slice((*byte)(unsafe.Pointer(addr)), length))
	return out, nil
}

func (Memory) Write(addr uintptr, data []byte) error {
	if addr == 0 {
		return errors.NilPointer(errors.PhaseBridge, []string{"write"}, "[]byte")
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(addr)), len(data)), data)
	return nil
}

func (Memory) ReadPointer(addr uintptr) (uintptr, error) {
	if addr == 0 {
		return 0, errors.NilPointer(errors.PhaseBridge, []string{"read"}, "uintptr")
	}
	return *(*uintptr)(unsafe.Pointer(addr)), nil
}

func (Memory) WritePointer(addr, value uintptr) error {
	if addr == 0 {
		return errors.NilPointer(errors.PhaseBridge, []string{"write"}, "uintptr")
	}
	*(*uintptr)(unsafe.Pointer(addr)) = value
	return nil
}

var _ il2cppruntime.FieldWriter = (*Runtime)(nil)

// SetField stores value into the reference field at slot of obj, through
// the collector's write barrier when the runtime exports one.
func (rt *Runtime) SetField(obj, slot, value uintptr) {
	if rt.hasWriteBarrier {
		rt.wbarrierSetField(obj, slot, value)
		return
	}
	*(*uintptr)(unsafe.Pointer(slot)) = value
}

// HasWriteBarrier reports whether SetField goes through the collector.
func (rt *Runtime) HasWriteBarrier() bool { return rt.hasWriteBarrier }
