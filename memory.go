package il2cppruntime

// Memory reads and writes native process memory. Addresses are native
// pointers handed out by the runtime.
type Memory interface {
	Read(addr uintptr, length int) ([]byte, error)
	Write(addr uintptr, data []byte) error
	ReadPointer(addr uintptr) (uintptr, error)
	WritePointer(addr uintptr, value uintptr) error
}

// FieldWriter stores object references into managed fields. Runtimes with
// a generational collector need a write barrier for such stores.
type FieldWriter interface {
	SetField(obj, slot, value uintptr)
}
