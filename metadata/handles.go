package metadata

import "strconv"

// Domain is a native application domain.
type Domain uintptr

// Assembly is a native assembly.
type Assembly uintptr

// Image is the metadata image of an assembly.
type Image uintptr

// Class is a native class, possibly an inflated generic instance.
type Class uintptr

// Method is a native method.
type Method uintptr

// Field is a native field.
type Field uintptr

// Type is a native type reference.
type Type uintptr

// Iter is the enumeration cursor threaded through member iterators.
// The zero value starts a new enumeration.
type Iter uintptr

func (d Domain) IsNull() bool   { return d == 0 }
func (a Assembly) IsNull() bool { return a == 0 }
func (i Image) IsNull() bool    { return i == 0 }
func (c Class) IsNull() bool    { return c == 0 }
func (m Method) IsNull() bool   { return m == 0 }
func (f Field) IsNull() bool    { return f == 0 }
func (t Type) IsNull() bool     { return t == 0 }

func (c Class) String() string  { return "class@0x" + strconv.FormatUint(uint64(c), 16) }
func (m Method) String() string { return "method@0x" + strconv.FormatUint(uint64(m), 16) }
