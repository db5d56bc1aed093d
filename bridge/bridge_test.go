package bridge

import (
	"encoding/binary"
	"errors"
	"fmt"
	"testing"

	rterrors "github.com/wippyai/il2cpp-runtime/errors"
	"github.com/wippyai/il2cpp-runtime/metadata"
)

const (
	objectHeader = 16
	base         = 0x10000
)

// arena is a bump-allocated slice of fake native memory.
type arena struct {
	data []byte
}

func (a *arena) alloc(n int) uintptr {
	addr := uintptr(base + len(a.data))
	a.data = append(a.data, make([]byte, (n+7)&^7)...)
	return addr
}

func (a *arena) slice(addr uintptr, n int) ([]byte, error) {
	off := int(addr) - base
	if addr < base || off+n > len(a.data) {
		return nil, fmt.Errorf("address 0x%x+%d out of range", addr, n)
	}
	return a.data[off : off+n], nil
}

func (a *arena) Read(addr uintptr, n int) ([]byte, error) {
	s, err := a.slice(addr, n)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), s...), nil
}

func (a *arena) Write(addr uintptr, data []byte) error {
	s, err := a.slice(addr, len(data))
	if err != nil {
		return err
	}
	copy(s, data)
	return nil
}

func (a *arena) ReadPointer(addr uintptr) (uintptr, error) {
	s, err := a.slice(addr, 8)
	if err != nil {
		return 0, err
	}
	return uintptr(binary.LittleEndian.Uint64(s)), nil
}

func (a *arena) WritePointer(addr, value uintptr) error {
	s, err := a.slice(addr, 8)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(s, uint64(value))
	return nil
}

const (
	vectorClass metadata.Class = 1
	playerClass metadata.Class = 2
	stringClass metadata.Class = 3
)

type fakeRuntime struct {
	mem   *arena
	sizes map[metadata.Class]int
	boxes int
}

func newFake() *fakeRuntime {
	return &fakeRuntime{
		mem:   &arena{},
		sizes: map[metadata.Class]int{vectorClass: 12},
	}
}

func (f *fakeRuntime) ClassIsValueType(c metadata.Class) bool {
	_, ok := f.sizes[c]
	return ok
}

func (f *fakeRuntime) ValueBox(c metadata.Class, data uintptr) uintptr {
	f.boxes++
	size := f.sizes[c]
	obj := f.mem.alloc(objectHeader + size)
	payload, _ := f.mem.Read(data, size)
	_ = f.mem.Write(obj+objectHeader, payload)
	return obj
}

func (f *fakeRuntime) ObjectUnbox(obj uintptr) uintptr { return obj + objectHeader }

func (f *fakeRuntime) StringLength(s uintptr) int {
	b, _ := f.mem.Read(s+objectHeader, 4)
	return int(int32(binary.LittleEndian.Uint32(b)))
}

func (f *fakeRuntime) StringChars(s uintptr) uintptr { return s + objectHeader + 4 }

func (f *fakeRuntime) StringNewUTF16(chars []uint16) uintptr {
	s := f.mem.alloc(objectHeader + 4 + 2*len(chars))
	buf := make([]byte, 4+2*len(chars))
	binary.LittleEndian.PutUint32(buf, uint32(len(chars)))
	for i, c := range chars {
		binary.LittleEndian.PutUint16(buf[4+2*i:], c)
	}
	_ = f.mem.Write(s+objectHeader, buf)
	return s
}

type vector3 struct {
	X, Y, Z float32
}

type player struct {
	ptr uintptr
}

func setup(t *testing.T) (*Bridge, *fakeRuntime) {
	t.Helper()
	rt := newFake()
	b := New(rt, rt.mem, nil)
	if err := RegisterValue[vector3](b, vectorClass); err != nil {
		t.Fatal(err)
	}
	RegisterReference(b, playerClass, func(ptr uintptr) *player { return &player{ptr: ptr} })
	RegisterString(b, stringClass)
	return b, rt
}

func (f *fakeRuntime) rawVector(v vector3) uintptr {
	addr := f.mem.alloc(12)
	buf := make([]byte, 0, 12)
	buf, _ = binary.Append(buf, binary.LittleEndian, v)
	_ = f.mem.Write(addr, buf)
	return addr
}

func (f *fakeRuntime) slot(value uintptr) uintptr {
	addr := f.mem.alloc(8)
	_ = f.mem.WritePointer(addr, value)
	return addr
}

func TestLoad_ValueType(t *testing.T) {
	want := vector3{1, 2.5, -3}

	tests := []struct {
		name         string
		ptr          func(rt *fakeRuntime) uintptr
		isField      bool
		alreadyBoxed bool
		boxes        int
	}{
		{"raw payload is boxed then unboxed", func(rt *fakeRuntime) uintptr { return rt.rawVector(want) }, false, false, 1},
		{"boxed object is only unboxed", func(rt *fakeRuntime) uintptr {
			return rt.ValueBox(vectorClass, rt.rawVector(want))
		}, false, true, 1},
		{"field slot is boxed once", func(rt *fakeRuntime) uintptr { return rt.rawVector(want) }, true, false, 1},
		{"field slot ignores boxed flag", func(rt *fakeRuntime) uintptr { return rt.rawVector(want) }, true, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, rt := setup(t)
			ptr := tt.ptr(rt)

			got, ok, err := Load[vector3](b, ptr, tt.isField, tt.alreadyBoxed)
			if err != nil || !ok {
				t.Fatalf("Load = %v, %v", ok, err)
			}
			if got != want {
				t.Errorf("value = %+v, want %+v", got, want)
			}
			if rt.boxes != tt.boxes {
				t.Errorf("boxes = %d, want %d", rt.boxes, tt.boxes)
			}
		})
	}
}

func TestLoad_ValueTypeNull(t *testing.T) {
	b, rt := setup(t)
	_, ok, err := Load[vector3](b, 0, false, false)
	if err != nil || ok {
		t.Errorf("null value = %v, %v", ok, err)
	}
	if rt.boxes != 0 {
		t.Error("null pointer should not be boxed")
	}

	_, _, err = Load[vector3](b, 0, true, false)
	if !errors.Is(err, &rterrors.Error{Phase: rterrors.PhaseBridge, Kind: rterrors.KindNilPointer}) {
		t.Errorf("null field slot = %v, want nil_pointer", err)
	}
}

func TestLoad_Reference(t *testing.T) {
	b, rt := setup(t)
	obj := rt.mem.alloc(objectHeader)

	p1, ok, err := Load[*player](b, obj, false, false)
	if err != nil || !ok || p1.ptr != obj {
		t.Fatalf("Load = %+v, %v, %v", p1, ok, err)
	}

	p2, _, _ := Load[*player](b, rt.slot(obj), true, false)
	if p2 != p1 {
		t.Error("field slot should dereference once and reuse the pooled wrapper")
	}
	if b.Pool().Len() != 1 {
		t.Errorf("pool = %d, want 1", b.Pool().Len())
	}
	if rt.boxes != 0 {
		t.Error("reference types are never boxed")
	}

	none, ok, err := Load[*player](b, 0, false, false)
	if err != nil || ok || none != nil {
		t.Errorf("null reference = %v, %v, %v", none, ok, err)
	}
	none, ok, err = Load[*player](b, rt.slot(0), true, false)
	if err != nil || ok || none != nil {
		t.Errorf("null field = %v, %v, %v", none, ok, err)
	}
}

func TestLoad_String(t *testing.T) {
	b, rt := setup(t)

	for _, s := range []string{"Player", "héllo ✓", "", "𝄞 clef"} {
		ptr, err := b.NewString(s)
		if err != nil {
			t.Fatalf("NewString(%q): %v", s, err)
		}
		got, ok, err := Load[string](b, ptr, false, false)
		if err != nil || !ok || got != s {
			t.Errorf("Load(%q) = %q, %v, %v", s, got, ok, err)
		}

		viaField, ok, _ := Load[string](b, rt.slot(ptr), true, false)
		if !ok || viaField != s {
			t.Errorf("field Load(%q) = %q", s, viaField)
		}
	}

	if _, ok, err := Load[string](b, 0, false, false); ok || err != nil {
		t.Errorf("null string = %v, %v; want no value", ok, err)
	}
}

func TestLoad_StringNegativeLength(t *testing.T) {
	b, rt := setup(t)
	ptr, err := b.NewString("ab")
	if err != nil {
		t.Fatal(err)
	}
	if err := rt.mem.Write(ptr+objectHeader, []byte{0xFF, 0xFF, 0xFF, 0xFF}); err != nil {
		t.Fatal(err)
	}

	got, ok, err := Load[string](b, ptr, false, false)
	if !errors.Is(err, &rterrors.Error{Phase: rterrors.PhaseBridge, Kind: rterrors.KindInvalidData}) {
		t.Errorf("err = %v, want invalid_data", err)
	}
	if ok || got != "" {
		t.Errorf("Load = %q, %v; want no value", got, ok)
	}
}

func TestLoad_Unregistered(t *testing.T) {
	b, _ := setup(t)
	_, _, err := Load[float64](b, 0x1, false, false)
	if !errors.Is(err, &rterrors.Error{Phase: rterrors.PhaseBridge, Kind: rterrors.KindNotFound}) {
		t.Errorf("err = %v, want not_found", err)
	}
}

func TestLoad_ReadFailure(t *testing.T) {
	b, _ := setup(t)
	_, _, err := Load[*player](b, 0x1, true, false)
	if !errors.Is(err, &rterrors.Error{Phase: rterrors.PhaseBridge, Kind: rterrors.KindInvalidData}) {
		t.Errorf("err = %v, want invalid_data", err)
	}
}

func TestRegisterValue_VariableSize(t *testing.T) {
	b, _ := setup(t)
	if err := RegisterValue[int](b, 9); !errors.Is(err, &rterrors.Error{Phase: rterrors.PhaseBridge, Kind: rterrors.KindUnsupported}) {
		t.Errorf("err = %v, want unsupported", err)
	}
	if err := RegisterValue[[]byte](b, 9); err == nil {
		t.Error("slices have no fixed size")
	}
}

func TestClassOf(t *testing.T) {
	b, _ := setup(t)
	if c, ok := ClassOf[vector3](b); !ok || c != vectorClass {
		t.Errorf("ClassOf[vector3] = %v, %v", c, ok)
	}
	if c, ok := ClassOf[string](b); !ok || c != stringClass {
		t.Errorf("ClassOf[string] = %v, %v", c, ok)
	}
	if _, ok := ClassOf[int64](b); ok {
		t.Error("unregistered type should not have a class")
	}
}
