package bridge

import (
	"bytes"
	"encoding/binary"
	"reflect"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"

	il2cppruntime "github.com/wippyai/il2cpp-runtime"
	"github.com/wippyai/il2cpp-runtime/errors"
	"github.com/wippyai/il2cpp-runtime/metadata"
	"github.com/wippyai/il2cpp-runtime/pool"
)

// Runtime is the native surface the bridge needs.
type Runtime interface {
	metadata.Objects
	metadata.Strings
	ClassIsValueType(c metadata.Class) bool
}

type kind uint8

const (
	kindValue kind = iota
	kindReference
	kindString
)

type binding struct {
	ctor  func(ptr uintptr) any
	class metadata.Class
	size  int
	kind  kind
}

// Bridge decodes native pointers into registered Go types.
// Registration must finish before concurrent loads begin.
type Bridge struct {
	rt       Runtime
	mem      il2cppruntime.Memory
	pool     *pool.Pool
	bindings map[reflect.Type]binding
	mu       sync.RWMutex
}

// New creates a bridge. A nil pool gets a fresh one.
func New(rt Runtime, mem il2cppruntime.Memory, p *pool.Pool) *Bridge {
	if p == nil {
		p = pool.New()
	}
	return &Bridge{
		rt:       rt,
		mem:      mem,
		pool:     p,
		bindings: make(map[reflect.Type]binding),
	}
}

// Pool returns the identity pool reference types are wrapped through.
func (b *Bridge) Pool() *pool.Pool { return b.pool }

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func (b *Bridge) register(t reflect.Type, bind binding) {
	b.mu.Lock()
	b.bindings[t] = bind
	b.mu.Unlock()
}

func (b *Bridge) lookup(t reflect.Type) (binding, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	bind, ok := b.bindings[t]
	return bind, ok
}

// RegisterValue binds the fixed-size Go type T to a native value-type
// class.
func RegisterValue[T any](b *Bridge, class metadata.Class) error {
	t := typeOf[T]()
	var zero T
	size := binary.Size(zero)
	if size <= 0 {
		return errors.New(errors.PhaseBridge, errors.KindUnsupported).
			GoType(t.String()).
			Detail("value types must have a fixed binary size").
			Build()
	}
	b.register(t, binding{class: class, kind: kindValue, size: size})
	return nil
}

// RegisterReference binds the Go wrapper type T to a native reference-type
// class. ctor builds the wrapper for a native object pointer.
func RegisterReference[T any](b *Bridge, class metadata.Class, ctor func(ptr uintptr) T) {
	b.register(typeOf[T](), binding{
		class: class,
		kind:  kindReference,
		ctor:  func(ptr uintptr) any { return ctor(ptr) },
	})
}

// RegisterString binds Go strings to the native string class.
func RegisterString(b *Bridge, class metadata.Class) {
	b.register(typeOf[string](), binding{class: class, kind: kindString})
}

// ClassOf returns the native class registered for T.
func ClassOf[T any](b *Bridge) (metadata.Class, bool) {
	bind, ok := b.lookup(typeOf[T]())
	return bind.class, ok
}

// Load decodes ptr as a T. ok is false when there is no value: a null
// reference or a null string.
func Load[T any](b *Bridge, ptr uintptr, isFieldPointer, alreadyBoxed bool) (value T, ok bool, err error) {
	t := typeOf[T]()
	bind, found := b.lookup(t)
	if !found {
		Logger().Debug("load of unregistered type", zap.String("type", t.String()))
		return value, false, errors.NotFound(errors.PhaseBridge, "class binding for", t.String())
	}

	valueType := b.rt.ClassIsValueType(bind.class)
	boxed := alreadyBoxed

	if isFieldPointer {
		if ptr == 0 {
			return value, false, errors.NilPointer(errors.PhaseBridge, []string{"field"}, t.String())
		}
		if valueType {
			ptr = b.rt.ValueBox(bind.class, ptr)
			boxed = true
		} else {
			ptr, err = b.mem.ReadPointer(ptr)
			if err != nil {
				return value, false, errors.Wrap(errors.PhaseBridge, errors.KindInvalidData, err, "read field slot")
			}
		}
	}

	if valueType && !boxed && ptr != 0 {
		ptr = b.rt.ValueBox(bind.class, ptr)
	}

	if bind.kind == kindString {
		s, ok, err := b.String(ptr)
		if err != nil || !ok {
			return value, false, err
		}
		return any(s).(T), true, nil
	}

	if ptr == 0 {
		return value, false, nil
	}

	if bind.kind == kindValue {
		value, err = unbox[T](b, ptr, bind.size)
		if err != nil {
			return value, false, err
		}
		return value, true, nil
	}

	v := b.pool.GetOrCreate(ptr, bind.ctor)
	if v == nil {
		return value, false, errors.Wrap(errors.PhaseBridge, errors.KindNotInitialized, pool.ErrClosed, "wrap object")
	}
	value, ok = v.(T)
	if !ok {
		return value, false, errors.TypeMismatch(errors.PhaseBridge, nil, t.String(), reflect.TypeOf(v).String())
	}
	return value, true, nil
}

func unbox[T any](b *Bridge, obj uintptr, size int) (T, error) {
	var v T
	data := b.rt.ObjectUnbox(obj)
	if data == 0 {
		return v, errors.NilPointer(errors.PhaseBridge, []string{"unbox"}, reflect.TypeOf(v).String())
	}
	raw, err := b.mem.Read(data, size)
	if err != nil {
		return v, errors.Wrap(errors.PhaseBridge, errors.KindInvalidData, err, "read value payload")
	}
	if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, &v); err != nil {
		return v, errors.Wrap(errors.PhaseBridge, errors.KindInvalidData, err, "decode value payload")
	}
	return v, nil
}

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// String decodes a native string object. ok is false for a null pointer.
func (b *Bridge) String(ptr uintptr) (s string, ok bool, err error) {
	if ptr == 0 {
		return "", false, nil
	}
	n := b.rt.StringLength(ptr)
	if n < 0 {
		return "", false, errors.New(errors.PhaseBridge, errors.KindInvalidData).
			Value(ptr).
			Detail("native string length %d", n).
			Build()
	}
	if n == 0 {
		return "", true, nil
	}
	raw, err := b.mem.Read(b.rt.StringChars(ptr), n*2)
	if err != nil {
		return "", false, errors.Wrap(errors.PhaseBridge, errors.KindInvalidData, err, "read string chars")
	}
	out, err := utf16le.NewDecoder().Bytes(raw)
	if err != nil {
		return "", false, errors.Wrap(errors.PhaseBridge, errors.KindInvalidData, err, "decode string")
	}
	return string(out), true, nil
}

// NewString allocates a native string holding s.
func (b *Bridge) NewString(s string) (uintptr, error) {
	raw, err := utf16le.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return 0, errors.Wrap(errors.PhaseBridge, errors.KindInvalidData, err, "encode string")
	}
	chars := make([]uint16, len(raw)/2)
	for i := range chars {
		chars[i] = binary.LittleEndian.Uint16(raw[2*i:])
	}
	return b.rt.StringNewUTF16(chars), nil
}
