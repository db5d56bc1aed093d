package pool

import (
	"errors"
	"fmt"
	"sync"
)

var ErrClosed = errors.New("identity pool closed")

// Pool maps native object pointers to their Go wrappers.
// Safe for concurrent use.
type Pool struct {
	entries   map[uintptr]any
	observers []subscription
	mu        sync.RWMutex
	obsMu     sync.RWMutex
	nextID    uint64
	closed    bool
}

type subscription struct {
	o  Observer
	id uint64
}

// New creates an empty pool.
func New() *Pool {
	return &Pool{entries: make(map[uintptr]any, 64)}
}

// Get returns the wrapper registered for ptr.
func (p *Pool) Get(ptr uintptr) (any, bool) {
	if ptr == 0 {
		return nil, false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.entries[ptr]
	return v, ok
}

// GetOrCreate returns the wrapper for ptr, calling ctor to create it the
// first time ptr is seen. ctor runs at most once per pointer, under the
// pool lock, and must not call back into the pool. A null pointer or a
// closed pool yields nil.
func (p *Pool) GetOrCreate(ptr uintptr, ctor func(ptr uintptr) any) any {
	if ptr == 0 {
		return nil
	}
	if v, ok := p.Get(ptr); ok {
		return v
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	if v, ok := p.entries[ptr]; ok {
		p.mu.Unlock()
		return v
	}
	v := ctor(ptr)
	p.entries[ptr] = v
	p.mu.Unlock()

	p.notify(Event{Type: EventCreated, Pointer: ptr, Value: v})
	return v
}

// Wrap is the typed form of GetOrCreate. It fails when ptr is already
// wrapped by a value of another type.
func Wrap[T any](p *Pool, ptr uintptr, ctor func(ptr uintptr) T) (T, error) {
	var zero T
	if ptr == 0 {
		return zero, nil
	}
	v := p.GetOrCreate(ptr, func(ptr uintptr) any { return ctor(ptr) })
	if v == nil {
		return zero, ErrClosed
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("pointer 0x%x is wrapped by %T, not %T", ptr, v, zero)
	}
	return t, nil
}

// Forget removes the wrapper for ptr and returns it.
func (p *Pool) Forget(ptr uintptr) (any, bool) {
	p.mu.Lock()
	v, ok := p.entries[ptr]
	if ok {
		delete(p.entries, ptr)
	}
	p.mu.Unlock()
	if !ok {
		return nil, false
	}

	if d, ok := v.(Dropper); ok {
		d.Drop()
	}
	p.notify(Event{Type: EventDropped, Pointer: ptr, Value: v})
	return v, true
}

// Len returns the number of live wrappers.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.entries)
}

// Each calls fn for every wrapper until fn returns false. Order is
// unspecified.
func (p *Pool) Each(fn func(ptr uintptr, v any) bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for ptr, v := range p.entries {
		if !fn(ptr, v) {
			return
		}
	}
}

// Close drops every wrapper and stops accepting new ones.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	entries := p.entries
	p.entries = make(map[uintptr]any)
	p.mu.Unlock()

	for ptr, v := range entries {
		if d, ok := v.(Dropper); ok {
			d.Drop()
		}
		p.notify(Event{Type: EventDropped, Pointer: ptr, Value: v})
	}
	return nil
}

// Subscribe adds an observer for lifecycle events and returns a function
// that removes it. Calling the returned function more than once is a no-op.
func (p *Pool) Subscribe(o Observer) (unsubscribe func()) {
	p.obsMu.Lock()
	defer p.obsMu.Unlock()
	p.nextID++
	id := p.nextID
	p.observers = append(p.observers, subscription{o: o, id: id})

	return func() {
		p.obsMu.Lock()
		defer p.obsMu.Unlock()
		for i, s := range p.observers {
			if s.id == id {
				p.observers = append(p.observers[:i:i], p.observers[i+1:]...)
				return
			}
		}
	}
}

func (p *Pool) notify(e Event) {
	p.obsMu.RLock()
	defer p.obsMu.RUnlock()
	for _, s := range p.observers {
		s.o.OnPoolEvent(e)
	}
}
