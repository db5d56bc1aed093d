// Package pool keeps one Go wrapper per native object.
//
// Native reference-type objects are identified by their address. The pool
// maps each address to the wrapper created for it, so the same native
// object always surfaces as the same Go value:
//
//	p := pool.New()
//	w := p.GetOrCreate(ptr, func(ptr uintptr) any { return &Player{ptr: ptr} })
//	p.GetOrCreate(ptr, ...) == w // true
//
// Wrappers are not collected automatically. Call Forget when the native
// object is released, or Close to drop everything. Wrappers implementing
// Dropper are notified on removal.
//
// # Observers
//
// Observers receive an Event for every wrapper created or dropped:
//
//	unsubscribe := p.Subscribe(pool.ObserverFunc(func(e pool.Event) {
//	    if e.Type == pool.EventCreated { ... }
//	}))
//	defer unsubscribe()
package pool
