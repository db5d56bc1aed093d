package trampoline

import (
	"sync"
	"unsafe"

	"github.com/wippyai/il2cpp-runtime/metadata"
)

// Placeholders mints non-null method handles for symbols that could not be
// resolved. A handle is the address of a Go heap object the registry keeps
// alive, so it never collides with a native handle or with another
// placeholder. Minting is idempotent per key. Safe for concurrent use.
type Placeholders struct {
	byKey    map[string]*placeholder
	byHandle map[metadata.Method]*placeholder
	mu       sync.RWMutex
}

type placeholder struct {
	key string
}

// NewPlaceholders creates an empty registry.
func NewPlaceholders() *Placeholders {
	return &Placeholders{
		byKey:    make(map[string]*placeholder),
		byHandle: make(map[metadata.Method]*placeholder),
	}
}

// Method returns the placeholder handle for key.
func (p *Placeholders) Method(key string) metadata.Method {
	p.mu.RLock()
	ph, ok := p.byKey[key]
	p.mu.RUnlock()
	if ok {
		return handleOf(ph)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if ph, ok := p.byKey[key]; ok {
		return handleOf(ph)
	}
	ph = &placeholder{key: key}
	p.byKey[key] = ph
	p.byHandle[handleOf(ph)] = ph
	return handleOf(ph)
}

// Lookup returns the key of a placeholder handle. ok is false for handles
// this registry did not mint.
func (p *Placeholders) Lookup(m metadata.Method) (key string, ok bool) {
	if p == nil || m.IsNull() {
		return "", false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	ph, ok := p.byHandle[m]
	if !ok {
		return "", false
	}
	return ph.key, true
}

// Len returns the number of minted placeholders.
func (p *Placeholders) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.byKey)
}

func handleOf(ph *placeholder) metadata.Method {
	return metadata.Method(uintptr(unsafe.Pointer(ph)))
}
