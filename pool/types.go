package pool

// EventType identifies a wrapper lifecycle event.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDropped
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventDropped:
		return "dropped"
	}
	return "unknown"
}

// Event describes a wrapper lifecycle event.
type Event struct {
	Value   any
	Pointer uintptr
	Type    EventType
}

// Observer receives wrapper lifecycle events.
type Observer interface {
	OnPoolEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) OnPoolEvent(e Event) { f(e) }

// Dropper is optionally implemented by wrappers that need cleanup when
// their native object is forgotten.
type Dropper interface {
	Drop()
}
