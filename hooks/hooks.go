// Package hooks owns the single OS input hook and fans its events out to the
// callbacks registered by listeners.
package hooks

import (
	"errors"
	"fmt"
	"sync"

	"github.com/mobile-next/inputmeter/types"
	"github.com/mobile-next/inputmeter/utils"
)

// ErrUnavailable is returned when no OS input hook can be started.
var ErrUnavailable = errors.New("input hook unavailable")

var errClosed = errors.New("input hook closed")

type Kind int

const (
	KindKeyDown Kind = iota + 1
	KindMouseDown
	KindMouseMove
)

func (k Kind) String() string {
	switch k {
	case KindKeyDown:
		return "key-down"
	case KindMouseDown:
		return "mouse-down"
	case KindMouseMove:
		return "mouse-move"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Event is a normalized input event. Button is set for KindMouseDown and
// Position for KindMouseMove.
type Event struct {
	Kind     Kind
	Button   types.Button
	Position types.Position
}

// Backend starts the OS event loop. The returned channel is closed once stop
// has been called and the loop has exited.
type Backend func() (events <-chan Event, stop func(), err error)

type GoHook struct {
	backend Backend

	mu      sync.RWMutex
	started bool
	closed  bool
	stop    func()
	done    chan struct{}
	nextID  int
	keys    map[int]func()
	buttons map[int]func(types.Button)
	moves   map[int]func(types.Position)
}

// New returns a hook backed by the platform backend. Nothing is started until
// the first registration.
func New() *GoHook {
	return NewWithBackend(platformBackend)
}

func NewWithBackend(backend Backend) *GoHook {
	return &GoHook{
		backend: backend,
		keys:    make(map[int]func()),
		buttons: make(map[int]func(types.Button)),
		moves:   make(map[int]func(types.Position)),
	}
}

// ensureStarted must be called with mu held for writing.
func (h *GoHook) ensureStarted() error {
	if h.closed {
		return errClosed
	}
	if h.started {
		return nil
	}

	events, stop, err := h.backend()
	if err != nil {
		return fmt.Errorf("failed to start input hook: %w", err)
	}

	h.started = true
	h.stop = stop
	h.done = make(chan struct{})
	go h.loop(events, h.done)

	utils.Verbose("input hook started")
	return nil
}

func (h *GoHook) loop(events <-chan Event, done chan struct{}) {
	defer close(done)
	for ev := range events {
		h.dispatch(ev)
	}
}

func (h *GoHook) dispatch(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	switch ev.Kind {
	case KindKeyDown:
		for _, fn := range h.keys {
			fn()
		}
	case KindMouseDown:
		for _, fn := range h.buttons {
			fn(ev.Button)
		}
	case KindMouseMove:
		for _, fn := range h.moves {
			fn(ev.Position)
		}
	}
}

func (h *GoHook) register(add func(id int)) (func(), error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.ensureStarted(); err != nil {
		return nil, err
	}

	h.nextID++
	id := h.nextID
	add(id)

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.keys, id)
			delete(h.buttons, id)
			delete(h.moves, id)
			h.mu.Unlock()
		})
	}, nil
}

func (h *GoHook) OnKeyDown(fn func()) (func(), error) {
	return h.register(func(id int) { h.keys[id] = fn })
}

func (h *GoHook) OnMouseDown(fn func(types.Button)) (func(), error) {
	return h.register(func(id int) { h.buttons[id] = fn })
}

func (h *GoHook) OnMouseMove(fn func(types.Position)) (func(), error) {
	return h.register(func(id int) { h.moves[id] = fn })
}

// Close stops the OS hook and waits for the event loop to drain. Further
// registrations fail.
func (h *GoHook) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	started, stop, done := h.started, h.stop, h.done
	h.mu.Unlock()

	if !started {
		return nil
	}

	stop()
	<-done
	utils.Verbose("input hook stopped")
	return nil
}
