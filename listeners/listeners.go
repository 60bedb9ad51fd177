// Package listeners turns raw input events from a Hook into counter updates.
package listeners

import (
	"context"
	"fmt"

	"github.com/mobile-next/inputmeter/counters"
	"github.com/mobile-next/inputmeter/types"
)

// Hook is the OS input source. Every registration returns a release function
// that stops delivery to that callback.
type Hook interface {
	OnKeyDown(fn func()) (func(), error)
	OnMouseDown(fn func(types.Button)) (func(), error)
	OnMouseMove(fn func(types.Position)) (func(), error)
}

// Listener blocks in Run until ctx is cancelled or registration fails.
type Listener interface {
	Name() string
	Run(ctx context.Context) error
}

func hold(ctx context.Context, name string, register func() (func(), error)) error {
	release, err := register()
	if err != nil {
		return fmt.Errorf("%s listener: failed to register with input hook: %w", name, err)
	}
	defer release()

	<-ctx.Done()
	return nil
}

type Keyboard struct {
	hook     Hook
	counters *counters.Keyboard
}

func NewKeyboard(hook Hook, c *counters.Keyboard) *Keyboard {
	return &Keyboard{hook: hook, counters: c}
}

func (k *Keyboard) Name() string {
	return "keyboard"
}

func (k *Keyboard) Run(ctx context.Context) error {
	return hold(ctx, k.Name(), func() (func(), error) {
		return k.hook.OnKeyDown(k.counters.Keypress.Inc)
	})
}

type Buttons struct {
	hook     Hook
	counters *counters.Mouse
}

func NewButtons(hook Hook, c *counters.Mouse) *Buttons {
	return &Buttons{hook: hook, counters: c}
}

func (b *Buttons) Name() string {
	return "mouse-buttons"
}

func (b *Buttons) Run(ctx context.Context) error {
	return hold(ctx, b.Name(), func() (func(), error) {
		return b.hook.OnMouseDown(b.handle)
	})
}

func (b *Buttons) handle(button types.Button) {
	switch button {
	case types.ButtonLeft:
		b.counters.LeftClick.Inc()
	case types.ButtonRight:
		b.counters.RightClick.Inc()
	}
}

type Movement struct {
	hook     Hook
	counters *counters.Mouse
	tracker  *DistanceTracker
}

func NewMovement(hook Hook, c *counters.Mouse) *Movement {
	return &Movement{hook: hook, counters: c, tracker: NewDistanceTracker()}
}

func (m *Movement) Name() string {
	return "mouse-movement"
}

func (m *Movement) Run(ctx context.Context) error {
	return hold(ctx, m.Name(), func() (func(), error) {
		return m.hook.OnMouseMove(m.handle)
	})
}

func (m *Movement) handle(pos types.Position) {
	m.counters.Travel.Add(m.tracker.Step(pos))
}
