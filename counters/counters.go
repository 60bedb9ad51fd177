// Package counters holds the activity accumulators shared between the input
// listeners (writers) and the reporters (reader and resetter).
//
// Every field is updated with its own atomic operation. Two fields read one
// after the other may reflect slightly different instants.
package counters

import (
	"math"
	"sync/atomic"
)

// PixelToMeter converts screen pixels to meters at 96 DPI.
const PixelToMeter = 0.0002645833

// Counter is an unsigned event count. The zero value is ready to use.
type Counter struct {
	v atomic.Uint64
}

// Inc adds one event.
func (c *Counter) Inc() {
	c.v.Add(1)
}

// Add adds delta events.
func (c *Counter) Add(delta uint64) {
	c.v.Add(delta)
}

// Load returns the current count without changing it.
func (c *Counter) Load() uint64 {
	return c.v.Load()
}

// ReadAndReset returns the current count and sets it to zero in one step.
func (c *Counter) ReadAndReset() uint64 {
	return c.v.Swap(0)
}

// Subtract removes a snapshot previously obtained with Load. Events counted
// after the snapshot stay in the counter. The count never goes below zero.
func (c *Counter) Subtract(snapshot uint64) {
	for {
		cur := c.v.Load()
		next := uint64(0)
		if cur > snapshot {
			next = cur - snapshot
		}
		if c.v.CompareAndSwap(cur, next) {
			return
		}
	}
}

// Distance accumulates a non-negative float64, stored as IEEE-754 bits so it
// can be updated with compare-and-swap.
type Distance struct {
	bits atomic.Uint64
}

// Add accumulates delta.
func (d *Distance) Add(delta float64) {
	for {
		old := d.bits.Load()
		next := math.Float64bits(math.Float64frombits(old) + delta)
		if d.bits.CompareAndSwap(old, next) {
			return
		}
	}
}

// Load returns the accumulated value without changing it.
func (d *Distance) Load() float64 {
	return math.Float64frombits(d.bits.Load())
}

// ReadAndReset returns the accumulated value and sets it to zero in one step.
func (d *Distance) ReadAndReset() float64 {
	// the bit pattern of +0.0 is all zeroes
	return math.Float64frombits(d.bits.Swap(0))
}

// Subtract removes a snapshot previously obtained with Load, keeping anything
// accumulated after it. The value never goes below zero.
func (d *Distance) Subtract(snapshot float64) {
	for {
		old := d.bits.Load()
		next := math.Float64frombits(old) - snapshot
		if next < 0 {
			next = 0
		}
		if d.bits.CompareAndSwap(old, math.Float64bits(next)) {
			return
		}
	}
}

// Keyboard holds the keypress count.
type Keyboard struct {
	Keypress Counter
}

// NewKeyboard returns zeroed keyboard counters.
func NewKeyboard() *Keyboard {
	return &Keyboard{}
}

// Mouse holds click counts and cursor travel in pixels.
type Mouse struct {
	LeftClick  Counter
	RightClick Counter
	Travel     Distance
}

// NewMouse returns zeroed mouse counters.
func NewMouse() *Mouse {
	return &Mouse{}
}

// MouseSnapshot is a point-in-time read of Mouse.
type MouseSnapshot struct {
	LeftClick  uint64
	RightClick uint64
	Travel     float64
}

// TravelMeters converts the pixel travel to meters.
func (s MouseSnapshot) TravelMeters() float64 {
	return s.Travel * PixelToMeter
}

// Snapshot reads all mouse fields without resetting them.
func (m *Mouse) Snapshot() MouseSnapshot {
	return MouseSnapshot{
		LeftClick:  m.LeftClick.Load(),
		RightClick: m.RightClick.Load(),
		Travel:     m.Travel.Load(),
	}
}

// Subtract removes a snapshot taken with Snapshot from every field.
func (m *Mouse) Subtract(s MouseSnapshot) {
	m.LeftClick.Subtract(s.LeftClick)
	m.RightClick.Subtract(s.RightClick)
	m.Travel.Subtract(s.Travel)
}
