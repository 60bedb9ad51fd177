package listeners

import (
	"math"
	"sync"

	"github.com/mobile-next/inputmeter/types"
)

// DistanceTracker converts absolute cursor positions into travelled pixels.
// The previous position starts at the origin, so the first step is measured
// from (0,0).
type DistanceTracker struct {
	mu   sync.Mutex
	last types.Position
}

func NewDistanceTracker() *DistanceTracker {
	return &DistanceTracker{}
}

// Step records pos and returns the Euclidean distance from the previous one.
func (d *DistanceTracker) Step(pos types.Position) float64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	dx := float64(pos.X - d.last.X)
	dy := float64(pos.Y - d.last.Y)
	d.last = pos
	return math.Hypot(dx, dy)
}

func (d *DistanceTracker) Last() types.Position {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}
