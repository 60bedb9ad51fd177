package reporter

import (
	"github.com/mobile-next/inputmeter/counters"
	"github.com/mobile-next/inputmeter/transport"
)

// Window reads the counters for one report. Snapshot returns the payload and
// a reset function that removes exactly what was read.
type Window interface {
	Snapshot() (payload transport.Payload, reset func())
}

type KeypressWindow struct {
	Counters *counters.Keyboard
}

func (w KeypressWindow) Snapshot() (transport.Payload, func()) {
	n := w.Counters.Keypress.Load()
	return transport.KeypressReport{Keypress: n}, func() {
		w.Counters.Keypress.Subtract(n)
	}
}

type MouseWindow struct {
	Counters *counters.Mouse
}

func (w MouseWindow) Snapshot() (transport.Payload, func()) {
	s := w.Counters.Snapshot()
	report := transport.MouseReport{
		RightClick:  s.RightClick,
		LeftClick:   s.LeftClick,
		MouseTravel: s.TravelMeters(),
	}
	return report, func() {
		w.Counters.Subtract(s)
	}
}
