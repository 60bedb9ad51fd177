// Package reporter periodically drains the activity counters into reports.
package reporter

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mobile-next/inputmeter/counters"
	"github.com/mobile-next/inputmeter/transport"
	"github.com/mobile-next/inputmeter/utils"
)

const DefaultInterval = 10 * time.Second

type State int

const (
	StateIdle State = iota
	StateSnapshot
	StateTransmit
	StateReset
	StateHold
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSnapshot:
		return "snapshot"
	case StateTransmit:
		return "transmit"
	case StateReset:
		return "reset"
	case StateHold:
		return "hold"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type Sender interface {
	Put(ctx context.Context, payload transport.Payload) error
}

// TickerFunc returns a tick channel and its stop function.
type TickerFunc func(interval time.Duration) (<-chan time.Time, func())

func timeTicker(interval time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(interval)
	return t.C, t.Stop
}

type Options struct {
	Name     string
	Interval time.Duration
	Window   Window
	Sender   Sender
	// Ticker defaults to time.NewTicker.
	Ticker TickerFunc
	// Fields are added to every log line.
	Fields map[string]interface{}
}

type Reporter struct {
	name     string
	interval time.Duration
	window   Window
	sender   Sender
	ticker   TickerFunc
	fields   map[string]interface{}

	mu    sync.Mutex
	state State
}

func New(opts Options) (*Reporter, error) {
	if opts.Window == nil {
		return nil, errors.New("reporter window is required")
	}
	if opts.Sender == nil {
		return nil, errors.New("reporter sender is required")
	}
	if opts.Interval < 0 {
		return nil, fmt.Errorf("invalid report interval %s", opts.Interval)
	}

	r := &Reporter{
		name:     opts.Name,
		interval: opts.Interval,
		window:   opts.Window,
		sender:   opts.Sender,
		ticker:   opts.Ticker,
		fields:   map[string]interface{}{},
	}
	if r.name == "" {
		r.name = "reporter"
	}
	if r.interval == 0 {
		r.interval = DefaultInterval
	}
	if r.ticker == nil {
		r.ticker = timeTicker
	}
	for k, v := range opts.Fields {
		r.fields[k] = v
	}
	r.fields["reporter"] = r.name

	return r, nil
}

// NewKeypressReporter reports c through opts.Sender. Name defaults to
// "keypress"; any Window in opts is replaced.
func NewKeypressReporter(c *counters.Keyboard, opts Options) (*Reporter, error) {
	if opts.Name == "" {
		opts.Name = "keypress"
	}
	opts.Window = KeypressWindow{Counters: c}
	return New(opts)
}

// NewMouseReporter is NewKeypressReporter for the mouse counters.
func NewMouseReporter(c *counters.Mouse, opts Options) (*Reporter, error) {
	if opts.Name == "" {
		opts.Name = "mouse"
	}
	opts.Window = MouseWindow{Counters: c}
	return New(opts)
}

func (r *Reporter) Name() string {
	return r.name
}

func (r *Reporter) Interval() time.Duration {
	return r.interval
}

func (r *Reporter) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Reporter) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// Tick runs one snapshot, transmit and reset cycle. On failure the counters
// are left untouched and the error is returned; the next tick retries.
func (r *Reporter) Tick(ctx context.Context) error {
	defer r.setState(StateIdle)

	r.setState(StateSnapshot)
	payload, reset := r.window.Snapshot()

	r.setState(StateTransmit)
	if err := r.sender.Put(ctx, payload); err != nil {
		r.setState(StateHold)
		utils.WithFields(r.fields).Errorf("failed to send report, keeping counters: %v", err)
		return fmt.Errorf("%s report: %w", r.name, err)
	}

	r.setState(StateReset)
	reset()
	utils.WithFields(r.fields).Debugf("report sent: %+v", payload)
	return nil
}

// Run ticks every interval until ctx is cancelled. The first report is sent
// after one full interval.
func (r *Reporter) Run(ctx context.Context) error {
	ticks, stop := r.ticker(r.interval)
	defer stop()

	utils.WithFields(r.fields).Debugf("reporting every %s", r.interval)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticks:
			// failures are logged in Tick and retried on the next tick
			_ = r.Tick(ctx)
		}
	}
}
