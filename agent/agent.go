// Package agent wires counters, listeners and reporters into one running
// input-activity agent.
package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/mobile-next/inputmeter/config"
	"github.com/mobile-next/inputmeter/counters"
	"github.com/mobile-next/inputmeter/hooks"
	"github.com/mobile-next/inputmeter/listeners"
	"github.com/mobile-next/inputmeter/reporter"
	"github.com/mobile-next/inputmeter/transport"
	"github.com/mobile-next/inputmeter/utils"
)

type Options struct {
	Config *config.Config
	// Hook defaults to the OS input hook.
	Hook listeners.Hook
	// Senders default to HTTP clients built from Config.
	KeypressSender reporter.Sender
	MouseSender    reporter.Sender
	// Ticker defaults to time.NewTicker.
	Ticker reporter.TickerFunc
}

type Agent struct {
	id       string
	cfg      *config.Config
	keyboard *counters.Keyboard
	mouse    *counters.Mouse

	group     *listeners.Group
	reporters []*reporter.Reporter
	shutdown  *ShutdownHook
}

func New(opts Options) (*Agent, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New("agent config is required")
	}

	a := &Agent{
		id:       uuid.NewString(),
		cfg:      cfg,
		keyboard: counters.NewKeyboard(),
		mouse:    counters.NewMouse(),
		shutdown: NewShutdownHook(),
	}

	hook := opts.Hook
	if hook == nil {
		h := hooks.New()
		a.shutdown.Register("input-hook", h.Close)
		hook = h
	}

	keypressSender, mouseSender := opts.KeypressSender, opts.MouseSender
	if keypressSender == nil || mouseSender == nil {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	if keypressSender == nil {
		c, err := newClient(cfg, cfg.Report.KeypressURL)
		if err != nil {
			return nil, err
		}
		keypressSender = c
	}
	if mouseSender == nil {
		c, err := newClient(cfg, cfg.Report.MouseURL)
		if err != nil {
			return nil, err
		}
		mouseSender = c
	}

	fields := map[string]interface{}{"instance": a.id}

	keypress, err := reporter.NewKeypressReporter(a.keyboard, reporter.Options{
		Interval: cfg.Report.Interval,
		Sender:   keypressSender,
		Ticker:   opts.Ticker,
		Fields:   fields,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create keypress reporter: %w", err)
	}

	mouse, err := reporter.NewMouseReporter(a.mouse, reporter.Options{
		Interval: cfg.Report.Interval,
		Sender:   mouseSender,
		Ticker:   opts.Ticker,
		Fields:   fields,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create mouse reporter: %w", err)
	}

	a.reporters = []*reporter.Reporter{keypress, mouse}
	a.group = listeners.NewGroup(cfg.Agent.StrictListeners,
		listeners.NewKeyboard(hook, a.keyboard),
		listeners.NewButtons(hook, a.mouse),
		listeners.NewMovement(hook, a.mouse),
	)

	return a, nil
}

func newClient(cfg *config.Config, url string) (*transport.Client, error) {
	return transport.NewClient(transport.Options{
		URL:        url,
		Credential: cfg.Report.Credential,
		Timeout:    cfg.Report.Timeout,
	})
}

func (a *Agent) ID() string {
	return a.id
}

func (a *Agent) Keyboard() *counters.Keyboard {
	return a.keyboard
}

func (a *Agent) Mouse() *counters.Mouse {
	return a.mouse
}

// OnShutdown registers cleanup to run when Run returns.
func (a *Agent) OnShutdown(name string, fn func() error) {
	a.shutdown.Register(name, fn)
}

// Run starts the listeners and reporters and blocks until ctx is cancelled
// and all of them have exited. With strict listeners a registration failure
// stops the agent and is returned.
func (a *Agent) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log := utils.WithFields(map[string]interface{}{"instance": a.id})
	log.Infof("agent started, reporting every %s", a.cfg.Report.Interval)

	var (
		wg          sync.WaitGroup
		listenerErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		listenerErr = a.group.Run(ctx)
		if listenerErr != nil && a.cfg.Agent.StrictListeners {
			cancel()
		}
	}()

	for _, r := range a.reporters {
		wg.Add(1)
		go func(r *reporter.Reporter) {
			defer wg.Done()
			_ = r.Run(ctx)
		}(r)
	}

	wg.Wait()
	log.Info("agent stopped")

	if err := a.shutdown.Shutdown(); err != nil {
		log.Warnf("cleanup incomplete: %v", err)
	}

	if listenerErr != nil && a.cfg.Agent.StrictListeners {
		return fmt.Errorf("input listener failed: %w", listenerErr)
	}
	return nil
}
