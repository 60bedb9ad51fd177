package agent

import (
	"errors"
	"fmt"
	"sync"

	"github.com/mobile-next/inputmeter/utils"
)

// ShutdownHook runs named cleanup functions when the agent stops, such as
// closing the OS input hook or removing the pid file.
type ShutdownHook struct {
	mu    sync.RWMutex
	hooks []namedHook
}

type namedHook struct {
	name string
	fn   func() error
}

func NewShutdownHook() *ShutdownHook {
	return &ShutdownHook{}
}

// Register adds a cleanup function. Functions run in registration order.
func (s *ShutdownHook) Register(name string, cleanupFn func() error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, namedHook{name: name, fn: cleanupFn})
	utils.Verbose("registered shutdown hook: %s", name)
}

// Shutdown runs every registered function even when some fail, then clears
// the list. The returned error joins all failures.
func (s *ShutdownHook) Shutdown() error {
	s.mu.Lock()
	hooks := s.hooks
	s.hooks = nil
	s.mu.Unlock()

	if len(hooks) == 0 {
		return nil
	}

	utils.Verbose("running %d shutdown hook(s)", len(hooks))
	var errs []error
	for _, hook := range hooks {
		if err := hook.fn(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", hook.name, err))
			utils.Warn("shutdown hook %s failed: %v", hook.name, err)
		}
	}

	return errors.Join(errs...)
}

func (s *ShutdownHook) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.hooks)
}
