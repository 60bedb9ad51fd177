package listeners

import (
	"context"
	"errors"
	"sync"

	"github.com/mobile-next/inputmeter/utils"
)

// Group runs listeners side by side. In strict mode the first failure cancels
// the others; otherwise a failed listener is logged and the rest keep running.
type Group struct {
	strict    bool
	listeners []Listener
}

func NewGroup(strict bool, listeners ...Listener) *Group {
	return &Group{strict: strict, listeners: listeners}
}

// Run blocks until every listener has returned and joins their errors.
func (g *Group) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for _, l := range g.listeners {
		wg.Add(1)
		go func(l Listener) {
			defer wg.Done()

			utils.Verbose("starting %s listener", l.Name())
			err := l.Run(ctx)
			if err == nil {
				utils.Verbose("%s listener stopped", l.Name())
				return
			}

			utils.Error("%v", err)
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()

			if g.strict {
				cancel()
			} else {
				utils.Warn("continuing without %s listener", l.Name())
			}
		}(l)
	}

	wg.Wait()
	return errors.Join(errs...)
}
