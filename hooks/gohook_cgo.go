//go:build cgo

package hooks

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	gohook "github.com/robotn/gohook"

	"github.com/mobile-next/inputmeter/types"
)

const eventBuffer = 256

// Available reports whether the OS hook can be started in this session.
func Available() (bool, string) {
	if runtime.GOOS == "linux" && os.Getenv("DISPLAY") == "" {
		return false, "DISPLAY is not set, an X11 session is required"
	}
	return true, "gohook"
}

func platformBackend() (<-chan Event, func(), error) {
	if ok, reason := Available(); !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnavailable, reason)
	}

	raw := gohook.Start()
	out := make(chan Event, eventBuffer)
	quit := make(chan struct{})

	go func() {
		defer close(out)
		for {
			select {
			case <-quit:
				return
			case ev, ok := <-raw:
				if !ok {
					return
				}
				converted, ok := convert(ev)
				if !ok {
					continue
				}
				select {
				case out <- converted:
				case <-quit:
					return
				}
			}
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			gohook.End()
			close(quit)
		})
	}

	return out, stop, nil
}

// convert keeps the press-side events only: KeyHold and MouseHold are the
// "pressed" notifications, KeyDown and MouseDown are the synthesized typed and
// released ones.
func convert(ev gohook.Event) (Event, bool) {
	switch ev.Kind {
	case gohook.KeyHold:
		return Event{Kind: KindKeyDown}, true
	case gohook.MouseHold:
		return Event{Kind: KindMouseDown, Button: buttonFromHook(ev.Button)}, true
	case gohook.MouseMove, gohook.MouseDrag:
		return Event{
			Kind:     KindMouseMove,
			Position: types.Position{X: int(ev.X), Y: int(ev.Y)},
		}, true
	default:
		return Event{}, false
	}
}

func buttonFromHook(b uint16) types.Button {
	switch b {
	case gohook.MouseMap["left"]:
		return types.ButtonLeft
	case gohook.MouseMap["right"]:
		return types.ButtonRight
	case gohook.MouseMap["center"]:
		return types.ButtonMiddle
	default:
		return types.ButtonUnknown
	}
}
