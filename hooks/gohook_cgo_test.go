//go:build cgo

package hooks

import (
	"runtime"
	"testing"

	gohook "github.com/robotn/gohook"
	"github.com/stretchr/testify/assert"

	"github.com/mobile-next/inputmeter/types"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name   string
		event  gohook.Event
		want   Event
		wantOk bool
	}{
		{
			name:   "key pressed",
			event:  gohook.Event{Kind: gohook.KeyHold, Keycode: 30},
			want:   Event{Kind: KindKeyDown},
			wantOk: true,
		},
		{
			name:  "key typed is ignored",
			event: gohook.Event{Kind: gohook.KeyDown, Keycode: 30},
		},
		{
			name:  "key released is ignored",
			event: gohook.Event{Kind: gohook.KeyUp, Keycode: 30},
		},
		{
			name:   "left button pressed",
			event:  gohook.Event{Kind: gohook.MouseHold, Button: gohook.MouseMap["left"]},
			want:   Event{Kind: KindMouseDown, Button: types.ButtonLeft},
			wantOk: true,
		},
		{
			name:   "right button pressed",
			event:  gohook.Event{Kind: gohook.MouseHold, Button: gohook.MouseMap["right"]},
			want:   Event{Kind: KindMouseDown, Button: types.ButtonRight},
			wantOk: true,
		},
		{
			name:   "center button pressed",
			event:  gohook.Event{Kind: gohook.MouseHold, Button: gohook.MouseMap["center"]},
			want:   Event{Kind: KindMouseDown, Button: types.ButtonMiddle},
			wantOk: true,
		},
		{
			name:   "extra button pressed",
			event:  gohook.Event{Kind: gohook.MouseHold, Button: 9},
			want:   Event{Kind: KindMouseDown, Button: types.ButtonUnknown},
			wantOk: true,
		},
		{
			name:  "button released is ignored",
			event: gohook.Event{Kind: gohook.MouseDown, Button: gohook.MouseMap["left"]},
		},
		{
			name:  "button up is ignored",
			event: gohook.Event{Kind: gohook.MouseUp, Button: gohook.MouseMap["left"]},
		},
		{
			name:   "pointer moved",
			event:  gohook.Event{Kind: gohook.MouseMove, X: 120, Y: -40},
			want:   Event{Kind: KindMouseMove, Position: types.Position{X: 120, Y: -40}},
			wantOk: true,
		},
		{
			name:   "pointer dragged",
			event:  gohook.Event{Kind: gohook.MouseDrag, Button: gohook.MouseMap["left"], X: 3, Y: 4},
			want:   Event{Kind: KindMouseMove, Position: types.Position{X: 3, Y: 4}},
			wantOk: true,
		},
		{
			name:  "wheel is ignored",
			event: gohook.Event{Kind: gohook.MouseWheel, Rotation: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := convert(tt.event)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestButtonFromHook(t *testing.T) {
	assert.Equal(t, types.ButtonLeft, buttonFromHook(1))
	// gohook numbers right 2 and center 3; reports use middle 2 and right 3
	assert.Equal(t, types.ButtonRight, buttonFromHook(2))
	assert.Equal(t, types.ButtonMiddle, buttonFromHook(3))
	assert.Equal(t, types.ButtonUnknown, buttonFromHook(0))
	assert.Equal(t, types.ButtonUnknown, buttonFromHook(4))
}

func TestAvailable_RequiresDisplayOnLinux(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("display check is linux only")
	}
	t.Setenv("DISPLAY", "")
	ok, reason := Available()
	assert.False(t, ok)
	assert.Contains(t, reason, "DISPLAY")

	_, _, err := platformBackend()
	assert.ErrorIs(t, err, ErrUnavailable)
}
