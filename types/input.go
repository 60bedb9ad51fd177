package types

import "strconv"

// Button identifies a mouse button by its device code.
type Button uint16

const (
	ButtonUnknown Button = 0
	ButtonLeft    Button = 1
	ButtonMiddle  Button = 2
	ButtonRight   Button = 3
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	default:
		return "button" + strconv.Itoa(int(b))
	}
}

// Position is an absolute cursor position in screen pixels.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}
