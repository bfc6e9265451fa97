// Package event describes window input independently of the platform
// library that produced it.
package event

// State reports whether a window consumed an event.
type State int

const (
	// Unused events are passed on to the engine.
	Unused State = iota
	// Consumed events must not be reinterpreted by the engine.
	Consumed
)

func (s State) String() string {
	if s == Consumed {
		return "consumed"
	}
	return "unused"
}

type Event interface {
	isEvent()
}

type KeyCode int

const (
	KeyOther KeyCode = iota
	KeyA
	KeyD
	KeyW
	KeyS
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyEscape
)

type Button int

const (
	ButtonOther Button = iota
	ButtonLeft
	ButtonRight
	ButtonMiddle
)

// Key is a keyboard press or release.
type Key struct {
	Code    KeyCode
	Pressed bool
}

// MouseButton is a mouse button press or release.
type MouseButton struct {
	Button  Button
	Pressed bool
}

// CursorMoved carries the cursor position in window pixels.
type CursorMoved struct {
	X, Y float64
}

// Delta units of a mouse wheel event.
type Delta int

const (
	LineDelta Delta = iota
	PixelDelta
)

type MouseWheel struct {
	Unit Delta
	X, Y float64
}

// Resized carries the new framebuffer size in pixels.
type Resized struct {
	Width, Height int
}

// ScaleFactorChanged carries the framebuffer size after a DPI change.
type ScaleFactorChanged struct {
	Scale         float64
	Width, Height int
}

type CloseRequested struct{}

func (Key) isEvent()                {}
func (MouseButton) isEvent()        {}
func (CursorMoved) isEvent()        {}
func (MouseWheel) isEvent()         {}
func (Resized) isEvent()            {}
func (ScaleFactorChanged) isEvent() {}
func (CloseRequested) isEvent()     {}

// IsInput reports whether ev comes from the keyboard or the mouse.
func IsInput(ev Event) bool {
	switch ev.(type) {
	case Key, MouseButton, CursorMoved, MouseWheel:
		return true
	}
	return false
}
