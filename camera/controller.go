package camera

import (
	"math"

	"slam_viewer/event"
	"slam_viewer/num"
)

type ControllerConfig[N num.Number] struct {
	MouseLeftSpeed  N `toml:"mouse_left_speed"`
	MouseRightSpeed N `toml:"mouse_right_speed"`
	ScrollSpeed     N `toml:"scroll_speed"`
	KeyboardSpeed   N `toml:"keyboard_speed"`
	// PixelsPerLine converts pixel wheel deltas into line units. Values
	// <= 0 leave pixel deltas unscaled.
	PixelsPerLine N `toml:"pixels_per_line"`
}

func DefaultControllerConfig[N num.Number]() ControllerConfig[N] {
	return ControllerConfig[N]{
		MouseLeftSpeed:  3,
		MouseRightSpeed: 2,
		ScrollSpeed:     0.25,
		KeyboardSpeed:   0.05,
		PixelsPerLine:   1,
	}
}

// Controller accumulates input between frames and applies it to a camera
// on Update. Mouse motion only counts while the left or right button is
// held.
type Controller[N num.Number] struct {
	config ControllerConfig[N]

	windowSize num.Point2[N]

	cursorD   num.Point2[N]
	cursorPos *num.Point2[N]
	wheelD    N

	leftMouse  bool
	rightMouse bool

	leftKey  bool
	rightKey bool
	upKey    bool
	downKey  bool
}

func NewController[N num.Number](config ControllerConfig[N]) *Controller[N] {
	return &Controller[N]{config: config}
}

func (c *Controller[N]) SetWindowSize(width, height int) {
	c.windowSize = num.Point2[N]{N(width), N(height)}
}

func (c *Controller[N]) Process(ev event.Event) event.State {
	switch ev := ev.(type) {
	case event.Resized:
		c.SetWindowSize(ev.Width, ev.Height)
		return event.Unused
	case event.Key:
		switch ev.Code {
		case event.KeyA, event.KeyLeft:
			c.leftKey = ev.Pressed
		case event.KeyD, event.KeyRight:
			c.rightKey = ev.Pressed
		case event.KeyW, event.KeyUp:
			c.upKey = ev.Pressed
		case event.KeyS, event.KeyDown:
			c.downKey = ev.Pressed
		default:
			return event.Unused
		}
		return event.Consumed
	case event.MouseButton:
		// forget the last position so the next drag starts without a jump
		c.cursorPos = nil
		switch ev.Button {
		case event.ButtonLeft:
			c.leftMouse = ev.Pressed
		case event.ButtonRight:
			c.rightMouse = ev.Pressed
		default:
			return event.Unused
		}
		return event.Consumed
	case event.CursorMoved:
		if !c.leftMouse && !c.rightMouse {
			return event.Unused
		}
		pos := num.Point2[N]{N(ev.X), N(ev.Y)}
		if c.cursorPos != nil {
			c.cursorD[0] += pos[0] - (*c.cursorPos)[0]
			c.cursorD[1] += pos[1] - (*c.cursorPos)[1]
		}
		c.cursorPos = &pos
		return event.Consumed
	case event.MouseWheel:
		switch ev.Unit {
		case event.LineDelta:
			c.wheelD += N(ev.Y)
		case event.PixelDelta:
			d := N(ev.Y)
			if math.Abs(ev.X) > math.Abs(ev.Y) {
				d = N(ev.X)
			}
			if c.config.PixelsPerLine > 0 {
				d /= c.config.PixelsPerLine
			}
			c.wheelD += d
		}
		return event.Consumed
	}
	return event.Unused
}

// Update applies and resets the accumulated input.
func (c *Controller[N]) Update(cam *Camera[N]) {
	d := c.cursorD
	if c.windowSize[0] > 0 && c.windowSize[1] > 0 {
		d[0] /= c.windowSize[0]
		d[1] /= c.windowSize[1]
	} else {
		d = num.Point2[N]{}
	}

	if c.leftMouse {
		cam.Rotate(num.Point2[N]{d[0] * c.config.MouseLeftSpeed, d[1] * c.config.MouseLeftSpeed})
	}
	if c.rightMouse {
		cam.MoveTo(num.Point2[N]{d[0] * c.config.MouseRightSpeed, d[1] * c.config.MouseRightSpeed})
	}
	c.cursorD = num.Point2[N]{}

	if c.wheelD != 0 {
		cam.Scale(c.wheelD * c.config.ScrollSpeed)
	}
	c.wheelD = 0

	var dkey num.Point2[N]
	if c.leftKey {
		dkey[0]++
	}
	if c.rightKey {
		dkey[0]--
	}
	if c.upKey {
		dkey[1]++
	}
	if c.downKey {
		dkey[1]--
	}
	if dkey[0] != 0 {
		cam.MoveTo(num.Point2[N]{dkey[0] * c.config.KeyboardSpeed, 0})
	}
	if dkey[1] != 0 {
		cam.Scale(dkey[1] * c.config.KeyboardSpeed)
	}
}

// Pending reports the accumulated, not yet applied, cursor and wheel
// deltas.
func (c *Controller[N]) Pending() (cursor num.Point2[N], wheel N) {
	return c.cursorD, c.wheelD
}
