package window

import (
	"math"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"slam_viewer/camera"
	"slam_viewer/num"
)

// Config describes one viewer window. A zero Framerate leaves the window
// unconstrained.
type Config[N num.Number] struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Framerate uint32 `toml:"framerate"`

	Camera     camera.Frustum[N]          `toml:"camera"`
	Controller camera.ControllerConfig[N] `toml:"controller"`
}

const (
	DefaultWidth     = 1280
	DefaultHeight    = 720
	DefaultFramerate = 120
)

func DefaultConfig[N num.Number](title string) Config[N] {
	return Config[N]{
		Title:     title,
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		Framerate: DefaultFramerate,
		Camera: camera.Frustum[N]{
			Eye:   num.Point3[N]{0, 2, 5},
			At:    num.Point3[N]{0, 0, 0},
			Fovy:  N(math.Pi / 4),
			Znear: 0.1,
			Zfar:  100,
		},
		Controller: camera.DefaultControllerConfig[N](),
	}
}

// ParseConfig overlays TOML data on base. Keys missing from data keep
// their base value.
func ParseConfig[N num.Number](data []byte, base Config[N]) (Config[N], error) {
	cfg := base
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return base, errors.Wrap(err, "parse window config")
	}
	if err := cfg.Validate(); err != nil {
		return base, err
	}
	return cfg, nil
}

// LoadConfig reads a TOML file and overlays it on base.
func LoadConfig[N num.Number](path string, base Config[N]) (Config[N], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, errors.Wrap(err, "read window config")
	}
	cfg, err := ParseConfig(data, base)
	return cfg, errors.Wrap(err, path)
}

func (c Config[N]) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Errorf("window %q: size %dx%d must be positive", c.Title, c.Width, c.Height)
	}
	if c.Camera.Znear <= 0 || c.Camera.Zfar <= c.Camera.Znear {
		return errors.Errorf("window %q: clip planes near=%v far=%v", c.Title, c.Camera.Znear, c.Camera.Zfar)
	}
	if c.Camera.Eye == c.Camera.At {
		return errors.Errorf("window %q: camera eye and target coincide at %v", c.Title, c.Camera.Eye)
	}
	if c.Camera.Fovy <= 0 || float64(c.Camera.Fovy) >= math.Pi {
		return errors.Errorf("window %q: fovy %v out of (0, pi)", c.Title, c.Camera.Fovy)
	}
	return nil
}
