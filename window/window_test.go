package window

import (
	"go/parser"
	"go/token"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slam_viewer/event"
	"slam_viewer/num"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig[float32]("Map Viewer")
	assert.Equal(t, "Map Viewer", c.Title)
	assert.Equal(t, uint32(120), c.Framerate)
	assert.Equal(t, num.Point3[float32]{0, 2, 5}, c.Camera.Eye)
	assert.InDelta(t, math.Pi/4, c.Camera.Fovy, 1e-6)
	assert.NoError(t, c.Validate())
}

func TestParseConfigOverlaysBase(t *testing.T) {
	base := DefaultConfig[float64]("Map Viewer")
	c, err := ParseConfig([]byte(`
title = "Run 7"
framerate = 30

[camera]
eye = [1.0, 1.0, 1.0]

[controller]
scroll_speed = 0.5
`), base)
	require.NoError(t, err)

	assert.Equal(t, "Run 7", c.Title)
	assert.Equal(t, uint32(30), c.Framerate)
	assert.Equal(t, num.Point3[float64]{1, 1, 1}, c.Camera.Eye)
	assert.Equal(t, base.Camera.At, c.Camera.At)
	assert.Equal(t, base.Camera.Zfar, c.Camera.Zfar)
	assert.Equal(t, 0.5, c.Controller.ScrollSpeed)
	assert.Equal(t, base.Controller.MouseLeftSpeed, c.Controller.MouseLeftSpeed)
	assert.Equal(t, base.Width, c.Width)
}

func TestParseConfigRejectsBadValues(t *testing.T) {
	base := DefaultConfig[float64]("w")
	for name, data := range map[string]string{
		"syntax":  `title = `,
		"size":    `width = 0`,
		"planes":  "[camera]\nznear = 10.0\nzfar = 1.0",
		"fovy":    "[camera]\nfovy = 4.0",
		"target":  "[camera]\neye = [0.0, 0.0, 0.0]",
		"wrongly": `framerate = "fast"`,
	} {
		t.Run(name, func(t *testing.T) {
			c, err := ParseConfig([]byte(data), base)
			assert.Error(t, err)
			assert.Equal(t, base, c)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.toml")
	require.NoError(t, os.WriteFile(path, []byte("framerate = 0\n"), 0o644))

	c, err := LoadConfig(path, DefaultConfig[float64]("w"))
	require.NoError(t, err)
	assert.Equal(t, uint32(0), c.Framerate)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"), DefaultConfig[float64]("w"))
	assert.Error(t, err)
}

func TestViewRoutesOnlyInput(t *testing.T) {
	v := NewView(DefaultConfig[float64]("w"), 800, 600)
	assert.Equal(t, event.Unused, v.Input(event.Resized{Width: 1, Height: 1}))
	assert.Equal(t, event.Unused, v.Input(event.CloseRequested{}))
	assert.Equal(t, event.Unused, v.Input(event.Key{Code: event.KeyEscape, Pressed: true}))
	assert.Equal(t, event.Consumed, v.Input(event.Key{Code: event.KeyW, Pressed: true}))
}

func TestViewUpdateMovesUniforms(t *testing.T) {
	v := NewView(DefaultConfig[float64]("w"), 800, 600)
	before := v.Uniforms.ViewProj

	v.Update()
	assert.Equal(t, before, v.Uniforms.ViewProj, "no input, no motion")

	v.Input(event.MouseButton{Button: event.ButtonLeft, Pressed: true})
	v.Input(event.CursorMoved{X: 10, Y: 10})
	v.Input(event.CursorMoved{X: 90, Y: 10})
	v.Update()
	assert.NotEqual(t, before, v.Uniforms.ViewProj)
}

func TestViewAspect(t *testing.T) {
	v := NewView(DefaultConfig[float64]("w"), 800, 400)
	assert.Equal(t, 2.0, v.Aspect())
	v.Resize(0, 0)
	assert.Equal(t, 1.0, v.Aspect())
}

// models and feed import this package, so it must build without a display.
func TestNoWindowingSystemImports(t *testing.T) {
	files, err := filepath.Glob("*.go")
	require.NoError(t, err)
	fset := token.NewFileSet()
	for _, name := range files {
		if strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, name, nil, parser.ImportsOnly)
		require.NoError(t, err)
		for _, imp := range f.Imports {
			assert.NotContains(t, imp.Path.Value, "glfw", name)
		}
	}
}
