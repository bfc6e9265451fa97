package viewer

import (
	"context"
	"log/slog"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slam_viewer/engine"
	"slam_viewer/event"
)

type nopPlatform struct{}

func (nopPlatform) Init() error { return nil }
func (nopPlatform) PollEvents() {}
func (nopPlatform) Terminate()  {}

type closingWindow struct {
	fail error
}

func (closingWindow) Input(event.Event) event.State { return event.Unused }
func (closingWindow) Resize(int, int)               {}
func (closingWindow) Update()                       {}
func (w closingWindow) Render() error               { return w.fail }
func (closingWindow) Framerate() uint32             { return 0 }
func (closingWindow) Release()                      {}

// closingBuilder asks to close right after the window opens.
type closingBuilder struct{ w closingWindow }

func (b closingBuilder) Build(sink func(event.Event)) (engine.Window, error) {
	sink(event.CloseRequested{})
	return b.w, nil
}

func TestAllocThreadOnce(t *testing.T) {
	v := AllocThread[float64]()
	require.NotNil(t, v)
	assert.PanicsWithValue(t, ErrAlreadyAllocated, func() { AllocThread[float32]() })
}

func TestRunExitCodes(t *testing.T) {
	for name, tc := range map[string]struct {
		fail error
		code int
	}{
		"closed":    {nil, 0},
		"gpu fault": {errors.New("surface timed out"), 1},
	} {
		t.Run(name, func(t *testing.T) {
			v := newViewer[float64](nopPlatform{}, slog.Default())
			code := -1
			v.exit = func(c int) { code = c }
			w := closingWindow{fail: tc.fail}
			if tc.fail != nil {
				v.AddWindow(failingBuilder{w})
			} else {
				v.AddWindow(closingBuilder{w})
			}
			v.Run()
			assert.Equal(t, tc.code, code)
		})
	}
}

type failingBuilder struct{ w closingWindow }

func (b failingBuilder) Build(func(event.Event)) (engine.Window, error) {
	return b.w, nil
}

func TestSpawnReturnsHandle(t *testing.T) {
	v := newViewer[float64](nopPlatform{}, slog.Default())
	v.AddWindow(closingBuilder{})
	require.NoError(t, v.Spawn(context.Background()).Wait())
}
