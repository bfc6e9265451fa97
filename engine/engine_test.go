package engine

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slam_viewer/event"
)

type fakeWindow struct {
	fps      uint32
	consume  bool
	inputs   []event.Event
	resizes  [][2]int
	updates  int
	renders  int
	released bool
	fail     error
}

func (w *fakeWindow) Input(ev event.Event) event.State {
	w.inputs = append(w.inputs, ev)
	if w.consume {
		return event.Consumed
	}
	return event.Unused
}

func (w *fakeWindow) Resize(width, height int) { w.resizes = append(w.resizes, [2]int{width, height}) }
func (w *fakeWindow) Update()                  { w.updates++ }
func (w *fakeWindow) Framerate() uint32        { return w.fps }
func (w *fakeWindow) Release()                 { w.released = true }

func (w *fakeWindow) Render() error {
	w.renders++
	return w.fail
}

type fakeBuilder struct {
	w    *fakeWindow
	sink func(event.Event)
}

func (b *fakeBuilder) Build(sink func(event.Event)) (Window, error) {
	b.sink = sink
	return b.w, nil
}

// fakePlatform replays one batch of events per poll.
type fakePlatform struct {
	batches    [][]func()
	polls      int
	terminated bool
}

func (p *fakePlatform) Init() error { return nil }
func (p *fakePlatform) Terminate()  { p.terminated = true }

func (p *fakePlatform) PollEvents() {
	if p.polls < len(p.batches) {
		for _, emit := range p.batches[p.polls] {
			emit()
		}
	}
	p.polls++
}

func newTestEngine(p Platform, windows ...*fakeWindow) (*Engine, []*fakeBuilder) {
	e := New(p, nil)
	e.timer.sleep = func(time.Duration) {}
	var bs []*fakeBuilder
	for _, w := range windows {
		b := &fakeBuilder{w: w}
		bs = append(bs, b)
		e.Add(b)
	}
	return e, bs
}

func TestFrameIntervalUsesSlowestWindow(t *testing.T) {
	assert.Equal(t, time.Second/30, FrameInterval(30, 60))
	assert.Equal(t, time.Second/60, FrameInterval(0, 60))
	assert.Equal(t, time.Duration(0), FrameInterval(0, 0))
	assert.Equal(t, time.Duration(0), FrameInterval())
}

func TestTimerSleepsRemainder(t *testing.T) {
	now := time.Unix(0, 0)
	var slept []time.Duration
	tm := &Timer{
		Interval: 100 * time.Millisecond,
		now:      func() time.Time { return now },
		sleep: func(d time.Duration) {
			slept = append(slept, d)
			now = now.Add(d)
		},
	}

	tm.Sync()
	now = now.Add(30 * time.Millisecond)
	tm.Sync()
	now = now.Add(150 * time.Millisecond)
	tm.Sync()

	assert.Equal(t, []time.Duration{70 * time.Millisecond}, slept)
}

func TestEngineIntervalFromWindows(t *testing.T) {
	p := &fakePlatform{}
	e, bs := newTestEngine(p, &fakeWindow{fps: 30}, &fakeWindow{fps: 60})
	p.batches = [][]func(){
		nil,
		{func() { bs[0].sink(event.CloseRequested{}) }},
	}

	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, time.Second/30, e.timer.Interval)
	assert.Equal(t, 1, bs[0].w.renders)
	assert.Equal(t, 1, bs[1].w.renders)
	assert.Equal(t, 1, bs[1].w.updates)
	assert.Equal(t, Exited, e.State())
	assert.True(t, p.terminated)
	assert.True(t, bs[0].w.released)
	assert.True(t, bs[1].w.released)
}

func TestEscapeExitsUnlessConsumed(t *testing.T) {
	p := &fakePlatform{}
	w := &fakeWindow{consume: true}
	e, bs := newTestEngine(p, w)
	esc := func() { bs[0].sink(event.Key{Code: event.KeyEscape, Pressed: true}) }
	p.batches = [][]func(){{esc}}

	exit, err := stepAfterStart(t, e)
	require.NoError(t, err)
	assert.False(t, exit, "consumed escape is not a quit")

	w.consume = false
	p.batches = append(p.batches, []func(){esc})
	exit, err = e.Step()
	require.NoError(t, err)
	assert.True(t, exit)
}

func TestResizeAndRouting(t *testing.T) {
	p := &fakePlatform{}
	a, b := &fakeWindow{}, &fakeWindow{}
	e, bs := newTestEngine(p, a, b)
	p.batches = [][]func(){{
		func() { bs[1].sink(event.Resized{Width: 640, Height: 480}) },
		func() { bs[0].sink(event.ScaleFactorChanged{Scale: 2, Width: 200, Height: 100}) },
		func() { bs[1].sink(event.CursorMoved{X: 1, Y: 2}) },
	}}

	exit, err := stepAfterStart(t, e)
	require.NoError(t, err)
	assert.False(t, exit)
	assert.Equal(t, [][2]int{{200, 100}}, a.resizes)
	assert.Equal(t, [][2]int{{640, 480}}, b.resizes)
	assert.Empty(t, a.inputs)
	assert.Equal(t, []event.Event{event.CursorMoved{X: 1, Y: 2}}, b.inputs, "window events do not reach Input")
}

func TestRenderErrorStopsRun(t *testing.T) {
	p := &fakePlatform{}
	e, _ := newTestEngine(p, &fakeWindow{fail: errors.New("surface timeout")})
	err := e.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "surface timeout")
	assert.Equal(t, 0, e.Len())
}

func TestRunTwiceFails(t *testing.T) {
	p := &fakePlatform{}
	e, bs := newTestEngine(p, &fakeWindow{})
	p.batches = [][]func(){{func() { bs[0].sink(event.CloseRequested{}) }}}
	require.NoError(t, e.Run(context.Background()))
	assert.Error(t, e.Run(context.Background()))
}

func TestSpawnStopsWithContext(t *testing.T) {
	p := &fakePlatform{}
	w := &fakeWindow{}
	e, _ := newTestEngine(p, w)
	ctx, cancel := context.WithCancel(context.Background())
	h := e.Spawn(ctx)
	cancel()

	select {
	case <-h.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop")
	}
	require.NoError(t, h.Wait())
	assert.True(t, w.released)
}

func stepAfterStart(t *testing.T, e *Engine) (bool, error) {
	t.Helper()
	require.NoError(t, e.platform.Init())
	e.state = Running
	require.NoError(t, e.start())
	return e.Step()
}
