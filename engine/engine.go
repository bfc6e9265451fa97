// Package engine drives the viewer windows: it builds them, routes platform
// events to them and paces their redraws.
package engine

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/pkg/errors"

	"slam_viewer/event"
)

// Window is one viewer window as seen by the event loop.
type Window interface {
	// Input offers a keyboard or mouse event to the window.
	Input(ev event.Event) event.State
	Resize(width, height int)
	Update()
	Render() error
	// Framerate is the target redraw rate, 0 when unconstrained.
	Framerate() uint32
	Release()
}

// WindowBuilder opens a window. Events targeting it are reported to sink.
type WindowBuilder interface {
	Build(sink func(event.Event)) (Window, error)
}

// Platform is the windowing system.
type Platform interface {
	Init() error
	// PollEvents reports pending events to the window sinks and returns.
	PollEvents()
	Terminate()
}

type ID int

type State int

const (
	Idle State = iota
	Running
	Exited
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	}
	return "exited"
}

type queued struct {
	id ID
	ev event.Event
}

type Engine struct {
	platform Platform
	log      *slog.Logger

	builders []WindowBuilder
	windows  map[ID]Window
	order    []ID
	queue    []queued
	timer    *Timer
	state    State
}

func New(platform Platform, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		platform: platform,
		log:      log,
		windows:  make(map[ID]Window),
		timer:    NewTimer(0),
	}
}

// Add registers a window to open when the engine starts.
func (e *Engine) Add(b WindowBuilder) {
	e.builders = append(e.builders, b)
}

func (e *Engine) State() State { return e.state }

// Len is the number of open windows.
func (e *Engine) Len() int { return len(e.windows) }

// Run opens every registered window and loops until a window is closed,
// Escape is pressed or ctx is done. It must be called from a locked OS
// thread.
func (e *Engine) Run(ctx context.Context) (err error) {
	if e.state != Idle {
		return errors.Errorf("engine: run in state %s", e.state)
	}
	if err := e.platform.Init(); err != nil {
		return errors.Wrap(err, "init platform")
	}
	e.state = Running
	defer func() {
		e.release()
		e.platform.Terminate()
		e.state = Exited
	}()

	if err := e.start(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		exit, err := e.Step()
		if err != nil || exit {
			return err
		}
	}
}

func (e *Engine) start() error {
	framerates := make([]uint32, 0, len(e.builders))
	for i, b := range e.builders {
		id := ID(i)
		w, err := b.Build(func(ev event.Event) {
			e.queue = append(e.queue, queued{id: id, ev: ev})
		})
		if err != nil {
			return errors.Wrapf(err, "build window %d", id)
		}
		e.windows[id] = w
		e.order = append(e.order, id)
		framerates = append(framerates, w.Framerate())
	}
	e.builders = nil
	e.timer.Interval = FrameInterval(framerates...)
	e.log.Info("engine started", "windows", len(e.windows), "interval", e.timer.Interval)
	return nil
}

// Step runs one loop iteration: it drains the platform events, then paces
// and redraws every window. exit reports that the user asked to quit.
func (e *Engine) Step() (exit bool, err error) {
	e.platform.PollEvents()
	queue := e.queue
	e.queue = nil
	for _, q := range queue {
		if e.dispatch(q.id, q.ev) {
			exit = true
		}
	}
	if exit {
		return true, nil
	}

	e.timer.Sync()
	for _, id := range e.order {
		w := e.windows[id]
		w.Update()
		if err := w.Render(); err != nil {
			return false, errors.Wrapf(err, "render window %d", id)
		}
	}
	return false, nil
}

func (e *Engine) dispatch(id ID, ev event.Event) (exit bool) {
	w, ok := e.windows[id]
	if !ok {
		return false
	}
	if event.IsInput(ev) && w.Input(ev) == event.Consumed {
		return false
	}

	switch ev := ev.(type) {
	case event.CloseRequested:
		e.log.Debug("close requested", "window", id)
		return true
	case event.Key:
		if ev.Code == event.KeyEscape && ev.Pressed {
			return true
		}
	case event.Resized:
		e.log.Debug("resize", "window", id, "width", ev.Width, "height", ev.Height)
		w.Resize(ev.Width, ev.Height)
	case event.ScaleFactorChanged:
		w.Resize(ev.Width, ev.Height)
	}
	return false
}

func (e *Engine) release() {
	for _, id := range e.order {
		e.windows[id].Release()
		delete(e.windows, id)
	}
	e.order = nil
}

// Handle is an engine running on its own goroutine.
type Handle struct {
	done chan struct{}
	err  error
}

// Wait blocks until the engine exits.
func (h *Handle) Wait() error {
	<-h.done
	return h.err
}

// Done is closed when the engine exits.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Spawn runs the engine on a new goroutine locked to its OS thread.
func (e *Engine) Spawn(ctx context.Context) *Handle {
	h := &Handle{done: make(chan struct{})}
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer close(h.done)
		h.err = e.Run(ctx)
	}()
	return h
}
