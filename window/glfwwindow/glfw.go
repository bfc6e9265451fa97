// Package glfwwindow opens viewer windows with glfw.
package glfwwindow

import (
	"log/slog"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
	"github.com/rajveermalviya/go-webgpu/wgpu"
	wgpuext_glfw "github.com/rajveermalviya/go-webgpu/wgpuext/glfw"

	"slam_viewer/engine"
	"slam_viewer/event"
	"slam_viewer/num"
	"slam_viewer/render"
	"slam_viewer/window"
)

// Platform is the glfw windowing system. All of its methods must be called
// from the thread that called Init.
type Platform struct{}

func (Platform) Init() error {
	if err := glfw.Init(); err != nil {
		return errors.Wrap(err, "glfw init")
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	return nil
}

func (Platform) PollEvents() { glfw.PollEvents() }

func (Platform) Terminate() { glfw.Terminate() }

// Builder opens a glfw window and draws the data of Renderer in it.
type Builder[N num.Number] struct {
	Config   window.Config[N]
	Renderer render.Builder
	Log      *slog.Logger
}

func (b *Builder[N]) Build(sink func(event.Event)) (engine.Window, error) {
	log := b.Log
	if log == nil {
		log = slog.Default()
	}

	handle, err := glfw.CreateWindow(b.Config.Width, b.Config.Height, b.Config.Title, nil, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "create window %q", b.Config.Title)
	}

	instance := wgpu.CreateInstance(nil)
	defer instance.Release()
	surface := instance.CreateSurface(wgpuext_glfw.GetSurfaceDescriptor(handle))

	width, height := handle.GetFramebufferSize()
	w, err := window.New(instance, surface, width, height, b.Config, b.Renderer, log)
	if err != nil {
		handle.Destroy()
		return nil, err
	}

	attach(handle, sink)
	return &glfwWindow[N]{Window: w, handle: handle}, nil
}

type glfwWindow[N num.Number] struct {
	*window.Window[N]
	handle *glfw.Window
}

func (w *glfwWindow[N]) Release() {
	w.Window.Release()
	w.handle.Destroy()
}

func attach(handle *glfw.Window, sink func(event.Event)) {
	handle.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		sink(event.Key{Code: keyCode(key), Pressed: action != glfw.Release})
	})
	handle.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		sink(event.MouseButton{Button: mouseButton(button), Pressed: action == glfw.Press})
	})
	handle.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		sink(event.CursorMoved{X: x, Y: y})
	})
	handle.SetScrollCallback(func(_ *glfw.Window, x, y float64) {
		sink(event.MouseWheel{Unit: event.LineDelta, X: x, Y: y})
	})
	handle.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		sink(event.Resized{Width: width, Height: height})
	})
	handle.SetContentScaleCallback(func(w *glfw.Window, x, _ float32) {
		width, height := w.GetFramebufferSize()
		sink(event.ScaleFactorChanged{Scale: float64(x), Width: width, Height: height})
	})
	handle.SetCloseCallback(func(_ *glfw.Window) {
		sink(event.CloseRequested{})
	})
}

func keyCode(k glfw.Key) event.KeyCode {
	switch k {
	case glfw.KeyA:
		return event.KeyA
	case glfw.KeyD:
		return event.KeyD
	case glfw.KeyW:
		return event.KeyW
	case glfw.KeyS:
		return event.KeyS
	case glfw.KeyLeft:
		return event.KeyLeft
	case glfw.KeyRight:
		return event.KeyRight
	case glfw.KeyUp:
		return event.KeyUp
	case glfw.KeyDown:
		return event.KeyDown
	case glfw.KeyEscape:
		return event.KeyEscape
	}
	return event.KeyOther
}

func mouseButton(b glfw.MouseButton) event.Button {
	switch b {
	case glfw.MouseButtonLeft:
		return event.ButtonLeft
	case glfw.MouseButtonRight:
		return event.ButtonRight
	case glfw.MouseButtonMiddle:
		return event.ButtonMiddle
	}
	return event.ButtonOther
}
