package window

import (
	"slam_viewer/camera"
	"slam_viewer/event"
	"slam_viewer/gpu"
	"slam_viewer/num"
)

// View is the camera state of a window: the camera, its controller and the
// uniform block derived from them.
type View[N num.Number] struct {
	Camera     *camera.Camera[N]
	Controller *camera.Controller[N]
	Uniforms   gpu.Uniforms

	width, height int
}

func NewView[N num.Number](config Config[N], width, height int) *View[N] {
	v := &View[N]{
		Camera:     config.Camera.Camera(),
		Controller: camera.NewController(config.Controller),
		Uniforms:   gpu.NewUniforms(),
	}
	v.Resize(width, height)
	v.Uniforms.SetViewProj(v.Camera.ViewProj(v.Aspect()))
	return v
}

// Input hands keyboard and mouse events to the controller. Anything else
// is left to the engine.
func (v *View[N]) Input(ev event.Event) event.State {
	if !event.IsInput(ev) {
		return event.Unused
	}
	return v.Controller.Process(ev)
}

func (v *View[N]) Resize(width, height int) {
	v.width, v.height = width, height
	v.Controller.SetWindowSize(width, height)
}

func (v *View[N]) Aspect() N {
	if v.height <= 0 {
		return 1
	}
	return N(v.width) / N(v.height)
}

// Update applies pending input and recomputes the uniforms.
func (v *View[N]) Update() {
	v.Controller.Update(v.Camera)
	v.Uniforms.SetViewProj(v.Camera.ViewProj(v.Aspect()))
}
