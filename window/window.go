// Package window owns everything one viewer window draws with: the surface
// and its swap chain, the device and queue, the depth attachment, the
// uniform block and the renderer built for the window's data.
package window

import (
	"log/slog"

	"github.com/pkg/errors"
	"github.com/rajveermalviya/go-webgpu/wgpu"

	"slam_viewer/event"
	"slam_viewer/gpu"
	"slam_viewer/num"
	"slam_viewer/render"
)

var clearColor = wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1.0}

type Window[N num.Number] struct {
	config Config[N]
	log    *slog.Logger

	*View[N]

	surface   *wgpu.Surface
	adapter   *wgpu.Adapter
	ctx       *gpu.Context
	swapDesc  *wgpu.SwapChainDescriptor
	swapChain *wgpu.SwapChain

	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView

	uniformLayout *wgpu.BindGroupLayout
	uniforms      *gpu.UniformBinding
	renderer      render.Renderer
}

// New sets up a window on surface. It takes ownership of surface, also on
// error.
func New[N num.Number](instance *wgpu.Instance, surface *wgpu.Surface, width, height int, config Config[N], builder render.Builder, log *slog.Logger) (w *Window[N], err error) {
	w = &Window[N]{
		config:  config,
		log:     log.With("window", config.Title),
		surface: surface,
		View:    NewView(config, width, height),
	}
	defer func() {
		if err != nil {
			w.Release()
			w = nil
		}
	}()

	w.adapter, w.ctx, err = gpu.RequestContext(instance, surface, w.log)
	if err != nil {
		return w, err
	}

	caps := surface.GetCapabilities(w.adapter)
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		return w, errors.New("surface is not compatible with the adapter")
	}
	w.swapDesc = &wgpu.SwapChainDescriptor{
		Usage:       wgpu.TextureUsage_RenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentMode_Fifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	if err = w.configure(); err != nil {
		return w, err
	}

	w.uniformLayout, err = gpu.UniformLayout(w.ctx.Device)
	if err != nil {
		return w, err
	}
	w.uniforms, err = gpu.NewUniformBinding(w.ctx.Device, w.uniformLayout, w.Uniforms)
	if err != nil {
		return w, err
	}

	w.renderer, err = builder.Build(w.ctx, w.swapDesc.Format, w.uniformLayout)
	if err != nil {
		return w, errors.Wrap(err, "build renderer")
	}

	w.log.Info("window ready", "width", width, "height", height, "format", w.swapDesc.Format)
	return w, nil
}

// configure (re)creates the swap chain and depth attachment at the current
// size.
func (w *Window[N]) configure() error {
	if w.swapChain != nil {
		w.swapChain.Release()
		w.swapChain = nil
	}
	var err error
	w.swapChain, err = w.ctx.Device.CreateSwapChain(w.surface, w.swapDesc)
	if err != nil {
		return errors.Wrap(err, "create swap chain")
	}
	return w.createDepth()
}

func (w *Window[N]) createDepth() error {
	w.releaseDepth()
	var err error
	w.depthTexture, err = w.ctx.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "depth",
		Size: wgpu.Extent3D{
			Width:              w.swapDesc.Width,
			Height:             w.swapDesc.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension_2D,
		Format:        render.DepthFormat,
		Usage:         wgpu.TextureUsage_RenderAttachment,
	})
	if err != nil {
		return errors.Wrap(err, "create depth texture")
	}
	w.depthView, err = w.depthTexture.CreateView(nil)
	return errors.Wrap(err, "create depth view")
}

func (w *Window[N]) releaseDepth() {
	if w.depthView != nil {
		w.depthView.Release()
		w.depthView = nil
	}
	if w.depthTexture != nil {
		w.depthTexture.Release()
		w.depthTexture = nil
	}
}

// Resize recreates the swap chain at the new size. Zero sizes (minimized
// windows) are ignored.
func (w *Window[N]) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	w.View.Resize(width, height)
	w.swapDesc.Width = uint32(width)
	w.swapDesc.Height = uint32(height)
	if err := w.configure(); err != nil {
		w.log.Error("resize", "err", err)
	}
}

func (w *Window[N]) Input(ev event.Event) event.State {
	return w.View.Input(ev)
}

// Update advances the camera and queues the new uniforms for the next
// frame.
func (w *Window[N]) Update() {
	w.View.Update()
	w.uniforms.Write(w.ctx.Queue, w.Uniforms)
}

func (w *Window[N]) Framerate() uint32 { return w.config.Framerate }

// Render draws one frame. Outdated and lost surfaces are configured again
// and the frame is skipped; a timeout is fatal.
func (w *Window[N]) Render() error {
	next, err := w.swapChain.GetCurrentTextureView()
	if err != nil {
		switch gpu.SurfaceStatusOf(err) {
		case gpu.SurfaceTimeout:
			return errors.Wrap(gpu.ErrSurfaceTimeout, err.Error())
		case gpu.SurfaceOutdated, gpu.SurfaceLost:
			w.log.Warn("surface reconfigured", "err", err)
			return w.configure()
		}
		return errors.Wrap(err, "acquire frame")
	}
	defer next.Release()

	encoder, err := w.ctx.Device.CreateCommandEncoder(nil)
	if err != nil {
		return errors.Wrap(err, "create command encoder")
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       next,
				LoadOp:     wgpu.LoadOp_Clear,
				StoreOp:    wgpu.StoreOp_Store,
				ClearValue: clearColor,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:              w.depthView,
			DepthLoadOp:       wgpu.LoadOp_Clear,
			DepthStoreOp:      wgpu.StoreOp_Store,
			DepthClearValue:   1.0,
			StencilLoadOp:     wgpu.LoadOp_Clear,
			StencilStoreOp:    wgpu.StoreOp_Store,
			StencilClearValue: wgpu.LimitU32Undefined,
		},
	})
	defer pass.Release()

	pass.SetBindGroup(0, w.uniforms.BindGroup, nil)
	rerr := w.renderer.Render(w.ctx, gpu.RenderPass{Encoder: pass})
	pass.End()
	if rerr != nil {
		return rerr
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return errors.Wrap(err, "finish frame")
	}
	defer cmd.Release()

	w.ctx.Queue.Submit(cmd)
	w.swapChain.Present()
	return nil
}

func (w *Window[N]) Release() {
	if w.renderer != nil {
		w.renderer.Release()
		w.renderer = nil
	}
	if w.uniforms != nil {
		w.uniforms.Release()
		w.uniforms = nil
	}
	if w.uniformLayout != nil {
		w.uniformLayout.Release()
		w.uniformLayout = nil
	}
	w.releaseDepth()
	if w.swapChain != nil {
		w.swapChain.Release()
		w.swapChain = nil
	}
	if w.ctx != nil {
		w.ctx.Release()
		w.ctx = nil
	}
	if w.adapter != nil {
		w.adapter.Release()
		w.adapter = nil
	}
	if w.surface != nil {
		w.surface.Release()
		w.surface = nil
	}
}
