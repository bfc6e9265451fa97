// Package render turns host geometry into draw calls. A Builder is consumed
// once per window to create its pipeline; the Renderer it returns pulls
// fresh geometry from its source on every frame.
package render

import (
	"unsafe"

	"github.com/EngoEngine/glm"
	"github.com/pkg/errors"
	"github.com/rajveermalviya/go-webgpu/wgpu"

	"slam_viewer/gpu"
)

// Builder creates a Renderer for one window.
type Builder interface {
	Build(ctx *gpu.Context, format wgpu.TextureFormat, uniforms *wgpu.BindGroupLayout) (Renderer, error)
}

// Renderer records the draw calls of one frame into pass. The window's
// uniform bind group is already set.
type Renderer interface {
	Render(dev gpu.Device, pass gpu.Pass) error
	Release()
}

// DepthFormat is the depth attachment format every pipeline tests against.
const DepthFormat = wgpu.TextureFormat_Depth32Float

// vertexLayout is shared by every pipeline: a Point per GPU vertex,
// position then color.
func vertexLayout() (wgpu.VertexBufferLayout, error) {
	vec3, err := gpu.VertexFormatOf[glm.Vec3]()
	if err != nil {
		return wgpu.VertexBufferLayout{}, err
	}
	return gpu.Layout(uint64(unsafe.Sizeof(Point{})), vec3, vec3), nil
}

func newPipeline(ctx *gpu.Context, label string, format wgpu.TextureFormat, uniforms *wgpu.BindGroupLayout, topology wgpu.PrimitiveTopology) (*wgpu.RenderPipeline, error) {
	vertices, err := vertexLayout()
	if err != nil {
		return nil, err
	}
	shader, err := gpu.Colored.Build(ctx.Device)
	if err != nil {
		return nil, err
	}
	defer shader.Release()

	layout, err := ctx.Device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            label + " layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{uniforms},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "%s: pipeline layout", label)
	}
	defer layout.Release()

	pipeline, err := ctx.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label,
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: gpu.Colored.Vertex,
			Buffers:    []wgpu.VertexBufferLayout{vertices},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: gpu.Colored.Fragment,
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					Blend:     nil,
					WriteMask: wgpu.ColorWriteMask_All,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  topology,
			FrontFace: wgpu.FrontFace_CCW,
			CullMode:  wgpu.CullMode_Back,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            DepthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunction_Less,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunction_Always,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunction_Always,
			},
		},
		Multisample: wgpu.MultisampleState{
			Count:                  1,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "%s: render pipeline", label)
	}
	return pipeline, nil
}

// vecRenderer uploads what collect returns into its own buffer and draws it
// with a single call.
type vecRenderer[D gpu.Vertex] struct {
	pipeline *wgpu.RenderPipeline
	buf      *gpu.GpuVec[D]
	collect  func() []D
}

func newVecRenderer[D gpu.Vertex](label string, pipeline *wgpu.RenderPipeline, collect func() []D) *vecRenderer[D] {
	return &vecRenderer[D]{
		pipeline: pipeline,
		buf:      gpu.NewGpuVec[D](label),
		collect:  collect,
	}
}

func (r *vecRenderer[D]) Render(dev gpu.Device, pass gpu.Pass) error {
	if err := r.buf.Update(dev, r.collect()); err != nil {
		return err
	}
	if r.buf.Len() == 0 {
		return nil
	}
	pass.SetPipeline(r.pipeline)
	r.buf.Draw(pass)
	return nil
}

// Uploaded is the data sent to the GPU by the last Render.
func (r *vecRenderer[D]) Uploaded() []D { return r.buf.Data() }

func (r *vecRenderer[D]) Release() {
	r.buf.Release()
	if r.pipeline != nil {
		r.pipeline.Release()
		r.pipeline = nil
	}
}

// Group renders each member in order.
type Group []Renderer

func (g Group) Render(dev gpu.Device, pass gpu.Pass) error {
	for _, r := range g {
		if err := r.Render(dev, pass); err != nil {
			return err
		}
	}
	return nil
}

func (g Group) Release() {
	for _, r := range g {
		r.Release()
	}
}

// Builders builds its members into a Group.
type Builders []Builder

func (bs Builders) Build(ctx *gpu.Context, format wgpu.TextureFormat, uniforms *wgpu.BindGroupLayout) (Renderer, error) {
	g := make(Group, 0, len(bs))
	for _, b := range bs {
		r, err := b.Build(ctx, format, uniforms)
		if err != nil {
			g.Release()
			return nil, err
		}
		g = append(g, r)
	}
	return g, nil
}
