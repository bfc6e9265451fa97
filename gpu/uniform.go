package gpu

import (
	"github.com/EngoEngine/glm"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/rajveermalviya/go-webgpu/wgpu"
)

// Uniforms is the per-window uniform block.
type Uniforms struct {
	ViewProj glm.Mat4
}

func NewUniforms() Uniforms {
	return Uniforms{ViewProj: glm.Ident4()}
}

func (u *Uniforms) SetViewProj(m mgl64.Mat4) {
	for i, v := range m {
		u.ViewProj[i] = float32(v)
	}
}

func (u *Uniforms) Bytes() []byte {
	return wgpu.ToBytes(u.ViewProj[:])
}

// UniformLayout is the bind group layout every pipeline of a window shares.
func UniformLayout(device *wgpu.Device) (*wgpu.BindGroupLayout, error) {
	layout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "uniform_bind_group_layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStage_Vertex,
				Buffer: wgpu.BufferBindingLayout{
					Type: wgpu.BufferBindingType_Uniform,
				},
			},
		},
	})
	return layout, errors.Wrap(err, "create uniform layout")
}

// UniformBinding holds the uniform buffer and its bind group.
type UniformBinding struct {
	Buffer    *wgpu.Buffer
	BindGroup *wgpu.BindGroup
}

func NewUniformBinding(device *wgpu.Device, layout *wgpu.BindGroupLayout, u Uniforms) (b *UniformBinding, err error) {
	b = &UniformBinding{}
	defer func() {
		if err != nil {
			b.Release()
			b = nil
		}
	}()

	b.Buffer, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Uniform Buffer",
		Contents: u.Bytes(),
		Usage:    wgpu.BufferUsage_Uniform | wgpu.BufferUsage_CopyDst,
	})
	if err != nil {
		return b, errors.Wrap(err, "create uniform buffer")
	}

	b.BindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "uniform_bind_group",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  b.Buffer,
				Size:    wgpu.WholeSize,
			},
		},
	})
	return b, errors.Wrap(err, "create uniform bind group")
}

// Write queues a copy of u into the uniform buffer.
func (b *UniformBinding) Write(queue *wgpu.Queue, u Uniforms) {
	queue.WriteBuffer(b.Buffer, 0, u.Bytes())
}

func (b *UniformBinding) Release() {
	if b.BindGroup != nil {
		b.BindGroup.Release()
		b.BindGroup = nil
	}
	if b.Buffer != nil {
		b.Buffer.Release()
		b.Buffer = nil
	}
}
