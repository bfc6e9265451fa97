// Package gpu wraps the wgpu objects the viewer needs: vertex buffers that
// grow with their data, the uniform block, vertex layouts and shader
// modules.
package gpu

import (
	"github.com/pkg/errors"
	"github.com/rajveermalviya/go-webgpu/wgpu"
)

// Buffer is a GPU buffer owned by a GpuVec.
type Buffer interface {
	Size() uint64
	Release()
}

// Device allocates and writes vertex buffers.
type Device interface {
	CreateVertexBuffer(label string, size uint64) (Buffer, error)
	WriteBuffer(buf Buffer, offset uint64, data []byte) error
}

// Pass records draw commands.
type Pass interface {
	SetPipeline(pipeline *wgpu.RenderPipeline)
	SetVertexBuffer(slot uint32, buf Buffer, offset, size uint64)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
}

// Context is the device and queue of one window.
type Context struct {
	Device *wgpu.Device
	Queue  *wgpu.Queue
}

type vertexBuffer struct {
	buf  *wgpu.Buffer
	size uint64
}

func (b *vertexBuffer) Size() uint64 { return b.size }

func (b *vertexBuffer) Release() {
	if b.buf != nil {
		b.buf.Release()
		b.buf = nil
	}
}

func (c *Context) CreateVertexBuffer(label string, size uint64) (Buffer, error) {
	buf, err := c.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label,
		Size:             size,
		Usage:            wgpu.BufferUsage_Vertex | wgpu.BufferUsage_CopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "create vertex buffer %q", label)
	}
	return &vertexBuffer{buf: buf, size: size}, nil
}

func (c *Context) WriteBuffer(buf Buffer, offset uint64, data []byte) error {
	vb, ok := buf.(*vertexBuffer)
	if !ok || vb.buf == nil {
		return errors.New("gpu: buffer was not created by this device")
	}
	c.Queue.WriteBuffer(vb.buf, offset, data)
	return nil
}

func (c *Context) Release() {
	if c.Queue != nil {
		c.Queue.Release()
		c.Queue = nil
	}
	if c.Device != nil {
		c.Device.Release()
		c.Device = nil
	}
}

// RenderPass adapts a wgpu render pass encoder to Pass.
type RenderPass struct {
	Encoder *wgpu.RenderPassEncoder
}

func (p RenderPass) SetPipeline(pipeline *wgpu.RenderPipeline) {
	p.Encoder.SetPipeline(pipeline)
}

func (p RenderPass) SetVertexBuffer(slot uint32, buf Buffer, offset, size uint64) {
	vb, ok := buf.(*vertexBuffer)
	if !ok || vb.buf == nil {
		return
	}
	p.Encoder.SetVertexBuffer(slot, vb.buf, offset, size)
}

func (p RenderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.Encoder.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
}
