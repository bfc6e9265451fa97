package gpu

import (
	"unsafe"

	"github.com/pkg/errors"
	"github.com/rajveermalviya/go-webgpu/wgpu"
)

// Vertex is a record uploaded to a vertex buffer. Weight is the number of
// GPU vertices one record expands to.
type Vertex interface {
	Weight() uint64
}

// GpuVec keeps the last uploaded records and a vertex buffer holding them.
// The buffer only grows: data that fits is rewritten in place, larger data
// gets a new buffer of at least twice the old capacity.
type GpuVec[D Vertex] struct {
	label string

	cpu      []D
	buf      Buffer
	capacity int
}

func NewGpuVec[D Vertex](label string) *GpuVec[D] {
	return &GpuVec[D]{label: label}
}

// Update replaces the records and uploads them.
func (v *GpuVec[D]) Update(dev Device, data []D) error {
	v.cpu = data
	if len(data) == 0 {
		return nil
	}

	if len(data) > v.capacity {
		capacity := max(len(data), 2*v.capacity)
		buf, err := dev.CreateVertexBuffer(v.label, uint64(capacity)*v.stride())
		if err != nil {
			return errors.Wrapf(err, "grow %s to %d records", v.label, capacity)
		}
		if v.buf != nil {
			v.buf.Release()
		}
		v.buf = buf
		v.capacity = capacity
	}

	return errors.Wrapf(dev.WriteBuffer(v.buf, 0, wgpu.ToBytes(data)), "write %s", v.label)
}

// Draw binds the buffer to slot 0 and draws the current records. Only the
// uploaded prefix is drawn, never the spare capacity.
func (v *GpuVec[D]) Draw(pass Pass) {
	if v.buf == nil || len(v.cpu) == 0 {
		return
	}
	var zero D
	n := uint64(len(v.cpu))
	pass.SetVertexBuffer(0, v.buf, 0, n*v.stride())
	pass.Draw(uint32(zero.Weight()*n), 1, 0, 0)
}

func (v *GpuVec[D]) Len() int { return len(v.cpu) }

// Cap is the capacity of the GPU buffer in records.
func (v *GpuVec[D]) Cap() int { return v.capacity }

// Data is the last uploaded snapshot.
func (v *GpuVec[D]) Data() []D { return v.cpu }

func (v *GpuVec[D]) Release() {
	if v.buf != nil {
		v.buf.Release()
		v.buf = nil
	}
	v.cpu = nil
	v.capacity = 0
}

func (v *GpuVec[D]) stride() uint64 {
	var zero D
	return uint64(unsafe.Sizeof(zero))
}
