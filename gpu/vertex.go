package gpu

import (
	"github.com/EngoEngine/glm"
	"github.com/pkg/errors"
	"github.com/rajveermalviya/go-webgpu/wgpu"
)

// VertexFormatOf maps a Go attribute type to its GPU vertex format.
func VertexFormatOf[T any]() (wgpu.VertexFormat, error) {
	var zero T
	switch any(zero).(type) {
	case float32:
		return wgpu.VertexFormat_Float32, nil
	case [2]float32, glm.Vec2:
		return wgpu.VertexFormat_Float32x2, nil
	case [3]float32, glm.Vec3:
		return wgpu.VertexFormat_Float32x3, nil
	case [4]float32, glm.Vec4:
		return wgpu.VertexFormat_Float32x4, nil
	}
	return 0, errors.Errorf("gpu: no vertex format for %T", zero)
}

// FormatSize is the size in bytes of one attribute of format f.
func FormatSize(f wgpu.VertexFormat) uint64 {
	switch f {
	case wgpu.VertexFormat_Float32:
		return 4
	case wgpu.VertexFormat_Float32x2:
		return 8
	case wgpu.VertexFormat_Float32x3:
		return 12
	case wgpu.VertexFormat_Float32x4:
		return 16
	}
	return 0
}

// Layout packs the given attributes in order, at shader locations 0..n-1.
func Layout(stride uint64, formats ...wgpu.VertexFormat) wgpu.VertexBufferLayout {
	attrs := make([]wgpu.VertexAttribute, len(formats))
	offset := uint64(0)
	for i, f := range formats {
		attrs[i] = wgpu.VertexAttribute{
			Format:         f,
			Offset:         offset,
			ShaderLocation: uint32(i),
		}
		offset += FormatSize(f)
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: stride,
		StepMode:    wgpu.VertexStepMode_Vertex,
		Attributes:  attrs,
	}
}
