package render

import (
	"github.com/EngoEngine/glm"
	"github.com/rajveermalviya/go-webgpu/wgpu"

	"slam_viewer/gpu"
	"slam_viewer/num"
)

// PointsBuilder draws a PointSource as a point list.
type PointsBuilder[N num.Number] struct {
	Source PointSource[N]
	Color  glm.Vec3
}

// NewPoints uses the source's own color when it has one, red otherwise.
func NewPoints[N num.Number](src PointSource[N]) *PointsBuilder[N] {
	return &PointsBuilder[N]{Source: src, Color: colorOf(src, Red)}
}

func (b *PointsBuilder[N]) Build(ctx *gpu.Context, format wgpu.TextureFormat, uniforms *wgpu.BindGroupLayout) (Renderer, error) {
	pipeline, err := newPipeline(ctx, "points", format, uniforms, wgpu.PrimitiveTopology_PointList)
	if err != nil {
		return nil, err
	}
	return b.Renderer(pipeline), nil
}

// Renderer wraps an already built pipeline.
func (b *PointsBuilder[N]) Renderer(pipeline *wgpu.RenderPipeline) *PointsRenderer[N] {
	src, color := b.Source, b.Color
	return &PointsRenderer[N]{newVecRenderer("points", pipeline, func() []Point {
		pts := src.VisualPoints()
		out := make([]Point, len(pts))
		for i, p := range pts {
			out[i] = NewPoint(p, color)
		}
		return out
	})}
}

type PointsRenderer[N num.Number] struct {
	*vecRenderer[Point]
}

// LinesBuilder draws a LineSource as a line list.
type LinesBuilder[N num.Number] struct {
	Source LineSource[N]
	Color  glm.Vec3
}

// NewLines uses the source's own color when it has one, green otherwise.
func NewLines[N num.Number](src LineSource[N]) *LinesBuilder[N] {
	return &LinesBuilder[N]{Source: src, Color: colorOf(src, Green)}
}

func (b *LinesBuilder[N]) Build(ctx *gpu.Context, format wgpu.TextureFormat, uniforms *wgpu.BindGroupLayout) (Renderer, error) {
	pipeline, err := newPipeline(ctx, "lines", format, uniforms, wgpu.PrimitiveTopology_LineList)
	if err != nil {
		return nil, err
	}
	return b.Renderer(pipeline), nil
}

func (b *LinesBuilder[N]) Renderer(pipeline *wgpu.RenderPipeline) *LinesRenderer[N] {
	src, color := b.Source, b.Color
	return &LinesRenderer[N]{newVecRenderer("lines", pipeline, func() []Line {
		segs := src.VisualLines()
		out := make([]Line, len(segs))
		for i, s := range segs {
			out[i] = NewLine(s[0], s[1], color)
		}
		return out
	})}
}

type LinesRenderer[N num.Number] struct {
	*vecRenderer[Line]
}

// IsometriesBuilder draws every pose of an IsometrySource as a frustum
// glyph.
type IsometriesBuilder[N num.Number] struct {
	Source IsometrySource[N]
	Color  glm.Vec3
	Size   [2]float32
}

// NewIsometries uses the source's own color and size when it has them,
// blue and IsometrySize otherwise.
func NewIsometries[N num.Number](src IsometrySource[N]) *IsometriesBuilder[N] {
	b := &IsometriesBuilder[N]{Source: src, Color: colorOf(src, Blue), Size: IsometrySize}
	if s, ok := src.(Sized); ok {
		b.Size = s.IsometrySize()
	}
	return b
}

func (b *IsometriesBuilder[N]) Build(ctx *gpu.Context, format wgpu.TextureFormat, uniforms *wgpu.BindGroupLayout) (Renderer, error) {
	pipeline, err := newPipeline(ctx, "isometries", format, uniforms, wgpu.PrimitiveTopology_LineList)
	if err != nil {
		return nil, err
	}
	return b.Renderer(pipeline), nil
}

func (b *IsometriesBuilder[N]) Renderer(pipeline *wgpu.RenderPipeline) *IsometriesRenderer[N] {
	src, color, size := b.Source, b.Color, b.Size
	return &IsometriesRenderer[N]{newVecRenderer("isometries", pipeline, func() []Isometry {
		poses := src.VisualIsometries()
		out := make([]Isometry, len(poses))
		for i, p := range poses {
			out[i] = NewIsometry(p, size, color)
		}
		return out
	})}
}

type IsometriesRenderer[N num.Number] struct {
	*vecRenderer[Isometry]
}
