package models

import (
	"github.com/rajveermalviya/go-webgpu/wgpu"

	"slam_viewer/gpu"
	"slam_viewer/num"
	"slam_viewer/render"
	"slam_viewer/window"
)

// Match pairs a point of the first set with its counterpart in the second.
type Match[N num.Number] struct {
	A, B num.Point3[N]
}

// MatchesModel draws the first set in red, the second in yellow and joins
// each pair with a green line.
type MatchesModel[N num.Number] struct {
	Matches []Match[N]
}

func NewMatchesModel[N num.Number](matches []Match[N]) *MatchesModel[N] {
	return &MatchesModel[N]{Matches: matches}
}

// NewMatches2DModel places both sets on the z = 0 plane.
func NewMatches2DModel[N num.Number](matches [][2]num.Point2[N]) *MatchesModel[N] {
	out := make([]Match[N], len(matches))
	for i, m := range matches {
		out[i] = Match[N]{A: m[0].Lift(), B: m[1].Lift()}
	}
	return &MatchesModel[N]{Matches: out}
}

func MatchesConfig[N num.Number]() window.Config[N] {
	return window.DefaultConfig[N]("Matches Viewer")
}

func (m *MatchesModel[N]) First() render.Points[N] {
	out := make(render.Points[N], len(m.Matches))
	for i, p := range m.Matches {
		out[i] = p.A
	}
	return out
}

func (m *MatchesModel[N]) Second() render.Points[N] {
	out := make(render.Points[N], len(m.Matches))
	for i, p := range m.Matches {
		out[i] = p.B
	}
	return out
}

func (m *MatchesModel[N]) VisualLines() [][2]num.Point3[N] {
	out := make([][2]num.Point3[N], len(m.Matches))
	for i, p := range m.Matches {
		out[i] = [2]num.Point3[N]{p.A, p.B}
	}
	return out
}

func (m *MatchesModel[N]) builders() render.Builders {
	return render.Builders{
		&render.PointsBuilder[N]{Source: sideFunc[N](m.First), Color: render.Red},
		&render.PointsBuilder[N]{Source: sideFunc[N](m.Second), Color: render.Yellow},
		&render.LinesBuilder[N]{Source: m, Color: render.Green},
	}
}

func (m *MatchesModel[N]) Build(ctx *gpu.Context, format wgpu.TextureFormat, uniforms *wgpu.BindGroupLayout) (render.Renderer, error) {
	return m.builders().Build(ctx, format, uniforms)
}

// sideFunc re-reads one side of the matches every frame.
type sideFunc[N num.Number] func() render.Points[N]

func (f sideFunc[N]) VisualPoints() []num.Point3[N] { return f() }
