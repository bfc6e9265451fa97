package models

import (
	"github.com/rajveermalviya/go-webgpu/wgpu"

	"slam_viewer/gpu"
	"slam_viewer/num"
	"slam_viewer/render"
	"slam_viewer/window"
)

// PointsModel draws a fixed point set.
type PointsModel[N num.Number] struct {
	Points render.Points[N]
}

func NewPointsModel[N num.Number](points []num.Point3[N]) *PointsModel[N] {
	return &PointsModel[N]{Points: points}
}

// NewPoints2DModel places 2D points on the z = 0 plane.
func NewPoints2DModel[N num.Number](points []num.Point2[N]) *PointsModel[N] {
	lifted := make([]num.Point3[N], len(points))
	for i, p := range points {
		lifted[i] = p.Lift()
	}
	return &PointsModel[N]{Points: lifted}
}

func PointsConfig[N num.Number]() window.Config[N] {
	return window.DefaultConfig[N]("2d Points Viewer")
}

func (m *PointsModel[N]) VisualPoints() []num.Point3[N] { return m.Points }

func (m *PointsModel[N]) Build(ctx *gpu.Context, format wgpu.TextureFormat, uniforms *wgpu.BindGroupLayout) (render.Renderer, error) {
	return render.NewPoints[N](m).Build(ctx, format, uniforms)
}
