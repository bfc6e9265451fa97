// Package models adapts host data to the render sources and gives each
// kind of data a default window.
package models

import (
	"github.com/rajveermalviya/go-webgpu/wgpu"

	"slam_viewer/gpu"
	"slam_viewer/num"
	"slam_viewer/render"
	"slam_viewer/window"
)

// Landmark is a mapped 3D point.
type Landmark[N num.Number] interface {
	PointWorld() num.Point3[N]
}

// KeyFrame is a retained camera pose.
type KeyFrame[N num.Number] interface {
	Pose() num.Pose[N]
}

// World is the host map. Keyframes are visited in trajectory order.
type World[N num.Number] interface {
	ForLandmarks(fn func(Landmark[N]))
	ForKeyFrames(fn func(KeyFrame[N]))
}

// Snapshotter is implemented by worlds that change while the viewer runs.
// The world model takes one snapshot per frame and reads all of its
// geometry from it.
type Snapshotter[N num.Number] interface {
	Snapshot() World[N]
}

// CollectLandmarks maps every landmark of w.
func CollectLandmarks[N num.Number, T any](w World[N], fn func(Landmark[N]) T) []T {
	var out []T
	w.ForLandmarks(func(l Landmark[N]) {
		out = append(out, fn(l))
	})
	return out
}

// CollectKeyFrames maps every keyframe of w.
func CollectKeyFrames[N num.Number, T any](w World[N], fn func(KeyFrame[N]) T) []T {
	var out []T
	w.ForKeyFrames(func(k KeyFrame[N]) {
		out = append(out, fn(k))
	})
	return out
}

// WorldModel draws landmarks as points, the keyframe trajectory as lines
// and every keyframe as a frustum glyph.
type WorldModel[N num.Number] struct {
	world World[N]
	frame World[N]
}

func NewWorldModel[N num.Number](w World[N]) *WorldModel[N] {
	m := &WorldModel[N]{world: w}
	m.Refresh()
	return m
}

func WorldConfig[N num.Number]() window.Config[N] {
	return window.DefaultConfig[N]("Map Viewer")
}

// Refresh takes the snapshot the next reads observe.
func (m *WorldModel[N]) Refresh() {
	if s, ok := m.world.(Snapshotter[N]); ok {
		m.frame = s.Snapshot()
		return
	}
	m.frame = m.world
}

func (m *WorldModel[N]) VisualPoints() []num.Point3[N] {
	return CollectLandmarks(m.frame, Landmark[N].PointWorld)
}

// VisualLines joins consecutive keyframe positions. The first keyframe
// yields a zero-length segment.
func (m *WorldModel[N]) VisualLines() [][2]num.Point3[N] {
	var (
		out  [][2]num.Point3[N]
		prev *num.Point3[N]
	)
	m.frame.ForKeyFrames(func(k KeyFrame[N]) {
		p := k.Pose().Translation()
		if prev == nil {
			out = append(out, [2]num.Point3[N]{p, p})
		} else {
			out = append(out, [2]num.Point3[N]{*prev, p})
		}
		prev = &p
	})
	return out
}

func (m *WorldModel[N]) VisualIsometries() []num.Pose[N] {
	return CollectKeyFrames(m.frame, KeyFrame[N].Pose)
}

func (m *WorldModel[N]) builders() render.Builders {
	return render.Builders{
		render.NewPoints[N](m),
		render.NewLines[N](m),
		render.NewIsometries[N](m),
	}
}

func (m *WorldModel[N]) Build(ctx *gpu.Context, format wgpu.TextureFormat, uniforms *wgpu.BindGroupLayout) (render.Renderer, error) {
	r, err := m.builders().Build(ctx, format, uniforms)
	if err != nil {
		return nil, err
	}
	return refreshing{refresh: m.Refresh, Renderer: r}, nil
}

// refreshing snapshots the model before each frame.
type refreshing struct {
	refresh func()
	render.Renderer
}

func (r refreshing) Render(dev gpu.Device, pass gpu.Pass) error {
	r.refresh()
	return r.Renderer.Render(dev, pass)
}
