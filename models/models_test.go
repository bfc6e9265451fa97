package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slam_viewer/num"
	"slam_viewer/render"
)

type landmark num.Point3[float64]

func (l landmark) PointWorld() num.Point3[float64] { return num.Point3[float64](l) }

type keyframe num.Pose[float64]

func (k keyframe) Pose() num.Pose[float64] { return num.Pose[float64](k) }

type sliceWorld struct {
	landmarks []landmark
	keyframes []keyframe
}

func (w *sliceWorld) ForLandmarks(fn func(Landmark[float64])) {
	for _, l := range w.landmarks {
		fn(l)
	}
}

func (w *sliceWorld) ForKeyFrames(fn func(KeyFrame[float64])) {
	for _, k := range w.keyframes {
		fn(k)
	}
}

// copyingWorld hands out a copy of its state on Snapshot.
type copyingWorld struct {
	sliceWorld
	snapshots int
}

func (w *copyingWorld) Snapshot() World[float64] {
	w.snapshots++
	return &sliceWorld{
		landmarks: append([]landmark(nil), w.landmarks...),
		keyframes: append([]keyframe(nil), w.keyframes...),
	}
}

func trajectory(n int) []keyframe {
	out := make([]keyframe, n)
	for i := range out {
		out[i] = keyframe(num.Translation(num.P3(float64(i)*0.1, 0, -float64(i))))
	}
	return out
}

func TestWorldTrajectoryLines(t *testing.T) {
	w := &sliceWorld{keyframes: trajectory(20)}
	m := NewWorldModel[float64](w)

	lines := m.VisualLines()
	require.Len(t, lines, 20)
	assert.Equal(t, lines[0][0], lines[0][1], "first keyframe is a degenerate segment")
	for i := 1; i < 20; i++ {
		assert.Equal(t, w.keyframes[i-1].Pose().Translation(), lines[i][0])
		assert.Equal(t, w.keyframes[i].Pose().Translation(), lines[i][1])
	}
	assert.Len(t, m.VisualIsometries(), 20)
}

func TestWorldPoints(t *testing.T) {
	w := &sliceWorld{landmarks: []landmark{{1, 2, 3}, {4, 5, 6}}}
	m := NewWorldModel[float64](w)
	assert.Equal(t, []num.Point3[float64]{{1, 2, 3}, {4, 5, 6}}, m.VisualPoints())
	assert.Empty(t, m.VisualLines())
	assert.Empty(t, m.VisualIsometries())
}

func TestWorldReadsOneSnapshotPerFrame(t *testing.T) {
	w := &copyingWorld{sliceWorld: sliceWorld{keyframes: trajectory(3)}}
	m := NewWorldModel[float64](w)
	assert.Equal(t, 1, w.snapshots)

	w.keyframes = trajectory(5)
	w.landmarks = []landmark{{0, 0, 0}}
	assert.Len(t, m.VisualLines(), 3, "reads stay on the old snapshot")
	assert.Empty(t, m.VisualPoints())

	r := refreshing{refresh: m.Refresh, Renderer: render.Group{}}
	require.NoError(t, r.Render(nil, nil))
	assert.Equal(t, 2, w.snapshots)
	assert.Len(t, m.VisualLines(), 5)
	assert.Len(t, m.VisualIsometries(), 5)
	assert.Len(t, m.VisualPoints(), 1)
}

func TestPoints2DLieOnPlane(t *testing.T) {
	m := NewPoints2DModel([]num.Point2[float32]{{1, 2}, {-3, 4}})
	assert.Equal(t, []num.Point3[float32]{{1, 2, 0}, {-3, 4, 0}}, m.VisualPoints())
	assert.Equal(t, "2d Points Viewer", PointsConfig[float32]().Title)
}

func TestMatchesSides(t *testing.T) {
	m := NewMatches2DModel([][2]num.Point2[float64]{
		{{0, 0}, {1, 1}},
		{{2, 0}, {3, 1}},
	})
	assert.Equal(t, render.Points[float64]{{0, 0, 0}, {2, 0, 0}}, m.First())
	assert.Equal(t, render.Points[float64]{{1, 1, 0}, {3, 1, 0}}, m.Second())
	assert.Equal(t, [][2]num.Point3[float64]{
		{{0, 0, 0}, {1, 1, 0}},
		{{2, 0, 0}, {3, 1, 0}},
	}, m.VisualLines())
}

func TestMatchesColors(t *testing.T) {
	bs := NewMatchesModel[float64](nil).builders()
	require.Len(t, bs, 3)
	assert.Equal(t, render.Red, bs[0].(*render.PointsBuilder[float64]).Color)
	assert.Equal(t, render.Yellow, bs[1].(*render.PointsBuilder[float64]).Color)
	assert.Equal(t, render.Green, bs[2].(*render.LinesBuilder[float64]).Color)
}

func TestMatchesSidesFollowUpdates(t *testing.T) {
	m := NewMatchesModel[float64](nil)
	b := render.NewPoints[float64](sideFunc[float64](m.First))
	m.Matches = append(m.Matches, Match[float64]{A: num.P3(1.0, 1, 1)})
	assert.Equal(t, []num.Point3[float64]{{1, 1, 1}}, b.Source.VisualPoints())
}

func TestDefaultWindowTitles(t *testing.T) {
	assert.Equal(t, "Map Viewer", WorldConfig[float64]().Title)
	assert.Equal(t, "Matches Viewer", MatchesConfig[float64]().Title)
	assert.Equal(t, uint32(120), WorldConfig[float64]().Framerate)
}
