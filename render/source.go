package render

import (
	"github.com/EngoEngine/glm"

	"slam_viewer/num"
)

// PointSource furnishes the complete current set of points.
type PointSource[N num.Number] interface {
	VisualPoints() []num.Point3[N]
}

// LineSource furnishes the complete current set of segments.
type LineSource[N num.Number] interface {
	VisualLines() [][2]num.Point3[N]
}

// IsometrySource furnishes the poses to draw as frustum glyphs.
type IsometrySource[N num.Number] interface {
	VisualIsometries() []num.Pose[N]
}

// Colored overrides the default color of a source.
type Colored interface {
	Color() glm.Vec3
}

// Sized overrides the frustum glyph half-size of an isometry source.
type Sized interface {
	IsometrySize() [2]float32
}

func colorOf(src any, fallback glm.Vec3) glm.Vec3 {
	if c, ok := src.(Colored); ok {
		return c.Color()
	}
	return fallback
}

// Points is a PointSource over a fixed slice.
type Points[N num.Number] []num.Point3[N]

func (p Points[N]) VisualPoints() []num.Point3[N] { return p }

// Lines is a LineSource over a fixed slice.
type Lines[N num.Number] [][2]num.Point3[N]

func (l Lines[N]) VisualLines() [][2]num.Point3[N] { return l }

// Poses is an IsometrySource over a fixed slice.
type Poses[N num.Number] []num.Pose[N]

func (p Poses[N]) VisualIsometries() []num.Pose[N] { return p }
