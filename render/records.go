package render

import (
	"github.com/EngoEngine/glm"

	"slam_viewer/num"
)

var (
	Red    = glm.Vec3{1, 0, 0}
	Green  = glm.Vec3{0, 1, 0}
	Blue   = glm.Vec3{0, 0, 1}
	Yellow = glm.Vec3{1, 1, 0}
	White  = glm.Vec3{1, 1, 1}
)

// Point is one GPU vertex.
type Point struct {
	Position glm.Vec3
	Color    glm.Vec3
}

func (Point) Weight() uint64 { return 1 }

// Line expands to its two endpoint vertices.
type Line struct {
	Start, End Point
}

func (Line) Weight() uint64 { return 2 }

// Isometry is the frustum glyph drawn at a pose.
type Isometry struct {
	Lines [6]Line
}

func (Isometry) Weight() uint64 { return 12 }

// IsometrySize is the default glyph half-width and half-height.
var IsometrySize = [2]float32{0.2, 0.16}

func NewPoint[N num.Number](p num.Point3[N], color glm.Vec3) Point {
	return Point{Position: p.Vec3(), Color: color}
}

func NewLine[N num.Number](a, b num.Point3[N], color glm.Vec3) Line {
	return Line{Start: NewPoint(a, color), End: NewPoint(b, color)}
}

// NewIsometry maps the corners (±w, ±h, 0) through pose and joins them with
// the two diagonals and the four sides.
func NewIsometry[N num.Number](pose num.Pose[N], size [2]float32, color glm.Vec3) Isometry {
	w, h := N(size[0]), N(size[1])
	corner := func(x, y N) num.Point3[N] {
		return pose.Transform(num.Point3[N]{x, y, 0})
	}
	bl, tl := corner(-w, -h), corner(-w, h)
	tr, br := corner(w, h), corner(w, -h)

	return Isometry{Lines: [6]Line{
		NewLine(bl, tr, color),
		NewLine(tl, br, color),
		NewLine(tr, br, color),
		NewLine(tl, bl, color),
		NewLine(tr, tl, color),
		NewLine(br, bl, color),
	}}
}
