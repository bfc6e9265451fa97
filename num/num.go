// Package num holds the scalar and small geometric types shared by the
// viewer. Host data may use float32 or float64; everything converts to
// float32 on its way to the GPU.
package num

import (
	"github.com/EngoEngine/glm"
	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/exp/constraints"
)

// Number is the scalar type of host geometry.
type Number interface {
	constraints.Float
}

type Point2[N Number] [2]N

type Point3[N Number] [3]N

// Pose is a homogeneous 4x4 transform in column-major order, the same
// layout as mgl64.Mat4 and glm.Mat4.
type Pose[N Number] [16]N

func P3[N Number](x, y, z N) Point3[N] {
	return Point3[N]{x, y, z}
}

func (p Point2[N]) Lift() Point3[N] {
	return Point3[N]{p[0], p[1], 0}
}

func (p Point3[N]) X() N { return p[0] }
func (p Point3[N]) Y() N { return p[1] }
func (p Point3[N]) Z() N { return p[2] }

// Vec3 narrows the point to the float32 vector used in vertex records.
func (p Point3[N]) Vec3() glm.Vec3 {
	return glm.Vec3{float32(p[0]), float32(p[1]), float32(p[2])}
}

func (p Point3[N]) Mgl() mgl64.Vec3 {
	return mgl64.Vec3{float64(p[0]), float64(p[1]), float64(p[2])}
}

func FromMgl[N Number](v mgl64.Vec3) Point3[N] {
	return Point3[N]{N(v[0]), N(v[1]), N(v[2])}
}

// Identity returns the identity pose.
func Identity[N Number]() Pose[N] {
	return Pose[N]{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation returns a pose that only translates by t.
func Translation[N Number](t Point3[N]) Pose[N] {
	p := Identity[N]()
	p[12], p[13], p[14] = t[0], t[1], t[2]
	return p
}

func PoseFromMgl[N Number](m mgl64.Mat4) Pose[N] {
	var p Pose[N]
	for i, v := range m {
		p[i] = N(v)
	}
	return p
}

func (p Pose[N]) Mgl() mgl64.Mat4 {
	var m mgl64.Mat4
	for i, v := range p {
		m[i] = float64(v)
	}
	return m
}

// Translation is the position of the pose origin.
func (p Pose[N]) Translation() Point3[N] {
	return Point3[N]{p[12], p[13], p[14]}
}

// Transform maps a point given in the pose's local frame.
func (p Pose[N]) Transform(local Point3[N]) Point3[N] {
	v := p.Mgl().Mul4x1(mgl64.Vec4{float64(local[0]), float64(local[1]), float64(local[2]), 1})
	return Point3[N]{N(v[0]), N(v[1]), N(v[2])}
}
