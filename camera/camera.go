// Package camera implements the orbit camera shared by all pipelines of a
// window and the controller that turns input into camera motion.
//
// The camera keeps its orientation as yaw and pitch angles measured in a
// frame where the configured up axis is +Y. Pitch is the polar angle from
// the up axis, so 0 looks straight up and pi straight down.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"slam_viewer/num"
)

// PitchEpsilon keeps pitch away from the poles, where the view basis
// degenerates.
const PitchEpsilon = 0.01

// wgpuClip maps OpenGL clip depth [-1, 1] to the WebGPU range [0, 1].
var wgpuClip = mgl64.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// CoordSystem is a right-handed frame described by its up axis.
type CoordSystem struct {
	UpAxis        mgl64.Vec3
	RotationToYUp mgl64.Quat
}

func YUp() CoordSystem {
	return FromUpAxis(mgl64.Vec3{0, 1, 0})
}

func FromUpAxis(up mgl64.Vec3) CoordSystem {
	up = up.Normalize()
	y := mgl64.Vec3{0, 1, 0}

	var rot mgl64.Quat
	if up.Dot(y) <= -1+1e-9 {
		rot = mgl64.QuatRotate(math.Pi, mgl64.Vec3{1, 0, 0})
	} else {
		rot = mgl64.QuatBetweenVectors(up, y)
	}
	return CoordSystem{UpAxis: up, RotationToYUp: rot}
}

type Camera[N num.Number] struct {
	Eye   num.Point3[N]
	Yaw   N
	Pitch N

	Fovy  N
	Znear N
	Zfar  N

	Coord CoordSystem
}

// LookAt orients the camera toward at. A nil eye keeps the current one.
func (c *Camera[N]) LookAt(eye *num.Point3[N], at num.Point3[N]) {
	e := c.Eye
	if eye != nil {
		e = *eye
	}
	c.Eye = e

	dist := e.Mgl().Sub(at.Mgl()).Len()
	if dist == 0 {
		c.updateRestrictions()
		return
	}

	viewEye := c.Coord.RotationToYUp.Rotate(e.Mgl())
	viewAt := c.Coord.RotationToYUp.Rotate(at.Mgl())
	c.Pitch = N(math.Acos(clamp((viewAt.Y()-viewEye.Y())/dist, -1, 1)))
	c.Yaw = N(math.Atan2(viewAt.Z()-viewEye.Z(), viewAt.X()-viewEye.X()))
	c.updateRestrictions()
}

// At is the point one unit in front of the eye.
func (c *Camera[N]) At() num.Point3[N] {
	return num.FromMgl[N](c.at())
}

// ViewProj is the combined view and projection matrix for the given
// viewport aspect ratio.
func (c *Camera[N]) ViewProj(aspect N) mgl64.Mat4 {
	proj := mgl64.Perspective(float64(c.Fovy), float64(aspect), float64(c.Znear), float64(c.Zfar))
	view := mgl64.LookAtV(c.Eye.Mgl(), c.at(), c.Coord.UpAxis)
	return wgpuClip.Mul4(proj).Mul4(view)
}

func (c *Camera[N]) Rotate(d num.Point2[N]) {
	c.Yaw += d[0]
	c.Pitch += d[1]

	c.updateRestrictions()
}

// MoveTo trucks and pedestals the eye in the view plane.
func (c *Camera[N]) MoveTo(d num.Point2[N]) {
	eye := c.Eye.Mgl()
	dir := c.at().Sub(eye).Normalize()
	tangent := c.Coord.UpAxis.Cross(dir).Normalize()
	bitangent := dir.Cross(tangent)

	eye = eye.Add(tangent.Mul(float64(d[0]))).Add(bitangent.Mul(float64(d[1])))
	c.Eye = num.FromMgl[N](eye)
}

// Scale dollies the eye along the view direction.
func (c *Camera[N]) Scale(off N) {
	eye := c.Eye.Mgl()
	front := c.at().Sub(eye).Normalize()
	c.Eye = num.FromMgl[N](eye.Add(front.Mul(float64(off))))
}

func (c *Camera[N]) at() mgl64.Vec3 {
	yaw, pitch := float64(c.Yaw), float64(c.Pitch)
	viewEye := c.Coord.RotationToYUp.Rotate(c.Eye.Mgl())
	a := mgl64.Vec3{
		viewEye.X() + math.Cos(yaw)*math.Sin(pitch),
		viewEye.Y() + math.Cos(pitch),
		viewEye.Z() + math.Sin(yaw)*math.Sin(pitch),
	}
	return c.Coord.RotationToYUp.Inverse().Rotate(a)
}

func (c *Camera[N]) updateRestrictions() {
	thr := N(PitchEpsilon)
	if c.Pitch <= thr {
		c.Pitch = thr
	}
	if pi := N(math.Pi); c.Pitch > pi-thr {
		c.Pitch = pi - thr
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
