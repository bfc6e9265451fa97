package camera

import "slam_viewer/num"

// Frustum is the serializable description of an initial camera.
type Frustum[N num.Number] struct {
	Eye num.Point3[N] `toml:"eye"`
	At  num.Point3[N] `toml:"at"`

	Fovy  N `toml:"fovy"`
	Znear N `toml:"znear"`
	Zfar  N `toml:"zfar"`
}

// Camera builds a Y-up camera at Eye looking at At.
func (f Frustum[N]) Camera() *Camera[N] {
	c := &Camera[N]{
		Fovy:  f.Fovy,
		Znear: f.Znear,
		Zfar:  f.Zfar,
		Coord: YUp(),
	}
	eye := f.Eye
	c.LookAt(&eye, f.At)
	return c
}
