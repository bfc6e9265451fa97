package main

import (
	"github.com/EngoEngine/math"
	"github.com/go-gl/mathgl/mgl64"

	"slam_viewer/models"
	"slam_viewer/num"
)

// rose samples a four petal rose curve.
func rose(n int) []num.Point2[float32] {
	out := make([]num.Point2[float32], n)
	for i := range out {
		t := 2 * math.Pi * float32(i) / float32(n)
		r := math.Cos(2 * t)
		out[i] = num.Point2[float32]{r * math.Cos(t), r * math.Sin(t)}
	}
	return out
}

// shifted pairs every point with a rotated and offset copy of itself.
func shifted(points []num.Point2[float32]) [][2]num.Point2[float32] {
	const angle = 0.3
	s, c := math.Sin(angle), math.Cos(angle)
	out := make([][2]num.Point2[float32], len(points))
	for i, p := range points {
		q := num.Point2[float32]{c*p[0] - s*p[1] + 0.5, s*p[0] + c*p[1]}
		out[i] = [2]num.Point2[float32]{p, q}
	}
	return out
}

type landmark num.Point3[float64]

func (l landmark) PointWorld() num.Point3[float64] { return num.Point3[float64](l) }

type keyframe num.Pose[float64]

func (k keyframe) Pose() num.Pose[float64] { return num.Pose[float64](k) }

// demoWorld is a fixed map.
type demoWorld struct {
	landmarks []landmark
	keyframes []keyframe
}

func (w *demoWorld) ForLandmarks(fn func(models.Landmark[float64])) {
	for _, l := range w.landmarks {
		fn(l)
	}
}

func (w *demoWorld) ForKeyFrames(fn func(models.KeyFrame[float64])) {
	for _, k := range w.keyframes {
		fn(k)
	}
}

// helix is a camera flying up a helix inside a cylinder of landmarks,
// always looking at the axis.
func helix(keyframes, landmarks int) *demoWorld {
	w := &demoWorld{}
	for i := 0; i < keyframes; i++ {
		t := 4 * math.Pi * float32(i) / float32(keyframes)
		eye := mgl64.Vec3{1.5 * float64(math.Cos(t)), float64(i) * 0.02, 1.5 * float64(math.Sin(t))}
		view := mgl64.LookAtV(eye, mgl64.Vec3{0, eye.Y(), 0}, mgl64.Vec3{0, 1, 0})
		w.keyframes = append(w.keyframes, keyframe(num.PoseFromMgl[float64](view.Inv())))
	}
	height := float32(keyframes) * 0.02
	for i := 0; i < landmarks; i++ {
		a := 2 * math.Pi * float32(i*7%landmarks) / float32(landmarks)
		y := height * float32(i) / float32(landmarks)
		w.landmarks = append(w.landmarks, landmark{
			float64(3 * math.Cos(a)),
			float64(y),
			float64(3 * math.Sin(a)),
		})
	}
	return w
}
