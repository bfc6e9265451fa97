// Package viewer shows SLAM data in GPU rendered windows: maps with their
// keyframe trajectory, point sets and feature matches.
//
//	v := viewer.AllocThread[float64]()
//	v.AddWorld(world)
//	v.Run()
package viewer

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"sync/atomic"

	"github.com/pkg/errors"

	"slam_viewer/engine"
	"slam_viewer/gpu"
	"slam_viewer/models"
	"slam_viewer/num"
	"slam_viewer/render"
	"slam_viewer/window"
	"slam_viewer/window/glfwwindow"
)

var ErrAlreadyAllocated = errors.New("viewer: AllocThread called more than once")

var allocated atomic.Bool

// Viewer collects windows and runs them on one event loop.
type Viewer[N num.Number] struct {
	engine *engine.Engine
	log    *slog.Logger
	exit   func(code int)
}

// AllocThread returns the process's viewer. The windowing system allows a
// single event loop per process, so a second call panics with
// ErrAlreadyAllocated.
func AllocThread[N num.Number]() *Viewer[N] {
	if !allocated.CompareAndSwap(false, true) {
		panic(ErrAlreadyAllocated)
	}
	gpu.SetLogLevelFromEnv()
	return newViewer[N](glfwwindow.Platform{}, slog.Default())
}

func newViewer[N num.Number](platform engine.Platform, log *slog.Logger) *Viewer[N] {
	return &Viewer[N]{
		engine: engine.New(platform, log),
		log:    log,
		exit:   os.Exit,
	}
}

// Add opens a window with config that draws what b builds.
func (v *Viewer[N]) Add(b render.Builder, config window.Config[N]) *Viewer[N] {
	return v.AddWindow(&glfwwindow.Builder[N]{Config: config, Renderer: b, Log: v.log})
}

// AddWindow registers a window built by the caller.
func (v *Viewer[N]) AddWindow(b engine.WindowBuilder) *Viewer[N] {
	v.engine.Add(b)
	return v
}

func (v *Viewer[N]) AddWorld(w models.World[N]) *Viewer[N] {
	return v.Add(models.NewWorldModel(w), models.WorldConfig[N]())
}

func (v *Viewer[N]) AddPoints(points []num.Point3[N]) *Viewer[N] {
	return v.Add(models.NewPointsModel(points), models.PointsConfig[N]())
}

func (v *Viewer[N]) AddPoints2D(points []num.Point2[N]) *Viewer[N] {
	return v.Add(models.NewPoints2DModel(points), models.PointsConfig[N]())
}

func (v *Viewer[N]) AddMatches(matches []models.Match[N]) *Viewer[N] {
	return v.Add(models.NewMatchesModel(matches), models.MatchesConfig[N]())
}

func (v *Viewer[N]) AddMatches2D(matches [][2]num.Point2[N]) *Viewer[N] {
	return v.Add(models.NewMatches2DModel(matches), models.MatchesConfig[N]())
}

// Run blocks the calling goroutine, which must be the main one, until the
// user closes a window and then exits the process.
func (v *Viewer[N]) Run() {
	runtime.LockOSThread()
	if err := v.engine.Run(context.Background()); err != nil {
		v.log.Error("viewer stopped", "err", err)
		v.exit(1)
		return
	}
	v.exit(0)
}

// Spawn runs the viewer on its own locked thread and returns at once.
// Platforms that only allow windows on the main thread need Run instead.
func (v *Viewer[N]) Spawn(ctx context.Context) *engine.Handle {
	return v.engine.Spawn(ctx)
}
