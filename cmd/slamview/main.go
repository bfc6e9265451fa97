// Command slamview opens the viewer on generated data.
//
//	slamview -scene world
//	slamview -scene live -addr localhost:8080
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/pkg/errors"

	viewer "slam_viewer"
	"slam_viewer/feed"
	"slam_viewer/models"
	"slam_viewer/num"
	"slam_viewer/window"
)

func init() {
	runtime.LockOSThread()
}

var (
	scene   = flag.String("scene", "world", "scene to show: points, matches, world or live")
	config  = flag.String("config", "", "TOML file overriding the window config")
	addr    = flag.String("addr", "localhost:8080", "feed address for the live scene")
	verbose = flag.Bool("v", false, "debug logging")
)

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	var err error
	switch *scene {
	case "points":
		err = showPoints()
	case "matches":
		err = showMatches()
	case "world":
		err = showWorld()
	case "live":
		err = showLive()
	default:
		err = errors.Errorf("unknown scene %q", *scene)
	}
	if err != nil {
		slog.Error("slamview", "err", err)
		os.Exit(2)
	}
}

func load[N num.Number](base window.Config[N]) (window.Config[N], error) {
	if *config == "" {
		return base, nil
	}
	return window.LoadConfig(*config, base)
}

func showPoints() error {
	cfg, err := load(models.PointsConfig[float32]())
	if err != nil {
		return err
	}
	v := viewer.AllocThread[float32]()
	v.Add(models.NewPoints2DModel(rose(400)), cfg)
	v.Run()
	return nil
}

func showMatches() error {
	cfg, err := load(models.MatchesConfig[float32]())
	if err != nil {
		return err
	}
	v := viewer.AllocThread[float32]()
	v.Add(models.NewMatches2DModel(shifted(rose(60))), cfg)
	v.Run()
	return nil
}

func showWorld() error {
	cfg, err := load(models.WorldConfig[float64]())
	if err != nil {
		return err
	}
	v := viewer.AllocThread[float64]()
	v.Add(models.NewWorldModel[float64](helix(40, 500)), cfg)
	v.Run()
	return nil
}

func showLive() error {
	cfg, err := load(models.WorldConfig[float64]())
	if err != nil {
		return err
	}
	ctx := context.Background()
	world := feed.NewWorld[float64]()
	srv := feed.NewServer(world, slog.Default())
	go func() {
		if err := srv.ListenAndServe(ctx, *addr); err != nil {
			slog.Error("feed", "err", err)
		}
	}()
	go replay(ctx, "ws://"+*addr+"/", helix(200, 2000))

	v := viewer.AllocThread[float64]()
	v.Add(models.NewWorldModel[float64](world), cfg)
	v.Run()
	return nil
}

// replay publishes w one keyframe at a time, as a running SLAM system
// would.
func replay(ctx context.Context, url string, w *demoWorld) {
	var p *feed.Publisher[float64]
	for p == nil {
		var err error
		if p, err = feed.Dial[float64](ctx, url); err != nil {
			slog.Debug("feed not up yet", "err", err)
			time.Sleep(100 * time.Millisecond)
		}
	}
	defer p.Close()

	perFrame := len(w.landmarks) / max(len(w.keyframes), 1)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for i, k := range w.keyframes {
		p.InsertKeyFrame(uint32(i), k.Pose())
		for j := i * perFrame; j < (i+1)*perFrame; j++ {
			p.InsertLandmark(uint32(j), w.landmarks[j].PointWorld())
		}
		if err := p.Flush(); err != nil {
			slog.Error("feed publish", "err", err)
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
		}
	}
}
