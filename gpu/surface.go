package gpu

import (
	"strings"

	"github.com/pkg/errors"
)

var ErrSurfaceTimeout = errors.New("gpu: surface timed out")

// SurfaceStatus classifies a failure to acquire the next frame.
type SurfaceStatus int

const (
	SurfaceFailed SurfaceStatus = iota
	// SurfaceOutdated and SurfaceLost are fixed by configuring the swap
	// chain again.
	SurfaceOutdated
	SurfaceLost
	SurfaceTimeout
)

func SurfaceStatusOf(err error) SurfaceStatus {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "Surface timed out"):
		return SurfaceTimeout
	case strings.Contains(msg, "Surface is outdated"):
		return SurfaceOutdated
	case strings.Contains(msg, "Surface was lost"):
		return SurfaceLost
	}
	return SurfaceFailed
}
