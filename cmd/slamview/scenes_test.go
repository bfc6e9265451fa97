package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slam_viewer/models"
)

func TestHelixWorld(t *testing.T) {
	w := helix(20, 100)
	m := models.NewWorldModel[float64](w)
	assert.Len(t, m.VisualPoints(), 100)
	assert.Len(t, m.VisualLines(), 20)

	first := w.keyframes[0].Pose().Translation()
	assert.InDelta(t, 1.5, first.X(), 1e-6)
	assert.InDelta(t, 0, first.Y(), 1e-6)
}

func TestShiftedPairsEveryPoint(t *testing.T) {
	pts := rose(8)
	pairs := shifted(pts)
	require.Len(t, pairs, 8)
	for i, p := range pairs {
		assert.Equal(t, pts[i], p[0])
	}
}
