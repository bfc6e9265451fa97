package render

import (
	"testing"

	"github.com/EngoEngine/glm"
	"github.com/pkg/errors"
	"github.com/rajveermalviya/go-webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slam_viewer/gpu"
	"slam_viewer/num"
)

type fakeBuffer struct{ size uint64 }

func (b *fakeBuffer) Size() uint64 { return b.size }
func (b *fakeBuffer) Release()     {}

type fakeDevice struct{}

func (fakeDevice) CreateVertexBuffer(label string, size uint64) (gpu.Buffer, error) {
	return &fakeBuffer{size: size}, nil
}

func (fakeDevice) WriteBuffer(buf gpu.Buffer, offset uint64, data []byte) error { return nil }

type fakePass struct {
	pipelines int
	draws     []uint32
}

func (p *fakePass) SetPipeline(*wgpu.RenderPipeline)                 { p.pipelines++ }
func (p *fakePass) SetVertexBuffer(uint32, gpu.Buffer, uint64, uint64) {}
func (p *fakePass) Draw(vertexCount, _, _, _ uint32) {
	p.draws = append(p.draws, vertexCount)
}

type magentaPoints struct{ Points[float64] }

func (magentaPoints) Color() glm.Vec3 { return glm.Vec3{1, 0, 1} }

func TestPointsUploadSourceWithDefaultColor(t *testing.T) {
	src := Points[float64]{
		{-0.1, -0.1, 0},
		{0, 0.1, 0},
		{0.1, -0.1, 0},
		{0, 0, 0},
	}
	r := NewPoints[float64](src).Renderer(nil)
	pass := &fakePass{}
	require.NoError(t, r.Render(fakeDevice{}, pass))

	got := r.Uploaded()
	require.Len(t, got, 4)
	var positions []glm.Vec3
	for _, p := range got {
		assert.Equal(t, Red, p.Color)
		positions = append(positions, p.Position)
	}
	assert.ElementsMatch(t, []glm.Vec3{
		{-0.1, -0.1, 0},
		{0, 0.1, 0},
		{0.1, -0.1, 0},
		{0, 0, 0},
	}, positions)
	assert.Equal(t, []uint32{4}, pass.draws)
}

func TestColoredSourceOverridesDefault(t *testing.T) {
	src := magentaPoints{Points[float64]{{1, 2, 3}}}
	r := NewPoints[float64](src).Renderer(nil)
	require.NoError(t, r.Render(fakeDevice{}, &fakePass{}))
	assert.Equal(t, glm.Vec3{1, 0, 1}, r.Uploaded()[0].Color)
}

func TestRenderPullsSourceEveryFrame(t *testing.T) {
	src := &Points[float32]{{0, 0, 0}, {1, 1, 1}, {2, 2, 2}}
	r := NewPoints[float32](src).Renderer(nil)
	pass := &fakePass{}

	require.NoError(t, r.Render(fakeDevice{}, pass))
	*src = (*src)[:1]
	require.NoError(t, r.Render(fakeDevice{}, pass))
	*src = nil
	require.NoError(t, r.Render(fakeDevice{}, pass))

	assert.Equal(t, []uint32{3, 1}, pass.draws)
	assert.Equal(t, 2, pass.pipelines, "empty frame binds nothing")
}

func TestLinesDrawTwoVerticesPerSegment(t *testing.T) {
	src := Lines[float64]{
		{{0, 0, 0}, {1, 0, 0}},
		{{1, 0, 0}, {1, 1, 0}},
	}
	r := NewLines[float64](src).Renderer(nil)
	pass := &fakePass{}
	require.NoError(t, r.Render(fakeDevice{}, pass))

	got := r.Uploaded()
	require.Len(t, got, 2)
	assert.Equal(t, glm.Vec3{1, 1, 0}, got[1].End.Position)
	assert.Equal(t, Green, got[0].Start.Color)
	assert.Equal(t, []uint32{4}, pass.draws)
}

func TestIsometryOfTranslation(t *testing.T) {
	const w, h = 0.2, 0.16
	tr := num.P3(1.0, -2.0, 3.0)
	iso := NewIsometry(num.Translation(tr), [2]float32{w, h}, Blue)

	c := func(x, y float64) glm.Vec3 {
		return glm.Vec3{float32(1 + x), float32(-2 + y), 3}
	}
	want := [6][2]glm.Vec3{
		{c(-w, -h), c(w, h)},
		{c(-w, h), c(w, -h)},
		{c(w, h), c(w, -h)},
		{c(-w, h), c(-w, -h)},
		{c(w, h), c(-w, h)},
		{c(w, -h), c(-w, -h)},
	}
	for i, l := range iso.Lines {
		assert.InDelta(t, want[i][0][0], l.Start.Position[0], 1e-6, "line %d", i)
		assert.InDelta(t, want[i][0][1], l.Start.Position[1], 1e-6, "line %d", i)
		assert.InDelta(t, want[i][0][2], l.Start.Position[2], 1e-6, "line %d", i)
		assert.InDelta(t, want[i][1][0], l.End.Position[0], 1e-6, "line %d", i)
		assert.InDelta(t, want[i][1][1], l.End.Position[1], 1e-6, "line %d", i)
		assert.InDelta(t, want[i][1][2], l.End.Position[2], 1e-6, "line %d", i)
		assert.Equal(t, Blue, l.Start.Color)
	}
}

func TestIsometryFloat32MatchesFloat64(t *testing.T) {
	a := NewIsometry(num.Translation(num.P3[float32](0.5, 0.5, 0)), IsometrySize, Blue)
	b := NewIsometry(num.Translation(num.P3(0.5, 0.5, 0.0)), IsometrySize, Blue)
	for i := range a.Lines {
		for k := 0; k < 3; k++ {
			assert.InDelta(t, a.Lines[i].Start.Position[k], b.Lines[i].Start.Position[k], 1e-6)
			assert.InDelta(t, a.Lines[i].End.Position[k], b.Lines[i].End.Position[k], 1e-6)
		}
	}
}

type tinyPoses struct{ Poses[float64] }

func (tinyPoses) IsometrySize() [2]float32 { return [2]float32{1, 1} }

func TestIsometriesDrawTwelveVerticesPerPose(t *testing.T) {
	src := tinyPoses{Poses[float64]{num.Identity[float64](), num.Translation(num.P3(0.0, 0, 1))}}
	b := NewIsometries[float64](src)
	assert.Equal(t, [2]float32{1, 1}, b.Size)

	r := b.Renderer(nil)
	pass := &fakePass{}
	require.NoError(t, r.Render(fakeDevice{}, pass))
	assert.Equal(t, []uint32{24}, pass.draws)
	assert.Equal(t, glm.Vec3{-1, -1, 0}, r.Uploaded()[0].Lines[0].Start.Position)
}

type failing struct{ released bool }

func (f *failing) Render(gpu.Device, gpu.Pass) error { return errors.New("boom") }
func (f *failing) Release()                          { f.released = true }

func TestGroupRendersInOrderAndStopsOnError(t *testing.T) {
	pass := &fakePass{}
	f := &failing{}
	g := Group{
		NewPoints[float64](Points[float64]{{0, 0, 0}}).Renderer(nil),
		NewLines[float64](Lines[float64]{{{0, 0, 0}, {1, 1, 1}}}).Renderer(nil),
		f,
		NewPoints[float64](Points[float64]{{0, 0, 0}, {1, 0, 0}}).Renderer(nil),
	}
	require.Error(t, g.Render(fakeDevice{}, pass))
	assert.Equal(t, []uint32{1, 2}, pass.draws)

	g.Release()
	assert.True(t, f.released)
}

func TestVertexLayoutMatchesPoint(t *testing.T) {
	l, err := vertexLayout()
	require.NoError(t, err)
	assert.Equal(t, uint64(24), l.ArrayStride)
	require.Len(t, l.Attributes, 2)
	assert.Equal(t, wgpu.VertexFormat_Float32x3, l.Attributes[1].Format)
	assert.Equal(t, uint64(12), l.Attributes[1].Offset)
}
