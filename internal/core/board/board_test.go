package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/tabletop/internal/core/events"
	"github.com/zeusync/tabletop/internal/core/events/eventstest"
	"github.com/zeusync/tabletop/internal/core/geom"
	"github.com/zeusync/tabletop/internal/core/shapes"
)

func newTestBoard(t *testing.T) (*Board, *eventstest.Recorder) {
	t.Helper()
	rec := &eventstest.Recorder{}
	b, err := New(DefaultSettings(), rec, nil)
	require.NoError(t, err)
	return b, rec
}

func TestNewBoardDefaults(t *testing.T) {
	b, _ := newTestBoard(t)

	active, ok := b.ActiveLayer()
	require.True(t, ok)
	assert.Equal(t, LayerTokens, active.Name)
	assert.Len(t, b.Layers(), 5)

	require.NoError(t, b.SetActiveLayer(LayerFOW))
	active, _ = b.ActiveLayer()
	assert.Equal(t, LayerFOW, active.Name)

	assert.ErrorIs(t, b.SetActiveLayer("nope"), ErrUnknownLayer)
}

func TestNewBoardRejectsDuplicateLayers(t *testing.T) {
	s := DefaultSettings()
	s.Layers = []string{"a", "a"}
	_, err := New(s, nil, nil)
	assert.Error(t, err)
}

func TestLayerAddRemove(t *testing.T) {
	b, rec := newTestBoard(t)
	tokens, _ := b.Layer(LayerTokens)

	r := shapes.NewRect(geom.Point{X: 1, Y: 1}, 10, 10, "", "")
	tokens.AddShape(r, true, false)

	assert.Equal(t, LayerTokens, r.Layer())
	got, ok := b.Lookup(r.ID())
	require.True(t, ok)
	assert.Same(t, r, got)
	require.Len(t, rec.OfType(events.ShapeAdd), 1)

	b.AddMovementBlocker(r.ID())
	b.AddMovementBlocker(r.ID())
	b.AddVisionBlocker(r.ID())
	assert.Equal(t, []string{r.ID()}, b.MovementBlockers())
	tokens.SetSelection(r)

	tokens.RemoveShape(r, true, false)
	_, ok = b.Lookup(r.ID())
	assert.False(t, ok)
	assert.Empty(t, tokens.Shapes())
	assert.Empty(t, tokens.Selection())
	assert.Empty(t, b.MovementBlockers())
	assert.Empty(t, b.VisionBlockers())
	assert.Len(t, rec.OfType(events.ShapeRemove), 1)

	total, full := tokens.Invalidations()
	assert.Equal(t, 2, total)
	assert.Equal(t, 0, full)
}

func TestLayerAddWithoutSyncIsSilent(t *testing.T) {
	b, rec := newTestBoard(t)
	draw, _ := b.Layer(LayerDraw)
	draw.AddShape(shapes.NewText(geom.Point{}, "x", ""), false, false)
	assert.Empty(t, rec.Events)
	_, full := draw.Invalidations()
	assert.Equal(t, 1, full)
}

func TestRegistryBoundingBoxOf(t *testing.T) {
	reg := NewRegistry()
	shapesIn := make([]*shapes.Rect, 0, 40)
	for i := 0; i < 40; i++ {
		r := shapes.NewRect(geom.Point{X: float64(i)}, 1, 2, "", "")
		reg.Add(r)
		shapesIn = append(shapesIn, r)
	}
	assert.Equal(t, 40, reg.Len())

	box, ok := reg.BoundingBoxOf(shapesIn[7].ID())
	require.True(t, ok)
	assert.Equal(t, geom.NewBoundingBox(7, 0, 1, 2), box)

	_, ok = reg.BoundingBoxOf("missing")
	assert.False(t, ok)

	reg.Remove(shapesIn[7].ID())
	assert.Equal(t, 39, reg.Len())
}

func TestViewportRoundTrip(t *testing.T) {
	v := Viewport{PanX: 10, PanY: -20, Zoom: 2}
	g := v.L2G(geom.LocalPoint{X: 100, Y: 100})
	assert.Equal(t, geom.Point{X: 40, Y: 70}, g)
	assert.Equal(t, geom.LocalPoint{X: 100, Y: 100}, v.G2L(g))
	assert.Equal(t, geom.NewVector(5, -3), v.L2GVector(geom.LocalPoint{X: 10, Y: -6}))

	var zero Viewport
	assert.Equal(t, geom.Point{X: 3, Y: 4}, zero.L2G(geom.LocalPoint{X: 3, Y: 4}))
}

func TestSnapToGrid(t *testing.T) {
	b, _ := newTestBoard(t)

	odd := shapes.NewRect(geom.Point{X: 35, Y: 45}, 50, 50, "", "")
	b.SnapToGrid(odd)
	assert.Equal(t, geom.Point{X: 50, Y: 50}, odd.RefPoint())

	even := shapes.NewRect(geom.Point{X: 80, Y: 0}, 100, 100, "", "")
	b.SnapToGrid(even)
	assert.Equal(t, geom.Point{X: 100, Y: 0}, even.RefPoint())
}

func TestSnapResize(t *testing.T) {
	b, _ := newTestBoard(t)
	r := shapes.NewRect(geom.Point{X: 23, Y: 74}, 70, 10, "", "")
	b.SnapResize(r)
	assert.Equal(t, geom.Point{X: 0, Y: 50}, r.RefPoint())
	assert.Equal(t, 50.0, r.W)
	assert.Equal(t, 50.0, r.H)
}

func TestLocationKey(t *testing.T) {
	s := DefaultSettings()
	s.RoomName, s.RoomCreator, s.LocationName = "crypt", "dm", "hall"
	b, err := New(s, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "crypt/dm/hall", b.LocationKey())
}
