package tools

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/tabletop/internal/core/board"
	"github.com/zeusync/tabletop/internal/core/events"
	"github.com/zeusync/tabletop/internal/core/events/eventstest"
	"github.com/zeusync/tabletop/internal/core/geom"
	"github.com/zeusync/tabletop/internal/core/shapes"
)

type fixture struct {
	board    *board.Board
	recorder *eventstest.Recorder
	env      Env
}

func newFixture(t *testing.T, user string, isDM bool) *fixture {
	t.Helper()
	rec := &eventstest.Recorder{}
	settings := board.DefaultSettings()
	settings.RoomName = "keep"
	settings.RoomCreator = "dm"
	b, err := board.New(settings, rec, nil)
	require.NoError(t, err)
	return &fixture{
		board:    b,
		recorder: rec,
		env:      Env{Board: b, User: User{Name: user, IsDM: isDM}, Publisher: rec},
	}
}

func (f *fixture) layer(t *testing.T, name string) *board.Layer {
	t.Helper()
	l, ok := f.board.Layer(name)
	require.True(t, ok)
	return l
}

func (f *fixture) rect(t *testing.T, layer string, x, y, w, h float64, owner string) *shapes.Rect {
	t.Helper()
	r := shapes.NewRect(geom.Point{X: x, Y: y}, w, h, "", "")
	if owner != "" {
		r.AddOwner(owner)
	}
	f.layer(t, layer).AddShape(r, false, false)
	return r
}

func at(x, y float64) Pointer { return Pointer{Pos: geom.LocalPoint{X: x, Y: y}} }

func moves(rec *eventstest.Recorder) []events.ShapeMoved {
	var out []events.ShapeMoved
	for _, d := range rec.OfType(events.ShapeMove) {
		out = append(out, d.(events.ShapeMoved))
	}
	return out
}

func TestSelectDragSlidesAgainstBlocker(t *testing.T) {
	f := newFixture(t, "alice", false)
	token := f.rect(t, board.LayerTokens, 100, 0, 50, 50, "alice")
	wall := f.rect(t, board.LayerMap, 0, 0, 50, 50, "")
	f.board.AddMovementBlocker(wall.ID())

	sel := NewSelect(f.env)
	sel.OnMouseDown(at(110, 10))
	require.Equal(t, ModeDrag, sel.Mode())

	sel.OnMouseMove(at(30, 10))
	assert.Equal(t, geom.Point{X: 50, Y: 0}, token.RefPoint())

	sel.OnMouseUp(at(30, 10))
	assert.Equal(t, geom.Point{X: 50, Y: 0}, token.RefPoint())
	assert.Equal(t, ModeNoop, sel.Mode())

	got := moves(f.recorder)
	require.Len(t, got, 2)
	assert.True(t, got[0].Temporary)
	assert.False(t, got[1].Temporary)
	assert.Equal(t, token.ID(), got[1].Shape.UUID)
}

func TestSelectDragOutsideTokensIgnoresBlockers(t *testing.T) {
	f := newFixture(t, "alice", false)
	require.NoError(t, f.board.SetActiveLayer(board.LayerDraw))
	token := f.rect(t, board.LayerDraw, 100, 0, 50, 50, "alice")
	wall := f.rect(t, board.LayerMap, 0, 0, 50, 50, "")
	f.board.AddMovementBlocker(wall.ID())

	sel := NewSelect(f.env)
	sel.OnMouseDown(at(110, 10))
	sel.OnMouseMove(at(30, 10))
	sel.OnMouseUp(Pointer{Pos: geom.LocalPoint{X: 30, Y: 10}, Alt: true})

	assert.Equal(t, geom.Point{X: 20, Y: 0}, token.RefPoint())
}

func TestSelectCannotGrabForeignShape(t *testing.T) {
	f := newFixture(t, "alice", false)
	token := f.rect(t, board.LayerTokens, 100, 0, 50, 50, "bob")

	sel := NewSelect(f.env)
	sel.OnMouseDown(at(110, 10))
	assert.Equal(t, ModeGroupSelect, sel.Mode())
	sel.OnMouseUp(at(110, 10))

	assert.Empty(t, f.layer(t, board.LayerTokens).Selection())
	assert.Equal(t, geom.Point{X: 100, Y: 0}, token.RefPoint())
}

func TestSelectDMGrabsAnyShape(t *testing.T) {
	f := newFixture(t, "gm", true)
	token := f.rect(t, board.LayerTokens, 100, 0, 50, 50, "bob")

	sel := NewSelect(f.env)
	sel.OnMouseDown(at(110, 10))
	assert.Equal(t, ModeDrag, sel.Mode())
	assert.True(t, f.layer(t, board.LayerTokens).IsSelected(token))
}

func TestSelectGroupSelectAndDrag(t *testing.T) {
	f := newFixture(t, "alice", false)
	a := f.rect(t, board.LayerTokens, 0, 0, 50, 50, "alice")
	b := f.rect(t, board.LayerTokens, 200, 0, 50, 50, "alice")
	c := f.rect(t, board.LayerTokens, 500, 500, 50, 50, "alice")
	layer := f.layer(t, board.LayerTokens)

	sel := NewSelect(f.env)
	sel.OnMouseDown(at(-10, -10))
	require.Equal(t, ModeGroupSelect, sel.Mode())
	sel.OnMouseMove(at(260, 60))
	sel.OnMouseUp(at(260, 60))

	selection := layer.Selection()
	require.Len(t, selection, 3)
	assert.True(t, layer.IsSelected(a))
	assert.True(t, layer.IsSelected(b))
	assert.False(t, layer.IsSelected(c))

	// The rubber band is on top, grabbing inside it drags the group.
	sel.OnMouseDown(at(100, 20))
	require.Equal(t, ModeDrag, sel.Mode())
	sel.OnMouseMove(at(150, 20))
	sel.OnMouseUp(Pointer{Pos: geom.LocalPoint{X: 150, Y: 20}, Alt: true})

	assert.Equal(t, geom.Point{X: 50, Y: 0}, a.RefPoint())
	assert.Equal(t, geom.Point{X: 250, Y: 0}, b.RefPoint())
	assert.Equal(t, geom.Point{X: 500, Y: 500}, c.RefPoint())
	for _, m := range moves(f.recorder) {
		assert.NotEqual(t, sel.selectionHelper.ID(), m.Shape.UUID, "the rubber band is never published")
	}
}

func TestSelectResizeSnapsOnRelease(t *testing.T) {
	f := newFixture(t, "alice", false)
	r := f.rect(t, board.LayerTokens, 0, 0, 50, 50, "alice")

	sel := NewSelect(f.env)
	sel.OnMouseDown(at(50, 50))
	require.Equal(t, ModeResize, sel.Mode())

	sel.OnMouseMove(at(80, 90))
	assert.Equal(t, 80.0, r.W)
	assert.Equal(t, 90.0, r.H)

	sel.OnMouseUp(at(80, 90))
	assert.Equal(t, geom.Point{}, r.RefPoint())
	assert.Equal(t, 100.0, r.W)
	assert.Equal(t, 100.0, r.H)
}

func TestSelectResizePastOppositeCornerNormalizes(t *testing.T) {
	f := newFixture(t, "alice", false)
	f.board.UseGrid = false
	r := f.rect(t, board.LayerTokens, 100, 100, 50, 50, "alice")

	sel := NewSelect(f.env)
	sel.OnMouseDown(at(150, 150))
	sel.OnMouseMove(at(80, 70))
	sel.OnMouseUp(at(80, 70))

	assert.Equal(t, geom.Point{X: 80, Y: 70}, r.RefPoint())
	assert.Equal(t, 20.0, r.W)
	assert.Equal(t, 30.0, r.H)
}

func TestSelectHoverCursor(t *testing.T) {
	f := newFixture(t, "alice", false)
	f.rect(t, board.LayerTokens, 0, 0, 50, 50, "alice")

	sel := NewSelect(f.env)
	sel.OnMouseDown(at(25, 25))
	sel.OnMouseUp(at(25, 25))

	sel.OnMouseMove(at(49, 1))
	assert.Equal(t, "ne-resize", sel.Cursor())
	sel.OnMouseMove(at(25, 25))
	assert.Equal(t, "default", sel.Cursor())
}

func TestSelectContextMenuTopmost(t *testing.T) {
	f := newFixture(t, "alice", false)
	f.rect(t, board.LayerTokens, 0, 0, 50, 50, "")
	top := f.rect(t, board.LayerTokens, 20, 20, 50, 50, "")

	NewSelect(f.env).OnContextMenu(at(30, 30))

	menus := f.recorder.OfType(events.ShapeContextMenu)
	require.Len(t, menus, 1)
	assert.Equal(t, events.ContextMenu{UUID: top.ID(), Position: geom.LocalPoint{X: 30, Y: 30}}, menus[0])
}

func TestPanPublishesLocation(t *testing.T) {
	f := newFixture(t, "alice", false)
	f.board.Viewport.Zoom = 2

	pan := NewPan(f.env)
	pan.OnMouseMove(at(50, 50))
	assert.Zero(t, f.board.Viewport.PanX, "moving without a press does nothing")

	pan.OnMouseDown(at(0, 0))
	pan.OnMouseMove(at(10, -7))
	assert.Equal(t, 5.0, f.board.Viewport.PanX)
	assert.Equal(t, -3.0, f.board.Viewport.PanY)

	pan.OnMouseUp(at(10, -7))
	opts := f.recorder.OfType(events.ClientLocationOptions)
	require.Len(t, opts, 1)
	assert.Equal(t, events.LocationOptions{Key: "keep/dm/start", PanX: 5, PanY: -3}, opts[0])
}

func TestDrawOnFOWBlocksMovement(t *testing.T) {
	f := newFixture(t, "gm", true)
	require.NoError(t, f.board.SetActiveLayer(board.LayerFOW))

	draw := NewDraw(f.env)
	draw.OnMouseDown(at(40, 30))
	draw.OnMouseMove(at(10, 10))
	draw.OnMouseUp(at(10, 10))

	shapesOnFOW := f.layer(t, board.LayerFOW).Shapes()
	require.Len(t, shapesOnFOW, 1)
	r := shapesOnFOW[0].(*shapes.Rect)
	assert.Equal(t, geom.NewBoundingBox(10, 10, 30, 20), r.BoundingBox())
	assert.True(t, r.MovementObstruction())
	assert.Equal(t, []string{r.ID()}, f.board.MovementBlockers())
	assert.Equal(t, []string{r.ID()}, f.board.VisionBlockers())
	assert.Len(t, f.recorder.OfType(events.ShapeAdd), 1)
	assert.Len(t, f.recorder.OfType(events.ShapeMove), 1)
}

func TestDrawElsewhereOnlyBlocksVision(t *testing.T) {
	f := newFixture(t, "alice", false)
	require.NoError(t, f.board.SetActiveLayer(board.LayerDraw))

	draw := NewDraw(f.env)
	red := "red"
	require.NoError(t, draw.Configure(Options{Fill: &red}))
	draw.OnMouseDown(at(0, 0))
	draw.OnMouseUp(at(0, 0))

	r := f.layer(t, board.LayerDraw).Shapes()[0].(*shapes.Rect)
	assert.Equal(t, "red", r.Fill)
	assert.Equal(t, shapes.Transparent, r.Border)
	assert.Empty(t, f.board.MovementBlockers())
	assert.Equal(t, []string{r.ID()}, f.board.VisionBlockers())
}

func TestMeasure(t *testing.T) {
	m := Measure(geom.Point{}, geom.Point{X: 150, Y: 200}, 5, 50)
	assert.Equal(t, "25 ft", m.Label)
	assert.InDelta(t, math.Atan2(200, 150), m.Angle, 1e-9)
	assert.Equal(t, geom.Point{X: 75, Y: 100}, m.Midpoint)

	m = Measure(geom.Point{}, geom.Point{X: 30, Y: -40}, 5, 50)
	assert.Equal(t, "5 ft", m.Label)
	assert.InDelta(t, math.Atan2(-40, 30), m.Angle, 1e-9)
	assert.Equal(t, geom.Point{X: 15, Y: -20}, m.Midpoint)

	assert.Equal(t, "0 ft", Measure(geom.Point{}, geom.Point{X: 10}, 5, 0).Label)
}

func TestRulerIsRemovedOnRelease(t *testing.T) {
	f := newFixture(t, "alice", false)
	draw := f.layer(t, board.LayerDraw)

	ruler := NewRuler(f.env)
	ruler.OnMouseDown(at(0, 0))
	assert.Len(t, draw.Shapes(), 2)

	ruler.OnMouseMove(at(150, 200))
	assert.Equal(t, "25 ft", ruler.label.Text)

	ruler.OnMouseUp(at(150, 200))
	assert.Empty(t, draw.Shapes())
	assert.Len(t, f.recorder.OfType(events.ShapeAdd), 2)
	assert.Len(t, f.recorder.OfType(events.ShapeRemove), 2)
}

func TestRulerWithoutDrawLayer(t *testing.T) {
	rec := &eventstest.Recorder{}
	b, err := board.New(board.Settings{Layers: []string{board.LayerTokens}, GridSize: 50}, rec, nil)
	require.NoError(t, err)

	ruler := NewRuler(Env{Board: b, Publisher: rec})
	ruler.OnMouseDown(at(0, 0))
	ruler.OnMouseMove(at(10, 10))
	ruler.OnMouseUp(at(10, 10))

	assert.Empty(t, rec.Events)
}

func TestFOWRevealComposite(t *testing.T) {
	f := newFixture(t, "gm", true)
	fow := NewFOW(f.env)

	fow.OnMouseDown(at(0, 0))
	fow.OnMouseUp(at(0, 0))
	reveal := true
	require.NoError(t, fow.Configure(Options{Reveal: &reveal}))
	fow.OnMouseDown(at(10, 10))
	fow.OnMouseMove(at(20, 20))
	fow.OnMouseUp(at(20, 20))

	drawn := f.layer(t, board.LayerFOW).Shapes()
	require.Len(t, drawn, 2)
	assert.Equal(t, shapes.CompositeSourceOver, drawn[0].(*shapes.Rect).CompositeOperation)
	last := drawn[1].(*shapes.Rect)
	assert.Equal(t, shapes.CompositeDestinationOut, last.CompositeOperation)
	assert.Equal(t, f.board.FOWColour, last.Fill)

	assert.ErrorIs(t, fow.Configure(Options{XCount: new(int)}), ErrInvalidOption)
}

func TestMapRescalesSelection(t *testing.T) {
	f := newFixture(t, "gm", true)
	require.NoError(t, f.board.SetActiveLayer(board.LayerMap))
	img := f.rect(t, board.LayerMap, 0, 0, 100, 100, "")
	layer := f.layer(t, board.LayerMap)
	layer.SetSelection(img)

	m := NewMap(f.env)
	m.OnMouseDown(at(0, 0))
	assert.Len(t, layer.Shapes(), 2)
	m.OnMouseMove(at(60, 40))
	m.OnMouseUp(at(60, 40))

	assert.Equal(t, 250.0, img.W)
	assert.Equal(t, 375.0, img.H)
	assert.Len(t, layer.Shapes(), 1)
}

func TestMapWithoutSelectionLeavesBoard(t *testing.T) {
	f := newFixture(t, "gm", true)
	require.NoError(t, f.board.SetActiveLayer(board.LayerMap))
	img := f.rect(t, board.LayerMap, 0, 0, 100, 100, "")

	m := NewMap(f.env)
	m.OnMouseDown(at(0, 0))
	m.OnMouseMove(at(60, 40))
	m.OnMouseUp(at(60, 40))

	assert.Equal(t, 100.0, img.W)
	assert.Len(t, f.layer(t, board.LayerMap).Shapes(), 1)

	zero := 0
	assert.ErrorIs(t, m.Configure(Options{XCount: &zero}), ErrInvalidOption)
}

func TestToolsetForPlayer(t *testing.T) {
	f := newFixture(t, "alice", false)
	ts := NewToolset(f.env)

	var names []string
	for _, d := range ts.Available() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{NameSelect, NamePan, NameDraw, NameRuler}, names)
	assert.Equal(t, NameSelect, ts.Selected().Name())

	assert.ErrorIs(t, ts.Select(NameFOW), ErrToolNotAllowed)
	assert.ErrorIs(t, ts.Select("laser"), ErrUnknownTool)
	assert.ErrorIs(t, ts.Configure(NameSelect, Options{}), ErrInvalidOption)

	require.NoError(t, ts.Select(NamePan))
	assert.Equal(t, NamePan, ts.Selected().Name())
	assert.Equal(t, []any{events.ToolChange{Tool: NamePan}}, f.recorder.OfType(events.ToolSelected))
}

func TestToolsetForDM(t *testing.T) {
	f := newFixture(t, "gm", true)
	ts := NewToolset(f.env)

	assert.Len(t, ts.Available(), len(Descriptors()))
	require.NoError(t, ts.Select(NameMap))

	five := 5
	require.NoError(t, ts.Configure(NameMap, Options{XCount: &five}))
	tool, ok := ts.Get(NameMap)
	require.True(t, ok)
	assert.Equal(t, 5, tool.(*Map).XCount)
}

func TestToolsetDispatchesToSelected(t *testing.T) {
	f := newFixture(t, "alice", false)
	ts := NewToolset(f.env)
	require.NoError(t, ts.Select(NameDraw))

	ts.MouseDown(at(0, 0))
	ts.MouseMove(at(50, 50))
	ts.MouseUp(at(50, 50))
	ts.ContextMenu(at(25, 25))

	drawn := f.layer(t, board.LayerTokens).Shapes()
	require.Len(t, drawn, 1)
	assert.Equal(t, geom.NewBoundingBox(0, 0, 50, 50), drawn[0].BoundingBox())
}
