package app

import (
	"errors"
	"strings"
	"testing"

	"github.com/philipparndt/gocad/internal/editor"
	"github.com/philipparndt/gocad/internal/history"
	"github.com/philipparndt/gocad/internal/logging"
	"github.com/philipparndt/gocad/internal/sketch"
	"github.com/philipparndt/gocad/pkg/geometry"
	"github.com/philipparndt/gocad/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T) *App {
	t.Helper()
	a, err := New(kernel.NewProject("test"), Options{SnapPrecision: sketch.DefaultSnapPrecision}, logging.Nop())
	require.NoError(t, err)
	return a
}

func handle(t *testing.T, a *App, events ...Event) {
	t.Helper()
	for _, ev := range events {
		require.NoError(t, a.Handle(ev), "event %s", ev.Type)
	}
}

func TestNewShowsAllSteps(t *testing.T) {
	a := newApp(t)

	assert.Equal(t, Mode3D, a.Mode())
	assert.Equal(t, kernel.DefaultWorkbench, a.History().Workbench())
	assert.Equal(t, ToolNone, a.Tool())
	assert.Contains(t, a.View().Solids, "Extrude1")
}

func TestGrabSketchEntersSketchModeAndScrubs(t *testing.T) {
	a := newApp(t)

	handle(t, a, Event{Type: EventDoubleClick, Step: "Sketch1"})

	assert.Equal(t, ModeSketch, a.Mode())
	assert.Equal(t, "Sketch1", a.ActiveSketch())
	assert.Contains(t, a.View().Sketches, "Sketch1")
	assert.Empty(t, a.View().Solids)
}

func TestLineToolDrawsSegment(t *testing.T) {
	a := newApp(t)
	var views int
	a.OnViewChange(func(*kernel.View) { views++ })

	handle(t, a,
		Event{Type: EventDoubleClick, Step: "Sketch1"},
		Event{Type: EventTool, Tool: ToolLine},
		Event{Type: EventMove, Point: geometry.NewVector3(0, 0, 0)},
		Event{Type: EventClick},
		Event{Type: EventMove, Point: geometry.NewVector3(40, 40, 0)},
		Event{Type: EventClick},
	)

	segments := a.View().Sketches["Sketch1"].Segments2D
	require.Len(t, segments, 5)
	assert.Equal(t, kernel.NewSegment(0, 0, 40, 40), segments[4])
	assert.Len(t, a.Session("Sketch1").Queue(), 1)
	assert.Equal(t, 2, views)
}

func TestHoverByCoordinates(t *testing.T) {
	a := newApp(t)
	handle(t, a,
		Event{Type: EventDoubleClick, Step: "Sketch1"},
		Event{Type: EventTool, Tool: ToolLine},
		Event{Type: EventMove, Point: geometry.NewVector3(39, 1, 0)},
		Event{Type: EventHoverEnter, Point: geometry.NewVector3(40, 0, 0)},
	)

	queue := a.Session("Sketch1").Queue()
	require.Len(t, queue, 1)
	assert.Equal(t, sketch.Snapped, queue[0].State)
	assert.Equal(t, geometry.NewPoint2D(40, 0), queue[0].Sketch)
}

func TestZeroOptionsUseDefaultPrecision(t *testing.T) {
	a, err := New(kernel.NewProject("test"), Options{}, logging.Nop())
	require.NoError(t, err)
	handle(t, a,
		Event{Type: EventDoubleClick, Step: "Sketch1"},
		Event{Type: EventTool, Tool: ToolLine},
	)

	// Rounded to whole units this would land on the corner at (40, 0)
	err = a.Handle(Event{Type: EventHoverEnter, Point: geometry.NewVector3(40.4, 0, 0)})
	assert.ErrorIs(t, err, sketch.ErrUnknownVertex)
}

func TestEscapeClearsTool(t *testing.T) {
	a := newApp(t)
	handle(t, a,
		Event{Type: EventDoubleClick, Step: "Sketch1"},
		Event{Type: EventTool, Tool: ToolLine},
		Event{Type: EventMove, Point: geometry.NewVector3(1, 1, 0)},
		Event{Type: EventClick},
		Event{Type: EventKey, Key: KeyEscape},
	)

	assert.Equal(t, ToolNone, a.Tool())
	assert.Empty(t, a.Session("Sketch1").Queue())

	// Pointer events without a tool are ignored
	handle(t, a, Event{Type: EventMove, Point: geometry.NewVector3(2, 2, 0)})
	assert.Empty(t, a.Session("Sketch1").Queue())
}

func TestModeChangeClearsTool(t *testing.T) {
	a := newApp(t)
	handle(t, a,
		Event{Type: EventMode, Mode: ModeSketch, Sketch: "Sketch1"},
		Event{Type: EventTool, Tool: ToolLine},
		Event{Type: EventMove, Point: geometry.NewVector3(1, 1, 0)},
		Event{Type: EventMode, Mode: Mode3D},
	)

	assert.Equal(t, ToolNone, a.Tool())
	assert.False(t, a.Session("Sketch1").Active())
	assert.Empty(t, a.Session("Sketch1").Queue())
}

func TestLineToolNeedsSketchMode(t *testing.T) {
	a := newApp(t)
	assert.Error(t, a.Handle(Event{Type: EventTool, Tool: ToolLine}))
	assert.Error(t, a.Handle(Event{Type: EventMode, Mode: ModeSketch, Sketch: "Sketch7"}))
}

func TestEditExtrudeDepth(t *testing.T) {
	a := newApp(t)
	handle(t, a,
		Event{Type: EventDoubleClick, Step: "Extrude1"},
		Event{Type: EventSet, Name: "depth", Value: 10},
		Event{Type: EventDoubleClick, Step: "Extrude1"},
	)

	_, ok := a.Editor().Attention()
	assert.False(t, ok)
	assert.Equal(t, Mode3D, a.Mode())
	step, _, err := a.History().Step("Extrude1")
	require.NoError(t, err)
	assert.Equal(t, 10.0, step.(*kernel.ExtrudeStep).Depth)
	assert.Contains(t, a.View().Solids, "Extrude1")
}

func TestSetErrorIsReported(t *testing.T) {
	a := newApp(t)

	err := a.Handle(Event{Type: EventSet, Name: "depth", Value: 3})
	require.ErrorIs(t, err, editor.ErrNoAttention)
	assert.Equal(t, err, a.LastError())

	handle(t, a, Event{Type: EventGrab, Step: "Extrude1"})
	err = a.Handle(Event{Type: EventSet, Name: "width", Value: 3})
	require.ErrorIs(t, err, kernel.ErrUnknownParameter)
	assert.Equal(t, err, a.LastError())

	handle(t, a, Event{Type: EventSet, Name: "depth", Value: 3})
	assert.NoError(t, a.LastError())
}

func TestCancelRestoresFullView(t *testing.T) {
	a := newApp(t)
	handle(t, a,
		Event{Type: EventGrab, Step: "Sketch1"},
		Event{Type: EventCancel},
	)

	assert.Equal(t, Mode3D, a.Mode())
	assert.Contains(t, a.View().Solids, "Extrude1")
}

func TestFaceSelectionThroughForm(t *testing.T) {
	a := newApp(t)
	handle(t, a,
		Event{Type: EventGrab, Step: "Extrude1"},
		Event{Type: EventFocusFaces},
		Event{Type: EventToggleFace, Sketch: "Sketch1", Face: 0},
	)
	assert.Contains(t, a.View().Errors, "Extrude1")

	handle(t, a, Event{Type: EventToggleFace, Sketch: "Sketch1", Face: 0})
	assert.Empty(t, a.View().Errors)
	assert.Contains(t, a.View().Solids, "Extrude1")
}

// downProject is a project whose evaluation can be switched off
type downProject struct {
	*kernel.Project
	down bool
}

func (p *downProject) CreateView(workbench string, upto int) (*kernel.View, error) {
	if p.down {
		return nil, errors.New("engine down")
	}
	return p.Project.CreateView(workbench, upto)
}

func extrudeFaces(t *testing.T, a *App) []int {
	t.Helper()
	step, _, err := a.History().Step("Extrude1")
	require.NoError(t, err)
	return step.(*kernel.ExtrudeStep).Faces
}

func TestFaceToggleAfterFailedRecompute(t *testing.T) {
	project := &downProject{Project: kernel.NewProject("test")}
	a, err := New(project, Options{}, logging.Nop())
	require.NoError(t, err)
	handle(t, a,
		Event{Type: EventGrab, Step: "Extrude1"},
		Event{Type: EventFocusFaces},
	)

	project.down = true
	err = a.Handle(Event{Type: EventToggleFace, Sketch: "Sketch1", Face: 1})
	require.ErrorIs(t, err, history.ErrRecompute)
	assert.Equal(t, []int{0, 1}, extrudeFaces(t, a))

	project.down = false
	handle(t, a, Event{Type: EventToggleFace, Sketch: "Sketch1", Face: 1})
	assert.Len(t, a.Selection().Selected(), 1)
	assert.Equal(t, []int{0}, extrudeFaces(t, a))
}

func TestSetFacesFromField(t *testing.T) {
	a := newApp(t)
	handle(t, a,
		Event{Type: EventGrab, Step: "Extrude1"},
		Event{Type: EventFocusFaces},
		Event{Type: EventSetFaces, Faces: []string{"0"}},
	)
	before := a.Selection().Selected()

	err := a.Handle(Event{Type: EventSetFaces, Faces: []string{"0", "x"}})
	assert.Error(t, err)
	assert.Equal(t, before, a.Selection().Selected())
	assert.Equal(t, []int{0}, extrudeFaces(t, a))
	assert.Contains(t, a.View().Solids, "Extrude1")
}

func TestUnknownEvent(t *testing.T) {
	a := newApp(t)
	err := a.Handle(Event{Type: "explode"})
	assert.ErrorIs(t, err, ErrUnknownEvent)
	assert.Equal(t, err, a.LastError())
}

func TestReplayContinuesAfterErrors(t *testing.T) {
	script, err := ParseScript(strings.NewReader(`
events:
  - type: doubleClick
    step: Sketch1
  - type: tool
    tool: line
  - type: move
    point: {x: 0, y: 0, z: 0}
  - type: click
  - type: doubleClick
    step: Sketch9
  - type: move
    point: {x: 0, y: 20, z: 0}
  - type: click
`))
	require.NoError(t, err)

	a := newApp(t)
	failures := a.Replay(script)

	require.Len(t, failures, 1)
	assert.Equal(t, 4, failures[0].Index)
	assert.ErrorIs(t, failures[0], kernel.ErrNotFound)
	assert.Len(t, a.View().Sketches["Sketch1"].Segments, 5)
}

func TestParseScriptRejectsUnknownKeys(t *testing.T) {
	_, err := ParseScript(strings.NewReader("events:\n  - type: move\n    pointt: {x: 1}\n"))
	assert.Error(t, err)

	_, err = ParseScript(strings.NewReader("events:\n  - step: Sketch1\n"))
	assert.ErrorContains(t, err, "no type")
}
