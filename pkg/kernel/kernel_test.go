package kernel

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/philipparndt/gocad/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func squareSegments(x0, y0, size float64) []Segment {
	return []Segment{
		NewSegment(x0, y0, x0+size, y0),
		NewSegment(x0+size, y0, x0+size, y0+size),
		NewSegment(x0+size, y0+size, x0, y0+size),
		NewSegment(x0, y0+size, x0, y0),
	}
}

func meshVolume(m Mesh) float64 {
	v := 0.0
	for _, t := range m.Triangles() {
		v += t.SignedVolume()
	}
	return v
}

func TestNewWorkbenchPrincipalPlanes(t *testing.T) {
	view := NewWorkbench("wb").CreateView(100)

	require.Contains(t, view.Points, "Origin")
	require.Len(t, view.Planes, 3)
	assert.True(t, view.Planes["Top"].Frame.Normal.ApproxEqual(geometry.NewVector3(0, 0, 1), 1e-12))
	assert.True(t, view.Planes["Front"].Frame.Normal.ApproxEqual(geometry.NewVector3(0, 1, 0), 1e-12))
	assert.True(t, view.Planes["Right"].Frame.Normal.ApproxEqual(geometry.NewVector3(1, 0, 0), 1e-12))
	assert.Equal(t, 1.0, view.Planes["Top"].Width)
}

func TestFindFacesSquare(t *testing.T) {
	faces := FindFaces(squareSegments(0, 0, 40))

	require.Len(t, faces, 1)
	assert.InDelta(t, 1600, faces[0].Area(), 1e-9)
	assert.Empty(t, faces[0].Interiors)
}

func TestFindFacesNestedSquareBecomesHole(t *testing.T) {
	segments := append(squareSegments(0, 0, 10), squareSegments(3, 3, 4)...)
	faces := FindFaces(segments)

	require.Len(t, faces, 2)
	assert.InDelta(t, 16, faces[0].Area(), 1e-9)
	require.Len(t, faces[1].Interiors, 1)
	assert.InDelta(t, 84, faces[1].Area(), 1e-9)
}

func TestFindFacesOpenChain(t *testing.T) {
	faces := FindFaces([]Segment{NewSegment(0, 0, 1, 0), NewSegment(1, 0, 1, 1)})
	assert.Empty(t, faces)
}

func TestCreateViewIsRepeatable(t *testing.T) {
	p := NewProject("test")

	first, err := p.CreateView(DefaultWorkbench, 100)
	require.NoError(t, err)
	second, err := p.CreateView(DefaultWorkbench, 100)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCreateViewPrefix(t *testing.T) {
	p := NewProject("test")

	view, err := p.CreateView(DefaultWorkbench, 4)
	require.NoError(t, err)
	assert.Len(t, view.Planes, 3)
	assert.Empty(t, view.Sketches)
	assert.Empty(t, view.Solids)

	empty, err := p.CreateView(DefaultWorkbench, -3)
	require.NoError(t, err)
	assert.Empty(t, empty.Points)
}

func TestExtrudeVolume(t *testing.T) {
	p := NewProject("test")

	view, err := p.CreateView(DefaultWorkbench, 100)
	require.NoError(t, err)
	require.Empty(t, view.Errors)
	solid := view.Solids["Extrude1"]
	require.NotNil(t, solid)

	assert.Len(t, solid.Mesh().Triangles(), 12)
	assert.InDelta(t, 40*40*25, meshVolume(solid.Mesh()), 1e-6)
}

func TestExtrudeWithHoleVolume(t *testing.T) {
	p := NewEmptyProject("test")
	wb, err := p.Workbench(DefaultWorkbench)
	require.NoError(t, err)
	require.NoError(t, wb.AddStep(NewSketchStep("Sketch1", "Front", append(squareSegments(0, 0, 10), squareSegments(3, 3, 4)...)...)))
	require.NoError(t, wb.AddStep(NewExtrudeStep("Extrude1", "Sketch1", []int{1}, 2)))

	view := wb.CreateView(100)
	require.Empty(t, view.Errors)
	assert.InDelta(t, 84*2, math.Abs(meshVolume(view.Solids["Extrude1"].Mesh())), 1e-6)
}

func TestSetStepParameters(t *testing.T) {
	p := NewProject("test")

	require.NoError(t, p.SetStepParameters(DefaultWorkbench, "Extrude1", []string{"depth"}, []float64{10}))
	view, err := p.CreateView(DefaultWorkbench, 100)
	require.NoError(t, err)
	assert.InDelta(t, 40*40*10, meshVolume(view.Solids["Extrude1"].Mesh()), 1e-6)
}

func TestSetStepParametersIsAtomic(t *testing.T) {
	p := NewProject("test")

	err := p.SetStepParameters(DefaultWorkbench, "Origin", []string{"x", "w"}, []float64{5, 1})
	require.ErrorIs(t, err, ErrUnknownParameter)

	steps, err := p.Steps(DefaultWorkbench)
	require.NoError(t, err)
	assert.Equal(t, 0.0, steps[0].(*PointStep).Point.X)
}

func TestNotFoundSuggestsName(t *testing.T) {
	p := NewProject("test")

	err := p.SetStepParameters(DefaultWorkbench, "Extrud1", []string{"depth"}, []float64{1})
	require.ErrorIs(t, err, ErrNotFound)

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Extrude1", nf.Suggestion)
	assert.Contains(t, err.Error(), `did you mean "Extrude1"`)

	_, err = p.CreateView("Workbench 9", 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSetSelectedForOperationIsolatesFailure(t *testing.T) {
	p := NewProject("test")

	require.NoError(t, p.SetSelectedForOperation(DefaultWorkbench, "Extrude1", "faces", "Sketch1", []int{2, 5}))

	view, err := p.CreateView(DefaultWorkbench, 100)
	require.NoError(t, err)
	assert.Contains(t, view.Errors, "Extrude1")
	assert.NotContains(t, view.Solids, "Extrude1")
	assert.Contains(t, view.Sketches, "Sketch1")

	steps, err := p.Steps(DefaultWorkbench)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 5}, steps[5].(*ExtrudeStep).Faces)
}

func TestSetSelectedForOperationRejectsNonOperations(t *testing.T) {
	p := NewProject("test")

	err := p.SetSelectedForOperation(DefaultWorkbench, "Sketch1", "faces", "Sketch1", []int{0})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	err = p.SetSelectedForOperation(DefaultWorkbench, "Extrude1", "edges", "Sketch1", []int{0})
	assert.ErrorIs(t, err, ErrUnknownParameter)
}

func TestAddSegmentToSketch(t *testing.T) {
	p := NewProject("test")

	require.NoError(t, p.AddSegmentToSketch(DefaultWorkbench, "Sketch1", 0, 0, 40, 40))
	view, err := p.CreateView(DefaultWorkbench, 100)
	require.NoError(t, err)
	assert.Len(t, view.Sketches["Sketch1"].Segments, 5)

	err = p.AddSegmentToSketch(DefaultWorkbench, "Sketch1", 1, 1, 1, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	err = p.AddSegmentToSketch(DefaultWorkbench, "Extrude1", 0, 0, 1, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestStepsAreCopies(t *testing.T) {
	p := NewProject("test")

	steps, err := p.Steps(DefaultWorkbench)
	require.NoError(t, err)
	steps[4].(*SketchStep).Segments = nil

	again, err := p.Steps(DefaultWorkbench)
	require.NoError(t, err)
	assert.Len(t, again[4].(*SketchStep).Segments, 4)
}

func TestNextStepName(t *testing.T) {
	wb := NewProject("test").workbenches[0]
	assert.Equal(t, "Sketch2", wb.NextStepName(KindSketch))
	assert.Equal(t, "Point1", wb.NextStepName(KindPoint))
}

func TestSolidExports(t *testing.T) {
	view := NewProject("test").workbenches[0].CreateView(100)
	solid := view.Solids["Extrude1"]

	obj := solid.ObjText()
	assert.True(t, strings.HasPrefix(obj, "# gocad solid\no Extrude1\n"))
	assert.Equal(t, 12, strings.Count(obj, "\nf "))

	step := solid.StepText()
	assert.True(t, strings.HasPrefix(step, "ISO-10303-21;"))
	assert.Contains(t, step, "FACETED_BREP('Extrude1'")
	assert.Equal(t, 12, strings.Count(step, "=FACE('"))
}

func TestPlaneViewMesh(t *testing.T) {
	view := NewWorkbench("wb").CreateView(100)
	top := view.Planes["Top"]

	assert.True(t, top.UpperLeft().ApproxEqual(geometry.NewVector3(-0.5, 0.5, 0), 1e-12))
	assert.Len(t, top.Mesh().Triangles(), 2)
	assert.Equal(t, 1.0, top.RotationMatrix().At(2, 2))
}

func TestStepKindString(t *testing.T) {
	assert.Equal(t, "Extrude", KindExtrude.String())
	assert.Equal(t, []Parameter{{"depth", 25}}, Parameters(NewExtrudeStep("e", "s", nil, 25)))
	assert.Nil(t, Parameters(NewSketchStep("s", "Top")))
}
