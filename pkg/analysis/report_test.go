package analysis

import (
	"math"
	"testing"

	"github.com/philipparndt/gocad/pkg/geometry"
	"github.com/philipparndt/gocad/pkg/kernel"
	"github.com/philipparndt/gocad/pkg/stl"
)

func TestAnalyzeView(t *testing.T) {
	view, err := kernel.NewProject("test").CreateView(kernel.DefaultWorkbench, math.MaxInt)
	if err != nil {
		t.Fatalf("CreateView() error = %v", err)
	}

	reports := AnalyzeView(view)
	if len(reports) != 1 {
		t.Fatalf("len(reports) = %d, want 1", len(reports))
	}
	r := reports[0]

	if r.Name != "Extrude1" {
		t.Errorf("Name = %q, want Extrude1", r.Name)
	}
	if math.Abs(r.Volume-40000) > 1e-6 {
		t.Errorf("Volume = %v, want 40000", r.Volume)
	}
	if r.Dimensions != geometry.NewVector3(40, 40, 25) {
		t.Errorf("Dimensions = %v, want (40, 40, 25)", r.Dimensions)
	}
	// 12 box edges plus one diagonal per quad
	if r.EdgeCount != 18 {
		t.Errorf("EdgeCount = %d, want 18", r.EdgeCount)
	}
	if !r.Closed() {
		t.Error("Closed() = false, want true")
	}
	if r.MaxEdgeLength != math.Sqrt(40*40+40*40) {
		t.Errorf("MaxEdgeLength = %v", r.MaxEdgeLength)
	}
	if r.MinEdgeLength != 25 {
		t.Errorf("MinEdgeLength = %v, want 25", r.MinEdgeLength)
	}
}

func TestOpenMesh(t *testing.T) {
	m := stl.NewModel("flap")
	m.AddTriangle(geometry.NewTriangleFromVertices(
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(1, 0, 0),
		geometry.NewVector3(0, 1, 0),
	))

	r := Analyze(m)
	if r.Closed() {
		t.Error("Closed() = true for a single triangle")
	}
	if r.EdgeCount != 3 {
		t.Errorf("EdgeCount = %d, want 3", r.EdgeCount)
	}
}

func TestFindLongestEdges(t *testing.T) {
	m := stl.NewModel("flap")
	m.AddTriangle(geometry.NewTriangleFromVertices(
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(3, 0, 0),
		geometry.NewVector3(0, 4, 0),
	))

	edges := FindLongestEdges(Analyze(m), 2)
	if len(edges) != 2 {
		t.Fatalf("len(edges) = %d, want 2", len(edges))
	}
	if edges[0].Length != 5 || edges[1].Length != 4 {
		t.Errorf("lengths = %v, %v, want 5, 4", edges[0].Length, edges[1].Length)
	}
	if got := FindLongestEdges(Analyze(m), 10); len(got) != 3 {
		t.Errorf("len(FindLongestEdges(10)) = %d, want 3", len(got))
	}
}

func TestFormatVector(t *testing.T) {
	if got := FormatVector(geometry.NewVector3(1, 2.5, -3)); got != "(1.000000, 2.500000, -3.000000)" {
		t.Errorf("FormatVector() = %q", got)
	}
}
