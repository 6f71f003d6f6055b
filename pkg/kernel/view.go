package kernel

import (
	"sort"

	"github.com/philipparndt/gocad/pkg/geometry"
	"gonum.org/v1/gonum/mat"
)

// View is the evaluated state of a workbench after a prefix of its steps
type View struct {
	Points   map[string]geometry.Vector3
	Planes   map[string]PlaneView
	Sketches map[string]SketchView
	Solids   map[string]*Solid
	// Errors maps the name of every step that failed to evaluate to the reason
	Errors map[string]string
}

func newView() *View {
	return &View{
		Points:   make(map[string]geometry.Vector3),
		Planes:   make(map[string]PlaneView),
		Sketches: make(map[string]SketchView),
		Solids:   make(map[string]*Solid),
		Errors:   make(map[string]string),
	}
}

// SolidNames returns the solid names in lexical order
func (v *View) SolidNames() []string {
	return sortedKeys(v.Solids)
}

// SketchNames returns the sketch names in lexical order
func (v *View) SketchNames() []string {
	return sortedKeys(v.Sketches)
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// PlaneView is an evaluated construction plane
type PlaneView struct {
	Frame  geometry.Frame
	Width  float64
	Height float64
}

// UpperLeft returns the world position of the top left corner of the plane
// rectangle
func (p PlaneView) UpperLeft() geometry.Vector3 {
	return p.Frame.ToWorld(geometry.NewPoint2D(-p.Width/2, p.Height/2))
}

// Corners returns the plane rectangle counter-clockwise starting at the lower left
func (p PlaneView) Corners() [4]geometry.Vector3 {
	w, h := p.Width/2, p.Height/2
	return [4]geometry.Vector3{
		p.Frame.ToWorld(geometry.NewPoint2D(-w, -h)),
		p.Frame.ToWorld(geometry.NewPoint2D(w, -h)),
		p.Frame.ToWorld(geometry.NewPoint2D(w, h)),
		p.Frame.ToWorld(geometry.NewPoint2D(-w, h)),
	}
}

// RotationMatrix returns the plane orientation as a 3x3 matrix
func (p PlaneView) RotationMatrix() *mat.Dense {
	return p.Frame.RotationMatrix()
}

// Mesh returns two triangles covering the plane rectangle
func (p PlaneView) Mesh() Mesh {
	c := p.Corners()
	var m Mesh
	m.addTriangle(geometry.NewTriangle(p.Frame.Normal, c[0], c[1], c[2]))
	m.addTriangle(geometry.NewTriangle(p.Frame.Normal, c[0], c[2], c[3]))
	return m
}

// LineSegment is a segment in world coordinates
type LineSegment struct {
	Start geometry.Vector3
	End   geometry.Vector3
}

// SketchView is an evaluated sketch: its segments in both coordinate
// systems and the closed faces they form
type SketchView struct {
	Plane      string
	Frame      geometry.Frame
	Segments2D []Segment
	Segments   []LineSegment
	Faces      []Face
}

// FaceOutline returns the exterior ring of a face in world coordinates
func (s SketchView) FaceOutline(index int) []geometry.Vector3 {
	if index < 0 || index >= len(s.Faces) {
		return nil
	}
	points := s.Faces[index].Exterior.Points()
	outline := make([]geometry.Vector3, len(points))
	for i, p := range points {
		outline[i] = s.Frame.ToWorld(p)
	}
	return outline
}

func newSketchView(plane string, frame geometry.Frame, segments []Segment) SketchView {
	sv := SketchView{
		Plane:      plane,
		Frame:      frame,
		Segments2D: append([]Segment(nil), segments...),
		Segments:   make([]LineSegment, len(segments)),
		Faces:      FindFaces(segments),
	}
	for i, s := range segments {
		sv.Segments[i] = LineSegment{Start: frame.ToWorld(s.Start), End: frame.ToWorld(s.End)}
	}
	return sv
}
