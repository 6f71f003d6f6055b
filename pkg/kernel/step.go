package kernel

import (
	"fmt"
	"slices"

	"github.com/philipparndt/gocad/pkg/geometry"
)

// StepKind identifies the variant of a Step
type StepKind int

const (
	KindPoint StepKind = iota
	KindPlane
	KindSketch
	KindExtrude
)

func (k StepKind) String() string {
	switch k {
	case KindPoint:
		return "Point"
	case KindPlane:
		return "Plane"
	case KindSketch:
		return "Sketch"
	case KindExtrude:
		return "Extrude"
	}
	return fmt.Sprintf("StepKind(%d)", int(k))
}

// Step is one entry of a workbench history. The set of variants is closed:
// *PointStep, *PlaneStep, *SketchStep and *ExtrudeStep.
type Step interface {
	Name() string
	Kind() StepKind
	clone() Step
}

// PointStep places a reference point
type PointStep struct {
	name  string
	Point geometry.Vector3
}

// PlaneStep places a construction plane
type PlaneStep struct {
	name   string
	Frame  geometry.Frame
	Width  float64
	Height float64
}

// SketchStep holds 2D line segments drawn on a plane
type SketchStep struct {
	name     string
	Plane    string
	Segments []Segment
}

// ExtrudeStep sweeps selected sketch faces along the sketch plane normal
type ExtrudeStep struct {
	name   string
	Sketch string
	Faces  []int
	Depth  float64
}

func NewPointStep(name string, point geometry.Vector3) *PointStep {
	return &PointStep{name: name, Point: point}
}

func NewPlaneStep(name string, frame geometry.Frame) *PlaneStep {
	return &PlaneStep{name: name, Frame: frame, Width: 1, Height: 1}
}

func NewSketchStep(name, plane string, segments ...Segment) *SketchStep {
	return &SketchStep{name: name, Plane: plane, Segments: segments}
}

func NewExtrudeStep(name, sketch string, faces []int, depth float64) *ExtrudeStep {
	return &ExtrudeStep{name: name, Sketch: sketch, Faces: faces, Depth: depth}
}

func (s *PointStep) Name() string   { return s.name }
func (s *PlaneStep) Name() string   { return s.name }
func (s *SketchStep) Name() string  { return s.name }
func (s *ExtrudeStep) Name() string { return s.name }

func (s *PointStep) Kind() StepKind   { return KindPoint }
func (s *PlaneStep) Kind() StepKind   { return KindPlane }
func (s *SketchStep) Kind() StepKind  { return KindSketch }
func (s *ExtrudeStep) Kind() StepKind { return KindExtrude }

func (s *PointStep) clone() Step {
	c := *s
	return &c
}

func (s *PlaneStep) clone() Step {
	c := *s
	return &c
}

func (s *SketchStep) clone() Step {
	c := *s
	c.Segments = slices.Clone(s.Segments)
	return &c
}

func (s *ExtrudeStep) clone() Step {
	c := *s
	c.Faces = slices.Clone(s.Faces)
	return &c
}

// Parameter is a named numeric value of a step
type Parameter struct {
	Name  string
	Value float64
}

// Parameters lists the numeric parameters a step accepts in
// SetStepParameters, in display order
func Parameters(step Step) []Parameter {
	switch s := step.(type) {
	case *PointStep:
		return []Parameter{{"x", s.Point.X}, {"y", s.Point.Y}, {"z", s.Point.Z}}
	case *PlaneStep:
		return []Parameter{{"width", s.Width}, {"height", s.Height}}
	case *SketchStep:
		return nil
	case *ExtrudeStep:
		return []Parameter{{"depth", s.Depth}}
	}
	panic(fmt.Sprintf("unhandled step type %T", step))
}

// setParameter writes a single named value into the step
func setParameter(step Step, name string, value float64) error {
	switch s := step.(type) {
	case *PointStep:
		switch name {
		case "x":
			s.Point.X = value
		case "y":
			s.Point.Y = value
		case "z":
			s.Point.Z = value
		default:
			return unknownParameter(step, name)
		}
	case *PlaneStep:
		switch name {
		case "width":
			s.Width = value
		case "height":
			s.Height = value
		default:
			return unknownParameter(step, name)
		}
	case *SketchStep:
		return unknownParameter(step, name)
	case *ExtrudeStep:
		if name != "depth" {
			return unknownParameter(step, name)
		}
		s.Depth = value
	default:
		panic(fmt.Sprintf("unhandled step type %T", step))
	}
	return nil
}

func unknownParameter(step Step, name string) error {
	return fmt.Errorf("%w: %s step %q has no parameter %q", ErrUnknownParameter, step.Kind(), step.Name(), name)
}
