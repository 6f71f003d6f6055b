package kernel

import (
	"fmt"

	"github.com/philipparndt/gocad/pkg/geometry"
)

// Workbench is a named, ordered feature history
type Workbench struct {
	Name  string
	steps []Step
}

// NewWorkbench creates a workbench holding the origin and the three
// principal planes
func NewWorkbench(name string) *Workbench {
	w := &Workbench{Name: name}
	origin := geometry.Vector3{}
	w.steps = []Step{
		NewPointStep("Origin", origin),
		NewPlaneStep("Top", geometry.NewFrame(origin, geometry.NewVector3(1, 0, 0), geometry.NewVector3(0, 1, 0))),
		NewPlaneStep("Front", geometry.NewFrame(origin, geometry.NewVector3(0, 0, 1), geometry.NewVector3(1, 0, 0))),
		NewPlaneStep("Right", geometry.NewFrame(origin, geometry.NewVector3(0, 1, 0), geometry.NewVector3(0, 0, 1))),
	}
	return w
}

// Steps returns a copy of the history
func (w *Workbench) Steps() []Step {
	steps := make([]Step, len(w.steps))
	for i, s := range w.steps {
		steps[i] = s.clone()
	}
	return steps
}

// StepNames returns the step names in history order
func (w *Workbench) StepNames() []string {
	names := make([]string, len(w.steps))
	for i, s := range w.steps {
		names[i] = s.Name()
	}
	return names
}

// AddStep appends a step to the history. Names must be unique.
func (w *Workbench) AddStep(step Step) error {
	if step.Name() == "" {
		return fmt.Errorf("%w: step name must not be empty", ErrInvalidArgument)
	}
	if _, err := w.find(step.Name()); err == nil {
		return fmt.Errorf("%w: step %q already exists", ErrInvalidArgument, step.Name())
	}
	w.steps = append(w.steps, step)
	return nil
}

// NextStepName returns the first unused "<Kind><n>" name, e.g. "Sketch2"
func (w *Workbench) NextStepName(kind StepKind) string {
	for n := 1; ; n++ {
		name := fmt.Sprintf("%s%d", kind, n)
		if _, err := w.find(name); err != nil {
			return name
		}
	}
}

func (w *Workbench) find(name string) (int, error) {
	for i, s := range w.steps {
		if s.Name() == name {
			return i, nil
		}
	}
	return -1, newNotFound("step", name, w.Name, w.StepNames())
}

// CreateView evaluates steps [0, upto) into a fresh view. The workbench is
// not modified, so repeated calls yield equal views.
func (w *Workbench) CreateView(upto int) *View {
	upto = max(0, min(upto, len(w.steps)))

	view := newView()
	for _, step := range w.steps[:upto] {
		if err := view.apply(step); err != nil {
			view.Errors[step.Name()] = err.Error()
		}
	}
	return view
}

func (v *View) apply(step Step) error {
	switch s := step.(type) {
	case *PointStep:
		v.Points[s.Name()] = s.Point
	case *PlaneStep:
		v.Planes[s.Name()] = PlaneView{Frame: s.Frame, Width: s.Width, Height: s.Height}
	case *SketchStep:
		plane, ok := v.Planes[s.Plane]
		if !ok {
			return fmt.Errorf("sketch plane %q is not defined", s.Plane)
		}
		v.Sketches[s.Name()] = newSketchView(s.Plane, plane.Frame, s.Segments)
	case *ExtrudeStep:
		sketch, ok := v.Sketches[s.Sketch]
		if !ok {
			return fmt.Errorf("sketch %q is not defined", s.Sketch)
		}
		solid, err := extrude(s.Name(), sketch, s.Faces, s.Depth)
		if err != nil {
			return err
		}
		v.Solids[s.Name()] = solid
	default:
		panic(fmt.Sprintf("unhandled step type %T", step))
	}
	return nil
}
