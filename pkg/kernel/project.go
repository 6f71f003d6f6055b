package kernel

import (
	"fmt"
	"slices"
)

// DefaultWorkbench is the name of the workbench every new project starts with
const DefaultWorkbench = "Workbench 1"

// Project is the in-memory geometry engine: a set of workbenches that can be
// evaluated and edited by name
type Project struct {
	Name        string
	workbenches []*Workbench
}

// NewEmptyProject creates a project with one workbench holding only the
// origin and the principal planes
func NewEmptyProject(name string) *Project {
	return &Project{Name: name, workbenches: []*Workbench{NewWorkbench(DefaultWorkbench)}}
}

// NewProject creates a project whose default workbench also contains a
// square sketch on the Top plane and an extrusion of it
func NewProject(name string) *Project {
	p := NewEmptyProject(name)
	wb := p.workbenches[0]
	_ = wb.AddStep(NewSketchStep("Sketch1", "Top",
		NewSegment(0, 0, 40, 0),
		NewSegment(40, 0, 40, 40),
		NewSegment(40, 40, 0, 40),
		NewSegment(0, 40, 0, 0),
	))
	_ = wb.AddStep(NewExtrudeStep("Extrude1", "Sketch1", []int{0}, 25))
	return p
}

// AddWorkbench creates another workbench
func (p *Project) AddWorkbench(name string) (*Workbench, error) {
	if _, err := p.Workbench(name); err == nil {
		return nil, fmt.Errorf("%w: workbench %q already exists", ErrInvalidArgument, name)
	}
	wb := NewWorkbench(name)
	p.workbenches = append(p.workbenches, wb)
	return wb, nil
}

// Workbench looks up a workbench by name
func (p *Project) Workbench(name string) (*Workbench, error) {
	for _, wb := range p.workbenches {
		if wb.Name == name {
			return wb, nil
		}
	}
	return nil, newNotFound("workbench", name, "", p.WorkbenchNames())
}

// WorkbenchNames returns all workbench names in creation order
func (p *Project) WorkbenchNames() []string {
	names := make([]string, len(p.workbenches))
	for i, wb := range p.workbenches {
		names[i] = wb.Name
	}
	return names
}

// Steps returns a copy of the history of a workbench
func (p *Project) Steps(workbench string) ([]Step, error) {
	wb, err := p.Workbench(workbench)
	if err != nil {
		return nil, err
	}
	return wb.Steps(), nil
}

// CreateView evaluates the first upto steps of a workbench
func (p *Project) CreateView(workbench string, upto int) (*View, error) {
	wb, err := p.Workbench(workbench)
	if err != nil {
		return nil, err
	}
	return wb.CreateView(upto), nil
}

// SetStepParameters overwrites numeric parameters of a step. Either all
// values are applied or none.
func (p *Project) SetStepParameters(workbench, step string, names []string, values []float64) error {
	if len(names) != len(values) {
		return fmt.Errorf("%w: %d parameter names but %d values", ErrInvalidArgument, len(names), len(values))
	}
	wb, idx, err := p.step(workbench, step)
	if err != nil {
		return err
	}

	updated := wb.steps[idx].clone()
	for i, name := range names {
		if err := setParameter(updated, name, values[i]); err != nil {
			return err
		}
	}
	wb.steps[idx] = updated
	return nil
}

// AddSegmentToSketch appends a line segment in sketch coordinates
func (p *Project) AddSegmentToSketch(workbench, sketch string, x1, y1, x2, y2 float64) error {
	wb, idx, err := p.step(workbench, sketch)
	if err != nil {
		return err
	}
	s, ok := wb.steps[idx].(*SketchStep)
	if !ok {
		return fmt.Errorf("%w: step %q is a %s, not a sketch", ErrInvalidArgument, sketch, wb.steps[idx].Kind())
	}
	segment := NewSegment(x1, y1, x2, y2)
	if segment.Degenerate() {
		return fmt.Errorf("%w: segment has zero length", ErrInvalidArgument)
	}
	s.Segments = append(s.Segments, segment)
	return nil
}

// SetSelectedForOperation replaces the selection parameter of an operation
// step. Extrusions accept the parameter "faces".
func (p *Project) SetSelectedForOperation(workbench, step, parameter, sketch string, indices []int) error {
	wb, idx, err := p.step(workbench, step)
	if err != nil {
		return err
	}
	e, ok := wb.steps[idx].(*ExtrudeStep)
	if !ok {
		return fmt.Errorf("%w: step %q is a %s, not an operation", ErrInvalidArgument, step, wb.steps[idx].Kind())
	}
	if parameter != "faces" {
		return fmt.Errorf("%w: %s step %q has no selection %q", ErrUnknownParameter, e.Kind(), step, parameter)
	}
	for _, i := range indices {
		if i < 0 {
			return fmt.Errorf("%w: negative face index %d", ErrInvalidArgument, i)
		}
	}
	e.Sketch = sketch
	e.Faces = slices.Clone(indices)
	return nil
}

func (p *Project) step(workbench, step string) (*Workbench, int, error) {
	wb, err := p.Workbench(workbench)
	if err != nil {
		return nil, -1, err
	}
	idx, err := wb.find(step)
	if err != nil {
		return nil, -1, err
	}
	return wb, idx, nil
}
