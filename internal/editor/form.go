package editor

import (
	"fmt"
	"slices"

	"github.com/philipparndt/gocad/pkg/kernel"
)

// FieldKind tells how a form field is edited
type FieldKind int

const (
	// Number is a numeric parameter written with SetStepParameters
	Number FieldKind = iota
	// Faces is a face list routed through the selection coordinator
	Faces
)

// Field is one editable value of a step form
type Field struct {
	Name  string
	Kind  FieldKind
	Value float64
	Faces []int
}

// Form is the editable snapshot of a single step
type Form struct {
	Step   string
	Kind   kernel.StepKind
	Plane  string // Sketch forms
	Sketch string // Extrude forms
	Fields []Field
}

// FormFor builds the form of a step
func FormFor(step kernel.Step) *Form {
	f := &Form{Step: step.Name(), Kind: step.Kind()}
	for _, p := range kernel.Parameters(step) {
		f.Fields = append(f.Fields, Field{Name: p.Name, Kind: Number, Value: p.Value})
	}

	switch s := step.(type) {
	case *kernel.PointStep, *kernel.PlaneStep:
	case *kernel.SketchStep:
		f.Plane = s.Plane
	case *kernel.ExtrudeStep:
		f.Sketch = s.Sketch
		f.Fields = append(f.Fields, Field{Name: "faces", Kind: Faces, Faces: slices.Clone(s.Faces)})
	default:
		panic(fmt.Sprintf("unhandled step type %T", step))
	}
	return f
}

// Field returns a field by name
func (f *Form) Field(name string) (*Field, bool) {
	i := slices.IndexFunc(f.Fields, func(fd Field) bool { return fd.Name == name })
	if i < 0 {
		return nil, false
	}
	return &f.Fields[i], true
}

// numbers returns the numeric fields in display order
func (f *Form) numbers() ([]string, []float64) {
	var names []string
	var values []float64
	for _, fd := range f.Fields {
		if fd.Kind == Number {
			names = append(names, fd.Name)
			values = append(values, fd.Value)
		}
	}
	return names, values
}

func (f *Form) clone() *Form {
	c := *f
	c.Fields = make([]Field, len(f.Fields))
	for i, fd := range f.Fields {
		fd.Faces = slices.Clone(fd.Faces)
		c.Fields[i] = fd
	}
	return &c
}
