// Package editor implements the step parameter forms and the attention
// state that decides which step is being edited.
package editor

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/philipparndt/gocad/internal/selection"
	"github.com/philipparndt/gocad/pkg/kernel"
)

// ErrNoAttention is returned when editing while no step is open
var ErrNoAttention = errors.New("no step has attention")

// Saver writes numeric step parameters
type Saver interface {
	SetStepParameters(step string, names []string, values []float64) (*kernel.View, error)
}

// FaceSelector receives the faces field of an extrusion form
type FaceSelector interface {
	Focus(request selection.Request, faces []int) (*kernel.View, error)
	Blur()
}

// Editor holds the attention state: either no step is edited, or exactly
// one step has its form open with local edits
type Editor struct {
	saver  Saver
	faces  FaceSelector
	logger *slog.Logger

	original *Form
	form     *Form
}

func New(saver Saver, faces FaceSelector, logger *slog.Logger) *Editor {
	return &Editor{saver: saver, faces: faces, logger: logger}
}

// Attention returns the name of the step being edited
func (e *Editor) Attention() (string, bool) {
	if e.form == nil {
		return "", false
	}
	return e.form.Step, true
}

// Form returns a copy of the open form including local edits
func (e *Editor) Form() (*Form, bool) {
	if e.form == nil {
		return nil, false
	}
	return e.form.clone(), true
}

// Dirty reports whether the open form differs from the step
func (e *Editor) Dirty() bool {
	if e.form == nil {
		return false
	}
	for i, fd := range e.form.Fields {
		if fd.Kind == Number && fd.Value != e.original.Fields[i].Value {
			return true
		}
	}
	return false
}

// Grab opens the form of a step. Any other open form is ceded and its
// unsaved edits are lost.
func (e *Editor) Grab(step kernel.Step) {
	if e.form != nil {
		e.Cede()
	}
	e.original = FormFor(step)
	e.form = e.original.clone()
	e.logger.Debug("attention grabbed", "step", step.Name(), "kind", step.Kind())
}

// Cede closes the open form without saving
func (e *Editor) Cede() {
	if e.form == nil {
		return
	}
	e.logger.Debug("attention ceded", "step", e.form.Step, "dirty", e.Dirty())
	if e.form.Kind == kernel.KindExtrude {
		e.faces.Blur()
	}
	e.form = nil
	e.original = nil
}

// Toggle handles a double click on a step in the history list: the step
// with attention is saved and ceded, any other step grabs attention
func (e *Editor) Toggle(step kernel.Step) (*kernel.View, error) {
	if name, ok := e.Attention(); ok && name == step.Name() {
		return e.Save()
	}
	e.Grab(step)
	return nil, nil
}

// Set changes a numeric field locally
func (e *Editor) Set(name string, value float64) error {
	if e.form == nil {
		return ErrNoAttention
	}
	fd, ok := e.form.Field(name)
	if !ok || fd.Kind != Number {
		return fmt.Errorf("%w: %s step %q has no field %q", kernel.ErrUnknownParameter, e.form.Kind, e.form.Step, name)
	}
	fd.Value = value
	return nil
}

// Save writes all numeric fields and cedes attention. When the write fails
// the form stays open with its edits.
func (e *Editor) Save() (*kernel.View, error) {
	if e.form == nil {
		return nil, ErrNoAttention
	}
	names, values := e.form.numbers()
	if len(names) == 0 {
		e.Cede()
		return nil, nil
	}
	view, err := e.saver.SetStepParameters(e.form.Step, names, values)
	if err != nil {
		return view, err
	}
	e.Cede()
	return view, nil
}

// Cancel discards local edits and cedes attention
func (e *Editor) Cancel() {
	e.Cede()
}

// FocusFaces hands the faces field of the open extrusion form to the
// selection coordinator
func (e *Editor) FocusFaces() (*kernel.View, error) {
	if e.form == nil {
		return nil, ErrNoAttention
	}
	fd, ok := e.form.Field("faces")
	if !ok {
		return nil, fmt.Errorf("%w: %s step %q has no face selection", kernel.ErrUnknownParameter, e.form.Kind, e.form.Step)
	}
	return e.faces.Focus(selection.Request{
		StepName:      e.form.Step,
		ParameterName: fd.Name,
		SketchName:    e.form.Sketch,
	}, fd.Faces)
}

// BlurFaces releases the faces field
func (e *Editor) BlurFaces() {
	e.faces.Blur()
}
