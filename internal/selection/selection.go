// Package selection links face picks in the 3D viewport with the face list
// parameter of the step being edited.
package selection

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"

	"github.com/philipparndt/gocad/internal/history"
	"github.com/philipparndt/gocad/pkg/kernel"
)

// ErrNoRequest is returned when a commit is attempted while no form field
// owns the selection
var ErrNoRequest = errors.New("no active selection request")

// Request identifies the form field that currently receives face picks
type Request struct {
	StepName      string
	ParameterName string
	SketchName    string
}

// Option is one selected face as shown in a multi-select field
type Option struct {
	Value string
	Label string
}

// FaceLabel returns the display label of a sketch face, e.g. "Sketch1::Face 2"
func FaceLabel(sketch string, face int) string {
	return fmt.Sprintf("%s::Face %d", sketch, face)
}

// Committer writes a face selection into the history
type Committer interface {
	SetSelectedForOperation(step, parameter, sketch string, indices []int) (*kernel.View, error)
}

type commit struct {
	request Request
	indices []int
}

// Coordinator owns the active request and the ordered selection
type Coordinator struct {
	committer Committer
	logger    *slog.Logger

	active   *Request
	selected []Option
	last     *commit
}

func New(committer Committer, logger *slog.Logger) *Coordinator {
	return &Coordinator{committer: committer, logger: logger}
}

// Active returns the current request, if any
func (c *Coordinator) Active() (Request, bool) {
	if c.active == nil {
		return Request{}, false
	}
	return *c.active, true
}

// Selected returns a copy of the ordered selection
func (c *Coordinator) Selected() []Option {
	return slices.Clone(c.selected)
}

// IsSelected reports whether a face of a sketch is in the selection
func (c *Coordinator) IsSelected(sketch string, face int) bool {
	return c.indexOf(FaceLabel(sketch, face)) >= 0
}

// Indices parses the selection values in order
func (c *Coordinator) Indices() ([]int, error) {
	indices := make([]int, 0, len(c.selected))
	for _, o := range c.selected {
		i, err := strconv.Atoi(o.Value)
		if err != nil {
			return nil, fmt.Errorf("face value %q: %w", o.Value, err)
		}
		indices = append(indices, i)
	}
	return indices, nil
}

// Toggle adds or removes a face. Order of the remaining faces is kept. The
// returned view is nil when nothing was committed.
func (c *Coordinator) Toggle(sketch string, face int) (*kernel.View, error) {
	label := FaceLabel(sketch, face)
	if i := c.indexOf(label); i >= 0 {
		c.selected = slices.Delete(c.selected, i, i+1)
	} else {
		c.selected = append(c.selected, Option{Value: strconv.Itoa(face), Label: label})
	}
	return c.changed()
}

// Focus makes a form field the receiver of face picks and seeds the
// selection with the faces the step already uses
func (c *Coordinator) Focus(request Request, faces []int) (*kernel.View, error) {
	c.active = &request
	c.selected = make([]Option, 0, len(faces))
	for _, f := range faces {
		c.selected = append(c.selected, Option{Value: strconv.Itoa(f), Label: FaceLabel(request.SketchName, f)})
	}
	c.logger.Debug("selection focused", "step", request.StepName, "parameter", request.ParameterName, "faces", faces)
	return c.changed()
}

// SetValues replaces the selection from a multi-select field. The
// selection is left untouched when a value is not a face index.
func (c *Coordinator) SetValues(values []string) (*kernel.View, error) {
	sketch := ""
	if c.active != nil {
		sketch = c.active.SketchName
	}
	selected := make([]Option, 0, len(values))
	for _, v := range values {
		i, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("face value %q: %w", v, err)
		}
		selected = append(selected, Option{Value: strconv.Itoa(i), Label: FaceLabel(sketch, i)})
	}
	c.selected = selected
	return c.changed()
}

// Blur releases the active request. The selection stays for display.
func (c *Coordinator) Blur() {
	if c.active != nil {
		c.logger.Debug("selection blurred", "step", c.active.StepName)
	}
	c.active = nil
}

// Clear drops the request, the selection and the commit memory
func (c *Coordinator) Clear() {
	c.active = nil
	c.selected = nil
	c.last = nil
}

// Commit sends the selection for the active request
func (c *Coordinator) Commit() (*kernel.View, error) {
	if c.active == nil {
		return nil, ErrNoRequest
	}
	indices, err := c.Indices()
	if err != nil {
		return nil, err
	}

	request := *c.active
	if c.last != nil && c.last.request == request && slices.Equal(c.last.indices, indices) {
		return nil, nil
	}

	view, err := c.committer.SetSelectedForOperation(request.StepName, request.ParameterName, request.SketchName, indices)
	switch {
	case err == nil, errors.Is(err, history.ErrRecompute):
		// The selection landed even if the view could not be rebuilt
		c.last = &commit{request: request, indices: indices}
	default:
		c.last = nil
	}
	return view, err
}

// changed commits when a field owns the selection
func (c *Coordinator) changed() (*kernel.View, error) {
	if c.active == nil {
		return nil, nil
	}
	return c.Commit()
}

func (c *Coordinator) indexOf(label string) int {
	return slices.IndexFunc(c.selected, func(o Option) bool { return o.Label == label })
}
