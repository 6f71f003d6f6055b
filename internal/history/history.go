// Package history exposes the feature history of one workbench and
// materializes views of it. Every mutation is followed by a full
// re-evaluation and hands back the refreshed view.
package history

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/philipparndt/gocad/pkg/kernel"
)

// All is the scrub index that evaluates every step
const All = -1

// ErrRecompute marks a mutation that was applied but whose view could not
// be evaluated afterwards
var ErrRecompute = errors.New("recompute failed")

// Engine is the geometry kernel the history delegates to
type Engine interface {
	Steps(workbench string) ([]kernel.Step, error)
	CreateView(workbench string, upto int) (*kernel.View, error)
	SetStepParameters(workbench, step string, names []string, values []float64) error
	AddSegmentToSketch(workbench, sketch string, x1, y1, x2, y2 float64) error
	SetSelectedForOperation(workbench, step, parameter, sketch string, indices []int) error
}

// History is bound to a single workbench. It is not safe for concurrent use;
// all calls are expected from one event loop.
type History struct {
	engine    Engine
	workbench string
	logger    *slog.Logger

	scrub    int
	lastView *kernel.View
}

// New creates a history for the given workbench and materializes its first view
func New(engine Engine, workbench string, logger *slog.Logger) (*History, error) {
	h := &History{
		engine:    engine,
		workbench: workbench,
		logger:    logger.With("workbench", workbench),
		scrub:     All,
	}
	if _, err := h.Materialize(); err != nil {
		return nil, err
	}
	return h, nil
}

// Workbench returns the name of the workbench this history edits
func (h *History) Workbench() string {
	return h.workbench
}

// Steps returns the ordered step list
func (h *History) Steps() ([]kernel.Step, error) {
	return h.engine.Steps(h.workbench)
}

// Step returns a single step and its position in the history
func (h *History) Step(name string) (kernel.Step, int, error) {
	steps, err := h.Steps()
	if err != nil {
		return nil, -1, err
	}
	for i, s := range steps {
		if s.Name() == name {
			return s, i, nil
		}
	}
	return nil, -1, fmt.Errorf("%w: step %q in workbench %q", kernel.ErrNotFound, name, h.workbench)
}

// CreateView evaluates steps [0, upto). It neither changes the history nor
// the cached view.
func (h *History) CreateView(upto int) (*kernel.View, error) {
	start := time.Now()
	view, err := h.engine.CreateView(h.workbench, upto)
	if err != nil {
		h.logger.Error("create view failed", "upto", upto, "error", err)
		return nil, err
	}
	h.logger.Debug("view created", "upto", upto, "solids", len(view.Solids), "failed_steps", len(view.Errors), "elapsed", time.Since(start))
	return view, nil
}

// Scrub moves the evaluation cursor. All evaluates every step, any other
// value is the number of steps to include.
func (h *History) Scrub(index int) (*kernel.View, error) {
	if index < All {
		return h.lastView, fmt.Errorf("%w: scrub index %d", kernel.ErrInvalidArgument, index)
	}
	h.scrub = index
	return h.Materialize()
}

// ScrubIndex returns the current evaluation cursor
func (h *History) ScrubIndex() int {
	return h.scrub
}

// Materialize evaluates the history up to the scrub index and caches the
// result. On failure the previous view stays current and is returned along
// with the error.
func (h *History) Materialize() (*kernel.View, error) {
	upto := h.scrub
	if upto == All {
		steps, err := h.Steps()
		if err != nil {
			return h.lastView, err
		}
		upto = len(steps)
	}
	view, err := h.CreateView(upto)
	if err != nil {
		return h.lastView, err
	}
	h.lastView = view
	return view, nil
}

// LastView returns the most recent successfully materialized view
func (h *History) LastView() *kernel.View {
	return h.lastView
}

// SetStepParameters overwrites numeric parameters of a step and returns the
// refreshed view
func (h *History) SetStepParameters(step string, names []string, values []float64) (*kernel.View, error) {
	h.logger.Debug("set step parameters", "step", step, "names", names, "values", values)
	if err := h.engine.SetStepParameters(h.workbench, step, names, values); err != nil {
		h.logger.Warn("set step parameters rejected", "step", step, "error", err)
		return h.lastView, err
	}
	return h.recompute()
}

// AddSegmentToSketch appends a segment in sketch coordinates and returns the
// refreshed view
func (h *History) AddSegmentToSketch(sketch string, x1, y1, x2, y2 float64) (*kernel.View, error) {
	h.logger.Debug("add segment", "sketch", sketch, "from", [2]float64{x1, y1}, "to", [2]float64{x2, y2})
	if err := h.engine.AddSegmentToSketch(h.workbench, sketch, x1, y1, x2, y2); err != nil {
		h.logger.Warn("add segment rejected", "sketch", sketch, "error", err)
		return h.lastView, err
	}
	return h.recompute()
}

// SetSelectedForOperation replaces the selection of an operation step and
// returns the refreshed view
func (h *History) SetSelectedForOperation(step, parameter, sketch string, indices []int) (*kernel.View, error) {
	h.logger.Debug("set selection", "step", step, "parameter", parameter, "sketch", sketch, "indices", indices)
	if err := h.engine.SetSelectedForOperation(h.workbench, step, parameter, sketch, indices); err != nil {
		h.logger.Warn("set selection rejected", "step", step, "error", err)
		return h.lastView, err
	}
	return h.recompute()
}

// recompute materializes after a mutation has landed in the engine
func (h *History) recompute() (*kernel.View, error) {
	view, err := h.Materialize()
	if err != nil {
		h.logger.Warn("recompute failed", "error", err)
		return view, fmt.Errorf("%w: %w", ErrRecompute, err)
	}
	return view, nil
}
