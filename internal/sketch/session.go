// Package sketch turns pointer events on a sketch plane into committed line
// segments, snapping to existing endpoints.
package sketch

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/philipparndt/gocad/pkg/geometry"
	"github.com/philipparndt/gocad/pkg/kernel"
)

// ErrUnknownVertex is returned when hovering a vertex that is not a snap target
var ErrUnknownVertex = errors.New("unknown snap vertex")

// PointState tells how a queued point was produced
type PointState int

const (
	Moved PointState = iota
	Snapped
	Clicked
)

func (s PointState) String() string {
	switch s {
	case Moved:
		return "moved"
	case Snapped:
		return "snapped"
	case Clicked:
		return "clicked"
	}
	return fmt.Sprintf("PointState(%d)", int(s))
}

// Point is a queued pointer position
type Point struct {
	World  geometry.Vector3
	Sketch geometry.Point2D
	State  PointState
}

// Committer stores a finished segment
type Committer interface {
	AddSegmentToSketch(sketch string, x1, y1, x2, y2 float64) (*kernel.View, error)
}

// Session is the line tool state of one sketch. Snap state is owned by the
// session, so two sketches never share it.
type Session struct {
	sketch    string
	committer Committer
	logger    *slog.Logger
	precision int

	frame   geometry.Frame
	targets []Target

	active    bool
	queue     []Point
	snapped   bool
	snappedTo string
}

// NewSession creates an inactive line tool for a sketch
func NewSession(sketch string, frame geometry.Frame, committer Committer, precision int, logger *slog.Logger) *Session {
	return &Session{
		sketch:    sketch,
		frame:     frame,
		committer: committer,
		precision: precision,
		logger:    logger.With("sketch", sketch),
	}
}

func (s *Session) Sketch() string { return s.sketch }
func (s *Session) Active() bool   { return s.active }
func (s *Session) Snapped() bool  { return s.snapped }

// SnappedTo returns the ID of the vertex the pointer is snapped to
func (s *Session) SnappedTo() (string, bool) {
	return s.snappedTo, s.snapped
}

// Queue returns a copy of the pending points, oldest first
func (s *Session) Queue() []Point {
	return slices.Clone(s.queue)
}

// Targets returns the current snap targets
func (s *Session) Targets() []Target {
	return slices.Clone(s.targets)
}

// Refresh picks up the sketch frame and snap targets from a new view
func (s *Session) Refresh(view *kernel.View) {
	if view == nil {
		return
	}
	sv, ok := view.Sketches[s.sketch]
	if !ok {
		s.targets = nil
		return
	}
	s.frame = sv.Frame
	s.targets = Targets(sv, s.precision)
}

// Activate starts the line tool with an empty queue
func (s *Session) Activate() {
	s.active = true
	s.reset()
	s.logger.Debug("line tool activated")
}

// Deactivate stops the line tool and drops pending points
func (s *Session) Deactivate() {
	s.active = false
	s.reset()
	s.logger.Debug("line tool deactivated")
}

// Cancel drops pending points and keeps the tool active
func (s *Session) Cancel() {
	s.reset()
}

func (s *Session) reset() {
	s.queue = nil
	s.snapped = false
	s.snappedTo = ""
}

// Move tracks the pointer. While snapped the pointer position is ignored.
func (s *Session) Move(world geometry.Vector3) {
	if !s.active || s.snapped {
		return
	}
	p := Point{World: world, Sketch: s.frame.ToLocal(world), State: Moved}
	if last := s.last(); last != nil && last.State == Moved {
		*last = p
		return
	}
	s.queue = append(s.queue, p)
}

// HoverEnter snaps the pending point onto a vertex
func (s *Session) HoverEnter(id string) error {
	if !s.active {
		return nil
	}
	i := slices.IndexFunc(s.targets, func(t Target) bool { return t.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownVertex, id)
	}
	target := s.targets[i]

	s.snapped = true
	s.snappedTo = id
	p := Point{World: target.World, Sketch: target.Sketch, State: Snapped}
	if last := s.last(); last != nil && last.State != Clicked {
		*last = p
		return nil
	}
	s.queue = append(s.queue, p)
	return nil
}

// HoverLeave releases the snap. The snapped point is only dropped when it
// was not clicked in the meantime.
func (s *Session) HoverLeave(id string) {
	if !s.active {
		return
	}
	if s.snapped && s.snappedTo != id {
		// Leave of a vertex we already moved away from
		return
	}
	s.snapped = false
	s.snappedTo = ""
	if last := s.last(); last != nil && last.State == Snapped {
		s.queue = s.queue[:len(s.queue)-1]
	}
}

// Click fixes the pending point. Two fixed points form a segment that is
// committed immediately; the newer point then starts the next segment.
func (s *Session) Click() (*kernel.View, error) {
	last := s.last()
	if !s.active || last == nil {
		return nil, nil
	}
	last.State = Clicked

	if len(s.queue) < 2 || s.queue[0].State != Clicked || s.queue[1].State != Clicked {
		return nil, nil
	}
	start, end := s.queue[0].Sketch, s.queue[1].Sketch
	s.queue = s.queue[1:]

	s.logger.Debug("commit segment", "from", start, "to", end)
	view, err := s.committer.AddSegmentToSketch(s.sketch, start.X, start.Y, end.X, end.Y)
	if err != nil {
		return view, fmt.Errorf("commit segment: %w", err)
	}
	s.Refresh(view)
	return view, nil
}

func (s *Session) last() *Point {
	if len(s.queue) == 0 {
		return nil
	}
	return &s.queue[len(s.queue)-1]
}
