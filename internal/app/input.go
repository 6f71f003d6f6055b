package app

import (
	"errors"
	"fmt"

	"github.com/philipparndt/gocad/pkg/kernel"
)

// ErrUnknownEvent is returned for events of an unknown type
var ErrUnknownEvent = errors.New("unknown event")

// Handle processes a single event. Errors are reported but leave the
// controller usable; the last valid view stays on screen.
func (a *App) Handle(ev Event) error {
	err := a.handle(ev)
	a.lastErr = err
	if err != nil {
		a.logger.Warn("event failed", "type", ev.Type, "error", err)
	}
	return err
}

func (a *App) handle(ev Event) error {
	switch ev.Type {
	case EventMove, EventHoverEnter, EventHoverOut, EventClick:
		return a.handlePointer(ev)

	case EventKey:
		if ev.Key == KeyEscape {
			a.setTool(ToolNone)
		}
		return nil

	case EventTool:
		return a.handleTool(ev.Tool)

	case EventMode:
		return a.handleMode(ev.Mode, ev.Sketch)

	case EventDoubleClick, EventGrab:
		return a.handleAttention(ev)

	case EventSet:
		return a.editor.Set(ev.Name, ev.Value)

	case EventSave:
		view, err := a.editor.Save()
		a.setView(view)
		if err != nil {
			return err
		}
		return a.afterCede()

	case EventCancel:
		a.editor.Cancel()
		return a.afterCede()

	case EventScrub:
		view, err := a.history.Scrub(ev.Index)
		a.setView(view)
		return err

	case EventFocusFaces:
		view, err := a.editor.FocusFaces()
		a.setView(view)
		return err

	case EventBlurFaces:
		a.editor.BlurFaces()
		return nil

	case EventToggleFace:
		view, err := a.selection.Toggle(ev.Sketch, ev.Face)
		a.setView(view)
		return err

	case EventSetFaces:
		view, err := a.selection.SetValues(ev.Faces)
		a.setView(view)
		return err
	}
	return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
}

// handlePointer routes viewport input to the line tool of the active sketch.
// Without an active tool pointer events are ignored.
func (a *App) handlePointer(ev Event) error {
	s := a.activeSession()
	if s == nil {
		return nil
	}
	switch ev.Type {
	case EventMove:
		s.Move(ev.Point)
	case EventHoverEnter:
		return s.HoverEnter(a.vertexID(ev))
	case EventHoverOut:
		s.HoverLeave(a.vertexID(ev))
	case EventClick:
		view, err := s.Click()
		a.setView(view)
		return err
	}
	return nil
}

// vertexID resolves the hovered vertex either by ID or by its coordinates
func (a *App) vertexID(ev Event) string {
	if ev.Vertex != "" {
		return ev.Vertex
	}
	return ev.Point.Key(a.snapPrecision)
}

func (a *App) handleTool(tool Tool) error {
	switch tool {
	case ToolNone:
		a.setTool(ToolNone)
	case ToolLine:
		if a.mode != ModeSketch {
			return fmt.Errorf("line tool needs sketch mode, current mode is %s", a.mode)
		}
		// Selecting the active tool again turns it off
		if a.tool == ToolLine {
			a.setTool(ToolNone)
		} else {
			a.setTool(ToolLine)
		}
	default:
		return fmt.Errorf("%w: tool %q", ErrUnknownEvent, tool)
	}
	return nil
}

func (a *App) handleMode(mode Mode, sketchName string) error {
	switch mode {
	case Mode3D:
		a.setMode(Mode3D, "")
	case ModeSketch:
		if _, ok := a.view.Sketches[sketchName]; !ok {
			return fmt.Errorf("%w: sketch %q", kernel.ErrNotFound, sketchName)
		}
		a.setMode(ModeSketch, sketchName)
	default:
		return fmt.Errorf("%w: mode %q", ErrUnknownEvent, mode)
	}
	return nil
}

// handleAttention opens or saves a step form. Opening a sketch enters
// sketch mode on it, everything else returns to 3D.
func (a *App) handleAttention(ev Event) error {
	step, _, err := a.history.Step(ev.Step)
	if err != nil {
		return err
	}

	if ev.Type == EventGrab {
		a.editor.Grab(step)
	} else {
		view, err := a.editor.Toggle(step)
		a.setView(view)
		if err != nil {
			return err
		}
	}

	if _, ok := a.editor.Attention(); !ok {
		return a.afterCede()
	}
	if err := a.rescrub(); err != nil {
		return err
	}
	if step.Kind() == kernel.KindSketch {
		a.setMode(ModeSketch, step.Name())
	} else {
		a.setMode(Mode3D, "")
	}
	return nil
}

func (a *App) afterCede() error {
	a.setMode(Mode3D, "")
	return a.rescrub()
}
