// Package app wires feature history, selection, parameter editing and the
// sketch line tool to a single stream of interaction events.
package app

import (
	"fmt"
	"log/slog"

	"github.com/philipparndt/gocad/internal/editor"
	"github.com/philipparndt/gocad/internal/history"
	"github.com/philipparndt/gocad/internal/selection"
	"github.com/philipparndt/gocad/internal/sketch"
	"github.com/philipparndt/gocad/pkg/kernel"
)

// Options configure a controller. Zero values select the default
// workbench and sketch.DefaultSnapPrecision.
type Options struct {
	Workbench     string
	SnapPrecision int
}

// App is the interaction controller. Events are handled one at a time in
// arrival order; it is not safe for concurrent use.
type App struct {
	logger    *slog.Logger
	history   *history.History
	selection *selection.Coordinator
	editor    *editor.Editor

	ViewState
	ToolState
	SketchState

	listeners []func(*kernel.View)
}

// New creates a controller editing one workbench of the engine
func New(engine history.Engine, opts Options, logger *slog.Logger) (*App, error) {
	if opts.Workbench == "" {
		opts.Workbench = kernel.DefaultWorkbench
	}
	if opts.SnapPrecision <= 0 {
		opts.SnapPrecision = sketch.DefaultSnapPrecision
	}
	h, err := history.New(engine, opts.Workbench, logger)
	if err != nil {
		return nil, fmt.Errorf("open workbench: %w", err)
	}
	sel := selection.New(h, logger)

	a := &App{
		logger:    logger,
		history:   h,
		selection: sel,
		editor:    editor.New(h, sel, logger),
		ToolState: ToolState{mode: Mode3D},
		SketchState: SketchState{
			sessions:      make(map[string]*sketch.Session),
			snapPrecision: opts.SnapPrecision,
		},
	}
	a.view = h.LastView()
	return a, nil
}

// View returns the view currently shown
func (a *App) View() *kernel.View { return a.view }

// LastError returns the error of the most recent event
func (a *App) LastError() error { return a.lastErr }

func (a *App) Mode() Mode           { return a.mode }
func (a *App) Tool() Tool           { return a.tool }
func (a *App) ActiveSketch() string { return a.activeSketch }

func (a *App) History() *history.History         { return a.history }
func (a *App) Selection() *selection.Coordinator { return a.selection }
func (a *App) Editor() *editor.Editor            { return a.editor }

// OnViewChange registers a callback invoked with every new view
func (a *App) OnViewChange(fn func(*kernel.View)) {
	a.listeners = append(a.listeners, fn)
}

// Session returns the line tool session of a sketch, creating it on first use
func (a *App) Session(name string) *sketch.Session {
	if s, ok := a.sessions[name]; ok {
		return s
	}
	frame := a.view.Sketches[name].Frame
	s := sketch.NewSession(name, frame, a.history, a.snapPrecision, a.logger)
	s.Refresh(a.view)
	a.sessions[name] = s
	return s
}

// activeSession returns the session receiving pointer events, if any
func (a *App) activeSession() *sketch.Session {
	if a.mode != ModeSketch || a.tool != ToolLine || a.activeSketch == "" {
		return nil
	}
	return a.Session(a.activeSketch)
}

// setView publishes a new view. Nil means nothing changed.
func (a *App) setView(view *kernel.View) {
	if view == nil || view == a.view {
		return
	}
	a.view = view
	for _, s := range a.sessions {
		s.Refresh(view)
	}
	for _, fn := range a.listeners {
		fn(view)
	}
}

// setMode switches the viewport mode; any tool is dropped
func (a *App) setMode(mode Mode, sketchName string) {
	if a.mode == mode && a.activeSketch == sketchName {
		return
	}
	a.setTool(ToolNone)
	a.mode = mode
	a.activeSketch = sketchName
	a.logger.Debug("mode changed", "mode", mode, "sketch", sketchName)
}

func (a *App) setTool(tool Tool) {
	if a.tool == tool {
		return
	}
	if a.tool == ToolLine && a.activeSketch != "" {
		a.Session(a.activeSketch).Deactivate()
	}
	a.tool = tool
	if tool == ToolLine {
		a.Session(a.activeSketch).Activate()
	}
}

// rescrub evaluates the history up to and including the step with
// attention, or every step when nothing is edited
func (a *App) rescrub() error {
	index := history.All
	if name, ok := a.editor.Attention(); ok {
		_, i, err := a.history.Step(name)
		if err != nil {
			return err
		}
		index = i + 1
	}
	view, err := a.history.Scrub(index)
	a.setView(view)
	return err
}
