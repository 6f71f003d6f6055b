package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/philipparndt/gocad/internal/app"
	"github.com/philipparndt/gocad/pkg/kernel"
)

// openApp builds the project described by the configuration and replays
// the script, if any. Failed events are reported on stderr and don't stop
// the replay.
func openApp(scriptFile string) (*app.App, error) {
	var script *app.Script
	if scriptFile != "" {
		s, err := app.LoadScript(scriptFile)
		if err != nil {
			return nil, err
		}
		script = s
	}

	a, err := newApp(script)
	if err != nil {
		return nil, err
	}
	if script != nil {
		reportFailures(os.Stderr, a.Replay(script))
	}
	return a, nil
}

func newApp(script *app.Script) (*app.App, error) {
	project := kernel.NewProject(cfg.Project.Name)
	if cfg.Project.Empty {
		project = kernel.NewEmptyProject(cfg.Project.Name)
	}

	name := cfg.Project.Workbench
	if script != nil && script.Workbench != "" && workbench == "" {
		name = script.Workbench
	}
	if _, err := project.Workbench(name); errors.Is(err, kernel.ErrNotFound) {
		if _, err := project.AddWorkbench(name); err != nil {
			return nil, err
		}
	}

	return app.New(project, app.Options{
		Workbench:     name,
		SnapPrecision: cfg.Sketch.SnapPrecision,
	}, logger)
}

func reportFailures(w io.Writer, failures []app.EventError) {
	for _, f := range failures {
		fmt.Fprintf(w, "Warning: %v\n", f)
	}
}

// mustOpenApp is openApp for command handlers
func mustOpenApp() *app.App {
	a, err := openApp(scriptPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening project: %v\n", err)
		os.Exit(1)
	}
	return a
}
