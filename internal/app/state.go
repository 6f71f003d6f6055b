package app

import (
	"github.com/philipparndt/gocad/internal/sketch"
	"github.com/philipparndt/gocad/pkg/kernel"
)

// Mode is the viewport mode
type Mode string

const (
	Mode3D     Mode = "3D"
	ModeSketch Mode = "sketch"
)

// Tool is the active viewport tool
type Tool string

const (
	ToolNone Tool = ""
	ToolLine Tool = "line"
)

// ViewState holds the view currently shown
type ViewState struct {
	view    *kernel.View
	lastErr error // Error of the most recent event, nil when it succeeded
}

// ToolState holds viewport mode and tool
type ToolState struct {
	mode         Mode
	tool         Tool
	activeSketch string // Sketch edited in sketch mode
}

// SketchState holds one line tool session per sketch
type SketchState struct {
	sessions      map[string]*sketch.Session
	snapPrecision int
}
