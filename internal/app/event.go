package app

import "github.com/philipparndt/gocad/pkg/geometry"

// EventType names an interaction
type EventType string

const (
	// Viewport pointer events, routed to the line tool
	EventMove       EventType = "move"
	EventHoverEnter EventType = "hoverEnter"
	EventHoverOut   EventType = "hoverOut"
	EventClick      EventType = "click"

	EventKey  EventType = "key"
	EventTool EventType = "tool"
	EventMode EventType = "mode"

	// History list and form events
	EventDoubleClick EventType = "doubleClick"
	EventGrab        EventType = "grab"
	EventSet         EventType = "set"
	EventSave        EventType = "save"
	EventCancel      EventType = "cancel"
	EventScrub       EventType = "scrub"

	// Face selection
	EventFocusFaces EventType = "focusFaces"
	EventBlurFaces  EventType = "blurFaces"
	EventToggleFace EventType = "toggleFace"
	EventSetFaces   EventType = "setFaces"
)

// KeyEscape deactivates the current tool
const KeyEscape = "Escape"

// Event is a single user interaction. Only the fields relevant for the type
// are set.
type Event struct {
	Type   EventType        `yaml:"type"`
	Point  geometry.Vector3 `yaml:"point"`
	Vertex string           `yaml:"vertex"`
	Key    string           `yaml:"key"`
	Tool   Tool             `yaml:"tool"`
	Mode   Mode             `yaml:"mode"`
	Step   string           `yaml:"step"`
	Name   string           `yaml:"name"`
	Value  float64          `yaml:"value"`
	Sketch string           `yaml:"sketch"`
	Face   int              `yaml:"face"`
	Index  int              `yaml:"index"`
	Faces  []string         `yaml:"faces"`
}
