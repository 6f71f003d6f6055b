package app

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Script is a recorded sequence of events
type Script struct {
	Workbench string  `yaml:"workbench"`
	Events    []Event `yaml:"events"`
}

// EventError ties a failed event to its position in a script
type EventError struct {
	Index int
	Event Event
	Err   error
}

func (e EventError) Error() string {
	return fmt.Sprintf("event %d (%s): %v", e.Index, e.Event.Type, e.Err)
}

func (e EventError) Unwrap() error { return e.Err }

// LoadScript reads a YAML event script from disk
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return ParseScript(bytes.NewReader(data))
}

// ParseScript decodes a YAML event script. Unknown keys are rejected so
// typos don't silently turn into zero values.
func ParseScript(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var script Script
	if err := dec.Decode(&script); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	for i, ev := range script.Events {
		if ev.Type == "" {
			return nil, fmt.Errorf("event %d has no type", i)
		}
	}
	return &script, nil
}

// Replay dispatches every event in order. A failing event does not stop the
// replay; all failures are returned.
func (a *App) Replay(script *Script) []EventError {
	var failures []EventError
	for i, ev := range script.Events {
		if err := a.Handle(ev); err != nil {
			failures = append(failures, EventError{Index: i, Event: ev, Err: err})
		}
	}
	return failures
}
