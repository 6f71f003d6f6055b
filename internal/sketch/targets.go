package sketch

import (
	"github.com/philipparndt/gocad/pkg/geometry"
	"github.com/philipparndt/gocad/pkg/kernel"
)

// DefaultSnapPrecision is the number of decimal places used to merge
// coincident endpoints into one snap target
const DefaultSnapPrecision = 6

// Target is a vertex the pointer can snap to
type Target struct {
	ID     string
	World  geometry.Vector3
	Sketch geometry.Point2D
}

// Targets returns the distinct segment endpoints of a sketch in order of
// first appearance. Endpoints are merged when their world coordinates agree
// after rounding to precision decimal places. The sketch coordinates are the
// stored segment endpoints, so snapping reproduces them exactly.
func Targets(view kernel.SketchView, precision int) []Target {
	seen := make(map[string]bool)
	var targets []Target
	add := func(world geometry.Vector3, local geometry.Point2D) {
		id := world.Key(precision)
		if seen[id] {
			return
		}
		seen[id] = true
		targets = append(targets, Target{ID: id, World: world, Sketch: local})
	}
	for i, s := range view.Segments {
		if i >= len(view.Segments2D) {
			break
		}
		add(s.Start, view.Segments2D[i].Start)
		add(s.End, view.Segments2D[i].End)
	}
	return targets
}
