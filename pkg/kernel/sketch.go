package kernel

import (
	"math"
	"sort"

	"github.com/philipparndt/gocad/pkg/geometry"
)

// PointTolerance is the distance below which two sketch points are the same
const PointTolerance = 1e-5

// Segment is a straight line between two sketch points
type Segment struct {
	Start geometry.Point2D
	End   geometry.Point2D
}

// NewSegment creates a segment from raw coordinates
func NewSegment(x1, y1, x2, y2 float64) Segment {
	return Segment{Start: geometry.NewPoint2D(x1, y1), End: geometry.NewPoint2D(x2, y2)}
}

// Reverse returns the segment walked the other way
func (s Segment) Reverse() Segment {
	return Segment{Start: s.End, End: s.Start}
}

// Continues reports whether s starts where prior ends
func (s Segment) Continues(prior Segment) bool {
	return prior.End.ApproxEqual(s.Start, PointTolerance)
}

// SameAs reports whether both segments connect the same points in either direction
func (s Segment) SameAs(other Segment) bool {
	same := s.Start.ApproxEqual(other.Start, PointTolerance) && s.End.ApproxEqual(other.End, PointTolerance)
	reversed := s.Start.ApproxEqual(other.End, PointTolerance) && s.End.ApproxEqual(other.Start, PointTolerance)
	return same || reversed
}

// Degenerate reports whether the segment has no length
func (s Segment) Degenerate() bool {
	return s.Start.ApproxEqual(s.End, PointTolerance)
}

// Ring is a closed chain of segments
type Ring []Segment

// Points returns the start point of every segment in order
func (r Ring) Points() []geometry.Point2D {
	points := make([]geometry.Point2D, len(r))
	for i, s := range r {
		points[i] = s.Start
	}
	return points
}

// SignedArea is positive for counter-clockwise rings
func (r Ring) SignedArea() float64 {
	return geometry.SignedArea(r.Points())
}

// Face is a closed region of a sketch: one exterior ring and any holes
type Face struct {
	Exterior  Ring
	Interiors []Ring
}

// Area returns the exterior area minus the holes
func (f Face) Area() float64 {
	area := f.Exterior.SignedArea()
	for _, hole := range f.Interiors {
		area -= math.Abs(hole.SignedArea())
	}
	return area
}

// FindRings walks the segments and their reversals and returns every closed
// ring, ordered from smallest to largest signed area.
func FindRings(segments []Segment) []Ring {
	all := make([]Segment, 0, len(segments)*2)
	all = append(all, segments...)
	for _, s := range segments {
		all = append(all, s.Reverse())
	}

	used := make(map[int]bool)
	var rings []Ring

	for start := range all {
		if used[start] {
			continue
		}
		startPoint := all[start].Start

		var ringIndices []int
		current := start
		for step := 1; step < len(all); step++ {
			segment := all[current]
			ringIndices = append(ringIndices, current)

			next, ok := nextSegmentIndex(all, segment, used)
			if !ok {
				break
			}
			current = next

			if segment.End.ApproxEqual(startPoint, PointTolerance) {
				ring := make(Ring, len(ringIndices))
				for i, idx := range ringIndices {
					ring[i] = all[idx]
					used[idx] = true
				}
				rings = append(rings, ring)
				break
			}
		}
	}

	sort.SliceStable(rings, func(i, j int) bool {
		return rings[i].SignedArea() < rings[j].SignedArea()
	})
	return rings
}

// nextSegmentIndex picks the unused segment continuing from prior. With
// several candidates the one with the largest turning angle wins.
func nextSegmentIndex(all []Segment, prior Segment, used map[int]bool) (int, bool) {
	var matches []int
	for idx, s := range all {
		if used[idx] {
			continue
		}
		if s.Continues(prior) && !s.SameAs(prior) {
			matches = append(matches, idx)
		}
	}

	switch len(matches) {
	case 0:
		return 0, false
	case 1:
		return matches[0], true
	}

	best := 0
	biggest := 0.0
	for _, option := range matches {
		a := turnAngle(prior.Start, prior.End, all[option].End)
		if a >= biggest {
			biggest = a
			best = option
		}
	}
	return best, true
}

// turnAngle returns the counter-clockwise angle from BA to BC in (0, 2*Pi]
func turnAngle(a, b, c geometry.Point2D) float64 {
	ba := math.Atan2(a.Y-b.Y, a.X-b.X)
	bc := math.Atan2(c.Y-b.Y, c.X-b.X)
	angle := bc - ba
	if angle <= 0 {
		angle += 2 * math.Pi
	}
	return angle
}

// FindFaces turns the counter-clockwise rings into faces. A ring contained
// in a bigger ring becomes a hole of the smallest face that contains it.
func FindFaces(segments []Segment) []Face {
	var faces []Face
	for _, ring := range FindRings(segments) {
		if ring.SignedArea() > 0 {
			faces = append(faces, Face{Exterior: ring})
		}
	}

	// Faces are sorted from smallest to largest
	type containment struct{ outer, inner int }
	var pairs []containment
	for inner := 0; inner < len(faces)-1; inner++ {
		for outer := inner + 1; outer < len(faces); outer++ {
			if geometry.PolygonInPolygon(faces[inner].Exterior.Points(), faces[outer].Exterior.Points()) {
				pairs = append(pairs, containment{outer: outer, inner: inner})
				break
			}
		}
	}
	for _, p := range pairs {
		faces[p.outer].Interiors = append(faces[p.outer].Interiors, faces[p.inner].Exterior)
	}
	return faces
}
