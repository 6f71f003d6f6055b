package geometry

import (
	"math"
	"sort"
)

// SignedArea returns the shoelace area of a closed ring. Counter-clockwise
// rings have a positive area.
func SignedArea(ring []Point2D) float64 {
	area := 0.0
	n := len(ring)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += ring[i].X*ring[j].Y - ring[j].X*ring[i].Y
	}
	return area / 2
}

// PointInPolygon tests if a point is inside a polygon using ray casting
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}
	return inside
}

// PolygonInPolygon reports whether every vertex of inner lies inside outer
func PolygonInPolygon(inner, outer []Point2D) bool {
	if len(inner) == 0 {
		return false
	}
	for _, p := range inner {
		if !PointInPolygon(p, outer) {
			return false
		}
	}
	return true
}

// Centroid returns the vertex average of a polygon
func Centroid(polygon []Point2D) Point2D {
	var c Point2D
	if len(polygon) == 0 {
		return c
	}
	for _, p := range polygon {
		c = c.Add(p)
	}
	return c.Scale(1 / float64(len(polygon)))
}

// Triangulate splits a simple polygon into triangles by ear clipping. The
// returned index triples are always counter-clockwise.
func Triangulate(ring []Point2D) [][3]int {
	n := len(ring)
	if n < 3 {
		return nil
	}

	ccw := SignedArea(ring) > 0
	remaining := make([]int, n)
	for i := range remaining {
		remaining[i] = i
	}

	emit := func(a, b, c int) [3]int {
		if ccw {
			return [3]int{a, b, c}
		}
		return [3]int{a, c, b}
	}

	triangles := make([][3]int, 0, n-2)
	for len(remaining) > 3 {
		clipped := false
		m := len(remaining)
		for i := 0; i < m; i++ {
			prev := remaining[(i+m-1)%m]
			cur := remaining[i]
			next := remaining[(i+1)%m]

			turn := crossProduct(ring[prev], ring[cur], ring[next])
			if !ccw {
				turn = -turn
			}
			if turn <= 1e-12 {
				// Reflex or degenerate corner
				continue
			}
			if anyPointInTriangle(ring, remaining, prev, cur, next) {
				continue
			}

			triangles = append(triangles, emit(prev, cur, next))
			remaining = append(remaining[:i], remaining[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			// Self intersecting input, give up on the rest
			return triangles
		}
	}
	return append(triangles, emit(remaining[0], remaining[1], remaining[2]))
}

func anyPointInTriangle(ring []Point2D, candidates []int, a, b, c int) bool {
	for _, i := range candidates {
		if i == a || i == b || i == c {
			continue
		}
		p := ring[i]
		// Bridge vertices are duplicated
		if p == ring[a] || p == ring[b] || p == ring[c] {
			continue
		}
		if pointInTriangle(p, ring[a], ring[b], ring[c]) {
			return true
		}
	}
	return false
}

func pointInTriangle(p, a, b, c Point2D) bool {
	d1 := crossProduct(a, b, p)
	d2 := crossProduct(b, c, p)
	d3 := crossProduct(c, a, p)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

// crossProduct computes the cross product of vectors OA and OB
func crossProduct(o, a, b Point2D) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}


// TriangulateWithHoles bridges every hole into the exterior ring and ear
// clips the result. It returns the merged vertex list the triangle indices
// refer to.
func TriangulateWithHoles(exterior []Point2D, holes [][]Point2D) ([]Point2D, [][3]int) {
	merged := append([]Point2D(nil), exterior...)
	if SignedArea(merged) < 0 {
		reverse(merged)
	}

	// Rightmost holes first so later bridges can't cross earlier ones
	ordered := make([][]Point2D, 0, len(holes))
	for _, h := range holes {
		if len(h) >= 3 {
			ordered = append(ordered, h)
		}
	}
	sort.Slice(ordered, func(i, j int) bool {
		return maxX(ordered[i]) > maxX(ordered[j])
	})

	for _, h := range ordered {
		hole := append([]Point2D(nil), h...)
		if SignedArea(hole) > 0 {
			reverse(hole)
		}
		merged = bridge(merged, hole, ordered)
	}
	return merged, Triangulate(merged)
}

// bridge splices hole into ring through the closest mutually visible pair
// of vertices
func bridge(ring, hole []Point2D, holes [][]Point2D) []Point2D {
	m := 0
	for i, p := range hole {
		if p.X > hole[m].X {
			m = i
		}
	}
	mp := hole[m]

	best := -1
	bestDist := math.Inf(1)
	for i, p := range ring {
		d := p.Distance(mp)
		if d >= bestDist || !visible(mp, p, ring, holes) {
			continue
		}
		best, bestDist = i, d
	}
	if best < 0 {
		return ring
	}

	out := make([]Point2D, 0, len(ring)+len(hole)+2)
	out = append(out, ring[:best+1]...)
	for k := 0; k <= len(hole); k++ {
		out = append(out, hole[(m+k)%len(hole)])
	}
	out = append(out, ring[best])
	return append(out, ring[best+1:]...)
}

func visible(a, b Point2D, ring []Point2D, holes [][]Point2D) bool {
	if crossesRing(a, b, ring) {
		return false
	}
	for _, h := range holes {
		if crossesRing(a, b, h) {
			return false
		}
	}
	return true
}

func crossesRing(a, b Point2D, ring []Point2D) bool {
	for i := range ring {
		if segmentsCross(a, b, ring[i], ring[(i+1)%len(ring)]) {
			return true
		}
	}
	return false
}

// segmentsCross reports a proper intersection; shared endpoints don't count
func segmentsCross(p1, p2, q1, q2 Point2D) bool {
	d1 := crossProduct(q1, q2, p1)
	d2 := crossProduct(q1, q2, p2)
	d3 := crossProduct(p1, p2, q1)
	d4 := crossProduct(p1, p2, q2)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

func maxX(points []Point2D) float64 {
	m := math.Inf(-1)
	for _, p := range points {
		m = math.Max(m, p.X)
	}
	return m
}

func reverse(points []Point2D) {
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
}
