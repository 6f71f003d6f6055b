package viewer

import (
	"image/color"
	"maps"
	"math"
	"slices"

	"github.com/philipparndt/gocad/pkg/geometry"
	"github.com/philipparndt/gocad/pkg/kernel"
)

// Role decides how a line is drawn
type Role int

const (
	RolePlane Role = iota
	RoleSketch
	RoleActiveSketch
	RoleSolidEdge
	RoleSelectedFace
	RolePreview
)

var roleColors = map[Role]color.RGBA{
	RolePlane:        {90, 110, 140, 255},
	RoleSketch:       {170, 170, 170, 255},
	RoleActiveSketch: {80, 200, 255, 255},
	RoleSolidEdge:    {30, 30, 30, 255},
	RoleSelectedFace: {255, 200, 0, 255},
	RolePreview:      {255, 120, 60, 255},
}

// Line is a world space line of the scene
type Line struct {
	Start, End geometry.Vector3
	Role       Role
}

// Marker is a snap target drawn as a dot
type Marker struct {
	ID       string
	Position geometry.Vector3
	Hovered  bool
}

// Scene is everything drawn for one view
type Scene struct {
	Triangles []geometry.Triangle
	Lines     []Line
	Markers   []Marker
	Bounds    geometry.BoundingBox
}

// FaceRef names one face of a sketch
type FaceRef struct {
	Sketch string
	Face   int
}

// SceneOptions select what is highlighted
type SceneOptions struct {
	ActiveSketch string
	Selected     []FaceRef
	Markers      []Marker
	// Preview is the rubber band of the line tool, if any
	Preview *Line
}

// BuildScene turns a view into drawable primitives
func BuildScene(view *kernel.View, opts SceneOptions) Scene {
	s := Scene{Bounds: geometry.NewBoundingBox(), Markers: opts.Markers}

	for _, name := range slices.Sorted(maps.Keys(view.Planes)) {
		c := view.Planes[name].Corners()
		for i := range c {
			s.addLine(Line{Start: c[i], End: c[(i+1)%len(c)], Role: RolePlane})
		}
	}

	for _, name := range view.SketchNames() {
		role := RoleSketch
		if name == opts.ActiveSketch {
			role = RoleActiveSketch
		}
		for _, seg := range view.Sketches[name].Segments {
			s.addLine(Line{Start: seg.Start, End: seg.End, Role: role})
		}
	}

	for _, ref := range opts.Selected {
		outline := view.Sketches[ref.Sketch].FaceOutline(ref.Face)
		for i := range outline {
			s.addLine(Line{Start: outline[i], End: outline[(i+1)%len(outline)], Role: RoleSelectedFace})
		}
	}

	for _, name := range view.SolidNames() {
		mesh := view.Solids[name].Mesh()
		triangles := mesh.Triangles()
		s.Triangles = append(s.Triangles, triangles...)
		for _, e := range FeatureEdges(triangles) {
			s.addLine(Line{Start: e[0], End: e[1], Role: RoleSolidEdge})
		}
	}

	if opts.Preview != nil {
		s.addLine(*opts.Preview)
	}
	return s
}

func (s *Scene) addLine(l Line) {
	s.Lines = append(s.Lines, l)
	s.Bounds.Extend(l.Start)
	s.Bounds.Extend(l.End)
}

// FeatureEdges returns the edges between triangles that are not coplanar,
// plus the border edges of open meshes. Tessellation diagonals are dropped.
func FeatureEdges(triangles []geometry.Triangle) [][2]geometry.Vector3 {
	type edge struct {
		a, b    geometry.Vector3
		normals []geometry.Vector3
	}
	var order []string
	edges := make(map[string]*edge)

	for _, t := range triangles {
		for _, e := range [3][2]geometry.Vector3{{t.V1, t.V2}, {t.V2, t.V3}, {t.V3, t.V1}} {
			ka, kb := e[0].Key(6), e[1].Key(6)
			if ka > kb {
				ka, kb = kb, ka
			}
			key := ka + "|" + kb
			if _, ok := edges[key]; !ok {
				edges[key] = &edge{a: e[0], b: e[1]}
				order = append(order, key)
			}
			edges[key].normals = append(edges[key].normals, t.Normal)
		}
	}

	var result [][2]geometry.Vector3
	for _, key := range order {
		e := edges[key]
		if len(e.normals) == 2 && e.normals[0].ApproxEqual(e.normals[1], 1e-9) {
			continue
		}
		result = append(result, [2]geometry.Vector3{e.a, e.b})
	}
	return result
}

// PickFace finds the sketch face hit by a ray. When several sketches are
// hit the closest wins.
func PickFace(view *kernel.View, origin, direction geometry.Vector3) (FaceRef, bool) {
	var best FaceRef
	bestT := math.Inf(1)
	found := false

	for _, name := range view.SketchNames() {
		sv := view.Sketches[name]
		hit, t, ok := IntersectPlane(origin, direction, sv.Frame)
		if !ok || t >= bestT {
			continue
		}
		p := sv.Frame.ToLocal(hit)
		for i, face := range sv.Faces {
			if faceContains(face, p) {
				best, bestT, found = FaceRef{Sketch: name, Face: i}, t, true
				break
			}
		}
	}
	return best, found
}

func faceContains(face kernel.Face, p geometry.Point2D) bool {
	if !geometry.PointInPolygon(p, face.Exterior.Points()) {
		return false
	}
	for _, hole := range face.Interiors {
		if geometry.PointInPolygon(p, hole.Points()) {
			return false
		}
	}
	return true
}

// NearestMarker returns the marker closest to a screen position within
// radius pixels
func NearestMarker(markers []Marker, project func(geometry.Vector3) (float64, float64), x, y, radius float64) (Marker, bool) {
	var best Marker
	bestDist := radius
	found := false
	for _, m := range markers {
		mx, my := project(m.Position)
		if d := math.Hypot(mx-x, my-y); d <= bestDist {
			best, bestDist, found = m, d, true
		}
	}
	return best, found
}
