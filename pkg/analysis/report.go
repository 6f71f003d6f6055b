// Package analysis measures the solids of a view.
package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/philipparndt/gocad/pkg/geometry"
	"github.com/philipparndt/gocad/pkg/kernel"
	"github.com/philipparndt/gocad/pkg/stl"
)

// keyPlaces is the rounding used to identify shared vertices
const keyPlaces = 6

// EdgeInfo is an undirected mesh edge
type EdgeInfo struct {
	Start  geometry.Vector3
	End    geometry.Vector3
	Length float64
	Faces  int // Number of triangles using the edge
}

// Report contains the measurements of one solid
type Report struct {
	Name          string
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	Volume        float64
	SurfaceArea   float64
	TriangleCount int
	EdgeCount     int
	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64
	Edges         []EdgeInfo
}

// Closed reports whether every edge is shared by exactly two triangles
func (r *Report) Closed() bool {
	for _, e := range r.Edges {
		if e.Faces != 2 {
			return false
		}
	}
	return len(r.Edges) > 0
}

// AnalyzeView reports every solid of the view, ordered by name
func AnalyzeView(view *kernel.View) []*Report {
	reports := make([]*Report, 0, len(view.Solids))
	for _, name := range view.SolidNames() {
		reports = append(reports, Analyze(stl.FromSolid(view.Solids[name])))
	}
	return reports
}

// Analyze measures a triangle model
func Analyze(model *stl.Model) *Report {
	r := &Report{
		Name:          model.Name,
		BoundingBox:   model.BoundingBox(),
		Volume:        model.Volume(),
		SurfaceArea:   model.SurfaceArea(),
		TriangleCount: model.TriangleCount(),
	}
	r.Dimensions = r.BoundingBox.Size()

	index := make(map[string]int)
	for _, t := range model.Triangles {
		for _, e := range [3][2]geometry.Vector3{{t.V1, t.V2}, {t.V2, t.V3}, {t.V3, t.V1}} {
			key := edgeKey(e[0], e[1])
			if i, ok := index[key]; ok {
				r.Edges[i].Faces++
				continue
			}
			index[key] = len(r.Edges)
			r.Edges = append(r.Edges, EdgeInfo{Start: e[0], End: e[1], Length: e[0].Distance(e[1]), Faces: 1})
		}
	}

	r.EdgeCount = len(r.Edges)
	if r.EdgeCount == 0 {
		return r
	}
	r.MinEdgeLength = math.MaxFloat64
	total := 0.0
	for _, e := range r.Edges {
		total += e.Length
		r.MinEdgeLength = min(r.MinEdgeLength, e.Length)
		r.MaxEdgeLength = max(r.MaxEdgeLength, e.Length)
	}
	r.AvgEdgeLength = total / float64(r.EdgeCount)
	return r
}

func edgeKey(a, b geometry.Vector3) string {
	ka, kb := a.Key(keyPlaces), b.Key(keyPlaces)
	if ka > kb {
		ka, kb = kb, ka
	}
	return ka + "|" + kb
}

// FindLongestEdges returns the N longest edges
func FindLongestEdges(r *Report, count int) []EdgeInfo {
	edges := make([]EdgeInfo, len(r.Edges))
	copy(edges, r.Edges)

	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].Length > edges[j].Length
	})

	return edges[:min(count, len(edges))]
}

// FormatMeasurement formats a measurement with appropriate units
func FormatMeasurement(value float64, unit string) string {
	if unit == "" {
		unit = "units"
	}
	return fmt.Sprintf("%.6f %s", value, unit)
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
