package kernel

import (
	"fmt"
	"strings"

	"github.com/philipparndt/gocad/pkg/geometry"
)

// Mesh is an indexed triangle mesh. Every triangle owns its three vertices
// so normals stay flat.
type Mesh struct {
	Vertices []geometry.Vector3
	Normals  []geometry.Vector3
	Indices  []int
}

func (m *Mesh) addTriangle(t geometry.Triangle) {
	base := len(m.Vertices)
	m.Vertices = append(m.Vertices, t.V1, t.V2, t.V3)
	m.Normals = append(m.Normals, t.Normal, t.Normal, t.Normal)
	m.Indices = append(m.Indices, base, base+1, base+2)
}

// Triangles returns the mesh as a triangle list
func (m Mesh) Triangles() []geometry.Triangle {
	triangles := make([]geometry.Triangle, 0, len(m.Indices)/3)
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		triangles = append(triangles, geometry.NewTriangle(m.Normals[a], m.Vertices[a], m.Vertices[b], m.Vertices[c]))
	}
	return triangles
}

// Solid is the result of an extrusion
type Solid struct {
	Name string
	mesh Mesh
}

// Mesh returns the tessellated solid
func (s *Solid) Mesh() Mesh {
	return s.mesh
}

// ObjText encodes the solid as a Wavefront OBJ document
func (s *Solid) ObjText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# gocad solid\no %s\n", s.Name)
	for _, v := range s.mesh.Vertices {
		fmt.Fprintf(&b, "v %g %g %g\n", v.X, v.Y, v.Z)
	}
	for _, n := range s.mesh.Normals {
		fmt.Fprintf(&b, "vn %g %g %g\n", n.X, n.Y, n.Z)
	}
	// OBJ indices are 1-based
	for i := 0; i+2 < len(s.mesh.Indices); i += 3 {
		a, c, d := s.mesh.Indices[i]+1, s.mesh.Indices[i+1]+1, s.mesh.Indices[i+2]+1
		fmt.Fprintf(&b, "f %d//%d %d//%d %d//%d\n", a, a, c, c, d, d)
	}
	return b.String()
}

// StepText encodes the solid as an ISO 10303-21 faceted boundary
// representation
func (s *Solid) StepText() string {
	var body strings.Builder
	id := 0
	next := func(format string, args ...any) int {
		id++
		fmt.Fprintf(&body, "#%d=%s;\n", id, fmt.Sprintf(format, args...))
		return id
	}

	var faces []string
	for _, t := range s.mesh.Triangles() {
		var points []string
		for _, v := range []geometry.Vector3{t.V1, t.V2, t.V3} {
			p := next("CARTESIAN_POINT('',(%s,%s,%s))", stepReal(v.X), stepReal(v.Y), stepReal(v.Z))
			points = append(points, fmt.Sprintf("#%d", p))
		}
		loop := next("POLY_LOOP('',(%s))", strings.Join(points, ","))
		bound := next("FACE_OUTER_BOUND('',#%d,.T.)", loop)
		face := next("FACE('',(#%d))", bound)
		faces = append(faces, fmt.Sprintf("#%d", face))
	}
	shell := next("CLOSED_SHELL('',(%s))", strings.Join(faces, ","))
	next("FACETED_BREP('%s',#%d)", s.Name, shell)

	var b strings.Builder
	b.WriteString("ISO-10303-21;\nHEADER;\n")
	b.WriteString("FILE_DESCRIPTION(('gocad faceted solid'),'2;1');\n")
	fmt.Fprintf(&b, "FILE_NAME('%s.step','',(''),(''),'gocad','gocad','');\n", s.Name)
	b.WriteString("FILE_SCHEMA(('AUTOMOTIVE_DESIGN'));\nENDSEC;\nDATA;\n")
	b.WriteString(body.String())
	b.WriteString("ENDSEC;\nEND-ISO-10303-21;\n")
	return b.String()
}

// stepReal formats a float the way part 21 wants it: always with a dot
func stepReal(v float64) string {
	s := fmt.Sprintf("%g", v)
	if !strings.ContainsAny(s, ".eE") {
		s += "."
	}
	return s
}
