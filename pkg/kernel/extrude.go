package kernel

import (
	"fmt"
	"slices"

	"github.com/philipparndt/gocad/pkg/geometry"
)

// extrude sweeps the selected faces of a sketch along its plane normal
func extrude(name string, sketch SketchView, faceIndices []int, depth float64) (*Solid, error) {
	if depth <= 0 {
		return nil, fmt.Errorf("%w: extrude depth must be positive, got %g", ErrInvalidArgument, depth)
	}
	if len(faceIndices) == 0 {
		return nil, fmt.Errorf("%w: no faces selected", ErrInvalidArgument)
	}

	solid := &Solid{Name: name}
	offset := sketch.Frame.Normal.Mul(depth)
	for _, idx := range faceIndices {
		if idx < 0 || idx >= len(sketch.Faces) {
			return nil, fmt.Errorf("%w: face %d out of range, sketch has %d faces", ErrInvalidArgument, idx, len(sketch.Faces))
		}
		prism(&solid.mesh, sketch.Frame, sketch.Faces[idx], offset)
	}
	return solid, nil
}

func prism(m *Mesh, frame geometry.Frame, face Face, offset geometry.Vector3) {
	exterior := face.Exterior.Points()
	holes := make([][]geometry.Point2D, len(face.Interiors))
	for i, r := range face.Interiors {
		holes[i] = r.Points()
	}

	points, triangles := geometry.TriangulateWithHoles(exterior, holes)
	for _, tri := range triangles {
		a := frame.ToWorld(points[tri[0]])
		b := frame.ToWorld(points[tri[1]])
		c := frame.ToWorld(points[tri[2]])
		m.addTriangle(geometry.NewTriangle(frame.Normal.Neg(), a, c, b))
		m.addTriangle(geometry.NewTriangle(frame.Normal, a.Add(offset), b.Add(offset), c.Add(offset)))
	}

	walls(m, frame, exterior, offset)
	for _, hole := range holes {
		// Hole walls face inward
		reversed := slices.Clone(hole)
		slices.Reverse(reversed)
		walls(m, frame, reversed, offset)
	}
}

func walls(m *Mesh, frame geometry.Frame, ring []geometry.Point2D, offset geometry.Vector3) {
	for i := range ring {
		a0 := frame.ToWorld(ring[i])
		b0 := frame.ToWorld(ring[(i+1)%len(ring)])
		a1, b1 := a0.Add(offset), b0.Add(offset)
		m.addTriangle(geometry.NewTriangleFromVertices(a0, b0, b1))
		m.addTriangle(geometry.NewTriangleFromVertices(a0, b1, a1))
	}
}
