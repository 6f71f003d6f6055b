package geometry

import "gonum.org/v1/gonum/mat"

// Frame is an orthonormal coordinate frame anchored at Origin. Sketches live
// in the XAxis/YAxis plane of a frame.
type Frame struct {
	Origin Vector3
	XAxis  Vector3
	YAxis  Vector3
	Normal Vector3
}

// NewFrame creates a frame from an origin and two in-plane axes. The normal
// is derived as XAxis x YAxis.
func NewFrame(origin, xAxis, yAxis Vector3) Frame {
	x := xAxis.Normalize()
	y := yAxis.Normalize()
	return Frame{
		Origin: origin,
		XAxis:  x,
		YAxis:  y,
		Normal: x.Cross(y).Normalize(),
	}
}

// ToWorld maps a sketch point to world coordinates
func (f Frame) ToWorld(p Point2D) Vector3 {
	return f.Origin.Add(f.XAxis.Mul(p.X)).Add(f.YAxis.Mul(p.Y))
}

// ToLocal projects a world point onto the frame plane and returns its
// sketch coordinates
func (f Frame) ToLocal(p Vector3) Point2D {
	d := p.Sub(f.Origin)
	var local mat.VecDense
	local.MulVec(f.RotationMatrix().T(), mat.NewVecDense(3, []float64{d.X, d.Y, d.Z}))
	return Point2D{X: local.AtVec(0), Y: local.AtVec(1)}
}

// RotationMatrix returns the 3x3 matrix whose columns are XAxis, YAxis and Normal
func (f Frame) RotationMatrix() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		f.XAxis.X, f.YAxis.X, f.Normal.X,
		f.XAxis.Y, f.YAxis.Y, f.Normal.Y,
		f.XAxis.Z, f.YAxis.Z, f.Normal.Z,
	})
}
