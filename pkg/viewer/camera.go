package viewer

import (
	"math"

	"github.com/philipparndt/gocad/pkg/geometry"
)

const (
	defaultDistance = 150.0
	maxPitch        = math.Pi/2 - 0.1
)

// Camera orbits a target point. Z is up.
type Camera struct {
	Position geometry.Vector3
	Target   geometry.Vector3
	Up       geometry.Vector3
	FOV      float64 // Field of view in radians
	Distance float64
	Pitch    float64 // Elevation above the XY plane
	Yaw      float64 // Rotation around Z
}

// NewCamera creates a camera looking at a bounding box from the front right
func NewCamera(bbox geometry.BoundingBox) *Camera {
	c := &Camera{
		Up:    geometry.NewVector3(0, 0, 1),
		FOV:   math.Pi / 4,
		Pitch: math.Pi / 6,
		Yaw:   -math.Pi / 4,
	}
	c.Fit(bbox)
	return c
}

// Fit centers the camera on a bounding box and keeps the orientation
func (c *Camera) Fit(bbox geometry.BoundingBox) {
	if bbox.IsEmpty() {
		c.Target = geometry.Vector3{}
		c.Distance = defaultDistance
	} else {
		size := bbox.Size()
		c.Target = bbox.Center()
		c.Distance = math.Max(size.X, math.Max(size.Y, size.Z)) * 2.5
		if c.Distance < 1 {
			c.Distance = defaultDistance
		}
	}
	c.UpdatePosition()
}

// LookAlong turns the camera so it looks against the given normal, as used
// to face a sketch plane
func (c *Camera) LookAlong(normal geometry.Vector3) {
	n := normal.Normalize()
	c.Pitch = clamp(math.Asin(n.Z), -maxPitch, maxPitch)
	c.Yaw = math.Atan2(n.X, -n.Y)
	c.UpdatePosition()
}

// UpdatePosition updates camera position based on rotation angles
func (c *Camera) UpdatePosition() {
	x := c.Distance * math.Cos(c.Pitch) * math.Sin(c.Yaw)
	y := -c.Distance * math.Cos(c.Pitch) * math.Cos(c.Yaw)
	z := c.Distance * math.Sin(c.Pitch)

	c.Position = c.Target.Add(geometry.NewVector3(x, y, z))
}

// Rotate rotates the camera by the given angles
func (c *Camera) Rotate(deltaPitch, deltaYaw float64) {
	c.Pitch = clamp(c.Pitch+deltaPitch, -maxPitch, maxPitch)
	c.Yaw += deltaYaw
	c.UpdatePosition()
}

// Zoom changes the camera distance
func (c *Camera) Zoom(delta float64) {
	c.Distance = math.Max(0.1, c.Distance*(1.0+delta))
	c.UpdatePosition()
}

func (c *Camera) basis() (forward, right, up geometry.Vector3) {
	forward = c.Target.Sub(c.Position).Normalize()
	right = forward.Cross(c.Up).Normalize()
	up = right.Cross(forward).Normalize()
	return forward, right, up
}

// Project projects a 3D point to 2D screen coordinates. The third value is
// the depth along the view direction.
func (c *Camera) Project(point geometry.Vector3, width, height float64) (float64, float64, float64) {
	forward, right, up := c.basis()

	relative := point.Sub(c.Position)
	x := relative.Dot(right)
	y := relative.Dot(up)
	z := math.Max(relative.Dot(forward), 0.01)

	aspect := width / height
	fovScale := math.Tan(c.FOV / 2)

	screenX := (x/(z*fovScale*aspect))*(width/2) + (width / 2)
	screenY := (-y/(z*fovScale))*(height/2) + (height / 2)

	return screenX, screenY, z
}

// Unproject converts 2D screen coordinates back to a world space ray
func (c *Camera) Unproject(screenX, screenY, width, height float64) (origin, direction geometry.Vector3) {
	ndcX := (2.0 * screenX / width) - 1.0
	ndcY := 1.0 - (2.0 * screenY / height)

	aspect := width / height
	fovScale := math.Tan(c.FOV / 2)
	forward, right, up := c.basis()

	direction = forward.Add(right.Mul(ndcX * fovScale * aspect)).Add(up.Mul(ndcY * fovScale))
	return c.Position, direction.Normalize()
}

// IntersectPlane returns where a ray hits the plane of a frame and the ray
// parameter of the hit. Rays parallel to the plane or pointing away from it
// miss.
func IntersectPlane(origin, direction geometry.Vector3, frame geometry.Frame) (geometry.Vector3, float64, bool) {
	denom := direction.Dot(frame.Normal)
	if math.Abs(denom) < 1e-9 {
		return geometry.Vector3{}, 0, false
	}
	t := frame.Origin.Sub(origin).Dot(frame.Normal) / denom
	if t < 0 {
		return geometry.Vector3{}, 0, false
	}
	return origin.Add(direction.Mul(t)), t, true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
