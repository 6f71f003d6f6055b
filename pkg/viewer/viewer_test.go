package viewer

import (
	"math"
	"testing"

	"github.com/philipparndt/gocad/pkg/geometry"
	"github.com/philipparndt/gocad/pkg/kernel"
)

const tolerance = 1e-9

func fullView(t *testing.T) *kernel.View {
	t.Helper()
	view, err := kernel.NewProject("test").CreateView(kernel.DefaultWorkbench, math.MaxInt)
	if err != nil {
		t.Fatalf("CreateView() error = %v", err)
	}
	return view
}

func TestCameraProjectsTargetToCenter(t *testing.T) {
	bbox := geometry.NewBoundingBox()
	bbox.Extend(geometry.NewVector3(0, 0, 0))
	bbox.Extend(geometry.NewVector3(40, 40, 25))
	c := NewCamera(bbox)

	x, y, z := c.Project(c.Target, 800, 600)
	if math.Abs(x-400) > tolerance || math.Abs(y-300) > tolerance {
		t.Errorf("Project(target) = (%v, %v), want (400, 300)", x, y)
	}
	if math.Abs(z-c.Distance) > 1e-6 {
		t.Errorf("depth = %v, want %v", z, c.Distance)
	}

	origin, dir := c.Unproject(400, 300, 800, 600)
	if origin != c.Position {
		t.Errorf("ray origin = %v, want camera position", origin)
	}
	want := c.Target.Sub(c.Position).Normalize()
	if !dir.ApproxEqual(want, 1e-9) {
		t.Errorf("ray direction = %v, want %v", dir, want)
	}
}

func TestCameraLookAlong(t *testing.T) {
	c := NewCamera(geometry.NewBoundingBox())
	c.LookAlong(geometry.NewVector3(0, 1, 0))

	offset := c.Position.Sub(c.Target).Normalize()
	if !offset.ApproxEqual(geometry.NewVector3(0, 1, 0), 1e-9) {
		t.Errorf("camera offset = %v, want +Y", offset)
	}

	c.Rotate(10, 0)
	if c.Pitch > maxPitch {
		t.Errorf("Pitch = %v, exceeds %v", c.Pitch, maxPitch)
	}
}

func TestIntersectPlane(t *testing.T) {
	top := geometry.NewFrame(geometry.Vector3{}, geometry.NewVector3(1, 0, 0), geometry.NewVector3(0, 1, 0))

	p, dist, ok := IntersectPlane(geometry.NewVector3(3, 4, 10), geometry.NewVector3(0, 0, -1), top)
	if !ok || p != geometry.NewVector3(3, 4, 0) || dist != 10 {
		t.Errorf("IntersectPlane() = %v, %v, %v", p, dist, ok)
	}

	if _, _, ok := IntersectPlane(geometry.NewVector3(0, 0, 10), geometry.NewVector3(1, 0, 0), top); ok {
		t.Error("parallel ray should miss")
	}
	if _, _, ok := IntersectPlane(geometry.NewVector3(0, 0, 10), geometry.NewVector3(0, 0, 1), top); ok {
		t.Error("ray pointing away should miss")
	}
}

func TestFeatureEdgesDropDiagonals(t *testing.T) {
	view := fullView(t)
	edges := FeatureEdges(view.Solids["Extrude1"].Mesh().Triangles())
	if len(edges) != 12 {
		t.Errorf("len(FeatureEdges) = %d, want 12", len(edges))
	}
}

func TestBuildScene(t *testing.T) {
	view := fullView(t)
	scene := BuildScene(view, SceneOptions{
		ActiveSketch: "Sketch1",
		Selected:     []FaceRef{{Sketch: "Sketch1", Face: 0}},
	})

	count := make(map[Role]int)
	for _, l := range scene.Lines {
		count[l.Role]++
	}
	want := map[Role]int{RolePlane: 12, RoleActiveSketch: 4, RoleSelectedFace: 4, RoleSolidEdge: 12}
	for role, n := range want {
		if count[role] != n {
			t.Errorf("lines with role %d = %d, want %d", role, count[role], n)
		}
	}
	if len(scene.Triangles) != 12 {
		t.Errorf("len(Triangles) = %d, want 12", len(scene.Triangles))
	}
	if scene.Bounds.Max.Z != 25 {
		t.Errorf("Bounds.Max.Z = %v, want 25", scene.Bounds.Max.Z)
	}
}

func TestPickFace(t *testing.T) {
	view := fullView(t)
	down := geometry.NewVector3(0, 0, -1)

	ref, ok := PickFace(view, geometry.NewVector3(20, 20, 100), down)
	if !ok || ref != (FaceRef{Sketch: "Sketch1", Face: 0}) {
		t.Errorf("PickFace(inside) = %v, %v", ref, ok)
	}

	if _, ok := PickFace(view, geometry.NewVector3(60, 20, 100), down); ok {
		t.Error("PickFace(outside) should miss")
	}
}

func TestNearestMarker(t *testing.T) {
	markers := []Marker{
		{ID: "a", Position: geometry.NewVector3(0, 0, 0)},
		{ID: "b", Position: geometry.NewVector3(5, 0, 0)},
	}
	project := func(p geometry.Vector3) (float64, float64) { return p.X, p.Y }

	m, ok := NearestMarker(markers, project, 4, 1, 3)
	if !ok || m.ID != "b" {
		t.Errorf("NearestMarker() = %v, %v, want b", m.ID, ok)
	}
	if _, ok := NearestMarker(markers, project, 20, 20, 3); ok {
		t.Error("NearestMarker() far away should miss")
	}
}

func TestRender(t *testing.T) {
	scene := BuildScene(fullView(t), SceneOptions{})
	img := Render(scene, NewCamera(scene.Bounds), 200, 150)

	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 150 {
		t.Fatalf("image size = %v", b)
	}
	if img.RGBAAt(0, 0) != background {
		t.Errorf("corner = %v, want background", img.RGBAAt(0, 0))
	}
	if img.RGBAAt(100, 75) == background {
		t.Error("center pixel should show the solid")
	}
}
