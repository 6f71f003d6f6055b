package viewer

import (
	"image"
	"image/color"
	"math"

	"github.com/philipparndt/gocad/pkg/geometry"
)

var (
	background  = color.RGBA{45, 48, 54, 255}
	solidColor  = color.RGBA{150, 170, 200, 255}
	markerColor = color.RGBA{255, 255, 255, 255}
	hoverColor  = color.RGBA{255, 80, 80, 255}
)

// lineDepthBias lets edges lying on a face win the depth test against it
const lineDepthBias = 0.01

// Render draws a scene as seen by the camera into a new image
func Render(scene Scene, camera *Camera, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if width <= 0 || height <= 0 {
		return img
	}
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = background.R, background.G, background.B, background.A
	}
	zbuffer := make([]float64, width*height)
	for i := range zbuffer {
		zbuffer[i] = math.Inf(1)
	}

	w, h := float64(width), float64(height)
	light := camera.Target.Sub(camera.Position).Normalize()
	for _, t := range scene.Triangles {
		x1, y1, z1 := camera.Project(t.V1, w, h)
		x2, y2, z2 := camera.Project(t.V2, w, h)
		x3, y3, z3 := camera.Project(t.V3, w, h)
		fillTriangleWithDepth(img, zbuffer, x1, y1, z1, x2, y2, z2, x3, y3, z3, shade(solidColor, t.Normal, light))
	}

	for _, l := range scene.Lines {
		x1, y1, z1 := camera.Project(l.Start, w, h)
		x2, y2, z2 := camera.Project(l.End, w, h)
		if !drawable(x1, y1, z1, w, h) || !drawable(x2, y2, z2, w, h) {
			continue
		}
		drawLineWithDepth(img, zbuffer, x1, y1, z1, x2, y2, z2, roleColors[l.Role])
	}

	for _, m := range scene.Markers {
		x, y, _ := camera.Project(m.Position, w, h)
		col, r := markerColor, 3.0
		if m.Hovered {
			col, r = hoverColor, 5.0
		}
		fillCircle(img, x, y, r, col)
	}
	return img
}

// drawable rejects points behind the camera or so far off screen that
// stepping to them would stall the frame
func drawable(x, y, z, w, h float64) bool {
	const margin = 8
	return z > 0.01 && math.Abs(x) < margin*w && math.Abs(y) < margin*h
}

// shade darkens a color by the angle between the face normal and the view
// direction. Back faces are lit like front faces.
func shade(c color.RGBA, normal, light geometry.Vector3) color.RGBA {
	f := 0.35 + 0.65*math.Abs(normal.Normalize().Dot(light))
	return color.RGBA{uint8(float64(c.R) * f), uint8(float64(c.G) * f), uint8(float64(c.B) * f), c.A}
}

// fillTriangleWithDepth fills a triangle with depth testing
func fillTriangleWithDepth(img *image.RGBA, zbuffer []float64, x1, y1, z1, x2, y2, z2, x3, y3, z3 float64, col color.RGBA) {
	vertices := [3][3]float64{
		{x1, y1, z1},
		{x2, y2, z2},
		{x3, y3, z3},
	}

	// Sort vertices by Y coordinate (top to bottom)
	if vertices[0][1] > vertices[1][1] {
		vertices[0], vertices[1] = vertices[1], vertices[0]
	}
	if vertices[1][1] > vertices[2][1] {
		vertices[1], vertices[2] = vertices[2], vertices[1]
	}
	if vertices[0][1] > vertices[1][1] {
		vertices[0], vertices[1] = vertices[1], vertices[0]
	}

	bounds := img.Bounds()
	width := bounds.Max.X
	yTop, yBottom := vertices[0][1], vertices[2][1]

	for y := int(math.Max(0, math.Ceil(yTop))); y <= int(math.Min(float64(bounds.Max.Y-1), yBottom)); y++ {
		fy := float64(y)

		// Intersect the scanline with every edge that spans it
		var xs, zs []float64
		for _, e := range [3][2]int{{0, 1}, {1, 2}, {0, 2}} {
			a, b := vertices[e[0]], vertices[e[1]]
			if a[1] == b[1] || fy < a[1] || fy > b[1] {
				continue
			}
			t := (fy - a[1]) / (b[1] - a[1])
			xs = append(xs, a[0]+t*(b[0]-a[0]))
			zs = append(zs, a[2]+t*(b[2]-a[2]))
		}
		if len(xs) < 2 {
			continue
		}

		xStart, xEnd, zStart, zEnd := xs[0], xs[1], zs[0], zs[1]
		if xStart > xEnd {
			xStart, xEnd = xEnd, xStart
			zStart, zEnd = zEnd, zStart
		}

		for x := int(math.Max(0, math.Ceil(xStart))); x <= int(math.Min(float64(width-1), xEnd)); x++ {
			t := 0.0
			if xEnd != xStart {
				t = (float64(x) - xStart) / (xEnd - xStart)
			}
			z := zStart + t*(zEnd-zStart)

			// Depth test - draw if closer (smaller z)
			idx := y*width + x
			if z < zbuffer[idx] {
				zbuffer[idx] = z
				img.SetRGBA(x, y, col)
			}
		}
	}
}

// drawLineWithDepth draws a line using Bresenham's algorithm. Pixels hidden
// behind filled triangles are skipped.
func drawLineWithDepth(img *image.RGBA, zbuffer []float64, fx1, fy1, z1, fx2, fy2, z2 float64, col color.RGBA) {
	bounds := img.Bounds()
	x1, y1, x2, y2 := int(math.Round(fx1)), int(math.Round(fy1)), int(math.Round(fx2)), int(math.Round(fy2))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	steps := max(dx, dy)

	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for step := 0; ; step++ {
		if x1 >= 0 && x1 < bounds.Max.X && y1 >= 0 && y1 < bounds.Max.Y {
			z := z1
			if steps > 0 {
				z = z1 + (z2-z1)*float64(step)/float64(steps)
			}
			idx := y1*bounds.Max.X + x1
			if z*(1-lineDepthBias) <= zbuffer[idx] {
				img.SetRGBA(x1, y1, col)
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// fillCircle draws a filled dot without depth testing
func fillCircle(img *image.RGBA, cx, cy, r float64, col color.RGBA) {
	bounds := img.Bounds()
	for y := int(math.Floor(cy - r)); y <= int(math.Ceil(cy+r)); y++ {
		for x := int(math.Floor(cx - r)); x <= int(math.Ceil(cx+r)); x++ {
			if !(image.Point{X: x, Y: y}.In(bounds)) {
				continue
			}
			if math.Hypot(float64(x)-cx, float64(y)-cy) <= r {
				img.SetRGBA(x, y, col)
			}
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
