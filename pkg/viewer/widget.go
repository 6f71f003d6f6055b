// Package viewer draws evaluated views and turns pointer input into
// viewport interactions.
package viewer

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/philipparndt/gocad/pkg/geometry"
	"github.com/philipparndt/gocad/pkg/kernel"
)

// hoverRadius is how close, in pixels, the pointer has to be to a marker
const hoverRadius = 8

// ViewRenderer shows a view and reports pointer interaction. In sketch mode
// pointer positions are projected onto the sketch plane, otherwise taps
// pick sketch faces.
type ViewRenderer struct {
	widget.BaseWidget

	view   *kernel.View
	camera *Camera
	raster *canvas.Raster
	opts   SceneOptions
	frame  *geometry.Frame // Sketch plane in sketch mode

	dragStart  *fyne.Position
	isDragging bool

	onMove     func(world geometry.Vector3)
	onHover    func(id string, enter bool)
	onClick    func()
	onFacePick func(FaceRef)
}

// NewViewRenderer creates a renderer showing the given view
func NewViewRenderer(view *kernel.View) *ViewRenderer {
	r := &ViewRenderer{view: view}
	r.camera = NewCamera(BuildScene(view, r.opts).Bounds)
	r.raster = canvas.NewRaster(r.draw)
	r.ExtendBaseWidget(r)
	return r
}

func (r *ViewRenderer) SetOnMove(fn func(world geometry.Vector3)) { r.onMove = fn }
func (r *ViewRenderer) SetOnHover(fn func(id string, enter bool)) { r.onHover = fn }
func (r *ViewRenderer) SetOnClick(fn func())                      { r.onClick = fn }
func (r *ViewRenderer) SetOnFacePick(fn func(FaceRef))            { r.onFacePick = fn }

// SetView replaces the displayed view
func (r *ViewRenderer) SetView(view *kernel.View) {
	r.view = view
	r.Refresh()
}

// SetSketchMode turns sketch mode on for a sketch of the current view, or
// off when name is empty
func (r *ViewRenderer) SetSketchMode(name string) {
	entering := name != r.opts.ActiveSketch
	r.opts.ActiveSketch = name
	r.frame = nil
	if sv, ok := r.view.Sketches[name]; ok && name != "" {
		frame := sv.Frame
		r.frame = &frame
		if entering {
			r.camera.LookAlong(frame.Normal)
		}
	} else {
		r.opts.Markers = nil
		r.opts.Preview = nil
	}
	r.Refresh()
}

// SetMarkers sets the snap targets and the line tool preview
func (r *ViewRenderer) SetMarkers(markers []Marker, preview *Line) {
	r.opts.Markers = markers
	r.opts.Preview = preview
	r.Refresh()
}

// SetSelected highlights sketch faces
func (r *ViewRenderer) SetSelected(faces []FaceRef) {
	r.opts.Selected = faces
	r.Refresh()
}

// FitView centers the camera on everything shown
func (r *ViewRenderer) FitView() {
	r.camera.Fit(BuildScene(r.view, r.opts).Bounds)
	r.Refresh()
}

func (r *ViewRenderer) draw(w, h int) image.Image {
	return Render(BuildScene(r.view, r.opts), r.camera, w, h)
}

func (r *ViewRenderer) project(p geometry.Vector3) (float64, float64) {
	size := r.Size()
	x, y, _ := r.camera.Project(p, float64(size.Width), float64(size.Height))
	return x, y
}

// planePoint projects a pointer position onto the sketch plane
func (r *ViewRenderer) planePoint(pos fyne.Position) (geometry.Vector3, bool) {
	if r.frame == nil {
		return geometry.Vector3{}, false
	}
	size := r.Size()
	origin, dir := r.camera.Unproject(float64(pos.X), float64(pos.Y), float64(size.Width), float64(size.Height))
	p, _, ok := IntersectPlane(origin, dir, *r.frame)
	return p, ok
}

func (r *ViewRenderer) hovered() (string, bool) {
	for _, m := range r.opts.Markers {
		if m.Hovered {
			return m.ID, true
		}
	}
	return "", false
}

// MouseIn implements desktop.Hoverable
func (r *ViewRenderer) MouseIn(event *desktop.MouseEvent) {
	r.MouseMoved(event)
}

// MouseMoved reports plane positions and marker hover changes
func (r *ViewRenderer) MouseMoved(event *desktop.MouseEvent) {
	if r.frame == nil {
		return
	}
	prev, wasHovering := r.hovered()
	m, hovering := NearestMarker(r.opts.Markers, r.project, float64(event.Position.X), float64(event.Position.Y), hoverRadius)

	if wasHovering && (!hovering || m.ID != prev) && r.onHover != nil {
		r.onHover(prev, false)
	}
	if hovering && (!wasHovering || m.ID != prev) && r.onHover != nil {
		r.onHover(m.ID, true)
	}
	if !hovering {
		if p, ok := r.planePoint(event.Position); ok && r.onMove != nil {
			r.onMove(p)
		}
	}
}

// MouseOut implements desktop.Hoverable
func (r *ViewRenderer) MouseOut() {
	if id, ok := r.hovered(); ok && r.onHover != nil {
		r.onHover(id, false)
	}
}

// Tapped clicks in sketch mode and picks a face otherwise
func (r *ViewRenderer) Tapped(event *fyne.PointEvent) {
	if r.isDragging {
		return
	}
	if r.frame != nil {
		if r.onClick != nil {
			r.onClick()
		}
		return
	}

	size := r.Size()
	origin, dir := r.camera.Unproject(float64(event.Position.X), float64(event.Position.Y), float64(size.Width), float64(size.Height))
	if ref, ok := PickFace(r.view, origin, dir); ok && r.onFacePick != nil {
		r.onFacePick(ref)
	}
}

// Dragged orbits the camera
func (r *ViewRenderer) Dragged(event *fyne.DragEvent) {
	if r.dragStart != nil {
		deltaX := event.Position.X - r.dragStart.X
		deltaY := event.Position.Y - r.dragStart.Y

		r.camera.Rotate(float64(deltaY)*0.01, float64(-deltaX)*0.01)
		r.Refresh()
	}
	r.dragStart = &event.Position
	r.isDragging = true
}

// DragEnd handles the end of a drag event
func (r *ViewRenderer) DragEnd() {
	r.dragStart = nil
	r.isDragging = false
}

// Scrolled handles scroll events for zooming
func (r *ViewRenderer) Scrolled(event *fyne.ScrollEvent) {
	r.camera.Zoom(-float64(event.Scrolled.DY) * 0.001)
	r.Refresh()
}

// CreateRenderer creates the renderer for the widget
func (r *ViewRenderer) CreateRenderer() fyne.WidgetRenderer {
	return &viewWidgetRenderer{renderer: r}
}

// viewWidgetRenderer implements fyne.WidgetRenderer
type viewWidgetRenderer struct {
	renderer *ViewRenderer
}

func (v *viewWidgetRenderer) Layout(size fyne.Size) {
	v.renderer.raster.Resize(size)
}

func (v *viewWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 400)
}

func (v *viewWidgetRenderer) Refresh() {
	v.renderer.raster.Refresh()
}

func (v *viewWidgetRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{v.renderer.raster}
}

func (v *viewWidgetRenderer) Destroy() {}
