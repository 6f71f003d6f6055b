package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/philipparndt/gocad/internal/app"
	"github.com/philipparndt/gocad/internal/config"
	"github.com/philipparndt/gocad/internal/editor"
	"github.com/philipparndt/gocad/internal/logging"
	"github.com/philipparndt/gocad/internal/selection"
	"github.com/philipparndt/gocad/pkg/geometry"
	"github.com/philipparndt/gocad/pkg/kernel"
	"github.com/philipparndt/gocad/pkg/viewer"
	"github.com/philipparndt/gocad/pkg/watcher"
	"github.com/philipparndt/gocad/version"
)

// GUI holds the window and the widgets mirroring the controller state
type GUI struct {
	window   fyne.Window
	cfg      config.Config
	logs     logging.FileLogger
	ctl      *app.App
	renderer *viewer.ViewRenderer

	steps     []kernel.Step
	stepList  *widget.List
	formBox   *fyne.Container
	formStep  string
	faces     *widget.Entry
	facesText string
	lineTool  *widget.Button
	modeLabel *widget.Label
	status    *widget.Label
}

func main() {
	cfg, err := config.Load(os.Getenv("GOCAD_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	logs, err := logging.NewFileLogger(cfg.Log.Dir, cfg.Log.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logs.Close()

	a := fyneapp.New()
	w := a.NewWindow("gocad " + version.GetVersion())

	g := &GUI{window: w, cfg: cfg, logs: logs}
	if err := g.reset(); err != nil {
		fmt.Fprintf(os.Stderr, "Error opening project: %v\n", err)
		os.Exit(1)
	}
	g.setupMainUI()

	if len(os.Args) > 1 {
		g.replay(os.Args[1])
		g.watchScript(os.Args[1])
	}

	w.Resize(fyne.NewSize(1200, 800))
	w.ShowAndRun()
}

// reset opens a fresh project
func (g *GUI) reset() error {
	project := kernel.NewProject(g.cfg.Project.Name)
	if g.cfg.Project.Empty {
		project = kernel.NewEmptyProject(g.cfg.Project.Name)
	}
	ctl, err := app.New(project, app.Options{
		Workbench:     g.cfg.Project.Workbench,
		SnapPrecision: g.cfg.Sketch.SnapPrecision,
	}, g.logs.Logger)
	if err != nil {
		return err
	}
	g.ctl = ctl
	g.formStep = ""
	return nil
}

func (g *GUI) setupMainUI() {
	g.renderer = viewer.NewViewRenderer(g.ctl.View())
	g.renderer.SetOnMove(func(p geometry.Vector3) {
		g.handle(app.Event{Type: app.EventMove, Point: p})
	})
	g.renderer.SetOnHover(func(id string, enter bool) {
		typ := app.EventHoverOut
		if enter {
			typ = app.EventHoverEnter
		}
		g.handle(app.Event{Type: typ, Vertex: id})
	})
	g.renderer.SetOnClick(func() {
		g.handle(app.Event{Type: app.EventClick})
	})
	g.renderer.SetOnFacePick(func(ref viewer.FaceRef) {
		g.handle(app.Event{Type: app.EventToggleFace, Sketch: ref.Sketch, Face: ref.Face})
	})

	g.stepList = widget.NewList(
		func() int { return len(g.steps) },
		func() fyne.CanvasObject { return widget.NewLabel("Extrude1 (extrude)") },
		func(id widget.ListItemID, o fyne.CanvasObject) {
			step := g.steps[id]
			label := fmt.Sprintf("%s (%s)", step.Name(), step.Kind())
			if msg, failed := g.ctl.View().Errors[step.Name()]; failed {
				label += " ! " + msg
			}
			o.(*widget.Label).SetText(label)
		},
	)
	g.stepList.OnSelected = func(id widget.ListItemID) {
		g.handle(app.Event{Type: app.EventDoubleClick, Step: g.steps[id].Name()})
		g.stepList.UnselectAll()
	}

	g.lineTool = widget.NewButton("Line", func() {
		g.handle(app.Event{Type: app.EventTool, Tool: app.ToolLine})
	})
	fitButton := widget.NewButton("Fit", func() { g.renderer.FitView() })
	resetButton := widget.NewButton("Reset", func() {
		if err := g.reset(); err != nil {
			dialog.ShowError(err, g.window)
			return
		}
		g.refresh()
	})
	g.modeLabel = widget.NewLabel("")
	g.status = widget.NewLabel("")
	g.status.Wrapping = fyne.TextWrapWord
	g.formBox = container.NewVBox()

	toolbar := container.NewHBox(g.lineTool, fitButton, resetButton, g.modeLabel)
	side := container.NewBorder(widget.NewLabelWithStyle("History", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}), g.formBox, nil, nil, g.stepList)
	split := container.NewHSplit(side, g.renderer)
	split.SetOffset(0.25)

	g.window.SetContent(container.NewBorder(toolbar, g.status, nil, nil, split))
	g.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			g.handle(app.Event{Type: app.EventKey, Key: app.KeyEscape})
		}
	})
	g.refresh()
}

// handle dispatches an event and brings the widgets up to date
func (g *GUI) handle(ev app.Event) {
	_ = g.ctl.Handle(ev)
	g.refresh()
}

func (g *GUI) refresh() {
	view := g.ctl.View()
	if steps, err := g.ctl.History().Steps(); err == nil {
		g.steps = steps
	}
	g.stepList.Refresh()

	g.renderer.SetView(view)
	if g.ctl.Mode() == app.ModeSketch {
		g.renderer.SetSketchMode(g.ctl.ActiveSketch())
		g.renderer.SetMarkers(g.sketchMarkers())
	} else {
		g.renderer.SetSketchMode("")
	}
	g.renderer.SetSelected(g.selectedFaces())

	g.modeLabel.SetText(fmt.Sprintf("Mode: %s  Tool: %s", g.ctl.Mode(), toolName(g.ctl.Tool())))
	if g.ctl.Tool() == app.ToolLine {
		g.lineTool.Importance = widget.HighImportance
	} else {
		g.lineTool.Importance = widget.MediumImportance
	}
	g.lineTool.Refresh()

	if err := g.ctl.LastError(); err != nil {
		g.status.SetText("Error: " + err.Error())
	} else {
		g.status.SetText(fmt.Sprintf("%d solids, %d failed steps", len(view.Solids), len(view.Errors)))
	}
	g.updateForm()
	g.syncFaces()
}

// syncFaces shows the selection in the faces field. Text the user is typing
// is only replaced once the selection itself changes.
func (g *GUI) syncFaces() {
	if g.faces == nil {
		return
	}
	text := joinFaces(g.ctl.Selection().Selected())
	if text == g.facesText {
		return
	}
	g.facesText = text
	g.faces.SetText(text)
}

func (g *GUI) sketchMarkers() ([]viewer.Marker, *viewer.Line) {
	s := g.ctl.Session(g.ctl.ActiveSketch())
	snappedTo, _ := s.SnappedTo()

	var markers []viewer.Marker
	for _, t := range s.Targets() {
		markers = append(markers, viewer.Marker{ID: t.ID, Position: t.World, Hovered: t.ID == snappedTo})
	}

	var preview *viewer.Line
	if q := s.Queue(); len(q) == 2 {
		preview = &viewer.Line{Start: q[0].World, End: q[1].World, Role: viewer.RolePreview}
	}
	return markers, preview
}

func (g *GUI) selectedFaces() []viewer.FaceRef {
	sketch := ""
	if req, ok := g.ctl.Selection().Active(); ok {
		sketch = req.SketchName
	} else if form, ok := g.ctl.Editor().Form(); ok {
		sketch = form.Sketch
	}
	if sketch == "" {
		return nil
	}

	var refs []viewer.FaceRef
	for _, o := range g.ctl.Selection().Selected() {
		if face, err := strconv.Atoi(o.Value); err == nil {
			refs = append(refs, viewer.FaceRef{Sketch: sketch, Face: face})
		}
	}
	return refs
}

// updateForm rebuilds the parameter form when attention moves to another step
func (g *GUI) updateForm() {
	form, ok := g.ctl.Editor().Form()
	step := ""
	if ok {
		step = form.Step
	}
	if step == g.formStep {
		return
	}
	g.formStep = step
	g.formBox.RemoveAll()
	g.faces = nil
	g.facesText = ""
	if !ok {
		return
	}

	items := []*widget.FormItem{}
	for _, f := range form.Fields {
		switch f.Kind {
		case editor.Number:
			entry := widget.NewEntry()
			entry.SetText(strconv.FormatFloat(f.Value, 'g', -1, 64))
			name := f.Name
			entry.OnChanged = func(text string) {
				if v, err := strconv.ParseFloat(text, 64); err == nil {
					g.handle(app.Event{Type: app.EventSet, Name: name, Value: v})
				}
			}
			items = append(items, widget.NewFormItem(f.Name, entry))
		case editor.Faces:
			g.faces = widget.NewEntry()
			g.faces.SetPlaceHolder("0, 2")
			g.faces.OnSubmitted = func(text string) {
				g.handle(app.Event{Type: app.EventSetFaces, Faces: faceValues(text)})
			}
			pick := widget.NewButton("Pick faces", func() {
				g.handle(app.Event{Type: app.EventFocusFaces})
			})
			done := widget.NewButton("Done", func() {
				g.handle(app.Event{Type: app.EventBlurFaces})
			})
			items = append(items, widget.NewFormItem(f.Name, container.NewBorder(nil, nil, nil, container.NewHBox(pick, done), g.faces)))
		}
	}

	title := widget.NewLabelWithStyle(fmt.Sprintf("%s (%s)", form.Step, form.Kind), fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	save := widget.NewButton("Save", func() { g.handle(app.Event{Type: app.EventSave}) })
	save.Importance = widget.HighImportance
	cancel := widget.NewButton("Cancel", func() { g.handle(app.Event{Type: app.EventCancel}) })

	g.formBox.Add(title)
	if len(items) > 0 {
		g.formBox.Add(widget.NewForm(items...))
	}
	g.formBox.Add(container.NewHBox(save, cancel))
}

// replay runs a script against a fresh project
func (g *GUI) replay(path string) {
	script, err := app.LoadScript(path)
	if err == nil {
		err = g.reset()
	}
	if err != nil {
		dialog.ShowError(err, g.window)
		return
	}
	if failures := g.ctl.Replay(script); len(failures) > 0 {
		dialog.ShowError(fmt.Errorf("%d events failed, first: %w", len(failures), failures[0]), g.window)
	}
	g.refresh()
	g.renderer.FitView()
}

// watchScript replays the script whenever it changes on disk
func (g *GUI) watchScript(path string) {
	fw, err := watcher.NewFileWatcher(g.cfg.Watch.Debounce, g.logs.Logger)
	if err == nil {
		err = fw.Watch([]string{path}, func(string) {
			fyne.Do(func() { g.replay(path) })
		})
	}
	if err != nil {
		dialog.ShowError(fmt.Errorf("watch %s: %w", path, err), g.window)
		return
	}
	fw.Start()
	g.window.SetOnClosed(func() { _ = fw.Close() })
}

// faceValues splits a face list typed as "0, 2" or "0 2"
func faceValues(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

func joinFaces(options []selection.Option) string {
	values := make([]string, len(options))
	for i, o := range options {
		values[i] = o.Value
	}
	return strings.Join(values, ", ")
}

func toolName(t app.Tool) string {
	if t == app.ToolNone {
		return "none"
	}
	return string(t)
}
