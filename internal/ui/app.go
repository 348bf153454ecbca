// Package ui provides the FilletCorners desktop panel.
package ui

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/FilletCorners/internal/document"
	"github.com/piwi3910/FilletCorners/internal/engine"
	"github.com/piwi3910/FilletCorners/internal/logging"
	"github.com/piwi3910/FilletCorners/internal/model"
	"github.com/piwi3910/FilletCorners/internal/project"
	"github.com/piwi3910/FilletCorners/internal/ui/widgets"
)

// maxRecentFiles bounds AppConfig.RecentFiles.
const maxRecentFiles = 10

// App holds all application state and UI references.
type App struct {
	app        fyne.App
	window     fyne.Window
	config     model.AppConfig
	configPath string

	doc       *document.Document
	docPath   string
	lastTally *engine.Tally

	// busy is set while a fillet run owns the document. Actions that change
	// the document or replace it are ignored until the run reports back.
	busy bool

	// UI references for dynamic updates
	radiusEntry *widget.Entry
	deleteCheck *widget.Check
	filletBtn   *widget.Button
	selectBtns  []*widget.Button
	preview     *widgets.WireframeView
	status      *widget.Label
	recentMenu  *fyne.Menu
}

// NewApp creates the application state with an empty document.
func NewApp(app fyne.App, window fyne.Window, config model.AppConfig, configPath string) *App {
	a := &App{
		app:        app,
		window:     window,
		config:     config,
		configPath: configPath,
	}
	a.doc = a.newDocument("Untitled")
	return a
}

func (a *App) newDocument(name string) *document.Document {
	doc := document.New(name)
	doc.SetUnits(a.config.Units)
	doc.SetCurveFacets(a.config.CurveFacets)
	return doc
}

// Document returns the document being edited.
func (a *App) Document() *document.Document { return a.doc }

// SetupMenus creates the native menu bar and keyboard shortcuts.
func (a *App) SetupMenus() {
	a.recentMenu = fyne.NewMenu("Open Recent")
	a.refreshRecentMenu()
	recentItem := fyne.NewMenuItem("Open Recent", nil)
	recentItem.ChildMenu = a.recentMenu

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New", func() {
			if a.busy {
				return
			}
			a.setDocument(a.newDocument("Untitled"), "")
		}),
		fyne.NewMenuItem("Open...", a.openFile),
		recentItem,
		fyne.NewMenuItem("Save Project...", a.saveProject),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export DXF...", a.exportDXF),
		fyne.NewMenuItem("Export PDF Report...", a.exportPDF),
		fyne.NewMenuItem("Export Excel Report...", a.exportExcel),
		fyne.NewMenuItem("Export GCode...", a.exportGCode),
		fyne.NewMenuItem("Export PNG...", a.exportPNG),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", a.undo),
		fyne.NewMenuItem("Redo", a.redo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Select All Vertices", func() { a.selectAll(model.KindVertex) }),
		fyne.NewMenuItem("Select All Edges", func() { a.selectAll(model.KindEdge) }),
		fyne.NewMenuItem("Select All Faces", func() { a.selectAll(model.KindFace) }),
		fyne.NewMenuItem("Clear Selection", a.clearSelection),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Fillet Corners", a.runFillet),
		fyne.NewMenuItem("Compare Radii...", a.showCompareRadii),
		fyne.NewMenuItem("Preview GCode...", a.previewGCode),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", a.showAboutDialog),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, toolsMenu, helpMenu))

	c := a.window.Canvas()
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) { a.undo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault | fyne.KeyModifierShift}, func(fyne.Shortcut) { a.redo() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) { a.openFile() })
	c.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) { a.saveProject() })
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About FilletCorners",
		"FilletCorners - Fillet 2D Corners\n\n"+
			"Rounds the corners of a wireframe with tangent arcs\n"+
			"and exports the result to DXF, PDF, Excel and GCode.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	a.preview = widgets.NewWireframeView(a.doc, 640, 480)
	a.preview.OnSelectionChanged = a.updateStatus
	a.status = widget.NewLabel("")
	a.updateStatus()

	split := container.NewHSplit(
		container.NewVScroll(a.buildFilletPanel()),
		container.NewBorder(nil, a.status, nil, nil, a.preview),
	)
	split.Offset = 0.28
	return split
}

// setDocument switches the editor to doc, loaded from path.
func (a *App) setDocument(doc *document.Document, path string) {
	a.doc = doc
	a.docPath = path
	a.lastTally = nil
	if a.preview != nil {
		a.preview.SetDocument(doc)
	}
	a.window.SetTitle(fmt.Sprintf("FilletCorners - %s", doc.Name()))
	a.updateStatus()
}

// refresh redraws the preview and status after a document change.
func (a *App) refresh() {
	if a.preview != nil {
		a.preview.Refresh()
	}
	a.updateStatus()
}

func (a *App) updateStatus() {
	if a.status == nil {
		return
	}
	sel, _ := a.doc.Selection(context.Background())
	a.status.SetText(statusText(a.doc, len(sel)))
}

func statusText(doc *document.Document, selected int) string {
	return fmt.Sprintf("%d vertices, %d edges, %d faces, %d arcs | %d selected | %s",
		len(doc.VertexList()), len(doc.EdgeList()), len(doc.FaceList()), len(doc.CurveList()),
		selected, doc.Units())
}

func (a *App) selectAll(kind model.ObjectKind) {
	if a.busy {
		return
	}
	a.doc.SelectAll(kind)
	a.refresh()
}

func (a *App) clearSelection() {
	if a.busy {
		return
	}
	a.doc.ClearSelection()
	a.refresh()
}

// setBusy locks or unlocks every control that can change the document.
func (a *App) setBusy(busy bool) {
	a.busy = busy
	controls := []fyne.Disableable{a.filletBtn, a.radiusEntry, a.deleteCheck}
	for _, b := range a.selectBtns {
		controls = append(controls, b)
	}
	for _, c := range controls {
		if busy {
			c.Disable()
		} else {
			c.Enable()
		}
	}
	if a.preview != nil {
		a.preview.ReadOnly = busy
	}
}

func (a *App) undo() {
	if a.busy {
		return
	}
	label, ok := a.doc.Undo()
	if !ok {
		return
	}
	logging.Logger().Info("undo", "label", label)
	a.refresh()
}

func (a *App) redo() {
	if a.busy {
		return
	}
	label, ok := a.doc.Redo()
	if !ok {
		return
	}
	logging.Logger().Info("redo", "label", label)
	a.refresh()
}

// rememberFile records path in the recent files list and saves the config.
func (a *App) rememberFile(path string) {
	a.config.AddRecentFile(path, maxRecentFiles)
	if a.configPath != "" {
		if err := project.SaveAppConfig(a.configPath, a.config); err != nil {
			logging.Logger().Warn("saving config", "path", a.configPath, "err", err)
		}
	}
	a.refreshRecentMenu()
}

func (a *App) refreshRecentMenu() {
	if a.recentMenu == nil {
		return
	}
	a.recentMenu.Items = nil
	for _, path := range a.config.RecentFiles {
		path := path
		a.recentMenu.Items = append(a.recentMenu.Items, fyne.NewMenuItem(path, func() { a.OpenPath(path) }))
	}
	if len(a.recentMenu.Items) == 0 {
		item := fyne.NewMenuItem("(none)", nil)
		item.Disabled = true
		a.recentMenu.Items = append(a.recentMenu.Items, item)
	}
	a.recentMenu.Refresh()
}
