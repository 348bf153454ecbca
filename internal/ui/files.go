package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/FilletCorners/internal/document"
	"github.com/piwi3910/FilletCorners/internal/export"
	"github.com/piwi3910/FilletCorners/internal/gcode"
	"github.com/piwi3910/FilletCorners/internal/importer"
	"github.com/piwi3910/FilletCorners/internal/logging"
	"github.com/piwi3910/FilletCorners/internal/project"
	"github.com/piwi3910/FilletCorners/internal/render"
	"github.com/piwi3910/FilletCorners/internal/ui/widgets"
)

var openExtensions = []string{".dxf", ".csv", ".tsv", ".txt", ".xlsx", ".xls", ".json"}

// ─── Open / Save ───────────────────────────────────────────

func (a *App) openFile() {
	if a.busy {
		return
	}
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		a.OpenPath(path)
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter(openExtensions))
	d.Show()
}

// OpenPath loads a project or imports a wireframe file, choosing by extension.
// It does nothing while a fillet run is in progress.
func (a *App) OpenPath(path string) {
	if a.busy {
		return
	}
	log := logging.Logger().With("path", path)

	if project.IsProjectFile(path) {
		doc, err := project.LoadDocument(path)
		if err != nil {
			log.Error("loading project", "err", err)
			dialog.ShowError(err, a.window)
			return
		}
		a.setDocument(doc, path)
		a.rememberFile(path)
		return
	}

	result, ok := importFile(path)
	if !ok {
		dialog.ShowError(fmt.Errorf("unsupported file type %q", filepath.Ext(path)), a.window)
		return
	}
	a.handleImportResult(path, result)
}

func importFile(path string) (importer.ImportResult, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dxf":
		return importer.ImportDXF(path), true
	case ".csv", ".tsv", ".txt":
		return importer.ImportCSV(path), true
	case ".xlsx", ".xls":
		return importer.ImportExcel(path), true
	default:
		return importer.ImportResult{}, false
	}
}

func (a *App) handleImportResult(path string, result importer.ImportResult) {
	log := logging.Logger().With("path", path)
	for _, w := range result.Warnings {
		log.Warn("import warning", "warning", w)
	}

	if result.Document == nil || result.Edges == 0 {
		msg := "Errors encountered during import:\n\n" + strings.Join(result.Errors, "\n")
		dialog.ShowError(fmt.Errorf("%s", msg), a.window)
		return
	}

	doc := result.Document
	doc.SetCurveFacets(a.config.CurveFacets)
	doc.SetUnits(a.config.Units)
	a.setDocument(doc, "")
	a.rememberFile(path)

	msg := fmt.Sprintf("Imported %d edges from %s.", result.Edges, filepath.Base(path))
	if len(result.Errors) > 0 {
		msg += fmt.Sprintf("\n\nHowever, %d rows had errors and were skipped:\n%s",
			len(result.Errors), strings.Join(result.Errors, "\n"))
	}
	if len(result.Warnings) > 0 {
		msg += fmt.Sprintf("\n\n%d warnings.", len(result.Warnings))
	}
	dialog.ShowInformation("Import Complete", msg, a.window)
}

func (a *App) saveProject() {
	a.saveAs(a.doc.Name()+project.FileExtension, func(path string) error {
		if err := project.SaveDocument(path, a.doc); err != nil {
			return err
		}
		a.docPath = path
		a.rememberFile(path)
		return nil
	})
}

// ─── Exports ───────────────────────────────────────────────

func (a *App) exportDXF() {
	a.saveAs(a.doc.Name()+".dxf", func(path string) error {
		return export.ExportDXF(path, a.doc)
	})
}

func (a *App) exportPDF() {
	if a.lastTally == nil {
		dialog.ShowInformation("No fillet run", "Run Fillet Corners before exporting a report.", a.window)
		return
	}
	tally := *a.lastTally
	a.saveAs(a.doc.Name()+"-fillets.pdf", func(path string) error {
		return export.ExportPDF(path, a.doc, tally)
	})
}

func (a *App) exportExcel() {
	if a.lastTally == nil {
		dialog.ShowInformation("No fillet run", "Run Fillet Corners before exporting a report.", a.window)
		return
	}
	tally := *a.lastTally
	a.saveAs(a.doc.Name()+"-fillets.xlsx", func(path string) error {
		return export.ExportExcel(path, tally)
	})
}

func (a *App) exportGCode() {
	if len(a.doc.EdgeList()) == 0 {
		dialog.ShowInformation("Nothing to export", "The document has no edges.", a.window)
		return
	}
	code := gcode.New(a.config.Toolpath).Generate(a.doc)
	a.saveAs(a.doc.Name()+".gcode", func(path string) error {
		return os.WriteFile(path, []byte(code), 0644)
	})
}

func (a *App) exportPNG() {
	a.saveAs(a.doc.Name()+".png", func(path string) error {
		return render.RenderPNG(path, a.doc, render.DefaultOptions())
	})
}

func (a *App) previewGCode() {
	if len(a.doc.EdgeList()) == 0 {
		dialog.ShowInformation("Nothing to preview", "The document has no edges.", a.window)
		return
	}
	code := gcode.New(a.config.Toolpath).Generate(a.doc)
	moves := gcode.ParseGCode(code)
	summary := widget.NewLabel(fmt.Sprintf("%d moves, cutting length %s",
		len(moves), formatUnits(gcode.CuttingLength(moves), a.doc)))
	content := container.NewBorder(nil, summary, nil, nil,
		container.NewScroll(widgets.RenderGCodePreview(code)))
	d := dialog.NewCustom("GCode Preview", "Close", content, a.window)
	d.Resize(fyne.NewSize(760, 560))
	d.Show()
}

func formatUnits(v float64, doc *document.Document) string {
	return fmt.Sprintf("%.2f %s", v, doc.Units())
}

// saveAs asks for a destination and runs write on it, reporting the outcome.
func (a *App) saveAs(defaultName string, write func(path string) error) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		// The writers below create the file themselves.
		writer.Close()
		if err := write(path); err != nil {
			logging.Logger().Error("saving file", "path", path, "err", err)
			dialog.ShowError(err, a.window)
			return
		}
		logging.Logger().Info("saved file", "path", path)
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Saved to %s", path), a.window)
	}, a.window)
	d.SetFileName(defaultName)
	d.Show()
}
