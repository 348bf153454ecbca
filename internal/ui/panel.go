package ui

import (
	"context"
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/FilletCorners/internal/engine"
	"github.com/piwi3910/FilletCorners/internal/logging"
	"github.com/piwi3910/FilletCorners/internal/model"
	"github.com/piwi3910/FilletCorners/internal/selector"
)

// Panel text.
const (
	panelTitle       = "Fillet 2D Corners"
	instructionSel   = "Select vertices, connected edges, or faces"
	instructionClick = "Click \"Fillet Corners\" to draw a new arc at each 2D corner"
)

// ─── Fillet Panel ──────────────────────────────────────────

func (a *App) buildFilletPanel() fyne.CanvasObject {
	header := widget.NewLabelWithStyle(panelTitle, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	header.SizeName = theme.SizeNameHeadingText

	instructions := widget.NewRichTextFromMarkdown(
		"- " + instructionSel + "\n" +
			"- " + instructionClick + "\n")
	instructions.Wrapping = fyne.TextWrapWord

	a.radiusEntry = widget.NewEntry()
	a.radiusEntry.SetText(model.FormatLength(a.config.DefaultRadius, a.config.Units))
	a.radiusEntry.Validator = func(s string) error {
		_, err := parseRadius(s, a.doc.Units())
		return err
	}
	a.radiusEntry.OnSubmitted = func(string) { a.runFillet() }

	a.deleteCheck = widget.NewCheck("Delete original vertices", nil)
	a.deleteCheck.SetChecked(a.config.DeleteOriginal)

	a.filletBtn = widget.NewButtonWithIcon("Fillet Corners", theme.ConfirmIcon(), a.runFillet)
	a.filletBtn.Importance = widget.HighImportance

	form := container.NewGridWithColumns(2,
		widget.NewLabel("Fillet Radius:"), a.radiusEntry,
	)

	a.selectBtns = []*widget.Button{
		widget.NewButton("Select All Vertices", func() { a.selectAll(model.KindVertex) }),
		widget.NewButton("Select All Faces", func() { a.selectAll(model.KindFace) }),
		widget.NewButton("Clear Selection", a.clearSelection),
	}
	selectBox := container.NewVBox()
	for _, b := range a.selectBtns {
		selectBox.Add(b)
	}
	selection := widget.NewCard("Selection", "", selectBox)

	return container.NewVBox(
		header,
		instructions,
		form,
		a.deleteCheck,
		a.filletBtn,
		widget.NewSeparator(),
		selection,
	)
}

// parseRadius reads a radius entry in document units. It accepts unit
// suffixes but leaves the positivity check to the engine so the user sees
// its message.
func parseRadius(text string, units model.Unit) (float64, error) {
	r, err := model.ParseLength(text, units)
	if err != nil {
		return 0, fmt.Errorf("invalid fillet radius: %w", err)
	}
	return r, nil
}

func (a *App) policy() selector.Policy {
	p, err := selector.ParsePolicy(a.config.SelectionPolicy)
	if err != nil {
		logging.Logger().Warn("falling back to composite selection", "err", err)
	}
	return p
}

// runFillet fillets the current selection with the panel settings. The run
// happens off the UI goroutine; the engine reports through dialogs.
func (a *App) runFillet() {
	if a.busy {
		return
	}
	units := a.doc.Units()
	radius, err := parseRadius(a.radiusEntry.Text, units)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	if engine.ValidRadius(radius) {
		a.radiusEntry.SetText(model.FormatLength(radius, units))
	}

	params := engine.Params{
		Radius:         radius,
		DeleteOriginal: a.deleteCheck.Checked,
		Policy:         a.policy(),
	}
	doc := a.doc
	runner := engine.New(doc, dialogNotifier{window: a.window})

	a.setBusy(true)
	go func() {
		tally, err := runner.Run(context.Background(), params)
		fyne.Do(func() {
			a.setBusy(false)
			if err == nil {
				a.lastTally = &tally
			}
			a.refresh()
		})
	}()
}

// ─── Radius Comparison ─────────────────────────────────────

func (a *App) showCompareRadii() {
	units := a.doc.Units()
	base, err := parseRadius(a.radiusEntry.Text, units)
	if err != nil || !engine.ValidRadius(base) {
		dialog.ShowError(fmt.Errorf("enter a fillet radius greater than zero to compare"), a.window)
		return
	}

	reports, err := engine.CompareRadii(context.Background(), a.doc, engine.BuildDefaultScenarios(base, units), a.policy())
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}

	headers := []string{"Scenario", "Radius", "Solvable", "Failed", "Exceeds Edge"}
	table := widget.NewTable(
		func() (int, int) { return len(reports) + 1, len(headers) },
		func() fyne.CanvasObject { return widget.NewLabel("Exceeds Edge ....") },
		func(id widget.TableCellID, o fyne.CanvasObject) {
			label := o.(*widget.Label)
			if id.Row == 0 {
				label.TextStyle = fyne.TextStyle{Bold: true}
				label.SetText(headers[id.Col])
				return
			}
			label.TextStyle = fyne.TextStyle{}
			label.SetText(compareCell(reports[id.Row-1], id.Col, units))
		},
	)
	content := container.NewGridWrap(fyne.NewSize(620, 180), table)
	dialog.ShowCustom("Compare Radii", "Close", content, a.window)
}

func compareCell(r engine.RadiusReport, col int, units model.Unit) string {
	switch col {
	case 0:
		return r.Scenario.Name
	case 1:
		return model.FormatLength(r.Scenario.Radius, units)
	case 2:
		return strconv.Itoa(r.Solvable)
	case 3:
		return strconv.Itoa(r.Failed)
	default:
		return strconv.Itoa(r.ExceedsEdge)
	}
}
