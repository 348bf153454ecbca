package export

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/FilletCorners/internal/engine"
)

// Sheet names written by ExportExcel.
const (
	SheetFillets  = "Fillets"
	SheetFailures = "Failures"
)

var filletHeaders = []string{
	"Vertex",
	"Start X", "Start Y", "Start Z",
	"End X", "End Y", "End Z",
	"Center X", "Center Y", "Center Z",
	"Radius", "Corner Angle (deg)", "Trim", "Exceeds Edge",
}

// ExportExcel writes the arcs and failures of a run to an .xlsx workbook.
func ExportExcel(path string, tally engine.Tally) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetFillets); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetFailures); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}

	if err := writeRow(f, SheetFillets, 1, toCells(filletHeaders)); err != nil {
		return err
	}
	for i, rec := range tally.Arcs {
		a := rec.Arc
		row := []interface{}{
			uint32(rec.Vertex),
			a.Start.X, a.Start.Y, a.Start.Z,
			a.End.X, a.End.Y, a.End.Z,
			a.Center.X, a.Center.Y, a.Center.Z,
			a.Radius, a.Angle * 180 / math.Pi, a.Trim, a.ExceedsEdge,
		}
		if err := writeRow(f, SheetFillets, i+2, row); err != nil {
			return err
		}
	}

	if err := writeRow(f, SheetFailures, 1, []interface{}{"Vertex", "Reason"}); err != nil {
		return err
	}
	for i, fail := range tally.Failures {
		if err := writeRow(f, SheetFailures, i+2, []interface{}{uint32(fail.Vertex), fail.Reason()}); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("writing %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func toCells(s []string) []interface{} {
	out := make([]interface{}, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
