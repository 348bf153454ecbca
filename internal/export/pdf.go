// Package export writes filleted wireframes and fillet run reports to DXF,
// PDF and Excel files.
package export

import (
	"context"
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/FilletCorners/internal/document"
	"github.com/piwi3910/FilletCorners/internal/engine"
	"github.com/piwi3910/FilletCorners/internal/model"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	rowHeight    = 6.0
)

// ExportPDF generates a report of a fillet run: an XY drawing of the
// document with the new arcs highlighted, followed by a summary page with
// a per-arc table, the failed vertices and a QR code of the run summary.
func ExportPDF(path string, doc *document.Document, tally engine.Tally) error {
	edges := doc.EdgeList()
	if len(edges) == 0 {
		return fmt.Errorf("document has no edges to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderDrawingPage(pdf, doc, tally)

	pdf.AddPage()
	if err := renderSummaryPage(pdf, doc, tally); err != nil {
		return err
	}

	return pdf.OutputFileAndClose(path)
}

// renderDrawingPage draws the wireframe projected onto the XY plane.
func renderDrawingPage(pdf *fpdf.Fpdf, doc *document.Document, tally engine.Tally) {
	units := doc.Units()
	verts := doc.VertexList()
	pts := make([]model.Point3, len(verts))
	for i, v := range verts {
		pts[i] = v.Pos
	}
	bounds, _ := model.BoundsOf(pts)

	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s (%s x %s)", doc.Name(),
		model.FormatLength(round2(bounds.Width()), units), model.FormatLength(round2(bounds.Height()), units))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	// Stats line
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Vertices: %d | Edges: %d | Faces: %d | Arcs: %d | Fillet radius: %s",
		len(verts), len(doc.EdgeList()), len(doc.FaceList()), len(doc.CurveList()), model.FormatLength(tally.Radius, units))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight
	scale := bounds.FitXY(drawWidth, drawHeight)

	canvasW := bounds.Width() * scale
	canvasH := bounds.Height() * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// PDF y grows downward; flip so the drawing reads like the model.
	project := func(p model.Point3) (float64, float64) {
		return offsetX + (p.X-bounds.Min.X)*scale, offsetY + canvasH - (p.Y-bounds.Min.Y)*scale
	}

	// Faces as a light fill behind the wires
	pdf.SetFillColor(235, 240, 250)
	for _, loop := range faceLoops(doc) {
		poly := make([]fpdf.PointType, 0, len(loop))
		for _, p := range loop {
			x, y := project(p)
			poly = append(poly, fpdf.PointType{X: x, Y: y})
		}
		pdf.Polygon(poly, "F")
	}

	for _, e := range doc.EdgeList() {
		a, b, _ := doc.Segment(e.ID)
		if e.Curve != 0 {
			pdf.SetDrawColor(220, 40, 40)
			pdf.SetLineWidth(0.5)
		} else {
			pdf.SetDrawColor(40, 40, 40)
			pdf.SetLineWidth(0.3)
		}
		x1, y1 := project(a)
		x2, y2 := project(b)
		pdf.Line(x1, y1, x2, y2)
	}

	// Arc centers of this run
	pdf.SetDrawColor(33, 150, 243)
	pdf.SetLineWidth(0.2)
	for _, rec := range tally.Arcs {
		cx, cy := project(rec.Arc.Center)
		pdf.Line(cx-1.5, cy, cx+1.5, cy)
		pdf.Line(cx, cy-1.5, cx, cy+1.5)
	}

	drawLegend(pdf, offsetY+canvasH+5)
}

// drawLegend renders the colour key below the drawing.
func drawLegend(pdf *fpdf.Fpdf, y float64) {
	items := []struct {
		label   string
		r, g, b int
	}{
		{"Edge", 40, 40, 40},
		{"Fillet arc", 220, 40, 40},
		{"Arc center", 33, 150, 243},
	}
	pdf.SetFont("Helvetica", "", 8)
	x := marginLeft
	for _, it := range items {
		pdf.SetFillColor(it.r, it.g, it.b)
		pdf.Rect(x, y+0.5, 3, 3, "F")
		pdf.SetXY(x+4, y)
		pdf.CellFormat(30, 4, it.label, "", 0, "L", false, 0, "")
		x += 36
	}
}

// renderSummaryPage draws the run statistics and per-arc table.
func renderSummaryPage(pdf *fpdf.Fpdf, doc *document.Document, tally engine.Tally) error {
	units := doc.Units()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Fillet Corner Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	if err := renderSummaryQR(pdf, doc, tally, pageWidth-marginRight-qrSize, marginTop+16); err != nil {
		return err
	}

	y := marginTop + 18
	msg, _ := engine.Summary(tally)
	summaryItems := []struct {
		label string
		value string
	}{
		{"Run", tally.RunID.String()},
		{"Fillet Radius", model.FormatLength(tally.Radius, units)},
		{"Vertices Filleted", fmt.Sprintf("%d", tally.Succeeded)},
		{"Vertices Failed", fmt.Sprintf("%d", tally.Failed)},
		{"Cleanup Failures", fmt.Sprintf("%d", tally.CleanupFailures)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(90, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetXY(marginLeft+5, y)
	pdf.MultiCell(pageWidth-marginLeft-marginRight-qrSize-10, 5, msg, "", "L", false)
	y = pdf.GetY() + 5

	// Per-arc table
	colWidths := []float64{18, 55, 55, 55, 25, 30, 29}
	headers := []string{"Vertex", "Start", "End", "Center", "Trim", "Corner Angle", "Exceeds Edge"}

	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		xPos := marginLeft
		for i, header := range headers {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[i], rowHeight, header, "1", 0, "C", true, 0, "")
			xPos += colWidths[i]
		}
		y += rowHeight
		pdf.SetFont("Helvetica", "", 8)
	}

	if len(tally.Arcs) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(100, 7, "Fillet Arcs", "", 0, "L", false, 0, "")
		y += 9
		drawHeader()
	}

	for i, rec := range tally.Arcs {
		if y+rowHeight > pageHeight-marginBottom {
			pdf.AddPage()
			y = marginTop
			drawHeader()
		}
		exceeds := "no"
		if rec.Arc.ExceedsEdge {
			exceeds = "YES"
		}
		rowData := []string{
			fmt.Sprintf("%d", rec.Vertex),
			rec.Arc.Start.String(),
			rec.Arc.End.String(),
			rec.Arc.Center.String(),
			fmt.Sprintf("%.3f", rec.Arc.Trim),
			fmt.Sprintf("%.1f\xb0", rec.Arc.Angle*180/math.Pi),
			exceeds,
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		xPos := marginLeft
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], rowHeight, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += rowHeight
	}

	if len(tally.Failures) > 0 {
		y += 8
		if y+14 > pageHeight-marginBottom {
			pdf.AddPage()
			y = marginTop
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "Vertices Not Filleted", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, f := range tally.Failures {
			if y+5 > pageHeight-marginBottom {
				pdf.AddPage()
				y = marginTop
			}
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(250, 5, fmt.Sprintf("- Vertex %d: %s", f.Vertex, f.Reason()), "", 0, "L", false, 0, "")
			y += 5
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by FilletCorners - Fillet 2D Corners", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	return nil
}

// faceLoops returns the boundary positions of every face with at least
// three vertices.
func faceLoops(doc *document.Document) [][]model.Point3 {
	ctx := context.Background()
	var loops [][]model.Point3
	for _, f := range doc.FaceList() {
		verts, err := doc.Vertices(ctx, f.ID.Ref())
		if err != nil || len(verts) < 3 {
			continue
		}
		loop := make([]model.Point3, 0, len(verts))
		for _, v := range verts {
			if p, err := doc.VertexPosition(ctx, v); err == nil {
				loop = append(loop, p)
			}
		}
		loops = append(loops, loop)
	}
	return loops
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
