package export

import (
	"fmt"
	"math"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"

	"github.com/piwi3910/FilletCorners/internal/document"
	"github.com/piwi3910/FilletCorners/internal/model"
)

// DXF layer names.
const (
	LayerWireframe = "WIREFRAME"
	LayerFillets   = "FILLETS"
)

// planarTolerance bounds the Z spread of a curve exported as a DXF ARC.
const planarTolerance = 1e-9

// ExportDXF writes the document wireframe to a DXF file. Straight edges
// become LINE entities on the WIREFRAME layer. Arcs that lie in a plane
// parallel to XY become ARC entities on the FILLETS layer; other arcs are
// written as their facet lines.
func ExportDXF(path string, doc *document.Document) error {
	edges := doc.EdgeList()
	if len(edges) == 0 {
		return fmt.Errorf("document has no edges to export")
	}

	d := dxf.NewDrawing()
	if _, err := d.AddLayer(LayerWireframe, dxf.DefaultColor, dxf.DefaultLineType, false); err != nil {
		return fmt.Errorf("adding layer %s: %w", LayerWireframe, err)
	}
	if _, err := d.AddLayer(LayerFillets, color.Red, dxf.DefaultLineType, false); err != nil {
		return fmt.Errorf("adding layer %s: %w", LayerFillets, err)
	}

	asArc := make(map[model.ObjectID]bool)
	if err := d.ChangeLayer(LayerFillets); err != nil {
		return err
	}
	for _, c := range doc.CurveList() {
		if !planarXY(c) {
			continue
		}
		start, end := arcAngles(c)
		if _, err := d.Arc(c.Center.X, c.Center.Y, c.Center.Z, c.Radius, start, end); err != nil {
			return fmt.Errorf("writing arc %d: %w", c.ID, err)
		}
		asArc[c.ID] = true
	}

	for _, e := range edges {
		if asArc[e.Curve] {
			continue
		}
		layer := LayerWireframe
		if e.Curve != 0 {
			layer = LayerFillets
		}
		if err := d.ChangeLayer(layer); err != nil {
			return err
		}
		a, b, _ := doc.Segment(e.ID)
		if _, err := d.Line(a.X, a.Y, a.Z, b.X, b.Y, b.Z); err != nil {
			return fmt.Errorf("writing edge %d: %w", e.ID, err)
		}
	}

	return d.SaveAs(path)
}

func planarXY(c document.Curve) bool {
	return math.Abs(c.Start.Z-c.Center.Z) <= planarTolerance &&
		math.Abs(c.End.Z-c.Center.Z) <= planarTolerance
}

// arcAngles returns the DXF start and end angles in degrees. DXF arcs run
// counter-clockwise, so a clockwise arc is written from its end point.
func arcAngles(c document.Curve) (float64, float64) {
	s := c.Start.Sub(c.Center)
	e := c.End.Sub(c.Center)
	a1 := degrees(math.Atan2(s.Y, s.X))
	a2 := degrees(math.Atan2(e.Y, e.X))
	if s.X*e.Y-s.Y*e.X < 0 {
		a1, a2 = a2, a1
	}
	return a1, a2
}

func degrees(rad float64) float64 {
	d := rad * 180 / math.Pi
	if d < 0 {
		d += 360
	}
	return d
}
