package importer

import (
	"context"
	"fmt"
	"math"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/FilletCorners/internal/document"
	"github.com/piwi3910/FilletCorners/internal/model"
)

// ImportDXF imports a wireframe from a DXF file. LINE entities become edges,
// LWPOLYLINE entities become edge chains (a closed polyline without bulges
// becomes a face) and ARC entities become curves. Coincident endpoints are
// welded into shared vertices.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	doc := document.New(documentName(path))
	result.Document = doc

	var arcs []*entity.Arc
	skipped := 0
	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.Line:
			a := doc.MergeVertex(point(e.Start), MergeTolerance)
			b := doc.MergeVertex(point(e.End), MergeTolerance)
			if _, err := doc.AddEdge(a, b); err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped zero-length LINE at %s", point(e.Start)))
			}

		case *entity.LwPolyline:
			if msg := addPolyline(doc, e); msg != "" {
				result.Warnings = append(result.Warnings, msg)
			}

		case *entity.Arc:
			// Arcs are added last so their endpoints weld onto lines.
			arcs = append(arcs, e)

		default:
			skipped++
		}
	}

	for _, a := range arcs {
		start := a.Angle[0] * math.Pi / 180
		end := a.Angle[1] * math.Pi / 180
		if end <= start {
			end += 2 * math.Pi
		}
		if err := addArc(doc, point(a.Circle.Center), a.Circle.Radius, start, end-start); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped ARC at %s: %v", point(a.Circle.Center), err))
		}
	}

	if skipped > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped %d unsupported entities", skipped))
	}

	result.Edges = len(doc.EdgeList())
	if result.Edges == 0 {
		result.Errors = append(result.Errors, "No edges found in DXF file")
	}
	return result
}

func point(v []float64) model.Point3 {
	var p model.Point3
	if len(v) > 0 {
		p.X = v[0]
	}
	if len(v) > 1 {
		p.Y = v[1]
	}
	if len(v) > 2 {
		p.Z = v[2]
	}
	return p
}

// addPolyline adds lw to doc and returns a warning message, if any.
func addPolyline(doc *document.Document, lw *entity.LwPolyline) string {
	n := len(lw.Vertices)
	if n < 2 {
		return "Skipped LWPOLYLINE with fewer than 2 vertices"
	}

	hasBulge := false
	for _, b := range lw.Bulges {
		if math.Abs(b) > 1e-9 {
			hasBulge = true
			break
		}
	}

	if lw.Closed && !hasBulge {
		loop := make([]model.VertexRef, 0, n)
		for _, v := range lw.Vertices {
			ref := doc.MergeVertex(point(v), MergeTolerance)
			if len(loop) == 0 || loop[len(loop)-1] != ref {
				loop = append(loop, ref)
			}
		}
		if len(loop) > 1 && loop[0] == loop[len(loop)-1] {
			loop = loop[:len(loop)-1]
		}
		if _, err := doc.AddFace(loop); err != nil {
			return fmt.Sprintf("Skipped closed LWPOLYLINE: %v", err)
		}
		return ""
	}

	segments := n - 1
	if lw.Closed {
		segments = n
	}
	failed := 0
	for i := 0; i < segments; i++ {
		p1 := point(lw.Vertices[i])
		p2 := point(lw.Vertices[(i+1)%n])
		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}

		if math.Abs(bulge) > 1e-9 {
			center, radius, start, sweep, ok := bulgeArc(p1, p2, bulge)
			if !ok || addArc(doc, center, radius, start, sweep) != nil {
				failed++
			}
			continue
		}
		a := doc.MergeVertex(p1, MergeTolerance)
		b := doc.MergeVertex(p2, MergeTolerance)
		if _, err := doc.AddEdge(a, b); err != nil {
			failed++
		}
	}

	switch {
	case failed > 0:
		return fmt.Sprintf("Skipped %d degenerate LWPOLYLINE segments", failed)
	case lw.Closed:
		return "Closed LWPOLYLINE with arcs imported as edges without a face"
	}
	return ""
}

// bulgeArc converts a DXF bulge between p1 and p2 into a center, radius,
// start angle and signed sweep. The bulge is the tangent of 1/4 the included
// angle; positive bulges run counter-clockwise.
func bulgeArc(p1, p2 model.Point3, bulge float64) (model.Point3, float64, float64, float64, bool) {
	mx := (p1.X + p2.X) / 2
	my := (p1.Y + p2.Y) / 2
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	chordLen := math.Sqrt(dx*dx + dy*dy)
	if chordLen < 1e-9 {
		return model.Point3{}, 0, 0, 0, false
	}

	sagitta := math.Abs(bulge) * chordLen / 2
	radius := (chordLen*chordLen/(4*sagitta) + sagitta) / 2

	// Signed distance from the chord midpoint to the center along the left
	// normal. Major arcs put the center on the bulge side.
	dist := radius - sagitta
	if bulge < 0 {
		dist = -dist
	}
	cx := mx - dy/chordLen*dist
	cy := my + dx/chordLen*dist

	center := model.Pt3(cx, cy, p1.Z)
	start := math.Atan2(p1.Y-cy, p1.X-cx)
	sweep := 4 * math.Atan(bulge)
	return center, radius, start, sweep, true
}

// addArc adds an XY-plane arc as a chain of curves of at most a quarter
// turn each, so every piece is a minor arc.
func addArc(doc *document.Document, center model.Point3, radius, start, sweep float64) error {
	if radius <= document.Tolerance || math.Abs(sweep) < 1e-9 {
		return fmt.Errorf("degenerate arc (radius %g, sweep %g)", radius, sweep)
	}
	ctx := context.Background()
	facets, _ := doc.CurveFacetCount(ctx)

	pieces := int(math.Ceil(math.Abs(sweep)/(math.Pi/2) - 1e-9))
	if pieces < 1 {
		pieces = 1
	}
	at := func(i int) model.Point3 {
		a := start + sweep*float64(i)/float64(pieces)
		return model.Pt3(center.X+radius*math.Cos(a), center.Y+radius*math.Sin(a), center.Z)
	}
	for i := 0; i < pieces; i++ {
		if err := doc.CreateArc(ctx, at(i), at(i+1), center, facets); err != nil {
			return err
		}
	}
	return nil
}
