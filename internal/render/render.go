// Package render rasterizes a wireframe document to an image using the
// XY projection. It backs both PNG export and the panel preview.
package render

import (
	"fmt"
	"image"
	"io"

	"github.com/gogpu/gg"

	"github.com/piwi3910/FilletCorners/internal/document"
	"github.com/piwi3910/FilletCorners/internal/model"
)

// Options controls the rendered image.
type Options struct {
	Width, Height int
	Margin        float64 // pixels kept clear on every side
	LineWidth     float64
	ShowSelection bool // mark selected vertices
	ShowCenters   bool // mark arc centers
}

// DefaultOptions returns a 1024x768 render with selection markers.
func DefaultOptions() Options {
	return Options{
		Width:         1024,
		Height:        768,
		Margin:        24,
		LineWidth:     1.5,
		ShowSelection: true,
		ShowCenters:   true,
	}
}

var (
	background = gg.RGB(1, 1, 1)
	edgeColor  = gg.RGB(0.2, 0.2, 0.25)
	curveColor = gg.RGB(0.85, 0.1, 0.1)
	markColor  = gg.RGB(0.1, 0.4, 0.85)
)

// Projection maps document XY to image pixels with Y pointing up.
type Projection struct {
	bounds model.Bounds
	scale  float64
	ox, oy float64
	height float64
}

func newProjection(b model.Bounds, opts Options) Projection {
	w := float64(opts.Width) - 2*opts.Margin
	h := float64(opts.Height) - 2*opts.Margin
	scale := b.FitXY(w, h)
	return Projection{
		bounds: b,
		scale:  scale,
		ox:     opts.Margin + (w-b.Width()*scale)/2,
		oy:     opts.Margin + (h-b.Height()*scale)/2,
		height: float64(opts.Height),
	}
}

// ProjectionFor returns the projection Draw uses for doc at opts, and false
// when doc has no vertices.
func ProjectionFor(doc *document.Document, opts Options) (Projection, bool) {
	verts := doc.VertexList()
	pts := make([]model.Point3, len(verts))
	for i, v := range verts {
		pts[i] = v.Pos
	}
	b, ok := model.BoundsOf(pts)
	if !ok {
		return Projection{}, false
	}
	return newProjection(b, opts), true
}

// XY returns the pixel position of pt.
func (p Projection) XY(pt model.Point3) (float64, float64) {
	x := p.ox + (pt.X-p.bounds.Min.X)*p.scale
	y := p.oy + (pt.Y-p.bounds.Min.Y)*p.scale
	return x, p.height - y
}

// Draw renders doc into a new image.
func Draw(doc *document.Document, opts Options) (image.Image, error) {
	dc, err := draw(doc, opts)
	if err != nil {
		return nil, err
	}
	defer dc.Close()
	if err := dc.FlushGPU(); err != nil {
		return nil, fmt.Errorf("flushing render: %w", err)
	}
	return dc.Image(), nil
}

// RenderPNG renders doc and writes it to a PNG file at path.
func RenderPNG(path string, doc *document.Document, opts Options) error {
	dc, err := draw(doc, opts)
	if err != nil {
		return err
	}
	defer dc.Close()
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// EncodePNG renders doc as PNG to w.
func EncodePNG(w io.Writer, doc *document.Document, opts Options) error {
	dc, err := draw(doc, opts)
	if err != nil {
		return err
	}
	defer dc.Close()
	return dc.EncodePNG(w)
}

func draw(doc *document.Document, opts Options) (*gg.Context, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", opts.Width, opts.Height)
	}
	if opts.LineWidth <= 0 {
		opts.LineWidth = 1
	}

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.ClearWithColor(background)

	proj, ok := ProjectionFor(doc, opts)
	if !ok {
		// An empty document renders as a blank canvas.
		return dc, nil
	}

	dc.SetLineWidth(opts.LineWidth)
	for _, curved := range []bool{false, true} {
		if curved {
			dc.SetColor(curveColor.Color())
		} else {
			dc.SetColor(edgeColor.Color())
		}
		for _, e := range doc.EdgeList() {
			if (e.Curve != 0) != curved {
				continue
			}
			a, c, ok := doc.Segment(e.ID)
			if !ok {
				continue
			}
			x1, y1 := proj.XY(a)
			x2, y2 := proj.XY(c)
			dc.DrawLine(x1, y1, x2, y2)
		}
		if err := dc.Stroke(); err != nil {
			dc.Close()
			return nil, fmt.Errorf("stroking edges: %w", err)
		}
	}

	if opts.ShowCenters {
		dc.SetColor(curveColor.Color())
		dc.SetLineWidth(1)
		for _, c := range doc.CurveList() {
			x, y := proj.XY(c.Center)
			dc.DrawLine(x-3, y, x+3, y)
			dc.DrawLine(x, y-3, x, y+3)
		}
		if err := dc.Stroke(); err != nil {
			dc.Close()
			return nil, fmt.Errorf("stroking centers: %w", err)
		}
	}

	if opts.ShowSelection {
		dc.SetColor(markColor.Color())
		for _, p := range doc.SelectedVertices() {
			x, y := proj.XY(p)
			dc.DrawCircle(x, y, 3.5)
		}
		if err := dc.Fill(); err != nil {
			dc.Close()
			return nil, fmt.Errorf("filling markers: %w", err)
		}
	}

	return dc, nil
}
