package widgets

import (
	"context"
	"image"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/FilletCorners/internal/document"
	"github.com/piwi3910/FilletCorners/internal/model"
	"github.com/piwi3910/FilletCorners/internal/render"
)

// pickRadius is how close, in pixels, a tap must land to a vertex to toggle it.
const pickRadius = 8.0

// WireframeView shows the XY projection of a document. Tapping near a vertex
// toggles it in the document selection.
type WireframeView struct {
	widget.BaseWidget

	doc       *document.Document
	opts      render.Options
	raster    *canvas.Raster
	minSize   fyne.Size
	pixelSize image.Point // size of the last generated image

	// OnSelectionChanged is called after a tap changed the selection.
	OnSelectionChanged func()

	// ReadOnly disables tap selection.
	ReadOnly bool
}

// NewWireframeView creates a view of doc. doc may be nil.
func NewWireframeView(doc *document.Document, minW, minH float32) *WireframeView {
	v := &WireframeView{
		doc:     doc,
		opts:    render.DefaultOptions(),
		minSize: fyne.NewSize(minW, minH),
	}
	v.raster = canvas.NewRaster(v.generate)
	v.ExtendBaseWidget(v)
	return v
}

// SetDocument replaces the displayed document and redraws.
func (v *WireframeView) SetDocument(doc *document.Document) {
	v.doc = doc
	v.Refresh()
}

// Refresh redraws the wireframe.
func (v *WireframeView) Refresh() {
	v.raster.Refresh()
	v.BaseWidget.Refresh()
}

func (v *WireframeView) options(w, h int) render.Options {
	opts := v.opts
	opts.Width = w
	opts.Height = h
	return opts
}

func (v *WireframeView) generate(w, h int) image.Image {
	v.pixelSize = image.Pt(w, h)
	if v.doc == nil || w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	}
	img, err := render.Draw(v.doc, v.options(w, h))
	if err != nil {
		return image.NewRGBA(image.Rect(0, 0, w, h))
	}
	return img
}

// Tapped toggles the vertex nearest to the tap.
func (v *WireframeView) Tapped(ev *fyne.PointEvent) {
	if v.ReadOnly || v.doc == nil || v.pixelSize.X == 0 || v.Size().Width == 0 {
		return
	}
	scale := float64(v.pixelSize.X) / float64(v.Size().Width)
	ref, ok := v.pick(float64(ev.Position.X)*scale, float64(ev.Position.Y)*scale, pickRadius*scale)
	if !ok {
		return
	}
	v.toggle(ref)
	v.Refresh()
	if v.OnSelectionChanged != nil {
		v.OnSelectionChanged()
	}
}

// pick returns the vertex closest to pixel (x, y) within r pixels.
func (v *WireframeView) pick(x, y, r float64) (model.VertexRef, bool) {
	proj, ok := render.ProjectionFor(v.doc, v.options(v.pixelSize.X, v.pixelSize.Y))
	if !ok {
		return 0, false
	}
	best, bestDist := model.VertexRef(0), math.Inf(1)
	for _, vert := range v.doc.VertexList() {
		px, py := proj.XY(vert.Pos)
		if d := math.Hypot(px-x, py-y); d <= r && d < bestDist {
			best, bestDist = vert.ID, d
		}
	}
	return best, !math.IsInf(bestDist, 1)
}

func (v *WireframeView) toggle(ref model.VertexRef) {
	sel, _ := v.doc.Selection(context.Background())
	next := make([]model.Selection, 0, len(sel)+1)
	found := false
	for _, s := range sel {
		if s.Object == ref.Ref() {
			found = true
			continue
		}
		next = append(next, s)
	}
	if !found {
		next = append(next, model.Select(ref.Ref()))
	}
	_ = v.doc.SetSelection(next)
}

// CreateRenderer implements fyne.Widget.
func (v *WireframeView) CreateRenderer() fyne.WidgetRenderer {
	return &wireframeRenderer{view: v}
}

type wireframeRenderer struct {
	view *WireframeView
}

func (r *wireframeRenderer) Layout(size fyne.Size) {
	r.view.raster.Resize(size)
	r.view.raster.Move(fyne.NewPos(0, 0))
}

func (r *wireframeRenderer) MinSize() fyne.Size           { return r.view.minSize }
func (r *wireframeRenderer) Refresh()                     { r.view.raster.Refresh() }
func (r *wireframeRenderer) Destroy()                     {}
func (r *wireframeRenderer) Objects() []fyne.CanvasObject { return []fyne.CanvasObject{r.view.raster} }
