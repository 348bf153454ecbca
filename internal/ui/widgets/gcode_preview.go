package widgets

import (
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/FilletCorners/internal/gcode"
)

// Toolpath colors for different move types.
var (
	colorRapid   = color.NRGBA{R: 255, G: 60, B: 60, A: 200}   // Red for rapid moves
	colorFeed    = color.NRGBA{R: 30, G: 120, B: 255, A: 230}  // Blue for linear cuts
	colorArc     = color.NRGBA{R: 150, G: 60, B: 200, A: 230}  // Purple for arc cuts
	colorPlunge  = color.NRGBA{R: 50, G: 200, B: 50, A: 220}   // Green for plunge
	colorRetract = color.NRGBA{R: 180, G: 180, B: 0, A: 180}   // Yellow for retract
	colorBed     = color.NRGBA{R: 245, G: 245, B: 240, A: 255} // Background
)

// arcStep is the angular step used to draw G2/G3 moves.
const arcStep = math.Pi / 36

// GCodePreview is a custom Fyne widget that renders the XY toolpath of
// parsed GCode moves.
type GCodePreview struct {
	widget.BaseWidget
	moves     []gcode.Move
	maxWidth  float32
	maxHeight float32
}

// NewGCodePreview creates a new GCode preview widget.
func NewGCodePreview(moves []gcode.Move, maxW, maxH float32) *GCodePreview {
	gp := &GCodePreview{
		moves:     moves,
		maxWidth:  maxW,
		maxHeight: maxH,
	}
	gp.ExtendBaseWidget(gp)
	return gp
}

// CreateRenderer implements fyne.Widget.
func (gp *GCodePreview) CreateRenderer() fyne.WidgetRenderer {
	return newGCodePreviewRenderer(gp)
}

// extent is the XY bounding box of a toolpath.
type extent struct {
	minX, minY, maxX, maxY float64
}

func (e *extent) add(x, y float64) {
	e.minX = math.Min(e.minX, x)
	e.minY = math.Min(e.minY, y)
	e.maxX = math.Max(e.maxX, x)
	e.maxY = math.Max(e.maxY, y)
}

func movesExtent(moves []gcode.Move) (extent, bool) {
	e := extent{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
	for _, m := range moves {
		if m.Type == gcode.MoveRapid || m.Type == gcode.MoveRetract {
			continue
		}
		e.add(m.FromX, m.FromY)
		e.add(m.ToX, m.ToY)
		if m.Type == gcode.MoveArcCW || m.Type == gcode.MoveArcCCW {
			for _, p := range arcPoints(m) {
				e.add(p[0], p[1])
			}
		}
	}
	return e, !math.IsInf(e.minX, 1)
}

// arcPoints samples an arc move, including its end point.
func arcPoints(m gcode.Move) [][2]float64 {
	cx, cy := m.FromX+m.I, m.FromY+m.J
	r := math.Hypot(m.I, m.J)
	if r == 0 {
		return [][2]float64{{m.ToX, m.ToY}}
	}
	start := math.Atan2(m.FromY-cy, m.FromX-cx)
	sweep := m.Length() / r
	if m.Type == gcode.MoveArcCW {
		sweep = -sweep
	}
	n := int(math.Ceil(math.Abs(sweep) / arcStep))
	if n < 1 {
		n = 1
	}
	pts := make([][2]float64, 0, n)
	for i := 1; i < n; i++ {
		a := start + sweep*float64(i)/float64(n)
		pts = append(pts, [2]float64{cx + r*math.Cos(a), cy + r*math.Sin(a)})
	}
	return append(pts, [2]float64{m.ToX, m.ToY})
}

type gcodePreviewRenderer struct {
	gp      *GCodePreview
	objects []fyne.CanvasObject
}

func newGCodePreviewRenderer(gp *GCodePreview) *gcodePreviewRenderer {
	r := &gcodePreviewRenderer{gp: gp}
	r.rebuild()
	return r
}

const previewMargin = float32(10)

func (r *gcodePreviewRenderer) scale(e extent) float32 {
	gp := r.gp
	w := float32(e.maxX - e.minX)
	h := float32(e.maxY - e.minY)
	scale := float32(1)
	switch {
	case w > 0 && h > 0:
		scale = min((gp.maxWidth-previewMargin*2)/w, (gp.maxHeight-previewMargin*2)/h)
	case w > 0:
		scale = (gp.maxWidth - previewMargin*2) / w
	case h > 0:
		scale = (gp.maxHeight - previewMargin*2) / h
	}
	if scale <= 0 {
		scale = 1
	}
	return scale
}

func (r *gcodePreviewRenderer) rebuild() {
	r.objects = nil

	gp := r.gp
	e, ok := movesExtent(gp.moves)
	if !ok {
		return
	}
	scale := r.scale(e)
	height := float32(e.maxY-e.minY) * scale

	// GCode Y points up; screen Y points down.
	pos := func(x, y float64) fyne.Position {
		return fyne.NewPos(float32(x-e.minX)*scale+previewMargin, height-float32(y-e.minY)*scale+previewMargin)
	}

	bg := canvas.NewRectangle(colorBed)
	bg.Resize(fyne.NewSize(float32(e.maxX-e.minX)*scale+previewMargin*2, height+previewMargin*2))
	r.objects = append(r.objects, bg)

	line := func(col color.Color, width float32, x1, y1, x2, y2 float64) {
		l := canvas.NewLine(col)
		l.StrokeWidth = width
		l.Position1 = pos(x1, y1)
		l.Position2 = pos(x2, y2)
		r.objects = append(r.objects, l)
	}
	marker := func(col color.Color, size float32, x, y float64) {
		c := canvas.NewCircle(col)
		c.Resize(fyne.NewSize(size, size))
		p := pos(x, y)
		c.Move(fyne.NewPos(p.X-size/2, p.Y-size/2))
		r.objects = append(r.objects, c)
	}

	for _, m := range gp.moves {
		xyDist := math.Hypot(m.ToX-m.FromX, m.ToY-m.FromY)

		switch m.Type {
		case gcode.MoveRapid:
			if xyDist < 0.01 {
				continue
			}
			line(colorRapid, 1, m.FromX, m.FromY, m.ToX, m.ToY)

		case gcode.MoveFeed:
			if xyDist < 0.01 {
				continue
			}
			line(colorFeed, 2, m.FromX, m.FromY, m.ToX, m.ToY)

		case gcode.MoveArcCW, gcode.MoveArcCCW:
			x, y := m.FromX, m.FromY
			for _, p := range arcPoints(m) {
				line(colorArc, 2, x, y, p[0], p[1])
				x, y = p[0], p[1]
			}

		case gcode.MovePlunge:
			marker(colorPlunge, 4, m.FromX, m.FromY)

		case gcode.MoveRetract:
			if xyDist < 0.01 {
				marker(colorRetract, 3, m.FromX, m.FromY)
			} else {
				line(colorRetract, 1, m.FromX, m.FromY, m.ToX, m.ToY)
			}
		}
	}
}

func (r *gcodePreviewRenderer) Layout(size fyne.Size)        {}
func (r *gcodePreviewRenderer) Refresh()                     { r.rebuild() }
func (r *gcodePreviewRenderer) Destroy()                     {}
func (r *gcodePreviewRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *gcodePreviewRenderer) MinSize() fyne.Size {
	e, ok := movesExtent(r.gp.moves)
	if !ok {
		return fyne.NewSize(100, 100)
	}
	scale := r.scale(e)
	return fyne.NewSize(float32(e.maxX-e.minX)*scale+previewMargin*2, float32(e.maxY-e.minY)*scale+previewMargin*2)
}

// RenderGCodePreview creates a preview panel for generated GCode.
func RenderGCodePreview(code string) fyne.CanvasObject {
	return NewGCodePreview(gcode.ParseGCode(code), 700, 450)
}
