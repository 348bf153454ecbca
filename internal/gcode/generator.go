// Package gcode writes CNC toolpaths that trace a wireframe document.
package gcode

import (
	"fmt"
	"math"
	"strings"

	"github.com/piwi3910/FilletCorners/internal/document"
	"github.com/piwi3910/FilletCorners/internal/model"
)

// joinTolerance is how close two path ends must be to be cut without a retract.
const joinTolerance = 1e-6

// Generator produces GCode from a wireframe document.
type Generator struct {
	Settings model.ToolpathSettings
	profile  model.GCodeProfile
}

func New(settings model.ToolpathSettings) *Generator {
	return &Generator{
		Settings: settings,
		profile:  model.GetProfile(settings.GCodeProfile),
	}
}

// segment is one cut: a straight edge or a whole planar arc.
type segment struct {
	from, to model.Point3
	arc      *document.Curve
	ccw      bool
}

func (s segment) reversed() segment {
	return segment{from: s.to, to: s.from, arc: s.arc, ccw: !s.ccw}
}

// Generate traces every edge of doc. Arcs that lie in a plane parallel to XY
// are cut as single G2/G3 moves; all other edges as linear feeds. Connected
// edges are chained so the tool only retracts between separate paths.
func (g *Generator) Generate(doc *document.Document) string {
	var b strings.Builder

	chains := chain(segments(doc))
	g.writeHeader(&b, doc, len(chains))
	for i, c := range chains {
		g.writeChain(&b, c, i+1)
	}
	g.writeFooter(&b)
	return b.String()
}

// segments collects the cuts of doc: one per planar curve and one per
// remaining edge.
func segments(doc *document.Document) []segment {
	var segs []segment
	onArc := make(map[model.ObjectID]bool)
	for _, c := range doc.CurveList() {
		if len(c.Edges) == 0 || !planar(c) {
			continue
		}
		c := c
		s := c.Start.Sub(c.Center)
		e := c.End.Sub(c.Center)
		segs = append(segs, segment{from: c.Start, to: c.End, arc: &c, ccw: s.X*e.Y-s.Y*e.X > 0})
		onArc[c.ID] = true
	}
	for _, e := range doc.EdgeList() {
		if e.Curve != 0 && onArc[e.Curve] {
			continue
		}
		a, b, ok := doc.Segment(e.ID)
		if !ok {
			continue
		}
		segs = append(segs, segment{from: a, to: b})
	}
	return segs
}

func planar(c document.Curve) bool {
	return math.Abs(c.Start.Z-c.Center.Z) <= joinTolerance &&
		math.Abs(c.End.Z-c.Center.Z) <= joinTolerance
}

// chain greedily links segments end to end, reversing them where needed.
func chain(segs []segment) [][]segment {
	used := make([]bool, len(segs))
	var chains [][]segment
	for i := range segs {
		if used[i] {
			continue
		}
		used[i] = true
		c := []segment{segs[i]}
		for {
			tail := c[len(c)-1].to
			next := -1
			for j := range segs {
				if used[j] {
					continue
				}
				if segs[j].from.Near(tail, joinTolerance) {
					next = j
					break
				}
				if segs[j].to.Near(tail, joinTolerance) {
					segs[j] = segs[j].reversed()
					next = j
					break
				}
			}
			if next < 0 {
				break
			}
			used[next] = true
			c = append(c, segs[next])
		}
		chains = append(chains, c)
	}
	return chains
}

func (g *Generator) writeHeader(b *strings.Builder, doc *document.Document, paths int) {
	p := g.profile

	b.WriteString(g.comment(fmt.Sprintf("FilletCorners GCode - %s", doc.Name())))
	b.WriteString(g.comment(fmt.Sprintf("Paths: %d, Units: %s", paths, doc.Units())))
	b.WriteString(g.comment(fmt.Sprintf("Feed: %.0f/min, Plunge: %.0f/min, Depth: %.2f",
		g.Settings.FeedRate, g.Settings.PlungeRate, g.Settings.CutDepth)))
	b.WriteString(g.comment(fmt.Sprintf("Profile: %s", p.Name)))
	b.WriteString("\n")

	for _, code := range p.StartCode {
		b.WriteString(code + "\n")
	}
	if p.SpindleStart != "" {
		b.WriteString(fmt.Sprintf(p.SpindleStart+"\n", g.Settings.SpindleSpeed))
	}
	b.WriteString(fmt.Sprintf("%s Z%s\n", p.RapidMove, g.format(g.Settings.SafeZ)))
	b.WriteString("\n")
}

func (g *Generator) writeFooter(b *strings.Builder) {
	p := g.profile

	b.WriteString(g.comment("=== Job complete ==="))
	for _, code := range p.EndCode {
		code = strings.ReplaceAll(code, "[SafeZ]", g.format(g.Settings.SafeZ))
		b.WriteString(code + "\n")
	}
	if p.SpindleStop != "" {
		b.WriteString(p.SpindleStop + "\n")
	}
}

func (g *Generator) writeChain(b *strings.Builder, c []segment, n int) {
	p := g.profile
	start := c[0].from

	b.WriteString(g.comment(fmt.Sprintf("--- Path %d: %d moves ---", n, len(c))))
	b.WriteString(fmt.Sprintf("%s X%s Y%s\n", p.RapidMove, g.format(start.X), g.format(start.Y)))
	b.WriteString(fmt.Sprintf("%s Z%s F%s\n", p.FeedMove, g.format(g.depth(start)), g.format(g.Settings.PlungeRate)))

	for i, s := range c {
		feed := ""
		if i == 0 {
			feed = " F" + g.format(g.Settings.FeedRate)
		}
		if s.arc != nil {
			cmd := p.ArcCW
			if s.ccw {
				cmd = p.ArcCCW
			}
			b.WriteString(fmt.Sprintf("%s X%s Y%s I%s J%s%s\n", cmd,
				g.format(s.to.X), g.format(s.to.Y),
				g.format(s.arc.Center.X-s.from.X), g.format(s.arc.Center.Y-s.from.Y), feed))
			continue
		}
		if s.to.Z != s.from.Z {
			b.WriteString(fmt.Sprintf("%s X%s Y%s Z%s%s\n", p.FeedMove,
				g.format(s.to.X), g.format(s.to.Y), g.format(g.depth(s.to)), feed))
			continue
		}
		b.WriteString(fmt.Sprintf("%s X%s Y%s%s\n", p.FeedMove, g.format(s.to.X), g.format(s.to.Y), feed))
	}

	b.WriteString(fmt.Sprintf("%s Z%s\n", p.RapidMove, g.format(g.Settings.SafeZ)))
	b.WriteString("\n")
}

// depth is the cutting Z for a wire point.
func (g *Generator) depth(pt model.Point3) float64 {
	return pt.Z - g.Settings.CutDepth
}

// comment wraps text in the profile's comment syntax.
func (g *Generator) comment(text string) string {
	return g.profile.CommentPrefix + " " + text + g.profile.CommentSuffix + "\n"
}

// format formats a coordinate according to the profile's decimal places.
func (g *Generator) format(v float64) string {
	format := fmt.Sprintf("%%.%df", g.profile.DecimalPlaces)
	return fmt.Sprintf(format, v)
}
