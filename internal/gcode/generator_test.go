package gcode

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/FilletCorners/internal/document"
	"github.com/piwi3910/FilletCorners/internal/engine"
	"github.com/piwi3910/FilletCorners/internal/model"
)

func newTestSettings() model.ToolpathSettings {
	s := model.DefaultToolpathSettings()
	s.FeedRate = 1000
	s.PlungeRate = 300
	s.SpindleSpeed = 12000
	s.SafeZ = 5
	s.CutDepth = 1
	s.GCodeProfile = "Generic"
	return s
}

// roundedRect returns a 40x20 rectangle with R3 fillets on every corner.
func roundedRect(t *testing.T) *document.Document {
	t.Helper()
	doc := document.New("bracket")
	var loop []model.VertexRef
	for _, p := range []model.Point3{model.Pt3(0, 0, 0), model.Pt3(40, 0, 0), model.Pt3(40, 20, 0), model.Pt3(0, 20, 0)} {
		loop = append(loop, doc.AddVertex(p))
	}
	face, err := doc.AddFace(loop)
	require.NoError(t, err)
	require.NoError(t, doc.Select(face.Ref()))

	tally, err := engine.New(doc, nil).Run(context.Background(), engine.Params{Radius: 3, DeleteOriginal: true})
	require.NoError(t, err)
	require.Equal(t, 4, tally.Succeeded)
	return doc
}

func countMoves(moves []Move) map[MoveType]int {
	counts := map[MoveType]int{}
	for _, m := range moves {
		counts[m.Type]++
	}
	return counts
}

func TestGenerate_RoundedRectangle(t *testing.T) {
	code := New(newTestSettings()).Generate(roundedRect(t))

	assert.Contains(t, code, "; FilletCorners GCode - bracket")
	assert.Contains(t, code, "M3 S12000")
	assert.Equal(t, 1, strings.Count(code, "--- Path"), "connected wireframe is cut as one path")

	moves := ParseGCode(code)
	counts := countMoves(moves)
	assert.Equal(t, 4, counts[MoveFeed])
	assert.Equal(t, 4, counts[MoveArcCW]+counts[MoveArcCCW])
	assert.True(t, counts[MoveArcCW] == 0 || counts[MoveArcCCW] == 0, "all corners turn the same way")
	assert.Equal(t, 1, counts[MovePlunge])

	want := 2*34.0 + 2*14.0 + 2*math.Pi*3
	assert.InDelta(t, want, CuttingLength(moves), 0.01)

	// The path closes on its start point.
	var first, last Move
	for _, m := range moves {
		if m.Type == MovePlunge {
			first = m
		}
		if m.Type == MoveFeed || m.Type == MoveArcCW || m.Type == MoveArcCCW {
			last = m
		}
	}
	assert.InDelta(t, first.ToX, last.ToX, 1e-3)
	assert.InDelta(t, first.ToY, last.ToY, 1e-3)
	assert.InDelta(t, -1.0, first.ToZ, 1e-9)
}

func TestGenerate_ArcOffsetsPointAtCenter(t *testing.T) {
	moves := ParseGCode(New(newTestSettings()).Generate(roundedRect(t)))
	for _, m := range moves {
		if m.Type != MoveArcCW && m.Type != MoveArcCCW {
			continue
		}
		cx, cy := m.FromX+m.I, m.FromY+m.J
		assert.InDelta(t, 3.0, math.Hypot(m.FromX-cx, m.FromY-cy), 1e-3)
		assert.InDelta(t, 3.0, math.Hypot(m.ToX-cx, m.ToY-cy), 1e-3)
		assert.InDelta(t, 3*math.Pi/2, m.Length(), 1e-2)
	}
}

func TestGenerate_SeparatePaths(t *testing.T) {
	doc := document.New("lines")
	a := doc.AddVertex(model.Pt3(0, 0, 0))
	b := doc.AddVertex(model.Pt3(10, 0, 0))
	c := doc.AddVertex(model.Pt3(0, 5, 0))
	d := doc.AddVertex(model.Pt3(10, 5, 2))
	_, err := doc.AddEdge(a, b)
	require.NoError(t, err)
	_, err = doc.AddEdge(c, d)
	require.NoError(t, err)

	code := New(newTestSettings()).Generate(doc)
	assert.Equal(t, 2, strings.Count(code, "--- Path"))
	assert.Contains(t, code, "G1 X10.000 Y5.000 Z1.000", "3D edge keeps its depth below the wire")
}

func TestGenerate_Profiles(t *testing.T) {
	doc := roundedRect(t)

	s := newTestSettings()
	s.GCodeProfile = "LinuxCNC"
	code := New(s).Generate(doc)
	assert.Contains(t, code, "( FilletCorners GCode - bracket)")
	assert.Contains(t, code, "G94")
	assert.Contains(t, code, "X3.0000", "LinuxCNC uses four decimal places")

	s.GCodeProfile = "Mach3"
	assert.Contains(t, New(s).Generate(doc), "M30")

	s.GCodeProfile = "no-such-controller"
	g := New(s)
	assert.Equal(t, "Generic", g.profile.Name)
	assert.True(t, strings.HasSuffix(g.Generate(doc), "M2\nM5\n"))
}

func TestGenerate_FooterSafeZ(t *testing.T) {
	code := New(newTestSettings()).Generate(roundedRect(t))
	assert.Contains(t, code, "G0 Z5.000\nG0 X0 Y0\nM2\n")
	assert.NotContains(t, code, "[SafeZ]")
}

func TestChain_ReversesSegments(t *testing.T) {
	segs := []segment{
		{from: model.Pt3(0, 0, 0), to: model.Pt3(1, 0, 0)},
		{from: model.Pt3(2, 0, 0), to: model.Pt3(1, 0, 0)},
		{from: model.Pt3(5, 5, 0), to: model.Pt3(6, 5, 0)},
	}
	chains := chain(segs)
	require.Len(t, chains, 2)
	require.Len(t, chains[0], 2)
	assert.Equal(t, model.Pt3(1, 0, 0), chains[0][1].from)
	assert.Equal(t, model.Pt3(2, 0, 0), chains[0][1].to)
}
