// Package fillet computes tangent circular blends for two-edge corners.
//
// The solver is pure: it takes a corner vertex and the far endpoints of its
// two edges and returns the trim points and arc center for a given radius.
// It performs no document I/O.
package fillet

import (
	"errors"
	"math"

	"github.com/piwi3910/FilletCorners/internal/model"
)

// Solver failures. All of them are recoverable per vertex.
var (
	ErrDegenerateEdge     = errors.New("degenerate edge: neighbor coincides with vertex")
	ErrCollinearEdges     = errors.New("collinear or coincident edges")
	ErrDegenerateMidpoint = errors.New("degenerate midpoint between trim points")
	ErrNumericOverflow    = errors.New("fillet geometry is not finite")
)

// angleEpsilon is how close to 0 or π the corner angle may come before the
// edges are treated as collinear.
const angleEpsilon = 1e-7

// Corner is a vertex with the far endpoints of its two adjacent edges.
type Corner struct {
	Vertex    model.VertexRef
	Position  model.Point3
	NeighborA model.Point3
	NeighborB model.Point3
}

// Arc describes a tangent fillet arc. Start lies on the edge toward
// NeighborA and End on the edge toward NeighborB.
type Arc struct {
	Start  model.Point3 `json:"start"`
	End    model.Point3 `json:"end"`
	Center model.Point3 `json:"center"`
	Apex   model.Point3 `json:"apex"` // point on the arc where it crosses the bisector
	Radius float64      `json:"radius"`
	Angle  float64      `json:"angle"` // corner angle θ in radians
	Trim   float64      `json:"trim"`  // distance from the vertex to each trim point

	// ExceedsEdge is set when Trim is longer than the shorter of the two
	// edges. The arc is still returned.
	ExceedsEdge bool `json:"exceeds_edge"`
}

// Sweep returns the angle subtended by the arc at its center, π − θ.
func (a Arc) Sweep() float64 {
	return math.Pi - a.Angle
}

// Solve computes the fillet arc of the given radius for corner c.
func Solve(c Corner, radius float64) (Arc, error) {
	p0 := c.Position

	d1, len1 := c.NeighborA.Sub(p0).Unit()
	d2, len2 := c.NeighborB.Sub(p0).Unit()
	if len1 == 0 || len2 == 0 {
		return Arc{}, ErrDegenerateEdge
	}

	theta := math.Acos(clamp(d1.Dot(d2), -1, 1))
	if theta < angleEpsilon || math.Pi-theta < angleEpsilon {
		return Arc{}, ErrCollinearEdges
	}

	half := theta / 2
	trim := radius / math.Tan(half)

	e1 := p0.Add(d1.Scale(trim))
	e2 := p0.Add(d2.Scale(trim))

	mid := e1.Mid(e2)
	toMid := mid.Sub(p0)
	l := toMid.Len()
	if l == 0 {
		return Arc{}, ErrDegenerateMidpoint
	}

	// The center sits s beyond M on the bisector; the apex of the arc sits
	// R short of the center.
	s := radius * math.Sin(half)
	bisector := toMid.Scale(1 / l)
	center := mid.Add(bisector.Scale(s))
	apex := mid.Add(bisector.Scale(s - radius))

	if !center.IsFinite() || !e1.IsFinite() || !e2.IsFinite() || !apex.IsFinite() {
		return Arc{}, ErrNumericOverflow
	}

	return Arc{
		Start:       e1,
		End:         e2,
		Center:      center,
		Apex:        apex,
		Radius:      radius,
		Angle:       theta,
		Trim:        trim,
		ExceedsEdge: trim > math.Min(len1, len2),
	}, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
