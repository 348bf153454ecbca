package fillet

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/FilletCorners/internal/model"
)

const tol = 1e-9

func TestSolve_RightAngleCorner(t *testing.T) {
	c := Corner{
		Vertex:    1,
		Position:  model.Pt3(0, 0, 0),
		NeighborA: model.Pt3(10, 0, 0),
		NeighborB: model.Pt3(0, 10, 0),
	}

	arc, err := Solve(c, 2)
	require.NoError(t, err)

	assertPoint(t, model.Pt3(2, 0, 0), arc.Start)
	assertPoint(t, model.Pt3(0, 2, 0), arc.End)
	assertPoint(t, model.Pt3(2, 2, 0), arc.Center)
	assert.InDelta(t, math.Pi/2, arc.Angle, tol)
	assert.InDelta(t, 2.0, arc.Trim, tol)
	assert.InDelta(t, math.Pi/2, arc.Sweep(), tol)
	assert.False(t, arc.ExceedsEdge)

	// Apex is on the arc, on the bisector, between vertex and center.
	assert.InDelta(t, 2.0, arc.Apex.Dist(arc.Center), tol)
	assert.InDelta(t, 2*math.Sqrt2-2, arc.Apex.Dist(c.Position), tol)
}

func TestSolve_TiltedCornerIn3D(t *testing.T) {
	c := Corner{
		Position:  model.Pt3(1, 1, 1),
		NeighborA: model.Pt3(1, 11, 11),
		NeighborB: model.Pt3(11, 1, 1),
	}

	arc, err := Solve(c, 3)
	require.NoError(t, err)

	assert.InDelta(t, 3.0, arc.Center.Dist(arc.Start), tol)
	assert.InDelta(t, 3.0, arc.Center.Dist(arc.End), tol)

	// Center is in the corner's plane.
	normal := c.NeighborA.Sub(c.Position).Cross(c.NeighborB.Sub(c.Position))
	assert.InDelta(t, 0.0, arc.Center.Sub(c.Position).Dot(normal), 1e-6)
}

func TestSolve_CenterEquidistantAndTrimMatchesAngle(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		c := randomCorner(rng)
		radius := 0.1 + rng.Float64()*5

		arc, err := Solve(c, radius)
		if err != nil {
			continue
		}

		d1, _ := c.NeighborA.Sub(c.Position).Unit()
		d2, _ := c.NeighborB.Sub(c.Position).Unit()
		theta := math.Acos(d1.Dot(d2))
		want := radius / math.Tan(theta/2)

		scale := math.Max(1, want)
		assert.InDelta(t, want, arc.Start.Dist(c.Position), 1e-7*scale)
		assert.InDelta(t, want, arc.End.Dist(c.Position), 1e-7*scale)
		assert.InDelta(t, radius, arc.Center.Dist(arc.Start), 1e-7*scale)
		assert.InDelta(t, radius, arc.Center.Dist(arc.End), 1e-7*scale)

		// Tangency: the radius to each trim point is perpendicular to its edge.
		assert.InDelta(t, 0.0, arc.Center.Sub(arc.Start).Dot(d1), 1e-7*scale)
		assert.InDelta(t, 0.0, arc.Center.Sub(arc.End).Dot(d2), 1e-7*scale)
	}
}

func TestSolve_SwapNeighborsIsSymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		c := randomCorner(rng)
		swapped := c
		swapped.NeighborA, swapped.NeighborB = c.NeighborB, c.NeighborA

		a, errA := Solve(c, 1.5)
		b, errB := Solve(swapped, 1.5)
		require.Equal(t, errA, errB)
		if errA != nil {
			continue
		}

		assert.InDelta(t, a.Angle, b.Angle, tol)
		assertPointDelta(t, a.Center, b.Center, 1e-9*math.Max(1, a.Trim))
		assertPointDelta(t, a.Start, b.End, 1e-9*math.Max(1, a.Trim))
		assertPointDelta(t, a.End, b.Start, 1e-9*math.Max(1, a.Trim))
	}
}

func TestSolve_CollinearRejected(t *testing.T) {
	tests := []struct {
		name string
		c    Corner
	}{
		{"straight through", Corner{Position: model.Pt3(0, 0, 0), NeighborA: model.Pt3(5, 0, 0), NeighborB: model.Pt3(-5, 0, 0)}},
		{"straight diagonal", Corner{Position: model.Pt3(0, 0, 0), NeighborA: model.Pt3(1, 1, 1), NeighborB: model.Pt3(-2, -2, -2)}},
		{"overlapping", Corner{Position: model.Pt3(0, 0, 0), NeighborA: model.Pt3(5, 0, 0), NeighborB: model.Pt3(3, 0, 0)}},
		{"coincident neighbors", Corner{Position: model.Pt3(1, 2, 3), NeighborA: model.Pt3(4, 5, 6), NeighborB: model.Pt3(4, 5, 6)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Solve(tt.c, 2)
			assert.ErrorIs(t, err, ErrCollinearEdges)
		})
	}
}

func TestSolve_ZeroLengthEdgeRejected(t *testing.T) {
	c := Corner{Position: model.Pt3(3, 3, 0), NeighborA: model.Pt3(3, 3, 0), NeighborB: model.Pt3(0, 10, 0)}
	_, err := Solve(c, 2)
	assert.ErrorIs(t, err, ErrDegenerateEdge)

	c.NeighborA, c.NeighborB = c.NeighborB, c.NeighborA
	_, err = Solve(c, 2)
	assert.ErrorIs(t, err, ErrDegenerateEdge)
}

func TestSolve_ZeroRadiusHasNoMidpoint(t *testing.T) {
	c := Corner{Position: model.Pt3(0, 0, 0), NeighborA: model.Pt3(10, 0, 0), NeighborB: model.Pt3(0, 10, 0)}
	_, err := Solve(c, 0)
	assert.ErrorIs(t, err, ErrDegenerateMidpoint)
}

func TestSolve_NonFiniteRadius(t *testing.T) {
	c := Corner{Position: model.Pt3(0, 0, 0), NeighborA: model.Pt3(10, 0, 0), NeighborB: model.Pt3(0, 10, 0)}
	_, err := Solve(c, math.Inf(1))
	assert.ErrorIs(t, err, ErrNumericOverflow)

	_, err = Solve(c, math.NaN())
	assert.ErrorIs(t, err, ErrNumericOverflow)
}

func TestSolve_TrimLongerThanEdgeIsSoftWarning(t *testing.T) {
	// 20° corner: t = R / tan(10°) ≈ 5.67 R, longer than the 3-unit edge.
	a := 20 * math.Pi / 180
	c := Corner{
		Position:  model.Pt3(0, 0, 0),
		NeighborA: model.Pt3(3, 0, 0),
		NeighborB: model.Pt3(10*math.Cos(a), 10*math.Sin(a), 0),
	}
	arc, err := Solve(c, 1)
	require.NoError(t, err)
	assert.True(t, arc.ExceedsEdge)
	assert.InDelta(t, 1/math.Tan(a/2), arc.Trim, 1e-9)
}

func randomCorner(rng *rand.Rand) Corner {
	p := func() model.Point3 {
		return model.Pt3(rng.Float64()*20-10, rng.Float64()*20-10, rng.Float64()*20-10)
	}
	return Corner{Position: p(), NeighborA: p(), NeighborB: p()}
}

func assertPoint(t *testing.T, want, got model.Point3) {
	t.Helper()
	assertPointDelta(t, want, got, tol)
}

func assertPointDelta(t *testing.T, want, got model.Point3, delta float64) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, delta, "x")
	assert.InDelta(t, want.Y, got.Y, delta, "y")
	assert.InDelta(t, want.Z, got.Z, delta, "z")
}
