package model

import (
	"fmt"
	"math"
)

// Point3 represents a 3D coordinate in document units. It is also used as a
// direction vector by the geometry code.
type Point3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Pt3 is shorthand for constructing a Point3.
func Pt3(x, y, z float64) Point3 {
	return Point3{X: x, Y: y, Z: z}
}

func (p Point3) Add(q Point3) Point3 {
	return Point3{X: p.X + q.X, Y: p.Y + q.Y, Z: p.Z + q.Z}
}

func (p Point3) Sub(q Point3) Point3 {
	return Point3{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}

func (p Point3) Scale(s float64) Point3 {
	return Point3{X: p.X * s, Y: p.Y * s, Z: p.Z * s}
}

func (p Point3) Dot(q Point3) float64 {
	return p.X*q.X + p.Y*q.Y + p.Z*q.Z
}

func (p Point3) Cross(q Point3) Point3 {
	return Point3{
		X: p.Y*q.Z - p.Z*q.Y,
		Y: p.Z*q.X - p.X*q.Z,
		Z: p.X*q.Y - p.Y*q.X,
	}
}

// Len returns the Euclidean length of p taken as a vector.
func (p Point3) Len() float64 {
	return math.Sqrt(p.Dot(p))
}

// Dist returns the distance between p and q.
func (p Point3) Dist(q Point3) float64 {
	return p.Sub(q).Len()
}

// Mid returns the midpoint of p and q.
func (p Point3) Mid(q Point3) Point3 {
	return Point3{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2, Z: (p.Z + q.Z) / 2}
}

// Unit returns p scaled to length 1 and the original length.
// A zero vector is returned unchanged with length 0.
func (p Point3) Unit() (Point3, float64) {
	l := p.Len()
	if l == 0 {
		return p, 0
	}
	return p.Scale(1 / l), l
}

// IsFinite reports whether every coordinate is a finite real number.
func (p Point3) IsFinite() bool {
	return isFinite(p.X) && isFinite(p.Y) && isFinite(p.Z)
}

// Near reports whether p and q are within tol of each other.
func (p Point3) Near(q Point3, tol float64) bool {
	return p.Dist(q) <= tol
}

func (p Point3) String() string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", p.X, p.Y, p.Z)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min, Max Point3
}

// BoundsOf returns the bounding box of pts and false when pts is empty.
func BoundsOf(pts []Point3) (Bounds, bool) {
	if len(pts) == 0 {
		return Bounds{}, false
	}
	b := Bounds{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		b.Min = Pt3(math.Min(b.Min.X, p.X), math.Min(b.Min.Y, p.Y), math.Min(b.Min.Z, p.Z))
		b.Max = Pt3(math.Max(b.Max.X, p.X), math.Max(b.Max.Y, p.Y), math.Max(b.Max.Z, p.Z))
	}
	return b, true
}

func (b Bounds) Width() float64  { return b.Max.X - b.Min.X }
func (b Bounds) Height() float64 { return b.Max.Y - b.Min.Y }

// FitXY returns the scale that fits the XY extent of b into a w×h area,
// never dividing by a zero extent.
func (b Bounds) FitXY(w, h float64) float64 {
	bw, bh := b.Width(), b.Height()
	if bw <= 0 && bh <= 0 {
		return 1
	}
	if bw <= 0 {
		return h / bh
	}
	if bh <= 0 {
		return w / bw
	}
	return math.Min(w/bw, h/bh)
}
