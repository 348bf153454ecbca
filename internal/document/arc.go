package document

import (
	"context"
	"fmt"
	"math"

	"github.com/piwi3910/FilletCorners/internal/model"
)

// CreateArc adds a circular arc from a to b about center, approximated by
// straight facet edges. facets is the segment count for a full circle; the
// arc gets its proportional share, at least one. An arc endpoint that lies on
// an existing edge splits that edge so the arc is connected to the wireframe.
func (d *Document) CreateArc(ctx context.Context, a, b, center model.Point3, facets int) error {
	if !a.IsFinite() || !b.IsFinite() || !center.IsFinite() {
		return fmt.Errorf("arc has non-finite points: %w", ErrInvalidArc)
	}
	points, err := tessellate(a, b, center, facets)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	curve := d.alloc()
	refs := make([]model.VertexRef, len(points))
	refs[0] = d.attach(points[0])
	refs[len(refs)-1] = d.attach(points[len(points)-1])
	for i := 1; i < len(points)-1; i++ {
		refs[i] = d.addVertex(points[i])
	}

	edges := make([]model.EdgeRef, 0, len(refs)-1)
	for i := 0; i+1 < len(refs); i++ {
		e, err := d.addEdge(refs[i], refs[i+1], curve)
		if err != nil {
			return fmt.Errorf("arc facet %d: %w", i, err)
		}
		edges = append(edges, e)
	}
	d.curves[curve] = Curve{
		ID:     curve,
		Start:  a,
		End:    b,
		Center: center,
		Radius: a.Dist(center),
		Edges:  edges,
	}
	return nil
}

// tessellate returns the facet points of the minor arc from a to b, with
// the first and last points exactly a and b.
func tessellate(a, b, center model.Point3, facets int) ([]model.Point3, error) {
	ra := a.Sub(center)
	rb := b.Sub(center)
	r := ra.Len()
	if r <= Tolerance {
		return nil, fmt.Errorf("arc radius %g too small: %w", r, ErrInvalidArc)
	}
	if math.Abs(rb.Len()-r) > Tolerance*math.Max(1, r) {
		return nil, fmt.Errorf("arc endpoints are not equidistant from the center (%g vs %g): %w", r, rb.Len(), ErrInvalidArc)
	}
	if a.Dist(b) <= Tolerance {
		return nil, fmt.Errorf("arc endpoints coincide: %w", ErrInvalidArc)
	}

	u := ra.Scale(1 / r)
	w, wl := rb.Sub(u.Scale(rb.Dot(u))).Unit()
	if wl <= Tolerance*r {
		return nil, fmt.Errorf("arc endpoints are opposite, plane is undefined: %w", ErrInvalidArc)
	}
	sweep := math.Atan2(rb.Dot(w), rb.Dot(u))

	if facets < 1 {
		facets = 1
	}
	n := int(math.Ceil(float64(facets)*sweep/(2*math.Pi) - 1e-9))
	if n < 1 {
		n = 1
	}
	for n > 1 && 2*r*math.Sin(sweep/float64(2*n)) <= 2*Tolerance {
		n--
	}

	points := make([]model.Point3, n+1)
	points[0] = a
	points[n] = b
	for i := 1; i < n; i++ {
		t := sweep * float64(i) / float64(n)
		points[i] = center.Add(u.Scale(r * math.Cos(t))).Add(w.Scale(r * math.Sin(t)))
	}
	return points, nil
}

// attach returns a vertex at p, reusing a coincident vertex or splitting an
// edge that passes through p.
func (d *Document) attach(p model.Point3) model.VertexRef {
	if v, ok := d.findVertex(p, Tolerance); ok {
		return v
	}
	v := d.addVertex(p)
	for _, e := range d.sortedEdges() {
		if onSegment(p, d.vertices[e.A].Pos, d.vertices[e.B].Pos) {
			d.splitEdge(e, v)
			break
		}
	}
	return v
}

func onSegment(p, a, b model.Point3) bool {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return false
	}
	t := p.Sub(a).Dot(ab) / l2
	if t <= 0 || t >= 1 {
		return false
	}
	return a.Add(ab.Scale(t)).Dist(p) <= Tolerance
}

// splitEdge replaces e with two edges meeting at v, keeping every face loop
// and curve that used e contiguous.
func (d *Document) splitEdge(e Edge, v model.VertexRef) {
	first := model.EdgeRef(d.alloc())
	second := model.EdgeRef(d.alloc())
	d.edges[first] = Edge{ID: first, A: e.A, B: v, Curve: e.Curve}
	d.edges[second] = Edge{ID: second, A: v, B: e.B, Curve: e.Curve}

	for id, f := range d.faces {
		for i, eid := range f.Edges {
			if eid != e.ID {
				continue
			}
			pair := []model.EdgeRef{first, second}
			if d.loopEntry(f, i) == e.B {
				pair = []model.EdgeRef{second, first}
			}
			loop := make([]model.EdgeRef, 0, len(f.Edges)+1)
			loop = append(loop, f.Edges[:i]...)
			loop = append(loop, pair...)
			loop = append(loop, f.Edges[i+1:]...)
			f.Edges = loop
			d.faces[id] = f
			break
		}
	}
	delete(d.edges, e.ID)

	if c, ok := d.curves[e.Curve]; ok {
		for i, eid := range c.Edges {
			if eid == e.ID {
				c.Edges = append(c.Edges[:i:i], append([]model.EdgeRef{first, second}, c.Edges[i+1:]...)...)
				d.curves[c.ID] = c
				break
			}
		}
	}
	for i, s := range d.selection {
		if s.Object == e.ID.Ref() {
			d.selection[i].Object = first.Ref()
			d.selection = append(d.selection, model.Selection{Object: second.Ref(), Depth: s.Depth})
			break
		}
	}
}

// loopStart returns the vertex a face loop starts from: the endpoint of its
// first edge that is not shared with the second.
func (d *Document) loopStart(f Face) model.VertexRef {
	first := d.edges[f.Edges[0]]
	if len(f.Edges) > 1 {
		next := d.edges[f.Edges[1]]
		if first.A == next.A || first.A == next.B {
			return first.B
		}
	}
	return first.A
}

// loopEntry returns the vertex at which the walk of f enters edge i. The
// edges before i must all still exist.
func (d *Document) loopEntry(f Face, i int) model.VertexRef {
	cur := d.loopStart(f)
	for _, eid := range f.Edges[:i] {
		cur = d.edges[eid].Other(cur)
	}
	return cur
}
