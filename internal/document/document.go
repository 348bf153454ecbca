// Package document provides an in-memory wireframe document that implements
// host.Document. It holds vertices, straight edges, planar faces and the
// faceted arcs created by fillet runs, with a bounded undo history.
package document

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/piwi3910/FilletCorners/internal/host"
	"github.com/piwi3910/FilletCorners/internal/model"
)

var _ host.Document = (*Document)(nil)

// Tolerance is the distance below which two points are the same point.
const Tolerance = 1e-6

var (
	ErrNotFound        = errors.New("object not found")
	ErrDegenerate      = errors.New("degenerate geometry")
	ErrInvalidArc      = errors.New("invalid arc")
	ErrTransactionOpen = errors.New("undo transaction already open")
	ErrNoTransaction   = errors.New("no undo transaction open")
)

// Vertex is a point in the wireframe.
type Vertex struct {
	ID  model.VertexRef `json:"id"`
	Pos model.Point3    `json:"pos"`
}

// Edge is a straight segment between two vertices. Curve is non-zero when
// the edge is a facet of an arc.
type Edge struct {
	ID    model.EdgeRef   `json:"id"`
	A     model.VertexRef `json:"a"`
	B     model.VertexRef `json:"b"`
	Curve model.ObjectID  `json:"curve,omitempty"`
}

// Other returns the endpoint of e that is not v.
func (e Edge) Other(v model.VertexRef) model.VertexRef {
	if e.A == v {
		return e.B
	}
	return e.A
}

// Face is a closed loop of edges.
type Face struct {
	ID    model.FaceRef   `json:"id"`
	Edges []model.EdgeRef `json:"edges"`
}

// Curve records an arc created in the document and the facet edges that
// approximate it.
type Curve struct {
	ID     model.ObjectID  `json:"id"`
	Start  model.Point3    `json:"start"`
	End    model.Point3    `json:"end"`
	Center model.Point3    `json:"center"`
	Radius float64         `json:"radius"`
	Edges  []model.EdgeRef `json:"edges"`
}

// Document is an in-memory wireframe. It is safe for concurrent use.
type Document struct {
	mu sync.Mutex

	id     string
	name   string
	units  model.Unit
	facets int
	nextID model.ObjectID

	vertices  map[model.VertexRef]Vertex
	edges     map[model.EdgeRef]Edge
	faces     map[model.FaceRef]Face
	curves    map[model.ObjectID]Curve
	selection []model.Selection

	history *History
	pending *State
}

// New creates an empty document.
func New(name string) *Document {
	d := &Document{
		id:      uuid.New().String(),
		name:    name,
		units:   model.UnitMillimeter,
		facets:  24,
		history: NewHistory(),
	}
	d.reset()
	return d
}

func (d *Document) reset() {
	d.nextID = 1
	d.vertices = make(map[model.VertexRef]Vertex)
	d.edges = make(map[model.EdgeRef]Edge)
	d.faces = make(map[model.FaceRef]Face)
	d.curves = make(map[model.ObjectID]Curve)
	d.selection = nil
}

func (d *Document) ID() string { return d.id }

func (d *Document) Name() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.name
}

func (d *Document) Units() model.Unit {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.units
}

func (d *Document) SetUnits(u model.Unit) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.units = u
}

// SetCurveFacets sets the number of segments used for a full circle.
func (d *Document) SetCurveFacets(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n < 1 {
		n = 1
	}
	d.facets = n
}

func (d *Document) alloc() model.ObjectID {
	id := d.nextID
	d.nextID++
	return id
}

// ─── Building ──────────────────────────────────────────────

// AddVertex adds a vertex at p.
func (d *Document) AddVertex(p model.Point3) model.VertexRef {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.addVertex(p)
}

func (d *Document) addVertex(p model.Point3) model.VertexRef {
	v := model.VertexRef(d.alloc())
	d.vertices[v] = Vertex{ID: v, Pos: p}
	return v
}

// MergeVertex returns an existing vertex within tol of p, or adds one.
func (d *Document) MergeVertex(p model.Point3, tol float64) model.VertexRef {
	d.mu.Lock()
	defer d.mu.Unlock()
	if v, ok := d.findVertex(p, tol); ok {
		return v
	}
	return d.addVertex(p)
}

func (d *Document) findVertex(p model.Point3, tol float64) (model.VertexRef, bool) {
	best, found := model.VertexRef(0), false
	bestDist := tol
	for _, v := range d.sortedVertices() {
		if dist := v.Pos.Dist(p); dist <= bestDist {
			best, bestDist, found = v.ID, dist, true
		}
	}
	return best, found
}

// AddEdge connects a and b. An existing edge between the same pair is reused.
func (d *Document) AddEdge(a, b model.VertexRef) (model.EdgeRef, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.addEdge(a, b, 0)
}

func (d *Document) addEdge(a, b model.VertexRef, curve model.ObjectID) (model.EdgeRef, error) {
	va, okA := d.vertices[a]
	vb, okB := d.vertices[b]
	if !okA || !okB {
		return 0, fmt.Errorf("edge %d-%d: %w", a, b, ErrNotFound)
	}
	if a == b || va.Pos.Near(vb.Pos, Tolerance) {
		return 0, fmt.Errorf("edge %d-%d has zero length: %w", a, b, ErrDegenerate)
	}
	for _, e := range d.edges {
		if (e.A == a && e.B == b) || (e.A == b && e.B == a) {
			return e.ID, nil
		}
	}
	e := model.EdgeRef(d.alloc())
	d.edges[e] = Edge{ID: e, A: a, B: b, Curve: curve}
	return e, nil
}

// AddFace adds a face bounded by the closed loop of vertices.
func (d *Document) AddFace(loop []model.VertexRef) (model.FaceRef, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(loop) < 3 {
		return 0, fmt.Errorf("face needs at least 3 vertices, got %d: %w", len(loop), ErrDegenerate)
	}
	edges := make([]model.EdgeRef, 0, len(loop))
	for i := range loop {
		e, err := d.addEdge(loop[i], loop[(i+1)%len(loop)], 0)
		if err != nil {
			return 0, err
		}
		edges = append(edges, e)
	}
	f := model.FaceRef(d.alloc())
	d.faces[f] = Face{ID: f, Edges: edges}
	return f, nil
}

// ─── Selection ─────────────────────────────────────────────

// Select replaces the selection with refs at depth 0.
func (d *Document) Select(refs ...model.ObjectRef) error {
	sel := make([]model.Selection, len(refs))
	for i, r := range refs {
		sel[i] = model.Select(r)
	}
	return d.SetSelection(sel)
}

// SetSelection replaces the selection. Every object must exist.
func (d *Document) SetSelection(sel []model.Selection) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, s := range sel {
		if !d.exists(s.Object) {
			return fmt.Errorf("select %s: %w", s.Object, ErrNotFound)
		}
	}
	d.selection = append([]model.Selection(nil), sel...)
	return nil
}

// SelectAll selects every object of kind.
func (d *Document) SelectAll(kind model.ObjectKind) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.selection = nil
	switch kind {
	case model.KindVertex:
		for _, v := range d.sortedVertices() {
			d.selection = append(d.selection, model.Select(v.ID.Ref()))
		}
	case model.KindEdge:
		for _, e := range d.sortedEdges() {
			d.selection = append(d.selection, model.Select(e.ID.Ref()))
		}
	case model.KindFace:
		for _, f := range d.sortedFaces() {
			d.selection = append(d.selection, model.Select(f.ID.Ref()))
		}
	}
}

func (d *Document) ClearSelection() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.selection = nil
}

func (d *Document) exists(r model.ObjectRef) bool {
	switch r.Kind {
	case model.KindVertex:
		_, ok := d.vertices[model.VertexRef(r.ID)]
		return ok
	case model.KindEdge:
		_, ok := d.edges[model.EdgeRef(r.ID)]
		return ok
	case model.KindFace:
		_, ok := d.faces[model.FaceRef(r.ID)]
		return ok
	}
	return false
}

// ─── Views ─────────────────────────────────────────────────

// VertexList returns all vertices ordered by ID.
func (d *Document) VertexList() []Vertex {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sortedVertices()
}

// EdgeList returns all edges ordered by ID.
func (d *Document) EdgeList() []Edge {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sortedEdges()
}

// FaceList returns all faces ordered by ID.
func (d *Document) FaceList() []Face {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.sortedFaces()
	for i := range out {
		out[i].Edges = append([]model.EdgeRef(nil), out[i].Edges...)
	}
	return out
}

// CurveList returns all arcs ordered by ID.
func (d *Document) CurveList() []Curve {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.sortedCurves()
	for i := range out {
		out[i].Edges = append([]model.EdgeRef(nil), out[i].Edges...)
	}
	return out
}

// Segment returns the endpoint positions of e.
func (d *Document) Segment(e model.EdgeRef) (model.Point3, model.Point3, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	edge, ok := d.edges[e]
	if !ok {
		return model.Point3{}, model.Point3{}, false
	}
	return d.vertices[edge.A].Pos, d.vertices[edge.B].Pos, true
}

// SelectedVertices returns the positions of directly selected vertices.
func (d *Document) SelectedVertices() []model.Point3 {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []model.Point3
	for _, s := range d.selection {
		if s.Object.Kind == model.KindVertex {
			if v, ok := d.vertices[model.VertexRef(s.Object.ID)]; ok {
				out = append(out, v.Pos)
			}
		}
	}
	return out
}

func (d *Document) sortedVertices() []Vertex {
	out := make([]Vertex, 0, len(d.vertices))
	for _, v := range d.vertices {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (d *Document) sortedEdges() []Edge {
	out := make([]Edge, 0, len(d.edges))
	for _, e := range d.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (d *Document) sortedFaces() []Face {
	out := make([]Face, 0, len(d.faces))
	for _, f := range d.faces {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (d *Document) sortedCurves() []Curve {
	out := make([]Curve, 0, len(d.curves))
	for _, c := range d.curves {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// faceVertices walks the face loop and returns its vertices in order.
func (d *Document) faceVertices(f Face) []model.VertexRef {
	if len(f.Edges) == 0 {
		return nil
	}
	out := make([]model.VertexRef, 0, len(f.Edges))
	cur := d.loopStart(f)
	for _, eid := range f.Edges {
		out = append(out, cur)
		cur = d.edges[eid].Other(cur)
	}
	return out
}

// ─── host.Document ─────────────────────────────────────────

func (d *Document) Selection(ctx context.Context) ([]model.Selection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]model.Selection(nil), d.selection...), nil
}

func (d *Document) Vertices(ctx context.Context, obj model.ObjectRef) ([]model.VertexRef, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch obj.Kind {
	case model.KindVertex:
		if _, ok := d.vertices[model.VertexRef(obj.ID)]; ok {
			return []model.VertexRef{model.VertexRef(obj.ID)}, nil
		}
	case model.KindEdge:
		if e, ok := d.edges[model.EdgeRef(obj.ID)]; ok {
			return []model.VertexRef{e.A, e.B}, nil
		}
	case model.KindFace:
		if f, ok := d.faces[model.FaceRef(obj.ID)]; ok {
			return d.faceVertices(f), nil
		}
	}
	return nil, fmt.Errorf("%s: %w", obj, ErrNotFound)
}

func (d *Document) Edges(ctx context.Context, obj model.ObjectRef, attached bool) ([]model.EdgeRef, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch obj.Kind {
	case model.KindVertex:
		v := model.VertexRef(obj.ID)
		if _, ok := d.vertices[v]; !ok {
			break
		}
		if !attached {
			return nil, nil
		}
		var out []model.EdgeRef
		for _, e := range d.sortedEdges() {
			if e.A == v || e.B == v {
				out = append(out, e.ID)
			}
		}
		return out, nil
	case model.KindEdge:
		if _, ok := d.edges[model.EdgeRef(obj.ID)]; ok {
			return []model.EdgeRef{model.EdgeRef(obj.ID)}, nil
		}
	case model.KindFace:
		if f, ok := d.faces[model.FaceRef(obj.ID)]; ok {
			return append([]model.EdgeRef(nil), f.Edges...), nil
		}
	}
	return nil, fmt.Errorf("%s: %w", obj, ErrNotFound)
}

func (d *Document) VertexPosition(ctx context.Context, v model.VertexRef) (model.Point3, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	vert, ok := d.vertices[v]
	if !ok {
		return model.Point3{}, fmt.Errorf("vertex %d: %w", v, ErrNotFound)
	}
	return vert.Pos, nil
}

func (d *Document) CurveFacetCount(ctx context.Context) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.facets, nil
}

// DeleteObject removes vertex v together with its incident edges and any
// face bounded by one of them.
func (d *Document) DeleteObject(ctx context.Context, v model.VertexRef) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.vertices[v]; !ok {
		return fmt.Errorf("delete vertex %d: %w", v, ErrNotFound)
	}

	removed := make(map[model.EdgeRef]bool)
	for id, e := range d.edges {
		if e.A == v || e.B == v {
			removed[id] = true
			delete(d.edges, id)
		}
	}
	removedFaces := make(map[model.FaceRef]bool)
	for id, f := range d.faces {
		for _, e := range f.Edges {
			if removed[e] {
				removedFaces[id] = true
				delete(d.faces, id)
				break
			}
		}
	}
	for id, c := range d.curves {
		kept := c.Edges[:0:0]
		for _, e := range c.Edges {
			if !removed[e] {
				kept = append(kept, e)
			}
		}
		if len(kept) == 0 {
			delete(d.curves, id)
			continue
		}
		c.Edges = kept
		d.curves[id] = c
	}
	delete(d.vertices, v)

	sel := d.selection[:0:0]
	for _, s := range d.selection {
		switch {
		case s.Object == v.Ref():
		case s.Object.Kind == model.KindEdge && removed[model.EdgeRef(s.Object.ID)]:
		case s.Object.Kind == model.KindFace && removedFaces[model.FaceRef(s.Object.ID)]:
		default:
			sel = append(sel, s)
		}
	}
	d.selection = sel
	return nil
}

// ─── Undo ──────────────────────────────────────────────────

// BeginUndo opens a transaction. Changes until EndUndo form one undo step.
func (d *Document) BeginUndo(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != nil {
		return ErrTransactionOpen
	}
	s := d.state()
	d.pending = &s
	return nil
}

// EndUndo closes the open transaction and records it under label.
func (d *Document) EndUndo(ctx context.Context, label string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending == nil {
		return ErrNoTransaction
	}
	d.history.Push(Snapshot{State: *d.pending, Label: label})
	d.pending = nil
	return nil
}

// Undo restores the state before the most recent transaction. It reports
// false when there is nothing to undo or a transaction is open.
func (d *Document) Undo() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != nil {
		return "", false
	}
	snap, ok := d.history.Undo(Snapshot{State: d.state()})
	if !ok {
		return "", false
	}
	d.restore(snap.State)
	return snap.Label, true
}

// Redo reapplies the most recently undone transaction.
func (d *Document) Redo() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != nil {
		return "", false
	}
	snap, ok := d.history.Redo(Snapshot{State: d.state()})
	if !ok {
		return "", false
	}
	d.restore(snap.State)
	return snap.Label, true
}

func (d *Document) CanUndo() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending == nil && d.history.CanUndo()
}

func (d *Document) CanRedo() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending == nil && d.history.CanRedo()
}
