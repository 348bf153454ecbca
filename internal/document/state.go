package document

import (
	"fmt"

	"github.com/piwi3910/FilletCorners/internal/model"
)

// State is a self-contained copy of the document contents, suitable for
// undo snapshots and for saving to disk.
type State struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Units       model.Unit        `json:"units"`
	CurveFacets int               `json:"curve_facets"`
	NextID      model.ObjectID    `json:"next_id"`
	Vertices    []Vertex          `json:"vertices"`
	Edges       []Edge            `json:"edges"`
	Faces       []Face            `json:"faces"`
	Curves      []Curve           `json:"curves,omitempty"`
	Selection   []model.Selection `json:"selection,omitempty"`
}

// State returns a deep copy of the current contents.
func (d *Document) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state()
}

func (d *Document) state() State {
	s := State{
		ID:          d.id,
		Name:        d.name,
		Units:       d.units,
		CurveFacets: d.facets,
		NextID:      d.nextID,
		Vertices:    d.sortedVertices(),
		Edges:       d.sortedEdges(),
		Faces:       d.sortedFaces(),
		Curves:      d.sortedCurves(),
		Selection:   append([]model.Selection(nil), d.selection...),
	}
	for i := range s.Faces {
		s.Faces[i].Edges = append([]model.EdgeRef(nil), s.Faces[i].Edges...)
	}
	for i := range s.Curves {
		s.Curves[i].Edges = append([]model.EdgeRef(nil), s.Curves[i].Edges...)
	}
	return s
}

// restore replaces the contents with s, keeping the document identity.
func (d *Document) restore(s State) {
	d.reset()
	d.name = s.Name
	d.units = s.Units
	d.facets = s.CurveFacets
	d.nextID = s.NextID
	for _, v := range s.Vertices {
		d.vertices[v.ID] = v
	}
	for _, e := range s.Edges {
		d.edges[e.ID] = e
	}
	for _, f := range s.Faces {
		f.Edges = append([]model.EdgeRef(nil), f.Edges...)
		d.faces[f.ID] = f
	}
	for _, c := range s.Curves {
		c.Edges = append([]model.EdgeRef(nil), c.Edges...)
		d.curves[c.ID] = c
	}
	d.selection = append([]model.Selection(nil), s.Selection...)
}

// FromState builds a document from a saved state. References are checked so
// a corrupt file cannot produce dangling edges or faces.
func FromState(s State) (*Document, error) {
	if s.Units == "" {
		s.Units = model.UnitMillimeter
	}
	if !s.Units.Valid() {
		return nil, fmt.Errorf("unknown units %q", s.Units)
	}
	if s.CurveFacets < 1 {
		s.CurveFacets = 24
	}

	maxID := model.ObjectID(0)
	track := func(id model.ObjectID) {
		if id > maxID {
			maxID = id
		}
	}
	verts := make(map[model.VertexRef]bool, len(s.Vertices))
	for _, v := range s.Vertices {
		if !v.Pos.IsFinite() {
			return nil, fmt.Errorf("vertex %d has non-finite position: %w", v.ID, ErrDegenerate)
		}
		verts[v.ID] = true
		track(model.ObjectID(v.ID))
	}
	edges := make(map[model.EdgeRef]bool, len(s.Edges))
	for _, e := range s.Edges {
		if !verts[e.A] || !verts[e.B] {
			return nil, fmt.Errorf("edge %d references a missing vertex: %w", e.ID, ErrNotFound)
		}
		edges[e.ID] = true
		track(model.ObjectID(e.ID))
	}
	for _, f := range s.Faces {
		for _, e := range f.Edges {
			if !edges[e] {
				return nil, fmt.Errorf("face %d references missing edge %d: %w", f.ID, e, ErrNotFound)
			}
		}
		track(model.ObjectID(f.ID))
	}
	for _, c := range s.Curves {
		track(c.ID)
	}
	if s.NextID <= maxID {
		s.NextID = maxID + 1
	}

	d := New(s.Name)
	if s.ID != "" {
		d.id = s.ID
	}
	d.restore(s)

	sel := d.selection[:0]
	for _, item := range d.selection {
		if d.exists(item.Object) {
			sel = append(sel, item)
		}
	}
	d.selection = sel
	return d, nil
}
