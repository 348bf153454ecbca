// Package selector expands a raw document selection into the vertices that
// can be filleted and the two edges to fillet each one with.
package selector

import (
	"context"
	"errors"
	"fmt"

	"github.com/piwi3910/FilletCorners/internal/host"
	"github.com/piwi3910/FilletCorners/internal/model"
)

var (
	// ErrNoSelection is returned when the selection is empty.
	ErrNoSelection = errors.New("nothing selected")

	// ErrNotCandidate marks a vertex that does not have exactly two usable edges.
	ErrNotCandidate = errors.New("not a fillet candidate")
)

// Policy decides which edges count toward a vertex's corner.
type Policy int

const (
	// PolicyComposite only blends with attached edges that are also part of
	// the selection. A vertex selected on its own falls back to its attached
	// edges.
	PolicyComposite Policy = iota

	// PolicyAttached requires every reachable vertex to have exactly two
	// attached edges, ignoring which edges were selected.
	PolicyAttached
)

func (p Policy) String() string {
	if p == PolicyAttached {
		return model.PolicyAttached
	}
	return model.PolicyComposite
}

// ParsePolicy converts a config policy name.
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case model.PolicyComposite, "":
		return PolicyComposite, nil
	case model.PolicyAttached:
		return PolicyAttached, nil
	default:
		return PolicyComposite, fmt.Errorf("unknown selection policy %q", name)
	}
}

// Candidate is a vertex that will be filleted using exactly two edges.
type Candidate struct {
	Vertex model.VertexRef
	Edges  [2]model.EdgeRef

	// Composite is false when the edges came from the vertex's attached set
	// rather than from the selection.
	Composite bool
	Depth     int
}

// Rejection is a vertex that cannot be filleted.
type Rejection struct {
	Vertex    model.VertexRef
	EdgeCount int // size of the edge set that disqualified it
	Depth     int
}

// Err describes why the vertex was rejected. It wraps ErrNotCandidate.
func (r Rejection) Err() error {
	return fmt.Errorf("vertex %d has %d usable edges: %w", r.Vertex, r.EdgeCount, ErrNotCandidate)
}

// Result is the outcome of resolving a selection, in first-seen vertex order.
type Result struct {
	Candidates []Candidate
	Rejected   []Rejection

	// AssociatedVertices and AssociatedEdges are the deduplicated sets the
	// selection expanded to.
	AssociatedVertices []model.VertexRef
	AssociatedEdges    []model.EdgeRef
}

// Select resolves sel against the document topology using policy.
func Select(ctx context.Context, topo host.Topology, sel []model.Selection, policy Policy) (Result, error) {
	if len(sel) == 0 {
		return Result{}, ErrNoSelection
	}

	var res Result
	seenV := make(map[model.VertexRef]bool)
	seenE := make(map[model.EdgeRef]bool)
	depth := make(map[model.VertexRef]int)

	for _, s := range sel {
		verts, err := topo.Vertices(ctx, s.Object)
		if err != nil {
			return Result{}, fmt.Errorf("resolving vertices of %s: %w", s.Object, err)
		}
		for _, v := range verts {
			if !seenV[v] {
				seenV[v] = true
				depth[v] = s.Depth
				res.AssociatedVertices = append(res.AssociatedVertices, v)
			}
		}

		edges, err := topo.Edges(ctx, s.Object, false)
		if err != nil {
			return Result{}, fmt.Errorf("resolving edges of %s: %w", s.Object, err)
		}
		for _, e := range edges {
			if !seenE[e] {
				seenE[e] = true
				res.AssociatedEdges = append(res.AssociatedEdges, e)
			}
		}
	}

	for _, v := range res.AssociatedVertices {
		attached, err := topo.Edges(ctx, v.Ref(), true)
		if err != nil {
			return Result{}, fmt.Errorf("resolving attached edges of vertex %d: %w", v, err)
		}

		edges, composite := resolveEdges(attached, seenE, policy)
		if len(edges) != 2 {
			res.Rejected = append(res.Rejected, Rejection{Vertex: v, EdgeCount: len(edges), Depth: depth[v]})
			continue
		}
		res.Candidates = append(res.Candidates, Candidate{
			Vertex:    v,
			Edges:     [2]model.EdgeRef{edges[0], edges[1]},
			Composite: composite,
			Depth:     depth[v],
		})
	}

	return res, nil
}

// resolveEdges picks the edge set a vertex is judged by. The bool reports
// whether the set is the composite one.
func resolveEdges(attached []model.EdgeRef, associated map[model.EdgeRef]bool, policy Policy) ([]model.EdgeRef, bool) {
	if policy == PolicyAttached {
		return attached, false
	}

	composite := CompositeEdges(attached, associated)
	if len(composite) == 0 {
		return attached, false
	}
	return composite, true
}

// CompositeEdges returns the attached edges that are also associated with
// the selection, in attached order.
func CompositeEdges(attached []model.EdgeRef, associated map[model.EdgeRef]bool) []model.EdgeRef {
	var out []model.EdgeRef
	for _, e := range attached {
		if associated[e] {
			out = append(out, e)
		}
	}
	return out
}
