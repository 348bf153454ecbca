// Package engine runs a fillet operation against a host document: it
// resolves the selection, solves each corner, asks the host for the arcs and
// reports one summary to the user.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/piwi3910/FilletCorners/internal/fillet"
	"github.com/piwi3910/FilletCorners/internal/host"
	"github.com/piwi3910/FilletCorners/internal/logging"
	"github.com/piwi3910/FilletCorners/internal/model"
	"github.com/piwi3910/FilletCorners/internal/selector"
)

// UndoLabel names the undo step a run is recorded under.
const UndoLabel = "Fillet Corner Plugin"

// DefaultCurveFacets is used when the host cannot report its facet setting.
const DefaultCurveFacets = 24

var (
	ErrInvalidRadius = errors.New("fillet radius must be a positive finite number")
	ErrMalformedEdge = errors.New("edge does not have two distinct endpoints")
)

// Params are the user inputs for one run.
type Params struct {
	Radius         float64
	DeleteOriginal bool
	Policy         selector.Policy
}

// ArcRecord is an arc created at a vertex.
type ArcRecord struct {
	Vertex model.VertexRef `json:"vertex"`
	Arc    fillet.Arc      `json:"arc"`
}

// Failure is a vertex that could not be filleted.
type Failure struct {
	Vertex model.VertexRef `json:"vertex"`
	Err    error           `json:"-"`
}

// Reason returns the failure message for reports.
func (f Failure) Reason() string {
	if f.Err == nil {
		return ""
	}
	return f.Err.Error()
}

// Tally is the outcome of one run.
type Tally struct {
	RunID     uuid.UUID
	Radius    float64
	Succeeded int
	Failed    int

	Filleted []model.VertexRef
	Arcs     []ArcRecord
	Failures []Failure

	// CleanupFailures counts original vertices that could not be deleted.
	// They do not affect Succeeded.
	CleanupFailures int
}

// Runner executes fillet runs against one document.
type Runner struct {
	doc      host.Document
	notifier host.Notifier
}

// New creates a Runner. A nil notifier discards notifications.
func New(doc host.Document, notifier host.Notifier) *Runner {
	if notifier == nil {
		notifier = host.NotifierFunc(func(context.Context, string, host.Severity) {})
	}
	return &Runner{doc: doc, notifier: notifier}
}

// ValidRadius reports whether r can be used as a fillet radius.
func ValidRadius(r float64) bool {
	return r > 0 && !math.IsInf(r, 0) && !math.IsNaN(r)
}

// plan is a vertex on its way through a run. err is set once the vertex has
// failed.
type plan struct {
	vertex model.VertexRef
	corner fillet.Corner
	err    error
}

// Run fillets every candidate corner in the current selection. Per-vertex
// problems are recorded in the Tally; the returned error is only set when
// the run as a whole could not proceed.
func (r *Runner) Run(ctx context.Context, p Params) (tally Tally, err error) {
	log := logging.Logger()
	tally = Tally{RunID: uuid.New(), Radius: p.Radius}
	log = log.With("run", tally.RunID.String())

	if !ValidRadius(p.Radius) {
		r.notifier.Notify(ctx, fmt.Sprintf("Enter a fillet radius greater than zero (got %v).", p.Radius), host.SeverityError)
		return tally, fmt.Errorf("radius %v: %w", p.Radius, ErrInvalidRadius)
	}

	sel, err := r.doc.Selection(ctx)
	if err != nil {
		r.notifier.Notify(ctx, FailureMessage, host.SeverityError)
		return tally, fmt.Errorf("reading selection: %w", err)
	}
	if len(sel) == 0 {
		r.notifier.Notify(ctx, NoSelectionMessage, host.SeverityInfo)
		return tally, selector.ErrNoSelection
	}

	if err := r.doc.BeginUndo(ctx); err != nil {
		r.notifier.Notify(ctx, FailureMessage, host.SeverityError)
		return tally, fmt.Errorf("starting undo transaction: %w", err)
	}
	defer func() {
		if endErr := r.doc.EndUndo(ctx, UndoLabel); endErr != nil {
			log.Error("closing undo transaction", "err", endErr)
			if err == nil {
				err = fmt.Errorf("closing undo transaction: %w", endErr)
			}
		}
	}()

	res, err := selector.Select(ctx, r.doc, sel, p.Policy)
	if err != nil {
		r.notifier.Notify(ctx, FailureMessage, host.SeverityError)
		return tally, fmt.Errorf("resolving selection: %w", err)
	}
	log.Debug("selection resolved",
		"vertices", len(res.AssociatedVertices),
		"edges", len(res.AssociatedEdges),
		"policy", p.Policy.String())

	facets, ferr := r.doc.CurveFacetCount(ctx)
	if ferr != nil || facets < 1 {
		log.Warn("curve facet count unavailable, using default", "err", ferr, "facets", DefaultCurveFacets)
		facets = DefaultCurveFacets
	}

	// Every corner is read before any arc is created, since creating an arc
	// may split the edges of neighboring corners.
	plans := planCorners(ctx, r.doc, res, log)

	for i := range plans {
		pl := &plans[i]
		if pl.err == nil {
			var arc fillet.Arc
			arc, pl.err = r.filletCorner(ctx, pl.corner, p.Radius, facets, log)
			if pl.err == nil {
				tally.Succeeded++
				tally.Filleted = append(tally.Filleted, pl.vertex)
				tally.Arcs = append(tally.Arcs, ArcRecord{Vertex: pl.vertex, Arc: arc})
				continue
			}
		}
		tally.Failed++
		tally.Failures = append(tally.Failures, Failure{Vertex: pl.vertex, Err: pl.err})
	}

	if p.DeleteOriginal {
		for _, v := range tally.Filleted {
			if err := r.doc.DeleteObject(ctx, v); err != nil {
				tally.CleanupFailures++
				log.Warn("could not delete original vertex", "vertex", v, "err", err)
			}
		}
	}

	msg, severity := Summary(tally)
	r.notifier.Notify(ctx, msg, severity)
	log.Info("fillet run finished",
		"succeeded", tally.Succeeded,
		"failed", tally.Failed,
		"cleanup_failures", tally.CleanupFailures,
		"radius", p.Radius)
	return tally, nil
}

func (r *Runner) filletCorner(ctx context.Context, c fillet.Corner, radius float64, facets int, log *slog.Logger) (fillet.Arc, error) {
	arc, err := fillet.Solve(c, radius)
	if err != nil {
		log.Info("fillet failed", "vertex", c.Vertex, "radius", radius, "reason", err)
		return fillet.Arc{}, fmt.Errorf("vertex %d: %w", c.Vertex, err)
	}
	if arc.ExceedsEdge {
		log.Warn("fillet trim is longer than an adjacent edge", "vertex", c.Vertex, "trim", arc.Trim, "radius", radius)
	}
	if err := r.doc.CreateArc(ctx, arc.Start, arc.End, arc.Center, facets); err != nil {
		log.Warn("host could not create arc", "vertex", c.Vertex, "err", err)
		return fillet.Arc{}, fmt.Errorf("creating arc at vertex %d: %w", c.Vertex, err)
	}
	return arc, nil
}

// planCorners turns the selector result into per-vertex plans in first-seen
// order, reading every corner's geometry from the document.
func planCorners(ctx context.Context, doc host.Document, res selector.Result, log *slog.Logger) []plan {
	candidates := make(map[model.VertexRef]selector.Candidate, len(res.Candidates))
	for _, c := range res.Candidates {
		candidates[c.Vertex] = c
	}
	rejected := make(map[model.VertexRef]selector.Rejection, len(res.Rejected))
	for _, rj := range res.Rejected {
		rejected[rj.Vertex] = rj
	}

	plans := make([]plan, 0, len(res.AssociatedVertices))
	for _, v := range res.AssociatedVertices {
		if rj, ok := rejected[v]; ok {
			log.Info("vertex is not a fillet candidate", "vertex", v, "edges", rj.EdgeCount)
			plans = append(plans, plan{vertex: v, err: rj.Err()})
			continue
		}
		c, ok := candidates[v]
		if !ok {
			continue
		}
		corner, err := readCorner(ctx, doc, c)
		if err != nil {
			log.Info("could not read corner", "vertex", v, "reason", err)
		} else {
			log.Debug("vertex will be filleted", "vertex", v, "edges", c.Edges)
		}
		plans = append(plans, plan{vertex: v, corner: corner, err: err})
	}
	return plans
}

func readCorner(ctx context.Context, doc host.Document, c selector.Candidate) (fillet.Corner, error) {
	pos, err := doc.VertexPosition(ctx, c.Vertex)
	if err != nil {
		return fillet.Corner{}, fmt.Errorf("vertex %d position: %w", c.Vertex, err)
	}
	var neighbors [2]model.Point3
	for i, e := range c.Edges {
		other, err := outerVertex(ctx, doc, e, c.Vertex)
		if err != nil {
			return fillet.Corner{}, err
		}
		if neighbors[i], err = doc.VertexPosition(ctx, other); err != nil {
			return fillet.Corner{}, fmt.Errorf("vertex %d position: %w", other, err)
		}
	}
	return fillet.Corner{
		Vertex:    c.Vertex,
		Position:  pos,
		NeighborA: neighbors[0],
		NeighborB: neighbors[1],
	}, nil
}

// outerVertex returns the endpoint of e that is not v.
func outerVertex(ctx context.Context, doc host.Topology, e model.EdgeRef, v model.VertexRef) (model.VertexRef, error) {
	ends, err := doc.Vertices(ctx, e.Ref())
	if err != nil {
		return 0, fmt.Errorf("edge %d endpoints: %w", e, err)
	}
	if len(ends) != 2 || ends[0] == ends[1] {
		return 0, fmt.Errorf("edge %d: %w", e, ErrMalformedEdge)
	}
	switch v {
	case ends[0]:
		return ends[1], nil
	case ends[1]:
		return ends[0], nil
	}
	return 0, fmt.Errorf("edge %d is not attached to vertex %d: %w", e, v, ErrMalformedEdge)
}
