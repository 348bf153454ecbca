// Package host defines the document and user-feedback collaborators the
// fillet engine runs against.
package host

import (
	"context"

	"github.com/piwi3910/FilletCorners/internal/model"
)

// Severity classifies a user notification.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "Success"
	case SeverityError:
		return "Error"
	default:
		return "Information"
	}
}

// Topology answers read-only connectivity queries.
type Topology interface {
	// Vertices returns the vertices owned by obj: the vertex itself, the two
	// endpoints of an edge in order, or the boundary vertices of a face.
	Vertices(ctx context.Context, obj model.ObjectRef) ([]model.VertexRef, error)

	// Edges returns the edges owned by obj when attached is false: nothing
	// for a vertex, the edge itself, or the boundary edges of a face. With
	// attached set it returns the edges topologically attached to obj, which
	// for a vertex are its incident edges.
	Edges(ctx context.Context, obj model.ObjectRef, attached bool) ([]model.EdgeRef, error)
}

// Document is the mutable host document a fillet run operates on.
type Document interface {
	Topology

	Selection(ctx context.Context) ([]model.Selection, error)
	VertexPosition(ctx context.Context, v model.VertexRef) (model.Point3, error)

	// CurveFacetCount is the number of segments the host uses for a full circle.
	CurveFacetCount(ctx context.Context) (int, error)

	// CreateArc adds a circular arc from a to b about center.
	CreateArc(ctx context.Context, a, b, center model.Point3, facets int) error
	DeleteObject(ctx context.Context, v model.VertexRef) error

	BeginUndo(ctx context.Context) error
	EndUndo(ctx context.Context, label string) error
}

// Notifier shows feedback to the user.
type Notifier interface {
	Notify(ctx context.Context, message string, severity Severity)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, message string, severity Severity)

func (f NotifierFunc) Notify(ctx context.Context, message string, severity Severity) {
	f(ctx, message, severity)
}
