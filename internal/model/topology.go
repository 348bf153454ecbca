package model

import "fmt"

// ObjectID is an opaque handle to a document object. IDs share one
// namespace across vertices, edges and faces.
type ObjectID uint32

// ObjectKind discriminates the selectable object types.
type ObjectKind int

const (
	KindVertex ObjectKind = iota
	KindEdge
	KindFace
)

func (k ObjectKind) String() string {
	switch k {
	case KindVertex:
		return "Vertex"
	case KindEdge:
		return "Edge"
	case KindFace:
		return "Face"
	default:
		return "Unknown"
	}
}

// ObjectRef is a tagged reference to a vertex, edge or face.
type ObjectRef struct {
	Kind ObjectKind `json:"kind"`
	ID   ObjectID   `json:"id"`
}

func (r ObjectRef) String() string {
	return fmt.Sprintf("%s#%d", r.Kind, r.ID)
}

// VertexRef is a handle to a document vertex.
type VertexRef ObjectID

// Ref returns the tagged object reference for the vertex.
func (v VertexRef) Ref() ObjectRef { return ObjectRef{Kind: KindVertex, ID: ObjectID(v)} }

// EdgeRef is a handle to a document edge.
type EdgeRef ObjectID

// Ref returns the tagged object reference for the edge.
func (e EdgeRef) Ref() ObjectRef { return ObjectRef{Kind: KindEdge, ID: ObjectID(e)} }

// FaceRef is a handle to a document face.
type FaceRef ObjectID

// Ref returns the tagged object reference for the face.
func (f FaceRef) Ref() ObjectRef { return ObjectRef{Kind: KindFace, ID: ObjectID(f)} }

// Selection is one selected object together with the depth of the editing
// context it was selected in. Depth 0 is the top-level document.
type Selection struct {
	Object ObjectRef `json:"object"`
	Depth  int       `json:"depth"`
}

// Select is shorthand for a Selection at depth 0.
func Select(ref ObjectRef) Selection {
	return Selection{Object: ref}
}
