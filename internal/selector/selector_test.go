package selector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/FilletCorners/internal/document"
	"github.com/piwi3910/FilletCorners/internal/model"
)

type fixture struct {
	doc   *document.Document
	face  model.FaceRef
	v     [4]model.VertexRef
	edges []model.EdgeRef
}

// newSquare builds a 10x10 face. With spur set, v[0] also gets a third edge
// leading away from the face.
func newSquare(t *testing.T, spur bool) fixture {
	t.Helper()
	d := document.New("selector")
	var f fixture
	f.doc = d
	for i, p := range []model.Point3{model.Pt3(0, 0, 0), model.Pt3(10, 0, 0), model.Pt3(10, 10, 0), model.Pt3(0, 10, 0)} {
		f.v[i] = d.AddVertex(p)
	}
	face, err := d.AddFace(f.v[:])
	require.NoError(t, err)
	f.face = face
	f.edges, err = d.Edges(context.Background(), face.Ref(), false)
	require.NoError(t, err)
	if spur {
		tip := d.AddVertex(model.Pt3(-5, -5, 0))
		_, err := d.AddEdge(f.v[0], tip)
		require.NoError(t, err)
	}
	return f
}

func candidateVertices(res Result) []model.VertexRef {
	var out []model.VertexRef
	for _, c := range res.Candidates {
		out = append(out, c.Vertex)
	}
	return out
}

func TestSelectEmpty(t *testing.T) {
	f := newSquare(t, false)
	_, err := Select(context.Background(), f.doc, nil, PolicyComposite)
	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestSelectFace(t *testing.T) {
	f := newSquare(t, false)
	res, err := Select(context.Background(), f.doc, []model.Selection{model.Select(f.face.Ref())}, PolicyComposite)
	require.NoError(t, err)

	assert.Equal(t, f.v[:], candidateVertices(res))
	assert.Empty(t, res.Rejected)
	assert.ElementsMatch(t, f.edges, res.AssociatedEdges)
	for _, c := range res.Candidates {
		assert.True(t, c.Composite)
		assert.NotEqual(t, c.Edges[0], c.Edges[1])
	}
}

func TestSelectLoneVertexFallsBackToAttached(t *testing.T) {
	f := newSquare(t, false)
	res, err := Select(context.Background(), f.doc, []model.Selection{model.Select(f.v[2].Ref())}, PolicyComposite)
	require.NoError(t, err)

	require.Len(t, res.Candidates, 1)
	assert.Equal(t, f.v[2], res.Candidates[0].Vertex)
	assert.False(t, res.Candidates[0].Composite)
}

func TestSelectVertexWithThreeEdges(t *testing.T) {
	f := newSquare(t, true)
	res, err := Select(context.Background(), f.doc, []model.Selection{model.Select(f.v[0].Ref())}, PolicyComposite)
	require.NoError(t, err)

	assert.Empty(t, res.Candidates)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, f.v[0], res.Rejected[0].Vertex)
	assert.Equal(t, 3, res.Rejected[0].EdgeCount)
	assert.ErrorIs(t, res.Rejected[0].Err(), ErrNotCandidate)
}

func TestSelectFaceWithSpur(t *testing.T) {
	f := newSquare(t, true)
	sel := []model.Selection{model.Select(f.face.Ref())}

	composite, err := Select(context.Background(), f.doc, sel, PolicyComposite)
	require.NoError(t, err)
	assert.Equal(t, f.v[:], candidateVertices(composite), "spur edge is not part of the selection")

	attached, err := Select(context.Background(), f.doc, sel, PolicyAttached)
	require.NoError(t, err)
	assert.Equal(t, f.v[1:], candidateVertices(attached))
	require.Len(t, attached.Rejected, 1)
	assert.Equal(t, f.v[0], attached.Rejected[0].Vertex)
	assert.Equal(t, 3, attached.Rejected[0].EdgeCount)
}

func TestSelectSingleEdge(t *testing.T) {
	f := newSquare(t, false)
	sel := []model.Selection{model.Select(f.edges[0].Ref())}

	res, err := Select(context.Background(), f.doc, sel, PolicyComposite)
	require.NoError(t, err)
	assert.Empty(t, res.Candidates)
	require.Len(t, res.Rejected, 2)
	for _, r := range res.Rejected {
		assert.Equal(t, 1, r.EdgeCount)
	}

	res, err = Select(context.Background(), f.doc, sel, PolicyAttached)
	require.NoError(t, err)
	assert.Equal(t, []model.VertexRef{f.v[0], f.v[1]}, candidateVertices(res))
}

func TestSelectConnectedEdges(t *testing.T) {
	f := newSquare(t, false)
	sel := []model.Selection{model.Select(f.edges[0].Ref()), model.Select(f.edges[1].Ref())}

	res, err := Select(context.Background(), f.doc, sel, PolicyComposite)
	require.NoError(t, err)
	assert.Equal(t, []model.VertexRef{f.v[1]}, candidateVertices(res))
	assert.ElementsMatch(t, []model.EdgeRef{f.edges[0], f.edges[1]}, res.Candidates[0].Edges[:])
	assert.Len(t, res.Rejected, 2)
}

func TestSelectDeduplicates(t *testing.T) {
	f := newSquare(t, false)
	sel := []model.Selection{
		{Object: f.v[3].Ref(), Depth: 2},
		model.Select(f.face.Ref()),
		model.Select(f.v[3].Ref()),
	}
	res, err := Select(context.Background(), f.doc, sel, PolicyComposite)
	require.NoError(t, err)

	assert.Equal(t, []model.VertexRef{f.v[3], f.v[0], f.v[1], f.v[2]}, res.AssociatedVertices)
	require.Len(t, res.Candidates, 4)
	assert.Equal(t, 2, res.Candidates[0].Depth, "depth comes from the first selection that reached the vertex")
	assert.Equal(t, 0, res.Candidates[1].Depth)
}

func TestSelectUnknownObject(t *testing.T) {
	f := newSquare(t, false)
	sel := []model.Selection{model.Select(model.ObjectRef{Kind: model.KindFace, ID: 999})}
	_, err := Select(context.Background(), f.doc, sel, PolicyComposite)
	assert.ErrorIs(t, err, document.ErrNotFound)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyComposite, p)

	p, err = ParsePolicy("attached")
	require.NoError(t, err)
	assert.Equal(t, PolicyAttached, p)
	assert.Equal(t, "attached", p.String())

	_, err = ParsePolicy("nearest")
	assert.Error(t, err)
}
