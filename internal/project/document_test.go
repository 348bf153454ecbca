package project

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/FilletCorners/internal/document"
	"github.com/piwi3910/FilletCorners/internal/engine"
	"github.com/piwi3910/FilletCorners/internal/model"
)

func filletedSquare(t *testing.T) *document.Document {
	t.Helper()
	doc := document.New("plate")
	doc.SetUnits(model.UnitInch)
	var loop []model.VertexRef
	for _, p := range []model.Point3{model.Pt3(0, 0, 1), model.Pt3(4, 0, 1), model.Pt3(4, 4, 1), model.Pt3(0, 4, 1)} {
		loop = append(loop, doc.AddVertex(p))
	}
	face, err := doc.AddFace(loop)
	require.NoError(t, err)
	require.NoError(t, doc.Select(face.Ref()))
	_, err = engine.New(doc, nil).Run(context.Background(), engine.Params{Radius: 0.5})
	require.NoError(t, err)
	return doc
}

func TestSaveAndLoadDocument(t *testing.T) {
	doc := filletedSquare(t)
	path := filepath.Join(t.TempDir(), "plate"+FileExtension)

	require.NoError(t, SaveDocument(path, doc))
	loaded, err := LoadDocument(path)
	require.NoError(t, err)

	assert.Equal(t, doc.ID(), loaded.ID())
	assert.Equal(t, "plate", loaded.Name())
	assert.Equal(t, model.UnitInch, loaded.Units())
	assert.Len(t, loaded.VertexList(), len(doc.VertexList()))
	assert.Len(t, loaded.EdgeList(), len(doc.EdgeList()))
	assert.Len(t, loaded.FaceList(), 1)
	require.Len(t, loaded.CurveList(), 4)
	assert.InDelta(t, 0.5, loaded.CurveList()[0].Radius, 1e-12)
	assert.False(t, loaded.CanUndo(), "history is not persisted")

	// New objects must not collide with loaded ones.
	v := loaded.AddVertex(model.Pt3(9, 9, 9))
	for _, old := range doc.VertexList() {
		assert.NotEqual(t, old.ID, v)
	}
}

func TestLoadDocumentErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
		return path
	}

	_, err := LoadDocument(filepath.Join(dir, "missing.fillet.json"))
	assert.Error(t, err)

	_, err = LoadDocument(write("garbage.fillet.json", "{not json"))
	assert.Error(t, err)

	_, err = LoadDocument(write("noversion.fillet.json", `{"document":{"name":"x"}}`))
	assert.ErrorContains(t, err, "missing version")

	_, err = LoadDocument(write("future.fillet.json", `{"version":"2.0.0","document":{"name":"x"}}`))
	assert.ErrorContains(t, err, "unsupported")

	_, err = LoadDocument(write("dangling.fillet.json",
		`{"version":"1.0.0","document":{"name":"x","edges":[{"id":3,"a":1,"b":2}]}}`))
	assert.ErrorIs(t, err, document.ErrNotFound)
}

func TestIsProjectFile(t *testing.T) {
	assert.True(t, IsProjectFile("/tmp/Plate.FILLET.json"))
	assert.False(t, IsProjectFile("/tmp/plate.json"))
	assert.False(t, IsProjectFile("/tmp/plate.dxf"))
}
