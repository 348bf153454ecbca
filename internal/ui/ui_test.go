package ui

import (
	"context"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/FilletCorners/internal/document"
	"github.com/piwi3910/FilletCorners/internal/engine"
	"github.com/piwi3910/FilletCorners/internal/host"
	"github.com/piwi3910/FilletCorners/internal/model"
	"github.com/piwi3910/FilletCorners/internal/project"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	fa := test.NewTempApp(t)
	w := fa.NewWindow("test")
	t.Cleanup(w.Close)
	cfg := model.DefaultAppConfig()
	cfg.DefaultRadius = 2
	a := NewApp(fa, w, cfg, filepath.Join(t.TempDir(), "config.toml"))
	a.SetupMenus()
	w.SetContent(a.Build())
	return a
}

func addSquare(t *testing.T, doc *document.Document) model.FaceRef {
	t.Helper()
	var loop []model.VertexRef
	for _, p := range []model.Point3{model.Pt3(0, 0, 0), model.Pt3(10, 0, 0), model.Pt3(10, 10, 0), model.Pt3(0, 10, 0)} {
		loop = append(loop, doc.AddVertex(p))
	}
	face, err := doc.AddFace(loop)
	require.NoError(t, err)
	return face
}

func TestBuildUsesConfigDefaults(t *testing.T) {
	a := newTestApp(t)
	assert.Equal(t, "2 mm", a.radiusEntry.Text)
	assert.False(t, a.deleteCheck.Checked)
	assert.Equal(t, "Fillet Corners", a.filletBtn.Text)
	assert.Contains(t, a.status.Text, "0 vertices")
}

func TestSelectAllAndUndo(t *testing.T) {
	a := newTestApp(t)
	addSquare(t, a.doc)

	a.selectAll(model.KindVertex)
	sel, err := a.doc.Selection(context.Background())
	require.NoError(t, err)
	assert.Len(t, sel, 4)
	assert.Contains(t, a.status.Text, "4 selected")

	_, err = engine.New(a.doc, nil).Run(context.Background(), engine.Params{Radius: 2, DeleteOriginal: true})
	require.NoError(t, err)
	a.refresh()
	assert.Contains(t, a.status.Text, "4 arcs")

	a.undo()
	assert.Contains(t, a.status.Text, "0 arcs")
	a.redo()
	assert.Contains(t, a.status.Text, "4 arcs")
}

func TestBusyRunLocksDocumentChanges(t *testing.T) {
	a := newTestApp(t)
	addSquare(t, a.doc)
	doc := a.doc

	saved := document.New("other")
	path := filepath.Join(t.TempDir(), "other"+project.FileExtension)
	require.NoError(t, project.SaveDocument(path, saved))

	a.setBusy(true)
	assert.True(t, a.filletBtn.Disabled())
	assert.True(t, a.radiusEntry.Disabled())
	assert.True(t, a.deleteCheck.Disabled())
	require.Len(t, a.selectBtns, 3)
	for _, b := range a.selectBtns {
		assert.True(t, b.Disabled(), b.Text)
	}
	assert.True(t, a.preview.ReadOnly)

	a.selectAll(model.KindVertex)
	sel, err := doc.Selection(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sel, "select all is ignored during a run")

	a.OpenPath(path)
	assert.Same(t, doc, a.doc, "opening a file is ignored during a run")
	assert.Empty(t, a.config.RecentFiles)

	a.setBusy(false)
	assert.False(t, a.filletBtn.Disabled())
	for _, b := range a.selectBtns {
		assert.False(t, b.Disabled(), b.Text)
	}
	assert.False(t, a.preview.ReadOnly)

	a.selectAll(model.KindVertex)
	sel, _ = doc.Selection(context.Background())
	assert.Len(t, sel, 4)
	a.clearSelection()
	sel, _ = doc.Selection(context.Background())
	assert.Empty(t, sel)
}

func TestOpenPathProjectAndRecentFiles(t *testing.T) {
	a := newTestApp(t)
	doc := document.New("saved")
	addSquare(t, doc)
	path := filepath.Join(t.TempDir(), "saved"+project.FileExtension)
	require.NoError(t, project.SaveDocument(path, doc))

	a.OpenPath(path)
	assert.Equal(t, "saved", a.doc.Name())
	assert.Equal(t, path, a.docPath)
	assert.Equal(t, []string{path}, a.config.RecentFiles)

	cfg, err := project.LoadAppConfig(a.configPath)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, cfg.RecentFiles, "recent files are persisted")
}

func TestParseRadius(t *testing.T) {
	r, err := parseRadius("5", model.UnitMillimeter)
	require.NoError(t, err)
	assert.Equal(t, 5.0, r)

	r, err = parseRadius("1 in", model.UnitMillimeter)
	require.NoError(t, err)
	assert.InDelta(t, 25.4, r, 1e-9)

	r, err = parseRadius("0", model.UnitMillimeter)
	require.NoError(t, err, "non-positive radii are reported by the engine")
	assert.Equal(t, 0.0, r)

	_, err = parseRadius("five", model.UnitMillimeter)
	assert.Error(t, err)
}

func TestNotificationTitle(t *testing.T) {
	assert.Equal(t, "Fillet Complete", notificationTitle(host.SeveritySuccess))
	assert.Equal(t, "Fillet Failed", notificationTitle(host.SeverityError))
	assert.Equal(t, "Fillet Corners", notificationTitle(host.SeverityInfo))
}

func TestCompareCell(t *testing.T) {
	r := engine.RadiusReport{
		Scenario:    engine.RadiusScenario{Name: "Double", Radius: 4},
		Solvable:    3,
		Failed:      1,
		ExceedsEdge: 2,
	}
	assert.Equal(t, "Double", compareCell(r, 0, model.UnitMillimeter))
	assert.Equal(t, "4 mm", compareCell(r, 1, model.UnitMillimeter))
	assert.Equal(t, "3", compareCell(r, 2, model.UnitMillimeter))
	assert.Equal(t, "1", compareCell(r, 3, model.UnitMillimeter))
	assert.Equal(t, "2", compareCell(r, 4, model.UnitMillimeter))
}

func TestImportFileByExtension(t *testing.T) {
	_, ok := importFile("/tmp/part.step")
	assert.False(t, ok)

	res, ok := importFile(filepath.Join(t.TempDir(), "missing.CSV"))
	assert.True(t, ok)
	assert.NotEmpty(t, res.Errors)
}

func TestFilletTheme(t *testing.T) {
	dark := NewFilletTheme("dark")
	light := NewFilletTheme("light")
	assert.NotEqual(t,
		dark.Color(theme.ColorNameBackground, theme.VariantLight),
		light.Color(theme.ColorNameBackground, theme.VariantLight),
		"fixed variants ignore the requested variant")

	system := NewFilletTheme("system")
	assert.Equal(t,
		theme.DefaultTheme().Color(theme.ColorNameBackground, theme.VariantDark),
		system.Color(theme.ColorNameBackground, theme.VariantDark))
	assert.Equal(t, float32(12), system.Size(theme.SizeNameText))
}
