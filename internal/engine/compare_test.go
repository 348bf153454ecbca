package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/FilletCorners/internal/model"
	"github.com/piwi3910/FilletCorners/internal/selector"
)

func TestCompareRadii(t *testing.T) {
	doc, _, _ := square(t)
	before := doc.State()

	reports, err := CompareRadii(context.Background(), doc, []RadiusScenario{
		{Name: "small", Radius: 2},
		{Name: "huge", Radius: 20},
	}, selector.PolicyComposite)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.Equal(t, "small", reports[0].Scenario.Name)
	assert.Equal(t, 4, reports[0].Solvable)
	assert.Zero(t, reports[0].ExceedsEdge)

	assert.Equal(t, 4, reports[1].Solvable)
	assert.Equal(t, 4, reports[1].ExceedsEdge, "trim of 20 overruns the 10 long edges")

	assert.Equal(t, before, doc.State(), "comparison must not modify the document")
	assert.Zero(t, doc.begins)
	assert.Zero(t, doc.creates)
}

func TestCompareRadiiCountsRejections(t *testing.T) {
	doc, _, v := square(t)
	tip := doc.AddVertex(model.Pt3(-5, -5, 0))
	_, err := doc.AddEdge(v[0], tip)
	require.NoError(t, err)

	reports, err := CompareRadii(context.Background(), doc, []RadiusScenario{{Name: "r", Radius: 1}}, selector.PolicyAttached)
	require.NoError(t, err)
	assert.Equal(t, 3, reports[0].Solvable)
	assert.Equal(t, 1, reports[0].Failed)
}

func TestCompareRadiiInvalid(t *testing.T) {
	doc, _, _ := square(t)
	_, err := CompareRadii(context.Background(), doc, []RadiusScenario{{Name: "zero", Radius: 0}}, selector.PolicyComposite)
	assert.ErrorIs(t, err, ErrInvalidRadius)
}

func TestBuildDefaultScenarios(t *testing.T) {
	scenarios := BuildDefaultScenarios(4, model.UnitMillimeter)
	require.Len(t, scenarios, 3)
	assert.Equal(t, "Current Radius", scenarios[0].Name)
	assert.Equal(t, 2.0, scenarios[1].Radius)
	assert.Equal(t, "Half (2 mm)", scenarios[1].Name)
	assert.Equal(t, 8.0, scenarios[2].Radius)

	assert.Len(t, BuildDefaultScenarios(0, model.UnitMillimeter), 1)
}
