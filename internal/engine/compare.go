package engine

import (
	"context"
	"fmt"

	"github.com/piwi3910/FilletCorners/internal/fillet"
	"github.com/piwi3910/FilletCorners/internal/host"
	"github.com/piwi3910/FilletCorners/internal/logging"
	"github.com/piwi3910/FilletCorners/internal/model"
	"github.com/piwi3910/FilletCorners/internal/selector"
)

// RadiusScenario is a named radius to compare.
type RadiusScenario struct {
	Name   string
	Radius float64
}

// RadiusReport holds the dry-run statistics for one scenario.
type RadiusReport struct {
	Scenario    RadiusScenario
	Solvable    int
	Failed      int
	ExceedsEdge int // solvable corners whose trim overruns an edge
}

// CompareRadii solves the current selection at each scenario's radius
// without touching the document. This lets the user see which radius fits
// the selected corners before committing to one.
func CompareRadii(ctx context.Context, doc host.Document, scenarios []RadiusScenario, policy selector.Policy) ([]RadiusReport, error) {
	for _, s := range scenarios {
		if !ValidRadius(s.Radius) {
			return nil, fmt.Errorf("scenario %q radius %v: %w", s.Name, s.Radius, ErrInvalidRadius)
		}
	}

	sel, err := doc.Selection(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading selection: %w", err)
	}
	res, err := selector.Select(ctx, doc, sel, policy)
	if err != nil {
		return nil, err
	}
	plans := planCorners(ctx, doc, res, logging.Logger())

	reports := make([]RadiusReport, 0, len(scenarios))
	for _, s := range scenarios {
		report := RadiusReport{Scenario: s}
		for _, pl := range plans {
			if pl.err != nil {
				report.Failed++
				continue
			}
			arc, err := fillet.Solve(pl.corner, s.Radius)
			if err != nil {
				report.Failed++
				continue
			}
			report.Solvable++
			if arc.ExceedsEdge {
				report.ExceedsEdge++
			}
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// BuildDefaultScenarios generates what-if radii around base: half, current
// and double.
func BuildDefaultScenarios(base float64, units model.Unit) []RadiusScenario {
	scenarios := []RadiusScenario{
		{Name: "Current Radius", Radius: base},
	}
	if ValidRadius(base) {
		scenarios = append(scenarios,
			RadiusScenario{Name: fmt.Sprintf("Half (%s)", model.FormatLength(base/2, units)), Radius: base / 2},
			RadiusScenario{Name: fmt.Sprintf("Double (%s)", model.FormatLength(base*2, units)), Radius: base * 2},
		)
	}
	return scenarios
}
