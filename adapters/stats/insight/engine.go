// Package insight detects relationships and patterns over a profiled
// dataset: correlations, skewed distributions, categorical associations,
// group differences and data quality signals.
package insight

import (
	"tabscope/domain/analysis"
	"tabscope/domain/table"
)

// Detector is one independent pattern check. Detect reports whether it
// produced findings, was skipped on a precondition, or failed.
type Detector interface {
	Name() string
	Detect(ds *table.Dataset, profile *analysis.DatasetProfile) analysis.DetectorResult
}

// Engine runs the detector set in a fixed order and merges findings into a
// single confidence-sorted list.
type Engine struct {
	detectors []Detector

	// FastPathRows is the row ceiling above which the reduced detector
	// set replaces the full one to bound latency. The substitution is a
	// contract, not an optimization: large datasets get correlation plus
	// a mean/median skew check only.
	FastPathRows int
}

// New creates an insight engine with the full detector set.
func New(fastPathRows int) *Engine {
	return &Engine{
		detectors: []Detector{
			&CorrelationDetector{},
			&DistributionDetector{},
			&AssociationDetector{},
			&ImbalanceDetector{},
			&GroupComparisonDetector{},
			&MissingDataDetector{},
			&DuplicateDetector{},
		},
		FastPathRows: fastPathRows,
	}
}

// Generate runs the detectors and returns findings sorted by confidence
// descending; ties keep detector emission order. The per-detector results
// let callers distinguish skipped preconditions from failures.
func (e *Engine) Generate(ds *table.Dataset, profile *analysis.DatasetProfile) ([]analysis.Finding, []analysis.DetectorResult) {
	if ds == nil || ds.Rows() == 0 {
		return []analysis.Finding{}, nil
	}

	if e.FastPathRows > 0 && ds.Rows() > e.FastPathRows {
		return fastInsights(ds)
	}

	findings := []analysis.Finding{}
	results := make([]analysis.DetectorResult, 0, len(e.detectors))
	for _, d := range e.detectors {
		res := d.Detect(ds, profile)
		results = append(results, res)
		findings = append(findings, res.Findings...)
	}

	analysis.SortByConfidence(findings)
	return findings, results
}

func produced(name string, findings []analysis.Finding) analysis.DetectorResult {
	return analysis.DetectorResult{Detector: name, Outcome: analysis.OutcomeProduced, Findings: findings}
}

func skipped(name, reason string) analysis.DetectorResult {
	return analysis.DetectorResult{Detector: name, Outcome: analysis.OutcomeSkipped, Reason: reason}
}
