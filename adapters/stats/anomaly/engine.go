// Package anomaly flags unusual values and patterns: z-score and IQR
// outliers, sparse categorical values and temporal spikes.
package anomaly

import (
	"tabscope/domain/analysis"
	"tabscope/domain/table"
)

// Detector is one independent anomaly check. Each is optional: failed
// preconditions skip the check without erroring the stage.
type Detector interface {
	Name() string
	Detect(ds *table.Dataset) analysis.DetectorResult
}

// Engine runs the four anomaly detectors in fixed order and merges their
// findings into a severity-sorted list.
type Engine struct {
	detectors []Detector
}

// New creates an anomaly engine with the full detector set.
func New() *Engine {
	return &Engine{
		detectors: []Detector{
			&ZScoreDetector{},
			&IQRDetector{},
			&SparseCategoryDetector{},
			&TemporalDetector{},
		},
	}
}

// Detect runs all detectors and returns findings sorted by severity rank
// (high, medium, low); ties keep detector emission order.
func (e *Engine) Detect(ds *table.Dataset) ([]analysis.Finding, []analysis.DetectorResult) {
	if ds == nil || ds.Rows() == 0 {
		return []analysis.Finding{}, nil
	}

	findings := []analysis.Finding{}
	results := make([]analysis.DetectorResult, 0, len(e.detectors))
	for _, d := range e.detectors {
		res := d.Detect(ds)
		results = append(results, res)
		findings = append(findings, res.Findings...)
	}

	analysis.SortBySeverity(findings)
	return findings, results
}

func produced(name string, findings []analysis.Finding) analysis.DetectorResult {
	return analysis.DetectorResult{Detector: name, Outcome: analysis.OutcomeProduced, Findings: findings}
}

func skipped(name, reason string) analysis.DetectorResult {
	return analysis.DetectorResult{Detector: name, Outcome: analysis.OutcomeSkipped, Reason: reason}
}

// severityForShare maps an outlier percentage to a severity tier.
func severityForShare(pct float64) analysis.Severity {
	switch {
	case pct > 5:
		return analysis.SeverityHigh
	case pct > 1:
		return analysis.SeverityMedium
	default:
		return analysis.SeverityLow
	}
}
