package analysis

import "sort"

// Severity ranks anomaly findings. Lower rank sorts first.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Rank returns the sort rank for a severity; unknown values sort last.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	case SeverityLow:
		return 2
	}
	return 3
}

// Finding is one insight or anomaly. Immutable once appended to the record.
// Metrics carries detector-specific numbers (correlation coefficient,
// chi-square statistic, outlier bounds) keyed by stable names.
type Finding struct {
	Type         string   `json:"type"`
	Column       string   `json:"column,omitempty"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Explanation  string   `json:"explanation"`
	WhyItMatters string   `json:"why_it_matters"`
	Action       string   `json:"action"`
	Confidence   float64  `json:"confidence,omitempty"`
	Severity     Severity `json:"severity,omitempty"`
	Count        int      `json:"count,omitempty"`
	Percentage   float64  `json:"percentage,omitempty"`

	Metrics map[string]float64 `json:"metrics,omitempty"`

	Significant *bool `json:"statistically_significant,omitempty"`
}

// SortByConfidence orders findings by confidence descending. Ties keep the
// detector emission order.
func SortByConfidence(fs []Finding) {
	sort.SliceStable(fs, func(i, j int) bool {
		return fs[i].Confidence > fs[j].Confidence
	})
}

// SortBySeverity orders findings high before medium before low. Ties keep
// the detector emission order.
func SortBySeverity(fs []Finding) {
	sort.SliceStable(fs, func(i, j int) bool {
		return fs[i].Severity.Rank() < fs[j].Severity.Rank()
	})
}

// Outcome distinguishes a detector that produced findings from one that was
// skipped on a precondition and from one that failed unexpectedly.
type Outcome string

const (
	OutcomeProduced Outcome = "produced"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeFailed   Outcome = "failed"
)

// DetectorResult is the per-detector report the engines collect. Skipped
// preconditions are not errors; Failed carries the reason.
type DetectorResult struct {
	Detector string
	Outcome  Outcome
	Findings []Finding
	Reason   string
}
