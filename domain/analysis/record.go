package analysis

import (
	"strings"

	"tabscope/domain/table"
)

// ExecutionStatus tracks where a run is in its lifecycle.
type ExecutionStatus string

const (
	StatusStarting  ExecutionStatus = "starting"
	StatusRunning   ExecutionStatus = "running"
	StatusCompleted ExecutionStatus = "completed"
	StatusFailed    ExecutionStatus = "failed"
)

// Config carries the per-run switches the orchestrator branches on.
type Config struct {
	EnableCharts     bool `json:"enable_charts"`
	MinRowsForCharts int  `json:"min_rows_for_charts"`

	// SampleCeiling caps the row count before any stage runs; larger
	// datasets are deterministically sampled down to it.
	SampleCeiling int `json:"sample_ceiling"`

	// InsightFastPathRows is the row count above which the insight engine
	// switches to its reduced detector set. Tunable, not a hidden default.
	InsightFastPathRows int `json:"insight_fast_path_rows"`
}

// DefaultConfig mirrors the runtime defaults of the analysis service.
func DefaultConfig() Config {
	return Config{
		EnableCharts:        true,
		MinRowsForCharts:    10,
		SampleCeiling:       10000,
		InsightFastPathRows: 5000,
	}
}

// Record is the shared findings record. The orchestrator owns it and passes
// it by reference to each stage; every stage writes only its own result
// field plus optionally Error, Warning and CurrentStage. Findings lists are
// append-only and arrive pre-sorted from their engines.
type Record struct {
	RunID   string         `json:"run_id"`
	Dataset *table.Dataset `json:"-"`

	Profile   *DatasetProfile `json:"profile,omitempty"`
	Insights  []Finding       `json:"insights"`
	Anomalies []Finding       `json:"anomalies"`
	Charts    []ChartPlan     `json:"charts"`
	Summary   string          `json:"summary,omitempty"`

	CurrentStage string          `json:"current_stage,omitempty"`
	Status       ExecutionStatus `json:"status"`
	Error        string          `json:"error,omitempty"`
	Warning      string          `json:"warning,omitempty"`

	Config Config `json:"config"`
}

// AppendWarning joins non-fatal notices with " | ", matching the append-only
// warning contract.
func (r *Record) AppendWarning(msg string) {
	if msg == "" {
		return
	}
	if r.Warning == "" {
		r.Warning = msg
		return
	}
	r.Warning = strings.TrimSpace(r.Warning) + " | " + msg
}

// SetError records a stage failure without aborting the pipeline.
func (r *Record) SetError(msg string) {
	r.Error = msg
}

// ChartPlan describes one chart for an external renderer. The core plans
// charts; it never draws them.
type ChartPlan struct {
	ChartType   string `json:"chart_type"`
	Column      string `json:"column"`
	Title       string `json:"title"`
	Description string `json:"description"`
}
