// Package pipeline runs the analysis stages in fixed order over one shared
// findings record: profile, insights, anomalies, an optional chart branch,
// then synthesis. A stage failure is recorded on the record and the run
// continues; partial results are always available.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"tabscope/adapters/stats/anomaly"
	"tabscope/adapters/stats/insight"
	"tabscope/adapters/stats/profiler"
	"tabscope/adapters/viz"
	"tabscope/domain/analysis"
	"tabscope/internal/observability"
	"tabscope/internal/synthesis"
	"tabscope/ports"
)

const (
	sampleSeed = 42

	// chartLargeRowLimit matches the insight fast-path default: above it
	// charts are skipped rather than planned.
	chartLargeRowLimit = 5000
)

// Orchestrator owns the findings record for the duration of a run. Stages
// execute sequentially on the caller's goroutine; nothing here is safe for
// concurrent use against the same record.
type Orchestrator struct {
	loader    ports.Loader
	store     ports.QueryStore
	renderer  ports.ChartRenderer
	profiler  *profiler.Engine
	insights  *insight.Engine
	anomalies *anomaly.Engine
	planner   *viz.Planner
	synth     *synthesis.Synthesizer
	log       *observability.Logger
	cfg       analysis.Config
}

// New wires an orchestrator. store and renderer may be nil; the affected
// stages then degrade instead of failing.
func New(
	loader ports.Loader,
	store ports.QueryStore,
	renderer ports.ChartRenderer,
	synth *synthesis.Synthesizer,
	cfg analysis.Config,
	log *observability.Logger,
) *Orchestrator {
	return &Orchestrator{
		loader:    loader,
		store:     store,
		renderer:  renderer,
		profiler:  profiler.New(),
		insights:  insight.New(cfg.InsightFastPathRows),
		anomalies: anomaly.New(),
		planner:   viz.NewPlanner(),
		synth:     synth,
		log:       log,
		cfg:       cfg,
	}
}

// Run executes the full pipeline over the file at path. The returned record
// always exists; check its Status and Error for run health.
func (o *Orchestrator) Run(ctx context.Context, path string) *analysis.Record {
	rec := &analysis.Record{
		RunID:     uuid.NewString(),
		Status:    analysis.StatusStarting,
		Config:    o.cfg,
		Insights:  []analysis.Finding{},
		Anomalies: []analysis.Finding{},
		Charts:    []analysis.ChartPlan{},
	}

	if !o.loadDataset(rec, path) {
		return rec
	}
	rec.Status = analysis.StatusRunning

	o.buildStore(ctx, rec)

	o.runStage(rec, "profile", func() error {
		profile, err := o.profiler.Profile(rec.Dataset)
		if err != nil {
			rec.Profile = &analysis.DatasetProfile{}
			return err
		}
		rec.Profile = profile
		return nil
	})

	o.runStage(rec, "insights", func() error {
		findings, results := o.insights.Generate(rec.Dataset, rec.Profile)
		rec.Insights = findings
		o.logDetectors("insights", results)
		return nil
	})

	o.runStage(rec, "anomalies", func() error {
		findings, results := o.anomalies.Detect(rec.Dataset)
		rec.Anomalies = findings
		o.logDetectors("anomalies", results)
		return nil
	})

	o.chartBranch(ctx, rec)

	o.runStage(rec, "synthesis", func() error {
		o.synth.Summarize(ctx, rec)
		return nil
	})

	if rec.Status != analysis.StatusFailed {
		rec.Status = analysis.StatusCompleted
	}
	rec.CurrentStage = ""
	return rec
}

// loadDataset reads, validates and samples the input file. Returns false
// when the run cannot continue.
func (o *Orchestrator) loadDataset(rec *analysis.Record, path string) bool {
	rec.CurrentStage = "load"
	if path == "" {
		rec.SetError("No file path provided")
		rec.Status = analysis.StatusFailed
		return false
	}

	ds, validation, err := o.loader.Load(path)
	if err != nil {
		rec.SetError(err.Error())
		rec.Status = analysis.StatusFailed
		return false
	}
	if !validation.Valid {
		rec.SetError(validation.Reason)
		rec.Status = analysis.StatusFailed
		return false
	}

	if ceiling := o.cfg.SampleCeiling; ceiling > 0 && ds.Rows() > ceiling {
		original := ds.Rows()
		ds = ds.Sample(ceiling, sampleSeed)
		rec.AppendWarning(fmt.Sprintf("Dataset sampled: Using %d of %d rows for faster processing",
			ceiling, original))
	}
	rec.Dataset = ds
	return true
}

// buildStore loads the dataset into the relational store. Failures are
// warnings; question answering just loses its SQL rungs.
func (o *Orchestrator) buildStore(ctx context.Context, rec *analysis.Record) {
	if o.store == nil {
		return
	}
	if err := o.store.Build(ctx, rec.Dataset); err != nil {
		o.log.Warn("store build failed", "error", err)
		rec.AppendWarning(fmt.Sprintf("DB creation failed: %v", err))
	}
}

// chartBranch is the orchestrator's single conditional fork. Skipping the
// branch never sets an error.
func (o *Orchestrator) chartBranch(ctx context.Context, rec *analysis.Record) {
	if !o.cfg.EnableCharts || rec.Dataset == nil || rec.Dataset.Rows() < o.cfg.MinRowsForCharts {
		o.log.Info("chart stage skipped",
			"enabled", o.cfg.EnableCharts, "min_rows", o.cfg.MinRowsForCharts)
		return
	}
	if rec.Dataset.Rows() > chartLargeRowLimit {
		rec.Charts = []analysis.ChartPlan{}
		rec.AppendWarning("Visualizations skipped for large dataset (use sampling)")
		return
	}

	o.runStage(rec, "charts", func() error {
		rec.Charts = o.planner.Plan(rec.Dataset)
		if o.renderer != nil {
			if err := o.renderer.Render(ctx, rec.Charts); err != nil {
				o.log.Warn("chart rendering failed", "error", err)
				rec.AppendWarning(fmt.Sprintf("Chart rendering failed: %v", err))
			}
		}
		return nil
	})
}

// runStage executes fn with a stage boundary: panics and errors become text
// on the record and the stage's result stays at its forced empty value.
func (o *Orchestrator) runStage(rec *analysis.Record, name string, fn func() error) {
	rec.CurrentStage = name
	log := o.log.WithStage(name)
	log.Info("stage starting", "run_id", rec.RunID)

	defer func() {
		if r := recover(); r != nil {
			log.Error("stage panicked", "panic", r)
			rec.SetError(fmt.Sprintf("Error in %s stage: %v", name, r))
			o.forceEmpty(rec, name)
		}
	}()

	if err := fn(); err != nil {
		log.Error("stage failed", "error", err)
		rec.SetError(fmt.Sprintf("Error in %s stage: %v", name, err))
		o.forceEmpty(rec, name)
		return
	}
	log.Info("stage completed")
}

func (o *Orchestrator) forceEmpty(rec *analysis.Record, stage string) {
	switch stage {
	case "profile":
		if rec.Profile == nil {
			rec.Profile = &analysis.DatasetProfile{}
		}
	case "insights":
		rec.Insights = []analysis.Finding{}
	case "anomalies":
		rec.Anomalies = []analysis.Finding{}
	case "charts":
		rec.Charts = []analysis.ChartPlan{}
	case "synthesis":
		if rec.Summary == "" {
			rec.Summary = synthesis.FallbackSummary(rec)
		}
	}
}

func (o *Orchestrator) logDetectors(stage string, results []analysis.DetectorResult) {
	log := o.log.WithStage(stage)
	for _, res := range results {
		if res.Outcome == analysis.OutcomeSkipped {
			log.Debug("detector skipped", "detector", res.Detector, "reason", res.Reason)
		}
	}
}
