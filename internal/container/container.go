// Package container wires configuration, adapters and engines into the
// application services.
package container

import (
	"path/filepath"

	"tabscope/adapters/llm"
	"tabscope/adapters/loader"
	"tabscope/adapters/sqlite"
	"tabscope/adapters/viz"
	"tabscope/domain/analysis"
	"tabscope/internal/config"
	"tabscope/internal/observability"
	"tabscope/internal/pipeline"
	"tabscope/internal/question"
	"tabscope/internal/synthesis"
	"tabscope/ports"
)

// Container holds the wired application graph for one process.
type Container struct {
	Config       *config.Config
	Log          *observability.Logger
	Loader       ports.Loader
	Store        *sqlite.Store
	LLM          ports.LLMClient
	Orchestrator *pipeline.Orchestrator
}

// New builds the container from configuration. The LLM client is nil when no
// API key is configured; every consumer has a rule-based path for that.
func New(cfg *config.Config) (*Container, error) {
	log := observability.NewLogger("app", nil)

	store, err := sqlite.New(filepath.Join(cfg.Paths.WorkDir, "analysis.db"), cfg.Analysis.QueryRowCap)
	if err != nil {
		return nil, err
	}

	var llmClient ports.LLMClient
	if c := llm.New(cfg.AI); c != nil {
		llmClient = c
	}

	analysisCfg := analysis.Config{
		EnableCharts:        cfg.Analysis.EnableCharts,
		MinRowsForCharts:    cfg.Analysis.MinRowsForCharts,
		SampleCeiling:       cfg.Analysis.SampleCeiling,
		InsightFastPathRows: cfg.Analysis.InsightFastPathRows,
	}

	synth := synthesis.New(llmClient, log.WithStage("synthesis"))
	renderer := viz.NewHTMLRenderer(filepath.Join(cfg.Paths.WorkDir, "charts"))
	orch := pipeline.New(loader.New(), store, renderer, synth, analysisCfg, log)

	return &Container{
		Config:       cfg,
		Log:          log,
		Loader:       loader.New(),
		Store:        store,
		LLM:          llmClient,
		Orchestrator: orch,
	}, nil
}

// Resolver builds a question resolver bound to an analyzed dataset's record.
func (c *Container) Resolver(rec *analysis.Record) *question.Resolver {
	schema := question.Schema{Table: sqlite.TableName}
	if rec != nil && rec.Dataset != nil {
		schema.Columns, schema.Numeric, schema.Categorical = sqlite.TableColumns(rec.Dataset)
	}
	return question.NewResolver(c.Store, c.LLM, schema, c.Log.WithStage("question"))
}

// Close releases held resources.
func (c *Container) Close() error {
	if c.Store != nil {
		return c.Store.Close()
	}
	return nil
}
