package question

import (
	"context"
	"fmt"
	"strings"

	"tabscope/domain/analysis"
	"tabscope/domain/table"
	apperrors "tabscope/internal/errors"
	"tabscope/internal/observability"
	"tabscope/internal/synthesis"
	"tabscope/ports"
)

const (
	sqlRowCap       = 20
	sqlTemperature  = 0.1
	sqlMaxTokens    = 150
	ctxTemperature  = 0.5
	ctxMaxTokens    = 200
	previewRowLimit = 10
)

// Resolver answers questions with a fixed fallback ladder. Store and llm
// may be nil; each missing collaborator just skips its rungs.
type Resolver struct {
	store  ports.QueryStore
	llm    ports.LLMClient
	schema Schema
	log    *observability.Logger
}

// NewResolver wires a resolver. schema describes the store's table layout
// for rule-based synthesis.
func NewResolver(store ports.QueryStore, llm ports.LLMClient, schema Schema, log *observability.Logger) *Resolver {
	return &Resolver{store: store, llm: llm, schema: schema, log: log}
}

// Answer resolves a question against a completed analysis record. The
// returned string is always human-readable; resolution failures surface as
// text, never as an error.
func (r *Resolver) Answer(ctx context.Context, rec *analysis.Record, questionText string) string {
	if r.store != nil {
		if answer := r.answerFromSQL(ctx, questionText); answer != "" {
			return answer
		}
	}

	if rec != nil && rec.Dataset != nil {
		if answer := DirectAnswer(questionText, rec.Dataset); answer != "" {
			return answer
		}
	}

	return r.answerFromContext(ctx, rec, questionText)
}

// answerFromSQL tries LLM-generated SQL first, then rule-based synthesis
// when the LLM is absent or out of quota.
func (r *Resolver) answerFromSQL(ctx context.Context, questionText string) string {
	if r.llm != nil {
		answer, err := r.llmSQL(ctx, questionText)
		if err == nil {
			return answer
		}
		r.log.Warn("llm sql generation failed", "error", err)
		if !apperrors.IsQuotaExhausted(err) {
			return ""
		}
	}

	sql := SynthesizeSQL(questionText, r.schema)
	if sql == "" {
		return ""
	}
	cols, rows, err := r.store.Query(ctx, sql, sqlRowCap)
	if err != nil || len(rows) == 0 {
		return ""
	}
	return FormatSQLResult(sql, cols, rows)
}

func (r *Resolver) llmSQL(ctx context.Context, questionText string) (string, error) {
	schemaInfo, err := r.store.Schema(ctx)
	if err != nil {
		return "", err
	}
	prompt := fmt.Sprintf(
		"You are a SQL expert. Generate a single SQLite SELECT query to answer the question. "+
			"Return ONLY the SQL query, no explanation.\n\n"+
			"Schema:\n%s\n\n"+
			"Question: %s\n\n"+
			"Use table name: %s. Limit results to %d rows when returning raw rows. "+
			"If day-of-week questions are asked, use *_day_name columns when available.",
		schemaInfo, questionText, r.schema.Table, sqlRowCap)

	response, err := r.llm.Complete(ctx, prompt, ports.GenerationOptions{
		Temperature: sqlTemperature,
		MaxTokens:   sqlMaxTokens,
	})
	if err != nil {
		return "", err
	}
	sql := ExtractSQL(response)
	cols, rows, err := r.store.Query(ctx, sql, sqlRowCap)
	if err != nil || len(rows) == 0 {
		return "", err
	}
	return FormatSQLResult(sql, cols, rows), nil
}

// answerFromContext asks the LLM over the findings context; quota failures
// fall back to heuristic extraction.
func (r *Resolver) answerFromContext(ctx context.Context, rec *analysis.Record, questionText string) string {
	if r.llm == nil {
		return ContextAnswer(questionText, rec)
	}

	prompt := fmt.Sprintf("Based on this analysis, answer: %s\n\n%s",
		questionText, synthesis.BuildContext(rec))
	response, err := r.llm.Complete(ctx, prompt, ports.GenerationOptions{
		Temperature: ctxTemperature,
		MaxTokens:   ctxMaxTokens,
	})
	if err == nil {
		return response
	}
	if apperrors.IsQuotaExhausted(err) {
		return ContextAnswer(questionText, rec)
	}
	return fmt.Sprintf("Error answering question: %v", err)
}

// ExtractSQL strips markdown fences from an LLM response.
func ExtractSQL(text string) string {
	if strings.Contains(text, "```") {
		parts := strings.Split(text, "```")
		if len(parts) >= 2 {
			return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(parts[1]), "sql"))
		}
	}
	return strings.TrimSpace(text)
}

// FormatSQLResult renders query output: a single scalar inline, anything
// wider as a markdown preview table.
func FormatSQLResult(sql string, cols []string, rows [][]any) string {
	if len(rows) == 0 {
		return "No results found for that query."
	}
	if len(cols) == 1 && len(rows) == 1 {
		return fmt.Sprintf("Result: **%s = %s**", cols[0], cellText(rows[0][0]))
	}

	preview := rows
	if len(preview) > previewRowLimit {
		preview = preview[:previewRowLimit]
	}
	lines := []string{strings.Join(cols, " | ")}
	seps := make([]string, len(cols))
	for i := range seps {
		seps[i] = "---"
	}
	lines = append(lines, strings.Join(seps, " | "))
	for _, row := range preview {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = cellText(v)
		}
		lines = append(lines, strings.Join(cells, " | "))
	}
	return fmt.Sprintf("SQL Answer (preview):\n\n%s\n\nQuery used: %s", strings.Join(lines, "\n"), sql)
}

func cellText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(t)
	case float64:
		return table.FormatFloat(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
