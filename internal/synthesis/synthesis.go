// Package synthesis turns a completed analysis record into an executive
// summary, with a deterministic fallback when no LLM is reachable.
package synthesis

import (
	"context"
	"fmt"
	"strings"

	"tabscope/domain/analysis"
	apperrors "tabscope/internal/errors"
	"tabscope/internal/observability"
	"tabscope/ports"
)

const (
	summaryTemperature = 0.7
	summaryMaxTokens   = 500

	contextTopInsights  = 5
	contextTopAnomalies = 5
)

// Synthesizer produces the final summary for an analysis record.
type Synthesizer struct {
	llm ports.LLMClient
	log *observability.Logger
}

// New creates a synthesizer. llm may be nil; summaries then come from the
// deterministic fallback.
func New(llm ports.LLMClient, log *observability.Logger) *Synthesizer {
	return &Synthesizer{llm: llm, log: log}
}

// Summarize writes rec.Summary. It never returns an error: LLM failures
// degrade to the fallback summary.
func (s *Synthesizer) Summarize(ctx context.Context, rec *analysis.Record) {
	if s.llm == nil {
		rec.Summary = FallbackSummary(rec)
		return
	}

	prompt := fmt.Sprintf("Based on the analysis, provide a brief 2-3 paragraph executive summary:\n\n%s\n\nSummary:",
		BuildContext(rec))
	summary, err := s.llm.Complete(ctx, prompt, ports.GenerationOptions{
		Temperature: summaryTemperature,
		MaxTokens:   summaryMaxTokens,
	})
	if err == nil {
		rec.Summary = summary
		return
	}

	s.log.Warn("llm summary failed, using fallback", "error", err)
	if apperrors.IsQuotaExhausted(err) {
		rec.Summary = "LLM credits exhausted. Displaying automatic summary instead:\n\n" + FallbackSummary(rec)
		return
	}
	rec.Summary = FallbackSummary(rec)
}

// BuildContext flattens profile, insights, anomalies and chart plans into a
// prompt-ready context block.
func BuildContext(rec *analysis.Record) string {
	var b strings.Builder
	b.WriteString("ANALYSIS SUMMARY CONTEXT\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	if rec == nil {
		return b.String()
	}

	if p := rec.Profile; p != nil {
		b.WriteString("DATA PROFILE:\n")
		fmt.Fprintf(&b, "- Total Rows: %d\n", p.Overview.TotalRows)
		fmt.Fprintf(&b, "- Total Columns: %d\n", p.Overview.TotalColumns)
		fmt.Fprintf(&b, "\nDATA QUALITY SCORE: %.0f/100\n", p.Quality.Score)
		fmt.Fprintf(&b, "  - Missing: %.2f%%\n", p.Quality.MissingPercentage)
		fmt.Fprintf(&b, "  - Duplicates: %.2f%%\n", p.Quality.DuplicatePercentage)
		fmt.Fprintf(&b, "  - Outliers: %.2f%%\n", p.Quality.OutlierPercentage)
		b.WriteString("\n")

		if len(p.QualityIssues) > 0 {
			b.WriteString("Data Quality Issues:\n")
			for _, issue := range p.QualityIssues {
				fmt.Fprintf(&b, "  - %s\n", issue)
			}
			b.WriteString("\n")
		}
	}

	if len(rec.Insights) > 0 {
		b.WriteString("KEY INSIGHTS:\n")
		for i, ins := range rec.Insights {
			if i >= contextTopInsights {
				break
			}
			fmt.Fprintf(&b, "%d. %s\n", i+1, ins.Title)
			fmt.Fprintf(&b, "   %s\n", ins.Description)
			fmt.Fprintf(&b, "   Confidence: %.0f%%\n", ins.Confidence*100)
		}
		b.WriteString("\n")
	}

	if len(rec.Anomalies) > 0 {
		b.WriteString("DETECTED ANOMALIES:\n")
		for i, a := range rec.Anomalies {
			if i >= contextTopAnomalies {
				break
			}
			fmt.Fprintf(&b, "- %s\n", a.Title)
			fmt.Fprintf(&b, "  %s\n", a.Description)
		}
		b.WriteString("\n")
	}

	if len(rec.Charts) > 0 {
		types := []string{}
		seen := map[string]bool{}
		for _, c := range rec.Charts {
			if !seen[c.ChartType] {
				seen[c.ChartType] = true
				types = append(types, c.ChartType)
			}
		}
		fmt.Fprintf(&b, "VISUALIZATIONS PLANNED: %d\n", len(rec.Charts))
		fmt.Fprintf(&b, "Types: %s\n", strings.Join(types, ", "))
	}

	return b.String()
}

// FallbackSummary builds a deterministic summary from the record alone.
func FallbackSummary(rec *analysis.Record) string {
	var b strings.Builder
	b.WriteString("EXECUTIVE SUMMARY\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")
	if rec == nil {
		return b.String()
	}

	if p := rec.Profile; p != nil {
		b.WriteString("Dataset Overview:\n")
		fmt.Fprintf(&b, "- Total Records: %d\n", p.Overview.TotalRows)
		fmt.Fprintf(&b, "- Features: %d\n", p.Overview.TotalColumns)
		fmt.Fprintf(&b, "- Data Quality Score: %.0f/100\n\n", p.Quality.Score)
	}

	if len(rec.Insights) > 0 {
		b.WriteString("Key Findings:\n")
		for i, ins := range rec.Insights {
			if i >= 3 {
				break
			}
			fmt.Fprintf(&b, "%d. %s\n", i+1, ins.Title)
		}
		b.WriteString("\n")
	}

	if len(rec.Anomalies) > 0 {
		b.WriteString("Anomalies:\n")
		fmt.Fprintf(&b, "- Total anomalies detected: %d\n", len(rec.Anomalies))
		for i, a := range rec.Anomalies {
			if i >= 2 {
				break
			}
			fmt.Fprintf(&b, "- %s\n", a.Title)
		}
	}

	return b.String()
}
