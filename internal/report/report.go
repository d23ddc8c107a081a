// Package report renders an analysis record as a markdown document and an
// HTML export.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"tabscope/domain/analysis"
	"tabscope/domain/table"
	apperrors "tabscope/internal/errors"
)

// BuildMarkdown renders the full analysis report.
func BuildMarkdown(rec *analysis.Record) string {
	var b strings.Builder
	b.WriteString("# Analysis Report\n\n")
	fmt.Fprintf(&b, "Run: %s  \nGenerated: %s\n\n", rec.RunID, time.Now().Format("2006-01-02 15:04"))

	if rec.Error != "" {
		fmt.Fprintf(&b, "> **Errors during analysis**: %s\n\n", rec.Error)
	}
	if rec.Warning != "" {
		fmt.Fprintf(&b, "> **Warnings**: %s\n\n", rec.Warning)
	}

	if rec.Summary != "" {
		b.WriteString("## Executive Summary\n\n")
		b.WriteString(rec.Summary)
		b.WriteString("\n\n")
	}

	if p := rec.Profile; p != nil {
		b.WriteString("## Dataset Profile\n\n")
		fmt.Fprintf(&b, "- Rows: %d\n", p.Overview.TotalRows)
		fmt.Fprintf(&b, "- Columns: %d\n", p.Overview.TotalColumns)
		fmt.Fprintf(&b, "- Data quality score: %.0f/100\n\n", p.Quality.Score)

		if len(p.QualityIssues) > 0 {
			b.WriteString("### Quality Issues\n\n")
			for _, issue := range p.QualityIssues {
				fmt.Fprintf(&b, "- %s\n", issue)
			}
			b.WriteString("\n")
		}

		b.WriteString("### Columns\n\n")
		b.WriteString("| Column | Kind | Missing % | Unique |\n")
		b.WriteString("| --- | --- | --- | --- |\n")
		for _, name := range p.ColumnOrder {
			col, ok := p.Columns[name]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "| %s | %s | %.1f | %d |\n",
				col.Name, col.Kind, col.NullPercentage, col.UniqueValues)
		}
		b.WriteString("\n")
	}

	writeFindings(&b, "Insights", rec.Insights, func(f analysis.Finding) string {
		return fmt.Sprintf("confidence %.0f%%", f.Confidence*100)
	})
	writeFindings(&b, "Anomalies", rec.Anomalies, func(f analysis.Finding) string {
		return fmt.Sprintf("severity %s", f.Severity)
	})

	if len(rec.Charts) > 0 {
		b.WriteString("## Planned Charts\n\n")
		for _, c := range rec.Charts {
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", c.Title, c.ChartType, c.Description)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func writeFindings(b *strings.Builder, heading string, findings []analysis.Finding, badge func(analysis.Finding) string) {
	if len(findings) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", heading)
	for _, f := range findings {
		fmt.Fprintf(b, "### %s\n\n", f.Title)
		fmt.Fprintf(b, "%s (%s)\n\n", f.Description, badge(f))
		if f.Explanation != "" {
			fmt.Fprintf(b, "%s\n\n", f.Explanation)
		}
		if f.Action != "" {
			fmt.Fprintf(b, "**Suggested action**: %s\n\n", f.Action)
		}
		if len(f.Metrics) > 0 {
			keys := make([]string, 0, len(f.Metrics))
			for k := range f.Metrics {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			parts := make([]string, 0, len(keys))
			for _, k := range keys {
				parts = append(parts, fmt.Sprintf("%s=%s", k, table.FormatFloat(f.Metrics[k])))
			}
			fmt.Fprintf(b, "_%s_\n\n", strings.Join(parts, ", "))
		}
	}
}

// ToHTML converts report markdown into a standalone HTML page.
func ToHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: "Analysis Report",
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.ToHTML([]byte(md), p, renderer)
}

// Write saves the markdown report and its HTML export into dir and returns
// the markdown path.
func Write(rec *analysis.Record, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperrors.Wrap(err, "create report directory")
	}

	md := BuildMarkdown(rec)
	mdPath := filepath.Join(dir, fmt.Sprintf("report_%s.md", rec.RunID))
	if err := os.WriteFile(mdPath, []byte(md), 0o644); err != nil {
		return "", apperrors.Wrap(err, "write markdown report")
	}

	htmlPath := filepath.Join(dir, fmt.Sprintf("report_%s.html", rec.RunID))
	if err := os.WriteFile(htmlPath, ToHTML(md), 0o644); err != nil {
		return "", apperrors.Wrap(err, "write HTML report")
	}
	return mdPath, nil
}
