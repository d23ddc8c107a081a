package viz

import (
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	apperrors "tabscope/internal/errors"

	"tabscope/domain/analysis"
)

// HTMLRenderer writes a chart manifest page listing every planned chart.
type HTMLRenderer struct {
	dir string
}

// NewHTMLRenderer creates a renderer that writes into dir.
func NewHTMLRenderer(dir string) *HTMLRenderer {
	return &HTMLRenderer{dir: dir}
}

// Render writes charts.html describing the plans.
func (r *HTMLRenderer) Render(ctx context.Context, plans []analysis.ChartPlan) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return apperrors.Wrap(err, "create chart output directory")
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head><title>Planned Charts</title></head>\n<body>\n")
	b.WriteString("<h1>Planned Charts</h1>\n<ul>\n")
	for _, p := range plans {
		fmt.Fprintf(&b, "<li><strong>%s</strong> (%s): %s</li>\n",
			html.EscapeString(p.Title), html.EscapeString(p.ChartType), html.EscapeString(p.Description))
	}
	b.WriteString("</ul>\n</body>\n</html>\n")

	path := filepath.Join(r.dir, "charts.html")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return apperrors.Wrap(err, "write chart manifest")
	}
	return nil
}
