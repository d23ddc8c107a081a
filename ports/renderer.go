package ports

import (
	"context"

	"tabscope/domain/analysis"
)

// ChartRenderer consumes chart plans read-only and produces side artifacts
// (HTML, images). The core never depends on its output.
type ChartRenderer interface {
	Render(ctx context.Context, plans []analysis.ChartPlan) error
}
