package table

import (
	"math"
	"strconv"
)

// formatFloat renders numbers the way the loaders read them: integers
// without a decimal point, everything else with minimal digits.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// FormatFloat is the exported variant used by answer formatting.
func FormatFloat(v float64) string { return formatFloat(v) }
