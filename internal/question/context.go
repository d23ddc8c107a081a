package question

import (
	"fmt"
	"strings"

	"tabscope/domain/analysis"
)

// ContextAnswer extracts a best-effort answer from already-computed findings
// when no LLM is available. It never returns an empty string.
func ContextAnswer(questionText string, rec *analysis.Record) string {
	q := strings.ToLower(questionText)
	var insights []analysis.Finding
	if rec != nil {
		insights = rec.Insights
	}

	switch {
	case containsAny(q, "maximum", "max", "highest"):
		return "**Maximum values** by column have been calculated. Check the profile for detailed statistics."
	case containsAny(q, "minimum", "min", "lowest"):
		return "**Minimum values** by column are available. Check the profile for detailed statistics."
	case containsAny(q, "average", "mean"):
		return "**Average values** have been calculated for numeric columns. Check the profile for detailed statistics."
	case containsAny(q, "correlation", "relationship"):
		lines := []string{}
		for i, ins := range insights {
			if i >= 3 {
				break
			}
			lines = append(lines, fmt.Sprintf("- %s", ins.Description))
		}
		return fmt.Sprintf("**Key relationships found**:\n%s", strings.Join(lines, "\n"))
	}

	lines := []string{}
	for i, ins := range insights {
		if i >= 3 {
			break
		}
		lines = append(lines, fmt.Sprintf("- %s", ins.Title))
	}
	return fmt.Sprintf("**Analysis Summary**:\n%s", strings.Join(lines, "\n"))
}
