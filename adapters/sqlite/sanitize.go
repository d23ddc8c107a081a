package sqlite

import (
	"fmt"
	"regexp"
	"strings"

	apperrors "tabscope/internal/errors"
)

var (
	columnCleaner = regexp.MustCompile(`[^a-z0-9_]+`)
	limitClause   = regexp.MustCompile(`(?i)\blimit\s+\d+`)

	forbiddenPattern = regexp.MustCompile(`(?i)\b(insert|update|delete|drop|alter|create|attach|detach|pragma|vacuum|reindex)\b`)
)

// SanitizeColumnName converts an arbitrary header into a safe SQL identifier.
func SanitizeColumnName(name string) string {
	cleaned := columnCleaner.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
	cleaned = strings.Trim(cleaned, "_")
	if cleaned == "" {
		cleaned = "col"
	}
	if cleaned[0] >= '0' && cleaned[0] <= '9' {
		cleaned = "c_" + cleaned
	}
	return cleaned
}

// SanitizeQuery enforces read-only single-statement SQL and appends a LIMIT
// when the query has none.
func SanitizeQuery(query string, maxRows int) (string, error) {
	q := strings.TrimSpace(query)
	q = strings.TrimSuffix(q, ";")
	q = strings.TrimSpace(q)
	if q == "" {
		return "", apperrors.InvalidInput("empty query")
	}
	if strings.Contains(q, ";") {
		return "", apperrors.InvalidInput("multiple SQL statements are not allowed")
	}

	lower := strings.ToLower(q)
	if !strings.HasPrefix(lower, "select") && !strings.HasPrefix(lower, "with") {
		return "", apperrors.InvalidInput("only SELECT queries are allowed")
	}
	if m := forbiddenPattern.FindString(lower); m != "" {
		return "", apperrors.InvalidInput(fmt.Sprintf("forbidden keyword in query: %s", m))
	}

	if !limitClause.MatchString(q) {
		q = fmt.Sprintf("%s LIMIT %d", q, maxRows)
	}
	return q, nil
}
