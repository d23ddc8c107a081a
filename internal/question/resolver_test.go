package question

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabscope/domain/analysis"
	"tabscope/domain/table"
	apperrors "tabscope/internal/errors"
	"tabscope/internal/observability"
	"tabscope/ports"
)

type fakeStore struct {
	schema   string
	cols     []string
	rows     [][]any
	lastSQL  string
	queryErr error
}

func (f *fakeStore) Build(ctx context.Context, ds *table.Dataset) error { return nil }

func (f *fakeStore) Schema(ctx context.Context) (string, error) { return f.schema, nil }

func (f *fakeStore) Query(ctx context.Context, sql string, maxRows int) ([]string, [][]any, error) {
	f.lastSQL = sql
	if f.queryErr != nil {
		return nil, nil, f.queryErr
	}
	return f.cols, f.rows, nil
}

func (f *fakeStore) Close() error { return nil }

type fakeLLM struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeLLM) Complete(ctx context.Context, prompt string, opts ports.GenerationOptions) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func testLogger() *observability.Logger {
	return observability.NewLogger("question", io.Discard)
}

func TestResolverUsesLLMGeneratedSQL(t *testing.T) {
	store := &fakeStore{
		schema: "Table: dataset\n  sales (REAL)\n",
		cols:   []string{"avg_sales"},
		rows:   [][]any{{float64(181.25)}},
	}
	llm := &fakeLLM{response: "```sql\nSELECT AVG(sales) AS avg_sales FROM dataset\n```"}
	r := NewResolver(store, llm, salesSchema(), testLogger())

	answer := r.Answer(context.Background(), nil, "average sales?")
	assert.Equal(t, "Result: **avg_sales = 181.25**", answer)
	assert.Equal(t, "SELECT AVG(sales) AS avg_sales FROM dataset", store.lastSQL)
}

func TestResolverFallsBackToRulesOnQuota(t *testing.T) {
	store := &fakeStore{
		cols: []string{"avg_sales"},
		rows: [][]any{{float64(42)}},
	}
	llm := &fakeLLM{err: apperrors.QuotaExhausted(errors.New("payment required"))}
	r := NewResolver(store, llm, salesSchema(), testLogger())

	answer := r.Answer(context.Background(), nil, "what is the average sales")
	require.NotEmpty(t, answer)
	assert.Contains(t, store.lastSQL, `AVG("sales")`)
	assert.Equal(t, "Result: **avg_sales = 42**", answer)
}

func TestResolverWithoutLLMUsesRules(t *testing.T) {
	store := &fakeStore{
		cols: []string{"total_rows"},
		rows: [][]any{{int64(4)}},
	}
	r := NewResolver(store, nil, salesSchema(), testLogger())

	answer := r.Answer(context.Background(), nil, "how many rows are there")
	assert.Equal(t, "Result: **total_rows = 4**", answer)
}

func TestResolverFallsBackToDirectAnswer(t *testing.T) {
	rec := &analysis.Record{Dataset: salesDataset()}
	r := NewResolver(nil, nil, Schema{}, testLogger())

	answer := r.Answer(context.Background(), rec, "maximum sales")
	assert.Equal(t, "**Maximum Sales**: 300", answer)
}

func TestResolverContextFallbackNeverEmpty(t *testing.T) {
	r := NewResolver(nil, nil, Schema{}, testLogger())
	answer := r.Answer(context.Background(), &analysis.Record{}, "is anything interesting here")
	assert.NotEmpty(t, answer)
}

func TestResolverNonQuotaLLMErrorSkipsRuleSQL(t *testing.T) {
	store := &fakeStore{cols: []string{"x"}, rows: [][]any{{int64(1)}}}
	llm := &fakeLLM{err: errors.New("connection reset")}
	rec := &analysis.Record{Dataset: salesDataset()}
	r := NewResolver(store, llm, salesSchema(), testLogger())

	answer := r.Answer(context.Background(), rec, "what is the maximum sales")
	// SQL rung aborts without rule synthesis, direct answering takes over.
	assert.Equal(t, "**Maximum Sales**: 300", answer)
	assert.Empty(t, store.lastSQL)
}

func TestExtractSQL(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"SELECT 1", "SELECT 1"},
		{"```sql\nSELECT 1\n```", "SELECT 1"},
		{"```\nSELECT a FROM t\n```", "SELECT a FROM t"},
		{"  SELECT 2  ", "SELECT 2"},
	}
	for _, tc := range cases {
		if got := ExtractSQL(tc.in); got != tc.want {
			t.Errorf("ExtractSQL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatSQLResultScalar(t *testing.T) {
	out := FormatSQLResult("SELECT COUNT(*) AS n FROM dataset", []string{"n"}, [][]any{{int64(7)}})
	assert.Equal(t, "Result: **n = 7**", out)
}

func TestFormatSQLResultTable(t *testing.T) {
	out := FormatSQLResult(
		"SELECT product, sales FROM dataset",
		[]string{"product", "sales"},
		[][]any{
			{"Widget", float64(100)},
			{"Gadget", float64(250.5)},
		},
	)
	require.True(t, strings.HasPrefix(out, "SQL Answer (preview):"))
	assert.Contains(t, out, "product | sales")
	assert.Contains(t, out, "--- | ---")
	assert.Contains(t, out, "Widget | 100")
	assert.Contains(t, out, "Gadget | 250.5")
	assert.Contains(t, out, "Query used: SELECT product, sales FROM dataset")
}

func TestFormatSQLResultTruncatesPreview(t *testing.T) {
	rows := make([][]any, 25)
	for i := range rows {
		rows[i] = []any{int64(i), int64(i)}
	}
	out := FormatSQLResult("SELECT a, b FROM dataset", []string{"a", "b"}, rows)
	assert.Contains(t, out, "9 | 9")
	assert.NotContains(t, out, "10 | 10")
}
