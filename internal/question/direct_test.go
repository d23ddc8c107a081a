package question

import (
	"strings"
	"testing"

	"tabscope/domain/table"
)

func salesDataset() *table.Dataset {
	return table.New([]table.Column{
		{
			Name: "OrderDate", Kind: table.KindCategorical,
			Strings: []string{"2024-01-01", "2024-01-02", "2024-01-08", "2024-01-06"},
			Nulls:   make([]bool, 4),
		},
		{
			Name: "Product", Kind: table.KindCategorical,
			Strings: []string{"Widget", "Gadget", "Widget", "Gizmo"},
			Nulls:   make([]bool, 4),
		},
		{
			Name: "Sales", Kind: table.KindNumeric,
			Numbers: []float64{100, 250, 75, 300},
			Nulls:   make([]bool, 4),
		},
	})
}

func TestDirectAnswerMaximum(t *testing.T) {
	answer := DirectAnswer("What is the maximum sales?", salesDataset())
	if answer != "**Maximum Sales**: 300" {
		t.Errorf("answer = %q", answer)
	}
}

func TestDirectAnswerAverageWithoutColumn(t *testing.T) {
	answer := DirectAnswer("show the averages", salesDataset())
	if !strings.HasPrefix(answer, "**Average Values**:") {
		t.Errorf("answer = %q", answer)
	}
	if !strings.Contains(answer, "Sales: 181.25") {
		t.Errorf("missing sales mean in %q", answer)
	}
}

func TestDirectAnswerWeekday(t *testing.T) {
	// 2024-01-01 and 2024-01-08 were Mondays.
	answer := DirectAnswer("how many rows on monday", salesDataset())
	if answer != "**Rows on Monday**: 2" {
		t.Errorf("answer = %q", answer)
	}
}

func TestDirectAnswerCount(t *testing.T) {
	answer := DirectAnswer("how many records are there", salesDataset())
	if !strings.HasPrefix(answer, "**Total Records**: 4") {
		t.Errorf("answer = %q", answer)
	}
}

func TestDirectAnswerFilterThreshold(t *testing.T) {
	answer := DirectAnswer("show me sales where sales > 100", salesDataset())
	if answer != "**Filtered Results**: found 2 records where Sales > 100" {
		t.Errorf("answer = %q", answer)
	}
}

func TestDirectAnswerDistinct(t *testing.T) {
	answer := DirectAnswer("what are the unique product values", salesDataset())
	if !strings.HasPrefix(answer, "**Unique values in 'Product'**: 3 distinct") {
		t.Errorf("answer = %q", answer)
	}
}

func TestDirectAnswerColumnStatistics(t *testing.T) {
	answer := DirectAnswer("tell me about sales", salesDataset())
	if !strings.Contains(answer, "**Sales Statistics**:") {
		t.Errorf("answer = %q", answer)
	}
	if !strings.Contains(answer, "Max: 300") || !strings.Contains(answer, "Min: 75") {
		t.Errorf("missing stats in %q", answer)
	}
}

func TestDirectAnswerNoMatch(t *testing.T) {
	if answer := DirectAnswer("hello there", salesDataset()); answer != "" {
		t.Errorf("answer = %q, want empty", answer)
	}
}

func TestDirectAnswerNilDataset(t *testing.T) {
	if answer := DirectAnswer("maximum sales", nil); answer != "" {
		t.Errorf("answer = %q, want empty", answer)
	}
}
