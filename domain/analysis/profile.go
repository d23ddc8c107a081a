package analysis

// DatasetProfile is the profiling engine's result: per-column statistics,
// detected special columns, usage recommendations and the quality score.
// Computed once per run and never mutated afterwards.
type DatasetProfile struct {
	Overview        Overview                 `json:"overview"`
	Columns         map[string]ColumnProfile `json:"columns"`
	ColumnOrder     []string                 `json:"column_order"`
	Summary         ColumnSummary            `json:"summary"`
	Recommendations Recommendations          `json:"recommendations"`
	Quality         QualityScore             `json:"data_quality_score"`
	QualityIssues   []string                 `json:"data_quality_issues"`
}

// Overview holds dataset-level counts.
type Overview struct {
	TotalRows    int `json:"total_rows"`
	TotalColumns int `json:"total_columns"`
}

// ColumnProfile holds per-column statistics. Numeric fields are pointers so
// an all-null column profiles without inventing zeros.
type ColumnProfile struct {
	Name           string  `json:"name"`
	Kind           string  `json:"kind"`
	Numeric        bool    `json:"numeric"`
	NonNullCount   int     `json:"non_null_count"`
	NullCount      int     `json:"null_count"`
	NullPercentage float64 `json:"null_percentage"`

	Mean         *float64 `json:"mean,omitempty"`
	Median       *float64 `json:"median,omitempty"`
	StdDev       *float64 `json:"std_dev,omitempty"`
	Min          *float64 `json:"min,omitempty"`
	Max          *float64 `json:"max,omitempty"`
	Q1           *float64 `json:"q1,omitempty"`
	Q3           *float64 `json:"q3,omitempty"`
	OutlierCount int      `json:"outlier_count,omitempty"`

	UniqueValues int            `json:"unique_values,omitempty"`
	TopValues    map[string]int `json:"top_values,omitempty"`
}

// ColumnSummary groups columns by detected role.
type ColumnSummary struct {
	NumericColumns     []string           `json:"numeric_columns"`
	CategoricalColumns []string           `json:"categorical_columns"`
	DateColumns        []string           `json:"date_columns"`
	IDColumns          []string           `json:"id_columns"`
	ConstantColumns    []string           `json:"constant_columns"`
	TargetSuggestions  []TargetSuggestion `json:"target_suggestions"`
}

// TargetSuggestion proposes a column as the analysis target.
type TargetSuggestion struct {
	Column     string `json:"column"`
	Reason     string `json:"reason"`
	Confidence string `json:"confidence"` // high, medium, low
}

// Recommendations hold the additive-score usage suggestions, each sorted
// descending by score or severity.
type Recommendations struct {
	BestForVisualization []ColumnRecommendation `json:"best_for_visualization"`
	BestForGrouping      []ColumnRecommendation `json:"best_for_grouping"`
	ColumnsToClean       []CleanupEntry         `json:"columns_to_clean"`
}

// ColumnRecommendation scores a column for a usage.
type ColumnRecommendation struct {
	Column  string   `json:"column"`
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
	Type    string   `json:"type"`
}

// CleanupEntry flags a column with data quality issues.
type CleanupEntry struct {
	Column   string   `json:"column"`
	Severity int      `json:"severity"`
	Issues   []string `json:"issues"`
}

// QualityScore is the derived dataset score in [0,100]:
// 100 − (missing% + duplicate% + outlier%), clamped at 0. Recomputed whole
// from the column profiles and duplicate count each run.
type QualityScore struct {
	Score               float64 `json:"score"`
	MissingPercentage   float64 `json:"missing_percentage"`
	DuplicatePercentage float64 `json:"duplicate_percentage"`
	OutlierPercentage   float64 `json:"outlier_percentage"`
	TotalMissing        int     `json:"total_missing"`
	TotalDuplicates     int     `json:"total_duplicates"`
	TotalOutliers       int     `json:"total_outliers"`
}
