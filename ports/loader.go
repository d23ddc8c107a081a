package ports

import "tabscope/domain/table"

// Validation is the loader's verdict on a parsed dataset.
type Validation struct {
	Valid  bool
	Reason string
}

// Loader supplies an immutable tabular structure from a file. An invalid or
// absent dataset is surfaced through the Validation, not a panic.
type Loader interface {
	Load(path string) (*table.Dataset, Validation, error)
}
