package ports

import (
	"context"

	"tabscope/domain/table"
)

// QueryStore is the relational store the question resolver queries. It is
// rebuilt wholesale at pipeline start and read-only afterwards.
type QueryStore interface {
	// Build replaces the store contents with the dataset, adding derived
	// date columns for queryability.
	Build(ctx context.Context, ds *table.Dataset) error

	// Schema returns a column name + declared type description for query
	// synthesis prompts.
	Schema(ctx context.Context) (string, error)

	// Query executes a read-only SELECT/WITH statement with a row cap and
	// returns column names plus row tuples. Malformed or non-read-only
	// input errors.
	Query(ctx context.Context, sql string, maxRows int) ([]string, [][]any, error)

	Close() error
}
