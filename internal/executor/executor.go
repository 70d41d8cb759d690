package executor

import "context"

// Row is one result row, values in select-list order.
type Row []string

// Executor runs a single SQL statement against the data platform and
// returns its rows, if any. Implementations are accessed one call at a
// time; the engine never issues concurrent statements.
type Executor interface {
	Execute(ctx context.Context, statement string) ([]Row, error)
}
