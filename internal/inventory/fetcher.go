package inventory

import (
	"context"
	"fmt"

	"github.com/alexanderjulianmartinez/table-dropper/internal/executor"
	"github.com/alexanderjulianmartinez/table-dropper/internal/namespace"
	"github.com/alexanderjulianmartinez/table-dropper/pkg/types"
)

// QueryError reports a failed inventory read. The executor's error is kept
// verbatim so connectivity, permission and missing-namespace failures all
// surface with their original detail.
type QueryError struct {
	Namespace string
	Err       error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("listing tables in %s: %v", e.Namespace, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// Fetcher reads a namespace's table inventory through an Executor.
type Fetcher struct {
	exec executor.Executor
}

func NewFetcher(exec executor.Executor) *Fetcher {
	return &Fetcher{exec: exec}
}

// Statement builds the inventory read for the given namespace. Ordering is
// established by the statement, never client-side. The catalog is a plain
// identifier and is interpolated as-is; the schema appears inside a quoted
// literal and is escaped per namespace.ID.EscapedSchema.
func (f *Fetcher) Statement(ns namespace.ID) string {
	return fmt.Sprintf(
		"SELECT table_name, created FROM %s.information_schema.tables WHERE table_schema = '%s' ORDER BY created ASC",
		ns.Catalog, ns.EscapedSchema(),
	)
}

// Fetch returns the namespace's tables in creation order. Zero rows is a
// valid empty inventory, not an error.
func (f *Fetcher) Fetch(ctx context.Context, ns namespace.ID) (types.Inventory, error) {
	rows, err := f.exec.Execute(ctx, f.Statement(ns))
	if err != nil {
		return nil, &QueryError{Namespace: ns.String(), Err: err}
	}

	inv := make(types.Inventory, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			return nil, fmt.Errorf("inventory row has %d columns, want 2", len(row))
		}
		inv = append(inv, types.TableRecord{
			Name:    row[0],
			Created: row[1],
		})
	}
	return inv, nil
}
