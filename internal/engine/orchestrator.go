package engine

import (
	"context"
	"fmt"

	"github.com/alexanderjulianmartinez/table-dropper/internal/executor"
	"github.com/alexanderjulianmartinez/table-dropper/internal/namespace"
	"github.com/alexanderjulianmartinez/table-dropper/pkg/types"
)

// dropStatement builds the idempotent single-table drop. "IF EXISTS" keeps
// repeated drops from ever being an error on the platform side.
func dropStatement(ns namespace.ID, table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", ns.Qualify(table))
}

// runBatch processes the selected names in order, one independent drop per
// table. Preview mode never touches the executor. An Execute-mode failure
// is recorded on its entry and the batch continues; there is no atomicity
// across tables. A name repeated within one request is skipped after its
// first occurrence so each table sees at most one drop attempt.
func runBatch(ctx context.Context, exec executor.Executor, ns namespace.ID, selected []string, mode types.DropMode) *types.DropReport {
	report := &types.DropReport{
		Namespace: ns.String(),
		Mode:      mode,
	}
	if len(selected) == 0 {
		report.NoSelection = true
		report.Complete = true
		return report
	}

	seen := make(map[string]bool, len(selected))
	for _, table := range selected {
		stmt := dropStatement(ns, table)

		if seen[table] {
			report.Results = append(report.Results, types.DropResult{
				Table:     table,
				Status:    types.StatusSkipped,
				Statement: stmt,
				Detail:    "duplicate entry in request",
			})
			continue
		}
		seen[table] = true

		if mode == types.ModePreview {
			report.Results = append(report.Results, types.DropResult{
				Table:     table,
				Status:    types.StatusDropped,
				Statement: stmt,
				Preview:   true,
			})
			continue
		}

		if _, err := exec.Execute(ctx, stmt); err != nil {
			report.Results = append(report.Results, types.DropResult{
				Table:     table,
				Status:    types.StatusFailed,
				Statement: stmt,
				Detail:    err.Error(),
			})
			continue
		}

		report.Results = append(report.Results, types.DropResult{
			Table:     table,
			Status:    types.StatusDropped,
			Statement: stmt,
		})
	}

	report.Complete = true
	return report
}
