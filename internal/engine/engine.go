package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderjulianmartinez/table-dropper/internal/executor"
	"github.com/alexanderjulianmartinez/table-dropper/internal/inventory"
	"github.com/alexanderjulianmartinez/table-dropper/internal/namespace"
	"github.com/alexanderjulianmartinez/table-dropper/internal/selection"
	"github.com/alexanderjulianmartinez/table-dropper/pkg/types"
)

// ErrNotLoaded reports engine use before a successful Load.
var ErrNotLoaded = errors.New("no namespace loaded")

// ErrInconsistentSelection reports a selection that no longer matches the
// loaded inventory. The caller holds a stale reference and must reload.
var ErrInconsistentSelection = errors.New("selection does not match loaded inventory")

// Publisher receives the report of a completed Execute-mode batch. Audit is
// best-effort: a publish failure is noted on the report, never raised.
type Publisher interface {
	Publish(ctx context.Context, report *types.DropReport) error
}

// Engine drives one operator session: load an inventory, adjust the
// selection, drop. Inventory and selection are owned exclusively by the
// engine and mutated only through these methods, one call at a time.
type Engine struct {
	exec      executor.Executor
	fetcher   *inventory.Fetcher
	publisher Publisher

	loaded bool
	ns     namespace.ID
	inv    types.Inventory
	sel    *selection.State
}

func New(exec executor.Executor) *Engine {
	return &Engine{
		exec:    exec,
		fetcher: inventory.NewFetcher(exec),
		sel:     selection.New(),
	}
}

// WithPublisher attaches an audit trail for Execute-mode batches.
func (e *Engine) WithPublisher(p Publisher) *Engine {
	e.publisher = p
	return e
}

// Load resolves raw, fetches its inventory and rebuilds the selection with
// every table unselected. No engine state changes unless the fetch
// succeeds.
func (e *Engine) Load(ctx context.Context, raw string) (types.Inventory, error) {
	ns, err := namespace.Resolve(raw)
	if err != nil {
		return nil, err
	}

	inv, err := e.fetcher.Fetch(ctx, ns)
	if err != nil {
		return nil, err
	}

	e.ns = ns
	e.inv = inv
	e.sel.Rebuild(inv)
	e.loaded = true
	return inv, nil
}

// Toggle sets the selection flag for one table of the loaded inventory.
func (e *Engine) Toggle(name string, value bool) error {
	if !e.loaded {
		return ErrNotLoaded
	}
	return e.sel.Toggle(name, value)
}

// SelectAll sets every selection flag to value.
func (e *Engine) SelectAll(value bool) error {
	if !e.loaded {
		return ErrNotLoaded
	}
	e.sel.SelectAll(value)
	return nil
}

// Inventory returns the last loaded inventory.
func (e *Engine) Inventory() types.Inventory {
	return e.inv
}

// SelectedNames returns the selected tables in inventory order.
func (e *Engine) SelectedNames() []string {
	return e.sel.SelectedNames()
}

// Drop runs the current selection through one batch in the given mode.
// The selection/inventory invariant is verified before any statement is
// issued; a violation fails the whole request.
func (e *Engine) Drop(ctx context.Context, mode types.DropMode) (*types.DropReport, error) {
	if !e.loaded {
		return nil, ErrNotLoaded
	}
	if !e.sel.ConsistentWith(e.inv) {
		return nil, fmt.Errorf("%w: %d selection flags for %d tables, reload required",
			ErrInconsistentSelection, e.sel.Len(), len(e.inv))
	}

	report := runBatch(ctx, e.exec, e.ns, e.sel.SelectedNames(), mode)

	if mode == types.ModeExecute && e.publisher != nil && !report.NoSelection {
		if err := e.publisher.Publish(ctx, report); err != nil {
			report.AuditError = err.Error()
		}
	}
	return report, nil
}
