package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alexanderjulianmartinez/table-dropper/internal/executor"
	"github.com/alexanderjulianmartinez/table-dropper/internal/namespace"
	"github.com/alexanderjulianmartinez/table-dropper/pkg/types"
)

// fakeExecutor serves the inventory read from canned rows and records every
// drop statement. Individual drops can be made to fail.
type fakeExecutor struct {
	inventoryRows []executor.Row
	selectErr     error
	failOn        map[string]error
	statements    []string
}

func (f *fakeExecutor) Execute(ctx context.Context, statement string) ([]executor.Row, error) {
	f.statements = append(f.statements, statement)
	if strings.HasPrefix(statement, "SELECT") {
		if f.selectErr != nil {
			return nil, f.selectErr
		}
		return f.inventoryRows, nil
	}
	if err, ok := f.failOn[statement]; ok {
		return nil, err
	}
	return nil, nil
}

func (f *fakeExecutor) dropStatements() []string {
	var drops []string
	for _, stmt := range f.statements {
		if strings.HasPrefix(stmt, "DROP") {
			drops = append(drops, stmt)
		}
	}
	return drops
}

func twoTableExecutor() *fakeExecutor {
	return &fakeExecutor{inventoryRows: []executor.Row{
		{"t1", "2023-01-01"},
		{"t2", "2023-01-02"},
	}}
}

func TestLoad_RebuildsSelection(t *testing.T) {
	fake := twoTableExecutor()
	eng := New(fake)

	inv, err := eng.Load(context.Background(), "my_catalog.my_schema")
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if len(inv) != 2 || inv[0].Name != "t1" || inv[1].Name != "t2" {
		t.Fatalf("unexpected inventory: %+v", inv)
	}
	if got := eng.SelectedNames(); len(got) != 0 {
		t.Fatalf("expected fresh selection to be empty, got %v", got)
	}
}

func TestLoad_InvalidNamespace(t *testing.T) {
	eng := New(twoTableExecutor())
	if _, err := eng.Load(context.Background(), "just_a_catalog"); !errors.Is(err, namespace.ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestLoad_FailedFetchLeavesStateIntact(t *testing.T) {
	fake := twoTableExecutor()
	eng := New(fake)

	if _, err := eng.Load(context.Background(), "my_catalog.my_schema"); err != nil {
		t.Fatal(err)
	}
	if err := eng.Toggle("t1", true); err != nil {
		t.Fatal(err)
	}

	fake.selectErr = errors.New("warehouse unreachable")
	if _, err := eng.Load(context.Background(), "other_catalog.other_schema"); err == nil {
		t.Fatal("expected fetch error, got nil")
	}

	// Prior namespace, inventory and selection must all survive the failure.
	if got := eng.SelectedNames(); len(got) != 1 || got[0] != "t1" {
		t.Fatalf("expected selection preserved after failed load, got %v", got)
	}
	report, err := eng.Drop(context.Background(), types.ModePreview)
	if err != nil {
		t.Fatalf("drop error: %v", err)
	}
	if report.Namespace != "my_catalog.my_schema" {
		t.Fatalf("expected prior namespace preserved, got %s", report.Namespace)
	}
}

func TestDrop_NotLoaded(t *testing.T) {
	eng := New(twoTableExecutor())
	if _, err := eng.Drop(context.Background(), types.ModePreview); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
	if err := eng.Toggle("t1", true); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded from Toggle, got %v", err)
	}
	if err := eng.SelectAll(true); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded from SelectAll, got %v", err)
	}
}

func TestDrop_PreviewNeverTouchesExecutor(t *testing.T) {
	fake := twoTableExecutor()
	eng := New(fake)

	if _, err := eng.Load(context.Background(), "my_catalog.my_schema"); err != nil {
		t.Fatal(err)
	}
	if err := eng.SelectAll(true); err != nil {
		t.Fatal(err)
	}

	report, err := eng.Drop(context.Background(), types.ModePreview)
	if err != nil {
		t.Fatalf("drop error: %v", err)
	}

	if drops := fake.dropStatements(); len(drops) != 0 {
		t.Fatalf("preview must not issue statements, got %v", drops)
	}
	if len(report.Results) != 2 {
		t.Fatalf("expected 2 preview entries, got %d", len(report.Results))
	}
	wantStatements := []string{
		"DROP TABLE IF EXISTS my_catalog.my_schema.t1",
		"DROP TABLE IF EXISTS my_catalog.my_schema.t2",
	}
	for i, res := range report.Results {
		if !res.Preview {
			t.Errorf("entry %d not marked preview: %+v", i, res)
		}
		if res.Statement != wantStatements[i] {
			t.Errorf("entry %d statement: expected %q, got %q", i, wantStatements[i], res.Statement)
		}
	}
	if !report.Complete {
		t.Fatal("expected batch-complete marker")
	}
}

func TestDrop_PartialFailureContainment(t *testing.T) {
	fake := twoTableExecutor()
	fake.failOn = map[string]error{
		"DROP TABLE IF EXISTS my_catalog.my_schema.t1": errors.New("table is locked"),
	}
	eng := New(fake)

	if _, err := eng.Load(context.Background(), "my_catalog.my_schema"); err != nil {
		t.Fatal(err)
	}
	if err := eng.SelectAll(true); err != nil {
		t.Fatal(err)
	}

	report, err := eng.Drop(context.Background(), types.ModeExecute)
	if err != nil {
		t.Fatalf("drop error: %v", err)
	}

	// One table's failure must not abort the rest of the batch.
	if drops := fake.dropStatements(); len(drops) != 2 {
		t.Fatalf("expected 2 drop calls, got %v", drops)
	}
	if len(report.Results) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(report.Results))
	}
	if report.Results[0].Status != types.StatusFailed || report.Results[0].Table != "t1" {
		t.Errorf("expected t1 Failed first, got %+v", report.Results[0])
	}
	if !strings.Contains(report.Results[0].Detail, "table is locked") {
		t.Errorf("expected failure detail preserved, got %q", report.Results[0].Detail)
	}
	if report.Results[1].Status != types.StatusDropped || report.Results[1].Table != "t2" {
		t.Errorf("expected t2 Dropped second, got %+v", report.Results[1])
	}
}

func TestDrop_EmptySelection(t *testing.T) {
	fake := twoTableExecutor()
	eng := New(fake)

	if _, err := eng.Load(context.Background(), "my_catalog.my_schema"); err != nil {
		t.Fatal(err)
	}

	report, err := eng.Drop(context.Background(), types.ModeExecute)
	if err != nil {
		t.Fatalf("drop error: %v", err)
	}
	if !report.NoSelection {
		t.Fatal("expected NoSelection signal")
	}
	if len(report.Results) != 0 {
		t.Fatalf("expected empty outcome, got %v", report.Results)
	}
	if drops := fake.dropStatements(); len(drops) != 0 {
		t.Fatalf("expected zero executor calls, got %v", drops)
	}
}

func TestDrop_SingleTableEndToEnd(t *testing.T) {
	fake := twoTableExecutor()
	eng := New(fake)

	if _, err := eng.Load(context.Background(), "my_catalog.my_schema"); err != nil {
		t.Fatal(err)
	}
	if err := eng.Toggle("t1", true); err != nil {
		t.Fatal(err)
	}

	report, err := eng.Drop(context.Background(), types.ModeExecute)
	if err != nil {
		t.Fatalf("drop error: %v", err)
	}

	drops := fake.dropStatements()
	if len(drops) != 1 || drops[0] != "DROP TABLE IF EXISTS my_catalog.my_schema.t1" {
		t.Fatalf("expected exactly one drop of t1, got %v", drops)
	}
	if len(report.Results) != 1 {
		t.Fatalf("expected one outcome, got %d", len(report.Results))
	}
	if report.Results[0].Table != "t1" || report.Results[0].Status != types.StatusDropped {
		t.Fatalf("expected t1 Dropped, got %+v", report.Results[0])
	}
	if !report.Complete {
		t.Fatal("expected batch-complete marker")
	}
}

func TestDrop_InconsistentSelection(t *testing.T) {
	fake := twoTableExecutor()
	eng := New(fake)

	if _, err := eng.Load(context.Background(), "my_catalog.my_schema"); err != nil {
		t.Fatal(err)
	}
	if err := eng.SelectAll(true); err != nil {
		t.Fatal(err)
	}

	// Simulate a stale selection: the inventory grew underneath it.
	eng.inv = append(eng.inv, types.TableRecord{Name: "t3", Created: "2023-01-03"})

	_, err := eng.Drop(context.Background(), types.ModeExecute)
	if !errors.Is(err, ErrInconsistentSelection) {
		t.Fatalf("expected ErrInconsistentSelection, got %v", err)
	}
	if drops := fake.dropStatements(); len(drops) != 0 {
		t.Fatalf("no statement may be issued on inconsistency, got %v", drops)
	}
}

func TestRunBatch_DuplicateSkipped(t *testing.T) {
	fake := &fakeExecutor{}
	ns := namespace.ID{Catalog: "main", Schema: "default"}

	report := runBatch(context.Background(), fake, ns, []string{"t1", "t1"}, types.ModeExecute)

	if drops := fake.dropStatements(); len(drops) != 1 {
		t.Fatalf("expected one drop attempt for duplicated name, got %v", drops)
	}
	if len(report.Results) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(report.Results))
	}
	if report.Results[0].Status != types.StatusDropped {
		t.Errorf("expected first occurrence Dropped, got %+v", report.Results[0])
	}
	if report.Results[1].Status != types.StatusSkipped {
		t.Errorf("expected second occurrence Skipped, got %+v", report.Results[1])
	}
}
