package selection

import (
	"errors"
	"fmt"

	"github.com/alexanderjulianmartinez/table-dropper/pkg/types"
)

// ErrUnknownTable reports a toggle against a name that is not part of the
// current inventory, usually a stale reference held across a reload.
var ErrUnknownTable = errors.New("unknown table")

// State holds the operator's per-table selection flags for the inventory it
// was built from. All mutation goes through Rebuild, Toggle and SelectAll;
// nothing else may write the flags.
type State struct {
	order    []string
	selected map[string]bool
}

func New() *State {
	return &State{selected: map[string]bool{}}
}

// Rebuild replaces the whole selection with one unselected flag per
// inventory row. Prior selection never carries over, even when a table name
// recurs across fetches.
func (s *State) Rebuild(inv types.Inventory) {
	s.order = make([]string, 0, len(inv))
	s.selected = make(map[string]bool, len(inv))
	for _, rec := range inv {
		s.order = append(s.order, rec.Name)
		s.selected[rec.Name] = false
	}
}

// Toggle sets the flag for exactly one table. No flag changes on error.
func (s *State) Toggle(name string, value bool) error {
	if _, ok := s.selected[name]; !ok {
		return fmt.Errorf("%w: %q (reload the inventory)", ErrUnknownTable, name)
	}
	s.selected[name] = value
	return nil
}

// SelectAll sets every flag to value. Backs the bulk select-all / clear-all
// control.
func (s *State) SelectAll(value bool) {
	for name := range s.selected {
		s.selected[name] = value
	}
}

// SelectedNames returns the selected tables in inventory order.
func (s *State) SelectedNames() []string {
	var names []string
	for _, name := range s.order {
		if s.selected[name] {
			names = append(names, name)
		}
	}
	return names
}

// Len returns the number of tables the selection was built from.
func (s *State) Len() int {
	return len(s.selected)
}

// ConsistentWith reports whether this selection was built from inv: same
// size, same name set. Checked by the engine before any mutation batch.
func (s *State) ConsistentWith(inv types.Inventory) bool {
	if len(s.selected) != len(inv) {
		return false
	}
	for _, rec := range inv {
		if _, ok := s.selected[rec.Name]; !ok {
			return false
		}
	}
	return true
}
