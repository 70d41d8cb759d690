package types

// TableRecord is one table in a namespace inventory. Created is the
// platform's creation timestamp, carried as an opaque sortable token.
type TableRecord struct {
	Name    string
	Created string
}

// Inventory is the ordered table listing of one namespace, ascending by
// creation time. It is produced whole by a single fetch and replaced
// wholesale on reload, never merged.
type Inventory []TableRecord

// Names returns the table names in inventory order.
func (inv Inventory) Names() []string {
	names := make([]string, 0, len(inv))
	for _, rec := range inv {
		names = append(names, rec.Name)
	}
	return names
}

// DropMode selects between the dry-run preview and the real drop.
type DropMode string

const (
	ModePreview DropMode = "preview"
	ModeExecute DropMode = "execute"
)

// DropStatus is the terminal state of one drop attempt.
type DropStatus string

const (
	StatusDropped DropStatus = "dropped"
	StatusSkipped DropStatus = "skipped"
	StatusFailed  DropStatus = "failed"
)

// DropResult is the outcome for a single table. Statement always carries
// the exact drop text, whether or not it was sent. Preview marks entries
// produced without touching the executor.
type DropResult struct {
	Table     string
	Status    DropStatus
	Statement string
	Detail    string
	Preview   bool
}

// DropReport is the ordered audit record for one batch, one DropResult per
// requested table in request order. NoSelection flags the valid no-op of an
// empty request. Complete is set once every table has been processed.
// AuditError carries a failed audit-trail publish; it never affects the
// per-table results.
type DropReport struct {
	Namespace   string
	Mode        DropMode
	Results     []DropResult
	NoSelection bool
	Complete    bool
	AuditError  string
}
