package namespace

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFormat reports a namespace string that is not exactly
// "catalog.schema" with both segments non-empty.
var ErrInvalidFormat = errors.New("invalid namespace format")

// ID is a resolved catalog.schema pair.
type ID struct {
	Catalog string
	Schema  string
}

// Resolve parses a raw "catalog.schema" string. Pure validation, no side
// effects.
func Resolve(raw string) (ID, error) {
	parts := strings.Split(strings.TrimSpace(raw), ".")
	if len(parts) != 2 {
		return ID{}, fmt.Errorf("%w: expected 'catalog.schema', got %q", ErrInvalidFormat, raw)
	}

	catalog := strings.TrimSpace(parts[0])
	schema := strings.TrimSpace(parts[1])
	if catalog == "" || schema == "" {
		return ID{}, fmt.Errorf("%w: expected 'catalog.schema', got %q", ErrInvalidFormat, raw)
	}

	return ID{Catalog: catalog, Schema: schema}, nil
}

func (id ID) String() string {
	return id.Catalog + "." + id.Schema
}

// EscapedSchema returns the schema with embedded single quotes escaped,
// for embedding inside a quoted SQL literal. Callers must never inline the
// raw schema into statement text.
func (id ID) EscapedSchema() string {
	return strings.ReplaceAll(id.Schema, "'", `\'`)
}

// Qualify returns the fully qualified dot-notation identifier for a table
// in this namespace.
func (id ID) Qualify(table string) string {
	return id.Catalog + "." + id.Schema + "." + table
}
