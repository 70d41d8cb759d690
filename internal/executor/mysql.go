package executor

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQL executes statements against a MySQL-compatible platform through
// database/sql.
type MySQL struct {
	db      *sql.DB
	timeout time.Duration
}

func NewMySQL(dsn string) (*MySQL, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("mysql ping failed: %w", err)
	}

	return &MySQL{
		db:      db,
		timeout: 5 * time.Second,
	}, nil
}

func (m *MySQL) Close() error {
	return m.db.Close()
}

// Execute runs one statement. Row-returning statements go through
// QueryContext; everything else (DROP and friends) goes through ExecContext
// and yields no rows.
func (m *MySQL) Execute(ctx context.Context, statement string) ([]Row, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if !returnsRows(statement) {
		if _, err := m.db.ExecContext(ctx, statement); err != nil {
			return nil, err
		}
		return nil, nil
	}

	rows, err := m.db.QueryContext(ctx, statement)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []Row
	for rows.Next() {
		values := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		row := make(Row, len(cols))
		for i, v := range values {
			if v.Valid {
				row[i] = v.String
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func returnsRows(statement string) bool {
	head := strings.ToUpper(strings.TrimSpace(statement))
	return strings.HasPrefix(head, "SELECT") || strings.HasPrefix(head, "SHOW")
}
