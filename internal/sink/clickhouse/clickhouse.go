// Package clickhouse exports decoded frame rows to a ClickHouse table,
// one row per frame, each inserted in its own transaction; rows are not
// batched.
package clickhouse

import (
	"encoding/json"

	_ "github.com/ClickHouse/clickhouse-go"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/blackbox-log/decoder/internal/sink"
)

// Sink writes rows to a single ClickHouse table with columns
// (run_id, kind, intra, iteration, time, fields), where fields is the
// row's per-frame-kind value map serialized as JSON -- the schema
// varies by firmware/frame kind, so a fixed column set can't hold it.
type Sink struct {
	db    *sqlx.DB
	table string
}

// Open connects to ClickHouse at dsn and prepares writes against
// table.
func Open(dsn, table string) (*Sink, error) {
	db, err := sqlx.Open("clickhouse", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening clickhouse connection")
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(50)

	return &Sink{db: db, table: table}, nil
}

// Write inserts one row inside its own transaction, same per-row
// transaction granularity the teacher's writer goroutine uses.
func (s *Sink) Write(row sink.Row) error {
	fields, err := json.Marshal(row.Fields)
	if err != nil {
		return errors.Wrap(err, "marshaling row fields")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "beginning clickhouse transaction")
	}

	query := "INSERT INTO " + s.table + " (run_id, kind, intra, iteration, time, fields) VALUES (?, ?, ?, ?, ?, ?)"
	if _, err := tx.Exec(query, row.Run.String(), row.Kind, row.Intra, row.Iteration, row.Time, string(fields)); err != nil {
		tx.Rollback()
		return errors.Wrap(err, "inserting row")
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing clickhouse transaction")
	}
	return nil
}

// Close releases the underlying database connection.
func (s *Sink) Close() error {
	return s.db.Close()
}
