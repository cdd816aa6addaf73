// Package fake provides a scripted database.Adapter for unit tests.
package fake

import (
	"context"
	"errors"
	"sync"

	"github.com/satishbabariya/activerecord/internal/adapters/database"
)

// Statement is a recorded call.
type Statement struct {
	Query string
	Args  []interface{}
}

// Adapter records every statement and answers with the configured handlers.
type Adapter struct {
	Dialect database.SQLDialect

	// OnQuery answers Query calls. Nil returns empty rows.
	OnQuery func(query string, args []interface{}) (*Rows, error)
	// OnExecute answers Execute calls. Nil returns a zero result.
	OnExecute func(query string, args []interface{}) (*Result, error)

	mu         sync.Mutex
	statements []Statement
	opened     []*Rows
	connected  bool
}

// New creates a fake adapter for dialect.
func New(dialect database.SQLDialect) *Adapter {
	return &Adapter{Dialect: dialect}
}

// Statements returns the recorded statements in call order.
func (a *Adapter) Statements() []Statement {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Statement(nil), a.statements...)
}

// OpenRows returns the number of row cursors not yet closed.
func (a *Adapter) OpenRows() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, r := range a.opened {
		if !r.Closed() {
			n++
		}
	}
	return n
}

// Connect marks the adapter connected.
func (a *Adapter) Connect(ctx context.Context) error {
	a.mu.Lock()
	a.connected = true
	a.mu.Unlock()
	return nil
}

// Disconnect marks the adapter disconnected.
func (a *Adapter) Disconnect(ctx context.Context) error {
	a.mu.Lock()
	a.connected = false
	a.mu.Unlock()
	return nil
}

// Execute records the statement and calls OnExecute.
func (a *Adapter) Execute(ctx context.Context, query string, args ...interface{}) (database.Result, error) {
	a.record(query, args)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if a.OnExecute == nil {
		return &Result{}, nil
	}
	res, err := a.OnExecute(query, args)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Query records the statement and calls OnQuery.
func (a *Adapter) Query(ctx context.Context, query string, args ...interface{}) (database.Rows, error) {
	a.record(query, args)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows := &Rows{}
	if a.OnQuery != nil {
		r, err := a.OnQuery(query, args)
		if err != nil {
			return nil, err
		}
		rows = r
	}
	a.mu.Lock()
	a.opened = append(a.opened, rows)
	a.mu.Unlock()
	return rows, nil
}

// Ping reports whether Connect was called.
func (a *Adapter) Ping(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.connected {
		return database.ErrNotConnected
	}
	return nil
}

// GetDialect returns the configured dialect.
func (a *Adapter) GetDialect() database.SQLDialect {
	if a.Dialect == "" {
		return database.SQLite
	}
	return a.Dialect
}

func (a *Adapter) record(query string, args []interface{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.statements = append(a.statements, Statement{Query: query, Args: append([]interface{}(nil), args...)})
}

// Rows is an in-memory row cursor.
type Rows struct {
	Cols []string
	Data [][]interface{}

	// FailAt makes the cursor report IterErr after that many rows.
	FailAt  int
	IterErr error

	mu     sync.Mutex
	pos    int
	closed bool
	err    error
}

// NewRows creates rows with the given columns and data.
func NewRows(cols []string, data ...[]interface{}) *Rows {
	return &Rows{Cols: cols, Data: data, FailAt: -1}
}

// Columns returns the column names.
func (r *Rows) Columns() ([]string, error) {
	return r.Cols, nil
}

// Next advances to the next row.
func (r *Rows) Next() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	if r.IterErr != nil && r.FailAt >= 0 && r.pos >= r.FailAt {
		r.err = r.IterErr
		return false
	}
	if r.pos >= len(r.Data) {
		return false
	}
	r.pos++
	return true
}

// Scan copies the current row into dest, which must be *interface{} values.
func (r *Rows) Scan(dest ...interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pos == 0 || r.pos > len(r.Data) {
		return errors.New("fake: scan without row")
	}
	row := r.Data[r.pos-1]
	if len(dest) != len(row) {
		return errors.New("fake: column count mismatch")
	}
	for i, d := range dest {
		p, ok := d.(*interface{})
		if !ok {
			return errors.New("fake: destination must be *interface{}")
		}
		*p = row[i]
	}
	return nil
}

// Close releases the cursor.
func (r *Rows) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Closed reports whether Close was called.
func (r *Rows) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Err returns the iteration error.
func (r *Rows) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Result is a fixed statement result.
type Result struct {
	LastID   int64
	Affected int64
}

// LastInsertId returns LastID.
func (r *Result) LastInsertId() (int64, error) {
	return r.LastID, nil
}

// RowsAffected returns Affected.
func (r *Result) RowsAffected() (int64, error) {
	return r.Affected, nil
}

// Ensure Adapter implements database.Adapter.
var _ database.Adapter = (*Adapter)(nil)
