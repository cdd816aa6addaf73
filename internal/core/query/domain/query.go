// Package domain contains the query descriptor and the value types it is built from.
package domain

import "context"

// Query describes one logical query against a single table.
// Every field except Page is fixed once the query is built; Page is
// replaced wholesale through WithPage.
type Query struct {
	Model    string   // Table the query targets
	Columns  []string // Columns to select, empty selects every column
	IDColumn string   // Identifier column of Model
	Filter   Filter
	Sort     Sort
	Page     *Page
}

// WithPage returns a copy of q with the page replaced.
func (q Query) WithPage(p Page) Query {
	q.Page = &p
	return q
}

// WithoutPage returns a copy of q that addresses the whole result set.
func (q Query) WithoutPage() Query {
	q.Page = nil
	return q
}

// Filter is a translated predicate.
type Filter struct {
	// Where is the boolean expression placed after WHERE, still written with
	// the caller's placeholders (?1 or :name). Empty matches every row.
	Where string

	// Trailing holds a leading "ORDER BY ..." clause lifted out of the predicate.
	Trailing string

	// Params holds the caller's arguments in normalized form.
	Params Params
}

// MatchAll reports whether the filter has no restriction.
func (f Filter) MatchAll() bool {
	return f.Where == ""
}

// SQL is a compiled statement ready for the store driver.
type SQL struct {
	Query   string
	Args    []interface{}
	Dialect SQLDialect
}

// QueryCompiler compiles descriptors to SQL statements.
type QueryCompiler interface {
	CompileSelect(q Query) (SQL, error)
	CompileCount(q Query) (SQL, error)
	CompileDelete(q Query) (SQL, error)
	CompileInsert(table, idColumn string, columns []string, values []interface{}) (SQL, error)
}

// QueryExecutor runs descriptors against a store and maps the rows to T.
type QueryExecutor[T any] interface {
	Count(ctx context.Context, q Query) (int64, error)
	FetchPage(ctx context.Context, q Query) ([]T, error)
	FirstResult(ctx context.Context, q Query) (T, error)
	SingleResult(ctx context.Context, q Query) (T, error)
	DeleteMatching(ctx context.Context, q Query) (int64, error)
}
