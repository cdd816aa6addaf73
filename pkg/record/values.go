package record

import "github.com/satishbabariya/activerecord/internal/core/query/domain"

// Sort is an ordered list of sort columns.
type Sort = domain.Sort

// SortDirection is ASC or DESC.
type SortDirection = domain.SortDirection

// Sort directions.
const (
	Asc  = domain.Asc
	Desc = domain.Desc
)

// Page is an immutable page index and size.
type Page = domain.Page

// Parameters is an ordered set of named values.
type Parameters = domain.Parameters

// DefaultPageSize is the page size used when none was configured.
const DefaultPageSize = domain.DefaultPageSize

// By sorts ascending on columns.
func By(columns ...string) Sort {
	return domain.SortBy(columns...)
}

// Ascending sorts ascending on columns.
func Ascending(columns ...string) Sort {
	return domain.SortBy(columns...)
}

// Descending sorts descending on columns.
func Descending(columns ...string) Sort {
	return domain.SortDescending(columns...)
}

// NewPage returns the first page of the given size.
func NewPage(size int) Page {
	return domain.NewPage(size)
}

// PageOf returns the page at index with the given size.
func PageOf(index, size int) Page {
	return domain.PageOf(index, size)
}

// With starts a named parameter set.
func With(name string, value interface{}) Parameters {
	return domain.With(name, value)
}
