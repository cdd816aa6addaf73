package domain

// DefaultPageSize is used when a cursor is navigated before a page was set.
const DefaultPageSize = 20

// Page is a zero-based page index and a page size.
type Page struct {
	Index int
	Size  int
}

// NewPage returns the first page of the given size.
func NewPage(size int) Page {
	return Page{Index: 0, Size: size}
}

// PageOf returns the page at index with the given size.
func PageOf(index, size int) Page {
	return Page{Index: index, Size: size}
}

// Next returns the following page.
func (p Page) Next() Page {
	return Page{Index: p.Index + 1, Size: p.Size}
}

// Previous returns the preceding page. Callers check HasPrevious first.
func (p Page) Previous() Page {
	return Page{Index: p.Index - 1, Size: p.Size}
}

// First returns the first page of the same size.
func (p Page) First() Page {
	return Page{Index: 0, Size: p.Size}
}

// At returns the page at index with the same size.
func (p Page) At(index int) Page {
	return Page{Index: index, Size: p.Size}
}

// HasPrevious reports whether a preceding page exists.
func (p Page) HasPrevious() bool {
	return p.Index > 0
}

// Offset is the number of rows skipped before the page.
func (p Page) Offset() int {
	return p.Index * p.Size
}

// Valid reports whether the page can address rows.
func (p Page) Valid() bool {
	return p.Index >= 0 && p.Size > 0
}

// PageCount returns the number of pages of size needed for total rows.
// It is zero when total is zero.
func PageCount(total int64, size int) int64 {
	if total <= 0 || size <= 0 {
		return 0
	}
	s := int64(size)
	return (total + s - 1) / s
}

// HasNext reports whether rows exist after page p for a result set of total rows.
func HasNext(p Page, total int64) bool {
	return int64(p.Index+1)*int64(p.Size) < total
}
