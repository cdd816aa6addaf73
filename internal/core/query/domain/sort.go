package domain

// SortDirection represents sort direction.
type SortDirection string

const (
	// Asc is ascending order.
	Asc SortDirection = "ASC"
	// Desc is descending order.
	Desc SortDirection = "DESC"
)

// SortColumn is one entry of a Sort.
type SortColumn struct {
	Name      string
	Direction SortDirection
}

// Sort is an ordered list of columns. The zero value means store order.
// Sort values are never modified in place; every builder method returns a copy.
type Sort struct {
	Columns []SortColumn
}

// SortBy returns an ascending sort on the given columns.
func SortBy(columns ...string) Sort {
	return Sort{}.and(Asc, columns...)
}

// SortDescending returns a descending sort on the given columns.
func SortDescending(columns ...string) Sort {
	return Sort{}.and(Desc, columns...)
}

// And appends ascending columns.
func (s Sort) And(columns ...string) Sort {
	return s.and(Asc, columns...)
}

// AndDesc appends descending columns.
func (s Sort) AndDesc(columns ...string) Sort {
	return s.and(Desc, columns...)
}

// Direction sets the direction of every column.
func (s Sort) Direction(d SortDirection) Sort {
	out := make([]SortColumn, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = SortColumn{Name: c.Name, Direction: d}
	}
	return Sort{Columns: out}
}

// Descending flips every column to descending order.
func (s Sort) Descending() Sort {
	return s.Direction(Desc)
}

// Ascending flips every column to ascending order.
func (s Sort) Ascending() Sort {
	return s.Direction(Asc)
}

// IsEmpty reports whether the sort has no columns.
func (s Sort) IsEmpty() bool {
	return len(s.Columns) == 0
}

func (s Sort) and(d SortDirection, columns ...string) Sort {
	out := make([]SortColumn, 0, len(s.Columns)+len(columns))
	out = append(out, s.Columns...)
	for _, c := range columns {
		out = append(out, SortColumn{Name: c, Direction: d})
	}
	return Sort{Columns: out}
}
