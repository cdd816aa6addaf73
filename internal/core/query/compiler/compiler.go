// Package compiler implements SQL compilation from query descriptors.
package compiler

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/activerecord/internal/core/query/binder"
	"github.com/satishbabariya/activerecord/internal/core/query/domain"
	"github.com/satishbabariya/activerecord/internal/core/query/lexer"
)

// SQLCompiler implements the domain.QueryCompiler interface.
type SQLCompiler struct {
	dialect domain.SQLDialect
}

// NewSQLCompiler creates a new SQL compiler.
func NewSQLCompiler(dialect domain.SQLDialect) *SQLCompiler {
	return &SQLCompiler{
		dialect: dialect,
	}
}

// Dialect returns the dialect statements are compiled for.
func (c *SQLCompiler) Dialect() domain.SQLDialect {
	return c.dialect
}

// CompileSelect compiles a SELECT statement. The page, when present, becomes
// LIMIT and OFFSET.
func (c *SQLCompiler) CompileSelect(q domain.Query) (domain.SQL, error) {
	if err := checkModel(q); err != nil {
		return domain.SQL{}, err
	}

	var sqlBuilder strings.Builder
	var args []interface{}

	// SELECT clause
	sqlBuilder.WriteString("SELECT ")
	if len(q.Columns) > 0 {
		sqlBuilder.WriteString(strings.Join(q.Columns, ", "))
	} else {
		sqlBuilder.WriteString("*")
	}

	// FROM clause
	sqlBuilder.WriteString(" FROM ")
	sqlBuilder.WriteString(q.Model)

	// WHERE clause
	whereArgs, err := c.writeWhere(&sqlBuilder, q.Filter)
	if err != nil {
		return domain.SQL{}, err
	}
	args = append(args, whereArgs...)

	// ORDER BY clause
	order, err := orderClause(q.Filter.Trailing, q.Sort)
	if err != nil {
		return domain.SQL{}, err
	}
	if order != "" {
		sqlBuilder.WriteString(" ")
		sqlBuilder.WriteString(order)
	}

	// LIMIT and OFFSET
	if q.Page != nil {
		if !q.Page.Valid() {
			return domain.SQL{}, fmt.Errorf("%w: invalid page %d/%d", domain.ErrInvalidQuery, q.Page.Index, q.Page.Size)
		}
		sqlBuilder.WriteString(" LIMIT ")
		sqlBuilder.WriteString(c.dialect.Placeholder(len(args) + 1))
		args = append(args, q.Page.Size)

		sqlBuilder.WriteString(" OFFSET ")
		sqlBuilder.WriteString(c.dialect.Placeholder(len(args) + 1))
		args = append(args, q.Page.Offset())
	}

	return domain.SQL{
		Query:   sqlBuilder.String(),
		Args:    args,
		Dialect: c.dialect,
	}, nil
}

// CompileCount compiles a COUNT statement. Page, sort and any trailing ORDER BY
// are ignored since they do not change the number of matching rows.
func (c *SQLCompiler) CompileCount(q domain.Query) (domain.SQL, error) {
	if err := checkModel(q); err != nil {
		return domain.SQL{}, err
	}

	var sqlBuilder strings.Builder
	sqlBuilder.WriteString("SELECT COUNT(*) FROM ")
	sqlBuilder.WriteString(q.Model)

	args, err := c.writeWhere(&sqlBuilder, q.Filter)
	if err != nil {
		return domain.SQL{}, err
	}

	return domain.SQL{
		Query:   sqlBuilder.String(),
		Args:    args,
		Dialect: c.dialect,
	}, nil
}

// CompileDelete compiles a DELETE statement. Page and sort are ignored.
func (c *SQLCompiler) CompileDelete(q domain.Query) (domain.SQL, error) {
	if err := checkModel(q); err != nil {
		return domain.SQL{}, err
	}

	var sqlBuilder strings.Builder
	sqlBuilder.WriteString("DELETE FROM ")
	sqlBuilder.WriteString(q.Model)

	args, err := c.writeWhere(&sqlBuilder, q.Filter)
	if err != nil {
		return domain.SQL{}, err
	}

	return domain.SQL{
		Query:   sqlBuilder.String(),
		Args:    args,
		Dialect: c.dialect,
	}, nil
}

// CompileInsert compiles an INSERT for one row. On dialects with RETURNING the
// generated identifier is returned as the only column.
func (c *SQLCompiler) CompileInsert(table, idColumn string, columns []string, values []interface{}) (domain.SQL, error) {
	if !lexer.IsIdentifier(table) {
		return domain.SQL{}, fmt.Errorf("%w: invalid table %q", domain.ErrInvalidQuery, table)
	}
	if len(columns) != len(values) {
		return domain.SQL{}, fmt.Errorf("%w: %d columns but %d values", domain.ErrInvalidQuery, len(columns), len(values))
	}
	if err := checkColumns(columns...); err != nil {
		return domain.SQL{}, err
	}
	if idColumn != "" {
		if err := checkColumns(idColumn); err != nil {
			return domain.SQL{}, err
		}
	}

	var sqlBuilder strings.Builder
	sqlBuilder.WriteString("INSERT INTO ")
	sqlBuilder.WriteString(table)

	switch {
	case len(columns) > 0:
		placeholders := make([]string, len(columns))
		for i := range columns {
			placeholders[i] = c.dialect.Placeholder(i + 1)
		}
		sqlBuilder.WriteString(" (")
		sqlBuilder.WriteString(strings.Join(columns, ", "))
		sqlBuilder.WriteString(") VALUES (")
		sqlBuilder.WriteString(strings.Join(placeholders, ", "))
		sqlBuilder.WriteString(")")
	case c.dialect == domain.MySQL:
		sqlBuilder.WriteString(" () VALUES ()")
	default:
		sqlBuilder.WriteString(" DEFAULT VALUES")
	}

	if c.dialect.SupportsReturning() && idColumn != "" {
		sqlBuilder.WriteString(" RETURNING ")
		sqlBuilder.WriteString(idColumn)
	}

	return domain.SQL{
		Query:   sqlBuilder.String(),
		Args:    append([]interface{}(nil), values...),
		Dialect: c.dialect,
	}, nil
}

func (c *SQLCompiler) writeWhere(sqlBuilder *strings.Builder, f domain.Filter) ([]interface{}, error) {
	bound, err := binder.Bind(f.Where, f.Params, c.dialect, 1)
	if err != nil {
		return nil, err
	}
	if f.MatchAll() {
		return nil, nil
	}
	sqlBuilder.WriteString(" WHERE ")
	sqlBuilder.WriteString(bound.SQL)
	return bound.Args, nil
}

func checkModel(q domain.Query) error {
	if !lexer.IsIdentifier(q.Model) {
		return fmt.Errorf("%w: invalid table %q", domain.ErrInvalidQuery, q.Model)
	}
	return checkColumns(q.Columns...)
}

// checkColumns rejects any name that is not a plain or dotted identifier.
func checkColumns(columns ...string) error {
	for _, col := range columns {
		if !lexer.IsIdentifier(col) {
			return fmt.Errorf("%w: invalid column %q", domain.ErrInvalidQuery, col)
		}
	}
	return nil
}

// Ensure SQLCompiler implements the QueryCompiler interface.
var _ domain.QueryCompiler = (*SQLCompiler)(nil)
