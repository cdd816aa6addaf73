package compiler

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/activerecord/internal/core/query/domain"
	"github.com/satishbabariya/activerecord/internal/core/query/lexer"
)

// CompileSort renders s as an ORDER BY clause. Columns keep their order,
// duplicates are kept, and an empty sort renders as "".
func CompileSort(s domain.Sort) (string, error) {
	keys, err := sortKeys(s)
	if err != nil || keys == "" {
		return "", err
	}
	return "ORDER BY " + keys, nil
}

// orderClause combines a trailing ORDER BY from the predicate with the sort.
// Sort columns follow the predicate's own keys.
func orderClause(trailing string, s domain.Sort) (string, error) {
	keys, err := sortKeys(s)
	if err != nil {
		return "", err
	}
	switch {
	case trailing == "":
		if keys == "" {
			return "", nil
		}
		return "ORDER BY " + keys, nil
	case keys == "":
		return trailing, nil
	default:
		return trailing + ", " + keys, nil
	}
}

func sortKeys(s domain.Sort) (string, error) {
	if s.IsEmpty() {
		return "", nil
	}

	parts := make([]string, 0, len(s.Columns))
	for _, col := range s.Columns {
		if !lexer.IsIdentifier(col.Name) {
			return "", fmt.Errorf("%w: invalid sort column %q", domain.ErrInvalidQuery, col.Name)
		}
		switch col.Direction {
		case domain.Desc:
			parts = append(parts, col.Name+" DESC")
		case domain.Asc, "":
			parts = append(parts, col.Name)
		default:
			return "", fmt.Errorf("%w: invalid sort direction %q", domain.ErrInvalidQuery, col.Direction)
		}
	}
	return strings.Join(parts, ", "), nil
}
