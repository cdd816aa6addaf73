// Package binder resolves predicate placeholders against caller arguments and
// rewrites them into the placeholder syntax of the target dialect.
package binder

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/satishbabariya/activerecord/internal/core/query/domain"
	"github.com/satishbabariya/activerecord/internal/core/query/lexer"
)

// Bound is a predicate rewritten for a dialect together with its ordered arguments.
type Bound struct {
	SQL  string
	Args []interface{}
}

// Normalize converts the variadic arguments of a query call into Params.
// A single map[string]interface{} or domain.Parameters argument selects named
// binding; anything else is positional.
func Normalize(args ...interface{}) domain.Params {
	if len(args) == 1 {
		switch v := args[0].(type) {
		case domain.Parameters:
			return domain.Params{Named: v.Map(), IsNamed: true}
		case *domain.Parameters:
			if v != nil {
				return domain.Params{Named: v.Map(), IsNamed: true}
			}
		case map[string]interface{}:
			named := make(map[string]interface{}, len(v))
			maps.Copy(named, v)
			return domain.Params{Named: named, IsNamed: true}
		}
	}
	return domain.Params{Positional: append([]interface{}(nil), args...)}
}

// Check validates that params fit predicate without producing SQL.
func Check(predicate string, params domain.Params) error {
	_, err := Bind(predicate, params, domain.SQLite, 1)
	return err
}

// Bind rewrites the placeholders of predicate for dialect. start is the
// 1-based index the first argument of this fragment will occupy in the
// final statement, which matters for numbered dialects only.
func Bind(predicate string, params domain.Params, dialect domain.SQLDialect, start int) (Bound, error) {
	tokens, err := lexer.Tokenize(predicate)
	if err != nil {
		return Bound{}, domain.NewBindingError(predicate, "%v", err)
	}

	b := &binding{
		predicate: predicate,
		params:    params,
		dialect:   dialect,
		start:     start,
		used:      make(map[int]bool),
		named:     make(map[string]int),
	}

	var out strings.Builder
	for _, tok := range tokens {
		switch tok.Kind {
		case lexer.Anonymous:
			return Bound{}, domain.NewBindingError(predicate,
				"anonymous placeholder at offset %d, use ?1 or :name", tok.Offset)
		case lexer.Positional:
			ph, err := b.positional(tok)
			if err != nil {
				return Bound{}, err
			}
			out.WriteString(ph)
		case lexer.Named:
			ph, err := b.namedRef(tok)
			if err != nil {
				return Bound{}, err
			}
			out.WriteString(ph)
		default:
			out.WriteString(tok.Text)
		}
	}

	if err := b.checkUnused(); err != nil {
		return Bound{}, err
	}

	args := b.args
	if dialect.Numbered() && !params.IsNamed && len(b.used) > 0 {
		args = append([]interface{}(nil), params.Positional...)
	}
	return Bound{SQL: out.String(), Args: args}, nil
}

type binding struct {
	predicate string
	params    domain.Params
	dialect   domain.SQLDialect
	start     int

	sawPositional bool
	sawNamed      bool
	used          map[int]bool
	named         map[string]int
	args          []interface{}
}

func (b *binding) positional(tok lexer.Token) (string, error) {
	if b.sawNamed {
		return "", domain.NewBindingError(b.predicate, "mixes positional and named placeholders")
	}
	b.sawPositional = true

	n, err := strconv.Atoi(tok.Text[1:])
	if err != nil || n < 1 {
		return "", domain.NewBindingError(b.predicate, "invalid positional placeholder %s", tok.Text)
	}
	if b.params.IsNamed {
		return "", domain.NewBindingError(b.predicate,
			"positional placeholder %s used with named parameters", tok.Text)
	}
	if n > len(b.params.Positional) {
		return "", domain.NewBindingError(b.predicate,
			"no value for %s, %d positional value(s) supplied", tok.Text, len(b.params.Positional))
	}
	b.used[n] = true

	if b.dialect.Numbered() {
		return b.dialect.Placeholder(b.start + n - 1), nil
	}
	b.args = append(b.args, b.params.Positional[n-1])
	return b.dialect.Placeholder(len(b.args)), nil
}

func (b *binding) namedRef(tok lexer.Token) (string, error) {
	if b.sawPositional {
		return "", domain.NewBindingError(b.predicate, "mixes positional and named placeholders")
	}
	b.sawNamed = true

	name := tok.Text[1:]
	if !b.params.IsNamed {
		if len(b.params.Positional) > 0 {
			return "", domain.NewBindingError(b.predicate,
				"named placeholder %s used with positional values", tok.Text)
		}
		return "", domain.NewBindingError(b.predicate, "missing parameter %s", tok.Text)
	}
	value, ok := b.params.Named[name]
	if !ok {
		return "", domain.NewBindingError(b.predicate, "missing parameter %s", tok.Text)
	}

	if b.dialect.Numbered() {
		idx, seen := b.named[name]
		if !seen {
			b.args = append(b.args, value)
			idx = b.start + len(b.args) - 1
			b.named[name] = idx
		}
		return b.dialect.Placeholder(idx), nil
	}
	b.named[name] = len(b.args)
	b.args = append(b.args, value)
	return b.dialect.Placeholder(len(b.args)), nil
}

// checkUnused rejects supplied values the predicate never references, which
// also enforces that positional indices are contiguous from 1.
func (b *binding) checkUnused() error {
	if b.params.IsNamed {
		for _, name := range slices.Sorted(maps.Keys(b.params.Named)) {
			if _, ok := b.named[name]; !ok {
				return domain.NewBindingError(b.predicate, "parameter :%s is not referenced", name)
			}
		}
		return nil
	}
	for i := 1; i <= len(b.params.Positional); i++ {
		if !b.used[i] {
			return domain.NewBindingError(b.predicate, "positional value ?%d is not referenced", i)
		}
	}
	return nil
}
