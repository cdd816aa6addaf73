// Package translator turns caller predicates into filters the compiler understands.
//
// Predicates are classified in this order:
//
//  1. empty text matches every row
//  2. text starting with ORDER BY becomes a trailing clause without WHERE
//  3. text with an operator, a boolean keyword or a placeholder is a WHERE body
//  4. a single bare identifier is shorthand for "<identifier> = <value>"
//  5. anything else is taken as a complete boolean expression
//
// A top-level ORDER BY that follows a WHERE body is lifted into the trailing
// clause so counts and deletes can drop it.
package translator

import (
	"strings"

	"github.com/satishbabariya/activerecord/internal/core/query/binder"
	"github.com/satishbabariya/activerecord/internal/core/query/domain"
	"github.com/satishbabariya/activerecord/internal/core/query/lexer"
)

// Form is the classification of a predicate.
type Form int

const (
	// FormAll matches every row.
	FormAll Form = iota
	// FormTrailing is an ORDER BY clause with no restriction.
	FormTrailing
	// FormExpression is a boolean expression used verbatim.
	FormExpression
	// FormShorthand is a single column compared to the only argument.
	FormShorthand
)

// String returns the form name.
func (f Form) String() string {
	switch f {
	case FormAll:
		return "all"
	case FormTrailing:
		return "trailing"
	case FormShorthand:
		return "shorthand"
	default:
		return "expression"
	}
}

// keywords turn a lone identifier into an expression rather than shorthand.
var keywords = map[string]struct{}{
	"AND": {}, "OR": {}, "NOT": {}, "LIKE": {}, "ILIKE": {}, "IN": {}, "IS": {},
	"BETWEEN": {}, "EXISTS": {}, "NULL": {}, "TRUE": {}, "FALSE": {},
}

// Translate converts predicate and its arguments into a Filter. The result is
// a pure function of the inputs.
func Translate(predicate string, args ...interface{}) (domain.Filter, error) {
	params := binder.Normalize(args...)

	form, where, trailing, err := split(predicate)
	if err != nil {
		return domain.Filter{}, err
	}

	tokens, _ := lexer.Tokenize(trailing)
	for _, tok := range tokens {
		if tok.IsPlaceholder() {
			return domain.Filter{}, domain.NewBindingError(predicate,
				"placeholder %s is not allowed in ORDER BY", tok.Text)
		}
	}

	if form == FormShorthand {
		where, err = shorthand(predicate, where, params)
		if err != nil {
			return domain.Filter{}, err
		}
	}

	if err := binder.Check(where, params); err != nil {
		return domain.Filter{}, err
	}

	return domain.Filter{Where: where, Trailing: trailing, Params: params}, nil
}

// Classify reports which rule applies to predicate.
func Classify(predicate string) (Form, error) {
	form, _, _, err := split(predicate)
	return form, err
}

func split(predicate string) (Form, string, string, error) {
	text := strings.TrimSpace(predicate)
	if text == "" {
		return FormAll, "", "", nil
	}

	tokens, err := lexer.Tokenize(text)
	if err != nil {
		return FormAll, "", "", domain.NewBindingError(predicate, "%v", err)
	}

	cut := orderByIndex(tokens)
	where := strings.TrimSpace(lexer.Join(tokens[:cut]))
	trailing := strings.TrimSpace(lexer.Join(tokens[cut:]))

	if where == "" {
		return FormTrailing, "", trailing, nil
	}

	sig := lexer.Significant(tokens[:cut])
	if len(sig) == 1 && sig[0].Kind == lexer.Ident && !isKeyword(sig[0]) {
		return FormShorthand, where, trailing, nil
	}
	return FormExpression, where, trailing, nil
}

// orderByIndex returns the index of the first top-level ORDER token that is
// followed by BY, or len(tokens).
func orderByIndex(tokens []lexer.Token) int {
	depth := 0
	for i, tok := range tokens {
		switch {
		case tok.Kind == lexer.Punct && tok.Text == "(":
			depth++
		case tok.Kind == lexer.Punct && tok.Text == ")":
			depth--
		case depth == 0 && tok.Is("ORDER"):
			for _, next := range tokens[i+1:] {
				if next.Kind == lexer.Whitespace {
					continue
				}
				if next.Is("BY") {
					return i
				}
				break
			}
		}
	}
	return len(tokens)
}

func isKeyword(tok lexer.Token) bool {
	_, ok := keywords[strings.ToUpper(tok.Text)]
	return ok
}

func shorthand(predicate, column string, params domain.Params) (string, error) {
	if params.Len() != 1 {
		return "", domain.NewBindingError(predicate,
			"shorthand filter on %s needs exactly one value, got %d", column, params.Len())
	}
	if params.IsNamed {
		for name := range params.Named {
			return column + " = :" + name, nil
		}
	}
	return column + " = ?1", nil
}
