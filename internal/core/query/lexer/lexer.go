// Package lexer tokenizes query predicates so placeholders and keywords can be
// found without looking inside string literals or quoted identifiers.
package lexer

import (
	"fmt"
	"strings"

	plexer "github.com/alecthomas/participle/v2/lexer"
)

// Kind is the kind of a predicate token.
type Kind int

const (
	// Whitespace is a run of spaces, tabs or newlines.
	Whitespace Kind = iota
	// String is a single-quoted literal.
	String
	// QuotedIdent is a double-quoted or backquoted identifier.
	QuotedIdent
	// Positional is a numbered placeholder such as ?1.
	Positional
	// Anonymous is a bare ? placeholder.
	Anonymous
	// Named is a named placeholder such as :name.
	Named
	// Cast is the PostgreSQL :: cast operator.
	Cast
	// Number is a numeric literal.
	Number
	// Ident is an identifier or keyword, optionally dotted.
	Ident
	// Operator is a comparison or arithmetic operator.
	Operator
	// Punct is punctuation such as parentheses and commas.
	Punct
	// Other is any character no other rule matched.
	Other
)

// predicateLexer defines the token rules. Rule order matters: the first
// matching rule wins, so :: precedes :name and ?1 precedes ?.
var predicateLexer = plexer.MustSimple([]plexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "String", Pattern: `'(?:[^']|'')*'`},
	{Name: "QuotedIdent", Pattern: "\"(?:[^\"]|\"\")*\"|`[^`]*`"},
	{Name: "Positional", Pattern: `\?\d+`},
	{Name: "Anonymous", Pattern: `\?`},
	{Name: "Cast", Pattern: `::`},
	{Name: "Named", Pattern: `:[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Number", Pattern: `\d+(?:\.\d+)?`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_$]*(?:\.[A-Za-z_][A-Za-z0-9_$]*)*`},
	{Name: "Operator", Pattern: `<=|>=|<>|!=|\|\||[=<>+\-*/%]`},
	{Name: "Punct", Pattern: `[(),;.\[\]]`},
	{Name: "Other", Pattern: `.`},
})

var kinds = func() map[plexer.TokenType]Kind {
	names := map[string]Kind{
		"Whitespace":  Whitespace,
		"String":      String,
		"QuotedIdent": QuotedIdent,
		"Positional":  Positional,
		"Anonymous":   Anonymous,
		"Cast":        Cast,
		"Named":       Named,
		"Number":      Number,
		"Ident":       Ident,
		"Operator":    Operator,
		"Punct":       Punct,
		"Other":       Other,
	}
	out := make(map[plexer.TokenType]Kind, len(names))
	for name, tt := range predicateLexer.Symbols() {
		if k, ok := names[name]; ok {
			out[tt] = k
		}
	}
	return out
}()

// Token is one lexed piece of a predicate. Concatenating the Text of every
// token reproduces the input exactly.
type Token struct {
	Kind   Kind
	Text   string
	Offset int
}

// Is reports whether t is the identifier keyword kw, ignoring case.
func (t Token) Is(kw string) bool {
	return t.Kind == Ident && strings.EqualFold(t.Text, kw)
}

// IsPlaceholder reports whether t is any kind of placeholder.
func (t Token) IsPlaceholder() bool {
	return t.Kind == Positional || t.Kind == Named || t.Kind == Anonymous
}

// Tokenize splits s into tokens.
func Tokenize(s string) ([]Token, error) {
	lex, err := predicateLexer.LexString("", s)
	if err != nil {
		return nil, fmt.Errorf("failed to lex predicate: %w", err)
	}
	raw, err := plexer.ConsumeAll(lex)
	if err != nil {
		return nil, fmt.Errorf("failed to lex predicate: %w", err)
	}

	tokens := make([]Token, 0, len(raw))
	for _, tok := range raw {
		if tok.EOF() {
			break
		}
		kind, ok := kinds[tok.Type]
		if !ok {
			kind = Other
		}
		tokens = append(tokens, Token{Kind: kind, Text: tok.Value, Offset: tok.Pos.Offset})
	}
	return tokens, nil
}

// Significant returns the tokens that are not whitespace.
func Significant(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Kind != Whitespace {
			out = append(out, t)
		}
	}
	return out
}

// Join concatenates the text of tokens.
func Join(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

// IsIdentifier reports whether s is exactly one, optionally dotted, identifier.
func IsIdentifier(s string) bool {
	tokens, err := Tokenize(s)
	if err != nil || len(tokens) != 1 {
		return false
	}
	return tokens[0].Kind == Ident
}
