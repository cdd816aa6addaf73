package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/activerecord/pkg/record"
)

// queryFlags are the flags that select rows.
type queryFlags struct {
	params   []string
	idColumn string
}

func (f *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.params, "param", nil, "Named parameter name=value, repeatable")
	cmd.Flags().StringVar(&f.idColumn, "id-column", "id", "Identifier column of the table")
}

// target splits "<table> [predicate] [args...]" and converts the values.
func (f *queryFlags) target(args []string) (table, predicate string, values []interface{}, err error) {
	table = args[0]
	if len(args) > 1 {
		predicate = args[1]
	}
	var positional []string
	if len(args) > 2 {
		positional = args[2:]
	}
	values, err = bindValues(positional, f.params)
	return table, predicate, values, err
}

// bindValues turns CLI strings into predicate arguments: positional values
// for ?n placeholders, or a single Parameters for --param.
func bindValues(positional, params []string) ([]interface{}, error) {
	if len(params) == 0 {
		values := make([]interface{}, len(positional))
		for i, raw := range positional {
			values[i] = parseValue(raw)
		}
		return values, nil
	}
	if len(positional) > 0 {
		return nil, fmt.Errorf("use either positional values or --param, not both")
	}

	var named record.Parameters
	for i, p := range params {
		name, raw, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --param %q, want name=value", p)
		}
		if i == 0 {
			named = record.With(name, parseValue(raw))
		} else {
			named = named.And(name, parseValue(raw))
		}
	}
	return []interface{}{named}, nil
}

// parseValue reads integers, floats, booleans and null; anything else is
// a string. Quote a value ('42') to keep it a string.
func parseValue(raw string) interface{} {
	if len(raw) >= 2 && raw[0] == '\'' && raw[len(raw)-1] == '\'' {
		return raw[1 : len(raw)-1]
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	switch strings.ToLower(raw) {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}
	return raw
}

// parseSort reads "name,-status": a leading '-' sorts that column descending.
func parseSort(columns string) record.Sort {
	var sort record.Sort
	for _, col := range strings.Split(columns, ",") {
		col = strings.TrimSpace(col)
		switch {
		case col == "":
		case strings.HasPrefix(col, "-"):
			sort = sort.AndDesc(strings.TrimPrefix(col, "-"))
		default:
			sort = sort.And(strings.TrimPrefix(col, "+"))
		}
	}
	return sort
}

// checkPage rejects a page the cursor would refuse.
func checkPage(index, size int) error {
	if size < 1 {
		return fmt.Errorf("invalid --size %d, want at least 1", size)
	}
	if index < 0 {
		return fmt.Errorf("invalid --page %d, want 0 or more", index)
	}
	return nil
}
