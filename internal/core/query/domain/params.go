package domain

import "maps"

// Parameters is an ordered set of named query parameters.
// Names are unique; setting a name twice keeps the last value.
type Parameters struct {
	names  []string
	values map[string]interface{}
}

// With starts a parameter set with a single entry.
func With(name string, value interface{}) Parameters {
	return Parameters{}.And(name, value)
}

// And returns a copy of p with name set to value.
func (p Parameters) And(name string, value interface{}) Parameters {
	out := Parameters{
		names:  make([]string, 0, len(p.names)+1),
		values: make(map[string]interface{}, len(p.values)+1),
	}
	out.names = append(out.names, p.names...)
	maps.Copy(out.values, p.values)
	if _, ok := out.values[name]; !ok {
		out.names = append(out.names, name)
	}
	out.values[name] = value
	return out
}

// Map returns the parameters as a plain map.
func (p Parameters) Map() map[string]interface{} {
	out := make(map[string]interface{}, len(p.values))
	maps.Copy(out, p.values)
	return out
}

// Names returns the parameter names in insertion order.
func (p Parameters) Names() []string {
	return append([]string(nil), p.names...)
}

// Len returns the number of parameters.
func (p Parameters) Len() int {
	return len(p.names)
}

// Params is the normalized form of the arguments a caller passed next to a predicate.
// Exactly one of Positional or Named is in use, selected by IsNamed.
type Params struct {
	Positional []interface{}
	Named      map[string]interface{}
	IsNamed    bool
}

// Len returns the number of supplied values.
func (p Params) Len() int {
	if p.IsNamed {
		return len(p.Named)
	}
	return len(p.Positional)
}

// IsEmpty reports whether no values were supplied.
func (p Params) IsEmpty() bool {
	return p.Len() == 0
}
