package binder_test

import (
	"errors"
	"testing"

	"github.com/satishbabariya/activerecord/internal/core/query/binder"
	"github.com/satishbabariya/activerecord/internal/core/query/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	positional := binder.Normalize("stef", 3)
	assert.False(t, positional.IsNamed)
	assert.Equal(t, []interface{}{"stef", 3}, positional.Positional)

	fromMap := binder.Normalize(map[string]interface{}{"name": "stef"})
	assert.True(t, fromMap.IsNamed)
	assert.Equal(t, "stef", fromMap.Named["name"])

	fromParams := binder.Normalize(domain.With("name", "stef").And("status", 0))
	assert.True(t, fromParams.IsNamed)
	assert.Len(t, fromParams.Named, 2)

	empty := binder.Normalize()
	assert.True(t, empty.IsEmpty())
}

func TestNormalize_CopiesMap(t *testing.T) {
	m := map[string]interface{}{"name": "stef"}
	p := binder.Normalize(m)
	m["name"] = "changed"
	assert.Equal(t, "stef", p.Named["name"])
}

func TestBind_Positional(t *testing.T) {
	params := binder.Normalize("stef", 1)

	pg, err := binder.Bind("name = ?1 AND status = ?2", params, domain.PostgreSQL, 1)
	require.NoError(t, err)
	assert.Equal(t, "name = $1 AND status = $2", pg.SQL)
	assert.Equal(t, []interface{}{"stef", 1}, pg.Args)

	lite, err := binder.Bind("status = ?2 AND name = ?1", params, domain.SQLite, 1)
	require.NoError(t, err)
	assert.Equal(t, "status = ? AND name = ?", lite.SQL)
	assert.Equal(t, []interface{}{1, "stef"}, lite.Args)
}

func TestBind_RepeatedPlaceholder(t *testing.T) {
	params := binder.Normalize("stef")

	pg, err := binder.Bind("name = ?1 OR nick = ?1", params, domain.PostgreSQL, 1)
	require.NoError(t, err)
	assert.Equal(t, "name = $1 OR nick = $1", pg.SQL)
	assert.Equal(t, []interface{}{"stef"}, pg.Args)

	my, err := binder.Bind("name = ?1 OR nick = ?1", params, domain.MySQL, 1)
	require.NoError(t, err)
	assert.Equal(t, "name = ? OR nick = ?", my.SQL)
	assert.Equal(t, []interface{}{"stef", "stef"}, my.Args)
}

func TestBind_Named(t *testing.T) {
	params := binder.Normalize(domain.With("name", "stef").And("status", 0))

	pg, err := binder.Bind("name = :name AND status = :status OR alias = :name", params, domain.PostgreSQL, 1)
	require.NoError(t, err)
	assert.Equal(t, "name = $1 AND status = $2 OR alias = $1", pg.SQL)
	assert.Equal(t, []interface{}{"stef", 0}, pg.Args)

	lite, err := binder.Bind("name = :name AND status = :status", params, domain.SQLite, 1)
	require.NoError(t, err)
	assert.Equal(t, "name = ? AND status = ?", lite.SQL)
	assert.Equal(t, []interface{}{"stef", 0}, lite.Args)
}

func TestBind_StartOffset(t *testing.T) {
	pg, err := binder.Bind("name = ?1", binder.Normalize("stef"), domain.PostgreSQL, 3)
	require.NoError(t, err)
	assert.Equal(t, "name = $3", pg.SQL)
}

func TestBind_IgnoresLiteralsAndCasts(t *testing.T) {
	params := binder.Normalize("stef")
	bound, err := binder.Bind("name = ?1 AND note <> 'a ?2 :x' AND created::date IS NOT NULL", params, domain.PostgreSQL, 1)
	require.NoError(t, err)
	assert.Equal(t, "name = $1 AND note <> 'a ?2 :x' AND created::date IS NOT NULL", bound.SQL)
	assert.Equal(t, []interface{}{"stef"}, bound.Args)
}

func TestBind_NoPlaceholders(t *testing.T) {
	bound, err := binder.Bind("status = 1", binder.Normalize(), domain.PostgreSQL, 1)
	require.NoError(t, err)
	assert.Equal(t, "status = 1", bound.SQL)
	assert.Empty(t, bound.Args)
}

func TestBind_Errors(t *testing.T) {
	tests := []struct {
		name      string
		predicate string
		args      []interface{}
	}{
		{name: "missing named", predicate: "name = :name", args: []interface{}{domain.With("other", 1)}},
		{name: "named without values", predicate: "name = :name", args: nil},
		{name: "index beyond values", predicate: "name = ?2", args: []interface{}{"a"}},
		{name: "gap in positions", predicate: "name = ?2", args: []interface{}{"a", "b"}},
		{name: "unused positional", predicate: "name = ?1", args: []interface{}{"a", "b"}},
		{name: "unused named", predicate: "name = :name", args: []interface{}{domain.With("name", "a").And("x", 1)}},
		{name: "zero index", predicate: "name = ?0", args: []interface{}{"a"}},
		{name: "mixed placeholders", predicate: "name = ?1 AND status = :status", args: []interface{}{"a"}},
		{name: "positional with map", predicate: "name = ?1", args: []interface{}{map[string]interface{}{"name": "a"}}},
		{name: "named with positional", predicate: "name = :name", args: []interface{}{"a"}},
		{name: "anonymous placeholder", predicate: "name = ?", args: []interface{}{"a"}},
		{name: "values without placeholders", predicate: "status = 1", args: []interface{}{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := binder.Bind(tt.predicate, binder.Normalize(tt.args...), domain.PostgreSQL, 1)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrBinding))

			var be *domain.BindingError
			require.True(t, errors.As(err, &be))
			assert.Equal(t, tt.predicate, be.Predicate)
		})
	}
}

func TestBind_Deterministic(t *testing.T) {
	params := binder.Normalize(map[string]interface{}{"a": 1, "b": 2, "c": 3})
	first, err := binder.Bind(":c = 1 AND :a = 2 AND :b = 3", params, domain.PostgreSQL, 1)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		again, err := binder.Bind(":c = 1 AND :a = 2 AND :b = 3", params, domain.PostgreSQL, 1)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, []interface{}{3, 1, 2}, first.Args)
}

func TestCheck(t *testing.T) {
	assert.NoError(t, binder.Check("name = ?1", binder.Normalize("x")))
	assert.Error(t, binder.Check("name = ?1", binder.Normalize()))
}
