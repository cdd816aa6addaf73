package translator_test

import (
	"errors"
	"testing"

	"github.com/satishbabariya/activerecord/internal/core/query/domain"
	"github.com/satishbabariya/activerecord/internal/core/query/translator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		predicate string
		want      translator.Form
	}{
		{"", translator.FormAll},
		{"   ", translator.FormAll},
		{"ORDER BY name", translator.FormTrailing},
		{"order by name desc", translator.FormTrailing},
		{"name = ?1", translator.FormExpression},
		{"name like :pattern", translator.FormExpression},
		{"status IS NULL", translator.FormExpression},
		{"name", translator.FormShorthand},
		{"p.name", translator.FormShorthand},
		{"TRUE", translator.FormExpression},
		{"is_active(name)", translator.FormExpression},
	}

	for _, tt := range tests {
		t.Run(tt.predicate, func(t *testing.T) {
			got, err := translator.Classify(tt.predicate)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got, "form %s", got)
		})
	}
}

func TestTranslate_MatchAll(t *testing.T) {
	f, err := translator.Translate("")
	require.NoError(t, err)
	assert.True(t, f.MatchAll())
	assert.Empty(t, f.Trailing)
}

func TestTranslate_TrailingOrderBy(t *testing.T) {
	f, err := translator.Translate("ORDER BY name")
	require.NoError(t, err)
	assert.Empty(t, f.Where)
	assert.Equal(t, "ORDER BY name", f.Trailing)
}

func TestTranslate_LiftsTopLevelOrderBy(t *testing.T) {
	f, err := translator.Translate("name = ?1 ORDER BY status DESC", "stef")
	require.NoError(t, err)
	assert.Equal(t, "name = ?1", f.Where)
	assert.Equal(t, "ORDER BY status DESC", f.Trailing)
}

func TestTranslate_KeepsNestedOrderBy(t *testing.T) {
	pred := "id IN (SELECT owner_id FROM dog ORDER BY name LIMIT 1)"
	f, err := translator.Translate(pred)
	require.NoError(t, err)
	assert.Equal(t, pred, f.Where)
	assert.Empty(t, f.Trailing)
}

func TestTranslate_Shorthand(t *testing.T) {
	positional, err := translator.Translate("name", "stef")
	require.NoError(t, err)
	assert.Equal(t, "name = ?1", positional.Where)
	assert.Equal(t, []interface{}{"stef"}, positional.Params.Positional)

	named, err := translator.Translate("name", domain.With("value", "stef"))
	require.NoError(t, err)
	assert.Equal(t, "name = :value", named.Where)
	assert.Equal(t, "stef", named.Params.Named["value"])
}

func TestTranslate_EquivalentForms(t *testing.T) {
	forms := []struct {
		predicate string
		args      []interface{}
	}{
		{"name = ?1", []interface{}{"stef"}},
		{"name = :name", []interface{}{domain.With("name", "stef")}},
		{"name = :name", []interface{}{map[string]interface{}{"name": "stef"}}},
		{"name", []interface{}{"stef"}},
	}

	for _, form := range forms {
		f, err := translator.Translate(form.predicate, form.args...)
		require.NoError(t, err, form.predicate)
		assert.Equal(t, 1, f.Params.Len())
		assert.Contains(t, f.Where, "name = ")
	}
}

func TestTranslate_Idempotent(t *testing.T) {
	first, err := translator.Translate("name = :name AND status = :status",
		domain.With("name", "stef").And("status", 0))
	require.NoError(t, err)

	second, err := translator.Translate("name = :name AND status = :status",
		domain.With("name", "stef").And("status", 0))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestTranslate_Errors(t *testing.T) {
	tests := []struct {
		name      string
		predicate string
		args      []interface{}
	}{
		{"shorthand without value", "name", nil},
		{"shorthand with two values", "name", []interface{}{"a", "b"}},
		{"missing named", "name = :name", []interface{}{domain.With("other", 1)}},
		{"args without predicate", "", []interface{}{"a"}},
		{"placeholder in order by", "ORDER BY ?1", []interface{}{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := translator.Translate(tt.predicate, tt.args...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrBinding))
		})
	}
}
