package executor_test

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/activerecord/internal/adapters/database"
	"github.com/satishbabariya/activerecord/internal/adapters/database/fake"
	"github.com/satishbabariya/activerecord/internal/adapters/telemetry"
	"github.com/satishbabariya/activerecord/internal/core/query/domain"
	"github.com/satishbabariya/activerecord/internal/core/query/executor"
	"github.com/satishbabariya/activerecord/internal/core/query/mapper"
	"github.com/satishbabariya/activerecord/internal/core/query/translator"
	"github.com/satishbabariya/activerecord/internal/logger"
)

type person struct {
	ID   *int64
	Name string
}

func personBinding() mapper.Binding[*person] {
	return mapper.Binding[*person]{
		Table:    "person",
		IDColumn: "id",
		Columns:  []string{"id", "name"},
		Decode: func(r mapper.Row) (*person, error) {
			id, err := r.NullInt64("id")
			if err != nil {
				return nil, err
			}
			name, err := r.String("name")
			if err != nil {
				return nil, err
			}
			return &person{ID: id, Name: name}, nil
		},
		Encode: func(p *person) ([]string, []interface{}) {
			return []string{"name"}, []interface{}{p.Name}
		},
		ID: func(p *person) (interface{}, bool) {
			if p.ID == nil {
				return nil, false
			}
			return *p.ID, true
		},
		SetID: func(p *person, id interface{}) error {
			n, err := mapper.ToInt64(id)
			if err != nil {
				return err
			}
			p.ID = &n
			return nil
		},
	}
}

// recorder keeps every telemetry event.
type recorder struct {
	telemetry.NoopTelemetry
	mu      sync.Mutex
	queries []telemetry.QueryInfo
	errors  []telemetry.ErrorInfo
}

func (r *recorder) RecordQuery(ctx context.Context, info telemetry.QueryInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, info)
}

func (r *recorder) RecordError(ctx context.Context, info telemetry.ErrorInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, info)
}

func newExecutor(t *testing.T, db database.Adapter, cfg executor.Config) *executor.Executor[*person] {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}
	ex, err := executor.New(db, personBinding(), cfg)
	require.NoError(t, err)
	return ex
}

func filter(t *testing.T, predicate string, args ...interface{}) domain.Filter {
	t.Helper()
	f, err := translator.Translate(predicate, args...)
	require.NoError(t, err)
	return f
}

func people(names ...string) [][]interface{} {
	data := make([][]interface{}, len(names))
	for i, n := range names {
		data[i] = []interface{}{int64(i + 1), []byte(n)}
	}
	return data
}

func TestNew_RejectsInvalidBinding(t *testing.T) {
	_, err := executor.New(fake.New(database.SQLite), mapper.Binding[*person]{}, executor.Config{})
	assert.Error(t, err)

	_, err = executor.New[*person](nil, personBinding(), executor.Config{})
	assert.Error(t, err)
}

func TestCount(t *testing.T) {
	db := fake.New(database.SQLite)
	db.OnQuery = func(query string, args []interface{}) (*fake.Rows, error) {
		return fake.NewRows([]string{"COUNT(*)"}, []interface{}{int64(7)}), nil
	}
	rec := &recorder{}
	ex := newExecutor(t, db, executor.Config{Telemetry: rec})

	q := ex.Query(filter(t, "name = ?1", "stef"), domain.SortBy("name")).WithPage(domain.PageOf(1, 3))
	n, err := ex.Count(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	stmts := db.Statements()
	require.Len(t, stmts, 1)
	assert.Equal(t, "SELECT COUNT(*) FROM person WHERE name = ?", stmts[0].Query)
	assert.Equal(t, []interface{}{"stef"}, stmts[0].Args)

	require.Len(t, rec.queries, 1)
	assert.Equal(t, executor.OpCount, rec.queries[0].Operation)
	assert.True(t, rec.queries[0].Success)
	assert.Equal(t, 0, db.OpenRows())
}

func TestCount_StoreError(t *testing.T) {
	driverErr := errors.New("connection reset")
	db := fake.New(database.SQLite)
	db.OnQuery = func(string, []interface{}) (*fake.Rows, error) { return nil, driverErr }
	rec := &recorder{}
	ex := newExecutor(t, db, executor.Config{Telemetry: rec})

	_, err := ex.Count(context.Background(), ex.Query(domain.Filter{}, domain.Sort{}))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStore)
	assert.ErrorIs(t, err, driverErr)

	var storeErr *domain.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "count", storeErr.Operation)
	assert.Equal(t, "SELECT COUNT(*) FROM person", storeErr.Statement)

	require.Len(t, rec.errors, 1)
	assert.False(t, rec.queries[0].Success)
}

func TestFetchPage(t *testing.T) {
	tests := []struct {
		name    string
		dialect database.SQLDialect
		sql     string
		args    []interface{}
	}{
		{
			name:    "sqlite",
			dialect: database.SQLite,
			sql:     "SELECT id, name FROM person WHERE name = ? ORDER BY name LIMIT ? OFFSET ?",
			args:    []interface{}{"stef", 3, 3},
		},
		{
			name:    "postgres",
			dialect: database.PostgreSQL,
			sql:     "SELECT id, name FROM person WHERE name = $1 ORDER BY name LIMIT $2 OFFSET $3",
			args:    []interface{}{"stef", 3, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := fake.New(tt.dialect)
			db.OnQuery = func(string, []interface{}) (*fake.Rows, error) {
				return fake.NewRows([]string{"id", "name"}, people("stef3", "stef4", "stef5")...), nil
			}
			ex := newExecutor(t, db, executor.Config{})

			q := ex.Query(filter(t, "name = ?1", "stef"), domain.SortBy("name")).WithPage(domain.PageOf(1, 3))
			got, err := ex.FetchPage(context.Background(), q)
			require.NoError(t, err)
			require.Len(t, got, 3)
			assert.Equal(t, "stef3", got[0].Name)
			assert.Equal(t, int64(1), *got[0].ID)

			stmts := db.Statements()
			require.Len(t, stmts, 1)
			assert.Equal(t, tt.sql, stmts[0].Query)
			assert.Equal(t, tt.args, stmts[0].Args)
			assert.Equal(t, 0, db.OpenRows())
		})
	}
}

func TestFetchPage_EmptyIsNotNil(t *testing.T) {
	ex := newExecutor(t, fake.New(database.SQLite), executor.Config{})
	got, err := ex.FetchPage(context.Background(), ex.Query(domain.Filter{}, domain.Sort{}))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFetchPage_BindingErrorRunsNothing(t *testing.T) {
	db := fake.New(database.SQLite)
	ex := newExecutor(t, db, executor.Config{})

	q := ex.Query(domain.Filter{Where: "name = :name", Params: domain.Params{IsNamed: true, Named: map[string]interface{}{}}}, domain.Sort{})
	_, err := ex.FetchPage(context.Background(), q)
	assert.ErrorIs(t, err, domain.ErrBinding)
	assert.Empty(t, db.Statements())
}

func TestFetchPage_InvalidSort(t *testing.T) {
	db := fake.New(database.SQLite)
	ex := newExecutor(t, db, executor.Config{})

	_, err := ex.FetchPage(context.Background(), ex.Query(domain.Filter{}, domain.SortBy("name; DROP TABLE person")))
	assert.ErrorIs(t, err, domain.ErrInvalidQuery)
	assert.Empty(t, db.Statements())
}

func TestFetchPage_DecodeError(t *testing.T) {
	db := fake.New(database.SQLite)
	db.OnQuery = func(string, []interface{}) (*fake.Rows, error) {
		return fake.NewRows([]string{"id", "name"}, []interface{}{"not a number", "x"}), nil
	}
	ex := newExecutor(t, db, executor.Config{})

	_, err := ex.FetchPage(context.Background(), ex.Query(domain.Filter{}, domain.Sort{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to map person row")
	assert.Equal(t, 0, db.OpenRows())
}

func TestFetchLazy(t *testing.T) {
	db := fake.New(database.SQLite)
	db.OnQuery = func(string, []interface{}) (*fake.Rows, error) {
		return fake.NewRows([]string{"id", "name"}, people("a", "b", "c")...), nil
	}
	ex := newExecutor(t, db, executor.Config{})
	seq := ex.FetchLazy(context.Background(), ex.Query(domain.Filter{}, domain.Sort{}))

	// nothing runs before the first pull
	assert.Empty(t, db.Statements())

	var names []string
	for p, err := range seq {
		require.NoError(t, err)
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
	assert.Equal(t, 0, db.OpenRows())
}

func TestFetchLazy_EarlyBreakClosesRows(t *testing.T) {
	db := fake.New(database.SQLite)
	db.OnQuery = func(string, []interface{}) (*fake.Rows, error) {
		return fake.NewRows([]string{"id", "name"}, people("a", "b", "c")...), nil
	}
	ex := newExecutor(t, db, executor.Config{})

	for p, err := range ex.FetchLazy(context.Background(), ex.Query(domain.Filter{}, domain.Sort{})) {
		require.NoError(t, err)
		assert.Equal(t, "a", p.Name)
		break
	}
	assert.Equal(t, 0, db.OpenRows())
}

func TestFetchLazy_StoreErrorAfterRows(t *testing.T) {
	driverErr := errors.New("cursor lost")
	db := fake.New(database.SQLite)
	db.OnQuery = func(string, []interface{}) (*fake.Rows, error) {
		rows := fake.NewRows([]string{"id", "name"}, people("a", "b", "c")...)
		rows.FailAt = 2
		rows.IterErr = driverErr
		return rows, nil
	}
	ex := newExecutor(t, db, executor.Config{})

	var names []string
	var failure error
	for p, err := range ex.FetchLazy(context.Background(), ex.Query(domain.Filter{}, domain.Sort{})) {
		if err != nil {
			failure = err
			continue
		}
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"a", "b"}, names)
	assert.ErrorIs(t, failure, domain.ErrStore)
	assert.ErrorIs(t, failure, driverErr)
	assert.Equal(t, 0, db.OpenRows())
}

func TestFetchLazy_CompileError(t *testing.T) {
	db := fake.New(database.SQLite)
	ex := newExecutor(t, db, executor.Config{})

	var errs []error
	for _, err := range ex.FetchLazy(context.Background(), ex.Query(domain.Filter{}, domain.SortBy("1bad"))) {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], domain.ErrInvalidQuery)
	assert.Empty(t, db.Statements())
}

func TestFirstAndSingleResult(t *testing.T) {
	var data [][]interface{}
	db := fake.New(database.SQLite)
	db.OnQuery = func(query string, args []interface{}) (*fake.Rows, error) {
		limit := args[len(args)-2].(int)
		return fake.NewRows([]string{"id", "name"}, data[:min(limit, len(data))]...), nil
	}
	ex := newExecutor(t, db, executor.Config{})
	ctx := context.Background()
	all := ex.Query(domain.Filter{}, domain.Sort{})

	first, err := ex.FirstResult(ctx, all)
	require.NoError(t, err)
	assert.Nil(t, first)

	_, err = ex.SingleResult(ctx, all)
	assert.ErrorIs(t, err, domain.ErrNoResult)

	data = people("stef")
	single, err := ex.SingleResult(ctx, all)
	require.NoError(t, err)
	assert.Equal(t, "stef", single.Name)

	data = people("stef0", "stef1", "stef2", "stef3", "stef4", "stef5", "stef6")
	_, err = ex.SingleResult(ctx, all)
	assert.ErrorIs(t, err, domain.ErrNonUniqueResult)

	first, err = ex.FirstResult(ctx, all.WithPage(domain.PageOf(2, 3)))
	require.NoError(t, err)
	assert.Equal(t, "stef0", first.Name)

	stmts := db.Statements()
	assert.True(t, strings.HasSuffix(stmts[0].Query, "LIMIT ? OFFSET ?"))
	assert.Equal(t, []interface{}{1, 0}, stmts[0].Args)
	assert.Equal(t, []interface{}{2, 0}, stmts[1].Args)
	assert.Equal(t, []interface{}{1, 0}, stmts[len(stmts)-1].Args)
}

func TestFindByID(t *testing.T) {
	db := fake.New(database.PostgreSQL)
	db.OnQuery = func(string, []interface{}) (*fake.Rows, error) {
		return fake.NewRows([]string{"id", "name"}, []interface{}{int64(4), "stef"}), nil
	}
	ex := newExecutor(t, db, executor.Config{})

	p, err := ex.FindByID(context.Background(), int64(4))
	require.NoError(t, err)
	assert.Equal(t, int64(4), *p.ID)
	assert.Equal(t, "SELECT id, name FROM person WHERE id = $1 LIMIT $2 OFFSET $3", db.Statements()[0].Query)
}

func TestDeleteMatching(t *testing.T) {
	db := fake.New(database.SQLite)
	db.OnExecute = func(string, []interface{}) (*fake.Result, error) {
		return &fake.Result{Affected: 2}, nil
	}
	ex := newExecutor(t, db, executor.Config{})

	q := ex.Query(filter(t, "name = :name", domain.With("name", "stef")), domain.SortBy("name")).WithPage(domain.PageOf(0, 1))
	n, err := ex.DeleteMatching(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, "DELETE FROM person WHERE name = ?", db.Statements()[0].Query)

	n, err = ex.DeleteByID(context.Background(), int64(9))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, "DELETE FROM person WHERE id = ?", db.Statements()[1].Query)
	assert.Equal(t, []interface{}{int64(9)}, db.Statements()[1].Args)
}

func TestPersist_LastInsertID(t *testing.T) {
	var mu sync.Mutex
	var next int64
	db := fake.New(database.SQLite)
	db.OnExecute = func(query string, args []interface{}) (*fake.Result, error) {
		mu.Lock()
		defer mu.Unlock()
		next++
		return &fake.Result{LastID: next, Affected: 1}, nil
	}
	ex := newExecutor(t, db, executor.Config{})

	a, b := &person{Name: "stef"}, &person{Name: "emmanuel"}
	require.NoError(t, ex.Persist(context.Background(), slices.Values([]*person{a, b})))

	require.NotNil(t, a.ID)
	require.NotNil(t, b.ID)
	assert.Equal(t, int64(1), *a.ID)
	assert.Equal(t, int64(2), *b.ID)

	stmts := db.Statements()
	require.Len(t, stmts, 2)
	assert.Equal(t, "INSERT INTO person (name) VALUES (?)", stmts[0].Query)
	assert.Equal(t, []interface{}{"stef"}, stmts[0].Args)
	assert.Equal(t, []interface{}{"emmanuel"}, stmts[1].Args)
}

func TestPersist_Returning(t *testing.T) {
	db := fake.New(database.PostgreSQL)
	db.OnQuery = func(query string, args []interface{}) (*fake.Rows, error) {
		return fake.NewRows([]string{"id"}, []interface{}{int32(11)}), nil
	}
	ex := newExecutor(t, db, executor.Config{})

	p := &person{Name: "stef"}
	require.NoError(t, ex.Persist(context.Background(), slices.Values([]*person{p})))
	require.NotNil(t, p.ID)
	assert.Equal(t, int64(11), *p.ID)
	assert.Equal(t, "INSERT INTO person (name) VALUES ($1) RETURNING id", db.Statements()[0].Query)
	assert.Equal(t, 0, db.OpenRows())
}

func TestPersist_SkipsPersistentEntities(t *testing.T) {
	db := fake.New(database.SQLite)
	ex := newExecutor(t, db, executor.Config{})

	id := int64(3)
	require.NoError(t, ex.Persist(context.Background(), slices.Values([]*person{{ID: &id, Name: "stef"}})))
	assert.Empty(t, db.Statements())
}

func TestPersist_FailureKeepsEarlierIdentifiers(t *testing.T) {
	driverErr := errors.New("unique violation")
	db := fake.New(database.SQLite)
	db.OnExecute = func(query string, args []interface{}) (*fake.Result, error) {
		if args[0] == "bad" {
			return nil, driverErr
		}
		return &fake.Result{LastID: 1, Affected: 1}, nil
	}
	ex := newExecutor(t, db, executor.Config{})

	good, bad := &person{Name: "good"}, &person{Name: "bad"}
	err := ex.Persist(context.Background(), slices.Values([]*person{good, bad}))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStore)
	assert.ErrorIs(t, err, driverErr)

	assert.NotNil(t, good.ID)
	assert.Nil(t, bad.ID)
}

func TestPersist_Concurrent(t *testing.T) {
	var mu sync.Mutex
	var next int64
	db := fake.New(database.SQLite)
	db.OnExecute = func(string, []interface{}) (*fake.Result, error) {
		mu.Lock()
		defer mu.Unlock()
		next++
		return &fake.Result{LastID: next, Affected: 1}, nil
	}
	ex := newExecutor(t, db, executor.Config{PersistConcurrency: 4})

	batch := make([]*person, 20)
	for i := range batch {
		batch[i] = &person{Name: "p"}
	}
	require.NoError(t, ex.Persist(context.Background(), slices.Values(batch)))

	seen := make(map[int64]bool)
	for _, p := range batch {
		require.NotNil(t, p.ID)
		seen[*p.ID] = true
	}
	assert.Len(t, seen, 20)
}

func TestPersist_CancelledContext(t *testing.T) {
	db := fake.New(database.SQLite)
	ex := newExecutor(t, db, executor.Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &person{Name: "stef"}
	err := ex.Persist(ctx, slices.Values([]*person{p}))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, p.ID)
}
