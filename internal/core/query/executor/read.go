package executor

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/satishbabariya/activerecord/internal/adapters/database"
	"github.com/satishbabariya/activerecord/internal/core/query/domain"
	"github.com/satishbabariya/activerecord/internal/core/query/mapper"
)

// Count returns the number of rows matching q. The page, sort and any
// trailing ORDER BY are ignored.
func (e *Executor[T]) Count(ctx context.Context, q domain.Query) (int64, error) {
	stmt, err := e.compiler.CompileCount(q)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	count, err := e.count(ctx, stmt)
	e.observe(ctx, OpCount, stmt, start, count, err)
	return count, err
}

func (e *Executor[T]) count(ctx context.Context, stmt domain.SQL) (int64, error) {
	rows, err := e.db.Query(ctx, stmt.Query, stmt.Args...)
	if err != nil {
		return 0, e.storeError(OpCount, stmt, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, e.storeError(OpCount, stmt, err)
		}
		return 0, e.storeError(OpCount, stmt, fmt.Errorf("count returned no row"))
	}

	var value interface{}
	if err := rows.Scan(&value); err != nil {
		return 0, e.storeError(OpCount, stmt, err)
	}
	count, err := mapper.ToInt64(value)
	if err != nil {
		return 0, e.storeError(OpCount, stmt, err)
	}
	return count, nil
}

// FetchPage returns every entity of the page attached to q, or of the whole
// result set when no page is attached.
func (e *Executor[T]) FetchPage(ctx context.Context, q domain.Query) ([]T, error) {
	return e.fetch(ctx, OpFetch, q)
}

func (e *Executor[T]) fetch(ctx context.Context, op string, q domain.Query) ([]T, error) {
	stmt, err := e.compiler.CompileSelect(q)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	results, err := e.collect(ctx, op, stmt)
	e.observe(ctx, op, stmt, start, int64(len(results)), err)
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Executor[T]) collect(ctx context.Context, op string, stmt domain.SQL) ([]T, error) {
	rows, err := e.db.Query(ctx, stmt.Query, stmt.Args...)
	if err != nil {
		return nil, e.storeError(op, stmt, err)
	}
	defer rows.Close()

	results := make([]T, 0)
	for rows.Next() {
		entity, err := e.decode(op, stmt, rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, e.storeError(op, stmt, err)
	}
	return results, nil
}

func (e *Executor[T]) decode(op string, stmt domain.SQL, rows database.Rows) (T, error) {
	var zero T
	row, err := mapper.Scan(rows)
	if err != nil {
		return zero, e.storeError(op, stmt, err)
	}
	entity, err := e.binding.Decode(row)
	if err != nil {
		return zero, fmt.Errorf("failed to map %s row: %w", e.binding.Table, err)
	}
	return entity, nil
}

// FetchLazy returns the same result set as FetchPage, mapped one row at a
// time as the caller pulls. The statement runs on the first pull and the
// rows are closed when iteration stops for any reason. A failure is yielded
// once as the final element.
func (e *Executor[T]) FetchLazy(ctx context.Context, q domain.Query) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T

		stmt, err := e.compiler.CompileSelect(q)
		if err != nil {
			yield(zero, err)
			return
		}

		start := time.Now()
		var n int64
		var failure error
		defer func() {
			e.observe(ctx, OpStream, stmt, start, n, failure)
		}()

		rows, err := e.db.Query(ctx, stmt.Query, stmt.Args...)
		if err != nil {
			failure = e.storeError(OpStream, stmt, err)
			yield(zero, failure)
			return
		}
		defer rows.Close()

		for rows.Next() {
			entity, err := e.decode(OpStream, stmt, rows)
			if err != nil {
				failure = err
				yield(zero, failure)
				return
			}
			n++
			if !yield(entity, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			failure = e.storeError(OpStream, stmt, err)
			yield(zero, failure)
		}
	}
}

// FirstResult returns the first entity matching q, or the zero value of T
// when nothing matches.
func (e *Executor[T]) FirstResult(ctx context.Context, q domain.Query) (T, error) {
	var zero T
	results, err := e.fetch(ctx, OpFirst, q.WithPage(domain.PageOf(0, 1)))
	if err != nil {
		return zero, err
	}
	if len(results) == 0 {
		return zero, nil
	}
	return results[0], nil
}

// SingleResult returns the only entity matching q. It fails with
// ErrNoResult or ErrNonUniqueResult otherwise. At most two rows are read.
func (e *Executor[T]) SingleResult(ctx context.Context, q domain.Query) (T, error) {
	var zero T
	results, err := e.fetch(ctx, OpSingle, q.WithPage(domain.PageOf(0, 2)))
	if err != nil {
		return zero, err
	}
	switch len(results) {
	case 0:
		return zero, fmt.Errorf("%s: %w", e.binding.Table, domain.ErrNoResult)
	case 1:
		return results[0], nil
	default:
		return zero, fmt.Errorf("%s: %w", e.binding.Table, domain.ErrNonUniqueResult)
	}
}

// FindByID returns the entity with identifier id, or the zero value of T
// when there is none.
func (e *Executor[T]) FindByID(ctx context.Context, id interface{}) (T, error) {
	return e.FirstResult(ctx, e.Query(e.ByID(id), domain.Sort{}))
}
