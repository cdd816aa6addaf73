package executor

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/satishbabariya/activerecord/internal/core/query/domain"
	"github.com/satishbabariya/activerecord/internal/core/query/mapper"
)

// DeleteMatching deletes every row matching q and returns how many were
// removed. Related rows are left alone.
func (e *Executor[T]) DeleteMatching(ctx context.Context, q domain.Query) (int64, error) {
	stmt, err := e.compiler.CompileDelete(q)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	affected, err := e.exec(ctx, OpDelete, stmt)
	e.observe(ctx, OpDelete, stmt, start, affected, err)
	return affected, err
}

// DeleteByID deletes the row with identifier id.
func (e *Executor[T]) DeleteByID(ctx context.Context, id interface{}) (int64, error) {
	return e.DeleteMatching(ctx, e.Query(e.ByID(id), domain.Sort{}))
}

func (e *Executor[T]) exec(ctx context.Context, op string, stmt domain.SQL) (int64, error) {
	result, err := e.db.Execute(ctx, stmt.Query, stmt.Args...)
	if err != nil {
		return 0, e.storeError(op, stmt, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, e.storeError(op, stmt, fmt.Errorf("failed to get rows affected: %w", err))
	}
	return affected, nil
}

// Persist inserts every entity of entities that has no identifier yet and
// stores the generated identifier on it as soon as its insert succeeds.
// The first failure fails the call; entities inserted before it keep their
// identifiers.
func (e *Executor[T]) Persist(ctx context.Context, entities iter.Seq[T]) error {
	p := pool.New().
		WithMaxGoroutines(e.concurrency).
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError()

	for entity := range entities {
		if ctx.Err() != nil {
			break
		}
		p.Go(func(ctx context.Context) error {
			return e.insert(ctx, entity)
		})
	}

	if err := p.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (e *Executor[T]) insert(ctx context.Context, entity T) error {
	if _, ok := e.binding.ID(entity); ok {
		return nil
	}

	columns, values := e.binding.Encode(entity)
	stmt, err := e.compiler.CompileInsert(e.binding.Table, e.binding.IDColumn, columns, values)
	if err != nil {
		return err
	}

	start := time.Now()
	id, err := e.insertRow(ctx, stmt)
	if err != nil {
		e.observe(ctx, OpPersist, stmt, start, 0, err)
		return err
	}
	e.observe(ctx, OpPersist, stmt, start, 1, nil)

	if err := e.binding.SetID(entity, id); err != nil {
		return fmt.Errorf("failed to set %s identifier: %w", e.binding.Table, err)
	}
	return nil
}

func (e *Executor[T]) insertRow(ctx context.Context, stmt domain.SQL) (interface{}, error) {
	if !e.compiler.Dialect().SupportsReturning() {
		result, err := e.db.Execute(ctx, stmt.Query, stmt.Args...)
		if err != nil {
			return nil, e.storeError(OpPersist, stmt, err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return nil, e.storeError(OpPersist, stmt, fmt.Errorf("failed to get generated identifier: %w", err))
		}
		return id, nil
	}

	rows, err := e.db.Query(ctx, stmt.Query, stmt.Args...)
	if err != nil {
		return nil, e.storeError(OpPersist, stmt, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, e.storeError(OpPersist, stmt, err)
		}
		return nil, e.storeError(OpPersist, stmt, fmt.Errorf("insert returned no identifier"))
	}
	var id interface{}
	if err := rows.Scan(&id); err != nil {
		return nil, e.storeError(OpPersist, stmt, err)
	}
	if n, err := mapper.ToInt64(id); err == nil {
		return n, nil
	}
	return id, nil
}
