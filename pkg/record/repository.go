// Package record is an active-record style query and pagination engine.
//
// A Repository runs queries for one entity type. Predicates are written with
// positional (?1) or named (:name) placeholders, or as a bare column name that
// matches a single value. Every operation that reaches the store returns a
// *Future or a *Stream and never blocks the caller.
package record

import (
	"context"
	"iter"
	"slices"

	"github.com/satishbabariya/activerecord/internal/core/async"
	"github.com/satishbabariya/activerecord/internal/core/query/domain"
	"github.com/satishbabariya/activerecord/internal/core/query/executor"
	"github.com/satishbabariya/activerecord/internal/core/query/translator"
)

// Repository runs queries for entities of type T. The same value serves
// repository style (people.List(ctx, ...)) and active-record style helpers
// built on it.
type Repository[T any] struct {
	session *Session
	mapping Mapping[T]
	exec    *executor.Executor[T]
}

// For returns the repository of m in session s.
func For[T any](s *Session, m Mapping[T]) (*Repository[T], error) {
	exec, err := executor.New(s.db, bindingOf(s, m), executor.Config{
		Telemetry:          s.telemetry,
		Logger:             s.logger,
		PersistConcurrency: s.options.PersistConcurrency,
	})
	if err != nil {
		return nil, err
	}
	return &Repository[T]{session: s, mapping: m, exec: exec}, nil
}

// MustFor is For that panics on an invalid mapping.
func MustFor[T any](s *Session, m Mapping[T]) *Repository[T] {
	r, err := For(s, m)
	if err != nil {
		panic(err)
	}
	return r
}

// Session returns the session the repository runs in.
func (r *Repository[T]) Session() *Session {
	return r.session
}

// Mapping returns the entity mapping.
func (r *Repository[T]) Mapping() Mapping[T] {
	return r.mapping
}

// FindAll returns a cursor over every entity.
func (r *Repository[T]) FindAll() *Query[T] {
	return r.FindAllSorted(Sort{})
}

// FindAllSorted returns a cursor over every entity in sort order.
func (r *Repository[T]) FindAllSorted(sort Sort) *Query[T] {
	return &Query[T]{repo: r, desc: r.exec.Query(domain.Filter{}, sort)}
}

// Find returns a cursor over the entities matching predicate. Argument
// errors are reported by the cursor's first terminal operation.
func (r *Repository[T]) Find(predicate string, args ...interface{}) *Query[T] {
	return r.FindSorted(predicate, Sort{}, args...)
}

// FindSorted is Find with an explicit sort.
func (r *Repository[T]) FindSorted(predicate string, sort Sort, args ...interface{}) *Query[T] {
	filter, err := translator.Translate(predicate, args...)
	if err != nil {
		return failedQuery[T](r.session, err)
	}
	return &Query[T]{repo: r, desc: r.exec.Query(filter, sort)}
}

// ListAll returns every entity.
func (r *Repository[T]) ListAll(ctx context.Context) *Future[[]T] {
	return r.FindAll().List(ctx)
}

// ListAllSorted returns every entity in sort order.
func (r *Repository[T]) ListAllSorted(ctx context.Context, sort Sort) *Future[[]T] {
	return r.FindAllSorted(sort).List(ctx)
}

// List returns the entities matching predicate.
func (r *Repository[T]) List(ctx context.Context, predicate string, args ...interface{}) *Future[[]T] {
	return r.Find(predicate, args...).List(ctx)
}

// ListSorted returns the entities matching predicate in sort order.
func (r *Repository[T]) ListSorted(ctx context.Context, predicate string, sort Sort, args ...interface{}) *Future[[]T] {
	return r.FindSorted(predicate, sort, args...).List(ctx)
}

// StreamAll streams every entity.
func (r *Repository[T]) StreamAll(ctx context.Context) *Stream[T] {
	return r.FindAll().Stream(ctx)
}

// StreamAllSorted streams every entity in sort order.
func (r *Repository[T]) StreamAllSorted(ctx context.Context, sort Sort) *Stream[T] {
	return r.FindAllSorted(sort).Stream(ctx)
}

// Stream streams the entities matching predicate.
func (r *Repository[T]) Stream(ctx context.Context, predicate string, args ...interface{}) *Stream[T] {
	return r.Find(predicate, args...).Stream(ctx)
}

// StreamSorted streams the entities matching predicate in sort order.
func (r *Repository[T]) StreamSorted(ctx context.Context, predicate string, sort Sort, args ...interface{}) *Stream[T] {
	return r.FindSorted(predicate, sort, args...).Stream(ctx)
}

// CountAll counts every entity.
func (r *Repository[T]) CountAll(ctx context.Context) *Future[int64] {
	return r.FindAll().Count(ctx)
}

// Count counts the entities matching predicate.
func (r *Repository[T]) Count(ctx context.Context, predicate string, args ...interface{}) *Future[int64] {
	return r.Find(predicate, args...).Count(ctx)
}

// Delete deletes the entities matching predicate and returns how many were
// removed. Related rows are not deleted.
func (r *Repository[T]) Delete(ctx context.Context, predicate string, args ...interface{}) *Future[int64] {
	q := r.Find(predicate, args...)
	return run(ctx, q, r.exec.DeleteMatching)
}

// DeleteAll deletes every entity.
func (r *Repository[T]) DeleteAll(ctx context.Context) *Future[int64] {
	return run(ctx, r.FindAll(), r.exec.DeleteMatching)
}

// DeleteEntity deletes one saved entity by identifier. It fails with
// ErrTransient when the entity was never saved.
func (r *Repository[T]) DeleteEntity(ctx context.Context, entity T) *Future[bool] {
	id, ok := r.mapping.ID(entity)
	if !ok {
		return async.Failed[bool](ErrTransient)
	}
	ctx = r.session.operation(ctx)
	return async.Go(ctx, r.session.runner(), func(ctx context.Context) (bool, error) {
		n, err := r.exec.DeleteByID(ctx, id)
		return n > 0, err
	})
}

// FindByID returns the entity with identifier id, or the zero value of T
// when there is none.
func (r *Repository[T]) FindByID(ctx context.Context, id interface{}) *Future[T] {
	ctx = r.session.operation(ctx)
	return async.Go(ctx, r.session.runner(), func(ctx context.Context) (T, error) {
		return r.exec.FindByID(ctx, id)
	})
}

// Save inserts the entities that were never saved. Each entity gets its
// identifier as soon as its own insert succeeds.
func (r *Repository[T]) Save(ctx context.Context, entities ...T) *Future[struct{}] {
	return r.SaveSeq(ctx, slices.Values(entities))
}

// SaveSeq is Save over a lazy sequence, pulled from the future's goroutine.
func (r *Repository[T]) SaveSeq(ctx context.Context, entities iter.Seq[T]) *Future[struct{}] {
	ctx = r.session.operation(ctx)
	return async.Go(ctx, r.session.runner(), func(ctx context.Context) (struct{}, error) {
		return struct{}{}, r.exec.Persist(ctx, entities)
	})
}

// IsPersistent reports whether entity has an identifier.
func (r *Repository[T]) IsPersistent(entity T) bool {
	_, ok := r.mapping.ID(entity)
	return ok
}
