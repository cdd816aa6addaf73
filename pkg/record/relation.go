package record

import (
	"context"
	"errors"
	"sync"

	"github.com/satishbabariya/activerecord/internal/core/async"
)

var errNoSession = errors.New("relation has no session")

// Ref is a lazy to-one relation. It holds either the related entity or the
// foreign key read from a row, and resolves the key through its session.
// Copies of a Ref share the resolved entity. A Ref is safe for concurrent use.
type Ref[T any] struct {
	session *Session
	key     interface{}
	cell    *refCell[T]
}

// refCell holds the resolved entity; Get fills it from a pool worker.
type refCell[T any] struct {
	mu     sync.RWMutex
	value  T
	loaded bool
}

func (c *refCell[T]) get() (T, bool) {
	if c == nil {
		var zero T
		return zero, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value, c.loaded
}

func (c *refCell[T]) set(v T) {
	c.mu.Lock()
	c.value, c.loaded = v, true
	c.mu.Unlock()
}

// RefOf returns a resolved reference to entity.
func RefOf[T any](entity T) Ref[T] {
	return Ref[T]{cell: &refCell[T]{value: entity, loaded: true}}
}

// RefTo returns an unresolved reference to the row with identifier key.
// A nil key is an empty reference.
func RefTo[T any](s *Session, key interface{}) Ref[T] {
	return Ref[T]{session: s, key: key, cell: &refCell[T]{}}
}

// IsEmpty reports whether the reference points nowhere.
func (r Ref[T]) IsEmpty() bool {
	return !r.Loaded() && r.key == nil
}

// Loaded reports whether the related entity is held in memory. It turns true
// once a Get future has completed successfully.
func (r Ref[T]) Loaded() bool {
	_, ok := r.cell.get()
	return ok
}

// Value returns the related entity if it was resolved.
func (r Ref[T]) Value() (T, bool) {
	return r.cell.get()
}

// Key returns the foreign key, asking m for the identifier of a resolved entity.
func (r Ref[T]) Key(m Mapping[T]) (interface{}, bool) {
	if v, ok := r.cell.get(); ok {
		return m.ID(v)
	}
	return r.key, r.key != nil
}

// Get resolves the reference. An empty reference resolves to the zero value.
// The resolved entity is cached for later Value and Get calls.
func (r Ref[T]) Get(ctx context.Context, m Mapping[T]) *Future[T] {
	if v, ok := r.cell.get(); ok {
		return async.Completed(v)
	}
	if r.key == nil {
		var zero T
		return async.Completed(zero)
	}
	if r.session == nil || r.cell == nil {
		return async.Failed[T](errNoSession)
	}

	repo, err := For(r.session, m)
	if err != nil {
		return async.Failed[T](err)
	}
	key, cell := r.key, r.cell
	ctx = r.session.operation(ctx)
	return async.Go(ctx, r.session.runner(), func(ctx context.Context) (T, error) {
		v, err := repo.exec.FindByID(ctx, key)
		if err != nil {
			return v, err
		}
		cell.set(v)
		return v, nil
	})
}

// Many is a lazy to-many relation: the rows whose column holds key.
type Many[T any] struct {
	session *Session
	column  string
	key     interface{}
}

// ManyOf returns the relation of rows whose column equals key.
func ManyOf[T any](s *Session, column string, key interface{}) Many[T] {
	return Many[T]{session: s, column: column, key: key}
}

// Find returns a fresh cursor over the related entities.
func (m Many[T]) Find(mapping Mapping[T]) *Query[T] {
	if m.session == nil {
		return failedQuery[T](nil, errNoSession)
	}
	repo, err := For(m.session, mapping)
	if err != nil {
		return failedQuery[T](m.session, err)
	}
	return repo.Find(m.column, m.key)
}

// Stream streams the related entities.
func (m Many[T]) Stream(ctx context.Context, mapping Mapping[T]) *Stream[T] {
	return m.Find(mapping).Stream(ctx)
}
