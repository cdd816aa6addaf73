package record

import (
	"context"
	"fmt"

	"github.com/satishbabariya/activerecord/internal/core/async"
	"github.com/satishbabariya/activerecord/internal/core/query/domain"
)

// Query is a pagination cursor over one query. Setting or moving the page
// never runs a statement. A Query is not safe for concurrent navigation.
type Query[T any] struct {
	repo *Repository[T]
	desc domain.Query
	err  error
}

// Err returns the error the query was built with, if any. Every terminal
// operation of a failed query fails with it.
func (q *Query[T]) Err() error {
	return q.err
}

// Page attaches the page at index with the given size. See WithPage.
func (q *Query[T]) Page(index, size int) *Query[T] {
	return q.WithPage(domain.PageOf(index, size))
}

// WithPage attaches p. It panics with a *PreconditionError when the index
// is negative or the size is below 1.
func (q *Query[T]) WithPage(p Page) *Query[T] {
	if !p.Valid() {
		panic(&domain.PreconditionError{Reason: fmt.Sprintf("invalid page %d/%d, want index >= 0 and size >= 1", p.Index, p.Size)})
	}
	q.desc = q.desc.WithPage(p)
	return q
}

// CurrentPage returns the attached page. It panics with a *PreconditionError
// when no page was ever set.
func (q *Query[T]) CurrentPage() Page {
	if q.desc.Page == nil {
		panic(&domain.PreconditionError{Reason: "no page attached, call Page or WithPage first"})
	}
	return *q.desc.Page
}

// NextPage moves to the following page.
func (q *Query[T]) NextPage() *Query[T] {
	return q.WithPage(q.page().Next())
}

// PreviousPage moves to the preceding page. It panics with a
// *PreconditionError on the first page.
func (q *Query[T]) PreviousPage() *Query[T] {
	p := q.page()
	if !p.HasPrevious() {
		panic(&domain.PreconditionError{Reason: "already on the first page"})
	}
	return q.WithPage(p.Previous())
}

// FirstPage moves to index 0, keeping the size.
func (q *Query[T]) FirstPage() *Query[T] {
	return q.WithPage(q.page().First())
}

// HasPreviousPage reports whether the current page index is above 0.
func (q *Query[T]) HasPreviousPage() bool {
	return q.page().HasPrevious()
}

// HasNextPage reports whether rows exist past the current page.
func (q *Query[T]) HasNextPage(ctx context.Context) *Future[bool] {
	p := q.page()
	return run(ctx, q, func(ctx context.Context, desc domain.Query) (bool, error) {
		total, err := q.repo.exec.Count(ctx, desc)
		if err != nil {
			return false, err
		}
		return domain.HasNext(p, total), nil
	})
}

// PageCount returns the number of pages of the current size.
func (q *Query[T]) PageCount(ctx context.Context) *Future[int64] {
	size := q.page().Size
	return run(ctx, q, func(ctx context.Context, desc domain.Query) (int64, error) {
		total, err := q.repo.exec.Count(ctx, desc)
		if err != nil {
			return 0, err
		}
		return domain.PageCount(total, size), nil
	})
}

// Count returns the number of matching rows, ignoring the page.
func (q *Query[T]) Count(ctx context.Context) *Future[int64] {
	return run(ctx, q, q.repo.exec.Count)
}

// List returns the entities of the current page, or all of them when no
// page is attached.
func (q *Query[T]) List(ctx context.Context) *Future[[]T] {
	return run(ctx, q, q.repo.exec.FetchPage)
}

// FirstResult returns the first matching entity, or the zero value of T.
func (q *Query[T]) FirstResult(ctx context.Context) *Future[T] {
	return run(ctx, q, q.repo.exec.FirstResult)
}

// SingleResult returns the only matching entity. It fails with ErrNoResult
// or ErrNonUniqueResult otherwise.
func (q *Query[T]) SingleResult(ctx context.Context) *Future[T] {
	return run(ctx, q, q.repo.exec.SingleResult)
}

// Stream returns the entities of the current page lazily.
func (q *Query[T]) Stream(ctx context.Context) *Stream[T] {
	if q.err != nil {
		return failedStream[T](q.err)
	}
	ctx = q.repo.session.operation(ctx)
	return newStream(q.repo.exec.FetchLazy(ctx, q.desc))
}

// page returns the attached page or the first page of the default size.
func (q *Query[T]) page() Page {
	if q.desc.Page != nil {
		return *q.desc.Page
	}
	size := domain.DefaultPageSize
	if s := q.repo.session; s != nil {
		size = s.options.DefaultPageSize
	}
	return domain.NewPage(size)
}

// failedQuery returns a cursor whose every terminal operation fails with err.
func failedQuery[T any](s *Session, err error) *Query[T] {
	return &Query[T]{repo: &Repository[T]{session: s}, err: err}
}

// run starts fn on a snapshot of the descriptor, so later navigation does
// not affect work already started.
func run[T, R any](ctx context.Context, q *Query[T], fn func(context.Context, domain.Query) (R, error)) *Future[R] {
	if q.err != nil {
		return async.Failed[R](q.err)
	}
	desc := q.desc
	ctx = q.repo.session.operation(ctx)
	return async.Go(ctx, q.repo.session.runner(), func(ctx context.Context) (R, error) {
		return fn(ctx, desc)
	})
}
