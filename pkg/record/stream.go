package record

import (
	"iter"
	"sync/atomic"

	"github.com/satishbabariya/activerecord/internal/core/async"
)

// Future is a value produced in the background.
type Future[T any] = async.Future[T]

// Stream is a single-pass lazy sequence of entities. The statement runs on
// the first pull and the store cursor is released when iteration stops.
// A failure is delivered as the final element.
type Stream[T any] struct {
	seq      iter.Seq2[T, error]
	consumed atomic.Bool
}

func newStream[T any](seq iter.Seq2[T, error]) *Stream[T] {
	return &Stream[T]{seq: seq}
}

func failedStream[T any](err error) *Stream[T] {
	return newStream(func(yield func(T, error) bool) {
		var zero T
		yield(zero, err)
	})
}

// All returns the sequence. Only the first iteration reads from the store;
// later ones yield ErrStreamConsumed.
func (s *Stream[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		if !s.consumed.CompareAndSwap(false, true) {
			var zero T
			yield(zero, ErrStreamConsumed)
			return
		}
		s.seq(yield)
	}
}

// Collect drains the stream. Entities read before a failure are returned
// along with it.
func (s *Stream[T]) Collect() ([]T, error) {
	var out []T
	for v, err := range s.All() {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}
