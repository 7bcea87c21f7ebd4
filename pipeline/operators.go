package pipeline

import "context"

// Map transforms each value from the source pipeline.
func Map[I, O any](p *Pipeline[I], fn func(context.Context, I) (O, error)) *Pipeline[O] {
	return &Pipeline[O]{
		create: func(ctx context.Context) Iterator[O] {
			return &mapIter[I, O]{source: p.create(ctx), fn: fn}
		},
	}
}

type mapIter[I, O any] struct {
	source Iterator[I]
	fn     func(context.Context, I) (O, error)
}

func (it *mapIter[I, O]) Next(ctx context.Context) (result O, ok bool, err error) {
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		var zero O
		return zero, false, err
	}
	out, err := it.fn(ctx, val)
	if err != nil {
		var zero O
		return zero, false, err
	}
	return out, true, nil
}

func (it *mapIter[I, O]) Close() error { return it.source.Close() }

// indexed tags a value with its position in the source.
type indexed[T any] struct {
	pos int
	val T
}

// enumerate numbers values in pull order, starting at 0.
func enumerate[T any](p *Pipeline[T]) *Pipeline[indexed[T]] {
	return &Pipeline[indexed[T]]{
		create: func(ctx context.Context) Iterator[indexed[T]] {
			next := 0
			return &mapIter[T, indexed[T]]{
				source: p.create(ctx),
				fn: func(_ context.Context, v T) (indexed[T], error) {
					pos := next
					next++
					return indexed[T]{pos: pos, val: v}, nil
				},
			}
		},
	}
}

// reorderIter releases indexed values strictly in position order, holding
// early arrivals until the gap before them is filled.
type reorderIter[T any] struct {
	source  Iterator[indexed[T]]
	pending map[int]T
	next    int
}

func (it *reorderIter[T]) Next(ctx context.Context) (T, bool, error) {
	for {
		if v, ok := it.pending[it.next]; ok {
			delete(it.pending, it.next)
			it.next++
			return v, true, nil
		}
		in, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			var zero T
			return zero, false, err
		}
		it.pending[in.pos] = in.val
	}
}

func (it *reorderIter[T]) Close() error { return it.source.Close() }
