package live

import "context"

// Update is one emission of a watched query.
type Update[T any] struct {
	Value T
	Err   error
}

// Watch runs query immediately and again after every change to topics,
// sending each result on the returned channel. The channel is closed once ctx
// is cancelled. Changes arriving while the reader is busy collapse into a
// single re-run.
func Watch[T any](ctx context.Context, hub *Hub, query func(context.Context) (T, error), topics ...Topic) <-chan Update[T] {
	out := make(chan Update[T], 1)
	changes := hub.Subscribe(ctx, topics...)

	go func() {
		defer close(out)

		for {
			value, err := query(ctx)
			if ctx.Err() != nil {
				return
			}
			select {
			case out <- Update[T]{Value: value, Err: err}:
			case <-ctx.Done():
				return
			}

			select {
			case _, ok := <-changes:
				if !ok {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
