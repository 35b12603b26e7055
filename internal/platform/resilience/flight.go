package resilience

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// Flight collapses concurrent loads of the same key onto one call of fn.
type Flight[T any] struct {
	group singleflight.Group
}

// Do returns fn's result for key, sharing it with callers that arrive while it
// runs. A caller whose ctx ends stops waiting; the call itself keeps running.
func (f *Flight[T]) Do(ctx context.Context, key string, fn func() (T, error)) (T, bool, error) {
	var zero T
	ch := f.group.DoChan(key, func() (any, error) {
		v, err := fn()
		return v, err
	})

	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Shared, res.Err
		}
		v, _ := res.Val.(T)
		return v, res.Shared, nil
	}
}

// Forget drops key so the next Do starts a fresh call.
func (f *Flight[T]) Forget(key string) {
	f.group.Forget(key)
}
