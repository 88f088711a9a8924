// Package fanout runs one task per item with bounded concurrency and joins
// the results before handing them back to a single aggregating goroutine.
package fanout

import (
	"context"
	"fmt"
	"sync"
)

// DefaultWidth caps concurrent tasks when the caller passes no limit.
const DefaultWidth = 8

// Result carries one item's outcome back across the gather barrier. A task
// failure is data here, never a panic or an early return for siblings.
type Result[T any] struct {
	Name  string
	Value T
	Err   error
}

// Run executes fn once per name, at most width tasks at a time, and returns
// results in the order names were given. Every task runs to completion; a
// panic inside fn is converted into that item's error.
func Run[T any](ctx context.Context, width int, names []string, fn func(context.Context, string) (T, error)) []Result[T] {
	if width <= 0 {
		width = DefaultWidth
	}

	results := make([]Result[T], len(names))
	sem := make(chan struct{}, width)
	var wg sync.WaitGroup

	for i, name := range names {
		wg.Add(1)
		sem <- struct{}{}
		go func(slot int, name string) {
			defer wg.Done()
			defer func() { <-sem }()
			defer func() {
				if r := recover(); r != nil {
					results[slot] = Result[T]{Name: name, Err: fmt.Errorf("task panic: %v", r)}
				}
			}()

			value, err := fn(ctx, name)
			results[slot] = Result[T]{Name: name, Value: value, Err: err}
		}(i, name)
	}

	wg.Wait()
	return results
}
