package fanout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

func TestRunPreservesSubmissionOrder(t *testing.T) {
	names := []string{"c.pdf", "a.pdf", "b.pdf"}

	results := Run(context.Background(), 2, names, func(_ context.Context, name string) (string, error) {
		return "parsed:" + name, nil
	})

	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	for i, name := range names {
		if results[i].Name != name {
			t.Fatalf("result[%d].Name = %s, want %s", i, results[i].Name, name)
		}
		if results[i].Value != "parsed:"+name {
			t.Fatalf("result[%d].Value = %s", i, results[i].Value)
		}
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	boom := errors.New("boom")

	results := Run(context.Background(), 4, []string{"ok", "bad", "panics"}, func(_ context.Context, name string) (int, error) {
		switch name {
		case "bad":
			return 0, boom
		case "panics":
			panic("unexpected")
		default:
			return 7, nil
		}
	})

	if results[0].Err != nil || results[0].Value != 7 {
		t.Fatalf("healthy task affected: %+v", results[0])
	}
	if !errors.Is(results[1].Err, boom) {
		t.Fatalf("result[1].Err = %v, want boom", results[1].Err)
	}
	if results[2].Err == nil {
		t.Fatal("panicking task must surface an error")
	}
}

func TestRunRespectsWidth(t *testing.T) {
	const width = 3
	var current, peak int64
	var mu sync.Mutex

	names := make([]string, 20)
	for i := range names {
		names[i] = fmt.Sprintf("item-%d", i)
	}

	Run(context.Background(), width, names, func(_ context.Context, _ string) (struct{}, error) {
		n := atomic.AddInt64(&current, 1)
		mu.Lock()
		if n > peak {
			peak = n
		}
		mu.Unlock()
		atomic.AddInt64(&current, -1)
		return struct{}{}, nil
	})

	mu.Lock()
	defer mu.Unlock()
	if peak > width {
		t.Fatalf("peak concurrency %d exceeded width %d", peak, width)
	}
}

func TestRunEmptyInput(t *testing.T) {
	results := Run(context.Background(), 0, nil, func(_ context.Context, _ string) (int, error) {
		t.Fatal("fn must not be called for empty input")
		return 0, nil
	})
	if len(results) != 0 {
		t.Fatalf("results = %d, want 0", len(results))
	}
}
