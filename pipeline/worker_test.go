package pipeline

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
)

func TestRunGraphExecutesEveryTaskExactlyOnce(t *testing.T) {
	g := NewTaskGraph(4, 4, 0)
	var count int32
	err := RunGraph(context.Background(), g, 3, func(ctx context.Context, tk *CTUTask) error {
		atomic.AddInt32(&count, 1)
		return nil
	})
	if err != nil {
		t.Fatalf("RunGraph returned error: %v", err)
	}
	if count != 16 {
		t.Errorf("executed %d tasks, want 16", count)
	}
}

func TestRunGraphRespectsWavefrontOrder(t *testing.T) {
	g := NewTaskGraph(3, 3, 0)
	var mu sync.Mutex
	var order []string
	seen := make(map[string]bool)

	err := RunGraph(context.Background(), g, 4, func(ctx context.Context, tk *CTUTask) error {
		mu.Lock()
		order = append(order, key(tk.Row, tk.Col))
		seen[key(tk.Row, tk.Col)] = true
		// (1,1) must not run before both (1,0) and (0,2) have.
		if tk.Row == 1 && tk.Col == 1 {
			if !seen[key(1, 0)] || !seen[key(0, 2)] {
				t.Errorf("(1,1) ran before its dependencies: %v", order)
			}
		}
		mu.Unlock()
		return nil
	})
	if err != nil {
		t.Fatalf("RunGraph returned error: %v", err)
	}
}

func key(r, c int) string { return string(rune('A'+r)) + string(rune('a'+c)) }

func TestRunGraphReturnsTaskError(t *testing.T) {
	g := NewTaskGraph(2, 2, 0)
	wantErr := errTestFailure
	err := RunGraph(context.Background(), g, 2, func(ctx context.Context, tk *CTUTask) error {
		if tk.Row == 0 && tk.Col == 0 {
			return wantErr
		}
		return nil
	})
	if err == nil {
		t.Fatal("RunGraph returned nil error, want non-nil")
	}
}

var errTestFailure = &testError{"boom"}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }
