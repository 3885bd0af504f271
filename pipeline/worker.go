/*
DESCRIPTION
  worker.go runs a CTUTask graph to completion with a fixed pool of
  worker goroutines pulling READY tasks (spec §4.12, §5): "A worker
  pool of N threads pulls READY tasks, runs them, then marks
  downstream tasks' dependency counters."

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pipeline

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// crossFramePollInterval bounds how often a task blocked solely on its
// cross-frame gate (spec §4.12) is re-checked; the gate itself is
// cheap (a reference frame's atomic completion flag), so short polling
// does not meaningfully delay the wavefront.
const crossFramePollInterval = 200 * time.Microsecond

// Execute is called once per CTU task by whichever worker goroutine
// dequeues it; it must touch only that CTU's own footprint (spec §5).
type Execute func(ctx context.Context, t *CTUTask) error

// RunGraph drains g to completion using numWorkers goroutines, calling
// exec for every task exactly once. It returns the first error any
// task reported, after letting already-running tasks finish (spec §5:
// "a failed task sets a sticky error flag; subsequent tasks may
// observe it and abort early").
func RunGraph(ctx context.Context, g *TaskGraph, numWorkers int, exec Execute) error {
	if numWorkers < 1 {
		numWorkers = 1
	}
	total := g.Rows * g.Cols
	if total == 0 {
		return nil
	}

	ready := make(chan *CTUTask, total)

	seed := func(t *CTUTask) {
		if t.markReadyIfUnblocked() {
			ready <- t
			return
		}
		if t.crossFrame != nil {
			go pollCrossFrame(ctx, t, ready)
		}
	}
	for _, t := range g.Roots() {
		seed(t)
	}

	eg, ctx := errgroup.WithContext(ctx)
	completed := make(chan struct{}, total)
	failed := make(chan error, 1)

	for i := 0; i < numWorkers; i++ {
		eg.Go(func() error {
			for {
				select {
				case t, ok := <-ready:
					if !ok {
						return nil
					}
					if err := runOne(ctx, t, exec); err != nil {
						select {
						case failed <- errors.Wrapf(err, "CTU (%d,%d)", t.Row, t.Col):
						default:
						}
						return err
					}
					unblocked := t.complete()
					for _, u := range unblocked {
						if u.State() == TaskReady {
							ready <- u
							continue
						}
						// Still CREATED: its cross-frame gate isn't open yet.
						go pollCrossFrame(ctx, u, ready)
					}
					completed <- struct{}{}
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		})
	}

	finished := 0
	for finished < total && ctx.Err() == nil {
		select {
		case <-completed:
			finished++
		case <-ctx.Done():
		}
	}
	if finished == total {
		close(ready)
	}
	_ = eg.Wait()

	select {
	case err := <-failed:
		return err
	default:
		return nil
	}
}

func runOne(ctx context.Context, t *CTUTask, exec Execute) error {
	atomicStoreRunning(t)
	return exec(ctx, t)
}

func atomicStoreRunning(t *CTUTask) {
	atomic.StoreInt32(&t.state, int32(TaskRunning))
}

// pollCrossFrame retries a task blocked only on its cross-frame gate
// until it clears or ctx is done.
func pollCrossFrame(ctx context.Context, t *CTUTask, ready chan<- *CTUTask) {
	ticker := time.NewTicker(crossFramePollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if t.markReadyIfUnblocked() {
				ready <- t
				return
			}
		}
	}
}
