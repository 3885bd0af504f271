/*
DESCRIPTION
  sequencer.go implements the single dedicated output coordinator that
  re-sequences finished pictures into POC order regardless of
  completion order (spec §5: "Ordering guarantees: bitstream output is
  in POC order ... by sequencing the 'write finalized frame' stage on
  a single dedicated coordinator").

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pipeline

import "sync"

// outputSequencer buffers completed Outputs and releases them in
// strictly increasing POC order. A single goroutine (the orchestrator
// caller) is expected to call Push after each EncodePicture and write
// out the run of Outputs that Push returns.
type outputSequencer struct {
	mu      sync.Mutex
	nextPOC int
	pending map[int]Output
}

func newOutputSequencer() *outputSequencer {
	return &outputSequencer{pending: make(map[int]Output)}
}

// Push admits a newly finished picture's Output and returns the
// longest contiguous run starting at the sequencer's expected next
// POC, in order.
func (q *outputSequencer) Push(out Output) []Output {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending[out.POC] = out

	var ready []Output
	for {
		next, ok := q.pending[q.nextPOC]
		if !ok {
			break
		}
		ready = append(ready, next)
		delete(q.pending, q.nextPOC)
		q.nextPOC++
	}
	return ready
}

// Pending reports how many pictures are buffered awaiting their
// predecessor, used only by shutdown-time diagnostics.
func (q *outputSequencer) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
