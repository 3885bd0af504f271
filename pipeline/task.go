/*
DESCRIPTION
  task.go implements the per-CTU task graph described in spec §4.12:
  wavefront dependencies within a picture, optional independent tile
  sub-grids, and a cross-frame dependency on a reference picture's
  reconstruction-plus-loop-filter completion. Tasks move
  CREATED -> READY -> RUNNING -> DONE as dependency counters drop to
  zero.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package pipeline implements the overlapping-frames orchestrator: a
// ring of in-flight encoder states, a per-picture CTU task graph with
// wavefront/tile parallelism, reference-picture lifetime management
// and POC-ordered output (spec §4.12).
package pipeline

import "sync/atomic"

// TaskState is a task's position in the CREATED -> READY -> RUNNING ->
// DONE state machine.
type TaskState int32

const (
	TaskCreated TaskState = iota
	TaskReady
	TaskRunning
	TaskDone
)

// CTUTask is one CTU's unit of work within a picture's task graph.
type CTUTask struct {
	Row, Col int

	state   int32 // TaskState, accessed atomically.
	waiting int32 // outstanding dependency count.

	// downstream lists the tasks this one unblocks on completion: the
	// wavefront right/below-left neighbours in the same picture.
	downstream []*CTUTask

	// crossFrame, if non-nil, is consulted before a task becomes
	// runnable, and polled again while it reports false: it reports whether the co-located CTU in the reference
	// picture has finished reconstruction and loop-filtering.
	crossFrame func() bool
}

// State returns the task's current state.
func (t *CTUTask) State() TaskState { return TaskState(atomic.LoadInt32(&t.state)) }

// markReadyIfUnblocked transitions CREATED -> READY once both the
// intra-picture dependency counter is zero and any cross-frame gate
// passes. Safe to call from any goroutine; only one caller observes
// the transition (guarded by the atomic CAS of state from CREATED to
// READY).
func (t *CTUTask) markReadyIfUnblocked() bool {
	if atomic.LoadInt32(&t.waiting) != 0 {
		return false
	}
	if t.crossFrame != nil && !t.crossFrame() {
		return false
	}
	return atomic.CompareAndSwapInt32(&t.state, int32(TaskCreated), int32(TaskReady))
}

// complete marks the task DONE and releases each downstream task's
// dependency count, returning every downstream task whose intra-picture
// dependencies just reached zero. A returned task has already been
// transitioned to READY unless it also carries a still-closed
// cross-frame gate (spec §4.12), in which case the caller is
// responsible for polling it — complete must not silently drop a task
// just because its gate isn't open yet.
func (t *CTUTask) complete() []*CTUTask {
	atomic.StoreInt32(&t.state, int32(TaskDone))
	var unblocked []*CTUTask
	for _, d := range t.downstream {
		if atomic.AddInt32(&d.waiting, -1) == 0 {
			d.markReadyIfUnblocked() // best effort; no-op if still gated.
			unblocked = append(unblocked, d)
		}
	}
	return unblocked
}

// TaskGraph is the full grid of CTUTasks for one picture.
type TaskGraph struct {
	Rows, Cols int
	tasks      [][]*CTUTask
	tileWidth  int // 0 disables tiling; otherwise tasks never depend across a tile boundary.
}

// NewTaskGraph builds the wavefront dependency graph for a rows x cols
// CTU grid (spec §4.12): CTU (r,c) depends on (r,c-1) and (r-1,c+1).
// tileWidthCTUs, if > 0, partitions the grid into independent tile
// columns of that width; CTU (r,c) then never depends on a CTU outside
// its own tile.
func NewTaskGraph(rows, cols, tileWidthCTUs int) *TaskGraph {
	g := &TaskGraph{Rows: rows, Cols: cols, tileWidth: tileWidthCTUs}
	g.tasks = make([][]*CTUTask, rows)
	for r := range g.tasks {
		g.tasks[r] = make([]*CTUTask, cols)
		for c := range g.tasks[r] {
			g.tasks[r][c] = &CTUTask{Row: r, Col: c}
		}
	}
	sameTile := func(c1, c2 int) bool {
		if g.tileWidth <= 0 {
			return true
		}
		return c1/g.tileWidth == c2/g.tileWidth
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			t := g.tasks[r][c]
			if c > 0 && sameTile(c, c-1) {
				t.waiting++
				g.tasks[r][c-1].downstream = append(g.tasks[r][c-1].downstream, t)
			}
			if r > 0 && c+1 < cols && sameTile(c, c+1) {
				t.waiting++
				g.tasks[r-1][c+1].downstream = append(g.tasks[r-1][c+1].downstream, t)
			}
		}
	}
	return g
}

// At returns the task for CTU (r,c).
func (g *TaskGraph) At(r, c int) *CTUTask { return g.tasks[r][c] }

// SetCrossFrameGate attaches a cross-frame readiness gate to every
// task: CTU (r,c) additionally waits on ref() before becoming READY
// (spec §4.12: "may depend on CTU (r,c) of P's reference having
// completed reconstruction AND loop-filtering").
func (g *TaskGraph) SetCrossFrameGate(ref func(r, c int) bool) {
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			rr, cc := r, c
			g.tasks[r][c].crossFrame = func() bool { return ref(rr, cc) }
		}
	}
}

// Roots returns every task with no intra-picture predecessor (the
// top-row CTU of each tile's first column, or every CTU when tiles are
// one CTU wide), the initial seed set handed to the worker pool.
func (g *TaskGraph) Roots() []*CTUTask {
	var roots []*CTUTask
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			t := g.tasks[r][c]
			if atomic.LoadInt32(&t.waiting) == 0 {
				roots = append(roots, t)
			}
		}
	}
	return roots
}
