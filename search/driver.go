/*
DESCRIPTION
  driver.go implements the recursive CU search decision described in
  spec §4.8: per quad-tree node, evaluate inter and intra, pick the
  cheaper, try a split, and commit the winner into the work tree.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package search

import "github.com/ausocean/hevc/cu"

// Hooks are the pluggable, block-size-aware evaluators the driver
// calls at each quad-tree node; the pipeline package's Reconstructor
// implements them on top of intra, inter and transform, keeping this
// package's recursion free of pixel-level detail.
type Hooks struct {
	// IsInterSlice reports whether the current slice permits inter
	// coding at all (false for I slices).
	IsInterSlice bool

	// EvaluateIntra returns the best intra CU decision and its RD cost
	// for the size x size block at (x,y), or ok=false if intra is not
	// tried at this depth.
	EvaluateIntra func(x, y, size int) (rec cu.CU, cost float64, ok bool)

	// EvaluateInter returns the best inter CU decision (possibly
	// promoted to SKIP if all-zero CBF) and its RD cost, or ok=false if
	// inter is not tried at this depth.
	EvaluateInter func(x, y, size int) (rec cu.CU, cost float64, ok bool)
}

// Depth bounds, matching spec §4.8's MIN/MAX_INTER_DEPTH and
// MIN/MAX_INTRA_DEPTH; these are driver defaults and may be overridden
// per-Driver.
const (
	DefaultMinInterDepth = 0
	DefaultMaxInterDepth = MaxDepth
	DefaultMinIntraDepth = 0
	DefaultMaxIntraDepth = MaxDepth
)

// Driver holds the search configuration shared across one CTU's
// recursive decision.
type Driver struct {
	Lambda        float64
	FrameW, FrameH int
	MinInterDepth, MaxInterDepth int
	MinIntraDepth, MaxIntraDepth int
	Hooks         Hooks
	Tree          *WorkTree
}

// splitFlagCost is the fixed per-split-flag bit estimate spec §4.8
// step 3 uses for the split-vs-non-split comparison.
const splitFlagCost = 4.5

// Decide runs the recursive quad-tree search rooted at (x,y,depth) and
// returns the winning total RD cost. The committed decision is left in
// d.Tree at the depths the winning path touched.
func (d *Driver) Decide(x, y, depth int) float64 {
	size := (64 >> uint(depth))

	// Step 1: out-of-frame CUs contribute zero cost and recurse only on
	// in-frame children.
	if x >= d.FrameW || y >= d.FrameH {
		return 0
	}
	if x+size > d.FrameW || y+size > d.FrameH {
		if depth >= MaxDepth {
			return 0
		}
		return d.splitChildren(x, y, size, depth)
	}

	// Step 2: evaluate inter and intra, pick the cheaper in-frame leaf
	// decision for this node.
	bestRec, bestCost, ok := d.bestLeaf(x, y, size, depth)
	leafCost := bestCost
	if ok {
		d.Tree.At(depth).Set(x, y, size, size, bestRec)
	} else {
		leafCost = 1e18 // no valid leaf decision; force a split if possible.
	}

	// Step 3: conditionally try the split. SKIP leaves never split
	// (spec §4.8 step 3: "skip blocks almost never split profitably").
	if depth < MaxDepth && !(ok && bestRec.Skipped) {
		splitCost := splitFlagCost*d.Lambda + d.splitChildren(x, y, size, depth)
		if splitCost < leafCost {
			d.Tree.CopyUp(x, y, size, depth)
			return splitCost
		}
	}

	if !ok {
		// No leaf decision and split wasn't attempted/didn't help: this
		// should not happen for any in-frame CU at a depth with at
		// least one evaluator enabled, but guard against an
		// all-disabled configuration by returning the split cost anyway.
		if depth < MaxDepth {
			return d.splitChildren(x, y, size, depth)
		}
		return 0
	}

	// Non-split: propagate this decision down to finer depths so any
	// later query at a child coordinate during sibling searches sees
	// the committed parent value.
	d.Tree.CopyDown(x, y, size, depth)
	return leafCost
}

// bestLeaf evaluates inter (if permitted at this depth and slice) and
// intra (if permitted at this depth), returning whichever is cheaper.
func (d *Driver) bestLeaf(x, y, size, depth int) (cu.CU, float64, bool) {
	var best cu.CU
	bestCost := 0.0
	found := false

	if d.Hooks.IsInterSlice && depth >= d.MinInterDepth && depth <= d.MaxInterDepth && d.Hooks.EvaluateInter != nil {
		if rec, cost, ok := d.Hooks.EvaluateInter(x, y, size); ok {
			best, bestCost, found = rec, cost, true
		}
	}
	if depth >= d.MinIntraDepth && depth <= d.MaxIntraDepth && d.Hooks.EvaluateIntra != nil {
		if rec, cost, ok := d.Hooks.EvaluateIntra(x, y, size); ok && (!found || cost < bestCost) {
			best, bestCost, found = rec, cost, true
		}
	}
	return best, bestCost, found
}

// splitChildren recurses into the four depth+1 quadrants and sums
// their costs.
func (d *Driver) splitChildren(x, y, size, depth int) float64 {
	half := size / 2
	total := 0.0
	total += d.Decide(x, y, depth+1)
	total += d.Decide(x+half, y, depth+1)
	total += d.Decide(x, y+half, depth+1)
	total += d.Decide(x+half, y+half, depth+1)
	return total
}
