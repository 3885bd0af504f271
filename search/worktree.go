/*
DESCRIPTION
  worktree.go implements the per-depth CU work-tree the search driver
  uses to try a split decision without committing it: one cu.Array per
  quad-tree depth, with copy-up (children -> parent, on split) and
  copy-down (parent -> children, on non-split) operations (spec §4.8
  step 4).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package search implements the recursive CU search driver: the
// per-CTU quad-tree decision between split, intra, and inter coding,
// driven by RD cost (spec §4.8).
package search

import "github.com/ausocean/hevc/cu"

// MaxDepth is the deepest quad-tree level below the 64x64 CTU root
// (depth 0 is 64x64, depth MaxDepth is 8x8).
const MaxDepth = 3

// WorkTree holds one cu.Array per quad-tree depth, all covering the
// same frame extent, so the driver can tentatively write a decision at
// depth d+1 and only propagate it to depth d if the split wins.
type WorkTree struct {
	levels [MaxDepth + 1]*cu.Array
}

// NewWorkTree allocates a WorkTree sized to cover a widthPx x heightPx
// frame at every depth.
func NewWorkTree(widthPx, heightPx int) *WorkTree {
	wt := &WorkTree{}
	for d := range wt.levels {
		wt.levels[d] = cu.NewArray(widthPx, heightPx)
	}
	return wt
}

// At returns the cu.Array for quad-tree depth d.
func (wt *WorkTree) At(d int) *cu.Array { return wt.levels[d] }

// CopyUp copies the four children's committed records at depth d+1,
// covering the widthPx x heightPx region at (x,y), up to depth d as a
// single uniform CU footprint is NOT what this does: instead it
// copies the 4 child quadrants verbatim so depth d's array reflects
// "this region was split" for any caller reading at depth d (spec §4.8
// step 4, split case).
func (wt *WorkTree) CopyUp(x, y, size, d int) {
	src := wt.levels[d+1]
	dst := wt.levels[d]
	for cy := y; cy < y+size; cy += cu.SCU {
		for cx := x; cx < x+size; cx += cu.SCU {
			dst.Set(cx, cy, cu.SCU, cu.SCU, src.At(cx, cy))
		}
	}
}

// CopyDown writes this depth's committed CU record for the
// size x size region at (x,y) down into every deeper level through
// MaxDepth, so a subsequent search at a finer depth sees the
// already-committed parent decision (spec §4.8 step 4, non-split
// case).
func (wt *WorkTree) CopyDown(x, y, size, d int) {
	rec := wt.levels[d].At(x, y)
	for dd := d + 1; dd <= MaxDepth; dd++ {
		wt.levels[dd].Set(x, y, size, size, rec)
	}
}
