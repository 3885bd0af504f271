/*
DESCRIPTION
  intramodes.go implements the two-pass intra mode search described in
  spec §4.8: a cheap SAD-based "rough" pass over all 35 modes to sort
  candidates, followed by a full RDO pass over the top-K plus the three
  most-probable-modes.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package search

import "sort"

// NumIntraModes is the number of HEVC intra prediction modes (planar,
// DC, and 33 angular).
const NumIntraModes = 35

// RoughScorer returns an approximate (e.g. SAD) score for trying mode
// m at the current block; lower is better.
type RoughScorer func(mode int) int

// RDOScorer returns the true RD cost of mode m; lower is better.
type RDOScorer func(mode int) float64

// MostProbableModes derives the 3 HEVC most-probable-modes from the
// left and above neighbours' intra modes, per the standard derivation:
// if both neighbours share a mode, diversify around it; otherwise use
// the two neighbour modes plus the first of Planar, DC and vertical
// (26) that neither of them uses.
func MostProbableModes(left, above int) [3]int {
	const (
		modePlanar = 0
		modeDC     = 1
	)
	if left == above {
		if left < 2 {
			return [3]int{modePlanar, modeDC, 26} // 26 = vertical.
		}
		return [3]int{left, 2 + (left+29)%32, 2 + (left-2+1)%32}
	}
	mpm := [3]int{left, above, modePlanar}
	if left != modePlanar && above != modePlanar {
		mpm[2] = modePlanar
	} else if left != modeDC && above != modeDC {
		mpm[2] = modeDC
	} else {
		mpm[2] = 26
	}
	return mpm
}

// SelectIntraMode runs the rough-then-RDO two-pass search and returns
// the winning mode and its RD cost. blockSize determines K (spec
// §4.8: "K=8 for <=8x8, K=3 otherwise").
func SelectIntraMode(blockSize int, rough RoughScorer, rdo RDOScorer, mpm [3]int) (int, float64) {
	type scored struct {
		mode  int
		score int
	}
	all := make([]scored, NumIntraModes)
	for m := 0; m < NumIntraModes; m++ {
		all[m] = scored{mode: m, score: rough(m)}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].score < all[j].score })

	k := 3
	if blockSize <= 8 {
		k = 8
	}
	if k > NumIntraModes {
		k = NumIntraModes
	}

	candidates := make(map[int]bool, k+3)
	for i := 0; i < k; i++ {
		candidates[all[i].mode] = true
	}
	for _, m := range mpm {
		candidates[m] = true
	}

	bestMode := -1
	bestCost := 0.0
	for m := range candidates {
		c := rdo(m)
		if bestMode == -1 || c < bestCost {
			bestMode, bestCost = m, c
		}
	}
	return bestMode, bestCost
}
