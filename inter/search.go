/*
DESCRIPTION
  search.go implements the hexagon-pattern integer-pixel motion
  search, its bi-quadratic-ish MVD bitcost model, and the merge/skip
  cost shortcut, per spec §4.5.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package inter implements HEVC inter prediction: hexagon motion
// search, the MV predictor/merge candidate lists, and fractional-pixel
// interpolation.
package inter

import "github.com/ausocean/hevc/cu"

// SADFunc computes the sum of absolute differences between a w x h
// source block and a same-sized block of the reference plane with its
// top-left corner at (refX, refY) in integer pixels. The concrete
// implementation (possibly SIMD) lives outside the core (spec §1); the
// core only consumes this signature.
type SADFunc func(refX, refY, w, h int) int

// hexPoints is the large hexagon pattern: centre plus the 6 points at
// radius 2, in (dx, dy) integer-pixel offsets.
var hexPoints = [6][2]int{
	{-2, 0}, {-1, -2}, {1, -2}, {2, 0}, {1, 2}, {-1, 2},
}

// hexNewPoints[i] gives the 3 points that must be newly evaluated when
// the search recentres on hexPoints[i], i.e. the points of the
// recentred hexagon not shared with the previous one.
var hexNewPoints = [6][3][2]int{
	0: {{-2, 0}, {-1, -2}, {-1, 2}},
	1: {{-1, -2}, {1, -2}, {-2, 0}},
	2: {{1, -2}, {2, 0}, {-1, -2}},
	3: {{2, 0}, {1, 2}, {1, -2}},
	4: {{1, 2}, {-1, 2}, {2, 0}},
	5: {{-1, 2}, {-2, 0}, {1, 2}},
}

// smallDiamond is the 4-neighbour refinement pattern (spec §4.5 step 4).
var smallDiamond = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// Result is the outcome of a motion search for one PU.
type Result struct {
	MV   cu.MV // quarter-pel precision.
	Cost int
}

// Lambda, MVPred and MergeMVs parameterize a Search call.
type Params struct {
	Lambda    float64
	X, Y      int
	W, H      int
	Origin    [2]int // search-window origin, integer pixels.
	MVPred    [2]int // MV predictor, integer pixels.
	MergeMVs  [][2]int
	SAD       SADFunc
}

// bitcostMVD approximates HEVC's exp-Golomb MVD coding cost in bits
// for one MV component's difference from its predictor (spec §4.5).
func bitcostMVD(d int) int {
	if d < 0 {
		d = -d
	}
	if d == 0 {
		return 2 // sign+greater-than-zero indicator, collapsed when zero.
	}
	bits := 2
	if d > 1 {
		bits += 2
		v := d - 2
		// Exp-Golomb order-1 suffix length for v.
		length := 1
		for (v>>1)+1 >= (1 << uint(length)) {
			length++
		}
		bits += 2 * length
	}
	return bits
}

// cost returns SAD(candidate) + lambda*bitcost(MVD), substituting the
// merge-index cost when the candidate MV matches a merge candidate.
func cost(p *Params, cand [2]int) int {
	sad := p.SAD(p.Origin[0]+cand[0], p.Origin[1]+cand[1], p.W, p.H)
	for idx, m := range p.MergeMVs {
		if m == cand {
			return sad + int(p.Lambda*float64(mergeIdxBits(idx)))
		}
	}
	dx := cand[0] - p.MVPred[0]
	dy := cand[1] - p.MVPred[1]
	bits := bitcostMVD(dx) + bitcostMVD(dy)
	return sad + int(p.Lambda*float64(bits))
}

// mergeIdxBits approximates the truncated-unary cost of a merge index
// in a 5-candidate list.
func mergeIdxBits(idx int) int {
	if idx == 0 {
		return 1
	}
	return idx + 1
}

// Search runs the hexagon-pattern integer-pixel motion search
// described in spec §4.5 and returns the best MV found, in quarter-pel
// units. The caller is responsible for refining to fractional pel
// precision afterwards if desired; this search operates purely on
// integer-pixel SAD.
func Search(p *Params) Result {
	best := [2]int{0, 0}
	bestCost := cost(p, best)

	// Step 1: evaluate the 7 points of the large hexagon (centre + 6).
	for _, h := range hexPoints {
		c := cost(p, h)
		if c < bestCost {
			bestCost = c
			best = h
		}
	}

	// Step 2/3: while a non-centre point keeps winning, recentre on it
	// and evaluate only the 3 newly uncovered hexagon points (the
	// other 3 were already scored around the previous centre).
	cur := best
	idx := hexIndexOf(cur)
	for idx >= 0 {
		improved := false
		next := idx
		for _, np := range hexNewPoints[idx] {
			cand := [2]int{cur[0] + np[0], cur[1] + np[1]}
			c := cost(p, cand)
			if c < bestCost {
				bestCost = c
				best = cand
				improved = true
				next = hexIndexOf(np)
			}
		}
		if !improved {
			break
		}
		cur = best
		idx = next
	}

	// Step 4: once the centre wins (no further hexagon improvement),
	// run the small-diamond refinement. Each candidate's own cost must
	// be positive to win: a candidate costing exactly 0 never replaces
	// best, even though best itself may already be positive.
	for _, d := range smallDiamond {
		cand := [2]int{best[0] + d[0], best[1] + d[1]}
		c := cost(p, cand)
		if c > 0 && c < bestCost {
			bestCost = c
			best = cand
		}
	}

	// Step 5: scale to quarter-pel precision.
	return Result{MV: cu.MV{X: int16(best[0] * 4), Y: int16(best[1] * 4)}, Cost: bestCost}
}

func hexIndexOf(p [2]int) int {
	for i, h := range hexPoints {
		if h == p {
			return i
		}
	}
	return -1
}
