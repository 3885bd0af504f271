/*
DESCRIPTION
  candidates.go builds the MV predictor and merge candidate lists from
  spatial neighbour CUs, per spec §4.5.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package inter

import "github.com/ausocean/hevc/cu"

// Neighbour identifies one of the five spatial MV-prediction
// neighbours by HEVC convention.
type Neighbour struct {
	Present bool
	C       cu.CU
}

// Spatial bundles the five spatial neighbours used for both the MV
// predictor list and the merge candidate list: A0/A1 are below-left,
// B0/B1/B2 run above-right through above-left.
type Spatial struct {
	A0, A1     Neighbour
	B0, B1, B2 Neighbour
}

// leftSet and topSet are evaluated in this priority order when
// building the MV predictor list (spec §4.5).
func (s Spatial) leftSet() []Neighbour  { return []Neighbour{s.A0, s.A1} }
func (s Spatial) topSet() []Neighbour   { return []Neighbour{s.B0, s.B1, s.B2} }

// firstInterCoded returns the MV of the first present, inter-coded
// neighbour in ns using list l (0 or 1), or (zero MV, false).
func firstInterCoded(ns []Neighbour, l int) (cu.MV, bool) {
	for _, n := range ns {
		if !n.Present || !n.C.IsInter() {
			continue
		}
		if l == 0 && n.C.L0.RefIdx >= 0 {
			return n.C.L0.MV, true
		}
		if l == 1 && n.C.L1.RefIdx >= 0 {
			return n.C.L1.MV, true
		}
	}
	return cu.MV{}, false
}

// PredictorList builds the (up to 2) MV predictor candidates for
// prediction list l, deduplicating and padding with zero vectors per
// spec §4.5.
func PredictorList(s Spatial, l int) [2]cu.MV {
	var out [2]cu.MV
	n := 0
	if mv, ok := firstInterCoded(s.leftSet(), l); ok {
		out[n] = mv
		n++
	}
	if mv, ok := firstInterCoded(s.topSet(), l); ok {
		if n == 0 || out[0] != mv {
			out[n] = mv
			n++
		}
	}
	for n < 2 {
		out[n] = cu.MV{}
		n++
	}
	return out
}

// MergeCandidate is one entry of the merge candidate list: a MV per
// list plus the reference index used on each list (-1 if unused).
type MergeCandidate struct {
	L0, L1 cu.InterInfo
}

// MergeList builds up to 5 merge candidates from the spatial
// neighbours, in HEVC's A1,B1,B0,A0,B2 priority order, skipping
// duplicates and padding with zero-MV candidates against reference
// index 0.
func MergeList(s Spatial) []MergeCandidate {
	order := []Neighbour{s.A1, s.B1, s.B0, s.A0, s.B2}
	var out []MergeCandidate
	for _, n := range order {
		if len(out) >= 5 {
			break
		}
		if !n.Present || !n.C.IsInter() {
			continue
		}
		cand := MergeCandidate{L0: n.C.L0, L1: n.C.L1}
		dup := false
		for _, existing := range out {
			if existing == cand {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, cand)
		}
	}
	for len(out) < 5 {
		out = append(out, MergeCandidate{
			L0: cu.InterInfo{RefIdx: 0, MergeIdx: -1},
			L1: cu.InterInfo{RefIdx: -1, MergeIdx: -1},
		})
	}
	return out
}
