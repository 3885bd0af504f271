/*
DESCRIPTION
  deblock.go implements HEVC in-loop deblocking: boundary-strength
  derivation from neighbour CU types and motion vectors, and the
  edge filter itself with its beta/tc offsets derived from QP (spec
  §4.10).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package loopfilter implements the in-loop deblocking filter and
// sample adaptive offset (SAO), applied to the reconstructed picture
// after transform/quant reconstruction (spec §4.10).
package loopfilter

import "github.com/ausocean/hevc/cu"

// BoundaryStrength is the per-4-sample-edge deblocking strength, 0..2.
type BoundaryStrength uint8

// betaTable and tcTable are the standard QP-indexed deblocking
// parameter tables (clipped QP in [0,53]).
var betaTable = [54]int32{
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 20, 22, 24,
	26, 28, 30, 32, 34, 36, 38, 40, 42, 44, 46, 48, 50, 52, 54, 56,
	58, 60, 62, 64, 66, 68,
}

var tcTable = [54]int32{
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 2, 2, 2, 2, 3,
	3, 3, 3, 4, 4, 4, 5, 5, 6, 6, 7, 8, 9, 10, 11, 13,
	14, 16, 18, 20, 22, 24,
}

// BoundaryStrengthForEdge derives the deblocking boundary strength for
// the 4-sample edge between CUs p and q (spec §4.10's "boundary
// strength derivation from neighbor CU types and MVs").
func BoundaryStrengthForEdge(p, q cu.CU) BoundaryStrength {
	if p.Type == cu.TypeIntra || q.Type == cu.TypeIntra {
		return 2
	}
	if p.CbfY || q.CbfY {
		return 1
	}
	if motionDiffers(p, q) {
		return 1
	}
	return 0
}

func motionDiffers(p, q cu.CU) bool {
	if p.L0.RefIdx != q.L0.RefIdx || p.L1.RefIdx != q.L1.RefIdx {
		return true
	}
	const thresh = 4 // quarter-pel units; a difference of one full pel.
	return mvAbsDiff(p.L0.MV, q.L0.MV) >= thresh || mvAbsDiff(p.L1.MV, q.L1.MV) >= thresh
}

func mvAbsDiff(a, b cu.MV) int {
	dx := int(a.X) - int(b.X)
	dy := int(a.Y) - int(b.Y)
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

// EdgeParams holds the per-edge beta/tc thresholds derived from QP and
// the PPS's slice-level offsets.
type EdgeParams struct {
	Beta, Tc int32
}

// DeriveEdgeParams computes beta and tc for qp (already averaged
// across the two CUs sharing the edge per the standard), with the
// PPS's beta_offset_div2 / tc_offset_div2 applied.
func DeriveEdgeParams(qp int, betaOffsetDiv2, tcOffsetDiv2 int32) EdgeParams {
	bIdx := clampIdx(qp+int(betaOffsetDiv2*2), 53)
	tIdx := clampIdx(qp+int(tcOffsetDiv2*2), 53)
	return EdgeParams{Beta: betaTable[bIdx], Tc: tcTable[tIdx]}
}

func clampIdx(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// FilterLumaEdge applies the luma deblocking filter across a vertical
// or horizontal 4-sample edge in place, choosing per line between the
// strong filter (up to 3 samples modified on each side) and the normal
// filter (up to 2 on each side). line is one row/column of 8
// samples: [p3 p2 p1 p0 q0 q1 q2 q3].
func FilterLumaEdge(line []int32, p EdgeParams, bs BoundaryStrength) {
	if bs == 0 {
		return
	}
	p3, p2, p1, p0 := line[0], line[1], line[2], line[3]
	q0, q1, q2, q3 := line[4], line[5], line[6], line[7]

	dp := abs32(p2 - 2*p1 + p0)
	dq := abs32(q2 - 2*q1 + q0)
	d := dp + dq
	if d >= p.Beta {
		return
	}

	strong := 2*d < p.Beta>>2 &&
		abs32(p3-p0)+abs32(q0-q3) < p.Beta>>3 &&
		abs32(p0-q0) < (5*p.Tc+1)>>1

	if strong {
		line[1] = clip(p2, (2*p3+3*p2+p1+p0+q0+4)>>3, p.Tc*2)     // p2'
		line[2] = clip(p1, (p2+p1+p0+q0+2)>>2, p.Tc*2)            // p1'
		line[3] = clip(p0, (p2+2*p1+2*p0+2*q0+q1+4)>>3, p.Tc*2)   // p0'
		line[4] = clip(q0, (p1+2*p0+2*q0+2*q1+q2+4)>>3, p.Tc*2)   // q0'
		line[5] = clip(q1, (p0+q0+q1+q2+2)>>2, p.Tc*2)            // q1'
		line[6] = clip(q2, (p0+q0+q1+3*q2+2*q3+4)>>3, p.Tc*2)     // q2'
		return
	}

	delta := (9*(q0-p0) - 3*(q1-p1) + 8) >> 4
	if abs32(delta) >= p.Tc*10 {
		return
	}
	delta = clipVal(delta, -p.Tc, p.Tc)
	line[3] = clip16v(p0 + delta)
	line[4] = clip16v(q0 - delta)

	if dp < (p.Beta+(p.Beta>>1))>>3 {
		dp1 := clipVal((((p2+p0+1)>>1)-p1+delta)>>1, -p.Tc/2, p.Tc/2)
		line[2] = clip16v(p1 + dp1)
	}
	if dq < (p.Beta+(p.Beta>>1))>>3 {
		dq1 := clipVal((((q2+q0+1)>>1)-q1-delta)>>1, -p.Tc/2, p.Tc/2)
		line[5] = clip16v(q1 + dq1)
	}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func clip(orig, filtered, tc int32) int32 {
	return clip16v(orig + clipVal(filtered-orig, -tc, tc))
}

func clipVal(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clip16v(v int32) int32 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
