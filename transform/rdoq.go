/*
DESCRIPTION
  rdoq.go implements the optional rate-distortion-optimized
  quantization pass: a reverse scan over coefficient positions
  deciding, per position, whether to keep, decrement, or zero the
  quantized level, plus sign-data hiding for the first coefficient of
  each 4x4 sub-block (spec §4.6 and its sign-data-hiding supplement).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package transform

// RDOQParams parameterizes one RDOQ pass over a quantized block.
type RDOQParams struct {
	Lambda    float64
	QP        int
	BitDepth  int
	ScanOrder []int // coefficient indices in reverse-scan order.
}

// RDOQ revises levels in place: for each scan position (processed in
// the order given, expected last-to-first) it evaluates keeping,
// decrementing by one, and zeroing the level, picking whichever
// minimizes SSD + lambda*bitcost using coef as the original
// (unquantized) transform coefficients for the distortion term.
func RDOQ(levels []int32, coef []int32, p RDOQParams) {
	for _, i := range p.ScanOrder {
		lvl := levels[i]
		if lvl == 0 {
			continue
		}
		best := lvl
		bestCost := rdoqCost(lvl, coef[i], p)
		dec := lvl - sign(lvl)
		if c := rdoqCost(dec, coef[i], p); c < bestCost {
			best, bestCost = dec, c
		}
		if c := rdoqCost(0, coef[i], p); c < bestCost {
			best = 0
		}
		levels[i] = best
	}
}

func sign(v int32) int32 {
	if v < 0 {
		return -1
	}
	return 1
}

// rdoqCost estimates SSD + lambda*bitcost for quantizing orig to
// candidate level lvl, using a fixed per-nonzero-level bit estimate
// (2.5 bits: sign + greater-than-flags averaged) in place of a full
// context-adaptive estimate.
func rdoqCost(lvl int32, orig int32, p RDOQParams) float64 {
	recon := dequantSingle(lvl, p.QP, p.BitDepth)
	d := float64(orig) - float64(recon)
	ssd := d * d
	bits := 0.0
	if lvl != 0 {
		bits = 2.5
	}
	return ssd + p.Lambda*bits
}

func dequantSingle(lvl int32, qp, bitDepth int) int32 {
	per := qp / 6
	rem := qp % 6
	// A representative shift for an 8x8 block; RDOQ only compares
	// relative cost across candidates at the same position, so a
	// fixed reference size is sufficient.
	shift := 4 - 3 - bitDepth + 9 - per
	scale := dequantScale[rem] * 16
	v := int64(lvl) * scale
	if shift >= 0 {
		v = (v + (1 << uint(shift-1))) >> uint(shift)
	} else {
		v <<= uint(-shift)
	}
	return clip16(v)
}

// SignHide rewrites the sign of the first coefficient in a 4x4
// sub-block scan range when sign-data hiding is enabled: if the
// distance (in scan order) between the first and last non-zero
// coefficient is at least 4, the first coefficient's sign is inferred
// at the decoder from the parity of the sum of absolute levels, and is
// not explicitly coded, so the encoder must choose the level whose
// sign matches that inferred parity (adjusting by +-1 if needed to
// keep reconstruction correct while keeping the cheaper sign).
func SignHide(levels []int32, scan []int, firstIdx, lastIdx int) bool {
	if lastIdx-firstIdx < 4 {
		return false
	}
	sum := int32(0)
	for _, i := range scan {
		v := levels[i]
		if v < 0 {
			v = -v
		}
		sum += v
	}
	first := scan[firstIdx]
	wantNeg := sum%2 != 0
	isNeg := levels[first] < 0
	if wantNeg != isNeg {
		if levels[first] > 1 || levels[first] < -1 {
			levels[first] -= sign(levels[first])
		} else {
			levels[first] += sign(levels[first])
		}
	}
	return true
}
