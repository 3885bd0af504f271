/*
DESCRIPTION
  quant.go implements dead-zone scalar quantization of transform
  coefficients and its inverse, plus scaling-list (CQM) support (spec
  §4.6 and its scaling-list supplement).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package transform

import "io"

// QuantResult is the output of Quantize: the quantized level block
// plus whether any level is non-zero (the CBF flag, spec §4.6).
type QuantResult struct {
	Levels []int32
	NonZero bool
}

// Quantize applies dead-zone scalar quantization to an n x n
// coefficient block using the QP-derived scale factor, optionally
// scaled per-position by a ScalingList matrix.
func Quantize(coef []int32, n, qp, bitDepth int, sl *ScalingList) QuantResult {
	per := qp / 6
	rem := qp % 6
	shift := per + log2(n) + bitDepth - 9 + 4 // +4: dead-zone offset precision.
	if shift < 0 {
		shift = 0
	}
	offset := int64(1) << uint(shift) / 3 // one-third dead zone, matching
	// the encoder-side rounding bias common to HEVC quantizers.

	levels := make([]int32, len(coef))
	nz := false
	for i, c := range coef {
		w := int64(16)
		if sl != nil {
			w = int64(sl.weightAt(n, i))
		}
		scale := quantScale[rem] * w
		sign := int64(1)
		v := int64(c)
		if v < 0 {
			sign = -1
			v = -v
		}
		level := (v*scale + offset) >> uint(shift)
		levels[i] = int32(sign * level)
		if level != 0 {
			nz = true
		}
	}
	return QuantResult{Levels: levels, NonZero: nz}
}

// Dequantize reconstructs a coefficient block from quantized levels,
// the inverse of Quantize's scale (not its rounding, which is lossy by
// design).
func Dequantize(levels []int32, n, qp, bitDepth int, sl *ScalingList) []int32 {
	per := qp / 6
	rem := qp % 6
	shift := 4 - log2(n) - bitDepth + 9 - per
	coef := make([]int32, len(levels))
	for i, lvl := range levels {
		w := int64(16)
		if sl != nil {
			w = int64(sl.weightAt(n, i))
		}
		scale := dequantScale[rem] * w
		v := int64(lvl) * scale
		if shift >= 0 {
			v = (v + (1 << uint(shift-1))) >> uint(shift)
		} else {
			v <<= uint(-shift)
		}
		coef[i] = clip16(v)
	}
	return coef
}

// ScalingList holds the 3 plane x {4,8,16,32} custom quantization
// matrix set loaded from a CQM file (spec §4.6 supplement: "a
// scaling-list matrix" / CLI `--cqmfile`).
type ScalingList struct {
	// weights[planeIdx][sizeIdx] is a flattened n x n (or subsampled
	// 8x8 representative for 16/32, per HEVC's matrix-reuse rule) set
	// of integer weights in [1,255].
	weights [3][4][]int32
}

// sizeIdx maps a block size to its ScalingList weight-table index.
func sizeIdx(n int) int {
	switch n {
	case 4:
		return 0
	case 8:
		return 1
	case 16:
		return 2
	default:
		return 3
	}
}

// weightAt returns the scaling weight for coefficient index i (in
// scan order) of an n x n block, plane 0 (luma); chroma planes are
// addressed via weightForPlane.
func (sl *ScalingList) weightAt(n, i int) int32 {
	return sl.weightForPlane(0, n, i)
}

func (sl *ScalingList) weightForPlane(plane, n, i int) int32 {
	tbl := sl.weights[plane][sizeIdx(n)]
	if len(tbl) == 0 {
		return 16
	}
	// 16x16 and 32x32 matrices reuse the 8x8 representative grid,
	// matching the HEVC scaling-list up-sampling rule.
	if n > 8 {
		sub := 8
		x, y := i%n, i/n
		idx := (y*sub/n)*sub + (x * sub / n)
		if idx < len(tbl) {
			return tbl[idx]
		}
		return 16
	}
	if i < len(tbl) {
		return tbl[i]
	}
	return 16
}

// LoadScalingList parses a CQM file: one line per (plane, size)
// matrix, space-separated integers in scan order, in the fixed order
// luma4 luma8 luma16 luma32 chromaU4 ... chromaU32 chromaV4 ...
// chromaV32 (12 lines total). Unparseable or short input yields the
// flat (all-16) default for the remaining entries.
func LoadScalingList(r io.Reader) (*ScalingList, error) {
	sl := &ScalingList{}
	dec := newLineScanner(r)
	for plane := 0; plane < 3; plane++ {
		for _, n := range []int{4, 8, 16, 32} {
			line, ok := dec.next()
			if !ok {
				return sl, nil
			}
			count := n * n
			if n > 8 {
				count = 64
			}
			vals := parseInts(line, count)
			sl.weights[plane][sizeIdx(n)] = vals
		}
	}
	return sl, nil
}
