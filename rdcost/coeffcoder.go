/*
DESCRIPTION
  coeffcoder.go walks the HEVC coefficient syntax (coeff-group
  significance, last-position, sig-flag, gt1/gt2-flag, sign, remainder)
  to produce a whole-bit estimate for Level2 RD cost, without
  touching the real CABAC engine's range/offset state (spec §4.7).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package rdcost

// CoeffGroup is one 4x4 coefficient sub-block in scan order, used by
// CoeffCodingBits to estimate the true syntax bit cost of an n x n
// transform block.
type CoeffGroup struct {
	Levels []int32 // 16 entries, scan order within the group.
	Sig    bool    // whether this group has any non-zero coefficient.
}

// CoeffCodingBits walks groups (ordered last-to-first per HEVC's
// coefficient scan) and sums an estimated bit cost for the
// significance map, greater-than-1/2 flags, signs, and remainder
// Golomb-Rice suffixes, in whole integer bits (Level2's "true
// coefficient-coding bits").
func CoeffCodingBits(groups []CoeffGroup, lastX, lastY, n int) int {
	bits := 0
	bits += lastPositionBits(lastX, lastY, n)

	for _, g := range groups {
		if !g.Sig {
			bits++ // coded_sub_block_flag = 0.
			continue
		}
		bits++ // coded_sub_block_flag = 1.
		gt1Count := 0
		for _, lvl := range g.Levels {
			abs := lvl
			if abs < 0 {
				abs = -abs
			}
			if abs == 0 {
				bits++ // sig_coeff_flag = 0.
				continue
			}
			bits++ // sig_coeff_flag = 1.
			bits++ // sign bit.
			if abs >= 1 {
				bits++ // coeff_abs_level_greater1_flag.
			}
			if abs >= 2 && gt1Count < 8 {
				bits++ // coeff_abs_level_greater2_flag, limited per group.
				gt1Count++
			}
			if abs > 2 {
				bits += goRiceBits(int(abs) - 3)
			}
		}
	}
	return bits
}

// lastPositionBits estimates the bit cost of coding the last
// significant coefficient's (x,y) position via HEVC's truncated-rice
// prefix/suffix scheme.
func lastPositionBits(lastX, lastY, n int) int {
	return prefixSuffixBits(lastX) + prefixSuffixBits(lastY)
}

func prefixSuffixBits(v int) int {
	if v == 0 {
		return 1
	}
	prefix := 0
	for (1 << uint(prefix+1)) <= v+1 {
		prefix++
	}
	suffix := 0
	if prefix > 1 {
		suffix = prefix - 1
	}
	return prefix + 1 + suffix
}

// goRiceBits estimates the Golomb-Rice-coded remainder length for a
// value v (coeff_abs_level_remaining), order-0 for simplicity.
func goRiceBits(v int) int {
	if v < 0 {
		return 0
	}
	return v + 1
}
