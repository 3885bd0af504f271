/*
DESCRIPTION
  cost.go implements the RD cost evaluator (spec §4.7): SSD plus a
  lambda-weighted bitcost estimate, at one of three selectable
  precision tiers.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package rdcost computes the rate-distortion cost used throughout
// the CU search driver (package search) to compare coding decisions.
package rdcost

import (
	"math"

	"github.com/ausocean/hevc/cabac"
)

// Level selects the RD cost evaluator's precision tier (spec §4.7).
type Level uint8

const (
	// Level0 uses SSD alone, the coarsest and cheapest comparison.
	Level0 Level = iota
	// Level1 adds a coefficient-magnitude-based bitcost estimate.
	Level1
	// Level2 adds the bit count returned by a caller-supplied coding
	// callback; it does not derive per-bin costs from context state.
	Level2
)

// SSD returns the sum of squared differences between two same-length
// sample slices.
func SSD(a, b []int32) int64 {
	var sum int64
	for i := range a {
		d := int64(a[i]) - int64(b[i])
		sum += d * d
	}
	return sum
}

// Estimate computes SSD(recon, src) + lambda*bitcost at the given
// level. coef is only consulted at Level1 (coefficient magnitudes);
// coding is only consulted at Level2 (a callback returning a bit
// count).
func Estimate(level Level, recon, src []int32, lambda float64, coef []int32, coding func() int) float64 {
	ssd := float64(SSD(recon, src))
	switch level {
	case Level0:
		return ssd
	case Level1:
		return ssd + lambda*coefSumBits(coef)
	default:
		bits := 0
		if coding != nil {
			bits = coding()
		}
		return ssd + lambda*float64(bits)
	}
}

// coefSumBits implements Level1's `(coef_sum + coef_sum/2) * lambda`
// estimate (spec §4.7), where coef_sum = sum of |coef|.
func coefSumBits(coef []int32) float64 {
	var sum int64
	for _, c := range coef {
		if c < 0 {
			c = -c
		}
		sum += int64(c)
	}
	return float64(sum + sum/2)
}

// entropyBitsQ15 approximates, in units of 1/32768 bit, the cost of
// coding a bin as the LPS of a context whose packed state (ignoring
// the MPS bit) is the table index, converting cabac.RangeFractionLPS
// to a -log2 bit cost. Nothing in the module reads the table.
var entropyBitsQ15 [64]int32

func init() {
	for s := 0; s < 64; s++ {
		p := cabac.RangeFractionLPS(s) // LPS probability in [0,1), scaled.
		entropyBitsQ15[s] = bitsFromProb(p)
	}
}

// bitsFromProb converts an LPS probability (0,1) to a -log2(p) bit
// estimate in Q15 fixed point, using math.Log2 and clamping the result
// to [0,15] bits.
func bitsFromProb(p float64) int32 {
	if p <= 0 {
		return 15 << 15
	}
	bits := -math.Log2(p)
	if bits < 0 {
		bits = 0
	}
	if bits > 15 {
		bits = 15
	}
	return int32(bits * 32768)
}
