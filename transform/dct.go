/*
DESCRIPTION
  dct.go implements the forward and inverse separable integer
  transform over a block (spec §4.6): a two-pass row/column matrix
  multiply using the fixed tables in tables.go, with the bit-exact
  integer rounding shifts the standard requires.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package transform

import "github.com/ausocean/hevc/internal/assert"

// log2 returns log2(n) for n a power of two in {4,8,16,32}.
func log2(n int) int {
	l := 0
	for 1<<uint(l) < n {
		l++
	}
	return l
}

// Forward applies the forward integer transform to an n x n block of
// residual samples (row-major, stride n), writing n x n coefficients
// to dst. useDST selects the DST-VII variant, valid only for n==4.
func Forward(dst, src []int32, n int, bitDepth int, useDST bool) {
	assert.Invariant(n == 4 || n == 8 || n == 16 || n == 32, "transform: bad block size")
	shift1 := log2(n) + bitDepth - 9
	shift2 := log2(n) + 6

	var mat [][]int32
	if useDST {
		assert.Invariant(n == 4, "transform: DST-VII only valid for 4x4")
		mat = make([][]int32, 4)
		for i := range mat {
			mat[i] = dstMatrix4[i][:]
		}
	} else {
		mat = dctMatrix(n)
	}

	tmp := make([]int32, n*n)
	// Row pass: tmp = mat * src (treating each column of src as a
	// vector), rounded and shifted by shift1.
	round1 := int32(1) << uint(shift1-1)
	for i := 0; i < n; i++ {
		for x := 0; x < n; x++ {
			var acc int64
			for j := 0; j < n; j++ {
				acc += int64(mat[i][j]) * int64(src[j*n+x])
			}
			tmp[i*n+x] = int32((acc + int64(round1)) >> uint(shift1))
		}
	}
	// Column pass: dst = mat * tmp^T, rounded and shifted by shift2.
	round2 := int32(1) << uint(shift2-1)
	for i := 0; i < n; i++ {
		for x := 0; x < n; x++ {
			var acc int64
			for j := 0; j < n; j++ {
				acc += int64(mat[i][j]) * int64(tmp[x*n+j])
			}
			dst[x*n+i] = int32((acc + int64(round2)) >> uint(shift2))
		}
	}
}

// Inverse applies the inverse integer transform, the exact reverse of
// Forward, reconstructing a residual block from coefficients.
func Inverse(dst, src []int32, n int, bitDepth int, useDST bool) {
	assert.Invariant(n == 4 || n == 8 || n == 16 || n == 32, "transform: bad block size")
	shift1 := 7
	shift2 := 12 - (bitDepth - 8)

	var mat [][]int32
	if useDST {
		assert.Invariant(n == 4, "transform: DST-VII only valid for 4x4")
		mat = make([][]int32, 4)
		for i := range mat {
			mat[i] = dstMatrix4[i][:]
		}
	} else {
		mat = dctMatrix(n)
	}

	tmp := make([]int32, n*n)
	round1 := int32(1) << uint(shift1-1)
	for x := 0; x < n; x++ {
		for i := 0; i < n; i++ {
			var acc int64
			for j := 0; j < n; j++ {
				acc += int64(mat[j][i]) * int64(src[j*n+x])
			}
			tmp[i*n+x] = clip16((acc + int64(round1)) >> uint(shift1))
		}
	}
	round2 := int32(1) << uint(shift2-1)
	for x := 0; x < n; x++ {
		for i := 0; i < n; i++ {
			var acc int64
			for j := 0; j < n; j++ {
				acc += int64(mat[j][i]) * int64(tmp[x*n+j])
			}
			dst[x*n+i] = clip16((acc + int64(round2)) >> uint(shift2))
		}
	}
}

func clip16(v int64) int32 {
	const lo, hi = -32768, 32767
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return int32(v)
}
