/*
DESCRIPTION
  interp.go implements fractional-pixel motion compensation: the
  quarter-pel luma block copy with boundary clamping, and the
  half-resolution chroma fetch, per spec §4.5.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package inter

import "github.com/ausocean/hevc/cu"

// eighthTapLuma is the HEVC luma interpolation filter's 8-tap
// coefficients for each quarter-pel phase (1..3); phase 0 is an
// identity copy.
var eighthTapLuma = [4][8]int32{
	0: {0, 0, 0, 64, 0, 0, 0, 0},
	1: {-1, 4, -10, 58, 17, -5, 1, 0},
	2: {-1, 4, -11, 40, 40, -11, 4, -1},
	3: {0, 1, -5, 17, 58, -10, 4, -1},
}

// PredictLuma fills dst (w*h, stride w) with the motion-compensated
// luma prediction for a block whose top-left corner in the *current*
// frame is (x0,y0), fetched from ref at an MV in quarter-pel units,
// clamping out-of-frame taps to the plane edge (spec §4.5).
func PredictLuma(dst []int32, w, h int, ref *cu.Plane, x0, y0 int, mv cu.MV) {
	fx := int(mv.X) & 3
	fy := int(mv.Y) & 3
	ix := x0 + int(mv.X)>>2
	iy := y0 + int(mv.Y)>>2

	if fx == 0 && fy == 0 {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				dst[y*w+x] = int32(ref.At(ix+x, iy+y))
			}
		}
		return
	}

	horiz := eighthTapLuma[fx]
	vert := eighthTapLuma[fy]

	// Horizontal pass into an intermediate buffer extended by 7 taps
	// vertically so the vertical pass has the rows it needs.
	tmpH := h + 7
	tmp := make([]int32, w*tmpH)
	for y := 0; y < tmpH; y++ {
		sy := iy + y - 3
		for x := 0; x < w; x++ {
			var acc int32
			for t := 0; t < 8; t++ {
				acc += horiz[t] * int32(ref.At(ix+x+t-3, sy))
			}
			tmp[y*w+x] = acc
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc int32
			for t := 0; t < 8; t++ {
				acc += vert[t] * tmp[(y+t)*w+x]
			}
			dst[y*w+x] = acc >> 12
		}
	}
}

// PredictChroma fills dst (w*h chroma samples) using MV halved to
// chroma resolution and an eighth-pel 4-tap bilinear-style filter
// (simplified relative to luma per spec §4.5's "chroma fetched at
// half-resolution coordinates").
func PredictChroma(dst []int32, w, h int, ref *cu.Plane, x0, y0 int, mv cu.MV) {
	// Chroma MV is luma MV halved; chroma sample grid is already at
	// half resolution, so the quarter-pel luma offset becomes an
	// eighth-pel chroma offset, which this model rounds to the
	// nearest 1/8 and uses bilinear interpolation for.
	cmvx := int(mv.X)
	cmvy := int(mv.Y)
	ix := x0 + cmvx>>3
	iy := y0 + cmvy>>3
	fx := cmvx & 7
	fy := cmvy & 7

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := int32(ref.At(ix+x, iy+y))
			b := int32(ref.At(ix+x+1, iy+y))
			c := int32(ref.At(ix+x, iy+y+1))
			d := int32(ref.At(ix+x+1, iy+y+1))
			top := a*int32(8-fx) + b*int32(fx)
			bot := c*int32(8-fx) + d*int32(fx)
			dst[y*w+x] = (top*int32(8-fy) + bot*int32(fy) + 32) >> 6
		}
	}
}
