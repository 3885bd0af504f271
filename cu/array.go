/*
DESCRIPTION
  array.go implements the CU array: a tiled grid at 4x4 granularity
  covering the frame, where every cell inside a committed CU's
  footprint holds an identical copy of that CU's record (spec §3).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package cu

import "github.com/ausocean/hevc/internal/assert"

// SCU is the smallest CU array granularity, in luma pixels.
const SCU = 4

// Array is a 4x4-granularity grid of CU records covering one frame.
// WidthCU and HeightCU are in SCU units.
type Array struct {
	WidthCU, HeightCU int
	cells             []CU
}

// NewArray returns an Array sized to cover a widthPx x heightPx frame,
// rounded up to whole SCU cells, every cell initialized to the zero CU.
func NewArray(widthPx, heightPx int) *Array {
	w := (widthPx + SCU - 1) / SCU
	h := (heightPx + SCU - 1) / SCU
	cells := make([]CU, w*h)
	z := Zero()
	for i := range cells {
		cells[i] = z
	}
	return &Array{WidthCU: w, HeightCU: h, cells: cells}
}

// idx converts pixel coordinates to a cell index.
func (a *Array) idx(xPx, yPx int) int {
	return (yPx/SCU)*a.WidthCU + (xPx / SCU)
}

// At returns the CU record covering pixel (xPx, yPx). Coordinates
// outside the frame return the zero CU.
func (a *Array) At(xPx, yPx int) CU {
	if xPx < 0 || yPx < 0 || xPx/SCU >= a.WidthCU || yPx/SCU >= a.HeightCU {
		return Zero()
	}
	return a.cells[a.idx(xPx, yPx)]
}

// Set fills every SCU cell in the widthPx x heightPx region anchored
// at (xPx, yPx) with rec, enforcing the CU array invariant (spec §3,
// §8): all cells within one CU's footprint are identical afterwards.
// Regions extending past the frame edge are clipped.
func (a *Array) Set(xPx, yPx, widthPx, heightPx int, rec CU) {
	x0 := xPx / SCU
	y0 := yPx / SCU
	x1 := (xPx + widthPx) / SCU
	y1 := (yPx + heightPx) / SCU
	if x1 > a.WidthCU {
		x1 = a.WidthCU
	}
	if y1 > a.HeightCU {
		y1 = a.HeightCU
	}
	for y := y0; y < y1; y++ {
		row := y * a.WidthCU
		for x := x0; x < x1; x++ {
			a.cells[row+x] = rec
		}
	}
}

// VerifyUniform asserts (debug builds) that every cell within the
// region anchored at (xPx, yPx) of size widthPx x heightPx equals
// want, per the committed-CU invariant in spec §8.
func (a *Array) VerifyUniform(xPx, yPx, widthPx, heightPx int, want CU) {
	x0 := xPx / SCU
	y0 := yPx / SCU
	x1 := (xPx + widthPx) / SCU
	y1 := (yPx + heightPx) / SCU
	if x1 > a.WidthCU {
		x1 = a.WidthCU
	}
	if y1 > a.HeightCU {
		y1 = a.HeightCU
	}
	for y := y0; y < y1; y++ {
		row := y * a.WidthCU
		for x := x0; x < x1; x++ {
			c := a.cells[row+x]
			assert.Invariant(c == want, "CU array cell diverges from committed record")
		}
	}
}
