/*
DESCRIPTION
  predict.go implements the 35 HEVC intra prediction modes: planar, DC
  and 33 angular modes, with reference-sample gathering, boundary
  extrapolation for unavailable neighbours, and the 3-tap smoothing
  filter (spec §4.4).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package intra implements HEVC intra prediction: the 35 luma/chroma
// modes, reference sample gathering and the edge smoothing filter.
package intra

const (
	ModePlanar = 0
	ModeDC     = 1
	// ModeAngularFirst and ModeAngularLast bound the 33 angular modes.
	ModeAngularFirst = 2
	ModeAngularLast  = 34
	NumModes         = 35
)

// Chroma-only derived mode selectors (spec §4.4).
const (
	ChromaDM = iota
	ChromaPlanar
	ChromaAngular26
	ChromaAngular10
	ChromaDC
)

// Neighbours holds the gathered reference samples for a W-wide block:
// Top and Left each carry 2W+1 samples (index 0 of both is the
// top-left corner sample),
// BottomLeft and TopRight are folded into Left/Top respectively to
// match the single contiguous reference line HEVC prediction uses.
type Neighbours struct {
	W int
	// Top holds samples for x in [-1, 2W-1] relative to the block's
	// top-left corner, i.e. length 2W+1, Top[0] is the corner sample.
	Top []int32
	// Left holds samples for y in [-1, 2W-1], Left[0] is the same
	// corner sample as Top[0].
	Left []int32
}

// Avail reports which neighbouring blocks are available, in raster
// scan order relative to the current block: Left, Top, TopLeft,
// TopRight, BottomLeft.
type Avail struct {
	Left, Top, TopLeft, TopRight, BottomLeft bool
}

// Sampler fetches one reconstructed sample at absolute frame
// coordinates (x,y); the search driver (package search) binds this to
// the current LCU work-tree's reconstruction plane.
type Sampler func(x, y int) int32

// GatherNeighbours builds the 2W+1-long Top and Left reference lines
// for a W-wide block whose top-left corner is at (x0,y0), extrapolating
// from the nearest available sample when a neighbour is unavailable
// (spec §4.4).
func GatherNeighbours(x0, y0, w int, avail Avail, sample Sampler) *Neighbours {
	n := &Neighbours{W: w, Top: make([]int32, 2*w+1), Left: make([]int32, 2*w+1)}

	// Corner (Top[0] == Left[0]).
	var corner int32
	switch {
	case avail.TopLeft:
		corner = sample(x0-1, y0-1)
	case avail.Top:
		corner = sample(x0, y0-1)
	case avail.Left:
		corner = sample(x0-1, y0)
	default:
		corner = 128
	}
	n.Top[0] = corner
	n.Left[0] = corner

	// Top row: x in [0, w-1] (always-present neighbourhood) then
	// [w, 2w-1] (top-right extension).
	last := corner
	for i := 1; i <= w; i++ {
		if avail.Top {
			last = sample(x0+i-1, y0-1)
		}
		n.Top[i] = last
	}
	for i := w + 1; i <= 2*w; i++ {
		if avail.TopRight {
			last = sample(x0+i-1, y0-1)
		}
		n.Top[i] = last
	}

	// Left column, same extension pattern downward.
	last = corner
	for i := 1; i <= w; i++ {
		if avail.Left {
			last = sample(x0-1, y0+i-1)
		}
		n.Left[i] = last
	}
	for i := w + 1; i <= 2*w; i++ {
		if avail.BottomLeft {
			last = sample(x0-1, y0+i-1)
		}
		n.Left[i] = last
	}
	return n
}

// smoothEligible reports whether mode/width combination receives the
// 3-tap [1,2,1]/4 reference smoothing filter (spec §4.4).
func smoothEligible(mode, w int) bool {
	if w < 8 {
		return false
	}
	return (mode >= 2 && mode <= 17) || (mode >= 19 && mode <= 34)
}

// Smooth applies the 3-tap filter in place along Top and Left, leaving
// the corner sample's filtered value consistent between both arrays.
func (n *Neighbours) Smooth() {
	filt := func(a []int32) []int32 {
		out := make([]int32, len(a))
		out[0] = a[0]
		for i := 1; i < len(a)-1; i++ {
			out[i] = (a[i-1] + 2*a[i] + a[i+1] + 2) >> 2
		}
		out[len(a)-1] = a[len(a)-1]
		return out
	}
	top := filt(n.Top)
	left := filt(n.Left)
	corner := (n.Left[1] + 2*n.Top[0] + n.Top[1] + 2) >> 2
	top[0] = corner
	left[0] = corner
	n.Top, n.Left = top, left
}

// Predict fills dst (w*w samples, row-major, stride w) with the
// intra prediction for mode using the gathered neighbours n.
func Predict(dst []int32, w, mode int, n *Neighbours) {
	switch {
	case mode == ModePlanar:
		predictPlanar(dst, w, n)
	case mode == ModeDC:
		predictDC(dst, w, n)
	default:
		predictAngular(dst, w, mode, n)
	}
}

func predictPlanar(dst []int32, w int, n *Neighbours) {
	tr := n.Top[w+1]
	bl := n.Left[w+1]
	for y := 0; y < w; y++ {
		for x := 0; x < w; x++ {
			horiz := int32(w-1-x)*n.Left[y+1] + int32(x+1)*tr
			vert := int32(w-1-y)*n.Top[x+1] + int32(y+1)*bl
			dst[y*w+x] = (horiz + vert + int32(w)) >> uint(logW(w)+1)
		}
	}
}

func logW(w int) int {
	l := 0
	for (1 << uint(l)) < w {
		l++
	}
	return l
}

func predictDC(dst []int32, w int, n *Neighbours) {
	var sum int32
	for i := 1; i <= w; i++ {
		sum += n.Top[i] + n.Left[i]
	}
	dc := (sum + int32(w)) >> uint(logW(w)+1)

	for i := range dst {
		dst[i] = dc
	}
	if w > 16 {
		return
	}
	// Boundary filter for the first row/column (w<=16), per spec §4.4.
	dst[0] = (n.Left[1] + 2*dc + n.Top[1] + 2) >> 2
	for x := 1; x < w; x++ {
		dst[x] = (n.Top[x+1] + 3*dc + 2) >> 2
	}
	for y := 1; y < w; y++ {
		dst[y*w] = (n.Left[y+1] + 3*dc + 2) >> 2
	}
}

// intraPredAngle is the HEVC per-mode angle table, in 1/32-sample
// units, for modes 2..34 (table indices 0..32).
var intraPredAngle = [33]int32{
	32, 26, 21, 17, 13, 9, 5, 2, 0, -2, -5, -9, -13, -17, -21, -26,
	-32, -26, -21, -17, -13, -9, -5, -2, 0, 2, 5, 9, 13, 17, 21, 26, 32,
}

// invAngle is the inverse-angle table used by modes whose projection
// runs off the main reference axis (modes 11..25).
var invAngle = [23]int32{
	-4096, -1638, -910, -630, -482, -390, -315, -256, -315, -390, -482,
	-630, -910, -1638, -4096,
}

func predictAngular(dst []int32, w, mode int, n *Neighbours) {
	angle := intraPredAngle[mode-2]
	vertical := mode >= 18

	// refMain holds the extended reference line in the prediction
	// direction; index offset w lets negative projections be indexed
	// directly.
	ref := make([]int32, 3*w+1)
	off := w

	primary, secondary := n.Top, n.Left
	if !vertical {
		primary, secondary = n.Left, n.Top
	}
	for i := 0; i <= 2*w; i++ {
		ref[off+i] = primary[i]
	}
	if angle < 0 {
		invA := invAngle[modeToInvIdx(mode)]
		lastIdx := (int32(w) * angle) >> 5
		for i := int32(-1); i >= lastIdx; i-- {
			idx := off + int(i)
			proj := ((i*invA + 128) >> 8)
			ref[idx] = secondary[clampIdx(int(proj), 2*w)]
		}
	} else {
		for i := w + 1; i <= 2*w; i++ {
			ref[off+i] = primary[minInt(i, 2*w)]
		}
	}

	for y := 0; y < w; y++ {
		pos := int32(y+1) * angle
		idx := int(pos >> 5)
		frac := pos & 31
		for x := 0; x < w; x++ {
			a := ref[off+idx+x+1]
			b := ref[off+idx+x+2]
			v := ((32-frac)*a + frac*b + 16) >> 5
			if vertical {
				dst[y*w+x] = v
			} else {
				dst[x*w+y] = v
			}
		}
	}
}

func modeToInvIdx(mode int) int {
	if mode >= 11 && mode <= 25 {
		return mode - 11
	}
	return 0
}

func clampIdx(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// DeriveChromaMode resolves a chroma prediction mode selector (one of
// ChromaDM/ChromaPlanar/ChromaAngular26/ChromaAngular10/ChromaDC)
// against the co-sited luma mode, per spec §4.4.
func DeriveChromaMode(selector int, lumaMode uint8) int {
	switch selector {
	case ChromaDM:
		return int(lumaMode)
	case ChromaPlanar:
		if lumaMode == ModePlanar {
			return 34
		}
		return ModePlanar
	case ChromaAngular26:
		if lumaMode == 26 {
			return 34
		}
		return 26
	case ChromaAngular10:
		if lumaMode == 10 {
			return 34
		}
		return 10
	default:
		if lumaMode == ModeDC {
			return 34
		}
		return ModeDC
	}
}
