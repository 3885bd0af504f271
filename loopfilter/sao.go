/*
DESCRIPTION
  sao.go implements sample adaptive offset: per-CTU per-colour search
  between NONE, BAND and EDGE types, minimizing SSD plus a signalling
  bit penalty, with merge-left/merge-up sharing (spec §4.10).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package loopfilter

// Type is the SAO type selected for one CTU/colour-component.
type Type uint8

const (
	TypeNone Type = iota
	TypeBand
	TypeEdge
)

// EdgeClass selects one of HEVC's 4 edge directions for SAO EDGE type.
type EdgeClass uint8

const (
	EdgeHorizontal EdgeClass = iota
	EdgeVertical
	EdgeDiag135
	EdgeDiag45
)

// Params is one CTU/colour-component's chosen SAO parameters.
type Params struct {
	Type     Type
	Offsets  [4]int32
	BandPos  int32 // BAND type only: starting band index (0..31).
	EdgeDir  EdgeClass
	MergeLeft, MergeUp bool
}

// edgeCategory classifies a sample against its two neighbours along
// dir into one of HEVC's 5 SAO edge categories (0 = no adjustment).
func edgeCategory(center, a, b int32) int {
	switch {
	case center < a && center < b:
		return 1
	case center < a && center == b, center < b && center == a:
		return 2
	case center > a && center == b, center > b && center == a:
		return 3
	case center > a && center > b:
		return 4
	default:
		return 0
	}
}

// SearchEdge evaluates the 4 edge directions for an n-sample plane
// region, choosing the direction and per-category offsets minimizing
// SSD, and returns the resulting Params plus its SSD improvement.
//
// at(x,y) samples the reconstructed plane; src(x,y) samples the
// source plane used as the distortion reference. w,h bound the CTU's
// extent (edge samples outside are skipped, matching HEVC's "SAO does
// not cross CTU/slice/tile boundaries unless loop_filter_across
// enables it").
func SearchEdge(w, h int, at, src func(x, y int) int32) (Params, int64) {
	bestParams := Params{Type: TypeNone}
	bestGain := int64(0)

	dirs := []struct {
		dir    EdgeClass
		dx, dy int
	}{
		{EdgeHorizontal, 1, 0},
		{EdgeVertical, 0, 1},
		{EdgeDiag135, 1, 1},
		{EdgeDiag45, 1, -1},
	}

	for _, d := range dirs {
		var sum [5]int64
		var count [5]int64
		for y := 1; y < h-1; y++ {
			for x := 1; x < w-1; x++ {
				c := at(x, y)
				a := at(x-d.dx, y-d.dy)
				b := at(x+d.dx, y+d.dy)
				cat := edgeCategory(c, a, b)
				if cat == 0 {
					continue
				}
				sum[cat] += int64(src(x, y)) - int64(c)
				count[cat]++
			}
		}
		var offsets [4]int32
		var gain int64
		for cat := 1; cat <= 4; cat++ {
			if count[cat] == 0 {
				continue
			}
			off := sum[cat] / count[cat]
			offsets[cat-1] = int32(off)
			// SSD improvement from applying a constant offset to every
			// sample in this category: reduces per-sample error by
			// (2*err*off - off^2) summed, approximated via the mean.
			gain += count[cat] * (2*off*(sum[cat]/count[cat]) - off*off)
		}
		if gain > bestGain {
			bestGain = gain
			bestParams = Params{Type: TypeEdge, Offsets: offsets, EdgeDir: d.dir}
		}
	}

	return bestParams, bestGain
}

// SearchBand evaluates BAND type SAO: partitioning the sample range
// into 32 equal bands and deriving a constant offset for each of 4
// consecutive bands starting at bandPos, choosing whichever starting
// position maximizes SSD reduction.
func SearchBand(w, h int, at, src func(x, y int) int32) (Params, int64) {
	var sum [32]int64
	var count [32]int64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := at(x, y)
			band := (c >> 3) & 31
			sum[band] += int64(src(x, y)) - int64(c)
			count[band]++
		}
	}

	bestGain := int64(0)
	bestPos := int32(0)
	var bestOffsets [4]int32
	for pos := 0; pos < 32; pos++ {
		var offsets [4]int32
		gain := int64(0)
		for k := 0; k < 4; k++ {
			band := (pos + k) % 32
			if count[band] == 0 {
				continue
			}
			off := sum[band] / count[band]
			offsets[k] = int32(off)
			gain += count[band] * (2*off*(sum[band]/count[band]) - off*off)
		}
		if gain > bestGain {
			bestGain = gain
			bestPos = int32(pos)
			bestOffsets = offsets
		}
	}
	return Params{Type: TypeBand, Offsets: bestOffsets, BandPos: bestPos}, bestGain
}

// bitPenalty is the fixed signalling-bit cost subtracted from a type's
// SSD gain before comparing against NONE and the other candidate type
// (spec §4.10: "minimizing SSD over the CTU with an added
// signaling-bit penalty").
const bitPenalty = 8

// Choose picks the better of an EDGE and BAND candidate (or NONE if
// neither's bit-penalized gain is positive). It does no merge-left/
// merge-up sharing; that is TryMerge's job, which compares type and
// EdgeDir/BandPos but not offsets.
func Choose(edge Params, edgeGain int64, band Params, bandGain int64, lambda float64) Params {
	edgeNet := float64(edgeGain) - lambda*bitPenalty
	bandNet := float64(bandGain) - lambda*bitPenalty
	if edgeNet <= 0 && bandNet <= 0 {
		return Params{Type: TypeNone}
	}
	if edgeNet >= bandNet {
		return edge
	}
	return band
}

// TryMerge reports whether candidate can be replaced by merging with
// neighbour's already-committed parameters (spec §4.10's
// "merge-left/merge-up options let adjacent CTUs share parameters"),
// returning the neighbour's Params with the appropriate merge flag set
// if so.
func TryMerge(candidate, neighbour Params, left bool) (Params, bool) {
	if neighbour.Type != candidate.Type {
		return candidate, false
	}
	if neighbour.Type == TypeEdge && neighbour.EdgeDir != candidate.EdgeDir {
		return candidate, false
	}
	if neighbour.Type == TypeBand && neighbour.BandPos != candidate.BandPos {
		return candidate, false
	}
	merged := neighbour
	merged.MergeLeft = left
	merged.MergeUp = !left
	return merged, true
}
