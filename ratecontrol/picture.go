/*
DESCRIPTION
  picture.go implements per-picture bit allocation: a GOP's target bits
  multiplied by a layer weight looked up from a small table indexed by
  average-bpp class and GOP layer (spec §4.11).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package ratecontrol

// numBPPClasses and numGOPLayers size layerWeight, a coarse
// classification of content bitrate (low/mid/high average bpp) crossed
// with the hierarchical GOP layer (0 = I/P anchor, up to 3 = deepest B
// layer), matching the layer-weight table's shape in spec §4.11.
const (
	numBPPClasses = 3
	numGOPLayers  = 4
)

// layerWeight[bppClass][gopLayer] gives the fraction of the GOP's
// target bits one picture at that layer should receive; rows sum to
// roughly 1 across a typical 4-layer hierarchical GOP.
var layerWeight = [numBPPClasses][numGOPLayers]float64{
	{0.50, 0.25, 0.15, 0.10}, // low bpp: concentrate bits on the anchor.
	{0.42, 0.26, 0.18, 0.14},
	{0.35, 0.27, 0.20, 0.18}, // high bpp: flatter allocation across layers.
}

// bppClass classifies avgBPP into one of numBPPClasses buckets.
func bppClass(avgBPP float64) int {
	switch {
	case avgBPP < 0.05:
		return 0
	case avgBPP < 0.15:
		return 1
	default:
		return 2
	}
}

// PictureBits computes one picture's target bit allocation from its
// GOP's total target and its hierarchical layer, floored at 100 bits
// (spec §4.11).
func PictureBits(gopTargetBits, avgBPP float64, gopLayer int) float64 {
	if gopLayer >= numGOPLayers {
		gopLayer = numGOPLayers - 1
	}
	w := layerWeight[bppClass(avgBPP)][gopLayer]
	bits := gopTargetBits * w
	if bits < 100 {
		bits = 100
	}
	return bits
}
