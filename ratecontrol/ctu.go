/*
DESCRIPTION
  ctu.go implements per-CTU bit allocation, weighted from the previous
  same-layer frame's actual per-CTU spend (spec §4.11).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package ratecontrol

import "gonum.org/v1/gonum/floats"

// CTUWeights holds the learned per-CTU weight from the previous frame
// at the same GOP layer, one entry per CTU in raster order.
type CTUWeights struct {
	weights []float64
}

// NewCTUWeights returns a CTUWeights sized for numCTUs, uniformly
// initialized (used for the first frame at a given layer, before any
// history exists).
func NewCTUWeights(numCTUs int) *CTUWeights {
	w := make([]float64, numCTUs)
	for i := range w {
		w[i] = 1
	}
	return &CTUWeights{weights: w}
}

// Allocate distributes pictureBits across numCTUs CTUs proportionally
// to the learned weights, normalizing so the allocation sums to
// pictureBits exactly.
func (c *CTUWeights) Allocate(pictureBits float64) []float64 {
	sum := floats.Sum(c.weights)
	if sum <= 0 {
		sum = float64(len(c.weights))
	}
	out := make([]float64, len(c.weights))
	for i, w := range c.weights {
		out[i] = pictureBits * w / sum
	}
	return out
}

// Update folds this frame's actual per-CTU bit spend into the learned
// weights for the next same-layer frame, as a simple exponential
// moving average.
func (c *CTUWeights) Update(actualBitsPerCTU []float64) {
	const alpha = 0.3
	mean := floats.Sum(actualBitsPerCTU) / float64(len(actualBitsPerCTU))
	if mean <= 0 {
		mean = 1
	}
	for i, b := range actualBitsPerCTU {
		c.weights[i] = (1-alpha)*c.weights[i] + alpha*(b/mean)
	}
}
