/*
DESCRIPTION
  gop.go implements per-GOP bit allocation using a 40-picture
  smoothing window over previously coded bits-per-pixel (spec §4.11).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package ratecontrol implements GOP/picture/CTU bit allocation and
// the lambda/QP model driving the encoder's quantization decisions
// (spec §4.11).
package ratecontrol

import "gonum.org/v1/gonum/stat"

// smoothingWindow is the number of pictures the GOP bit-allocation
// formula smooths over (spec §4.11).
const smoothingWindow = 40

// GOPAllocator tracks the running state the per-GOP bit-allocation
// formula needs: pictures coded so far and actual bits spent.
type GOPAllocator struct {
	TargetBitrate float64 // bits per second.
	FrameRate     float64
	PixelsPerPic  float64

	codedPics   int
	actualBits  float64
	bppHistory  []float64
}

// NewGOPAllocator returns an allocator targeting bitrate bits/sec at
// frameRate fps, for pictures of pixelsPerPic luma samples.
func NewGOPAllocator(bitrate, frameRate, pixelsPerPic float64) *GOPAllocator {
	return &GOPAllocator{TargetBitrate: bitrate, FrameRate: frameRate, PixelsPerPic: pixelsPerPic}
}

// RecordPicture folds a just-coded picture's actual bit count into the
// allocator's running state, for use by the next GOP's TargetBits
// call.
func (g *GOPAllocator) RecordPicture(bits int) {
	g.codedPics++
	g.actualBits += float64(bits)
	bpp := float64(bits) / g.PixelsPerPic
	g.bppHistory = append(g.bppHistory, bpp)
	if len(g.bppHistory) > smoothingWindow {
		g.bppHistory = g.bppHistory[1:]
	}
}

// avgBPP returns the mean bits-per-pixel over the smoothing window
// (or the target-rate-implied bpp if nothing has been coded yet).
func (g *GOPAllocator) avgBPP() float64 {
	if len(g.bppHistory) == 0 {
		return g.TargetBitrate / g.FrameRate / g.PixelsPerPic
	}
	return stat.Mean(g.bppHistory, nil)
}

// AverageBPP exposes avgBPP to callers outside the package (the
// pipeline orchestrator's per-picture lambda prediction, spec §4.12).
func (g *GOPAllocator) AverageBPP() float64 { return g.avgBPP() }

// TargetBits computes a new GOP's target bit budget (spec §4.11):
//
//	target = (avg_bpp_pic * (coded + 40) - actual_bits_coded) * gopLen / 40
//
// floored at 200 bits.
func (g *GOPAllocator) TargetBits(gopLen int) float64 {
	avgBPPPic := g.avgBPP() * g.PixelsPerPic
	target := (avgBPPPic*float64(g.codedPics+smoothingWindow) - g.actualBits) * float64(gopLen) / smoothingWindow
	if target < 200 {
		target = 200
	}
	return target
}
