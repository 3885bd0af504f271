/*
DESCRIPTION
  golomb.go implements the exp-Golomb bit writers used by every
  non-CABAC-coded syntax element (SPS/PPS/slice-header fields, and any
  bypass-coded exp-Golomb field within a CTU, spec §4.9: "exp-Golomb
  coded fields use bypass bins only").

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package syntax implements the HEVC bitstream syntax layer: the
// parameter sets, slice header, and per-CTU coding-tree syntax, all
// serialized through the bitstream sink and, for CABAC-coded elements,
// the CABAC coder and context bank (spec §4.9).
package syntax

import "github.com/ausocean/hevc/bitstream"

// writeUE writes v using unsigned exp-Golomb (ue(v)) coding directly
// to a raw bitstream.Sink (used for parameter-set and slice-header
// fields, which precede CABAC initialization).
func writeUE(s *bitstream.Sink, v uint32) {
	n := v + 1
	lead := 0
	for bit := n; bit > 1; bit >>= 1 {
		lead++
	}
	for i := 0; i < lead; i++ {
		_ = s.Put(0, 1)
	}
	_ = s.Put(n, lead+1)
}

// writeSE writes v using signed exp-Golomb (se(v)) coding: the
// standard zig-zag mapping to an unsigned code.
func writeSE(s *bitstream.Sink, v int32) {
	var mapped uint32
	if v <= 0 {
		mapped = uint32(-v) * 2
	} else {
		mapped = uint32(v)*2 - 1
	}
	writeUE(s, mapped)
}

// ueLen returns the bit length writeUE would use for v, for estimating
// bitcost without actually writing.
func ueLen(v uint32) int {
	n := v + 1
	lead := 0
	for bit := n; bit > 1; bit >>= 1 {
		lead++
	}
	return 2*lead + 1
}
