/*
DESCRIPTION
  sliceheader.go writes the slice-segment-header RBSP fields: type,
  POC, reference set, QP delta, and merge-candidate cap (spec §4.9).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package syntax

import "github.com/ausocean/hevc/bitstream"

// SliceType mirrors cu.SliceType's values for the syntax layer so this
// package does not need to import cu just for the enum.
type SliceType uint32

const (
	SliceTypeB SliceType = iota
	SliceTypeP
	SliceTypeI
)

// SliceHeader holds the slice-segment-header fields this encoder
// drives.
type SliceHeader struct {
	FirstSliceInPic bool
	PPSID           uint32
	Type            SliceType
	POCLSB          uint32
	Log2MaxPOCLSB   uint32

	// NegRefDeltaPOC/PosRefDeltaPOC describe the short-term reference picture
	// set built inline (spec §4.9: "reference set"), in decreasing /
	// increasing POC distance order respectively.
	NegRefDeltaPOC []int32
	PosRefDeltaPOC []int32

	SliceQPDelta int32
	MaxNumMergeCand uint32 // 5 - five_minus_max_num_merge_cand.

	TemporalMVPEnabled bool
	SAOLuma, SAOChroma bool
}

// Write serializes the slice-segment-header fields to s. The caller is
// responsible for the preceding NAL unit header and for starting CABAC
// immediately after this call.
func (h *SliceHeader) Write(s *bitstream.Sink, nalUnitType uint32) {
	_ = s.Put(boolBit(h.FirstSliceInPic), 1)
	if nalUnitType >= 16 && nalUnitType <= 23 {
		_ = s.Put(0, 1) // no_output_of_prior_pics_flag.
	}
	writeUE(s, h.PPSID)
	if !h.FirstSliceInPic {
		// dependent/independent slice segment address fields would go
		// here; this encoder only ever emits one slice segment per
		// picture, so nothing further is written.
	}

	writeUE(s, uint32(h.Type))

	isIDR := nalUnitType == 19 || nalUnitType == 20
	if !isIDR {
		_ = s.Put(h.POCLSB, int(h.Log2MaxPOCLSB))
		writeShortTermRPS(s, h.NegRefDeltaPOC, h.PosRefDeltaPOC)
		if h.TemporalMVPEnabled {
			_ = s.Put(1, 1)
		} else {
			_ = s.Put(0, 1)
		}
	}

	if h.SAOLuma || h.SAOChroma {
		_ = s.Put(boolBit(h.SAOLuma), 1)
		_ = s.Put(boolBit(h.SAOChroma), 1)
	}

	if h.Type != SliceTypeI {
		_ = s.Put(0, 1) // num_ref_idx_active_override_flag: use PPS defaults.
		_ = s.Put(0, 1) // mvd_l1_zero_flag (only meaningful for B, default disabled).
		if h.Type == SliceTypeB {
			_ = s.Put(0, 1) // collocated_from_l0_flag.
		}
		writeUE(s, 5-h.MaxNumMergeCand)
	}

	writeSE(s, h.SliceQPDelta)
	_ = s.Put(0, 1) // slice_cb_qp_offset / slice_cr_qp_offset presence.
	_ = s.Put(0, 1) // deblocking_filter_override_flag.
	_ = s.Put(0, 1) // slice_loop_filter_across_slices_enabled_flag (inherits PPS default).

	s.AlignOne()
}

func boolBit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// writeShortTermRPS writes an inline short_term_ref_pic_set with
// num_negative_pics and num_positive_pics delta-POC lists, all
// delta_poc values coded relative to the previous entry per the
// standard's "uses_delta_flag==1, delta_poc_msb_present_flag==0"
// simplified path this encoder always takes.
func writeShortTermRPS(s *bitstream.Sink, neg, pos []int32) {
	writeUE(s, uint32(len(neg)))
	writeUE(s, uint32(len(pos)))
	prev := int32(0)
	for _, d := range neg {
		writeUE(s, uint32(prev-d-1))
		prev = d
		_ = s.Put(1, 1) // used_by_curr_pic flag.
	}
	prev = 0
	for _, d := range pos {
		writeUE(s, uint32(d-prev-1))
		prev = d
		_ = s.Put(1, 1)
	}
}
