/*
DESCRIPTION
  paramsets.go writes the VPS, SPS and PPS RBSPs (spec §4.9): profile,
  level, resolution, chroma format, bit depth, CTU size, and (per the
  VUI/AUD supplement) optional VUI parameters.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package syntax

import "github.com/ausocean/hevc/bitstream"

// SPSParams holds the subset of sequence-parameter-set fields this
// encoder core actually drives.
type SPSParams struct {
	VPSID, SPSID        uint32
	ChromaFormatIDC     uint32 // 1 == 4:2:0.
	PicWidth, PicHeight uint32
	BitDepthLuma        uint32
	BitDepthChroma      uint32
	Log2MaxPOCLSB       uint32
	CTULog2Size         uint32 // log2(CTU size); WriteSPS subtracts MinCULog2Size.
	MinCULog2Size       uint32
	MaxTransformDepth   uint32
	VUI                 *VUIParams // nil disables vui_parameters_present_flag.
}

// VUIParams holds the optional VUI fields this encoder can emit (spec
// §4.9 supplement: "AUD/VUI params").
type VUIParams struct {
	AspectRatioIDC       uint32
	TimingInfoPresent    bool
	NumUnitsInTick       uint32
	TimeScale            uint32
}

// WriteVPS writes a minimal video-parameter-set RBSP carrying only the
// fields a single-layer encoder needs.
func WriteVPS(s *bitstream.Sink, vpsID uint32) {
	_ = s.Put(vpsID, 4)
	_ = s.Put(0x3, 2) // reserved_three_2bits.
	_ = s.Put(0, 6)   // max_layers_minus1 (single layer).
	_ = s.Put(0, 3)   // max_sub_layers_minus1.
	_ = s.Put(1, 1)   // temporal_id_nesting_flag.
	_ = s.Put(0xffff, 16)
	writeProfileTierLevel(s)
	_ = s.Put(1, 1) // vps_sub_layer_ordering_info_present_flag.
	writeUE(s, 0)   // vps_max_dec_pic_buffering_minus1.
	writeUE(s, 0)   // vps_max_num_reorder_pics.
	writeUE(s, 0)   // vps_max_latency_increase_plus1.
	_ = s.Put(0, 6) // vps_max_layer_id.
	writeUE(s, 0)   // vps_num_layer_sets_minus1.
	_ = s.Put(0, 1) // vps_timing_info_present_flag.
	_ = s.Put(0, 1) // vps_extension_flag.
	s.AlignOne()
}

// writeProfileTierLevel writes a fixed Main profile, level 4.0
// profile_tier_level structure, sufficient for this encoder's output
// (no scalability, no extensions).
func writeProfileTierLevel(s *bitstream.Sink) {
	_ = s.Put(0, 2)  // general_profile_space.
	_ = s.Put(0, 1)  // general_tier_flag.
	_ = s.Put(1, 5)  // general_profile_idc = Main.
	_ = s.Put(0x60000000, 32)
	_ = s.Put(0, 12)
	_ = s.Put(120, 8) // general_level_idc (4.0 * 30).
}

// WriteSPS writes the sequence-parameter-set RBSP described by p.
func WriteSPS(s *bitstream.Sink, p SPSParams) {
	_ = s.Put(p.VPSID, 4)
	_ = s.Put(0, 3) // sps_max_sub_layers_minus1.
	_ = s.Put(1, 1) // sps_temporal_id_nesting_flag.
	writeProfileTierLevel(s)
	writeUE(s, p.SPSID)
	writeUE(s, p.ChromaFormatIDC)
	writeUE(s, p.PicWidth)
	writeUE(s, p.PicHeight)
	_ = s.Put(0, 1) // conformance_window_flag.
	writeUE(s, p.BitDepthLuma-8)
	writeUE(s, p.BitDepthChroma-8)
	writeUE(s, p.Log2MaxPOCLSB-4)
	_ = s.Put(1, 1) // sps_sub_layer_ordering_info_present_flag.
	writeUE(s, 4)   // sps_max_dec_pic_buffering_minus1.
	writeUE(s, 2)   // sps_max_num_reorder_pics.
	writeUE(s, 0)   // sps_max_latency_increase_plus1.
	writeUE(s, p.MinCULog2Size-3)
	writeUE(s, p.CTULog2Size-p.MinCULog2Size)
	writeUE(s, 2) // log2_min_luma_transform_block_size_minus2.
	writeUE(s, p.MaxTransformDepth)
	writeUE(s, 1) // max_transform_hierarchy_depth_inter.
	writeUE(s, 1) // max_transform_hierarchy_depth_intra.
	_ = s.Put(0, 1) // scaling_list_enabled_flag (handled out-of-band via transform.ScalingList).
	_ = s.Put(1, 1) // amp_enabled_flag.
	_ = s.Put(1, 1) // sample_adaptive_offset_enabled_flag.
	_ = s.Put(0, 1) // pcm_enabled_flag; this encoder never emits PCM escape blocks in the default config.
	writeUE(s, 0)   // num_short_term_ref_pic_sets.
	_ = s.Put(0, 1) // long_term_ref_pics_present_flag.
	_ = s.Put(1, 1) // sps_temporal_mvp_enabled_flag.
	_ = s.Put(1, 1) // strong_intra_smoothing_enabled_flag.

	if p.VUI != nil {
		_ = s.Put(1, 1)
		writeVUI(s, p.VUI)
	} else {
		_ = s.Put(0, 1)
	}
	_ = s.Put(0, 1) // sps_extension_present_flag.
	s.AlignOne()
}

func writeVUI(s *bitstream.Sink, v *VUIParams) {
	if v.AspectRatioIDC != 0 {
		_ = s.Put(1, 1)
		_ = s.Put(v.AspectRatioIDC, 8)
	} else {
		_ = s.Put(0, 1)
	}
	_ = s.Put(0, 1) // overscan_info_present_flag.
	_ = s.Put(0, 1) // video_signal_type_present_flag.
	_ = s.Put(0, 1) // chroma_loc_info_present_flag.
	_ = s.Put(0, 1) // neutral_chroma_indication_flag.
	_ = s.Put(0, 1) // field_seq_flag.
	_ = s.Put(0, 1) // frame_field_info_present_flag.
	_ = s.Put(0, 1) // default_display_window_flag.
	if v.TimingInfoPresent {
		_ = s.Put(1, 1)
		_ = s.Put(v.NumUnitsInTick, 32)
		_ = s.Put(v.TimeScale, 32)
		_ = s.Put(0, 1) // poc_proportional_to_timing_flag.
		_ = s.Put(0, 1) // hrd_parameters_present_flag.
	} else {
		_ = s.Put(0, 1)
	}
	_ = s.Put(0, 1) // bitstream_restriction_flag.
}

// PPSParams holds the picture-parameter-set fields this encoder
// drives: init QP, tile layout, and deblocking flags.
type PPSParams struct {
	PPSID, SPSID    uint32
	InitQP          int32
	NumTileCols     uint32 // 0 or 1 == no tiling.
	NumTileRows     uint32
	DeblockDisabled bool
	DeblockBetaOffsetDiv2, DeblockTcOffsetDiv2 int32
}

// WritePPS writes the picture-parameter-set RBSP described by p.
func WritePPS(s *bitstream.Sink, p PPSParams) {
	writeUE(s, p.PPSID)
	writeUE(s, p.SPSID)
	_ = s.Put(0, 1) // dependent_slice_segments_enabled_flag.
	_ = s.Put(0, 1) // output_flag_present_flag.
	_ = s.Put(0, 3) // num_extra_slice_header_bits.
	_ = s.Put(1, 1) // sign_data_hiding_enabled_flag.
	_ = s.Put(0, 1) // cabac_init_present_flag.
	writeUE(s, 0)   // num_ref_idx_l0_default_active_minus1.
	writeUE(s, 0)   // num_ref_idx_l1_default_active_minus1.
	writeSE(s, p.InitQP-26)
	_ = s.Put(0, 1) // constrained_intra_pred_flag.
	_ = s.Put(0, 1) // transform_skip_enabled_flag.
	_ = s.Put(1, 1) // cu_qp_delta_enabled_flag.
	writeUE(s, 0)   // diff_cu_qp_delta_depth.
	writeSE(s, 0)   // cb_qp_offset.
	writeSE(s, 0)   // cr_qp_offset.
	_ = s.Put(0, 1) // pps_slice_chroma_qp_offsets_present_flag.
	_ = s.Put(0, 1) // weighted_pred_flag.
	_ = s.Put(0, 1) // weighted_bipred_flag.
	_ = s.Put(0, 1) // transquant_bypass_enabled_flag.

	tiled := p.NumTileCols > 1 || p.NumTileRows > 1
	if tiled {
		_ = s.Put(1, 1)
	} else {
		_ = s.Put(0, 1)
	}
	_ = s.Put(1, 1) // entropy_coding_sync_enabled_flag (wavefront parallel processing).
	if tiled {
		writeUE(s, p.NumTileCols-1)
		writeUE(s, p.NumTileRows-1)
		_ = s.Put(1, 1) // uniform_spacing_flag.
		_ = s.Put(1, 1) // loop_filter_across_tiles_enabled_flag.
	}
	_ = s.Put(1, 1) // pps_loop_filter_across_slices_enabled_flag.
	_ = s.Put(1, 1) // deblocking_filter_control_present_flag.
	_ = s.Put(0, 1) // deblocking_filter_override_enabled_flag.
	if p.DeblockDisabled {
		_ = s.Put(1, 1)
	} else {
		_ = s.Put(0, 1)
		writeSE(s, p.DeblockBetaOffsetDiv2)
		writeSE(s, p.DeblockTcOffsetDiv2)
	}
	_ = s.Put(0, 1) // pps_scaling_list_data_present_flag (loaded out-of-band instead).
	_ = s.Put(0, 1) // lists_modification_present_flag.
	writeUE(s, 0)   // log2_parallel_merge_level_minus2.
	_ = s.Put(0, 1) // slice_segment_header_extension_present_flag.
	_ = s.Put(0, 1) // pps_extension_present_flag.
	s.AlignOne()
}

// WriteAUD writes an access-unit-delimiter NAL payload (spec §4.9
// supplement: "AUD/VUI params"): a 3-bit pic_type.
func WriteAUD(s *bitstream.Sink, picType uint32) {
	_ = s.Put(picType, 3)
	s.AlignOne()
}
