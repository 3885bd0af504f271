package syntax

import (
	"testing"

	"github.com/ausocean/hevc/bitstream"
)

func TestWriteSliceHeaderIDRSkipsPOC(t *testing.T) {
	s := bitstream.NewSink(64)
	h := &SliceHeader{
		FirstSliceInPic: true,
		Type:            SliceTypeI,
		Log2MaxPOCLSB:   8,
		MaxNumMergeCand: 5,
	}
	h.Write(s, 19) // IDR_W_RADL.
	if s.Len() == 0 {
		t.Fatal("expected a non-empty slice header RBSP")
	}
}

func TestWriteSliceHeaderNonIDRWritesRefSet(t *testing.T) {
	s := bitstream.NewSink(64)
	h := &SliceHeader{
		FirstSliceInPic:    true,
		Type:               SliceTypeB,
		POCLSB:             4,
		Log2MaxPOCLSB:      8,
		NegRefDeltaPOC:     []int32{-1, -2},
		PosRefDeltaPOC:     []int32{1},
		TemporalMVPEnabled: true,
		MaxNumMergeCand:    5,
	}
	h.Write(s, 1) // TRAIL_R.
	if s.Len() == 0 {
		t.Fatal("expected a non-empty slice header RBSP")
	}
}
