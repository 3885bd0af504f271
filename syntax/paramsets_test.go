package syntax

import (
	"testing"

	"github.com/ausocean/hevc/bitstream"
)

func TestWriteSPSProducesNonEmptyRBSP(t *testing.T) {
	s := bitstream.NewSink(64)
	WriteSPS(s, SPSParams{
		VPSID: 0, SPSID: 0,
		ChromaFormatIDC: 1,
		PicWidth:        1920, PicHeight: 1080,
		BitDepthLuma: 8, BitDepthChroma: 8,
		Log2MaxPOCLSB:     8,
		CTULog2Size:       6,
		MinCULog2Size:     3,
		MaxTransformDepth: 2,
	})
	if s.Len() == 0 {
		t.Fatal("expected a non-empty SPS RBSP")
	}
}

func TestWritePPSProducesNonEmptyRBSP(t *testing.T) {
	s := bitstream.NewSink(64)
	WritePPS(s, PPSParams{PPSID: 0, SPSID: 0, InitQP: 32})
	if s.Len() == 0 {
		t.Fatal("expected a non-empty PPS RBSP")
	}
}

func TestWriteVPSProducesNonEmptyRBSP(t *testing.T) {
	s := bitstream.NewSink(64)
	WriteVPS(s, 0)
	if s.Len() == 0 {
		t.Fatal("expected a non-empty VPS RBSP")
	}
}

func TestWriteAUDWritesOneByte(t *testing.T) {
	s := bitstream.NewSink(4)
	WriteAUD(s, 0)
	if s.Len() != 1 {
		t.Fatalf("AUD RBSP length = %d, want 1 byte", s.Len())
	}
}
