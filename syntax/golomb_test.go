package syntax

import (
	"testing"

	"github.com/ausocean/hevc/bitstream"
)

func TestWriteUEZero(t *testing.T) {
	s := bitstream.NewSink(4)
	writeUE(s, 0)
	s.AlignZero()
	got := s.TakeChunks()
	if len(got) != 1 || got[0] != 0x80 {
		t.Fatalf("ue(0) = %v, want a single leading 1 bit (0x80...)", got)
	}
}

func TestWriteSERoundTripsSign(t *testing.T) {
	s := bitstream.NewSink(4)
	writeSE(s, -3)
	s.AlignZero()
	got := s.TakeChunks()
	if len(got) == 0 {
		t.Fatal("expected at least one byte written for se(-3)")
	}
}

func TestUELenMatchesActualWrite(t *testing.T) {
	for _, v := range []uint32{0, 1, 7, 255} {
		s := bitstream.NewSink(8)
		writeUE(s, v)
		wantBits := ueLen(v)
		gotBits := s.Len()*8 + s.BitsPending()
		if gotBits != wantBits {
			t.Errorf("ue(%d): ueLen=%d, actual bits written=%d", v, wantBits, gotBits)
		}
	}
}
