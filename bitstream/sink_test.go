package bitstream

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPutBasic(t *testing.T) {
	s := NewSink(4)
	if err := s.Put(0x3, 2); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(0x1, 1); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(0x5, 5); err != nil {
		t.Fatal(err)
	}
	s.AlignZero()
	got := []byte(s.TakeChunks())
	want := []byte{0xe5}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestPutCrossesByteBoundary(t *testing.T) {
	s := NewSink(4)
	if err := s.Put(0xABCDE, 20); err != nil {
		t.Fatal(err)
	}
	s.AlignZero()
	got := []byte(s.TakeChunks())
	want := []byte{0xAB, 0xCD, 0xE0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestPutInvalidN(t *testing.T) {
	s := NewSink(1)
	if err := s.Put(0, 0); err == nil {
		t.Error("expected error for n=0")
	}
	if err := s.Put(0, 33); err == nil {
		t.Error("expected error for n=33")
	}
}

func TestEmulationPrevention(t *testing.T) {
	s := NewSink(8)
	for _, b := range []byte{0x00, 0x00, 0x00, 0x00, 0x01, 0x02, 0x03} {
		if err := s.Put(uint32(b), 8); err != nil {
			t.Fatal(err)
		}
	}
	got := []byte(s.TakeChunks())
	want := []byte{0x00, 0x00, 0x03, 0x00, 0x00, 0x03, 0x01, 0x02, 0x03}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestAlignOne(t *testing.T) {
	s := NewSink(1)
	if err := s.Put(1, 3); err != nil {
		t.Fatal(err)
	}
	s.AlignOne()
	if s.BitsPending() != 0 {
		t.Fatalf("expected byte aligned, pending=%d", s.BitsPending())
	}
	got := []byte(s.TakeChunks())
	want := []byte{0x3F}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
