package pipeline

import (
	"testing"

	"github.com/ausocean/hevc/cu"
)

func TestRingAdmitEvictsOldestSlot(t *testing.T) {
	r := NewRing(1) // capacity 2.
	s0 := newState(0, cu.SliceI, 64, 64, 64, 26)
	s1 := newState(1, cu.SliceB, 64, 64, 64, 26)
	s2 := newState(2, cu.SliceB, 64, 64, 64, 26)

	if evicted := r.Admit(s0); evicted != nil {
		t.Errorf("first Admit evicted %v, want nil", evicted)
	}
	if evicted := r.Admit(s1); evicted != nil {
		t.Errorf("second Admit evicted %v, want nil", evicted)
	}
	evicted := r.Admit(s2)
	if evicted == nil || evicted.Frame.POC != 0 {
		t.Errorf("third Admit evicted %v, want POC 0's state", evicted)
	}
}

func TestRingByPOCFindsResidentState(t *testing.T) {
	r := NewRing(2)
	s := newState(5, cu.SliceP, 64, 64, 64, 30)
	r.Admit(s)
	if got := r.ByPOC(5); got != s {
		t.Errorf("ByPOC(5) = %v, want %v", got, s)
	}
	if got := r.ByPOC(99); got != nil {
		t.Errorf("ByPOC(99) = %v, want nil", got)
	}
}

func TestRingCapacityIsOWFPlusOne(t *testing.T) {
	r := NewRing(3)
	if r.Capacity() != 4 {
		t.Errorf("Capacity() = %d, want 4", r.Capacity())
	}
}
