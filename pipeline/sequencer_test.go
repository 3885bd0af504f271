package pipeline

import "testing"

func TestSequencerReleasesContiguousRunOnly(t *testing.T) {
	q := newOutputSequencer()
	if out := q.Push(Output{POC: 1}); len(out) != 0 {
		t.Errorf("Push(POC 1) = %v, want nothing released (POC 0 missing)", out)
	}
	if out := q.Push(Output{POC: 0}); len(out) != 2 {
		t.Errorf("Push(POC 0) released %d, want 2 (POC 0 and 1)", len(out))
	}
	if q.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", q.Pending())
	}
}

func TestSequencerHandlesOutOfOrderGOP(t *testing.T) {
	q := newOutputSequencer()
	// Typical hierarchical-B coding order: anchor (POC 4) codes before
	// the Bs that display earlier (POC 1,2,3).
	q.Push(Output{POC: 4})
	q.Push(Output{POC: 2})
	out := q.Push(Output{POC: 1})
	if len(out) != 0 {
		t.Fatalf("released %d before POC 0 arrived, want 0", len(out))
	}
	out = q.Push(Output{POC: 0})
	if len(out) != 3 {
		t.Fatalf("released %d, want 3 (POC 0,1,2)", len(out))
	}
	for i, o := range out {
		if o.POC != i {
			t.Errorf("out[%d].POC = %d, want %d", i, o.POC, i)
		}
	}
	if q.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1 (POC 4 still buffered)", q.Pending())
	}
}
