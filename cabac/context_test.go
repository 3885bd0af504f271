package cabac

import "testing"

func TestInitFromSeedClampsState(t *testing.T) {
	tests := []struct {
		qp, seed int
	}{
		{0, 0}, {51, 255}, {26, 154}, {0, 255}, {51, 0},
	}
	for _, tc := range tests {
		ctx := initFromSeed(tc.qp, tc.seed)
		state := uint8(ctx) >> 1
		if state > 63 {
			t.Errorf("qp=%d seed=%d: state %d out of range", tc.qp, tc.seed, state)
		}
	}
}

func TestNewBankAllGroupsInitialized(t *testing.T) {
	b := NewBank(32)
	if b.SplitFlag[0] == 0 && b.SplitFlag[1] == 0 && b.SplitFlag[2] == 0 {
		t.Error("expected split-flag contexts to be initialized to non-zero packed values in general")
	}
	// Every context must at least decode to a state <= 63.
	for _, c := range b.SigCoeffFlag {
		if uint8(c)>>1 > 63 {
			t.Errorf("sig coeff context state out of range: %v", c)
		}
	}
}

func TestResetReinitializes(t *testing.T) {
	b := NewBank(10)
	before := b.MergeFlag[0]
	b.Reset(40)
	after := b.MergeFlag[0]
	if before == after {
		// Not necessarily different for every QP pair, but for 10 vs 40 with
		// seed 154 the state should move.
		t.Logf("context did not change between QP 10 and 40; this can happen at clamped extremes")
	}
}
