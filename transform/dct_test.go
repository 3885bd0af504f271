package transform

import "testing"

func TestForwardInverseRoundTripDC(t *testing.T) {
	n := 8
	src := make([]int32, n*n)
	for i := range src {
		src[i] = 10
	}
	coef := make([]int32, n*n)
	Forward(coef, src, n, 8, false)
	// A uniform block should produce energy concentrated at the DC
	// (index 0) coefficient only.
	for i, c := range coef {
		if i == 0 {
			continue
		}
		if c != 0 {
			t.Fatalf("coef[%d] = %d, want 0 for a uniform (DC-only) source block", i, c)
		}
	}

	recon := make([]int32, n*n)
	Inverse(recon, coef, n, 8, false)
	for i, v := range recon {
		if v < 9 || v > 11 {
			t.Fatalf("recon[%d] = %d, want ~10 after round trip", i, v)
		}
	}
}

func TestForwardDST4UsesDSTMatrix(t *testing.T) {
	n := 4
	src := make([]int32, n*n)
	src[0] = 100
	dst := make([]int32, n*n)
	Forward(dst, src, n, 8, true)
	// Any non-trivial single-impulse input should produce spread
	// energy across the DST basis, not a DC spike (distinguishing it
	// from the DCT path).
	nonzero := 0
	for _, v := range dst {
		if v != 0 {
			nonzero++
		}
	}
	if nonzero < 2 {
		t.Fatalf("expected DST-VII to spread an impulse across multiple coefficients, got %d nonzero", nonzero)
	}
}

func TestClip16Bounds(t *testing.T) {
	if v := clip16(1 << 20); v != 32767 {
		t.Errorf("clip16 overflow = %d, want 32767", v)
	}
	if v := clip16(-(1 << 20)); v != -32768 {
		t.Errorf("clip16 underflow = %d, want -32768", v)
	}
}
