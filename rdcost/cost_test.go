package rdcost

import "testing"

func TestSSDIdenticalBlocksIsZero(t *testing.T) {
	a := []int32{1, 2, 3, 4}
	if got := SSD(a, a); got != 0 {
		t.Errorf("SSD(a,a) = %d, want 0", got)
	}
}

func TestSSDKnownDifference(t *testing.T) {
	a := []int32{0, 0}
	b := []int32{3, 4}
	if got := SSD(a, b); got != 25 {
		t.Errorf("SSD = %d, want 25", got)
	}
}

func TestEstimateLevel0IgnoresLambda(t *testing.T) {
	recon := []int32{5, 5}
	src := []int32{0, 0}
	got := Estimate(Level0, recon, src, 1000, nil, nil)
	if got != 50 {
		t.Errorf("Level0 estimate = %v, want 50 (pure SSD)", got)
	}
}

func TestEstimateLevel1AddsCoefBitcost(t *testing.T) {
	recon := []int32{0, 0}
	src := []int32{0, 0}
	coef := []int32{4, -4}
	got := Estimate(Level1, recon, src, 2, coef, nil)
	// coef_sum = 8, bitcost = 8+4=12, *lambda(2) = 24.
	if got != 24 {
		t.Errorf("Level1 estimate = %v, want 24", got)
	}
}

func TestEstimateLevel2UsesCodingCallback(t *testing.T) {
	recon := []int32{0}
	src := []int32{0}
	got := Estimate(Level2, recon, src, 1, nil, func() int { return 10 })
	if got != 10 {
		t.Errorf("Level2 estimate = %v, want 10", got)
	}
}

func TestCoeffCodingBitsNonZeroForEmptyBlock(t *testing.T) {
	groups := []CoeffGroup{{Levels: make([]int32, 16), Sig: false}}
	bits := CoeffCodingBits(groups, 0, 0, 4)
	if bits <= 0 {
		t.Fatalf("expected at least last-position bits, got %d", bits)
	}
}

func TestCoeffCodingBitsGrowsWithMagnitude(t *testing.T) {
	small := []CoeffGroup{{Levels: append([]int32{1}, make([]int32, 15)...), Sig: true}}
	large := []CoeffGroup{{Levels: append([]int32{50}, make([]int32, 15)...), Sig: true}}
	if CoeffCodingBits(large, 0, 0, 4) <= CoeffCodingBits(small, 0, 0, 4) {
		t.Fatal("expected a larger coefficient magnitude to cost more bits")
	}
}
