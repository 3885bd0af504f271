package search

import "testing"

func TestSelectIntraModePicksGlobalRDOMinimum(t *testing.T) {
	rough := func(mode int) int { return (mode - 10) * (mode - 10) } // minimum SAD at mode 10.
	rdo := func(mode int) float64 {
		if mode == 7 {
			return 0.5 // the true best isn't in the rough top-K unless mpm includes it.
		}
		return float64(mode) + 100
	}
	mode, cost := SelectIntraMode(32, rough, rdo, [3]int{7, 1, 2})
	if mode != 7 {
		t.Fatalf("mode = %d, want 7 (included via most-probable-modes)", mode)
	}
	if cost != 0.5 {
		t.Fatalf("cost = %v, want 0.5", cost)
	}
}

func TestMostProbableModesSharedNeighbourDiversifies(t *testing.T) {
	mpm := MostProbableModes(10, 10)
	seen := map[int]bool{}
	for _, m := range mpm {
		if seen[m] {
			t.Fatalf("MostProbableModes(10,10) = %v has a duplicate", mpm)
		}
		seen[m] = true
	}
}

func TestMostProbableModesDistinctNeighboursIncludesBoth(t *testing.T) {
	mpm := MostProbableModes(5, 20)
	found5, found20 := false, false
	for _, m := range mpm {
		if m == 5 {
			found5 = true
		}
		if m == 20 {
			found20 = true
		}
	}
	if !found5 || !found20 {
		t.Fatalf("MostProbableModes(5,20) = %v, want both neighbour modes present", mpm)
	}
}
