package loopfilter

import "testing"

func TestSearchBandFindsConstantOffset(t *testing.T) {
	// Reconstructed samples are all 40 below the source: band SAO
	// should find a +40 offset for whichever band 40 falls in.
	at := func(x, y int) int32 { return 40 }
	src := func(x, y int) int32 { return 80 }
	params, gain := SearchBand(8, 8, at, src)
	if gain <= 0 {
		t.Fatalf("expected positive SSD gain from a constant offset, got %d", gain)
	}
	if params.Type != TypeBand {
		t.Fatalf("params.Type = %v, want TypeBand", params.Type)
	}
}

func TestSearchEdgeNoGainOnFlatPlane(t *testing.T) {
	at := func(x, y int) int32 { return 50 }
	src := func(x, y int) int32 { return 50 }
	_, gain := SearchEdge(8, 8, at, src)
	if gain != 0 {
		t.Errorf("expected zero SSD gain on an identical flat plane, got %d", gain)
	}
}

func TestChoosePrefersNoneWhenGainBelowPenalty(t *testing.T) {
	edge := Params{Type: TypeEdge}
	band := Params{Type: TypeBand}
	got := Choose(edge, 1, band, 1, 100)
	if got.Type != TypeNone {
		t.Errorf("Choose with tiny gain and high lambda = %v, want TypeNone", got.Type)
	}
}

func TestTryMergeSucceedsForMatchingNeighbour(t *testing.T) {
	cand := Params{Type: TypeBand, BandPos: 5}
	neigh := Params{Type: TypeBand, BandPos: 5, Offsets: [4]int32{1, 2, 3, 4}}
	merged, ok := TryMerge(cand, neigh, true)
	if !ok {
		t.Fatal("expected TryMerge to succeed for identical band parameters")
	}
	if !merged.MergeLeft || merged.MergeUp {
		t.Errorf("merged = %+v, want MergeLeft set and MergeUp clear", merged)
	}
}

func TestTryMergeFailsForDifferingType(t *testing.T) {
	cand := Params{Type: TypeBand}
	neigh := Params{Type: TypeEdge}
	if _, ok := TryMerge(cand, neigh, true); ok {
		t.Fatal("expected TryMerge to fail when neighbour type differs")
	}
}
