package search

import (
	"testing"

	"github.com/ausocean/hevc/cu"
)

func TestDecideOutOfFrameReturnsZero(t *testing.T) {
	d := &Driver{
		FrameW: 64, FrameH: 64,
		Tree: NewWorkTree(128, 128),
		Hooks: Hooks{
			EvaluateIntra: func(x, y, size int) (cu.CU, float64, bool) { return cu.Zero(), 0, true },
		},
	}
	if got := d.Decide(128, 128, 0); got != 0 {
		t.Errorf("Decide out-of-frame = %v, want 0", got)
	}
}

func TestDecidePicksCheaperLeafWithoutSplitting(t *testing.T) {
	evalCalls := 0
	d := &Driver{
		Lambda: 1,
		FrameW: 64, FrameH: 64,
		MinIntraDepth: 0, MaxIntraDepth: MaxDepth,
		Tree: NewWorkTree(64, 64),
		Hooks: Hooks{
			EvaluateIntra: func(x, y, size int) (cu.CU, float64, bool) {
				evalCalls++
				rec := cu.Zero()
				rec.Type = cu.TypeIntra
				// Make the root-level (64x64) leaf decision very cheap so
				// the split is never worth trying.
				cost := 1.0
				if size < 64 {
					cost = 1000.0
				}
				return rec, cost, true
			},
		},
	}
	cost := d.Decide(0, 0, 0)
	if cost != 1.0 {
		t.Fatalf("Decide cost = %v, want 1.0 (non-split root leaf)", cost)
	}
	rec := d.Tree.At(0).At(0, 0)
	if rec.Type != cu.TypeIntra {
		t.Fatalf("committed CU type = %v, want TypeIntra", rec.Type)
	}
}

func TestDecideSplitsWhenChildrenCheaper(t *testing.T) {
	d := &Driver{
		Lambda: 0.01, // tiny lambda: split-flag cost is negligible.
		FrameW: 64, FrameH: 64,
		MinIntraDepth: 0, MaxIntraDepth: MaxDepth,
		Tree: NewWorkTree(64, 64),
		Hooks: Hooks{
			EvaluateIntra: func(x, y, size int) (cu.CU, float64, bool) {
				rec := cu.Zero()
				rec.Type = cu.TypeIntra
				if size == 64 {
					return rec, 1000.0, true
				}
				return rec, 1.0, true // every smaller leaf is cheap.
			},
		},
	}
	cost := d.Decide(0, 0, 0)
	if cost >= 1000.0 {
		t.Fatalf("Decide cost = %v, want the 4-child split total to win", cost)
	}
}

func TestSkipLeafNeverSplits(t *testing.T) {
	splitAttempted := false
	d := &Driver{
		Lambda: 0.01,
		FrameW: 64, FrameH: 64,
		Hooks: Hooks{
			IsInterSlice: true,
		},
	}
	_ = splitAttempted
	d.MinInterDepth, d.MaxInterDepth = 0, MaxDepth
	d.Hooks.EvaluateInter = func(x, y, size int) (cu.CU, float64, bool) {
		if size < 64 {
			splitAttempted = true
		}
		rec := cu.Zero()
		rec.Type = cu.TypeSkip
		rec.Skipped = true
		return rec, 5.0, true
	}
	d.Tree = NewWorkTree(64, 64)
	cost := d.Decide(0, 0, 0)
	if cost != 5.0 {
		t.Fatalf("Decide cost = %v, want 5.0 (skip never attempts a split)", cost)
	}
	if splitAttempted {
		t.Fatal("skip leaf at depth 0 attempted a split")
	}
}
