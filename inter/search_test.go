package inter

import (
	"testing"

	"github.com/ausocean/hevc/cu"
)

// constSAD models a reference where the true minimum is at a known
// offset: SAD grows with Manhattan distance from (tx,ty).
func constSAD(tx, ty int) SADFunc {
	return func(refX, refY, w, h int) int {
		dx := refX - tx
		if dx < 0 {
			dx = -dx
		}
		dy := refY - ty
		if dy < 0 {
			dy = -dy
		}
		return dx*50 + dy*50
	}
}

func TestSearchFindsZeroMVWhenOptimal(t *testing.T) {
	p := &Params{
		Lambda: 1,
		W:      16, H: 16,
		Origin: [2]int{100, 100},
		MVPred: [2]int{0, 0},
		SAD:    constSAD(100, 100),
	}
	res := Search(p)
	if res.MV != (cu.MV{X: 0, Y: 0}) {
		t.Fatalf("MV = %+v, want zero", res.MV)
	}
}

func TestSearchResultNeverWorseThanInitialCandidate(t *testing.T) {
	p := &Params{
		Lambda: 0.5,
		W:      8, H: 8,
		Origin: [2]int{50, 50},
		MVPred: [2]int{2, -3},
		SAD:    constSAD(48, 55),
	}
	initial := cost(p, [2]int{0, 0})
	res := Search(p)
	if res.Cost > initial {
		t.Fatalf("search cost %d worse than initial candidate cost %d", res.Cost, initial)
	}
}

func TestSearchPrefersMergeIndexCost(t *testing.T) {
	p := &Params{
		Lambda:   1,
		W:        8, H: 8,
		Origin:   [2]int{0, 0},
		MVPred:   [2]int{10, 10},
		MergeMVs: [][2]int{{0, 0}},
		SAD:      constSAD(0, 0),
	}
	res := Search(p)
	if res.MV.X != 0 || res.MV.Y != 0 {
		t.Fatalf("expected merge candidate MV to win, got %+v", res.MV)
	}
}

func TestBitcostMVDZeroIsCheapest(t *testing.T) {
	if c := bitcostMVD(0); c != 2 {
		t.Errorf("bitcostMVD(0) = %d, want 2", c)
	}
	if bitcostMVD(5) <= bitcostMVD(0) {
		t.Errorf("bitcostMVD(5) should exceed bitcostMVD(0)")
	}
}
