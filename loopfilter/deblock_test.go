package loopfilter

import (
	"testing"

	"github.com/ausocean/hevc/cu"
)

func TestBoundaryStrengthIntraIsAlwaysTwo(t *testing.T) {
	p := cu.Zero()
	p.Type = cu.TypeIntra
	q := cu.Zero()
	q.Type = cu.TypeInter
	if bs := BoundaryStrengthForEdge(p, q); bs != 2 {
		t.Errorf("BoundaryStrengthForEdge with an intra neighbour = %d, want 2", bs)
	}
}

func TestBoundaryStrengthZeroForIdenticalInterCUs(t *testing.T) {
	p := cu.Zero()
	p.Type = cu.TypeInter
	p.L0 = cu.InterInfo{RefIdx: 0, MV: cu.MV{X: 4, Y: 0}, MergeIdx: -1}
	p.L1 = cu.InterInfo{RefIdx: -1, MergeIdx: -1}
	q := p
	if bs := BoundaryStrengthForEdge(p, q); bs != 0 {
		t.Errorf("BoundaryStrengthForEdge for identical motion = %d, want 0", bs)
	}
}

func TestBoundaryStrengthOneForDifferingMotion(t *testing.T) {
	p := cu.Zero()
	p.Type = cu.TypeInter
	p.L0 = cu.InterInfo{RefIdx: 0, MV: cu.MV{X: 0, Y: 0}, MergeIdx: -1}
	p.L1 = cu.InterInfo{RefIdx: -1, MergeIdx: -1}
	q := p
	q.L0.MV = cu.MV{X: 20, Y: 0}
	if bs := BoundaryStrengthForEdge(p, q); bs != 1 {
		t.Errorf("BoundaryStrengthForEdge for a large MV difference = %d, want 1", bs)
	}
}

func TestDeriveEdgeParamsClampsHighQP(t *testing.T) {
	p := DeriveEdgeParams(100, 0, 0)
	if p.Beta != betaTable[53] || p.Tc != tcTable[53] {
		t.Errorf("DeriveEdgeParams(100) = %+v, want clamped to index 53", p)
	}
}

func TestFilterLumaEdgeNoOpWhenBSZero(t *testing.T) {
	line := []int32{10, 20, 30, 40, 50, 60, 70, 80}
	before := append([]int32(nil), line...)
	FilterLumaEdge(line, EdgeParams{Beta: 10, Tc: 2}, 0)
	for i := range line {
		if line[i] != before[i] {
			t.Fatalf("line[%d] changed with bs=0: %d -> %d", i, before[i], line[i])
		}
	}
}

func TestFilterLumaEdgeSmoothsAFlatEdge(t *testing.T) {
	line := []int32{100, 100, 100, 100, 100, 100, 100, 100}
	FilterLumaEdge(line, EdgeParams{Beta: 64, Tc: 4}, 2)
	for i, v := range line {
		if v != 100 {
			t.Fatalf("line[%d] = %d, want 100 unchanged for an already-flat edge", i, v)
		}
	}
}
