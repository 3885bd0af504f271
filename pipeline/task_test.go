package pipeline

import "testing"

func TestNewTaskGraphWavefrontDependencyCounts(t *testing.T) {
	g := NewTaskGraph(3, 3, 0)
	// (0,0) has no predecessors.
	if w := g.At(0, 0).waiting; w != 0 {
		t.Errorf("(0,0).waiting = %d, want 0", w)
	}
	// (0,1) depends only on (0,0) (no row above).
	if w := g.At(0, 1).waiting; w != 1 {
		t.Errorf("(0,1).waiting = %d, want 1", w)
	}
	// (1,1) depends on (1,0) and (0,2).
	if w := g.At(1, 1).waiting; w != 2 {
		t.Errorf("(1,1).waiting = %d, want 2", w)
	}
	// last column has no (r-1,c+1) predecessor.
	if w := g.At(1, 2).waiting; w != 1 {
		t.Errorf("(1,2).waiting = %d, want 1 (left only, no above-right)", w)
	}
}

func TestNewTaskGraphRootIsTopLeftCTU(t *testing.T) {
	g := NewTaskGraph(2, 2, 0)
	roots := g.Roots()
	if len(roots) != 1 || roots[0].Row != 0 || roots[0].Col != 0 {
		t.Errorf("Roots() = %+v, want only (0,0)", roots)
	}
}

func TestTileBoundaryBlocksCrossTileDependency(t *testing.T) {
	g := NewTaskGraph(2, 4, 2) // two 2-wide tiles.
	// (0,2) starts tile 2's first column; it must not depend on (0,1)
	// (tile 1's last column).
	if w := g.At(0, 2).waiting; w != 0 {
		t.Errorf("(0,2).waiting = %d, want 0 (tile root)", w)
	}
}

func TestCompleteUnblocksDownstream(t *testing.T) {
	g := NewTaskGraph(1, 2, 0)
	root := g.At(0, 0)
	root.markReadyIfUnblocked()
	unblocked := root.complete()
	if len(unblocked) != 1 || unblocked[0] != g.At(0, 1) {
		t.Errorf("complete() unblocked = %+v, want [(0,1)]", unblocked)
	}
	if g.At(0, 1).State() != TaskReady {
		t.Errorf("(0,1).State() = %v, want TaskReady", g.At(0, 1).State())
	}
}

func TestCrossFrameGateBlocksUntilSatisfied(t *testing.T) {
	g := NewTaskGraph(1, 1, 0)
	gateOpen := false
	g.SetCrossFrameGate(func(r, c int) bool { return gateOpen })

	if g.At(0, 0).markReadyIfUnblocked() {
		t.Error("markReadyIfUnblocked succeeded while gate closed")
	}
	gateOpen = true
	if !g.At(0, 0).markReadyIfUnblocked() {
		t.Error("markReadyIfUnblocked failed once gate opened")
	}
}
