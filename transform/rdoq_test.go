package transform

import "testing"

func TestRDOQNeverIncreasesMagnitude(t *testing.T) {
	levels := []int32{5, -3, 2, 0}
	coef := []int32{80, -40, 5, 0}
	p := RDOQParams{Lambda: 10, QP: 30, BitDepth: 8, ScanOrder: []int{3, 2, 1, 0}}
	before := append([]int32(nil), levels...)
	RDOQ(levels, coef, p)
	for i, v := range levels {
		abs := v
		if abs < 0 {
			abs = -abs
		}
		wantAbs := before[i]
		if wantAbs < 0 {
			wantAbs = -wantAbs
		}
		if abs > wantAbs {
			t.Fatalf("level[%d] magnitude grew from %d to %d", i, before[i], v)
		}
	}
}

func TestSignHideSkippedWhenRangeTooSmall(t *testing.T) {
	levels := []int32{1, 0, 0, 2}
	scan := []int{3, 0}
	if SignHide(levels, scan, 0, 1) {
		t.Fatal("expected SignHide to be a no-op when the scan-position distance is under 4")
	}
}
