package inter

import (
	"testing"

	"github.com/ausocean/hevc/cu"
)

func TestPredictLumaIntegerPelCopiesSamples(t *testing.T) {
	p := cu.NewPlane(32, 32)
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			p.Set(x, y, uint8(x+y))
		}
	}
	dst := make([]int32, 8*8)
	PredictLuma(dst, 8, 8, p, 4, 4, cu.MV{X: 0, Y: 0})
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			want := int32(4 + x + 4 + y)
			if got := dst[y*8+x]; got != want {
				t.Fatalf("dst[%d,%d] = %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestPredictLumaClampsOutOfFrameTaps(t *testing.T) {
	p := cu.NewPlane(16, 16)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			p.Set(x, y, 100)
		}
	}
	dst := make([]int32, 4*4)
	// A motion vector that drives the reference fetch well outside the
	// plane bounds should still produce the uniform value via edge
	// clamping in Plane.At, not panic or return garbage.
	PredictLuma(dst, 4, 4, p, 0, 0, cu.MV{X: -64, Y: -64})
	for i, v := range dst {
		if v != 100 {
			t.Fatalf("dst[%d] = %d, want 100 (clamped uniform reference)", i, v)
		}
	}
}

func TestPredictChromaUniformReference(t *testing.T) {
	p := cu.NewPlane(16, 16)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			p.Set(x, y, 50)
		}
	}
	dst := make([]int32, 4*4)
	PredictChroma(dst, 4, 4, p, 2, 2, cu.MV{X: 3, Y: -5})
	for i, v := range dst {
		if v != 50 {
			t.Fatalf("dst[%d] = %d, want 50 for uniform chroma reference", i, v)
		}
	}
}
