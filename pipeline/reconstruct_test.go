/*
DESCRIPTION
  reconstruct_test.go exercises Reconstructor.EvaluateIntra and
  EvaluateInter against a synthetic single-CTU picture, checking that
  reconstructed samples land in the frame's Rec planes and that the
  coefficients they produce are retrievable through CoeffSource
  afterwards, the way syntax.CTUWriter retrieves them during coding.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pipeline

import (
	"testing"

	"github.com/ausocean/hevc/cu"
)

func fillGradient(p *cu.Plane, base uint8) {
	for y := 0; y < p.H; y++ {
		for x := 0; x < p.W; x++ {
			p.Set(x, y, base+uint8((x+y)%32))
		}
	}
}

func TestEvaluateIntraWritesReconstructedSamplesAndCachesCoeffs(t *testing.T) {
	s := newState(0, cu.SliceI, 64, 64, 64, 26)
	fillGradient(s.Frame.SrcY, 100)
	fillGradient(s.Frame.SrcU, 128)
	fillGradient(s.Frame.SrcV, 128)

	r := NewReconstructor(s, 26, 40.0, nil)
	got, cost, ok := r.EvaluateIntra(0, 0, 32)
	if !ok {
		t.Fatal("EvaluateIntra returned ok=false")
	}
	if cost < 0 {
		t.Errorf("cost = %v, want >= 0", cost)
	}
	if got.Type != cu.TypeIntra {
		t.Errorf("Type = %v, want TypeIntra", got.Type)
	}

	levels, cbf := r.CoeffSource(0, 0, 0, 32)
	if levels == nil {
		t.Error("CoeffSource(luma) returned nil levels")
	}
	if cbf != got.CbfY {
		t.Errorf("CoeffSource cbf = %v, want %v matching CbfY", cbf, got.CbfY)
	}

	// Chroma coefficients for the co-sited 16x16 Cb/Cr block should also
	// be cached (size/2 = 16, >= the 4x4 floor).
	if _, ok := r.CoeffSource(1, 0, 0, 16); !ok {
		t.Error("CoeffSource(Cb) missing")
	}
	if _, ok := r.CoeffSource(2, 0, 0, 16); !ok {
		t.Error("CoeffSource(Cr) missing")
	}

	// Reconstructed luma should differ from the zero-initialized buffer
	// at at least one sample in the coded block.
	nonZero := false
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if s.Frame.RecY.At(x, y) != 0 {
				nonZero = true
			}
		}
	}
	if !nonZero {
		t.Error("RecY is all zero after EvaluateIntra")
	}
}

func TestEvaluateInterReturnsFalseWithoutReferences(t *testing.T) {
	s := newState(1, cu.SliceP, 64, 64, 64, 26)
	r := NewReconstructor(s, 26, 40.0, nil)
	_, _, ok := r.EvaluateInter(0, 0, 32)
	if ok {
		t.Error("EvaluateInter returned ok=true with no reference pictures")
	}
}

func TestEvaluateInterMotionCompensatesAgainstReference(t *testing.T) {
	ref := newState(0, cu.SliceI, 64, 64, 64, 26)
	fillGradient(ref.Frame.SrcY, 100)
	refRecon := NewReconstructor(ref, 26, 40.0, nil)
	if _, _, ok := refRecon.EvaluateIntra(0, 0, 32); !ok {
		t.Fatal("reference EvaluateIntra failed")
	}

	cur := newState(1, cu.SliceP, 64, 64, 64, 26)
	fillGradient(cur.Frame.SrcY, 102)
	fillGradient(cur.Frame.SrcU, 128)
	fillGradient(cur.Frame.SrcV, 128)

	r := NewReconstructor(cur, 26, 40.0, []*cu.Frame{ref.Frame})
	got, _, ok := r.EvaluateInter(0, 0, 32)
	if !ok {
		t.Fatal("EvaluateInter returned ok=false with a reference present")
	}
	if got.Type != cu.TypeInter && got.Type != cu.TypeSkip {
		t.Errorf("Type = %v, want TypeInter or TypeSkip", got.Type)
	}

	if _, ok := r.CoeffSource(0, 0, 0, 32); !ok {
		t.Error("CoeffSource(luma) missing after EvaluateInter")
	}
}
