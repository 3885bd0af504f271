/*
DESCRIPTION
  reconstruct.go binds the CU search driver's Hooks (package search) to
  concrete pixel-level work: intra/inter prediction, transform,
  quantization and the inverse path, producing a reconstructed CU and
  caching its coefficients for the syntax writer's CoeffSource (spec
  §4.4-§4.9 wired together per the data-flow description in spec §2).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pipeline

import (
	"math"

	"github.com/ausocean/hevc/cu"
	"github.com/ausocean/hevc/inter"
	"github.com/ausocean/hevc/intra"
	"github.com/ausocean/hevc/rdcost"
	"github.com/ausocean/hevc/transform"
)

// coeffKey addresses one transform block's cached coefficients.
type coeffKey struct {
	plane, x, y, size int
}

type cachedCoeff struct {
	levels []int32
	cbf    bool
}

// Reconstructor evaluates candidate CU decisions for one picture,
// writing reconstructed samples into the state's frame and caching
// transform coefficients for the syntax writer to retrieve afterwards.
type Reconstructor struct {
	State  *State
	Lambda float64
	QP     int
	Refs   []*cu.Frame

	cache map[coeffKey]cachedCoeff
}

// NewReconstructor returns a Reconstructor for s, coding at qp with
// the given rate-distortion lambda and reference-picture set.
func NewReconstructor(s *State, qp int, lambda float64, refs []*cu.Frame) *Reconstructor {
	return &Reconstructor{State: s, QP: qp, Lambda: lambda, Refs: refs, cache: make(map[coeffKey]cachedCoeff)}
}

// CoeffSource adapts the Reconstructor's cache to syntax.CTUWriter's
// CoeffSource field.
func (r *Reconstructor) CoeffSource(plane, x, y, size int) ([]int32, bool) {
	c, ok := r.cache[coeffKey{plane, x, y, size}]
	if !ok {
		return nil, false
	}
	return c.levels, c.cbf
}

// EvaluateIntra implements search.Hooks.EvaluateIntra: luma 2Nx2N
// prediction over a short candidate list of rough intra modes,
// refined by a true transform/quant pass on the best candidate.
func (r *Reconstructor) EvaluateIntra(x, y, size int) (cu.CU, float64, bool) {
	f := r.State.Frame
	avail := intra.Avail{
		Left: x > 0,
		Top:  y > 0,
		TopLeft: x > 0 && y > 0,
	}
	sample := func(sx, sy int) int32 { return int32(f.RecY.At(sx, sy)) }
	nb := intra.GatherNeighbours(x, y, size, avail, sample)
	nb.Smooth()

	src := make([]int32, size*size)
	for j := 0; j < size; j++ {
		for i := 0; i < size; i++ {
			src[j*size+i] = int32(f.SrcY.At(x+i, y+j))
		}
	}

	candidates := []int{intra.ModePlanar, intra.ModeDC, 10, 26}
	bestMode := candidates[0]
	bestCost := math.MaxFloat64
	var bestPred, bestLevels []int32

	for _, mode := range candidates {
		pred := make([]int32, size*size)
		intra.Predict(pred, size, mode, nb)
		cost := rdcost.Estimate(rdcost.Level0, pred, src, r.Lambda, nil, nil)
		if cost < bestCost {
			bestCost, bestMode, bestPred = cost, mode, pred
		}
	}

	resid := make([]int32, size*size)
	for i := range resid {
		resid[i] = src[i] - bestPred[i]
	}
	coef := make([]int32, size*size)
	transform.Forward(coef, resid, size, 8, size == 4)
	qr := transform.Quantize(coef, size, r.QP, 8, nil)
	dq := transform.Dequantize(qr.Levels, size, r.QP, 8, nil)
	recRes := make([]int32, size*size)
	transform.Inverse(recRes, dq, size, 8, size == 4)

	recon := make([]int32, size*size)
	for i := range recon {
		v := bestPred[i] + recRes[i]
		recon[i] = clip8(v)
	}
	for j := 0; j < size; j++ {
		for i := 0; i < size; i++ {
			f.RecY.Set(x+i, y+j, uint8(recon[j*size+i]))
		}
	}

	trueCost := rdcost.Estimate(rdcost.Level1, recon, src, r.Lambda, qr.Levels, nil)
	bestLevels = qr.Levels
	r.cache[coeffKey{0, x, y, size}] = cachedCoeff{levels: bestLevels, cbf: qr.NonZero}
	r.reconstructChroma(x, y, size, bestMode)

	rec := cu.Zero()
	rec.Type = cu.TypeIntra
	rec.Depth = depthForSize(size)
	rec.CbfY = qr.NonZero
	rec.IntraModeY = [4]uint8{uint8(bestMode), uint8(bestMode), uint8(bestMode), uint8(bestMode)}
	rec.IntraModeC = uint8(intra.DeriveChromaMode(intra.ChromaDM, uint8(bestMode)))
	rec.QP = int8(r.QP)
	return rec, trueCost, true
}

// reconstructChroma runs a DC-only chroma prediction and transform
// pass for the half-resolution Cb/Cr block co-sited with the luma
// block at (x,y,size); chroma is skipped below an 8x8 luma block since
// HEVC 4:2:0 chroma transform blocks bottom out at 4x4.
func (r *Reconstructor) reconstructChroma(x, y, size int, lumaMode int) {
	csize := size / 2
	if csize < 4 {
		return
	}
	cx, cy := x/2, y/2
	f := r.State.Frame
	planes := [2]*cu.Plane{f.SrcU, f.SrcV}
	recPlanes := [2]*cu.Plane{f.RecU, f.RecV}
	for p := 0; p < 2; p++ {
		avail := intra.Avail{Left: cx > 0, Top: cy > 0, TopLeft: cx > 0 && cy > 0}
		sample := func(sx, sy int) int32 { return int32(recPlanes[p].At(sx, sy)) }
		nb := intra.GatherNeighbours(cx, cy, csize, avail, sample)
		nb.Smooth()

		src := make([]int32, csize*csize)
		for j := 0; j < csize; j++ {
			for i := 0; i < csize; i++ {
				src[j*csize+i] = int32(planes[p].At(cx+i, cy+j))
			}
		}
		pred := make([]int32, csize*csize)
		intra.Predict(pred, csize, intra.ModeDC, nb)

		resid := make([]int32, csize*csize)
		for i := range resid {
			resid[i] = src[i] - pred[i]
		}
		coef := make([]int32, csize*csize)
		transform.Forward(coef, resid, csize, 8, false)
		qr := transform.Quantize(coef, csize, r.QP, 8, nil)
		dq := transform.Dequantize(qr.Levels, csize, r.QP, 8, nil)
		recRes := make([]int32, csize*csize)
		transform.Inverse(recRes, dq, csize, 8, false)

		for j := 0; j < csize; j++ {
			for i := 0; i < csize; i++ {
				v := clip8(pred[j*csize+i] + recRes[j*csize+i])
				recPlanes[p].Set(cx+i, cy+j, uint8(v))
			}
		}
		r.cache[coeffKey{p + 1, cx, cy, csize}] = cachedCoeff{levels: qr.Levels, cbf: qr.NonZero}
	}
}

// EvaluateInter implements search.Hooks.EvaluateInter: a single-
// reference hexagon motion search followed by motion-compensated
// reconstruction and the same transform/quant pass as intra.
func (r *Reconstructor) EvaluateInter(x, y, size int) (cu.CU, float64, bool) {
	if len(r.Refs) == 0 {
		return cu.CU{}, 0, false
	}
	ref := r.Refs[0]
	f := r.State.Frame

	src := make([]int32, size*size)
	for j := 0; j < size; j++ {
		for i := 0; i < size; i++ {
			src[j*size+i] = int32(f.SrcY.At(x+i, y+j))
		}
	}
	sad := func(refX, refY, w, h int) int {
		sum := 0
		for j := 0; j < h; j++ {
			for i := 0; i < w; i++ {
				d := int(f.SrcY.At(x+i, y+j)) - int(ref.RecY.At(refX+i, refY+j))
				if d < 0 {
					d = -d
				}
				sum += d
			}
		}
		return sum
	}
	res := inter.Search(&inter.Params{
		Lambda: r.Lambda,
		X:      x, Y: y, W: size, H: size,
		Origin: [2]int{x, y},
		MVPred: [2]int{0, 0},
		SAD:    sad,
	})

	pred := make([]int32, size*size)
	inter.PredictLuma(pred, size, size, ref.RecY, x, y, res.MV)

	resid := make([]int32, size*size)
	for i := range resid {
		resid[i] = src[i] - pred[i]
	}
	coef := make([]int32, size*size)
	transform.Forward(coef, resid, size, 8, false)
	qr := transform.Quantize(coef, size, r.QP, 8, nil)
	dq := transform.Dequantize(qr.Levels, size, r.QP, 8, nil)
	recRes := make([]int32, size*size)
	transform.Inverse(recRes, dq, size, 8, false)

	recon := make([]int32, size*size)
	for i := range recon {
		recon[i] = clip8(pred[i] + recRes[i])
	}
	for j := 0; j < size; j++ {
		for i := 0; i < size; i++ {
			f.RecY.Set(x+i, y+j, uint8(recon[j*size+i]))
		}
	}

	trueCost := rdcost.Estimate(rdcost.Level1, recon, src, r.Lambda, qr.Levels, nil)
	r.cache[coeffKey{0, x, y, size}] = cachedCoeff{levels: qr.Levels, cbf: qr.NonZero}
	r.reconstructChroma(x, y, size, intra.ModeDC)

	rec := cu.Zero()
	rec.Type = cu.TypeInter
	rec.Depth = depthForSize(size)
	rec.CbfY = qr.NonZero
	rec.L0 = cu.InterInfo{RefIdx: 0, MV: res.MV, MergeIdx: -1}
	rec.QP = int8(r.QP)
	if rec.AllZeroCBF() {
		rec.Type = cu.TypeSkip
		rec.Skipped = true
	}
	return rec, trueCost, true
}

func depthForSize(size int) uint8 {
	switch size {
	case 64:
		return 0
	case 32:
		return 1
	case 16:
		return 2
	default:
		return 3
	}
}

func clip8(v int32) int32 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
