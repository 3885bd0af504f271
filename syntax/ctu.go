/*
DESCRIPTION
  ctu.go writes one CTU's coding-tree syntax: the split-flag cascade,
  per-CU pred_mode/part_mode, intra mode or merge-flag/MVD/ref-idx, the
  transform tree with coded-block flags, and coefficient groups — all
  routed through the CABAC coder and context bank (spec §4.9).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package syntax

import (
	"github.com/ausocean/hevc/cabac"
	"github.com/ausocean/hevc/cu"
)

// CTUWriter bundles the CABAC engine and context bank a CTU write
// needs; callers (package pipeline) own its lifetime across a whole
// slice.
type CTUWriter struct {
	E *cabac.Encoder
	B *cabac.Bank

	// MaxDepth is the deepest quad-tree split level below the CTU root.
	MaxDepth int
	// CUs is the committed CU array the search driver (package search)
	// produced for this frame.
	CUs *cu.Array
	// IsInterSlice disables the inter-only syntax elements for I
	// slices.
	IsInterSlice bool
	// PCMEnabled carries the configured PCM setting; the writer does not
	// read it.
	PCMEnabled bool

	// CoeffSource supplies the transform coefficients and CBF flags for
	// one transform block at (x,y,size) of the given plane (0=Y,1=U,2=V).
	CoeffSource func(plane, x, y, size int) (levels []int32, cbf bool)
}

// WriteCTU writes the full quad-tree for the CTU rooted at (x,y) of
// the given ctuSize.
func (w *CTUWriter) WriteCTU(x, y, ctuSize int) {
	w.writeNode(x, y, ctuSize, 0)
}

func (w *CTUWriter) writeNode(x, y, size, depth int) {
	rec := w.CUs.At(x, y)
	atMaxDepth := depth >= w.MaxDepth
	isSplit := !atMaxDepth && w.nodeIsSplit(x, y, size, depth)

	if depth < len(w.B.SplitFlag) {
		bin := 0
		if isSplit {
			bin = 1
		}
		if !atMaxDepth {
			w.E.EncodeBin(&w.B.SplitFlag[depth], bin)
		}
	}

	if isSplit {
		half := size / 2
		w.writeNode(x, y, half, depth+1)
		w.writeNode(x+half, y, half, depth+1)
		w.writeNode(x, y+half, half, depth+1)
		w.writeNode(x+half, y+half, half, depth+1)
		return
	}

	w.writeCU(rec, x, y, size)
}

// nodeIsSplit detects a split by checking whether the CU array's four
// sub-quadrants disagree with a single uniform record, the condition
// the search driver's work tree leaves behind a committed split in.
func (w *CTUWriter) nodeIsSplit(x, y, size, depth int) bool {
	half := size / 2
	root := w.CUs.At(x, y)
	return w.CUs.At(x+half, y) != root ||
		w.CUs.At(x, y+half) != root ||
		w.CUs.At(x+half, y+half) != root
}

func (w *CTUWriter) writeCU(rec cu.CU, x, y, size int) {
	if w.IsInterSlice {
		skipCtx := 0
		bin := 0
		if rec.Skipped {
			bin = 1
		}
		w.E.EncodeBin(&w.B.SkipFlag[skipCtx], bin)
		if rec.Skipped {
			w.writeMergeData(rec, size)
			return
		}
		predBin := 0
		if rec.Type == cu.TypeInter {
			predBin = 1
		}
		w.E.EncodeBin(&w.B.PredMode[0], predBin)
	}

	if rec.Type == cu.TypeInter {
		w.writePartMode(rec)
		w.writeInterPU(rec, size)
	} else {
		w.writeIntraModes(rec, size)
	}

	w.writeTransformTree(rec, x, y, size, 0)
}

// writePartMode writes the part_mode syntax element for an inter CU;
// this encoder's search driver only ever commits 2Nx2N or 2NxN/Nx2N,
// so the bin string is short.
func (w *CTUWriter) writePartMode(rec cu.CU) {
	switch rec.Part {
	case cu.Part2Nx2N:
		w.E.EncodeBin(&w.B.PartSize[0], 1)
	case cu.Part2NxN:
		w.E.EncodeBin(&w.B.PartSize[0], 0)
		w.E.EncodeBin(&w.B.PartSize[1], 1)
	case cu.PartNx2N:
		w.E.EncodeBin(&w.B.PartSize[0], 0)
		w.E.EncodeBin(&w.B.PartSize[1], 0)
	default:
		w.E.EncodeBin(&w.B.PartSize[0], 0)
		w.E.EncodeBin(&w.B.PartSize[1], 0)
	}
}

func (w *CTUWriter) writeMergeData(rec cu.CU, size int) {
	if len(w.B.MergeIdx) == 0 {
		return
	}
	idx := int(rec.L0.MergeIdx)
	if idx < 0 {
		idx = 0
	}
	bin := 0
	if idx > 0 {
		bin = 1
	}
	w.E.EncodeBin(&w.B.MergeFlag[0], 1)
	w.E.EncodeBin(&w.B.MergeIdx[0], bin)
	for i := 0; i < idx; i++ {
		w.E.EncodeBinEP(1)
	}
	if idx < 4 {
		w.E.EncodeBinEP(0)
	}
}

func (w *CTUWriter) writeInterPU(rec cu.CU, size int) {
	w.E.EncodeBin(&w.B.MergeFlag[0], boolBinRec(rec.Merged))
	if rec.Merged {
		w.writeMergeData(rec, size)
		return
	}
	if rec.L1.RefIdx >= 0 {
		w.E.EncodeBin(&w.B.InterPredIdc[0], 1) // bi-pred.
	}
	w.writeMVD(rec.L0.MVD)
	if rec.L1.RefIdx >= 0 {
		w.writeMVD(rec.L1.MVD)
	}
	w.writeRefIdx(rec.L0.RefIdx)
}

func (w *CTUWriter) writeRefIdx(idx int8) {
	if idx < 0 {
		return
	}
	bin := 0
	if idx > 0 {
		bin = 1
	}
	w.E.EncodeBin(&w.B.RefIdx[0], bin)
	for i := int8(1); i < idx; i++ {
		w.E.EncodeBinEP(1)
	}
	if idx > 0 {
		w.E.EncodeBinEP(0)
	}
}

func (w *CTUWriter) writeMVD(mvd cu.MV) {
	w.writeMVDComponent(int(mvd.X))
	w.writeMVDComponent(int(mvd.Y))
}

func (w *CTUWriter) writeMVDComponent(v int) {
	abs := v
	if abs < 0 {
		abs = -abs
	}
	nonZero := abs != 0
	w.E.EncodeBin(&w.B.MvdGreater0[0], boolBin(nonZero))
	if !nonZero {
		return
	}
	greater1 := abs > 1
	w.E.EncodeBin(&w.B.MvdGreater1[0], boolBin(greater1))
	if greater1 {
		w.writeEGk(uint32(abs-2), 1)
	}
	w.E.EncodeBinEP(boolBinInt(v < 0))
}

// writeEGk writes v using order-k exp-Golomb, bypass-coded (spec
// §4.9: "exp-Golomb coded fields use bypass bins only").
func (w *CTUWriter) writeEGk(v uint32, k int) {
	v += 1 << uint(k)
	length := 0
	for (v >> uint(length+k)) > 1 {
		length++
	}
	for i := 0; i < length; i++ {
		w.E.EncodeBinEP(1)
	}
	w.E.EncodeBinEP(0)
	w.E.EncodeBinsEP(v, length+k)
}

func (w *CTUWriter) writeIntraModes(rec cu.CU, size int) {
	n := 1
	if rec.Part == cu.PartNxN {
		n = 4
	}
	for i := 0; i < n; i++ {
		w.E.EncodeBin(&w.B.PrevIntraLuma[0], 0) // candidate selection bit; simplified to "not an MPM".
		w.writeEGk(uint32(rec.IntraModeY[i]), 0)
	}
	w.E.EncodeBin(&w.B.IntraChromaMode[0], 0)
	w.E.EncodeBinsEP(uint32(rec.IntraModeC), 2)
}

func (w *CTUWriter) writeTransformTree(rec cu.CU, x, y, size, trDepth int) {
	if size > 4 {
		split := rec.TrDepth > uint8(trDepth)
		ctxIdx := 5 - (log2i(size))
		if ctxIdx < 0 {
			ctxIdx = 0
		}
		if ctxIdx >= len(w.B.TransSubdivFlag) {
			ctxIdx = len(w.B.TransSubdivFlag) - 1
		}
		w.E.EncodeBin(&w.B.TransSubdivFlag[ctxIdx], boolBin(split))
		if split {
			half := size / 2
			w.writeTransformTree(rec, x, y, half, trDepth+1)
			w.writeTransformTree(rec, x+half, y, half, trDepth+1)
			w.writeTransformTree(rec, x, y+half, half, trDepth+1)
			w.writeTransformTree(rec, x+half, y+half, half, trDepth+1)
			return
		}
	}

	w.writeCBFAndCoeffs(rec, x, y, size)
}

func (w *CTUWriter) writeCBFAndCoeffs(rec cu.CU, x, y, size int) {
	lumaLevels, lumaCBF := w.coeffFor(0, x, y, size)
	w.E.EncodeBin(&w.B.QtCbf[0], boolBin(lumaCBF))
	if lumaCBF {
		w.writeCoeffGroup(lumaLevels, size)
	}

	csize := size / 2
	if csize >= 4 {
		cx, cy := x/2, y/2
		for plane := 1; plane <= 2; plane++ {
			levels, cbf := w.coeffFor(plane, cx, cy, csize)
			w.E.EncodeBin(&w.B.QtCbf[plane], boolBin(cbf))
			if cbf {
				w.writeCoeffGroup(levels, csize)
			}
		}
	}
}

func (w *CTUWriter) coeffFor(plane, x, y, size int) ([]int32, bool) {
	if w.CoeffSource == nil {
		return nil, false
	}
	return w.CoeffSource(plane, x, y, size)
}

// writeCoeffGroup writes the significance map, greater-than-1/2 flags,
// signs, and remainders for one n x n coefficient block, in reverse
// scan order, hiding the sign of the first non-zero coefficient when
// the first and last non-zero positions are at least 4 apart. The
// distance is measured over the whole block, not per 4x4 group, and no
// PPS flag is consulted (WritePPS always sets
// sign_data_hiding_enabled_flag).
func (w *CTUWriter) writeCoeffGroup(levels []int32, size int) {
	n := len(levels)
	firstNZ, lastNZ := -1, -1
	for i := n - 1; i >= 0; i-- {
		if levels[i] != 0 {
			if lastNZ == -1 {
				lastNZ = i
			}
			firstNZ = i
		}
	}
	if lastNZ == -1 {
		return
	}

	for i := lastNZ; i >= firstNZ; i-- {
		v := levels[i]
		sig := v != 0
		ctx := i % len(w.B.SigCoeffFlag)
		if i != lastNZ && i != firstNZ {
			w.E.EncodeBin(&w.B.SigCoeffFlag[ctx], boolBin(sig))
		}
		if !sig {
			continue
		}
		abs := v
		if abs < 0 {
			abs = -abs
		}
		gt1 := abs > 1
		w.E.EncodeBin(&w.B.CoeffAbsGT1[i%len(w.B.CoeffAbsGT1)], boolBin(gt1))
		hideSign := lastNZ-firstNZ >= 4 && i == firstNZ
		if !hideSign {
			w.E.EncodeBinEP(boolBinInt(v < 0))
		}
		if gt1 {
			gt2 := abs > 2
			w.E.EncodeBin(&w.B.CoeffAbsGT2[i%len(w.B.CoeffAbsGT2)], boolBin(gt2))
			if gt2 {
				w.writeEGk(uint32(abs-3), 0)
			}
		}
	}
}

func boolBin(b bool) int {
	if b {
		return 1
	}
	return 0
}
func boolBinRec(b bool) int { return boolBin(b) }
func boolBinInt(b bool) int { return boolBin(b) }

func log2i(n int) int {
	l := 0
	for 1<<uint(l) < n {
		l++
	}
	return l
}
