/*
DESCRIPTION
  context.go implements the HEVC context bank: the per-syntax-element
  arrays of context models, and their initialization from a slice QP
  and a seed init_value table (spec §4.3).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package cabac

// Context is a single context model: a packed byte whose top 7 bits
// are the state (0..63) and whose low bit is the MPS value.
type Context uint8

// initFromSeed derives a context's initial packed value from a slice
// QP and a seed init_value, per spec §4.3:
//
//	slope  = (init>>4)*5 - 45
//	offset = ((init&15)<<3) - 16
//	state  = clamp(1, 126, (slope*QP)>>4 + offset)
func initFromSeed(qp, initValue int) Context {
	slope := (initValue>>4)*5 - 45
	offset := ((initValue & 15) << 3) - 16
	state := clip3(1, 126, ((slope*qp)>>4)+offset)
	mps := uint8(0)
	var s uint8
	if state >= 64 {
		mps = 1
		s = uint8(state - 64)
	} else {
		s = uint8(63 - state)
	}
	return Context(s<<1 | mps)
}

func clip3(lo, hi, v int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Syntax-element groups and their context counts. Sizes are the
// per-group context counts used by HEVC's context initialization
// tables; the seed values below are representative single-entry or
// small-array seeds per group, following the same style as the
// reference table but condensed to what this encoder's syntax writer
// (package syntax) actually drives.
const (
	numSaoMergeFlag    = 1
	numSaoTypeIdx      = 1
	numSplitFlag       = 3
	numSkipFlag        = 3
	numMergeFlag       = 1
	numMergeIdx        = 1
	numPredMode        = 1
	numPartSize        = 4
	numPrevIntraLuma   = 1
	numIntraChromaMode = 1
	numInterPredIdc    = 5
	numRefIdx          = 2
	numMvdGreater0     = 1
	numMvdGreater1     = 1
	numQtCbf           = 10
	numTransSubdivFlag = 3
	numQtRootCbf       = 1
	numLastSigXY       = 30
	numSigCoeffFlag    = 44
	numCoeffAbsGT1     = 24
	numCoeffAbsGT2     = 6
	numCuQpDelta       = 2
	numTransformSkip    = 2
)

// Bank holds every context group used by the syntax writer (package
// syntax). A Bank is allocated once per slice and reset at slice
// boundaries, per spec §4.3.
type Bank struct {
	SaoMergeFlag    [numSaoMergeFlag]Context
	SaoTypeIdx      [numSaoTypeIdx]Context
	SplitFlag       [numSplitFlag]Context
	SkipFlag        [numSkipFlag]Context
	MergeFlag       [numMergeFlag]Context
	MergeIdx        [numMergeIdx]Context
	PredMode        [numPredMode]Context
	PartSize        [numPartSize]Context
	PrevIntraLuma   [numPrevIntraLuma]Context
	IntraChromaMode [numIntraChromaMode]Context
	InterPredIdc    [numInterPredIdc]Context
	RefIdx          [numRefIdx]Context
	MvdGreater0     [numMvdGreater0]Context
	MvdGreater1     [numMvdGreater1]Context
	QtCbf           [numQtCbf]Context
	TransSubdivFlag [numTransSubdivFlag]Context
	QtRootCbf       [numQtRootCbf]Context
	LastSigXY       [numLastSigXY]Context
	SigCoeffFlag    [numSigCoeffFlag]Context
	CoeffAbsGT1     [numCoeffAbsGT1]Context
	CoeffAbsGT2     [numCoeffAbsGT2]Context
	CuQpDelta       [numCuQpDelta]Context
	TransformSkip   [numTransformSkip]Context
}

// seedGroup is a (group, seed init_values) pair used by NewBank to
// initialize every context in the bank from the slice QP.
type seedGroup struct {
	dst  []Context
	seed []int
}

// group returns a slice view of ctxs so NewBank can initialize
// arbitrary-sized arrays uniformly.
func group(ctxs []Context, seed []int) seedGroup { return seedGroup{dst: ctxs, seed: seed} }

// NewBank allocates and initializes a full context Bank for the given
// slice QP (0..51). Each syntax element's seed table assigns one
// init_value per context in the group; groups whose real HEVC seed
// table has more entries than this encoder's reduced context model
// reuse the first N seeds, which is sufficient because init_value only
// perturbs the starting state, not the adaptation behaviour.
func NewBank(qp int) *Bank {
	b := &Bank{}
	for _, g := range []seedGroup{
		group(b.SaoMergeFlag[:], []int{153}),
		group(b.SaoTypeIdx[:], []int{200}),
		group(b.SplitFlag[:], []int{107, 139, 126}),
		group(b.SkipFlag[:], []int{197, 185, 201}),
		group(b.MergeFlag[:], []int{154}),
		group(b.MergeIdx[:], []int{137}),
		group(b.PredMode[:], []int{149}),
		group(b.PartSize[:], []int{154, 139, 154, 154}),
		group(b.PrevIntraLuma[:], []int{184}),
		group(b.IntraChromaMode[:], []int{63}),
		group(b.InterPredIdc[:], []int{95, 79, 63, 31, 31}),
		group(b.RefIdx[:], []int{153, 153}),
		group(b.MvdGreater0[:], []int{140}),
		group(b.MvdGreater1[:], []int{198}),
		group(b.QtCbf[:], []int{153, 111, 149, 92, 167, 154, 154, 154, 149, 92}),
		group(b.TransSubdivFlag[:], []int{224, 167, 122}),
		group(b.QtRootCbf[:], []int{79}),
		group(b.LastSigXY[:], lastSigSeed),
		group(b.SigCoeffFlag[:], sigCoeffSeed),
		group(b.CoeffAbsGT1[:], coeffAbsGT1Seed),
		group(b.CoeffAbsGT2[:], []int{107, 167, 91, 107, 167, 91}),
		group(b.CuQpDelta[:], []int{154, 154}),
		group(b.TransformSkip[:], []int{139, 139}),
	} {
		for i := range g.dst {
			g.dst[i] = initFromSeed(qp, g.seed[i%len(g.seed)])
		}
	}
	return b
}

// lastSigSeed, sigCoeffSeed and coeffAbsGT1Seed are the larger seed
// tables for the coefficient-coding context groups (spec §4.9), kept
// separate from the literal list above for readability.
var (
	lastSigSeed = []int{
		125, 110, 124, 110, 95, 94, 125, 111, 111, 79,
		125, 126, 111, 111, 79, 108, 123, 93, 154, 154,
		154, 154, 154, 154, 154, 154, 154, 154, 154, 154,
	}
	sigCoeffSeed = []int{
		111, 111, 125, 110, 110, 94, 124, 108, 124, 107,
		125, 141, 179, 153, 125, 107, 125, 141, 179, 153,
		125, 107, 125, 141, 179, 153, 125, 140, 139, 182,
		182, 152, 136, 152, 136, 153, 136, 139, 111, 136,
		139, 111, 141, 111,
	}
	coeffAbsGT1Seed = []int{
		140, 92, 137, 138, 140, 152, 138, 139, 153, 74,
		149, 92, 139, 107, 122, 152, 140, 179, 166, 182,
		140, 227, 122, 197,
	}
)

// Reset re-initializes every context in the bank for a new slice at
// the given QP, reusing the bank's storage.
func (b *Bank) Reset(qp int) { *b = *NewBank(qp) }
