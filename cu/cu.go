/*
DESCRIPTION
  cu.go defines the Coding Unit record (spec §3): the leaf of the
  quad-tree search over a 64x64 CTU, down to 8x8 (with 4x4 luma
  intra sub-PUs addressed separately by the CU array).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package cu defines the Coding Unit record, the per-frame CU array
// that addresses it at 4x4 granularity, and the video Frame that owns
// the reconstructed/source planes and the array.
package cu

// Type is the CU's coding type.
type Type uint8

const (
	TypeNotSet Type = iota
	TypeIntra
	TypeInter
	TypeSkip
	TypePCM
)

// PartMode is the PU partition mode of a CU.
type PartMode uint8

const (
	Part2Nx2N PartMode = iota
	Part2NxN
	PartNx2N
	PartNxN
	Part2NxnU
	Part2NxnD
	PartnLx2N
	PartnRx2N
)

// MV is a motion vector in quarter-pel units.
type MV struct{ X, Y int16 }

// Add returns the component-wise sum of two MVs.
func (m MV) Add(o MV) MV { return MV{m.X + o.X, m.Y + o.Y} }

// InterInfo holds everything about a CU's inter-prediction decision
// for one prediction list.
type InterInfo struct {
	RefIdx   int8
	MV       MV
	MVPIdx   int8
	MVD      MV
	MergeIdx int8
}

// CU is the quad-tree leaf record described in spec §3.
type CU struct {
	Depth      uint8
	TrDepth    uint8
	Type       Type
	Part       PartMode

	// CbfY, CbfU, CbfV are the coded-block-flag triple.
	CbfY, CbfU, CbfV bool

	Merged  bool
	Skipped bool

	// IntraModeY holds up to four luma sub-PU intra modes (NxN uses
	// all four; 2Nx2N uses only index 0).
	IntraModeY [4]uint8
	IntraModeC uint8

	// L0, L1 are the inter prediction records for lists 0 and 1.
	// Inter.RefIdx == -1 means the list is unused.
	L0, L1 InterInfo

	// QP is the CU's quantization parameter, set by the CU search
	// driver (package search) from the per-CTU rate control decision
	// plus any signalled cu_qp_delta.
	QP int8
}

// Zero returns the zero-value CU record, i.e. TypeNotSet with both
// inter lists disabled.
func Zero() CU {
	return CU{
		Type: TypeNotSet,
		L0:   InterInfo{RefIdx: -1, MergeIdx: -1},
		L1:   InterInfo{RefIdx: -1, MergeIdx: -1},
	}
}

// IsInter reports whether the CU was coded INTER or SKIP.
func (c *CU) IsInter() bool { return c.Type == TypeInter || c.Type == TypeSkip }

// AllZeroCBF reports whether every colour component's CBF is clear,
// the condition under which the CU search driver (spec §4.8 step 2)
// promotes an inter CU to SKIP.
func (c *CU) AllZeroCBF() bool { return !c.CbfY && !c.CbfU && !c.CbfV }
