/*
DESCRIPTION
  state.go defines one encoder state (spec §3 "Pipeline state"): the
  bitstream builder, CABAC engine and context bank, the frame being
  built, its reference-picture set, rate-control accumulators and a
  completion flag. States live in a ring of owf+1 (ring.go).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pipeline

import (
	"sync"
	"sync/atomic"

	"github.com/ausocean/hevc/bitstream"
	"github.com/ausocean/hevc/cabac"
	"github.com/ausocean/hevc/cu"
	"github.com/ausocean/hevc/ratecontrol"
	"github.com/ausocean/hevc/search"
	"github.com/ausocean/hevc/syntax"
)

// Substream is one independently CABAC-coded bitstream segment: either
// a whole tile or one wavefront row within a tile (spec §3: "CABAC
// state is recreated per substream (wavefront row or tile)"). Giving
// each (tile, row) pair its own Sink/Encoder/Bank/Writer means CTU
// tasks that the wavefront scheduler runs concurrently never touch the
// same CABAC state, since two tasks are only ever scheduled
// concurrently when they belong to different rows or different tiles
// (spec §4.12's dependency chain already serializes same-row,
// same-tile tasks).
type Substream struct {
	Sink   *bitstream.Sink
	CABAC  *cabac.Encoder
	Bank   *cabac.Bank
	Writer *syntax.CTUWriter
}

// newSubstream allocates a Substream with a fresh CABAC encoder and
// context bank seeded at qp.
func newSubstream(qp int) *Substream {
	sink := bitstream.NewSink(1024)
	return &Substream{
		Sink:  sink,
		CABAC: cabac.NewEncoder(sink),
		Bank:  cabac.NewBank(qp),
	}
}

// Flush terminates this substream's CABAC stream (terminating bin,
// residual bits, rbsp_stop_one_bit and byte alignment) and returns its
// emulation-prevented bytes.
func (sub *Substream) Flush() bitstream.Chunk {
	sub.CABAC.Flush()
	return sub.Sink.TakeChunks()
}

// State carries everything needed to code one picture from admission
// to finalized NAL output.
type State struct {
	Frame *cu.Frame

	WorkTree *search.WorkTree

	// Substreams holds one entry per (tile, wavefront-row) pair, indexed
	// [tileIndex][row]. Populated by the orchestrator once picture
	// geometry and tiling are known (Pipeline.EncodePicture), after
	// which every CTU task looks up its own substream rather than
	// sharing one CABAC engine across the worker pool.
	Substreams [][]*Substream

	Refs []*cu.Frame

	// GOPIndex is this picture's position within its GOP, used to look
	// up its hierarchical layer and QP offset (ratecontrol.GOPStructure).
	GOPIndex int
	Lambda   *ratecontrol.Model
	QP       int

	Graph *TaskGraph

	// reconstructed is set once this state's reconstruction and
	// loop-filtering are both complete, gating any later state's
	// cross-frame CTU dependency on this one (spec §4.12).
	reconstructed int32

	mu   sync.Mutex
	done bool
}

// newState allocates a fresh State for poc, sized to cover width x
// height at ctuSize. Substreams are populated separately, once the
// orchestrator knows the picture's tile layout.
func newState(poc int, slice cu.SliceType, width, height, ctuSize, qp int) *State {
	frame := cu.NewFrame(poc, slice, width, height, ctuSize)
	tree := search.NewWorkTree(frame.CUs.WidthCU*cu.SCU, frame.CUs.HeightCU*cu.SCU)
	// The work tree's finest level is the single CU array that ends up
	// holding every committed decision regardless of the depth it was
	// decided at (spec §4.8 step 4's CopyDown always reaches MaxDepth),
	// so the frame's own CU array aliases it rather than duplicating it.
	frame.CUs = tree.At(search.MaxDepth)
	return &State{
		Frame:    frame,
		WorkTree: tree,
		QP:       qp,
	}
}

// initSubstreams builds the (tile, row) substream grid for this state:
// numTiles columns of tile, each with rowCount independently
// CABAC-coded wavefront rows, every one seeded at qp.
func (s *State) initSubstreams(numTiles, rowCount, qp int) {
	s.Substreams = make([][]*Substream, numTiles)
	for t := range s.Substreams {
		s.Substreams[t] = make([]*Substream, rowCount)
		for r := range s.Substreams[t] {
			s.Substreams[t][r] = newSubstream(qp)
		}
	}
}

// substreamFor returns the substream CTU (row,col) belongs to, given
// tileWidth CTUs per tile (0 disables tiling, so every column maps to
// the single tile 0).
func (s *State) substreamFor(row, col, tileWidth int) *Substream {
	tileIdx := 0
	if tileWidth > 0 {
		tileIdx = col / tileWidth
	}
	return s.Substreams[tileIdx][row]
}

// MarkReconstructed records that this state's frame is fully
// reconstructed and loop-filtered, releasing any later state's
// cross-frame dependency gate on it.
func (s *State) MarkReconstructed() { atomic.StoreInt32(&s.reconstructed, 1) }

// Reconstructed reports whether MarkReconstructed has been called.
func (s *State) Reconstructed() bool { return atomic.LoadInt32(&s.reconstructed) == 1 }

// MarkDone records that this state's bitstream has been finalized and
// its frame may be released from the ring once unreferenced.
func (s *State) MarkDone() {
	s.mu.Lock()
	s.done = true
	s.mu.Unlock()
}

// Done reports whether MarkDone has been called.
func (s *State) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// release drops this state's hold on every reference frame it used,
// returning true for each one whose refcount reached zero (spec §5:
// "once the count reaches zero, the frame's buffers are returned to
// an allocator pool").
func (s *State) release() []*cu.Frame {
	var freed []*cu.Frame
	for _, r := range s.Refs {
		if r.Unref() {
			freed = append(freed, r)
		}
	}
	s.Refs = nil
	return freed
}
