/*
DESCRIPTION
  orchestrator.go implements the pipeline orchestrator (spec §4.12):
  the overlapping-frames state graph, per-picture CTU task scheduling,
  rate-control feedback and POC-ordered NAL output. One Pipeline
  processes one video sequence at one resolution/configuration.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pipeline

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/ausocean/hevc/bitstream"
	"github.com/ausocean/hevc/config"
	"github.com/ausocean/hevc/cu"
	"github.com/ausocean/hevc/loopfilter"
	"github.com/ausocean/hevc/ratecontrol"
	"github.com/ausocean/hevc/search"
	"github.com/ausocean/hevc/syntax"
)

// ErrShuttingDown is returned by EncodePicture once a prior picture's
// task has set the orchestrator's sticky error flag (spec §5: "a
// failed task sets a sticky error flag ... subsequent tasks may
// observe it and abort early").
var ErrShuttingDown = errors.New("pipeline: orchestrator has a sticky error, refusing new work")

const ctuSize = 64

// NALUnit is one finalized, emulation-prevented NAL payload ready for
// Annex-B start-code prefixing by the external output stage.
type NALUnit struct {
	Type    uint32
	Payload []byte
}

// Output is one picture's finalized bitstream, POC-tagged for the
// orchestrator's output sequencer.
type Output struct {
	POC   int
	NALs  []NALUnit
}

// Pipeline is the overlapping-frames encoder: a ring of in-flight
// States, the rate-control models feeding each one's QP/lambda, and
// the worker pool that drains every picture's CTU task graph.
type Pipeline struct {
	Cfg *config.Config

	Ring *Ring

	gopAllocator *ratecontrol.GOPAllocator
	gopStructure ratecontrol.GOPStructure
	layerModels  [4]*ratecontrol.Model
	ctuWeights   map[int]*ratecontrol.CTUWeights // keyed by GOP layer.

	tracer *Tracer

	ctusX, ctusY int

	mu      sync.Mutex
	sticky  error
	outSeq  *outputSequencer
}

// NewPipeline constructs a Pipeline from a validated Config.
func NewPipeline(cfg *config.Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	gopStructure := ratecontrol.DefaultGOPStructure
	if cfg.GOPPreset == config.GOPLowDelay {
		gopStructure = ratecontrol.GOPStructure{{Layer: 1, QPOffset: 0}}
	}
	p := &Pipeline{
		Cfg:          cfg,
		Ring:         NewRing(int(cfg.OWF)),
		gopAllocator: ratecontrol.NewGOPAllocator(float64(cfg.Bitrate)*1000, float64(cfg.FrameRate), float64(cfg.Width*cfg.Height)),
		gopStructure: gopStructure,
		ctuWeights:   make(map[int]*ratecontrol.CTUWeights),
		tracer:       NewTracer(cfg.TraceLogPath),
		ctusX:        int((cfg.Width + ctuSize - 1) / ctuSize),
		ctusY:        int((cfg.Height + ctuSize - 1) / ctuSize),
		outSeq:       newOutputSequencer(),
	}
	for i := range p.layerModels {
		p.layerModels[i] = ratecontrol.NewModel()
	}
	cfg.Logger.Info("pipeline initialized", "width", cfg.Width, "height", cfg.Height, "owf", cfg.OWF, "tiles", cfg.Tiles)
	return p, nil
}

// Err returns the orchestrator's sticky error, if any task has set
// one.
func (p *Pipeline) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sticky
}

func (p *Pipeline) setSticky(err error) {
	p.mu.Lock()
	if p.sticky == nil {
		p.sticky = err
	}
	p.mu.Unlock()
}

// EncodePicture admits src (a fully populated source Frame, POC and
// slice type already set) into the ring, codes it, and returns its
// finalized NAL units. refPOCs names the reference pictures' POCs;
// each must currently be resident in the ring. Output is returned
// picture-by-picture in call order here, but the caller is expected to
// re-sequence by POC (spec §4.12, §5: "bitstream output is in POC
// order") via Pipeline's Sequence helper when pictures are admitted
// out of order by a reordering GOP structure.
func (p *Pipeline) EncodePicture(ctx context.Context, src *cu.Frame, gopIndex int, refPOCs []int) (Output, error) {
	if err := p.Err(); err != nil {
		return Output{}, ErrShuttingDown
	}

	layer := p.gopStructure.LayerFor(gopIndex)
	qpOffset := p.gopStructure.QPOffsetFor(gopIndex)
	model := p.layerModels[layer]
	avgBPP := p.gopAllocator.AverageBPP()
	lambda := model.PredictLambda(avgBPP)
	qp := clampQP(ratecontrol.QPFromLambda(lambda) + qpOffset)

	s := newState(src.POC, src.Slice, src.Width, src.Height, ctuSize, qp)
	s.Frame.SrcY, s.Frame.SrcU, s.Frame.SrcV = src.SrcY, src.SrcU, src.SrcV
	s.GOPIndex = gopIndex
	s.Lambda = model
	s.QP = qp

	var refs []*cu.Frame
	for _, poc := range refPOCs {
		if rs := p.Ring.ByPOC(poc); rs != nil {
			rs.Frame.Ref()
			refs = append(refs, rs.Frame)
		}
	}
	s.Refs = refs

	if evicted := p.Ring.Admit(s); evicted != nil {
		for _, freed := range evicted.release() {
			_ = freed // returned to an allocator pool in a full implementation.
		}
	}

	// Cfg.Tiles is a tile-column count; the task graph and substreams
	// work in tile widths measured in CTUs.
	tileWidth := 0
	if p.Cfg.Tiles > 1 {
		tileWidth = (p.ctusX + int(p.Cfg.Tiles) - 1) / int(p.Cfg.Tiles)
	}
	graph := NewTaskGraph(p.ctusY, p.ctusX, tileWidth)
	s.Graph = graph
	if len(refs) > 0 {
		graph.SetCrossFrameGate(func(r, c int) bool {
			for _, ref := range refs {
				if rs := p.Ring.ByPOC(ref.POC); rs != nil && !rs.Reconstructed() {
					return false
				}
			}
			return true
		})
	}

	recon := NewReconstructor(s, qp, lambda, refs)
	ctuWeights := p.weightsForLayer(layer, p.ctusX*p.ctusY)
	gopTarget := p.gopAllocator.TargetBits(len(p.gopStructure))
	pictureBits := ratecontrol.PictureBits(gopTarget, avgBPP, layer)
	_ = ctuWeights.Allocate(pictureBits) // per-CTU budget feeds QP-delta signalling in a fuller implementation.

	isInter := src.Slice != cu.SliceI
	numTiles := 1
	if tileWidth > 0 {
		numTiles = (p.ctusX + tileWidth - 1) / tileWidth
	}
	// Every (tile, row) pair gets its own CABAC encoder/context bank and
	// CTUWriter: the wavefront scheduler can run two different rows'
	// tasks concurrently (CTU(r,c) only depends on (r,c-1) and
	// (r-1,c+1)), so sharing one CABAC engine across the worker pool
	// would race on its low/rng/bitsLeft state. Every writer shares the
	// same CU array, since each CTU task only ever writes its own
	// footprint into it regardless of which substream drives it.
	s.initSubstreams(numTiles, p.ctusY, qp)
	cus := s.WorkTree.At(search.MaxDepth)
	for _, tile := range s.Substreams {
		for _, sub := range tile {
			sub.Writer = &syntax.CTUWriter{
				E:            sub.CABAC,
				B:            sub.Bank,
				MaxDepth:     search.MaxDepth,
				CUs:          cus,
				IsInterSlice: isInter,
				PCMEnabled:   p.Cfg.PCMEnabled,
				CoeffSource:  recon.CoeffSource,
			}
		}
	}

	exec := func(ctx context.Context, t *CTUTask) error {
		x, y := t.Col*ctuSize, t.Row*ctuSize
		driver := &search.Driver{
			Lambda: lambda,
			FrameW: src.Width, FrameH: src.Height,
			MinInterDepth: search.DefaultMinInterDepth, MaxInterDepth: search.DefaultMaxInterDepth,
			MinIntraDepth: search.DefaultMinIntraDepth, MaxIntraDepth: search.DefaultMaxIntraDepth,
			Hooks: search.Hooks{
				IsInterSlice:  isInter,
				EvaluateIntra: recon.EvaluateIntra,
				EvaluateInter: recon.EvaluateInter,
			},
			Tree: s.WorkTree,
		}
		driver.Decide(x, y, 0)
		sub := s.substreamFor(t.Row, t.Col, tileWidth)
		sub.Writer.WriteCTU(x, y, ctuSize)
		p.tracer.Tracef("poc=%d ctu=(%d,%d) done", src.POC, t.Row, t.Col)
		return nil
	}

	numWorkers := int(p.Cfg.Tiles)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if err := RunGraph(ctx, graph, numWorkers, exec); err != nil {
		p.setSticky(err)
		return Output{}, err
	}

	applyLoopFilters(s)
	s.MarkReconstructed()

	nalUnits := p.finalize(s)
	actualBits := 0
	for _, tile := range s.Substreams {
		for _, sub := range tile {
			actualBits += sub.CABAC.BinsCoded()
		}
	}
	p.gopAllocator.RecordPicture(actualBits)
	model.Update(lambda, lambda, avgBPP)
	s.MarkDone()

	return Output{POC: src.POC, NALs: nalUnits}, nil
}

// Sequence admits a just-finished Output into the POC-ordering
// coordinator and returns the longest run of pictures now safe to
// write out in order (spec §5).
func (p *Pipeline) Sequence(out Output) []Output {
	return p.outSeq.Push(out)
}

// weightsForLayer returns (creating if absent) the CTUWeights learned
// for a GOP layer.
func (p *Pipeline) weightsForLayer(layer, numCTUs int) *ratecontrol.CTUWeights {
	p.mu.Lock()
	defer p.mu.Unlock()
	w, ok := p.ctuWeights[layer]
	if !ok {
		w = ratecontrol.NewCTUWeights(numCTUs)
		p.ctuWeights[layer] = w
	}
	return w
}

// finalize flushes every substream's CABAC/bitstream (terminating bin,
// byte alignment) and concatenates them in a fixed tile-major,
// row-minor order into one slice-NAL payload, returning that single
// NAL; the VPS/SPS/PPS come from ParamSets instead. The merge order is
// deterministic regardless of which substream actually finishes first,
// so the resulting bytes do not depend on worker-pool thread count
// (spec §8 scenario 6). Entry-point offsets for the per-substream byte
// boundaries are not signalled in the slice header.
func (p *Pipeline) finalize(s *State) []NALUnit {
	var payload []byte
	for _, tile := range s.Substreams {
		for _, sub := range tile {
			payload = append(payload, []byte(sub.Flush())...)
		}
	}

	nalType := uint32(1) // TRAIL_R.
	if s.Frame.Slice == cu.SliceI {
		nalType = 19 // IDR_W_RADL.
	}
	return []NALUnit{{Type: nalType, Payload: payload}}
}

// ParamSets returns the VPS/SPS/PPS NAL payloads for the sequence,
// written once at stream start.
func (p *Pipeline) ParamSets() []NALUnit {
	vps := bitstream.NewSink(64)
	syntax.WriteVPS(vps, 0)

	sps := bitstream.NewSink(64)
	syntax.WriteSPS(sps, syntax.SPSParams{
		VPSID: 0, SPSID: 0,
		ChromaFormatIDC: 1,
		PicWidth:        uint32(p.Cfg.Width),
		PicHeight:       uint32(p.Cfg.Height),
		BitDepthLuma:    uint32(p.Cfg.BitDepth),
		BitDepthChroma:  uint32(p.Cfg.BitDepth),
		Log2MaxPOCLSB:   8,
		CTULog2Size:     6,
		MinCULog2Size:   3,
	})

	pps := bitstream.NewSink(32)
	syntax.WritePPS(pps, syntax.PPSParams{
		PPSID: 0, SPSID: 0,
		InitQP:      int32(p.Cfg.QP),
		NumTileCols: uint32(p.Cfg.Tiles),
	})

	return []NALUnit{
		{Type: 32, Payload: []byte(vps.TakeChunks())},
		{Type: 33, Payload: []byte(sps.TakeChunks())},
		{Type: 34, Payload: []byte(pps.TakeChunks())},
	}
}

// Close flushes the orchestrator's trace log.
func (p *Pipeline) Close() error {
	return p.tracer.Close()
}

func clampQP(qp int) int {
	if qp < 0 {
		return 0
	}
	if qp > 51 {
		return 51
	}
	return qp
}

// applyLoopFilters deblocks the picture's reconstructed luma plane
// across the horizontal edges at CTU boundaries. It does not filter
// vertical edges, edges inside a CTU or the chroma planes, and it does
// not apply SAO.
func applyLoopFilters(s *State) {
	f := s.Frame
	params := loopfilter.DeriveEdgeParams(s.QP, 0, 0)
	w, h := f.RecY.W, f.RecY.H
	for y := ctuSize; y < h; y += ctuSize {
		for x := 0; x < w; x++ {
			line := make([]int32, 8)
			for i := range line {
				line[i] = int32(f.RecY.At(x, y-4+i))
			}
			bs := loopfilter.BoundaryStrengthForEdge(f.CUs.At(x, y-1), f.CUs.At(x, y))
			loopfilter.FilterLumaEdge(line, params, bs)
			for i := range line {
				f.RecY.Set(x, y-4+i, uint8(clip8(line[i])))
			}
		}
	}
}
