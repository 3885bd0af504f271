package syntax

import (
	"testing"

	"github.com/ausocean/hevc/bitstream"
	"github.com/ausocean/hevc/cabac"
	"github.com/ausocean/hevc/cu"
)

func newWriter(t *testing.T, arr *cu.Array) (*CTUWriter, *bitstream.Sink) {
	t.Helper()
	sink := bitstream.NewSink(256)
	enc := cabac.NewEncoder(sink)
	bank := cabac.NewBank(26)
	return &CTUWriter{E: enc, B: bank, MaxDepth: 0, CUs: arr}, sink
}

func TestWriteCTUIntraNoSplitProducesBins(t *testing.T) {
	arr := cu.NewArray(8, 8)
	rec := cu.Zero()
	rec.Type = cu.TypeIntra
	rec.Part = cu.Part2Nx2N
	arr.Set(0, 0, 8, 8, rec)

	w, sink := newWriter(t, arr)
	w.WriteCTU(0, 0, 8)
	w.E.Flush()
	if sink.Len() == 0 {
		t.Fatal("expected WriteCTU to emit at least one byte")
	}
}

func TestWriteCTUSkipCUEmitsOnlySkipAndMergeSyntax(t *testing.T) {
	arr := cu.NewArray(8, 8)
	rec := cu.Zero()
	rec.Type = cu.TypeSkip
	rec.Skipped = true
	rec.L0.RefIdx = 0
	rec.L0.MergeIdx = 0
	arr.Set(0, 0, 8, 8, rec)

	w, sink := newWriter(t, arr)
	w.IsInterSlice = true
	w.WriteCTU(0, 0, 8)
	w.E.Flush()
	if sink.Len() == 0 {
		t.Fatal("expected a skip CU to still emit the skip_flag/merge_idx bins")
	}
}

func TestWriteCoeffGroupAllZeroWritesNothing(t *testing.T) {
	arr := cu.NewArray(8, 8)
	w, _ := newWriter(t, arr)
	before := w.E.BinsCoded()
	w.writeCoeffGroup(make([]int32, 16), 4)
	if w.E.BinsCoded() != before {
		t.Fatal("an all-zero coefficient group should encode zero bins")
	}
}
