package pipeline

import (
	"context"
	"testing"

	"github.com/ausocean/hevc/config"
	"github.com/ausocean/hevc/cu"
)

type nopLogger struct{}

func (nopLogger) SetLevel(int8)                                        {}
func (nopLogger) Log(level int8, message string, params ...interface{}) {}
func (nopLogger) Debug(message string, params ...interface{})          {}
func (nopLogger) Info(message string, params ...interface{})           {}
func (nopLogger) Warning(message string, params ...interface{})        {}
func (nopLogger) Error(message string, params ...interface{})          {}
func (nopLogger) Fatal(message string, params ...interface{})          {}

func flatFrame(poc int, slice cu.SliceType, fill uint8) *cu.Frame {
	f := cu.NewFrame(poc, slice, 64, 64, 64)
	for y := 0; y < f.SrcY.H; y++ {
		for x := 0; x < f.SrcY.W; x++ {
			f.SrcY.Set(x, y, fill)
		}
	}
	for y := 0; y < f.SrcU.H; y++ {
		for x := 0; x < f.SrcU.W; x++ {
			f.SrcU.Set(x, y, 128)
			f.SrcV.Set(x, y, 128)
		}
	}
	return f
}

func TestEncodePictureOneCTUISlice(t *testing.T) {
	cfg, err := config.New(64, 64, nopLogger{}, config.WithOWF(1))
	if err != nil {
		t.Fatalf("config.New: %v", err)
	}
	p, err := NewPipeline(cfg)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	src := flatFrame(0, cu.SliceI, 100)
	out, err := p.EncodePicture(context.Background(), src, 0, nil)
	if err != nil {
		t.Fatalf("EncodePicture: %v", err)
	}
	if len(out.NALs) != 1 {
		t.Fatalf("len(NALs) = %d, want 1", len(out.NALs))
	}
	if out.NALs[0].Type != 19 {
		t.Errorf("NAL type = %d, want 19 (IDR_W_RADL)", out.NALs[0].Type)
	}
	if len(out.NALs[0].Payload) == 0 {
		t.Error("payload is empty, want coded bytes")
	}
}

func TestEncodePictureReferencesPreviousFrame(t *testing.T) {
	cfg, err := config.New(64, 64, nopLogger{}, config.WithOWF(2))
	if err != nil {
		t.Fatalf("config.New: %v", err)
	}
	p, err := NewPipeline(cfg)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	i0 := flatFrame(0, cu.SliceI, 100)
	if _, err := p.EncodePicture(context.Background(), i0, 0, nil); err != nil {
		t.Fatalf("EncodePicture(I): %v", err)
	}

	p1 := flatFrame(1, cu.SliceP, 102)
	out, err := p.EncodePicture(context.Background(), p1, 1, []int{0})
	if err != nil {
		t.Fatalf("EncodePicture(P): %v", err)
	}
	if len(out.NALs) != 1 || out.NALs[0].Type != 1 {
		t.Errorf("NALs = %+v, want one TRAIL_R", out.NALs)
	}
}

func TestParamSetsProducesThreeNALs(t *testing.T) {
	cfg, err := config.New(64, 64, nopLogger{})
	if err != nil {
		t.Fatalf("config.New: %v", err)
	}
	p, err := NewPipeline(cfg)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	nals := p.ParamSets()
	if len(nals) != 3 {
		t.Fatalf("len(ParamSets()) = %d, want 3", len(nals))
	}
	wantTypes := []uint32{32, 33, 34}
	for i, n := range nals {
		if n.Type != wantTypes[i] {
			t.Errorf("NALs[%d].Type = %d, want %d", i, n.Type, wantTypes[i])
		}
	}
}
