package transform

import (
	"strings"
	"testing"
)

func TestQuantizeZeroBlockIsZero(t *testing.T) {
	coef := make([]int32, 16)
	res := Quantize(coef, 4, 26, 8, nil)
	if res.NonZero {
		t.Fatal("quantizing an all-zero block should never set NonZero")
	}
	for _, v := range res.Levels {
		if v != 0 {
			t.Fatalf("got nonzero level %d for zero input", v)
		}
	}
}

func TestQuantizeLargeCoefficientIsNonZero(t *testing.T) {
	coef := make([]int32, 16)
	coef[0] = 5000
	res := Quantize(coef, 4, 26, 8, nil)
	if !res.NonZero {
		t.Fatal("expected NonZero for a large DC coefficient")
	}
	if res.Levels[0] <= 0 {
		t.Fatalf("expected a positive quantized level, got %d", res.Levels[0])
	}
}

func TestQuantizeDequantizeSignPreserved(t *testing.T) {
	coef := make([]int32, 16)
	coef[3] = -2000
	res := Quantize(coef, 4, 30, 8, nil)
	if res.Levels[3] >= 0 {
		t.Fatalf("expected a negative level for a negative coefficient, got %d", res.Levels[3])
	}
	deq := Dequantize(res.Levels, 4, 30, 8, nil)
	if deq[3] >= 0 {
		t.Fatalf("expected dequantized sign preserved, got %d", deq[3])
	}
}

func TestLoadScalingListDefaultsFlat(t *testing.T) {
	sl, err := LoadScalingList(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadScalingList: %v", err)
	}
	if w := sl.weightAt(4, 0); w != 16 {
		t.Errorf("default weight = %d, want 16 for an empty CQM file", w)
	}
}

func TestLoadScalingListParsesCustomWeights(t *testing.T) {
	input := strings.Repeat("20 ", 16) + "\n"
	sl, err := LoadScalingList(strings.NewReader(input))
	if err != nil {
		t.Fatalf("LoadScalingList: %v", err)
	}
	if w := sl.weightAt(4, 0); w != 20 {
		t.Errorf("weight = %d, want 20 from the custom 4x4 luma matrix", w)
	}
}
