package cabac

import (
	"testing"

	"github.com/ausocean/hevc/bitstream"
)

// testDecoder is a throwaway arithmetic decoder used only by this
// package's tests, mirroring Encoder's regular/bypass/terminating bin
// operations in reverse (spec §4.2's decoding process, the inverse of
// the encoding engine above) so that round-trip tests can check
// decode(encode(b)) == b without shipping a production decode path.
type testDecoder struct {
	data   []byte
	bitPos int

	rng    uint32
	offset uint32
}

// newTestDecoder starts a decoder over data, reading the 9-bit initial
// ivlOffset per the arithmetic decoding engine initialization process.
func newTestDecoder(data []byte) *testDecoder {
	d := &testDecoder{data: data, rng: 510}
	d.offset = d.readBits(9)
	return d
}

func (d *testDecoder) readBit() uint32 {
	byteIdx := d.bitPos / 8
	shift := uint(7 - d.bitPos%8)
	d.bitPos++
	if byteIdx >= len(d.data) {
		return 0
	}
	return uint32(d.data[byteIdx]>>shift) & 1
}

func (d *testDecoder) readBits(n int) uint32 {
	var v uint32
	for i := 0; i < n; i++ {
		v = v<<1 | d.readBit()
	}
	return v
}

// DecodeBin decodes one regular bin against ctx, updating ctx's state
// in place exactly as EncodeBin does.
func (d *testDecoder) DecodeBin(ctx *Context) int {
	state := uint8(*ctx) >> 1
	mps := uint8(*ctx) & 1

	lps := rangeTabLPS[state][(d.rng>>6)&3]
	d.rng -= lps

	var bin int
	if d.offset >= d.rng {
		bin = int(1 - mps)
		d.offset -= d.rng
		d.rng = lps
	} else {
		bin = int(mps)
	}
	*ctx = Context(transition(uint8(*ctx), bin))

	for d.rng < 256 {
		d.rng <<= 1
		d.offset = d.offset<<1 | d.readBit()
	}
	return bin
}

// DecodeBinEP decodes one bypass bin.
func (d *testDecoder) DecodeBinEP() int {
	d.offset = d.offset<<1 | d.readBit()
	if d.offset >= d.rng {
		d.offset -= d.rng
		return 1
	}
	return 0
}

// DecodeBinsEP decodes n bypass bins (n in [1,32]) into a value,
// most-significant bit first, the inverse of EncodeBinsEP.
func (d *testDecoder) DecodeBinsEP(n int) uint32 {
	var v uint32
	for i := 0; i < n; i++ {
		v = v<<1 | uint32(d.DecodeBinEP())
	}
	return v
}

// DecodeBinTrm decodes a terminating bin.
func (d *testDecoder) DecodeBinTrm() int {
	d.rng -= 2
	if d.offset >= d.rng {
		return 1
	}
	for d.rng < 256 {
		d.rng <<= 1
		d.offset = d.offset<<1 | d.readBit()
	}
	return 0
}

// deEscape strips the 0x03 emulation-prevention bytes that
// bitstream.Sink.TakeChunks inserts after every 0x00 0x00 byte pair, so
// the arithmetic decoder below sees the raw CABAC byte stream rather
// than its Annex-B-escaped form.
func deEscape(raw []byte) []byte {
	out := make([]byte, 0, len(raw))
	zeros := 0
	for _, b := range raw {
		if zeros >= 2 && b == 0x03 {
			zeros = 0
			continue
		}
		out = append(out, b)
		if b == 0x00 {
			zeros++
		} else {
			zeros = 0
		}
	}
	return out
}

// TestCABACRoundTrip encodes a mixed sequence of regular, bypass and
// terminating bins and checks that re-decoding it with testDecoder
// reproduces every bin exactly (spec §8: decode(encode(B,C))=B).
func TestCABACRoundTrip(t *testing.T) {
	sink := bitstream.NewSink(256)
	e := NewEncoder(sink)
	encCtx := initFromSeed(26, 154)

	seed := uint32(98765)
	next := func() uint32 {
		seed = seed*1103515245 + 12345
		return seed
	}

	type step struct {
		kind string // "regular", "ep", "eps", "trm"
		bin  int
		val  uint32
		n    int
	}
	var steps []step
	for i := 0; i < 500; i++ {
		bin := int(next()>>16) & 1
		switch i % 5 {
		case 0:
			steps = append(steps, step{kind: "ep", bin: bin})
			e.EncodeBinEP(bin)
		case 1:
			val := next() & 0xff
			steps = append(steps, step{kind: "eps", val: val, n: 8})
			e.EncodeBinsEP(val, 8)
		case 2:
			steps = append(steps, step{kind: "trm", bin: 0})
			e.EncodeBinTrm(0) // bin=0 so the stream continues.
		default:
			steps = append(steps, step{kind: "regular", bin: bin})
			e.EncodeBin(&encCtx, bin)
		}
	}
	e.Flush()

	d := newTestDecoder(deEscape([]byte(sink.TakeChunks())))
	decCtx := initFromSeed(26, 154)
	for i, s := range steps {
		switch s.kind {
		case "ep":
			if got := d.DecodeBinEP(); got != s.bin {
				t.Fatalf("step %d: bypass bin got %d, want %d", i, got, s.bin)
			}
		case "eps":
			if got := d.DecodeBinsEP(s.n); got != s.val {
				t.Fatalf("step %d: bypass bins got %#x, want %#x", i, got, s.val)
			}
		case "trm":
			if got := d.DecodeBinTrm(); got != s.bin {
				t.Fatalf("step %d: terminating bin got %d, want %d", i, got, s.bin)
			}
		case "regular":
			if got := d.DecodeBin(&decCtx); got != s.bin {
				t.Fatalf("step %d: regular bin got %d, want %d", i, got, s.bin)
			}
		}
	}
}
