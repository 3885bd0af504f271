/*
DESCRIPTION
  encoder.go implements the CABAC binary arithmetic encoder: regular,
  bypass and terminating bins, renormalization, carry propagation and
  0xff byte stuffing, per spec §4.2.

AUTHOR
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package cabac implements the context-adaptive binary arithmetic
// coder used to serialize all HEVC syntax elements, and the context
// bank that drives it.
package cabac

import (
	"github.com/ausocean/hevc/bitstream"
	"github.com/ausocean/hevc/internal/assert"
	"github.com/pkg/errors"
)

// ErrRangeOutOfBounds names the condition of the range register lying
// outside [256,510] at a bin boundary. No Encoder method returns it:
// the encoder checks that condition with assert.Invariant, which panics.
var ErrRangeOutOfBounds = errors.New("cabac: range register out of bounds")

// Encoder is the CABAC arithmetic encoder state for one substream (one
// wavefront row, tile, or whole slice when neither is used).
type Encoder struct {
	low      uint32
	rng      uint32
	bitsLeft int
	buffered uint8
	numBuf   int
	binsCoded int

	dst *bitstream.Sink
}

// NewEncoder returns a freshly Start-ed Encoder writing to dst.
func NewEncoder(dst *bitstream.Sink) *Encoder {
	e := &Encoder{dst: dst}
	e.Start()
	return e
}

// Start (re)initializes the encoder's arithmetic state: low=0,
// range=510, bits_left=23, buffered_byte=0xff, num_buffered=0.
func (e *Encoder) Start() {
	e.low = 0
	e.rng = 510
	e.bitsLeft = 23
	e.buffered = 0xff
	e.numBuf = 0
}

// checkRange is the debug-build invariant from spec §8: range must be
// in [256,510] immediately after every bin.
func (e *Encoder) checkRange() {
	assert.Invariant(e.rng >= 256 && e.rng <= 510, "cabac range out of [256,510]")
}

// EncodeBin encodes one regular (context-coded) bin against ctx,
// updating ctx's state in place.
func (e *Encoder) EncodeBin(ctx *Context, bin int) {
	e.binsCoded++
	state := uint8(*ctx) >> 1
	mps := uint8(*ctx) & 1

	lps := rangeTabLPS[state][(e.rng>>6)&3]
	e.rng -= lps

	renormed := true
	if bin != int(mps) {
		numBits := renormTable[lps>>3]
		e.low = (e.low + e.rng) << numBits
		e.rng = lps << numBits
		e.bitsLeft -= int(numBits)
	} else if e.rng >= 256 {
		renormed = false
	} else {
		e.low <<= 1
		e.rng <<= 1
		e.bitsLeft--
	}
	*ctx = Context(transition(uint8(*ctx), bin))

	if renormed && e.bitsLeft < 12 {
		e.write()
	}
	e.checkRange()
}

// EncodeBinEP encodes one bypass bin (equal-probability, no context).
func (e *Encoder) EncodeBinEP(bin int) {
	e.binsCoded++
	e.low <<= 1
	if bin != 0 {
		e.low += e.rng
	}
	e.bitsLeft--
	if e.bitsLeft < 12 {
		e.write()
	}
}

// EncodeBinsEP encodes the low n bits of val (n in [1,32]) as bypass
// bins, most-significant bit first, 8 at a time.
func (e *Encoder) EncodeBinsEP(val uint32, n int) {
	e.binsCoded += n
	for n > 8 {
		n -= 8
		pattern := val >> uint(n)
		e.low <<= 8
		e.low += e.rng * pattern
		val -= pattern << uint(n)
		e.bitsLeft -= 8
		if e.bitsLeft < 12 {
			e.write()
		}
	}
	e.low <<= uint(n)
	e.low += e.rng * val
	e.bitsLeft -= n
	if e.bitsLeft < 12 {
		e.write()
	}
}

// EncodeBinTrm encodes a terminating bin (end_of_slice_segment_flag or
// pcm_flag's implicit terminator).
func (e *Encoder) EncodeBinTrm(bin int) {
	e.binsCoded++
	e.rng -= 2
	if bin != 0 {
		e.low += e.rng
		e.low <<= 7
		e.rng = 2 << 7
		e.bitsLeft -= 7
	} else if e.rng >= 256 {
		e.checkRange()
		return
	} else {
		e.low <<= 1
		e.rng <<= 1
		e.bitsLeft--
	}
	if e.bitsLeft < 12 {
		e.write()
	}
	e.checkRange()
}

// write extracts the top byte of low, emitting it (with carry
// resolution against any buffered 0xff run) to dst, per spec §4.2's
// write step.
func (e *Encoder) write() {
	leadByte := e.low >> uint(24-e.bitsLeft)
	e.bitsLeft += 8
	e.low &= 0xffffffff >> uint(e.bitsLeft)

	if leadByte == 0xff {
		e.numBuf++
		return
	}
	if e.numBuf > 0 {
		carry := leadByte >> 8
		byteOut := uint32(e.buffered) + carry
		e.buffered = uint8(leadByte & 0xff)
		_ = e.dst.Put(byteOut&0xff, 8)

		fill := (0xff + carry) & 0xff
		for e.numBuf > 1 {
			_ = e.dst.Put(fill, 8)
			e.numBuf--
		}
	} else {
		e.numBuf = 1
		e.buffered = uint8(leadByte)
	}
}

// Finish emits the encoder's residual low bits with carry resolution,
// then byte-aligns with a terminating 1 bit followed by zero padding,
// per spec §4.2.
func (e *Encoder) Finish() {
	if e.low>>uint(32-e.bitsLeft) != 0 {
		_ = e.dst.Put(uint32(e.buffered)+1, 8)
		for e.numBuf > 1 {
			_ = e.dst.Put(0, 8)
			e.numBuf--
		}
		e.low -= 1 << uint(32-e.bitsLeft)
	} else {
		if e.numBuf > 0 {
			_ = e.dst.Put(uint32(e.buffered), 8)
		}
		for e.numBuf > 1 {
			_ = e.dst.Put(0xff, 8)
			e.numBuf--
		}
	}
	_ = e.dst.Put(e.low>>8, 24-e.bitsLeft)
}

// Flush terminates the slice segment: a terminating 1 bin, Finish,
// then a raw rbsp_stop_one_bit and zero padding to byte alignment,
// leaving the encoder ready to Start again for a new substream.
func (e *Encoder) Flush() {
	e.EncodeBinTrm(1)
	e.Finish()
	_ = e.dst.Put(1, 1)
	e.dst.AlignZero()
}

// BinsCoded returns the number of bins coded since NewEncoder; Start
// does not reset the count. The pipeline orchestrator sums it across a
// picture's substreams as that picture's coded size for rate control.
func (e *Encoder) BinsCoded() int { return e.binsCoded }
