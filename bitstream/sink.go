/*
DESCRIPTION
  sink.go provides an append-only, bit-granular byte sink used as the
  destination for CABAC output and raw (non-CABAC) NAL header bits. It
  mirrors the read side of a BitReader: callers push bits MSB-first,
  and the sink accumulates them into whole bytes.

AUTHOR
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bitstream provides a byte-aligned FIFO for raw NAL payload
// construction, with emulation-prevention byte insertion performed at
// chunk emission time rather than on every append.
package bitstream

import "github.com/pkg/errors"

// ErrBitCount is returned by Put when n is outside [1,32].
var ErrBitCount = errors.New("bitstream: bit count out of range")

// Chunk is an immutable slice of completed bytes detached from a Sink
// by TakeChunks. Sinks never mutate a Chunk once it has been returned.
type Chunk []byte

// Sink is an append-only, bit-granular byte FIFO. The zero value is
// ready to use.
type Sink struct {
	buf     []byte
	cur     uint8 // partially filled trailing byte, left-aligned in curBits.
	curBits uint8 // number of valid bits already placed in cur, MSB-first.
}

// NewSink returns an empty Sink with cap bytes of initial capacity.
func NewSink(cap int) *Sink {
	return &Sink{buf: make([]byte, 0, cap)}
}

// Put appends the low n bits of bits (n in [1,32]), most significant
// bit first, to the sink.
func (s *Sink) Put(bits uint32, n int) error {
	if n < 1 || n > 32 {
		return errors.Wrapf(ErrBitCount, "n=%d", n)
	}
	for n > 0 {
		free := 8 - s.curBits
		take := uint8(n)
		if take > free {
			take = free
		}
		shift := n - int(take)
		chunk := uint8((bits >> uint(shift)) & ((1 << take) - 1))
		s.cur |= chunk << (free - take)
		s.curBits += take
		n -= int(take)
		if s.curBits == 8 {
			s.buf = append(s.buf, s.cur)
			s.cur = 0
			s.curBits = 0
		}
	}
	return nil
}

// AlignZero pads the current byte with zero bits until byte aligned.
func (s *Sink) AlignZero() {
	if s.curBits != 0 {
		s.buf = append(s.buf, s.cur)
		s.cur, s.curBits = 0, 0
	}
}

// AlignOne pads the current byte with one bits until byte aligned.
func (s *Sink) AlignOne() {
	for s.curBits != 0 {
		_ = s.Put(1, 1)
	}
}

// BitsPending returns the number of bits buffered in the trailing
// partial byte.
func (s *Sink) BitsPending() int { return int(s.curBits) }

// Len returns the number of complete bytes currently held.
func (s *Sink) Len() int { return len(s.buf) }

// TakeChunks detaches the sink's current payload as a single immutable
// Chunk with emulation-prevention bytes inserted, leaving the sink
// empty (the trailing partial byte, if any, is not detached). The
// caller must byte-align the sink first if a full flush is wanted.
func (s *Sink) TakeChunks() Chunk {
	out := escapeEmulation(s.buf)
	s.buf = s.buf[:0]
	return out
}

// escapeEmulation inserts 0x03 after every 0x00 0x00 byte pair that is
// immediately followed by 0x00, 0x01, 0x02 or 0x03, per Annex B start
// code emulation prevention.
func escapeEmulation(raw []byte) []byte {
	out := make([]byte, 0, len(raw)+len(raw)/100+1)
	zeros := 0
	for _, b := range raw {
		if zeros >= 2 && b <= 0x03 {
			out = append(out, 0x03)
			zeros = 0
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
