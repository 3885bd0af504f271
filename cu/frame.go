/*
DESCRIPTION
  frame.go defines the video Frame: source/reconstructed luma+chroma
  planes, coefficient planes, its CU array, and the atomically
  refcounted shared-ownership scheme used by the reference-picture set
  (spec §3, §5, §9 "Shared references to frames").

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package cu

import "sync/atomic"

// SliceType is the slice coding type of a Frame.
type SliceType uint8

const (
	SliceI SliceType = iota
	SliceP
	SliceB
)

// Plane is a single 8-bit sample plane with its own stride, so chroma
// planes (half resolution in 4:2:0) can be stored alongside luma.
type Plane struct {
	W, H   int
	Stride int
	Pix    []uint8
}

// NewPlane allocates a zeroed Plane of w x h samples.
func NewPlane(w, h int) *Plane {
	return &Plane{W: w, H: h, Stride: w, Pix: make([]uint8, w*h)}
}

// At returns the sample at (x,y), clamping out-of-bounds coordinates
// to the nearest edge sample (the boundary-clamp behaviour spec §4.5
// requires for out-of-frame reference fetches).
func (p *Plane) At(x, y int) uint8 {
	if x < 0 {
		x = 0
	}
	if x >= p.W {
		x = p.W - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= p.H {
		y = p.H - 1
	}
	return p.Pix[y*p.Stride+x]
}

// Set writes a sample at (x,y). Out-of-bounds writes are a no-op.
func (p *Plane) Set(x, y int, v uint8) {
	if x < 0 || y < 0 || x >= p.W || y >= p.H {
		return
	}
	p.Pix[y*p.Stride+x] = v
}

// CoeffPlane holds one colour component's transform coefficients for a
// whole frame, addressed the same way as a Plane but in int32.
type CoeffPlane struct {
	W, H int
	Buf  []int32
}

// NewCoeffPlane allocates a zeroed CoeffPlane.
func NewCoeffPlane(w, h int) *CoeffPlane {
	return &CoeffPlane{W: w, H: h, Buf: make([]int32, w*h)}
}

// Frame is one picture moving through the pipeline (spec §3).
type Frame struct {
	POC       int
	Slice     SliceType
	Width     int
	Height    int

	SrcY, SrcU, SrcV   *Plane
	RecY, RecU, RecV   *Plane
	CoeffY, CoeffU, CoeffV *CoeffPlane

	CUs *Array

	// Refs are the frames this Frame used as reference pictures while
	// it was encoded; holding them here (rather than just in the
	// reference-picture set) keeps them alive for exactly as long as
	// this Frame might still be needed for diagnostics or re-encode.
	Refs []*Frame

	refcount int32
}

// NewFrame allocates a Frame padded up to the CTU size (spec §6:
// "padding is added on the right/bottom to round up to the CTU size").
func NewFrame(poc int, slice SliceType, width, height, ctuSize int) *Frame {
	padW := ((width + ctuSize - 1) / ctuSize) * ctuSize
	padH := ((height + ctuSize - 1) / ctuSize) * ctuSize
	cw, ch := padW/2, padH/2

	f := &Frame{
		POC:    poc,
		Slice:  slice,
		Width:  width,
		Height: height,

		SrcY: NewPlane(padW, padH), SrcU: NewPlane(cw, ch), SrcV: NewPlane(cw, ch),
		RecY: NewPlane(padW, padH), RecU: NewPlane(cw, ch), RecV: NewPlane(cw, ch),

		CoeffY: NewCoeffPlane(padW, padH), CoeffU: NewCoeffPlane(cw, ch), CoeffV: NewCoeffPlane(cw, ch),

		CUs: NewArray(padW, padH),
	}
	atomic.StoreInt32(&f.refcount, 1)
	return f
}

// Ref increments the frame's reference count. Called by any encoder
// state admitting this frame into its reference-picture set (spec §5).
func (f *Frame) Ref() { atomic.AddInt32(&f.refcount, 1) }

// Unref decrements the frame's reference count, returning true if this
// call dropped it to zero (spec §3 invariant: a frame is released
// exactly when it has been output AND no live state references it).
// The caller that observes true is responsible for returning the
// frame's buffers to an allocator pool.
func (f *Frame) Unref() bool {
	return atomic.AddInt32(&f.refcount, -1) == 0
}

// RefCount returns the current reference count, used only for the
// shutdown-time accounting invariant in spec §8.
func (f *Frame) RefCount() int32 { return atomic.LoadInt32(&f.refcount) }
