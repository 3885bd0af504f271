/*
DESCRIPTION
  ring.go implements the ring of owf+1 overlapping encoder states
  (spec §3, §4.12): at most owf+1 pictures in flight, each with its
  own State, admitted/retired as the orchestrator advances.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pipeline

import "github.com/ausocean/hevc/cu"

// Ring holds owf+1 in-flight States in slots chosen by admission count
// modulo its capacity; ByPOC finds a State by scanning the slots. The orchestrator is the single producer advancing head;
// workers only read/write the State their task graph belongs to.
type Ring struct {
	states []*State
	cap    int
	head   int
}

// NewRing allocates a Ring with capacity owf+1.
func NewRing(owf int) *Ring {
	capacity := owf + 1
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{states: make([]*State, capacity), cap: capacity}
}

// Admit installs a freshly built State at the ring head, evicting
// (and returning, for reference-release bookkeeping) whatever state
// previously occupied that slot.
func (r *Ring) Admit(s *State) (evicted *State) {
	slot := r.head % r.cap
	evicted = r.states[slot]
	r.states[slot] = s
	r.head++
	return evicted
}

// ByPOC returns the in-flight State for the given POC, or nil if it
// is not currently resident in the ring (either not yet admitted or
// already evicted).
func (r *Ring) ByPOC(poc int) *State {
	for _, s := range r.states {
		if s != nil && s.Frame.POC == poc {
			return s
		}
	}
	return nil
}

// Capacity returns owf+1, the ring's fixed slot count.
func (r *Ring) Capacity() int { return r.cap }

// Frames returns every frame currently resident in the ring, used by
// the shutdown-time refcount accounting invariant (spec §8).
func (r *Ring) Frames() []*cu.Frame {
	var out []*cu.Frame
	for _, s := range r.states {
		if s != nil {
			out = append(out, s.Frame)
		}
	}
	return out
}
