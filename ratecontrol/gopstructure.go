/*
DESCRIPTION
  gopstructure.go defines the picture-layer GOP structure table
  consulted by picture.go's layer-weight lookup (SPEC supplement: a
  per-GOP-position layer and QP offset, defaulting to a 4-picture
  hierarchical-B pattern).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package ratecontrol

// GOPPicture describes one picture's position within a hierarchical
// GOP: its coding layer (1 = shallowest/highest priority, up to 4) and
// a QP offset applied relative to the slice's base QP.
type GOPPicture struct {
	Layer    int
	QPOffset int
}

// GOPStructure is an ordered table of GOPPicture entries, one per
// picture position within one GOP.
type GOPStructure []GOPPicture

// DefaultGOPStructure is the standard 4-picture hierarchical-B
// pattern: display order 1,2,3,4 are coded in layer order 1,3,4,2 (the
// anchor first, then a layer-3 B, then the deepest layer-4 B, then the
// layer-2 B).
var DefaultGOPStructure = GOPStructure{
	{Layer: 1, QPOffset: 0},
	{Layer: 3, QPOffset: 3},
	{Layer: 4, QPOffset: 4},
	{Layer: 2, QPOffset: 2},
}

// LayerFor returns the GOP layer (converted to picture.go's 0-based
// gopLayer index) for the picture at gopIndex (0-based, wrapping
// modulo the structure's length).
func (g GOPStructure) LayerFor(gopIndex int) int {
	if len(g) == 0 {
		return 0
	}
	layer := g[gopIndex%len(g)].Layer - 1
	if layer < 0 {
		layer = 0
	}
	return layer
}

// QPOffsetFor returns the configured QP offset for the picture at
// gopIndex.
func (g GOPStructure) QPOffsetFor(gopIndex int) int {
	if len(g) == 0 {
		return 0
	}
	return g[gopIndex%len(g)].QPOffset
}
