/*
DESCRIPTION
  pcm.go implements the PCM escape path's sample writer (spec §4.6
  supplement): raw sample bits via CABAC bypass instead of
  transform/quant. Nothing in the module calls it: the CU search never
  selects PCM and writeCU has no PCM branch.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package syntax

// WritePCMSamples writes w*h raw luma samples (each bitDepth bits)
// followed by the two half-resolution chroma planes, all as CABAC
// bypass bins, then re-Starts the engine, matching HEVC's requirement
// that PCM sample data not be arithmetic-coded.
func (w *CTUWriter) WritePCMSamples(luma, cb, cr []uint16, bitDepth int) {
	w.E.EncodeBinTrm(1)
	for _, s := range luma {
		w.E.EncodeBinsEP(uint32(s), bitDepth)
	}
	for _, s := range cb {
		w.E.EncodeBinsEP(uint32(s), bitDepth)
	}
	for _, s := range cr {
		w.E.EncodeBinsEP(uint32(s), bitDepth)
	}
	w.E.Start()
}
