/*
DESCRIPTION
  assert.go provides the encoder's invariant checking. A violated
  invariant (CABAC range out of bounds, a CU-array region that
  disagrees with the record it was just set to, etc.) panics. The check
  is compiled into every build, and no code in the module recovers the
  panic.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package assert provides invariant checks shared across the encoder
// core.
package assert

// Invariant panics with msg if cond is false. Nothing in the core
// recovers from the panic.
func Invariant(cond bool, msg string) {
	if !cond {
		panic("hevc: invariant violated: " + msg)
	}
}
