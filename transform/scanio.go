/*
DESCRIPTION
  scanio.go provides the small line/int parsing helpers LoadScalingList
  uses to read a CQM file, kept separate from quant.go's transform
  logic.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package transform

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

type lineScanner struct {
	sc *bufio.Scanner
}

func newLineScanner(r io.Reader) *lineScanner {
	return &lineScanner{sc: bufio.NewScanner(r)}
}

// next returns the next non-blank line, skipping comment lines that
// start with '#'.
func (l *lineScanner) next() (string, bool) {
	for l.sc.Scan() {
		line := strings.TrimSpace(l.sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return line, true
	}
	return "", false
}

// parseInts parses up to want whitespace-separated integers from
// line, padding any short or unparseable remainder with 16 (the flat
// default weight).
func parseInts(line string, want int) []int32 {
	fields := strings.Fields(line)
	out := make([]int32, want)
	for i := range out {
		out[i] = 16
	}
	for i := 0; i < want && i < len(fields); i++ {
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			continue
		}
		out[i] = int32(v)
	}
	return out
}
