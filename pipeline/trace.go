/*
DESCRIPTION
  trace.go owns the orchestrator's own diagnostic trace (task-graph
  transitions, rate-control convergence), rotated via lumberjack.v2
  mirroring how the teacher rotates capture logs, separate from the
  per-package ausocean/utils/logging.Logger used for ordinary
  debug/info/warning messages.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pipeline

import (
	"fmt"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Tracer writes timestamped, line-oriented diagnostic records to a
// rotating log file. A nil *Tracer is valid and discards every call.
type Tracer struct {
	mu  sync.Mutex
	out *lumberjack.Logger
}

// NewTracer opens (creating if necessary) a rotating trace log at
// path, capped at 10MB per file with 5 backups kept.
func NewTracer(path string) *Tracer {
	if path == "" {
		return nil
	}
	return &Tracer{out: &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10,
		MaxBackups: 5,
		Compress:   true,
	}}
}

// Tracef writes one formatted, timestamped record. Safe for concurrent
// use by multiple workers.
func (t *Tracer) Tracef(format string, args ...interface{}) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "%s "+format+"\n", append([]interface{}{time.Now().UTC().Format(time.RFC3339Nano)}, args...)...)
}

// Close flushes and closes the underlying rotating file.
func (t *Tracer) Close() error {
	if t == nil {
		return nil
	}
	return t.out.Close()
}
