// Package trace records page operations and events for later
// inspection. The driver calls Record around every operation; with a
// Store attached the entries are persisted to SQLite asynchronously,
// without one the package only logs via slog (Debug, Warn above 100ms,
// Error on failure).
package trace

import (
	"log/slog"
	"time"
)

// Entry is a single recorded operation or event.
type Entry struct {
	// PageID correlates entries of one tab handle.
	PageID string
	// Op is the operation name ("click", "navigate", "event:console").
	Op string
	// Target is the selector, URL, or event payload summary.
	Target string
	// DurationUs is the operation time in microseconds; 0 for events.
	DurationUs int64
	// Error is empty on success.
	Error string
	// Timestamp is unix microseconds.
	Timestamp int64
}

// Recorder is the persistence backend interface. Store implements it;
// tests substitute their own.
type Recorder interface {
	RecordAsync(e *Entry)
	Close() error
}

// Record builds an entry and hands it to rec, logging it as a side
// effect. A nil rec is fine: the entry is only logged. Never blocks.
func Record(rec Recorder, log *slog.Logger, pageID, op, target string, start time.Time, opErr error) {
	elapsed := time.Since(start)
	e := &Entry{
		PageID:     pageID,
		Op:         op,
		Target:     target,
		DurationUs: elapsed.Microseconds(),
		Timestamp:  time.Now().UnixMicro(),
	}
	if opErr != nil {
		e.Error = opErr.Error()
	}

	if log != nil {
		switch {
		case opErr != nil:
			log.Error("trace: op failed", "op", op, "target", target, "duration", elapsed, "error", opErr)
		case elapsed > 100*time.Millisecond:
			log.Warn("trace: slow op", "op", op, "target", target, "duration", elapsed)
		default:
			log.Debug("trace: op", "op", op, "target", target, "duration", elapsed)
		}
	}

	if rec != nil {
		rec.RecordAsync(e)
	}
}
