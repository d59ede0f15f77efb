// Package logging provides leveled logging and trial tracing for clockwalk.
// It offers two complementary outputs:
//   - A leveled slog.Logger for stderr (operational output and progress)
//   - A TraceLogger for structured JSONL trial traces (trials.jsonl)
package logging

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/nvandessel/clockwalk/internal/walk"
)

// LevelTrace is a custom slog level below Debug for full content logging.
// At this level, every trial's path and step directions are traced.
const LevelTrace = slog.LevelDebug - 4

// TraceFileName is the JSONL file written under the trace directory.
const TraceFileName = "trials.jsonl"

// ParseLevel maps a string level name to a slog.Level.
// Supported values: "info", "debug", "trace" (case-insensitive).
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a leveled slog.Logger writing to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Label the custom trace level
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// TraceLogger writes one JSONL event per trial. It is safe for concurrent
// use, so it can observe parallel batches. A nil TraceLogger is safe to use;
// all methods are no-ops on nil receiver.
type TraceLogger struct {
	mu        sync.Mutex
	file      *os.File
	runID     string
	withPaths bool
}

// NewTraceLogger creates a trace logger writing to dir/trials.jsonl.
// At "info" level (the default), returns nil and no file is created.
// At "debug" level each trial's outcome is recorded; at "trace" level the
// full path and directions are added, so trials must record their paths.
// Returns nil if the file cannot be opened. All methods are nil-safe.
func NewTraceLogger(dir, level, runID string) *TraceLogger {
	lvl := ParseLevel(level)
	if lvl == slog.LevelInfo {
		return nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil
	}

	path := filepath.Join(dir, TraceFileName)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil
	}

	return &TraceLogger{file: f, runID: runID, withPaths: lvl <= LevelTrace}
}

// WantsPaths reports whether traced trials should record their paths.
// Safe to call on nil receiver.
func (tl *TraceLogger) WantsPaths() bool {
	return tl != nil && tl.withPaths
}

// Log writes an event as a single JSONL line.
// "time" and "run_id" fields are added automatically. The caller's map is
// not mutated. Safe to call on nil receiver.
func (tl *TraceLogger) Log(event map[string]any) {
	if tl == nil {
		return
	}

	// Copy to avoid mutating caller's map
	entry := make(map[string]any, len(event)+2)
	for k, v := range event {
		entry[k] = v
	}
	entry["time"] = time.Now().UTC().Format(time.RFC3339Nano)
	if tl.runID != "" {
		entry["run_id"] = tl.runID
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')

	tl.mu.Lock()
	defer tl.mu.Unlock()
	if tl.file == nil {
		return
	}
	_, _ = tl.file.Write(data)
}

// OnTrial records one trial outcome.
func (tl *TraceLogger) OnTrial(r walk.TrialResult) {
	if tl == nil {
		return
	}
	event := map[string]any{
		"event": "trial",
		"start": r.Start,
		"last":  r.LastVisited,
		"steps": r.Steps,
	}
	if tl.withPaths && r.HasPath() {
		dirs := r.Directions()
		names := make([]string, len(dirs))
		for i, d := range dirs {
			names[i] = d.String()
		}
		event["path"] = r.Path()
		event["directions"] = names
	}
	tl.Log(event)
}

// OnProgress records a progress checkpoint.
func (tl *TraceLogger) OnProgress(done, total int) {
	tl.Log(map[string]any{"event": "progress", "done": done, "total": total})
}

// Close closes the underlying file. Safe to call on nil receiver.
func (tl *TraceLogger) Close() {
	if tl == nil {
		return
	}

	tl.mu.Lock()
	defer tl.mu.Unlock()

	if tl.file != nil {
		tl.file.Close()
		tl.file = nil
	}
}

// ProgressLogger reports batch progress through a slog.Logger at info
// level. The format func renders the message, e.g. report.ProgressLine.
type ProgressLogger struct {
	Logger *slog.Logger
	Format func(done, total int) string
}

// OnTrial is a no-op; ProgressLogger only reports progress.
func (p ProgressLogger) OnTrial(walk.TrialResult) {}

// OnProgress logs a progress line.
func (p ProgressLogger) OnProgress(done, total int) {
	if p.Logger == nil {
		return
	}
	msg := "batch progress"
	if p.Format != nil {
		msg = p.Format(done, total)
	}
	p.Logger.Info(msg, "done", done, "total", total)
}
