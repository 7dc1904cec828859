package ingest

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/anthonyi7/minecraft-dashboard/internal/remote"
)

// Tailer tracks the last-read byte offset of one remote log file and fetches
// only new content on each poll. Offset state is process-local: after a
// restart the whole current file is re-read, which backfills same-day events
// and relies on the store's dedup to drop what was already ingested.
type Tailer struct {
	runner remote.Runner
	path   string
	logger *slog.Logger

	mu       sync.Mutex
	lastSize int64
}

// TailerOption configures a Tailer.
type TailerOption func(*Tailer)

// WithTailerLogger sets the logger for the Tailer.
func WithTailerLogger(logger *slog.Logger) TailerOption {
	return func(t *Tailer) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// NewTailer creates a Tailer for the given remote log path.
func NewTailer(runner remote.Runner, path string, opts ...TailerOption) *Tailer {
	t := &Tailer{
		runner: runner,
		path:   path,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Poll returns log content appended since the previous call.
//
//   - size 0: file not created yet, no-op.
//   - size < remembered offset: the log was rotated (server restart); the
//     offset resets to 0 and the whole new file is delivered. Downstream
//     dedup absorbs the replayed range.
//   - size unchanged: no-op.
//   - otherwise: bytes from the offset onward are read and the offset
//     advances to just past the last newline in the read content.
//
// On any remote error the offset is left unchanged so the next tick retries
// the same range. Poll holds a mutex for its whole duration; overlapping
// polls of one file would otherwise race on the offset and skip or double
// deliver byte ranges.
func (t *Tailer) Poll(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	size, err := remote.FileSize(ctx, t.runner, t.path)
	if err != nil {
		return "", err
	}

	if size == 0 {
		return "", nil
	}

	if size < t.lastSize {
		t.logger.Info("log rotated, re-reading from start",
			"path", t.path,
			"previous_size", t.lastSize,
			"current_size", size,
		)
		t.lastSize = 0
	}

	if size == t.lastSize {
		return "", nil
	}

	content, err := remote.ReadFrom(ctx, t.runner, t.path, t.lastSize)
	if err != nil {
		return "", err
	}

	// Advance only past the last complete line. A line mid-write at read
	// time would otherwise be split across two polls with its offset burned,
	// and neither fragment parses. The held-back tail is re-read next poll.
	idx := strings.LastIndexByte(content, '\n')
	if idx < 0 {
		return "", nil
	}
	t.lastSize += int64(idx + 1)
	return content[:idx+1], nil
}

// LastSize returns the remembered byte offset (for tests and logging).
func (t *Tailer) LastSize() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastSize
}
