package remote

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// The size and whole-file helpers discard the remote exit status with
// "|| true": over SSH a missing file exits non-zero, and Session.Output
// would surface that as an ExitError instead of the empty output the
// callers key on.

// FileSize returns the size in bytes of a remote file.
// A missing file reports size 0, matching the "not yet created" case the
// log tailer treats as a no-op.
func FileSize(ctx context.Context, r Runner, path string) (int64, error) {
	out, err := r.Output(ctx, fmt.Sprintf("wc -c < %s 2>/dev/null || true", path))
	if err != nil {
		return 0, err
	}
	s := strings.TrimSpace(out)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, nil
	}
	return n, nil
}

// ReadFrom returns the contents of a remote file starting at the given byte
// offset. tail -c +N skips the first N-1 bytes, so offset 0 reads the whole
// file. Unlike FileSize and ReadFile this propagates a non-zero exit: the
// caller has already sized the file, so a failed read means retry, not
// absence.
func ReadFrom(ctx context.Context, r Runner, path string, offset int64) (string, error) {
	return r.Output(ctx, fmt.Sprintf("tail -c +%d %s", offset+1, path))
}

// ReadFile returns the whole contents of a remote file.
// A missing file yields an empty string, not an error.
func ReadFile(ctx context.Context, r Runner, path string) (string, error) {
	return r.Output(ctx, fmt.Sprintf("cat %s 2>/dev/null || true", path))
}
