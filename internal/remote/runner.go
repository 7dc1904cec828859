// Package remote provides command execution on the game server host.
// All log tailing, stats file reads, and system metrics go through the
// Runner interface so the SSH transport can be faked in tests.
package remote

import "context"

// Runner executes a shell command on the remote host and returns its stdout.
// Implementations must treat connection failures and timeouts as ordinary
// errors; callers skip the current tick and retry on the next one.
type Runner interface {
	Output(ctx context.Context, command string) (string, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, command string) (string, error)

// Output implements Runner.
func (f RunnerFunc) Output(ctx context.Context, command string) (string, error) {
	return f(ctx, command)
}
