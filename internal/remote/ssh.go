package remote

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
)

// DefaultTimeout bounds connecting and executing a single remote command.
const DefaultTimeout = 10 * time.Second

// SSHRunner runs commands on the server host over SSH with key auth.
// It dials a fresh connection per command: polling cadences are seconds to
// minutes apart and a short-lived session avoids keeping half-dead
// connections around after network blips.
type SSHRunner struct {
	addr    string
	user    string
	signer  ssh.Signer
	timeout time.Duration
}

// SSHOption configures an SSHRunner.
type SSHOption func(*SSHRunner)

// WithTimeout overrides the per-command timeout.
func WithTimeout(d time.Duration) SSHOption {
	return func(r *SSHRunner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// NewSSHRunner creates an SSHRunner authenticating as user with the private
// key at keyPath. A leading "~" in keyPath is expanded to the home directory.
func NewSSHRunner(host string, port int, user, keyPath string, opts ...SSHOption) (*SSHRunner, error) {
	keyPath, err := expandHome(keyPath)
	if err != nil {
		return nil, err
	}

	keyData, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("read ssh key: %w", err)
	}
	signer, err := ssh.ParsePrivateKey(keyData)
	if err != nil {
		return nil, fmt.Errorf("parse ssh key: %w", err)
	}

	r := &SSHRunner{
		addr:    net.JoinHostPort(host, fmt.Sprintf("%d", port)),
		user:    user,
		signer:  signer,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Output connects, runs command, and returns its stdout.
// The context and the configured timeout both bound the whole exchange.
func (r *SSHRunner) Output(ctx context.Context, command string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cfg := &ssh.ClientConfig{
		User:            r.user,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(r.signer)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         r.timeout,
	}

	dialer := net.Dialer{Timeout: r.timeout}
	netConn, err := dialer.DialContext(ctx, "tcp", r.addr)
	if err != nil {
		return "", fmt.Errorf("dial %s: %w", r.addr, err)
	}

	conn, chans, reqs, err := ssh.NewClientConn(netConn, r.addr, cfg)
	if err != nil {
		netConn.Close()
		return "", fmt.Errorf("ssh handshake: %w", err)
	}
	client := ssh.NewClient(conn, chans, reqs)
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("new session: %w", err)
	}
	defer session.Close()

	// x/crypto/ssh sessions have no context support; close the client when
	// the context expires so a hung command cannot block the polling loop.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			client.Close()
		case <-done:
		}
	}()

	out, err := session.Output(command)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("run %q: %w", command, ctx.Err())
		}
		return "", fmt.Errorf("run %q: %w", command, err)
	}
	return string(out), nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
