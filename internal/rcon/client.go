// Package rcon provides the live server status queries that go over the
// Minecraft RCON protocol rather than SSH: online check and the current
// player list from the "list" command.
package rcon

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/gorcon/rcon"
)

// DefaultTimeout bounds dialing and executing a single RCON command.
const DefaultTimeout = 10 * time.Second

// Client executes console commands on the Minecraft server.
type Client interface {
	Command(ctx context.Context, command string) (string, error)
}

// Conn is an RCON client that dials a fresh connection per command. The
// status loop runs every few seconds and a held connection would just be one
// more thing to re-establish after every server restart.
type Conn struct {
	addr     string
	password string
	timeout  time.Duration
}

// ConnOption configures a Conn.
type ConnOption func(*Conn)

// WithTimeout overrides the per-command timeout.
func WithTimeout(d time.Duration) ConnOption {
	return func(c *Conn) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New creates an RCON client for the given server.
func New(host string, port int, password string, opts ...ConnOption) *Conn {
	c := &Conn{
		addr:     net.JoinHostPort(host, fmt.Sprintf("%d", port)),
		password: password,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Command connects, authenticates, executes one command, and disconnects.
func (c *Conn) Command(ctx context.Context, command string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	conn, err := rcon.Dial(c.addr, c.password,
		rcon.SetDialTimeout(c.timeout),
		rcon.SetDeadline(c.timeout),
	)
	if err != nil {
		return "", fmt.Errorf("rcon dial %s: %w", c.addr, err)
	}
	defer conn.Close()

	out, err := conn.Execute(command)
	if err != nil {
		return "", fmt.Errorf("rcon execute %q: %w", command, err)
	}
	return out, nil
}
