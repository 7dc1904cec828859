package status

import (
	"context"
	"errors"
	"testing"

	"github.com/anthonyi7/minecraft-dashboard/internal/cache"
	"github.com/anthonyi7/minecraft-dashboard/internal/metrics"
)

type fakeRCON struct {
	reply string
	err   error
}

func (f *fakeRCON) Command(ctx context.Context, cmd string) (string, error) {
	return f.reply, f.err
}

type fakeCollector struct {
	m   metrics.Metrics
	err error
}

func (f *fakeCollector) Collect(ctx context.Context) (metrics.Metrics, error) {
	return f.m, f.err
}

func TestTick_Online(t *testing.T) {
	c := cache.New()
	p := NewPoller(
		&fakeRCON{reply: "There are 2 of a max of 20 players online: Steve, Alex"},
		&fakeCollector{m: metrics.Metrics{CPUPercent: 14.2, TPS: 19.8, UptimeSeconds: 7200}},
		c,
	)

	if err := p.Tick(context.Background()); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	snap := c.Get()
	if !snap.Online {
		t.Error("server should be online")
	}
	if snap.Players.Count != 2 || snap.Players.Max != 20 {
		t.Errorf("players = %+v", snap.Players)
	}
	if snap.Performance == nil || snap.Performance.TPS != 19.8 {
		t.Errorf("performance = %+v", snap.Performance)
	}
	if snap.UptimeSeconds != 7200 {
		t.Errorf("uptime = %d", snap.UptimeSeconds)
	}
	if snap.LastError != "" {
		t.Errorf("last_error = %q", snap.LastError)
	}
}

func TestTick_RCONDown(t *testing.T) {
	c := cache.New()
	p := NewPoller(&fakeRCON{err: errors.New("dial tcp: connection refused")}, &fakeCollector{}, c)

	if err := p.Tick(context.Background()); err != nil {
		t.Fatalf("Tick should not propagate an unreachable server: %v", err)
	}

	snap := c.Get()
	if snap.Online {
		t.Error("server should be offline")
	}
	if snap.LastError == "" {
		t.Error("offline snapshot should carry the error")
	}
	if snap.Players.Current == nil || len(snap.Players.Current) != 0 {
		t.Errorf("players.current = %v, want empty list", snap.Players.Current)
	}
	if snap.Stale {
		t.Error("a just-written offline snapshot is current, not stale")
	}
}

func TestTick_MetricsFailureStaysOnline(t *testing.T) {
	c := cache.New()
	p := NewPoller(
		&fakeRCON{reply: "There are 0 of a max of 20 players online:"},
		&fakeCollector{err: errors.New("ssh: handshake failed")},
		c,
	)

	if err := p.Tick(context.Background()); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	snap := c.Get()
	if !snap.Online {
		t.Error("RCON answered, server should be online")
	}
	if snap.Performance != nil {
		t.Error("performance should be absent when collection fails")
	}
	if snap.LastError == "" {
		t.Error("snapshot should note the metrics failure")
	}
}
