// Package metrics collects host-level server metrics over the remote shell:
// process CPU and memory, disk usage, uptime, and a best-effort TPS read
// from the log tail. None of this is available over RCON.
package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/anthonyi7/minecraft-dashboard/internal/remote"
)

// Metrics is one snapshot of host and process resource usage.
type Metrics struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryUsedMB  int64   `json:"memory_used_mb"`
	MemoryTotalMB int64   `json:"memory_total_mb"`
	MemoryPercent float64 `json:"memory_percent"`
	DiskUsedGB    float64 `json:"disk_used_gb"`
	DiskTotalGB   float64 `json:"disk_total_gb"`
	DiskPercent   float64 `json:"disk_percent"`
	TPS           float64 `json:"tps"`
	UptimeSeconds int64   `json:"uptime_seconds"`
}

var tpsRE = regexp.MustCompile(`(?i)tps[:\s]+(\d+\.?\d*)`)

// Collector gathers metrics for the Minecraft host.
// Collect is called from a single polling loop; the cached PID is not
// guarded for concurrent use.
type Collector struct {
	runner    remote.Runner
	serverDir string
	diskPath  string
	logger    *slog.Logger

	cachedPID int
}

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithDiskPath sets the mount point measured for disk usage.
func WithDiskPath(path string) CollectorOption {
	return func(c *Collector) {
		if path != "" {
			c.diskPath = path
		}
	}
}

// WithLogger sets the logger for the Collector.
func WithLogger(logger *slog.Logger) CollectorOption {
	return func(c *Collector) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCollector creates a Collector reading from the given server directory.
func NewCollector(runner remote.Runner, serverDir string, opts ...CollectorOption) *Collector {
	c := &Collector{
		runner:    runner,
		serverDir: serverDir,
		diskPath:  "/",
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect gathers one metrics snapshot. Individual command failures degrade
// that metric to zero; only the initial connectivity check fails the whole
// snapshot, so a reachable host always yields a usable (if partial) result.
func (c *Collector) Collect(ctx context.Context) (Metrics, error) {
	var m Metrics

	pid, err := c.minecraftPID(ctx)
	if err != nil {
		// Nothing else will work if exec itself fails.
		return m, fmt.Errorf("collect metrics: %w", err)
	}

	if pid > 0 {
		m.CPUPercent, m.MemoryUsedMB = c.processStats(ctx, pid)
	} else {
		c.logger.Warn("minecraft process not found on host")
	}

	m.MemoryTotalMB = c.totalMemory(ctx)
	if m.MemoryTotalMB > 0 {
		m.MemoryPercent = round1(float64(m.MemoryUsedMB) / float64(m.MemoryTotalMB) * 100)
	}

	m.DiskUsedGB, m.DiskTotalGB, m.DiskPercent = c.diskUsage(ctx)
	m.UptimeSeconds = c.uptime(ctx)

	// Vanilla has no TPS command; some mods log it. Default to a healthy 20
	// when nothing is found so dashboards don't render a false alarm.
	m.TPS = c.tpsFromLogs(ctx)
	if m.TPS == 0 {
		m.TPS = 20.0
	}

	m.CPUPercent = round1(m.CPUPercent)
	return m, nil
}

// minecraftPID finds the Java server process, reusing the last known PID
// while it is still alive.
func (c *Collector) minecraftPID(ctx context.Context) (int, error) {
	if c.cachedPID > 0 {
		out, err := c.runner.Output(ctx, fmt.Sprintf("ps -p %d -o pid --no-headers", c.cachedPID))
		if err != nil {
			return 0, err
		}
		if strings.TrimSpace(out) != "" {
			return c.cachedPID, nil
		}
		c.cachedPID = 0
	}

	out, err := c.runner.Output(ctx, "pgrep -f 'java.*minecraft|java.*forge|java.*neoforge'")
	if err != nil {
		return 0, err
	}
	fields := strings.Fields(out)
	if len(fields) == 0 {
		return 0, nil
	}
	pid, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, nil
	}
	c.cachedPID = pid
	return pid, nil
}

func (c *Collector) processStats(ctx context.Context, pid int) (cpuPercent float64, memoryMB int64) {
	out, err := c.runner.Output(ctx, fmt.Sprintf("ps -p %d -o %%cpu,rss --no-headers", pid))
	if err != nil {
		return 0, 0
	}
	fields := strings.Fields(out)
	if len(fields) < 2 {
		return 0, 0
	}
	cpuPercent, _ = strconv.ParseFloat(fields[0], 64)
	if kb, err := strconv.ParseInt(fields[1], 10, 64); err == nil {
		memoryMB = kb / 1024
	}
	return cpuPercent, memoryMB
}

func (c *Collector) totalMemory(ctx context.Context) int64 {
	out, err := c.runner.Output(ctx, "free -m | grep Mem: | awk '{print $2}'")
	if err != nil {
		return 0
	}
	n, _ := strconv.ParseInt(strings.TrimSpace(out), 10, 64)
	return n
}

func (c *Collector) diskUsage(ctx context.Context) (usedGB, totalGB, percent float64) {
	out, err := c.runner.Output(ctx, fmt.Sprintf("df -BG %s | tail -1", c.diskPath))
	if err != nil {
		return 0, 0, 0
	}
	// Filesystem 1G-blocks Used Available Use% Mounted
	fields := strings.Fields(out)
	if len(fields) < 5 {
		return 0, 0, 0
	}
	totalGB, _ = strconv.ParseFloat(strings.TrimSuffix(fields[1], "G"), 64)
	usedGB, _ = strconv.ParseFloat(strings.TrimSuffix(fields[2], "G"), 64)
	percent, _ = strconv.ParseFloat(strings.TrimSuffix(fields[4], "%"), 64)
	return usedGB, totalGB, percent
}

func (c *Collector) tpsFromLogs(ctx context.Context) float64 {
	logPath := c.serverDir + "/logs/latest.log"
	out, err := c.runner.Output(ctx,
		fmt.Sprintf("tail -100 %s 2>/dev/null | grep -i 'tps\\|tick' | tail -5", logPath))
	if err != nil {
		return 0
	}
	if m := tpsRE.FindStringSubmatch(out); m != nil {
		tps, _ := strconv.ParseFloat(m[1], 64)
		return tps
	}
	return 0
}

func (c *Collector) uptime(ctx context.Context) int64 {
	out, err := c.runner.Output(ctx, "cat /proc/uptime")
	if err != nil {
		return 0
	}
	fields := strings.Fields(out)
	if len(fields) == 0 {
		return 0
	}
	secs, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0
	}
	return int64(secs)
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
