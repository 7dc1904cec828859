// Package config loads dashboard configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults for optional settings.
const (
	DefaultPort           = 5000
	DefaultSSHPort        = 22
	DefaultRCONPort       = 25575
	DefaultTimezone       = "America/Los_Angeles"
	DefaultDiskPath       = "/"
	DefaultDBPath         = "minecraft_dashboard.db"
	DefaultStatusInterval = 5 * time.Second
	DefaultLogsInterval   = 15 * time.Second
	DefaultStatsInterval  = 5 * time.Minute
)

// Config holds all dashboard configuration.
type Config struct {
	// HTTP API
	Port     int    // DASHBOARD_PORT
	Timezone string // DASHBOARD_TZ

	// Minecraft server
	ServerHost   string // MC_SERVER_HOST
	ServerDir    string // MC_SERVER_DIR
	RCONPort     int    // MC_RCON_PORT
	RCONPassword string // MC_RCON_PASSWORD

	// SSH access to the host
	SSHHost    string // SSH_HOST, falls back to MC_SERVER_HOST
	SSHPort    int    // SSH_PORT
	SSHUser    string // SSH_USER
	SSHKeyPath string // SSH_KEY_PATH

	// Storage and metrics
	DBPath   string // DB_PATH
	DiskPath string // DISK_PATH

	// Polling cadence
	StatusInterval time.Duration // STATUS_POLL_SECONDS
	LogsInterval   time.Duration // LOGS_POLL_SECONDS
	StatsInterval  time.Duration // STATS_POLL_SECONDS
}

// Load loads config from the environment (.env if present).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:           intEnv("DASHBOARD_PORT", DefaultPort),
		Timezone:       getEnv("DASHBOARD_TZ", DefaultTimezone),
		ServerHost:     getEnv("MC_SERVER_HOST", ""),
		ServerDir:      getEnv("MC_SERVER_DIR", ""),
		RCONPort:       intEnv("MC_RCON_PORT", DefaultRCONPort),
		RCONPassword:   getEnv("MC_RCON_PASSWORD", ""),
		SSHHost:        getEnv("SSH_HOST", ""),
		SSHPort:        intEnv("SSH_PORT", DefaultSSHPort),
		SSHUser:        getEnv("SSH_USER", ""),
		SSHKeyPath:     getEnv("SSH_KEY_PATH", "~/.ssh/id_rsa"),
		DBPath:         getEnv("DB_PATH", DefaultDBPath),
		DiskPath:       getEnv("DISK_PATH", DefaultDiskPath),
		StatusInterval: secondsEnv("STATUS_POLL_SECONDS", DefaultStatusInterval),
		LogsInterval:   secondsEnv("LOGS_POLL_SECONDS", DefaultLogsInterval),
		StatsInterval:  secondsEnv("STATS_POLL_SECONDS", DefaultStatsInterval),
	}
	if cfg.SSHHost == "" {
		cfg.SSHHost = cfg.ServerHost
	}
	return cfg, nil
}

// Validate checks required fields and rejects placeholder credentials.
func (c *Config) Validate() error {
	if c.ServerHost == "" {
		return errors.New("config: MC_SERVER_HOST is required")
	}
	if c.RCONPassword == "" {
		return errors.New("config: MC_RCON_PASSWORD is required")
	}
	if c.RCONPassword == "changeme" {
		return errors.New("config: MC_RCON_PASSWORD still has the placeholder value")
	}
	if c.SSHUser == "" {
		return errors.New("config: SSH_USER is required")
	}
	if c.ServerDir == "" {
		return errors.New("config: MC_SERVER_DIR is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid DASHBOARD_PORT %d", c.Port)
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// LogPath returns the path of the live server log.
func (c *Config) LogPath() string {
	return c.ServerDir + "/logs/latest.log"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func secondsEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return time.Duration(n) * time.Second
}
