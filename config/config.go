// Package config loads the agent's settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults applied when the environment does not say otherwise.
const (
	DefaultMonitorPort     = 8156
	DefaultReportingPeriod = time.Minute
)

// Config holds the agent-wide settings.
type Config struct {
	// AppName identifies the application in recorded data.
	AppName string

	// DatabasePath is the SQLite path metrics are persisted to. An empty
	// path means a unique name is generated.
	DatabasePath string

	// ClickHouseAddr switches persistence from the local SQLite file to a
	// shared ClickHouse warehouse when set.
	ClickHouseAddr     string
	ClickHouseDatabase string
	ClickHouseUser     string
	ClickHousePassword string

	// IgnorePatterns are regular expressions matched against request URIs
	// to suppress slow-transaction records.
	IgnorePatterns []string

	// MonitorEnabled turns the local diagnostics server on.
	MonitorEnabled bool

	// MonitorPort is the diagnostics server port. Ports below 1000 fall
	// back to a random port.
	MonitorPort int

	// ReportingPeriod is how often accumulated metrics are persisted.
	ReportingPeriod time.Duration
}

// Load reads the configuration from the process environment, after loading
// a .env file if one exists in the working directory.
func Load() Config {
	// A missing .env file is the normal case, not an error.
	_ = godotenv.Load()

	return Config{
		AppName:            envString("TRACEMARK_APP_NAME", "app"),
		DatabasePath:       envString("TRACEMARK_DB_PATH", ""),
		ClickHouseAddr:     envString("TRACEMARK_CLICKHOUSE_ADDR", ""),
		ClickHouseDatabase: envString("TRACEMARK_CLICKHOUSE_DB", "tracemark"),
		ClickHouseUser:     envString("TRACEMARK_CLICKHOUSE_USER", "default"),
		ClickHousePassword: envString("TRACEMARK_CLICKHOUSE_PASSWORD", ""),
		IgnorePatterns:     envList("TRACEMARK_IGNORE"),
		MonitorEnabled:     envBool("TRACEMARK_MONITOR", false),
		MonitorPort:        envInt("TRACEMARK_MONITOR_PORT", DefaultMonitorPort),
		ReportingPeriod:    envDuration("TRACEMARK_REPORT_PERIOD", DefaultReportingPeriod),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}

	parts := strings.Split(v, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			list = append(list, p)
		}
	}

	return list
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}

	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}

	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}

	return d
}
