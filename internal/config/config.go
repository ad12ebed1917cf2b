// Package config centralizes job configuration. All tunables live
// outside the code and are sourced from command-line flags with
// environment-variable fallbacks (12-factor friendly). Flags are defined
// first so that `-help` shows all available knobs and their defaults.
//
// Typical usage:
//
//	cfg := config.Load() // reads os.Args and os.Environ
//
// For tests, prefer LoadFromArgs to keep them hermetic:
//
//	fs := flag.NewFlagSet("test", flag.ContinueOnError)
//	getenv := func(k string) string { return testEnv[k] }
//	cfg := config.LoadFromArgs(fs, getenv, []string{"-db_driver=sqlite"})
package config

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all process configuration derived from flags and
// environment variables. All fields are plain values so the struct can be
// safely copied after construction.
type Config struct {
	// IO controls source/target file locations.
	SourcePath string // Directory holding the source CSV.
	SourceFile string // Source CSV file name inside SourcePath.
	TargetPath string // Directory for JSON/CSV exports.

	// DB describes the destination database. DSN, when set, wins over the
	// discrete parts below.
	DBDriver   string // "postgres", "sqlite", "mysql", or "mssql".
	DSN        string // Full DSN; optional, built from parts when empty.
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string // For sqlite this is the database file path.

	// Destination tables.
	DataTable   string // Cleansed rows.
	RejectTable string // Rejected rows, with reject_reason.
	AutoCreate  bool   // Create destination tables if missing.

	// Tunables.
	TransformWorkers    int // 0 means one worker per CPU.
	ConnectAttempts     int // Connection attempts before giving up.
	ConnectDelaySeconds int // Pause between connection attempts.

	// Metrics backend selection: "none", "pushgateway", or "datadog".
	MetricsBackend string
	PushgatewayURL string // Required for "pushgateway".
	DDAgentAddr    string // DogStatsD address, required for "datadog".
}

// SourceCSV returns the full path of the source CSV file.
func (c *Config) SourceCSV() string {
	return filepath.Join(c.SourcePath, c.SourceFile)
}

// DatabaseDSN returns the connection string for the configured driver.
// An explicit DSN is passed through untouched; otherwise one is assembled
// from the discrete DB fields.
func (c *Config) DatabaseDSN() (string, error) {
	if c.DSN != "" {
		return c.DSN, nil
	}
	switch c.DBDriver {
	case "postgres":
		return fmt.Sprintf(
			"host=%s port=%s dbname=%s user=%s password=%s sslmode=disable",
			c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword,
		), nil
	case "sqlite":
		return c.DBName, nil
	case "mysql":
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s",
			c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
		), nil
	case "mssql":
		u := url.URL{
			Scheme:   "sqlserver",
			User:     url.UserPassword(c.DBUser, c.DBPassword),
			Host:     c.DBHost + ":" + c.DBPort,
			RawQuery: "database=" + url.QueryEscape(c.DBName),
		}
		return u.String(), nil
	default:
		return "", fmt.Errorf("unknown db driver %q", c.DBDriver)
	}
}

// LoadFromArgs builds a Config by defining flags on fs, wiring each flag
// to an environment-variable fallback via getenv, and then parsing args.
// This is the most testable entry point: callers supply a private FlagSet,
// a getenv func (often backed by a map), and a synthetic arg slice.
//
// Precedence:
//  1. Environment values seed each flag's default.
//  2. Explicit CLI flags (in args) override the seeded defaults.
//
// The returned Config is fully populated; no further mutation occurs.
func LoadFromArgs(fs *flag.FlagSet, getenv func(string) string, args []string) *Config {
	cfg := &Config{}

	// Inline helpers use the provided getenv to avoid touching process env.
	envOrDefaultFn := func(k, d string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return d
	}
	intEnvOrDefaultFn := func(k string, d int) int {
		if v := getenv(k); v != "" {
			if i, err := strconv.Atoi(v); err == nil {
				return i
			}
		}
		return d
	}
	boolEnvOrDefaultFn := func(k string, d bool) bool {
		if v := strings.ToLower(getenv(k)); v != "" {
			switch v {
			case "1", "true", "yes", "on":
				return true
			case "0", "false", "no", "off":
				return false
			}
		}
		return d
	}

	// IO paths
	fs.StringVar(&cfg.SourcePath, "source_path", envOrDefaultFn("SOURCE_PATH", "./source"), "Directory holding the source CSV")
	fs.StringVar(&cfg.SourceFile, "source_file", envOrDefaultFn("SOURCE_FILE", "scrap.csv"), "Source CSV file name")
	fs.StringVar(&cfg.TargetPath, "target_path", envOrDefaultFn("TARGET_PATH", "./target"), "Directory for JSON/CSV exports")

	// DB connectivity
	fs.StringVar(&cfg.DBDriver, "db_driver", envOrDefaultFn("DB_DRIVER", "postgres"), "Database driver: postgres, sqlite, mysql, or mssql")
	fs.StringVar(&cfg.DSN, "dsn", getenv("DB_DSN"), "Full DSN (overrides db_host/db_port/db_name/db_user/db_password)")
	fs.StringVar(&cfg.DBUser, "db_user", envOrDefaultFn("DB_USER", "postgres"), "DB user")
	fs.StringVar(&cfg.DBPassword, "db_password", envOrDefaultFn("DB_PASSWORD", "password"), "DB password")
	fs.StringVar(&cfg.DBHost, "db_host", envOrDefaultFn("DB_HOST", "localhost"), "DB host")
	fs.StringVar(&cfg.DBPort, "db_port", envOrDefaultFn("DB_PORT", "5432"), "DB port")
	fs.StringVar(&cfg.DBName, "db_name", envOrDefaultFn("DB_NAME", "test_db"), "DB name (file path for sqlite)")

	// Destination tables
	fs.StringVar(&cfg.DataTable, "data_table", envOrDefaultFn("DATA_TABLE", "data"), "Destination table for cleansed rows")
	fs.StringVar(&cfg.RejectTable, "reject_table", envOrDefaultFn("REJECT_TABLE", "data_reject"), "Destination table for rejected rows")
	fs.BoolVar(&cfg.AutoCreate, "auto_create", boolEnvOrDefaultFn("AUTO_CREATE", true), "Create destination tables if missing")

	// Tunables
	fs.IntVar(&cfg.TransformWorkers, "transform_workers", intEnvOrDefaultFn("TRANSFORM_WORKERS", 0), "Transform workers (0 = one per CPU)")
	fs.IntVar(&cfg.ConnectAttempts, "connect_attempts", intEnvOrDefaultFn("CONNECT_ATTEMPTS", 5), "DB connection attempts before giving up")
	fs.IntVar(&cfg.ConnectDelaySeconds, "connect_delay", intEnvOrDefaultFn("CONNECT_DELAY_SECONDS", 3), "Seconds between DB connection attempts")

	// Metrics
	fs.StringVar(&cfg.MetricsBackend, "metrics", envOrDefaultFn("METRICS_BACKEND", "none"), "Metrics backend: none, pushgateway, or datadog")
	fs.StringVar(&cfg.PushgatewayURL, "pushgateway_url", getenv("PUSHGATEWAY_URL"), "Prometheus Pushgateway base URL")
	fs.StringVar(&cfg.DDAgentAddr, "dd_agent_addr", getenv("DD_AGENT_ADDR"), "DogStatsD agent address, e.g. 127.0.0.1:8125")

	// Parse the provided args (nil means no extra args).
	if args == nil {
		args = []string{}
	}
	_ = fs.Parse(args)
	return cfg
}

// LoadFrom is a compatibility wrapper around LoadFromArgs for call-sites
// that don't need to pass args explicitly (useful in some tests).
func LoadFrom(fs *flag.FlagSet, getenv func(string) string) *Config {
	return LoadFromArgs(fs, getenv, nil)
}

// Load is the production entry point. It wires the loader to the process
// flag set (flag.CommandLine), reads environment variables via os.Getenv,
// and parses os.Args[1:] as the CLI arguments.
func Load() *Config {
	return LoadFromArgs(flag.CommandLine, os.Getenv, os.Args[1:])
}
