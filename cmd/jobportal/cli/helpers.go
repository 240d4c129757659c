package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/manaworks/jobportal/internal/service"
	"github.com/manaworks/jobportal/internal/store"
)

// dataDir holds the --data-dir persistent flag value (set on root command).
var dataDir string

// resolveDataDir returns the data directory from --data-dir flag,
// JOBPORTAL_DATA_DIR env var, or ~/.jobportal as fallback.
func resolveDataDir() string {
	if dataDir != "" {
		return dataDir
	}
	if envDir := os.Getenv("JOBPORTAL_DATA_DIR"); envDir != "" {
		return envDir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".jobportal")
}

// storeConfig resolves the database settings. A URL-style DSN such as a
// DATABASE_URL overrides the driver.
func storeConfig() store.Config {
	driver := viper.GetString("database.driver")
	dsn := viper.GetString("database.dsn")
	if d := store.DriverFromURL(dsn); d != "" {
		driver = d
	}
	return store.Config{
		Driver:       driver,
		DSN:          dsn,
		MaxOpenConns: viper.GetInt("database.max_open_conns"),
	}
}

// openStore opens the configured database, placing the default SQLite file
// in the data directory.
func openStore() (*store.Store, error) {
	cfg := storeConfig()
	if cfg.DSN == "" && (cfg.Driver == "" || cfg.Driver == "sqlite") {
		return store.NewStore(resolveDataDir())
	}
	return store.Open(cfg)
}

// services bundles the long-lived domain services shared by serve and mcp.
type services struct {
	auth   *service.AuthService
	jobs   *service.JobService
	visits *service.VisitLedger
}

func newServices(st *store.Store, logger *slog.Logger) (*services, error) {
	sessions := service.NewSessionRegistry(viper.GetDuration("auth.session_ttl"))
	auth, err := service.NewAuthService(st, sessions, service.AuthConfig{
		Username:     viper.GetString("auth.admin_username"),
		Password:     viper.GetString("auth.admin_password"),
		PasswordHash: viper.GetString("auth.admin_password_hash"),
		EmailDomain:  viper.GetString("auth.admin_email_domain"),
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("init auth: %w", err)
	}
	return &services{
		auth:   auth,
		jobs:   service.NewJobService(st),
		visits: service.NewVisitLedger(st, logger),
	}, nil
}

// newLogger builds the process logger from log.level and log.format. dev
// forces debug level.
func newLogger(w io.Writer, dev bool) *slog.Logger {
	level := parseLevel(viper.GetString("log.level"))
	if dev {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(viper.GetString("log.format"), "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// --- PID file management ---

func pidFilePath() string {
	return filepath.Join(resolveDataDir(), "jobportal.pid")
}

func writePID(pid int) error {
	dir := resolveDataDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(pidFilePath(), []byte(strconv.Itoa(pid)), 0644)
}

func readPID() (int, error) {
	data, err := os.ReadFile(pidFilePath())
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

func removePID() {
	os.Remove(pidFilePath())
}

func logFilePath() string {
	return filepath.Join(resolveDataDir(), "jobportal.log")
}

// versionString returns a display version string.
func versionString() string {
	if appVersion == "" || appVersion == "dev" {
		return "dev"
	}
	if strings.HasPrefix(appVersion, "v") {
		return appVersion
	}
	return "v" + appVersion
}
