package config

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the top-level jobportal configuration file.
type YAMLConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	MCP      MCPConfig      `yaml:"mcp"`
	Log      LoggingConfig  `yaml:"log"`
}

// ServerConfig controls the HTTP server behavior.
type ServerConfig struct {
	Host            string   `yaml:"host"`
	Port            int      `yaml:"port"`
	CORSOrigins     []string `yaml:"cors_origins"`
	ShutdownTimeout string   `yaml:"shutdown_timeout"`
	MaxBodySize     string   `yaml:"max_body_size"`
	UI              bool     `yaml:"ui"`
}

// DatabaseConfig selects the relational store. An empty DSN with the sqlite
// driver places jobportal.db in the data directory.
type DatabaseConfig struct {
	Driver       string `yaml:"driver"`
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

// AuthConfig describes the admin identity and session policy.
type AuthConfig struct {
	AdminUsername     string `yaml:"admin_username"`
	AdminPassword     string `yaml:"admin_password"`
	AdminPasswordHash string `yaml:"admin_password_hash"`
	AdminEmailDomain  string `yaml:"admin_email_domain"`
	SessionTTL        string `yaml:"session_ttl"`
	SweepInterval     string `yaml:"sweep_interval"`
	LoginRateLimit    int    `yaml:"login_rate_limit"`
}

// MCPConfig controls the MCP (Model Context Protocol) server.
type MCPConfig struct {
	// Enabled mounts the Streamable HTTP endpoint at /mcp on `serve`.
	Enabled   bool   `yaml:"enabled"`
	Transport string `yaml:"transport"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LoadYAMLConfig reads and parses a YAML configuration file. Environment
// variables referenced as ${VAR_NAME} in the file are expanded before parsing.
func LoadYAMLConfig(path string) (*YAMLConfig, error) {
	data, err := readExpanded(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultYAMLConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// LoadInto reads the YAML file at path into v, expanding ${VAR_NAME}
// references the same way LoadYAMLConfig does. The file is validated against
// YAMLConfig first so a malformed file is reported before v is touched.
func LoadInto(v *viper.Viper, path string) error {
	data, err := readExpanded(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, DefaultYAMLConfig()); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("load config file: %w", err)
	}
	return nil
}

// FindFile returns explicit when set, otherwise the first jobportal.yaml or
// jobportal.yml found in dirs. It returns "" when there is nothing to load.
func FindFile(explicit string, dirs ...string) string {
	if explicit != "" {
		return explicit
	}
	for _, dir := range dirs {
		for _, name := range []string{"jobportal.yaml", "jobportal.yml"} {
			p := filepath.Join(dir, name)
			if info, err := os.Stat(p); err == nil && !info.IsDir() {
				return p
			}
		}
	}
	return ""
}

func readExpanded(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return []byte(os.ExpandEnv(string(data))), nil
}

// DefaultYAMLConfig returns a YAMLConfig pre-filled with the defaults.
func DefaultYAMLConfig() *YAMLConfig {
	return &YAMLConfig{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			CORSOrigins:     []string{"*"},
			ShutdownTimeout: "30s",
			MaxBodySize:     "1MB",
			UI:              true,
		},
		Database: DatabaseConfig{
			Driver:       "sqlite",
			MaxOpenConns: 10,
		},
		Auth: AuthConfig{
			AdminUsername:    "admin",
			AdminPassword:    "admin123",
			AdminEmailDomain: "manaworks.online",
			SessionTTL:       "24h",
			SweepInterval:    "0s",
		},
		MCP: MCPConfig{
			Transport: "stdio",
		},
		Log: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// ApplyDefaults registers every default as a viper default so that env
// variables and flags layer on top of them.
func ApplyDefaults(v *viper.Viper) {
	d := DefaultYAMLConfig()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.max_body_size", d.Server.MaxBodySize)
	v.SetDefault("server.ui", d.Server.UI)

	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.dsn", d.Database.DSN)
	v.SetDefault("database.max_open_conns", d.Database.MaxOpenConns)

	v.SetDefault("auth.admin_username", d.Auth.AdminUsername)
	v.SetDefault("auth.admin_password", d.Auth.AdminPassword)
	v.SetDefault("auth.admin_password_hash", d.Auth.AdminPasswordHash)
	v.SetDefault("auth.admin_email_domain", d.Auth.AdminEmailDomain)
	v.SetDefault("auth.session_ttl", d.Auth.SessionTTL)
	v.SetDefault("auth.sweep_interval", d.Auth.SweepInterval)
	v.SetDefault("auth.login_rate_limit", d.Auth.LoginRateLimit)

	v.SetDefault("mcp.enabled", d.MCP.Enabled)
	v.SetDefault("mcp.transport", d.MCP.Transport)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// ParseByteSize parses sizes such as "512", "64KB" or "1MB". Units are
// binary multiples.
func ParseByteSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, nil
	}

	mult := int64(1)
	for _, u := range []struct {
		suffix string
		mult   int64
	}{
		{"GB", 1 << 30},
		{"MB", 1 << 20},
		{"KB", 1 << 10},
		{"B", 1},
	} {
		if strings.HasSuffix(s, u.suffix) {
			mult = u.mult
			s = strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			break
		}
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid byte size %q", s)
	}
	if n > math.MaxInt64/mult {
		return 0, fmt.Errorf("byte size %q overflows", s)
	}
	return n * mult, nil
}

// DefaultTemplate is the annotated file written by `jobportal config init`.
// It parses to exactly DefaultYAMLConfig.
const DefaultTemplate = `# Job Portal configuration
# Every key can be overridden with a JOBPORTAL_ prefixed environment variable,
# e.g. JOBPORTAL_SERVER_PORT=9000. ${VAR} references are expanded on load.

server:
  host: 0.0.0.0
  port: 8000
  cors_origins:
    - "*"
  shutdown_timeout: 30s
  max_body_size: 1MB
  ui: true          # serve the embedded front end at /

database:
  driver: sqlite    # sqlite, postgres or mysql
  dsn: ""           # empty: jobportal.db in the data directory
  max_open_conns: 10

auth:
  admin_username: admin
  admin_password: admin123      # change me, or set admin_password_hash
  admin_password_hash: ""       # output of 'jobportal admin hash-password'
  admin_email_domain: manaworks.online
  session_ttl: 24h
  sweep_interval: 0s            # background purge of expired sessions; 0 disables
  login_rate_limit: 0           # login attempts per IP per minute; 0 disables

mcp:
  enabled: false    # mount the MCP endpoint at /mcp on 'jobportal serve'
  transport: stdio  # default transport for 'jobportal mcp'

log:
  level: info       # debug, info, warn, error
  format: text      # text or json
`

// WriteDefaultConfig writes the annotated default configuration to path.
func WriteDefaultConfig(path string) error {
	return os.WriteFile(path, []byte(DefaultTemplate), 0644)
}
