package store

import (
	"net/url"
	"regexp"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
)

// SanitizeDSN normalizes a DSN for the given dialect.
//
// Postgres URLs get their userinfo percent-encoded so passwords containing
// @, # or % survive URL parsing. MySQL DSNs are rewritten into the
// user:pass@tcp(host:port)/db form required by go-sql-driver and always get
// parseTime enabled so DATETIME columns scan into time.Time. SQLAlchemy style
// sqlite:/// URLs are reduced to a file path.
func SanitizeDSN(driver, dsn string) string {
	switch driver {
	case "postgres":
		return sanitizeURLDSN(dsn)
	case "mysql":
		return sanitizeMySQLDSN(strings.TrimPrefix(dsn, "mysql://"))
	case "sqlite":
		if strings.HasPrefix(dsn, "sqlite:///") {
			return strings.TrimPrefix(dsn, "sqlite:///")
		}
		return strings.TrimPrefix(dsn, "sqlite://")
	default:
		return dsn
	}
}

// mysqlBareHostPort matches "user:pass@host:port/db" (no tcp() wrapper).
var mysqlBareHostPort = regexp.MustCompile(`^(.+)@([^(@]+:\d+)(/.*)?$`)

func sanitizeMySQLDSN(dsn string) string {
	if cfg, err := mysqldriver.ParseDSN(dsn); err == nil && (cfg.Net == "tcp" || cfg.Net == "unix") {
		cfg.ParseTime = true
		return cfg.FormatDSN()
	}

	// user:pass@(host:port)/db is missing the "tcp" keyword.
	if idx := strings.LastIndex(dsn, "@("); idx >= 0 {
		fixed := dsn[:idx] + "@tcp" + dsn[idx+1:]
		if cfg, err := mysqldriver.ParseDSN(fixed); err == nil {
			cfg.ParseTime = true
			return cfg.FormatDSN()
		}
	}

	// user:pass@host:port/db has no parens at all.
	if m := mysqlBareHostPort.FindStringSubmatch(dsn); m != nil {
		fixed := m[1] + "@tcp(" + m[2] + ")" + m[3]
		if cfg, err := mysqldriver.ParseDSN(fixed); err == nil {
			cfg.ParseTime = true
			return cfg.FormatDSN()
		}
	}

	return dsn
}

func sanitizeURLDSN(dsn string) string {
	schemeEnd := strings.Index(dsn, "://")
	if schemeEnd < 0 {
		return dsn // key=value DSN
	}

	scheme := dsn[:schemeEnd]
	rest := dsn[schemeEnd+3:]

	query := ""
	if qi := strings.IndexByte(rest, '?'); qi >= 0 {
		query = rest[qi:]
		rest = rest[:qi]
	}

	atIdx := strings.LastIndex(rest, "@")
	if atIdx < 0 {
		return dsn
	}

	userinfo := rest[:atIdx]
	hostpath := rest[atIdx+1:]

	user := userinfo
	pass := ""
	hasPass := false
	if ci := strings.IndexByte(userinfo, ':'); ci >= 0 {
		user = userinfo[:ci]
		pass = userinfo[ci+1:]
		hasPass = true
	}

	// Already-encoded values must not be encoded twice.
	if u, err := url.PathUnescape(user); err == nil {
		user = u
	}
	if p, err := url.PathUnescape(pass); err == nil {
		pass = p
	}

	out := scheme + "://" + url.PathEscape(user)
	if hasPass {
		out += ":" + url.PathEscape(pass)
	}
	return out + "@" + hostpath + query
}
