package store

import (
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// tables lists every table owned by the store.
var tables = []string{"admins", "jobs", "user_visits"}

// dialect captures the differences between the supported databases.
type dialect struct {
	name       string // "sqlite", "postgres", "mysql"
	driverName string // database/sql driver name
	returning  bool   // INSERT ... RETURNING id instead of LastInsertId
	schema     []string
}

func dialectFor(driver string) (dialect, error) {
	switch strings.ToLower(driver) {
	case "", "sqlite", "sqlite3":
		return dialect{name: "sqlite", driverName: "sqlite", schema: sqliteSchema}, nil
	case "postgres", "postgresql", "pgx":
		return dialect{name: "postgres", driverName: "pgx", returning: true, schema: postgresSchema}, nil
	case "mysql", "mariadb":
		return dialect{name: "mysql", driverName: "mysql", schema: mysqlSchema}, nil
	default:
		return dialect{}, fmt.Errorf("unsupported database driver %q (available: sqlite, postgres, mysql)", driver)
	}
}

// DriverFromURL guesses the driver from a URL-style DSN such as the
// DATABASE_URL values used by hosted platforms.
func DriverFromURL(dsn string) string {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "postgres"
	case strings.HasPrefix(dsn, "mysql://"):
		return "mysql"
	case strings.HasPrefix(dsn, "sqlite://"), strings.HasPrefix(dsn, "sqlite:///"):
		return "sqlite"
	default:
		return ""
	}
}
