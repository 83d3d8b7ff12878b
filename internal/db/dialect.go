package db

import (
	"fmt"
	"strings"
)

// Dialect hides the SQL differences between the sqlite and postgres backends.
type Dialect interface {
	// DriverName is the database/sql driver name.
	DriverName() string
	// GooseDialect is the dialect name goose expects.
	GooseDialect() string
	// MigrationsDir is the directory of migrations.FS holding this dialect's files.
	MigrationsDir() string
	// Placeholder returns the bind parameter for a 1-based position.
	Placeholder(position int) string
	// SupportsLastInsertID reports whether sql.Result.LastInsertId works.
	SupportsLastInsertID() bool
	// InitStatements run once after the connection is opened.
	InitStatements() []string
}

const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// NewDialect returns the dialect for name.
func NewDialect(name string) (Dialect, error) {
	switch name {
	case DialectSQLite, "":
		return sqliteDialect{}, nil
	case DialectPostgres:
		return postgresDialect{}, nil
	default:
		return nil, fmt.Errorf("unknown database dialect %q", name)
	}
}

type sqliteDialect struct{}

func (sqliteDialect) DriverName() string         { return "sqlite" }
func (sqliteDialect) GooseDialect() string       { return "sqlite3" }
func (sqliteDialect) MigrationsDir() string      { return "sqlite" }
func (sqliteDialect) Placeholder(int) string     { return "?" }
func (sqliteDialect) SupportsLastInsertID() bool { return true }
func (sqliteDialect) InitStatements() []string {
	return []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
}

type postgresDialect struct{}

// pgx registers its database/sql driver as "pgx".
func (postgresDialect) DriverName() string         { return "pgx" }
func (postgresDialect) GooseDialect() string       { return "postgres" }
func (postgresDialect) MigrationsDir() string      { return "postgres" }
func (postgresDialect) Placeholder(p int) string   { return fmt.Sprintf("$%d", p) }
func (postgresDialect) SupportsLastInsertID() bool { return false }
func (postgresDialect) InitStatements() []string   { return nil }

// rebind rewrites ? placeholders into the dialect's form.
func rebind(d Dialect, query string) string {
	if _, ok := d.(sqliteDialect); ok {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	pos := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			b.WriteString(d.Placeholder(pos))
			pos++
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
