// Package registry resolves species names to annotation core
// databases. A registry file is a YAML document mapping each species
// to the driver and DSN of its core database, so the same tooling can
// point at SQLite snapshot files or a PostgreSQL server.
package registry

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// Supported database/sql driver names
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

// Mode selects how a database is opened
type Mode int

const (
	// ReadOnly opens the database without write access. Snapshot
	// databases from a finished build must never be mutated.
	ReadOnly Mode = iota
	// ReadWrite opens an existing database for updates. Missing
	// database files are an error, never created.
	ReadWrite
)

// Source describes one core database listed in a registry
type Source struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// File is a parsed registry
type File struct {
	Species map[string]Source `yaml:"species"`

	path string
}

// Conn is an open connection to a core database
type Conn struct {
	*sql.DB
	Driver  string
	Species string
}

// Load reads and validates a registry file
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file: %w", err)
	}

	f := &File{path: path}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("failed to parse registry file %s: %w", path, err)
	}

	for species, src := range f.Species {
		if src.DSN == "" {
			return nil, fmt.Errorf("registry %s: species %s has no dsn", path, species)
		}
		if _, err := resolveDriver(src.Driver); err != nil {
			return nil, fmt.Errorf("registry %s: species %s: %w", path, species, err)
		}
	}

	return f, nil
}

// Path returns the registry file path
func (f *File) Path() string {
	return f.path
}

// Open connects to the core database registered for species and
// verifies the connection with a ping so that unreachable or missing
// databases fail before any work starts.
func (f *File) Open(species string, mode Mode) (*Conn, error) {
	src, ok := f.Species[species]
	if !ok {
		return nil, fmt.Errorf("species %s not listed in registry %s", species, f.path)
	}

	driver, err := resolveDriver(src.Driver)
	if err != nil {
		return nil, fmt.Errorf("species %s: %w", species, err)
	}

	dsn := src.DSN
	switch driver {
	case DriverSQLite:
		dsn = sqliteDSN(dsn, mode)
	case DriverPostgres:
		dsn = postgresDSN(dsn, mode)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database for species %s: %w", species, err)
	}

	if driver == DriverSQLite {
		pragmas := []string{"PRAGMA busy_timeout = 5000"}
		if mode == ReadWrite {
			pragmas = append(pragmas, "PRAGMA foreign_keys = ON")
		}
		for _, pragma := range pragmas {
			if _, err := db.Exec(pragma); err != nil {
				db.Close()
				return nil, fmt.Errorf("failed to apply pragma %q: %w", pragma, err)
			}
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database for species %s: %w", species, err)
	}

	return &Conn{DB: db, Driver: driver, Species: species}, nil
}

// Rebind rewrites ? placeholders to the $N form expected by the
// PostgreSQL driver. SQLite queries pass through unchanged.
func (c *Conn) Rebind(query string) string {
	if c.Driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// resolveDriver maps a registry driver name to a database/sql driver.
// An empty name defaults to SQLite, matching the snapshot layout used
// by patch builds.
func resolveDriver(name string) (string, error) {
	switch name {
	case "", "sqlite", DriverSQLite:
		return DriverSQLite, nil
	case "postgres", "postgresql", DriverPostgres:
		return DriverPostgres, nil
	default:
		return "", fmt.Errorf("unsupported driver %q", name)
	}
}

// sqliteDSN builds a file: URI enforcing the open mode. DSNs that
// already carry URI syntax or options are passed through untouched.
func sqliteDSN(dsn string, mode Mode) string {
	if strings.HasPrefix(dsn, "file:") || strings.Contains(dsn, "?") || dsn == ":memory:" {
		return dsn
	}

	if mode == ReadOnly {
		return "file:" + dsn + "?mode=ro"
	}
	return "file:" + dsn + "?mode=rw"
}

// postgresDSN appends default_transaction_read_only for read-only
// handles. pgx forwards settings it does not recognize to the server
// as session parameters, so every pooled connection refuses writes.
func postgresDSN(dsn string, mode Mode) string {
	if mode != ReadOnly {
		return dsn
	}

	const param = "default_transaction_read_only=on"
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		if strings.Contains(dsn, "?") {
			return dsn + "&" + param
		}
		return dsn + "?" + param
	}
	return dsn + " " + param
}
