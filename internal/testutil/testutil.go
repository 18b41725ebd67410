package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// geneSchema mirrors the columns of a core gene table that the tool
// touches. stable_id is indexed but deliberately not unique, matching
// production schemas where duplicates are possible.
const geneSchema = `
CREATE TABLE gene (
    gene_id     INTEGER PRIMARY KEY AUTOINCREMENT,
    stable_id   TEXT NOT NULL,
    biotype     TEXT NOT NULL DEFAULT 'protein_coding',
    version     INTEGER NOT NULL DEFAULT 1,
    description TEXT
);
CREATE INDEX gene_stable_id_idx ON gene (stable_id);
`

// Chdir changes the working directory for the duration of the test and
// restores it on cleanup, mirroring testing.T.Chdir from Go 1.24 so the
// suite builds on older toolchains. Like the original, it keeps PWD in
// sync and must not be used from parallel tests.
func Chdir(t *testing.T, dir string) {
	t.Helper()

	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to read working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change working directory: %v", err)
	}
	if !filepath.IsAbs(dir) {
		if dir, err = os.Getwd(); err != nil {
			t.Fatalf("Failed to read working directory: %v", err)
		}
	}
	t.Setenv("PWD", dir)
	t.Cleanup(func() {
		if err := os.Chdir(oldwd); err != nil {
			panic("testutil.Chdir: restoring working directory: " + err.Error())
		}
	})
}

// TempGeneDB creates a temporary SQLite core database with an empty
// gene table and returns the open handle plus the file path.
func TempGeneDB(t *testing.T) (*sql.DB, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "core.db")
	database, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	if _, err := database.Exec(geneSchema); err != nil {
		database.Close()
		t.Fatalf("Failed to create gene table: %v", err)
	}

	t.Cleanup(func() {
		database.Close()
	})

	return database, dbPath
}

// InsertGene adds a gene row and returns its generated gene_id.
// A nil description is stored as SQL NULL.
func InsertGene(t *testing.T, database *sql.DB, stableID string, version int, description *string) int64 {
	t.Helper()

	result, err := database.Exec(
		"INSERT INTO gene (stable_id, version, description) VALUES (?, ?, ?)",
		stableID, version, description,
	)
	if err != nil {
		t.Fatalf("Failed to insert gene %s: %v", stableID, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("Failed to read gene_id for %s: %v", stableID, err)
	}
	return id
}

// WriteRegistry writes a registry file in a temporary directory mapping
// each species to a SQLite database path and returns the registry path.
func WriteRegistry(t *testing.T, dir, filename string, databases map[string]string) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("species:\n")
	for species, dbPath := range databases {
		fmt.Fprintf(&b, "  %s:\n    driver: sqlite3\n    dsn: %s\n", species, dbPath)
	}
	return WriteFile(t, dir, filename, b.String())
}

// WriteFile writes content to a file in a temporary directory
func WriteFile(t *testing.T, dir, filename, content string) string {
	t.Helper()
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
	return path
}

// ReadFile reads content from a file
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(data)
}

// AssertNoError asserts that an error is nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
}

// AssertError asserts that an error is not nil
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
}

// AssertEqual asserts that two values are equal
func AssertEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()
	if expected != actual {
		t.Fatalf("Expected %v, got %v", expected, actual)
	}
}

// AssertStringContains asserts that a string contains a substring
func AssertStringContains(t *testing.T, str, substr string) {
	t.Helper()
	if !strings.Contains(str, substr) {
		t.Fatalf("Expected string to contain %q, got %q", substr, str)
	}
}
