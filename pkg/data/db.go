package data

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const (
	// TableName is the table the annotated records are written to.
	TableName = "draft_record"

	dirMode = 0o755
)

var (
	errDBNotInitialized = errors.New("database not initialized")

	dbExtensions = []string{".db", ".sqlite", ".sqlite3"}
)

// IsDBPath reports whether path names a SQLite file rather than a CSV file.
func IsDBPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range dbExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// GetDB opens the SQLite database at path, creating its parent dir.
func GetDB(path string) (*sql.DB, error) {
	if path == "" {
		return nil, errors.New("database path not specified")
	}

	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return nil, fmt.Errorf("creating database dir for %s: %w", path, err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	return conn, nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
