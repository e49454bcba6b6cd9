package data

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mchmarny/drafttag/pkg/table"
)

var sqlTypes = map[table.Kind]string{
	table.KindInt:    "INTEGER",
	table.KindFloat:  "REAL",
	table.KindString: "TEXT",
	table.KindEmpty:  "TEXT",
}

// SQLiteSink writes the annotated table into a SQLite file.
type SQLiteSink struct {
	Path  string
	Table string
}

// Write replaces the sink table with t.
func (s *SQLiteSink) Write(t *table.Table) (retErr error) {
	db, err := GetDB(s.Path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && retErr == nil {
			retErr = fmt.Errorf("closing database: %w", cerr)
		}
	}()

	name := s.Table
	if name == "" {
		name = TableName
	}
	return SaveTable(db, name, t)
}

// SaveTable drops and recreates table name with the columns of t and inserts
// every row in a single transaction. Empty cells are stored as NULL.
func SaveTable(db *sql.DB, name string, t *table.Table) error {
	if db == nil {
		return errDBNotInitialized
	}
	if name == "" || t == nil {
		return errors.New("table name and table required")
	}
	if len(t.Columns) == 0 {
		return errors.New("table has no columns")
	}

	kinds := make([]table.Kind, len(t.Columns))
	defs := make([]string, len(t.Columns))
	cols := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		kinds[i] = t.Kind(c)
		cols[i] = quoteIdent(c)
		defs[i] = cols[i] + " " + sqlTypes[kinds[i]]
		marks[i] = "?"
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := saveRows(tx, name, t, kinds, defs, cols, marks); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return fmt.Errorf("failed to rollback transaction: %w (after %w)", rerr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	slog.Debug("table saved", "table", name, "rows", t.Len(), "columns", len(t.Columns))
	return nil
}

func saveRows(tx *sql.Tx, name string, t *table.Table, kinds []table.Kind, defs, cols, marks []string) error {
	if _, err := tx.Exec("DROP TABLE IF EXISTS " + quoteIdent(name)); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", name, err)
	}

	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(name), strings.Join(defs, ", "))
	if _, err := tx.Exec(ddl); err != nil {
		return fmt.Errorf("failed to create table %s: %w", name, err)
	}

	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(name), strings.Join(cols, ", "), strings.Join(marks, ", ")))
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(t.Columns))
	for i, row := range t.Rows {
		for j, v := range row {
			args[j] = cellValue(v, kinds[j])
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i+1, err)
		}
	}
	return nil
}

func cellValue(v string, k table.Kind) any {
	s := strings.TrimSpace(v)
	if s == "" {
		return nil
	}
	switch k {
	case table.KindInt:
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
	case table.KindFloat:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return v
}
