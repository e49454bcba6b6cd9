package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const dirMode = 0o755

// WriteCSV writes the whole table to path, creating missing parent directories.
func WriteCSV(path string, t *Table) (retErr error) {
	if path == "" {
		return errors.New("output path required")
	}
	if t == nil {
		return errors.New("table required")
	}

	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return fmt.Errorf("creating output dir for %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && retErr == nil {
			retErr = fmt.Errorf("closing file: %w", cerr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("writing rows: %w", err)
	}

	return nil
}
