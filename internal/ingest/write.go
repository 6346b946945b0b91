package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Write encodes t with its own delimiter, header first.
func (t *Table) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if t.Delimiter != 0 {
		cw.Comma = t.Delimiter
	}

	if err := cw.Write(t.Header); err != nil {
		return err
	}

	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}

	return nil
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// Split writes one file per distinct value of column into dir, named
// <base>_<value>.csv, and returns the written paths.
func (t *Table) Split(column, dir string) ([]string, error) {
	values, err := t.Distinct(column)
	if err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(filepath.Base(t.Path), filepath.Ext(t.Path))
	if base == "" || base == "." {
		base = "export"
	}

	paths := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))

	for _, v := range values {
		suffix := strings.ToLower(strings.Trim(unsafeName.ReplaceAllString(v.Value, "_"), "_"))
		if suffix == "" {
			suffix = "empty"
		}

		// Filter folds case, so "IT" and "it" share one file
		if seen[strings.ToLower(v.Value)] {
			continue
		}

		seen[strings.ToLower(v.Value)] = true

		part, err := t.Filter(column, v.Value)
		if err != nil {
			return nil, err
		}

		path := filepath.Join(dir, base+"_"+suffix+".csv")
		if err := writeFile(path, part); err != nil {
			return nil, err
		}

		paths = append(paths, path)
	}

	return paths, nil
}

func writeFile(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := t.Write(f); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
