package report

import (
	"fmt"
	"io"
	"strconv"

	"shopmigrate/internal/ingest"
)

// Columns writes the header of t with column positions and its row count.
func Columns(w io.Writer, t *ingest.Table) error {
	if _, err := fmt.Fprintf(w, "%s: %d rows, delimiter %q\n\n", t.Path, len(t.Rows), t.Delimiter); err != nil {
		return err
	}

	tbl := &Table{Header: []string{"#", "Column"}, Align: []Align{AlignRight}}
	for i, h := range t.Header {
		tbl.AddRow(strconv.Itoa(i), h)
	}

	return tbl.Render(w)
}

// Distinct writes the value counts of one column.
func Distinct(w io.Writer, column string, values []ingest.ValueCount) error {
	if _, err := fmt.Fprintf(w, "%s: %d distinct values\n\n", column, len(values)); err != nil {
		return err
	}

	tbl := &Table{
		Header:   []string{"Value", "Count"},
		Align:    []Align{AlignLeft, AlignRight},
		MaxWidth: 60,
	}

	for _, v := range values {
		value := v.Value
		if value == "" {
			value = "(empty)"
		}

		tbl.AddRow(value, strconv.Itoa(v.Count))
	}

	return tbl.Render(w)
}
