package ingest

import (
	"cmp"
	"slices"
	"strings"
)

// ValueCount is one distinct column value and how many rows carry it.
type ValueCount struct {
	Value string
	Count int
}

// Distinct counts the trimmed values of column, most frequent first. Ties
// sort by value. Empty cells are counted under "".
func (t *Table) Distinct(column string) ([]ValueCount, error) {
	idx, err := t.ColumnIndex(column)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)

	for _, row := range t.Rows {
		v := ""
		if idx < len(row) {
			v = strings.TrimSpace(row[idx])
		}

		counts[v]++
	}

	out := make([]ValueCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, ValueCount{Value: v, Count: c})
	}

	slices.SortFunc(out, func(a, b ValueCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}

		return cmp.Compare(a.Value, b.Value)
	})

	return out, nil
}

// Filter returns a copy of t keeping rows whose column equals value, compared
// case insensitively after trimming.
func (t *Table) Filter(column, value string) (*Table, error) {
	idx, err := t.ColumnIndex(column)
	if err != nil {
		return nil, err
	}

	out := &Table{Path: t.Path, Header: slices.Clone(t.Header), Delimiter: t.Delimiter}

	for _, row := range t.Rows {
		cell := ""
		if idx < len(row) {
			cell = row[idx]
		}

		if strings.EqualFold(strings.TrimSpace(cell), strings.TrimSpace(value)) {
			out.Rows = append(out.Rows, slices.Clone(row))
		}
	}

	return out, nil
}
