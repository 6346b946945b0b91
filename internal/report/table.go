// Package report renders run summaries and inspection results as aligned
// pipe tables.
package report

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Align is the horizontal alignment of a column.
type Align int

// Alignments.
const (
	AlignLeft Align = iota
	AlignRight
)

const minColumnWidth = 3

// Table is a header plus rows. Rows may be ragged; missing cells render empty.
type Table struct {
	Header []string
	Rows   [][]string
	Align  []Align
	// MaxWidth truncates wider cells with an ellipsis. Zero disables it.
	MaxWidth int
}

// AddRow appends one row.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

func (t *Table) columns() int {
	n := len(t.Header)
	for _, row := range t.Rows {
		n = max(n, len(row))
	}

	return n
}

func (t *Table) cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}

	c := strings.Join(strings.Fields(row[i]), " ")
	if t.MaxWidth > 0 && runewidth.StringWidth(c) > t.MaxWidth {
		c = runewidth.Truncate(c, t.MaxWidth, "…")
	}

	return c
}

func (t *Table) align(i int) Align {
	if i < len(t.Align) {
		return t.Align[i]
	}

	return AlignLeft
}

// Lines renders the table. Widths are display widths, so wide runes line up.
func (t *Table) Lines() []string {
	colCount := t.columns()
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i := range widths {
		widths[i] = max(minColumnWidth, runewidth.StringWidth(t.cell(t.Header, i)))
	}

	for _, row := range t.Rows {
		for i := range colCount {
			widths[i] = max(widths[i], runewidth.StringWidth(t.cell(row, i)))
		}
	}

	lines := make([]string, 0, len(t.Rows)+2)
	lines = append(lines, t.line(t.Header, widths))

	var sb strings.Builder

	sb.WriteString("|")

	for i, w := range widths {
		sb.WriteString(" ")

		if t.align(i) == AlignRight {
			sb.WriteString(strings.Repeat("-", w-1) + ":")
		} else {
			sb.WriteString(strings.Repeat("-", w))
		}

		sb.WriteString(" |")
	}

	lines = append(lines, sb.String())

	for _, row := range t.Rows {
		lines = append(lines, t.line(row, widths))
	}

	return lines
}

func (t *Table) line(row []string, widths []int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for i, w := range widths {
		content := t.cell(row, i)
		padding := strings.Repeat(" ", w-runewidth.StringWidth(content))

		sb.WriteString(" ")

		if t.align(i) == AlignRight {
			sb.WriteString(padding + content)
		} else {
			sb.WriteString(content + padding)
		}

		sb.WriteString(" |")
	}

	return sb.String()
}

// Render writes the table followed by a newline.
func (t *Table) Render(w io.Writer) error {
	lines := t.Lines()
	if len(lines) == 0 {
		return nil
	}

	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")

	return err
}
