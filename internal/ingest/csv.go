// Package ingest locates and parses CSV exports from local disk or S3.
package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Parsing errors.
var (
	ErrEmptyFile    = errors.New("csv file is empty")
	ErrUnknownField = errors.New("column not in header")
)

const sniffSize = 64 * 1024

var candidateDelimiters = []rune{';', ',', '\t', '|'}

// Table is a parsed CSV file. Rows exclude the header and blank lines.
type Table struct {
	Path      string
	Header    []string
	Rows      [][]string
	Delimiter rune
}

// ReadCSV parses r. A zero comma auto-detects the delimiter from the header
// line. Rows may be ragged; fully empty rows are dropped.
func ReadCSV(r io.Reader, comma rune) (*Table, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	if comma == 0 {
		var err error

		comma, err = sniffDelimiter(br)
		if err != nil {
			return nil, err
		}
	}

	cr := csv.NewReader(br)
	cr.Comma = comma
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	t := &Table{Header: header, Delimiter: comma}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}

		if blank(rec) {
			continue
		}

		t.Rows = append(t.Rows, rec)
	}

	return t, nil
}

// sniffDelimiter picks the candidate occurring most often, outside quotes,
// in the first non-empty line.
func sniffDelimiter(br *bufio.Reader) (rune, error) {
	peek, err := br.Peek(sniffSize)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return 0, fmt.Errorf("failed to read csv header: %w", err)
	}

	line := trimLeadingBlankLines(peek)
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}

	if len(bytes.TrimSpace(line)) == 0 {
		return 0, ErrEmptyFile
	}

	best, bestCount := ',', 0

	for _, d := range candidateDelimiters {
		if c := countOutsideQuotes(line, d); c > bestCount {
			best, bestCount = d, c
		}
	}

	return best, nil
}

func trimLeadingBlankLines(b []byte) []byte {
	for len(b) > 0 && (b[0] == '\n' || b[0] == '\r') {
		b = b[1:]
	}

	return b
}

func countOutsideQuotes(line []byte, d rune) int {
	count := 0
	quoted := false

	for _, r := range string(line) {
		switch {
		case r == '"':
			quoted = !quoted
		case r == d && !quoted:
			count++
		}
	}

	return count
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}

	return true
}

// ColumnIndex returns the position of name in the header, matched case
// insensitively.
func (t *Table) ColumnIndex(name string) (int, error) {
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(name)) {
			return i, nil
		}
	}

	return -1, fmt.Errorf("%w: %q", ErrUnknownField, name)
}
