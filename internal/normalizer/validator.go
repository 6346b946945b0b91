package normalizer

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"shopmigrate/internal/logger"
	"shopmigrate/internal/models"
)

// Validation errors.
var (
	ErrEmptyHeader     = errors.New("csv header is empty")
	ErrUnknownColumn   = errors.New("column mapping references an undocumented column")
	ErrNoMappedColumns = errors.New("none of the mapped columns appear in the csv header")
)

// HeaderReport describes how a CSV header lines up with a column mapping.
type HeaderReport struct {
	// Present maps each logical column to its header position.
	Present map[models.Column]int
	// Missing lists mapped columns absent from the header. Rows read them as "".
	Missing []models.Column
}

// Validator checks a CSV header against a feed's column mapping once, at
// load time, so per-field access never needs to.
type Validator struct {
	mapping map[models.Column]string
	log     logger.Sink
}

// NewValidator creates a validator for the given logical column to header
// name mapping.
func NewValidator(mapping map[models.Column]string, log logger.Sink) *Validator {
	if log == nil {
		log = logger.Nop()
	}

	return &Validator{mapping: mapping, log: log}
}

// Validate matches header names (trimmed, case-insensitive, BOM tolerant)
// against the mapping. Missing columns are reported and logged, not fatal;
// a header sharing no column with the mapping is.
func (v *Validator) Validate(header []string) (*HeaderReport, error) {
	if len(header) == 0 {
		return nil, ErrEmptyHeader
	}

	positions := make(map[string]int, len(header))
	for i, h := range header {
		key := headerKey(h)
		if _, dup := positions[key]; !dup {
			positions[key] = i
		}
	}

	report := &HeaderReport{Present: make(map[models.Column]int, len(v.mapping))}

	for col, name := range v.mapping {
		if !col.IsKnown() {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, col)
		}

		if pos, ok := positions[headerKey(name)]; ok {
			report.Present[col] = pos
			continue
		}

		report.Missing = append(report.Missing, col)
	}

	sort.Slice(report.Missing, func(i, j int) bool { return report.Missing[i] < report.Missing[j] })

	if len(report.Present) == 0 {
		return nil, fmt.Errorf("%w (header: %s)", ErrNoMappedColumns, strings.Join(header, ", "))
	}

	for _, col := range report.Missing {
		v.log.Warn("Mapped column missing from csv header, reading as empty",
			"column", string(col), "header", v.mapping[col])
	}

	return report, nil
}

// Record builds a RawRecord from one CSV row using a validated header.
// Short rows read the absent trailing columns as "".
func (r *HeaderReport) Record(index int, row []string) models.RawRecord {
	values := make(map[models.Column]string, len(r.Present))

	for col, pos := range r.Present {
		if pos < len(row) {
			values[col] = row[pos]
		}
	}

	return models.NewRawRecord(index, values)
}

func headerKey(h string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
}
