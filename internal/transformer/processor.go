// Package transformer builds canonical product and customer payloads from
// raw CSV rows.
package transformer

import (
	"fmt"

	"shopmigrate/internal/logger"
	"shopmigrate/internal/models"
	"shopmigrate/internal/normalizer"
)

// Processor turns a parsed CSV table into raw records, validating the header
// against the feed's column mapping once.
type Processor struct {
	validator *normalizer.Validator
}

// NewProcessor creates a processor for mapping.
func NewProcessor(mapping map[models.Column]string, log logger.Sink) *Processor {
	return &Processor{
		validator: normalizer.NewValidator(mapping, log),
	}
}

// Records validates header and maps every row to a RawRecord. Record indexes
// are zero-based data row positions.
func (p *Processor) Records(header []string, rows [][]string) ([]models.RawRecord, error) {
	report, err := p.validator.Validate(header)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	records := make([]models.RawRecord, len(rows))
	for i, row := range rows {
		records[i] = report.Record(i, row)
	}

	return records, nil
}
