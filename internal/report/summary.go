package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"shopmigrate/internal/models"
	"shopmigrate/internal/telemetry"
)

// DefaultFailureLimit caps the failures listed in a summary.
const DefaultFailureLimit = 20

// Summary is the end-of-run report.
type Summary struct {
	Stats        *models.Statistics
	Counters     map[string]int64
	RunID        string
	Entity       string
	Source       string
	Failures     []models.Outcome
	FailureLimit int
	DryRun       bool
}

// Render writes the summary: a header, the outcome counts, remote counters
// when any were collected, and the first failures.
func (s *Summary) Render(w io.Writer) error {
	mode := ""
	if s.DryRun {
		mode = " (dry run)"
	}

	if _, err := fmt.Fprintf(w, "Run %s: %s from %s%s\n\n", s.RunID, s.Entity, s.Source, mode); err != nil {
		return err
	}

	counts := &Table{Header: []string{"Outcome", "Rows"}, Align: []Align{AlignLeft, AlignRight}}
	counts.AddRow("total", itoa(s.Stats.Total()))
	counts.AddRow("created", itoa(s.Stats.Created()))
	counts.AddRow("updated", itoa(s.Stats.Updated()))

	if d := s.Stats.Deleted(); d > 0 {
		counts.AddRow("deleted", itoa(d))
	}

	counts.AddRow("skipped", itoa(s.Stats.Skipped()))
	counts.AddRow("failed", itoa(s.Stats.Failed()))
	counts.AddRow("elapsed", s.Stats.Elapsed().Round(time.Millisecond).String())

	if err := counts.Render(w); err != nil {
		return err
	}

	if remote := s.remoteTable(); remote != nil {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}

		if err := remote.Render(w); err != nil {
			return err
		}
	}

	return s.renderFailures(w)
}

func (s *Summary) remoteTable() *Table {
	var names []string

	for name := range s.Counters {
		if strings.HasPrefix(name, telemetry.RemoteCalls) ||
			strings.HasPrefix(name, telemetry.RemoteErrors) ||
			name == telemetry.Throttles {
			names = append(names, name)
		}
	}

	if len(names) == 0 {
		return nil
	}

	sort.Strings(names)

	t := &Table{Header: []string{"Counter", "Value"}, Align: []Align{AlignLeft, AlignRight}}
	for _, name := range names {
		t.AddRow(name, itoa(s.Counters[name]))
	}

	return t
}

func (s *Summary) renderFailures(w io.Writer) error {
	if len(s.Failures) == 0 {
		return nil
	}

	limit := s.FailureLimit
	if limit <= 0 {
		limit = DefaultFailureLimit
	}

	failures := s.Failures
	if len(failures) > limit {
		failures = failures[:limit]
	}

	if _, err := fmt.Fprintf(w, "\nFailures (%d):\n\n", len(s.Failures)); err != nil {
		return err
	}

	t := &Table{
		Header:   []string{"Row", "Key", "Reason"},
		Align:    []Align{AlignRight},
		MaxWidth: 80,
	}

	for _, f := range failures {
		t.AddRow(strconv.Itoa(f.Row), f.Key, f.Reason)
	}

	if err := t.Render(w); err != nil {
		return err
	}

	if hidden := len(s.Failures) - len(failures); hidden > 0 {
		_, err := fmt.Fprintf(w, "... and %d more\n", hidden)
		return err
	}

	return nil
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
