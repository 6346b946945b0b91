package models

import (
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"
)

// OutcomeKind classifies the result of one unit of work.
type OutcomeKind string

// Outcome kinds.
const (
	OutcomeCreated OutcomeKind = "created"
	OutcomeUpdated OutcomeKind = "updated"
	OutcomeDeleted OutcomeKind = "deleted"
	OutcomeSkipped OutcomeKind = "skipped"
	OutcomeFailed  OutcomeKind = "failed"
)

// Outcome is the per-row result recorded by the orchestrators.
type Outcome struct {
	Err         error
	Kind        OutcomeKind
	Key         string
	Reason      string
	RemoteID    string
	Fingerprint string
	Row         int
}

// Created builds a created outcome.
func Created(row int, key, remoteID string) Outcome {
	return Outcome{Kind: OutcomeCreated, Row: row, Key: key, RemoteID: remoteID}
}

// Updated builds an updated outcome.
func Updated(row int, key, remoteID string) Outcome {
	return Outcome{Kind: OutcomeUpdated, Row: row, Key: key, RemoteID: remoteID}
}

// Deleted builds a deleted outcome.
func Deleted(row int, key, remoteID string) Outcome {
	return Outcome{Kind: OutcomeDeleted, Row: row, Key: key, RemoteID: remoteID}
}

// Skipped builds a skipped outcome carrying reason.
func Skipped(row int, key, reason string) Outcome {
	return Outcome{Kind: OutcomeSkipped, Row: row, Key: key, Reason: reason}
}

// Failed builds a failed outcome carrying err.
func Failed(row int, key string, err error) Outcome {
	o := Outcome{Kind: OutcomeFailed, Row: row, Key: key, Err: err}
	if err != nil {
		o.Reason = err.Error()
	}

	return o
}

// Statistics aggregates outcomes for one run. Counters are commutative so
// completion order does not matter.
type Statistics struct {
	started time.Time
	elapsed atomic.Int64
	total   atomic.Int64
	created atomic.Int64
	updated atomic.Int64
	deleted atomic.Int64
	skipped atomic.Int64
	failed  atomic.Int64
}

// NewStatistics starts the wall clock for a run over total rows.
func NewStatistics(total int) *Statistics {
	s := &Statistics{started: time.Now()}
	s.total.Store(int64(total))

	return s
}

// Record counts one outcome.
func (s *Statistics) Record(o Outcome) {
	switch o.Kind {
	case OutcomeCreated:
		s.created.Add(1)
	case OutcomeUpdated:
		s.updated.Add(1)
	case OutcomeDeleted:
		s.deleted.Add(1)
	case OutcomeSkipped:
		s.skipped.Add(1)
	case OutcomeFailed:
		s.failed.Add(1)
	}
}

// Finish freezes the elapsed time.
func (s *Statistics) Finish() {
	s.elapsed.Store(int64(time.Since(s.started)))
}

// Total returns the number of rows in the run.
func (s *Statistics) Total() int64 { return s.total.Load() }

// Created returns the number of created entities.
func (s *Statistics) Created() int64 { return s.created.Load() }

// Updated returns the number of updated entities.
func (s *Statistics) Updated() int64 { return s.updated.Load() }

// Deleted returns the number of deleted entities.
func (s *Statistics) Deleted() int64 { return s.deleted.Load() }

// Skipped returns the number of skipped rows.
func (s *Statistics) Skipped() int64 { return s.skipped.Load() }

// Failed returns the number of failed rows.
func (s *Statistics) Failed() int64 { return s.failed.Load() }

// Elapsed returns the frozen run duration, or the running time before Finish.
func (s *Statistics) Elapsed() time.Duration {
	if d := s.elapsed.Load(); d > 0 {
		return time.Duration(d)
	}

	return time.Since(s.started)
}

// LogValue implements slog.LogValuer for structured logging.
func (s *Statistics) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("total", s.Total()),
		slog.Int64("created", s.Created()),
		slog.Int64("updated", s.Updated()),
		slog.Int64("deleted", s.Deleted()),
		slog.Int64("skipped", s.Skipped()),
		slog.Int64("failed", s.Failed()),
		slog.Duration("elapsed", s.Elapsed()),
	)
}

// MarshalJSON implements json.Marshaler.
func (s *Statistics) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Total     int64 `json:"total"`
		Created   int64 `json:"created"`
		Updated   int64 `json:"updated"`
		Deleted   int64 `json:"deleted"`
		Skipped   int64 `json:"skipped"`
		Failed    int64 `json:"failed"`
		ElapsedMs int64 `json:"elapsedMs"`
	}{
		Total:     s.Total(),
		Created:   s.Created(),
		Updated:   s.Updated(),
		Deleted:   s.Deleted(),
		Skipped:   s.Skipped(),
		Failed:    s.Failed(),
		ElapsedMs: s.Elapsed().Milliseconds(),
	})
}
