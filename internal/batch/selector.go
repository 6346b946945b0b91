// Package batch selects row windows and runs independent tasks under a
// concurrency ceiling.
package batch

// Window is a contiguous row range [Start, Start+Size). A zero Size selects
// every row from Start on.
type Window struct {
	Start int
	Size  int
}

// End returns the exclusive end of w for a dataset of length n.
func (w Window) End(n int) int {
	start := w.clampedStart(n)
	if w.Size <= 0 || w.Size > n-start {
		return n
	}

	return start + w.Size
}

func (w Window) clampedStart(n int) int {
	switch {
	case w.Start < 0:
		return 0
	case w.Start > n:
		return n
	}

	return w.Start
}

// Selection is the outcome of applying a Window to a dataset.
type Selection[T any] struct {
	Rows    []T
	Start   int
	End     int
	Total   int
	HasMore bool
}

// Select returns the rows of w, clamped to len(rows), and whether rows remain
// past the window. It never mutates rows.
func Select[T any](rows []T, w Window) Selection[T] {
	n := len(rows)
	start := w.clampedStart(n)
	end := w.End(n)

	return Selection[T]{
		Rows:    rows[start:end:end],
		Start:   start,
		End:     end,
		Total:   n,
		HasMore: end < n,
	}
}

// Next returns the window following s with the same size, for callers that
// drive resumption across invocations.
func (s Selection[T]) Next() Window {
	return Window{Start: s.End, Size: s.End - s.Start}
}
