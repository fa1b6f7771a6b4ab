package date

import "fmt"

// Range represents an inclusive range of dates.
type Range struct{ From, To Date }

// NewRange returns the inclusive range between two days.
func NewRange(from, to Date) Range { return Range{From: from, To: to} }

// Contains return true if date is included in the range (boundaries included).
func (r Range) Contains(d Date) bool { return !d.Before(r.From) && !d.After(r.To) }

// String formats the range as "from..to".
func (r Range) String() string { return fmt.Sprintf("%s..%s", r.From, r.To) }

// Month returns the range covering the whole month the given date falls in.
func Month(d Date) Range {
	start := New(d.Year(), d.Month(), 1)
	return Range{From: start, To: New(d.Year(), d.Month()+1, 1).Add(-1)}
}

// Year returns the range covering the whole year the given date falls in.
func Year(d Date) Range {
	return Range{From: New(d.Year(), 1, 1), To: New(d.Year(), 12, 31)}
}
