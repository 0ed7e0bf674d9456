package date

// Range is an inclusive range of days. A zero bound leaves that side open.
type Range struct{ From, To Date }

// NewRange returns the range between two days.
func NewRange(from, to Date) Range { return Range{From: from, To: to} }

// PeriodRange returns the period of kind p that contains d.
func PeriodRange(d Date, p Period) Range {
	return Range{From: d.StartOf(p), To: d.EndOf(p)}
}

// Contains reports whether day is within the range, boundaries included.
func (r Range) Contains(day Date) bool {
	if !r.From.IsZero() && day.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && day.After(r.To) {
		return false
	}
	return true
}

// IsOpen reports whether the range has no bounds at all.
func (r Range) IsOpen() bool { return r.From.IsZero() && r.To.IsZero() }

// String formats the range as "from..to".
func (r Range) String() string { return r.From.String() + ".." + r.To.String() }
