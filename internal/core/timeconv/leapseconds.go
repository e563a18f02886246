package timeconv

import (
	"fmt"
	"sort"
	"time"
)

// baseLeapSeconds is TAI-UTC in force at the first table boundary.
const baseLeapSeconds = 10

// LeapSecondTable is an immutable, strictly increasing list of UTC instants at
// which a leap second took effect.
type LeapSecondTable struct {
	boundaries []time.Time
}

func utcDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// historicalBoundaries ends with the 2017-01-01 leap second. Dates after it
// reuse its count, so TDB drifts by one second per leap second announced later
// unless the table is extended (see Extend).
var historicalBoundaries = []time.Time{
	utcDate(1972, 1, 1),
	utcDate(1972, 7, 1),
	utcDate(1973, 1, 1),
	utcDate(1974, 1, 1),
	utcDate(1975, 1, 1),
	utcDate(1976, 1, 1),
	utcDate(1977, 1, 1),
	utcDate(1978, 1, 1),
	utcDate(1979, 1, 1),
	utcDate(1980, 1, 1),
	utcDate(1981, 7, 1),
	utcDate(1982, 7, 1),
	utcDate(1983, 7, 1),
	utcDate(1985, 7, 1),
	utcDate(1988, 1, 1),
	utcDate(1990, 1, 1),
	utcDate(1991, 1, 1),
	utcDate(1992, 7, 1),
	utcDate(1993, 7, 1),
	utcDate(1994, 7, 1),
	utcDate(1996, 1, 1),
	utcDate(1997, 7, 1),
	utcDate(1999, 1, 1),
	utcDate(2006, 1, 1),
	utcDate(2009, 1, 1),
	utcDate(2012, 7, 1),
	utcDate(2015, 7, 1),
	utcDate(2017, 1, 1),
}

var defaultTable = mustTable(historicalBoundaries)

// DefaultTable returns the built-in table (1972-01-01 .. 2017-01-01).
func DefaultTable() *LeapSecondTable {
	return defaultTable
}

func mustTable(boundaries []time.Time) *LeapSecondTable {
	t, err := NewLeapSecondTable(boundaries)
	if err != nil {
		panic(err)
	}
	return t
}

// NewLeapSecondTable validates and copies boundaries.
func NewLeapSecondTable(boundaries []time.Time) (*LeapSecondTable, error) {
	if len(boundaries) == 0 {
		return nil, fmt.Errorf("leap second table is empty")
	}
	copied := make([]time.Time, len(boundaries))
	for i, b := range boundaries {
		copied[i] = b.UTC()
		if i > 0 && !copied[i].After(copied[i-1]) {
			return nil, fmt.Errorf("leap second table not strictly increasing at %s",
				copied[i].Format(time.DateOnly))
		}
	}
	return &LeapSecondTable{boundaries: copied}, nil
}

// Extend returns a new table with extra boundaries appended. Every extra
// boundary must be later than the current last one.
func (t *LeapSecondTable) Extend(extra ...time.Time) (*LeapSecondTable, error) {
	all := make([]time.Time, 0, len(t.boundaries)+len(extra))
	all = append(all, t.boundaries...)
	all = append(all, extra...)
	return NewLeapSecondTable(all)
}

// Boundaries returns a copy of the table.
func (t *LeapSecondTable) Boundaries() []time.Time {
	out := make([]time.Time, len(t.boundaries))
	copy(out, t.boundaries)
	return out
}

// Len is the number of boundaries.
func (t *LeapSecondTable) Len() int {
	return len(t.boundaries)
}

// Last is the most recent boundary; counts are frozen after it.
func (t *LeapSecondTable) Last() time.Time {
	return t.boundaries[len(t.boundaries)-1]
}

// Count returns TAI-UTC in whole seconds for date: 10 plus the index of the
// last boundary strictly before date. The first boundary itself counts as 10.
func (t *LeapSecondTable) Count(date time.Time) (int, error) {
	date = date.UTC()
	before := sort.Search(len(t.boundaries), func(i int) bool {
		return !t.boundaries[i].Before(date)
	})
	if before == 0 {
		if date.Equal(t.boundaries[0]) {
			return baseLeapSeconds, nil
		}
		return 0, &DateTooEarlyError{Date: date, First: t.boundaries[0]}
	}
	return baseLeapSeconds + before - 1, nil
}
