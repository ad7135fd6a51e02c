package tariff

import (
	"fmt"
	"iter"
	"time"
)

// DaySegment is the part of a stay that falls on one calendar day
// together with the fee charged for it.
type DaySegment struct {
	Start time.Time
	End   time.Time
	Fee   int
}

func newDaySegment(start, end time.Time) DaySegment {
	return DaySegment{
		Start: start,
		End:   end,
		Fee:   FeeBetween(start, end),
	}
}

// Minutes returns the whole minutes billed for the segment.
func (s DaySegment) Minutes() int {
	return ElapsedMinutes(s.Start, s.End)
}

// Date returns midnight of the segment's calendar day.
func (s DaySegment) Date() time.Time {
	return startOfDay(s.Start)
}

func (s DaySegment) String() string {
	return fmt.Sprintf("%s - %s: %d",
		s.Start.Format("2006-01-02 15:04:05"),
		s.End.Format("2006-01-02 15:04:05"),
		s.Fee,
	)
}

// DayIterator walks a stay one calendar day at a time. The zero value
// is not usable, create it with NewDayIterator.
type DayIterator struct {
	start   time.Time
	end     time.Time
	lastDay time.Time

	// midnight of the date the next segment is cut from
	day time.Time
}

// NewDayIterator returns a cursor over the day segments between start
// and end. Both are read on the wall clock of start's zone and the
// segments are returned in UTC. It panics if end is before start.
func NewDayIterator(start, end time.Time) *DayIterator {
	start, end = wallClocks(start, end)
	mustBeOrdered(start, end)

	it := &DayIterator{
		start:   start,
		end:     end,
		lastDay: startOfDay(end),
	}
	it.Reset()

	return it
}

// Reset rewinds the cursor to the first day of the stay.
func (it *DayIterator) Reset() {
	it.day = startOfDay(it.start)
}

// Next returns the next day segment. The second result is false once
// the cursor has moved past the last day of the stay.
func (it *DayIterator) Next() (DaySegment, bool) {
	if it.day.After(it.lastDay) {
		return DaySegment{}, false
	}

	from := it.day
	if sameDate(it.day, it.start) {
		from = it.start
	}

	to := endOfDay(it.day)
	if sameDate(it.day, it.end) {
		to = it.end
	}

	// start may sit inside the last second of its day
	if to.Before(from) {
		to = from
	}

	it.day = nextDay(it.day)

	return newDaySegment(from, to), true
}

// Split bills every calendar day between start and end and returns the
// segments in chronological order. There is always at least one.
// It panics if end is before start.
func Split(start, end time.Time) []DaySegment {
	it := NewDayIterator(start, end)

	var segments []DaySegment

	for seg, ok := it.Next(); ok; seg, ok = it.Next() {
		segments = append(segments, seg)
	}

	return segments
}

// Days is the range-over-func form of Split. Every range starts from
// the first day of the stay.
func Days(start, end time.Time) iter.Seq[DaySegment] {
	mustBeOrdered(wallClocks(start, end))

	return func(yield func(DaySegment) bool) {
		it := NewDayIterator(start, end)

		for seg, ok := it.Next(); ok; seg, ok = it.Next() {
			if !yield(seg) {
				return
			}
		}
	}
}

// Total sums the already capped fees of the given segments.
func Total(segments []DaySegment) int {
	var total int

	for _, seg := range segments {
		total += seg.Fee
	}

	return total
}

func wallClocks(start, end time.Time) (time.Time, time.Time) {
	return wallClock(start), wallClock(end.In(start.Location()))
}

func mustBeOrdered(start, end time.Time) {
	if end.Before(start) {
		panic(fmt.Sprintf("tariff: end %s is before start %s", end, start))
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}

func nextDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()

	return ay == by && am == bm && ad == bd
}
