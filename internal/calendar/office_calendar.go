package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/username/office-dates/pkg/dateutil"
	"go.uber.org/zap"
)

// OfficeCalendar implements Calendar over an in-memory, date-ordered set of
// office dates. It is never modified after construction, so it is safe for
// concurrent use without locking.
type OfficeCalendar struct {
	dates    []OfficeDate // ascending, unique by Date
	clock    Clock
	location *time.Location
	logger   *zap.Logger
}

var _ Calendar = (*OfficeCalendar)(nil)

// NewOfficeCalendar validates, sorts and deduplicates dates.
// A nil clock means SystemClock, a nil location means time.Local.
// The caller's slice is not retained.
func NewOfficeCalendar(dates []OfficeDate, clock Clock, location *time.Location, logger *zap.Logger) (*OfficeCalendar, error) {
	if clock == nil {
		clock = SystemClock
	}
	if location == nil {
		location = time.Local
	}

	sorted := make([]OfficeDate, 0, len(dates))
	for i, od := range dates {
		if err := od.Validate(); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrDataset, i, err)
		}
		od.Date = dateutil.DateOf(od.Date)
		sorted = append(sorted, od)
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	unique := sorted[:0]
	for _, od := range sorted {
		if len(unique) > 0 && unique[len(unique)-1].Date.Equal(od.Date) {
			continue
		}
		unique = append(unique, od)
	}

	if dropped := len(sorted) - len(unique); dropped > 0 {
		logger.Warn("Duplicate office dates dropped", zap.Int("duplicates", dropped))
	}
	if len(unique) == 0 {
		logger.Warn("Office calendar is empty")
	}

	cal := &OfficeCalendar{
		dates:    unique,
		clock:    clock,
		location: location,
		logger:   logger,
	}

	if first, ok := cal.First(); ok {
		last, _ := cal.Last()
		logger.Info("Office calendar ready",
			zap.Int("office_dates", len(unique)),
			zap.String("first", first.String()),
			zap.String("last", last.String()),
			zap.String("timezone", location.String()))
	}

	return cal, nil
}

// Len returns the number of office dates
func (oc *OfficeCalendar) Len() int {
	return len(oc.dates)
}

// First returns the earliest office date
func (oc *OfficeCalendar) First() (OfficeDate, bool) {
	if len(oc.dates) == 0 {
		return OfficeDate{}, false
	}
	return oc.dates[0], true
}

// Last returns the latest office date
func (oc *OfficeCalendar) Last() (OfficeDate, bool) {
	if len(oc.dates) == 0 {
		return OfficeDate{}, false
	}
	return oc.dates[len(oc.dates)-1], true
}

// Today returns the current civil date in the calendar's location
func (oc *OfficeCalendar) Today() time.Time {
	return dateutil.Today(oc.clock.Now(), oc.location)
}

// OfficeDatesForMonth returns the office dates of a month in ascending order.
// A nil year means the current year. The result is empty, not nil, when the
// month has no office dates.
func (oc *OfficeCalendar) OfficeDatesForMonth(month int, year *int) ([]OfficeDate, error) {
	if err := validateMonth(month); err != nil {
		return nil, err
	}

	span := oc.monthSpan(oc.resolveYear(year), time.Month(month))

	result := make([]OfficeDate, len(span))
	copy(result, span)
	return result, nil
}

// NextOfficeDate returns the first office date strictly after from.
// A nil from means today; time of day is ignored.
func (oc *OfficeCalendar) NextOfficeDate(from *time.Time) (OfficeDate, bool) {
	ref := oc.Today()
	if from != nil {
		ref = dateutil.DateOf(*from)
	}

	i := sort.Search(len(oc.dates), func(i int) bool {
		return oc.dates[i].Date.After(ref)
	})
	if i == len(oc.dates) {
		return OfficeDate{}, false
	}

	return oc.dates[i], true
}

// LastWorkingDay returns the day-of-month of the last office date in a month.
// A nil year means the current year.
func (oc *OfficeCalendar) LastWorkingDay(month int, year *int) (int, bool, error) {
	if err := validateMonth(month); err != nil {
		return 0, false, err
	}

	span := oc.monthSpan(oc.resolveYear(year), time.Month(month))
	if len(span) == 0 {
		return 0, false, nil
	}

	return span[len(span)-1].Day(), true, nil
}

func (oc *OfficeCalendar) resolveYear(year *int) int {
	if year != nil {
		return *year
	}
	return oc.Today().Year()
}

// monthSpan returns the sub-slice of dates in [first of month, first of next month)
func (oc *OfficeCalendar) monthSpan(year int, month time.Month) []OfficeDate {
	start := dateutil.StartOfMonth(year, month)
	end := dateutil.StartOfNextMonth(year, month)

	lo := sort.Search(len(oc.dates), func(i int) bool {
		return !oc.dates[i].Date.Before(start)
	})
	hi := sort.Search(len(oc.dates), func(i int) bool {
		return !oc.dates[i].Date.Before(end)
	})

	return oc.dates[lo:hi]
}
