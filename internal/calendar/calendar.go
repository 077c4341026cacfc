package calendar

import (
	"fmt"
	"time"

	"github.com/username/office-dates/pkg/dateutil"
)

// OfficeDate represents a day on which office attendance is scheduled
type OfficeDate struct {
	Date  time.Time // civil date, midnight UTC
	Year  int
	Month time.Month
}

// NewOfficeDate creates an OfficeDate whose year and month are derived from date
func NewOfficeDate(date time.Time) OfficeDate {
	d := dateutil.DateOf(date)
	return OfficeDate{
		Date:  d,
		Year:  d.Year(),
		Month: d.Month(),
	}
}

// Day returns the day-of-month component
func (od OfficeDate) Day() int {
	return od.Date.Day()
}

// String formats the date as YYYY-MM-DD
func (od OfficeDate) String() string {
	return dateutil.FormatDate(od.Date)
}

// Validate checks that the stored year and month agree with Date
func (od OfficeDate) Validate() error {
	if od.Month < time.January || od.Month > time.December {
		return fmt.Errorf("month %d out of range 1..12", od.Month)
	}
	if od.Year != od.Date.Year() || od.Month != od.Date.Month() {
		return fmt.Errorf("year/month %d-%02d does not match date %s",
			od.Year, od.Month, od.String())
	}
	return nil
}

// Calendar answers office-date queries.
// Optional arguments are nil when the caller did not supply them.
type Calendar interface {
	// OfficeDatesForMonth returns the office dates of a month in ascending order
	OfficeDatesForMonth(month int, year *int) ([]OfficeDate, error)

	// NextOfficeDate returns the first office date strictly after from
	NextOfficeDate(from *time.Time) (OfficeDate, bool)

	// LastWorkingDay returns the day-of-month of the last office date in a month
	LastWorkingDay(month int, year *int) (int, bool, error)
}
