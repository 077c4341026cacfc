package tools

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/username/office-dates/internal/calendar"
	"github.com/username/office-dates/pkg/dateutil"
)

// Tool names exposed to callers
const (
	OfficeDatesForMonth = "office_dates_for_month"
	NextOfficeDate      = "next_office_date"
	LastWorkingDay      = "last_working_day"
)

type monthArgs struct {
	Month *int `json:"month" validate:"required,min=1,max=12"`
	Year  *int `json:"year" validate:"omitempty,min=1,max=9999"`
}

type nextArgs struct {
	FromDate *string `json:"from_date" validate:"omitempty,datetime=2006-01-02"`
}

// An empty from_date means the same as an omitted one
func (a *nextArgs) normalize() {
	if a.FromDate != nil && strings.TrimSpace(*a.FromDate) == "" {
		a.FromDate = nil
	}
}

var monthParams = []Param{
	{Name: "month", Type: "integer", Required: true, Description: "Month number, 1..12"},
	{Name: "year", Type: "integer", Description: "Year; defaults to the current year"},
}

func (r *Registry) registerOfficeTools() {
	r.register(&Tool{
		Name:        OfficeDatesForMonth,
		Description: "Return all office dates (YYYY-MM-DD) for the given month and year.",
		Params:      monthParams,
		handler:     r.officeDatesForMonth,
	})

	r.register(&Tool{
		Name:        NextOfficeDate,
		Description: "Return the next office date strictly after from_date (YYYY-MM-DD), or null.",
		Params: []Param{
			{Name: "from_date", Type: "string", Description: "Reference date YYYY-MM-DD; defaults to today"},
		},
		handler: r.nextOfficeDate,
	})

	r.register(&Tool{
		Name:        LastWorkingDay,
		Description: "Return the day of the last office date for the given month and year, or null.",
		Params:      monthParams,
		handler:     r.lastWorkingDay,
	})
}

func (r *Registry) officeDatesForMonth(_ context.Context, raw json.RawMessage) (any, error) {
	var args monthArgs
	if err := r.decode(raw, &args); err != nil {
		return nil, err
	}

	dates, err := r.calendar.OfficeDatesForMonth(*args.Month, args.Year)
	if err != nil {
		return nil, err
	}

	result := make([]string, len(dates))
	for i, d := range dates {
		result[i] = d.String()
	}
	return result, nil
}

func (r *Registry) nextOfficeDate(_ context.Context, raw json.RawMessage) (any, error) {
	var args nextArgs
	if err := r.decode(raw, &args); err != nil {
		return nil, err
	}

	var from *time.Time
	if args.FromDate != nil {
		d, err := dateutil.ParseDate(*args.FromDate)
		if err != nil {
			return nil, calendar.NewArgumentError("from_date", err.Error())
		}
		from = &d
	}

	next, ok := r.calendar.NextOfficeDate(from)
	if !ok {
		return (*string)(nil), nil
	}

	s := next.String()
	return &s, nil
}

func (r *Registry) lastWorkingDay(_ context.Context, raw json.RawMessage) (any, error) {
	var args monthArgs
	if err := r.decode(raw, &args); err != nil {
		return nil, err
	}

	day, ok, err := r.calendar.LastWorkingDay(*args.Month, args.Year)
	if err != nil {
		return nil, err
	}
	if !ok {
		return (*int)(nil), nil
	}

	return &day, nil
}
