package dateutil

import (
	"testing"
	"time"
)

func TestStartOfDay(t *testing.T) {
	input := time.Date(2025, 1, 15, 14, 30, 45, 123456789, time.UTC)
	expected := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	result := StartOfDay(input)

	if !result.Equal(expected) {
		t.Errorf("StartOfDay(%v) = %v, want %v", input, result, expected)
	}
}

func TestDateOf(t *testing.T) {
	msk := time.FixedZone("MSK", 3*60*60)

	tests := []struct {
		name     string
		input    time.Time
		expected time.Time
	}{
		{
			name:     "UTC afternoon",
			input:    time.Date(2025, 11, 2, 15, 4, 5, 0, time.UTC),
			expected: time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "Early morning MSK keeps wall-clock day",
			input:    time.Date(2025, 11, 2, 1, 0, 0, 0, msk), // 2025-11-01 22:00 UTC
			expected: time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DateOf(tt.input)

			if !result.Equal(tt.expected) {
				t.Errorf("DateOf(%v) = %v, want %v", tt.input, result, tt.expected)
			}
			if result.Location() != time.UTC {
				t.Errorf("DateOf(%v) location = %v, want UTC", tt.input, result.Location())
			}
		})
	}
}

func TestMonthBounds(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     time.Month
		wantStart string
		wantNext  string
	}{
		{"November", 2025, time.November, "2025-11-01", "2025-12-01"},
		{"December rolls year", 2025, time.December, "2025-12-01", "2026-01-01"},
		{"February leap year", 2024, time.February, "2024-02-01", "2024-03-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := FormatDate(StartOfMonth(tt.year, tt.month))
			next := FormatDate(StartOfNextMonth(tt.year, tt.month))

			if start != tt.wantStart {
				t.Errorf("StartOfMonth(%d, %v) = %v, want %v", tt.year, tt.month, start, tt.wantStart)
			}
			if next != tt.wantNext {
				t.Errorf("StartOfNextMonth(%d, %v) = %v, want %v", tt.year, tt.month, next, tt.wantNext)
			}
		})
	}
}

func TestIsSameDay(t *testing.T) {
	tests := []struct {
		name  string
		date1 time.Time
		date2 time.Time
		want  bool
	}{
		{
			"Same date different time",
			time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
			time.Date(2025, 1, 15, 20, 0, 0, 0, time.UTC),
			true,
		},
		{
			"Different date",
			time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
			time.Date(2025, 1, 16, 10, 0, 0, 0, time.UTC),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsSameDay(tt.date1, tt.date2)

			if result != tt.want {
				t.Errorf("IsSameDay(%v, %v) = %v, want %v",
					tt.date1, tt.date2, result, tt.want)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	input := time.Date(2025, 1, 5, 10, 30, 45, 0, time.UTC)
	result := FormatDate(input)

	expected := "2025-01-05"
	if result != expected {
		t.Errorf("FormatDate(%v) = %v, want %v", input, result, expected)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"ISO format YYYY-MM-DD", "2025-01-15", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), false},
		{"Surrounding spaces", " 2025-11-02 ", time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC), false},
		{"Russian format rejected", "15.01.2025", time.Time{}, true},
		{"Time component rejected", "2025-01-15T10:30:00", time.Time{}, true},
		{"Day out of range", "2025-02-30", time.Time{}, true},
		{"Empty", "", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseDate(tt.input)

			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}

			if !tt.wantErr && !result.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, result, tt.want)
			}
		})
	}
}

func TestParseDateLenient(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"Plain date", "2025-11-15", "2025-11-15", false},
		{"Spreadsheet timestamp", "2025-11-15 00:00:00", "2025-11-15", false},
		{"ISO timestamp", "2025-11-15T09:30:00", "2025-11-15", false},
		{"RFC3339 with offset", "2025-11-15T23:30:00+03:00", "2025-11-15", false},
		{"Garbage", "next tuesday", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseDateLenient(tt.input)

			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDateLenient(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}

			if !tt.wantErr && FormatDate(result) != tt.want {
				t.Errorf("ParseDateLenient(%q) = %v, want %v", tt.input, FormatDate(result), tt.want)
			}
		})
	}
}

func TestToday(t *testing.T) {
	// 2025-11-16 22:30 UTC is already 2025-11-17 in Moscow
	now := time.Date(2025, 11, 16, 22, 30, 0, 0, time.UTC)
	msk := time.FixedZone("MSK", 3*60*60)

	if got := FormatDate(Today(now, time.UTC)); got != "2025-11-16" {
		t.Errorf("Today(%v, UTC) = %v, want 2025-11-16", now, got)
	}
	if got := FormatDate(Today(now, msk)); got != "2025-11-17" {
		t.Errorf("Today(%v, MSK) = %v, want 2025-11-17", now, got)
	}
}
