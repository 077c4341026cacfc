package calendar

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/username/office-dates/pkg/dateutil"
	"go.uber.org/zap"
)

// Dataset columns. Lookup is by header name, so column order is free.
const (
	columnDate  = "date"
	columnYear  = "year"
	columnMonth = "month"
)

// LoadOfficeDates reads the office dates CSV file at filePath.
// The returned slice is in file order; NewOfficeCalendar sorts and deduplicates it.
func LoadOfficeDates(filePath string, logger *zap.Logger) ([]OfficeDate, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open office dates file: %w", err)
	}
	defer file.Close()

	dates, err := ReadOfficeDates(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}

	logger.Info("Office dates file loaded",
		zap.String("file", filePath),
		zap.Int("rows", len(dates)))

	return dates, nil
}

// ReadOfficeDates parses office dates CSV data with a date,year,month header
func ReadOfficeDates(r io.Reader) ([]OfficeDate, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: missing header row", ErrDataset)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataset, err)
	}

	columns, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var dates []OfficeDate
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDataset, err)
		}

		line, _ := reader.FieldPos(0)
		if isBlankRecord(record) {
			continue
		}

		od, err := parseRecord(record, columns)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrDataset, line, err)
		}
		dates = append(dates, od)
	}

	return dates, nil
}

type columnIndex struct {
	date, year, month int
}

func indexColumns(header []string) (columnIndex, error) {
	idx := columnIndex{date: -1, year: -1, month: -1}

	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case columnDate:
			idx.date = i
		case columnYear:
			idx.year = i
		case columnMonth:
			idx.month = i
		}
	}

	var missing []string
	if idx.date < 0 {
		missing = append(missing, columnDate)
	}
	if idx.year < 0 {
		missing = append(missing, columnYear)
	}
	if idx.month < 0 {
		missing = append(missing, columnMonth)
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("%w: missing column(s): %s", ErrDataset, strings.Join(missing, ", "))
	}

	return idx, nil
}

func parseRecord(record []string, columns columnIndex) (OfficeDate, error) {
	field := func(i int) (string, error) {
		if i >= len(record) {
			return "", fmt.Errorf("expected at least %d fields, got %d", i+1, len(record))
		}
		return strings.TrimSpace(record[i]), nil
	}

	dateStr, err := field(columns.date)
	if err != nil {
		return OfficeDate{}, err
	}
	yearStr, err := field(columns.year)
	if err != nil {
		return OfficeDate{}, err
	}
	monthStr, err := field(columns.month)
	if err != nil {
		return OfficeDate{}, err
	}

	date, err := dateutil.ParseDateLenient(dateStr)
	if err != nil {
		return OfficeDate{}, err
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return OfficeDate{}, fmt.Errorf("invalid year %q", yearStr)
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return OfficeDate{}, fmt.Errorf("invalid month %q", monthStr)
	}

	od := OfficeDate{
		Date:  date,
		Year:  year,
		Month: time.Month(month),
	}
	if err := od.Validate(); err != nil {
		return OfficeDate{}, err
	}

	return od, nil
}

func isBlankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
