// Package datetime provides date utilities for dating amortization schedules.
package datetime

import (
	"fmt"
	"time"

	"github.com/iwvelando/mortgage-calc/pkg/constants"
)

const (
	// DateTimeLayout is the format accepted for schedule start dates and is
	// also the output date format.
	DateTimeLayout = constants.DateTimeLayout
)

// OffsetDate returns the string-formatted date offset by the given number of
// months relative to the given date.
func OffsetDate(date, layout string, months int) (string, error) {
	t, err := time.Parse(layout, date)
	if err != nil {
		return date, err
	}
	return t.AddDate(0, months, 0).Format(layout), nil
}

// MonthSequence returns count consecutive month labels beginning at start.
func MonthSequence(start string, count int) ([]string, error) {
	if _, err := time.Parse(DateTimeLayout, start); err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	if count <= 0 {
		return nil, nil
	}
	dates := make([]string, count)
	for i := range dates {
		date, err := OffsetDate(start, DateTimeLayout, i)
		if err != nil {
			return nil, err
		}
		dates[i] = date
	}
	return dates, nil
}
