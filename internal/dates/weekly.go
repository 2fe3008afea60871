// Package dates generates the weekly date sequence driving the bestseller
// pipeline.
package dates

import (
	"fmt"
	"time"
)

// Layout is the wire format for list dates.
const Layout = "2006/01/02"

// Weekly returns the Sunday-aligned weekly sequence between start and end.
// The start is pulled back to the previous Sunday (or kept if already a
// Sunday) and the sequence covers the week containing the end date plus one
// trailing week.
func Weekly(start, end time.Time) []time.Time {
	start = start.AddDate(0, 0, -int(start.Weekday()))
	end = end.AddDate(0, 0, 7)

	var weeks []time.Time
	for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, 7) {
		weeks = append(weeks, cur)
	}
	return weeks
}

// WeeklyStrings parses start and end in Layout form and returns the formatted
// weekly sequence.
func WeeklyStrings(start, end string) ([]string, error) {
	startDate, err := time.Parse(Layout, start)
	if err != nil {
		return nil, fmt.Errorf("parse start date %q: %w", start, err)
	}
	endDate, err := time.Parse(Layout, end)
	if err != nil {
		return nil, fmt.Errorf("parse end date %q: %w", end, err)
	}
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("end date %s precedes start date %s", end, start)
	}

	weeks := Weekly(startDate, endDate)
	out := make([]string, 0, len(weeks))
	for _, week := range weeks {
		out = append(out, week.Format(Layout))
	}
	return out, nil
}
