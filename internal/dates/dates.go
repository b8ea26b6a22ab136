// Package dates holds the calendar helpers used to pick report periods.
// All values are dates at UTC midnight.
package dates

import (
	"strings"
	"time"
)

// Layout is the wire format for dates.
const Layout = "2006-01-02"

// Date truncates t to its calendar day in UTC.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Parse reads a YYYY-MM-DD date. An empty string yields ok=false.
func Parse(s string) (t time.Time, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, nil
	}
	t, err = time.ParseInLocation(Layout, s, time.UTC)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// Format renders t as YYYY-MM-DD.
func Format(t time.Time) string { return t.Format(Layout) }

func addDays(t time.Time, n int) time.Time { return t.AddDate(0, 0, n) }

// TheFirst returns the first day of d's month.
func TheFirst(d time.Time) time.Time {
	d = Date(d)
	return addDays(d, -(d.Day() - 1))
}

// MonthEnd returns the last day of the given month.
func MonthEnd(year int, month time.Month) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return addDays(TheFirst(addDays(first, 35)), -1)
}

// MonthEndOf returns the last day of d's month.
func MonthEndOf(d time.Time) time.Time {
	d = Date(d)
	next := addDays(d, 35-d.Day())
	return addDays(next, -next.Day())
}

// NMonthsEarlier steps back roughly n months from the first of d's month and
// snaps to the first of the resulting month. The day offsets stay below a
// month's worth of drift for any n.
func NMonthsEarlier(d time.Time, n int) time.Time {
	d = TheFirst(d)
	var offset int
	switch {
	case n < 4:
		offset = n * 28
	case n < 8:
		offset = n * 29
	case n < 16:
		offset = n * 30
	default:
		years, months := n/12-1, n%12+12
		offset = 365*years + months*30
	}
	return TheFirst(addDays(d, -offset))
}

// weekday numbers Monday as 0 and Sunday as 6.
func weekday(d time.Time) int { return (int(d.Weekday()) + 6) % 7 }

func floorDivMod(n, d int) (int, int) {
	q, r := n/d, n%d
	if r < 0 {
		q--
		r += d
	}
	return q, r
}

// AddBusinessDays moves base by n weekdays, skipping weekends.
func AddBusinessDays(base time.Time, n int) time.Time {
	weeks, days := floorDivMod(n, 5)
	base = addDays(Date(base), weeks*7)
	wd := weekday(base)
	if days != 0 && wd >= 5 {
		days += 6 - wd
	} else if days != 0 && wd+days >= 5 {
		days += 2
	}
	return addDays(base, days)
}
