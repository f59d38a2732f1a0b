package search

import "time"

// probeDate is a business day eligible for probing, tagged with its
// calendar age in days relative to "today".
type probeDate struct {
	date time.Time
	age  int
}

// businessDays returns the business days between today-1 and today-maxAge,
// most recent first. Saturdays, Sundays, and dates in the holiday set
// (formatted 2006-01-02) are skipped. "Today" itself is never probed:
// EDINET publishes listings per disclosure date, and the current day's
// listing is still filling in.
func businessDays(today time.Time, maxAge int, holidays map[string]bool) []probeDate {
	var out []probeDate
	for age := 1; age <= maxAge; age++ {
		d := today.AddDate(0, 0, -age)
		if !isBusinessDay(d, holidays) {
			continue
		}
		out = append(out, probeDate{date: d, age: age})
	}
	return out
}

func isBusinessDay(d time.Time, holidays map[string]bool) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !holidays[d.Format("2006-01-02")]
}
