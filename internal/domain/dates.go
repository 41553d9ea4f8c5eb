package domain

import "time"

// MonthsAhead is the number of monthly anchor dates generated per request.
const MonthsAhead = 11

// SameDayEachMonth projects the start date's day-of-month onto each of the
// next MonthsAhead months (index 0 is the start month itself). Days that do
// not exist in a target month clamp to that month's last valid day, so a
// Jan-31 start yields Feb-28 (or Feb-29 in a leap year), not Mar-1.
//
// Pure and deterministic; results are UTC midnight.
func SameDayEachMonth(start time.Time) []time.Time {
	year, month, day := start.Date()

	out := make([]time.Time, 0, MonthsAhead)
	for i := 0; i < MonthsAhead; i++ {
		// time.Date normalizes month overflow (e.g. month 14 -> Feb next year).
		first := time.Date(year, month+time.Month(i), 1, 0, 0, 0, 0, time.UTC)

		d := day
		if last := lastDayOfMonth(first); d > last {
			d = last
		}
		out = append(out, first.AddDate(0, 0, d-1))
	}

	return out
}

func lastDayOfMonth(firstOfMonth time.Time) int {
	return firstOfMonth.AddDate(0, 1, -1).Day()
}
