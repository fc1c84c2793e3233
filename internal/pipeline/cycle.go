package pipeline

import (
	"strings"
	"time"

	"github.com/theirongolddev/paycycle/internal/model"
)

// DateOf returns the civil date of t (its own year, month and day) as
// midnight UTC. No timezone conversion is applied.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a civil date. A full ISO timestamp is accepted and its
// date part is used as written. ok is false for anything unparseable.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) > 10 && s[10] == 'T' {
		s = s[:10]
	}
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// PaydayIn returns the payday of the given month, clamped to the month's
// last day.
func PaydayIn(year int, month time.Month, payday int) time.Time {
	payday = ClampPayday(payday)
	// normalize month overflow before clamping
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	if last := DaysIn(first.Year(), first.Month()); payday > last {
		payday = last
	}
	return time.Date(first.Year(), first.Month(), payday, 0, 0, 0, 0, time.UTC)
}

// ClampPayday forces payday into 1..31.
func ClampPayday(payday int) int {
	switch {
	case payday < 1:
		return 1
	case payday > 31:
		return 31
	}
	return payday
}

// ResolveCycle returns the salary cycle containing today. The cycle starts on
// the most recent payday (clamped to the month length) and ends the day
// before the next one.
func ResolveCycle(today time.Time, payday int) model.Cycle {
	day := DateOf(today)

	start := PaydayIn(day.Year(), day.Month(), payday)
	if day.Before(start) {
		start = PaydayIn(day.Year(), day.Month()-1, payday)
	}
	next := PaydayIn(start.Year(), start.Month()+1, payday)
	end := next.AddDate(0, 0, -1)

	total := daysBetween(start, end) + 1
	elapsed := daysBetween(start, day) + 1
	return model.Cycle{
		Start:         start,
		End:           end,
		TotalDays:     total,
		ElapsedDays:   elapsed,
		RemainingDays: total - elapsed,
	}
}

// SpendWindow returns the range used for cycle spend: from the cycle start
// up to today or the cycle end, whichever comes first.
func SpendWindow(c model.Cycle, today time.Time) (time.Time, time.Time) {
	end := DateOf(today)
	if end.After(c.End) {
		end = c.End
	}
	return c.Start, end
}

// MonthRange returns the first and last civil day of a month.
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
