package pipeline

import (
	"testing"
	"time"
)

func TestResolveCycle(t *testing.T) {
	tests := []struct {
		name       string
		today      string
		payday     int
		start, end string
		total      int
		elapsed    int
	}{
		{"before payday", "2024-06-03", 5, "2024-05-05", "2024-06-04", 31, 30},
		{"after payday", "2024-06-10", 5, "2024-06-05", "2024-07-04", 30, 6},
		{"on payday", "2024-06-05", 5, "2024-06-05", "2024-07-04", 30, 1},
		{"last day of cycle", "2024-07-04", 5, "2024-06-05", "2024-07-04", 30, 30},
		{"year rollback", "2024-01-02", 5, "2023-12-05", "2024-01-04", 31, 29},
		{"year rollover", "2024-12-20", 5, "2024-12-05", "2025-01-04", 31, 16},
		{"payday 1", "2024-03-15", 1, "2024-03-01", "2024-03-31", 31, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ResolveCycle(day(t, tt.today), tt.payday)
			if !c.Start.Equal(day(t, tt.start)) {
				t.Errorf("Start = %s, want %s", c.Start.Format("2006-01-02"), tt.start)
			}
			if !c.End.Equal(day(t, tt.end)) {
				t.Errorf("End = %s, want %s", c.End.Format("2006-01-02"), tt.end)
			}
			if c.TotalDays != tt.total {
				t.Errorf("TotalDays = %d, want %d", c.TotalDays, tt.total)
			}
			if c.ElapsedDays != tt.elapsed {
				t.Errorf("ElapsedDays = %d, want %d", c.ElapsedDays, tt.elapsed)
			}
			if c.RemainingDays != tt.total-tt.elapsed {
				t.Errorf("RemainingDays = %d, want %d", c.RemainingDays, tt.total-tt.elapsed)
			}
		})
	}
}

// Payday 31 clamps to the last day of shorter months instead of spilling
// into the next month.
func TestResolveCycle_ClampsPaydayToMonthEnd(t *testing.T) {
	tests := []struct {
		today      string
		start, end string
	}{
		{"2024-02-29", "2024-02-29", "2024-03-30"},
		{"2024-02-28", "2024-01-31", "2024-02-28"},
		{"2023-02-28", "2023-02-28", "2023-03-30"},
		{"2024-04-30", "2024-04-30", "2024-05-30"},
		{"2024-05-31", "2024-05-31", "2024-06-29"},
	}
	for _, tt := range tests {
		c := ResolveCycle(day(t, tt.today), 31)
		if !c.Start.Equal(day(t, tt.start)) || !c.End.Equal(day(t, tt.end)) {
			t.Errorf("ResolveCycle(%s, 31) = %s..%s, want %s..%s", tt.today,
				c.Start.Format("2006-01-02"), c.End.Format("2006-01-02"), tt.start, tt.end)
		}
		if c.ElapsedDays < 1 || c.RemainingDays < 0 {
			t.Errorf("ResolveCycle(%s, 31) elapsed=%d remaining=%d", tt.today, c.ElapsedDays, c.RemainingDays)
		}
	}
}

func TestResolveCycle_IgnoresTimeOfDay(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*3600)
	late := time.Date(2024, 6, 3, 23, 30, 0, 0, loc)
	c := ResolveCycle(late, 5)
	if c.ElapsedDays != 30 {
		t.Errorf("ElapsedDays = %d, want 30 (civil date of today)", c.ElapsedDays)
	}
}

func TestClampPayday(t *testing.T) {
	for in, want := range map[int]int{-3: 1, 0: 1, 1: 1, 15: 15, 31: 31, 40: 31} {
		if got := ClampPayday(in); got != want {
			t.Errorf("ClampPayday(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestPaydayIn_NormalizesMonthOverflow(t *testing.T) {
	got := PaydayIn(2024, 13, 31)
	if !got.Equal(day(t, "2025-01-31")) {
		t.Errorf("PaydayIn(2024, 13, 31) = %s, want 2025-01-31", got.Format("2006-01-02"))
	}
	got = PaydayIn(2024, 0, 30)
	if !got.Equal(day(t, "2023-12-30")) {
		t.Errorf("PaydayIn(2024, 0, 30) = %s, want 2023-12-30", got.Format("2006-01-02"))
	}
}

func TestSpendWindow(t *testing.T) {
	c := ResolveCycle(day(t, "2024-06-10"), 5)

	from, to := SpendWindow(c, day(t, "2024-06-10"))
	if !from.Equal(day(t, "2024-06-05")) || !to.Equal(day(t, "2024-06-10")) {
		t.Errorf("window = %s..%s, want 2024-06-05..2024-06-10", from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	_, to = SpendWindow(c, day(t, "2024-08-01"))
	if !to.Equal(c.End) {
		t.Errorf("window end = %s, want cycle end %s", to.Format("2006-01-02"), c.End.Format("2006-01-02"))
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2024-06-03", "2024-06-03", true},
		{"2024-06-03T02:00:00.000Z", "2024-06-03", true},
		{" 2024-06-03 ", "2024-06-03", true},
		{"03/06/2024", "", false},
		{"", "", false},
		{"2024-02-30", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseDate(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseDate(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && got.Format("2006-01-02") != tt.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tt.in, got.Format("2006-01-02"), tt.want)
		}
	}
}
