// Package timegrid holds the date/time primitives shared by the scheduling
// engine: ISO date and 24h time parsing, half-open overlap checks, ISO week
// keys, and day-of-week tokens.
package timegrid

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDate parses a strict YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseMinutes parses a 24h HH:MM time into minutes since local midnight.
func ParseMinutes(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return -1, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return -1, fmt.Errorf("invalid time %q: expected HH:MM", s)
		}
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return -1, fmt.Errorf("invalid time %q: hour must be 0-23 and minute 0-59", s)
	}
	return h*60 + m, nil
}

// FormatMinutes renders minutes since midnight as HH:MM.
func FormatMinutes(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// ValidRange parses a start/end time pair and requires end after start.
func ValidRange(start, end string) (startMin, endMin int, err error) {
	startMin, err = ParseMinutes(start)
	if err != nil {
		return 0, 0, err
	}
	endMin, err = ParseMinutes(end)
	if err != nil {
		return 0, 0, err
	}
	if endMin <= startMin {
		return 0, 0, fmt.Errorf("time range %s-%s: end must be after start", start, end)
	}
	return startMin, endMin, nil
}

// Overlaps reports whether two half-open minute ranges intersect. Ranges that
// share only an edge (10:00-11:00 vs 11:00-12:00) do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

var dayTokens = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// DayToken returns the three-letter token for a weekday (Sunday = 0).
func DayToken(dow time.Weekday) string {
	return dayTokens[int(dow)%7]
}

// DayIndex resolves a day token by its first three letters, case-insensitive.
func DayIndex(token string) (time.Weekday, bool) {
	t := strings.ToLower(strings.TrimSpace(token))
	if len(t) < 3 {
		return 0, false
	}
	for i, name := range dayTokens {
		if strings.HasPrefix(t, strings.ToLower(name)) {
			return time.Weekday(i), true
		}
	}
	return 0, false
}

// ParseDayList parses a comma- or semicolon-separated list of day tokens into
// canonical three-letter tokens, deduplicated, in encounter order.
func ParseDayList(s string) ([]string, error) {
	split := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';'
	})
	seen := make(map[time.Weekday]bool, 7)
	out := make([]string, 0, len(split))
	for _, raw := range split {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		dow, ok := DayIndex(raw)
		if !ok {
			return nil, fmt.Errorf("invalid day token %q", raw)
		}
		if seen[dow] {
			continue
		}
		seen[dow] = true
		out = append(out, dayTokens[dow])
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("day list %q contains no days", s)
	}
	return out, nil
}

// WeekKey returns the ISO week key YYYY-Www (Monday-based, first-four-day
// rule) for grouping slots and per-week counters.
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// WeekKeyOf is WeekKey over a YYYY-MM-DD string.
func WeekKeyOf(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return WeekKey(t), nil
}

// InRange reports from <= d <= to. ISO dates compare lexicographically.
func InRange(d, from, to string) bool {
	return d >= from && d <= to
}
