package extractor

import (
	"regexp"
	"strconv"
	"time"

	"smsledger/internal/dateutils"
)

// datePattern pairs a regex with the function that turns its submatches into
// a time. Patterns are tried top-down; the order is deliberate and covered
// by tests (numeric day-first forms before month-name forms, four-digit
// years before two-digit variants).
type datePattern struct {
	re    *regexp.Regexp
	build func(m []string) (time.Time, bool)
}

var datePatterns = []datePattern{
	{
		// DD-MM-YYYY with optional HH:MM[:SS]
		re: regexp.MustCompile(`\b(\d{2})-(\d{2})-(\d{4})(?:[ T](\d{2}):(\d{2})(?::(\d{2}))?)?\b`),
		build: func(m []string) (time.Time, bool) {
			return buildDate(m[3], m[2], m[1], m[4], m[5], m[6])
		},
	},
	{
		// YYYY-MM-DD
		re: regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`),
		build: func(m []string) (time.Time, bool) {
			return buildDate(m[1], m[2], m[3], "", "", "")
		},
	},
	{
		// DD/MM/YYYY
		re: regexp.MustCompile(`\b(\d{2})/(\d{2})/(\d{4})\b`),
		build: func(m []string) (time.Time, bool) {
			return buildDate(m[3], m[2], m[1], "", "", "")
		},
	},
	{
		// DDMonYYYY HH:MM:SS, e.g. "20Jan2026 14:30:05", with 2-digit year variant
		re: regexp.MustCompile(`(?i)\b(\d{2})([A-Za-z]{3})(\d{2,4})\s+(\d{2}):(\d{2}):(\d{2})\b`),
		build: func(m []string) (time.Time, bool) {
			return buildNamedMonthDate(m[3], m[2], m[1], m[4], m[5], m[6])
		},
	},
	{
		// D MonthName YYYY, e.g. "20 Jan 2026" or "5 January 26"
		re: regexp.MustCompile(`(?i)\b(\d{1,2})[ -]([A-Za-z]{3,9})[ -](\d{2,4})\b`),
		build: func(m []string) (time.Time, bool) {
			return buildNamedMonthDate(m[3], m[2], m[1], "", "", "")
		},
	},
	{
		// DD-MM-YY
		re: regexp.MustCompile(`\b(\d{2})-(\d{2})-(\d{2})\b`),
		build: func(m []string) (time.Time, bool) {
			return buildDate(m[3], m[2], m[1], "", "", "")
		},
	},
	{
		// DD/MM/YY
		re: regexp.MustCompile(`\b(\d{2})/(\d{2})/(\d{2})\b`),
		build: func(m []string) (time.Time, bool) {
			return buildDate(m[3], m[2], m[1], "", "", "")
		},
	},
}

// extractTimestamp returns the first parseable date in the message, or the
// current time when no pattern matches. Time-of-day defaults to 00:00:00.
func (e *Extractor) extractTimestamp(message string) time.Time {
	for _, p := range datePatterns {
		if m := p.re.FindStringSubmatch(message); m != nil {
			if t, ok := p.build(m); ok {
				return t
			}
		}
	}
	return e.clock()
}

func buildDate(year, month, day, hour, minute, second string) (time.Time, bool) {
	y, _ := strconv.Atoi(year)
	mo, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	if mo < 1 || mo > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	h := atoiOrZero(hour)
	mi := atoiOrZero(minute)
	s := atoiOrZero(second)
	if h > 23 || mi > 59 || s > 59 {
		h, mi, s = 0, 0, 0
	}
	return time.Date(dateutils.ExpandYear(y), time.Month(mo), d, h, mi, s, 0, time.UTC), true
}

func buildNamedMonthDate(year, monthName, day, hour, minute, second string) (time.Time, bool) {
	mo, ok := dateutils.MonthFromName(monthName)
	if !ok {
		return time.Time{}, false
	}
	y, _ := strconv.Atoi(year)
	d, _ := strconv.Atoi(day)
	if d < 1 || d > 31 {
		return time.Time{}, false
	}
	h := atoiOrZero(hour)
	mi := atoiOrZero(minute)
	s := atoiOrZero(second)
	return time.Date(dateutils.ExpandYear(y), mo, d, h, mi, s, 0, time.UTC), true
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}
