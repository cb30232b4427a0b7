// Package dateutils provides the date helpers shared by the extractor:
// month-name normalization, two-digit year expansion and the canonical
// output formatting used on every code path.
package dateutils

import (
	"regexp"
	"strings"
	"time"
)

// Layouts used when rendering timestamps. TimestampLayout is the single
// output format; DateLayout is the date-only prefix of it.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

// months maps lower-cased month names and 3-letter abbreviations to their
// calendar month. Bank messages use both interchangeably.
var months = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

// MonthFromName resolves a month name or 3-letter abbreviation,
// case-insensitively. The second return value reports whether the name was
// recognized.
func MonthFromName(name string) (time.Month, bool) {
	m, ok := months[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}

// ExpandYear turns a two-digit year into a 20xx year. Four-digit years pass
// through unchanged.
func ExpandYear(year int) int {
	if year < 100 {
		return 2000 + year
	}
	return year
}

// FormatTimestamp renders a time in the canonical ledger format.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// CleanDateString trims a candidate date string and collapses interior runs
// of whitespace to single spaces.
func CleanDateString(s string) string {
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
}
