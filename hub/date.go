package hub

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DateParts is a calendar date whose month and day may be 0 (absent).
type DateParts struct {
	Year  int
	Month int
	Day   int
}

var isoPartialRegex = regexp.MustCompile(`^(\d{4})(?:-(\d{1,2})(?:-(\d{1,2}))?)?(?:[T ].*)?$`)

var monthAbbreviations = []string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}

// ISO renders the parts as "YYYY", "YYYY-MM" or "YYYY-MM-DD", dropping
// trailing absent components. A day without a month is dropped too.
func (p DateParts) ISO() string {
	if p.Year <= 0 || p.Year > 9999 {
		return ""
	}
	if p.Month < 1 || p.Month > 12 {
		return fmt.Sprintf("%04d", p.Year)
	}
	if p.Day < 1 || p.Day > 31 {
		return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
	}
	return fmt.Sprintf("%04d-%02d-%02d", p.Year, p.Month, p.Day)
}

// Slice returns the parts as a CSL date-parts array without trailing zeros.
func (p DateParts) Slice() []int {
	switch {
	case p.Year <= 0:
		return nil
	case p.Month < 1 || p.Month > 12:
		return []int{p.Year}
	case p.Day < 1 || p.Day > 31:
		return []int{p.Year, p.Month}
	default:
		return []int{p.Year, p.Month, p.Day}
	}
}

// DateFromParts converts a [year, month, day] array (any prefix of it) into
// an ISO partial date.
func DateFromParts(parts ...int) string {
	var p DateParts
	if len(parts) > 0 {
		p.Year = parts[0]
	}
	if len(parts) > 1 {
		p.Month = parts[1]
	}
	if len(parts) > 2 {
		p.Day = parts[2]
	}
	return p.ISO()
}

// DateFromTime returns the calendar date of t.
func DateFromTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// DateFromEpoch returns the UTC calendar date of a Unix timestamp.
func DateFromEpoch(sec int64) string {
	if sec <= 0 {
		return ""
	}
	return DateFromTime(time.Unix(sec, 0).UTC())
}

// DateTimeFromEpoch returns a Unix timestamp as an RFC 3339 UTC datetime.
func DateTimeFromEpoch(sec int64) string {
	if sec <= 0 {
		return ""
	}
	return time.Unix(sec, 0).UTC().Format(time.RFC3339)
}

// NormalizeDate converts an ISO string (date or datetime, zero-padded or
// not) to an ISO partial date. Other layouts such as "11 Feb 2014" or
// "02/11/2014" go through dateparse and yield a full date. Unparseable input
// returns "".
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if m := isoPartialRegex.FindStringSubmatch(s); m != nil {
		return partsFromMatch(m).ISO()
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return ""
	}
	return DateFromTime(t)
}

// PartsFromISO is the inverse of DateParts.ISO. Missing components are 0.
func PartsFromISO(s string) DateParts {
	m := isoPartialRegex.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return DateParts{}
	}
	return partsFromMatch(m)
}

func partsFromMatch(m []string) DateParts {
	var p DateParts
	p.Year, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		p.Month, _ = strconv.Atoi(m[2])
	}
	if m[3] != "" {
		p.Day, _ = strconv.Atoi(m[3])
	}
	if p.Month < 1 || p.Month > 12 {
		p.Month, p.Day = 0, 0
	}
	if p.Day < 1 || p.Day > 31 {
		p.Day = 0
	}
	return p
}

// MonthAbbreviation returns "jan".."dec" for a date carrying a month, or "".
func MonthAbbreviation(date string) string {
	p := PartsFromISO(date)
	if p.Month < 1 || p.Month > 12 {
		return ""
	}
	return monthAbbreviations[p.Month-1]
}

// StripMilliseconds collapses midnight datetimes to a bare date and
// fractional seconds or a +00:00 offset to a trailing Z. Anything else is
// returned unchanged.
func StripMilliseconds(s string) string {
	if s == "" {
		return ""
	}
	if strings.Contains(s, "T00:00:00") {
		return strings.SplitN(s, "T", 2)[0]
	}
	if i := strings.Index(s, "."); i >= 0 && strings.Contains(s, "T") {
		return s[:i] + "Z"
	}
	if strings.Contains(s, "+00:00") {
		return strings.SplitN(s, "+", 2)[0] + "Z"
	}
	return s
}

// PrimaryDate returns the best date for ordering and citation.
func PrimaryDate(d Date) string {
	for _, s := range []string{d.Published, d.Available, d.Created, d.Submitted, d.Accepted, d.Updated} {
		if s != "" {
			return s
		}
	}
	return ""
}
