package helpers

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/commonmeta/hub"
)

// EDTF is a parsed Extended Date/Time Format value reduced to ISO partial
// dates. End is set for intervals only.
type EDTF struct {
	Start     string
	End       string
	Qualifier string
	Raw       string
}

// Qualifiers carried by EDTF level 1 dates.
const (
	QualifierApproximate = "approximate"
	QualifierUncertain   = "uncertain"
	QualifierBoth        = "approximate-uncertain"
)

var (
	// 1978, 1978-03, 1978-03-15 with an optional qualifier
	edtfDateRegex = regexp.MustCompile(`^(\d{4})(?:-(\d{2})(?:-(\d{2}))?)?([~?%])?$`)

	// 197X or 1970s
	decadeRegex = regexp.MustCompile(`^(\d{3})[Xx]$|^(\d{3})0s$`)

	// 19XX
	centuryRegex = regexp.MustCompile(`^(\d{2})[Xx]{2}$`)

	timestampRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}`)
)

// ParseEDTF parses a practical subset of EDTF levels 0 and 1: dates with
// year, month or day precision, qualifiers, decades, centuries, timestamps
// and "start/end" intervals (either side may be open, written ".." or
// empty). The second result is false when nothing could be recognized.
func ParseEDTF(input string) (EDTF, bool) {
	input = strings.TrimSpace(input)
	result := EDTF{Raw: input}
	if input == "" {
		return result, false
	}

	if start, end, ok := strings.Cut(input, "/"); ok {
		s, sok := parseEDTFPoint(start)
		e, eok := parseEDTFPoint(end)
		if !sok && !eok {
			return result, false
		}
		result.Start = s.Start
		result.End = e.Start
		result.Qualifier = s.Qualifier
		return result, true
	}

	p, ok := parseEDTFPoint(input)
	if !ok {
		return result, false
	}
	p.Raw = input
	return p, true
}

func parseEDTFPoint(s string) (EDTF, bool) {
	s = strings.TrimSpace(s)
	var result EDTF
	if s == "" || s == ".." {
		return result, false
	}

	if timestampRegex.MatchString(s) {
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
			if t, err := time.Parse(layout, s); err == nil {
				result.Start = hub.DateFromTime(t)
				return result, true
			}
		}
	}

	if m := edtfDateRegex.FindStringSubmatch(s); m != nil {
		var p hub.DateParts
		p.Year, _ = strconv.Atoi(m[1])
		p.Month, _ = strconv.Atoi(m[2])
		p.Day, _ = strconv.Atoi(m[3])
		result.Start = p.ISO()
		result.Qualifier = parseQualifier(m[4])
		return result, result.Start != ""
	}

	if m := decadeRegex.FindStringSubmatch(s); m != nil {
		decade := m[1]
		if decade == "" {
			decade = m[2]
		}
		year, _ := strconv.Atoi(decade)
		result.Start = hub.DateFromParts(year * 10)
		result.Qualifier = QualifierApproximate
		return result, true
	}

	if m := centuryRegex.FindStringSubmatch(s); m != nil {
		century, _ := strconv.Atoi(m[1])
		result.Start = hub.DateFromParts(century * 100)
		result.Qualifier = QualifierApproximate
		return result, true
	}

	return result, false
}

func parseQualifier(s string) string {
	switch s {
	case "~":
		return QualifierApproximate
	case "?":
		return QualifierUncertain
	case "%":
		return QualifierBoth
	default:
		return ""
	}
}

// FormatEDTF renders a start and optional end date as EDTF. An interval
// with an open start is written "../end".
func FormatEDTF(start, end string) string {
	switch {
	case end == "":
		return start
	case start == "":
		return "../" + end
	default:
		return start + "/" + end
	}
}
