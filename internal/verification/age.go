package verification

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dobPattern matches the DD/MM/YYYY family emitted by identity documents,
// tolerating '.', '/' and '-' separators.
var dobPattern = regexp.MustCompile(`(\d{2})[./-](\d{2})[./-](\d{4})`)

// fallbackLayouts cover other date representations the extraction service has
// been seen returning.
var fallbackLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02 Jan 2006",
	"02 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	time.RFC3339,
}

// ComputeAge normalizes a date-of-birth string and returns the whole-year age
// as of the given date. The second return value is false when the text cannot
// be parsed; callers must treat that as "cannot verify", not as an error.
func ComputeAge(dobText string, asOf time.Time) (int, bool) {
	dobText = strings.TrimSpace(dobText)
	if dobText == "" {
		return 0, false
	}

	dob, ok := parseDOB(dobText)
	if !ok {
		return 0, false
	}

	age := asOf.Year() - dob.Year()
	if asOf.Month() < dob.Month() || (asOf.Month() == dob.Month() && asOf.Day() < dob.Day()) {
		age--
	}
	return age, true
}

func parseDOB(text string) (time.Time, bool) {
	if m := dobPattern.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		dob := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		// time.Date normalizes out-of-range values (e.g. 31/02), so a
		// round-trip check rejects impossible calendar dates.
		if dob.Day() != day || dob.Month() != time.Month(month) || dob.Year() != year {
			return time.Time{}, false
		}
		return dob, true
	}

	for _, layout := range fallbackLayouts {
		if dob, err := time.Parse(layout, text); err == nil {
			return dob, true
		}
	}
	return time.Time{}, false
}
