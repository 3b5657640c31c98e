package types

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// dateLayouts are tried in order. Values without an offset are read as UTC,
// so a bare "2023-12-10" is midnight UTC of that day.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// ParseDate parses an ISO 8601 calendar date or date-time
func ParseDate(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return time.Time{}, goerr.New("date is empty")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}

	return time.Time{}, goerr.New("unrecognized date format", goerr.V("date", s))
}
