package tariff

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Layouts lists the timestamp formats ParseInstant accepts, in the
// order they are tried.
var Layouts = []string{
	"2006-01-02 15:04:05",
	"2006/1/2 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
}

// ParseInstant parses a wall clock timestamp. The result carries no
// zone and is returned in UTC.
func ParseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	for _, layout := range Layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
	}

	return time.Time{}, errors.Errorf("unrecognised timestamp %q", s)
}
