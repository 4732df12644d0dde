package pipeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	apperrors "event-booking/pkg/app_errors"

	"github.com/araddon/dateparse"
)

// ISODateLayout is the canonical stored form of Event.Date.
const ISODateLayout = "2006-01-02T15:04:05.000Z"

var (
	hhmm24 = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]\d)$`)
	hhmm12 = regexp.MustCompile(`(?i)^(\d{1,2}):([0-5]\d)\s*(am|pm)$`)
)

// fallbackTimeLayouts 是最後手段能接受的全部格式；有時區的輸入會先轉成 UTC
var fallbackTimeLayouts = []string{
	"15:04:05",
	"15:04:05Z07:00",
	"15:04Z07:00",
	"3:04:05 PM",
	"3:04:05PM",
	"3 PM",
	"3PM",
}

// NormalizeDate parses any date representation dateparse understands
// (interpreted in UTC when no zone is given) and returns it as an
// ISO-8601 instant with millisecond precision.
func NormalizeDate(value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", apperrors.InvalidDate()
	}
	t, err := dateparse.ParseIn(v, time.UTC)
	if err != nil {
		return "", apperrors.InvalidDate()
	}
	return t.UTC().Format(ISODateLayout), nil
}

// NormalizeTime converts value to zero-padded 24-hour HH:MM.
//
// Accepted, in order: 24-hour H:MM / HH:MM; 12-hour H:MM am|pm
// (case-insensitive, optional space, hour 0-12); then only the layouts in
// fallbackTimeLayouts.
func NormalizeTime(value string) (string, error) {
	t := strings.TrimSpace(value)

	if m := hhmm24.FindStringSubmatch(t); m != nil {
		hh, _ := strconv.Atoi(m[1])
		return fmt.Sprintf("%02d:%s", hh, m[2]), nil
	}

	if m := hhmm12.FindStringSubmatch(t); m != nil {
		hh, _ := strconv.Atoi(m[1])
		if hh <= 12 {
			switch strings.ToLower(m[3]) {
			case "pm":
				if hh != 12 {
					hh += 12
				}
			case "am":
				if hh == 12 {
					hh = 0
				}
			}
			return fmt.Sprintf("%02d:%s", hh, m[2]), nil
		}
	}

	upper := strings.ToUpper(t)
	for _, layout := range fallbackTimeLayouts {
		parsed, err := time.Parse(layout, upper)
		if err != nil {
			continue
		}
		parsed = parsed.UTC()
		return fmt.Sprintf("%02d:%02d", parsed.Hour(), parsed.Minute()), nil
	}

	return "", apperrors.InvalidTime(value)
}
