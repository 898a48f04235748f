package conversation

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

// maxEpochSeconds is 9999-12-31T23:59:59Z. Larger epoch values are treated
// as unparseable rather than silently landing in the far future.
const maxEpochSeconds = 253402300799

// timestampLayouts are tried in order after the ISO-8601 forms fail.
// Strings without a zone are interpreted as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.RFC822Z,
	time.RFC822,
	time.UnixDate,
	time.ANSIC,
	"Mon Jan 2 15:04:05 2006",
	"January 2, 2006 15:04:05",
	"January 2, 2006",
	"Jan 2, 2006 15:04:05",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006",
}

// ParseTimestamp normalizes an export timestamp. It accepts Unix epoch
// seconds (integer or fractional) and ISO-8601-like strings. Zero values,
// empty strings and anything unparseable yield nil.
func ParseTimestamp(value any) *time.Time {
	switch v := value.(type) {
	case nil:
		return nil
	case time.Time:
		if v.IsZero() {
			return nil
		}
		return &v
	case *time.Time:
		if v == nil || v.IsZero() {
			return nil
		}
		return v
	case float64:
		return fromEpoch(v)
	case float32:
		return fromEpoch(float64(v))
	case int:
		return fromEpoch(float64(v))
	case int64:
		return fromEpoch(float64(v))
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil
		}
		return fromEpoch(f)
	case string:
		return fromString(v)
	default:
		return nil
	}
}

func fromEpoch(seconds float64) *time.Time {
	if seconds == 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return nil
	}
	if math.Abs(seconds) > maxEpochSeconds {
		return nil
	}

	sec, frac := math.Modf(seconds)
	t := time.Unix(int64(sec), int64(math.Round(frac*1e6))*int64(time.Microsecond)).UTC()
	return &t
}

func fromString(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
