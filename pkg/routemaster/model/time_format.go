package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Timestamps use RFC3339 with nanoseconds and are always rendered in UTC.
const TimestampLayout = time.RFC3339Nano

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q: %v%w", s, err, ErrInvalidParameter)
	}
	return t.UTC(), nil
}

// FormatTimeout renders d as an ISO-8601 duration expressed in seconds only,
// e.g. "PT30S" or "PT1.5S". The fraction is omitted when d is whole seconds.
func FormatTimeout(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
	}
	secs := d / time.Second
	nanos := d % time.Second
	if secs < 0 {
		secs = -secs
	}
	if nanos < 0 {
		nanos = -nanos
	}

	if nanos == 0 {
		return fmt.Sprintf("%sPT%dS", sign, secs)
	}
	frac := strings.TrimRight(fmt.Sprintf("%09d", nanos), "0")
	return fmt.Sprintf("%sPT%d.%sS", sign, secs, frac)
}

// ParseTimeout is the inverse of FormatTimeout.
func ParseTimeout(s string) (time.Duration, error) {
	body := s
	negative := strings.HasPrefix(body, "-")
	body = strings.TrimPrefix(body, "-")
	if !strings.HasPrefix(body, "PT") || !strings.HasSuffix(body, "S") {
		return 0, fmt.Errorf("%q is not a PT<seconds>S duration: %w", s, ErrInvalidTimeout)
	}
	body = strings.TrimSuffix(strings.TrimPrefix(body, "PT"), "S")

	whole, frac, hasFrac := strings.Cut(body, ".")
	if whole == "" || !isDigits(whole) || (hasFrac && (frac == "" || len(frac) > 9 || !isDigits(frac))) {
		return 0, fmt.Errorf("%q is not a PT<seconds>S duration: %w", s, ErrInvalidTimeout)
	}

	secs, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || secs > math.MaxInt64/int64(time.Second)-1 {
		return 0, fmt.Errorf("%q is out of range: %w", s, ErrInvalidTimeout)
	}
	var nanos int64
	if hasFrac {
		nanos, _ = strconv.ParseInt(frac+strings.Repeat("0", 9-len(frac)), 10, 64)
	}

	d := time.Duration(secs)*time.Second + time.Duration(nanos)
	if negative {
		d = -d
	}
	return d, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
