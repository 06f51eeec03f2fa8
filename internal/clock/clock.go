// Package clock does wall-clock arithmetic on "HH:MM:SS" strings.
//
// All times are assumed to fall on the same day. There is no midnight
// rollover: a later sample with an earlier clock time yields a negative
// duration ("-1 day, 23:59:50"), which Seconds rejects.
package clock

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const day = 24 * time.Hour

// ParseTimeOfDay parses "H:M:S" (one or two digits per field) into the
// offset since midnight.
func ParseTimeOfDay(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("time %q: want HH:MM:SS", s)
	}

	limits := [3]int{23, 59, 59}
	var v [3]int
	for i, p := range parts {
		if len(p) < 1 || len(p) > 2 {
			return 0, fmt.Errorf("time %q: bad field %q", s, p)
		}
		for j := 0; j < len(p); j++ {
			if p[j] < '0' || p[j] > '9' {
				return 0, fmt.Errorf("time %q: bad field %q", s, p)
			}
		}
		n, _ := strconv.Atoi(p)
		if n > limits[i] {
			return 0, fmt.Errorf("time %q: field %q out of range", s, p)
		}
		v[i] = n
	}

	return time.Duration(v[0])*time.Hour + time.Duration(v[1])*time.Minute + time.Duration(v[2])*time.Second, nil
}

// FormatDuration renders d the way a day/second time delta prints:
// "H:MM:SS" with unpadded hours, prefixed by "N day(s), " when d is
// negative or at least one day long. Sub-second parts are truncated.
func FormatDuration(d time.Duration) string {
	secs := int64(d / time.Second)
	days := secs / 86400
	rem := secs % 86400
	if rem < 0 {
		rem += 86400
		days--
	}

	hms := fmt.Sprintf("%d:%02d:%02d", rem/3600, (rem%3600)/60, rem%60)
	if days == 0 {
		return hms
	}
	plural := "s"
	if days == 1 || days == -1 {
		plural = ""
	}
	return fmt.Sprintf("%d day%s, %s", days, plural, hms)
}

// Difference returns t2 - t1 as a duration string.
func Difference(t1, t2 string) (string, error) {
	a, err := ParseTimeOfDay(t1)
	if err != nil {
		return "", err
	}
	b, err := ParseTimeOfDay(t2)
	if err != nil {
		return "", err
	}
	return FormatDuration(b - a), nil
}

// Sum adds two clock strings as durations since midnight. The result may
// reach "1 day, ..." which is no longer a valid input to Sum.
func Sum(t0, t string) (string, error) {
	a, err := ParseTimeOfDay(t0)
	if err != nil {
		return "", err
	}
	b, err := ParseTimeOfDay(t)
	if err != nil {
		return "", err
	}
	return FormatDuration(a + b), nil
}

// Seconds converts "H:MM:SS" into whole seconds.
func Seconds(d string) (int, error) {
	parts := strings.Split(d, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("duration %q: want H:MM:SS", d)
	}
	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, fmt.Errorf("duration %q: %w", d, err)
		}
		v[i] = n
	}
	return v[0]*3600 + v[1]*60 + v[2], nil
}

// Pad zero-pads every colon separated field to two digits ("1:2:3" ->
// "01:02:03"). Already padded input is returned unchanged.
func Pad(t string) string {
	parts := strings.Split(t, ":")
	for i, p := range parts {
		if len(p) < 2 {
			parts[i] = "0" + p
		}
	}
	return strings.Join(parts, ":")
}
