package coord

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseDMS converts "<degrees> <minutes> <seconds>" (e.g. "45 51 53.3") to
// decimal degrees.
//
// The sign of the degrees token applies to the whole value, so southern and
// western coordinates are written as "-45 51 53.3". Tokens are separated by
// exactly one space.
func ParseDMS(s string) (float64, error) {
	parts := strings.Split(s, " ")
	if len(parts) != 3 {
		return 0, fmt.Errorf("dms %q: want 3 fields, got %d", s, len(parts))
	}

	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, fmt.Errorf("dms %q: %w", s, err)
		}
		v[i] = f
	}

	dd := math.Abs(v[0]) + (v[1]+v[2]/60)/60
	if math.Signbit(v[0]) {
		dd = -dd
	}
	return dd, nil
}

// FormatDMS renders decimal degrees in the form ParseDMS reads, with seconds
// rounded to milliseconds.
func FormatDMS(dd float64) string {
	neg := math.Signbit(dd)
	dd = math.Abs(dd)

	// Work in integer milliseconds of arc so rounding can carry into
	// minutes and degrees.
	ms := int64(math.Round(dd * 3600 * 1000))
	deg := ms / (3600 * 1000)
	ms -= deg * 3600 * 1000
	min := ms / (60 * 1000)
	ms -= min * 60 * 1000

	sign := ""
	if neg && (deg != 0 || min != 0 || ms != 0) {
		sign = "-"
	}
	return fmt.Sprintf("%s%d %d %.3f", sign, deg, min, float64(ms)/1000)
}
