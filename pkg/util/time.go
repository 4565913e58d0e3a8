package util

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatSeconds renders a duration in seconds as HH:MM:SS.mmm.
func FormatSeconds(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}

	h := int(seconds) / 3600
	m := (int(seconds) % 3600) / 60
	s := seconds - float64(h*3600+m*60)

	return fmt.Sprintf("%02d:%02d:%06.3f", h, m, s)
}

// ParseFrameRate parses an ffprobe frame rate expression such as
// "30000/1001" or "25" into frames per second.
func ParseFrameRate(rate string) float64 {
	if rate == "" {
		return 0
	}

	num, den, ok := strings.Cut(rate, "/")
	if !ok {
		v, err := strconv.ParseFloat(rate, 64)
		if err != nil {
			return 0
		}
		return v
	}

	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}

	return n / d
}
