package profiler

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	simpleDurationPattern = regexp.MustCompile(`^(?:(\d+):)?(\d+):(\d+)$`)
	iso8601DurationPattern = regexp.MustCompile(
		`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)
)

// ParseDuration parses an OSM duration= value, accepting "H:MM:SS",
// "MM:SS", a bare integer second count, or an ISO-8601 "PT#H#M#S"
// string. Returns 0 if source is empty or unparseable. A successfully
// parsed non-zero duration is floored at 1 second, matching the
// original's refusal to treat a crossing as instantaneous.
func ParseDuration(source string) float64 {
	source = strings.TrimSpace(source)
	if source == "" {
		return 0
	}

	if m := simpleDurationPattern.FindStringSubmatch(source); m != nil {
		hours := parseIntOrZero(m[1])
		minutes := parseIntOrZero(m[2])
		seconds := parseIntOrZero(m[3])
		return floorOneSecond(float64(hours*3600 + minutes*60 + seconds))
	}

	if m := iso8601DurationPattern.FindStringSubmatch(source); m != nil && (m[1] != "" || m[2] != "" || m[3] != "") {
		hours := parseIntOrZero(m[1])
		minutes := parseIntOrZero(m[2])
		seconds := parseIntOrZero(m[3])
		return floorOneSecond(float64(hours*3600 + minutes*60 + seconds))
	}

	if n, err := strconv.ParseFloat(source, 64); err == nil {
		return floorOneSecond(n)
	}

	return 0
}

func floorOneSecond(seconds float64) float64 {
	if seconds <= 0 {
		return 0
	}
	if seconds < 1 {
		return 1
	}
	return seconds
}

func parseIntOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
