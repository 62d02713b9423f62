// Package config loads the TagIndex's static key/value tables and cost
// maps from the small tab-separated/newline-delimited configuration
// files described in the loader's original Python counterpart
// (util/config.py's Configuration, Speeds, BarrierCosts, AccessCosts,
// VehicleHierarchy classes).
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// StringSet is a newline-delimited set with '#'-prefixed comment lines.
type StringSet map[string]struct{}

// LoadSet reads a newline-delimited set file, skipping blank and
// '#'-commented lines, matching Configuration._load_config_as_set.
func LoadSet(path string) (StringSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	set := make(StringSet)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		set[line] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return set, nil
}

// Has reports membership.
func (s StringSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// IntersectsKeys reports whether any key in keys is a member of s.
func (s StringSet) IntersectsKeys(keys []string) bool {
	for _, k := range keys {
		if s.Has(k) {
			return true
		}
	}
	return false
}

// parseTabLine splits a line on tabs after stripping comments/blank lines.
// Returns nil if the line should be skipped.
func parseTabLine(line string) []string {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	return strings.Split(line, "\t")
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
