package config

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var mphPattern = regexp.MustCompile(`(?i)^([0-9]+)\s*mph$`)

// SpeedConstants maps jurisdiction speed-limit codes (e.g. "de:rural",
// "gb:nsl_single") to km/h, with a generic fallback keyed by the bare
// class suffix ("urban", "rural", "trunk", "motorway") when the exact
// country:class code is unknown. Grounded on profile.py's
// maxspeed_table / maxspeed_table_default pair.
type SpeedConstants struct {
	exact map[string]float64
}

// LoadSpeedConstants reads a tab-separated "code\tvalue" table, where
// value is either a bare km/h number or "N mph".
func LoadSpeedConstants(path string) (*SpeedConstants, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sc := &SpeedConstants{exact: make(map[string]float64)}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := parseTabLine(scanner.Text())
		if fields == nil {
			continue
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("%s: malformed line %q", path, scanner.Text())
		}
		kmph, err := toKMPH(fields[1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		sc.exact[strings.ToLower(strings.TrimSpace(fields[0]))] = kmph
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return sc, nil
}

func toKMPH(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if m := mphPattern.FindStringSubmatch(value); m != nil {
		mph, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, err
		}
		return mph * 1609 / 1000, nil
	}
	return strconv.ParseFloat(value, 64)
}

// Lookup resolves a jurisdiction code to km/h. It first tries an exact
// match ("de:rural"), then falls back to the bare class suffix after
// the ':' ("rural") if that's separately registered — this lets a
// config table register both specific overrides and generic defaults.
func (s *SpeedConstants) Lookup(code string) (float64, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	if v, ok := s.exact[code]; ok {
		return v, true
	}
	if idx := strings.IndexByte(code, ':'); idx >= 0 {
		if v, ok := s.exact[code[idx+1:]]; ok {
			return v, true
		}
	}
	return 0, false
}
