package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// AccessCosts maps an access tag value (private, destination, ...) to a
// routing-cost multiplier. Values absent from the table default to 1.0
// (no penalty), matching AccessCosts.get_cost's dict.get fallback.
type AccessCosts struct {
	multipliers map[string]float64
}

// BarrierCosts maps a barrier tag value (gate, lift_gate, bollard, ...)
// to a fixed traversal cost in seconds. Cost reports a value absent
// from the table as unknown; the registry drops such barrier nodes
// without recording a restriction.
type BarrierCosts struct {
	costs map[string]float64
}

// LoadAccessCosts reads a tab-separated "value\tmultiplier" table. The
// first line is a header and is always skipped, matching the Python
// loader's unconditional ignore_line flag.
func LoadAccessCosts(path string) (*AccessCosts, error) {
	rows, err := loadCostTable(path)
	if err != nil {
		return nil, err
	}
	return &AccessCosts{multipliers: rows}, nil
}

// Multiplier returns the cost multiplier for an access value, matching
// get_access_cost_multiplier: value is split on ";" (OSM's
// multi-value separator), each part looked up independently (1.0 if
// absent from the table), and the result is the max across parts —
// except that any part resolving to a zero or negative (forbidden)
// multiplier wins outright, since one explicit "no" in a compound value
// forbids the whole way regardless of what else is listed alongside it.
func (a *AccessCosts) Multiplier(value string) float64 {
	if value == "" {
		return 1.0
	}
	max := -1.0
	sawAny := false
	for _, part := range strings.Split(value, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sawAny = true
		m, ok := a.multipliers[part]
		if !ok {
			m = 1.0
		}
		if m <= 0 {
			return m
		}
		if m > max {
			max = m
		}
	}
	if !sawAny {
		return 1.0
	}
	return max
}

// LoadBarrierCosts reads a tab-separated "value\tcost_seconds" table,
// skipping the header line.
func LoadBarrierCosts(path string) (*BarrierCosts, error) {
	rows, err := loadCostTable(path)
	if err != nil {
		return nil, err
	}
	return &BarrierCosts{costs: rows}, nil
}

// Cost returns the traversal cost for a barrier value and whether it was
// found in the table at all.
func (b *BarrierCosts) Cost(value string) (float64, bool) {
	v, ok := b.costs[value]
	return v, ok
}

func loadCostTable(path string) (map[string]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	out := make(map[string]float64)
	scanner := bufio.NewScanner(f)
	skippedHeader := false
	for scanner.Scan() {
		if !skippedHeader {
			skippedHeader = true
			continue
		}
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return nil, fmt.Errorf("%s: malformed line %q", path, line)
		}
		v, err := parseFloat(fields[1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		out[strings.TrimSpace(fields[0])] = v
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return out, nil
}
