package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// VehicleHierarchy records, for each access tag key (motorcar,
// motor_vehicle, vehicle, ...), the next broader key to fall back to
// when the more specific one is absent from a way's tags. Grounded on
// config.py's VehicleHierarchy and find_access_tag's hierarchy walk.
type VehicleHierarchy struct {
	parent map[string]string
}

// LoadVehicleHierarchy reads a "key\tparent" table. A key with no
// second column is a hierarchy root (no further fallback).
func LoadVehicleHierarchy(path string) (*VehicleHierarchy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := &VehicleHierarchy{parent: make(map[string]string)}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := parseTabLine(scanner.Text())
		if fields == nil {
			continue
		}
		key := strings.TrimSpace(fields[0])
		if len(fields) > 1 && strings.TrimSpace(fields[1]) != "" {
			h.parent[key] = strings.TrimSpace(fields[1])
		} else {
			h.parent[key] = ""
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return h, nil
}

// Parent returns the next broader access key and whether one exists.
func (h *VehicleHierarchy) Parent(vehicle string) (string, bool) {
	p, ok := h.parent[vehicle]
	if !ok || p == "" {
		return "", false
	}
	return p, true
}

// FullHierarchy returns vehicle followed by each ancestor in order,
// most specific first. A malformed table with a cycle is truncated at
// the point of repetition rather than looping forever.
func (h *VehicleHierarchy) FullHierarchy(vehicle string) []string {
	seen := map[string]struct{}{vehicle: {}}
	chain := []string{vehicle}
	cur := vehicle
	for {
		parent, ok := h.Parent(cur)
		if !ok {
			break
		}
		if _, loop := seen[parent]; loop {
			break
		}
		chain = append(chain, parent)
		seen[parent] = struct{}{}
		cur = parent
	}
	return chain
}
