// Package tags adapts paulmach/osm's tag slices into a lookup-friendly
// map while preserving the original key/value pairs for property sinks.
package tags

import "github.com/paulmach/osm"

// Map wraps an osm.Tags slice with O(1) lookups. The underlying slice is
// kept so callers that need to walk every tag (e.g. the property sink)
// don't pay for a second allocation.
type Map struct {
	raw osm.Tags
	kv  map[string]string
}

// New builds a Map from a raw osm.Tags slice.
func New(raw osm.Tags) Map {
	kv := make(map[string]string, len(raw))
	for _, t := range raw {
		if _, dup := kv[t.Key]; dup {
			continue // first value wins; later duplicates are ignored by Get
		}
		kv[t.Key] = t.Value
	}
	return Map{raw: raw, kv: kv}
}

// Get returns the tag value, or "" if absent.
func (m Map) Get(key string) string {
	return m.kv[key]
}

// Has reports whether key is present (even with an empty value).
func (m Map) Has(key string) bool {
	_, ok := m.kv[key]
	return ok
}

// Keys returns the set of tag keys present, for intersection tests
// against TagIndex key-sets.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m.kv))
	for k := range m.kv {
		keys = append(keys, k)
	}
	return keys
}

// IntersectsAny reports whether any of keySet's members is present.
func (m Map) IntersectsAny(keySet map[string]struct{}) bool {
	for k := range m.kv {
		if _, ok := keySet[k]; ok {
			return true
		}
	}
	return false
}

// Raw returns the underlying ordered tag pairs, for property sinks that
// want to preserve duplicates or insertion order.
func (m Map) Raw() osm.Tags {
	return m.raw
}

// Len reports the number of distinct keys.
func (m Map) Len() int {
	return len(m.kv)
}
