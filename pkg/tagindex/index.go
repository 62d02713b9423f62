// Package tagindex exposes the routing-relevance predicates and cost
// tables the profiler and restriction resolver consult, backed by the
// static tables pkg/config loads from the conf/ tree.
package tagindex

import (
	"strings"

	"osm2routing/pkg/config"
	"osm2routing/pkg/tags"
)

// AreaStatus classifies how strongly a way looks like an area polygon
// rather than a routable line, matching the original's
// NOT_AREA/MAYBE_AREA/SURE_AREA trichotomy.
type AreaStatus int

const (
	NotArea AreaStatus = iota
	MaybeArea
	SureArea
)

// restrictionTypes is the set of canonical restriction values the
// resolver understands, after any vehicle-specific "restriction:<mode>"
// key has been folded onto the plain "restriction" key.
var restrictionTypes = config.StringSet{
	"no_left_turn":     {},
	"no_right_turn":    {},
	"no_straight_on":   {},
	"no_u_turn":        {},
	"no_entry":         {},
	"no_exit":          {},
	"only_left_turn":   {},
	"only_right_turn":  {},
	"only_straight_on": {},
}

// Index wraps a loaded Config with the predicate/lookup operations the
// rest of the pipeline calls. It is built once and shared read-only.
type Index struct {
	cfg *config.Config
}

// New wraps a loaded Config.
func New(cfg *config.Config) *Index {
	return &Index{cfg: cfg}
}

// IsRoutableHighway reports whether a highway= value has an assigned
// speed class.
func (idx *Index) IsRoutableHighway(value string) bool {
	return idx.cfg.RoutableHighwayValues.Has(value)
}

// IsRoutableJunction reports whether a junction= value implies a
// roundabout-style forced direction.
func (idx *Index) IsRoutableJunction(value string) bool {
	return idx.cfg.RoutableJunctionValues.Has(value)
}

// IsAdequateFerry reports whether a route=ferry way carries enough
// access/duration information to be worth routing over.
func (idx *Index) IsAdequateFerry(t tags.Map) bool {
	if t.Get("route") != "ferry" {
		return false
	}
	switch t.Get("motor_vehicle") {
	case "yes", "designated", "permissive":
		return true
	}
	return t.Has("duration")
}

// IsRoutableWay reports whether a way is a routing candidate at all,
// before the profiler runs its full decision order.
func (idx *Index) IsRoutableWay(t tags.Map) bool {
	if !idx.cfg.RoutableWayKeys.IntersectsKeys(t.Keys()) {
		return false
	}
	if hw := t.Get("highway"); hw != "" && idx.IsRoutableHighway(hw) {
		return true
	}
	if idx.IsAdequateFerry(t) {
		return true
	}
	if j := t.Get("junction"); j != "" && idx.IsRoutableJunction(j) {
		return true
	}
	if t.Get("bridge") == "movable" {
		return true
	}
	return false
}

// AreaStatus classifies the way's area-ness from its tags.
func (idx *Index) AreaStatus(t tags.Map) AreaStatus {
	switch t.Get("area") {
	case "yes":
		return SureArea
	case "no":
		return NotArea
	}
	if t.Has("highway") {
		return NotArea
	}
	if idx.cfg.AreaKeys.IntersectsKeys(t.Keys()) {
		return MaybeArea
	}
	return NotArea
}

// ActualAccess walks the vehicle-hierarchy fallback chain rooted at
// AccessTagHierarchyRoot and returns the first access key present on
// the way along with its value, matching find_access_tag.
func (idx *Index) ActualAccess(t tags.Map) (key, value string, found bool) {
	for _, k := range idx.cfg.VehicleHierarchy.FullHierarchy(config.AccessTagHierarchyRoot) {
		if !idx.cfg.AllowedVehicleKeys.Has(k) {
			continue
		}
		if v := t.Get(k); v != "" {
			return k, v, true
		}
	}
	return "", "", false
}

// SpeedConstants exposes the jurisdiction speed-code table for callers
// (the profiler's maxspeed parsing) that need it directly.
func (idx *Index) SpeedConstants() *config.SpeedConstants {
	return idx.cfg.SpeedConstants
}

// AccessCostMultiplier returns the routing-cost multiplier for an
// access tag value, 1.0 (no penalty) if the value isn't in the table.
func (idx *Index) AccessCostMultiplier(value string) float64 {
	return idx.cfg.AccessCosts.Multiplier(value)
}

// BarrierCost returns the fixed traversal cost for a barrier= value,
// and whether the value is known at all.
func (idx *Index) BarrierCost(value string) (float64, bool) {
	return idx.cfg.BarrierCosts.Cost(value)
}

// knownVehicleClasses returns every value the hierarchy considers a
// vehicle class: each allowed vehicle key plus all of its ancestors,
// matching the set is_valid_restriction/is_excepted walk in the
// original config module.
func (idx *Index) knownVehicleClasses() config.StringSet {
	out := make(config.StringSet)
	for vehicle := range idx.cfg.AllowedVehicleKeys {
		for _, ancestor := range idx.cfg.VehicleHierarchy.FullHierarchy(vehicle) {
			out[ancestor] = struct{}{}
		}
	}
	return out
}

// IsValidRestriction reports whether a relation's tags describe a
// restriction relation this resolver can act on: type=restriction or
// type=restriction:<vehicle_or_ancestor>, together with a restriction*
// key carrying a recognized value.
func (idx *Index) IsValidRestriction(t tags.Map) bool {
	typeValue := t.Get("type")
	if typeValue != "restriction" {
		suffix, ok := strings.CutPrefix(typeValue, "restriction:")
		if !ok {
			return false
		}
		if !idx.knownVehicleClasses().Has(suffix) {
			return false
		}
	}
	_, ok := idx.ActualRestrictionType(t)
	return ok
}

// ActualRestrictionType resolves the effective restriction type,
// preferring a vehicle-specific "restriction:<mode>" key over the
// plain "restriction" key when both are present (the original folds
// the most specific key onto the general one).
func (idx *Index) ActualRestrictionType(t tags.Map) (string, bool) {
	for _, k := range t.Keys() {
		if strings.HasPrefix(k, "restriction:") {
			if v := t.Get(k); restrictionTypes.Has(v) {
				return v, true
			}
		}
	}
	if v := t.Get("restriction"); restrictionTypes.Has(v) {
		return v, true
	}
	return "", false
}

// IsExcepted reports whether any allowed vehicle, or one of its
// hierarchy ancestors, appears in a semicolon-split except= tag value,
// exempting the restriction from every vehicle it applies to. Matches
// is_excepted's "for vehicle in allowed_vehicles: for actual_v in
// hierarchy.get_hierarchy(vehicle)" walk.
func (idx *Index) IsExcepted(exceptTag string) bool {
	if exceptTag == "" {
		return false
	}
	known := idx.knownVehicleClasses()
	for _, v := range strings.Split(exceptTag, ";") {
		if known.Has(strings.TrimSpace(v)) {
			return true
		}
	}
	return false
}

// UsefulProperties returns the subset of t restricted to keys the sink
// persists as way properties.
func (idx *Index) UsefulProperties(t tags.Map) map[string]string {
	out := make(map[string]string)
	for _, kv := range t.Raw() {
		if idx.cfg.WayPropertiesKeys.Has(kv.Key) {
			out[kv.Key] = kv.Value
		}
	}
	return out
}
