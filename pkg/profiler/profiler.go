package profiler

import (
	"strconv"

	"osm2routing/pkg/config"
	"osm2routing/pkg/tagindex"
	"osm2routing/pkg/tags"
)

// Profile implements the 12-step decision order of the spec's way
// profiler, grounded on the original car profile's way_function:
// presence rejection, area/oneway/impassable rejection, access-cost
// blacklist rejection, ferry/movable-bridge speed-table handling,
// highway-class speed with maxspeed override and a 160 km/h ceiling,
// default speed for whitelisted-but-unclassified access,
// surface/tracktype/smoothness reduction, directionality,
// forward/backward (then advisory) maxspeed overrides, the
// width/lanes penalty, and is_startpoint. The bool return is false
// when the way isn't routable at all — Go's substitute for the
// original's `None` result.
func Profile(t tags.Map, idx *tagindex.Index) (WayProfile, bool) {
	// Pass-1 prefilter (spec §4.3): a routable-way tag key, not a sure
	// area, and a routable highway/ferry/junction.
	if !idx.IsRoutableWay(t) {
		return WayProfile{}, false
	}
	// Step 1: at least one of highway/route/bridge must be present.
	if t.Get("highway") == "" && t.Get("route") == "" && t.Get("bridge") == "" {
		return WayProfile{}, false
	}

	// Step 2: area/reversible/impassable rejection.
	if idx.AreaStatus(t) == tagindex.SureArea {
		return WayProfile{}, false
	}
	oneway := onewayValue(t)
	if oneway == "reversible" || oneway == "alternating" {
		return WayProfile{}, false
	}
	if t.Get("impassable") == "yes" || t.Get("status") == "impassable" {
		return WayProfile{}, false
	}

	// Step 3: access blacklist, via the configured cost-multiplier
	// table — a multiplier of zero or below means the effective
	// access value forbids routing outright (e.g. access=no/private),
	// unless the vehicle class is explicitly excepted.
	if _, accessValue, found := idx.ActualAccess(t); found {
		if idx.AccessCostMultiplier(accessValue) <= 0 && !idx.IsExcepted(t.Get("except")) {
			return WayProfile{}, false
		}
	}

	profile := WayProfile{IsStartpoint: true}
	highway := t.Get("highway")
	speeds := idx.SpeedConstants()

	var speed float64
	switch {
	// Step 4: route=ferry, as qualified by IsAdequateFerry. Other route=
	// values (shuttle_train and the like) never reach this branch:
	// IsRoutableWay rejects a way whose only routing key is such a route.
	case idx.IsAdequateFerry(t):
		profile.Mode = ModeFerry
		profile.IsStartpoint = false
		profile.DurationSeconds = ParseDuration(t.Get("duration"))
		speed = routeSpeed(t.Get("route"))

	// Step 5: bridge=movable, unless explicitly closed to cars. The
	// bridge's own table entry wins over the highway class; it only
	// falls back to the highway speed if "movable" has no entry.
	case t.Get("bridge") == "movable" && t.Get("capacity:car") != "0":
		profile.Mode = ModeMovableBridge
		profile.IsStartpoint = false
		profile.DurationSeconds = ParseDuration(t.Get("duration"))
		bridgeSpeed, ok := speedProfile[t.Get("bridge")]
		if !ok {
			bridgeSpeed = speedProfile[highway]
		}
		speed = bridgeSpeed

	default:
		// Step 6: highway-class speed, overridden by maxspeed only if
		// larger; clamp to the global ceiling when maxspeed is absent
		// or unresolvable.
		profile.Mode = ModeNormal
		hwSpeed, known := speedProfile[highway]
		if !known {
			// Step 7: a highway value with no speed-table entry uses
			// the default speed; the access value is not consulted here.
			hwSpeed = speedProfile["default"]
		}
		if ms := ParseMaxSpeed(t.Get("maxspeed"), speeds); ms > hwSpeed {
			hwSpeed = ms
		} else if ms <= 0 && hwSpeed > defaultMaxSpeedKMH {
			hwSpeed = defaultMaxSpeedKMH
		}
		speed = hwSpeed
	}

	// side_road and surface/tracktype/smoothness reduction apply to
	// every mode's speed, not just the highway-class branch.
	switch t.Get("side_road") {
	case "yes", "rotary":
		speed *= 0.8
	}
	// Step 8: surface/tracktype/smoothness reduction.
	speed = applySurfaceReduction(t, speed)

	profile.SpeedForwardKMH = speed
	profile.SpeedBackwardKMH = speed

	// Step 9: directionality.
	forward, backward := directionFlags(oneway, highway, t.Get("junction"), idx)
	profile.Forward = forward
	profile.Backward = backward

	// Step 10: maxspeed:forward/backward, then maxspeed:advisory[:forward|:backward]
	// with the same precedence.
	profile.SpeedForwardKMH = directedMaxSpeed(t, speeds, "forward", profile.SpeedForwardKMH)
	profile.SpeedBackwardKMH = directedMaxSpeed(t, speeds, "backward", profile.SpeedBackwardKMH)

	// Step 11: width/lanes penalty, applied per direction.
	if narrow := isNarrow(t, forward && backward); narrow {
		if profile.SpeedForwardKMH > 0 {
			profile.SpeedForwardKMH = narrowedSpeed(profile.SpeedForwardKMH)
		}
		if profile.SpeedBackwardKMH > 0 {
			profile.SpeedBackwardKMH = narrowedSpeed(profile.SpeedBackwardKMH)
		}
	}

	// Step 12: is_startpoint iff the mode is normal.
	profile.IsStartpoint = profile.Mode == ModeNormal

	if _, accessValue, found := idx.ActualAccess(t); found {
		if _, restricted := restrictedAccessValues[accessValue]; restricted {
			profile.IsAccessRestricted = true
		}
	}
	if t.Get("service") == "parking_aisle" {
		profile.IsAccessRestricted = true
	}

	return profile, true
}

// routeSpeed resolves the speed-table entry for a route= value
// (ferry, shuttle_train, ...), falling back to the plain "ferry" entry.
func routeSpeed(route string) float64 {
	if v, ok := speedProfile[route]; ok {
		return v
	}
	return speedProfile["ferry"]
}

// directedMaxSpeed resolves the override chain for one direction:
// maxspeed:<dir>, then maxspeed:advisory:<dir>, then the plain
// maxspeed:advisory, each checked only if the previous one resolved to
// nothing. The first hit replaces current; if none resolve, current is
// returned unchanged.
func directedMaxSpeed(t tags.Map, speeds *config.SpeedConstants, dir string, current float64) float64 {
	if v := ParseMaxSpeed(t.Get("maxspeed:"+dir), speeds); v > 0 {
		return v
	}
	if v := ParseMaxSpeed(t.Get("maxspeed:advisory:"+dir), speeds); v > 0 {
		return v
	}
	if v := ParseMaxSpeed(t.Get("maxspeed:advisory"), speeds); v > 0 {
		return v
	}
	return current
}

// narrowedSpeed applies the spec's width/lanes penalty: speed/2,
// capped by speed*0.8+11.
func narrowedSpeed(speed float64) float64 {
	penalized := speed / 2
	ceiling := speed*0.8 + 11
	if penalized < ceiling {
		return penalized
	}
	return ceiling
}

// isNarrow reports whether width<=3 or the way is a single general
// lane carrying two-way traffic.
func isNarrow(t tags.Map, bidirectional bool) bool {
	if w, ok := parseMeters(t.Get("width")); ok && w <= 3 {
		return true
	}
	if bidirectional {
		if lanes, err := strconv.Atoi(t.Get("lanes")); err == nil && lanes <= 1 {
			return true
		}
	}
	return false
}

func parseMeters(v string) (float64, bool) {
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func applySurfaceReduction(t tags.Map, speed float64) float64 {
	if v, ok := surfaceSpeeds[t.Get("surface")]; ok && v < speed {
		speed = v
	}
	if v, ok := tracktypeSpeeds[t.Get("tracktype")]; ok && v < speed {
		speed = v
	}
	if v, ok := smoothnessSpeeds[t.Get("smoothness")]; ok && v < speed {
		speed = v
	}
	return speed
}

func onewayValue(t tags.Map) string {
	v := t.Get("oneway")
	switch v {
	case "1", "true":
		return "yes"
	case "0", "false":
		return "no"
	}
	return v
}

// directionFlags mirrors the original's direction resolution: an
// explicit oneway tag always wins; absent one, a motorway-class
// highway or a roundabout junction implies forward-only; anything
// else is bidirectional.
func directionFlags(oneway, highway, junction string, idx *tagindex.Index) (forward, backward bool) {
	switch oneway {
	case "yes":
		return true, false
	case "-1":
		return false, true
	case "no":
		return true, true
	}
	if highway == "motorway" || highway == "motorway_link" {
		return true, false
	}
	if idx.IsRoutableJunction(junction) {
		return true, false
	}
	return true, true
}
