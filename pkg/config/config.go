package config

import "path/filepath"

// AccessTagHierarchyRoot is the most specific access tag key consulted
// before walking VehicleHierarchy's fallback chain, matching profile.py's
// access_tags_hierachy = ["motorcar", "motor_vehicle", "vehicle", "access"].
const AccessTagHierarchyRoot = "motorcar"

// Config bundles every static table the profiler and tag index consult.
// It is loaded once at startup and is read-only thereafter — nothing in
// the pipeline mutates it, so it's safe to share across goroutines
// without its own lock.
type Config struct {
	AreaKeys               StringSet
	IgnoredWayKeys         StringSet
	RoutableWayKeys        StringSet
	RoutableHighwayValues  StringSet
	RoutableJunctionValues StringSet
	AllowedVehicleKeys     StringSet
	WayPropertiesKeys      StringSet

	VehicleHierarchy *VehicleHierarchy
	SpeedConstants   *SpeedConstants
	AccessCosts      *AccessCosts
	BarrierCosts     *BarrierCosts
}

// Load reads every table from the conventional conf/ tree layout rooted
// at dir: dir/area_keys.conf, dir/ignored_way_keys.conf, and so on, with
// dir/costs holding the two cost tables.
func Load(dir string) (*Config, error) {
	cfg := &Config{}

	sets := []struct {
		name string
		dst  *StringSet
	}{
		{"area_keys.conf", &cfg.AreaKeys},
		{"ignored_way_keys.conf", &cfg.IgnoredWayKeys},
		{"routable_way_keys.conf", &cfg.RoutableWayKeys},
		{"routable_highway_values.conf", &cfg.RoutableHighwayValues},
		{"routable_junction_values.conf", &cfg.RoutableJunctionValues},
		{"allowed_vehicle_keys.conf", &cfg.AllowedVehicleKeys},
		{"way_properties_keys.conf", &cfg.WayPropertiesKeys},
	}
	for _, s := range sets {
		set, err := LoadSet(filepath.Join(dir, s.name))
		if err != nil {
			return nil, err
		}
		*s.dst = set
	}

	hierarchy, err := LoadVehicleHierarchy(filepath.Join(dir, "vehicle_hierarchy.conf"))
	if err != nil {
		return nil, err
	}
	cfg.VehicleHierarchy = hierarchy

	speeds, err := LoadSpeedConstants(filepath.Join(dir, "speed_constants.conf"))
	if err != nil {
		return nil, err
	}
	cfg.SpeedConstants = speeds

	access, err := LoadAccessCosts(filepath.Join(dir, "costs", "access_costs.conf"))
	if err != nil {
		return nil, err
	}
	cfg.AccessCosts = access

	barrier, err := LoadBarrierCosts(filepath.Join(dir, "costs", "point_barrier_costs.conf"))
	if err != nil {
		return nil, err
	}
	cfg.BarrierCosts = barrier

	return cfg, nil
}
