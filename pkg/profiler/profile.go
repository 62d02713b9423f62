// Package profiler turns a way's tags into a WayProfile describing how
// (and whether) it should be routable, grounded on the original car
// profile's way_function decision order.
package profiler

// Mode classifies the kind of traversal a segment represents, beyond
// plain road travel.
type Mode int

const (
	ModeNormal Mode = iota
	ModeFerry
	ModeMovableBridge
)

// WayProfile is the profiler's verdict for a single way: whether (and
// how fast, in which directions) it's routable.
type WayProfile struct {
	Mode Mode

	Forward  bool
	Backward bool

	SpeedForwardKMH  float64
	SpeedBackwardKMH float64

	// Duration, when non-zero, is an explicit ferry/bridge crossing
	// time in seconds taken directly from a duration= tag rather than
	// derived from speed and geometry length.
	DurationSeconds float64

	// IsAccessRestricted flags ways whose effective access tag limits
	// use to a narrower class (destination, delivery, emergency,
	// private, agricultural, forestry) or carry service=parking_aisle,
	// surfaced as a way property rather than used to reject routing.
	IsAccessRestricted bool

	// IsStartpoint marks segments a route is allowed to begin or end
	// on mid-way, as opposed to only passing through (ferries and
	// movable bridges are not startpoints; ordinary roads are).
	IsStartpoint bool
}

const defaultMaxSpeedKMH = 160.0

var speedProfile = map[string]float64{
	"motorway":       90,
	"motorway_link":  45,
	"trunk":          85,
	"trunk_link":     40,
	"primary":        65,
	"primary_link":   30,
	"secondary":      55,
	"secondary_link": 25,
	"tertiary":       40,
	"tertiary_link":  20,
	"unclassified":   25,
	"residential":    25,
	"living_street":  10,
	"service":        15,
	"track":          5,
	"ferry":          5,
	"movable":        5,
	"shuttle_train":  10,
	"default":        10,
}

var surfaceSpeeds = map[string]float64{
	"cobblestone": 30,
	"gravel":      30,
	"sand":        15,
	"mud":         10,
	"unpaved":     30,
}

var tracktypeSpeeds = map[string]float64{
	"grade1": 40,
	"grade2": 30,
	"grade3": 20,
	"grade4": 15,
	"grade5": 10,
}

var smoothnessSpeeds = map[string]float64{
	"excellent":       speedCeiling,
	"good":            speedCeiling,
	"intermediate":    40,
	"bad":             20,
	"very_bad":        10,
	"horrible":        5,
	"very_horrible":   3,
	"impassable":      0,
}

const speedCeiling = defaultMaxSpeedKMH

var restrictedAccessValues = map[string]struct{}{
	"destination":   {},
	"delivery":      {},
	"emergency":     {},
	"private":       {},
	"agricultural":  {},
	"forestry":      {},
}
