// Package sink defines the output contract — nodes, segments, way
// properties, and restrictions — and provides both an in-memory
// Recorder and a PostgreSQL/PostGIS/pgRouting
// implementation.
package sink

import "context"

// NodeRow is one row of the nodes table.
type NodeRow struct {
	OSMID int64
	Lon   float64
	Lat   float64
}

// WayRow is one row of the ways table: a single directed/bidirectional
// segment, not the whole OSM way.
type WayRow struct {
	SegmentID        int64
	FromOSMID        int64
	ToOSMID          int64
	MaxspeedForward  float64
	MaxspeedBackward float64
	Oneway           string // "FT", "TF", or "NO"
	OSMID            int64
	SegmentIndex     int
	GeomWKT          string
}

// WayPropertyRow is one preserved tag on the parent OSM way.
type WayPropertyRow struct {
	WayOSMID int64
	Key      string
	Value    string
}

// RestrictionRow is one resolved ProperRestriction.
type RestrictionRow struct {
	FromSegmentID    int64
	ToSegmentID      int64
	ViaNodeOSMID     int64
	RestrictionOSMID string
	Cost             float64
	GeomPointWKT     string
}

// Sink is the output contract the pipeline writes through. Calls are
// expected to happen in phase order (nodes, then ways/properties,
// then restrictions) and each phase fails fast with no retry.
type Sink interface {
	WriteNodes(ctx context.Context, rows []NodeRow) error
	WriteWays(ctx context.Context, rows []WayRow) error
	WriteWayProperties(ctx context.Context, rows []WayPropertyRow) error
	WriteRestrictions(ctx context.Context, rows []RestrictionRow) error
	RebuildTopology(ctx context.Context, epsgCode string) error
	Close() error
}
