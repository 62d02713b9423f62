package registry

import "github.com/paulmach/osm"

// Restriction is a relation-based turn restriction as recorded by
// pass 1. Its references stay OSM way ids: the normalizer filters the
// way lists down to surviving ways, and the resolver maps them onto
// dense segment ids.
type Restriction struct {
	ID   osm.RelationID
	Type string // canonical value from tagindex.ActualRestrictionType

	FromWays []osm.WayID
	ToWays   []osm.WayID
	ViaNodes []osm.NodeID
	ViaWays  []osm.WayID

	Except string
}

// BarrierRestriction is a point obstruction on a node (gate, bollard,
// ...) with a fixed traversal cost, resolved into ProperRestriction
// pairs over the ways meeting at that node.
type BarrierRestriction struct {
	Node osm.NodeID
	Type string
	Cost float64
}
