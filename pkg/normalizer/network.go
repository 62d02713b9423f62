package normalizer

import (
	"github.com/paulmach/osm"

	"osm2routing/pkg/registry"
)

// RoutingNode is a junction (or dead-end) node with the segments
// incident on it, per invariant 4: a node's edge set is exactly the
// segments whose head or tail is that node.
type RoutingNode struct {
	ID       osm.NodeID
	Segments []*registry.Segment
}

// Network is the normalizer's output: dense segments, the nodes they
// meet at, and the restrictions/barriers that survived way-reference
// revalidation.
type Network struct {
	Segments []*registry.Segment
	Nodes    map[osm.NodeID]*RoutingNode

	Restrictions []*registry.Restriction
	Barriers     []*registry.BarrierRestriction
}
