package normalizer

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/paulmach/osm"

	"osm2routing/pkg/registry"
)

// Normalize promotes junction nodes from reg's node→ways multi-map,
// splits every recorded way into dense segments, revalidates relation
// restrictions and barriers against the surviving way set, and seals
// the registry against further pass-1 ingestion. A nil logger falls
// back to slog.Default.
func Normalize(reg *registry.Registry, logger *slog.Logger) (*Network, error) {
	if logger == nil {
		logger = slog.Default()
	}
	isJunction := func(id osm.NodeID) bool {
		return reg.NodeWays.IsJunction(id)
	}

	var gen IDGenerator
	var allSegments []*registry.Segment
	nodes := make(map[osm.NodeID]*RoutingNode)

	for _, way := range sortedWays(reg.Ways()) {
		segments, err := way.SplitAtNodePlaceholders(isJunction, gen.Next)
		if err != nil {
			return nil, fmt.Errorf("normalize way %d: %w", way.ID, err)
		}
		for _, seg := range segments {
			allSegments = append(allSegments, seg)
			attachNode(nodes, seg.Head, seg)
			attachNode(nodes, seg.Tail, seg)
		}
	}

	validRestrictions := make([]*registry.Restriction, 0, len(reg.Restrictions()))
	for _, r := range sortedRestrictions(reg.Restrictions()) {
		fromBefore, toBefore := len(r.FromWays), len(r.ToWays)
		r.FromWays = filterSurvivingWays(reg, r.FromWays)
		r.ToWays = filterSurvivingWays(reg, r.ToWays)
		r.ViaWays = filterSurvivingWays(reg, r.ViaWays)
		if len(r.FromWays) != fromBefore || len(r.ToWays) != toBefore {
			logger.Warn("restriction references a way that did not survive pass 1, filtering way list",
				"relation_id", r.ID, "from_ways", len(r.FromWays), "to_ways", len(r.ToWays))
		}
		if len(r.FromWays) == 0 || len(r.ToWays) == 0 {
			logger.Warn("dropping restriction, from/to way list is empty after filtering", "relation_id", r.ID)
			continue // invariant 5: from non-empty, and to non-empty for a non-via-node-only restriction
		}
		if r.Type == "no_u_turn" && waysIntersect(r.FromWays, r.ToWays) {
			logger.Warn("dropping no_u_turn restriction, from/to way lists share a way", "relation_id", r.ID)
			continue // invariant 6
		}
		validRestrictions = append(validRestrictions, r)
	}

	validBarriers := make([]*registry.BarrierRestriction, 0, len(reg.Barriers()))
	for _, b := range sortedBarriers(reg.Barriers()) {
		if reg.NodeWays.Multiplicity(b.Node) == 0 {
			logger.Warn("dropping barrier, no surviving way touches its node", "node_id", b.Node)
			continue // barrier on a node no surviving way touches
		}
		validBarriers = append(validBarriers, b)
	}

	reg.Seal()

	return &Network{
		Segments:     allSegments,
		Nodes:        nodes,
		Restrictions: validRestrictions,
		Barriers:     validBarriers,
	}, nil
}

func attachNode(nodes map[osm.NodeID]*RoutingNode, id osm.NodeID, seg *registry.Segment) {
	n, ok := nodes[id]
	if !ok {
		n = &RoutingNode{ID: id}
		nodes[id] = n
	}
	n.Segments = append(n.Segments, seg)
}

// filterSurvivingWays returns the subset of ids that resolved to a way
// recorded in reg, preserving order. Per spec §4.4 step 3, a dead id
// is dropped individually rather than disqualifying the whole list.
func filterSurvivingWays(reg *registry.Registry, ids []osm.WayID) []osm.WayID {
	var out []osm.WayID
	for _, id := range ids {
		if _, ok := reg.Way(id); ok {
			out = append(out, id)
		}
	}
	return out
}

func waysIntersect(a, b []osm.WayID) bool {
	set := make(map[osm.WayID]struct{}, len(a))
	for _, id := range a {
		set[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}

// sortedWays returns ways sorted by OSM id so that segment splitting —
// and therefore dense id assignment — runs in a deterministic order for
// a given input, per spec §5's "stable for a given input" guarantee.
// Map iteration order in Go is randomized per-process and must never
// drive id assignment directly.
func sortedWays(ways map[osm.WayID]*registry.Way) []*registry.Way {
	out := make([]*registry.Way, 0, len(ways))
	for _, w := range ways {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedRestrictions(restrictions map[osm.RelationID]*registry.Restriction) []*registry.Restriction {
	out := make([]*registry.Restriction, 0, len(restrictions))
	for _, r := range restrictions {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedBarriers(barriers map[osm.NodeID]*registry.BarrierRestriction) []*registry.BarrierRestriction {
	out := make([]*registry.BarrierRestriction, 0, len(barriers))
	for _, b := range barriers {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Node < out[j].Node })
	return out
}
