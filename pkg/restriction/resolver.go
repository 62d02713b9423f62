package restriction

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/paulmach/osm"

	"osm2routing/pkg/geo"
	"osm2routing/pkg/normalizer"
	"osm2routing/pkg/registry"
)

// Resolve turns net's validated relation restrictions and barriers
// into concrete ProperRestriction triples, then expands any only_*
// restriction into the complementary set of no_* restrictions over
// every other segment reachable from the same (from segment, via
// node) pair — matching the original's only_route_segments/
// block_routes pivot logic. A nil logger falls back to slog.Default.
func Resolve(reg *registry.Registry, net *normalizer.Network, logger *slog.Logger) ([]ProperRestriction, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var out []ProperRestriction

	for _, r := range net.Restrictions {
		resolved, err := resolveRelation(reg, r, logger)
		if err != nil {
			return nil, fmt.Errorf("resolve relation %d: %w", r.ID, err)
		}
		out = append(out, resolved...)
	}

	for _, b := range net.Barriers {
		out = append(out, resolveBarrier(net, b)...)
	}

	return expandOnly(net, out, logger), nil
}

// viaCandidates returns the via nodes to consider for a relation: the
// explicit via-node members if present, otherwise every junction node
// shared between a from-way segment endpoint and a to-way segment
// endpoint. Considering every segment endpoint (not just the way's
// own first/last node) catches a way that was split into several
// segments mid-route, where a legitimate via-node-less match can sit
// at an interior junction rather than at either end of the way. Per
// spec §4.5, a relation with no explicit via-node proceeds with every
// such match, so the caller logs a warning rather than this function
// picking one.
func viaCandidates(reg *registry.Registry, r *registry.Restriction, logger *slog.Logger) []osm.NodeID {
	if len(r.ViaNodes) > 0 {
		return r.ViaNodes
	}

	fromEnds := make(map[osm.NodeID]struct{})
	for _, fromID := range r.FromWays {
		fromWay, ok := reg.Way(fromID)
		if !ok {
			continue
		}
		for _, seg := range fromWay.Segments() {
			fromEnds[seg.Head] = struct{}{}
			fromEnds[seg.Tail] = struct{}{}
		}
	}

	seen := make(map[osm.NodeID]struct{})
	var shared []osm.NodeID
	for _, toID := range r.ToWays {
		toWay, ok := reg.Way(toID)
		if !ok {
			continue
		}
		for _, seg := range toWay.Segments() {
			for _, end := range []osm.NodeID{seg.Head, seg.Tail} {
				if _, ok := fromEnds[end]; !ok {
					continue
				}
				if _, dup := seen[end]; dup {
					continue
				}
				seen[end] = struct{}{}
				shared = append(shared, end)
			}
		}
	}

	if len(shared) > 0 {
		logger.Warn("restriction has no explicit via-node, proceeding with every endpoint match",
			"relation_id", r.ID, "candidates", len(shared))
	}
	return shared
}

func resolveRelation(reg *registry.Registry, r *registry.Restriction, logger *slog.Logger) ([]ProperRestriction, error) {
	var out []ProperRestriction
	parent := fmt.Sprintf("relation/%d", r.ID)

	for _, viaNode := range viaCandidates(reg, r, logger) {
		for _, fromID := range r.FromWays {
			fromSeg := segmentTouching(reg, fromID, viaNode)
			if fromSeg == nil {
				continue
			}
			for _, toID := range r.ToWays {
				toSeg := segmentTouching(reg, toID, viaNode)
				if toSeg == nil || toSeg.ID == fromSeg.ID {
					continue
				}
				pr := ProperRestriction{
					FromSegment: fromSeg.ID,
					ToSegment:   toSeg.ID,
					ViaNode:     viaNode,
					Type:        r.Type,
					Parent:      parent,
				}
				if angle, ok := turnAngle(reg, fromSeg, toSeg, viaNode); ok {
					pr.AngleDegrees = angle
					pr.HasAngle = true
				}
				out = append(out, pr)
			}
		}
	}
	return out, nil
}

// segmentTouching returns the first segment of way, in traversal order,
// that has viaNode as either its head or tail, or nil if the way doesn't
// touch viaNode. Where viaNode is an interior junction of the way, the
// later segment that also starts there is not returned.
func segmentTouching(reg *registry.Registry, wayID osm.WayID, viaNode osm.NodeID) *registry.Segment {
	way, ok := reg.Way(wayID)
	if !ok {
		return nil
	}
	for _, seg := range way.Segments() {
		if seg.Head == viaNode || seg.Tail == viaNode {
			return seg
		}
	}
	return nil
}

// turnAngle computes the bearing change at viaNode using the segment
// endpoints closest to it on each side (the via node itself and its
// nearest neighbor along each segment).
func turnAngle(reg *registry.Registry, from, to *registry.Segment, via osm.NodeID) (float64, bool) {
	approach := neighborOf(from, via)
	depart := neighborOf(to, via)
	if approach == 0 && depart == 0 {
		return 0, false
	}

	viaPt, ok := reg.Coord(via)
	if !ok {
		return 0, false
	}
	approachPt, ok1 := reg.Coord(approach)
	departPt, ok2 := reg.Coord(depart)
	if !ok1 || !ok2 {
		return 0, false
	}

	return geo.TurnAngle(
		approachPt.Lat, approachPt.Lon,
		viaPt.Lat, viaPt.Lon,
		departPt.Lat, departPt.Lon,
	), true
}

// neighborOf returns the node adjacent to via along seg, walking
// inward from whichever end via sits on.
func neighborOf(seg *registry.Segment, via osm.NodeID) osm.NodeID {
	nodes := seg.Nodes()
	for i, n := range nodes {
		if n != via {
			continue
		}
		switch {
		case i+1 < len(nodes):
			return nodes[i+1]
		case i-1 >= 0:
			return nodes[i-1]
		}
	}
	return 0
}

// resolveBarrier pairs every distinct pair of segments meeting at the
// barrier's node, each pair earning the barrier's traversal cost. Every
// ordered pair (i, j) with i != j is emitted, so both directions appear
// and no segment is matched against itself — a deliberate fix of the
// original's i <= j self-pairing.
func resolveBarrier(net *normalizer.Network, b *registry.BarrierRestriction) []ProperRestriction {
	node, ok := net.Nodes[b.Node]
	if !ok {
		return nil
	}
	parent := fmt.Sprintf("barrier/%d", b.Node)

	var out []ProperRestriction
	segs := node.Segments
	for i := 0; i < len(segs); i++ {
		for j := 0; j < len(segs); j++ {
			if i == j {
				continue
			}
			out = append(out, ProperRestriction{
				FromSegment: segs[i].ID,
				ToSegment:   segs[j].ID,
				ViaNode:     b.Node,
				Type:        "barrier",
				Parent:      parent,
				Cost:        b.Cost,
				HasCost:     true,
			})
		}
	}
	return out
}

// expandOnly groups restrictions by (from_segment, via_node) and, for
// every group containing an only_* rule, replaces the group with the
// complementary no_* set per spec §4.5: only_targets is the union of
// to-segments across every only_* rule in the group (not just the
// first), block_routes is the via-node's incident edges minus
// only_targets, and the group's surviving rows are those whose to is
// in block_routes or whose type already starts with no_, plus a
// synthetic no_*-equivalent row for every block_routes segment not
// already covered by an explicit no_*. The only_* rows themselves are
// dropped — their to-segments are, by construction, excluded from
// block_routes. Groups without an only_* pass through unchanged
// (no_* and barrier rules alike).
func expandOnly(net *normalizer.Network, restrictions []ProperRestriction, logger *slog.Logger) []ProperRestriction {
	type key struct {
		from int64
		via  osm.NodeID
	}

	groups := make(map[key][]ProperRestriction)
	var order []key
	for _, r := range restrictions {
		k := key{r.FromSegment, r.ViaNode}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r)
	}

	var out []ProperRestriction
	for _, k := range order {
		group := groups[k]

		var pivot *ProperRestriction
		onlyTargets := make(map[int64]struct{})
		for i := range group {
			if isOnly(group[i].Type) {
				if pivot == nil {
					pivot = &group[i]
				}
				onlyTargets[group[i].ToSegment] = struct{}{}
			}
		}
		if pivot == nil {
			out = append(out, group...)
			continue
		}

		node, ok := net.Nodes[k.via]
		if !ok {
			logger.Warn("dropping only_* restriction, via-node has no surviving segments",
				"from_segment", k.from, "via_node", k.via, "parent", pivot.Parent)
			continue
		}
		incident := make(map[int64]struct{}, len(node.Segments))
		for _, seg := range node.Segments {
			if seg.ID == k.from {
				continue // the approach segment is never a turn target for itself
			}
			incident[seg.ID] = struct{}{}
		}
		blockRoutes := make(map[int64]struct{})
		for id := range incident {
			if _, isTarget := onlyTargets[id]; !isTarget {
				blockRoutes[id] = struct{}{}
			}
		}

		explicitNo := make(map[int64]struct{})
		for _, r := range group {
			_, inBlock := blockRoutes[r.ToSegment]
			if inBlock || restrictionTypeIsNo(r.Type) {
				out = append(out, r)
				if restrictionTypeIsNo(r.Type) {
					explicitNo[r.ToSegment] = struct{}{}
				}
			}
		}

		blockIDs := make([]int64, 0, len(blockRoutes))
		for id := range blockRoutes {
			blockIDs = append(blockIDs, id)
		}
		sort.Slice(blockIDs, func(i, j int) bool { return blockIDs[i] < blockIDs[j] })

		noType, _ := onlyToNo(pivot.Type)
		for _, id := range blockIDs {
			if _, already := explicitNo[id]; already {
				continue
			}
			out = append(out, ProperRestriction{
				FromSegment: k.from,
				ToSegment:   id,
				ViaNode:     k.via,
				Type:        noType,
				Parent:      pivot.Parent,
			})
		}
	}
	return out
}

func restrictionTypeIsNo(t string) bool {
	switch t {
	case "no_left_turn", "no_right_turn", "no_straight_on", "no_u_turn", "no_entry", "no_exit":
		return true
	}
	return false
}
