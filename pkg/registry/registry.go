package registry

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/paulmach/osm"

	"osm2routing/pkg/profiler"
	"osm2routing/pkg/tagindex"
	"osm2routing/pkg/tags"
)

// Registry bundles everything accumulated across both parsing passes:
// routable ways, relation restrictions, point barriers, the node→ways
// multi-map, and (after pass 2) node coordinates.
type Registry struct {
	NodeWays *NodeWayMap

	mu           sync.Mutex
	ways         map[osm.WayID]*Way
	restrictions map[osm.RelationID]*Restriction
	barriers     map[osm.NodeID]*BarrierRestriction
	coords       map[osm.NodeID]Point

	sealed bool
	logger *slog.Logger
}

// Point is a plain lon/lat pair, avoiding a hard dependency on a
// geometry library for the registry's own bookkeeping.
type Point struct {
	Lon float64
	Lat float64
}

// New returns an empty registry ready for pass 1 ingestion. A nil
// logger falls back to slog.Default.
func New(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		NodeWays:     NewNodeWayMap(),
		ways:         make(map[osm.WayID]*Way),
		restrictions: make(map[osm.RelationID]*Restriction),
		barriers:     make(map[osm.NodeID]*BarrierRestriction),
		coords:       make(map[osm.NodeID]Point),
		logger:       logger,
	}
}

// IngestWay profiles a way and, if routable, records it and appends
// its node references into the node→ways multi-map.
func (r *Registry) IngestWay(w *osm.Way, idx *tagindex.Index) error {
	if r.isSealed() {
		return fmt.Errorf("registry: ingest way %d after seal", w.ID)
	}

	t := tags.New(w.Tags)
	profile, ok := profiler.Profile(t, idx)
	if !ok {
		r.logger.Warn("dropping way, not routable", "way_id", w.ID)
		return nil
	}

	nodeIDs := make([]osm.NodeID, 0, len(w.Nodes))
	for _, wn := range w.Nodes {
		if len(nodeIDs) > 0 && nodeIDs[len(nodeIDs)-1] == wn.ID {
			continue // collapse consecutive identical node references
		}
		nodeIDs = append(nodeIDs, wn.ID)
	}
	if len(nodeIDs) < 2 {
		r.logger.Warn("dropping way, fewer than two distinct nodes", "way_id", w.ID)
		return nil
	}

	r.mu.Lock()
	r.ways[w.ID] = NewWay(w.ID, nodeIDs, profile, idx.UsefulProperties(t))
	r.mu.Unlock()

	for _, id := range nodeIDs {
		r.NodeWays.Append(id, w.ID)
	}
	return nil
}

// IngestRelation records a relation as a restriction if it validates
// against the tag index; non-restriction relations are ignored.
func (r *Registry) IngestRelation(rel *osm.Relation, idx *tagindex.Index) error {
	if r.isSealed() {
		return fmt.Errorf("registry: ingest relation %d after seal", rel.ID)
	}

	t := tags.New(rel.Tags)
	if !idx.IsValidRestriction(t) {
		return nil
	}
	if idx.IsExcepted(t.Get("except")) {
		r.logger.Warn("dropping restriction, except tag exempts an allowed vehicle class",
			"relation_id", rel.ID, "except", t.Get("except"))
		return nil
	}
	restrictionType, _ := idx.ActualRestrictionType(t)

	restriction := &Restriction{
		ID:     rel.ID,
		Type:   restrictionType,
		Except: t.Get("except"),
	}
	for _, m := range rel.Members {
		switch m.Type {
		case osm.TypeWay:
			switch m.Role {
			case "from":
				restriction.FromWays = append(restriction.FromWays, osm.WayID(m.Ref))
			case "to":
				restriction.ToWays = append(restriction.ToWays, osm.WayID(m.Ref))
			case "via":
				restriction.ViaWays = append(restriction.ViaWays, osm.WayID(m.Ref))
			}
		case osm.TypeNode:
			if m.Role == "via" {
				restriction.ViaNodes = append(restriction.ViaNodes, osm.NodeID(m.Ref))
			}
		}
	}
	if len(restriction.FromWays) == 0 || len(restriction.ToWays) == 0 {
		r.logger.Warn("dropping restriction, missing a from or to member", "relation_id", rel.ID)
		return nil // unresolvable without both ends, dropped per invariant 5
	}

	r.mu.Lock()
	r.restrictions[rel.ID] = restriction
	r.mu.Unlock()
	return nil
}

// IngestBarrierNode records a node carrying a barrier= tag as a point
// restriction if the tag index recognizes it.
func (r *Registry) IngestBarrierNode(n *osm.Node, idx *tagindex.Index) error {
	if r.isSealed() {
		return fmt.Errorf("registry: ingest node %d after seal", n.ID)
	}

	barrierValue := tags.New(n.Tags).Get("barrier")
	if barrierValue == "" {
		return nil
	}
	cost, known := idx.BarrierCost(barrierValue)
	if !known {
		r.logger.Warn("dropping barrier node, unknown barrier value", "node_id", n.ID, "barrier", barrierValue)
		return nil
	}

	r.mu.Lock()
	r.barriers[n.ID] = &BarrierRestriction{Node: n.ID, Type: barrierValue, Cost: cost}
	r.mu.Unlock()
	return nil
}

// SetNodeCoord records a node's coordinate, captured during pass 2 for
// nodes referenced by surviving ways.
func (r *Registry) SetNodeCoord(id osm.NodeID, lon, lat float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.coords[id] = Point{Lon: lon, Lat: lat}
}

// Coord returns a node's coordinate and whether it was captured.
func (r *Registry) Coord(id osm.NodeID) (Point, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.coords[id]
	return p, ok
}

// Seal freezes the registry and its node→ways map against further
// pass-1 ingestion, enforced once normalization begins.
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
	r.NodeWays.Seal()
}

func (r *Registry) isSealed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sealed
}

// Ways returns every routable way recorded in pass 1.
func (r *Registry) Ways() map[osm.WayID]*Way {
	return r.ways
}

// Way returns a single recorded way by id.
func (r *Registry) Way(id osm.WayID) (*Way, bool) {
	w, ok := r.ways[id]
	return w, ok
}

// Restrictions returns every relation-based restriction recorded.
func (r *Registry) Restrictions() map[osm.RelationID]*Restriction {
	return r.restrictions
}

// Barriers returns every point-barrier restriction recorded.
func (r *Registry) Barriers() map[osm.NodeID]*BarrierRestriction {
	return r.barriers
}

// ReferencedNodes returns every node id pass 2 must fetch coordinates
// for: every node referenced by a surviving way, plus every barrier
// node. Call only after pass 1 (and Seal) complete.
func (r *Registry) ReferencedNodes() map[osm.NodeID]struct{} {
	out := make(map[osm.NodeID]struct{})
	for _, n := range r.NodeWays.Nodes() {
		out[n] = struct{}{}
	}
	for n := range r.barriers {
		out[n] = struct{}{}
	}
	return out
}
