package normalizer

import (
	"testing"

	"github.com/paulmach/osm"

	"osm2routing/pkg/config"
	"osm2routing/pkg/registry"
	"osm2routing/pkg/tagindex"
)

func loadTestIndex(t *testing.T) *tagindex.Index {
	t.Helper()
	cfg, err := config.Load("../../conf")
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}
	return tagindex.New(cfg)
}

func wayNodes(ids ...int64) osm.WayNodes {
	nodes := make(osm.WayNodes, len(ids))
	for i, id := range ids {
		nodes[i] = osm.WayNode{ID: osm.NodeID(id)}
	}
	return nodes
}

func residentialWay(id int64, nodes ...int64) *osm.Way {
	return &osm.Way{
		ID:    osm.WayID(id),
		Nodes: wayNodes(nodes...),
		Tags:  osm.Tags{{Key: "highway", Value: "residential"}},
	}
}

// TestNormalizeSplitsAtInteriorJunction builds a single way 1-2-3-4
// where node 3 is also touched by a second way, forcing an interior
// split: way 1 should yield two segments, [1,2,3] and [3,4].
func TestNormalizeSplitsAtInteriorJunction(t *testing.T) {
	idx := loadTestIndex(t)
	reg := registry.New(nil)

	if err := reg.IngestWay(residentialWay(1, 1, 2, 3, 4), idx); err != nil {
		t.Fatalf("IngestWay(1) error = %v", err)
	}
	if err := reg.IngestWay(residentialWay(2, 3, 5), idx); err != nil {
		t.Fatalf("IngestWay(2) error = %v", err)
	}

	net, err := Normalize(reg, nil)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	var way1Segments []*registry.Segment
	for _, seg := range net.Segments {
		if seg.Way == 1 {
			way1Segments = append(way1Segments, seg)
		}
	}
	if len(way1Segments) != 2 {
		t.Fatalf("way 1 produced %d segments, want 2 (split at node 3)", len(way1Segments))
	}
	if way1Segments[0].Tail != 3 || way1Segments[1].Head != 3 {
		t.Errorf("split point = (%d, %d), want both sides touching node 3",
			way1Segments[0].Tail, way1Segments[1].Head)
	}

	node3, ok := net.Nodes[3]
	if !ok {
		t.Fatal("node 3 not present as a RoutingNode")
	}
	if len(node3.Segments) != 3 {
		t.Errorf("node 3 has %d incident segments, want 3 (two from way 1's split plus way 2)", len(node3.Segments))
	}
}

func TestNormalizeDropsRestrictionReferencingNonSurvivingWay(t *testing.T) {
	idx := loadTestIndex(t)
	reg := registry.New(nil)

	if err := reg.IngestWay(residentialWay(1, 1, 2), idx); err != nil {
		t.Fatalf("IngestWay(1) error = %v", err)
	}

	rel := &osm.Relation{
		ID:   50,
		Tags: osm.Tags{{Key: "type", Value: "restriction"}, {Key: "restriction", Value: "no_left_turn"}},
		Members: []osm.Member{
			{Type: osm.TypeWay, Ref: 1, Role: "from"},
			{Type: osm.TypeWay, Ref: 999, Role: "to"}, // never ingested
			{Type: osm.TypeNode, Ref: 2, Role: "via"},
		},
	}
	if err := reg.IngestRelation(rel, idx); err != nil {
		t.Fatalf("IngestRelation() error = %v", err)
	}

	net, err := Normalize(reg, nil)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(net.Restrictions) != 0 {
		t.Errorf("Restrictions = %v, want empty (to-way never survived pass 1)", net.Restrictions)
	}
}

// TestNormalizeFiltersPartialRestrictionWays builds a restriction whose
// from-way list names one way that survives pass 1 and one that was
// never ingested: the restriction should survive with the dead id
// dropped, not be rejected outright.
func TestNormalizeFiltersPartialRestrictionWays(t *testing.T) {
	idx := loadTestIndex(t)
	reg := registry.New(nil)

	if err := reg.IngestWay(residentialWay(1, 1, 2), idx); err != nil {
		t.Fatalf("IngestWay(1) error = %v", err)
	}
	if err := reg.IngestWay(residentialWay(2, 2, 3), idx); err != nil {
		t.Fatalf("IngestWay(2) error = %v", err)
	}

	rel := &osm.Relation{
		ID:   55,
		Tags: osm.Tags{{Key: "type", Value: "restriction"}, {Key: "restriction", Value: "no_left_turn"}},
		Members: []osm.Member{
			{Type: osm.TypeWay, Ref: 1, Role: "from"},
			{Type: osm.TypeWay, Ref: 998, Role: "from"}, // never ingested
			{Type: osm.TypeWay, Ref: 2, Role: "to"},
			{Type: osm.TypeNode, Ref: 2, Role: "via"},
		},
	}
	if err := reg.IngestRelation(rel, idx); err != nil {
		t.Fatalf("IngestRelation() error = %v", err)
	}

	net, err := Normalize(reg, nil)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(net.Restrictions) != 1 {
		t.Fatalf("Restrictions = %v, want 1 (surviving from-way keeps the restriction)", net.Restrictions)
	}
	if got := net.Restrictions[0].FromWays; len(got) != 1 || got[0] != 1 {
		t.Errorf("FromWays = %v, want [1] (dead id 998 filtered out)", got)
	}
}

func TestNormalizeDropsSelfIntersectingNoUTurn(t *testing.T) {
	idx := loadTestIndex(t)
	reg := registry.New(nil)

	if err := reg.IngestWay(residentialWay(1, 1, 2), idx); err != nil {
		t.Fatalf("IngestWay(1) error = %v", err)
	}

	rel := &osm.Relation{
		ID:   51,
		Tags: osm.Tags{{Key: "type", Value: "restriction"}, {Key: "restriction", Value: "no_u_turn"}},
		Members: []osm.Member{
			{Type: osm.TypeWay, Ref: 1, Role: "from"},
			{Type: osm.TypeWay, Ref: 1, Role: "to"},
			{Type: osm.TypeNode, Ref: 2, Role: "via"},
		},
	}
	if err := reg.IngestRelation(rel, idx); err != nil {
		t.Fatalf("IngestRelation() error = %v", err)
	}

	net, err := Normalize(reg, nil)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(net.Restrictions) != 0 {
		t.Errorf("Restrictions = %v, want empty (from/to ways intersect on a no_u_turn)", net.Restrictions)
	}
}

func TestNormalizeDropsBarrierOnUnreferencedNode(t *testing.T) {
	idx := loadTestIndex(t)
	reg := registry.New(nil)

	if err := reg.IngestWay(residentialWay(1, 1, 2), idx); err != nil {
		t.Fatalf("IngestWay(1) error = %v", err)
	}
	n := &osm.Node{ID: 99, Tags: osm.Tags{{Key: "barrier", Value: "bollard"}}}
	if err := reg.IngestBarrierNode(n, idx); err != nil {
		t.Fatalf("IngestBarrierNode() error = %v", err)
	}

	net, err := Normalize(reg, nil)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(net.Barriers) != 0 {
		t.Errorf("Barriers = %v, want empty (node 99 touched by no surviving way)", net.Barriers)
	}
}

func TestNormalizeIsDeterministicAcrossRuns(t *testing.T) {
	idx := loadTestIndex(t)

	build := func() *Network {
		reg := registry.New(nil)
		for id := int64(1); id <= 20; id++ {
			if err := reg.IngestWay(residentialWay(id, id, id+100), idx); err != nil {
				t.Fatalf("IngestWay(%d) error = %v", id, err)
			}
		}
		net, err := Normalize(reg, nil)
		if err != nil {
			t.Fatalf("Normalize() error = %v", err)
		}
		return net
	}

	a := build()
	b := build()
	if len(a.Segments) != len(b.Segments) {
		t.Fatalf("segment counts differ: %d vs %d", len(a.Segments), len(b.Segments))
	}
	for i := range a.Segments {
		if a.Segments[i].ID != b.Segments[i].ID || a.Segments[i].Way != b.Segments[i].Way {
			t.Errorf("segment %d differs across runs: (%d,%d) vs (%d,%d)",
				i, a.Segments[i].ID, a.Segments[i].Way, b.Segments[i].ID, b.Segments[i].Way)
		}
	}
}
