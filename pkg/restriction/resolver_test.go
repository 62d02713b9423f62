package restriction

import (
	"testing"

	"github.com/paulmach/osm"

	"osm2routing/pkg/config"
	"osm2routing/pkg/normalizer"
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

func residentialWay(id int64, nodes ...int64) *osm.Way {
	wayNodes := make(osm.WayNodes, len(nodes))
	for i, n := range nodes {
		wayNodes[i] = osm.WayNode{ID: osm.NodeID(n)}
	}
	return &osm.Way{
		ID:    osm.WayID(id),
		Nodes: wayNodes,
		Tags:  osm.Tags{{Key: "highway", Value: "residential"}},
	}
}

// buildStarNetwork sets up four residential ways meeting at node 2:
// way 1 (nodes 1,2), way 2 (nodes 2,3), way 3 (nodes 2,4), way 4
// (nodes 2,5) — node 2 has multiplicity 4, so each way yields exactly
// one segment whose far endpoint is the junction.
func buildStarNetwork(t *testing.T) (*registry.Registry, *tagindex.Index) {
	t.Helper()
	idx := loadTestIndex(t)
	reg := registry.New(nil)

	ways := []*osm.Way{
		residentialWay(1, 1, 2),
		residentialWay(2, 2, 3),
		residentialWay(3, 2, 4),
		residentialWay(4, 2, 5),
	}
	for _, w := range ways {
		if err := reg.IngestWay(w, idx); err != nil {
			t.Fatalf("IngestWay(%d) error = %v", w.ID, err)
		}
	}
	for _, n := range []int64{1, 2, 3, 4, 5} {
		reg.SetNodeCoord(osm.NodeID(n), float64(n)*0.001, float64(n)*0.001)
	}
	return reg, idx
}

func segmentIDForWay(net *normalizer.Network, wayID osm.WayID) int64 {
	for _, seg := range net.Segments {
		if seg.Way == wayID {
			return seg.ID
		}
	}
	return -1
}

func TestResolveRelationNoLeftTurn(t *testing.T) {
	reg, idx := buildStarNetwork(t)

	rel := &osm.Relation{
		ID:   100,
		Tags: osm.Tags{{Key: "type", Value: "restriction"}, {Key: "restriction", Value: "no_left_turn"}},
		Members: []osm.Member{
			{Type: osm.TypeWay, Ref: 1, Role: "from"},
			{Type: osm.TypeWay, Ref: 2, Role: "to"},
			{Type: osm.TypeNode, Ref: 2, Role: "via"},
		},
	}
	if err := reg.IngestRelation(rel, idx); err != nil {
		t.Fatalf("IngestRelation() error = %v", err)
	}

	net, err := normalizer.Normalize(reg, nil)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	out, err := Resolve(reg, net, nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	fromSeg := segmentIDForWay(net, 1)
	toSeg := segmentIDForWay(net, 2)

	var found *ProperRestriction
	for i := range out {
		if out[i].FromSegment == fromSeg && out[i].ToSegment == toSeg {
			found = &out[i]
		}
	}
	if found == nil {
		t.Fatalf("Resolve() did not produce a restriction from segment %d to %d; got %+v", fromSeg, toSeg, out)
	}
	if found.Type != "no_left_turn" {
		t.Errorf("Type = %q, want no_left_turn", found.Type)
	}
	if found.ViaNode != 2 {
		t.Errorf("ViaNode = %d, want 2", found.ViaNode)
	}
}

func TestResolveOnlyStraightOnExpansion(t *testing.T) {
	reg, idx := buildStarNetwork(t)

	rel := &osm.Relation{
		ID:   200,
		Tags: osm.Tags{{Key: "type", Value: "restriction"}, {Key: "restriction", Value: "only_straight_on"}},
		Members: []osm.Member{
			{Type: osm.TypeWay, Ref: 1, Role: "from"},
			{Type: osm.TypeWay, Ref: 2, Role: "to"},
			{Type: osm.TypeNode, Ref: 2, Role: "via"},
		},
	}
	if err := reg.IngestRelation(rel, idx); err != nil {
		t.Fatalf("IngestRelation() error = %v", err)
	}

	net, err := normalizer.Normalize(reg, nil)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	out, err := Resolve(reg, net, nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	fromSeg := segmentIDForWay(net, 1)
	onlySeg := segmentIDForWay(net, 2)
	blockedSegs := map[int64]bool{
		segmentIDForWay(net, 3): false,
		segmentIDForWay(net, 4): false,
	}

	for _, r := range out {
		if r.FromSegment != fromSeg || r.ViaNode != 2 {
			continue
		}
		if r.ToSegment == onlySeg {
			t.Errorf("only_straight_on target segment %d must not appear as a synthetic no_* row", onlySeg)
		}
		if r.ToSegment == fromSeg {
			t.Errorf("from segment %d must never be its own restriction target", fromSeg)
		}
		if _, want := blockedSegs[r.ToSegment]; want {
			blockedSegs[r.ToSegment] = true
			if r.Type != "no_straight_on" {
				t.Errorf("synthetic restriction type = %q, want no_straight_on", r.Type)
			}
		}
	}
	for seg, seen := range blockedSegs {
		if !seen {
			t.Errorf("expected a synthetic no_straight_on row blocking segment %d, none found", seg)
		}
	}
}

// TestResolveRelationNoViaNodeMatchesInteriorJunction builds way 1 as
// 1-2-3-4 with a spur way touching node 2, forcing way 1 to split
// into segments [1,2] and [2,3,4]. A restriction naming way 1 as from
// and the spur as to, with no explicit via-node, can only be matched
// at node 2 — the interior junction, not either of way 1's raw
// endpoints (1 or 4).
func TestResolveRelationNoViaNodeMatchesInteriorJunction(t *testing.T) {
	idx := loadTestIndex(t)
	reg := registry.New(nil)

	if err := reg.IngestWay(residentialWay(1, 1, 2, 3, 4), idx); err != nil {
		t.Fatalf("IngestWay(1) error = %v", err)
	}
	if err := reg.IngestWay(residentialWay(2, 2, 5), idx); err != nil {
		t.Fatalf("IngestWay(2) error = %v", err)
	}
	for _, n := range []int64{1, 2, 3, 4, 5} {
		reg.SetNodeCoord(osm.NodeID(n), float64(n)*0.001, float64(n)*0.001)
	}

	rel := &osm.Relation{
		ID:   300,
		Tags: osm.Tags{{Key: "type", Value: "restriction"}, {Key: "restriction", Value: "no_left_turn"}},
		Members: []osm.Member{
			{Type: osm.TypeWay, Ref: 1, Role: "from"},
			{Type: osm.TypeWay, Ref: 2, Role: "to"},
		},
	}
	if err := reg.IngestRelation(rel, idx); err != nil {
		t.Fatalf("IngestRelation() error = %v", err)
	}

	net, err := normalizer.Normalize(reg, nil)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	out, err := Resolve(reg, net, nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	var found *ProperRestriction
	for i := range out {
		if out[i].Parent == "relation/300" {
			found = &out[i]
		}
	}
	if found == nil {
		t.Fatalf("Resolve() produced no restriction for relation 300; got %+v", out)
	}
	if found.ViaNode != 2 {
		t.Errorf("ViaNode = %d, want 2 (interior junction, not way 1's raw endpoint)", found.ViaNode)
	}
}

func TestResolveBarrierPairsEverySegmentExceptSelf(t *testing.T) {
	idx := loadTestIndex(t)
	reg := registry.New(nil)

	ways := []*osm.Way{
		residentialWay(1, 1, 2),
		residentialWay(2, 2, 3),
		residentialWay(3, 2, 4),
	}
	for _, w := range ways {
		if err := reg.IngestWay(w, idx); err != nil {
			t.Fatalf("IngestWay(%d) error = %v", w.ID, err)
		}
	}
	for _, n := range []int64{1, 2, 3, 4} {
		reg.SetNodeCoord(osm.NodeID(n), float64(n)*0.001, float64(n)*0.001)
	}

	node := &osm.Node{ID: 2, Tags: osm.Tags{{Key: "barrier", Value: "bollard"}}}
	if err := reg.IngestBarrierNode(node, idx); err != nil {
		t.Fatalf("IngestBarrierNode() error = %v", err)
	}

	net, err := normalizer.Normalize(reg, nil)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	out, err := Resolve(reg, net, nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	segs := []int64{
		segmentIDForWay(net, 1),
		segmentIDForWay(net, 2),
		segmentIDForWay(net, 3),
	}

	pairs := make(map[[2]int64]ProperRestriction)
	for _, r := range out {
		if r.Type != "barrier" {
			continue
		}
		pairs[[2]int64{r.FromSegment, r.ToSegment}] = r
	}

	for _, i := range segs {
		for _, j := range segs {
			if i == j {
				if _, ok := pairs[[2]int64{i, j}]; ok {
					t.Errorf("barrier resolution produced a self-pair (%d, %d)", i, j)
				}
				continue
			}
			r, ok := pairs[[2]int64{i, j}]
			if !ok {
				t.Errorf("missing barrier restriction (%d, %d)", i, j)
				continue
			}
			if !r.HasCost {
				t.Errorf("barrier restriction (%d, %d) has no cost set", i, j)
			}
		}
	}
}
