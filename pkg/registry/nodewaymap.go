// Package registry is the two-pass streaming accumulator: pass 1
// records ways, relation restrictions, and barrier nodes; pass 2 fills
// in coordinates for nodes referenced by surviving ways.
package registry

import (
	"sync"

	"github.com/paulmach/osm"
)

// NodeWayMap is an append-only, mutex-guarded multimap from node id to
// the ways that reference it. Multiple scanner callbacks may append
// concurrently during pass 1. Seal makes further appends panic,
// enforcing that no primitive is ingested once normalization starts.
type NodeWayMap struct {
	mu     sync.Mutex
	byNode map[osm.NodeID][]osm.WayID
	sealed bool
}

// NewNodeWayMap returns an empty map ready for concurrent appends.
func NewNodeWayMap() *NodeWayMap {
	return &NodeWayMap{byNode: make(map[osm.NodeID][]osm.WayID)}
}

// Append records that way references node. Panics if called after Seal.
func (m *NodeWayMap) Append(node osm.NodeID, way osm.WayID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sealed {
		panic("registry: NodeWayMap append after Seal")
	}
	m.byNode[node] = append(m.byNode[node], way)
}

// Seal freezes the map against further appends.
func (m *NodeWayMap) Seal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sealed = true
}

// Ways returns the ways referencing node, in append order.
func (m *NodeWayMap) Ways(node osm.NodeID) []osm.WayID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]osm.WayID(nil), m.byNode[node]...)
}

// Multiplicity returns how many way references node has; a way that
// references node more than once counts once per reference.
func (m *NodeWayMap) Multiplicity(node osm.NodeID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byNode[node])
}

// IsJunction reports whether node is referenced by more than one way,
// or by the same way more than once (an interior self-crossing also
// forces a split point).
func (m *NodeWayMap) IsJunction(node osm.NodeID) bool {
	return m.Multiplicity(node) > 1
}

// Nodes returns every node id recorded, in no particular order.
// Registry.ReferencedNodes uses it to build the pass-2 fetch set.
func (m *NodeWayMap) Nodes() []osm.NodeID {
	m.mu.Lock()
	defer m.mu.Unlock()
	nodes := make([]osm.NodeID, 0, len(m.byNode))
	for n := range m.byNode {
		nodes = append(nodes, n)
	}
	return nodes
}
