package registry

import (
	"errors"
	"fmt"

	"github.com/paulmach/osm"

	"osm2routing/pkg/profiler"
)

// ErrWayAlreadySplit is returned when AddNodePlaceholder or
// SplitAtNodePlaceholders is called on a way that has already been
// split into segments — a way is split exactly once.
var ErrWayAlreadySplit = errors.New("registry: way already split")

// Way is a routable way as recorded by pass 1, before normalization
// has split it into segments at junction nodes.
type Way struct {
	ID      osm.WayID
	Nodes   []osm.NodeID
	Profile profiler.WayProfile
	Tags    map[string]string

	split    bool
	segments []*Segment
}

// NewWay records a profiled way's node sequence and useful tags.
func NewWay(id osm.WayID, nodes []osm.NodeID, profile profiler.WayProfile, tags map[string]string) *Way {
	return &Way{ID: id, Nodes: nodes, Profile: profile, Tags: tags}
}

// AddNodePlaceholder appends node to the way's node sequence, mirroring
// the original's incremental node population. Once the way has been
// split it returns ErrWayAlreadySplit instead, the same way
// SplitAtNodePlaceholders does.
func (w *Way) AddNodePlaceholder(node osm.NodeID) error {
	if w.split {
		return fmt.Errorf("way %d: %w", w.ID, ErrWayAlreadySplit)
	}
	w.Nodes = append(w.Nodes, node)
	return nil
}

// Segment is a dense-id routing edge: the portion of a way between two
// junction nodes (or a way's sole segment, if it has none interior).
type Segment struct {
	ID       int64
	Way      osm.WayID
	Index    int // position within the way's segment sequence
	Head     osm.NodeID
	Tail     osm.NodeID
	Interior []osm.NodeID // non-junction nodes strictly between Head and Tail

	Forward          bool
	Backward         bool
	SpeedForwardKMH  float64
	SpeedBackwardKMH float64
}

// Nodes returns the full node sequence of the segment, head through
// tail inclusive, in way traversal order.
func (s *Segment) Nodes() []osm.NodeID {
	out := make([]osm.NodeID, 0, len(s.Interior)+2)
	out = append(out, s.Head)
	out = append(out, s.Interior...)
	out = append(out, s.Tail)
	return out
}

// SplitAtNodePlaceholders splits the way into segments at every node
// that isJunction reports true for (plus the way's own endpoints),
// assigning each segment a dense id from nextID. Returns
// ErrWayAlreadySplit if called twice on the same way.
func (w *Way) SplitAtNodePlaceholders(isJunction func(osm.NodeID) bool, nextID func() int64) ([]*Segment, error) {
	if w.split {
		return nil, fmt.Errorf("way %d: %w", w.ID, ErrWayAlreadySplit)
	}
	if len(w.Nodes) < 2 {
		return nil, fmt.Errorf("way %d: fewer than two nodes, cannot split", w.ID)
	}

	var segments []*Segment
	head := 0
	index := 0
	for i := 1; i < len(w.Nodes); i++ {
		last := i == len(w.Nodes)-1
		if !last && !isJunction(w.Nodes[i]) {
			continue
		}
		seg := &Segment{
			ID:               nextID(),
			Way:              w.ID,
			Index:            index,
			Head:             w.Nodes[head],
			Tail:             w.Nodes[i],
			Interior:         append([]osm.NodeID(nil), w.Nodes[head+1:i]...),
			Forward:          w.Profile.Forward,
			Backward:         w.Profile.Backward,
			SpeedForwardKMH:  w.Profile.SpeedForwardKMH,
			SpeedBackwardKMH: w.Profile.SpeedBackwardKMH,
		}
		segments = append(segments, seg)
		index++
		head = i
	}

	w.split = true
	w.segments = segments
	return segments, nil
}

// Segments returns the segments produced by SplitAtNodePlaceholders, or
// nil if the way hasn't been split yet.
func (w *Way) Segments() []*Segment {
	return w.segments
}

// IsSplit reports whether the way has already been split.
func (w *Way) IsSplit() bool {
	return w.split
}
