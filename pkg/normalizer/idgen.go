// Package normalizer promotes junction nodes, splits ways into dense
// segments, and rewrites/revalidates restriction way references,
// sealing the registry once it's done.
package normalizer

// IDGenerator is a single-producer monotonic counter handing out dense
// segment ids in strict creation order. It is not safe for concurrent
// use — normalization is single-threaded by design (spec.md §5).
type IDGenerator struct {
	next int64
}

// Next returns the next dense id, starting at 0.
func (g *IDGenerator) Next() int64 {
	id := g.next
	g.next++
	return id
}
