// Package osm opens an OSM extract (XML or PBF, auto-detected by file
// extension) as a github.com/paulmach/osm object stream, and drives
// the two-pass scan the registry needs: pass 1 over ways/relations/
// nodes, pass 2 over referenced node coordinates only.
package osm

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
)

// DefaultPBFParallelism is the number of goroutines Open lets osmpbf
// use to decode blocks concurrently. It is a fixed constant of 1, the
// teacher's conservative value.
const DefaultPBFParallelism = 1

// Open returns an osm.Scanner over rs, chosen by path's extension:
// ".pbf" selects osmpbf, anything else (".osm", ".xml") selects the
// streaming XML decoder. rs must support Seek so the driver can rewind
// for pass 2.
func Open(ctx context.Context, path string, rs io.ReadSeeker) (osm.Scanner, error) {
	if IsPBF(path) {
		scanner := osmpbf.New(ctx, rs, DefaultPBFParallelism)
		return scanner, nil
	}

	scanner, err := osmxml.New(ctx, rs)
	if err != nil {
		return nil, fmt.Errorf("osm: open xml scanner: %w", err)
	}
	return scanner, nil
}

// IsPBF reports whether path's extension indicates PBF encoding.
func IsPBF(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".pbf")
}

// Seeker is a source that can be rewound to its start for a second
// pass. Pass-specific skip behavior is set by ConfigurePass1 and
// ConfigurePass2, not through this interface.
type Seeker interface {
	Rewind() error
}

// ConfigurePass1 tells a PBF scanner to skip nothing it might need:
// pass 1 wants ways, relations, and barrier-carrying nodes, so nothing
// is skipped. Kept as a named hook so the driver's intent is explicit
// even though, unlike the teacher's car-only parser, our pass 1 reads
// every primitive type.
func ConfigurePass1(scanner osm.Scanner) {
	if s, ok := scanner.(*osmpbf.Scanner); ok {
		s.SkipNodes = false
		s.SkipWays = false
		s.SkipRelations = false
	}
}

// ConfigurePass2 tells a PBF scanner to skip ways and relations,
// since pass 2 only needs node coordinates.
func ConfigurePass2(scanner osm.Scanner) {
	if s, ok := scanner.(*osmpbf.Scanner); ok {
		s.SkipWays = true
		s.SkipRelations = true
	}
}

// Rewind seeks rs back to the start for a second pass over the same
// extract.
func Rewind(rs io.ReadSeeker) error {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("osm: rewind: %w", err)
	}
	return nil
}

// LogScanSummary emits a terse, structured progress line, matching the
// teacher's step-numbered log.Printf register but upgraded to
// log/slog fields.
func LogScanSummary(logger *slog.Logger, pass string, counts map[string]int) {
	args := make([]any, 0, len(counts)*2)
	for k, v := range counts {
		args = append(args, k, v)
	}
	logger.Info("scan pass complete", append([]any{"pass", pass}, args...)...)
}
