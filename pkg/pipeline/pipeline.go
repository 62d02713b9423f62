// Package pipeline orchestrates the two-pass scan, normalization,
// restriction resolution, and sink writes that make up a full run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/osm"

	osmsource "osm2routing/pkg/osm"
	"osm2routing/pkg/config"
	"osm2routing/pkg/geo"
	"osm2routing/pkg/normalizer"
	"osm2routing/pkg/registry"
	"osm2routing/pkg/restriction"
	"osm2routing/pkg/sink"
	"osm2routing/pkg/tagindex"
)

// Options configures a single pipeline run.
type Options struct {
	InputPath       string
	ConfDir         string
	Sink            sink.Sink
	LengthEPSGCode  string
	Logger          *slog.Logger
}

// Run executes the full ingestion: pass 1 (ways/relations/barriers),
// normalization, pass 2 (coordinates), restriction resolution, and
// sink writes, finishing with a topology rebuild.
func Run(ctx context.Context, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cfg, err := config.Load(opts.ConfDir)
	if err != nil {
		return fmt.Errorf("pipeline: load config: %w", err)
	}
	idx := tagindex.New(cfg)

	f, err := os.Open(opts.InputPath)
	if err != nil {
		return fmt.Errorf("pipeline: open input: %w", err)
	}
	defer f.Close()

	reg := registry.New(logger)
	if err := pass1(ctx, f, opts.InputPath, reg, idx, logger); err != nil {
		return err
	}

	network, err := normalizer.Normalize(reg, logger)
	if err != nil {
		return fmt.Errorf("pipeline: normalize: %w", err)
	}
	logger.Info("normalization complete", "segments", len(network.Segments),
		"restrictions", len(network.Restrictions), "barriers", len(network.Barriers))

	if err := osmsource.Rewind(f); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if err := pass2(ctx, f, opts.InputPath, reg, logger); err != nil {
		return err
	}

	resolved, err := restriction.Resolve(reg, network, logger)
	if err != nil {
		return fmt.Errorf("pipeline: resolve restrictions: %w", err)
	}
	logger.Info("restriction resolution complete", "proper_restrictions", len(resolved))

	if err := writeNodes(ctx, reg, opts.Sink); err != nil {
		return err
	}
	if err := writeWays(ctx, reg, network, opts.Sink, logger); err != nil {
		return err
	}
	if err := writeRestrictions(ctx, reg, resolved, opts.Sink); err != nil {
		return err
	}

	epsg := opts.LengthEPSGCode
	if epsg == "" {
		epsg = "3844"
	}
	if err := opts.Sink.RebuildTopology(ctx, epsg); err != nil {
		return fmt.Errorf("pipeline: rebuild topology: %w", err)
	}

	return nil
}

func pass1(ctx context.Context, f *os.File, path string, reg *registry.Registry, idx *tagindex.Index, logger *slog.Logger) error {
	scanner, err := osmsource.Open(ctx, path, f)
	if err != nil {
		return fmt.Errorf("pipeline: pass 1: %w", err)
	}
	osmsource.ConfigurePass1(scanner)

	var ways, relations, barriers int
	for scanner.Scan() {
		switch v := scanner.Object().(type) {
		case *osm.Way:
			if err := reg.IngestWay(v, idx); err != nil {
				return fmt.Errorf("pipeline: pass 1 way %d: %w", v.ID, err)
			}
			ways++
		case *osm.Relation:
			if err := reg.IngestRelation(v, idx); err != nil {
				return fmt.Errorf("pipeline: pass 1 relation %d: %w", v.ID, err)
			}
			relations++
		case *osm.Node:
			if err := reg.IngestBarrierNode(v, idx); err != nil {
				return fmt.Errorf("pipeline: pass 1 node %d: %w", v.ID, err)
			}
			barriers++
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return fmt.Errorf("pipeline: pass 1 scan: %w", err)
	}
	scanner.Close()

	logger.Info("pass 1 complete", "ways_seen", ways, "relations_seen", relations, "nodes_seen", barriers)
	return nil
}

func pass2(ctx context.Context, f *os.File, path string, reg *registry.Registry, logger *slog.Logger) error {
	scanner, err := osmsource.Open(ctx, path, f)
	if err != nil {
		return fmt.Errorf("pipeline: pass 2: %w", err)
	}
	osmsource.ConfigurePass2(scanner)

	referenced := reg.ReferencedNodes()
	found := 0
	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, needed := referenced[n.ID]; !needed {
			continue
		}
		reg.SetNodeCoord(n.ID, n.Lon, n.Lat)
		found++
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return fmt.Errorf("pipeline: pass 2 scan: %w", err)
	}
	scanner.Close()

	logger.Info("pass 2 complete", "coordinates_found", found, "coordinates_needed", len(referenced))
	return nil
}

func writeNodes(ctx context.Context, reg *registry.Registry, s sink.Sink) error {
	var rows []sink.NodeRow
	for id := range reg.ReferencedNodes() {
		p, ok := reg.Coord(id)
		if !ok {
			continue
		}
		rows = append(rows, sink.NodeRow{OSMID: int64(id), Lon: p.Lon, Lat: p.Lat})
	}
	if err := s.WriteNodes(ctx, rows); err != nil {
		return fmt.Errorf("pipeline: write nodes: %w", err)
	}
	return nil
}

func writeWays(ctx context.Context, reg *registry.Registry, network *normalizer.Network, s sink.Sink, logger *slog.Logger) error {
	var wayRows []sink.WayRow
	var propRows []sink.WayPropertyRow

	for _, seg := range network.Segments {
		geom, err := segmentLineString(reg, seg)
		if err != nil {
			return fmt.Errorf("pipeline: segment %d geometry: %w", seg.ID, err)
		}
		if length := lineStringLength(geom); length == 0 && len(geom) > 1 {
			logger.Warn("segment geometry has zero great-circle length, likely coincident nodes",
				"segment_id", seg.ID, "way_id", seg.Way)
		}
		wayRows = append(wayRows, sink.WayRow{
			SegmentID:        seg.ID,
			FromOSMID:        int64(seg.Head),
			ToOSMID:          int64(seg.Tail),
			MaxspeedForward:  seg.SpeedForwardKMH,
			MaxspeedBackward: seg.SpeedBackwardKMH,
			Oneway:           onewayCode(seg.Forward, seg.Backward),
			OSMID:            int64(seg.Way),
			SegmentIndex:     seg.Index,
			GeomWKT:          wkt.MarshalString(geom),
		})
	}

	seenWay := make(map[osm.WayID]bool)
	for _, seg := range network.Segments {
		if seenWay[seg.Way] {
			continue
		}
		seenWay[seg.Way] = true
		way, ok := reg.Way(seg.Way)
		if !ok {
			continue
		}
		for k, v := range way.Tags {
			propRows = append(propRows, sink.WayPropertyRow{WayOSMID: int64(seg.Way), Key: k, Value: v})
		}
	}

	if err := s.WriteWays(ctx, wayRows); err != nil {
		return fmt.Errorf("pipeline: write ways: %w", err)
	}
	if err := s.WriteWayProperties(ctx, propRows); err != nil {
		return fmt.Errorf("pipeline: write way properties: %w", err)
	}
	return nil
}

func writeRestrictions(ctx context.Context, reg *registry.Registry, resolved []restriction.ProperRestriction, s sink.Sink) error {
	var rows []sink.RestrictionRow
	for _, pr := range resolved {
		var geomWKT string
		if p, ok := reg.Coord(pr.ViaNode); ok {
			geomWKT = wkt.MarshalString(orb.Point{p.Lon, p.Lat})
		}
		rows = append(rows, sink.RestrictionRow{
			FromSegmentID:    pr.FromSegment,
			ToSegmentID:      pr.ToSegment,
			ViaNodeOSMID:     int64(pr.ViaNode),
			RestrictionOSMID: pr.Parent,
			Cost:             pr.Cost,
			GeomPointWKT:     geomWKT,
		})
	}
	if err := s.WriteRestrictions(ctx, rows); err != nil {
		return fmt.Errorf("pipeline: write restrictions: %w", err)
	}
	return nil
}

func segmentLineString(reg *registry.Registry, seg *registry.Segment) (orb.LineString, error) {
	nodes := seg.Nodes()
	line := make(orb.LineString, 0, len(nodes))
	for _, id := range nodes {
		p, ok := reg.Coord(id)
		if !ok {
			return nil, fmt.Errorf("missing coordinate for node %d", id)
		}
		line = append(line, orb.Point{p.Lon, p.Lat})
	}
	return line, nil
}

// lineStringLength sums the great-circle distance between consecutive
// points, a cheap Go-side sanity check ahead of the sink's own
// ST_Length(ST_Transform(...)) pass over the committed geometry.
func lineStringLength(line orb.LineString) float64 {
	var total float64
	for i := 1; i < len(line); i++ {
		total += geo.Haversine(line[i-1][1], line[i-1][0], line[i][1], line[i][0])
	}
	return total
}

func onewayCode(forward, backward bool) string {
	switch {
	case forward && !backward:
		return "FT"
	case backward && !forward:
		return "TF"
	default:
		return "NO"
	}
}
