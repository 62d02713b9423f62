package sink

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// batchSize mirrors CachedWriter's cache_entries=200 default: rows are
// buffered and flushed as one multi-row INSERT once the batch fills,
// rather than issuing one round trip per row.
const batchSize = 200

// Postgres is the PostGIS/pgRouting Sink implementation. Each Write*
// call issues one or more batched INSERTs inside its own transaction,
// matching the original CachedWriter/DbWriter's flush-at-boundary
// shape.
type Postgres struct {
	db     *sqlx.DB
	prefix string
}

// Open connects to dsn and, if clean is true, drops and recreates the
// public schema before laying down tables.
func Open(ctx context.Context, dsn, tablePrefix string, clean bool) (*Postgres, error) {
	if !isValidTablePrefix(tablePrefix) {
		return nil, fmt.Errorf("sink: invalid table prefix %q", tablePrefix)
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("sink: connect: %w", err)
	}

	p := &Postgres{db: db, prefix: tablePrefix}
	if clean {
		for _, stmt := range cleanStatements() {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				db.Close()
				return nil, fmt.Errorf("sink: clean schema: %w", err)
			}
		}
	}
	for _, stmt := range ddlStatements(tablePrefix) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("sink: init schema: %w", err)
		}
	}
	return p, nil
}

func (p *Postgres) WriteNodes(ctx context.Context, rows []NodeRow) error {
	table := p.prefix + "nodes"
	return batchInsert(ctx, p.db, rows, batchSize, func(tx *sqlx.Tx, batch []NodeRow) error {
		var sb strings.Builder
		args := make([]any, 0, len(batch)*3)
		fmt.Fprintf(&sb, `INSERT INTO %s (osm_id, lon, lat, geom) VALUES `, table)
		for i, r := range batch {
			if i > 0 {
				sb.WriteString(",")
			}
			base := i * 3
			fmt.Fprintf(&sb, "($%d, $%d, $%d, ST_SetSRID(ST_MakePoint($%d, $%d), 4326))",
				base+1, base+2, base+3, base+2, base+3)
			args = append(args, r.OSMID, r.Lon, r.Lat)
		}
		sb.WriteString(` ON CONFLICT (osm_id) DO NOTHING`)
		_, err := tx.ExecContext(ctx, sb.String(), args...)
		return err
	})
}

func (p *Postgres) WriteWays(ctx context.Context, rows []WayRow) error {
	table := p.prefix + "ways"
	return batchInsert(ctx, p.db, rows, batchSize, func(tx *sqlx.Tx, batch []WayRow) error {
		var sb strings.Builder
		args := make([]any, 0, len(batch)*9)
		fmt.Fprintf(&sb, `INSERT INTO %s (segment_id, from_osm_id, to_osm_id, maxspeed_forward,
			maxspeed_backward, oneway, osm_id, segment_index, geom) VALUES `, table)
		for i, r := range batch {
			if i > 0 {
				sb.WriteString(",")
			}
			base := i * 9
			fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, ST_GeomFromText($%d, 4326))",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9)
			args = append(args,
				r.SegmentID, r.FromOSMID, r.ToOSMID, r.MaxspeedForward,
				r.MaxspeedBackward, r.Oneway, r.OSMID, r.SegmentIndex, r.GeomWKT)
		}
		sb.WriteString(` ON CONFLICT (segment_id) DO NOTHING`)
		_, err := tx.ExecContext(ctx, sb.String(), args...)
		return err
	})
}

func (p *Postgres) WriteWayProperties(ctx context.Context, rows []WayPropertyRow) error {
	table := p.prefix + "way_properties"
	return batchInsert(ctx, p.db, rows, batchSize, func(tx *sqlx.Tx, batch []WayPropertyRow) error {
		var sb strings.Builder
		args := make([]any, 0, len(batch)*3)
		fmt.Fprintf(&sb, `INSERT INTO %s (way_osm_id, key, value) VALUES `, table)
		for i, r := range batch {
			if i > 0 {
				sb.WriteString(",")
			}
			base := i * 3
			fmt.Fprintf(&sb, "($%d, $%d, $%d)", base+1, base+2, base+3)
			args = append(args, r.WayOSMID, r.Key, r.Value)
		}
		_, err := tx.ExecContext(ctx, sb.String(), args...)
		return err
	})
}

func (p *Postgres) WriteRestrictions(ctx context.Context, rows []RestrictionRow) error {
	table := p.prefix + "restrictions"
	return batchInsert(ctx, p.db, rows, batchSize, func(tx *sqlx.Tx, batch []RestrictionRow) error {
		var sb strings.Builder
		args := make([]any, 0, len(batch)*6)
		fmt.Fprintf(&sb, `INSERT INTO %s (from_segment_id, to_segment_id, via_node_osm_id,
			restriction_osm_id, cost, geom) VALUES `, table)
		for i, r := range batch {
			if i > 0 {
				sb.WriteString(",")
			}
			base := i * 6
			fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, ST_GeomFromText($%d, 4326))",
				base+1, base+2, base+3, base+4, base+5, base+6)
			args = append(args, r.FromSegmentID, r.ToSegmentID, r.ViaNodeOSMID, r.RestrictionOSMID, r.Cost, r.GeomPointWKT)
		}
		_, err := tx.ExecContext(ctx, sb.String(), args...)
		return err
	})
}

// RebuildTopology recomputes projected lengths and per-direction
// traversal costs after reprojecting to epsgCode, then runs
// pgRouting's topology builder. Mirrors the original rebuild_topology.
func (p *Postgres) RebuildTopology(ctx context.Context, epsgCode string) error {
	if !isDigits(epsgCode) {
		return fmt.Errorf("sink: invalid EPSG code %q", epsgCode)
	}
	table := p.prefix + "ways"

	stmts := []string{
		fmt.Sprintf(`UPDATE %s SET projected_length = ST_Length(ST_Transform(geom, %s))`, table, epsgCode),
		fmt.Sprintf(`UPDATE %s SET f_cost = CASE WHEN oneway = 'TF' THEN -1
			ELSE projected_length / (maxspeed_forward * 1000.0 / 3600.0) END`, table),
		fmt.Sprintf(`UPDATE %s SET r_cost = CASE WHEN oneway = 'FT' THEN -1
			ELSE projected_length / (maxspeed_backward * 1000.0 / 3600.0) END`, table),
	}
	for _, stmt := range stmts {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sink: rebuild topology: %w", err)
		}
	}

	if _, err := p.db.ExecContext(ctx,
		`SELECT pgr_createTopology($1, 0.00001, 'geom', 'segment_id')`, table); err != nil {
		return fmt.Errorf("sink: pgr_createTopology: %w", err)
	}
	return nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

// isValidTablePrefix keeps the prefix to identifier-safe characters,
// since it's interpolated directly into DDL/DML statements rather than
// bound as a parameter (Postgres doesn't allow identifiers to be bind
// parameters).
func isValidTablePrefix(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

var _ Sink = (*Postgres)(nil)

// batchInsert splits rows into chunks of size n and runs each chunk's
// insert in its own transaction via insertFn, failing fast on the
// first error with no retry.
func batchInsert[T any](ctx context.Context, db *sqlx.DB, rows []T, n int, insertFn func(*sqlx.Tx, []T) error) error {
	for start := 0; start < len(rows); start += n {
		end := start + n
		if end > len(rows) {
			end = len(rows)
		}
		tx, err := db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("sink: begin batch: %w", err)
		}
		if err := insertFn(tx, rows[start:end]); err != nil {
			tx.Rollback()
			return fmt.Errorf("sink: insert batch: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("sink: commit batch: %w", err)
		}
	}
	return nil
}
