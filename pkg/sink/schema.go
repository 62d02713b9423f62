package sink

import "fmt"

// ddlStatements returns the CREATE EXTENSION/TABLE/INDEX statements for
// a fresh schema, table-prefixed per the --prefix-tables flag. Mirrors
// the original DbWriter._create_*_table methods.
func ddlStatements(prefix string) []string {
	nodes := prefix + "nodes"
	ways := prefix + "ways"
	props := prefix + "way_properties"
	restrictions := prefix + "restrictions"

	return []string{
		`CREATE EXTENSION IF NOT EXISTS postgis`,
		`CREATE EXTENSION IF NOT EXISTS pgrouting`,

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			osm_id BIGINT PRIMARY KEY,
			lon DOUBLE PRECISION NOT NULL,
			lat DOUBLE PRECISION NOT NULL,
			geom GEOMETRY(Point, 4326)
		)`, nodes),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_geom_idx ON %s USING GIST (geom)`, nodes, nodes),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			segment_id BIGINT PRIMARY KEY,
			from_osm_id BIGINT NOT NULL,
			to_osm_id BIGINT NOT NULL,
			maxspeed_forward DOUBLE PRECISION NOT NULL,
			maxspeed_backward DOUBLE PRECISION NOT NULL,
			oneway TEXT NOT NULL,
			osm_id BIGINT NOT NULL,
			segment_index INTEGER NOT NULL,
			geom GEOMETRY(LineString, 4326),
			projected_length DOUBLE PRECISION,
			f_cost DOUBLE PRECISION,
			r_cost DOUBLE PRECISION,
			source BIGINT,
			target BIGINT
		)`, ways),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_geom_idx ON %s USING GIST (geom)`, ways, ways),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_osm_id_idx ON %s (osm_id)`, ways, ways),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			way_osm_id BIGINT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL
		)`, props),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_way_osm_id_idx ON %s (way_osm_id)`, props, props),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			from_segment_id BIGINT NOT NULL,
			to_segment_id BIGINT NOT NULL,
			via_node_osm_id BIGINT NOT NULL,
			restriction_osm_id TEXT NOT NULL,
			cost DOUBLE PRECISION NOT NULL DEFAULT 0,
			geom GEOMETRY(Point, 4326)
		)`, restrictions),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_from_segment_idx ON %s (from_segment_id)`, restrictions, restrictions),
	}
}

// cleanStatements drops and recreates the public schema, matching the
// original's _clean_db behavior for a --clean run.
func cleanStatements() []string {
	return []string{
		`DROP SCHEMA public CASCADE`,
		`CREATE SCHEMA public`,
	}
}
