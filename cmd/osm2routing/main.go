// Command osm2routing ingests an OSM extract and loads it into a
// PostgreSQL/PostGIS/pgRouting database as a routable road network.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"osm2routing/pkg/config"
	"osm2routing/pkg/pipeline"
	"osm2routing/pkg/sink"
)

func main() {
	file := flag.String("file", "", "Path to an OSM extract (.osm, .xml, or .osm.pbf)")
	connectionString := flag.String("connection-string", "", "PostgreSQL DSN (overrides --config)")
	connConfig := flag.String("config", "", "Path to a YAML connection config file")
	confDir := flag.String("conf-dir", "conf", "Path to the tag-index config tree")
	clean := flag.Bool("clean", false, "Drop and recreate the public schema before loading")
	prefixTables := flag.String("prefix-tables", "", "Prefix applied to every output table name")
	lengthProjection := flag.String("length-projection", "3844", "EPSG code used to compute projected segment lengths")
	useImposm := flag.Bool("use-imposm", false, "Deprecated: accepted for CLI compatibility, always a no-op")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *file == "" {
		fmt.Fprintln(os.Stderr, "Usage: osm2routing --file <extract> [--connection-string <dsn> | --config <file.yaml>] [--clean] [--prefix-tables p_] [--length-projection 3844]")
		os.Exit(1)
	}
	if *useImposm {
		logger.Warn("--use-imposm is deprecated and has no effect: the parser always streams")
	}

	dsn, err := resolveDSN(*connectionString, *connConfig)
	if err != nil {
		logger.Error("resolving connection", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	start := time.Now()
	db, err := sink.Open(ctx, dsn, *prefixTables, *clean)
	if err != nil {
		logger.Error("opening sink", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	err = pipeline.Run(ctx, pipeline.Options{
		InputPath:      *file,
		ConfDir:        *confDir,
		Sink:           db,
		LengthEPSGCode: *lengthProjection,
		Logger:         logger,
	})
	if err != nil {
		logger.Error("pipeline run failed", "error", err)
		os.Exit(1)
	}

	logger.Info("run complete", "elapsed", time.Since(start).String())
}

func resolveDSN(connectionString, connConfigPath string) (string, error) {
	if connectionString != "" {
		return connectionString, nil
	}
	if connConfigPath == "" {
		return "", fmt.Errorf("one of --connection-string or --config is required")
	}
	conn, err := config.LoadConnection(connConfigPath)
	if err != nil {
		return "", err
	}
	return conn.DSN(), nil
}
