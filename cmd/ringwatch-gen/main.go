// ringwatch-gen writes a deterministic synthetic event log for exercising
// the analyzer: farm clusters, organic background and a churn burst.
package main

import (
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/ringwatch/ringwatch/internal/gen"
	"github.com/ringwatch/ringwatch/internal/ingest"
	"github.com/ringwatch/ringwatch/internal/logging"
)

func main() {
	var (
		outputPath   = flag.String("output", "events.csv", "output file (.csv or .json)")
		format       = flag.String("format", "csv", "output format: csv|json")
		seed         = flag.Int64("seed", 42, "random seed")
		start        = flag.String("start", "2024-03-01T00:00:00Z", "dataset start instant (RFC3339)")
		farmClusters = flag.Int("farm-clusters", 2, "number of Sybil farm clusters")
		farmSize     = flag.Int("farm-size", 12, "members per farm cluster")
		organic      = flag.Int("organic", 800, "organic background events")
		noBurst      = flag.Bool("no-burst", false, "skip the coordinated unfollow burst")
	)
	flag.Parse()

	logger := logging.NewLogger("info", "text", "ringwatch-gen")

	opts := gen.Default()
	opts.Seed = *seed
	opts.FarmClusters = *farmClusters
	opts.FarmSize = *farmSize
	opts.OrganicEvents = *organic
	opts.Burst = !*noBurst
	if t, err := time.Parse(time.RFC3339, *start); err == nil {
		opts.Start = t.UTC()
	} else {
		logger.Fatal().Err(err).Str("start", *start).Msg("invalid start instant")
	}

	events := gen.Generate(opts)
	logger.Info().Int("events", len(events)).Msg("dataset generated")

	f, err := os.Create(*outputPath)
	if err != nil {
		logger.Fatal().Err(err).Str("output", *outputPath).Msg("failed to create output file")
	}
	defer f.Close()

	switch *format {
	case "json":
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		err = enc.Encode(events)
	default:
		err = ingest.WriteCSV(f, events)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to write dataset")
	}
	logger.Info().Str("output", *outputPath).Msg("dataset written")
}
