// Command genmock reads a USGS GeoJSON feed and generates the fixtures used by
// the pipeline and integration tests. It runs the real domain builder so the
// expected display rows match what the service would publish.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -feed data/usgs/all_week.geojson \
//	  -raw-out internal/pipeline/testdata/raw_earthquakes.json \
//	  -display-out internal/pipeline/testdata/display_rows.json \
//	  -time-zone UTC
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/quake-feed/internal/domain"
	"github.com/couchcryptid/quake-feed/internal/pipeline"
)

// processedAt is stamped on every generated display event so fixtures diff cleanly.
var processedAt = time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	feed := flag.String("feed", "", "path to a USGS GeoJSON FeatureCollection")
	rawOut := flag.String("raw-out", "", "output path for the parsed raw earthquake fixture")
	displayOut := flag.String("display-out", "", "output path for the expected display rows, keyed by ID")
	eventsOut := flag.String("events-out", "", "optional output path for full display events")
	tz := flag.String("time-zone", "UTC", "IANA zone used for date and time labels")
	match := flag.String("location-match", domain.MatchSubstring, "location matcher: substring or word")
	flag.Parse()

	if *feed == "" || *rawOut == "" || *displayOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -feed, -raw-out, -display-out")
	}

	opts := domain.DefaultOptions()
	opts.TimeZone = *tz
	opts.LocationMatch = *match
	builder, err := domain.NewBuilder(opts)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(*feed)
	if err != nil {
		return fmt.Errorf("read feed: %w", err)
	}
	quakes, failed, err := domain.ParseFeatureCollection(data)
	if err != nil {
		return err
	}
	for i, ferr := range failed {
		log.Printf("skipping feature %d: %v", i, ferr)
	}

	transformer := pipeline.NewTransformer(builder, clockwork.NewFakeClockAt(processedAt), sharedobs.NewLogger("warn", "text"))

	rows, events, rejected, err := buildRows(transformer, quakes)
	if err != nil {
		return err
	}

	log.Printf("parsed %d features, %d rows built, %d features skipped (%d unparseable, %d rejected by builder)",
		len(quakes)+len(failed), len(rows), len(failed)+rejected, len(failed), rejected)

	if err := writeJSON(*rawOut, quakes); err != nil {
		return fmt.Errorf("writing raw fixture: %w", err)
	}
	log.Printf("wrote raw fixture: %s", *rawOut)

	if err := writeJSON(*displayOut, rows); err != nil {
		return fmt.Errorf("writing display fixture: %w", err)
	}
	log.Printf("wrote display fixture: %s", *displayOut)

	if *eventsOut != "" {
		if err := writeJSON(*eventsOut, events); err != nil {
			return fmt.Errorf("writing events fixture: %w", err)
		}
		log.Printf("wrote events fixture: %s", *eventsOut)
	}

	printStats(events)
	return nil
}

// buildRows runs every parsed earthquake through the transformer. Records the
// builder rejects are logged and counted rather than aborting the run.
func buildRows(transformer *pipeline.QuakeTransformer, quakes []domain.Earthquake) (map[string]domain.DisplayEarthquake, []domain.DisplayEvent, int, error) {
	var rejected int
	rows := make(map[string]domain.DisplayEarthquake, len(quakes))
	events := make([]domain.DisplayEvent, 0, len(quakes))
	for _, q := range quakes {
		value, err := json.Marshal(featureFor(q))
		if err != nil {
			return nil, nil, 0, fmt.Errorf("marshal feature %s: %w", q.ID, err)
		}
		ev, err := transformer.Transform(context.Background(), domain.RawEvent{Key: []byte(q.ID), Value: value})
		if err != nil {
			log.Printf("skipping %s: %v", q.ID, err)
			rejected++
			continue
		}
		rows[ev.ID] = ev.Display
		events = append(events, ev)
	}
	return rows, events, rejected, nil
}

// featureFor rebuilds the minimal GeoJSON feature the transformer consumes.
func featureFor(q domain.Earthquake) map[string]any {
	return map[string]any{
		"id": q.ID,
		"properties": map[string]any{
			"mag":   q.Raw.Magnitude,
			"place": q.Raw.LocationText,
			"time":  q.Raw.TimeMillis,
			"url":   q.URL,
		},
	}
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

type labelCount struct {
	label string
	count int
}

func printStats(events []domain.DisplayEvent) {
	categories := map[int]int{}
	offsets := map[string]int{}
	var fallback int
	for i := range events {
		d := events[i].Display
		categories[d.MagnitudeCategory]++
		offsets[d.OffsetText]++
		if !strings.HasSuffix(d.OffsetText, "of") {
			fallback++
		}
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(events))
	fmt.Printf("Fallback offset: %d\n", fallback)

	keys := make([]int, 0, len(categories))
	for k := range categories {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	fmt.Print("By category:")
	for _, k := range keys {
		fmt.Printf(" %d=%d", k, categories[k])
	}
	fmt.Println()

	oc := make([]labelCount, 0, len(offsets))
	for o, c := range offsets {
		oc = append(oc, labelCount{o, c})
	}
	sort.Slice(oc, func(i, j int) bool { return oc[i].count > oc[j].count })
	fmt.Println("Top offsets:")
	for _, o := range oc[:min(5, len(oc))] {
		fmt.Printf("  %q=%d\n", o.label, o.count)
	}
}
