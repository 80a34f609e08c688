// Command validate performs end-to-end integrity checks on the earthquake
// fixtures: the source USGS feed, the parsed raw fixture, and the expected
// display rows. It verifies record counts, re-derives every display row with
// the real builder, and checks the formatting rules each row must satisfy.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -feed internal/pipeline/testdata/usgs_feed.json \
//	  -raw-json internal/pipeline/testdata/raw_earthquakes.json \
//	  -display-json internal/pipeline/testdata/display_rows.json
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"regexp"
	"slices"
	"strings"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/quake-feed/internal/domain"
	"github.com/couchcryptid/quake-feed/internal/pipeline"
)

var (
	processedAt  = time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC)
	labelPattern = regexp.MustCompile(`^-?\d+\.\d$`)
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	feed := flag.String("feed", "", "path to the source USGS GeoJSON feed")
	rawJSON := flag.String("raw-json", "", "path to the parsed raw earthquake fixture")
	displayJSON := flag.String("display-json", "", "path to the expected display rows fixture")
	tz := flag.String("time-zone", "UTC", "IANA zone the display fixture was generated with")
	flag.Parse()

	if *feed == "" || *rawJSON == "" || *displayJSON == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*feed, *rawJSON, *displayJSON, *tz); code != 0 {
		os.Exit(code)
	}
}

func run(feedPath, rawPath, displayPath, tz string) int {
	fmt.Println("=== Earthquake Fixture Validation ===")
	fmt.Println()

	opts := domain.DefaultOptions()
	opts.TimeZone = tz
	builder, err := domain.NewBuilder(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: build options: %v\n", err)
		return 1
	}

	feedData, err := os.ReadFile(feedPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read feed: %v\n", err)
		return 1
	}
	feedQuakes, feedFailed, err := domain.ParseFeatureCollection(feedData)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: parse feed: %v\n", err)
		return 1
	}

	var raws []domain.Earthquake
	if err := loadJSON(rawPath, &raws); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load raw JSON: %v\n", err)
		return 1
	}

	var rows map[string]domain.DisplayEarthquake
	if err := loadJSON(displayPath, &rows); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load display JSON: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateFeedParity(feedQuakes, raws),
		validateDisplayRebuild(builder, raws, rows),
		validateDisplayRules(builder, opts, raws, rows),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d feed features (%d rejected), %d raw JSON, %d display rows\n",
		len(feedQuakes)+len(feedFailed), len(feedFailed), len(raws), len(rows))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// ── Phase 1: Feed Parity ──
// Validates that the raw fixture is exactly the parseable subset of the feed.

func validateFeedParity(feed, raws []domain.Earthquake) *phase {
	p := &phase{name: "Phase 1: Feed Parity (GeoJSON vs raw)"}

	if len(feed) != len(raws) {
		p.errorf("count: feed has %d parseable features, raw fixture has %d", len(feed), len(raws))
	}

	byID := make(map[string]domain.Earthquake, len(raws))
	for i, r := range raws {
		if r.ID == "" {
			p.errorf("raw record %d: missing ID", i)
			continue
		}
		if _, dup := byID[r.ID]; dup {
			p.errorf("raw record %d: duplicate ID %q", i, r.ID)
		}
		byID[r.ID] = r
	}

	for _, f := range feed {
		r, ok := byID[f.ID]
		if !ok {
			p.errorf("feature %s: not found in raw fixture", f.ID)
			continue
		}
		if diff := cmp.Diff(f, r); diff != "" {
			p.errorf("feature %s: raw fixture differs (-feed +raw):\n%s", f.ID, diff)
		}
	}
	return p
}

// ── Phase 2: Display Rebuild ──
// Re-runs the transformer on every raw record and compares with the fixture.

func validateDisplayRebuild(builder *domain.Builder, raws []domain.Earthquake, rows map[string]domain.DisplayEarthquake) *phase {
	p := &phase{name: "Phase 2: Display Rebuild (transformer)"}

	transformer := pipeline.NewTransformer(builder, clockwork.NewFakeClockAt(processedAt), sharedobs.NewLogger("error", "text"))

	seen := make(map[string]bool, len(raws))
	for _, r := range raws {
		ev, err := rebuild(transformer, r)
		want, ok := rows[r.ID]
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			if ok {
				p.errorf("ID %s: rejected as invalid but fixture has a row", r.ID)
			}
			continue
		case err != nil:
			p.errorf("ID %s: %v", r.ID, err)
			continue
		case !ok:
			p.errorf("ID %s: built a row but fixture has none", r.ID)
			continue
		}
		seen[r.ID] = true

		if diff := cmp.Diff(want, ev.Display); diff != "" {
			p.errorf("ID %s: display mismatch (-fixture +rebuilt):\n%s", r.ID, diff)
		}
		if !ev.ProcessedAt.Equal(processedAt) {
			p.errorf("ID %s: processed_at %s, expected the fixed clock %s", r.ID, ev.ProcessedAt, processedAt)
		}
		if ev.URL != r.URL {
			p.errorf("ID %s: url %q not carried through (got %q)", r.ID, r.URL, ev.URL)
		}
	}

	for id := range rows {
		if !seen[id] {
			p.errorf("ID %s: fixture row has no raw record", id)
		}
	}
	return p
}

func rebuild(t *pipeline.QuakeTransformer, r domain.Earthquake) (domain.DisplayEvent, error) {
	value, err := json.Marshal(map[string]any{
		"id": r.ID,
		"properties": map[string]any{
			"mag":   r.Raw.Magnitude,
			"place": r.Raw.LocationText,
			"time":  r.Raw.TimeMillis,
			"url":   r.URL,
		},
	})
	if err != nil {
		return domain.DisplayEvent{}, err
	}
	return t.Transform(context.Background(), domain.RawEvent{Key: []byte(r.ID), Value: value})
}

// ── Phase 3: Display Rules ──
// Validates each fixture row against the formatting rules.

func validateDisplayRules(builder *domain.Builder, opts domain.Options, raws []domain.Earthquake, rows map[string]domain.DisplayEarthquake) *phase {
	p := &phase{name: "Phase 3: Display Rules (formatting)"}

	for _, r := range raws {
		row, ok := rows[r.ID]
		if !ok {
			continue
		}
		pf := func(format string, args ...any) {
			p.errorf("ID %s: "+format, append([]any{r.ID}, args...)...)
		}
		checkMagnitude(pf, opts.CategoryBounds, r.Raw, row)
		checkLocation(pf, opts.FallbackOffsetPhrase, r.Raw, row)

		again, err := builder.Build(r.Raw)
		if err != nil {
			pf("second build failed: %v", err)
		} else if again != row {
			pf("second build differs from fixture: %+v", again)
		}
	}
	return p
}

func checkMagnitude(pf func(string, ...any), bounds []int, raw domain.RawEarthquake, row domain.DisplayEarthquake) {
	if !labelPattern.MatchString(row.MagnitudeLabel) {
		pf("magnitude_label %q does not have exactly one decimal digit", row.MagnitudeLabel)
	}
	want := clamp(int(math.Floor(raw.Magnitude)), bounds)
	if row.MagnitudeCategory != want {
		pf("magnitude_category %d, expected %d for magnitude %g", row.MagnitudeCategory, want, raw.Magnitude)
	}
	if !slices.Contains(bounds, row.MagnitudeCategory) {
		pf("magnitude_category %d outside configured bounds %v", row.MagnitudeCategory, bounds)
	}
}

func checkLocation(pf func(string, ...any), fallback string, raw domain.RawEarthquake, row domain.DisplayEarthquake) {
	i := strings.Index(raw.LocationText, "of")
	if i < 0 {
		if row.OffsetText != fallback {
			pf("offset_text %q, expected fallback %q", row.OffsetText, fallback)
		}
		if row.PrimaryLocationText != raw.LocationText {
			pf("primary_location_text %q, expected unchanged %q", row.PrimaryLocationText, raw.LocationText)
		}
		return
	}
	if !strings.HasSuffix(row.OffsetText, "of") {
		pf("offset_text %q does not end with \"of\"", row.OffsetText)
	}
	if want := strings.TrimSpace(raw.LocationText[i+2:]); row.PrimaryLocationText != want {
		pf("primary_location_text %q, expected %q", row.PrimaryLocationText, want)
	}
}

func clamp(v int, bounds []int) int {
	lo, hi := bounds[0], bounds[len(bounds)-1]
	return min(max(v, lo), hi)
}
