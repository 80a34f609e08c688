package domain

import (
	"fmt"
	"math"
	"slices"
	"time"
)

const (
	dateLayout = "Jan 2, 2006"
	timeLayout = "3:04 PM"
)

// Builder converts raw earthquakes into display rows. It holds only immutable
// configuration, so one Builder may be shared by any number of goroutines.
type Builder struct {
	fallback string
	loc      *time.Location
	bounds   []int
	matcher  locationMatcher
}

// NewBuilder validates opts and resolves the time zone once.
func NewBuilder(opts Options) (*Builder, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(opts.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("display options: load time zone %q: %w", opts.TimeZone, err)
	}
	return &Builder{
		fallback: opts.FallbackOffsetPhrase,
		loc:      loc,
		bounds:   slices.Clone(opts.CategoryBounds),
		matcher:  newLocationMatcher(opts.LocationMatch),
	}, nil
}

// Build formats one record. It fails with ErrInvalidInput for a NaN or
// infinite magnitude and for instants outside years 1 through 9999; no partial
// row is returned in either case.
func (b *Builder) Build(raw RawEarthquake) (DisplayEarthquake, error) {
	if math.IsNaN(raw.Magnitude) || math.IsInf(raw.Magnitude, 0) {
		return DisplayEarthquake{}, fmt.Errorf("%w: magnitude must be finite, got %v", ErrInvalidInput, raw.Magnitude)
	}

	dateLabel, timeLabel, err := b.formatInstant(raw.TimeMillis)
	if err != nil {
		return DisplayEarthquake{}, err
	}

	offset, primary := splitLocation(raw.LocationText, b.matcher, b.fallback)

	return DisplayEarthquake{
		MagnitudeLabel:      formatMagnitude(raw.Magnitude),
		MagnitudeCategory:   magnitudeCategory(raw.Magnitude, b.bounds),
		OffsetText:          offset,
		PrimaryLocationText: primary,
		DateLabel:           dateLabel,
		TimeLabel:           timeLabel,
	}, nil
}

// formatInstant renders epoch milliseconds as date and clock labels in the
// builder's zone.
func (b *Builder) formatInstant(ms int64) (string, string, error) {
	t := time.UnixMilli(ms).In(b.loc)
	if y := t.Year(); y < 1 || y > 9999 {
		return "", "", fmt.Errorf("%w: time %d ms falls in year %d, outside 1-9999", ErrInvalidInput, ms, y)
	}
	return t.Format(dateLayout), t.Format(timeLayout), nil
}
