package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
)

// usgsFeature is the subset of a USGS GeoJSON feature the service reads.
// Pointers distinguish JSON null from zero values.
type usgsFeature struct {
	ID         string `json:"id"`
	Properties struct {
		Mag   *float64 `json:"mag"`
		Place *string  `json:"place"`
		Time  *int64   `json:"time"`
		URL   string   `json:"url"`
	} `json:"properties"`
}

// ParseRawEvent deserializes a RawEvent's value into an Earthquake.
// It expects one GeoJSON feature as published by the collector service.
func ParseRawEvent(raw RawEvent) (Earthquake, error) {
	return ParseFeature(raw.Value)
}

// ParseFeature decodes one USGS GeoJSON feature. A null magnitude or time is
// ErrInvalidInput; a null place becomes the empty string.
func ParseFeature(data []byte) (Earthquake, error) {
	var f usgsFeature
	if err := json.Unmarshal(data, &f); err != nil {
		return Earthquake{}, fmt.Errorf("parse raw event: %w", err)
	}
	return featureToEarthquake(f)
}

func featureToEarthquake(f usgsFeature) (Earthquake, error) {
	p := f.Properties
	if p.Mag == nil {
		return Earthquake{}, fmt.Errorf("%w: feature %q has no magnitude", ErrInvalidInput, f.ID)
	}
	if p.Time == nil {
		return Earthquake{}, fmt.Errorf("%w: feature %q has no time", ErrInvalidInput, f.ID)
	}

	var place string
	if p.Place != nil {
		place = *p.Place
	}

	id := f.ID
	if id == "" {
		id = generateID(*p.Mag, place, *p.Time)
	}

	return Earthquake{
		ID:  id,
		URL: p.URL,
		Raw: RawEarthquake{
			Magnitude:    *p.Mag,
			LocationText: place,
			TimeMillis:   *p.Time,
		},
	}, nil
}

// ParseFeatureCollection decodes a whole USGS feed. Features that fail to
// convert are reported by index and skipped so one bad feature does not drop
// the rest of the feed.
func ParseFeatureCollection(data []byte) ([]Earthquake, map[int]error, error) {
	var fc struct {
		Features []usgsFeature `json:"features"`
	}
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, nil, fmt.Errorf("parse feature collection: %w", err)
	}

	quakes := make([]Earthquake, 0, len(fc.Features))
	failed := make(map[int]error)
	for i, f := range fc.Features {
		q, err := featureToEarthquake(f)
		if err != nil {
			failed[i] = err
			continue
		}
		quakes = append(quakes, q)
	}
	return quakes, failed, nil
}

// generateID produces a deterministic ID from the feature's display fields.
// Reprocessing the same feature yields the same ID, which keeps sink keys stable.
func generateID(magnitude float64, place string, timeMillis int64) string {
	input := fmt.Sprintf("%g|%s|%s", magnitude, place, strconv.FormatInt(timeMillis, 10))
	hash := sha256.Sum256([]byte(input))
	return "quake-" + hex.EncodeToString(hash[:8])
}
