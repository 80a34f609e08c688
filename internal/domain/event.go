package domain

import (
	"context"
	"time"
)

// RawEarthquake is the minimal input the builder needs for one row.
type RawEarthquake struct {
	Magnitude    float64 `json:"magnitude"`
	LocationText string  `json:"location_text"`
	TimeMillis   int64   `json:"time_millis"`
}

// DisplayEarthquake holds the render-ready fields for one row. It is built
// fresh for every render pass and never mutated.
type DisplayEarthquake struct {
	MagnitudeLabel      string `json:"magnitude_label"`
	MagnitudeCategory   int    `json:"magnitude_category"`
	OffsetText          string `json:"offset_text"`
	PrimaryLocationText string `json:"primary_location_text"`
	DateLabel           string `json:"date_label"`
	TimeLabel           string `json:"time_label"`
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Earthquake is a parsed USGS feature: the builder input plus identity fields
// the renderer needs to link a row back to its source.
type Earthquake struct {
	ID  string        `json:"id"`
	URL string        `json:"url,omitempty"`
	Raw RawEarthquake `json:"raw"`
}

// DisplayEvent is the serialized form destined for the sink topic.
type DisplayEvent struct {
	ID          string            `json:"id"`
	URL         string            `json:"url,omitempty"`
	Display     DisplayEarthquake `json:"display"`
	ProcessedAt time.Time         `json:"processed_at"`
}
