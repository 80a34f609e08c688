package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/quake-feed/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// Display builder configuration.
	Display domain.Options
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	display, err := loadDisplay()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "raw-earthquakes"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "display-earthquakes"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "quake-feed"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
		Display:            display,
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}

	return cfg, nil
}

// loadDisplay reads the DISPLAY_* variables on top of domain.DefaultOptions.
func loadDisplay() (domain.Options, error) {
	opts := domain.DefaultOptions()
	opts.TimeZone = sharedcfg.EnvOrDefault("DISPLAY_TIME_ZONE", opts.TimeZone)
	opts.FallbackOffsetPhrase = sharedcfg.EnvOrDefault("DISPLAY_FALLBACK_OFFSET", opts.FallbackOffsetPhrase)
	opts.LocationMatch = strings.ToLower(sharedcfg.EnvOrDefault("DISPLAY_LOCATION_MATCH", opts.LocationMatch))

	if s := sharedcfg.EnvOrDefault("DISPLAY_CATEGORY_BOUNDS", ""); s != "" {
		bounds, err := parseBounds(s)
		if err != nil {
			return domain.Options{}, fmt.Errorf("invalid DISPLAY_CATEGORY_BOUNDS: %w", err)
		}
		opts.CategoryBounds = bounds
	}

	if err := opts.Validate(); err != nil {
		return domain.Options{}, fmt.Errorf("invalid DISPLAY_* settings: %w", err)
	}
	return opts, nil
}

// parseBounds parses a comma-separated list of integers, e.g. "0,2,4,6,8".
func parseBounds(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	bounds := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("bound %q: %w", p, err)
		}
		bounds = append(bounds, n)
	}
	return bounds, nil
}
