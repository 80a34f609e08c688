package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/quake-feed/internal/domain"
)

// QuakeTransformer implements Transformer: it parses a USGS feature, builds
// its display row, and stamps the envelope with the processing time.
type QuakeTransformer struct {
	builder *domain.Builder
	clock   clockwork.Clock
	logger  *slog.Logger
}

// NewTransformer creates a QuakeTransformer. A nil clock uses real time.
func NewTransformer(builder *domain.Builder, clock clockwork.Clock, logger *slog.Logger) *QuakeTransformer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &QuakeTransformer{
		builder: builder,
		clock:   clock,
		logger:  logger,
	}
}

func (t *QuakeTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.DisplayEvent, error) {
	quake, err := domain.ParseRawEvent(raw)
	if err != nil {
		return domain.DisplayEvent{}, err
	}

	display, err := t.builder.Build(quake.Raw)
	if err != nil {
		return domain.DisplayEvent{}, fmt.Errorf("build display for %s: %w", quake.ID, err)
	}

	t.logger.Debug("display row built",
		"id", quake.ID,
		"magnitude", display.MagnitudeLabel,
		"category", display.MagnitudeCategory,
	)

	return domain.DisplayEvent{
		ID:          quake.ID,
		URL:         quake.URL,
		Display:     display,
		ProcessedAt: t.clock.Now().UTC(),
	}, nil
}
