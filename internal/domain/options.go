package domain

import (
	"fmt"
	"slices"
	_ "time/tzdata" // zone database travels with the binary; output must not depend on the host

	"github.com/go-playground/validator/v10"
)

// Location matching policies accepted in Options.LocationMatch.
const (
	MatchSubstring = "substring"
	MatchWord      = "word"
)

// DefaultFallbackOffset is shown as the offset when a place has no "of".
const DefaultFallbackOffset = "Near the"

var validate = validator.New()

// Options configures a Builder. Every field is explicit so two builders with
// equal options produce identical output on any host.
type Options struct {
	FallbackOffsetPhrase string `validate:"required"`
	TimeZone             string `validate:"required,timezone"`
	CategoryBounds       []int  `validate:"required,min=1"`
	LocationMatch        string `validate:"required,oneof=substring word"`
}

// DefaultOptions returns the options matching the classic list layout:
// "Near the" fallback, UTC, categories 0 through 9, plain substring matching.
func DefaultOptions() Options {
	return Options{
		FallbackOffsetPhrase: DefaultFallbackOffset,
		TimeZone:             "UTC",
		CategoryBounds:       []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		LocationMatch:        MatchSubstring,
	}
}

// Validate checks struct constraints and that category bounds strictly ascend.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("display options: %w", err)
	}
	if !slices.IsSorted(o.CategoryBounds) || len(slices.Compact(slices.Clone(o.CategoryBounds))) != len(o.CategoryBounds) {
		return fmt.Errorf("display options: category bounds must be strictly ascending, got %v", o.CategoryBounds)
	}
	return nil
}
