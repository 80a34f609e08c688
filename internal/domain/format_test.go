package domain

import (
	"math"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMagnitude(t *testing.T) {
	tests := []struct {
		name     string
		in       float64
		expected string
	}{
		{"whole number", 7, "7.0"},
		{"one decimal", 6.2, "6.2"},
		{"half rounds up", 6.05, "6.1"},
		{"half carries into integer", 5.95, "6.0"},
		{"below half truncates", 2.449, "2.4"},
		{"carry adds a digit", 9.95, "10.0"},
		{"double carry", 99.96, "100.0"},
		{"zero", 0, "0.0"},
		{"tiny positive", 1e-7, "0.0"},
		{"negative half rounds away from zero", -0.05, "-0.1"},
		{"negative rounds away from zero", -1.25, "-1.3"},
		{"negative zero result", -0.04, "0.0"},
		{"negative zero input", math.Copysign(0, -1), "0.0"},
		{"large magnitude", 12.34, "12.3"},
		{"very large", 1e21, "1000000000000000000000.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatMagnitude(tt.in))
		})
	}
}

func TestFormatMagnitude_OneDecimalDigit(t *testing.T) {
	pattern := regexp.MustCompile(`^-?\d+\.\d$`)
	for _, m := range []float64{-12.75, -3.3, -0.5, 0.01, 0.45, 1.05, 3.14159, 4.95, 8.999, 10.4, 123.456} {
		assert.Regexp(t, pattern, formatMagnitude(m), "magnitude %v", m)
	}
}

func TestMagnitudeCategory(t *testing.T) {
	contiguous := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	sparse := []int{0, 2, 4, 6, 8}

	tests := []struct {
		name     string
		in       float64
		bounds   []int
		expected int
	}{
		{"exact integer", 5, contiguous, 5},
		{"floors fraction", 6.99, contiguous, 6},
		{"below zero clamps", -0.3, contiguous, 0},
		{"far below clamps", -1e300, contiguous, 0},
		{"top bucket", 9.9, contiguous, 9},
		{"above range clamps", 10.4, contiguous, 9},
		{"far above clamps", 1e300, contiguous, 9},
		{"sparse snaps down", 5.5, sparse, 4},
		{"sparse exact edge", 6.0, sparse, 6},
		{"sparse below second edge", 1.9, sparse, 0},
		{"sparse above top", 100, sparse, 8},
		{"single bound", 7.7, []int{3}, 3},
		{"negative bounds", -1.5, []int{-2, -1, 0}, -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, magnitudeCategory(tt.in, tt.bounds))
		})
	}
}

func TestSplitLocation(t *testing.T) {
	tests := []struct {
		name            string
		text            string
		matcher         locationMatcher
		expectedOffset  string
		expectedPrimary string
	}{
		{"offset and place", "5km N of Cairo, Egypt", substringMatcher{}, "5km N of", "Cairo, Egypt"},
		{"no separator", "Pacific-Antarctic Ridge", substringMatcher{}, testFallback, "Pacific-Antarctic Ridge"},
		{"empty text", "", substringMatcher{}, testFallback, ""},
		{"only first separator splits", "10km S of Town of Hope", substringMatcher{}, "10km S of", "Town of Hope"},
		{"remainder trimmed", "  12km SW of   Volcano, Hawaii  ", substringMatcher{}, "  12km SW of", "Volcano, Hawaii"},
		{"separator alone", "of", substringMatcher{}, "of", ""},
		{"case sensitive", "Offaly, Ireland", substringMatcher{}, testFallback, "Offaly, Ireland"},
		{"substring inside word", "Rooftop Hills", substringMatcher{}, "Roof", "top Hills"},
		{"word matcher skips inner match", "Rooftop Hills", wordMatcher{}, testFallback, "Rooftop Hills"},
		{"word matcher skips off", "Ocean off Chile", wordMatcher{}, testFallback, "Ocean off Chile"},
		{"word matcher standalone", "Ocean off coast of Chile", wordMatcher{}, "Ocean off coast of", "Chile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, primary := splitLocation(tt.text, tt.matcher, testFallback)
			assert.Equal(t, tt.expectedOffset, offset)
			assert.Equal(t, tt.expectedPrimary, primary)
		})
	}
}

func TestIncrementDecimal(t *testing.T) {
	assert.Equal(t, "13", string(incrementDecimal([]byte("12"))))
	assert.Equal(t, "20", string(incrementDecimal([]byte("19"))))
	assert.Equal(t, "100", string(incrementDecimal([]byte("99"))))
}
