package domain

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// separator divides the offset qualifier from the place name.
const separator = "of"

// wordSeparatorRe matches "of" only as a standalone word.
var wordSeparatorRe = regexp.MustCompile(`\b` + separator + `\b`)

// formatMagnitude renders m with exactly one decimal digit, rounding half up
// (away from zero) on the shortest decimal representation of m. Working on the
// decimal digits keeps 6.05 at "6.1" even though the nearest float is just
// below 6.05.
func formatMagnitude(m float64) string {
	digits := strconv.FormatFloat(math.Abs(m), 'f', -1, 64)
	intPart, frac, _ := strings.Cut(digits, ".")
	frac += "00"

	kept := []byte(intPart + frac[:1])
	if frac[1] >= '5' {
		kept = incrementDecimal(kept)
	}

	n := len(kept)
	label := string(kept[:n-1]) + "." + string(kept[n-1:])
	if m < 0 && strings.Trim(label, "0.") != "" {
		return "-" + label
	}
	return label
}

// incrementDecimal adds one to an unsigned decimal digit string, growing it on
// carry out of the top digit ("99" -> "100").
func incrementDecimal(d []byte) []byte {
	for i := len(d) - 1; i >= 0; i-- {
		if d[i] < '9' {
			d[i]++
			return d
		}
		d[i] = '0'
	}
	return append([]byte{'1'}, d...)
}

// magnitudeCategory floors m and snaps it onto bounds, which must be non-empty
// and strictly ascending. It never fails: values below the first bound take
// the first bound, everything else takes the largest bound not above floor(m).
func magnitudeCategory(m float64, bounds []int) int {
	f := math.Floor(m)
	lowest, highest := bounds[0], bounds[len(bounds)-1]
	if f <= float64(lowest) {
		return lowest
	}
	if f >= float64(highest) {
		return highest
	}

	i, found := slices.BinarySearch(bounds, int(f))
	if found {
		return bounds[i]
	}
	return bounds[i-1]
}

type locationMatcher interface {
	// index returns the byte offset of the first separator in s, or -1.
	index(s string) int
}

type substringMatcher struct{}

func (substringMatcher) index(s string) int { return strings.Index(s, separator) }

type wordMatcher struct{}

func (wordMatcher) index(s string) int {
	loc := wordSeparatorRe.FindStringIndex(s)
	if loc == nil {
		return -1
	}
	return loc[0]
}

func newLocationMatcher(policy string) locationMatcher {
	if policy == MatchWord {
		return wordMatcher{}
	}
	return substringMatcher{}
}

// splitLocation divides a USGS place into offset and primary parts, e.g.
// "5km N of Cairo, Egypt" -> ("5km N of", "Cairo, Egypt"). Text without a
// separator yields (fallback, text) with text left untouched.
func splitLocation(text string, m locationMatcher, fallback string) (string, string) {
	i := m.index(text)
	if i < 0 {
		return fallback, text
	}
	end := i + len(separator)
	return text[:end], strings.TrimSpace(text[end:])
}
