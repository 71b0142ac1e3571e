// Package parser extracts the final numeric answer from GSM8K-style text.
//
// Both ground-truth answers and model responses are expected to end with the
// "####" delimiter followed by the numeric result, so the same extraction is
// applied to either side of a comparison.
package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// Delimiter separates the worked reasoning from the final answer.
const Delimiter = "####"

var nonNumeric = regexp.MustCompile(`[^\d.]`)

// Parse returns the value after the last delimiter in text. Currency symbols,
// thousands separators, whitespace and units are discarded before conversion.
// The boolean is false when the delimiter is missing or nothing numeric remains.
func Parse(text string) (float64, bool) {
	idx := strings.LastIndex(text, Delimiter)
	if idx < 0 {
		return 0, false
	}
	cleaned := nonNumeric.ReplaceAllString(text[idx+len(Delimiter):], "")
	if cleaned == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// ParsePtr is Parse in nullable form, as stored on evaluation records.
func ParsePtr(text string) *float64 {
	value, ok := Parse(text)
	if !ok {
		return nil
	}
	return &value
}

// Equal reports whether both values are present and exactly equal.
func Equal(a, b *float64) bool {
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

// Format renders a nullable value for reports; nil becomes the empty string.
func Format(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
