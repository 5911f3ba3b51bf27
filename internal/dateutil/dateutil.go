// Package dateutil provides natural-date parsing and date format utilities.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// ErrUnparseableDate indicates a date string no known layout matches.
var ErrUnparseableDate = errors.New("unparseable date")

// MaxDateFormatLength limits format string length to prevent abuse.
const MaxDateFormatLength = 50

// CanonicalFormat is the normalized on-page date representation.
const CanonicalFormat = "2006-01-02"

// parseLayouts are tried in order by Parse. Machine-readable formats
// first (meta tags, <time datetime>), then human-readable ones found
// in article bylines.
var parseLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2006",
	"01/02/2006",
	"02.01.2006",
	"20060102",
}

// Parse interprets a date string using a fixed list of layouts,
// trying each in order. The input is trimmed first; trailing
// timezone names that Go cannot resolve are not retried.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty input", ErrUnparseableDate)
	}
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableDate, s)
}

// Normalize converts an arbitrary date string to canonical YYYY-MM-DD
// form. The boolean reports whether parsing succeeded; on failure the
// returned string is empty and the caller decides the sentinel.
func Normalize(s string) (string, bool) {
	t, err := Parse(s)
	if err != nil {
		return "", false
	}
	return t.Format(CanonicalFormat), true
}

// dateTokens maps user-friendly tokens to Go time format components.
// Ordered by length descending for greedy matching.
var dateTokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// DatePresets provides named shortcuts for common display formats.
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
}

// ParseDateFormat converts a user-friendly format string to Go's time
// format. Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D.
// Use brackets to escape literal text: [Date] preserves "Date" literally.
// Any non-token characters outside brackets are preserved as literals.
// Returns ErrInvalidDateFormat if the format is empty, too long, or has
// unclosed brackets.
func ParseDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var result strings.Builder
	result.Grow(len(format) + 10)

	i := 0
	for i < len(format) {
		// Handle bracket-escaped literal text
		if format[i] == '[' {
			end := strings.Index(format[i+1:], "]")
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			result.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		matched := false
		for _, t := range dateTokens {
			if strings.HasPrefix(format[i:], t.token) {
				result.WriteString(t.goFmt)
				i += len(t.token)
				matched = true
				break
			}
		}

		if !matched {
			result.WriteByte(format[i])
			i++
		}
	}

	return result.String(), nil
}

// Reformat renders a canonical YYYY-MM-DD date using a user-friendly
// display format (resolving presets). Non-canonical input is returned
// unchanged so sentinel values like "Unknown date" survive.
func Reformat(canonical, format string) (string, error) {
	t, err := time.Parse(CanonicalFormat, canonical)
	if err != nil {
		return canonical, nil
	}

	if preset, ok := DatePresets[strings.ToLower(format)]; ok {
		format = preset
	}
	goFmt, err := ParseDateFormat(format)
	if err != nil {
		return "", err
	}
	return t.Format(goFmt), nil
}
