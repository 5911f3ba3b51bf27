// Package meta resolves article metadata (title, author, date, canonical
// URL) from markup. Resolution is total: every field is always populated,
// with fixed sentinel values standing in for anything missing.
package meta

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/KaparthyReddy/minimal-blog-to-pdf/internal/dateutil"
)

// Sentinel values for intentionally-unknown fields. Never empty strings.
const (
	UnknownTitle  = "Untitled"
	UnknownAuthor = "Unknown"
	UnknownDate   = "Unknown date"
	UnknownSource = "Unknown source"
)

// Metadata holds the resolved article metadata. All fields are always
// non-empty; absence of a real value is represented by the sentinels.
type Metadata struct {
	Title  string
	Author string
	Date   string
	URL    string
}

// authorSelectors are tried in order; first match wins. Both property-
// and name-keyed meta forms appear because publishers use either.
var authorSelectors = []string{
	`meta[name="author"]`,
	`meta[property="article:author"]`,
	`meta[name="article:author"]`,
	`meta[property="byline"]`,
	`meta[name="byline"]`,
	`a[rel="author"]`,
}

// dateSelectors are tried in order; first match wins.
var dateSelectors = []string{
	`meta[property="article:published_time"]`,
	`meta[name="pubdate"]`,
	`meta[name="publishdate"]`,
	`meta[name="date"]`,
	`meta[property="og:updated_time"]`,
}

// publishedOnRE scans visible text for byline phrases like
// "Published on April 3, 2023".
var publishedOnRE = regexp.MustCompile(`(?i)(Published on|Posted on)\s+([A-Za-z0-9, ]+)`)

// textScanLimit bounds the visible-text prefix searched for a byline date.
const textScanLimit = 2000

var whitespaceRE = regexp.MustCompile(`\s+`)

var titleCaser = cases.Title(language.Und)

// NormalizeAuthor collapses internal whitespace, trims, and converts to
// title case for consistent header formatting. Empty input yields the
// sentinel.
func NormalizeAuthor(author string) string {
	author = strings.TrimSpace(whitespaceRE.ReplaceAllString(author, " "))
	if author == "" {
		return UnknownAuthor
	}
	return titleCaser.String(author)
}

// NormalizeDate parses a best-effort date string and renders it as
// YYYY-MM-DD. Unparseable input yields the sentinel.
func NormalizeDate(date string) string {
	normalized, ok := dateutil.Normalize(date)
	if !ok {
		return UnknownDate
	}
	return normalized
}

// Resolve extracts metadata from markup. Deterministic and total: it
// always returns a fully-populated Metadata, falling back to sourceURL
// for the canonical address and to sentinels for everything else.
// Selector precedence within each field is fixed; first match wins.
func Resolve(markup, sourceURL string) Metadata {
	m := Metadata{
		Title:  UnknownTitle,
		Author: UnknownAuthor,
		Date:   UnknownDate,
		URL:    UnknownSource,
	}
	if sourceURL != "" {
		m.URL = sourceURL
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return m
	}

	m.Title = resolveTitle(doc)
	m.Author = resolveAuthor(doc)
	m.Date = resolveDate(doc)
	m.URL = resolveURL(doc, sourceURL)
	return m
}

// resolveTitle prefers the social title over the document title element.
func resolveTitle(doc *goquery.Document) string {
	if content, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if t := strings.TrimSpace(content); t != "" {
			return t
		}
	}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	return UnknownTitle
}

// resolveAuthor walks the structured author locations, then falls back
// to schema.org microdata.
func resolveAuthor(doc *goquery.Document) string {
	for _, sel := range authorSelectors {
		if v, ok := contentOrText(doc.Find(sel).First()); ok {
			return NormalizeAuthor(v)
		}
	}
	if v, ok := contentOrText(doc.Find(`[itemprop="author"]`).First()); ok {
		return NormalizeAuthor(v)
	}
	return UnknownAuthor
}

// resolveDate walks the structured date fields, then the first <time>
// element, then scans the leading visible text for a byline phrase.
func resolveDate(doc *goquery.Document) string {
	for _, sel := range dateSelectors {
		s := doc.Find(sel).First()
		if s.Length() == 0 {
			continue
		}
		if v, ok := s.Attr("content"); ok && v != "" {
			return NormalizeDate(v)
		}
		if v, ok := s.Attr("value"); ok && v != "" {
			return NormalizeDate(v)
		}
		// First matching tag wins even when its attributes are empty;
		// later selectors are not consulted, only the time-element and
		// byline fallbacks below.
		break
	}

	if t := doc.Find("time").First(); t.Length() > 0 {
		if v, ok := t.Attr("datetime"); ok && v != "" {
			return NormalizeDate(v)
		}
		if v := strings.TrimSpace(t.Text()); v != "" {
			return NormalizeDate(v)
		}
	}

	preview := doc.Text()
	if len(preview) > textScanLimit {
		preview = preview[:textScanLimit]
	}
	if match := publishedOnRE.FindStringSubmatch(preview); match != nil {
		if d, ok := normalizeBylineDate(match[2]); ok {
			return d
		}
	}

	return UnknownDate
}

// normalizeBylineDate parses a byline fragment that may carry trailing
// words after the date ("April 3, 2023 by someone"), dropping words from
// the end until a parse succeeds.
func normalizeBylineDate(fragment string) (string, bool) {
	words := strings.Fields(fragment)
	for n := len(words); n > 0; n-- {
		if d, ok := dateutil.Normalize(strings.Join(words[:n], " ")); ok {
			return d, true
		}
	}
	return "", false
}

// resolveURL prefers the structured canonical address, then the
// caller-supplied source address.
func resolveURL(doc *goquery.Document, sourceURL string) string {
	if content, ok := doc.Find(`meta[property="og:url"]`).First().Attr("content"); ok && content != "" {
		return content
	}
	if sourceURL != "" {
		return sourceURL
	}
	return UnknownSource
}

// contentOrText extracts a meta tag's content attribute or, for regular
// elements, the node text. Reports false when the selection is empty or
// yields only whitespace.
func contentOrText(s *goquery.Selection) (string, bool) {
	if s.Length() == 0 {
		return "", false
	}
	if v, ok := s.Attr("content"); ok && strings.TrimSpace(v) != "" {
		return v, true
	}
	if v := strings.TrimSpace(s.Text()); v != "" {
		return v, true
	}
	return "", false
}
