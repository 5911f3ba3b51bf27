package clean

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Profile is a named removal ruleset keyed to a publishing platform.
// A profile applies when AddressPattern is found (case-insensitively)
// in the source address, or when MarkupPattern is non-empty and found
// in the raw markup itself (secondary signal for self-hosted installs).
// ClassPatterns are matched as regexps against each node's class
// attribute; IDs remove the single node with that exact identifier.
type Profile struct {
	Name           string
	AddressPattern string
	MarkupPattern  string
	ClassPatterns  []*regexp.Regexp
	IDs            []string
}

// compileClasses builds the class regexps for a profile. Fragments are
// substring patterns, not exact token matches, mirroring how platforms
// suffix their class names (e.g. "metabar u-flex").
func compileClasses(fragments ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(fragments))
	for i, f := range fragments {
		res[i] = regexp.MustCompile(f)
	}
	return res
}

// DefaultProfiles returns the built-in platform profiles in application
// order. The returned rules are immutable after construction and safe
// for concurrent read access.
func DefaultProfiles() []Profile {
	return []Profile{
		{
			Name:           "medium",
			AddressPattern: "medium.com",
			ClassPatterns: compileClasses(
				"metabar", "js-stickyFooter", "branch-journeys-top",
				"paywallButton", "meteredContent", "promo", "upvoteButton",
			),
		},
		{
			Name:           "wordpress",
			AddressPattern: "wordpress.com",
			MarkupPattern:  "wp-content",
			ClassPatterns: compileClasses(
				"sidebar", "widget-area", "comment-list", "comments", "site-footer",
				"wp-block-group", "navigation", "header", "footer",
			),
		},
		{
			Name:           "blogspot",
			AddressPattern: "blogspot.",
			ClassPatterns: compileClasses(
				"header-inner", "footer", "navbar", "profile", "sidebar", "comments",
			),
		},
		{
			Name:           "substack",
			AddressPattern: "substack.com",
			IDs: []string{
				"subscribe-button", "paywall", "newsletter-subscribe",
				"post-meta", "subscription-widget",
			},
		},
	}
}

// Matches reports whether the profile applies to the given source
// address and markup.
func (p *Profile) Matches(sourceAddress, markup string) bool {
	if p.AddressPattern != "" && strings.Contains(strings.ToLower(sourceAddress), p.AddressPattern) {
		return true
	}
	return p.MarkupPattern != "" && strings.Contains(markup, p.MarkupPattern)
}

// apply deletes the profile's matching nodes from doc.
func (p *Profile) apply(doc *goquery.Document) {
	for _, re := range p.ClassPatterns {
		doc.Find("[class]").Each(func(_ int, s *goquery.Selection) {
			if re.MatchString(s.AttrOr("class", "")) {
				s.Remove()
			}
		})
	}
	for _, id := range p.IDs {
		doc.Find("#" + id).First().Remove()
	}
}

// ApplyProfiles runs every matching profile's removal rules against the
// markup, in profile declaration order. A profile whose node set is
// empty is a no-op. On parse or serialize failure the original markup
// is returned alongside the error.
func ApplyProfiles(markup, sourceAddress string, profiles []Profile) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return markup, err
	}

	applied := false
	for i := range profiles {
		if profiles[i].Matches(sourceAddress, markup) {
			profiles[i].apply(doc)
			applied = true
		}
	}
	if !applied {
		return markup, nil
	}

	out, err := doc.Html()
	if err != nil {
		return markup, err
	}
	return out, nil
}
