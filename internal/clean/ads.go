// Package clean removes advertising, tracking, and platform boilerplate
// subtrees from fetched article markup. Removal is heuristic and
// conservative: it prefers leaving clutter behind over destroying
// article content, and a failing pass leaves the input untouched.
package clean

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// adKeywordPattern matches identifiers, class lists, and ARIA metadata
// that ad containers and ad scripts typically carry.
const adKeywordPattern = `(?i)\bad\b|\bads\b|\badvert|\bsponsor|\bsponsored\b|\bpromo\b|\bpromoted\b|` +
	`\bdoubleclick\b|\bgooglesyndication\b|\badsystem\b|\badservice\b|\btaboola\b|\boutbrain\b|` +
	`\brevcontent\b|\badvertisement\b|\bmarketplace\b`

// adSrcPatterns are partial domains/tokens of known ad networks,
// matched as substrings against iframe and script source addresses.
var adSrcPatterns = []string{
	"doubleclick.net",
	"googlesyndication",
	"googletagservices",
	"adservice.google",
	"adroll",
	"adsystem",
	"taboola",
	"outbrain",
	"revcontent",
	"yieldmo",
	"indexexchange",
	"adsafeprotected",
}

// adAttrNames are attributes that host ad widgets; their presence alone
// marks a node for removal.
var adAttrNames = []string{
	"data-ad",
	"data-ad-slot",
	"data-ad-client",
	"data-google-query-id",
	"data-adunit",
}

// adSelectors are known ad-container selectors removed regardless of size.
var adSelectors = []string{
	"ins.adsbygoogle",
	".ad", ".ads", ".advert", ".advertisement",
	".sponsored", ".promoted",
	".ad-slot", ".ad-container", ".adunit", ".ad-wrapper",
	".ad_banner", ".adbox", ".ad-placeholder",
}

// inlineAdTokens is the high-confidence second gate for inline scripts:
// a keyword match alone is not enough to delete a script, it must also
// name one of these networks.
var inlineAdTokens = []string{
	"doubleclick",
	"adsbygoogle",
	"googlesyndication",
	"taboola",
	"outbrain",
}

// widgetTags are tag names whose keyword-matching nodes are removed even
// when they carry long text. Everything else needs text shorter than
// maxWidgetTextLen to be removed.
var widgetTags = map[string]bool{
	"aside":   true,
	"iframe":  true,
	"ins":     true,
	"figure":  true,
	"div":     true,
	"section": true,
}

// maxWidgetTextLen is the conservatism guard: a keyword-matching node of
// a non-widget tag survives when its visible text reaches this length.
const maxWidgetTextLen = 200

// smallFrameEdge is the dimension below which an iframe is treated as an
// ad pixel/slot.
const smallFrameEdge = 50

// Cleaner deletes ad and tracker subtrees from markup. Rule data is
// compiled once and read-only afterwards, safe for concurrent use.
type Cleaner struct {
	keywordRE *regexp.Regexp
}

// NewCleaner compiles the rule set.
func NewCleaner() *Cleaner {
	return &Cleaner{
		keywordRE: regexp.MustCompile(adKeywordPattern),
	}
}

// RemoveClutter returns markup with common ad elements removed. The six
// passes run in fixed order; a node removed by an earlier pass is simply
// absent for later ones. On parse or serialize failure the original
// markup is returned alongside the error so callers can degrade
// gracefully.
func (c *Cleaner) RemoveClutter(markup string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return markup, err
	}

	c.removeAdFrames(doc)
	c.removeAdScripts(doc)
	c.removeAdAttrNodes(doc)
	c.keywordSweep(doc)
	c.removeFixedSelectors(doc)
	c.removeAdNoscript(doc)

	out, err := doc.Html()
	if err != nil {
		return markup, err
	}
	return out, nil
}

// removeAdFrames deletes iframes pointing at ad networks, very small
// iframes, and iframes with ad-like id/class attributes.
func (c *Cleaner) removeAdFrames(doc *goquery.Document) {
	doc.Find("iframe").Each(func(_ int, s *goquery.Selection) {
		src := s.AttrOr("src", "")
		if src == "" {
			src = s.AttrOr("data-src", "")
		}
		if src != "" && matchesAnySubstring(src, adSrcPatterns) {
			s.Remove()
			return
		}
		// Small numeric sizes often ad. Parse failures count as "not small".
		if isSmallDimension(s.AttrOr("width", "")) || isSmallDimension(s.AttrOr("height", "")) {
			s.Remove()
			return
		}
		if c.keywordRE.MatchString(s.AttrOr("id", "")) || c.keywordRE.MatchString(s.AttrOr("class", "")) {
			s.Remove()
		}
	})
}

// removeAdScripts deletes scripts sourced from ad networks, and inline
// scripts that match the keyword pattern AND name a known network.
func (c *Cleaner) removeAdScripts(doc *goquery.Document) {
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		if src := s.AttrOr("src", ""); src != "" && matchesAnySubstring(src, adSrcPatterns) {
			s.Remove()
			return
		}
		content := s.Text()
		if content == "" || !c.keywordRE.MatchString(content) {
			return
		}
		if matchesAnySubstring(strings.ToLower(content), inlineAdTokens) {
			s.Remove()
		}
	})
}

// removeAdAttrNodes deletes any node carrying an ad-slot attribute,
// regardless of other content.
func (c *Cleaner) removeAdAttrNodes(doc *goquery.Document) {
	for _, attr := range adAttrNames {
		doc.Find("[" + attr + "]").Remove()
	}
}

// keywordSweep walks every node in document order and removes those
// whose combined id/class/role/aria-label matches the keyword pattern,
// unless the node looks like real content (long text on a non-widget tag).
func (c *Cleaner) keywordSweep(doc *goquery.Document) {
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		fields := strings.Join([]string{
			s.AttrOr("id", ""),
			s.AttrOr("class", ""),
			s.AttrOr("role", ""),
			s.AttrOr("aria-label", ""),
		}, " ")
		if !c.keywordRE.MatchString(fields) {
			return
		}
		textLen := utf8.RuneCountInString(strings.TrimSpace(s.Text()))
		if textLen < maxWidgetTextLen || widgetTags[goquery.NodeName(s)] {
			s.Remove()
		}
	})
}

// removeFixedSelectors deletes known ad-container selectors outright.
func (c *Cleaner) removeFixedSelectors(doc *goquery.Document) {
	for _, sel := range adSelectors {
		doc.Find(sel).Remove()
	}
}

// removeAdNoscript deletes noscript fallbacks holding ad images or trackers.
func (c *Cleaner) removeAdNoscript(doc *goquery.Document) {
	doc.Find("noscript").Each(func(_ int, s *goquery.Selection) {
		serialized, err := goquery.OuterHtml(s)
		if err != nil {
			return
		}
		if c.keywordRE.MatchString(serialized) {
			s.Remove()
		}
	})
}

// matchesAnySubstring reports whether s contains any of the patterns.
func matchesAnySubstring(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// isSmallDimension reports whether v parses as a positive integer below
// smallFrameEdge. Non-numeric values (e.g. "100%") are not small.
func isSmallDimension(v string) bool {
	if v == "" {
		return false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return false
	}
	return n > 0 && n < smallFrameEdge
}
