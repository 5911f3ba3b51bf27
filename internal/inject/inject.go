// Package inject repairs the document skeleton and injects the print
// style block plus the generated header and footer markup.
//
// Injection is string-level on purpose: the insertions happen at the
// head/body opening boundaries only, and rebuilding the whole tree just
// to splice three blocks would re-serialize the entire document.
package inject

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strings"

	"github.com/KaparthyReddy/minimal-blog-to-pdf/internal/assets"
	"github.com/KaparthyReddy/minimal-blog-to-pdf/internal/dateutil"
	"github.com/KaparthyReddy/minimal-blog-to-pdf/internal/meta"
)

// injectedMarker tags a composed document. Compose is idempotent: a
// document carrying the marker is returned unchanged.
const injectedMarker = "<!-- btp:injected -->"

var (
	htmlOpenRE = regexp.MustCompile(`(?i)<html[^>]*>`)
	headOpenRE = regexp.MustCompile(`(?i)<head[^>]*>`)
	bodyOpenRE = regexp.MustCompile(`(?i)<body[^>]*>`)
)

// Composer builds complete, self-contained print documents from article
// markup and resolved metadata. Construct once with NewComposer; safe
// for concurrent use.
type Composer struct {
	// DateFormat optionally reformats the header date for display using
	// friendly tokens (e.g. "MMMM D, YYYY") or a preset name. Empty
	// keeps the canonical YYYY-MM-DD form.
	DateFormat string

	style      string
	headerTmpl *template.Template
	footerTmpl *template.Template
}

// headerData feeds the header template. Values are escaped by
// html/template; metadata never reaches the document as raw markup.
type headerData struct {
	Title  string
	Author string
	Date   string
}

type footerData struct {
	URL string
}

// NewComposer loads the embedded style and templates.
func NewComposer() (*Composer, error) {
	style, err := assets.LoadStyle("print")
	if err != nil {
		return nil, fmt.Errorf("loading print style: %w", err)
	}

	headerTmpl, err := loadTemplate("header")
	if err != nil {
		return nil, err
	}
	footerTmpl, err := loadTemplate("footer")
	if err != nil {
		return nil, err
	}

	return &Composer{
		style:      style,
		headerTmpl: headerTmpl,
		footerTmpl: footerTmpl,
	}, nil
}

func loadTemplate(name string) (*template.Template, error) {
	content, err := assets.LoadTemplate(name)
	if err != nil {
		return nil, fmt.Errorf("loading %s template: %w", name, err)
	}
	tmpl, err := template.New(name).Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s template: %w", name, err)
	}
	return tmpl, nil
}

// Compose returns a complete document with the print style block
// inserted after the head opening boundary and the generated header and
// footer inserted after the body opening boundary. Missing skeleton
// elements (html, head, body) are synthesized. extraCSS, when non-empty,
// is appended as a second style block after the default one.
//
// Composing an already-composed document is a no-op.
func (c *Composer) Compose(markup string, m meta.Metadata, extraCSS string) (string, error) {
	if strings.Contains(markup, injectedMarker) {
		return markup, nil
	}

	header, err := c.renderHeader(m)
	if err != nil {
		return "", err
	}
	footer, err := c.renderFooter(m)
	if err != nil {
		return "", err
	}

	styleBlock := "<style>" + sanitizeCSS(c.style) + "</style>"
	if extraCSS != "" {
		styleBlock += "<style>" + sanitizeCSS(extraCSS) + "</style>"
	}

	lower := strings.ToLower(markup)
	hasHead := strings.Contains(lower, "<head")
	hasBody := strings.Contains(lower, "<body")

	// Ensure a document skeleton exists before locating boundaries.
	if !strings.Contains(lower, "<html") {
		markup = "<html><head></head><body>" + markup + "</body></html>"
		hasHead = true
		hasBody = true
	}

	if hasHead {
		markup, _ = insertAfter(markup, headOpenRE, styleBlock)
	} else {
		markup, _ = insertAfter(markup, htmlOpenRE, "<head>"+styleBlock+"</head>")
	}

	blocks := header + footer + injectedMarker
	switch {
	case hasBody:
		markup, _ = insertAfter(markup, bodyOpenRE, blocks)
	case strings.Contains(markup, "</head>"):
		// No body anywhere: open one right after the head and close it
		// at the end of the document.
		markup = strings.Replace(markup, "</head>", "</head><body>"+blocks, 1)
		markup += "</body>"
	default:
		// Head never closed: append the body at the end.
		markup += "<body>" + blocks + "</body>"
	}

	return markup, nil
}

// InjectBase inserts a <base> tag into the head so relative links
// resolve against the original source address. Used by the file-based
// fallback render path.
func InjectBase(markup, href string) string {
	baseTag := `<base href="` + html.EscapeString(href) + `">`
	if out, ok := insertAfter(markup, headOpenRE, baseTag); ok {
		return out
	}
	if out, ok := insertAfter(markup, htmlOpenRE, "<head>"+baseTag+"</head>"); ok {
		return out
	}
	return "<head>" + baseTag + "</head>" + markup
}

func (c *Composer) renderHeader(m meta.Metadata) (string, error) {
	date := m.Date
	if c.DateFormat != "" {
		formatted, err := dateutil.Reformat(m.Date, c.DateFormat)
		if err != nil {
			return "", fmt.Errorf("formatting header date: %w", err)
		}
		date = formatted
	}

	var buf bytes.Buffer
	if err := c.headerTmpl.Execute(&buf, headerData{
		Title:  m.Title,
		Author: m.Author,
		Date:   date,
	}); err != nil {
		return "", fmt.Errorf("rendering header: %w", err)
	}
	return buf.String(), nil
}

func (c *Composer) renderFooter(m meta.Metadata) (string, error) {
	var buf bytes.Buffer
	if err := c.footerTmpl.Execute(&buf, footerData{URL: m.URL}); err != nil {
		return "", fmt.Errorf("rendering footer: %w", err)
	}
	return buf.String(), nil
}

// insertAfter places insert immediately after the first match of re.
func insertAfter(markup string, re *regexp.Regexp, insert string) (string, bool) {
	loc := re.FindStringIndex(markup)
	if loc == nil {
		return markup, false
	}
	return markup[:loc[1]] + insert + markup[loc[1]:], true
}

// sanitizeCSS escapes sequences that could close the <style> block early.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
