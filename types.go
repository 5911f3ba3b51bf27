package blogtopdf

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/KaparthyReddy/minimal-blog-to-pdf/internal/meta"
)

// Result holds the outcome of a conversion. HTML is the enriched
// intermediate markup, kept for debugging; PDF is empty when the
// converter runs in HTML-only mode.
type Result struct {
	PDF  []byte
	HTML []byte
	Meta meta.Metadata
}

// converterConfig holds converter construction settings.
type converterConfig struct {
	fetchTimeout     time.Duration
	renderTimeout    time.Duration
	scriptDelay      time.Duration
	userAgent        string
	cssPath          string
	headerDateFormat string
	htmlOnly         bool
}

// Default converter settings.
const (
	defaultFetchTimeout = 15 * time.Second
	defaultUserAgent    = "Mozilla/5.0"
)

// Option customizes a Converter.
type Option func(*Converter)

// WithFetchTimeout bounds the source page fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Converter) { c.cfg.fetchTimeout = d }
}

// WithRenderTimeout bounds the browser page load during rendering.
func WithRenderTimeout(d time.Duration) Option {
	return func(c *Converter) { c.cfg.renderTimeout = d }
}

// WithScriptDelay sets the fixed settle delay after page load, giving
// late-running scripts time to finish before printing.
func WithScriptDelay(d time.Duration) Option {
	return func(c *Converter) { c.cfg.scriptDelay = d }
}

// WithUserAgent sets the User-Agent header sent on fetches.
func WithUserAgent(ua string) Option {
	return func(c *Converter) { c.cfg.userAgent = ua }
}

// WithUserCSS appends the style sheet at path after the built-in print
// style. The file is read once at construction.
func WithUserCSS(path string) Option {
	return func(c *Converter) { c.cfg.cssPath = path }
}

// WithHeaderDateFormat renders the header date using friendly tokens
// (e.g. "MMMM D, YYYY") or a preset name (iso, european, us, long).
func WithHeaderDateFormat(format string) Option {
	return func(c *Converter) { c.cfg.headerDateFormat = format }
}

// WithHTMLOnly skips PDF rendering; Result.PDF stays empty. Useful for
// debugging the transformation pipeline without a browser.
func WithHTMLOnly() Option {
	return func(c *Converter) { c.cfg.htmlOnly = true }
}

// WithFetcher replaces the production HTTP fetcher.
func WithFetcher(f Fetcher) Option {
	return func(c *Converter) { c.fetcher = f }
}

// WithLogger sets the logger used for stage-local diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Converter) { c.log = log }
}
