package blogtopdf

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/KaparthyReddy/minimal-blog-to-pdf/internal/clean"
	"github.com/KaparthyReddy/minimal-blog-to-pdf/internal/fileutil"
	"github.com/KaparthyReddy/minimal-blog-to-pdf/internal/inject"
	"github.com/KaparthyReddy/minimal-blog-to-pdf/internal/meta"
)

// clutterRemover deletes ad and tracker subtrees from markup.
type clutterRemover interface {
	RemoveClutter(markup string) (string, error)
}

// layoutComposer repairs the document skeleton and injects the print
// style plus header/footer markup.
type layoutComposer interface {
	Compose(markup string, m meta.Metadata, extraCSS string) (string, error)
}

// Compile-time interface implementation checks.
var (
	_ clutterRemover = (*clean.Cleaner)(nil)
	_ layoutComposer = (*inject.Composer)(nil)
	_ Fetcher        = (*httpFetcher)(nil)
)

// Converter turns a web page address into a print-ready PDF. Each
// Converter owns one browser instance; use ConverterPool to serve
// concurrent requests. Create with NewConverter, convert with Convert,
// and Close when done.
type Converter struct {
	cfg      converterConfig
	log      zerolog.Logger
	fetcher  Fetcher
	cleaner  clutterRemover
	profiles []clean.Profile
	composer layoutComposer
	renderer pdfRenderer
	userCSS  string
}

// NewConverter creates a Converter with default configuration. Use
// options to customize behavior (e.g. WithFetchTimeout, WithUserCSS).
// Rule tables are built here once and are read-only afterwards.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			fetchTimeout:  defaultFetchTimeout,
			renderTimeout: defaultRenderTimeout,
			scriptDelay:   defaultScriptSettle,
			userAgent:     defaultUserAgent,
		},
		log:      zerolog.Nop(),
		cleaner:  clean.NewCleaner(),
		profiles: clean.DefaultProfiles(),
	}

	for _, opt := range opts {
		opt(c)
	}

	composer, err := inject.NewComposer()
	if err != nil {
		return nil, fmt.Errorf("initializing layout composer: %w", err)
	}
	composer.DateFormat = c.cfg.headerDateFormat
	c.composer = composer

	if c.cfg.cssPath != "" {
		content, err := os.ReadFile(c.cfg.cssPath) // #nosec G304 -- user-provided path
		if err != nil {
			return nil, fmt.Errorf("loading user CSS %q: %w", c.cfg.cssPath, err)
		}
		c.userCSS = string(content)
	}

	if c.fetcher == nil {
		c.fetcher = newHTTPFetcher(c.cfg.fetchTimeout, c.cfg.userAgent)
	}
	if c.renderer == nil {
		c.renderer = newRodRenderer(c.cfg.renderTimeout, c.cfg.scriptDelay)
	}

	return c, nil
}

// Convert runs the full pipeline for one address and returns the
// rendered PDF. Terminal failures are always a *ConversionError with a
// stable Kind; no other error class escapes this boundary. Heuristic
// cleanup stages never fail a request — on error they pass their input
// through unchanged.
func (c *Converter) Convert(ctx context.Context, address string) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = convErr(KindInternal, nil, "internal error: %v", r)
		}
	}()

	if verr := ValidateAddress(address); verr != nil {
		if errors.Is(verr, ErrMissingAddress) {
			return nil, convErr(KindMissingAddress, verr, "No URL provided")
		}
		return nil, convErr(KindFetchFailed, verr, "Failed to fetch blog: %v", verr)
	}

	c.log.Debug().Str("url", address).Msg("fetching content")
	markup, ferr := c.fetcher.Fetch(ctx, address)
	if ferr != nil {
		if errors.Is(ferr, ErrFetchTimeout) {
			return nil, convErr(KindFetchTimeout, ferr, "Request timed out while loading the blog.")
		}
		return nil, convErr(KindFetchFailed, ferr, "Failed to fetch blog: %v", ferr)
	}

	// Conservative ad removal; on failure keep the pre-stage markup.
	cleaned, cerr := c.cleaner.RemoveClutter(markup)
	if cerr != nil {
		c.log.Warn().Err(cerr).Msg("ad removal failed, continuing with original markup")
	}
	markup = cleaned

	// Platform-specific cleanup (Medium, WordPress, Blogspot, Substack).
	cleaned, cerr = clean.ApplyProfiles(markup, address, c.profiles)
	if cerr != nil {
		c.log.Warn().Err(cerr).Msg("platform cleanup failed, continuing with original markup")
	}
	markup = cleaned

	m := meta.Resolve(markup, address)
	c.log.Debug().
		Str("title", m.Title).
		Str("author", m.Author).
		Str("date", m.Date).
		Msg("resolved metadata")

	enriched, ierr := c.composer.Compose(markup, m, c.userCSS)
	if ierr != nil {
		return nil, convErr(KindInternal, ierr, "composing layout: %v", ierr)
	}

	res := &Result{
		HTML: []byte(enriched),
		Meta: m,
	}

	if c.cfg.htmlOnly {
		return res, nil
	}

	pdf, rerr := c.render(ctx, enriched, address)
	if rerr != nil {
		return nil, rerr
	}
	res.PDF = pdf
	return res, nil
}

// render submits the enriched markup to the rendering backend. The
// primary path hands the markup over in memory; a backend-level I/O
// failure (never a content error, never slowness) switches to the
// fallback path, which materializes the markup to a temp file with a
// base tag so relative links resolve against the source address. The
// temp file is removed before this function returns, whatever the
// outcome of the attempt.
func (c *Converter) render(ctx context.Context, markup, address string) ([]byte, error) {
	pdf, err := c.renderer.RenderFromHTML(ctx, markup)
	if err == nil {
		return pdf, nil
	}
	if !errors.Is(err, ErrBackendIO) {
		return nil, convErr(KindRenderFailed, err, "PDF generation failed: %v", err)
	}

	c.log.Warn().Err(err).Msg("in-memory render failed, falling back to file")

	tmpPath, cleanup, werr := fileutil.WriteTempFile(inject.InjectBase(markup, address), "html")
	if werr != nil {
		return nil, convErr(KindRenderFailed, werr, "preparing render fallback: %v", werr)
	}
	defer cleanup()

	pdf, err = c.renderer.RenderFromFile(ctx, tmpPath)
	if err != nil {
		return nil, convErr(KindRenderFailed, err, "PDF generation failed: %v", err)
	}
	return pdf, nil
}

// Close releases resources (the headless browser).
func (c *Converter) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}
