package blogtopdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// pdfRenderer abstracts the rendering backend to enable testing without
// a browser. RenderFromHTML is the primary (in-memory) path;
// RenderFromFile is the fallback path fed by a temp file.
type pdfRenderer interface {
	RenderFromHTML(ctx context.Context, markup string) ([]byte, error)
	RenderFromFile(ctx context.Context, filePath string) ([]byte, error)
	Close() error
}

// Compile-time interface check.
var _ pdfRenderer = (*rodRenderer)(nil)

// A4 page dimensions in inches, with margins matching the space the
// layout composer reserves for the injected header and footer
// (40mm top, 30mm bottom, 20mm sides).
const (
	mmPerInch = 25.4

	paperWidthInches  = 210.0 / mmPerInch
	paperHeightInches = 297.0 / mmPerInch

	marginTopInches    = 40.0 / mmPerInch
	marginBottomInches = 30.0 / mmPerInch
	marginSideInches   = 20.0 / mmPerInch
)

// Default render bounds; overridable via converter options.
const (
	defaultRenderTimeout = 60 * time.Second
	defaultScriptSettle  = 1500 * time.Millisecond
)

// rodRenderer implements pdfRenderer using go-rod headless Chrome.
// Rod automatically downloads Chromium on first run if not found.
type rodRenderer struct {
	browser     *rod.Browser
	timeout     time.Duration
	scriptDelay time.Duration
}

// newRodRenderer creates a rodRenderer with the given page-load timeout
// and post-load script-settle delay.
func newRodRenderer(timeout, scriptDelay time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout, scriptDelay: scriptDelay}
}

// ensureBrowser lazily connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.browser = rod.New().ControlURL(u)
	if err := r.browser.Connect(); err != nil {
		r.browser = nil
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return nil
}

// Close releases browser resources.
func (r *rodRenderer) Close() error {
	if r.browser != nil {
		err := r.browser.Close()
		r.browser = nil
		return err
	}
	return nil
}

// RenderFromHTML hands the markup to the browser in memory and renders
// it to PDF. Browser connect, page create, and content handoff failures
// wrap ErrBackendIO and trigger the caller's fallback path; failures
// after the content is in the page are fatal.
func (r *rodRenderer) RenderFromHTML(ctx context.Context, markup string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendIO, err)
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendIO, errors.Join(ErrPageCreate, err))
	}
	defer func() { _ = page.Close() }()

	if err := page.SetDocumentContent(markup); err != nil {
		return nil, fmt.Errorf("%w: setting document content: %v", ErrBackendIO, err)
	}

	return r.printPage(ctx, page)
}

// RenderFromFile opens a local HTML file in the browser and renders it
// to PDF. Used by the fallback path where the temp file carries a base
// tag so relative sub-resources resolve against the source address.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	return r.printPage(ctx, page)
}

// printPage waits for the page to settle and prints it with the fixed
// option set. Broken sub-resources do not fail the load; Chrome renders
// whatever arrived before the deadline.
func (r *rodRenderer) printPage(ctx context.Context, page *rod.Page) ([]byte, error) {
	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	// Fixed settle delay so late-running scripts finish laying out
	// before printing.
	if r.scriptDelay > 0 {
		select {
		case <-time.After(r.scriptDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	reader, err := page.PDF(&proto.PagePrintToPDF{
		PaperWidth:      floatPtr(paperWidthInches),
		PaperHeight:     floatPtr(paperHeightInches),
		MarginTop:       floatPtr(marginTopInches),
		MarginBottom:    floatPtr(marginBottomInches),
		MarginLeft:      floatPtr(marginSideInches),
		MarginRight:     floatPtr(marginSideInches),
		PrintBackground: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}

	return pdfBuf, nil
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
