// Package blogtopdf converts web pages into clean, print-ready PDF
// documents using headless Chrome.
//
// # Quick Start
//
// Create a converter, convert an address, and close when done:
//
//	conv, err := blogtopdf.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, "https://example.com/post")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("blog.pdf", result.PDF, 0644)
//
// The result contains both the PDF bytes (result.PDF) and the enriched
// intermediate HTML (result.HTML) for debugging. Use WithHTMLOnly to
// skip PDF generation.
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Fetch the page over HTTP (bounded by a fixed timeout)
//  2. Heuristic ad/tracker removal (conservative, best-effort)
//  3. Platform-specific cleanup (Medium, WordPress, Blogspot, Substack)
//  4. Metadata resolution (title, author, date, canonical URL)
//  5. Header/footer and style injection for paginated printing
//  6. PDF rendering via headless Chrome (go-rod), with a file-based
//     fallback path when the in-memory handoff fails
//
// Steps 2-4 never fail a request: on any internal error the stage
// passes its input through unchanged and the pipeline continues.
//
// # Errors
//
// Terminal failures are reported as *ConversionError carrying a stable
// Kind (KindMissingAddress, KindFetchTimeout, KindFetchFailed,
// KindRenderFailed, KindInternal) so serving layers can map them to
// transport status codes.
//
// # Parallel Processing
//
// Each Converter owns one browser instance. For concurrent requests,
// use ConverterPool to bound the number of live browsers:
//
//	pool := blogtopdf.NewConverterPool(4)
//	defer pool.Close()
//
//	conv, err := pool.Acquire()
//	defer pool.Release(conv)
//	result, err := conv.Convert(ctx, address)
//
// # Browser Requirements
//
// PDF generation requires Chrome/Chromium. The go-rod library
// automatically downloads a managed Chromium instance on first run.
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable
// the Chrome sandbox and ROD_BROWSER_BIN to use a custom binary.
package blogtopdf
