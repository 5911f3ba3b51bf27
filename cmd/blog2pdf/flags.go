package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
)

// serveFlags holds the command-line flags.
type serveFlags struct {
	config  string
	addr    string
	workers int
	verbose bool
	version bool
}

// parseFlags parses command-line flags from args (including the program
// name at args[0]).
func parseFlags(args []string) (*serveFlags, error) {
	fs := flag.NewFlagSet("blog2pdf", flag.ContinueOnError)
	f := &serveFlags{}

	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (overrides config)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "concurrent browser instances (0 = auto)")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "enable debug logging")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	fs.Usage = func() { printUsage(os.Stderr, fs) }

	if err := fs.Parse(args[1:]); err != nil {
		return nil, err
	}

	return f, nil
}

func printUsage(w *os.File, fs *flag.FlagSet) {
	fmt.Fprintln(w, "blog2pdf converts blog pages into clean, print-ready PDFs over HTTP.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  blog2pdf [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprint(w, fs.FlagUsages())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "API:")
	fmt.Fprintln(w, `  POST /convert  {"url": "https://example.com/post"}  -> application/pdf`)
	fmt.Fprintln(w, "  GET  /healthz")
}
