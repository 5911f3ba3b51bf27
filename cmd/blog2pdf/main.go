// Command blog2pdf runs the blog-to-PDF conversion service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/automaxprocs/maxprocs"

	blogtopdf "github.com/KaparthyReddy/minimal-blog-to-pdf"
	"github.com/KaparthyReddy/minimal-blog-to-pdf/internal/config"
	"github.com/KaparthyReddy/minimal-blog-to-pdf/internal/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags, err := parseFlags(args)
	if err != nil {
		return err
	}

	if flags.version {
		fmt.Println("blog2pdf", Version)
		return nil
	}

	log := newLogger(flags.verbose)

	// Align GOMAXPROCS with container CPU limits. Failure only means the
	// GOMAXPROCS env var is invalid; runtime defaults apply.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, a ...interface{}) {
		log.Debug().Msgf(format, a...)
	}))

	cfg := config.DefaultConfig()
	if flags.config != "" {
		cfg, err = config.LoadConfig(flags.config)
		if err != nil {
			return err
		}
	}
	if flags.addr != "" {
		cfg.Server.Addr = flags.addr
	}
	if flags.workers > 0 {
		cfg.Workers = flags.workers
	}

	opts := []blogtopdf.Option{
		blogtopdf.WithLogger(log),
		blogtopdf.WithFetchTimeout(time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second),
		blogtopdf.WithRenderTimeout(time.Duration(cfg.Render.TimeoutSeconds) * time.Second),
		blogtopdf.WithScriptDelay(time.Duration(cfg.Render.ScriptDelayMs) * time.Millisecond),
		blogtopdf.WithUserAgent(cfg.Fetch.UserAgent),
	}
	if cfg.Style.CSSPath != "" {
		opts = append(opts, blogtopdf.WithUserCSS(cfg.Style.CSSPath))
	}
	if cfg.Style.HeaderDateFormat != "" {
		opts = append(opts, blogtopdf.WithHeaderDateFormat(cfg.Style.HeaderDateFormat))
	}

	poolSize := blogtopdf.ResolvePoolSize(cfg.Workers)
	pool := blogtopdf.NewConverterPool(poolSize, opts...)
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("closing converter pool")
		}
	}()
	log.Info().Int("workers", poolSize).Msg("converter pool ready")

	srv := server.New(cfg.Server.Addr, pool, log)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		return srv.Shutdown(context.Background())
	}
}

// newLogger builds a console logger writing to stderr.
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
