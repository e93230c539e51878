// Command lilvworld creates an LV2 world and reports what it resolves.
//
// By default it materializes every well-known identifier, prints them with
// the plugin count, and exits. With -serve it keeps a world open and exposes
// Prometheus metrics and health endpoints until interrupted.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/gramotor/lilv-go/pkg/lilv"
	"github.com/gramotor/lilv-go/pkg/lilv/logging"
)

type flags struct {
	config  string
	schema  bool
	serve   string
	verbose bool
}

func parseFlags(args []string, stderr io.Writer) (flags, error) {
	var f flags
	fs := flag.NewFlagSet("lilvworld", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.config, "config", "", "world configuration JSON file")
	fs.BoolVar(&f.schema, "schema", false, "print the configuration JSON schema and exit")
	fs.StringVar(&f.serve, "serve", "", "keep a world open and serve /metrics, /live and /ready on this address")
	fs.BoolVar(&f.verbose, "v", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return flags{}, err
	}
	return f, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

func main() {
	f, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	zl, err := newLogger(f.verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &app{
		native: lilv.DefaultNative(),
		log:    logging.NewZap(zl),
		out:    os.Stdout,
	}
	if err := app.run(ctx, f); err != nil {
		zl.Error("lilvworld failed", zap.Error(err))
		stop()
		_ = zl.Sync()
		os.Exit(1)
	}
}

type app struct {
	native lilv.Native
	log    logging.Logger
	out    io.Writer
}

func (a *app) run(ctx context.Context, f flags) error {
	a.log.Info(ctx, "starting",
		"version", lilv.WrapperVersion(),
		"native", lilv.NativeVersion(),
		"built", lilv.NativeBuilt(),
	)

	if f.schema {
		schema, err := lilv.ConfigSchema()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(a.out, string(schema))
		return err
	}

	var cfg lilv.Config
	if f.config != "" {
		var err error
		if cfg, err = LoadConfig(f.config); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}

	if f.serve != "" {
		return a.serve(ctx, f.serve, cfg)
	}
	return a.probe(ctx, cfg)
}

// probe creates a world, resolves every identifier and prints the result.
func (a *app) probe(ctx context.Context, cfg lilv.Config) (err error) {
	w, err := lilv.NewWorldWithConfig(ctx, cfg, lilv.WithNative(a.native), lilv.WithLogger(a.log))
	if err != nil {
		if errors.Is(err, lilv.ErrNotBuilt) {
			_, werr := fmt.Fprintf(a.out, "lilv unavailable: %v\n", err)
			return werr
		}
		return err
	}
	defer func() { err = multierr.Append(err, w.Close()) }()

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tNAME\tURI\tSTATUS")
	for _, id := range lilv.Identifiers() {
		status := "ok"
		if _, nerr := w.Node(id); nerr != nil {
			a.log.Warn(ctx, "identifier unresolved", "identifier", id.String(), "error", nerr)
			status = "unresolved"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", int(id), id, id.URI(), status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	count, err := w.PluginCount()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.out, "plugins: %d\nnodes cached: %d\n", count, w.Cached())
	return err
}
