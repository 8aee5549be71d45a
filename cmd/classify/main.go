// Command classify runs a single load-model or prediction call against the
// hub and prints the rendered badges.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kirillkom/zero-shot-classifier/internal/bootstrap"
	"github.com/kirillkom/zero-shot-classifier/internal/config"
	"github.com/kirillkom/zero-shot-classifier/internal/core/ports"
	"github.com/kirillkom/zero-shot-classifier/internal/observability/logging"
	"github.com/kirillkom/zero-shot-classifier/internal/presenter"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.New("zsc-classify", cfg.LogLevel, cfg.LogFormat))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, cfg, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, cfg config.Config, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("classify", flag.ContinueOnError)
	fs.SetOutput(stderr)
	variant := fs.String("variant", cfg.HubVariant, "hub variant: synchronous or direct")
	endpoint := fs.String("endpoint", cfg.HubEndpointSuffix, "endpoint suffix (username/api-name), direct variant only")
	key := fs.String("key", cfg.HubAPIKey, "hub API key")
	text := fs.String("text", "", "text to classify")
	classes := fs.String("classes", "", "comma-separated candidate labels")
	load := fs.Bool("load", false, "load the model into memory instead of predicting")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	cfg.HubVariant = *variant
	// One-shot runs never publish.
	cfg.NATSURL = ""

	app, err := bootstrap.New(cfg, "classify")
	if err != nil {
		fmt.Fprintf(stderr, "bootstrap: %v\n", err)
		return 1
	}
	defer app.Close()

	form := ports.Form{
		EndpointSuffix: *endpoint,
		APIKey:         *key,
		Text:           *text,
		Classes:        *classes,
	}

	var snap ports.Snapshot
	if *load {
		snap, err = app.Session.LoadModel(ctx, form)
	} else {
		snap, err = app.Session.Predict(ctx, form)
	}
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	return printSnapshot(stdout, stderr, snap, app.Presenter.Present(snap.Variant, snap.Result))
}

func printSnapshot(stdout, stderr io.Writer, snap ports.Snapshot, units []presenter.DisplayUnit) int {
	fmt.Fprintln(stdout, snap.Status)
	if snap.Alert != "" {
		fmt.Fprintln(stderr, snap.Alert)
		return 1
	}
	for _, u := range units {
		fmt.Fprintln(stdout, u.Badge)
	}
	return 0
}
