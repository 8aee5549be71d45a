package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/kirillkom/zero-shot-classifier/internal/config"
	"github.com/kirillkom/zero-shot-classifier/internal/core/domain"
	"github.com/kirillkom/zero-shot-classifier/internal/core/ports"
	"github.com/kirillkom/zero-shot-classifier/internal/core/usecase"
	natsevents "github.com/kirillkom/zero-shot-classifier/internal/infrastructure/events/nats"
	"github.com/kirillkom/zero-shot-classifier/internal/infrastructure/hub"
	"github.com/kirillkom/zero-shot-classifier/internal/infrastructure/resilience"
	"github.com/kirillkom/zero-shot-classifier/internal/observability/metrics"
	"github.com/kirillkom/zero-shot-classifier/internal/presenter"
)

type App struct {
	Config  config.Config
	Variant domain.Variant

	Hub       *hub.Client
	Session   *usecase.Session
	Presenter *presenter.Presenter
	Metrics   *metrics.HTTPServerMetrics

	closeFn func()
}

func New(cfg config.Config, service string) (*App, error) {
	variant, err := domain.ParseVariant(cfg.HubVariant)
	if err != nil {
		return nil, fmt.Errorf("hub variant: %w", err)
	}

	palette := presenter.DefaultPalette
	if cfg.PaletteFile != "" {
		palette, err = presenter.LoadPalette(cfg.PaletteFile)
		if err != nil {
			return nil, fmt.Errorf("load palette: %w", err)
		}
	}

	policy := resilience.DefaultConfig()
	policy.MaxAttempts = cfg.RetryMaxAttempts
	policy.InitialBackoff = cfg.RetryInitialBackoff
	policy.BreakerEnabled = cfg.BreakerEnabled

	executor := resilience.NewExecutor(policy)
	client := hub.New(hub.Options{
		Timeout:  cfg.HubTimeout,
		Executor: executor,
	})
	m := metrics.NewHTTPServerMetrics(service)

	var (
		publisher ports.PredictionPublisher
		closeFn   func()
	)
	if cfg.NATSURL != "" {
		p, err := natsevents.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, natsevents.Options{
			ResilienceExecutor: executor,
		})
		if err != nil {
			return nil, fmt.Errorf("init prediction publisher: %w", err)
		}
		publisher = p
		closeFn = p.Close
	} else {
		slog.Info("prediction_events_disabled")
	}

	session := usecase.NewSession(client, usecase.SessionConfig{
		Variant:   variant,
		BaseURL:   cfg.HubBaseURL,
		APIKey:    cfg.HubAPIKey,
		Publisher: publisher,
		Recorder:  m,
	})

	return &App{
		Config:    cfg,
		Variant:   variant,
		Hub:       client,
		Session:   session,
		Presenter: presenter.New(palette, presenter.RandomPicker),
		Metrics:   m,
		closeFn:   closeFn,
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
