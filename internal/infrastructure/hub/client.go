package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/kirillkom/zero-shot-classifier/internal/core/domain"
	"github.com/kirillkom/zero-shot-classifier/internal/infrastructure/resilience"
)

type Options struct {
	// Timeout bounds a whole call. Zero means no timeout.
	Timeout    time.Duration
	HTTPClient *http.Client
	Executor   *resilience.Executor
}

type Client struct {
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		httpClient: httpClient,
		executor:   opts.Executor,
	}
}

// Predict sends req and returns the normalized pairs in provider order.
func (c *Client) Predict(ctx context.Context, req domain.ClassificationRequest) (domain.Result, error) {
	start := time.Now()
	normalize := Normalizer(req.Variant)

	result, err := resilience.Do(ctx, c.executor, "hub.predict", func(ctx context.Context) (domain.Result, error) {
		var raw json.RawMessage
		if err := c.postJSON(ctx, req.Endpoint, req.APIKey, requestBody(req), &raw, "predict"); err != nil {
			return nil, err
		}
		return normalize(raw)
	}, classifyHubError)
	if err != nil {
		slog.Error("hub_predict_failed",
			"endpoint", req.Endpoint,
			"variant", string(req.Variant),
			"elapsed_ms", msSince(start),
			"error", err,
		)
		return nil, wrapTemporaryIfNeeded("hub predict", err)
	}

	slog.Info("hub_predict",
		"endpoint", req.Endpoint,
		"variant", string(req.Variant),
		"classes", len(req.Classes),
		"pairs", len(result),
		"elapsed_ms", msSince(start),
	)
	return result, nil
}

// LoadModel issues the warm-up GET. The response body is only logged.
func (c *Client) LoadModel(ctx context.Context, endpoint, apiKey string) error {
	start := time.Now()
	_, err := resilience.Do(ctx, c.executor, "hub.load_model", func(ctx context.Context) (json.RawMessage, error) {
		var raw json.RawMessage
		if err := c.getJSON(ctx, endpoint, apiKey, &raw, "load model"); err != nil {
			return nil, err
		}
		slog.Debug("hub_load_model_response", "endpoint", endpoint, "body", preview(raw))
		return raw, nil
	}, classifyHubError)
	if err != nil {
		slog.Warn("hub_load_model_failed", "endpoint", endpoint, "elapsed_ms", msSince(start), "error", err)
		return wrapTemporaryIfNeeded("hub load model", err)
	}
	slog.Info("hub_load_model", "endpoint", endpoint, "elapsed_ms", msSince(start))
	return nil
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}

func preview(raw []byte) string {
	if len(raw) > 200 {
		return string(raw[:200])
	}
	return string(raw)
}
