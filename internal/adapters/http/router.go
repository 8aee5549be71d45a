package httpadapter

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/kirillkom/zero-shot-classifier/internal/config"
	"github.com/kirillkom/zero-shot-classifier/internal/core/ports"
	"github.com/kirillkom/zero-shot-classifier/internal/observability/metrics"
	"github.com/kirillkom/zero-shot-classifier/internal/presenter"
)

//go:embed assets/index.html assets/openapi.yaml
var assets embed.FS

type Router struct {
	cfg       config.Config
	session   ports.PredictionSession
	presenter *presenter.Presenter
	metrics   *metrics.HTTPServerMetrics
	page      *template.Template
	validator *requestValidator
}

func NewRouter(
	cfg config.Config,
	session ports.PredictionSession,
	present *presenter.Presenter,
	m *metrics.HTTPServerMetrics,
) (*Router, error) {
	page, err := template.ParseFS(assets, "assets/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	validator, err := newRequestValidator()
	if err != nil {
		return nil, err
	}
	if present == nil {
		present = presenter.New(nil, nil)
	}
	return &Router{
		cfg:       cfg,
		session:   session,
		presenter: present,
		metrics:   m,
		page:      page,
		validator: validator,
	}, nil
}

func (rt *Router) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("POST /v1/predict", rt.predictJSON)
	api.HandleFunc("POST /v1/load-model", rt.loadModelJSON)
	api.HandleFunc("GET /v1/state", rt.stateJSON)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("GET /{$}", rt.index)
	mux.HandleFunc("POST /predict", rt.predictForm)
	mux.HandleFunc("POST /load-model", rt.loadModelForm)
	mux.Handle("/v1/", rt.validator.middleware(api))
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(handler)
	}
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
