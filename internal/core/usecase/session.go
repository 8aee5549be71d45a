package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/zero-shot-classifier/internal/core/domain"
	"github.com/kirillkom/zero-shot-classifier/internal/core/ports"
)

const (
	StatusInference = "⏳ The model is performing inference"
	StatusLoading   = "🚧 Loading Model into Memory, Please Wait for around 30 seconds..."
	StatusReady     = "⚡ Model is Ready"
)

type SessionConfig struct {
	Variant domain.Variant
	BaseURL string
	// APIKey is used when a form arrives with an empty key.
	APIKey    string
	Publisher ports.PredictionPublisher
	Recorder  ports.PredictionRecorder
}

// Session owns the front end state: status and the last result.
// At most one hub call runs at a time; a second call while loading is
// rejected with domain.ErrBusy. A failure alert belongs to the call that
// failed and is never part of the stored state.
type Session struct {
	classifier ports.Classifier
	cfg        SessionConfig

	loading atomic.Bool

	mu       sync.RWMutex
	status   string
	endpoint string
	result   domain.Result
}

func NewSession(classifier ports.Classifier, cfg SessionConfig) *Session {
	if cfg.Variant == "" {
		cfg.Variant = domain.VariantDirect
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = domain.DefaultBaseURL
	}
	return &Session{
		classifier: classifier,
		cfg:        cfg,
		endpoint:   domain.ResolveEndpoint(cfg.Variant, cfg.BaseURL, ""),
	}
}

// Predict runs one classification. Failures are logged and reported once
// through the returned snapshot's Alert; the previous result stays in place.
func (s *Session) Predict(ctx context.Context, form ports.Form) (ports.Snapshot, error) {
	if !s.loading.CompareAndSwap(false, true) {
		return s.Snapshot(), fmt.Errorf("predict: %w", domain.ErrBusy)
	}
	alert := s.predict(ctx, form)
	snap := s.Snapshot()
	snap.Alert = alert
	return snap, nil
}

func (s *Session) predict(ctx context.Context, form ports.Form) string {
	defer s.finish()

	endpoint := domain.ResolveEndpoint(s.cfg.Variant, s.cfg.BaseURL, form.EndpointSuffix)
	s.begin(StatusInference, endpoint)

	req := domain.BuildRequest(s.cfg.Variant, endpoint, s.apiKey(form), form.Text, form.Classes)

	// The hub call is not abortable once fired.
	callCtx := context.WithoutCancel(ctx)
	start := time.Now()
	result, err := s.classifier.Predict(callCtx, req)
	elapsed := time.Since(start)
	if err != nil {
		slog.Error("predict_failed",
			"endpoint", endpoint,
			"variant", string(s.cfg.Variant),
			"error", err,
		)
		s.record(func(r ports.PredictionRecorder) {
			r.RecordPrediction(s.cfg.Variant, "error", elapsed.Seconds())
		})
		return s.cfg.Variant.AlertMessage()
	}

	s.mu.Lock()
	s.result = result
	s.mu.Unlock()
	s.record(func(r ports.PredictionRecorder) {
		r.RecordPrediction(s.cfg.Variant, "ok", elapsed.Seconds())
	})
	s.publish(callCtx, req, result, elapsed)
	return ""
}

// LoadModel warms the remote model up. Failures are only logged.
func (s *Session) LoadModel(ctx context.Context, form ports.Form) (ports.Snapshot, error) {
	if !s.loading.CompareAndSwap(false, true) {
		return s.Snapshot(), fmt.Errorf("load model: %w", domain.ErrBusy)
	}
	s.loadModel(ctx, form)
	return s.Snapshot(), nil
}

func (s *Session) loadModel(ctx context.Context, form ports.Form) {
	defer s.finish()

	endpoint := domain.ResolveEndpoint(s.cfg.Variant, s.cfg.BaseURL, form.EndpointSuffix)
	s.begin(StatusLoading, endpoint)

	status := "ok"
	if err := s.classifier.LoadModel(context.WithoutCancel(ctx), endpoint, s.apiKey(form)); err != nil {
		status = "error"
		slog.Warn("load_model_failed", "endpoint", endpoint, "error", err)
	}
	s.record(func(r ports.PredictionRecorder) {
		r.RecordLoadModel(s.cfg.Variant, status)
	})
}

func (s *Session) Snapshot() ports.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result domain.Result
	if s.result != nil {
		result = make(domain.Result, len(s.result))
		copy(result, s.result)
	}
	return ports.Snapshot{
		Variant:  s.cfg.Variant,
		Endpoint: s.endpoint,
		Status:   s.status,
		Loading:  s.loading.Load(),
		Result:   result,
	}
}

func (s *Session) begin(status, endpoint string) {
	s.mu.Lock()
	s.status = status
	s.endpoint = endpoint
	s.mu.Unlock()
}

func (s *Session) apiKey(form ports.Form) string {
	if form.APIKey == "" {
		return s.cfg.APIKey
	}
	return form.APIKey
}

func (s *Session) finish() {
	s.mu.Lock()
	s.status = StatusReady
	s.mu.Unlock()
	s.loading.Store(false)
}

func (s *Session) record(fn func(ports.PredictionRecorder)) {
	if s.cfg.Recorder != nil {
		fn(s.cfg.Recorder)
	}
}

func (s *Session) publish(ctx context.Context, req domain.ClassificationRequest, result domain.Result, elapsed time.Duration) {
	if s.cfg.Publisher == nil {
		return
	}
	event := domain.PredictionEvent{
		ID:         uuid.NewString(),
		Variant:    req.Variant,
		Endpoint:   req.Endpoint,
		Classes:    req.Classes,
		Result:     result,
		DurationMS: float64(elapsed.Microseconds()) / 1000.0,
		At:         time.Now().UTC(),
	}
	if err := s.cfg.Publisher.PublishPrediction(ctx, event); err != nil {
		slog.Warn("publish_prediction_failed", "event_id", event.ID, "error", err)
	}
}
