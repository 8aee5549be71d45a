package ports

import (
	"context"

	"github.com/kirillkom/zero-shot-classifier/internal/core/domain"
)

// Classifier runs one prediction against the remote hub.
type Classifier interface {
	Predict(ctx context.Context, req domain.ClassificationRequest) (domain.Result, error)
	LoadModel(ctx context.Context, endpoint, apiKey string) error
}

type PredictionPublisher interface {
	PublishPrediction(ctx context.Context, event domain.PredictionEvent) error
}

// PredictionRecorder receives per-call observations for metrics.
type PredictionRecorder interface {
	RecordPrediction(variant domain.Variant, status string, seconds float64)
	RecordLoadModel(variant domain.Variant, status string)
}
