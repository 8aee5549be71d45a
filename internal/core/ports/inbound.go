package ports

import (
	"context"

	"github.com/kirillkom/zero-shot-classifier/internal/core/domain"
)

// Form is the raw user input, exactly as typed.
type Form struct {
	EndpointSuffix string `json:"endpoint"`
	APIKey         string `json:"api_key"`
	Text           string `json:"text"`
	Classes        string `json:"classes"`
}

// Snapshot is the session state seen by a front end. Alert is set only on
// the snapshot returned by the Predict call that failed.
type Snapshot struct {
	Variant  domain.Variant `json:"variant"`
	Endpoint string         `json:"endpoint"`
	Status   string         `json:"status"`
	Loading  bool           `json:"loading"`
	Alert    string         `json:"alert,omitempty"`
	Result   domain.Result  `json:"result"`
}

// PredictionSession is the inbound contract used by the front ends.
type PredictionSession interface {
	Predict(ctx context.Context, form Form) (Snapshot, error)
	LoadModel(ctx context.Context, form Form) (Snapshot, error)
	Snapshot() Snapshot
}
