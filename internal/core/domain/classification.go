package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Variant selects the request envelope, response envelope and display
// rules of a hub deployment.
type Variant string

const (
	// VariantSynchronous posts to the shared synchronous endpoint with a
	// service_id wrapper and receives a string-encoded body.
	VariantSynchronous Variant = "synchronous"
	// VariantDirect posts to a per-user API path and receives a structured body.
	VariantDirect Variant = "direct"
)

func ParseVariant(raw string) (Variant, error) {
	switch Variant(raw) {
	case VariantSynchronous, VariantDirect:
		return Variant(raw), nil
	default:
		return "", WrapError(ErrInvalidInput, "parse variant", fmt.Errorf("unknown variant %q", raw))
	}
}

// AlertMessage is the user-facing text shown when a prediction fails.
func (v Variant) AlertMessage() string {
	if v == VariantSynchronous {
		return "Please Retry!"
	}
	return "Something went wrong! Please try again."
}

type ClassificationRequest struct {
	Variant  Variant  `json:"variant"`
	Endpoint string   `json:"endpoint"`
	APIKey   string   `json:"-"`
	Text     string   `json:"text"`
	Classes  []string `json:"classes"`
}

// Pair is one (label, probability) tuple. On the wire it is a two
// element array: ["Science", 0.8].
type Pair struct {
	Label       string
	Probability float64
}

func (p Pair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{p.Label, p.Probability})
}

func (p *Pair) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("pair: %w", err)
	}
	if len(raw) != 2 {
		return fmt.Errorf("pair: expected 2 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &p.Label); err != nil {
		return fmt.Errorf("pair label: %w", err)
	}
	if err := json.Unmarshal(raw[1], &p.Probability); err != nil {
		return fmt.Errorf("pair probability: %w", err)
	}
	return nil
}

// Result keeps the provider's order, which is also display order.
type Result []Pair

// PredictionEvent is published after a successful prediction. It never
// carries the API key or the input text.
type PredictionEvent struct {
	ID         string    `json:"id"`
	Variant    Variant   `json:"variant"`
	Endpoint   string    `json:"endpoint"`
	Classes    []string  `json:"classes"`
	Result     Result    `json:"result"`
	DurationMS float64   `json:"duration_ms"`
	At         time.Time `json:"at"`
}
