package hub

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kirillkom/zero-shot-classifier/internal/core/domain"
)

// NormalizeFunc turns a raw hub response into the ordered pair list.
type NormalizeFunc func(raw json.RawMessage) (domain.Result, error)

func Normalizer(variant domain.Variant) NormalizeFunc {
	if variant == domain.VariantSynchronous {
		return NormalizeDoubleEncoded
	}
	return NormalizeDirect
}

// NormalizeDoubleEncoded unwraps {"body": "<json>"} whose decoded object
// holds {"output": "<json>"}, and decodes the pairs from the inner string.
func NormalizeDoubleEncoded(raw json.RawMessage) (domain.Result, error) {
	var envelope struct {
		Body *string `json:"body"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, malformed("decode envelope", err)
	}
	if envelope.Body == nil {
		return nil, malformed("decode envelope", errors.New(`missing "body"`))
	}

	var body struct {
		Output *string `json:"output"`
	}
	if err := json.Unmarshal([]byte(*envelope.Body), &body); err != nil {
		return nil, malformed("decode body", err)
	}
	if body.Output == nil {
		return nil, malformed("decode body", errors.New(`missing "output"`))
	}

	return decodePairs([]byte(*body.Output))
}

// NormalizeDirect reads {"body": {"output": [[label, probability], ...]}}.
func NormalizeDirect(raw json.RawMessage) (domain.Result, error) {
	var envelope struct {
		Body *struct {
			Output json.RawMessage `json:"output"`
		} `json:"body"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, malformed("decode envelope", err)
	}
	if envelope.Body == nil {
		return nil, malformed("decode envelope", errors.New(`missing "body"`))
	}
	if len(envelope.Body.Output) == 0 {
		return nil, malformed("decode body", errors.New(`missing "output"`))
	}

	return decodePairs(envelope.Body.Output)
}

func decodePairs(data []byte) (domain.Result, error) {
	var result domain.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, malformed("decode output", err)
	}
	if result == nil {
		return nil, malformed("decode output", fmt.Errorf("output is %s", data))
	}
	return result, nil
}

func malformed(operation string, err error) error {
	return domain.WrapError(domain.ErrMalformedResponse, operation, err)
}
