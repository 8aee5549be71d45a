package hub

import "github.com/kirillkom/zero-shot-classifier/internal/core/domain"

const ZeroShotServiceID = "zero-shot"

type predictInput struct {
	Text    string   `json:"text"`
	Classes []string `json:"classes"`
}

type synchronousPayload struct {
	ServiceID string       `json:"service_id"`
	Input     predictInput `json:"input"`
}

func requestBody(req domain.ClassificationRequest) any {
	input := predictInput{Text: req.Text, Classes: req.Classes}
	if req.Variant == domain.VariantSynchronous {
		return synchronousPayload{ServiceID: ZeroShotServiceID, Input: input}
	}
	return input
}
