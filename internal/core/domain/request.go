package domain

import "strings"

const (
	DefaultBaseURL = "https://api.cellstrathub.com/"
	SynchronousURL = "https://api.cellstrathub.com/synchronous"
)

// SplitClasses splits the raw class field on commas. Whitespace is kept
// and empty segments are not dropped.
func SplitClasses(raw string) []string {
	return strings.Split(raw, ",")
}

// ResolveEndpoint returns the URL a request is sent to. The synchronous
// variant always uses the shared endpoint; the direct variant appends the
// user's suffix to baseURL as typed.
func ResolveEndpoint(variant Variant, baseURL, suffix string) string {
	if variant == VariantSynchronous {
		return SynchronousURL
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return baseURL + suffix
}

// BuildRequest assembles a request from form input. Nothing is validated:
// empty text, classes or key are sent as they are.
func BuildRequest(variant Variant, endpoint, apiKey, text, classesRaw string) ClassificationRequest {
	return ClassificationRequest{
		Variant:  variant,
		Endpoint: endpoint,
		APIKey:   apiKey,
		Text:     text,
		Classes:  SplitClasses(classesRaw),
	}
}
