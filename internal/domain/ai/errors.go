package ai

import "errors"

// ErrMissingAPIKey indicates the provider was constructed without an API key.
var ErrMissingAPIKey = errors.New("missing GEMINI_API_KEY")

// ErrQuotaExceeded indicates the provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")
