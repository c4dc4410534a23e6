package ai

import "context"

// Image is inline image data forwarded to the model alongside the prompt.
type Image struct {
	MIMEType string
	Data     []byte
}

// Client is the port every model provider implements. Generate sends one
// prompt (plus an optional inline image) and returns the raw completion text.
type Client interface {
	Generate(ctx context.Context, prompt string, img *Image) (string, error)
}
