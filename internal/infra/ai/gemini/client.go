package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	domai "github.com/bryanwahyu/scamlens/internal/domain/ai"
)

const defaultModel = "gemini-2.5-flash"

// Client talks to the Gemini generateContent API.
type Client struct {
	apiKey string
	model  string
}

func NewClient(apiKey, model string) *Client {
	return &Client{apiKey: strings.TrimSpace(apiKey), model: strings.TrimSpace(model)}
}

// Generate sends the prompt (plus an optional inline image) and returns the
// first text part of the first candidate.
func (c *Client) Generate(ctx context.Context, prompt string, img *domai.Image) (string, error) {
	if c.apiKey == "" {
		return "", domai.ErrMissingAPIKey
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return "", err
	}
	defer cl.Close()

	model := c.model
	if model == "" {
		model = defaultModel
	}
	m := cl.GenerativeModel(model)
	// Low temperature and forced JSON output; the normalizer still copes when
	// the model mixes prose in anyway.
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0.2),
		ResponseMIMEType: "application/json",
	}

	parts := []genai.Part{genai.Text(prompt)}
	if img != nil && len(img.Data) > 0 {
		mime := img.MIMEType
		if mime == "" {
			mime = "image/jpeg"
		}
		parts = append(parts, &genai.Blob{MIMEType: mime, Data: img.Data})
	}

	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return "", classifyErr(err)
	}
	return firstText(resp), nil
}

// classifyErr maps rate-limit responses to the domain sentinel so callers can
// distinguish quota exhaustion from transport failures.
func classifyErr(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %v", domai.ErrQuotaExceeded, err)
	}
	return fmt.Errorf("gemini generate: %w", err)
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
