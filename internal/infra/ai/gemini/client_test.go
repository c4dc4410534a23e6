package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"google.golang.org/api/googleapi"

	domai "github.com/bryanwahyu/scamlens/internal/domain/ai"
)

func TestGenerateWithoutAPIKey(t *testing.T) {
	c := NewClient("", "")
	_, err := c.Generate(context.Background(), "prompt", nil)
	if !errors.Is(err, domai.ErrMissingAPIKey) {
		t.Fatalf("err = %v, want ErrMissingAPIKey", err)
	}
}

func TestClassifyErrQuota(t *testing.T) {
	base := &googleapi.Error{Code: http.StatusTooManyRequests, Message: "quota exceeded"}
	err := classifyErr(fmt.Errorf("generate: %w", base))
	if !errors.Is(err, domai.ErrQuotaExceeded) {
		t.Fatalf("err = %v, want ErrQuotaExceeded", err)
	}
}

func TestClassifyErrOther(t *testing.T) {
	for _, in := range []error{
		&googleapi.Error{Code: http.StatusInternalServerError},
		errors.New("connection refused"),
	} {
		err := classifyErr(in)
		if errors.Is(err, domai.ErrQuotaExceeded) {
			t.Errorf("classifyErr(%v) mapped to quota", in)
		}
	}
}
