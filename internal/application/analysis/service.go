package analysis

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/scamlens/internal/application"
	domai "github.com/bryanwahyu/scamlens/internal/domain/ai"
	domain "github.com/bryanwahyu/scamlens/internal/domain/analysis"
	"github.com/bryanwahyu/scamlens/internal/domain/blob"
	"github.com/bryanwahyu/scamlens/internal/domain/history"
	"github.com/bryanwahyu/scamlens/internal/infra/ai/prompt"
	"github.com/bryanwahyu/scamlens/internal/metrics"
)

// ImageFetcher resolves an image URL into inline bytes, or a prompt note when
// the image had to be skipped. It never fails the analysis.
type ImageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*domai.Image, string)
}

// Service implements the analyze use-case: assemble prompt, one model call,
// normalize, best-effort cleanup and audit. Safe for concurrent use; all state
// is per-call.
type Service struct {
	AI      domai.Client
	Images  ImageFetcher
	Blobs   blob.Store         // optional; nil disables cleanup
	History history.Repository // optional; nil disables the audit trail
	Clock   application.Clock
}

// Analyze runs one assessment. The model is called exactly once; image fetch
// problems degrade to prompt annotations and never abort the request.
func (s *Service) Analyze(ctx context.Context, req domain.Request) (domain.Outcome, error) {
	text := prompt.Build(req)

	imageURL := strings.TrimSpace(req.ImageURL)
	var img *domai.Image
	if imageURL != "" && s.Images != nil {
		fetched, note := s.Images.Fetch(ctx, imageURL)
		if note != "" {
			text = prompt.Annotate(text, note)
			metrics.ImageFetchSkipped(note)
		}
		img = fetched
	}

	started := s.now()
	raw, err := s.AI.Generate(ctx, text, img)
	metrics.ModelCallDurationSeconds.Observe(time.Since(started).Seconds())
	if err != nil {
		return domain.Outcome{}, err
	}

	out := domain.Normalize(raw)

	// Uploaded blobs are one-shot: delete after analysis regardless of the
	// outcome. Failures are logged and swallowed.
	if imageURL != "" && s.Blobs != nil && s.Blobs.Owns(imageURL) {
		if err := s.Blobs.Delete(ctx, imageURL); err != nil {
			log.Printf("blob cleanup failed url=%s err=%v", imageURL, err)
			metrics.BlobCleanup("error")
		} else {
			metrics.BlobCleanup("ok")
		}
	}

	s.record(ctx, imageURL, out)
	return out, nil
}

// record persists an audit row when a repository is configured. Best-effort:
// a failed insert never changes the response.
func (s *Service) record(ctx context.Context, imageURL string, out domain.Outcome) {
	if s.History == nil {
		return
	}
	rec := &history.Record{
		ID:        history.RecordID(uuid.New().String()),
		ImageURL:  imageURL,
		CreatedAt: s.now(),
	}
	if out.IsDegraded() {
		rec.Degraded = true
		rec.Raw = out.Degraded.Raw
	} else {
		rec.Summary = out.Result.Summary
		rec.RiskLevel = string(out.Result.RiskLevel)
		rec.Confidence = out.Result.Confidence
	}
	if err := s.History.Save(ctx, rec); err != nil {
		log.Printf("history save failed id=%s err=%v", rec.ID, err)
	}
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now()
	}
	return application.SystemClock{}.Now()
}
