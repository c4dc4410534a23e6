package uploads

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/scamlens/internal/application"
	"github.com/bryanwahyu/scamlens/internal/domain/blob"
)

// Service implements the upload use-case: store the file publicly under a
// collision-free key and return its URL.
type Service struct {
	Blobs blob.Store
	Clock application.Clock
}

// Upload stores data and returns the public URL. An empty filename gets a
// generated one; every key carries a random suffix so repeated uploads of the
// same file never collide.
func (s *Service) Upload(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	name := strings.TrimSpace(filename)
	if name == "" {
		name = fmt.Sprintf("upload-%d", s.now().UnixMilli())
	}
	return s.Blobs.Put(ctx, randomizedKey(name), contentType, data)
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now()
	}
	return application.SystemClock{}.Now()
}

// randomizedKey inserts a random suffix before the extension:
// "shot.png" -> "shot-6f1c29aa.png".
func randomizedKey(name string) string {
	name = filepath.Base(name)
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	suffix := strings.SplitN(uuid.New().String(), "-", 2)[0]
	return base + "-" + suffix + ext
}
