package imagefetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	domai "github.com/bryanwahyu/scamlens/internal/domain/ai"
)

// DefaultMaxBytes caps inline images at 5 MiB, matching the model inline-data limit.
const DefaultMaxBytes = 5 * 1024 * 1024

// Fetcher downloads a user-supplied image URL for inline forwarding to the
// model. It never returns an error: every failure mode degrades to a prompt
// note so the analysis continues text-only.
type Fetcher struct {
	// AllowPrivateHosts disables the internal-address guard. Only for tests.
	AllowPrivateHosts bool

	client   *http.Client
	maxBytes int64
}

func New(maxBytes int64) *Fetcher {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Fetcher{
		client:   &http.Client{Timeout: 30 * time.Second},
		maxBytes: maxBytes,
	}
}

// Fetch returns the inline image and an empty note on success, or a nil image
// and an IMAGE_NOTE annotation describing why the image was skipped.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*domai.Image, string) {
	if err := f.validateURL(rawURL); err != nil {
		return nil, fmt.Sprintf("IMAGE_NOTE: Exception fetching image_url: %s", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Sprintf("IMAGE_NOTE: Exception fetching image_url: %s", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Sprintf("IMAGE_NOTE: Exception fetching image_url: %s", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Sprintf("IMAGE_NOTE: Failed to fetch image_url. status=%d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")

	// Size gate consults the header only; the body is never read for
	// oversized objects.
	if cl := resp.Header.Get("Content-Length"); cl != "" {
		if size, err := strconv.ParseInt(cl, 10, 64); err == nil && size > f.maxBytes {
			return nil, fmt.Sprintf("IMAGE_NOTE: Image too large to fetch (%d bytes).", size)
		}
	}

	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Sprintf("IMAGE_NOTE: image_url content-type is not image: %s", contentType)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Sprintf("IMAGE_NOTE: Exception fetching image_url: %s", err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Sprintf("IMAGE_NOTE: Image too large to fetch (%d bytes).", len(data))
	}

	mime := contentType
	if mime == "" {
		mime = "image/jpeg"
	}
	return &domai.Image{MIMEType: mime, Data: data}, ""
}

// validateURL rejects non-http schemes and internal addresses before any
// network call is made (SSRF protection).
func (f *Fetcher) validateURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("URL cannot be empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: %s (allowed: http, https)", u.Scheme)
	}

	if f.AllowPrivateHosts {
		return nil
	}

	host := strings.ToLower(u.Hostname())
	blocked := []string{"localhost", "127.0.0.1", "0.0.0.0", "[::]", "::1"}
	for _, b := range blocked {
		if strings.Contains(host, b) {
			return fmt.Errorf("localhost/internal IPs are not allowed")
		}
	}

	if strings.HasPrefix(host, "10.") ||
		strings.HasPrefix(host, "192.168.") ||
		strings.HasPrefix(host, "172.16.") ||
		strings.HasPrefix(host, "172.31.") {
		return fmt.Errorf("private IP ranges are not allowed")
	}

	return nil
}
