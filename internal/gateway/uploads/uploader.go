package uploads

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"rider-delivery-agent/internal/apperr"
	"rider-delivery-agent/internal/logx"
)

type counter interface {
	Inc()
}

// Uploader sends a captured proof-of-delivery image to the image hosting
// service and returns the stable HTTPS URL it is served from. Uploading is
// a separate step from confirming delivery; retrying an upload produces a
// new valid URL and no session side effects.
type Uploader struct {
	http     *http.Client
	url      string
	preset   string
	logger   logx.Logger
	failures counter
}

// New creates an uploader for the given endpoint and upload preset.
// failures may be nil.
func New(endpoint, preset string, timeout time.Duration, logger logx.Logger, failures counter) *Uploader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Uploader{
		http:     &http.Client{Timeout: timeout},
		url:      endpoint,
		preset:   preset,
		logger:   logger,
		failures: failures,
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
}

// Upload sends one image as multipart form data and returns its remote URL.
func (u *Uploader) Upload(ctx context.Context, filename string, image io.Reader) (string, error) {
	var body strings.Builder
	w := multipart.NewWriter(&body)

	if err := w.WriteField("upload_preset", u.preset); err != nil {
		return "", fmt.Errorf("uploads: preset field: %w", err)
	}
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("uploads: file part: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return "", fmt.Errorf("uploads: read image: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("uploads: finish form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.url, strings.NewReader(body.String()))
	if err != nil {
		return "", fmt.Errorf("uploads: build request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := u.http.Do(req)
	if err != nil {
		u.fail("transport", err)
		return "", fmt.Errorf("uploads: %w: %v", apperr.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		u.fail("server", fmt.Errorf("status %d", resp.StatusCode))
		return "", fmt.Errorf("uploads: %w: status %d", apperr.ErrUnavailable, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		u.fail("rejected", fmt.Errorf("status %d", resp.StatusCode))
		return "", fmt.Errorf("uploads: %w: status %d", apperr.ErrRejected, resp.StatusCode)
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("uploads: decode response: %w", err)
	}
	if !RemoteURL(out.SecureURL) {
		return "", fmt.Errorf("uploads: host returned a non-https url: %q", out.SecureURL)
	}

	u.logger.Info("proof image uploaded",
		logx.String("file", filename),
		logx.String("url", out.SecureURL),
	)
	return out.SecureURL, nil
}

func (u *Uploader) fail(kind string, err error) {
	if u.failures != nil {
		u.failures.Inc()
	}
	u.logger.Warn("proof upload failed",
		logx.String("kind", kind),
		logx.Any("err", err),
	)
}

// RemoteURL reports whether s is an HTTPS URL and therefore acceptable as
// proof of delivery. Local file paths and file:// references are not.
func RemoteURL(s string) bool {
	parsed, err := url.Parse(s)
	if err != nil {
		return false
	}
	return parsed.Scheme == "https" && parsed.Host != ""
}
