package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rahul4469/review-sentiment/internal/models"
)

const (
	DefaultRemoteTimeout = 30 * time.Second

	// maxResponseBytes bounds what is read from the analysis service.
	maxResponseBytes = 64 << 20
	maxDetailBytes   = 512
)

// RemoteAnalyzer calls an external analysis service over HTTP. Each call is
// a single request awaited until it completes or the client times out.
type RemoteAnalyzer struct {
	BaseURL string
	Client  *http.Client
}

// NewRemoteAnalyzer creates a client for the service at baseURL.
func NewRemoteAnalyzer(baseURL string, timeout time.Duration) *RemoteAnalyzer {
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	return &RemoteAnalyzer{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

// ServiceError is a non-2xx answer of the analysis service.
type ServiceError struct {
	StatusCode int
	Detail     string
	kind       error
}

func (e *ServiceError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v (status %d)", e.kind, e.StatusCode)
	}
	return fmt.Sprintf("%v (status %d): %s", e.kind, e.StatusCode, e.Detail)
}

func (e *ServiceError) Unwrap() error {
	return e.kind
}

// AnalyzeReview posts the review form-encoded to /analyze-single.
func (ra *RemoteAnalyzer) AnalyzeReview(ctx context.Context, review string) (*models.ReviewResult, error) {
	form := url.Values{"review": {review}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ra.BaseURL+"/analyze-single", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	var result models.ReviewResult
	if err := ra.do(req, &result); err != nil {
		return nil, err
	}
	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if result.Review == "" {
		result.Review = review
	}
	return &result, nil
}

// batchEnvelope accepts both the flat batch shape and the older one that
// nests the statistics under "stats".
type batchEnvelope struct {
	models.BatchResult
	Stats *models.BatchResult `json:"stats"`
}

// AnalyzeCSV uploads the file as the multipart field "file" to /analyze-csv.
func (ra *RemoteAnalyzer) AnalyzeCSV(ctx context.Context, filename string, r io.Reader) (*models.BatchResult, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ra.BaseURL+"/analyze-csv", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var env batchEnvelope
	if err := ra.do(req, &env); err != nil {
		return nil, err
	}

	result := env.BatchResult
	if env.Stats != nil {
		result = *env.Stats
		result.AnalyzedData = env.AnalyzedData
	}
	if result.AnalyzedData == nil {
		result.AnalyzedData = []models.AnalyzedReview{}
	}
	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return &result, nil
}

// healthPaths are tried in order: this server's own health check, then the
// API docs page that FastAPI analysis services expose.
var healthPaths = []string{"/healthz", "/docs"}

// Health reports whether the service answers a health path with a 2xx status.
// A 404 moves on to the next path.
func (ra *RemoteAnalyzer) Health(ctx context.Context) error {
	var lastErr error
	for _, path := range healthPaths {
		status, err := ra.ping(ctx, path)
		if err != nil {
			return err
		}
		if status >= 200 && status <= 299 {
			return nil
		}
		lastErr = &ServiceError{StatusCode: status, Detail: "health check " + path, kind: ErrServiceUnavailable}
		if status != http.StatusNotFound {
			break
		}
	}
	return lastErr
}

func (ra *RemoteAnalyzer) ping(ctx context.Context, path string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ra.BaseURL+path, nil)
	if err != nil {
		return 0, err
	}
	resp, err := ra.Client.Do(req)
	if err != nil {
		return 0, classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxDetailBytes))
	return resp.StatusCode, nil
}

func (ra *RemoteAnalyzer) do(req *http.Request, out any) error {
	resp, err := ra.Client.Do(req)
	if err != nil {
		return classifyTransportError(req.Context(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return fmt.Errorf("%w: %v", ErrServiceTimeout, err)
		}
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", ErrServiceTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
}

func statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxDetailBytes))
	detail := strings.TrimSpace(string(raw))

	var body struct {
		Detail any `json:"detail"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Detail != nil {
		if s, ok := body.Detail.(string); ok {
			detail = s
		} else if b, err := json.Marshal(body.Detail); err == nil {
			detail = string(b)
		}
	}

	se := &ServiceError{StatusCode: resp.StatusCode, Detail: detail}
	switch {
	case resp.StatusCode == http.StatusRequestEntityTooLarge:
		se.kind = ErrPayloadTooLarge
	case resp.StatusCode == http.StatusGatewayTimeout:
		se.kind = ErrServiceTimeout
	case resp.StatusCode >= http.StatusInternalServerError:
		se.kind = ErrServiceUnavailable
	default:
		se.kind = ErrServiceRejected
	}
	return se
}
