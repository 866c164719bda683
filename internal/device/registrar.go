package device

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/aurumwallet/aurum/internal/version"
	walleterr "github.com/aurumwallet/aurum/pkg/errors"
)

const (
	// registerPath is the registration endpoint path.
	registerPath = "/v1/devices/register"

	// defaultTimeout bounds a registration attempt.
	defaultTimeout = 10 * time.Second

	// maxErrorBodySize limits how much of an error response is read.
	maxErrorBodySize = 1024
)

// HTTPRegistrar posts registrations to the backend. Calls are throttled so
// repeated unlocks cannot hammer the endpoint.
type HTTPRegistrar struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *zap.Logger
}

// NewHTTPRegistrar creates a registrar for the given API base URL.
func NewHTTPRegistrar(baseURL string, log *zap.Logger) *HTTPRegistrar {
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPRegistrar{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    rate.NewLimiter(rate.Every(30*time.Second), 2),
		log:        log,
	}
}

// Register posts the registration payload. Throttled calls are dropped
// silently; they will be retried on the next wallet unlock anyway.
func (r *HTTPRegistrar) Register(ctx context.Context, reg Registration) error {
	if !r.limiter.Allow() {
		r.log.Debug("device registration throttled",
			zap.String("client_id", reg.ClientID))
		return nil
	}

	body, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("marshaling registration: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+registerPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building registration request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return walleterr.Wrap(walleterr.ErrExternal, "posting registration")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		r.log.Debug("device registration rejected",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", snippet))
		return walleterr.WithDetails(walleterr.ErrExternal, map[string]string{
			"status": resp.Status,
		})
	}

	return nil
}
