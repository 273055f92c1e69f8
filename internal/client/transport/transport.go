// Package transport sends protocol requests to the file-sharing service.
//
// The transfer client depends only on the Doer interface; *http.Client and
// *HTTP both satisfy it, and tests substitute their own. Timeouts and
// connection errors surface here as ordinary errors.
package transport

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/fileshare/internal/logging"
)

// Doer sends one HTTP request and returns its response.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

var _ Doer = (*HTTP)(nil)

// HTTP is a Doer backed by net/http with request logging.
type HTTP struct {
	client *http.Client
	logger logging.Logger
}

// NewHTTP returns an HTTP transport. A zero timeout means no timeout.
func NewHTTP(timeout time.Duration, logger logging.Logger) *HTTP {
	if logger == nil {
		logger = logging.Nop()
	}
	return &HTTP{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (t *HTTP) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		t.logger.Warn(ctx, "request failed", "method", req.Method, "url", req.URL.String(), "error", err)
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Redacted(), err)
	}

	t.logger.Debug(ctx, "request done",
		"method", req.Method,
		"url", req.URL.String(),
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)

	return resp, nil
}
