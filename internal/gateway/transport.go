package gateway

import (
	"net/http"
	"time"

	logpkg "github.com/coursedeck/coursedeck/internal/logger"
	"go.uber.org/zap"
)

// loggingTransport logs one line per gateway round trip at debug level.
type loggingTransport struct {
	next http.RoundTripper
	log  *zap.Logger
}

func newLoggingTransport(next http.RoundTripper, log *zap.Logger) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &loggingTransport{next: next, log: log}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := t.next.RoundTrip(req)

	duration := time.Since(start)
	if err != nil {
		t.log.Debug("gateway_request_failed",
			zap.String("method", req.Method),
			zap.String("path", logpkg.SanitizePath(req.URL.Path)),
			zap.Int64("duration_ms", duration.Milliseconds()),
			zap.String("error", logpkg.SanitizeError(err)),
		)
		return nil, err
	}

	t.log.Debug("gateway_request",
		zap.String("method", req.Method),
		zap.String("path", logpkg.SanitizePath(req.URL.Path)),
		zap.Int("status_code", resp.StatusCode),
		zap.Int64("duration_ms", duration.Milliseconds()),
	)
	return resp, nil
}
