package authclient

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// loggingTransport logs every round trip at debug level.
type loggingTransport struct {
	next   http.RoundTripper
	logger *zap.SugaredLogger
}

// NewLoggingTransport wraps next (http.DefaultTransport when nil).
func NewLoggingTransport(next http.RoundTripper, logger *zap.SugaredLogger) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &loggingTransport{next: next, logger: logger}
}

func (t *loggingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(r)
	dur := time.Since(start)
	if err != nil {
		t.logger.Debugw("http request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", r.Header.Get(HeaderRequestID),
			"duration_ms", float64(dur.Microseconds())/1000.0,
			"err", err,
		)
		return nil, err
	}
	t.logger.Debugw("http request",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", r.Header.Get(HeaderRequestID),
		"status", resp.StatusCode,
		"duration_ms", float64(dur.Microseconds())/1000.0,
		"size", resp.ContentLength,
	)
	return resp, nil
}

// CloseIdleConnections forwards to the wrapped transport so that
// http.Client.CloseIdleConnections keeps working.
func (t *loggingTransport) CloseIdleConnections() {
	if ci, ok := t.next.(interface{ CloseIdleConnections() }); ok {
		ci.CloseIdleConnections()
	}
}
