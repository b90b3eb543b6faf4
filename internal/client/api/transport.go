package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// loggingTransport логирует каждый исходящий запрос к архиву:
// метод API, статус и время выполнения
type loggingTransport struct {
	next   http.RoundTripper
	logger *slog.Logger
}

// RoundTrip implements http.RoundTripper
func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := t.next.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		t.logger.Log(req.Context(), slog.LevelWarn, "API request failed",
			"method", req.Method,
			"path", req.URL.Path,
			"duration_ms", duration.Milliseconds(),
			"error", err,
		)
		return nil, err
	}

	// Уровень логирования зависит от статуса
	logLevel := slog.LevelDebug
	if resp.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if resp.StatusCode >= 400 {
		logLevel = slog.LevelWarn
	}

	t.logger.Log(req.Context(), logLevel, "API request",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration_ms", duration.Milliseconds(),
	)

	return resp, nil
}

// rateLimitTransport ограничивает частоту запросов к архиву.
// Публичный API допускает примерно один вызов в две секунды,
// поэтому запросы ждут токен, а не отбрасываются.
type rateLimitTransport struct {
	next    http.RoundTripper
	limiter *rate.Limiter
}

// RoundTrip implements http.RoundTripper
func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	return t.next.RoundTrip(req)
}

// newTransport собирает цепочку: rate limit -> logging -> base
func newTransport(base http.RoundTripper, limiter *rate.Limiter, logger *slog.Logger) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}

	var rt http.RoundTripper = &loggingTransport{next: base, logger: logger}
	if limiter != nil {
		rt = &rateLimitTransport{next: rt, limiter: limiter}
	}
	return rt
}
