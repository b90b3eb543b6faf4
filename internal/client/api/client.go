package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/iudanet/cfhelper/pkg/api"
)

// DefaultBaseURL адрес публичного API архива
const DefaultBaseURL = "https://codeforces.com/api"

// Config contains configuration for the archive API client.
type Config struct {
	// BaseURL is the API base URL, without a trailing slash
	BaseURL string

	// Timeout is an upper bound for a single HTTP exchange.
	// Callers narrow it per call through the context.
	Timeout time.Duration

	// RatePerSecond limits outgoing calls; zero disables limiting
	RatePerSecond float64

	// Burst is the limiter bucket size
	Burst int

	// Transport overrides the underlying round tripper (tests)
	Transport http.RoundTripper

	// Logger for request logging
	Logger *slog.Logger
}

// DefaultConfig returns sensible defaults for the public archive.
func DefaultConfig(baseURL string) Config {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return Config{
		BaseURL:       baseURL,
		Timeout:       30 * time.Second,
		RatePerSecond: 1,
		Burst:         2,
	}
}

// StatusError описывает ответ архива с неуспешным статусом:
// либо HTTP >= 400, либо status != "OK" в конверте ответа
type StatusError struct {
	HTTPStatus int    // HTTP статус ответа
	Status     string // значение поля status ("FAILED")
	Comment    string // причина от архива
}

func (e *StatusError) Error() string {
	if e.Comment != "" {
		return fmt.Sprintf("api error (%d): %s", e.HTTPStatus, e.Comment)
	}
	return fmt.Sprintf("api error (%d): status %q", e.HTTPStatus, e.Status)
}

// IsHandleNotFound сообщает, что архив не знает запрошенный handle.
// Архив отвечает комментарием вида "handles: User with handle xyz not found".
func IsHandleNotFound(err error) bool {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return false
	}
	comment := strings.ToLower(statusErr.Comment)
	return strings.Contains(comment, "not found") && strings.Contains(comment, "handle")
}

// Client представляет HTTP клиент для публичного API архива
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient создает новый API клиент
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	var limiter *rate.Limiter
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		logger:  cfg.Logger,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: newTransport(cfg.Transport, limiter, cfg.Logger),
		},
	}
}

// GetProblemset получает полный список задач архива
func (c *Client) GetProblemset(ctx context.Context) (*api.ProblemsetResult, error) {
	result, err := get[api.ProblemsetResult](ctx, c, "/problemset.problems", nil)
	if err != nil {
		return nil, fmt.Errorf("problemset request failed: %w", err)
	}
	return &result, nil
}

// GetContests получает список контестов
func (c *Client) GetContests(ctx context.Context) ([]api.Contest, error) {
	result, err := get[[]api.Contest](ctx, c, "/contest.list", nil)
	if err != nil {
		return nil, fmt.Errorf("contest list request failed: %w", err)
	}
	return result, nil
}

// GetUserInfo получает публичный профиль пользователя по handle
func (c *Client) GetUserInfo(ctx context.Context, handle string) (*api.User, error) {
	params := url.Values{}
	params.Set("handles", handle)

	result, err := get[[]api.User](ctx, c, "/user.info", params)
	if err != nil {
		return nil, fmt.Errorf("user info request failed: %w", err)
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("user info request failed: %w", &StatusError{
			HTTPStatus: http.StatusOK,
			Status:     api.StatusFailed,
			Comment:    fmt.Sprintf("handles: User with handle %s not found", handle),
		})
	}
	return &result[0], nil
}

// GetUserStatus получает историю посылок пользователя
func (c *Client) GetUserStatus(ctx context.Context, handle string) ([]api.Submission, error) {
	params := url.Values{}
	params.Set("handle", handle)

	result, err := get[[]api.Submission](ctx, c, "/user.status", params)
	if err != nil {
		return nil, fmt.Errorf("user status request failed: %w", err)
	}
	return result, nil
}

// get выполняет GET запрос и разворачивает конверт ответа
func get[T any](ctx context.Context, c *Client, path string, params url.Values) (T, error) {
	var envelope api.Response[T]
	if err := c.doRequest(ctx, http.MethodGet, path, params, &envelope); err != nil {
		var zero T
		return zero, err
	}
	return envelope.Result, nil
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path string, params url.Values, result any) error {
	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Архив кладет причину ошибки в конверт даже при HTTP 400
	var status struct {
		Status  string `json:"status"`
		Comment string `json:"comment"`
	}
	statusErr := json.Unmarshal(respBody, &status)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if statusErr == nil && status.Status != "" {
			return &StatusError{HTTPStatus: resp.StatusCode, Status: status.Status, Comment: status.Comment}
		}
		return &StatusError{HTTPStatus: resp.StatusCode, Comment: strings.TrimSpace(string(respBody))}
	}

	if statusErr != nil {
		return fmt.Errorf("failed to decode response: %w", statusErr)
	}
	if status.Status != api.StatusOK {
		return &StatusError{HTTPStatus: resp.StatusCode, Status: status.Status, Comment: status.Comment}
	}

	// Декодируем успешный ответ
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
