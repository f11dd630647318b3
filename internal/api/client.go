package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"mercadillo/pkg/errors"
	"mercadillo/pkg/logger"
)

// TokenSource supplies the bearer token for authenticated requests. An
// empty token means the request goes out anonymous.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Client is the single HTTP boundary to the storefront backend. It attaches
// the bearer token, normalizes the backend's error shapes into AppError and
// retries idempotent reads once.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	readRetry  int
}

func NewClient(baseURL string, tokens TokenSource, readRetry int) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		tokens:     tokens,
		readRetry:  readRetry,
	}
}

// Do issues a JSON request. A nil out skips response decoding; HTTP 204 is
// treated as no content regardless of out.
func (c *Client) Do(ctx context.Context, method, endpoint string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return errors.Internal("failed to encode request body", err)
		}
	}

	attempts := 1
	if method == http.MethodGet {
		attempts += c.readRetry
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		lastErr = c.do(ctx, method, endpoint, payload, out)
		if lastErr == nil {
			return nil
		}
		// Only transport-level failures are worth a retry; the backend
		// answering at all settles the question.
		if !errors.Is(lastErr, "NETWORK_ERROR") {
			return lastErr
		}
		if ctx.Err() != nil {
			return lastErr
		}
	}
	return lastErr
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload []byte, out interface{}) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return errors.Internal("failed to create request", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	if c.tokens != nil {
		token, err := c.tokens.AccessToken(ctx)
		if err != nil {
			return err
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Network("request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Network("failed to read response", err)
	}

	if resp.StatusCode >= 400 {
		return c.normalizeError(method, endpoint, resp.StatusCode, respBody)
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return errors.Internal("failed to decode response", err)
	}
	return nil
}

// normalizeError maps the backend's two error shapes, {"detail": "..."} and
// a field-name-to-error-list map, onto AppError. Expected pagination probes
// past the last page stay out of the error log.
func (c *Client) normalizeError(method, endpoint string, status int, body []byte) error {
	var detail struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &detail); err == nil && detail.Detail != "" {
		if detail.Detail == "Invalid page." {
			logger.Debug("pagination probe past last page: %s %s", method, endpoint)
			return errors.InvalidPage(nil)
		}
		logger.Error("API error: %s %s -> %d %s", method, endpoint, status, detail.Detail)
		return statusError(status, detail.Detail)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err == nil && len(fields) > 0 {
		flat := make(map[string][]string, len(fields))
		for name, raw := range fields {
			var list []string
			if err := json.Unmarshal(raw, &list); err == nil {
				flat[name] = list
				continue
			}
			var single string
			if err := json.Unmarshal(raw, &single); err == nil {
				flat[name] = []string{single}
				continue
			}
			flat[name] = []string{string(raw)}
		}
		appErr := errors.Validation(flat, status)
		logger.Error("API validation error: %s %s -> %d %s", method, endpoint, status, appErr.Message)
		return appErr
	}

	msg := fmt.Sprintf("HTTP error! status: %d", status)
	logger.Error("API error: %s %s -> %s", method, endpoint, msg)
	return statusError(status, msg)
}

func statusError(status int, message string) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.Unauthorized(message, nil)
	case http.StatusNotFound:
		return errors.New("NOT_FOUND", message, status, nil)
	case http.StatusBadRequest:
		return errors.BadRequest(message, nil)
	default:
		return errors.New("API_ERROR", message, status, nil)
	}
}

// encodeParams builds a query string, skipping empty values the way the
// storefront always has.
func encodeParams(params map[string]string) string {
	if len(params) == 0 {
		return ""
	}
	q := url.Values{}
	for key, value := range params {
		if value != "" {
			q.Set(key, value)
		}
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}
