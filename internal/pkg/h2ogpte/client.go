// Package h2ogpte is a minimal client for the h2oGPTe chat completion API.
package h2ogpte

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Leopold1975/churnguard/internal/pkg/config"
)

var (
	ErrTimeout         = errors.New("llm query timed out")
	ErrUnauthorized    = errors.New("llm api key rejected")
	ErrSessionNotFound = errors.New("llm chat session not found")
	ErrEmptyReply      = errors.New("llm returned an empty reply")
)

// APIError is any other non-2xx answer from the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("llm api error (%d): %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

type completionRequest struct {
	Message string `json:"message"`
	Timeout int    `json:"timeout,omitempty"`
}

type completionResponse struct {
	Body string `json:"body"`
}

func New(cfg config.LLM, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{} //nolint:exhaustruct
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.Address, "/"),
		apiKey:     cfg.APIKey,
		timeout:    cfg.Timeout,
		httpClient: httpClient,
	}
}

// Query sends message to an existing chat session and returns the reply text.
// The call is bounded by the configured timeout as well as by ctx.
func (c *Client) Query(ctx context.Context, chatID, message string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(completionRequest{
		Message: message,
		Timeout: int(c.timeout.Seconds()),
	})
	if err != nil {
		return "", fmt.Errorf("marshal request error: %w", err)
	}

	endpoint := c.baseURL + "/api/v1/chats/" + url.PathEscape(chatID) + "/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request error: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return "", fmt.Errorf("%w: %w", ErrTimeout, err)
		}

		return "", fmt.Errorf("do request error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(ctx, err) {
			return "", fmt.Errorf("%w: %w", ErrTimeout, err)
		}

		return "", fmt.Errorf("read response error: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%w: %s", ErrSessionNotFound, chatID)
	case resp.StatusCode == http.StatusRequestTimeout || resp.StatusCode == http.StatusGatewayTimeout:
		return "", ErrTimeout
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	var cr completionResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		return "", fmt.Errorf("decode response error: %w", err)
	}

	if strings.TrimSpace(cr.Body) == "" {
		return "", ErrEmptyReply
	}

	return cr.Body, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var ne net.Error

	return errors.As(err, &ne) && ne.Timeout()
}
