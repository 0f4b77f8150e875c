// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Configuration constants for the backend client.
const (
	// DefaultBaseURL is where the Flask backend listens by default.
	DefaultBaseURL = "http://localhost:5000"

	// DefaultTimeout bounds a single request. Voice requests wait for the
	// server to record and recognise speech, so this is generous.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxResponseSize caps a response body.
	DefaultMaxResponseSize = 4 * 1024 * 1024
)

// Endpoint paths.
const (
	PathStatus    = "/api/status"
	PathLanguages = "/api/languages"
	PathSubjects  = "/api/subjects"
	PathChatText  = "/api/chat/text"
	PathChatVoice = "/api/chat/voice"
	PathAudioPlay = "/api/audio/play/"
	PathAudioStop = "/api/audio/stop"
	PathTranslate = "/api/translate"
	PathFeedback  = "/api/feedback"
	PathClear     = "/api/clear"
)

// Client talks to the TatvaX backend.
type Client struct {
	baseURL         string
	httpClient      *http.Client
	limiter         *rate.Limiter
	logger          *zap.Logger
	userAgent       string
	maxResponseSize int64
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		logger:          zap.NewNop(),
		userAgent:       "tatvax",
		maxResponseSize: DefaultMaxResponseSize,
	}
}

// WithTimeout sets the per-request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	if timeout > 0 {
		c.httpClient.Timeout = timeout
	}
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// WithLogger sets the logger used for request/response lines.
func (c *Client) WithLogger(logger *zap.Logger) *Client {
	if logger != nil {
		c.logger = logger.Named("api")
	}
	return c
}

// WithRateLimit throttles outbound requests to rps per second with the given
// burst. A non-positive rps disables throttling.
func (c *Client) WithRateLimit(rps float64, burst int) *Client {
	if rps <= 0 {
		c.limiter = nil
		return c
	}
	if burst < 1 {
		burst = 1
	}
	c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	return c
}

// WithUserAgent sets the User-Agent header.
func (c *Client) WithUserAgent(ua string) *Client {
	if ua != "" {
		c.userAgent = ua
	}
	return c
}

// WithMaxResponseSize caps response bodies at n bytes.
func (c *Client) WithMaxResponseSize(n int64) *Client {
	if n > 0 {
		c.maxResponseSize = n
	}
	return c
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// UserAgent returns the User-Agent sent with each request.
func (c *Client) UserAgent() string {
	return c.userAgent
}

// =============================================================================
// ENDPOINTS
// =============================================================================

// Status fetches backend status, including whether audio is playing.
func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	var out StatusResponse
	if err := c.call(ctx, http.MethodGet, PathStatus, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Languages fetches the server's language table as code -> display name.
func (c *Client) Languages(ctx context.Context) (map[string]string, error) {
	var out languagesResponse
	if err := c.call(ctx, http.MethodGet, PathLanguages, nil, &out); err != nil {
		return nil, err
	}
	if out.Languages == nil {
		return nil, &ServerError{Endpoint: PathLanguages, HTTPStatus: http.StatusOK, Status: out.Status, Message: "missing field languages"}
	}
	names := make(map[string]string, len(out.Languages))
	for code, raw := range out.Languages {
		name := languageName(raw)
		if name == "" {
			name = code
		}
		names[code] = name
	}
	return names, nil
}

// Subjects fetches the subject catalog, sorted by display name.
func (c *Client) Subjects(ctx context.Context) ([]Subject, error) {
	var out subjectsResponse
	if err := c.call(ctx, http.MethodGet, PathSubjects, nil, &out); err != nil {
		return nil, err
	}
	if out.Subjects == nil {
		return nil, &ServerError{Endpoint: PathSubjects, HTTPStatus: http.StatusOK, Status: out.Status, Message: "missing field subjects"}
	}
	subjects := make([]Subject, 0, len(out.Subjects))
	for key, s := range out.Subjects {
		s.Key = key
		if s.Name == "" {
			s.Name = key
		}
		subjects = append(subjects, s)
	}
	sort.Slice(subjects, func(i, j int) bool {
		if subjects[i].Name == subjects[j].Name {
			return subjects[i].Key < subjects[j].Key
		}
		return subjects[i].Name < subjects[j].Name
	})
	return subjects, nil
}

// ChatText sends a typed message.
func (c *Client) ChatText(ctx context.Context, req ChatTextRequest) (*ChatResponse, error) {
	var out ChatResponse
	if err := c.call(ctx, http.MethodPost, PathChatText, req, &out); err != nil {
		return nil, err
	}
	if out.Response == "" {
		return nil, &ServerError{Endpoint: PathChatText, HTTPStatus: http.StatusOK, Status: out.Status, Message: "missing field response"}
	}
	return &out, nil
}

// ChatVoice asks the server to capture and answer one spoken query.
func (c *Client) ChatVoice(ctx context.Context, req ChatVoiceRequest) (*ChatResponse, error) {
	var out ChatResponse
	if err := c.call(ctx, http.MethodPost, PathChatVoice, req, &out); err != nil {
		return nil, err
	}
	if out.Response == "" {
		return nil, &ServerError{Endpoint: PathChatVoice, HTTPStatus: http.StatusOK, Status: out.Status, Message: "missing field response"}
	}
	return &out, nil
}

// PlayAudio asks the server to play an audio artifact.
func (c *Client) PlayAudio(ctx context.Context, audioRef string) error {
	if strings.TrimSpace(audioRef) == "" {
		return fmt.Errorf("play audio: empty audio reference")
	}
	var out envelope
	return c.call(ctx, http.MethodGet, PathAudioPlay+url.PathEscape(audioRef), nil, &out)
}

// StopAudio asks the server to stop whatever it is playing.
func (c *Client) StopAudio(ctx context.Context) error {
	var out envelope
	return c.call(ctx, http.MethodPost, PathAudioStop, nil, &out)
}

// Translate translates text between two languages.
func (c *Client) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	var out TranslateResponse
	if err := c.call(ctx, http.MethodPost, PathTranslate, req, &out); err != nil {
		return nil, err
	}
	if out.TranslatedText == "" {
		return nil, &ServerError{Endpoint: PathTranslate, HTTPStatus: http.StatusOK, Status: out.Status, Message: "missing field translated_text"}
	}
	if out.TargetLanguage == "" {
		out.TargetLanguage = req.TargetLanguage
	}
	return &out, nil
}

// SubmitFeedback posts a feedback form.
func (c *Client) SubmitFeedback(ctx context.Context, req FeedbackRequest) (*FeedbackResponse, error) {
	var out FeedbackResponse
	if err := c.call(ctx, http.MethodPost, PathFeedback, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Clear asks the server to drop its conversation history. Only the HTTP
// status matters; the body is not inspected.
func (c *Client) Clear(ctx context.Context) error {
	return c.call(ctx, http.MethodPost, PathClear, nil, nil)
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// call performs one request. When out is non-nil the body must decode and
// report status "success"; when out is nil only the HTTP status counts.
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	endpoint := endpointName(path)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &TransportError{Endpoint: endpoint, Err: err}
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: failed to marshal request: %w", endpoint, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	data, err := c.readBody(resp)
	if err != nil {
		return &TransportError{Endpoint: endpoint, Err: err}
	}

	c.logger.Debug("request done",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.Int("http_status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env envelope
		_ = json.Unmarshal(data, &env)
		return &ServerError{Endpoint: endpoint, HTTPStatus: resp.StatusCode, Status: env.Status, Message: env.failureMessage()}
	}

	if out == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return &ServerError{Endpoint: endpoint, HTTPStatus: resp.StatusCode, Message: "malformed response body"}
	}
	if env.Status != StatusSuccess {
		return &ServerError{Endpoint: endpoint, HTTPStatus: resp.StatusCode, Status: env.Status, Message: env.failureMessage()}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ServerError{Endpoint: endpoint, HTTPStatus: resp.StatusCode, Status: env.Status, Message: "malformed response body"}
	}
	return nil
}

// readBody reads at most maxResponseSize bytes.
func (c *Client) readBody(resp *http.Response) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(data)) > c.maxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", c.maxResponseSize)
	}
	return data, nil
}

// endpointName strips the variable audio segment so logs group by route.
func endpointName(path string) string {
	if strings.HasPrefix(path, PathAudioPlay) {
		return PathAudioPlay + "{file}"
	}
	return path
}
