// Package restclient is the single configured sender for the dashboard's REST
// backend. It injects the bearer token, decodes the {success, code, message,
// data} envelope, classifies failures and reports them to a Notifier.
package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/hoardly/dashboard/internal/core/domain"
	"github.com/hoardly/dashboard/internal/core/ports"
	"github.com/hoardly/dashboard/internal/metrics"
)

const (
	defaultTimeout  = 10 * time.Second
	maxResponseSize = 4 << 20
	userAgent       = "hoarding-dashboard/1.0"
	contentTypeJSON = "application/json"
)

// Config captures the settings for a Client.
type Config struct {
	BaseURL string
	// Timeout bounds a single round trip. Ignored when HTTPClient is set.
	Timeout time.Duration
	// HTTPClient lets sessions share one connection pool.
	HTTPClient *http.Client
	// Breaker is shared by every client talking to the same backend.
	Breaker  *gobreaker.CircuitBreaker
	Notifier ports.Notifier
	Logger   zerolog.Logger
}

// Client sends requests to the backend on behalf of one session.
type Client struct {
	baseURL  string
	http     *http.Client
	breaker  *gobreaker.CircuitBreaker
	notifier ports.Notifier
	log      zerolog.Logger

	mu    sync.RWMutex
	token string
}

// New creates a Client. A default timeout is applied when none is provided.
func New(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		http:     hc,
		breaker:  cfg.Breaker,
		notifier: cfg.Notifier,
		log:      cfg.Logger,
	}
}

// SetToken installs the bearer token sent with every subsequent request.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken strips the Authorization header from subsequent requests.
func (c *Client) ClearToken() {
	c.SetToken("")
}

// Token returns the currently installed bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// FilePart is a file attached to a multipart request.
type FilePart struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// Get performs a GET request. q, when non-nil, is encoded with url tags.
func (c *Client) Get(ctx context.Context, path string, q any, out any) error {
	return c.do(ctx, http.MethodGet, path, q, nil, "", out)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, body, out)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, body, out)
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body any, out any) error {
	return c.doJSON(ctx, http.MethodPatch, path, body, out)
}

// Delete performs a DELETE request and ignores any response data.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, "", nil)
}

// PostMultipart sends fields and an optional file as multipart/form-data.
func (c *Client) PostMultipart(ctx context.Context, path string, fields map[string]string, file *FilePart, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if v == "" {
			continue
		}
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("write field %s: %w", k, err)
		}
	}
	if file != nil && len(file.Data) > 0 {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.Field, file.Filename))
		ct := file.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return fmt.Errorf("create file part: %w", err)
		}
		if _, err := part.Write(file.Data); err != nil {
			return fmt.Errorf("write file part: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close multipart body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, nil, buf.Bytes(), w.FormDataContentType(), out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		payload = b
	}
	return c.do(ctx, method, path, nil, payload, contentTypeJSON, out)
}

// do runs one round trip through the circuit breaker, records metrics and
// notifies on failure unless ctx is quiet.
func (c *Client) do(ctx context.Context, method, path string, q any, payload []byte, contentType string, out any) error {
	start := time.Now()
	err := c.roundTrip(ctx, method, path, q, payload, contentType, out)

	metrics.UpstreamRequestDuration.
		WithLabelValues(method, routeLabel(path), outcome(err)).
		Observe(time.Since(start).Seconds())

	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("backend request failed")
		c.notifyFailure(ctx, err)
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, q any, payload []byte, contentType string, out any) error {
	reqURL, err := c.buildURL(path, q)
	if err != nil {
		return err
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set("User-Agent", userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	token := c.Token()
	if t, ok := bearerFrom(ctx); ok {
		token = t
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	status, respBody, err := c.send(req)
	if err != nil {
		return err
	}
	return decode(status, respBody, out)
}

// send executes req, through the breaker when one is configured. Only
// transport failures count against the breaker.
func (c *Client) send(req *http.Request) (int, []byte, error) {
	type response struct {
		status int
		body   []byte
	}
	exec := func() (any, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, &TransportError{Op: req.Method + " " + req.URL.Path, Err: err}
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		if err != nil {
			return nil, &TransportError{Op: "read response", Err: err}
		}
		return response{status: resp.StatusCode, body: b}, nil
	}

	if c.breaker == nil {
		r, err := exec()
		if err != nil {
			return 0, nil, err
		}
		return r.(response).status, r.(response).body, nil
	}

	r, err := c.breaker.Execute(exec)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return 0, nil, &TransportError{Op: "circuit " + c.breaker.Name(), Err: err}
		}
		return 0, nil, err
	}
	return r.(response).status, r.(response).body, nil
}

func (c *Client) buildURL(path string, q any) (string, error) {
	u, err := url.Parse(c.baseURL + "/" + strings.TrimLeft(path, "/"))
	if err != nil {
		return "", fmt.Errorf("build URL: %w", err)
	}
	if q != nil {
		v, err := query.Values(q)
		if err != nil {
			return "", fmt.Errorf("encode query: %w", err)
		}
		if enc := v.Encode(); enc != "" {
			if u.RawQuery != "" {
				u.RawQuery += "&" + enc
			} else {
				u.RawQuery = enc
			}
		}
	}
	return u.String(), nil
}

func (c *Client) notifyFailure(ctx context.Context, err error) {
	if c.notifier == nil || isQuiet(ctx) || errors.Is(err, context.Canceled) {
		return
	}
	c.notifier.Notify(domain.Notification{
		Level:   domain.LevelError,
		Message: MessageOf(err),
		At:      time.Now(),
	})
}

// envelope is the uniform wrapper used by every backend response.
type envelope struct {
	Success *bool           `json:"success"`
	Code    json.RawMessage `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// code renders the envelope code, which the backend sends as either a number
// or a string.
func (e envelope) code() string {
	if len(e.Code) == 0 || string(e.Code) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(e.Code, &s); err == nil {
		return s
	}
	return string(e.Code)
}

func decode(status int, body []byte, out any) error {
	if status >= http.StatusBadRequest {
		return parseError(status, body)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		if out != nil {
			return fmt.Errorf("empty body: %w", ErrMalformedResponse)
		}
		return nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decode envelope: %w", ErrMalformedResponse)
	}
	if env.Success != nil && !*env.Success {
		msg := env.Message
		if msg == "" {
			msg = "request failed"
		}
		return &APIError{StatusCode: status, Code: env.code(), Message: msg}
	}
	if out == nil {
		return nil
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return fmt.Errorf("missing data: %w", ErrMalformedResponse)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %v: %w", err, ErrMalformedResponse)
	}
	return nil
}

// routeLabel keeps metric cardinality bounded: "/api/hoardings/42" → "/api/hoardings".
func routeLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return "/" + strings.Join(parts, "/")
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsTransport(err):
		return "transport_error"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	default:
		return "api_error"
	}
}
