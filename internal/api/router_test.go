package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/hoardly/dashboard/internal/api/handler"
	"github.com/hoardly/dashboard/internal/app"
	"github.com/hoardly/dashboard/internal/core/service"
	"github.com/hoardly/dashboard/internal/infrastructure/credmem"
)

const unreachableBackend = "http://127.0.0.1:1"

type testServer struct {
	e      *echo.Echo
	cookie *http.Cookie
}

type envelope struct {
	Success    bool            `json:"success"`
	Code       string          `json:"code"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Provenance string          `json:"provenance"`
	Redirect   string          `json:"redirect"`
}

func newTestServer(t *testing.T, backendURL string, opts service.SessionOptions, checks ...handler.Check) *testServer {
	t.Helper()
	tokens := service.NewTokenService("test-secret", time.Hour)
	factory := app.NewWorkspaceFactory(app.WorkspaceDeps{
		BackendURL:  backendURL,
		HTTPClient:  &http.Client{Timeout: time.Second},
		Credentials: credmem.New(),
		Tokens:      tokens,
		Session:     opts,
		Logger:      zerolog.Nop(),
	})
	sessions := service.NewSessionManager(factory, time.Hour, zerolog.Nop())
	t.Cleanup(sessions.Shutdown)

	e := NewRouter(Deps{
		Sessions:   sessions,
		Tokens:     tokens,
		SessionTTL: time.Hour,
		Checks:     checks,
		Registry:   prometheus.NewRegistry(),
		Logger:     zerolog.Nop(),
	})
	return &testServer{e: e}
}

func newBackend(t *testing.T, routes map[string]http.HandlerFunc) string {
	t.Helper()
	mux := http.NewServeMux()
	for pattern, h := range routes {
		mux.HandleFunc(pattern, h)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL
}

func reply(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}
}

// do sends a request carrying the session cookie and keeps any new one.
func (s *testServer) do(method, path, contentType string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "sid" {
			s.cookie = ck
		}
	}
	return rec
}

func (s *testServer) json(method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	return s.do(method, path, echo.MIMEApplicationJSON, r)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return env
}

const ownerLogin = `{"success":true,"data":{"token":"live-token","user":{"id":"u1","name":"Asha","email":"asha@x.com","role":"owner"}}}`

func TestRouter_FirstContactIssuesCookie(t *testing.T) {
	s := newTestServer(t, unreachableBackend, service.SessionOptions{})

	rec := s.json(http.MethodGet, "/api/session", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if s.cookie == nil || !s.cookie.HttpOnly {
		t.Fatalf("expected HttpOnly sid cookie")
	}

	var sess struct {
		IsLoading       bool `json:"isLoading"`
		IsAuthenticated bool `json:"isAuthenticated"`
	}
	json.Unmarshal(decodeEnvelope(t, rec).Data, &sess)
	if sess.IsLoading || sess.IsAuthenticated {
		t.Fatalf("expected settled anonymous session, got %+v", sess)
	}
}

func TestRouter_GuardRedirectsAnonymous(t *testing.T) {
	s := newTestServer(t, unreachableBackend, service.SessionOptions{})

	rec := s.json(http.MethodGet, "/api/dashboard", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Redirect != "/login" {
		t.Fatalf("expected redirect to /login, got %+v", env)
	}
}

func TestRouter_LoginThenRoleGuards(t *testing.T) {
	var auth string
	backend := newBackend(t, map[string]http.HandlerFunc{
		"POST /api/users/login": reply(http.StatusOK, ownerLogin),
		"GET /api/hoardings": func(w http.ResponseWriter, r *http.Request) {
			auth = r.Header.Get("Authorization")
			reply(http.StatusOK, `{"success":true,"data":[{"id":"h1","name":"Live board"}]}`)(w, r)
		},
	})
	s := newTestServer(t, backend, service.SessionOptions{})

	rec := s.json(http.MethodPost, "/api/session/login", `{"email":"asha@x.com","password":"pw"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if env := decodeEnvelope(t, rec); env.Redirect != "/owner/dashboard" || env.Provenance != "live" {
		t.Fatalf("unexpected login response %+v", env)
	}

	rec = s.json(http.MethodGet, "/api/hoardings", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if auth != "Bearer live-token" {
		t.Fatalf("expected bearer token on backend call, got %q", auth)
	}
	if env := decodeEnvelope(t, rec); env.Provenance != "live" {
		t.Fatalf("expected live data, got %+v", env)
	}

	rec = s.json(http.MethodGet, "/api/client/contracts", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Redirect != "/unauthorized" {
		t.Fatalf("expected redirect to /unauthorized, got %+v", env)
	}
}

func TestRouter_LoginRejected(t *testing.T) {
	backend := newBackend(t, map[string]http.HandlerFunc{
		"POST /api/users/login": reply(http.StatusUnauthorized, `{"success":false,"message":"Invalid credentials"}`),
	})
	s := newTestServer(t, backend, service.SessionOptions{})

	rec := s.json(http.MethodPost, "/api/session/login", `{"email":"asha@x.com","password":"bad"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Success || env.Message != "Invalid credentials" {
		t.Fatalf("unexpected error envelope %+v", env)
	}

	rec = s.json(http.MethodGet, "/api/session/notifications", "")
	var notes []struct {
		Level   string `json:"level"`
		Message string `json:"message"`
	}
	json.Unmarshal(decodeEnvelope(t, rec).Data, &notes)
	if len(notes) != 1 || notes[0].Level != "error" || notes[0].Message != "Login failed: Invalid credentials" {
		t.Fatalf("unexpected notifications %+v", notes)
	}
}

func TestRouter_LoginValidation(t *testing.T) {
	s := newTestServer(t, unreachableBackend, service.SessionOptions{})

	rec := s.json(http.MethodPost, "/api/session/login", `{"email":"not-an-email","password":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Code != "validation_failed" || !strings.Contains(env.Message, "email") {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestRouter_DemoSessionServesFallbacks(t *testing.T) {
	s := newTestServer(t, unreachableBackend, service.SessionOptions{DemoMode: true})

	rec := s.json(http.MethodPost, "/api/session/login", `{"email":"owner@demo.com","password":"anything"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if env := decodeEnvelope(t, rec); env.Provenance != "fallback" {
		t.Fatalf("expected fallback session, got %+v", env)
	}

	rec = s.json(http.MethodGet, "/api/hoardings", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	var hoardings []map[string]any
	json.Unmarshal(env.Data, &hoardings)
	if env.Provenance != "fallback" || len(hoardings) == 0 {
		t.Fatalf("expected sample hoardings, got %+v", env)
	}

	rec = s.json(http.MethodGet, "/api/dashboard", "")
	if env := decodeEnvelope(t, rec); rec.Code != http.StatusOK || env.Provenance != "fallback" {
		t.Fatalf("expected fallback dashboard, got %d %+v", rec.Code, env)
	}
}

func TestRouter_LiveSearch(t *testing.T) {
	backend := newBackend(t, map[string]http.HandlerFunc{
		"POST /api/users/login": reply(http.StatusOK, ownerLogin),
		"GET /api/search": func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query().Get("query")
			reply(http.StatusOK, `{"success":true,"data":{"hoardings":[{"id":"h-`+q+`","name":"`+q+`"}]}}`)(w, r)
		},
	})
	s := newTestServer(t, backend, service.SessionOptions{})
	s.json(http.MethodPost, "/api/session/login", `{"email":"asha@x.com","password":"pw"}`)

	var panel struct {
		Open    bool   `json:"open"`
		Query   string `json:"query"`
		Results *struct {
			Hoardings []struct {
				ID string `json:"id"`
			} `json:"hoardings"`
		} `json:"results"`
	}

	rec := s.json(http.MethodPost, "/api/search/live", `{"query":"mg"}`)
	json.Unmarshal(decodeEnvelope(t, rec).Data, &panel)
	if !panel.Open || panel.Results == nil || panel.Results.Hoardings[0].ID != "h-mg" {
		t.Fatalf("unexpected panel %+v", panel)
	}

	panel.Results = nil
	rec = s.json(http.MethodPost, "/api/search/live", `{"query":"m"}`)
	json.Unmarshal(decodeEnvelope(t, rec).Data, &panel)
	if panel.Open || panel.Results != nil {
		t.Fatalf("expected closed panel for short query, got %+v", panel)
	}

	rec = s.json(http.MethodPost, "/api/search/select", `{"category":"contracts","id":"c-1"}`)
	var route struct {
		Route string `json:"route"`
	}
	json.Unmarshal(decodeEnvelope(t, rec).Data, &route)
	if route.Route != "/owner/contracts/c-1" {
		t.Fatalf("unexpected route %q", route.Route)
	}

	rec = s.json(http.MethodGet, "/api/search?query=mg", "")
	if env := decodeEnvelope(t, rec); rec.Code != http.StatusOK || env.Provenance != "live" {
		t.Fatalf("unexpected results response %d %+v", rec.Code, env)
	}

	rec = s.json(http.MethodGet, "/api/search", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without query, got %d", rec.Code)
	}
}

func TestRouter_RegisterMultipart(t *testing.T) {
	var gotAvatar bool
	backend := newBackend(t, map[string]http.HandlerFunc{
		"POST /api/users/register": func(w http.ResponseWriter, r *http.Request) {
			r.ParseMultipartForm(1 << 20)
			_, _, err := r.FormFile("avatar")
			gotAvatar = err == nil
			reply(http.StatusCreated, `{"success":true,"data":{"token":"t","user":{"id":"u2","name":"Cy","email":"cy@x.com","role":"client"}}}`)(w, r)
		},
	})
	s := newTestServer(t, backend, service.SessionOptions{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range map[string]string{"name": "Cy", "email": "cy@x.com", "password": "secret1", "role": "client"} {
		mw.WriteField(k, v)
	}
	fw, _ := mw.CreateFormFile("avatar", "me.png")
	fw.Write([]byte("PNG"))
	mw.Close()

	rec := s.do(http.MethodPost, "/api/session/register", mw.FormDataContentType(), &buf)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !gotAvatar {
		t.Fatalf("expected avatar forwarded to backend")
	}
	if env := decodeEnvelope(t, rec); env.Redirect != "/client/dashboard" {
		t.Fatalf("unexpected redirect %q", env.Redirect)
	}
}

func TestRouter_LogoutEndsSession(t *testing.T) {
	backend := newBackend(t, map[string]http.HandlerFunc{
		"POST /api/users/login":  reply(http.StatusOK, ownerLogin),
		"POST /api/users/logout": reply(http.StatusOK, `{"success":true}`),
	})
	s := newTestServer(t, backend, service.SessionOptions{})
	s.json(http.MethodPost, "/api/session/login", `{"email":"asha@x.com","password":"pw"}`)

	rec := s.json(http.MethodPost, "/api/session/logout", "")
	if env := decodeEnvelope(t, rec); rec.Code != http.StatusOK || env.Redirect != "/login" {
		t.Fatalf("unexpected logout response %d %+v", rec.Code, env)
	}
	if rec := s.json(http.MethodGet, "/api/session/navigation", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", rec.Code)
	}
}

func TestRouter_Health(t *testing.T) {
	failing := func(context.Context) error { return errors.New("down") }
	ok := func(context.Context) error { return nil }

	s := newTestServer(t, unreachableBackend, service.SessionOptions{},
		handler.Check{Name: "redis", Ping: ok},
		handler.Check{Name: "backend", Optional: true, Ping: failing},
	)
	if rec := s.json(http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	rec := s.json(http.MethodGet, "/health/ready", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"degraded"`) {
		t.Fatalf("expected degraded 200, got %d %s", rec.Code, rec.Body.String())
	}

	s = newTestServer(t, unreachableBackend, service.SessionOptions{},
		handler.Check{Name: "mongodb", Ping: failing},
	)
	if rec := s.json(http.MethodGet, "/health/ready", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestRouter_Metrics(t *testing.T) {
	s := newTestServer(t, unreachableBackend, service.SessionOptions{})
	s.json(http.MethodGet, "/health", "")

	rec := s.json(http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "bff_requests_total") {
		t.Fatalf("expected request metrics, got %d", rec.Code)
	}
}
