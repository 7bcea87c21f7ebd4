package server

import (
	"bytes"
	"context"
	"errors"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"

	"github.com/kbukum/regexprobe/engine"
	"github.com/kbukum/regexprobe/logger"
	"github.com/kbukum/regexprobe/query"
	"github.com/kbukum/regexprobe/resilience"
	"github.com/kbukum/regexprobe/server/middleware"
)

func newTestServer(t *testing.T, cfg Config, ec engine.Config) *Server {
	t.Helper()
	cfg.ApplyDefaults()
	log := logger.Nop()

	h, err := NewProbeHandler(ec, cfg.Evaluations, log)
	if err != nil {
		t.Fatalf("NewProbeHandler: %v", err)
	}
	srv := New(cfg, log)
	srv.ApplyMiddleware()
	srv.RegisterDefaultEndpoints("regexprobe", h.Names)
	h.Register(srv.GinEngine())
	return srv
}

func do(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader = http.NoBody
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)
	return rr
}

type errorEnvelope struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("error body is not JSON: %v (%s)", err, rr.Body.String())
	}
	return env
}

func TestQuery_Success(t *testing.T) {
	srv := newTestServer(t, Config{}, engine.Config{})

	for _, name := range []string{"", engine.NameGo, engine.NameRE2, engine.NameRegexp2} {
		t.Run("engine="+name, func(t *testing.T) {
			target := "/v1/query"
			if name != "" {
				target += "?engine=" + name
			}
			rr := do(t, srv, http.MethodPost, target, `{"pattern":"a(b)?c","inputs":["ac","abc","xyz"]}`)
			if rr.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
			}
			want := `{"pattern":"a(b)?c","inputs":["ac","abc","xyz"],"validPattern":true,"results":[` +
				`{"input":"ac","matched":true,"matchContents":{"matchedString":"ac","captureGroups":[""]}},` +
				`{"input":"abc","matched":true,"matchContents":{"matchedString":"abc","captureGroups":["b"]}},` +
				`{"input":"xyz","matched":false,"matchContents":{"matchedString":"","captureGroups":[]}}]}` + "\n"
			if got := rr.Body.String(); got != want {
				t.Errorf("unexpected body:\n got %s\nwant %s", got, want)
			}
			if rr.Header().Get(middleware.HeaderRequestID) == "" {
				t.Error("expected a request ID header")
			}
		})
	}
}

func TestQuery_InvalidPattern(t *testing.T) {
	srv := newTestServer(t, Config{}, engine.Config{})
	rr := do(t, srv, http.MethodPost, "/v1/query", `{"pattern":"(foo","inputs":["foo"]}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var res query.QueryResult
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	want := query.QueryResult{Pattern: "(foo", Inputs: []string{"foo"}, Results: []query.MatchResult{}}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestQuery_Pretty(t *testing.T) {
	srv := newTestServer(t, Config{}, engine.Config{})
	rr := do(t, srv, http.MethodPost, "/v1/query?pretty=true", `{"pattern":"x","inputs":[]}`)
	if !strings.Contains(rr.Body.String(), "\n  \"pattern\": \"x\"") {
		t.Errorf("expected indented output, got %q", rr.Body.String())
	}
}

func TestQuery_Errors(t *testing.T) {
	srv := newTestServer(t, Config{MaxBodySize: "64B"}, engine.Config{})

	tests := []struct {
		name     string
		target   string
		body     string
		wantCode int
		wantErr  string
	}{
		{"not json", "/v1/query", `{"pattern":`, http.StatusBadRequest, "MALFORMED_QUERY"},
		{"missing inputs", "/v1/query", `{"pattern":"a"}`, http.StatusBadRequest, "MALFORMED_QUERY"},
		{"non-string input", "/v1/query", `{"pattern":"a","inputs":[1]}`, http.StatusBadRequest, "MALFORMED_QUERY"},
		{"unknown engine", "/v1/query?engine=pcre", `{"pattern":"a","inputs":[]}`, http.StatusBadRequest, "UNSUPPORTED_ENGINE"},
		{"too large", "/v1/query", `{"pattern":"a","inputs":["` + strings.Repeat("a", 100) + `"]}`, http.StatusRequestEntityTooLarge, "MALFORMED_QUERY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, srv, http.MethodPost, tt.target, tt.body)
			if rr.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, rr.Code, rr.Body.String())
			}
			if got := decodeError(t, rr).Error.Code; got != tt.wantErr {
				t.Errorf("expected %s, got %s", tt.wantErr, got)
			}
		})
	}
}

func TestQuery_MatchDeadline(t *testing.T) {
	srv := newTestServer(t, Config{}, engine.Config{Name: engine.NameRegexp2, MatchTimeout: 20 * time.Millisecond})
	body := `{"pattern":"^(a+)+$","inputs":["` + strings.Repeat("a", 40) + `!"]}`
	rr := do(t, srv, http.MethodPost, "/v1/query", body)
	if rr.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504, got %d: %s", rr.Code, rr.Body.String())
	}
	if got := decodeError(t, rr).Error.Code; got != "TIMEOUT" {
		t.Errorf("expected TIMEOUT, got %s", got)
	}
}

func TestQuery_Busy(t *testing.T) {
	var logs bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "warn", Format: "json"}, "test", &logs)
	h, err := NewProbeHandler(engine.Config{}, resilience.BulkheadConfig{MaxConcurrent: 1}, log)
	if err != nil {
		t.Fatal(err)
	}
	// Take the only slot for the duration of the request.
	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = h.limit.Execute(context.Background(), func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started
	defer close(release)

	cfg := Config{}
	cfg.ApplyDefaults()
	srv := New(cfg, logger.Nop())
	srv.ApplyMiddleware()
	h.Register(srv.GinEngine())

	rr := do(t, srv, http.MethodPost, "/v1/query", `{"pattern":"a","inputs":["a"]}`)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d: %s", rr.Code, rr.Body.String())
	}
	if got := decodeError(t, rr).Error.Code; got != "BUSY" {
		t.Errorf("expected BUSY, got %s", got)
	}
	for _, want := range []string{`"in_use":1`, `"max_concurrent":1`} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("expected %s in rejection log, got %s", want, logs.String())
		}
	}
}

func TestQuery_UnmatchedGroupFromConfig(t *testing.T) {
	srv := newTestServer(t, Config{}, engine.Config{UnmatchedGroup: "<none>"})
	rr := do(t, srv, http.MethodPost, "/v1/query", `{"pattern":"(a)|(b)","inputs":["b"]}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var got query.QueryResult
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	want := []string{"<none>", "b"}
	if diff := cmp.Diff(want, got.Results[0].MatchContents.CaptureGroups); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
}

func TestRespondWithError_PlainError(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)
	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)
	RespondWithError(c, errors.New("disk full"))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if got := decodeError(t, rr).Error.Code; got != "INTERNAL_ERROR" {
		t.Errorf("expected INTERNAL_ERROR, got %s", got)
	}
}

func TestEngines(t *testing.T) {
	srv := newTestServer(t, Config{}, engine.Config{Name: engine.NameRE2})
	rr := do(t, srv, http.MethodGet, "/v1/engines", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body struct {
		Data []EngineInfo `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	want := []EngineInfo{
		{Name: engine.NameGo, LinearTime: true},
		{Name: engine.NameRE2, LinearTime: true, Default: true},
		{Name: engine.NameRegexp2, LinearTime: false},
	}
	if diff := cmp.Diff(want, body.Data); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultEndpoints(t *testing.T) {
	srv := newTestServer(t, Config{}, engine.Config{})

	rr := do(t, srv, http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 from /health, got %d", rr.Code)
	}
	var health map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &health); err != nil {
		t.Fatal(err)
	}
	if health["status"] != "healthy" {
		t.Errorf("unexpected health: %v", health)
	}

	rr = do(t, srv, http.MethodGet, "/info", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 from /info, got %d", rr.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, Config{}, engine.Config{})
	rr := do(t, srv, http.MethodGet, "/v1/query", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}

func TestNewProbeHandler_InvalidConfig(t *testing.T) {
	if _, err := NewProbeHandler(engine.Config{Name: "pcre"}, resilience.BulkheadConfig{}, logger.Nop()); err == nil {
		t.Fatal("expected an error for an unknown default engine")
	}
}

func TestStartStop(t *testing.T) {
	srv := newTestServer(t, Config{Host: "127.0.0.1"}, engine.Config{})
	srv.httpServer.Addr = "127.0.0.1:0"

	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer func() {
		if err := srv.Stop(context.Background()); err != nil {
			t.Errorf("Stop: %v", err)
		}
	}()

	resp, err := http.Post("http://"+srv.Addr()+"/v1/query", "application/json", strings.NewReader(`{"pattern":"\\d+","inputs":["price: 42 dollars"]}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	var res query.QueryResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if len(res.Results) != 1 || res.Results[0].MatchContents.MatchedString != "42" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestConfig(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port", func(c *Config) { c.Port = 70000 }},
		{"read timeout", func(c *Config) { c.ReadTimeout = -1 }},
		{"write timeout", func(c *Config) { c.WriteTimeout = -1 }},
		{"idle timeout", func(c *Config) { c.IdleTimeout = -1 }},
		{"body size", func(c *Config) { c.MaxBodySize = "huge" }},
		{"evaluation slots", func(c *Config) { c.Evaluations.MaxConcurrent = -1 }},
		{"evaluation wait", func(c *Config) { c.Evaluations.MaxWait = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cfg
			tt.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestNew_AlwaysReleaseMode(t *testing.T) {
	var logs strings.Builder
	debug := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", &logs)

	gin.SetMode(gin.DebugMode)
	cfg := Config{}
	cfg.ApplyDefaults()
	New(cfg, debug)

	if gin.Mode() != gin.ReleaseMode {
		t.Errorf("expected gin release mode at debug log level, got %s", gin.Mode())
	}
}
