package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/tutor-admin-backend/internal/config"
	"github.com/tbourn/tutor-admin-backend/internal/http/middleware"
	"github.com/tbourn/tutor-admin-backend/internal/repo"
	"github.com/tbourn/tutor-admin-backend/internal/state"
)

// newTestState opens a migrated SQLite file in a temp dir.
func newTestState(t *testing.T) *state.AppState {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("router_%d.db", time.Now().UnixNano()))
	db, err := repo.Open(config.DBConfig{URL: dsn, MaxOpenConns: 1, MaxIdleConns: 1}, false)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return state.New(db, "I'm OK.")
}

func baseConfig() config.Config {
	return config.Config{
		APIBasePath:    "/",
		MaxBodyBytes:   1 << 20,
		RateRPS:        100,
		RateBurst:      100,
		LogRedact:      true,
		IdempotencyTTL: time.Hour,
		CORS:           config.CORSConfig{LocalhostPrefix: "http://localhost"},
		OTEL:           config.OTELConfig{ServiceName: "test-svc"},
	}
}

func newEngine(t *testing.T, cfg config.Config) (*gin.Engine, *state.AppState) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	st := newTestState(t)
	r := gin.New()
	RegisterRoutes(r, st, cfg)
	return r, st
}

func send(r http.Handler, method, path, body string, hdr ...string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterRoutes_Health_Metrics_Fallbacks(t *testing.T) {
	r, st := newEngine(t, baseConfig())

	w := send(r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK || w.Body.String() != `"I'm OK. 0 times"` {
		t.Fatalf("GET /health = %d %s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" || w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("expected request id and security headers: %#v", w.Header())
	}

	w = send(r, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /metrics = %d", w.Code)
	}
	want := fmt.Sprintf("health_checks_total %d", st.Visits())
	if !strings.Contains(w.Body.String(), want) {
		t.Fatalf("metrics missing %q", want)
	}

	w = send(r, http.MethodGet, "/nope", "")
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), `"error_message":"route not found"`) {
		t.Fatalf("GET /nope = %d %s", w.Code, w.Body.String())
	}

	w = send(r, http.MethodPost, "/health", "")
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /health = %d", w.Code)
	}

	w = send(r, http.MethodGet, "/swagger/index.html", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("swagger must be off by default, got %d", w.Code)
	}
}

func TestRegisterRoutes_RouteTable(t *testing.T) {
	r, _ := newEngine(t, baseConfig())

	w := send(r, http.MethodGet, "/teachers", "")
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "No teachers found") {
		t.Fatalf("empty list: %d %s", w.Code, w.Body.String())
	}
	w = send(r, http.MethodPost, "/teachers", `{"name":"Ada","picture_url":"p","profile":"x"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("create teacher: %d %s", w.Code, w.Body.String())
	}
	w = send(r, http.MethodPost, "/courses/", `{"teacher_id":1,"name":"Intro"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("create course: %d %s", w.Code, w.Body.String())
	}

	for _, tc := range []struct {
		method, path, body string
		want               int
	}{
		{http.MethodGet, "/teachers", "", http.StatusOK},
		{http.MethodGet, "/teachers/1", "", http.StatusOK},
		{http.MethodPut, "/teachers/1", `{"profile":"y"}`, http.StatusOK},
		{http.MethodGet, "/courses/1", "", http.StatusOK},
		{http.MethodGet, "/courses/1/1", "", http.StatusOK},
		{http.MethodPut, "/courses/1/1", `{"price":32}`, http.StatusOK},
		{http.MethodDelete, "/courses/1/1", "", http.StatusOK},
		{http.MethodDelete, "/courses/1/1", "", http.StatusNotFound},
		{http.MethodDelete, "/teachers/1", "", http.StatusOK},
		{http.MethodGet, "/teachers/1", "", http.StatusNotFound},
	} {
		if w := send(r, tc.method, tc.path, tc.body); w.Code != tc.want {
			t.Fatalf("%s %s = %d; want %d (%s)", tc.method, tc.path, w.Code, tc.want, w.Body.String())
		}
	}
}

func TestRegisterRoutes_BasePathAndIdempotencyScope(t *testing.T) {
	cfg := baseConfig()
	cfg.APIBasePath = "/api"
	r, _ := newEngine(t, cfg)

	if w := send(r, http.MethodGet, "/api/health", ""); w.Code != http.StatusOK {
		t.Fatalf("GET /api/health = %d", w.Code)
	}
	if w := send(r, http.MethodGet, "/health", ""); w.Code != http.StatusNotFound {
		t.Fatalf("GET /health outside base = %d", w.Code)
	}

	body := `{"teacher_id":2,"name":"Go"}`
	first := send(r, http.MethodPost, "/api/courses/", body, middleware.HeaderIdempotencyKey, "k-1")
	second := send(r, http.MethodPost, "/api/courses/", body, middleware.HeaderIdempotencyKey, "k-1")
	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("creates: %d %d", first.Code, second.Code)
	}
	var a, b struct {
		ID int64 `json:"id"`
	}
	_ = json.Unmarshal(first.Body.Bytes(), &a)
	_ = json.Unmarshal(second.Body.Bytes(), &b)
	if a.ID == 0 || a.ID != b.ID {
		t.Fatalf("replay returned a different course: %d vs %d", a.ID, b.ID)
	}
	if second.Header().Get(middleware.HeaderIdempotencyReplayed) != "true" {
		t.Fatalf("expected replay header on second create")
	}

	w := send(r, http.MethodPost, "/api/teachers", `{"name":"a","picture_url":"b","profile":"c"}`,
		middleware.HeaderIdempotencyKey, "not valid!")
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "Invalid Idempotency-Key header") {
		t.Fatalf("bad key: %d %s", w.Code, w.Body.String())
	}
}

func TestRegisterRoutes_RateLimitBypassedOnReplay(t *testing.T) {
	cfg := baseConfig()
	cfg.RateRPS = 0.0001
	cfg.RateBurst = 2
	r, _ := newEngine(t, cfg)

	body := `{"name":"a","picture_url":"b","profile":"c"}`
	if w := send(r, http.MethodPost, "/teachers", body, middleware.HeaderIdempotencyKey, "t-1"); w.Code != http.StatusOK {
		t.Fatalf("first create: %d %s", w.Code, w.Body.String())
	}
	if w := send(r, http.MethodPost, "/teachers", body, middleware.HeaderIdempotencyKey, "t-1"); w.Code != http.StatusOK {
		t.Fatalf("replay should bypass the limiter: %d %s", w.Code, w.Body.String())
	}
	if w := send(r, http.MethodGet, "/health", ""); w.Code != http.StatusOK {
		t.Fatalf("second token: %d", w.Code)
	}
	w := send(r, http.MethodGet, "/health", "")
	if w.Code != http.StatusTooManyRequests || !strings.Contains(w.Body.String(), `"error_message":"Too many requests"`) {
		t.Fatalf("expected 429, got %d %s", w.Code, w.Body.String())
	}
}

func TestRegisterRoutes_RateLimitDisabled(t *testing.T) {
	cfg := baseConfig()
	cfg.RateRPS = 0
	cfg.RateBurst = 1
	r, _ := newEngine(t, cfg)
	for i := 0; i < 5; i++ {
		if w := send(r, http.MethodGet, "/health", ""); w.Code != http.StatusOK {
			t.Fatalf("request %d limited with RATE_RPS=0: %d", i, w.Code)
		}
	}
}

func TestRegisterRoutes_CORS(t *testing.T) {
	cfg := baseConfig()
	cfg.CORS.AllowedOrigins = []string{"https://admin.example.com"}
	r, _ := newEngine(t, cfg)

	for _, origin := range []string{"http://localhost:5173", "https://admin.example.com"} {
		w := send(r, http.MethodGet, "/health", "", "Origin", origin)
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != origin {
			t.Fatalf("origin %s: ACAO = %q", origin, got)
		}
	}

	w := send(r, http.MethodGet, "/health", "", "Origin", "https://evil.example.com")
	if w.Code != http.StatusForbidden {
		t.Fatalf("foreign origin: %d", w.Code)
	}

	w = send(r, http.MethodOptions, "/teachers/1", "",
		"Origin", "http://localhost:3000",
		"Access-Control-Request-Method", http.MethodPut,
		"Access-Control-Request-Headers", "Content-Type, Idempotency-Key")
	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight = %d", w.Code)
	}
	if methods := w.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(methods, http.MethodPut) {
		t.Fatalf("PUT must be allowed, got %q", methods)
	}
	if maxAge := w.Header().Get("Access-Control-Max-Age"); maxAge != "3600" {
		t.Fatalf("max age = %q", maxAge)
	}
}

func TestRegisterRoutes_SwaggerAndPlainLogger(t *testing.T) {
	cfg := baseConfig()
	cfg.SwaggerEnabled = true
	cfg.LogRedact = false
	cfg.GzipEnabled = true
	r, _ := newEngine(t, cfg)

	if w := send(r, http.MethodGet, "/swagger/index.html", ""); w.Code != http.StatusOK {
		t.Fatalf("swagger index = %d", w.Code)
	}
	if w := send(r, http.MethodGet, "/health", "", "Accept-Encoding", "gzip"); w.Code != http.StatusOK {
		t.Fatalf("GET /health with gzip = %d", w.Code)
	}
}

func TestRegisterRoutes_BodyLimit(t *testing.T) {
	cfg := baseConfig()
	cfg.MaxBodyBytes = 16
	r, _ := newEngine(t, cfg)

	w := send(r, http.MethodPost, "/teachers", `{"name":"a very long name","picture_url":"b","profile":"c"}`)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "Please provide valid json input") {
		t.Fatalf("oversized body: %d %s", w.Code, w.Body.String())
	}
}

func Test_limitBody_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(limitBody(10))
	r.POST("/echo", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too big")
			return
		}
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString("0123456789AB")))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 from limitBody, got %d", w.Code)
	}
}

func Test_groupWithPrefix_and_joinRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	groupWithPrefix(r, "/").GET("/one", func(c *gin.Context) { c.String(http.StatusOK, c.FullPath()) })
	groupWithPrefix(r, "").GET("/two", func(c *gin.Context) { c.String(http.StatusOK, c.FullPath()) })
	api := groupWithPrefix(r, "/api")
	api.POST("/courses/", func(c *gin.Context) { c.String(http.StatusOK, c.FullPath()) })

	for path, method := range map[string]string{"/one": http.MethodGet, "/two": http.MethodGet, "/api/courses/": http.MethodPost} {
		w := send(r, method, path, "")
		if w.Code != http.StatusOK || w.Body.String() != path {
			t.Fatalf("%s %s got %d %q", method, path, w.Code, w.Body.String())
		}
	}

	cases := map[[2]string]string{
		{"/", "/teachers"}:     "/teachers",
		{"", "/courses/"}:      "/courses/",
		{"/api", "/courses/"}:  "/api/courses/",
		{"/api/", "/teachers"}: "/api/teachers",
	}
	for in, want := range cases {
		if got := joinRoute(in[0], in[1]); got != want {
			t.Fatalf("joinRoute(%q,%q) = %q; want %q", in[0], in[1], got, want)
		}
	}
	if got := joinRoute(api.BasePath(), "/courses/"); got != "/api/courses/" {
		t.Fatalf("joinRoute with group base = %q", got)
	}
}
