package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/tutor-admin-backend/internal/domain"
	"github.com/tbourn/tutor-admin-backend/internal/http/middleware"
)

func TestFail_MapsEveryKind(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cause := errors.New("sql: connection refused")

	cases := []struct {
		name     string
		err      error
		status   int
		message  string
		logsCase bool
	}{
		{"not found", domain.NotFound("Teacher is not found"), http.StatusNotFound, "Teacher is not found", false},
		{"wrapped not found", fmt.Errorf("svc: %w", domain.NotFound("Course id not found")), http.StatusNotFound, "Course id not found", false},
		{"invalid input", domain.InvalidInput("Please provide valid json input"), http.StatusBadRequest, "Please provide valid json input", false},
		{"store", domain.StoreError("create teacher", cause), http.StatusInternalServerError, "Database error", true},
		{"transport", domain.TransportError(cause), http.StatusInternalServerError, "Internal Server error", true},
		{"untagged", cause, http.StatusInternalServerError, "Internal Server error", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf)

			r := gin.New()
			r.Use(func(c *gin.Context) {
				c.Set("logger", &logger)
				c.Next()
			})
			r.GET("/x", func(c *gin.Context) { fail(c, tc.err) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

			if w.Code != tc.status {
				t.Fatalf("status = %d; want %d", w.Code, tc.status)
			}
			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("json: %v", err)
			}
			if resp.ErrorMessage != tc.message {
				t.Fatalf("error_message = %q; want %q", resp.ErrorMessage, tc.message)
			}
			if strings.Contains(w.Body.String(), "connection refused") {
				t.Fatalf("cause leaked to client: %s", w.Body.String())
			}
			logged := strings.Contains(buf.String(), `"level":"error"`)
			if logged != tc.logsCase {
				t.Fatalf("logged=%v; want %v (%s)", logged, tc.logsCase, buf.String())
			}
			if tc.logsCase && !strings.Contains(buf.String(), "connection refused") {
				t.Fatalf("expected wrapped cause in log: %s", buf.String())
			}
		})
	}
}

func TestFail_StoreErrorLoggedWithRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })
	log.Logger = zerolog.New(&buf)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger())
	r.DELETE("/teachers/:id", func(c *gin.Context) {
		fail(c, domain.StoreError("delete teacher", errors.New("database is locked")))
	})

	req := httptest.NewRequest(http.MethodDelete, "/teachers/4", nil)
	req.Header.Set("X-Request-ID", "rid-del-4")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError || !strings.Contains(w.Body.String(), `"error_message":"Database error"`) {
		t.Fatalf("response: %d %s", w.Code, w.Body.String())
	}

	var apiErr map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("log line is not json: %v (%s)", err, line)
		}
		if m["message"] == "api error" {
			apiErr = m
		}
	}
	if apiErr == nil {
		t.Fatalf("no api error line in:\n%s", buf.String())
	}
	if apiErr["request_id"] != "rid-del-4" || apiErr["path"] != "/teachers/:id" ||
		apiErr["kind"] != domain.KindStore.String() || !strings.Contains(fmt.Sprint(apiErr["error"]), "database is locked") {
		t.Fatalf("api error line = %v", apiErr)
	}
}

func TestFallbackHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoRoute(RouteNotFound)
	r.NoMethod(MethodNotAllowed)
	r.GET("/teachers", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), `"error_message":"route not found"`) {
		t.Fatalf("no route: %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/teachers", nil))
	if w.Code != http.StatusMethodNotAllowed || !strings.Contains(w.Body.String(), `"error_message":"method not allowed"`) {
		t.Fatalf("no method: %d %s", w.Code, w.Body.String())
	}
}
