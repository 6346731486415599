// Package httpapi wires the Gin engine to the handlers, the services behind
// them and the cross-cutting middleware: tracing, correlation ids, access
// logging, panic recovery, metrics, idempotency, rate limiting, CORS and
// security headers.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tbourn/tutor-admin-backend/internal/config"
	"github.com/tbourn/tutor-admin-backend/internal/domain"
	"github.com/tbourn/tutor-admin-backend/internal/http/handlers"
	"github.com/tbourn/tutor-admin-backend/internal/http/middleware"
	"github.com/tbourn/tutor-admin-backend/internal/repo"
	"github.com/tbourn/tutor-admin-backend/internal/services"
	"github.com/tbourn/tutor-admin-backend/internal/state"
)

// RegisterRoutes attaches all middleware and endpoints to r.
//
// Middleware order matters:
//  1. OpenTelemetry
//  2. RequestID
//  3. Access logging (redacting or plain, per LOG_REDACT)
//  4. Recovery, after the logger so panics carry the request id
//  5. Body size limit
//  6. Gzip
//  7. Metrics
//  8. Idempotency validator, before the rate limiter so replays bypass it
//  9. Rate limiter (only when RATE_RPS > 0)
//  10. CORS and security headers
func RegisterRoutes(r *gin.Engine, st *state.AppState, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	if cfg.LogRedact {
		r.Use(middleware.RedactingLogger(middleware.RedactOptions{
			MaskHeaders: []string{middleware.HeaderIdempotencyKey},
		}))
	} else {
		r.Use(middleware.Logger())
	}
	r.Use(middleware.Recovery())

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 1 << 20
	}
	r.Use(limitBody(maxBody))

	if cfg.GzipEnabled {
		// promhttp negotiates its own compression.
		r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))
	}

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	middleware.SetHealthCounter(st.Visits)

	idem := services.StoreIdempotency{}

	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
			Scopes: map[string]string{
				joinRoute(cfg.APIBasePath, "/teachers"): domain.ScopeTeachers,
				joinRoute(cfg.APIBasePath, "/courses/"): domain.ScopeCourses,
			},
		},
		func(ctx context.Context, scope, key string, now time.Time) (bool, error) {
			_, err := idem.GetIdempotency(ctx, st.DB, scope, key, now)
			switch {
			case errors.Is(err, repo.ErrNoIdempotency):
				return false, nil
			case err != nil:
				return false, err
			}
			return true, nil
		},
	))

	if cfg.RateRPS > 0 {
		rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByClientIP())
		r.Use(rl.Handler())
	}

	r.Use(cors.New(corsConfig(cfg.CORS)))
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      true,
		EnablePolicy: true,
	}))

	r.NoRoute(handlers.RouteNotFound)
	r.NoMethod(handlers.MethodNotAllowed)

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(
		services.NewTeacherService(st.DB, services.StoreTeachers{}, idem, cfg.IdempotencyTTL),
		services.NewCourseService(st.DB, services.StoreCourses{}, idem, cfg.IdempotencyTTL),
		st,
	)

	// The group snapshots the middleware chain, so it is created last.
	api := groupWithPrefix(r, cfg.APIBasePath)
	api.GET("/health", h.Health)

	api.GET("/teachers", h.ListTeachers)
	api.POST("/teachers", h.CreateTeacher)
	api.GET("/teachers/:id", h.GetTeacher)
	api.PUT("/teachers/:id", h.UpdateTeacher)
	api.DELETE("/teachers/:id", h.DeleteTeacher)

	api.POST("/courses/", h.CreateCourse)
	api.GET("/courses/:teacher_id", h.ListCourses)
	api.GET("/courses/:teacher_id/:course_id", h.GetCourse)
	api.PUT("/courses/:teacher_id/:course_id", h.UpdateCourse)
	api.DELETE("/courses/:teacher_id/:course_id", h.DeleteCourse)
}

// corsConfig allows any origin under the localhost prefix plus the exact
// origins listed in configuration.
func corsConfig(c config.CORSConfig) cors.Config {
	allowed := make(map[string]struct{}, len(c.AllowedOrigins))
	for _, o := range c.AllowedOrigins {
		allowed[o] = struct{}{}
	}
	return cors.Config{
		AllowOriginFunc: func(origin string) bool {
			if c.LocalhostPrefix != "" && strings.HasPrefix(origin, c.LocalhostPrefix) {
				return true
			}
			_, ok := allowed[origin]
			return ok
		},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Accept", "Content-Type", middleware.HeaderIdempotencyKey},
		ExposeHeaders: []string{"X-Request-ID", middleware.HeaderIdempotencyReplayed},
		MaxAge:        time.Hour,
	}
}

// limitBody caps the request body at maxBytes; larger bodies fail to bind.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}

// joinRoute mirrors how Gin composes a group base path with a relative route,
// so the result matches c.FullPath().
func joinRoute(base, rel string) string {
	if base == "" || base == "/" {
		return rel
	}
	return strings.TrimRight(base, "/") + rel
}
