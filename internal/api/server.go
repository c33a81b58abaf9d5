// SPDX-License-Identifier: MIT

// Package api serves the Shortify page, its command endpoints and the
// WebSocket fragment push.
package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ManuGH/shortify/internal/api/middleware"
	"github.com/ManuGH/shortify/internal/app"
	"github.com/ManuGH/shortify/internal/health"
	xglog "github.com/ManuGH/shortify/internal/log"
	"github.com/ManuGH/shortify/internal/ratelimit"
)

// Config holds the HTTP surface settings.
type Config struct {
	AllowedOrigins  []string
	CookieSecure    bool
	RateLimitPerMin int
	TracingService  string // empty disables otelhttp
	// FlowAck bounds how long a command waits for its flow to take effect
	// before answering with the current fragments.
	FlowAck time.Duration
}

// Deps are the collaborators of the server.
type Deps struct {
	Sessions *app.Registry
	Health   *health.Manager
	Limiter  *ratelimit.Limiter
	Metrics  http.Handler
}

// Server is the HTTP front of all sessions.
type Server struct {
	cfg      Config
	deps     Deps
	logger   zerolog.Logger
	router   chi.Router
	upgrader websocket.Upgrader

	flows     sync.WaitGroup
	done      chan struct{}
	closeOnce sync.Once
}

// New wires routes and middleware.
func New(cfg Config, deps Deps) *Server {
	if cfg.FlowAck <= 0 {
		cfg.FlowAck = 250 * time.Millisecond
	}
	if deps.Metrics == nil {
		deps.Metrics = promhttp.Handler()
	}
	if deps.Health == nil {
		deps.Health = health.NewManager("")
	}
	s := &Server{
		cfg:    cfg,
		deps:   deps,
		logger: xglog.WithComponent("api"),
		done:   make(chan struct{}),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := middleware.NewRouter(middleware.StackConfig{
		EnableCORS:            len(s.cfg.AllowedOrigins) > 0,
		AllowedOrigins:        s.cfg.AllowedOrigins,
		EnableCSRF:            true,
		EnableSecurityHeaders: true,
		EnableMetrics:         true,
		TracingService:        s.cfg.TracingService,
		EnableLogging:         true,
		EnableRateLimit:       true,
		RateLimitPerMin:       s.cfg.RateLimitPerMin,
	})

	r.Get("/healthz", s.deps.Health.ServeHealth)
	r.Get("/readyz", s.deps.Health.ServeReady)
	r.Handle("/metrics", s.deps.Metrics)
	r.Get("/api/openapi.yaml", handleOpenAPI)
	r.Get("/api/openapi.json", handleOpenAPIJSON)
	r.Handle("/static/*", staticHandler())

	r.Group(func(r chi.Router) {
		r.Use(s.session)

		r.Get("/", s.handlePage)
		r.Get("/ws", s.handleWS)

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/state", s.handleState)
			r.Post("/intake", s.command(ratelimit.ClassFlow, s.handleIntake))
			r.Post("/input", s.command(ratelimit.ClassInteraction, s.handleInput))
			r.Post("/paste", s.command(ratelimit.ClassInteraction, s.handlePaste))
			r.Post("/examples/{index}", s.command(ratelimit.ClassInteraction, s.handleExample))
			r.Post("/process", s.command(ratelimit.ClassFlow, s.handleProcess))
			r.Post("/shorts/{id}/{action}", s.command(ratelimit.ClassInteraction, s.handleClipAction))
			r.Post("/theme/toggle", s.command(ratelimit.ClassInteraction, s.handleThemeToggle))
			r.Post("/notifications/{id}/dismiss", s.command(ratelimit.ClassInteraction, s.handleDismiss))
			r.Post("/reveal/{id}", s.command(ratelimit.ClassInteraction, s.handleReveal))
		})
	})
	return r
}

// Close ends open WebSocket pushes. http.Server.Shutdown does not track
// hijacked connections.
func (s *Server) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Drain waits for detached flows to finish or ctx to expire.
func (s *Server) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.flows.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
