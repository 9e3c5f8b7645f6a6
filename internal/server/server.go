// Package server exposes the research engine over HTTP: job
// submission and inspection, live event streams, and document upload.
package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/drugscope/drugscope/config"
	"github.com/drugscope/drugscope/internal/classifier"
	"github.com/drugscope/drugscope/internal/docindex"
	"github.com/drugscope/drugscope/internal/job"
	"github.com/drugscope/drugscope/internal/metrics"
	"github.com/drugscope/drugscope/internal/provider"
	"github.com/drugscope/drugscope/internal/store"
)

// Run wires every dependency and serves until the listener fails.
func Run(cfgPath, addr string) error {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)

	if cfg.Storage.Driver == "postgres" {
		if err := Migrate("file://migrations", cfg.Storage.Postgres.DSN(), "up", 0); err != nil {
			return fmt.Errorf("applying migrations: %w", err)
		}
	}
	mirror, err := store.New(cfg.Storage, nil)
	if err != nil {
		return err
	}

	index, err := docindex.New()
	if err != nil {
		return fmt.Errorf("creating document index: %w", err)
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	broadcaster := job.NewBroadcaster(nil)
	pipeline := job.NewPipeline(classifier.New(), provider.All(index), broadcaster, nil)
	registry := job.NewRegistry(pipeline, mirror, m, nil, cfg.Pipeline.JobTimeout)

	e := newEcho(baseLogger)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	jh := &JobsHandler{
		Registry:    registry,
		Broadcaster: broadcaster,
		Stream: job.StreamConfig{
			PollInterval: cfg.Pipeline.PollInterval,
			MaxPolls:     cfg.Pipeline.StreamMaxPolls,
		},
	}
	jh.Register(api.Group("/jobs"))

	dh := &DocumentsHandler{Index: index}
	dh.Register(api.Group("/documents"))

	if addr == "" {
		addr = cfg.Server.Address
	}
	baseLogger.Printf("listening on %s", addr)
	return e.Start(addr)
}

// newEcho builds the echo instance with recovery, CORS, the unified
// JSON error handler, and the health probe.
func newEcho(logger *log.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		logger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Cookie"},
		AllowCredentials: true,
	}))
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	return e
}
