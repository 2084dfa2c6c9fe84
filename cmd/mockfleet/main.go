// mockfleet is a local stand-in for the fleet backend: the OAuth token
// endpoint plus every data endpoint the companion core calls, backed by
// in-memory fixtures. Useful for demos and for developing against a laptop
// instead of staging.
package main

import (
	"flag"
	"log/slog"
	"net/http"
	"time"

	"drivemate/shared/config"
	"drivemate/shared/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return
	}

	log := logger.Get(cfg.Log)
	log = logger.WithComponent(log, "mockfleet")

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(requestLogger(log), recovery(log))

	srv := newServer(log)
	srv.register(engine)

	log.Info("mockfleet listening", "addr", *addr)
	httpServer := &http.Server{
		Addr:         *addr,
		Handler:      engine,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := httpServer.ListenAndServe(); err != nil {
		log.Error("server stopped", "error", err)
	}
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Info("HTTP request",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		)
	}
}

func recovery(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("panic recovered", slog.Any("error", err))
				if !c.Writer.Written() {
					c.JSON(http.StatusInternalServerError, gin.H{
						"success": false,
						"message": "Internal server error",
						"data":    nil,
					})
				}
			}
		}()
		c.Next()
	}
}
