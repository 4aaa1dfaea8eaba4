package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nmishr/geo-dashboard/internal/api"
	"github.com/nmishr/geo-dashboard/internal/config"
	"github.com/nmishr/geo-dashboard/internal/logging"
	"github.com/nmishr/geo-dashboard/internal/observability"
	"github.com/nmishr/geo-dashboard/internal/pipeline"
	"github.com/nmishr/geo-dashboard/internal/provider"
	"github.com/nmishr/geo-dashboard/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	history, err := repository.NewSQLiteHistory(cfg.DB.Path, nil)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer history.Close()

	metrics := observability.NewMetrics()

	tomtom := provider.NewTomTom(cfg.Providers.TomTomKey, "",
		cfg.Providers.Timeout, cfg.Providers.RoutingTimeout, metrics)
	openweather := provider.NewOpenWeather(cfg.Providers.OpenWeatherKey, "",
		cfg.Providers.Timeout, metrics)

	svc := pipeline.NewService(pipeline.Deps{
		Geocoder:   tomtom,
		Weather:    openweather,
		AirQuality: openweather,
		Traffic:    tomtom,
		Router:     tomtom,
		History:    history,
		Metrics:    metrics,
	})

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}))
	router.Use(api.RateLimitMiddleware(cfg.Server.RateLimitRPS))

	handler := api.NewHandler(svc)
	handler.RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}
