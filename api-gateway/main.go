package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Niranjannn-ux/hotel-ordering-system/api-gateway/internal/gateway"
	"github.com/Niranjannn-ux/hotel-ordering-system/config"
	"github.com/Niranjannn-ux/hotel-ordering-system/logger"

	"github.com/rs/cors"
)

func newHandler(cfg config.Config, client gateway.HTTPClient, log *slog.Logger) http.Handler {
	gw := gateway.NewGateway(gateway.Config{
		OrderSvcURL:   cfg.OrderSvcURL,
		DisplaySvcURL: cfg.DisplaySvcURL,
		FrontendDir:   cfg.FrontendDir,
	}, client, log)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(gw.SetupRoutes())
}

func main() {
	cfg := config.Load()
	log := logger.New("api-gateway")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// No client timeout: the kitchen event stream stays open indefinitely.
	srv := &http.Server{
		Addr:              config.ListenAddr(":8080"),
		Handler:           newHandler(cfg, &http.Client{}, log),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info("API Gateway starting", "action", "server_started", "addr", srv.Addr,
		"order_svc", cfg.OrderSvcURL, "display_svc", cfg.DisplaySvcURL)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server failed", "action", "server_stopped", "error", err)
		os.Exit(1)
	}
}
