package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Niranjannn-ux/hotel-ordering-system/config"
	httpapi "github.com/Niranjannn-ux/hotel-ordering-system/display-svc/internal/api/http"
	"github.com/Niranjannn-ux/hotel-ordering-system/display-svc/internal/domain"
	"github.com/Niranjannn-ux/hotel-ordering-system/display-svc/internal/service"
	"github.com/Niranjannn-ux/hotel-ordering-system/display-svc/internal/storage"
	"github.com/Niranjannn-ux/hotel-ordering-system/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New("display-svc")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	store := storage.NewStore(rdb)
	source := storage.NewOrderClient(cfg.OrderSvcURL)

	if config.KafkaEnabled() {
		reader := config.NewKafkaReader(domain.Topics(), "display-svc-consumer")
		defer reader.Close()
		consumer := service.NewConsumer(reader, store, source, log)
		go consumer.Start(ctx)
		startHTTP(ctx, consumer, store, log)
		return
	}

	consumer := service.NewConsumer(nil, store, source, log)
	log.Info("no broker configured, polling order service", "action", "consumer_started",
		"interval", cfg.ResyncInterval.String())
	go consumer.Poll(ctx, cfg.ResyncInterval)
	startHTTP(ctx, consumer, store, log)
}

func startHTTP(ctx context.Context, consumer *service.Consumer, store *storage.Store, log *slog.Logger) {
	srv := &http.Server{
		Addr:              config.ListenAddr(":8082"),
		Handler:           httpapi.NewRouter(httpapi.NewHandler(store, consumer, log)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info("Display Service starting", "action", "server_started", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server failed", "action", "server_stopped", "error", err)
	}
}
