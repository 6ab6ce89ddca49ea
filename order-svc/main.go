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
	"github.com/Niranjannn-ux/hotel-ordering-system/logger"
	httpapi "github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/api/http"
	"github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/service"
	"github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/storage"
)

const (
	defaultTables   = 10
	defaultCapacity = 4

	cartIdleTTL   = 2 * time.Hour
	sweepInterval = 10 * time.Minute
)

type repository interface {
	service.ItemRepository
	service.OrderRepository
	service.StockRepository
	service.TableRepository
	service.AnomalyRepository
}

func main() {
	cfg := config.Load()
	log := logger.New("order-svc")
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "action", "startup", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		repo  repository
		cache service.ItemCache
	)
	if cfg.Storage == config.StorageMemory {
		store := storage.NewMemoryStore()
		store.SeedTables(defaultTables, defaultCapacity)
		repo = store
		log.Info("using in-memory storage", "action", "storage_selected", "storage", cfg.Storage)
	} else {
		db := config.MustInitPostgres()
		defer db.Close()

		pg := storage.NewPostgresRepository(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Error("failed to ensure schema", "action", "startup", "error", err)
			os.Exit(1)
		}
		if err := pg.SeedTables(ctx, defaultTables, defaultCapacity); err != nil {
			log.Error("failed to seed tables", "action", "startup", "error", err)
			os.Exit(1)
		}
		repo = pg

		rdb := config.MustInitRedis()
		defer rdb.Close()
		cache = storage.NewRedisCache(rdb, cfg.CatalogCacheTTL)
	}

	hub := storage.NewHub(64)
	publishers := service.Publishers{hub}
	if config.KafkaEnabled() {
		writer := config.NewKafkaWriter()
		defer writer.Close()
		publishers = append(publishers, storage.NewKafkaPublisher(writer))
		log.Info("publishing order events to kafka", "action", "broker_selected")
	}

	catalog := service.NewCatalogService(repo, cache, log)
	stock := service.NewStockLedger(repo, repo, storage.ExcelStockParser{}, log)
	ledger := service.NewLedger(repo, stock, repo, repo, publishers, service.LedgerOptions{
		Policy:   service.StockPolicy(cfg.StockPolicy),
		Location: cfg.Location(),
	}, log)
	carts := service.NewCartRegistry(catalog)

	handler := httpapi.NewHandler(httpapi.Services{
		Catalog: catalog,
		Carts:   carts,
		Orders:  ledger,
		Stock:   stock,
		Reports: service.NewReportService(repo, repo, repo, service.ReportOptions{
			ExcludeCancelledRevenue: cfg.ExcludeCancelledRevenue,
			LookaheadDays:           cfg.ReorderLookaheadDays,
			HistoryDays:             cfg.ReorderHistoryDays,
			LowStockDays:            cfg.LowStockDays,
		}),
		Tables: service.NewTableService(repo, repo, log),
		QR:     service.DefaultQRGenerator{BaseURL: cfg.PublicBaseURL},
		Events: hub,
	}, log)

	go sweepCarts(ctx, carts, log)

	srv := httpapi.NewServer(cfg.HTTPAddr, httpapi.NewRouter(handler))
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && err != http.ErrServerClosed {
			log.Error("shutdown failed", "action", "server_stopped", "error", err)
		}
	}()

	if err := httpapi.StartServer(srv, log); err != nil {
		log.Error("server failed", "action", "server_stopped", "error", err)
		os.Exit(1)
	}
	log.Info("Order Service stopped", "action", "server_stopped")
}

func sweepCarts(ctx context.Context, carts *service.CartRegistry, log *slog.Logger) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := carts.Sweep(cartIdleTTL); n > 0 {
				log.Info("idle carts removed", "action", "cart_sweep", "removed", n)
			}
		}
	}
}
