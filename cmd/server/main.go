package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/csg33k/billed/internal/adapters/filestore"
	"github.com/csg33k/billed/internal/adapters/memory"
	sqliteadapter "github.com/csg33k/billed/internal/adapters/sqlite"
	"github.com/csg33k/billed/internal/config"
	"github.com/csg33k/billed/internal/handlers"
	"github.com/csg33k/billed/internal/logging"
	"github.com/csg33k/billed/internal/ports"
	"github.com/csg33k/billed/internal/session"
	"github.com/csg33k/billed/internal/views"
)

func main() {
	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel)

	receipts, err := filestore.New(cfg.ReceiptsDir, views.ReceiptsPrefix)
	if err != nil {
		logger.Error("failed to prepare receipts directory", "dir", cfg.ReceiptsDir, "err", err)
		os.Exit(1)
	}

	var store ports.BillStore
	switch cfg.Store {
	case "memory":
		mem, err := memory.NewWithStoredFixtures(context.Background(), receipts)
		if err != nil {
			logger.Error("failed to store demo receipts", "dir", cfg.ReceiptsDir, "err", err)
			os.Exit(1)
		}
		store = mem
		logger.Info("using in-memory store with demo bills")
	default:
		repo, err := sqliteadapter.New(cfg.DBPath, receipts)
		if err != nil {
			logger.Error("failed to open database", "dsn", cfg.DBPath, "err", err)
			os.Exit(1)
		}
		defer repo.Close()
		if cfg.SeedFixtures {
			n, err := repo.Seed(context.Background(), memory.Fixtures(), memory.PlaceholderReceipt)
			if err != nil {
				logger.Error("failed to seed demo bills", "err", err)
				os.Exit(1)
			}
			logger.Info("seeded demo bills", "count", n)
		}
		store = repo
		logger.Info("database ready", "dsn", cfg.DBPath)
	}

	h, err := handlers.New(handlers.Options{
		Store:     store,
		Receipts:  receipts,
		Sessions:  session.NewManager(cfg.SessionSecret, cfg.SessionTTL),
		Logger:    logger,
		MaxUpload: cfg.MaxUploadBytes,
	})
	if err != nil {
		logger.Error("failed to build handlers", "err", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "err", err)
		}
	}()

	logger.Info("Billed running", "url", "http://localhost:"+cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
