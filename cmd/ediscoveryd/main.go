package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/ediscovery-service/internal/async"
	"github.com/joseph-ayodele/ediscovery-service/internal/audit"
	"github.com/joseph-ayodele/ediscovery-service/internal/common"
	"github.com/joseph-ayodele/ediscovery-service/internal/export"
	"github.com/joseph-ayodele/ediscovery-service/internal/repository"
	"github.com/joseph-ayodele/ediscovery-service/internal/search"
	"github.com/joseph-ayodele/ediscovery-service/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := repository.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer repository.Close(pool, logger)

	if err := repository.HealthCheck(ctx, pool, cfg.Database.DialTimeout, logger); err != nil {
		logger.Error("database health check failed", "error", err)
		os.Exit(1)
	}

	docsRepo := repository.NewDocumentRepository(pool, logger)
	auditRepo := repository.NewAuditRepository(pool, logger)

	jobStore := export.NewMemoryJobStore()
	writer := export.NewWriter(cfg.Export.Dir)
	processor := export.NewProcessor(jobStore, docsRepo, writer, logger)
	queue := async.NewExportQueue(processor, logger,
		async.WithWorkers(cfg.Export.Workers),
		async.WithQueueSize(cfg.Export.QueueSize),
		async.WithJobTimeout(cfg.Export.JobTimeout),
	)

	exportSvc := export.NewService(jobStore, queue, writer, logger)
	searchSvc := search.NewService(docsRepo, logger)
	auditSvc := audit.NewService(auditRepo, logger)

	gin.SetMode(gin.ReleaseMode)
	router := server.NewRouter(cfg.Server, server.Handlers{
		Export: server.NewExportHandler(exportSvc, logger),
		Search: server.NewSearchHandler(searchSvc, logger),
		Audit:  server.NewAuditHandler(auditSvc, logger),
		System: server.NewSystemHandler(),
	}, logger)

	srv := &http.Server{
		Addr:         cfg.Server.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("http server listening", "addr", cfg.Server.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
	queue.Shutdown(shutdownCtx)

	logger.Info("stopped")
}
