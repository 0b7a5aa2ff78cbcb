package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fsgate/internal/config"
	"fsgate/internal/confirm"
	"fsgate/internal/handler"
	"fsgate/internal/pathguard"
	"fsgate/internal/repository"
	"fsgate/internal/router"
	"fsgate/internal/service"
)

type App struct {
	server       *http.Server
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	guard, err := pathguard.New(cfg.AllowedDirectories)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize path guard: %w", err)
	}
	slog.Info("path guard ready", "allowed_directories", guard.Roots())

	confirmations := confirm.NewFileStore(cfg.ConfirmationFile, cfg.ConfirmationTTL)
	// A restart invalidates every outstanding confirmation token.
	confirmations.Cleanup()

	auditRepo, err := repository.NewAuditRepository(cfg.AuditDBFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audit repository: %w", err)
	}
	auditService := service.NewAuditService(auditRepo)

	fileService := service.NewFileService(guard, auditService)
	directoryService := service.NewDirectoryService(guard, auditService)
	searchService := service.NewSearchService(guard)
	operationsService := service.NewOperationsService(guard, confirmations, auditService)

	appRouter := router.New(cfg, router.Handlers{
		File:       handler.NewFileHandler(fileService),
		Directory:  handler.NewDirectoryHandler(directoryService, searchService),
		Operations: handler.NewOperationsHandler(operationsService, guard),
		Audit:      handler.NewAuditHandler(auditService),
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      appRouter,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		cleanupFuncs: []func(){
			func() {
				if closeErr := auditRepo.Close(); closeErr != nil {
					slog.Warn("failed to close audit repository", "error", closeErr)
				}
			},
		},
	}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
