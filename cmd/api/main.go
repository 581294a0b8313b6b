package main

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

	"github.com/svce-events/attendance-report/internal/config"
	"github.com/svce-events/attendance-report/internal/domain/analytics"
	"github.com/svce-events/attendance-report/internal/domain/auth"
	"github.com/svce-events/attendance-report/internal/domain/report"
	appHTTP "github.com/svce-events/attendance-report/internal/handler/http"
	"github.com/svce-events/attendance-report/internal/pkg/cron"
	"github.com/svce-events/attendance-report/internal/pkg/database"
	"github.com/svce-events/attendance-report/internal/pkg/document"
	"github.com/svce-events/attendance-report/internal/pkg/jwt"
	"github.com/svce-events/attendance-report/internal/pkg/sse"
	"github.com/svce-events/attendance-report/internal/pkg/storage"
	"github.com/svce-events/attendance-report/internal/repository/postgresql"
	"github.com/svce-events/attendance-report/internal/repository/upstream"
	analyticsService "github.com/svce-events/attendance-report/internal/service/analytics"
	reportService "github.com/svce-events/attendance-report/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *database.DB
	if cfg.HasDatabase() {
		db, err = database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), cfg.Database.MaxConns)
		if err != nil {
			slog.Error("Error connecting to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
	}

	var datasetSource analytics.DatasetSource
	switch cfg.Analytics.Source {
	case config.SourcePostgres:
		datasetSource = postgresql.NewAnalyticsRepository(db)
	default:
		datasetSource = upstream.NewAnalyticsClient(cfg.Analytics.BaseURL, cfg.Analytics.Timeout)
	}

	var exportLogRepo report.ExportLogRepository
	if db != nil {
		exportLogRepo = postgresql.NewExportLogRepository(db)
	}

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath)
	if err != nil {
		slog.Error("Failed to initialize local storage", "error", err)
		os.Exit(1)
	}
	if ok, err := fileStorage.Exists(ctx, cfg.Watermark.Path); err != nil || !ok {
		slog.Warn("Watermark image not found, reports will carry the text watermark only", "path", cfg.Watermark.Path)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if cfg.App.Env == "development" {
		if token, _, err := JWTService.GenerateAccessToken("dev-coordinator", "dev@localhost", auth.RoleCoordinator); err == nil {
			slog.Info("Development access token", "token", token)
		}
	}

	hub := sse.NewHub()
	analyticsSvc := analyticsService.NewAnalyticsService(datasetSource)
	exportSvc := reportService.NewExportService(analyticsSvc, fileStorage, exportLogRepo, reportService.Options{
		Layout:         document.DefaultLayout(),
		Author:         cfg.Export.Author,
		WatermarkPath:  cfg.Watermark.Path,
		WatermarkText:  cfg.Watermark.Text,
		ArchiveEnabled: cfg.Export.ArchiveEnabled,
		HistoryLimit:   cfg.Export.HistoryLimit,
	})

	if cfg.Export.Retention > 0 && (exportLogRepo != nil || cfg.Export.ArchiveEnabled) {
		var archive cron.ArchivePruner
		if cfg.Export.ArchiveEnabled {
			archive = fileStorage
		}
		scheduler := cron.NewScheduler(ctx)
		cron.NewRetentionJobs(exportLogRepo, archive, cfg.Export.Retention).RegisterJobs(scheduler)
		scheduler.Start()
		defer scheduler.Stop()
	}

	router := appHTTP.NewRouter(
		cfg.App,
		cfg.SlogLevel(),
		JWTService,
		appHTTP.NewAnalyticsHandler(analyticsSvc),
		appHTTP.NewExportHandler(exportSvc, JWTService, hub),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
	}()

	slog.Info("Server running", "addr", server.Addr, "analytics_source", cfg.Analytics.Source, "export_history", exportLogRepo != nil)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
	}
}
