package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"jobboard/internal/config"
	"jobboard/internal/exporter"
	apphttp "jobboard/internal/http"
	"jobboard/internal/repository/sqlite"
	"jobboard/internal/service"
	"jobboard/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	logger := cfg.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := sqlite.NewUserRepository(db)
	companyRepo := sqlite.NewCompanyRepository(db)
	candidateRepo := sqlite.NewCandidateRepository(db)
	jobRepo := sqlite.NewJobRepository(db)
	appRepo := sqlite.NewApplicationRepository(db)
	exportRepo := sqlite.NewExportRepository(db)

	if err := sqlite.InitAll(ctx, userRepo, companyRepo, candidateRepo, jobRepo, appRepo, exportRepo); err != nil {
		logger.Fatalf("init repositories: %v", err)
	}

	accountService := service.NewAccountService(userRepo, companyRepo, candidateRepo, sqlite.NewAccountRepository(db), service.AccountConfig{
		JWTSecret:  cfg.Auth.JWTSecret,
		TokenTTL:   cfg.TokenTTL(),
		BcryptCost: cfg.Auth.BcryptCost,
	})
	jobService := service.NewJobService(jobRepo, appRepo)
	applicationService := service.NewApplicationService(jobRepo, appRepo)
	reportService := service.NewReportService(sqlite.NewReportRepository(db))
	exportService := service.NewExportService(exportRepo)

	storageSvc, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup storage: %v", err)
	}

	manager := exporter.NewManager(exporter.Config{
		DataDir:       cfg.Export.DataDir,
		MaxConcurrent: cfg.Export.MaxConcurrent,
		UploadOptions: storage.UploadOptions{
			Bucket:    cfg.Storage.Bucket,
			KeyPrefix: cfg.Storage.KeyPrefix,
		},
		Logger: logger,
	}, exportService, reportService, storageSvc)

	if err := manager.Start(ctx); err != nil {
		logger.Fatalf("start export manager: %v", err)
	}
	if err := manager.Resume(ctx); err != nil {
		logger.Warnf("resume exports: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(apphttp.Deps{
		Accounts:     accountService,
		Jobs:         jobService,
		Applications: applicationService,
		Reports:      reportService,
		Exports:      exportService,
		Exporter:     manager,
		Storage:      storageSvc,
		Logger:       logger,
		CookieSecure: cfg.Server.CookieSecure,
		CORSOrigins:  cfg.CORS.Origins,
	})
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	manager.Shutdown()

	logger.Info("bye")
}

// buildStorage returns nil when no bucket is configured; exports then stay on local disk.
func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	svc, err := storage.New(ctx, storage.Config{
		Bucket:   cfg.Storage.Bucket,
		Region:   cfg.Storage.Region,
		Endpoint: cfg.Storage.Endpoint,
		Profile:  cfg.AWS.Profile,
	}, logger)
	if errors.Is(err, storage.ErrNotConfigured) {
		logger.Info("storage bucket not set, report exports are kept on local disk")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return svc, nil
}
