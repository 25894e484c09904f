package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmacia/internal/config"
	"github.com/mamadbah2/farmacia/internal/repository"
	"github.com/mamadbah2/farmacia/internal/repository/filestore"
	"github.com/mamadbah2/farmacia/internal/repository/memory"
	"github.com/mamadbah2/farmacia/internal/repository/mongodb"
	redisstore "github.com/mamadbah2/farmacia/internal/repository/redis"
	"github.com/mamadbah2/farmacia/internal/repository/sheets"
	"github.com/mamadbah2/farmacia/internal/scheduler"
	"github.com/mamadbah2/farmacia/internal/server/handlers"
	"github.com/mamadbah2/farmacia/internal/server/router"
	alertsvc "github.com/mamadbah2/farmacia/internal/service/alerts"
	auditsvc "github.com/mamadbah2/farmacia/internal/service/audit"
	salessvc "github.com/mamadbah2/farmacia/internal/service/sales"
	"github.com/mamadbah2/farmacia/internal/service/session"
	stocksvc "github.com/mamadbah2/farmacia/internal/service/stock"
	whatsappsvc "github.com/mamadbah2/farmacia/internal/service/whatsapp"
	"github.com/mamadbah2/farmacia/pkg/clients/farmacia"
	whatsappclient "github.com/mamadbah2/farmacia/pkg/clients/whatsapp"
	"github.com/mamadbah2/farmacia/pkg/logger"
)

func main() {
	envFile := flag.String("env", "", "optional .env file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, closeStore, err := openStore(context.Background(), cfg.Session, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init session store", zap.String("store", cfg.Session.Store), zap.Error(err))
	}
	defer closeStore()

	obf, err := session.NewObfuscator(session.Fingerprint{
		UserAgent: farmacia.UserAgent,
		Language:  cfg.Session.Language,
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	})
	if err != nil {
		baseLogger.Fatal("failed to init session obfuscator", zap.Error(err))
	}

	apiClient := farmacia.NewClient(cfg.API, baseLogger.Named("client.farmacia"))
	sess := session.New(apiClient, store, obf, baseLogger.Named("svc.session"))
	apiClient.Bind(sess)

	if err := sess.Restore(context.Background()); err != nil {
		if errors.Is(err, session.ErrCorruptSnapshot) {
			baseLogger.Warn("stored session discarded, operator must log in again", zap.Error(err))
		} else {
			baseLogger.Error("failed to restore session", zap.Error(err))
		}
	}

	workflow := salessvc.NewWorkflow(apiClient, cfg.Sales.SearchDebounce, baseLogger.Named("svc.sales"))
	sess.OnLogout(workflow.Reset)

	stockSvc := stocksvc.NewService(apiClient, baseLogger.Named("svc.stock"))

	var messaging whatsappsvc.MessagingService
	if cfg.WhatsApp.Enabled() {
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		messaging = whatsappsvc.NewMetaWhatsAppService(whatsClient, baseLogger.Named("svc.whatsapp"))
		baseLogger.Info("whatsapp alert digest enabled")
	} else {
		baseLogger.Info("whatsapp not configured, alert digest disabled")
	}
	alertSvc := alertsvc.NewService(apiClient, messaging, cfg.WhatsApp.Recipient, baseLogger.Named("svc.alerts"))
	sess.OnLogout(alertSvc.Reset)

	var sheetsRepo sheets.Repository
	if cfg.Audit.SheetsEnabled() {
		repo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Audit, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sheetsRepo = repo
	}
	auditSvc := auditsvc.NewService(apiClient, sess, sheetsRepo, cfg.Audit.SheetRange, cfg.Audit.ExportDir, baseLogger.Named("svc.audit"))

	engine := router.New(router.Handlers{
		Auth:    handlers.NewAuthHandler(sess, apiClient, cfg.API.AssetURL, baseLogger.Named("handlers.auth")),
		Sale:    handlers.NewSaleHandler(workflow, cfg.API.AssetURL, baseLogger.Named("handlers.sale")),
		Catalog: handlers.NewCatalogHandler(apiClient, cfg.API.AssetURL, baseLogger.Named("handlers.catalog")),
		Stock:   handlers.NewStockHandler(stockSvc, baseLogger.Named("handlers.stock")),
		Alerts:  handlers.NewAlertHandler(alertSvc, baseLogger.Named("handlers.alerts")),
		Logs:    handlers.NewLogHandler(auditSvc, baseLogger.Named("handlers.logs")),
	}, sess, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Alerts.CronSchedule, alertSvc, sess, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.API.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("console starting", zap.String("addr", cfg.Server.Addr), zap.String("api", cfg.API.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	workflow.Reset()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// openStore builds the session store selected by SESSION_STORE and returns
// its release function.
func openStore(ctx context.Context, cfg config.SessionConfig, baseLogger *zap.Logger) (repository.Store, func(), error) {
	noop := func() {}

	switch cfg.Store {
	case config.StoreRedis:
		store, err := redisstore.NewStore(ctx, cfg.Redis.URL, cfg.Redis.Prefix, cfg.Profile)
		if err != nil {
			return nil, noop, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				baseLogger.Error("failed to close redis connection", zap.Error(err))
			}
		}, nil
	case config.StoreMongoDB:
		store, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName, cfg.Profile)
		if err != nil {
			return nil, noop, err
		}
		return store, func() {
			if err := store.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}, nil
	case config.StoreMemory:
		return memory.NewStore(), noop, nil
	default:
		store, err := filestore.NewStore(cfg.FilePath, baseLogger.Named("repo.filestore"))
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	}
}
