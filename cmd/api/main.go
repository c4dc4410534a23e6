package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bryanwahyu/scamlens/internal/application"
	appanalysis "github.com/bryanwahyu/scamlens/internal/application/analysis"
	appuploads "github.com/bryanwahyu/scamlens/internal/application/uploads"
	"github.com/bryanwahyu/scamlens/internal/config"
	domai "github.com/bryanwahyu/scamlens/internal/domain/ai"
	"github.com/bryanwahyu/scamlens/internal/domain/history"
	"github.com/bryanwahyu/scamlens/internal/infra/ai/gemini"
	"github.com/bryanwahyu/scamlens/internal/infra/ai/openai"
	"github.com/bryanwahyu/scamlens/internal/infra/db/mysql"
	"github.com/bryanwahyu/scamlens/internal/infra/db/postgres"
	"github.com/bryanwahyu/scamlens/internal/infra/httpserver"
	"github.com/bryanwahyu/scamlens/internal/infra/imagefetch"
	"github.com/bryanwahyu/scamlens/internal/infra/storage"
	"github.com/bryanwahyu/scamlens/internal/metrics"
	"github.com/bryanwahyu/scamlens/internal/middleware"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if cfg.AI.APIKey == "" {
		log.Fatal("missing API key: set GEMINI_API_KEY (or OPENAI_API_KEY for the openai provider)")
	}

	var aiClient domai.Client
	switch cfg.AI.Provider {
	case "openai":
		aiClient = openai.NewClient(cfg.AI.APIKey, cfg.AI.Model)
	case "gemini":
		aiClient = gemini.NewClient(cfg.AI.APIKey, cfg.AI.Model)
	default:
		log.Fatalf("unknown ai provider %q", cfg.AI.Provider)
	}

	ctx := context.Background()

	store, err := storage.New(ctx,
		cfg.Minio.Endpoint,
		cfg.Minio.Region,
		cfg.Minio.BucketName,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
	)
	if err != nil {
		log.Fatalf("init storage: %v", err)
	}

	checkers := map[string]middleware.HealthChecker{
		"storage": middleware.CheckerFunc(store.HealthCheck),
	}

	var historyRepo history.Repository
	if cfg.HistoryEnabled() {
		switch cfg.Database.Driver {
		case "postgres":
			db, err := postgres.Connect(ctx, cfg.PostgresDSN())
			if err != nil {
				log.Fatalf("connect postgres: %v", err)
			}
			defer db.Close()
			historyRepo = postgres.NewHistoryRepository(db)
			checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
		case "mysql":
			db, err := mysql.Connect(ctx, cfg.MySQLDSN())
			if err != nil {
				log.Fatalf("connect mysql: %v", err)
			}
			defer db.Close()
			historyRepo = mysql.NewHistoryRepository(db)
			checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
		default:
			log.Fatalf("unknown database driver %q", cfg.Database.Driver)
		}
	}

	metrics.Register()

	analysisSvc := &appanalysis.Service{
		AI:      aiClient,
		Images:  imagefetch.New(cfg.Fetch.MaxImageBytes),
		Blobs:   store,
		History: historyRepo,
	}
	uploadSvc := &appuploads.Service{Blobs: store, Clock: application.SystemClock{}}

	handler := httpserver.NewRouter(httpserver.Options{
		Analysis:       analysisSvc,
		Uploads:        uploadSvc,
		History:        historyRepo,
		HasAPIKey:      cfg.AI.APIKey != "",
		Checkers:       checkers,
		MetricsHandler: promhttp.Handler(),
	})
	handler = middleware.RateLimit(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate)(handler)
	handler = middleware.Metrics(handler)
	handler = middleware.Logging(handler)

	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("listening on %s provider=%s model=%s history=%t",
			srv.Addr, cfg.AI.Provider, cfg.AI.Model, cfg.HistoryEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
