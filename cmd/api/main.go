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

	"leadpulse/internal/auth"
	"leadpulse/internal/config"
	"leadpulse/internal/httpapi"
	"leadpulse/internal/leads"
	"leadpulse/internal/metrics"
	"leadpulse/internal/qualify"
	"leadpulse/internal/reporting"
	"leadpulse/internal/settings"
	"leadpulse/internal/voice"
	"leadpulse/pkg/logger"
	"leadpulse/pkg/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}
	cfg = cfg.WithDefaults()

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	provider, err := voice.NewVapiProvider(voice.VapiConfig{
		APIKey:        cfg.Vapi.APIKey,
		AssistantID:   cfg.Vapi.AssistantID,
		PhoneNumberID: cfg.Vapi.PhoneNumberID,
		BaseURL:       cfg.Vapi.BaseURL,
	})
	if err != nil {
		log.Error("voice provider init failed", "err", err)
		os.Exit(1)
	}

	settingsStore := settings.NewRedisStore(rdb, cfg.LLM.APIKey)
	providerSource := settings.NewProviderSource(settingsStore, cfg.LLM.Model, cfg.LLM.BaseURL, log)
	analyzer := qualify.NewAnalyzer(providerSource, log, m)

	leadsRepo := leads.NewPostgresRepo(db)
	leadsService := leads.NewService(leadsRepo, provider, analyzer, m, log)
	reportsService := reporting.NewService(leadsRepo)

	webhook := voice.WebhookHandler{
		Sink:    leadsService,
		Secret:  cfg.Vapi.WebhookSecret,
		Redis:   rdb,
		Metrics: m,
	}

	handlers := httpapi.Handlers{
		Auth:     authManager,
		Operator: cfg.Auth,
		Leads:    leadsService,
		Reports:  reportsService,
		Settings: settingsStore,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, registerDeps{
		handlers: handlers,
		webhook:  webhook,
		authMW:   auth.RequireAccessToken(authManager),
		registry: reg,
		db:       db,
		redis:    rdb,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
