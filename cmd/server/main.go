package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sajag/internal/analytics"
	analyticshandler "sajag/internal/analytics/handler"
	"sajag/internal/assistant"
	assistanthandler "sajag/internal/assistant/handler"
	"sajag/internal/audit"
	audithandler "sajag/internal/audit/handler"
	"sajag/internal/auth"
	authhandler "sajag/internal/auth/handler"
	"sajag/internal/auth/revocation"
	authservice "sajag/internal/auth/service"
	"sajag/internal/export"
	exporthandler "sajag/internal/export/handler"
	"sajag/internal/health"
	jwttoken "sajag/internal/jwt_token"
	"sajag/internal/partner"
	partnerhandler "sajag/internal/partner/handler"
	partnerservice "sajag/internal/partner/service"
	"sajag/internal/platform/config"
	"sajag/internal/platform/httpserver"
	"sajag/internal/platform/logger"
	platformmetrics "sajag/internal/platform/metrics"
	"sajag/internal/platform/postgres"
	platformredis "sajag/internal/platform/redis"
	"sajag/internal/program"
	programhandler "sajag/internal/program/handler"
	programmetrics "sajag/internal/program/metrics"
	programservice "sajag/internal/program/service"
	httptransport "sajag/internal/transport/http"
	"sajag/internal/visibility"
	visibilitymetrics "sajag/internal/visibility/metrics"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal services.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}

	// Stores fall back to in-memory implementations when no backend is
	// configured, which keeps local development dependency-free.
	var (
		programStore program.Store
		partnerStore partner.Store
		userStore    auth.UserStore
		auditStore   audit.Store
		trl          revocation.TokenRevocationList
	)
	if db != nil {
		programStore = program.NewPostgresStore(db)
		partnerStore = partner.NewPostgresStore(db)
		userStore = auth.NewPostgresUserStore(db)
		auditStore = audit.NewPostgresStore(db)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		memPrograms := program.NewInMemoryStore()
		programStore = memPrograms
		partnerStore = partner.NewInMemoryStore(partner.WithProgramCounter(memPrograms.CountByPartner))
		userStore = auth.NewInMemoryUserStore()
		auditStore = audit.NewInMemoryStore()
	}
	switch {
	case redisClient != nil:
		trl = revocation.NewRedisTRL(redisClient.Client)
	case db != nil:
		trl = revocation.NewPostgresTRL(db)
	default:
		trl = revocation.NewInMemoryTRL()
	}

	// Audit events flow through a channel to a background worker so request
	// handling never waits on the audit store.
	auditInbox := make(chan audit.Event, 256)
	auditor := audit.NewChannelPublisher(auditInbox)
	auditWorker := audit.NewWorker(auditStore, auditInbox, log)

	selector := visibility.NewSelector(visibilitymetrics.New())
	tokens := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)

	programSvc := programservice.New(programStore, selector, auditor, programmetrics.New())
	partnerSvc := partnerservice.New(partnerStore, auditor)
	analyticsSvc := analytics.New(programSvc)
	exportSvc := export.New(programSvc)
	authSvc := authservice.New(userStore, tokens, trl, auditor)

	var generator assistant.Generator
	if cfg.GenAIAPIKey != "" {
		g, err := assistant.NewGeminiGenerator(context.Background(), cfg.GenAIAPIKey, cfg.GenAIModel)
		if err != nil {
			log.Error("assistant backend init failed", "error", err)
			os.Exit(1)
		}
		generator = g
	} else {
		log.Warn("GENAI_API_KEY not set, assistant endpoint disabled")
	}
	assistantSvc := assistant.New(generator, programSvc)

	healthHandler := health.New()
	if db != nil {
		healthHandler.AddCheck("postgres", health.CheckFunc(db.PingContext))
	}
	if redisClient != nil {
		healthHandler.AddCheck("redis", redisClient)
	}

	authH := authhandler.New(authSvc, log)
	router := httptransport.NewRouter(httptransport.Deps{
		Logger:            log,
		Metrics:           platformmetrics.New(),
		TokenValidator:    tokens,
		RevocationChecker: trl,
		Health:            healthHandler,
		Public: []httptransport.Registrar{
			httptransport.RegistrarFunc(authH.RegisterPublic),
		},
		API: []httptransport.Registrar{
			authH,
			programhandler.New(programSvc, log),
			partnerhandler.New(partnerSvc, log),
			analyticshandler.New(analyticsSvc, log),
			exporthandler.New(exportSvc, auditor, log),
			assistanthandler.New(assistantSvc, log),
			audithandler.New(auditStore, log),
		},
	})

	srv := httpserver.New(cfg.Addr, router)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		if err := auditWorker.Run(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("audit worker stopped", "error", err)
		}
	}()

	go func() {
		log.Info("starting sajag server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}

	stopWorker()
	<-workerDone

	if redisClient != nil {
		_ = redisClient.Close()
	}
	if db != nil {
		_ = db.Close()
	}
}
