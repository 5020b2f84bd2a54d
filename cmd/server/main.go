// Command server runs the schemeteller API: welfare scheme catalog,
// eligibility evaluation, and the surrounding account plumbing.
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

	"schemeteller/internal/admin"
	adminhandler "schemeteller/internal/admin/handler"
	"schemeteller/internal/auth"
	authhandler "schemeteller/internal/auth/handler"
	"schemeteller/internal/auth/store/revocation"
	"schemeteller/internal/bookmark"
	bookmarkhandler "schemeteller/internal/bookmark/handler"
	bookmarkstore "schemeteller/internal/bookmark/store"
	"schemeteller/internal/eligibility"
	eligibilityhandler "schemeteller/internal/eligibility/handler"
	eligibilitymetrics "schemeteller/internal/eligibility/metrics"
	apphttp "schemeteller/internal/http"
	"schemeteller/internal/jwttoken"
	"schemeteller/internal/platform/config"
	"schemeteller/internal/platform/httpserver"
	"schemeteller/internal/platform/logger"
	"schemeteller/internal/platform/metrics"
	"schemeteller/internal/platform/postgres"
	platformredis "schemeteller/internal/platform/redis"
	"schemeteller/internal/profile"
	profilehandler "schemeteller/internal/profile/handler"
	"schemeteller/internal/scheme"
	"schemeteller/internal/scheme/adapters"
	schemehandler "schemeteller/internal/scheme/handler"
	schemestore "schemeteller/internal/scheme/store"
	userstore "schemeteller/internal/user/store"
	"schemeteller/migrations"
	"schemeteller/pkg/platform/audit"
	auditpublisher "schemeteller/pkg/platform/audit/publisher"
	auditmemory "schemeteller/pkg/platform/audit/store/memory"
	auditworker "schemeteller/pkg/platform/audit/worker"
)

func main() {
	log := logger.New()
	slog.SetDefault(log)

	if err := run(log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.FromEnv()

	// Storage. Without DATABASE_URL everything runs in memory, which is
	// enough for local development.
	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}

	var (
		users     userstore.Store
		schemes   schemestore.Store
		bookmarks bookmarkstore.Store
	)
	if db != nil {
		defer func() { _ = db.Close() }()
		if err := migrations.Apply(ctx, db); err != nil {
			return err
		}
		users = userstore.NewPostgres(db)
		schemes = schemestore.NewPostgres(db)
		bookmarks = bookmarkstore.NewPostgres(db)
		log.Info("storage ready", "backend", "postgres")
	} else {
		users = userstore.NewInMemory()
		schemes = schemestore.NewInMemory()
		bookmarks = bookmarkstore.NewInMemory()
		log.Warn("DATABASE_URL not set, using in-memory storage")
	}

	// Token revocation list: Redis when configured, in-memory otherwise.
	var trl revocation.TokenRevocationList
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
		trl = revocation.NewRedisTRL(redisClient.Client)
		log.Info("token revocation list ready", "backend", "redis")
	} else {
		trl = revocation.NewInMemoryTRL()
		log.Warn("REDIS_URL not set, using in-memory token revocation list")
	}

	// Audit trail: events leave the request path through a buffered channel
	// and a worker drains them into the in-memory store. Kafka is added as
	// a second sink when brokers are configured.
	auditStore := auditmemory.New()
	auditInbox := make(chan audit.Event, 256)
	worker := auditworker.New(auditStore, auditInbox)
	go func() {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("audit worker stopped", "error", err)
		}
	}()
	sinks := []audit.Publisher{auditworker.NewChannelPublisher(auditInbox)}
	if len(cfg.Kafka.Brokers) > 0 {
		kafka, err := auditpublisher.NewKafka(ctx, cfg.Kafka.Brokers, cfg.Kafka.AuditTopic)
		if err != nil {
			return err
		}
		defer kafka.Close()
		sinks = append(sinks, kafka)
		log.Info("audit events publishing to kafka", "topic", cfg.Kafka.AuditTopic)
	}
	emitter := audit.NewEmitter(audit.NewFanout(sinks...), log)

	httpMetrics := metrics.New()
	tokens := jwttoken.NewService(cfg.JWT.SigningKey, cfg.JWT.Issuer, cfg.JWT.Audience)

	// Services.
	eligibilitySvc, err := eligibility.New(users, schemes,
		eligibility.WithLogger(log),
		eligibility.WithMetrics(eligibilitymetrics.New()),
		eligibility.WithAuditEmitter(emitter),
	)
	if err != nil {
		return err
	}
	authSvc, err := auth.New(users, tokens, trl, cfg.JWT.AccessTokenTTL,
		auth.WithLogger(log),
		auth.WithMetrics(httpMetrics),
		auth.WithAuditEmitter(emitter),
	)
	if err != nil {
		return err
	}
	profileSvc, err := profile.New(users, bookmarks, eligibilitySvc,
		profile.WithLogger(log),
		profile.WithAuditEmitter(emitter),
	)
	if err != nil {
		return err
	}
	schemeSvc, err := scheme.New(schemes, adapters.NewBookmarkAdapter(bookmarks),
		scheme.WithLogger(log),
	)
	if err != nil {
		return err
	}
	bookmarkSvc, err := bookmark.New(bookmarks, schemes,
		bookmark.WithLogger(log),
		bookmark.WithAuditEmitter(emitter),
	)
	if err != nil {
		return err
	}
	adminSvc, err := admin.New(users, schemes, bookmarks,
		admin.WithLogger(log),
		admin.WithAuditEmitter(emitter),
	)
	if err != nil {
		return err
	}

	router := apphttp.NewRouter(apphttp.Dependencies{
		Auth:        authhandler.New(authSvc, log),
		Profile:     profilehandler.New(profileSvc, log),
		Scheme:      schemehandler.New(schemeSvc, log),
		Bookmark:    bookmarkhandler.New(bookmarkSvc, log),
		Eligibility: eligibilityhandler.New(eligibilitySvc, bookmarks, log),
		Admin:       adminhandler.New(adminSvc, log),

		TokenValidator: jwttoken.NewMiddlewareAdapter(tokens),
		Revocations:    trl,
		Metrics:        httpMetrics,
		Logger:         log,
	})

	server := httpserver.New(cfg.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
