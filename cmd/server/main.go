package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"applyform/internal/auditlog"
	"applyform/internal/notifier"
	"applyform/internal/objectstore"
	"applyform/internal/platform/config"
	"applyform/internal/platform/httpserver"
	"applyform/internal/platform/logger"
	"applyform/internal/platform/metrics"
	platformredis "applyform/internal/platform/redis"
	"applyform/internal/ratelimit"
	"applyform/internal/renderer"
	"applyform/internal/session"
	"applyform/internal/submission"
	"applyform/internal/submission/service"
	pgstore "applyform/internal/submission/store/postgres"
	httptransport "applyform/internal/transport/http"
)

// main wires dependencies and runs the server plus background workers.
// Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Persistence: Postgres when configured, in-memory otherwise.
	var store submission.Store
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Error("open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Error("ping postgres", "error", err)
			os.Exit(1)
		}
		store = pgstore.New(db)
		log.Info("using postgres store")
	} else {
		log.Warn("no postgres DSN configured, using in-memory store; data will not survive restarts")
		store = submission.NewMemoryStore()
	}

	// Redis-backed send limiter, disabled when Redis is not configured.
	var limiter service.SendLimiter
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		limiter = ratelimit.NewSendLimiter(redisClient.Client, cfg.Verification.SendsPerWindow, cfg.Verification.SendWindow)
		log.Info("verification send limiter enabled")
	}

	// Audit fan-out to Kafka, disabled when no brokers are configured.
	var auditEvents chan auditlog.Event
	var auditWorker *auditlog.Worker
	if cfg.Kafka.Brokers != "" {
		publisher, err := auditlog.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic, log)
		if err != nil {
			log.Error("create kafka publisher", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		auditEvents = make(chan auditlog.Event, 256)
		auditWorker = auditlog.NewWorker(publisher, auditEvents, log)
		log.Info("audit fan-out enabled", "topic", cfg.Kafka.AuditTopic)
	}

	var eventsOut chan<- auditlog.Event
	if auditEvents != nil {
		eventsOut = auditEvents
	}
	audit := auditlog.NewRecorder(store, log, eventsOut)

	// Outbound email: SMTP when configured, log-only otherwise.
	var mailer notifier.Notifier
	if cfg.SMTP.Host != "" {
		mailer = notifier.NewSMTPNotifier(notifier.SMTPConfig{
			Host:            cfg.SMTP.Host,
			Port:            cfg.SMTP.Port,
			Username:        cfg.SMTP.Username,
			Password:        cfg.SMTP.Password,
			From:            cfg.SMTP.From,
			FromName:        cfg.SMTP.FromName,
			OperationsEmail: cfg.OperationsEmail,
			TokenTTL:        cfg.Verification.TokenTTL,
		}, log)
	} else {
		log.Warn("SMTP not configured, emails will be logged instead of sent")
		mailer = notifier.NewLogNotifier(log)
	}

	m := metrics.New()
	sessions := session.NewTokenService(cfg.Session.SigningKey, cfg.Session.TTL)
	documents := objectstore.NewFilesystemStore(cfg.StorageDir, log)
	rend := renderer.NewHTTPRenderer(cfg.RendererURL)

	svc, err := service.New(store, rend, documents, mailer, audit,
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithSessionTokens(sessions),
		service.WithSendLimiter(limiter),
		service.WithVerificationConfig(service.VerificationConfig{
			TokenLength: cfg.Verification.TokenLength,
			TokenTTL:    cfg.Verification.TokenTTL,
			MaxAttempts: cfg.Verification.MaxAttempts,
		}),
	)
	if err != nil {
		log.Error("build service", "error", err)
		os.Exit(1)
	}

	router := httptransport.NewRouter(
		httptransport.NewFormHandler(svc, log),
		httptransport.NewAdminHandler(svc, log, cfg.AdminToken),
		log,
	)
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting applyform server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if auditWorker != nil {
		g.Go(func() error {
			err := auditWorker.Run(gctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
