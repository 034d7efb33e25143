package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gallerie/storefront/internal/auth"
	"github.com/gallerie/storefront/internal/config"
	"github.com/gallerie/storefront/internal/db"
	"github.com/gallerie/storefront/internal/domain/receipt"
	httpx "github.com/gallerie/storefront/internal/http"
	"github.com/gallerie/storefront/internal/http/handlers"
	"github.com/gallerie/storefront/internal/mail"
	"github.com/gallerie/storefront/internal/observability"
	"github.com/gallerie/storefront/internal/payments"
	"github.com/gallerie/storefront/internal/repo/postgres"
	filestore "github.com/gallerie/storefront/internal/store/file"
	"github.com/gallerie/storefront/internal/store/redisstore"
	"github.com/gallerie/storefront/internal/workflow"
)

// receiptStore is the union of what the handlers and the workflow need
// from the receipts backend; both file and postgres repos satisfy it.
type receiptStore interface {
	handlers.ReceiptStore
	Update(ctx context.Context, rec receipt.Receipt) error
}

func main() {
	// .env is optional; real deployments use the environment directly
	_ = godotenv.Load()

	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	if cfg.OTLPEndpoint != "" {
		shutdownTracer, err := observability.InitTracer(context.Background(), "storefront", cfg.OTLPEndpoint)
		if err != nil {
			log.Error("tracer init failed", "err", err)
		} else {
			defer func() {
				ctx, cancel := config.WithTimeout(5 * time.Second)
				defer cancel()
				_ = shutdownTracer(ctx)
			}()
		}
	}

	deps, cleanup, err := buildDeps(cfg, log)
	if err != nil {
		log.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer cleanup()

	router := httpx.NewRouter(log, deps)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.StoreBackend)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}

func buildDeps(cfg config.Config, log *slog.Logger) (httpx.Deps, func(), error) {
	cleanup := func() {}

	var (
		users    auth.UserStore
		sessions auth.SessionStore
		receipts receiptStore
		requests workflow.RequestStore
		notes    handlers.NotificationStore
		ready    func() error
	)

	switch cfg.StoreBackend {
	case "postgres":
		if err := db.Migrate(cfg.DBURL); err != nil {
			return httpx.Deps{}, cleanup, err
		}

		pool, err := db.NewPool(cfg.DBURL)
		if err != nil {
			return httpx.Deps{}, cleanup, err
		}
		cleanup = pool.Close

		users = postgres.NewUsersRepo(pool)
		sessions = postgres.NewSessionsRepo(pool)
		receipts = postgres.NewReceiptsRepo(pool)
		requests = postgres.NewRequestsRepo(pool)
		notes = postgres.NewNotificationsRepo(pool)

		ready = func() error {
			ctx, cancel := config.WithTimeout(1 * time.Second)
			defer cancel()
			return pool.Ping(ctx)
		}

	default:
		if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
			return httpx.Deps{}, cleanup, err
		}

		users = filestore.NewUsersRepo(cfg.DataDir)
		sessions = filestore.NewSessionsRepo(cfg.DataDir)
		receipts = filestore.NewReceiptsRepo(cfg.DataDir)
		requests = filestore.NewRequestsRepo(cfg.DataDir)
		notes = filestore.NewNotificationsRepo(cfg.DataDir)
	}

	if cfg.SessionBackend == "redis" {
		redisSessions := redisstore.NewSessionsRepo(redisstore.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.SessionTTL,
		})
		sessions = redisSessions

		prev := ready
		ready = func() error {
			ctx, cancel := config.WithTimeout(1 * time.Second)
			defer cancel()
			if err := redisSessions.Ping(ctx); err != nil {
				return err
			}
			if prev != nil {
				return prev()
			}
			return nil
		}
	}

	authSvc := auth.NewService(users, sessions, auth.Config{
		SessionTTL: cfg.SessionTTL,
		AdminEmail: cfg.AdminEmail,
	})

	seedCtx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()
	if err := auth.EnsureAdmin(seedCtx, users, cfg.AdminEmail, cfg.AdminPass, cfg.AdminName); err != nil {
		log.Warn("admin seed failed", "err", err)
	}

	prom := observability.NewProm(prometheus.DefaultRegisterer)

	var mailer mail.Mailer
	if cfg.SMTPHost != "" {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
			From:     cfg.MailFrom,
		})
	} else {
		mailer = mail.NewLogMailer(log)
	}
	mailer = mail.NewProtectedMailer(mailer, mail.ProtectedMailerConfig{})
	mailer = mail.WithMetrics(mailer, prom.EmailsTotal)

	wf := workflow.NewService(requests, receipts, notes, users, mailer, log)

	gatewayOpts := []payments.Option{payments.WithMetrics(prom.GatewayCallsTotal)}
	if cfg.PaymentBaseURL != "" {
		gatewayOpts = append(gatewayOpts, payments.WithBaseURL(cfg.PaymentBaseURL))
	}
	gateway := payments.NewClient(cfg.PaymentSecretKey, gatewayOpts...)

	return httpx.Deps{
		Auth:          authSvc,
		Sessions:      authSvc,
		Receipts:      receipts,
		Workflow:      wf,
		Notifications: notes,
		Gateway:       gateway,
		Ready:         ready,
		CORSOrigins:   cfg.CORSOrigins,
		MaxBodyBytes:  cfg.MaxBodyKB * 1024,
		Prom:          prom,
	}, cleanup, nil
}
