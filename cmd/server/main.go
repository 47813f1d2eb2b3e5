package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coursedates/config"
	_ "coursedates/docs"
	"coursedates/internal/adapters/auth"
	"coursedates/internal/adapters/courseapi"
	"coursedates/internal/adapters/email"
	"coursedates/internal/delivery/http/controllers"
	"coursedates/internal/delivery/http/middleware"
	"coursedates/internal/domain"
	"coursedates/internal/repository/postgres"
	"coursedates/internal/services"

	delivery "coursedates/internal/delivery/http"

	_ "github.com/lib/pq"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, closeDB, err := openCache(ctx, cfg.DBUrl, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.InsecureSkipVerify,
		},
		Logger: logger,
	})
	if err != nil {
		return err
	}

	fetcher := courseapi.NewHTTPFetcher(&http.Client{Timeout: cfg.RequestTimeout}, cfg.CourseAPIBaseURL)
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)
	courseDates := services.NewCourseDatesService(fetcher, repo, emailService, logger, cfg.RequestTimeout,
		services.WithLocation(cfg.DefaultTimezone),
	)

	router := delivery.NewRouter(
		controllers.NewCourseDatesController(logger, courseDates),
		auth.NewJWTVerifier(cfg.JWTSecret),
		logger,
	)
	handler := middleware.CORS(cfg.AllowedOrigins, middleware.Logging(logger, router))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Environment, "cache", repo != nil)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info("signal received, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openCache connects to postgres and prepares the offline cache. An empty
// url disables the cache and yields a nil repository.
func openCache(ctx context.Context, url string, logger *slog.Logger) (domain.CourseDateRepository, func(), error) {
	if url == "" {
		logger.Warn("DATABASE_URL not set, offline cache disabled")
		return nil, func() {}, nil
	}
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return postgres.NewCourseDateRepository(db), func() { _ = db.Close() }, nil
}
