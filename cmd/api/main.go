package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"shopcrawl/internal/auth"
	"shopcrawl/internal/config"
	transporthttp "shopcrawl/internal/http"
	"shopcrawl/internal/platform/database"
	"shopcrawl/internal/platform/logging"
	"shopcrawl/internal/platform/mail"
	"shopcrawl/internal/platform/migrate"
	"shopcrawl/internal/products"
	"shopcrawl/internal/search"
	"shopcrawl/internal/shops"
	"shopcrawl/internal/users"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.New(cfg.LogLevel)

	repos, cleanup, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize repositories", "error", err)
		os.Exit(1)
	}
	if cleanup != nil {
		defer cleanup()
	}

	issuer := auth.NewTokenIssuer([]byte(cfg.JWTSecret))
	userSvc := users.NewService(repos.users)
	authSvc := auth.NewService(repos.users, issuer, buildMailer(cfg, logger), cfg.FrontendURL)
	shopSvc := shops.NewService(repos.shops)
	productSvc := products.NewService(repos.products, repos.shops)
	searchSvc := search.NewService(repos.search, productSvc, logger)

	svcs := transporthttp.Services{
		Users:    userSvc,
		Auth:     authSvc,
		Issuer:   issuer,
		Shops:    shopSvc,
		Products: productSvc,
		Search:   searchSvc,
	}

	if cfg.OAuthEnabled() {
		google, err := auth.NewGoogleAuthenticator(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
		if err != nil {
			logger.Error("failed to initialize google authenticator", "error", err)
			os.Exit(1)
		}
		svcs.Google = google
	}

	router := transporthttp.NewRouter(cfg, svcs, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}

	go func() {
		logger.Info("Shopcrawl API listening", "addr", srv.Addr, "store", cfg.DataStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

type repositories struct {
	users    users.Repository
	shops    shops.Repository
	products products.Repository
	search   search.Repository
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *slog.Logger) (repositories, func(), error) {
	if cfg.UseInMemoryStore() {
		logger.Info("using in-memory repositories")
		return repositories{
			users:    users.NewInMemoryRepository(),
			shops:    shops.NewInMemoryRepository(),
			products: products.NewInMemoryRepository(),
			search:   search.NewInMemoryRepository(),
		}, nil, nil
	}

	db, err := database.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return repositories{}, nil, err
	}

	cleanup := func() {
		_ = db.Close()
	}

	if err := migrate.Apply(ctx, db); err != nil {
		cleanup()
		return repositories{}, nil, err
	}

	logger.Info("connected to postgres")
	return repositories{
		users:    users.NewPostgresRepository(db),
		shops:    shops.NewPostgresRepository(db),
		products: products.NewPostgresRepository(db),
		search:   search.NewPostgresRepository(db),
	}, cleanup, nil
}

func buildMailer(cfg config.Config, logger *slog.Logger) mail.Sender {
	if cfg.MailProvider == "mailgun" {
		return mail.NewMailgunSender(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailFrom)
	}
	logger.Info("mail provider not configured, logging outgoing mail instead")
	return mail.NewLogSender(logger)
}
