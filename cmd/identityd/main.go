// Command identityd runs the identity service: registration, login,
// federated Google sign-in, token refresh and revocation, email
// verification, and password reset over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/onlygrow/identity/internal/account"
	"github.com/onlygrow/identity/internal/config"
	"github.com/onlygrow/identity/internal/google"
	"github.com/onlygrow/identity/internal/httpapi"
	"github.com/onlygrow/identity/internal/identity"
	"github.com/onlygrow/identity/internal/logger"
	"github.com/onlygrow/identity/internal/observability"
	"github.com/onlygrow/identity/internal/password"
	"github.com/onlygrow/identity/internal/redis"
	"github.com/onlygrow/identity/internal/reset"
	"github.com/onlygrow/identity/internal/token"
	"github.com/onlygrow/identity/version"
)

func main() {
	configFile := flag.String("config", "", "path to config.yml (searched if empty)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Get().String())
		return
	}

	if err := run(*configFile); err != nil {
		fmt.Fprintf(os.Stderr, "identityd: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile string) error {
	var loadOpts []config.LoaderOption
	if configFile != "" {
		loadOpts = append(loadOpts, config.WithConfigFile(configFile))
	}
	cfg, err := config.Load(loadOpts...)
	if err != nil {
		return err
	}

	log := logger.New(&cfg.Logging, cfg.Service)
	logger.SetGlobalLogger(log)
	log.Info("starting", logger.Fields("version", version.Get().String()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telemetry, err := observability.Init(ctx, cfg.Observability, cfg.Service, log)
	if err != nil {
		return err
	}

	hasher := password.NewBcryptHasher()

	store, err := account.Open(ctx, cfg.Database, hasher, log)
	if err != nil {
		return err
	}
	defer store.Close()

	redisClient, err := redis.New(cfg.Redis, log)
	if err != nil {
		return err
	}
	defer redisClient.Close()
	if err := redisClient.Ping(ctx); err != nil {
		return err
	}

	issuer, err := token.NewIssuer(cfg.Token, token.NewRedisRegistry(redisClient))
	if err != nil {
		return err
	}
	tickets, err := reset.NewMaker(cfg.Reset)
	if err != nil {
		return err
	}

	var verifier identity.GoogleVerifier
	if cfg.GoogleEnabled() {
		if verifier, err = google.NewVerifier(ctx, cfg.Google); err != nil {
			return err
		}
	} else {
		log.Warn("google sign-in disabled: no client_id configured")
		verifier = disabledVerifier{}
	}

	svc := identity.NewService(store, hasher, issuer, verifier, tickets, log)

	server, err := httpapi.New(cfg.Server, svc, issuer, telemetry.Metrics(), log)
	if err != nil {
		return err
	}
	if err := server.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("server shutdown failed", logger.Fields(logger.FieldError, err.Error()))
	}
	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		log.Error("telemetry shutdown failed", logger.Fields(logger.FieldError, err.Error()))
	}
	return nil
}

// disabledVerifier rejects every federated sign-in when no Google client
// ID is configured.
type disabledVerifier struct{}

func (disabledVerifier) Verify(context.Context, string) (*google.Identity, error) {
	return nil, errors.New("google sign-in is not configured")
}
