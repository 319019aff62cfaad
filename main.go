package main

import (
	"context"
	"crypto/rand"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dattatraygorde/Order-Taking-System/config"
	"github.com/dattatraygorde/Order-Taking-System/db"
	"github.com/dattatraygorde/Order-Taking-System/telemetry"
	"github.com/dattatraygorde/Order-Taking-System/web"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(flag.CommandLine, os.Args[1:], nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	logger, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("ordertaking stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	shutdownTracing, err := telemetry.Setup(cfg.Tracing, "ordertaking", os.Stdout)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("flush traces", zap.Error(err))
		}
	}()

	// Open the database once; handlers share the pool and build a fresh
	// unit of work per request.
	gdb, err := db.Open(cfg.DatabasePath, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			logger.Warn("close database", zap.Error(err))
		}
	}()
	if err := db.Migrate(ctx, gdb); err != nil {
		return err
	}

	customers := db.NewCustomerStore(gdb)
	vegetables := db.NewVegetableStore(gdb)
	orders := db.NewOrderStore(gdb, logger.Named("orders"))
	if cfg.Seed {
		if err := db.Seed(ctx, customers, vegetables); err != nil {
			return err
		}
	}

	secret, err := sessionSecret(cfg.SessionSecret, logger)
	if err != nil {
		return err
	}
	auth, err := web.NewAuthenticator(web.AuthConfig{
		Username: cfg.AdminUsername,
		Password: cfg.AdminPassword,
		Secret:   secret,
		TTL:      cfg.SessionTTL,
		Secure:   cfg.SecureCookies,
	})
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	srv, err := web.NewServer(web.Config{
		HTTPAddr:   cfg.HTTPAddr,
		Location:   loc,
		Customers:  customers,
		Vegetables: vegetables,
		Orders:     orders,
		Auth:       auth,
		Logger:     logger.Named("web"),
	})
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx)
}

// sessionSecret returns the configured secret, or a random one that lasts
// until the process exits.
func sessionSecret(configured string, logger *zap.Logger) ([]byte, error) {
	if configured != "" {
		if len(configured) < 16 {
			return nil, errors.New("session secret must be at least 16 bytes")
		}
		return []byte(configured), nil
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate session secret: %w", err)
	}
	logger.Warn("no session secret configured; sessions end when the process restarts")
	return secret, nil
}

func newLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = lvl
	return cfg.Build()
}
