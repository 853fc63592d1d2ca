package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/goldspin/goldspin/internal/api"
	"github.com/goldspin/goldspin/internal/infra/logging"
	"github.com/goldspin/goldspin/internal/infra/pgutils"
	"github.com/goldspin/goldspin/internal/infra/random"
	"github.com/goldspin/goldspin/internal/services/account"
	"github.com/goldspin/goldspin/internal/services/admin"
	"github.com/goldspin/goldspin/internal/services/ledger"
	"github.com/goldspin/goldspin/internal/services/pvp"
	"github.com/goldspin/goldspin/internal/services/roulette"
	"github.com/goldspin/goldspin/pkg/envconf"
	"github.com/goldspin/goldspin/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	cfg := new(apiConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.SetupJSON("goldspin-api", cfg.LogLevel)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	db, err := pgutils.OpenDB(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	shutdownqueue.Add(func(context.Context) error {
		return db.Close()
	})

	rouletteRng, err := random.NewRand()
	if err != nil {
		return fmt.Errorf("seed roulette rng: %w", err)
	}

	pvpRng, err := random.NewRand()
	if err != nil {
		return fmt.Errorf("seed pvp rng: %w", err)
	}

	// --- Engine ---
	ledgerSrv := ledger.New(db)
	accountSrv := account.New(db)
	rouletteSrv := roulette.New(ledgerSrv, rouletteRng)
	pvpSrv := pvp.New(db, ledgerSrv, pvpRng)
	adminSrv := admin.New(db, ledgerSrv)

	// --- HTTP server ---
	h := api.NewHandler(accountSrv, ledgerSrv, rouletteSrv, pvpSrv, adminSrv, cfg.RevealDelay)
	srv := api.NewServer(cfg.Port, api.NewRouter(h, cfg.AdminCode))

	shutdownqueue.Add(func(c context.Context) error {
		slog.Info("Shut down server")

		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	slog.Info("API started", "port", cfg.Port)

	// --- Wait until either context cancels or server errors out ---
	select {
	case <-ctx.Done():
		// graceful path; deferred shutdownqueue.Shutdown will run
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}
