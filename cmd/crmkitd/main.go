package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/crmkit-dev/crmkit/internal/api"
	"github.com/crmkit-dev/crmkit/internal/config"
	"github.com/crmkit-dev/crmkit/internal/engine"
	"github.com/crmkit-dev/crmkit/internal/logging"
	"github.com/crmkit-dev/crmkit/pkg/sdk"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fallback().Fatal("invalid configuration", zap.Error(err))
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		logging.Fallback().Fatal("invalid log level", zap.Error(err))
	}
	defer log.Sync()

	if cfg.MigrateTo != "" {
		if err := migrate(cfg, log); err != nil {
			log.Fatal("migration failed", zap.Error(err))
		}
		return
	}

	if err := run(cfg, log); err != nil {
		log.Fatal("daemon exited", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	persisters, err := sdk.NewPersisters(cfg)
	if err != nil {
		return err
	}
	defer persisters.Close()

	seed, err := engine.DefaultSeed()
	if err != nil {
		return err
	}

	contactSeed, err := engine.LoadOrSeed(persisters.Contacts, seed.Contacts)
	if err != nil {
		return err
	}
	dealSeed, err := engine.LoadOrSeed(persisters.Deals, seed.Deals)
	if err != nil {
		return err
	}
	activitySeed, err := engine.LoadOrSeed(persisters.Activities, seed.Activities)
	if err != nil {
		return err
	}

	contacts := engine.NewContactStore(contactSeed, persisters.Contacts, log)
	deals := engine.NewDealStore(dealSeed, persisters.Deals, log)
	activities := engine.NewActivityStore(activitySeed, persisters.Activities, log)

	log.Info("engine started",
		zap.String("backend", cfg.Backend),
		zap.Int("contacts", len(contactSeed)),
		zap.Int("deals", len(dealSeed)),
		zap.Int("activities", len(activitySeed)),
	)

	router := api.NewRouter(api.Stores{
		Contacts:   contacts,
		Deals:      deals,
		Activities: activities,
	}, log)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("record service listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutdown signal received, finalizing writes")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}

		// Let in-flight snapshot saves reach disk before the process exits.
		contacts.Wait()
		deals.Wait()
		activities.Wait()
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("persistence complete, exiting")
	return nil
}

// migrate copies every collection snapshot from the configured backend to the
// target backend, then exits without serving.
func migrate(cfg config.Config, log *zap.Logger) error {
	if cfg.MigrateTo == cfg.Backend {
		log.Info("source and target backends match, nothing to migrate",
			zap.String("backend", cfg.Backend))
		return nil
	}

	src, err := sdk.NewPersisters(cfg)
	if err != nil {
		return err
	}
	defer src.Close()

	dstCfg := cfg
	dstCfg.Backend = cfg.MigrateTo
	dst, err := sdk.NewPersisters(dstCfg)
	if err != nil {
		return err
	}
	defer dst.Close()

	if err := engine.Migrate(src.Contacts, dst.Contacts); err != nil {
		return err
	}
	if err := engine.Migrate(src.Deals, dst.Deals); err != nil {
		return err
	}
	if err := engine.Migrate(src.Activities, dst.Activities); err != nil {
		return err
	}

	log.Info("migration complete",
		zap.String("from", cfg.Backend),
		zap.String("to", cfg.MigrateTo))
	return nil
}
