package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"genesiscode/internal/application/entitlement/usecases"
	"genesiscode/internal/domain/access"
	"genesiscode/internal/infrastructure/cache"
	"genesiscode/internal/infrastructure/metrics"
	"genesiscode/internal/infrastructure/repository"
	"genesiscode/internal/infrastructure/scheduler"
	"genesiscode/internal/interfaces/cli/bootstrap"
)

func main() {
	// Parse environment from command line or env variable
	env := ""
	if len(os.Args) > 1 {
		env = os.Args[1]
	}
	env = bootstrap.ResolveEnv(env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rt, err := bootstrap.Init(ctx, env, os.Getenv("CONFIG_PATH"), true)
	if err != nil {
		fmt.Printf("failed to start worker: %v\n", err)
		os.Exit(1)
	}
	defer rt.Close()

	log := rt.Log
	log.Infow("starting entitlement expiry worker", "environment", env)

	repos := repository.NewRepositories(rt.DB, log)

	var invalidator access.CacheInvalidator = access.NopCache{}
	if rt.Redis != nil {
		invalidator = cache.NewRedisDecisionCache(rt.Redis, log.Named("cache.decision"))
	}

	m := metrics.New()
	var metricsSrv *http.Server
	if addr := os.Getenv("METRICS_ADDR"); addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		metricsSrv = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			log.Infow("worker metrics listening", "address", addr)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorw("worker metrics server failed", "error", err)
			}
		}()
	}

	expireUC := usecases.NewExpireEntitlementsUseCase(
		repos.Grants,
		repos.CategoryAccess,
		repos.Subscriptions,
		invalidator,
		log.Named("entitlement.expiry"),
	)

	expiry := scheduler.NewExpiryScheduler(expireUC, m, rt.Config.Scheduler.ExpiryInterval(), log.Named("scheduler"))
	expiry.Start(ctx)

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Infow("received signal, shutting down", "signal", sig)

	expiry.Stop()
	cancel()

	if metricsSrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			log.Warnw("worker metrics server forced to shutdown", "error", err)
		}
		shutdownCancel()
	}

	log.Infow("entitlement expiry worker stopped")
}
