package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"bevakning/internal/adapters/poit"
	"bevakning/internal/adapters/repo"
	"bevakning/internal/domain"
	httpapi "bevakning/internal/http"
	"bevakning/internal/infra/cache"
	"bevakning/internal/infra/config"
	"bevakning/internal/infra/db"
	applog "bevakning/internal/infra/log"
	"bevakning/internal/infra/metrics"
	"bevakning/internal/infra/queue"
	"bevakning/internal/usecase/events"
	"bevakning/internal/usecase/poll"
	"bevakning/internal/usecase/watchlist"
)

func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watch, err := watchlist.Load(cfg.CompaniesFile, logger.With().Str("component", "watchlist").Logger())
	if err != nil {
		logger.Fatal().Err(err).Msg("api: company list unavailable")
	}

	var archive domain.EventArchive
	if cfg.PGDSN != "" {
		pool, err := db.Connect(cfg.PGDSN)
		if err != nil {
			logger.Fatal().Err(err).Msg("api: postgres unavailable")
		}
		defer pool.Close()
		pg := repo.NewPostgres(pool)
		archive = pg
		for _, company := range watch.All() {
			if err := pg.UpsertCompany(ctx, company); err != nil {
				logger.Warn().Err(err).Str("orgnr", company.Orgnr).Msg("api: company snapshot failed")
			}
		}
	}

	var dedup domain.Cache
	if cfg.Poll.DedupTTL > 0 {
		if cfg.RedisAddr != "" {
			dedup = cache.NewRedis(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
		} else {
			dedup = cache.NewMemory()
		}
	}

	var eventQueue domain.EventQueue
	if cfg.RabbitURL != "" {
		q, err := queue.NewRabbitEventQueue(cfg.RabbitURL, cfg.Queues.Events)
		if err != nil {
			logger.Fatal().Err(err).Msg("api: rabbitmq unavailable")
		}
		defer q.Close()
		eventQueue = q
	}

	source := poit.NewScraper(poit.Config{
		Script:   cfg.POIT.Script,
		NodeBin:  cfg.POIT.NodeBin,
		Timeout:  cfg.POIT.Timeout,
		Headless: cfg.POIT.Headless,
	}, logger.With().Str("component", "poit").Logger())

	store := events.NewStore()
	poller := poll.NewService(watch, store, source, archive, eventQueue, dedup,
		logger.With().Str("component", "poll").Logger(), poll.Options{
			Interval: cfg.Poll.Interval,
			Workers:  cfg.Poll.Workers,
			DaysBack: cfg.Poll.DaysBack,
			DedupTTL: cfg.Poll.DedupTTL,
		})

	go runScheduler(ctx, poller, cfg.Poll.Interval, logger.With().Str("component", "scheduler").Logger())

	api := httpapi.NewServer(ctx, watch, poller, store, logger.With().Str("component", "api").Logger())
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		// no write timeout: synchronous poll responses can take minutes
	}
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("api: started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("api: server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("api: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func runScheduler(ctx context.Context, poller *poll.Service, interval time.Duration, logger zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	logger.Info().Dur("interval", interval).Msg("scheduler started")
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			newEvents, err := poller.RunCycle(ctx, poll.CycleParams{})
			if err != nil {
				logger.Warn().Err(err).Msg("scheduled cycle skipped")
				continue
			}
			logger.Info().Int("new_events", len(newEvents)).Msg("scheduled cycle finished")
		}
	}
}
