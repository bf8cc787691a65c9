// Command poll runs a single synchronous polling cycle and prints the new
// events as JSON, for manual checks and cron-style use.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"bevakning/internal/adapters/poit"
	"bevakning/internal/domain"
	"bevakning/internal/infra/config"
	applog "bevakning/internal/infra/log"
	"bevakning/internal/usecase/events"
	"bevakning/internal/usecase/poll"
	"bevakning/internal/usecase/watchlist"
)

func main() {
	limit := flag.Int("limit", 0, "cap on companies to poll, 0 = all")
	daysBack := flag.Int("days", 0, "look-back hint in days, 0 = configured default")
	flag.Parse()

	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watch, err := watchlist.Load(cfg.CompaniesFile, logger.With().Str("component", "watchlist").Logger())
	if err != nil {
		logger.Fatal().Err(err).Msg("poll: company list unavailable")
	}

	source := poit.NewScraper(poit.Config{
		Script:   cfg.POIT.Script,
		NodeBin:  cfg.POIT.NodeBin,
		Timeout:  cfg.POIT.Timeout,
		Headless: cfg.POIT.Headless,
	}, logger.With().Str("component", "poit").Logger())

	store := events.NewStore()
	poller := poll.NewService(watch, store, source, nil, nil, nil,
		logger.With().Str("component", "poll").Logger(), poll.Options{
			Interval: cfg.Poll.Interval,
			Workers:  cfg.Poll.Workers,
			DaysBack: cfg.Poll.DaysBack,
		})

	newEvents, err := poller.RunCycle(ctx, poll.CycleParams{Limit: *limit, DaysBack: *daysBack})
	if err != nil {
		logger.Fatal().Err(err).Msg("poll: cycle failed")
	}
	if newEvents == nil {
		newEvents = []domain.Event{}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(newEvents); err != nil {
		logger.Fatal().Err(err).Msg("poll: encode events")
	}
}
