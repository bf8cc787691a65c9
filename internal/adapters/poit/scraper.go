// Package poit implements the announcement source against Post- och
// Inrikes Tidningar by driving the Node.js stealth scraper as a
// subprocess and decoding the JSON it prints on stdout.
package poit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"bevakning/internal/domain"
	"bevakning/internal/infra/metrics"
	"bevakning/internal/usecase/watchlist"
)

// Config describes how to run the scraper script.
type Config struct {
	Script   string
	NodeBin  string
	Timeout  time.Duration
	Headless bool
}

// Scraper implements domain.AnnouncementSource.
type Scraper struct {
	cfg Config
	log zerolog.Logger
}

var _ domain.AnnouncementSource = (*Scraper)(nil)

// NewScraper creates the adapter.
func NewScraper(cfg Config, logger zerolog.Logger) *Scraper {
	if cfg.NodeBin == "" {
		cfg.NodeBin = "node"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Scraper{cfg: cfg, log: logger}
}

// Wire types mirror the scraper's stdout contract, field names included.
type wireAnnouncement struct {
	ID        string `json:"kungorelse_id"`
	Reporter  string `json:"uppgiftslamnare"`
	Category  string `json:"typ"`
	Summary   string `json:"namn"`
	Published string `json:"publicerad"`
	URL       string `json:"url"`
}

type wireResult struct {
	Success bool               `json:"success"`
	Hits    int                `json:"antal_traffar"`
	Items   []wireAnnouncement `json:"kungorelser"`
	Error   string             `json:"error"`
}

// Search runs one scraper invocation for the orgnr. Subprocess failures,
// timeouts and unparseable output surface as errors; a failure the scraper
// itself reports comes back as OK=false.
func (s *Scraper) Search(ctx context.Context, orgnr string, daysBack int) (domain.SearchResult, error) {
	orgnr = watchlist.Normalize(orgnr)

	args := []string{s.cfg.Script, orgnr}
	if daysBack > 0 {
		args = append(args, "--days", strconv.Itoa(daysBack))
	}
	if !s.cfg.Headless {
		args = append(args, "--visible")
	}

	runCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, s.cfg.NodeBin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	metrics.ObserveNetworkRequest("poit", "search", orgnr, start, err)
	if err != nil {
		if runCtx.Err() != nil {
			return domain.SearchResult{Orgnr: orgnr}, fmt.Errorf("poit search %s: %w", orgnr, runCtx.Err())
		}
		s.log.Debug().Str("stderr", truncate(stderr.String(), 512)).Msg("poit scraper failed")
		return domain.SearchResult{Orgnr: orgnr}, fmt.Errorf("poit search %s: %w", orgnr, err)
	}
	return parseSearchOutput(orgnr, stdout.Bytes())
}

// parseSearchOutput decodes the stdout contract into a tagged result.
func parseSearchOutput(orgnr string, data []byte) (domain.SearchResult, error) {
	var wire wireResult
	if err := json.Unmarshal(data, &wire); err != nil {
		return domain.SearchResult{Orgnr: orgnr}, fmt.Errorf("decode poit output: %w", err)
	}
	result := domain.SearchResult{OK: wire.Success, Orgnr: orgnr, Hits: wire.Hits, Err: wire.Error}
	if !wire.Success {
		return result, nil
	}
	result.Announcements = make([]domain.Announcement, 0, len(wire.Items))
	for _, item := range wire.Items {
		result.Announcements = append(result.Announcements, domain.Announcement{
			ID:        item.ID,
			Reporter:  item.Reporter,
			Category:  item.Category,
			Summary:   item.Summary,
			Published: item.Published,
			URL:       item.URL,
		})
	}
	return result, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
