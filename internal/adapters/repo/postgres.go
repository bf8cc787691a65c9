// Package repo persists company snapshots and events to Postgres. The
// archive is optional: the in-memory log stays the source of truth.
package repo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"bevakning/internal/domain"
	"bevakning/internal/infra/metrics"
)

// Postgres implements domain.EventArchive on pgxpool.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ domain.EventArchive = (*Postgres)(nil)

// NewPostgres creates the archive adapter.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) connCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, 5*time.Second)
}

// UpsertCompany stores a snapshot of one watched company.
func (p *Postgres) UpsertCompany(ctx context.Context, company domain.Company) error {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	start := time.Now()
	_, err := p.pool.Exec(ctx, `
INSERT INTO companies (orgnr, name, active, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (orgnr) DO UPDATE SET name = EXCLUDED.name, active = EXCLUDED.active, updated_at = now()
`, company.Orgnr, company.Name, company.Active)
	metrics.ObserveNetworkRequest("postgres", "companies_upsert", "companies", start, err)
	return err
}

// SaveEvent inserts one event. Replaying an already archived event ID is
// a no-op.
func (p *Postgres) SaveEvent(ctx context.Context, event domain.Event) error {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	start := time.Now()
	_, err := p.pool.Exec(ctx, `
INSERT INTO events (id, orgnr, company_name, event_type, headline, description, source, source_url, source_id, discovered_at, notified)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (id) DO NOTHING
`, event.ID, event.Orgnr, event.CompanyName, string(event.Type), event.Headline, event.Description,
		event.Source, event.SourceURL, event.SourceID, event.DiscoveredAt, event.Notified)
	metrics.ObserveNetworkRequest("postgres", "events_insert", "events", start, err)
	return err
}
