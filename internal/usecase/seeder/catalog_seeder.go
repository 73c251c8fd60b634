package seeder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tokenart/tokenart-backend/internal/domain"
)

// CatalogSeeder writes the catalog's baseline funding into an empty ledger
// cache so read-side totals start from the demo's advertised funding levels.
// Baseline records are attributed to the treasury and carry a synthetic
// hash; reconciliation knows to skip them.
type CatalogSeeder struct {
	Store    domain.LedgerStore
	Treasury domain.AccountIdentity
	Log      zerolog.Logger
}

// NewCatalogSeeder creates a seeder for the given store.
func NewCatalogSeeder(store domain.LedgerStore, treasury domain.AccountIdentity, log zerolog.Logger) *CatalogSeeder {
	return &CatalogSeeder{Store: store, Treasury: treasury, Log: log}
}

// Seed appends one baseline investment record per artwork.
// Idempotent: a cache that already has records is left untouched, so
// restarts never double the baselines.
func (s *CatalogSeeder) Seed(ctx context.Context) error {
	existing, err := s.Store.Investments(ctx)
	if err != nil {
		return fmt.Errorf("read ledger cache: %w", err)
	}
	if len(existing) > 0 {
		s.Log.Debug().Int("records", len(existing)).Msg("ledger cache already seeded")
		return nil
	}

	now := time.Now().UTC()
	for _, artwork := range domain.Catalog() {
		if !artwork.Financial.BaselineFunding.IsPositive() {
			continue
		}
		record := &domain.InvestmentRecord{
			ID:        uuid.New(),
			ArtworkID: artwork.ID,
			Investor:  s.Treasury,
			Amount:    artwork.Financial.BaselineFunding,
			Timestamp: now,
			TxHash:    "seed:" + artwork.ID,
		}
		if err := s.Store.AppendInvestment(ctx, record); err != nil {
			return fmt.Errorf("seed baseline for %s: %w", artwork.ID, err)
		}
	}

	s.Log.Info().Msg("catalog baselines seeded")
	return nil
}
