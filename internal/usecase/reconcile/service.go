package reconcile

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tokenart/tokenart-backend/internal/domain"
)

// Report is the outcome of one reconciliation pass between the on-chain
// payment history and the local ledger cache.
type Report struct {
	// Matched counts on-chain investment payments with a local record.
	Matched int

	// Recovered holds investment records rebuilt from on-chain payments
	// that were missing locally (e.g. the cache write failed after a
	// successful submission). Appended to the store when repair is enabled.
	Recovered []*domain.InvestmentRecord

	// RecoveredPurchases holds purchase records rebuilt the same way from
	// "PUR:"-memo payments.
	RecoveredPurchases []*domain.PurchaseRecord

	// Unparseable holds transaction hashes of treasury payments whose memo
	// could not be decoded into an investment or purchase reference
	// (typically memos truncated at the 28-byte limit, or references to
	// artworks outside the catalog).
	Unparseable []string

	// Orphaned holds transaction hashes of local records that do not
	// appear in the fetched on-chain history. Not deleted - records are
	// immutable and the history read is bounded - only surfaced.
	Orphaned []string
}

// Service reconciles the local investment cache with the chain. The local
// cache is not authoritative: a transaction can succeed on-chain while the
// local write fails, and vice versa. This pass closes the first gap and
// surfaces the second.
type Service struct {
	History  domain.PaymentHistory
	Store    domain.LedgerStore
	Treasury domain.AccountIdentity

	// HistoryLimit bounds how many recent payments are fetched per pass.
	HistoryLimit int

	Log zerolog.Logger
}

// NewService creates a reconciliation service for the treasury account.
func NewService(history domain.PaymentHistory, store domain.LedgerStore, treasury domain.AccountIdentity, log zerolog.Logger) *Service {
	return &Service{
		History:      history,
		Store:        store,
		Treasury:     treasury,
		HistoryLimit: 100,
		Log:          log,
	}
}

// Run performs one reconciliation pass.
// Logic:
//  1. Fetch the treasury's recent incoming native payments.
//  2. Index local investment and purchase records by transaction hash.
//  3. On-chain payments with an "INV:" or "PUR:" memo and no local record
//     are rebuilt from the memo and the payment itself (the on-chain amount
//     is authoritative, the memo only names the artwork) and, when repair is
//     set, appended to the store.
//  4. Local records whose hash is absent from the fetched history are
//     reported as orphaned.
func (s *Service) Run(ctx context.Context, repair bool) (*Report, error) {
	payments, err := s.History.Payments(ctx, s.Treasury, s.HistoryLimit)
	if err != nil {
		return nil, err
	}

	investments, err := s.Store.Investments(ctx)
	if err != nil {
		return nil, err
	}
	purchases, err := s.Store.Purchases(ctx)
	if err != nil {
		return nil, err
	}
	localInvestments := make(map[string]*domain.InvestmentRecord, len(investments))
	for _, r := range investments {
		localInvestments[r.TxHash] = r
	}
	localPurchases := make(map[string]*domain.PurchaseRecord, len(purchases))
	for _, r := range purchases {
		localPurchases[r.TxHash] = r
	}

	report := &Report{}
	onChain := make(map[string]bool, len(payments))
	for _, p := range payments {
		if p.To != s.Treasury {
			continue
		}
		onChain[p.TxHash] = true

		if artworkID, _, ok := domain.ParseInvestmentMemo(p.Memo); ok {
			if err := s.reconcileInvestment(ctx, report, p, artworkID, localInvestments, repair); err != nil {
				return nil, err
			}
			continue
		}
		if artworkID, ok := domain.ParsePurchaseMemo(p.Memo); ok {
			if err := s.reconcilePurchase(ctx, report, p, artworkID, localPurchases, repair); err != nil {
				return nil, err
			}
			continue
		}
		if p.Memo != "" {
			report.Unparseable = append(report.Unparseable, p.TxHash)
		}
	}

	for hash, record := range localInvestments {
		// Seed records have no on-chain counterpart on purpose.
		if record.Investor == s.Treasury {
			continue
		}
		if !onChain[hash] {
			report.Orphaned = append(report.Orphaned, hash)
		}
	}
	for hash := range localPurchases {
		if !onChain[hash] {
			report.Orphaned = append(report.Orphaned, hash)
		}
	}

	s.Log.Info().Int("matched", report.Matched).Int("recovered", len(report.Recovered)).
		Int("recovered_purchases", len(report.RecoveredPurchases)).
		Int("orphaned", len(report.Orphaned)).Bool("repair", repair).Msg("reconciliation pass complete")
	return report, nil
}

func (s *Service) reconcileInvestment(ctx context.Context, report *Report, p domain.ChainPayment, artworkID string, local map[string]*domain.InvestmentRecord, repair bool) error {
	if _, exists := local[p.TxHash]; exists {
		report.Matched++
		return nil
	}

	recovered := &domain.InvestmentRecord{
		ID:        uuid.New(),
		ArtworkID: artworkID,
		Investor:  p.From,
		Amount:    p.Amount,
		Timestamp: time.Now().UTC(),
		TxHash:    p.TxHash,
	}
	report.Recovered = append(report.Recovered, recovered)
	s.Log.Warn().Str("tx", p.TxHash).Str("artwork", artworkID).
		Msg("on-chain investment missing from local cache")

	if repair {
		return s.Store.AppendInvestment(ctx, recovered)
	}
	return nil
}

func (s *Service) reconcilePurchase(ctx context.Context, report *Report, p domain.ChainPayment, artworkID string, local map[string]*domain.PurchaseRecord, repair bool) error {
	if _, err := domain.ArtworkByID(artworkID); err != nil {
		// A purchase memo naming an artwork outside the catalog cannot be
		// reconciled against anything.
		report.Unparseable = append(report.Unparseable, p.TxHash)
		return nil
	}
	if _, exists := local[p.TxHash]; exists {
		report.Matched++
		return nil
	}

	recovered := &domain.PurchaseRecord{
		ID:        uuid.New(),
		ArtworkID: artworkID,
		Buyer:     p.From,
		Price:     p.Amount,
		Timestamp: time.Now().UTC(),
		TxHash:    p.TxHash,
	}
	report.RecoveredPurchases = append(report.RecoveredPurchases, recovered)
	s.Log.Warn().Str("tx", p.TxHash).Str("artwork", artworkID).
		Msg("on-chain purchase missing from local cache")

	if repair {
		return s.Store.AppendPurchase(ctx, recovered)
	}
	return nil
}

// RunPeriodically executes reconciliation passes with repair enabled until
// the context is cancelled. Pass failures are logged and the loop continues;
// the chain is the source of truth and the next pass will catch up.
func (s *Service) RunPeriodically(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Run(ctx, true); err != nil {
				s.Log.Warn().Err(err).Msg("reconciliation pass failed")
			}
		}
	}
}
