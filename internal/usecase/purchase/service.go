package purchase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tokenart/tokenart-backend/internal/domain"
	"github.com/tokenart/tokenart-backend/internal/usecase/portfolio"
)

// Service handles outright purchases of fully funded artworks. Settlement
// goes through the same submission pipeline as investments, with a purchase
// memo and the funding goal as the price.
type Service struct {
	Payments  domain.PaymentSubmitter
	Portfolio *portfolio.Service
	Store     domain.LedgerStore
	Log       zerolog.Logger
}

// NewService creates a purchase service.
func NewService(payments domain.PaymentSubmitter, views *portfolio.Service, store domain.LedgerStore, log zerolog.Logger) *Service {
	return &Service{
		Payments:  payments,
		Portfolio: views,
		Store:     store,
		Log:       log,
	}
}

// Purchase buys a fully funded artwork.
// Logic:
//  1. Resolve the artwork; the purchase price is its funding goal.
//  2. Reject artworks below their funding goal or already purchased
//     (ValidationError - user-correctable, never retried).
//  3. Settle the price through the payment pipeline with a "PUR:" memo.
//  4. Append the purchase record. Best-effort, like investment records: the
//     payment already settled.
func (s *Service) Purchase(ctx context.Context, artworkID string) (*domain.PurchaseRecord, error) {
	artwork, err := domain.ArtworkByID(artworkID)
	if err != nil {
		return nil, err
	}

	funded, err := s.Portfolio.IsFullyFunded(ctx, artworkID)
	if err != nil {
		return nil, err
	}
	if !funded {
		return nil, domain.NewValidationError("artwork %q is not fully funded yet", artworkID)
	}

	bought, err := s.Portfolio.IsPurchased(ctx, artworkID)
	if err != nil {
		return nil, err
	}
	if bought {
		return nil, domain.NewValidationError("artwork %q is already purchased", artworkID)
	}

	price := artwork.Financial.FundingGoal
	result, buyer, err := s.Payments.SubmitPayment(ctx, price, domain.NewPurchaseMemo(artworkID))
	if err != nil {
		return nil, err
	}

	record := &domain.PurchaseRecord{
		ID:        uuid.New(),
		ArtworkID: artworkID,
		Buyer:     buyer,
		Price:     price,
		Timestamp: time.Now().UTC(),
		TxHash:    result.Hash,
	}
	if err := s.Store.AppendPurchase(ctx, record); err != nil {
		s.Log.Error().Err(err).Str("tx", result.Hash).Str("artwork", artworkID).
			Msg("purchase settled on-chain but the local cache write failed")
	}
	return record, nil
}
