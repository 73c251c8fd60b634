package portfolio

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tokenart/tokenart-backend/internal/domain"
)

// appreciationFactor is the demo's flat mock return applied to the current
// value of user investments.
var appreciationFactor = decimal.RequireFromString("1.125")

// InvestmentData is the aggregate investment view for one artwork.
type InvestmentData struct {
	ArtworkID     string
	TotalInvested decimal.Decimal
	LastInvestor  domain.AccountIdentity
	IsFullyFunded bool
}

// UserInvestment is one line of a user's holdings view.
type UserInvestment struct {
	ArtworkID    string          `json:"artwork_id"`
	ArtworkName  string          `json:"artwork_name"`
	Artist       string          `json:"artist"`
	Amount       decimal.Decimal `json:"amount"`
	InvestedAt   int64           `json:"invested_at"`
	CurrentValue decimal.Decimal `json:"current_value"`
	Shares       int64           `json:"shares"`
}

// ArtworkListing is a catalog entry joined with its live investment data.
type ArtworkListing struct {
	Artwork    domain.Artwork
	Investment InvestmentData
}

// Service computes the read-side views over the local ledger cache. All
// aggregation is a pure fold over the append-only records: read order never
// changes a total.
type Service struct {
	Store domain.LedgerStore
}

// NewService creates a portfolio read service.
func NewService(store domain.LedgerStore) *Service {
	return &Service{Store: store}
}

// TotalInvested sums every investment recorded for an artwork.
func (s *Service) TotalInvested(ctx context.Context, artworkID string) (decimal.Decimal, error) {
	records, err := s.Store.Investments(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, r := range records {
		if r.ArtworkID == artworkID {
			total = total.Add(r.Amount)
		}
	}
	return total, nil
}

// LastInvestor returns the identity behind the most recent investment in an
// artwork, or "" when nobody invested yet.
func (s *Service) LastInvestor(ctx context.Context, artworkID string) (domain.AccountIdentity, error) {
	records, err := s.Store.Investments(ctx)
	if err != nil {
		return "", err
	}

	var last *domain.InvestmentRecord
	for _, r := range records {
		if r.ArtworkID != artworkID {
			continue
		}
		if last == nil || r.Timestamp.After(last.Timestamp) {
			last = r
		}
	}
	if last == nil {
		return "", nil
	}
	return last.Investor, nil
}

// IsFullyFunded reports whether an artwork's total investment reached its
// funding goal.
func (s *Service) IsFullyFunded(ctx context.Context, artworkID string) (bool, error) {
	artwork, err := domain.ArtworkByID(artworkID)
	if err != nil {
		return false, err
	}
	total, err := s.TotalInvested(ctx, artworkID)
	if err != nil {
		return false, err
	}
	return total.GreaterThanOrEqual(artwork.Financial.FundingGoal), nil
}

// InvestmentData assembles the complete aggregate view for one artwork.
func (s *Service) InvestmentData(ctx context.Context, artworkID string) (*InvestmentData, error) {
	artwork, err := domain.ArtworkByID(artworkID)
	if err != nil {
		return nil, err
	}

	total, err := s.TotalInvested(ctx, artworkID)
	if err != nil {
		return nil, err
	}
	last, err := s.LastInvestor(ctx, artworkID)
	if err != nil {
		return nil, err
	}

	return &InvestmentData{
		ArtworkID:     artworkID,
		TotalInvested: total,
		LastInvestor:  last,
		IsFullyFunded: total.GreaterThanOrEqual(artwork.Financial.FundingGoal),
	}, nil
}

// Listings joins the full catalog with live investment data.
func (s *Service) Listings(ctx context.Context) ([]ArtworkListing, error) {
	listings := make([]ArtworkListing, 0)
	for _, artwork := range domain.Catalog() {
		data, err := s.InvestmentData(ctx, artwork.ID)
		if err != nil {
			return nil, err
		}
		listings = append(listings, ArtworkListing{Artwork: artwork, Investment: *data})
	}
	return listings, nil
}

// UserInvestments lists one user's holdings across the catalog, with share
// counts and the demo's flat appreciation applied.
func (s *Service) UserInvestments(ctx context.Context, investor domain.AccountIdentity) ([]UserInvestment, error) {
	records, err := s.Store.Investments(ctx)
	if err != nil {
		return nil, err
	}

	// Sum per artwork for this investor first; a user may have invested
	// in the same artwork several times.
	perArtwork := make(map[string]decimal.Decimal)
	investedAt := make(map[string]int64)
	for _, r := range records {
		if r.Investor != investor {
			continue
		}
		perArtwork[r.ArtworkID] = perArtwork[r.ArtworkID].Add(r.Amount)
		if ts := r.Timestamp.UnixMilli(); ts > investedAt[r.ArtworkID] {
			investedAt[r.ArtworkID] = ts
		}
	}

	holdings := make([]UserInvestment, 0, len(perArtwork))
	for _, artwork := range domain.Catalog() {
		amount, ok := perArtwork[artwork.ID]
		if !ok {
			continue
		}
		holdings = append(holdings, UserInvestment{
			ArtworkID:    artwork.ID,
			ArtworkName:  artwork.Name,
			Artist:       artwork.Creator,
			Amount:       amount,
			InvestedAt:   investedAt[artwork.ID],
			CurrentValue: amount.Mul(appreciationFactor),
			Shares:       amount.Div(artwork.Financial.SharePrice).Floor().IntPart(),
		})
	}
	return holdings, nil
}

// UserPurchases lists the artworks a user bought outright.
func (s *Service) UserPurchases(ctx context.Context, buyer domain.AccountIdentity) ([]*domain.PurchaseRecord, error) {
	purchases, err := s.Store.Purchases(ctx)
	if err != nil {
		return nil, err
	}

	owned := make([]*domain.PurchaseRecord, 0)
	for _, p := range purchases {
		if p.Buyer == buyer {
			owned = append(owned, p)
		}
	}
	return owned, nil
}

// AvailableForPurchase lists fully funded artworks nobody has bought yet.
func (s *Service) AvailableForPurchase(ctx context.Context) ([]ArtworkListing, error) {
	purchases, err := s.Store.Purchases(ctx)
	if err != nil {
		return nil, err
	}
	bought := make(map[string]bool, len(purchases))
	for _, p := range purchases {
		bought[p.ArtworkID] = true
	}

	available := make([]ArtworkListing, 0)
	for _, artwork := range domain.Catalog() {
		if bought[artwork.ID] {
			continue
		}
		data, err := s.InvestmentData(ctx, artwork.ID)
		if err != nil {
			return nil, err
		}
		if data.IsFullyFunded {
			available = append(available, ArtworkListing{Artwork: artwork, Investment: *data})
		}
	}
	return available, nil
}

// IsPurchased reports whether an artwork already has a purchase record.
func (s *Service) IsPurchased(ctx context.Context, artworkID string) (bool, error) {
	purchases, err := s.Store.Purchases(ctx)
	if err != nil {
		return false, err
	}
	for _, p := range purchases {
		if p.ArtworkID == artworkID {
			return true, nil
		}
	}
	return false, nil
}
