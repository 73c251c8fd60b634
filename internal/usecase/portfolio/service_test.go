package portfolio

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/tokenart/tokenart-backend/internal/domain"
)

// MockStore is a mock implementation of LedgerStore for testing
type MockStore struct {
	mock.Mock
}

func (m *MockStore) AppendInvestment(ctx context.Context, record *domain.InvestmentRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockStore) Investments(ctx context.Context) ([]*domain.InvestmentRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.InvestmentRecord), args.Error(1)
}

func (m *MockStore) AppendPurchase(ctx context.Context, record *domain.PurchaseRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockStore) Purchases(ctx context.Context) ([]*domain.PurchaseRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PurchaseRecord), args.Error(1)
}

func record(artworkID, investor string, amount int64, ts time.Time) *domain.InvestmentRecord {
	return &domain.InvestmentRecord{
		ID:        uuid.New(),
		ArtworkID: artworkID,
		Investor:  investor,
		Amount:    decimal.NewFromInt(amount),
		Timestamp: ts,
		TxHash:    uuid.NewString(),
	}
}

func TestTotalInvested_SumsOnlyMatchingArtwork(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	now := time.Now()

	store.On("Investments", ctx).Return([]*domain.InvestmentRecord{
		record("art-001", "GAAA", 30, now),
		record("art-001", "GBBB", 20, now),
		record("art-002", "GAAA", 99, now),
	}, nil)

	service := NewService(store)

	// Execute
	total, err := service.TotalInvested(ctx, "art-001")

	// Assert
	assert.NoError(t, err)
	assert.True(t, decimal.NewFromInt(50).Equal(total))
}

func TestLastInvestor_PicksMostRecent(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	now := time.Now()

	store.On("Investments", ctx).Return([]*domain.InvestmentRecord{
		record("art-001", "GOLD", 10, now.Add(-time.Hour)),
		record("art-001", "GNEW", 10, now),
		record("art-002", "GOTHER", 10, now.Add(time.Hour)),
	}, nil)

	service := NewService(store)

	last, err := service.LastInvestor(ctx, "art-001")

	assert.NoError(t, err)
	assert.Equal(t, "GNEW", last)
}

func TestLastInvestor_NoInvestments(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	store.On("Investments", ctx).Return([]*domain.InvestmentRecord{}, nil)

	service := NewService(store)

	last, err := service.LastInvestor(ctx, "art-001")

	assert.NoError(t, err)
	assert.Empty(t, last)
}

func TestIsFullyFunded_GoalBoundary(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	now := time.Now()

	// art-001 has a funding goal of 100; exactly reaching it counts.
	store.On("Investments", ctx).Return([]*domain.InvestmentRecord{
		record("art-001", "GAAA", 100, now),
	}, nil)

	service := NewService(store)

	funded, err := service.IsFullyFunded(ctx, "art-001")

	assert.NoError(t, err)
	assert.True(t, funded)
}

func TestIsFullyFunded_BelowGoal(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)

	store.On("Investments", ctx).Return([]*domain.InvestmentRecord{
		record("art-001", "GAAA", 99, time.Now()),
	}, nil)

	service := NewService(store)

	funded, err := service.IsFullyFunded(ctx, "art-001")

	assert.NoError(t, err)
	assert.False(t, funded)
}

func TestUserInvestments_SharesAndAppreciation(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	now := time.Now()

	// Two investments in art-001 (share price 5): 12 + 11 = 23 -> 4 shares.
	store.On("Investments", ctx).Return([]*domain.InvestmentRecord{
		record("art-001", "GUSER", 12, now.Add(-time.Minute)),
		record("art-001", "GUSER", 11, now),
		record("art-001", "GSOMEONE", 40, now),
	}, nil)

	service := NewService(store)

	// Execute
	holdings, err := service.UserInvestments(ctx, "GUSER")

	// Assert
	assert.NoError(t, err)
	assert.Len(t, holdings, 1)
	assert.Equal(t, "art-001", holdings[0].ArtworkID)
	assert.True(t, decimal.NewFromInt(23).Equal(holdings[0].Amount))
	assert.Equal(t, int64(4), holdings[0].Shares)
	assert.True(t, decimal.RequireFromString("25.875").Equal(holdings[0].CurrentValue))
	assert.Equal(t, now.UnixMilli(), holdings[0].InvestedAt)
}

func TestAvailableForPurchase_ExcludesBoughtArtworks(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	now := time.Now()

	// art-001 and art-003 fully funded; art-003 already bought.
	store.On("Investments", ctx).Return([]*domain.InvestmentRecord{
		record("art-001", "GAAA", 100, now),
		record("art-003", "GAAA", 120, now),
	}, nil)
	store.On("Purchases", ctx).Return([]*domain.PurchaseRecord{
		{ID: uuid.New(), ArtworkID: "art-003", Buyer: "GBBB", Price: decimal.NewFromInt(120), Timestamp: now, TxHash: "tx"},
	}, nil)

	service := NewService(store)

	// Execute
	available, err := service.AvailableForPurchase(ctx)

	// Assert
	assert.NoError(t, err)
	assert.Len(t, available, 1)
	assert.Equal(t, "art-001", available[0].Artwork.ID)
}

func TestIsPurchased(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)

	store.On("Purchases", ctx).Return([]*domain.PurchaseRecord{
		{ID: uuid.New(), ArtworkID: "art-002", Buyer: "GBBB", Price: decimal.NewFromInt(150), Timestamp: time.Now(), TxHash: "tx"},
	}, nil)

	service := NewService(store)

	bought, err := service.IsPurchased(ctx, "art-002")
	assert.NoError(t, err)
	assert.True(t, bought)

	notBought, err := service.IsPurchased(ctx, "art-001")
	assert.NoError(t, err)
	assert.False(t, notBought)
}
