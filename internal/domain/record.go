package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvestmentRecord is written to the local ledger cache after a successful
// submission. Records are immutable after creation and are never deleted;
// read-side views aggregate them per artwork and per investor.
type InvestmentRecord struct {
	ID        uuid.UUID
	ArtworkID string
	Investor  AccountIdentity
	Amount    decimal.Decimal
	Timestamp time.Time
	TxHash    string
}

// PurchaseRecord marks a fully funded artwork as bought. At most one
// purchase exists per artwork.
type PurchaseRecord struct {
	ID        uuid.UUID
	ArtworkID string
	Buyer     AccountIdentity
	Price     decimal.Decimal
	Timestamp time.Time
	TxHash    string
}

// Validate ensures the investment record adheres to domain rules before it
// is appended to the cache.
func (r *InvestmentRecord) Validate() error {
	if r.ArtworkID == "" {
		return NewValidationError("investment record must reference an artwork")
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return NewValidationError("investment record amount must be positive")
	}
	if r.TxHash == "" {
		return NewValidationError("investment record must carry a transaction hash")
	}
	return nil
}

// Validate ensures the purchase record adheres to domain rules.
func (r *PurchaseRecord) Validate() error {
	if r.ArtworkID == "" {
		return NewValidationError("purchase record must reference an artwork")
	}
	if r.Price.LessThanOrEqual(decimal.Zero) {
		return NewValidationError("purchase record price must be positive")
	}
	if r.TxHash == "" {
		return NewValidationError("purchase record must carry a transaction hash")
	}
	return nil
}
