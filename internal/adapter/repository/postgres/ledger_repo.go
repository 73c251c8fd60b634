package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tokenart/tokenart-backend/internal/domain"
)

// ledgerRepository implements domain.LedgerStore over PostgreSQL. It is an
// alternative to the JSON snapshot cache for deployments that want the
// records in a real database.
type ledgerRepository struct {
	db *DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *DB) domain.LedgerStore {
	return &ledgerRepository{db: db}
}

// EnsureSchema creates the record tables when they do not exist yet. Records
// are append-only, so there are no UPDATE or DELETE paths to provision for.
func EnsureSchema(ctx context.Context, db *DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS investment_records (
			id UUID PRIMARY KEY,
			artwork_id TEXT NOT NULL,
			investor TEXT NOT NULL,
			amount DECIMAL(20, 7) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			tx_hash TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS purchase_records (
			id UUID PRIMARY KEY,
			artwork_id TEXT NOT NULL,
			buyer TEXT NOT NULL,
			price DECIMAL(20, 7) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			tx_hash TEXT NOT NULL
		);
	`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure ledger schema: %w", err)
	}
	return nil
}

// AppendInvestment inserts a new investment record
func (r *ledgerRepository) AppendInvestment(ctx context.Context, record *domain.InvestmentRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO investment_records (id, artwork_id, investor, amount, created_at, tx_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.ArtworkID,
		string(record.Investor),
		record.Amount.String(),
		record.Timestamp,
		record.TxHash,
	)
	if err != nil {
		return fmt.Errorf("failed to append investment record: %w", err)
	}

	return nil
}

// Investments retrieves all investment records in insertion order
func (r *ledgerRepository) Investments(ctx context.Context) ([]*domain.InvestmentRecord, error) {
	query := `
		SELECT id, artwork_id, investor, amount, created_at, tx_hash
		FROM investment_records
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list investment records: %w", err)
	}
	defer rows.Close()

	var records []*domain.InvestmentRecord
	for rows.Next() {
		var record domain.InvestmentRecord
		var amountStr string

		err := rows.Scan(
			&record.ID,
			&record.ArtworkID,
			&record.Investor,
			&amountStr,
			&record.Timestamp,
			&record.TxHash,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan investment record: %w", err)
		}

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse amount: %w", err)
		}
		record.Amount = amount

		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate investment records: %w", err)
	}

	return records, nil
}

// AppendPurchase inserts a new purchase record
func (r *ledgerRepository) AppendPurchase(ctx context.Context, record *domain.PurchaseRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO purchase_records (id, artwork_id, buyer, price, created_at, tx_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.ArtworkID,
		string(record.Buyer),
		record.Price.String(),
		record.Timestamp,
		record.TxHash,
	)
	if err != nil {
		return fmt.Errorf("failed to append purchase record: %w", err)
	}

	return nil
}

// Purchases retrieves all purchase records in insertion order
func (r *ledgerRepository) Purchases(ctx context.Context) ([]*domain.PurchaseRecord, error) {
	query := `
		SELECT id, artwork_id, buyer, price, created_at, tx_hash
		FROM purchase_records
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase records: %w", err)
	}
	defer rows.Close()

	var records []*domain.PurchaseRecord
	for rows.Next() {
		var record domain.PurchaseRecord
		var priceStr string

		err := rows.Scan(
			&record.ID,
			&record.ArtworkID,
			&record.Buyer,
			&priceStr,
			&record.Timestamp,
			&record.TxHash,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase record: %w", err)
		}

		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse price: %w", err)
		}
		record.Price = price

		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate purchase records: %w", err)
	}

	return records, nil
}
