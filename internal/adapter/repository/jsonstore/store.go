// Package jsonstore implements the local ledger cache as a whole-blob JSON
// snapshot on disk, the server-side counterpart of the original browser
// localStorage blobs. Writes are atomic: the snapshot is written to a tmp
// file and renamed over the previous one, so a crash mid-write never
// corrupts the cache.
package jsonstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tokenart/tokenart-backend/internal/domain"
)

// snapshotVersion is bumped when the serialized layout changes.
const snapshotVersion = 1

// meta records how and when a snapshot was produced.
type meta struct {
	Storage   string    `json:"storage"`
	Version   int       `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// persistInvestment is the serialized form of one investment record.
type persistInvestment struct {
	ID        string    `json:"id"`
	ArtworkID string    `json:"artwork_id"`
	Investor  string    `json:"investor"`
	Amount    string    `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
	TxHash    string    `json:"tx_hash"`
}

// persistPurchase is the serialized form of one purchase record.
type persistPurchase struct {
	ID        string    `json:"id"`
	ArtworkID string    `json:"artwork_id"`
	Buyer     string    `json:"buyer"`
	Price     string    `json:"price"`
	Timestamp time.Time `json:"timestamp"`
	TxHash    string    `json:"tx_hash"`
}

// snapshot is the complete cache state, read and written as one blob.
type snapshot struct {
	Meta        meta                `json:"_meta"`
	Investments []persistInvestment `json:"investments"`
	Purchases   []persistPurchase   `json:"purchases"`
}

// Store implements domain.LedgerStore over a single JSON file.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a store at the given path. The file is created on the
// first append; a missing file reads as an empty cache.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// AppendInvestment persists a new investment record.
func (s *Store) AppendInvestment(ctx context.Context, record *domain.InvestmentRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load()
	if err != nil {
		return err
	}
	snap.Investments = append(snap.Investments, persistInvestment{
		ID:        record.ID.String(),
		ArtworkID: record.ArtworkID,
		Investor:  record.Investor,
		Amount:    record.Amount.String(),
		Timestamp: record.Timestamp,
		TxHash:    record.TxHash,
	})
	return s.save(snap)
}

// Investments returns every investment record ever appended.
func (s *Store) Investments(ctx context.Context) ([]*domain.InvestmentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load()
	if err != nil {
		return nil, err
	}

	records := make([]*domain.InvestmentRecord, 0, len(snap.Investments))
	for _, p := range snap.Investments {
		id, err := uuid.Parse(p.ID)
		if err != nil {
			return nil, fmt.Errorf("malformed record id %q: %w", p.ID, err)
		}
		amount, err := decimal.NewFromString(p.Amount)
		if err != nil {
			return nil, fmt.Errorf("malformed record amount %q: %w", p.Amount, err)
		}
		records = append(records, &domain.InvestmentRecord{
			ID:        id,
			ArtworkID: p.ArtworkID,
			Investor:  p.Investor,
			Amount:    amount,
			Timestamp: p.Timestamp,
			TxHash:    p.TxHash,
		})
	}
	return records, nil
}

// AppendPurchase persists a new purchase record.
func (s *Store) AppendPurchase(ctx context.Context, record *domain.PurchaseRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load()
	if err != nil {
		return err
	}
	snap.Purchases = append(snap.Purchases, persistPurchase{
		ID:        record.ID.String(),
		ArtworkID: record.ArtworkID,
		Buyer:     record.Buyer,
		Price:     record.Price.String(),
		Timestamp: record.Timestamp,
		TxHash:    record.TxHash,
	})
	return s.save(snap)
}

// Purchases returns every purchase record ever appended.
func (s *Store) Purchases(ctx context.Context) ([]*domain.PurchaseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load()
	if err != nil {
		return nil, err
	}

	records := make([]*domain.PurchaseRecord, 0, len(snap.Purchases))
	for _, p := range snap.Purchases {
		id, err := uuid.Parse(p.ID)
		if err != nil {
			return nil, fmt.Errorf("malformed record id %q: %w", p.ID, err)
		}
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return nil, fmt.Errorf("malformed record price %q: %w", p.Price, err)
		}
		records = append(records, &domain.PurchaseRecord{
			ID:        id,
			ArtworkID: p.ArtworkID,
			Buyer:     p.Buyer,
			Price:     price,
			Timestamp: p.Timestamp,
			TxHash:    p.TxHash,
		})
	}
	return records, nil
}

// load reads the current snapshot; a missing file is an empty cache.
func (s *Store) load() (snapshot, error) {
	var snap snapshot
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return snap, nil
		}
		return snap, fmt.Errorf("open ledger cache: %w", err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&snap); err != nil {
		return snap, fmt.Errorf("decode ledger cache: %w", err)
	}
	return snap, nil
}

// save writes the snapshot atomically: tmp file first, then rename.
func (s *Store) save(snap snapshot) error {
	snap.Meta = meta{
		Storage:   "json_snapshot",
		Version:   snapshotVersion,
		Timestamp: time.Now().UTC(),
	}

	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create tmp snapshot: %w", err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		f.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close tmp snapshot: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
