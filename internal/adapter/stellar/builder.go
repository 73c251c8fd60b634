// Package stellar assembles and signs payment envelopes with the stellar/go
// SDK. The transport (endpoint selection, submission) lives in the horizon
// package; this package only produces and signs serialized envelopes.
package stellar

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stellar/go/txnbuild"

	"github.com/tokenart/tokenart-backend/internal/adapter/horizon"
	"github.com/tokenart/tokenart-backend/internal/domain"
)

const (
	// MinFeeStroops is the fixed fee floor: 0.001 of the native asset in
	// its smallest unit.
	MinFeeStroops = 10_000

	// baseFeeMultiplier scales the network base fee so submissions survive
	// test-network fee surges.
	baseFeeMultiplier = 100

	// envelopeTimeoutSeconds is the absolute expiry window enforced by the
	// ledger after which an unsubmitted envelope is dead.
	envelopeTimeoutSeconds = 300
)

// LedgerReader supplies the two reads envelope building needs: the source
// account's sequence number and the current fee statistics. Both are plain
// reads against the currently selected endpoint; no session state is
// established.
type LedgerReader interface {
	AccountDetail(ctx context.Context, identity domain.AccountIdentity) (*horizon.Account, error)
	FeeStats(ctx context.Context) (*horizon.FeeStats, error)
}

// Builder implements domain.EnvelopeBuilder. Envelopes are immutable once
// built; a retry that may have a stale sequence number must call Build
// again.
type Builder struct {
	Ledger            LedgerReader
	NetworkPassphrase string
}

// NewBuilder creates an envelope builder for the given network.
func NewBuilder(ledger LedgerReader, networkPassphrase string) *Builder {
	return &Builder{Ledger: ledger, NetworkPassphrase: networkPassphrase}
}

// Build assembles an unsigned native-asset payment envelope.
// Logic:
//  1. Validate amount precision (at most 7 fractional digits).
//  2. Load the source account's current sequence number.
//  3. Construct a single payment operation for the full amount.
//  4. Attach the memo (already truncated by the domain layer).
//  5. Fee = max(network base fee x 100, MinFeeStroops).
//  6. Absolute expiry 300 seconds from build time.
func (b *Builder) Build(ctx context.Context, source, destination domain.AccountIdentity, amount decimal.Decimal, memoText string) (*domain.Envelope, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}
	if err := domain.ValidateIdentity(source); err != nil {
		return nil, err
	}
	if err := domain.ValidateIdentity(destination); err != nil {
		return nil, err
	}

	account, err := b.Ledger.AccountDetail(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("load source account: %w", err)
	}
	sequence, err := account.SequenceNumber()
	if err != nil {
		return nil, fmt.Errorf("load source account: %w", err)
	}

	fee, err := b.computeFee(ctx)
	if err != nil {
		return nil, err
	}

	sourceAccount := txnbuild.NewSimpleAccount(source, sequence)
	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &sourceAccount,
		IncrementSequenceNum: true,
		Operations: []txnbuild.Operation{
			&txnbuild.Payment{
				Destination: destination,
				Amount:      amount.String(),
				Asset:       txnbuild.NativeAsset{},
			},
		},
		BaseFee: fee,
		Memo:    txnbuild.MemoText(memoText),
		Preconditions: txnbuild.Preconditions{
			TimeBounds: txnbuild.NewTimeout(envelopeTimeoutSeconds),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("assemble transaction: %w", err)
	}

	xdr, err := tx.Base64()
	if err != nil {
		return nil, fmt.Errorf("serialize envelope: %w", err)
	}

	return &domain.Envelope{
		XDR:               xdr,
		Source:            source,
		Destination:       destination,
		Fee:               fee,
		Sequence:          sequence + 1,
		Memo:              memoText,
		NetworkPassphrase: b.NetworkPassphrase,
	}, nil
}

// computeFee reads the network base fee and applies the multiplier and
// floor. Fee-statistics outages propagate so the orchestrator can rotate
// endpoints.
func (b *Builder) computeFee(ctx context.Context) (int64, error) {
	stats, err := b.Ledger.FeeStats(ctx)
	if err != nil {
		return 0, fmt.Errorf("load fee stats: %w", err)
	}
	base, err := stats.BaseFee()
	if err != nil {
		return 0, fmt.Errorf("load fee stats: %w", err)
	}

	fee := base * baseFeeMultiplier
	if fee < MinFeeStroops {
		fee = MinFeeStroops
	}
	return fee, nil
}
