package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Balance is the result of a native-asset balance read. Expected ledger
// conditions (unfunded account, unreachable endpoint, malformed response)
// degrade to a zero amount with a description in Err instead of a hard
// failure, because balance reads feed informational UI state.
type Balance struct {
	Native decimal.Decimal
	Err    string
}

// OK reports whether the read completed without a degraded condition.
func (b Balance) OK() bool {
	return b.Err == ""
}

// Envelope is one unsigned ledger operation serialized for signing: a
// payment from Source to the collection account, with fee, sequence number,
// network identifier and expiry baked in. An envelope is immutable once
// built; a retry that needs a fresh sequence number must rebuild it.
type Envelope struct {
	XDR               string
	Source            AccountIdentity
	Destination       AccountIdentity
	Fee               int64
	Sequence          int64
	Memo              string
	NetworkPassphrase string
}

// SubmitResult reports a successful transaction submission.
type SubmitResult struct {
	Hash   string
	Ledger int32
}

// ChainPayment is one native-asset payment read back from the ledger's
// payment history, used for reconciliation against the local cache.
type ChainPayment struct {
	TxHash string
	From   AccountIdentity
	To     AccountIdentity
	Amount decimal.Decimal
	Memo   string
}

// LedgerStore is the local ledger cache consumed by the core. Appends are
// best-effort from the orchestrator's point of view: a failed cache write
// must not roll back an already-successful submission. The store is local
// eventually-consistent state, not an authoritative ledger.
type LedgerStore interface {
	// AppendInvestment persists a new investment record.
	AppendInvestment(ctx context.Context, record *InvestmentRecord) error

	// Investments returns every investment record ever appended.
	Investments(ctx context.Context) ([]*InvestmentRecord, error)

	// AppendPurchase persists a new purchase record.
	AppendPurchase(ctx context.Context, record *PurchaseRecord) error

	// Purchases returns every purchase record ever appended.
	Purchases(ctx context.Context) ([]*PurchaseRecord, error)
}

// IdentityProvider is the wallet-extension bridge: it supplies an account
// identity and a transaction-signing capability. The core only ever talks
// to it through this interface.
type IdentityProvider interface {
	// IsAvailable reports whether a signing bridge is installed.
	IsAvailable(ctx context.Context) bool

	// RequestAccess asks the bridge for a connection and returns the
	// granted account identity.
	RequestAccess(ctx context.Context) (AccountIdentity, error)

	// ActiveIdentity returns the currently connected identity, or "" when
	// no session is active.
	ActiveIdentity(ctx context.Context) (AccountIdentity, error)

	// Sign signs a base64 envelope and returns the signed base64 envelope.
	// A declined or revoked-session result is an error.
	Sign(ctx context.Context, envelopeXDR string) (string, error)
}

// BalanceReader fetches a native-asset balance with single-call,
// no-retry semantics.
type BalanceReader interface {
	NativeBalance(ctx context.Context, identity AccountIdentity) Balance
}

// EnvelopeBuilder assembles an unsigned payment envelope. Building loads the
// source account's current sequence number, so every call may touch the
// network.
type EnvelopeBuilder interface {
	Build(ctx context.Context, source, destination AccountIdentity, amount decimal.Decimal, memoText string) (*Envelope, error)
}

// Submitter submits a signed envelope to the ledger. Implementations must
// classify failures (transient vs permanent) at this boundary.
type Submitter interface {
	Submit(ctx context.Context, signedXDR string) (*SubmitResult, error)
}

// EndpointRotator exposes the endpoint selector to the orchestrator without
// binding it to a transport implementation.
type EndpointRotator interface {
	// Advance moves the current endpoint index to the next candidate.
	Advance()

	// EnsureReady probes candidates until one answers, bounded to a single
	// rotation of the list.
	EnsureReady(ctx context.Context) error
}

// PaymentHistory reads settled payments for an account from the ledger,
// newest first.
type PaymentHistory interface {
	Payments(ctx context.Context, identity AccountIdentity, limit int) ([]ChainPayment, error)
}

// PaymentSubmitter drives one complete payment through the submission
// pipeline: validate, check balance, build, sign, submit with retries.
// Implemented by the invest orchestrator and reused by the purchase flow.
type PaymentSubmitter interface {
	SubmitPayment(ctx context.Context, amount decimal.Decimal, memoText string) (*SubmitResult, AccountIdentity, error)
}
