package invest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tokenart/tokenart-backend/internal/adapter/horizon"
	"github.com/tokenart/tokenart-backend/internal/domain"
)

// State is one step of the submission flow. Each run walks
// Idle -> Validating -> CheckingBalance -> Building -> AwaitingSignature ->
// Submitting -> Succeeded | Failed, strictly in order; no step begins before
// the previous one completes.
type State string

const (
	StateIdle              State = "IDLE"
	StateValidating        State = "VALIDATING"
	StateCheckingBalance   State = "CHECKING_BALANCE"
	StateBuilding          State = "BUILDING"
	StateAwaitingSignature State = "AWAITING_SIGNATURE"
	StateSubmitting        State = "SUBMITTING"
	StateSucceeded         State = "SUCCEEDED"
	StateFailed            State = "FAILED"
)

const (
	// defaultMaxAttempts is the total submission attempt budget.
	defaultMaxAttempts = 3

	// defaultBackoff is the fixed delay between attempts. No exponential
	// growth: long enough for the test network's transient errors to
	// clear, short enough not to stall the user.
	defaultBackoff = 2000 * time.Millisecond
)

// Service is the submission orchestrator. It drives one investment payment
// end to end and classifies every terminal outcome into the domain error
// taxonomy. One Invest call per user action; concurrent calls are not
// serialized - two racing submissions may collide on the source account's
// sequence number and one will surface a permanent bad-sequence rejection.
type Service struct {
	Wallet    domain.IdentityProvider
	Balances  domain.BalanceReader
	Builder   domain.EnvelopeBuilder
	Submitter domain.Submitter
	Rotator   domain.EndpointRotator
	Store     domain.LedgerStore
	Treasury  domain.AccountIdentity

	// MaxAttempts and Backoff default to 3 attempts / 2000 ms when zero.
	MaxAttempts int
	Backoff     time.Duration

	Log zerolog.Logger
}

// NewService creates a submission orchestrator with the default retry
// budget.
func NewService(
	wallet domain.IdentityProvider,
	balances domain.BalanceReader,
	builder domain.EnvelopeBuilder,
	submitter domain.Submitter,
	rotator domain.EndpointRotator,
	store domain.LedgerStore,
	treasury domain.AccountIdentity,
	log zerolog.Logger,
) *Service {
	return &Service{
		Wallet:    wallet,
		Balances:  balances,
		Builder:   builder,
		Submitter: submitter,
		Rotator:   rotator,
		Store:     store,
		Treasury:  treasury,
		Log:       log,
	}
}

// Invest submits one investment payment for an artwork and records it in
// the local ledger cache.
// Logic:
//  1. Resolve the artwork (unknown artwork is a ValidationError).
//  2. Derive the investment memo.
//  3. Drive the payment through the submission pipeline.
//  4. On success, append an InvestmentRecord. The append is best-effort:
//     the payment already settled on-chain, so a failed cache write is
//     logged, not rolled back.
func (s *Service) Invest(ctx context.Context, artworkID string, amount decimal.Decimal) (*domain.InvestmentRecord, error) {
	if _, err := domain.ArtworkByID(artworkID); err != nil {
		return nil, err
	}
	memo := domain.NewInvestmentMemo(artworkID, amount)

	result, investor, err := s.SubmitPayment(ctx, amount, memo)
	if err != nil {
		return nil, err
	}

	record := &domain.InvestmentRecord{
		ID:        uuid.New(),
		ArtworkID: artworkID,
		Investor:  investor,
		Amount:    amount,
		Timestamp: time.Now().UTC(),
		TxHash:    result.Hash,
	}
	if err := s.Store.AppendInvestment(ctx, record); err != nil {
		s.Log.Error().Err(err).Str("tx", result.Hash).Str("artwork", artworkID).
			Msg("investment settled on-chain but the local cache write failed")
	}
	return record, nil
}

// SubmitPayment drives one payment to the treasury through the state
// machine. Returns the submission result and the identity that paid.
//
// Retry policy: at most MaxAttempts total submission attempts. After a
// classified transient failure the flow waits the fixed backoff, rotates to
// the next endpoint that answers a liveness probe, and restarts from
// Building, because the sequence number may be stale after the delay. When
// no candidate answers the probe the flow fails immediately as a network
// error instead of burning the remaining budget on dead endpoints.
// Validation, signing and permanent ledger failures are terminal on first
// sight.
func (s *Service) SubmitPayment(ctx context.Context, amount decimal.Decimal, memoText string) (*domain.SubmitResult, domain.AccountIdentity, error) {
	s.transition(StateIdle, StateValidating)
	source, err := s.validate(ctx, amount)
	if err != nil {
		return nil, "", s.fail(err)
	}

	s.transition(StateValidating, StateCheckingBalance)
	if err := s.checkBalance(ctx, source, amount); err != nil {
		return nil, "", s.fail(err)
	}

	var lastTransient error
	for attempt := 1; attempt <= s.maxAttempts(); attempt++ {
		if attempt > 1 {
			if err := s.wait(ctx); err != nil {
				return nil, "", s.fail(domain.NewUnknownError(err))
			}
			s.Rotator.Advance()
			if err := s.Rotator.EnsureReady(ctx); err != nil {
				return nil, "", s.fail(domain.NewNetworkError(err))
			}
		}

		s.transition(StateCheckingBalance, StateBuilding)
		envelope, err := s.Builder.Build(ctx, source, s.Treasury, amount, memoText)
		if err != nil {
			if horizon.IsTransient(err) {
				// Endpoint outage during the sequence or fee read:
				// rotate and rebuild within the same budget.
				lastTransient = err
				s.Log.Warn().Err(err).Int("attempt", attempt).Msg("envelope build hit a transient endpoint failure")
				continue
			}
			if domain.KindOf(err) == domain.KindValidation {
				return nil, "", s.fail(err)
			}
			return nil, "", s.fail(domain.NewUnknownError(err))
		}

		s.transition(StateBuilding, StateAwaitingSignature)
		signedXDR, err := s.Wallet.Sign(ctx, envelope.XDR)
		if err != nil {
			// User declined or the bridge session is gone. Never retried.
			return nil, "", s.fail(domain.NewSigningError(err))
		}

		s.transition(StateAwaitingSignature, StateSubmitting)
		result, err := s.Submitter.Submit(ctx, signedXDR)
		if err == nil {
			s.transition(StateSubmitting, StateSucceeded)
			s.Log.Info().Str("tx", result.Hash).Int("attempt", attempt).
				Str("source", source).Msg("payment submitted")
			return result, source, nil
		}

		switch {
		case horizon.IsPermanent(err):
			return nil, "", s.fail(domain.NewLedgerRejectedError(horizon.ResultCodeOf(err), err))
		case horizon.IsTransient(err):
			lastTransient = err
			s.Log.Warn().Err(err).Int("attempt", attempt).Int("budget", s.maxAttempts()).
				Msg("transient submission failure")
		default:
			s.Log.Error().Err(err).Int("attempt", attempt).Msg("unclassified submission failure")
			return nil, "", s.fail(domain.NewUnknownError(err))
		}
	}

	return nil, "", s.fail(domain.NewNetworkError(lastTransient))
}

// validate covers the Validating state: a positive, representable amount
// and a connected, well-formed identity. No network call happens here.
func (s *Service) validate(ctx context.Context, amount decimal.Decimal) (domain.AccountIdentity, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return "", err
	}
	if !s.Wallet.IsAvailable(ctx) {
		return "", domain.NewValidationError("wallet bridge is not available")
	}
	source, err := s.Wallet.ActiveIdentity(ctx)
	if err != nil || source == "" {
		return "", domain.NewValidationError("no connected wallet identity")
	}
	if err := domain.ValidateIdentity(source); err != nil {
		return "", err
	}
	return source, nil
}

// checkBalance covers the CheckingBalance state: the requested amount must
// fit the available balance minus the fee reserve. A degraded balance read
// (unfunded account, unreachable endpoint) reads as zero and fails here.
func (s *Service) checkBalance(ctx context.Context, source domain.AccountIdentity, amount decimal.Decimal) error {
	balance := s.Balances.NativeBalance(ctx, source)
	available := domain.AvailableForInvestment(balance.Native)
	if available.LessThan(amount) {
		if balance.Err != "" {
			return domain.NewInsufficientFundsError("available %s, requested %s (%s)", available, amount, balance.Err)
		}
		return domain.NewInsufficientFundsError("available %s, requested %s", available, amount)
	}
	return nil
}

func (s *Service) maxAttempts() int {
	if s.MaxAttempts > 0 {
		return s.MaxAttempts
	}
	return defaultMaxAttempts
}

func (s *Service) backoff() time.Duration {
	if s.Backoff > 0 {
		return s.Backoff
	}
	return defaultBackoff
}

// wait sleeps the fixed backoff, honoring context cancellation.
func (s *Service) wait(ctx context.Context) error {
	timer := time.NewTimer(s.backoff())
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Service) transition(from, to State) {
	s.Log.Debug().Str("from", string(from)).Str("to", string(to)).Msg("state transition")
}

func (s *Service) fail(err error) error {
	s.Log.Debug().Str("to", string(StateFailed)).Str("kind", string(domain.KindOf(err))).Msg("flow terminated")
	return err
}
