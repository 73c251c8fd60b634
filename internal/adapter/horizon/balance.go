package horizon

import (
	"context"
	"errors"

	"github.com/tokenart/tokenart-backend/internal/domain"
)

// NativeBalance fetches the native-asset balance for an identity with a
// single, non-retried read against the current endpoint.
//
// Expected ledger and network conditions never surface as errors: a
// malformed identity, an account that needs funding, an unreachable endpoint
// or a malformed response all degrade to a zero balance with a description,
// because this read feeds informational UI state.
func (c *Client) NativeBalance(ctx context.Context, identity domain.AccountIdentity) domain.Balance {
	if err := domain.ValidateIdentity(identity); err != nil {
		return domain.Balance{Err: "invalid account identity format"}
	}

	account, err := c.AccountDetail(ctx, identity)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return domain.Balance{Err: "account not found on the test network; needs funding via the faucet"}
		}
		c.log.Warn().Err(err).Str("account", identity).Msg("balance read failed")
		return domain.Balance{Err: "balance fetch failed: " + err.Error()}
	}

	native, ok := account.NativeBalance()
	if !ok {
		return domain.Balance{Err: "no native balance found in account"}
	}
	return domain.Balance{Native: native}
}
