package horizon

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/tokenart/tokenart-backend/internal/domain"
)

// Friendbot funds new test-network identities with a starting balance.
// Used only by demo tooling and the demo API, never by the core submission
// flow. Requests are rate limited so the faucet is not hammered.
type Friendbot struct {
	url        string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewFriendbot creates a faucet client for the given base URL.
func NewFriendbot(faucetURL string) *Friendbot {
	return &Friendbot{
		url:        faucetURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		// One funding request per two seconds, small burst for tooling.
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 3),
	}
}

// Fund asks the faucet to fund identity. The identity must pass the format
// check first; funding an account that already exists fails on the faucet
// side and is surfaced as-is.
func (f *Friendbot) Fund(ctx context.Context, identity domain.AccountIdentity) error {
	if err := domain.ValidateIdentity(identity); err != nil {
		return err
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		f.url+"?addr="+url.QueryEscape(identity), nil)
	if err != nil {
		return fmt.Errorf("create faucet request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("faucet request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("faucet returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
