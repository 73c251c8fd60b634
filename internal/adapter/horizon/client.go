package horizon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tokenart/tokenart-backend/internal/domain"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 1 << 20

// ErrAccountNotFound marks an account lookup for an identity that does not
// exist on the ledger yet. A recoverable "needs funding" condition, not a
// hard failure.
var ErrAccountNotFound = errors.New("account not found on the ledger")

// Client is a JSON client for the ledger-query endpoints. All calls go to
// the selector's currently preferred endpoint; the client never rotates on
// its own - that decision belongs to the orchestrator.
type Client struct {
	selector   *Selector
	httpClient *http.Client
	log        zerolog.Logger
}

// Config holds client configuration.
type Config struct {
	Selector *Selector
	Timeout  time.Duration
	Log      zerolog.Logger
}

// NewClient creates a ledger-query client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Selector == nil {
		return nil, errors.New("endpoint selector required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		selector:   cfg.Selector,
		httpClient: &http.Client{Timeout: timeout},
		log:        cfg.Log,
	}, nil
}

// Selector returns the endpoint selector this client reads through.
func (c *Client) Selector() *Selector {
	return c.selector
}

// Account is the subset of the account-lookup response the core needs.
type Account struct {
	ID       string         `json:"id"`
	Sequence string         `json:"sequence"`
	Balances []AssetBalance `json:"balances"`
}

// AssetBalance is one entry of an account's asset list.
type AssetBalance struct {
	Balance   string `json:"balance"`
	AssetType string `json:"asset_type"`
}

// NativeBalance selects the native-asset entry of the balance list.
func (a *Account) NativeBalance() (decimal.Decimal, bool) {
	for _, b := range a.Balances {
		if b.AssetType == "native" {
			amt, err := decimal.NewFromString(b.Balance)
			if err != nil {
				return decimal.Zero, false
			}
			return amt, true
		}
	}
	return decimal.Zero, false
}

// SequenceNumber parses the account's current sequence number.
func (a *Account) SequenceNumber() (int64, error) {
	seq, err := strconv.ParseInt(a.Sequence, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed sequence number %q: %w", a.Sequence, err)
	}
	return seq, nil
}

// AccountDetail looks up an account by identity on the current endpoint.
// Returns ErrAccountNotFound for identities the ledger has never seen.
func (c *Client) AccountDetail(ctx context.Context, identity domain.AccountIdentity) (*Account, error) {
	var account Account
	if err := c.getJSON(ctx, "/accounts/"+identity, &account); err != nil {
		var herr *Error
		if errors.As(err, &herr) && herr.Status == http.StatusNotFound {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FeeStats is the fee-statistics response, also used as the liveness probe.
type FeeStats struct {
	LastLedgerBaseFee string `json:"last_ledger_base_fee"`
}

// BaseFee parses the last ledger's base fee in stroops.
func (f *FeeStats) BaseFee() (int64, error) {
	fee, err := strconv.ParseInt(f.LastLedgerBaseFee, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed base fee %q: %w", f.LastLedgerBaseFee, err)
	}
	return fee, nil
}

// FeeStats fetches current fee statistics from the current endpoint.
func (c *Client) FeeStats(ctx context.Context) (*FeeStats, error) {
	var stats FeeStats
	if err := c.getJSON(ctx, "/fee_stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// submitResponse is the success body of a transaction submission.
type submitResponse struct {
	Hash   string `json:"hash"`
	Ledger int32  `json:"ledger"`
}

// problem is the structured error body returned on rejected submissions.
type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Extras struct {
		ResultCodes struct {
			Transaction string   `json:"transaction"`
			Operations  []string `json:"operations"`
		} `json:"result_codes"`
	} `json:"extras"`
}

// Submit posts a signed envelope to the current endpoint. Failures come back
// classified: ledger-reported result codes are permanent, everything else
// (timeouts, 5xx, connection errors, malformed bodies) is transient.
func (c *Client) Submit(ctx context.Context, signedXDR string) (*domain.SubmitResult, error) {
	endpoint := c.selector.Current()
	form := url.Values{"tx": {signedXDR}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/transactions",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create submit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transientErr(fmt.Errorf("submit to %s: %w", endpoint, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, transientStatus(resp.StatusCode, fmt.Errorf("read submit response: %w", err))
	}

	if resp.StatusCode == http.StatusOK {
		var ok submitResponse
		if err := json.Unmarshal(body, &ok); err != nil || ok.Hash == "" {
			// An undefined or malformed success body is treated as a
			// transient endpoint fault, matching gateway behavior.
			return nil, transientStatus(resp.StatusCode, fmt.Errorf("malformed submit response body"))
		}
		return &domain.SubmitResult{Hash: ok.Hash, Ledger: ok.Ledger}, nil
	}

	return nil, c.classifyRejection(resp.StatusCode, body)
}

// classifyRejection turns a non-200 submission response into a classified
// error. Gateway-side statuses are transient; a problem document carrying a
// transaction result code is a permanent ledger rejection.
func (c *Client) classifyRejection(status int, body []byte) *Error {
	if status >= 500 {
		return transientStatus(status, fmt.Errorf("gateway failure: %s", http.StatusText(status)))
	}

	var p problem
	if err := json.Unmarshal(body, &p); err != nil {
		return transientStatus(status, fmt.Errorf("malformed problem body"))
	}

	if code := p.Extras.ResultCodes.Transaction; code != "" {
		return &Error{
			Class:          ClassPermanent,
			Status:         status,
			ResultCode:     code,
			OperationCodes: p.Extras.ResultCodes.Operations,
			Err:            fmt.Errorf("%s", p.Title),
		}
	}

	// 4xx without a result code: the ledger did not accept the envelope at
	// all (e.g. undecodable XDR). Permanent - resubmitting the same bytes
	// cannot succeed.
	return &Error{Class: ClassPermanent, Status: status, Err: fmt.Errorf("%s", p.Title)}
}

// getJSON performs a single, non-retried GET against the current endpoint.
func (c *Client) getJSON(ctx context.Context, path string, target interface{}) error {
	endpoint := c.selector.Current()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transientErr(fmt.Errorf("get %s%s: %w", endpoint, path, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode >= 500 {
			return transientStatus(resp.StatusCode, fmt.Errorf("gateway failure: %s", http.StatusText(resp.StatusCode)))
		}
		return &Error{Class: ClassPermanent, Status: resp.StatusCode, Err: fmt.Errorf("unexpected status for %s", path)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return transientStatus(resp.StatusCode, fmt.Errorf("read response: %w", err))
	}
	if err := json.Unmarshal(body, target); err != nil {
		return transientStatus(resp.StatusCode, fmt.Errorf("malformed response body: %w", err))
	}
	return nil
}
