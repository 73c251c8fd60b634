package stellar

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"

	"github.com/tokenart/tokenart-backend/internal/domain"
)

// ErrNoSession is returned when signing is requested without a connected
// wallet session.
var ErrNoSession = errors.New("no active wallet session")

// LocalWallet is the demo stand-in for the browser wallet extension: an
// in-process keypair behind the same IdentityProvider interface the real
// bridge would implement. The core never sees the secret seed - only the
// identity and the signing capability.
type LocalWallet struct {
	mu        sync.Mutex
	kp        *keypair.Full
	network   string
	connected bool
}

// NewLocalWallet creates a wallet from a secret seed.
func NewLocalWallet(seed, networkPassphrase string) (*LocalWallet, error) {
	kp, err := keypair.ParseFull(seed)
	if err != nil {
		return nil, fmt.Errorf("parse wallet seed: %w", err)
	}
	return &LocalWallet{kp: kp, network: networkPassphrase}, nil
}

// NewRandomWallet creates a wallet with a freshly generated keypair. The
// account must still be funded before it can transact.
func NewRandomWallet(networkPassphrase string) (*LocalWallet, error) {
	kp, err := keypair.Random()
	if err != nil {
		return nil, fmt.Errorf("generate keypair: %w", err)
	}
	return &LocalWallet{kp: kp, network: networkPassphrase}, nil
}

// IsAvailable reports whether a signing bridge is installed. Always true
// for the in-process wallet.
func (w *LocalWallet) IsAvailable(ctx context.Context) bool {
	return true
}

// RequestAccess opens a session and returns the wallet's identity.
func (w *LocalWallet) RequestAccess(ctx context.Context) (domain.AccountIdentity, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.connected = true
	return w.kp.Address(), nil
}

// ActiveIdentity returns the connected identity, or "" when the session is
// closed.
func (w *LocalWallet) ActiveIdentity(ctx context.Context) (domain.AccountIdentity, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.connected {
		return "", nil
	}
	return w.kp.Address(), nil
}

// Disconnect closes the session.
func (w *LocalWallet) Disconnect() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.connected = false
}

// Sign signs a base64 envelope and returns the signed base64 envelope.
// Signing without a session fails the way a revoked browser session would.
func (w *LocalWallet) Sign(ctx context.Context, envelopeXDR string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.connected {
		return "", ErrNoSession
	}

	generic, err := txnbuild.TransactionFromXDR(envelopeXDR)
	if err != nil {
		return "", fmt.Errorf("parse envelope: %w", err)
	}
	tx, ok := generic.Transaction()
	if !ok {
		return "", errors.New("envelope is not a simple transaction")
	}

	signed, err := tx.Sign(w.network, w.kp)
	if err != nil {
		return "", fmt.Errorf("sign envelope: %w", err)
	}
	return signed.Base64()
}
