package stellar

import (
	"context"
	"testing"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/network"
	"github.com/stellar/go/txnbuild"
	"github.com/stretchr/testify/assert"
)

func buildTestEnvelope(t *testing.T, source string) string {
	t.Helper()
	destination, err := keypair.Random()
	assert.NoError(t, err)

	account := txnbuild.NewSimpleAccount(source, 1)
	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &account,
		IncrementSequenceNum: true,
		Operations: []txnbuild.Operation{
			&txnbuild.Payment{
				Destination: destination.Address(),
				Amount:      "5",
				Asset:       txnbuild.NativeAsset{},
			},
		},
		BaseFee: txnbuild.MinBaseFee,
		Preconditions: txnbuild.Preconditions{
			TimeBounds: txnbuild.NewTimeout(300),
		},
	})
	assert.NoError(t, err)

	xdr, err := tx.Base64()
	assert.NoError(t, err)
	return xdr
}

func TestLocalWallet_ConnectAndSign(t *testing.T) {
	ctx := context.Background()
	wallet, err := NewRandomWallet(network.TestNetworkPassphrase)
	assert.NoError(t, err)

	assert.True(t, wallet.IsAvailable(ctx))

	// Setup: open the session
	identity, err := wallet.RequestAccess(ctx)
	assert.NoError(t, err)
	assert.Len(t, identity, 56)

	active, err := wallet.ActiveIdentity(ctx)
	assert.NoError(t, err)
	assert.Equal(t, identity, active)

	// Execute
	unsigned := buildTestEnvelope(t, identity)
	signed, err := wallet.Sign(ctx, unsigned)

	// Assert: the signed envelope decodes and carries one signature
	assert.NoError(t, err)
	assert.NotEqual(t, unsigned, signed)

	generic, err := txnbuild.TransactionFromXDR(signed)
	assert.NoError(t, err)
	tx, ok := generic.Transaction()
	assert.True(t, ok)
	assert.Len(t, tx.Signatures(), 1)
}

func TestLocalWallet_SignWithoutSession(t *testing.T) {
	ctx := context.Background()
	wallet, err := NewRandomWallet(network.TestNetworkPassphrase)
	assert.NoError(t, err)

	// No RequestAccess call: signing must fail like a revoked session.
	_, err = wallet.Sign(ctx, "any")
	assert.ErrorIs(t, err, ErrNoSession)

	active, err := wallet.ActiveIdentity(ctx)
	assert.NoError(t, err)
	assert.Empty(t, active)
}

func TestLocalWallet_Disconnect(t *testing.T) {
	ctx := context.Background()
	wallet, err := NewRandomWallet(network.TestNetworkPassphrase)
	assert.NoError(t, err)

	identity, err := wallet.RequestAccess(ctx)
	assert.NoError(t, err)

	wallet.Disconnect()

	_, err = wallet.Sign(ctx, buildTestEnvelope(t, identity))
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestNewLocalWallet_RejectsMalformedSeed(t *testing.T) {
	_, err := NewLocalWallet("not-a-seed", network.TestNetworkPassphrase)

	assert.Error(t, err)
}

func TestNewLocalWallet_FromSeed(t *testing.T) {
	kp, err := keypair.Random()
	assert.NoError(t, err)

	wallet, err := NewLocalWallet(kp.Seed(), network.TestNetworkPassphrase)
	assert.NoError(t, err)

	identity, err := wallet.RequestAccess(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, kp.Address(), identity)
}
