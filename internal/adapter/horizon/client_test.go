package horizon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stellar/go/keypair"
	"github.com/stretchr/testify/assert"
)

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	selector, err := NewSelector([]string{url}, time.Second, zerolog.Nop())
	assert.NoError(t, err)
	client, err := NewClient(Config{Selector: selector, Timeout: 2 * time.Second, Log: zerolog.Nop()})
	assert.NoError(t, err)
	return client
}

func testIdentity(t *testing.T) string {
	t.Helper()
	kp, err := keypair.Random()
	assert.NoError(t, err)
	return kp.Address()
}

func TestSubmit_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transactions", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "signed-xdr", r.PostForm.Get("tx"))

		w.Write([]byte(`{"hash":"deadbeef","ledger":123}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	// Execute
	result, err := client.Submit(context.Background(), "signed-xdr")

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "deadbeef", result.Hash)
	assert.Equal(t, int32(123), result.Ledger)
}

func TestSubmit_LedgerRejectionIsPermanent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"title":"Transaction Failed","extras":{"result_codes":{"transaction":"tx_bad_seq"}}}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	// Execute
	_, err := client.Submit(context.Background(), "signed-xdr")

	// Assert
	assert.True(t, IsPermanent(err))
	assert.False(t, IsTransient(err))
	assert.Equal(t, "tx_bad_seq", ResultCodeOf(err))
}

func TestSubmit_GatewayFailureIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGatewayTimeout)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	// Execute
	_, err := client.Submit(context.Background(), "signed-xdr")

	// Assert
	assert.True(t, IsTransient(err))
	assert.Empty(t, ResultCodeOf(err))
}

func TestSubmit_MalformedSuccessBodyIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ledger":123}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	// Execute: 200 with no hash must not count as success
	_, err := client.Submit(context.Background(), "signed-xdr")

	// Assert
	assert.True(t, IsTransient(err))
}

func TestSubmit_ConnectionRefusedIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := client.Submit(context.Background(), "signed-xdr")

	assert.True(t, IsTransient(err))
}

func TestAccountDetail_ParsesSequence(t *testing.T) {
	identity := testIdentity(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts/"+identity, r.URL.Path)
		w.Write([]byte(`{"id":"` + identity + `","sequence":"4100","balances":[{"balance":"100.5000000","asset_type":"native"}]}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	// Execute
	account, err := client.AccountDetail(context.Background(), identity)

	// Assert
	assert.NoError(t, err)
	seq, err := account.SequenceNumber()
	assert.NoError(t, err)
	assert.Equal(t, int64(4100), seq)

	native, ok := account.NativeBalance()
	assert.True(t, ok)
	assert.True(t, decimal.RequireFromString("100.5").Equal(native))
}

func TestFeeStats_BaseFee(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fee_stats", r.URL.Path)
		w.Write([]byte(`{"last_ledger_base_fee":"100"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	stats, err := client.FeeStats(context.Background())
	assert.NoError(t, err)

	fee, err := stats.BaseFee()
	assert.NoError(t, err)
	assert.Equal(t, int64(100), fee)
}

func TestNativeBalance_UnfundedAccountDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	// Execute
	balance := client.NativeBalance(context.Background(), testIdentity(t))

	// Assert: zero amount plus a "needs funding" description, never an error
	assert.True(t, balance.Native.IsZero())
	assert.False(t, balance.OK())
	assert.Contains(t, balance.Err, "needs funding")
}

func TestNativeBalance_InvalidIdentityDegrades(t *testing.T) {
	client := newTestClient(t, "http://unused")

	balance := client.NativeBalance(context.Background(), "not-an-identity")

	assert.True(t, balance.Native.IsZero())
	assert.Contains(t, balance.Err, "invalid account identity")
}

func TestNativeBalance_MissingNativeEntryDegrades(t *testing.T) {
	identity := testIdentity(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"` + identity + `","sequence":"1","balances":[]}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	balance := client.NativeBalance(context.Background(), identity)

	assert.True(t, balance.Native.IsZero())
	assert.Contains(t, balance.Err, "no native balance")
}
