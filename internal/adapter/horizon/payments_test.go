package horizon

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPayments_FiltersNonNativeAndResolvesMemos(t *testing.T) {
	identity := testIdentity(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/accounts/"):
			assert.Equal(t, "/accounts/"+identity+"/payments", r.URL.Path)
			assert.Equal(t, "desc", r.URL.Query().Get("order"))
			w.Write([]byte(`{"_embedded":{"records":[
				{"type":"payment","transaction_hash":"tx1","from":"GAAA","to":"GBBB","asset_type":"native","amount":"5.0000000"},
				{"type":"payment","transaction_hash":"tx2","from":"GAAA","to":"GBBB","asset_type":"credit_alphanum4","amount":"9.0"},
				{"type":"create_account","transaction_hash":"tx3","from":"GAAA","to":"GBBB","asset_type":"native","amount":"100.0"}
			]}}`))
		case r.URL.Path == "/transactions/tx1":
			w.Write([]byte(`{"memo":"INV:art-001:5","memo_type":"text"}`))
		default:
			t.Errorf("unexpected request %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	// Execute
	payments, err := client.Payments(context.Background(), identity, 10)

	// Assert: only the native payment survives, memo resolved
	assert.NoError(t, err)
	assert.Len(t, payments, 1)
	assert.Equal(t, "tx1", payments[0].TxHash)
	assert.Equal(t, "INV:art-001:5", payments[0].Memo)
	assert.True(t, decimal.NewFromInt(5).Equal(payments[0].Amount))
}

func TestPayments_NonTextMemoResolvesEmpty(t *testing.T) {
	identity := testIdentity(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/payments"):
			w.Write([]byte(`{"_embedded":{"records":[
				{"type":"payment","transaction_hash":"tx1","from":"GAAA","to":"GBBB","asset_type":"native","amount":"5.0"}
			]}}`))
		default:
			w.Write([]byte(`{"memo":"AAAA","memo_type":"hash"}`))
		}
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	payments, err := client.Payments(context.Background(), identity, 10)

	assert.NoError(t, err)
	assert.Len(t, payments, 1)
	assert.Empty(t, payments[0].Memo)
}

func TestPayments_PrunedTransactionIsNotAnAccountLookupFailure(t *testing.T) {
	identity := testIdentity(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/payments"):
			w.Write([]byte(`{"_embedded":{"records":[
				{"type":"payment","transaction_hash":"tx-pruned","from":"GAAA","to":"GBBB","asset_type":"native","amount":"5.0"}
			]}}`))
		default:
			// The transaction detail has been pruned from this endpoint.
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := client.Payments(context.Background(), identity, 10)

	// The 404 belongs to the memo lookup, not to the account.
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrAccountNotFound))
}
