package horizon

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tokenart/tokenart-backend/internal/domain"
)

// paymentsPage is the payment-history response envelope.
type paymentsPage struct {
	Embedded struct {
		Records []paymentRecord `json:"records"`
	} `json:"_embedded"`
}

// paymentRecord is one operation in the payment history. Only native
// payments are relevant to reconciliation.
type paymentRecord struct {
	Type            string `json:"type"`
	TransactionHash string `json:"transaction_hash"`
	From            string `json:"from"`
	To              string `json:"to"`
	AssetType       string `json:"asset_type"`
	Amount          string `json:"amount"`
}

// transactionDetail carries the memo for one settled transaction.
type transactionDetail struct {
	Memo     string `json:"memo"`
	MemoType string `json:"memo_type"`
}

// Payments reads the most recent native-asset payments involving identity,
// newest first, resolving each payment's transaction memo. Implements
// domain.PaymentHistory for the reconciliation flow.
func (c *Client) Payments(ctx context.Context, identity domain.AccountIdentity, limit int) ([]domain.ChainPayment, error) {
	if limit <= 0 {
		limit = 100
	}

	var page paymentsPage
	path := fmt.Sprintf("/accounts/%s/payments?order=desc&limit=%d", identity, limit)
	if err := c.getJSON(ctx, path, &page); err != nil {
		return nil, err
	}

	payments := make([]domain.ChainPayment, 0, len(page.Embedded.Records))
	for _, rec := range page.Embedded.Records {
		if rec.Type != "payment" || rec.AssetType != "native" {
			continue
		}
		amount, err := decimal.NewFromString(rec.Amount)
		if err != nil {
			c.log.Warn().Str("tx", rec.TransactionHash).Str("amount", rec.Amount).
				Msg("skipping payment with malformed amount")
			continue
		}

		memo, err := c.transactionMemo(ctx, rec.TransactionHash)
		if err != nil {
			return nil, err
		}

		payments = append(payments, domain.ChainPayment{
			TxHash: rec.TransactionHash,
			From:   rec.From,
			To:     rec.To,
			Amount: amount,
			Memo:   memo,
		})
	}
	return payments, nil
}

// transactionMemo fetches the text memo of a settled transaction. Non-text
// memos resolve to "".
func (c *Client) transactionMemo(ctx context.Context, hash string) (string, error) {
	var detail transactionDetail
	if err := c.getJSON(ctx, "/transactions/"+hash, &detail); err != nil {
		return "", err
	}
	if detail.MemoType != "text" {
		return "", nil
	}
	return detail.Memo, nil
}
