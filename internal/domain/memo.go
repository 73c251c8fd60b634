package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MaxMemoBytes is the ledger's limit for text memos.
const MaxMemoBytes = 28

const (
	investMemoPrefix   = "INV"
	purchaseMemoPrefix = "PUR"
)

// NewInvestmentMemo derives the text memo attached to an investment payment
// for off-chain traceability: "INV:<artworkID>:<amount>".
//
// The encoding is deterministic: the same (artworkID, amount) pair always
// produces the same bytes. If the naive encoding exceeds MaxMemoBytes the
// tail is truncated, preserving the artwork reference prefix.
func NewInvestmentMemo(artworkID string, amount decimal.Decimal) string {
	return truncateMemo(fmt.Sprintf("%s:%s:%s", investMemoPrefix, artworkID, amount))
}

// NewPurchaseMemo derives the text memo attached to a purchase payment:
// "PUR:<artworkID>".
func NewPurchaseMemo(artworkID string) string {
	return truncateMemo(fmt.Sprintf("%s:%s", purchaseMemoPrefix, artworkID))
}

// ParseInvestmentMemo recovers (artworkID, amount) from an investment memo.
// The second return is false when the memo is not a well-formed, untruncated
// investment memo.
func ParseInvestmentMemo(memo string) (artworkID string, amount decimal.Decimal, ok bool) {
	if len(memo) < len(investMemoPrefix)+1 || memo[:len(investMemoPrefix)+1] != investMemoPrefix+":" {
		return "", decimal.Zero, false
	}
	rest := memo[len(investMemoPrefix)+1:]
	sep := -1
	for i := len(rest) - 1; i >= 0; i-- {
		if rest[i] == ':' {
			sep = i
			break
		}
	}
	if sep <= 0 || sep == len(rest)-1 {
		return "", decimal.Zero, false
	}
	amt, err := decimal.NewFromString(rest[sep+1:])
	if err != nil {
		return "", decimal.Zero, false
	}
	return rest[:sep], amt, true
}

// ParsePurchaseMemo recovers the artwork reference from a purchase memo. The
// second return is false when the memo is not a well-formed purchase memo.
func ParsePurchaseMemo(memo string) (artworkID string, ok bool) {
	prefix := purchaseMemoPrefix + ":"
	if len(memo) <= len(prefix) || memo[:len(prefix)] != prefix {
		return "", false
	}
	return memo[len(prefix):], true
}

func truncateMemo(memo string) string {
	if len(memo) > MaxMemoBytes {
		return memo[:MaxMemoBytes]
	}
	return memo
}
