// Command fundaccount requests faucet funding for an existing test-network
// account.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/tokenart/tokenart-backend/internal/adapter/horizon"
	"github.com/tokenart/tokenart-backend/internal/domain"
)

func main() {
	faucet := flag.String("faucet", "https://friendbot.stellar.org", "faucet URL")
	flag.Parse()

	identity := flag.Arg(0)
	if identity == "" {
		fmt.Fprintln(os.Stderr, "usage: fundaccount [-faucet URL] <account>")
		os.Exit(2)
	}
	if err := domain.ValidateIdentity(identity); err != nil {
		fmt.Fprintf(os.Stderr, "invalid account: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := horizon.NewFriendbot(*faucet).Fund(ctx, identity); err != nil {
		fmt.Fprintf(os.Stderr, "fund account: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("funded %s\n", identity)
}
