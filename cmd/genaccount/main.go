// Command genaccount generates a test-network keypair and optionally funds
// it through the faucet.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/stellar/go/keypair"

	"github.com/tokenart/tokenart-backend/internal/adapter/horizon"
)

func main() {
	fund := flag.Bool("fund", false, "request faucet funding for the new account")
	faucet := flag.String("faucet", "https://friendbot.stellar.org", "faucet URL")
	flag.Parse()

	kp, err := keypair.Random()
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate keypair: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("address: %s\n", kp.Address())
	fmt.Printf("seed:    %s\n", kp.Seed())

	if !*fund {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := horizon.NewFriendbot(*faucet).Fund(ctx, kp.Address()); err != nil {
		fmt.Fprintf(os.Stderr, "fund account: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("funded via faucet")
}
