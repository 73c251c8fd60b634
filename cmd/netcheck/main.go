// Command netcheck probes the configured Horizon endpoints and prints the
// reachability bucket for each.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/tokenart/tokenart-backend/internal/adapter/horizon"
	"github.com/tokenart/tokenart-backend/internal/config"
)

func main() {
	path := flag.String("endpoints", "config/endpoints.yaml", "endpoints config file")
	timeout := flag.Duration("timeout", 10*time.Second, "per-endpoint timeout")
	flag.Parse()

	endpoints := config.LoadEndpointsOrDefault(*path)
	log := zerolog.New(os.Stderr).Level(zerolog.WarnLevel)

	exitCode := 0
	for _, endpoint := range endpoints.Horizon {
		selector, err := horizon.NewSelector([]string{endpoint}, *timeout, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		client, err := horizon.NewClient(horizon.Config{Selector: selector, Timeout: *timeout, Log: log})
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		status := client.CheckNetworkStatus(ctx)
		cancel()

		fmt.Printf("%-45s %-8s %dms\n", endpoint, status.Status, status.Latency.Milliseconds())
		if status.Status == "offline" {
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}
