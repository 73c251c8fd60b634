package horizon

import (
	"context"
	"time"
)

// NetworkStatus summarizes endpoint health for the status view and the
// netcheck tool.
type NetworkStatus struct {
	Status   string        `json:"status"`
	Latency  time.Duration `json:"latency"`
	Endpoint string        `json:"endpoint"`
}

// CheckNetworkStatus measures fee-statistics latency on the current
// endpoint and buckets it: good < 1s, slow < 3s, poor above, offline on
// error.
func (c *Client) CheckNetworkStatus(ctx context.Context) NetworkStatus {
	start := time.Now()
	status := NetworkStatus{Endpoint: c.selector.Current()}

	if _, err := c.FeeStats(ctx); err != nil {
		status.Status = "offline"
		status.Latency = time.Since(start)
		return status
	}

	status.Latency = time.Since(start)
	switch {
	case status.Latency < time.Second:
		status.Status = "good"
	case status.Latency < 3*time.Second:
		status.Status = "slow"
	default:
		status.Status = "poor"
	}
	return status
}
