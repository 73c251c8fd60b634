// Package horizon provides the ledger-query transport for the submission
// core: redundant endpoint selection, account and fee reads, and signed
// transaction submission with failures classified at this boundary.
package horizon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Selector maintains an ordered, non-empty list of candidate endpoints and
// the index of the currently preferred one. The index is owned by this
// instance (not process-wide) so concurrent flows and tests cannot interfere
// through hidden globals. It is advisory: concurrent advances are tolerated,
// last write wins.
type Selector struct {
	mu        sync.Mutex
	endpoints []string
	index     int

	probeClient *http.Client
	log         zerolog.Logger
}

// ErrAllEndpointsDown is returned by EnsureReady when a full rotation of
// probes finds no live endpoint.
var ErrAllEndpointsDown = errors.New("all ledger endpoints failed the liveness probe")

// NewSelector creates a selector over the given candidate endpoints.
// The list must be non-empty.
func NewSelector(endpoints []string, probeTimeout time.Duration, log zerolog.Logger) (*Selector, error) {
	if len(endpoints) == 0 {
		return nil, errors.New("endpoint list must not be empty")
	}
	if probeTimeout == 0 {
		probeTimeout = 5 * time.Second
	}
	return &Selector{
		endpoints:   append([]string(nil), endpoints...),
		probeClient: &http.Client{Timeout: probeTimeout},
		log:         log,
	}, nil
}

// Current returns the currently preferred endpoint.
func (s *Selector) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endpoints[s.index]
}

// Advance moves the current index to the next candidate, wrapping around.
// Called only when the current endpoint showed a transient failure.
func (s *Selector) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = (s.index + 1) % len(s.endpoints)
	s.log.Debug().Str("endpoint", s.endpoints[s.index]).Msg("advanced to next ledger endpoint")
}

// Len returns the number of candidate endpoints.
func (s *Selector) Len() int {
	return len(s.endpoints)
}

// EnsureReady probes the current endpoint and, on failure, walks the
// candidate list at most once, advancing until a probe succeeds. When every
// candidate fails the index resets to 0 and the failure is surfaced to the
// caller instead of looping. Worst case is one probe per candidate.
func (s *Selector) EnsureReady(ctx context.Context) error {
	for i := 0; i < len(s.endpoints); i++ {
		endpoint := s.Current()
		if s.probe(ctx, endpoint) {
			return nil
		}
		s.log.Warn().Str("endpoint", endpoint).Msg("ledger endpoint failed liveness probe")
		s.Advance()
	}

	s.mu.Lock()
	s.index = 0
	s.mu.Unlock()
	return ErrAllEndpointsDown
}

// probe issues a lightweight fee-statistics query with a bounded timeout.
func (s *Selector) probe(ctx context.Context, endpoint string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"/fee_stats", nil)
	if err != nil {
		return false
	}
	resp, err := s.probeClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// String describes the selector for logs.
func (s *Selector) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("endpoint %d/%d (%s)", s.index+1, len(s.endpoints), s.endpoints[s.index])
}
