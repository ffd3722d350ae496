package fx

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/etnz/networth/quote"
	"github.com/sirupsen/logrus"
)

// DefaultTTL is how long fetched rates are served before fetching again.
const DefaultTTL = time.Hour

// ErrNoRates is returned when no rates could ever be fetched.
var ErrNoRates = errors.New("no exchange rates available")

// Fetcher fetches current rates. *Client is a Fetcher.
type Fetcher interface {
	Fetch(ctx context.Context) (Rates, error)
}

// Source serves rates from a Fetcher, fetching at most once per ttl.
//
// When a fetch fails the last known rates are served, and a warning is
// logged. It is safe for concurrent use.
type Source struct {
	fetcher Fetcher
	cache   *quote.Cache[string, Rates]
	log     logrus.FieldLogger

	mu   sync.Mutex
	last Rates
}

// NewSource returns a Source. A ttl <= 0 is DefaultTTL, a nil now is time.Now.
func NewSource(f Fetcher, ttl time.Duration, now func() time.Time, log logrus.FieldLogger) *Source {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Source{fetcher: f, cache: quote.NewCache[string, Rates](ttl, now), log: log}
}

const latest = "latest"

// Rates returns the current rates.
func (s *Source) Rates(ctx context.Context) (Rates, error) {
	if r, ok := s.cache.Get(latest); ok {
		return r, nil
	}
	r, err := s.fetch(ctx)
	if err == nil {
		return r, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last.IsZero() {
		return Rates{}, errors.Join(ErrNoRates, err)
	}
	s.log.WithError(err).WithField("date", s.last.Date.String()).Warn("using last known exchange rates")
	return s.last, nil
}

// Refresh fetches the rates now.
func (s *Source) Refresh(ctx context.Context) error {
	_, err := s.fetch(ctx)
	return err
}

func (s *Source) fetch(ctx context.Context) (Rates, error) {
	r, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return Rates{}, err
	}
	s.cache.Put(latest, r)
	s.mu.Lock()
	s.last = r
	s.mu.Unlock()
	return r, nil
}
