// Package credits caches the user's credit balance for the whole process.
//
// The balance only changes on an explicit Refresh (startup, after an
// interview completes, after a purchase) or an optimistic Set. Refreshes
// are not deduplicated; each one takes a sequence number and its result is
// applied only if no later refresh has been applied already, so a slow
// response can never overwrite a fresher one.
package credits

import (
	"aiinterviewer/internal/model"
	"context"
	"log/slog"
	"sync"
)

// Fetcher loads the balance from the backend
type Fetcher interface {
	GetCreditBalance(ctx context.Context) (*model.CreditBalance, error)
}

// Store is the credit balance cache
type Store struct {
	fetcher Fetcher
	logger  *slog.Logger

	mu       sync.RWMutex
	balance  model.CreditBalance
	loaded   bool
	loading  int
	lastErr  error
	seq      uint64
	applied  uint64
	onUpdate []func(model.CreditBalance)
}

// NewStore creates an empty store backed by fetcher
func NewStore(fetcher Fetcher) *Store {
	return &Store{
		fetcher: fetcher,
		logger:  slog.Default().With("component", "credits"),
		balance: model.CreditBalance{FreeInterviewsRemaining: 4},
	}
}

// OnUpdate registers fn to receive every balance the store applies
func (s *Store) OnUpdate(fn func(model.CreditBalance)) {
	s.mu.Lock()
	s.onUpdate = append(s.onUpdate, fn)
	s.mu.Unlock()
}

// Get returns the cached balance
func (s *Store) Get() model.CreditBalance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balance
}

// Balance returns the cached balance and whether it was ever loaded
func (s *Store) Balance() (model.CreditBalance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balance, s.loaded
}

// Loaded reports whether a balance has been applied
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Loading reports whether a refresh is in flight
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading > 0
}

// LastError is the error of the most recent failed refresh, cleared on success
func (s *Store) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// CanAfford reports whether the loaded balance covers cost.
// An unloaded store cannot afford anything.
func (s *Store) CanAfford(cost int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded && s.balance.Credits >= cost
}

// Refresh fetches the balance and overwrites the cache, unless a later
// refresh already landed.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.loading++
	s.lastErr = nil
	s.mu.Unlock()

	balance, err := s.fetcher.GetCreditBalance(ctx)

	s.mu.Lock()
	s.loading--
	if err != nil {
		if seq > s.applied {
			s.lastErr = err
		}
		s.mu.Unlock()
		s.logger.Warn("failed to fetch credits", "error", err)
		return err
	}
	if seq < s.applied {
		s.mu.Unlock()
		s.logger.Debug("dropping stale credit balance", "seq", seq, "applied", s.applied)
		return nil
	}
	s.applied = seq
	s.balance = *balance
	s.loaded = true
	hooks := s.onUpdate
	current := s.balance
	s.mu.Unlock()

	for _, fn := range hooks {
		fn(current)
	}
	return nil
}

// Set overrides the cached credit count locally and notifies OnUpdate
// listeners. It is replaced by the next refresh.
func (s *Store) Set(credits int) {
	s.mu.Lock()
	s.balance.Credits = credits
	hooks := s.onUpdate
	current := s.balance
	s.mu.Unlock()

	for _, fn := range hooks {
		fn(current)
	}
}

// Prime seeds the store with a previously known balance without marking
// any refresh as applied.
func (s *Store) Prime(balance model.CreditBalance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return
	}
	s.balance = balance
	s.loaded = true
}
