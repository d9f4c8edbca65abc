package badge

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/Duc13022005/Web-Shop/internal/session"
	"github.com/Duc13022005/Web-Shop/pkg/logger"
)

// CartCounter reports the backend's total item count for the current cart.
type CartCounter interface {
	TotalItems(ctx context.Context) (int, error)
}

// AuthState is the slice of the session store the badge depends on.
type AuthState interface {
	IsAuthenticated() bool
	Subscribe(fn func(session.State)) func()
}

// Store mirrors the authenticated user's cart item count. It re-derives
// the value from the backend on every authentication transition and on
// explicit Refresh calls after cart mutations; it never caches across
// runs and never surfaces an error to observers.
type Store struct {
	auth  AuthState
	carts CartCounter
	logg  *logger.Logger

	mu        sync.Mutex
	count     int
	applied   uint64
	observers map[int]func(int)
	nextID    int

	seq         atomic.Uint64
	unsubscribe func()
}

func NewStore(auth AuthState, carts CartCounter, logg *logger.Logger) *Store {
	s := &Store{
		auth:      auth,
		carts:     carts,
		logg:      logg,
		observers: map[int]func(int){},
	}
	s.unsubscribe = auth.Subscribe(func(session.State) {
		s.Refresh(context.Background())
	})
	return s
}

// Refresh recomputes the count. Unauthenticated sessions reset to zero
// without a network call. Fetch failures keep the last known value.
// Results that resolve after a newer refresh has applied are discarded.
func (s *Store) Refresh(ctx context.Context) {
	seq := s.seq.Add(1)

	if !s.auth.IsAuthenticated() {
		s.apply(seq, 0)
		return
	}

	total, err := s.carts.TotalItems(ctx)
	if err != nil {
		s.logg.Warn(ctx, "cart count refresh failed, keeping last value")
		return
	}
	s.apply(seq, total)
}

func (s *Store) apply(seq uint64, count int) {
	s.mu.Lock()
	if seq < s.applied {
		s.mu.Unlock()
		return
	}
	s.applied = seq
	changed := s.count != count
	s.count = count
	fns := make([]func(int), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range fns {
		fn(count)
	}
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Subscribe registers an observer for count changes; the returned
// function unsubscribes.
func (s *Store) Subscribe(fn func(int)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// Close detaches the store from session notifications.
func (s *Store) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}
