package session

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"

	"github.com/Duc13022005/Web-Shop/pkg/logger"
)

// User is the authenticated identity returned by the backend.
type User struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name"`
	Role     string  `json:"role"`
}

// State is the snapshot observers receive on every transition. IsLoading
// distinguishes "not checked yet" from a confirmed logged-out state.
type State struct {
	User            *User
	IsAuthenticated bool
	IsLoading       bool
}

// WhoAmI resolves the identity behind the persisted token against the
// backend's who-am-I endpoint.
type WhoAmI func(ctx context.Context) (*User, error)

// Store is the single authoritative representation of who is logged in.
// Mutation happens only inside its own operations; consumers share it by
// reference and observe transitions through Subscribe.
type Store struct {
	tokens TokenStore
	whoami WhoAmI
	logg   *logger.Logger

	mu        sync.Mutex
	user      *User
	loading   bool
	observers map[int]func(State)
	nextID    int

	group singleflight.Group
}

func NewStore(tokens TokenStore, whoami WhoAmI, logg *logger.Logger) *Store {
	return &Store{
		tokens:    tokens,
		whoami:    whoami,
		logg:      logg,
		loading:   true,
		observers: map[int]func(State){},
	}
}

// Login persists the token and sets the identity supplied by a successful
// login response. No network call is made and the operation never fails;
// a persist error is logged and the in-memory session still opens.
func (s *Store) Login(token string, user User) {
	if err := s.tokens.Save(token); err != nil {
		s.logg.Error(context.Background(), "failed to persist token", err)
	}
	s.mu.Lock()
	u := user
	s.user = &u
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

// Logout erases the persisted token and clears the identity. No network
// call is made and the operation never fails.
func (s *Store) Logout() {
	s.clear()
}

// Invalidate performs the same clearing as Logout. It is the policy end
// of the transport's 401 hook.
func (s *Store) Invalidate() {
	s.clear()
}

func (s *Store) clear() {
	if err := s.tokens.Clear(); err != nil {
		s.logg.Error(context.Background(), "failed to clear token", err)
	}
	s.mu.Lock()
	s.user = nil
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

// CheckAuth re-derives the session from the persisted token. It never
// returns an error: any failure degrades to a confirmed logged-out state,
// and the loading flag always resolves. Concurrent calls share a single
// in-flight who-am-I request.
func (s *Store) CheckAuth(ctx context.Context) {
	_, _, _ = s.group.Do("check", func() (any, error) {
		s.checkAuth(ctx)
		return nil, nil
	})
}

func (s *Store) checkAuth(ctx context.Context) {
	token, err := s.tokens.Load()
	if err != nil {
		s.logg.Error(ctx, "failed to load token", err)
		token = ""
	}
	if token == "" {
		s.resolve(nil)
		return
	}

	// A token whose exp already passed cannot survive the who-am-I call;
	// skip the round trip and land in the same state a rejection would.
	if tokenExpired(token, time.Now()) {
		s.logg.Info(ctx, "stored token expired, clearing session")
		s.clearToken(ctx)
		s.resolve(nil)
		return
	}

	user, err := s.whoami(ctx)
	if err != nil {
		s.logg.Warn(ctx, "auth check failed, clearing session")
		s.clearToken(ctx)
		s.resolve(nil)
		return
	}
	s.resolve(user)
}

func (s *Store) clearToken(ctx context.Context) {
	if err := s.tokens.Clear(); err != nil {
		s.logg.Error(ctx, "failed to clear token", err)
	}
}

func (s *Store) resolve(user *User) {
	s.mu.Lock()
	s.user = user
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

// Token reads the persisted credential; empty when unauthenticated.
func (s *Store) Token() string {
	token, err := s.tokens.Load()
	if err != nil {
		return ""
	}
	return token
}

func (s *Store) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Store) snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := State{IsAuthenticated: s.user != nil, IsLoading: s.loading}
	if s.user != nil {
		u := *s.user
		state.User = &u
	}
	return state
}

// Subscribe registers an observer called synchronously on every state
// transition, including the initial loading resolution. The returned
// function unsubscribes.
func (s *Store) Subscribe(fn func(State)) func() {
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

func (s *Store) notify() {
	state := s.snapshot()
	s.mu.Lock()
	fns := make([]func(State), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(state)
	}
}

func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// Opaque tokens carry no readable expiry; let the backend decide.
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
