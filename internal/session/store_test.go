package session

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/Duc13022005/Web-Shop/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestLoginThenLogoutEndsUnauthenticatedWithNoToken(t *testing.T) {
	tokens := NewMemoryStore()
	store := NewStore(tokens, nil, testLogger())

	store.Login("tok-1", User{ID: 1, Email: "a@b.c", Role: "customer"})
	require.True(t, store.IsAuthenticated())
	require.Equal(t, "tok-1", store.Token())

	store.Logout()
	require.False(t, store.IsAuthenticated())
	require.Nil(t, store.User())
	persisted, err := tokens.Load()
	require.NoError(t, err)
	require.Empty(t, persisted)
}

func TestCheckAuthWithoutTokenResolvesWithoutNetworkCall(t *testing.T) {
	calls := 0
	whoami := func(ctx context.Context) (*User, error) {
		calls++
		return &User{ID: 1}, nil
	}
	store := NewStore(NewMemoryStore(), whoami, testLogger())
	require.True(t, store.IsLoading())

	store.CheckAuth(context.Background())

	require.Zero(t, calls)
	require.False(t, store.IsLoading())
	require.False(t, store.IsAuthenticated())
}

func TestCheckAuthSuccessSetsIdentity(t *testing.T) {
	tokens := NewMemoryStore()
	require.NoError(t, tokens.Save(signedToken(t, time.Now().Add(time.Hour))))
	whoami := func(ctx context.Context) (*User, error) {
		return &User{ID: 7, Email: "x@y.z", Role: "customer"}, nil
	}
	store := NewStore(tokens, whoami, testLogger())

	store.CheckAuth(context.Background())

	require.True(t, store.IsAuthenticated())
	require.False(t, store.IsLoading())
	require.Equal(t, int64(7), store.User().ID)
}

func TestCheckAuthRejectedTokenMatchesLogoutState(t *testing.T) {
	tokens := NewMemoryStore()
	require.NoError(t, tokens.Save(signedToken(t, time.Now().Add(time.Hour))))
	whoami := func(ctx context.Context) (*User, error) {
		return nil, errors.New("401 unauthorized")
	}
	store := NewStore(tokens, whoami, testLogger())

	store.CheckAuth(context.Background())

	require.False(t, store.IsAuthenticated())
	require.False(t, store.IsLoading())
	persisted, err := tokens.Load()
	require.NoError(t, err)
	require.Empty(t, persisted, "rejected token must be erased like an explicit logout")
}

func TestCheckAuthExpiredTokenSkipsNetworkCall(t *testing.T) {
	tokens := NewMemoryStore()
	require.NoError(t, tokens.Save(signedToken(t, time.Now().Add(-time.Hour))))
	calls := 0
	whoami := func(ctx context.Context) (*User, error) {
		calls++
		return &User{ID: 1}, nil
	}
	store := NewStore(tokens, whoami, testLogger())

	store.CheckAuth(context.Background())

	require.Zero(t, calls)
	require.False(t, store.IsAuthenticated())
	persisted, err := tokens.Load()
	require.NoError(t, err)
	require.Empty(t, persisted)
}

func TestCheckAuthOpaqueTokenStillAsksBackend(t *testing.T) {
	tokens := NewMemoryStore()
	require.NoError(t, tokens.Save("opaque-token"))
	calls := 0
	whoami := func(ctx context.Context) (*User, error) {
		calls++
		return &User{ID: 2}, nil
	}
	store := NewStore(tokens, whoami, testLogger())

	store.CheckAuth(context.Background())

	require.Equal(t, 1, calls)
	require.True(t, store.IsAuthenticated())
}

func TestConcurrentCheckAuthSharesOneRequest(t *testing.T) {
	tokens := NewMemoryStore()
	require.NoError(t, tokens.Save(signedToken(t, time.Now().Add(time.Hour))))

	var calls atomic.Int64
	started := make(chan struct{})
	release := make(chan struct{})
	whoami := func(ctx context.Context) (*User, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return &User{ID: 3}, nil
	}
	store := NewStore(tokens, whoami, testLogger())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		store.CheckAuth(context.Background())
	}()
	<-started

	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.CheckAuth(context.Background())
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	require.Equal(t, int64(1), calls.Load())
	require.True(t, store.IsAuthenticated())
}

func TestSubscribeObservesTransitionsUntilUnsubscribed(t *testing.T) {
	store := NewStore(NewMemoryStore(), nil, testLogger())

	var states []State
	unsubscribe := store.Subscribe(func(state State) {
		states = append(states, state)
	})

	store.Login("tok", User{ID: 1})
	store.Logout()
	unsubscribe()
	store.Login("tok-2", User{ID: 2})

	require.Len(t, states, 2)
	require.True(t, states[0].IsAuthenticated)
	require.False(t, states[0].IsLoading)
	require.False(t, states[1].IsAuthenticated)
}

func TestInvalidateMirrorsLogout(t *testing.T) {
	tokens := NewMemoryStore()
	store := NewStore(tokens, nil, testLogger())
	store.Login("tok", User{ID: 5})

	store.Invalidate()

	require.False(t, store.IsAuthenticated())
	persisted, err := tokens.Load()
	require.NoError(t, err)
	require.Empty(t, persisted)
}
