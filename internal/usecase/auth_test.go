package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercadillo/internal/api"
	"mercadillo/internal/cache"
	"mercadillo/internal/session"
	"mercadillo/internal/storage"
)

func newAuthFixture(t *testing.T, handler http.Handler) (*Auth, *session.Store, *cache.Store, func()) {
	t.Helper()
	server := httptest.NewServer(handler)
	store := cache.New(time.Hour, time.Hour)
	sess := session.NewStore(storage.NewMemStore(), store)
	client := api.NewClient(server.URL, sess, 0)
	auth := NewAuth(api.NewAuthAPI(client), sess)
	return auth, sess, store, server.Close
}

func TestLoginTopLevelTokens(t *testing.T) {
	auth, sess, _, done := newAuthFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/token/", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"access": "acc", "refresh": "ref"})
	}))
	defer done()

	require.NoError(t, auth.Login(context.Background(), "ana", "secret"))
	state := sess.State()
	assert.Equal(t, session.Authenticated, state.Phase)
	assert.Equal(t, "ana", state.User.Username)
	assert.Equal(t, "acc", state.Tokens.Access)
}

func TestLoginNestedTokens(t *testing.T) {
	auth, sess, _, done := newAuthFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"tokens": map[string]string{"access": "acc-n", "refresh": "ref-n"},
			"user":   map[string]string{"id": "u1", "email": "ana@example.com"},
		})
	}))
	defer done()

	require.NoError(t, auth.Login(context.Background(), "ana", "secret"))
	state := sess.State()
	assert.Equal(t, "acc-n", state.Tokens.Access)
	assert.Equal(t, "u1", state.User.ID)
	assert.Equal(t, "ana@example.com", state.User.Email)
}

func TestLoginWithoutTokensFails(t *testing.T) {
	auth, sess, _, done := newAuthFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	}))
	defer done()

	err := auth.Login(context.Background(), "ana", "secret")
	require.Error(t, err)
	assert.False(t, sess.IsAuthenticated())
}

func TestLoginBadCredentials(t *testing.T) {
	auth, sess, _, done := newAuthFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "No active account found with the given credentials"}`))
	}))
	defer done()

	err := auth.Login(context.Background(), "ana", "wrong")
	require.Error(t, err)
	assert.False(t, sess.IsAuthenticated())
}

func TestRegisterLogsStraightIn(t *testing.T) {
	auth, sess, _, done := newAuthFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/users/register/":
			w.WriteHeader(http.StatusCreated)
		case "/api/users/token/":
			json.NewEncoder(w).Encode(map[string]string{"access": "acc", "refresh": "ref"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer done()

	err := auth.Register(context.Background(), api.RegisterInput{
		Username: "ana", Email: "ana@example.com", Password: "secret", Password2: "secret",
	})
	require.NoError(t, err)
	assert.True(t, sess.IsAuthenticated())
}

func TestLogoutDropsCachedData(t *testing.T) {
	auth, sess, store, done := newAuthFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access": "acc", "refresh": "ref"})
	}))
	defer done()

	require.NoError(t, auth.Login(context.Background(), "ana", "secret"))
	store.Put(cache.NewKey("orders", nil), "private data")

	require.NoError(t, auth.Logout())
	assert.False(t, sess.IsAuthenticated())
	_, ok := store.Peek(cache.NewKey("orders", nil))
	assert.False(t, ok, "logout must clear the cache namespace")
}
