package services_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/supermart/app/repositories"
	"github.com/shashiranjanraj/supermart/app/services"
)

// fakeGithub stands in for both the token and API endpoints.
func fakeGithub(t *testing.T) (*services.GithubClient, *httptest.Server) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.FormValue("code") != "good-code" {
			json.NewEncoder(w).Encode(map[string]string{"error": "bad_verification_code"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"access_token": "gho_test", "token_type": "bearer"})
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer gho_test", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":         int64(42),
			"login":      "octocat",
			"avatar_url": "https://example.test/octocat.png",
		})
	})
	mux.HandleFunc("/user/emails", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"email": "octo@example.test", "primary": true, "verified": true},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	g := services.NewGithubClient()
	g.TokenURL = srv.URL + "/login/oauth/access_token"
	g.APIBase = srv.URL
	g.AuthorizeBase = srv.URL + "/login/oauth/authorize"
	return g, srv
}

func TestExchangeAndFetchProfile(t *testing.T) {
	g, _ := fakeGithub(t)
	ctx := context.Background()

	token, err := g.Exchange(ctx, "good-code")
	require.NoError(t, err)
	assert.Equal(t, "gho_test", token)

	profile, err := g.FetchProfile(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), profile.ID)
	assert.Equal(t, "octocat", profile.Login)
	assert.Equal(t, "octo@example.test", profile.Email, "private email filled from /user/emails")
}

func TestExchangeRejectsBadCode(t *testing.T) {
	g, _ := fakeGithub(t)

	_, err := g.Exchange(context.Background(), "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad_verification_code")
}

func TestAuthorizeURLCarriesVerifiableState(t *testing.T) {
	g, _ := fakeGithub(t)

	raw, err := g.AuthorizeURL(services.StatePayload{Nonce: "n-1"})
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "user:email", u.Query().Get("scope"))

	state, err := g.VerifyState(u.Query().Get("state"))
	require.NoError(t, err)
	assert.Equal(t, "n-1", state.Nonce)
}

func TestVerifyStateRejectsTamperedAndStale(t *testing.T) {
	g, _ := fakeGithub(t)

	_, err := g.VerifyState("not-an-encrypted-state")
	require.Error(t, err)

	raw, err := g.AuthorizeURL(services.StatePayload{
		Nonce:    "old",
		IssuedAt: time.Now().Add(-time.Hour).Unix(),
	})
	require.NoError(t, err)

	u, _ := url.Parse(raw)
	_, err = g.VerifyState(u.Query().Get("state"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestFindOrCreateIsLazyAndIdempotent(t *testing.T) {
	users := repositories.NewMemoryUserRepository()
	svc := services.NewAuthService(users)
	ctx := context.Background()

	profile := &services.GithubProfile{
		ID:     42,
		Login:  "octocat",
		Email:  "octo@example.test",
		Avatar: "https://example.test/octocat.png",
	}

	first, err := svc.FindOrCreate(ctx, profile)
	require.NoError(t, err)
	assert.Equal(t, "42", first.GithubID)
	assert.Equal(t, "octocat", first.Username)
	assert.False(t, first.ID.IsZero())

	second, err := svc.FindOrCreate(ctx, profile)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "second login reuses the existing user")
}
