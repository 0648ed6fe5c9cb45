package controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/supermart/app/repositories"
	"github.com/shashiranjanraj/supermart/app/services"
	"github.com/shashiranjanraj/supermart/internal/kernel"
	"github.com/shashiranjanraj/supermart/pkg/cache"
	"github.com/shashiranjanraj/supermart/pkg/event"
	"github.com/shashiranjanraj/supermart/pkg/router"
)

func newAuthApp(t *testing.T) (*router.Router, *repositories.MemoryUserRepository) {
	t.Helper()
	event.Flush()
	cache.Flush()

	mux := http.NewServeMux()
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access_token": "gho_test"})
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":    int64(7),
			"login": "octocat",
			"email": "octo@example.test",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	github := services.NewGithubClient()
	github.AuthorizeBase = srv.URL + "/login/oauth/authorize"
	github.TokenURL = srv.URL + "/login/oauth/access_token"
	github.APIBase = srv.URL

	users := repositories.NewMemoryUserRepository()
	r := kernel.Build(kernel.Repos{
		Products:   repositories.NewMemoryProductRepository(),
		Categories: repositories.NewMemoryCategoryRepository(),
		Users:      users,
	}, github)
	return r, users
}

func TestLoginRedirectsToProvider(t *testing.T) {
	r, _ := newAuthApp(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/github", nil))

	require.Equal(t, http.StatusFound, rec.Code)

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Contains(t, loc.Path, "/login/oauth/authorize")
	assert.NotEmpty(t, loc.Query().Get("state"))
	assert.Contains(t, loc.Query().Get("redirect_uri"), "/auth/github/callback")
}

func TestCallbackEstablishesSessionAndCreatesUser(t *testing.T) {
	r, users := newAuthApp(t)

	// Start the flow to get a valid state.
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/github", nil))
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	state := loc.Query().Get("state")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/auth/github/callback?code=good&state="+url.QueryEscape(state), nil))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/docs", rec.Header().Get("Location"))

	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "supermart_session" {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie, "callback must set the session cookie")

	user, err := users.FindByGithubID(nil, "7")
	require.NoError(t, err, "first login creates the user")
	assert.Equal(t, "octocat", user.Username)

	// The session now passes the auth gate.
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.AddCookie(sessionCookie)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCallbackDenialRedirectsToLanding(t *testing.T) {
	r, users := newAuthApp(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/auth/github/callback?error=access_denied", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	_, err := users.FindByGithubID(nil, "7")
	assert.Error(t, err, "no user created on denial")
}

func TestCallbackRejectsForgedState(t *testing.T) {
	r, _ := newAuthApp(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/auth/github/callback?code=good&state=forged", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestLogoutDestroysSession(t *testing.T) {
	r, _ := newAuthApp(t)

	// Log in first.
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/github", nil))
	loc, _ := url.Parse(rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/auth/github/callback?code=good&state="+url.QueryEscape(loc.Query().Get("state")), nil))
	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "supermart_session" {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie)

	req := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	req.AddCookie(sessionCookie)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Logged out")

	// The old session no longer passes the gate.
	req = httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.AddCookie(sessionCookie)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
