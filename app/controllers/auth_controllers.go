package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/supermart/app/services"
	"github.com/shashiranjanraj/supermart/pkg/auth"
	"github.com/shashiranjanraj/supermart/pkg/event"
	"github.com/shashiranjanraj/supermart/pkg/logger"
	"github.com/shashiranjanraj/supermart/pkg/middleware"
	"github.com/shashiranjanraj/supermart/pkg/response"
	"github.com/shashiranjanraj/supermart/pkg/session"
)

// Redirect targets for the two terminal states of the login flow.
const (
	loginSuccessPath = "/docs"
	loginFailurePath = "/"
)

type AuthController struct {
	github *services.GithubClient
	auth   *services.AuthService
}

func NewAuthController(github *services.GithubClient, authSvc *services.AuthService) *AuthController {
	return &AuthController{github: github, auth: authSvc}
}

// Hint answers GET /auth with a short service description.
func (c *AuthController) Hint(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]string{
		"service": "Supermart auth",
		"login":   "/auth/github",
		"logout":  "/auth/logout",
	})
}

// Login starts the OAuth flow: issues an encrypted state and redirects
// the client to the identity provider.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	target, err := c.github.AuthorizeURL(services.StatePayload{})
	if err != nil {
		logger.WithCtx(r.Context()).Error("build authorize url", "error", err)
		response.Internal(w)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// Callback is the provider redirect target. Any failure along the way
// lands the client back on the anonymous page; success establishes a
// session and redirects to the docs page.
func (c *AuthController) Callback(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	if denied := r.URL.Query().Get("error"); denied != "" {
		log.Warn("oauth denied", "reason", denied)
		http.Redirect(w, r, loginFailurePath, http.StatusFound)
		return
	}

	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		http.Redirect(w, r, loginFailurePath, http.StatusFound)
		return
	}
	if _, err := c.github.VerifyState(state); err != nil {
		log.Warn("oauth state rejected", "error", err)
		http.Redirect(w, r, loginFailurePath, http.StatusFound)
		return
	}

	token, err := c.github.Exchange(r.Context(), code)
	if err != nil {
		log.Error("oauth exchange failed", "error", err)
		http.Redirect(w, r, loginFailurePath, http.StatusFound)
		return
	}

	profile, err := c.github.FetchProfile(r.Context(), token)
	if err != nil {
		log.Error("oauth profile fetch failed", "error", err)
		http.Redirect(w, r, loginFailurePath, http.StatusFound)
		return
	}

	user, err := c.auth.FindOrCreate(r.Context(), profile)
	if err != nil {
		log.Error("find or create user failed", "error", err)
		http.Redirect(w, r, loginFailurePath, http.StatusFound)
		return
	}

	sess := session.FromCtx(r)
	sess.Set(session.UserKey, user.ID.Hex())
	if err := sess.Save(w); err != nil {
		log.Error("session save failed", "error", err)
		http.Redirect(w, r, loginFailurePath, http.StatusFound)
		return
	}

	event.Fire("user.logged_in", user.ID.Hex())
	http.Redirect(w, r, loginSuccessPath, http.StatusFound)
}

// Logout destroys the session.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.FromCtx(r)
	if uid, ok := sess.GetString(session.UserKey); ok && uid != "" {
		event.Fire("user.logged_out", uid)
	}
	if err := sess.Destroy(w); err != nil {
		logger.WithCtx(r.Context()).Error("session destroy failed", "error", err)
		response.Internal(w)
		return
	}
	response.Message(w, http.StatusOK, "Logged out")
}

// Token mints a bearer token bound to the authenticated caller, so API
// clients can skip the cookie.
func (c *AuthController) Token(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	token, err := auth.GenerateToken(uid)
	if err != nil {
		logger.WithCtx(r.Context()).Error("token mint failed", "error", err)
		response.Internal(w)
		return
	}
	response.Success(w, map[string]string{"token": token})
}
