package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shashiranjanraj/supermart/config"
	"github.com/shashiranjanraj/supermart/pkg/crypt"
)

// GithubProfile is the subset of the GitHub user payload we keep.
type GithubProfile struct {
	ID       int64  `json:"id"`
	Login    string `json:"login"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar_url"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// StatePayload travels through the OAuth redirect encrypted, so the
// callback can verify the round trip was started by this server.
type StatePayload struct {
	Nonce    string `json:"nonce"`
	IssuedAt int64  `json:"iat"`
	Redirect string `json:"redirect,omitempty"`
}

// stateMaxAge bounds how long an authorize redirect stays valid.
const stateMaxAge = 10 * time.Minute

type GithubClient struct {
	http *http.Client

	// Overridable for tests.
	AuthorizeBase string
	TokenURL      string
	APIBase       string
}

func NewGithubClient() *GithubClient {
	return &GithubClient{
		http:          &http.Client{Timeout: 10 * time.Second},
		AuthorizeBase: "https://github.com/login/oauth/authorize",
		TokenURL:      "https://github.com/login/oauth/access_token",
		APIBase:       "https://api.github.com",
	}
}

// AuthorizeURL builds the GitHub authorize redirect with an encrypted state.
func (g *GithubClient) AuthorizeURL(state StatePayload) (string, error) {
	if state.IssuedAt == 0 {
		state.IssuedAt = time.Now().Unix()
	}
	enc, err := crypt.EncryptJSON(state)
	if err != nil {
		return "", fmt.Errorf("encrypt oauth state: %w", err)
	}

	q := url.Values{}
	q.Set("client_id", config.GithubClientID())
	q.Set("redirect_uri", config.BaseURL()+"/auth/github/callback")
	q.Set("scope", "user:email")
	q.Set("state", enc)
	return g.AuthorizeBase + "?" + q.Encode(), nil
}

// VerifyState decrypts and age-checks the state returned by GitHub.
func (g *GithubClient) VerifyState(enc string) (*StatePayload, error) {
	var state StatePayload
	if err := crypt.DecryptJSON(enc, &state); err != nil {
		return nil, fmt.Errorf("decode oauth state: %w", err)
	}
	issued := time.Unix(state.IssuedAt, 0)
	if time.Since(issued) > stateMaxAge {
		return nil, fmt.Errorf("oauth state expired")
	}
	return &state, nil
}

// Exchange trades the callback code for an access token.
func (g *GithubClient) Exchange(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("client_id", config.GithubClientID())
	form.Set("client_secret", config.GithubClientSecret())
	form.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token exchange: github returned %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		Error       string `json:"error"`
		ErrorDesc   string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("token exchange: decode response: %w", err)
	}
	if payload.Error != "" {
		return "", fmt.Errorf("token exchange: %s", payload.Error)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("token exchange: empty access token")
	}
	return payload.AccessToken, nil
}

// FetchProfile loads the authenticated user, filling in a primary email
// from /user/emails when the profile email is private.
func (g *GithubClient) FetchProfile(ctx context.Context, token string) (*GithubProfile, error) {
	var profile GithubProfile
	if err := g.apiGet(ctx, token, "/user", &profile); err != nil {
		return nil, err
	}
	if profile.ID == 0 {
		return nil, fmt.Errorf("github profile: missing id")
	}

	if profile.Email == "" {
		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		if err := g.apiGet(ctx, token, "/user/emails", &emails); err == nil {
			for _, e := range emails {
				if e.Primary {
					profile.Email = e.Email
					break
				}
			}
			if profile.Email == "" && len(emails) > 0 {
				profile.Email = emails[0].Email
			}
		}
	}
	return &profile, nil
}

func (g *GithubClient) apiGet(ctx context.Context, token, path string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.APIBase+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := g.http.Do(req)
	if err != nil {
		return fmt.Errorf("github api %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github api %s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(dest)
}

// GithubIDString normalizes the numeric GitHub id for storage.
func GithubIDString(id int64) string { return strconv.FormatInt(id, 10) }
