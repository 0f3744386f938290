package main

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func hashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

// --- OAuth helpers (GitHub) ---
func (a *api) githubEnabled() bool {
	return a.cfg.GitHub.OAuthClientID != "" && a.cfg.GitHub.OAuthClientSecret != ""
}

func (a *api) setStateCookie(w http.ResponseWriter, state string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   a.cfg.Session.Secure,
		SameSite: a.sameSite(),
		Expires:  time.Now().Add(5 * time.Minute),
		MaxAge:   300,
	})
}

func (a *api) readStateCookie(r *http.Request) (string, error) {
	c, err := r.Cookie("oauth_state")
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

// Auth handlers
func (a *api) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct{ Email, Password, Name string }
	if err := readJSON(w, r, &req); err != nil || strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Password) == "" {
		writeError(w, 400, "invalid payload")
		return
	}
	if len(req.Password) < 6 {
		writeError(w, 400, "password too short")
		return
	}
	hash, err := hashPassword(req.Password)
	if err != nil {
		a.log.Error("bcrypt", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	u, err := a.store.CreateUser(r.Context(), req.Email, hash, strings.TrimSpace(req.Name))
	if err != nil {
		a.log.Error("register", "err", err)
		writeError(w, 400, "cannot create user")
		return
	}
	token, exp, err := a.store.CreateSession(r.Context(), u.ID, a.cfg.Session.TTL)
	if err != nil {
		a.log.Error("create session", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	a.setSessionCookie(w, token, exp)
	writeJSON(w, 201, map[string]any{"ok": true, "user": u})
}

func (a *api) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct{ Email, Password string }
	if err := readJSON(w, r, &req); err != nil || req.Email == "" || req.Password == "" {
		writeError(w, 400, "invalid payload")
		return
	}
	u, err := a.store.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, 401, "invalid credentials")
		return
	}
	token, exp, err := a.store.CreateSession(r.Context(), u.ID, a.cfg.Session.TTL)
	if err != nil {
		a.log.Error("create session", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	a.setSessionCookie(w, token, exp)
	writeJSON(w, 200, map[string]any{"ok": true, "user": u})
}

func (a *api) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(a.cfg.Session.CookieName); err == nil && c.Value != "" {
		_ = a.store.DeleteSession(r.Context(), c.Value)
	}
	a.clearSessionCookie(w)
	writeJSON(w, 200, map[string]any{"ok": true})
}

func (a *api) handleMe(w http.ResponseWriter, r *http.Request) {
	u, err := a.currentUser(r)
	if err != nil {
		// For anonymous users return 200 with user: null to avoid noisy 401s on public pages
		writeJSON(w, 200, map[string]any{"user": nil})
		return
	}
	writeJSON(w, 200, map[string]any{"user": u})
}

// Providers list for UI
func (a *api) handleAuthProviders(w http.ResponseWriter, r *http.Request) {
	providers := []map[string]string{}
	if a.githubEnabled() {
		providers = append(providers, map[string]string{"id": "github", "name": "GitHub"})
	}
	writeJSON(w, 200, map[string]any{"providers": providers})
}

// GET /api/auth/oauth/github/start
func (a *api) handleGithubStart(w http.ResponseWriter, r *http.Request) {
	if !a.githubEnabled() {
		writeError(w, 404, "provider not configured")
		return
	}
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	state := base64.RawURLEncoding.EncodeToString(b)
	a.setStateCookie(w, state)
	redirectURI := a.cfg.GitHub.OAuthRedirectURL
	if redirectURI == "" {
		// best-effort default for local dev
		redirectURI = "http://" + r.Host + "/api/auth/oauth/github/callback"
	}
	u, _ := url.Parse("https://github.com/login/oauth/authorize")
	q := u.Query()
	q.Set("client_id", a.cfg.GitHub.OAuthClientID)
	q.Set("redirect_uri", redirectURI)
	q.Set("scope", "read:user user:email")
	q.Set("state", state)
	u.RawQuery = q.Encode()
	http.Redirect(w, r, u.String(), http.StatusFound)
}

// GET /api/auth/oauth/github/callback
func (a *api) handleGithubCallback(w http.ResponseWriter, r *http.Request) {
	if !a.githubEnabled() {
		writeError(w, 404, "provider not configured")
		return
	}
	qs := r.URL.Query()
	code := qs.Get("code")
	st := qs.Get("state")
	if code == "" || st == "" {
		writeError(w, 400, "bad oauth response")
		return
	}
	if have, err := a.readStateCookie(r); err != nil || have == "" || have != st {
		writeError(w, 400, "state mismatch")
		return
	}
	token, err := a.githubExchangeToken(r.Context(), code)
	if err != nil {
		a.log.Error("oauth token", "err", err)
		writeError(w, 502, "oauth error")
		return
	}
	gh, email, err := a.githubFetchUser(r.Context(), token)
	if err != nil {
		a.log.Error("oauth user", "err", err)
		writeError(w, 502, "oauth error")
		return
	}
	if email == "" { // fallback to noreply if email hidden
		email = "github-" + gh.ID + "@users.noreply.github.com"
	}
	name := strings.TrimSpace(gh.Name)
	if name == "" {
		name = gh.Login
	}
	u, err := a.store.EnsureOAuthUser(r.Context(), "github", gh.ID, email, name, gh.AvatarURL)
	if err != nil {
		a.log.Error("ensure oauth user", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	tok, exp, err := a.store.CreateSession(r.Context(), u.ID, a.cfg.Session.TTL)
	if err != nil {
		a.log.Error("create session", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	a.setSessionCookie(w, tok, exp)
	// A pending ?share= entry survives the login round-trip via the state
	// redirect; land on the root and let the client resume.
	http.Redirect(w, r, "/", http.StatusFound)
}

type ghUser struct {
	ID        string
	Login     string
	Name      string
	AvatarURL string
}

func (a *api) githubExchangeToken(ctx context.Context, code string) (string, error) {
	data := url.Values{}
	data.Set("client_id", a.cfg.GitHub.OAuthClientID)
	data.Set("client_secret", a.cfg.GitHub.OAuthClientSecret)
	if a.cfg.GitHub.OAuthRedirectURL != "" {
		data.Set("redirect_uri", a.cfg.GitHub.OAuthRedirectURL)
	}
	data.Set("code", code)
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, "https://github.com/login/oauth/access_token", bytes.NewBufferString(data.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	var out struct {
		AccessToken string `json:"access_token"`
		Error       string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Error != "" || out.AccessToken == "" {
		return "", errors.New("oauth token error")
	}
	return out.AccessToken, nil
}

func (a *api) githubFetchUser(ctx context.Context, token string) (ghUser, string, error) {
	// /user
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, a.cfg.GitHub.APIBase+"/user", nil)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return ghUser{}, "", err
	}
	defer resp.Body.Close()
	var u struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return ghUser{}, "", err
	}
	gh := ghUser{ID: strconv.FormatInt(u.ID, 10), Login: u.Login, Name: u.Name, AvatarURL: u.AvatarURL}
	// /user/emails to get verified primary email
	req2, _ := http.NewRequestWithContext(ctx, http.MethodGet, a.cfg.GitHub.APIBase+"/user/emails", nil)
	req2.Header.Set("Accept", "application/vnd.github+json")
	req2.Header.Set("Authorization", "Bearer "+token)
	resp2, err := http.DefaultClient.Do(req2)
	if err != nil {
		return gh, "", nil
	}
	defer resp2.Body.Close()
	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := json.NewDecoder(resp2.Body).Decode(&emails); err != nil {
		return gh, "", nil
	}
	var chosen string
	for _, e := range emails {
		if e.Primary && e.Verified {
			chosen = e.Email
			break
		}
	}
	if chosen == "" {
		for _, e := range emails {
			if e.Verified {
				chosen = e.Email
				break
			}
		}
	}
	if chosen == "" && len(emails) > 0 {
		chosen = emails[0].Email
	}
	return gh, chosen, nil
}
