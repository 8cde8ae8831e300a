// Package session owns the client's identity and bearer credential: login,
// registration, logout, password recovery, and the snapshot persisted across
// restarts.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/noverdy/ispcli/internal/client/models"
)

const (
	genericLoginError    = "Login failed"
	genericRegisterError = "Registration failed"
	genericRecoveryError = "Password recovery failed"
	genericResetError    = "Password reset failed"
)

// Store holds the current session state. All methods are safe for concurrent
// use; continuations of in-flight requests may observe the credential being
// cleared by a logout and must treat that as a terminal condition.
//
// Invariant: the credential is non-empty exactly when the identity is set.
type Store struct {
	mu     sync.Mutex
	apiURL string
	client *http.Client

	snapshotPath string

	user      *models.User
	token     string
	isLoading bool
	lastError string
}

// NewStore creates a session store bound to the given API base URL and
// restores the persisted snapshot, if any, so the credential survives
// process restarts. snapshotPath may be empty to disable persistence.
func NewStore(apiBaseURL string, client *http.Client, snapshotPath string) *Store {
	if client == nil {
		client = http.DefaultClient
	}
	s := &Store{apiURL: apiBaseURL, client: client, snapshotPath: snapshotPath}
	s.restore()
	return s
}

// User returns a copy of the authenticated profile, or nil when logged out.
func (s *Store) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token returns the bearer credential, or "" when unauthenticated.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// IsAuthenticated reports whether a credential is installed.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLoading
}

func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// ClearError clears the last error message only.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = ""
}

// RecordError stores a failure message for display without touching the
// identity or credential. Used by the request gateway for transport errors.
func (s *Store) RecordError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = msg
}

// Logout clears identity, credential and last error unconditionally. It is
// idempotent and performs no network call.
func (s *Store) Logout() {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.lastError = ""
	s.mu.Unlock()
	s.save()
}

func (s *Store) beginAttempt() {
	s.mu.Lock()
	s.isLoading = true
	s.lastError = ""
	s.mu.Unlock()
}

func (s *Store) failAttempt(msg, fallback string) bool {
	if msg == "" {
		msg = fallback
	}
	s.mu.Lock()
	s.isLoading = false
	s.lastError = msg
	s.mu.Unlock()
	return false
}

// Login authenticates against the portal. On success the identity and
// credential from the response are installed atomically and true is
// returned. Every failure mode resolves to false with LastError set; the
// identity and credential are left untouched.
func (s *Store) Login(ctx context.Context, email, password string) bool {
	s.beginAttempt()

	body := map[string]string{"email": email, "password": password}

	var data struct {
		Token string       `json:"token"`
		User  *models.User `json:"user"`
		Error string       `json:"error"`
	}
	ok, err := s.postJSON(ctx, "/auth/login", body, &data)
	if err != nil {
		return s.failAttempt(err.Error(), genericLoginError)
	}
	if !ok {
		return s.failAttempt(data.Error, genericLoginError)
	}

	s.mu.Lock()
	s.user = data.User
	s.token = data.Token
	s.isLoading = false
	s.mu.Unlock()
	s.save()
	return true
}

// Register creates a new account. Success never installs a credential;
// the caller is expected to proceed to login.
func (s *Store) Register(ctx context.Context, name, email, password string) bool {
	s.beginAttempt()

	body := map[string]string{"name": name, "email": email, "password": password}

	var data struct {
		Message string `json:"message"`
	}
	ok, err := s.postJSON(ctx, "/auth/register", body, &data)
	if err != nil {
		return s.failAttempt(err.Error(), genericRegisterError)
	}
	if !ok {
		return s.failAttempt(data.Message, genericRegisterError)
	}

	s.mu.Lock()
	s.isLoading = false
	s.mu.Unlock()
	return true
}

// ForgotPassword asks the server to send a reset token to the given email.
func (s *Store) ForgotPassword(ctx context.Context, email string) bool {
	s.beginAttempt()

	var data struct {
		Error string `json:"error"`
	}
	ok, err := s.postJSON(ctx, "/auth/forgot-password", map[string]string{"email": email}, &data)
	if err != nil {
		return s.failAttempt(err.Error(), genericRecoveryError)
	}
	if !ok {
		return s.failAttempt(data.Error, genericRecoveryError)
	}

	s.mu.Lock()
	s.isLoading = false
	s.mu.Unlock()
	return true
}

// ResetPassword exchanges a reset token for a new password.
func (s *Store) ResetPassword(ctx context.Context, resetToken, newPassword string) bool {
	s.beginAttempt()

	body := map[string]string{"reset_token": resetToken, "new_password": newPassword}

	var data struct {
		Error string `json:"error"`
	}
	ok, err := s.postJSON(ctx, "/auth/reset-password", body, &data)
	if err != nil {
		return s.failAttempt(err.Error(), genericResetError)
	}
	if !ok {
		return s.failAttempt(data.Error, genericResetError)
	}

	s.mu.Lock()
	s.isLoading = false
	s.mu.Unlock()
	return true
}

// postJSON issues an unauthenticated POST and decodes the response body into
// out. The bool result reports whether the status was 2xx. Transport and
// decoding failures are returned as errors; business-level failures are left
// in out for the caller to interpret.
func (s *Store) postJSON(ctx context.Context, path string, in, out any) (bool, error) {
	b, err := json.Marshal(in)
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL+path, bytes.NewReader(b))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	// Error bodies carry the display message, so decode regardless of status.
	// An empty body is tolerated.
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}

	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}
