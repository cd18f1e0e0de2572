package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"garrison/internal/access"
	"garrison/internal/utils/logger"
)

// SessionUser is the authenticated actor as returned by the auth endpoint.
type SessionUser struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Role   access.Role `json:"role"`
	BaseID string      `json:"base_id"`
}

// Session pairs the actor with their bearer token. A session is valid only
// when both halves are present and the role is one the policy knows.
type Session struct {
	User  SessionUser `json:"user"`
	Token string      `json:"token"`
}

func (s *Session) valid() bool {
	return s != nil && s.Token != "" && access.IsValidRole(s.User.Role)
}

// SessionStore owns the current session, persists it to a credential file
// and notifies subscribers synchronously on every change. Safe for
// concurrent use.
type SessionStore struct {
	baseURL string
	path    string
	httpc   *http.Client
	logger  *logger.Logger

	mu      sync.RWMutex
	session *Session
	subs    []func(*Session)
}

func NewSessionStore(baseURL, credentialPath string, httpc *http.Client) *SessionStore {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	return &SessionStore{
		baseURL: baseURL,
		path:    credentialPath,
		httpc:   httpc,
		logger:  logger.New("session"),
	}
}

// Current returns the active session, or nil when logged out.
func (s *SessionStore) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Token returns the bearer token of the active session, or "".
func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return ""
	}
	return s.session.Token
}

// Role returns the active role, or the empty role when logged out.
func (s *SessionStore) Role() access.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return ""
	}
	return s.session.User.Role
}

// Subscribe registers fn to be called synchronously whenever the session
// changes. fn receives nil on logout.
func (s *SessionStore) Subscribe(fn func(*Session)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Login authenticates against the backend and installs the session. On
// failure the store is left unchanged.
func (s *SessionStore) Login(ctx context.Context, email, password string) (*Session, error) {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return nil, &AuthError{Reason: "network", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpc.Do(req)
	if err != nil {
		return nil, &AuthError{Reason: "network", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &AuthError{Reason: "invalid_credentials"}
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, &AuthError{Reason: "network", Err: err}
	}
	if !session.valid() {
		return nil, &AuthError{Reason: "invalid_credentials"}
	}

	s.install(&session)
	return &session, nil
}

// Logout clears the session and removes the credential file. It never
// fails; a missing or unwritable file is ignored.
func (s *SessionStore) Logout() {
	s.install(nil)
}

// Restore loads a previously persisted session from the credential file.
// A missing, malformed or partial file yields a logged-out store without
// error.
func (s *SessionStore) Restore() *Session {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		s.logger.Warn("Discarding malformed credential file %s", s.path)
		return nil
	}
	if !session.valid() {
		return nil
	}
	s.install(&session)
	return &session
}

func (s *SessionStore) install(session *Session) {
	s.mu.Lock()
	s.session = session
	subs := make([]func(*Session), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	if session == nil {
		os.Remove(s.path)
	} else {
		s.persist(session)
	}
	for _, fn := range subs {
		fn(session)
	}
}

func (s *SessionStore) persist(session *Session) {
	data, err := json.Marshal(session)
	if err != nil {
		return
	}
	if dir := filepath.Dir(s.path); dir != "." {
		os.MkdirAll(dir, 0o700)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		s.logger.Warn("Could not persist session to %s: %v", s.path, err)
	}
}
