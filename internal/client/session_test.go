package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func credentialPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "session.json")
}

func loginServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode login body: %v", err)
		}
		if req["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"user": map[string]string{
				"id":    "u-1",
				"name":  "Reyes",
				"email": req["email"],
				"role":  "commander",
			},
			"token": "tok-123",
		})
	}))
}

func TestLoginInstallsAndPersistsSession(t *testing.T) {
	srv := loginServer(t)
	defer srv.Close()

	path := credentialPath(t)
	store := NewSessionStore(srv.URL, path, srv.Client())

	var notified *Session
	store.Subscribe(func(s *Session) { notified = s })

	session, err := store.Login(context.Background(), "reyes@example.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.Token != "tok-123" {
		t.Fatalf("expected token tok-123, got %q", session.Token)
	}
	if session.User.Role != "commander" {
		t.Fatalf("expected commander role, got %q", session.User.Role)
	}
	if notified == nil || notified.Token != "tok-123" {
		t.Fatal("subscriber was not notified with the new session")
	}

	// A fresh store should restore the same session from disk.
	restored := NewSessionStore(srv.URL, path, srv.Client()).Restore()
	if restored == nil || restored.Token != "tok-123" || restored.User.Email != "reyes@example.com" {
		t.Fatalf("restore returned %+v", restored)
	}
}

func TestLoginRejectedLeavesStoreUnchanged(t *testing.T) {
	srv := loginServer(t)
	defer srv.Close()

	store := NewSessionStore(srv.URL, credentialPath(t), srv.Client())
	_, err := store.Login(context.Background(), "reyes@example.com", "wrong")

	var authErr *AuthError
	if !errors.As(err, &authErr) || authErr.Reason != "invalid_credentials" {
		t.Fatalf("expected invalid_credentials AuthError, got %v", err)
	}
	if store.Current() != nil {
		t.Fatal("rejected login must not install a session")
	}
}

func TestLoginNetworkFailure(t *testing.T) {
	// Server is closed before the call, so the dial fails.
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	store := NewSessionStore(srv.URL, credentialPath(t), nil)
	_, err := store.Login(context.Background(), "reyes@example.com", "secret")

	var authErr *AuthError
	if !errors.As(err, &authErr) || authErr.Reason != "network" {
		t.Fatalf("expected network AuthError, got %v", err)
	}
}

func TestRestoreDiscardsMalformedAndPartialFiles(t *testing.T) {
	cases := map[string]string{
		"malformed":    `{not json`,
		"missingToken": `{"user":{"id":"u-1","role":"admin"}}`,
		"unknownRole":  `{"user":{"id":"u-1","role":"superuser"},"token":"tok"}`,
	}
	for name, contents := range cases {
		t.Run(name, func(t *testing.T) {
			path := credentialPath(t)
			if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
				t.Fatal(err)
			}
			store := NewSessionStore("http://localhost", path, nil)
			if store.Restore() != nil || store.Current() != nil {
				t.Fatal("expected a logged-out store")
			}
		})
	}
}

func TestLogoutClearsFileAndNotifies(t *testing.T) {
	srv := loginServer(t)
	defer srv.Close()

	path := credentialPath(t)
	store := NewSessionStore(srv.URL, path, srv.Client())
	if _, err := store.Login(context.Background(), "reyes@example.com", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}

	notified := false
	store.Subscribe(func(s *Session) {
		notified = true
		if s != nil {
			t.Fatal("logout must notify with nil")
		}
	})

	store.Logout()
	if store.Current() != nil || store.Token() != "" {
		t.Fatal("session survived logout")
	}
	if !notified {
		t.Fatal("subscriber was not notified")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("credential file survived logout")
	}
}
