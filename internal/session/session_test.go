package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/mcarrillo/storefront/internal/api"
	"github.com/mcarrillo/storefront/internal/storage"
)

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "7",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func authServer(t *testing.T, access string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			var creds api.Credentials
			_ = json.NewDecoder(r.Body).Decode(&creds)
			if creds.Email != "ada@example.com" || creds.Password != "s3cret" {
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"message": "bad credentials"})
				return
			}
			_ = json.NewEncoder(w).Encode(api.AuthResponse{AccessToken: access, RefreshToken: "refresh-1"})
		case "/auth/profile":
			if r.Header.Get("Authorization") != "Bearer "+access {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(api.User{ID: 7, Email: "ada@example.com", Name: "Ada", Role: "customer"})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func newSession(t *testing.T, baseURL string, local *storage.Store) *Store {
	t.Helper()
	sess := Load(local)
	client, err := api.NewClient(baseURL, api.WithTokenSource(sess))
	if err != nil {
		t.Fatalf("api.NewClient returned error: %v", err)
	}
	sess.SetClient(client)
	return sess
}

func TestLogin_SetsTokensAndProfile(t *testing.T) {
	access := signedToken(t, time.Now().Add(15*time.Minute))
	server := authServer(t, access)
	sess := newSession(t, server.URL, nil)

	if err := sess.Login(context.Background(), "ada@example.com", "s3cret"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	snap := sess.Snapshot()
	if !snap.Authenticated || snap.User == nil || snap.User.Name != "Ada" {
		t.Fatalf("snapshot = %+v, want authenticated Ada", snap)
	}
	if sess.AccessToken() != access || sess.RefreshToken() != "refresh-1" {
		t.Fatal("tokens not stored")
	}
}

func TestLogin_BadCredentialsClearsSession(t *testing.T) {
	server := authServer(t, signedToken(t, time.Now().Add(time.Minute)))
	sess := newSession(t, server.URL, nil)

	err := sess.Login(context.Background(), "ada@example.com", "wrong")
	if err == nil {
		t.Fatal("Login succeeded with bad credentials")
	}
	if sess.Snapshot().Authenticated {
		t.Fatal("session authenticated after failed login")
	}
	if sess.AccessToken() != "" || sess.RefreshToken() != "" {
		t.Fatal("tokens kept after failed login")
	}
}

func TestSession_PersistsAcrossLoads(t *testing.T) {
	local, err := storage.Open(t.TempDir())
	if err != nil {
		t.Fatalf("storage.Open returned error: %v", err)
	}

	access := signedToken(t, time.Now().Add(15*time.Minute))
	server := authServer(t, access)
	sess := newSession(t, server.URL, local)
	if err := sess.Login(context.Background(), "ada@example.com", "s3cret"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	restored := Load(local)
	snap := restored.Snapshot()
	if !snap.Authenticated || snap.User == nil || snap.User.ID != 7 {
		t.Fatalf("restored snapshot = %+v", snap)
	}
	if restored.AccessToken() != access || restored.RefreshToken() != "refresh-1" {
		t.Fatal("restored tokens differ")
	}
}

func TestLogout_ClearsEverythingIncludingStorage(t *testing.T) {
	local, err := storage.Open(t.TempDir())
	if err != nil {
		t.Fatalf("storage.Open returned error: %v", err)
	}

	access := signedToken(t, time.Now().Add(15*time.Minute))
	server := authServer(t, access)
	sess := newSession(t, server.URL, local)
	if err := sess.Login(context.Background(), "ada@example.com", "s3cret"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	sess.Logout()
	if sess.Snapshot().Authenticated || sess.AccessToken() != "" {
		t.Fatal("session survived logout")
	}

	restored := Load(local)
	if restored.Snapshot().Authenticated || restored.AccessToken() != "" {
		t.Fatal("persisted session survived logout")
	}
}

func TestTokenExpiry_ReadFromClaims(t *testing.T) {
	expires := time.Now().Add(15 * time.Minute).Truncate(time.Second)
	access := signedToken(t, expires)
	server := authServer(t, access)
	sess := newSession(t, server.URL, nil)

	if _, ok := sess.TokenExpiry(); ok {
		t.Fatal("expiry reported without a token")
	}

	if err := sess.Login(context.Background(), "ada@example.com", "s3cret"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	got, ok := sess.TokenExpiry()
	if !ok {
		t.Fatal("expiry not reported")
	}
	if !got.Equal(expires) {
		t.Fatalf("expiry = %v, want %v", got, expires)
	}
}

func TestTokenExpiry_OpaqueTokenIsNotAnError(t *testing.T) {
	sess := Load(nil)
	sess.UpdateTokens("not-a-jwt", "r")

	if _, ok := sess.TokenExpiry(); ok {
		t.Fatal("expiry reported for an opaque token")
	}
}
