package themo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_Authenticate(t *testing.T) {
	t.Run("stores token and fetches environments", func(t *testing.T) {
		var loginBody map[string]string
		var envAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/auth/login":
				if r.Method != http.MethodPost {
					t.Errorf("login method = %q, want POST", r.Method)
				}
				if v := r.URL.Query().Get("api-version"); v != apiVersion {
					t.Errorf("api-version = %q, want %q", v, apiVersion)
				}
				if err := json.NewDecoder(r.Body).Decode(&loginBody); err != nil {
					t.Errorf("failed to decode login body: %v", err)
				}
				json.NewEncoder(w).Encode(map[string]string{"Token": "abc-123"})
			case "/api/environments":
				envAuth = r.Header.Get("Authorization")
				json.NewEncoder(w).Encode([]map[string]any{
					{"Id": 7, "Name": "Home"},
				})
			default:
				t.Errorf("unexpected path %q", r.URL.Path)
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer server.Close()

		client, _ := NewClient("user@example.com", "secret", WithBaseURL(server.URL))
		if err := client.Authenticate(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if loginBody["Username"] != "user@example.com" {
			t.Errorf("Username = %q, want %q", loginBody["Username"], "user@example.com")
		}
		if loginBody["Password"] != "secret" {
			t.Errorf("Password = %q, want %q", loginBody["Password"], "secret")
		}
		if client.token != "abc-123" {
			t.Errorf("token = %q, want %q", client.token, "abc-123")
		}
		if envAuth != "Bearer abc-123" {
			t.Errorf("environments Authorization = %q, want bearer token", envAuth)
		}
		if envs := client.Environments(); len(envs) != 1 || envs[0].ID != "7" {
			t.Errorf("cached environments = %+v, want one with ID 7", envs)
		}
	})

	t.Run("any 2xx with a token is accepted", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/auth/login" {
				w.WriteHeader(http.StatusCreated)
				json.NewEncoder(w).Encode(map[string]string{"Token": "abc-201"})
				return
			}
			w.Write([]byte("[]"))
		}))
		defer server.Close()

		client, _ := NewClient("user", "pass", WithBaseURL(server.URL))
		if err := client.Authenticate(context.Background()); err != nil {
			t.Fatalf("unexpected error for 201 login response: %v", err)
		}
		if client.token != "abc-201" {
			t.Errorf("token = %q, want %q", client.token, "abc-201")
		}
	})

	t.Run("non-2xx yields AuthError and leaves session untouched", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"Message":"bad credentials"}`))
		}))
		defer server.Close()

		client, _ := NewClient("user", "wrong", WithBaseURL(server.URL))
		err := client.Authenticate(context.Background())
		authErr, ok := err.(*AuthError)
		if !ok {
			t.Fatalf("expected *AuthError, got %T (%v)", err, err)
		}
		if authErr.StatusCode != http.StatusForbidden {
			t.Errorf("StatusCode = %d, want 403", authErr.StatusCode)
		}
		if authErr.Body == "" {
			t.Error("AuthError should carry the raw response body")
		}
		if client.token != "" {
			t.Errorf("token = %q, want empty after failed login", client.token)
		}
	})

	t.Run("missing token field yields AuthError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"Status": "ok"})
		}))
		defer server.Close()

		client, _ := NewClient("user", "pass", WithBaseURL(server.URL))
		err := client.Authenticate(context.Background())
		authErr, ok := err.(*AuthError)
		if !ok {
			t.Fatalf("expected *AuthError, got %T (%v)", err, err)
		}
		if authErr.Reason == "" {
			t.Error("AuthError should explain the missing token")
		}
		if client.token != "" {
			t.Errorf("token = %q, want empty", client.token)
		}
	})

	t.Run("transport failure yields ConnectionError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		client, _ := NewClient("user", "pass", WithBaseURL(server.URL))
		err := client.Authenticate(context.Background())
		if !IsConnectionError(err) {
			t.Errorf("expected connection error, got: %v", err)
		}
	})

	t.Run("environment fetch failure surfaces", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/auth/login" {
				json.NewEncoder(w).Encode(map[string]string{"Token": "abc"})
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client, _ := NewClient("user", "pass", WithBaseURL(server.URL))
		if err := client.Authenticate(context.Background()); err == nil {
			t.Fatal("expected error from environment discovery")
		}
		// The token itself was accepted and stays usable.
		if client.token != "abc" {
			t.Errorf("token = %q, want %q", client.token, "abc")
		}
	})
}
