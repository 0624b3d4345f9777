package themo

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newBufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf)

	client, err := NewClient("user@example.com", "secret", WithLogger(logger))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	if client.logger != logger {
		t.Error("logger not set")
	}
}

func TestClient_logRequest(t *testing.T) {
	t.Run("logs with logger", func(t *testing.T) {
		var buf bytes.Buffer
		client, _ := NewClient("user@example.com", "secret", WithLogger(newBufferLogger(&buf)))
		client.logRequest(context.Background(), "GET", "/api/environments")

		if !strings.Contains(buf.String(), "api_request") {
			t.Error("expected api_request log")
		}
		if !strings.Contains(buf.String(), "/api/environments") {
			t.Error("expected path in log")
		}
	})

	t.Run("no-op without logger", func(t *testing.T) {
		client, _ := NewClient("user@example.com", "secret")
		// Should not panic
		client.logRequest(context.Background(), "GET", "/api/environments")
	})
}

func TestClient_logResponse(t *testing.T) {
	t.Run("logs success response", func(t *testing.T) {
		var buf bytes.Buffer
		client, _ := NewClient("user@example.com", "secret", WithLogger(newBufferLogger(&buf)))
		client.logResponse(context.Background(), "GET", "/api/environments", 200, 50*time.Millisecond, nil)

		output := buf.String()
		if !strings.Contains(output, "api_response") {
			t.Error("expected api_response log")
		}
		if !strings.Contains(output, "200") {
			t.Error("expected status code in log")
		}
	})

	t.Run("logs 4xx as warning", func(t *testing.T) {
		var buf bytes.Buffer
		client, _ := NewClient("user@example.com", "secret", WithLogger(newBufferLogger(&buf)))
		client.logResponse(context.Background(), "GET", "/api/environments", 404, 50*time.Millisecond, nil)

		if !strings.Contains(buf.String(), "WARN") {
			t.Errorf("expected WARN level for 404 response, got: %s", buf.String())
		}
	})

	t.Run("logs transport error at error level", func(t *testing.T) {
		var buf bytes.Buffer
		client, _ := NewClient("user@example.com", "secret", WithLogger(newBufferLogger(&buf)))
		client.logResponse(context.Background(), "GET", "/api/environments", 0, 50*time.Millisecond, ErrNotFound)

		output := buf.String()
		if !strings.Contains(output, "ERROR") {
			t.Error("expected ERROR level")
		}
		if !strings.Contains(output, "error") {
			t.Error("expected error in log")
		}
	})
}

func TestLoggingTransport(t *testing.T) {
	t.Run("logs successful request", func(t *testing.T) {
		var buf bytes.Buffer
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		transport := &LoggingTransport{
			Base:   http.DefaultTransport,
			Logger: newBufferLogger(&buf),
		}

		client := &http.Client{Transport: transport}
		req, _ := http.NewRequest(http.MethodGet, server.URL+"/test", nil)
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()

		output := buf.String()
		if !strings.Contains(output, "api_request") {
			t.Error("expected api_request log")
		}
		if !strings.Contains(output, "api_response") {
			t.Error("expected api_response log")
		}
	})

	t.Run("logs error response", func(t *testing.T) {
		var buf bytes.Buffer
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		transport := &LoggingTransport{
			Base:   http.DefaultTransport,
			Logger: newBufferLogger(&buf),
		}

		client := &http.Client{Transport: transport}
		req, _ := http.NewRequest(http.MethodGet, server.URL+"/test", nil)
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()

		if !strings.Contains(buf.String(), "ERROR") {
			t.Errorf("expected ERROR level for 500 response, got: %s", buf.String())
		}
	})

	t.Run("logs 4xx as warning", func(t *testing.T) {
		var buf bytes.Buffer
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		transport := &LoggingTransport{
			Base:   http.DefaultTransport,
			Logger: newBufferLogger(&buf),
		}

		client := &http.Client{Transport: transport}
		req, _ := http.NewRequest(http.MethodGet, server.URL+"/test", nil)
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()

		if !strings.Contains(buf.String(), "WARN") {
			t.Errorf("expected WARN level for 404 response, got: %s", buf.String())
		}
	})

	t.Run("handles nil logger", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		transport := &LoggingTransport{
			Base:   http.DefaultTransport,
			Logger: nil, // nil logger
		}

		client := &http.Client{Transport: transport}
		req, _ := http.NewRequest(http.MethodGet, server.URL+"/test", nil)
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		// Should not panic
	})
}

func TestNewLoggingClient(t *testing.T) {
	t.Run("creates client with logging", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newBufferLogger(&buf)

		client, err := NewLoggingClient("user@example.com", "secret", logger)
		if err != nil {
			t.Fatalf("NewLoggingClient failed: %v", err)
		}

		if client.logger != logger {
			t.Error("logger not set on client")
		}
	})

	t.Run("returns error for empty username", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(nil, nil))

		_, err := NewLoggingClient("", "secret", logger)
		if err != ErrEmptyUsername {
			t.Errorf("expected ErrEmptyUsername, got: %v", err)
		}
	})

	t.Run("logs actual requests", func(t *testing.T) {
		var buf bytes.Buffer
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("[]"))
		}))
		defer server.Close()

		client, _ := NewLoggingClient("user@example.com", "secret", newBufferLogger(&buf), WithBaseURL(server.URL))
		client.token = "test-token"
		client.ListEnvironments(context.Background())

		output := buf.String()
		if !strings.Contains(output, "api_request") {
			t.Error("expected api_request log")
		}
		if !strings.Contains(output, "api_response") {
			t.Error("expected api_response log")
		}
	})
}

func TestLogging_NeverLeaksCredentials(t *testing.T) {
	const (
		username = "user@example.com"
		password = "hunter2-password"
		token    = "secret-bearer-token"
	)

	var buf bytes.Buffer
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			json.NewEncoder(w).Encode(map[string]string{"Token": token})
		case "/api/environments":
			json.NewEncoder(w).Encode([]map[string]any{{"Id": 1, "Name": "Home"}})
		default:
			json.NewEncoder(w).Encode([]map[string]any{
				{"Id": 5, "Name": "Hallway", "State": map[string]any{"RT": 20.5}},
			})
		}
	}))
	defer server.Close()

	client, err := NewLoggingClient(username, password, newBufferLogger(&buf), WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewLoggingClient failed: %v", err)
	}

	if err := client.Authenticate(context.Background()); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if _, err := client.ListAllDevices(context.Background()); err != nil {
		t.Fatalf("ListAllDevices failed: %v", err)
	}

	output := buf.String()
	if output == "" {
		t.Fatal("expected log output from authenticated requests")
	}
	if strings.Contains(output, token) {
		t.Error("bearer token leaked into log output")
	}
	if strings.Contains(output, password) {
		t.Error("password leaked into log output")
	}
	if strings.Contains(output, username) {
		t.Error("username leaked into log output")
	}

	// The useful request metadata is still there.
	if !strings.Contains(output, "/api/environments") {
		t.Error("expected request path in log output")
	}
	if !strings.Contains(output, "status=200") {
		t.Error("expected response status in log output")
	}
}
