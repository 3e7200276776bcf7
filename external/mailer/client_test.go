package mailer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/blingaleague/companion/internal/platform/logging"
	"github.com/blingaleague/companion/internal/platform/resilience"
)

func TestClient_Send(t *testing.T) {
	t.Parallel()

	var received sendRequest
	var authHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message_id":"msg-1"}`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), Config{
		Endpoint: server.URL,
		Token:    "relay-token",
		From:     "commissioner@blingaleague.example",
	}, logging.NewNop())

	err := client.Send(context.Background(), []string{"allen@example.com", "baker@example.com"}, "Week 2 Gazette", "<h1>Week 2</h1>")
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}

	if authHeader != "Bearer relay-token" {
		t.Fatalf("unexpected Authorization header: %q", authHeader)
	}
	if received.From != "commissioner@blingaleague.example" {
		t.Fatalf("unexpected from: %q", received.From)
	}
	if len(received.To) != 2 || received.To[0] != "allen@example.com" {
		t.Fatalf("unexpected recipients: %v", received.To)
	}
	if received.Subject != "Week 2 Gazette" {
		t.Fatalf("unexpected subject: %q", received.Subject)
	}
	if !strings.Contains(received.HTMLBody, "<h1>") {
		t.Fatalf("unexpected body: %q", received.HTMLBody)
	}
}

func TestClient_Send_RejectsEmptyRecipients(t *testing.T) {
	t.Parallel()

	client := NewClient(nil, Config{Endpoint: "http://localhost:0"}, logging.NewNop())
	if err := client.Send(context.Background(), nil, "subject", "body"); err == nil {
		t.Fatal("expected an error for an empty recipient list")
	}
}

func TestClient_Send_SurfacesRelayError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"upstream rejected the message"}`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), Config{Endpoint: server.URL}, logging.NewNop())
	err := client.Send(context.Background(), []string{"allen@example.com"}, "subject", "body")
	if err == nil {
		t.Fatal("expected an error for a 502 response")
	}
	if !strings.Contains(err.Error(), "upstream rejected the message") {
		t.Fatalf("relay error detail missing: %v", err)
	}
}

func TestClient_Send_CircuitOpensAfterRepeatedFailures(t *testing.T) {
	t.Parallel()

	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.Client(), Config{
		Endpoint: server.URL,
		Circuit: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	}, logging.NewNop())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := client.Send(ctx, []string{"allen@example.com"}, "subject", "body"); err == nil {
			t.Fatalf("send %d: expected an error", i)
		}
	}

	// The breaker is open now; the relay is no longer contacted.
	err := client.Send(ctx, []string{"allen@example.com"}, "subject", "body")
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if hits != 2 {
		t.Fatalf("relay hit %d times, want 2", hits)
	}
}

func TestDisabled_Send(t *testing.T) {
	t.Parallel()

	err := Disabled{}.Send(context.Background(), []string{"allen@example.com"}, "subject", "body")
	if err == nil || !strings.Contains(err.Error(), "disabled") {
		t.Fatalf("expected a disabled error, got %v", err)
	}
}
