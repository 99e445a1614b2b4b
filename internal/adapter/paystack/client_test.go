package paystack

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domainErrors "github.com/merchsys/storefront/internal/domain/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, baseURL, secret string) *Client {
	t.Helper()
	client, err := NewClient(baseURL, secret, "whsec", time.Second, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return client
}

func TestNewClientRejectsRelativeURL(t *testing.T) {
	if _, err := NewClient("/not/absolute", "sk", "", time.Second, testLogger()); err == nil {
		t.Fatalf("expected error for relative url")
	}
}

func TestInitializeWithoutSecretKey(t *testing.T) {
	client := newTestClient(t, "https://api.example", "")

	if _, err := client.Initialize(context.Background(), "a@b.c", 100, "PAY-1", nil); !errors.Is(err, domainErrors.ErrGatewayUnavailable) {
		t.Fatalf("expected gateway unavailable, got %v", err)
	}
	if _, err := client.Verify(context.Background(), "PAY-1"); !errors.Is(err, domainErrors.ErrGatewayUnavailable) {
		t.Fatalf("expected gateway unavailable, got %v", err)
	}
}

func TestInitializeSendsAuthorizedRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/transaction/initialize" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test" {
			t.Errorf("unexpected authorization header %q", got)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["amount"] != float64(3250) || body["reference"] != "PAY-1" {
			t.Errorf("unexpected body %v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"status":true,"data":{"authorization_url":"https://pay.example/x","access_code":"ac_1","reference":"PAY-1"}}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, "sk_test")
	init, err := client.Initialize(context.Background(), "ada@example.com", 3250, "PAY-1", map[string]string{"order_ref": "ORD-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if init.AuthorizationURL != "https://pay.example/x" || init.AccessCode != "ac_1" {
		t.Fatalf("unexpected init %+v", init)
	}
}

func TestInitializeGatewayRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"status":false,"message":"Invalid amount"}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, "sk_test")
	if _, err := client.Initialize(context.Background(), "ada@example.com", 0, "PAY-1", nil); !errors.Is(err, domainErrors.ErrGateway) {
		t.Fatalf("expected gateway error, got %v", err)
	}
}

func TestInitializeHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, "sk_test")
	if _, err := client.Initialize(context.Background(), "ada@example.com", 100, "PAY-1", nil); !errors.Is(err, domainErrors.ErrGateway) {
		t.Fatalf("expected gateway error, got %v", err)
	}
}

func TestVerifySuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/verify/PAY-1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		io.WriteString(w, `{"status":true,"data":{"status":"success","gateway_response":"Approved","paid_at":"2026-08-01T10:00:00Z"}}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, "sk_test")
	verification, err := client.Verify(context.Background(), "PAY-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if verification.Status != "success" || verification.GatewayResponse != "Approved" {
		t.Fatalf("unexpected verification %+v", verification)
	}
	if verification.PaidAt == nil || verification.PaidAt.IsZero() {
		t.Fatalf("paid_at not parsed")
	}
}

func TestVerifyWebhookSignature(t *testing.T) {
	client := newTestClient(t, "https://api.example", "sk_test")
	body := []byte(`{"event":"charge.success","data":{"reference":"PAY-1"}}`)

	mac := hmac.New(sha512.New, []byte("whsec"))
	mac.Write(body)
	valid := hex.EncodeToString(mac.Sum(nil))

	if !client.VerifyWebhookSignature(body, valid) {
		t.Fatalf("valid signature rejected")
	}
	if client.VerifyWebhookSignature(body, "deadbeef") {
		t.Fatalf("forged signature accepted")
	}
	if client.VerifyWebhookSignature(append(body, ' '), valid) {
		t.Fatalf("signature must bind to the exact raw bytes")
	}
}

func TestVerifyWebhookSignaturePermissiveWithoutSecret(t *testing.T) {
	client, err := NewClient("https://api.example", "sk_test", "", time.Second, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !client.VerifyWebhookSignature([]byte("{}"), "anything") {
		t.Fatalf("unconfigured webhook secret must accept deliveries")
	}
}
