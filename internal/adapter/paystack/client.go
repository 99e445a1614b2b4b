package paystack

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	domainErrors "github.com/merchsys/storefront/internal/domain/errors"
	"github.com/merchsys/storefront/internal/usecase"
)

// Client talks to the Paystack API without leaking its wire format into the
// checkout pipeline.
type Client struct {
	baseURL       *url.URL
	secretKey     string
	webhookSecret string
	httpClient    *http.Client
	logger        *slog.Logger
}

// NewClient creates a Paystack client with a bounded request timeout. An
// empty secret key produces a client whose calls fail with
// ErrGatewayUnavailable.
func NewClient(baseURL, secretKey, webhookSecret string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("gateway url must be absolute")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:       parsed,
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
		logger:        logger,
		httpClient:    &http.Client{Timeout: timeout},
	}, nil
}

type initializeRequest struct {
	Email     string            `json:"email"`
	Amount    int64             `json:"amount"`
	Reference string            `json:"reference"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status          string     `json:"status"`
		GatewayResponse string     `json:"gateway_response"`
		PaidAt          *time.Time `json:"paid_at"`
	} `json:"data"`
}

// Initialize opens a transaction for the amount in minor currency units.
func (c *Client) Initialize(ctx context.Context, email string, amount int64, reference string, metadata map[string]string) (*usecase.GatewayInit, error) {
	if c.secretKey == "" {
		return nil, domainErrors.ErrGatewayUnavailable
	}

	payload, err := json.Marshal(initializeRequest{
		Email:     email,
		Amount:    amount,
		Reference: reference,
		Metadata:  metadata,
	})
	if err != nil {
		return nil, err
	}

	var parsed initializeResponse
	if err := c.do(ctx, http.MethodPost, "/transaction/initialize", payload, &parsed); err != nil {
		return nil, err
	}
	if !parsed.Status {
		c.logger.Error("gateway initialize rejected", slog.String("message", parsed.Message))
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrGateway, parsed.Message)
	}

	return &usecase.GatewayInit{
		AuthorizationURL: parsed.Data.AuthorizationURL,
		AccessCode:       parsed.Data.AccessCode,
		Reference:        parsed.Data.Reference,
	}, nil
}

// Verify queries the processor for the transaction behind the reference.
func (c *Client) Verify(ctx context.Context, reference string) (*usecase.GatewayVerification, error) {
	if c.secretKey == "" {
		return nil, domainErrors.ErrGatewayUnavailable
	}

	var parsed verifyResponse
	if err := c.do(ctx, http.MethodGet, path.Join("/transaction/verify", reference), nil, &parsed); err != nil {
		return nil, err
	}
	if !parsed.Status {
		c.logger.Error("gateway verify rejected", slog.String("message", parsed.Message))
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrGateway, parsed.Message)
	}

	return &usecase.GatewayVerification{
		Status:          parsed.Data.Status,
		PaidAt:          parsed.Data.PaidAt,
		GatewayResponse: parsed.Data.GatewayResponse,
	}, nil
}

// VerifyWebhookSignature checks the HMAC-SHA512 signature Paystack computes
// over the exact raw request bytes. It must receive the unparsed body:
// re-serializing parsed JSON produces different bytes and a different
// signature. With no webhook secret configured every signature is accepted.
func (c *Client) VerifyWebhookSignature(rawBody []byte, signature string) bool {
	if c.webhookSecret == "" {
		return true
	}

	mac := hmac.New(sha512.New, []byte(c.webhookSecret))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte, out any) error {
	target := *c.baseURL
	target.Path = path.Join(target.Path, endpoint)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domainErrors.ErrGateway, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", domainErrors.ErrGateway, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("gateway request failed",
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(raw)),
		)
		return fmt.Errorf("%w: %s", domainErrors.ErrGateway, resp.Status)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", domainErrors.ErrGateway, err)
	}
	return nil
}
