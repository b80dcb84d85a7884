package factus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/Yangluigie/Reto-Factus/pkg/errors"
	"github.com/Yangluigie/Reto-Factus/pkg/httpclient"
)

const (
	tokenPath    = "/oauth/token"
	validatePath = "/v1/bills/validate"
)

// Config holds the Factus API location and the service credentials used for
// the credential exchange.
type Config struct {
	BaseURL      string
	GrantType    string
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	TokenTTL     time.Duration
}

// Client talks to the Factus electronic invoicing API. Invoice payloads pass
// through it untouched; Factus owns their schema and validation.
type Client struct {
	cfg    Config
	http   *httpclient.Client
	tokens *TokenSource
	logger *slog.Logger
}

// NewClient creates a Factus API client with its own token source.
func NewClient(cfg Config, httpClient *httpclient.Client, logger *slog.Logger) *Client {
	c := &Client{
		cfg:    cfg,
		http:   httpClient,
		logger: logger,
	}
	c.tokens = NewTokenSource(c.fetchToken, cfg.TokenTTL)
	return c
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "factus"
}

// Token returns a valid bearer token, refreshing the cached one only when it
// has expired. Failures are surfaced as a provider-auth error (503).
func (c *Client) Token(ctx context.Context) (string, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return "", apperrors.ProviderAuth(err)
	}
	return token, nil
}

// tokenResponse is the part of the exchange response the client reads.
// Factus also reports its own expiry, which is deliberately not used: the
// cache applies a fixed client-side validity window instead.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// fetchToken performs the credential exchange with the Factus token endpoint.
func (c *Client) fetchToken(ctx context.Context) (string, error) {
	form := url.Values{
		"grant_type":    {c.cfg.GrantType},
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
		"username":      {c.cfg.Username},
		"password":      {c.cfg.Password},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+tokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return "", fmt.Errorf("token exchange: %w", err)
	}

	body, err := httpclient.ReadBody(resp)
	if err != nil {
		return "", fmt.Errorf("token exchange: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("token endpoint returned status %d: %s", resp.StatusCode, body)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}

	c.logger.InfoContext(ctx, "factus token refreshed",
		slog.Duration("ttl", c.cfg.TokenTTL),
	)

	return tr.AccessToken, nil
}

// ValidateInvoice forwards the opaque invoice payload to the Factus
// validation endpoint with a valid bearer token attached. The payload is
// never sent when no token can be obtained.
func (c *Client) ValidateInvoice(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+validatePath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create invoice request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		invoiceValidations.WithLabelValues("transport_error").Inc()
		return nil, apperrors.UpstreamRejected(fmt.Sprintf("invoice validation failed: %v", err))
	}

	body, err := httpclient.ReadBody(resp)
	if err != nil {
		invoiceValidations.WithLabelValues("transport_error").Inc()
		return nil, apperrors.UpstreamRejected(fmt.Sprintf("invoice validation failed: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		invoiceValidations.WithLabelValues("rejected").Inc()
		c.logger.WarnContext(ctx, "factus rejected invoice",
			slog.Int("status", resp.StatusCode),
		)
		return nil, apperrors.UpstreamRejected(fmt.Sprintf("provider returned status %d: %s", resp.StatusCode, body))
	}

	invoiceValidations.WithLabelValues("validated").Inc()
	return body, nil
}

// Ping reports whether the Factus API is reachable. Any HTTP response counts
// as reachable; only transport failures are errors.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	return nil
}
