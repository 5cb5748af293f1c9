// Package identity talks to the external identity provider. Authentication
// is fully delegated: this backend never stores a credential, it only
// verifies bearer tokens and mirrors profile changes back to the provider.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrInvalidToken is returned when the provider rejects a bearer token.
var ErrInvalidToken = errors.New("identity: invalid token")

// Client is what the rest of the backend needs from the provider.
type Client interface {
	// VerifyToken resolves a bearer token to the provider's user id.
	VerifyToken(ctx context.Context, token string) (string, error)
	// UpdateUser mirrors profile fields to the provider.
	UpdateUser(ctx context.Context, identityID string, fields map[string]interface{}) error
	// DeleteUser removes the provider-side user.
	DeleteUser(ctx context.Context, identityID string) error
}

// HTTPClient is a Client backed by the provider's backend HTTP API.
type HTTPClient struct {
	BaseURL   string
	SecretKey string
	Client    *http.Client
}

func (c *HTTPClient) httpClient() *http.Client {
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 10 * time.Second}
	}
	return c.Client
}

type verifyTokenResponse struct {
	UserID string `json:"user_id"`
}

// VerifyToken posts the session token to the provider's verify endpoint.
func (c *HTTPClient) VerifyToken(ctx context.Context, token string) (string, error) {
	if c.BaseURL == "" || c.SecretKey == "" {
		return "", errors.New("identity: CLERK_API_URL or CLERK_SECRET_KEY is not set")
	}
	body, _ := json.Marshal(map[string]string{"token": token})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(c.BaseURL, "/")+"/tokens/verify", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("identity request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusNotFound {
		return "", ErrInvalidToken
	}
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("identity error: status %d body: %s", resp.StatusCode, respBody)
	}
	var data verifyTokenResponse
	if err := json.Unmarshal(respBody, &data); err != nil {
		return "", fmt.Errorf("identity response decode: %w", err)
	}
	if data.UserID == "" {
		return "", ErrInvalidToken
	}
	return data.UserID, nil
}

// UpdateUser patches provider-side profile fields (first/last name, email).
func (c *HTTPClient) UpdateUser(ctx context.Context, identityID string, fields map[string]interface{}) error {
	return c.do(ctx, http.MethodPatch, "/users/"+identityID, fields)
}

// DeleteUser removes the provider-side user.
func (c *HTTPClient) DeleteUser(ctx context.Context, identityID string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+identityID, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload map[string]interface{}) error {
	if c.BaseURL == "" || c.SecretKey == "" {
		return errors.New("identity: CLERK_API_URL or CLERK_SECRET_KEY is not set")
	}
	var body io.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.BaseURL, "/")+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("identity request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("identity error: status %d body: %s", resp.StatusCode, respBody)
	}
	return nil
}
