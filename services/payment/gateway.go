package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"roamstay/models"
)

// Gateway is the payment provider client. The provider is treated as an
// opaque HTTP JSON service: only a top-level status of "success" (and,
// for Verify, data.status == "success") counts as a positive outcome.
type Gateway interface {
	Initialize(ctx context.Context, amount float64, email, reference string) (*models.GatewayResponse, error)
	Verify(ctx context.Context, reference string) (*models.GatewayResponse, error)
}

// ChapaGateway talks to a Chapa-compatible transaction API.
type ChapaGateway struct {
	BaseURL   string
	SecretKey string
	Currency  string
	Client    *http.Client
}

// NewChapaGateway builds a gateway client with a bounded request timeout.
func NewChapaGateway(baseURL, secretKey, currency string) *ChapaGateway {
	return &ChapaGateway{
		BaseURL:   baseURL,
		SecretKey: secretKey,
		Currency:  currency,
		Client:    &http.Client{Timeout: 15 * time.Second},
	}
}

type initializeRequest struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Email    string `json:"email"`
	TxRef    string `json:"tx_ref"`
}

// Initialize starts a transaction and returns the provider response,
// whose data carries checkout_url and tx_ref on success.
func (g *ChapaGateway) Initialize(ctx context.Context, amount float64, email, reference string) (*models.GatewayResponse, error) {
	body, err := json.Marshal(initializeRequest{
		Amount:   fmt.Sprintf("%.2f", amount),
		Currency: g.Currency,
		Email:    email,
		TxRef:    reference,
	})
	if err != nil {
		return nil, fmt.Errorf("gateway: failed to encode initialize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gateway: failed to build initialize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.SecretKey)

	return g.do(req)
}

// Verify fetches the settlement status of a previously initialized
// transaction.
func (g *ChapaGateway) Verify(ctx context.Context, reference string) (*models.GatewayResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, fmt.Errorf("gateway: failed to build verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.SecretKey)

	return g.do(req)
}

func (g *ChapaGateway) do(req *http.Request) (*models.GatewayResponse, error) {
	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway: request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded models.GatewayResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("gateway: failed to decode response: %w", err)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return &decoded, fmt.Errorf("gateway: provider returned %d", resp.StatusCode)
	}
	return &decoded, nil
}

// DataString pulls a string field out of a gateway response's data map.
func DataString(r *models.GatewayResponse, key string) string {
	if r == nil || r.Data == nil {
		return ""
	}
	if s, ok := r.Data[key].(string); ok {
		return s
	}
	return ""
}
