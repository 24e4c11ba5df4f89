// Package client is a thin HTTP client for the aggregation API, used by
// the e2e smoke tests. Amounts stay as JSON strings; the tests compare
// them without needing decimal arithmetic.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Config holds client configuration.
type Config struct {
	BaseURL string
}

// Envelope mirrors the service's uniform response shape.
type Envelope struct {
	Success        bool            `json:"success"`
	Data           json.RawMessage `json:"data,omitempty"`
	ErrorMessage   string          `json:"error_message,omitempty"`
	ErrorCode      string          `json:"error_code,omitempty"`
	WarningMessage string          `json:"warning_message,omitempty"`
	WarningCode    string          `json:"warning_code,omitempty"`
}

// AccountActivity mirrors one account in an aggregation response.
type AccountActivity struct {
	AccountID        int64             `json:"account_id"`
	AccountType      string            `json:"account_type"`
	AccountNumber    string            `json:"account_number"`
	Currency         string            `json:"currency"`
	CurrentBalance   json.Number       `json:"current_balance"`
	AvailableBalance json.Number       `json:"available_balance"`
	Transactions     []json.RawMessage `json:"transactions"`
}

// AggregatedTransactions mirrors the transactions response body.
type AggregatedTransactions struct {
	CustomerID        int64             `json:"customer_id"`
	CustomerName      string            `json:"customer_name"`
	Accounts          []AccountActivity `json:"accounts"`
	TotalTransactions int               `json:"total_transactions"`
}

// CategorySummary mirrors one category in a summary response.
type CategorySummary struct {
	Category          string      `json:"category"`
	TransactionCount  int         `json:"transaction_count"`
	TotalAmount       json.Number `json:"total_amount"`
	AverageAmount     json.Number `json:"average_amount"`
	PercentageOfTotal json.Number `json:"percentage_of_total"`
}

// TransactionSummary mirrors the summary response body.
type TransactionSummary struct {
	CustomerID   int64             `json:"customer_id"`
	CustomerName string            `json:"customer_name"`
	TotalDebits  json.Number       `json:"total_debits"`
	TotalCredits json.Number       `json:"total_credits"`
	NetAmount    json.Number       `json:"net_amount"`
	Categories   []CategorySummary `json:"category_summaries"`
}

// Statement mirrors the statement response body.
type Statement struct {
	StatementID  string `json:"statement_id"`
	FileName     string `json:"file_name"`
	DownloadURL  string `json:"download_url"`
	ExpiresAt    string `json:"expires_at"`
	MaxDownloads int    `json:"max_downloads"`
}

// Response pairs the HTTP status with the decoded envelope.
type Response struct {
	StatusCode int
	Envelope   Envelope
}

func do(ctx context.Context, method, url string) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var envelope Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response (status %d): %w", resp.StatusCode, err)
	}

	return &Response{StatusCode: resp.StatusCode, Envelope: envelope}, nil
}

// GetTransactions calls GET /api/v1/customers/{id}/transactions.
func GetTransactions(ctx context.Context, cfg *Config, customerID int64, from, to string) (*Response, error) {
	url := fmt.Sprintf("%s/api/v1/customers/%d/transactions", cfg.BaseURL, customerID)
	if from != "" || to != "" {
		url = fmt.Sprintf("%s?from=%s&to=%s", url, from, to)
	}
	return do(ctx, http.MethodGet, url)
}

// GetTransactionsRaw calls the transactions endpoint with an arbitrary
// customer id path segment, for validation tests.
func GetTransactionsRaw(ctx context.Context, cfg *Config, customerID string) (*Response, error) {
	return do(ctx, http.MethodGet, fmt.Sprintf("%s/api/v1/customers/%s/transactions", cfg.BaseURL, customerID))
}

// GetSummary calls GET /api/v1/customers/{id}/summary.
func GetSummary(ctx context.Context, cfg *Config, customerID int64) (*Response, error) {
	return do(ctx, http.MethodGet, fmt.Sprintf("%s/api/v1/customers/%d/summary", cfg.BaseURL, customerID))
}

// GenerateStatement calls POST /api/v1/customers/{id}/statement.
func GenerateStatement(ctx context.Context, cfg *Config, customerID int64) (*Response, error) {
	return do(ctx, http.MethodPost, fmt.Sprintf("%s/api/v1/customers/%d/statement", cfg.BaseURL, customerID))
}

// DecodeData unmarshals the envelope's data payload into v.
func DecodeData(envelope Envelope, v any) error {
	if len(envelope.Data) == 0 {
		return fmt.Errorf("response has no data")
	}
	return json.Unmarshal(envelope.Data, v)
}

// WaitForHealthy polls the health endpoint until the service responds or
// the timeout elapses.
func WaitForHealthy(ctx context.Context, cfg *Config, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	var lastErr error

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if lastErr = CheckHealth(ctx, cfg.BaseURL); lastErr == nil {
			return nil
		}
		time.Sleep(250 * time.Millisecond)
	}

	return fmt.Errorf("service not healthy after %v: %w", timeout, lastErr)
}

// CheckHealth checks the health endpoint of the service.
func CheckHealth(ctx context.Context, url string) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status %d", resp.StatusCode)
	}

	return nil
}
