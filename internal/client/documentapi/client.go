// Package documentapi is the gateway to the document generation service.
// Statement generation is a write operation, so responses are never cached.
package documentapi

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/client/apiclient"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/resilience"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/shared/domain/result"
)

// Upstream is the id this client reports to the resilience executor.
const Upstream = "DocumentApi"

// DocumentTypeTransactionStatement is the only document type issued from
// this service.
const DocumentTypeTransactionStatement = 1

// GenerateRequest asks the document service to render a document from a
// free-form data map.
type GenerateRequest struct {
	DocumentType int              `json:"document_type"`
	Data         map[string]any   `json:"data"`
	Options      *GenerateOptions `json:"options,omitempty"`
}

// GenerateOptions tunes download token issuance.
type GenerateOptions struct {
	TokenExpiryMinutes *int `json:"token_expiry_minutes,omitempty"`
	MaxDownloads       *int `json:"max_downloads,omitempty"`
}

// GenerateResponse describes the rendered document and its download token.
type GenerateResponse struct {
	DocumentID    uuid.UUID `json:"document_id"`
	DocumentType  int       `json:"document_type"`
	FileName      string    `json:"file_name"`
	FileSizeBytes int64     `json:"file_size_bytes"`
	DownloadURL   string    `json:"download_url"`
	DownloadToken string    `json:"download_token"`
	ExpiresAt     time.Time `json:"expires_at"`
	MaxDownloads  int       `json:"max_downloads"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// Client calls the document service.
type Client struct {
	api    *apiclient.Client
	logger *slog.Logger
}

// New creates a document service client.
func New(baseURL string, exec *resilience.Executor, logger *slog.Logger) *Client {
	return &Client{
		api:    apiclient.New(Upstream, baseURL, exec, logger),
		logger: logger.With("client", Upstream),
	}
}

// GenerateDocument renders a document and returns its download details.
// Failures map to document-specific codes so callers can distinguish an
// unavailable renderer from a slow one.
func (c *Client) GenerateDocument(ctx context.Context, req GenerateRequest) result.Result[GenerateResponse] {
	started := time.Now()

	resp, err := apiclient.PostJSON[GenerateResponse](ctx, c.api, "/api/documents/generate", req)
	if err != nil {
		c.logger.Error("document generation failed", "error", err)
		switch resilience.ClassOf(err) {
		case resilience.ClassTimeout:
			return result.Fail[GenerateResponse](err.Error(), result.CodeDocumentTimeout)
		case resilience.ClassTransient, resilience.ClassCircuitOpen:
			return result.Fail[GenerateResponse](err.Error(), result.CodeDocumentUnavailable)
		default:
			return apiclient.FailResult[GenerateResponse](err)
		}
	}

	elapsed := time.Since(started)
	c.logger.Info("document generated",
		"document_id", resp.DocumentID,
		"file_name", resp.FileName,
		"duration_ms", elapsed.Milliseconds(),
	)
	if elapsed > 2*time.Second {
		c.logger.Warn("slow document generation", "duration_ms", elapsed.Milliseconds())
	}

	return result.Ok(resp)
}
