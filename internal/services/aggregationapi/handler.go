package aggregationapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/aggregation"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/shared/domain/result"
)

const dateLayout = "2006-01-02"

// Aggregator is the aggregation surface the HTTP layer exposes.
type Aggregator interface {
	GetCustomerTransactions(ctx context.Context, customerID int64, dateRange aggregation.DateRange) result.Result[aggregation.AggregatedTransactions]
	GetTransactionSummary(ctx context.Context, customerID int64, dateRange aggregation.DateRange) result.Result[aggregation.TransactionSummary]
	GenerateStatement(ctx context.Context, customerID int64, dateRange aggregation.DateRange) result.Result[aggregation.Statement]
}

// HealthProbes feeds the health endpoint. Database gates the overall
// status; Breakers and CacheEntries are informational gauges. Any field
// may be nil.
type HealthProbes struct {
	Database     func(ctx context.Context) error
	Breakers     func() map[string]string
	CacheEntries func() int
}

// Handler handles HTTP requests for the aggregation service.
type Handler struct {
	aggregator Aggregator
	probes     HealthProbes
	logger     *slog.Logger
}

// NewHandler creates a new aggregation HTTP handler. With zero probes the
// health endpoint only reports process liveness.
func NewHandler(aggregator Aggregator, probes HealthProbes, logger *slog.Logger) *Handler {
	return &Handler{
		aggregator: aggregator,
		probes:     probes,
		logger:     logger.With("handler", "aggregationapi"),
	}
}

// HandleTransactions handles GET /api/v1/customers/{id}/transactions
func (h *Handler) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	customerID, dateRange, ok := h.parseRequest(w, r)
	if !ok {
		return
	}
	writeResult(h, w, h.aggregator.GetCustomerTransactions(r.Context(), customerID, dateRange))
}

// HandleSummary handles GET /api/v1/customers/{id}/summary
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	customerID, dateRange, ok := h.parseRequest(w, r)
	if !ok {
		return
	}
	writeResult(h, w, h.aggregator.GetTransactionSummary(r.Context(), customerID, dateRange))
}

// HandleStatement handles POST /api/v1/customers/{id}/statement
func (h *Handler) HandleStatement(w http.ResponseWriter, r *http.Request) {
	customerID, dateRange, ok := h.parseRequest(w, r)
	if !ok {
		return
	}
	writeResult(h, w, h.aggregator.GenerateStatement(r.Context(), customerID, dateRange))
}

// HandleHealth handles GET /health
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "healthy"}
	code := http.StatusOK

	if h.probes.Database != nil {
		if err := h.probes.Database(r.Context()); err != nil {
			h.logger.Warn("health check failed", "error", err)
			resp["status"] = "degraded"
			resp["error"] = err.Error()
			code = http.StatusServiceUnavailable
		}
	}
	if h.probes.Breakers != nil {
		resp["breakers"] = h.probes.Breakers()
	}
	if h.probes.CacheEntries != nil {
		resp["cache_entries"] = h.probes.CacheEntries()
	}

	h.writeJSON(w, code, resp)
}

// parseRequest extracts the customer id path segment and the optional
// from/to query parameters. On a parse failure it writes a validation
// error response and returns ok=false.
func (h *Handler) parseRequest(w http.ResponseWriter, r *http.Request) (int64, aggregation.DateRange, bool) {
	// Expected path: /api/v1/customers/{id}/{operation}
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/v1/customers/"), "/")

	customerID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || customerID <= 0 {
		h.writeError(w, http.StatusBadRequest, "invalid customer id: "+parts[0], result.CodeValidation)
		return 0, aggregation.DateRange{}, false
	}

	var dateRange aggregation.DateRange
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		from, err := time.Parse(dateLayout, fromStr)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid from date, expected YYYY-MM-DD: "+fromStr, result.CodeValidation)
			return 0, aggregation.DateRange{}, false
		}
		dateRange.From = &from
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		to, err := time.Parse(dateLayout, toStr)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid to date, expected YYYY-MM-DD: "+toStr, result.CodeValidation)
			return 0, aggregation.DateRange{}, false
		}
		dateRange.To = &to
	}
	if dateRange.From != nil && dateRange.To != nil && dateRange.To.Before(*dateRange.From) {
		h.writeError(w, http.StatusBadRequest, "to date precedes from date", result.CodeValidation)
		return 0, aggregation.DateRange{}, false
	}

	return customerID, dateRange, true
}

// statusFor maps a component error code to an HTTP status.
func statusFor(code string) int {
	switch code {
	case result.CodeValidation:
		return http.StatusBadRequest
	case result.CodeNotFound:
		return http.StatusNotFound
	case result.CodeAPIUnavailable, result.CodeNoCacheAvailable, result.CodeDocumentUnavailable:
		return http.StatusServiceUnavailable
	case result.CodeAPITimeout, result.CodeDocumentTimeout:
		return http.StatusGatewayTimeout
	case result.CodeAPIError, result.CodeEmptyResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeResult[T any](h *Handler, w http.ResponseWriter, res result.Result[T]) {
	if !res.Success {
		h.logger.Warn("request failed", "error_code", res.ErrorCode, "error", res.ErrorMessage)
		h.writeJSON(w, statusFor(res.ErrorCode), res)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message, code string) {
	h.writeJSON(w, status, result.Result[struct{}]{ErrorMessage: message, ErrorCode: code})
}
