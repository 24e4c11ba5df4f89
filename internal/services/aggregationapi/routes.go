package aggregationapi

import (
	"net/http"
	"strings"
)

// RegisterRoutes registers aggregation service routes on the provided mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("/health", h.HandleHealth)

	// Customer aggregation endpoints:
	//   GET  /api/v1/customers/{id}/transactions
	//   GET  /api/v1/customers/{id}/summary
	//   POST /api/v1/customers/{id}/statement
	mux.HandleFunc("/api/v1/customers/", h.routeCustomers)
}

// routeCustomers dispatches on the operation path segment.
func (h *Handler) routeCustomers(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/customers/")
	path = strings.TrimSuffix(path, "/")

	parts := strings.Split(path, "/")
	if len(parts) != 2 {
		h.writeError(w, http.StatusNotFound, "not found", "")
		return
	}

	switch parts[1] {
	case "transactions":
		if r.Method != http.MethodGet {
			h.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
			return
		}
		h.HandleTransactions(w, r)
	case "summary":
		if r.Method != http.MethodGet {
			h.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
			return
		}
		h.HandleSummary(w, r)
	case "statement":
		if r.Method != http.MethodPost {
			h.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
			return
		}
		h.HandleStatement(w, r)
	default:
		h.writeError(w, http.StatusNotFound, "not found", "")
	}
}
