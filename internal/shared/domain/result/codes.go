package result

// Error codes shared across component boundaries. Callers map these to
// transport-level status codes.
const (
	CodeAPIUnavailable   = "API_UNAVAILABLE"
	CodeAPITimeout       = "API_TIMEOUT"
	CodeAPIError         = "API_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeEmptyResponse    = "EMPTY_RESPONSE"
	CodeNoCacheAvailable = "NO_CACHE_AVAILABLE"
	CodeValidation       = "VALIDATION_ERROR"
	CodeUnexpected       = "UNEXPECTED_ERROR"

	CodeAggregationError    = "AGGREGATION_ERROR"
	CodeSummaryError        = "SUMMARY_ERROR"
	CodeStatementError      = "STATEMENT_GENERATION_ERROR"
	CodeDocumentUnavailable = "DOCUMENT_SERVICE_UNAVAILABLE"
	CodeDocumentTimeout     = "DOCUMENT_SERVICE_TIMEOUT"
)

// Warning codes attached to successful results served from degraded cache.
const (
	WarnStaleRefreshing = "STALE_CACHE_REFRESHING"
	WarnFallbackCache   = "FALLBACK_CACHE"
)
