// Package result defines the uniform outcome shape returned at component
// boundaries: a success flag, the data, and machine-readable error or
// warning codes suitable for transport-level mapping by callers.
package result

// Result wraps an operation outcome of type T.
type Result[T any] struct {
	Success        bool   `json:"success"`
	Data           T      `json:"data,omitempty"`
	ErrorMessage   string `json:"error_message,omitempty"`
	ErrorCode      string `json:"error_code,omitempty"`
	WarningMessage string `json:"warning_message,omitempty"`
	WarningCode    string `json:"warning_code,omitempty"`
}

// Ok returns a successful result carrying data.
func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// OkWithWarning returns a successful result carrying data plus a warning,
// e.g. when stale or fallback cached data is being served.
func OkWithWarning[T any](data T, message, code string) Result[T] {
	return Result[T]{Success: true, Data: data, WarningMessage: message, WarningCode: code}
}

// Fail returns a failed result with a message and code.
func Fail[T any](message, code string) Result[T] {
	return Result[T]{ErrorMessage: message, ErrorCode: code}
}

// FailFrom converts a failed result of one type into another, preserving
// the error message and code. It panics if r succeeded.
func FailFrom[T, U any](r Result[U]) Result[T] {
	if r.Success {
		panic("result: FailFrom called on a successful result")
	}
	return Result[T]{ErrorMessage: r.ErrorMessage, ErrorCode: r.ErrorCode}
}
