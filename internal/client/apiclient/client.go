// Package apiclient is the shared HTTP transport for the upstream banking
// services. It runs every call through the resilience executor under the
// caller's upstream id and converts transport, status, and decode failures
// into classified errors.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/cache"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/resilience"
	"github.com/FiskaniChirwa/TransactionsOrchestrator/internal/shared/domain/result"
)

// Client calls one upstream service. The zero value is not usable; use New.
type Client struct {
	upstream string
	baseURL  string
	http     *http.Client
	exec     *resilience.Executor
	logger   *slog.Logger
}

// New creates a client for the named upstream rooted at baseURL. The
// executor owns the attempt timeout, so the inner http.Client carries none.
func New(upstream, baseURL string, exec *resilience.Executor, logger *slog.Logger) *Client {
	return &Client{
		upstream: upstream,
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{},
		exec:     exec,
		logger:   logger.With("client", upstream),
	}
}

// Upstream returns the upstream id the client reports to the executor.
func (c *Client) Upstream() string {
	return c.upstream
}

// GetJSON fetches path and decodes the response body into T under the
// client's resilience policies.
func GetJSON[T any](ctx context.Context, c *Client, path string) (T, error) {
	var out T
	err := c.exec.Execute(ctx, c.upstream, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return resilience.Permanent(result.CodeUnexpected, "building request", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return ClassifyTransport(c.upstream, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return resilience.Transient(fmt.Sprintf("reading response from %s", c.upstream), err)
		}
		if err := ClassifyStatus(c.upstream, resp.StatusCode); err != nil {
			return err
		}
		if len(bytes.TrimSpace(body)) == 0 {
			return resilience.Unparsable(fmt.Sprintf("empty response body from %s", c.upstream), nil)
		}

		var v T
		if err := json.Unmarshal(body, &v); err != nil {
			return resilience.Unparsable(fmt.Sprintf("decoding response from %s", c.upstream), err)
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Post sends a pre-marshaled JSON payload to path. Extra headers are
// applied to the request; the response body is discarded.
func (c *Client) Post(ctx context.Context, path string, payload []byte, headers map[string]string) error {
	return c.exec.Execute(ctx, c.upstream, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return resilience.Permanent(result.CodeUnexpected, "building request", err)
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return ClassifyTransport(c.upstream, err)
		}
		defer resp.Body.Close()
		io.Copy(io.Discard, resp.Body)

		return ClassifyStatus(c.upstream, resp.StatusCode)
	})
}

// PostJSON marshals reqBody, sends it to path, and decodes the response
// body into T under the client's resilience policies.
func PostJSON[T any](ctx context.Context, c *Client, path string, reqBody any) (T, error) {
	var out T

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return out, resilience.Permanent(result.CodeUnexpected, "encoding request body", err)
	}

	err = c.exec.Execute(ctx, c.upstream, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return resilience.Permanent(result.CodeUnexpected, "building request", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return ClassifyTransport(c.upstream, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return resilience.Transient(fmt.Sprintf("reading response from %s", c.upstream), err)
		}
		if err := ClassifyStatus(c.upstream, resp.StatusCode); err != nil {
			return err
		}
		if len(bytes.TrimSpace(body)) == 0 {
			return resilience.Unparsable(fmt.Sprintf("empty response body from %s", c.upstream), nil)
		}

		var v T
		if err := json.Unmarshal(body, &v); err != nil {
			return resilience.Unparsable(fmt.Sprintf("decoding response from %s", c.upstream), err)
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// ClassifyTransport converts a round-trip failure into a classified error.
// A deadline hit on the attempt context is a timeout; everything else on
// the wire is transient.
func ClassifyTransport(upstream string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return resilience.Timeout(fmt.Sprintf("request to %s timed out", upstream), err)
	}
	return resilience.Transient(fmt.Sprintf("request to %s failed", upstream), err)
}

// ClassifyStatus converts a response status into a classified error, or
// nil for success statuses. Server-side statuses are transient; 404 is a
// distinct permanent outcome; the remaining client statuses are permanent
// upstream errors.
func ClassifyStatus(upstream string, status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status >= 500,
		status == http.StatusRequestTimeout,
		status == http.StatusTooManyRequests:
		return resilience.Transient(fmt.Sprintf("%s returned status %d", upstream, status), nil)
	case status == http.StatusNotFound:
		return resilience.Permanent(result.CodeNotFound, fmt.Sprintf("%s returned status 404", upstream), nil)
	default:
		return resilience.Permanent(result.CodeAPIError, fmt.Sprintf("%s returned status %d", upstream, status), nil)
	}
}

// CodeFor maps a classified error to a boundary error code. Failures
// wrapped by the cache layer (no cached value to fall back to) report
// NO_CACHE_AVAILABLE unless a more specific outcome applies.
func CodeFor(err error) string {
	var nce *cache.NoCacheError
	uncached := errors.As(err, &nce)

	var rerr *resilience.Error
	if errors.As(err, &rerr) {
		switch rerr.Class {
		case resilience.ClassTimeout:
			return result.CodeAPITimeout
		case resilience.ClassPermanent:
			if rerr.Code != "" {
				return rerr.Code
			}
			return result.CodeAPIError
		case resilience.ClassUnparsable:
			return result.CodeEmptyResponse
		}
	}
	if uncached {
		return result.CodeNoCacheAvailable
	}
	return result.CodeAPIUnavailable
}

// FailResult converts a classified error into a failed boundary result.
func FailResult[T any](err error) result.Result[T] {
	return result.Fail[T](err.Error(), CodeFor(err))
}

// ResultFor wraps a cached value in a boundary result, attaching the
// degradation warning its freshness implies.
func ResultFor[T any](v T, fr cache.Freshness) result.Result[T] {
	switch fr {
	case cache.Stale:
		return result.OkWithWarning(v, "serving stale cached data while a refresh runs", result.WarnStaleRefreshing)
	case cache.Fallback:
		return result.OkWithWarning(v, "serving retained cached data, upstream unavailable", result.WarnFallbackCache)
	default:
		return result.Ok(v)
	}
}
