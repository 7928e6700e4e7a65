// Package transport performs outbound GET requests against upstream
// judgment sources. It pre-classifies retryability by HTTP status class,
// raises a distinct error on deadline exceeded, and enforces a host
// allowlist so adapters can never be pointed at arbitrary targets.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lexgate/internal/judgments/providers"
)

const defaultUserAgent = "lexgate/1.0"

// maxBodyBytes bounds upstream response bodies; portal judgments are large
// HTML documents but never this large.
const maxBodyBytes = 10 << 20

// StatusError reports a non-2xx upstream response. 5xx and 429 are
// transient; other 4xx are not.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned %d for %s", e.StatusCode, e.URL)
}

// Retryable reports whether the status class marks the failure transient.
func (e *StatusError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// ErrDeadline is returned when the upstream call exceeds its deadline.
var ErrDeadline = errors.New("upstream deadline exceeded")

// ErrBodyTooLarge is returned when an upstream body exceeds the size cap.
// Surfacing the error beats serving a silently truncated judgment.
var ErrBodyTooLarge = errors.New("upstream response body too large")

// DomainError reports a GET against a host outside the allowlist.
type DomainError struct {
	Host string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("outbound host %s not allowed", e.Host)
}

// Client is the outbound HTTP transport shared by provider adapters.
type Client struct {
	http         *http.Client
	userAgent    string
	allowedHosts map[string]struct{}
	maxBody      int64
}

// NewClient builds a transport with a tuned http.Client and an optional
// host allowlist. An empty allowlist permits any host.
func NewClient(timeout time.Duration, allowedHosts []string) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	allowed := make(map[string]struct{}, len(allowedHosts))
	for _, h := range allowedHosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			allowed[h] = struct{}{}
		}
	}
	return &Client{
		http:         &http.Client{Timeout: timeout, Transport: tr},
		userAgent:    defaultUserAgent,
		allowedHosts: allowed,
		maxBody:      maxBodyBytes,
	}
}

// GetJSON performs a GET and decodes the JSON response body into v.
func (c *Client) GetJSON(ctx context.Context, rawURL string, v any) error {
	body, err := c.get(ctx, rawURL, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode upstream JSON: %w", err)
	}
	return nil
}

// GetHTML performs a GET and returns the raw response body as a string.
func (c *Client) GetHTML(ctx context.Context, rawURL string) (string, error) {
	body, err := c.get(ctx, rawURL, "text/html")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) get(ctx context.Context, rawURL, accept string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse upstream URL: %w", err)
	}
	if err := c.checkHost(u.Hostname()); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		if isDeadline(err) {
			return nil, fmt.Errorf("%w: %s", ErrDeadline, rawURL)
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: rawURL}
	}

	// Read one byte past the cap so an oversized body is detected instead of
	// silently truncated.
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		if isDeadline(err) {
			return nil, fmt.Errorf("%w: %s", ErrDeadline, rawURL)
		}
		return nil, err
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrBodyTooLarge, rawURL, c.maxBody)
	}
	return body, nil
}

func (c *Client) checkHost(host string) error {
	if len(c.allowedHosts) == 0 {
		return nil
	}
	if _, ok := c.allowedHosts[strings.ToLower(host)]; !ok {
		return &DomainError{Host: host}
	}
	return nil
}

func isDeadline(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// WrapError maps a transport failure onto the provider error taxonomy.
// Status 404 becomes not-found, deadline errors become timeouts, allowlist
// misses become domain rejections, oversized bodies are terminal upstream
// failures, everything else is an upstream failure with retryability taken
// from the status class.
func WrapError(providerID, operation string, err error) *providers.Error {
	var se *StatusError
	if errors.As(err, &se) {
		if se.StatusCode == http.StatusNotFound {
			return providers.NewError(providers.CategoryNotFound, providerID, operation, providers.ErrJudgmentNotFound)
		}
		return providers.NewProviderError(providerID, operation, err, se.Retryable())
	}
	if errors.Is(err, ErrDeadline) {
		return providers.NewError(providers.CategoryTimeout, providerID, operation, err)
	}
	if errors.Is(err, ErrBodyTooLarge) {
		return providers.NewProviderError(providerID, operation, err, false)
	}
	var de *DomainError
	if errors.As(err, &de) {
		return providers.NewError(providers.CategoryDomainRejected, providerID, operation, err)
	}
	return providers.NewProviderError(providerID, operation, err, true)
}
