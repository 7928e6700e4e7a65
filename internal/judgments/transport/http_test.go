package transport

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexgate/internal/judgments/providers"
)

func TestGetJSON(t *testing.T) {
	t.Run("decodes the response body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			assert.NotEmpty(t, r.Header.Get("User-Agent"))
			w.Write([]byte(`{"value":42}`))
		}))
		defer server.Close()

		client := NewClient(5*time.Second, nil)
		var out struct {
			Value int `json:"value"`
		}
		require.NoError(t, client.GetJSON(context.Background(), server.URL, &out))
		assert.Equal(t, 42, out.Value)
	})

	t.Run("invalid JSON is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("<html>not json</html>"))
		}))
		defer server.Close()

		client := NewClient(5*time.Second, nil)
		var out map[string]any
		err := client.GetJSON(context.Background(), server.URL, &out)
		assert.ErrorContains(t, err, "decode upstream JSON")
	})
}

func TestGetHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/html", r.Header.Get("Accept"))
		w.Write([]byte("<html>treść</html>"))
	}))
	defer server.Close()

	client := NewClient(5*time.Second, nil)
	body, err := client.GetHTML(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "<html>treść</html>", body)
}

func TestStatusErrors(t *testing.T) {
	newServer := func(status int) *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		}))
	}

	t.Run("non-2xx becomes a StatusError", func(t *testing.T) {
		server := newServer(http.StatusBadGateway)
		defer server.Close()

		client := NewClient(5*time.Second, nil)
		_, err := client.GetHTML(context.Background(), server.URL)

		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusBadGateway, se.StatusCode)
	})

	t.Run("retryability follows the status class", func(t *testing.T) {
		cases := map[int]bool{
			http.StatusInternalServerError: true,
			http.StatusBadGateway:          true,
			http.StatusTooManyRequests:     true,
			http.StatusBadRequest:          false,
			http.StatusForbidden:           false,
			http.StatusNotFound:            false,
		}
		for status, want := range cases {
			se := &StatusError{StatusCode: status}
			assert.Equal(t, want, se.Retryable(), "status %d", status)
		}
	})
}

func TestHostAllowlist(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	t.Run("disallowed host is rejected before dialing", func(t *testing.T) {
		client := NewClient(5*time.Second, []string{"www.saos.org.pl"})
		_, err := client.GetHTML(context.Background(), server.URL)

		var de *DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "127.0.0.1", de.Host)
	})

	t.Run("allowed host passes", func(t *testing.T) {
		client := NewClient(5*time.Second, []string{"127.0.0.1"})
		_, err := client.GetHTML(context.Background(), server.URL)
		assert.NoError(t, err)
	})

	t.Run("empty allowlist permits any host", func(t *testing.T) {
		client := NewClient(5*time.Second, nil)
		_, err := client.GetHTML(context.Background(), server.URL)
		assert.NoError(t, err)
	})
}

func TestBodySizeCap(t *testing.T) {
	t.Run("oversized body is an error, not a truncated document", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write(bytes.Repeat([]byte("x"), 2048))
		}))
		defer server.Close()

		client := NewClient(5*time.Second, nil)
		client.maxBody = 1024
		_, err := client.GetHTML(context.Background(), server.URL)
		assert.ErrorIs(t, err, ErrBodyTooLarge)
	})

	t.Run("body exactly at the cap passes intact", func(t *testing.T) {
		payload := bytes.Repeat([]byte("y"), 1024)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write(payload)
		}))
		defer server.Close()

		client := NewClient(5*time.Second, nil)
		client.maxBody = 1024
		body, err := client.GetHTML(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, string(payload), body)
	})
}

func TestDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := NewClient(5*time.Second, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.GetHTML(ctx, server.URL)
	assert.ErrorIs(t, err, ErrDeadline)
}

func TestWrapError(t *testing.T) {
	t.Run("404 maps to not found", func(t *testing.T) {
		err := WrapError("saos", "getDetail", &StatusError{StatusCode: http.StatusNotFound})
		assert.Equal(t, providers.CategoryNotFound, err.Category)
		assert.False(t, err.Retryable)
		assert.ErrorIs(t, err, providers.ErrJudgmentNotFound)
	})

	t.Run("5xx maps to a retryable provider error", func(t *testing.T) {
		err := WrapError("saos", "search", &StatusError{StatusCode: http.StatusInternalServerError})
		assert.Equal(t, providers.CategoryProvider, err.Category)
		assert.True(t, err.Retryable)
	})

	t.Run("other 4xx maps to a terminal provider error", func(t *testing.T) {
		err := WrapError("saos", "search", &StatusError{StatusCode: http.StatusForbidden})
		assert.Equal(t, providers.CategoryProvider, err.Category)
		assert.False(t, err.Retryable)
	})

	t.Run("deadline maps to timeout", func(t *testing.T) {
		err := WrapError("portal", "getDetail", ErrDeadline)
		assert.Equal(t, providers.CategoryTimeout, err.Category)
		assert.True(t, err.Retryable)
	})

	t.Run("oversized body maps to a terminal provider error", func(t *testing.T) {
		err := WrapError("portal", "getDetail", ErrBodyTooLarge)
		assert.Equal(t, providers.CategoryProvider, err.Category)
		assert.False(t, err.Retryable)
	})

	t.Run("allowlist miss maps to domain rejection", func(t *testing.T) {
		err := WrapError("portal", "getDetail", &DomainError{Host: "evil.example"})
		assert.Equal(t, providers.CategoryDomainRejected, err.Category)
	})

	t.Run("anything else is a retryable provider error", func(t *testing.T) {
		err := WrapError("saos", "search", assert.AnError)
		assert.Equal(t, providers.CategoryProvider, err.Category)
		assert.True(t, err.Retryable)
	})
}
