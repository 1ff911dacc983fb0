package ollama

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexwatch/internal/core/domain"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *LLMService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewLLMService(Config{BaseURL: server.URL})
}

func TestComplete(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		_, _ = io.WriteString(w, `{"response":"The fee is 40 euro.","done":true}`) //nolint:errcheck
	})

	text, err := svc.Complete(context.Background(), "what are the fees?", 4000)

	require.NoError(t, err)
	assert.Equal(t, "The fee is 40 euro.", text)
}

func TestComplete_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	svc := NewLLMService(Config{BaseURL: server.URL})
	_, err := svc.Complete(context.Background(), "q", 100)

	assert.ErrorIs(t, err, domain.ErrUnreachable)
}

func TestComplete_MalformedResponse(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "oops") //nolint:errcheck
	})

	_, err := svc.Complete(context.Background(), "q", 100)
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestComplete_EmptyResponse(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"response":"","done":true}`) //nolint:errcheck
	})

	_, err := svc.Complete(context.Background(), "q", 100)
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestPing(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = io.WriteString(w, `{"models":[]}`) //nolint:errcheck
	})

	assert.NoError(t, svc.Ping(context.Background()))
}

func TestDefaults(t *testing.T) {
	svc := NewLLMService(Config{})
	assert.Equal(t, DefaultModel, svc.ModelName())
}
