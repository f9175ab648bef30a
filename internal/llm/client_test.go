package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Egor213/ExceptionSieve/internal/config"
	"github.com/Egor213/ExceptionSieve/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(url string) config.LLM {
	return config.LLM{
		BaseURL:         url,
		APIKey:          "secret",
		Model:           "test-model",
		Temperature:     0.1,
		MaxTokens:       64,
		Timeout:         time.Second,
		RetryCount:      0,
		BreakerFailures: 2,
		BreakerTimeout:  time.Minute,
	}
}

func TestClient_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-model", body.Model)
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)
		assert.Equal(t, "hello", body.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"shouldAlert\":false}"}}]}`))
	}))
	defer server.Close()

	c := llm.New(testConfig(server.URL))

	got, err := c.Complete(context.Background(), "hello", "json only")

	require.NoError(t, err)
	assert.Equal(t, `{"shouldAlert":false}`, got)
}

func TestClient_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":{"message":"overloaded"}}`))
			},
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"choices":[]}`))
			},
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(1500 * time.Millisecond)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()

			c := llm.New(testConfig(server.URL))
			_, err := c.Complete(context.Background(), "p", "s")
			assert.Error(t, err)
		})
	}
}

func TestClient_BreakerOpens(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := llm.New(testConfig(server.URL))
	for i := 0; i < 2; i++ {
		_, err := c.Complete(context.Background(), "p", "s")
		require.Error(t, err)
	}

	_, err := c.Complete(context.Background(), "p", "s")

	assert.ErrorIs(t, err, llm.ErrBreakerOpen)
	assert.Equal(t, int32(2), hits.Load())
}
