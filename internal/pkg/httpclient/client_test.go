package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoJSON_SendsHeadersAndDecodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "2023-08-01", r.Header.Get("x-api-version"))

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)

		var body map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 42, body["amount"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_1"}`))
	}))
	defer server.Close()

	client := New(server.URL+"/v1/", time.Second,
		WithHeader("x-api-version", "2023-08-01"),
		WithBasicAuth("key", "secret"),
	)

	var out struct {
		ID string `json:"id"`
	}
	err := client.DoJSON(context.Background(), http.MethodPost, "/orders", map[string]int{"amount": 42}, &out)

	require.NoError(t, err)
	assert.Equal(t, "order_1", out.ID)
}

func TestDoJSON_APIErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"message field", http.StatusBadRequest, `{"message":"order_amount is invalid"}`, "order_amount is invalid"},
		{"nested description", http.StatusUnauthorized, `{"error":{"code":"BAD_REQUEST_ERROR","description":"Authentication failed"}}`, "Authentication failed"},
		{"error string", http.StatusInternalServerError, `{"error":"boom"}`, "boom"},
		{"plain text", http.StatusBadGateway, `upstream down`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			err := New(server.URL, time.Second).DoJSON(context.Background(), http.MethodGet, "/", nil, nil)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Equal(t, tt.status >= 500, apiErr.Temporary())
		})
	}
}

func TestDoJSON_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	err := New(server.URL, 20*time.Millisecond).DoJSON(context.Background(), http.MethodGet, "/", nil, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to make API call")
}
