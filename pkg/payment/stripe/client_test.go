package stripe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		SecretKey:     "sk_test_123",
		WebhookSecret: webhookSecret,
		BaseURL:       server.URL,
	})
	require.NoError(t, err)
	return client, server
}

func TestCreateIntent(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/payment_intents", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "2550", r.PostForm.Get("amount"))
		assert.Equal(t, "eur", r.PostForm.Get("currency"))
		assert.Equal(t, "true", r.PostForm.Get("automatic_payment_methods[enabled]"))
		assert.Equal(t, "buyer@example.com", r.PostForm.Get("metadata[email]"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"pi_123","client_secret":"pi_123_secret","amount":2550,"currency":"eur","status":"requires_payment_method","metadata":{"email":"buyer@example.com"}}`))
	})

	intent, err := client.CreateIntent(context.Background(), 2550, "eur", map[string]string{
		MetadataEmail: "buyer@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "pi_123", intent.ID)
	assert.Equal(t, int64(2550), intent.Amount)
	assert.Equal(t, "buyer@example.com", intent.Metadata[MetadataEmail])
}

func TestRetrieveIntent_NotFound(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"type":"invalid_request_error","code":"resource_missing","message":"No such payment_intent"}}`))
	})

	_, err := client.RetrieveIntent(context.Background(), "pi_missing")
	assert.ErrorIs(t, err, ErrIntentNotFound)
}

func TestModifyIntent(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/payment_intents/pi_123", r.URL.Path)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "7", r.PostForm.Get("metadata[address]"))

		w.Write([]byte(`{"id":"pi_123","metadata":{"address":"7"}}`))
	})

	intent, err := client.ModifyIntent(context.Background(), "pi_123", map[string]string{
		MetadataAddress: "7",
	})
	require.NoError(t, err)
	assert.Equal(t, "7", intent.Metadata[MetadataAddress])
}

func TestDoRequest_Unauthorized(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"Invalid API Key"}}`))
	})

	_, err := client.CreateIntent(context.Background(), 100, "eur", nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestNewClient_MissingKey(t *testing.T) {
	_, err := NewClient(Config{WebhookSecret: "whsec"})
	assert.Error(t, err)
}
