package stripe_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripego "github.com/stripe/stripe-go/v81"
	"github.com/zishraq/ecommerce-backend/pkg/stripe"
)

func TestCreatePaymentIntent(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "2599", r.PostForm.Get("amount"))
		assert.Equal(t, "usd", r.PostForm.Get("currency"))
		assert.Equal(t, "ord-1", r.PostForm.Get("metadata[order_id]"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pi_123","object":"payment_intent","amount":2599,"currency":"usd","client_secret":"pi_123_secret"}`))
	}))
	defer server.Close()

	stripego.SetBackend(stripego.APIBackend, stripego.GetBackendWithConfig(stripego.APIBackend, &stripego.BackendConfig{
		URL:               stripego.String(server.URL),
		MaxNetworkRetries: stripego.Int64(0),
	}))
	t.Cleanup(func() { stripego.SetBackend(stripego.APIBackend, nil) })

	client := stripe.NewStripeClient("sk_test_123")

	// Act
	intent, err := client.CreatePaymentIntent(2599, "usd", "Order ord-1", map[string]string{"order_id": "ord-1"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "pi_123", intent.ID)
	assert.Equal(t, "pi_123_secret", intent.ClientSecret)
	assert.Equal(t, int64(2599), intent.Amount)
}
