package sendgrid_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zishraq/ecommerce-backend/internal/models"
	sendgridclient "github.com/zishraq/ecommerce-backend/pkg/sendgrid"
)

type sendgridV3Payload struct {
	Personalizations []struct {
		To      []map[string]string `json:"to"`
		Subject string              `json:"subject"`
	} `json:"personalizations"`
	From    map[string]string `json:"from"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
}

func TestEmailService_Send(t *testing.T) {
	apiKey := "SG.test-api-key"
	fromEmail := "shop@example.com"
	fromName := "Online Shop"

	tests := []struct {
		name          string
		msg           *models.EmailMessage
		status        int
		expectedError string
		checkPayload  func(t *testing.T, p sendgridV3Payload)
	}{
		{
			name: "Success - Text And HTML",
			msg: &models.EmailMessage{
				To:          "alice@example.com",
				Subject:     "Order confirmed",
				Content:     "Thanks for your order",
				HTMLContent: "<p>Thanks for your order</p>",
			},
			status: http.StatusAccepted,
			checkPayload: func(t *testing.T, p sendgridV3Payload) {
				require.Len(t, p.Personalizations, 1)
				assert.Equal(t, "alice@example.com", p.Personalizations[0].To[0]["email"])
				assert.Equal(t, "Order confirmed", p.Personalizations[0].Subject)
				assert.Equal(t, fromEmail, p.From["email"])
				assert.Equal(t, fromName, p.From["name"])
				require.Len(t, p.Content, 2)
				assert.Equal(t, "text/plain", p.Content[0].Type)
				assert.Equal(t, "text/html", p.Content[1].Type)
			},
		},
		{
			name: "Success - Text Only",
			msg: &models.EmailMessage{
				To:      "bob@example.com",
				Subject: "Order confirmed",
				Content: "Plain body",
			},
			status: http.StatusAccepted,
			checkPayload: func(t *testing.T, p sendgridV3Payload) {
				require.Len(t, p.Content, 1)
				assert.Equal(t, "Plain body", p.Content[0].Value)
			},
		},
		{
			name:          "Failure - Rejected By API",
			msg:           &models.EmailMessage{To: "bad@example.com", Subject: "x", Content: "y"},
			status:        http.StatusBadRequest,
			expectedError: "failed to send email, status code: 400",
		},
		{
			name:          "Failure - Server Error",
			msg:           &models.EmailMessage{To: "alice@example.com", Subject: "x", Content: "y"},
			status:        http.StatusInternalServerError,
			expectedError: "failed to send email, status code: 500",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			var payload sendgridV3Payload

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "Bearer "+apiKey, r.Header.Get("Authorization"))
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
				w.WriteHeader(tc.status)
			}))
			defer server.Close()

			svc := sendgridclient.NewEmailService(apiKey, fromEmail, fromName)
			svc.GetSendGridClient().Request.BaseURL = server.URL

			// Act
			err := svc.Send(t.Context(), tc.msg)

			// Assert
			if tc.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedError)
				return
			}

			require.NoError(t, err)
			if tc.checkPayload != nil {
				tc.checkPayload(t, payload)
			}
		})
	}
}
