package notify

import (
	"context"
	"convenios-backend/models"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSend(t *testing.T) {
	t.Run(`successful send check`, func(t *testing.T) {
		var received Message
		var auth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		provider := NewInstance(server.URL, "secret", time.Second)
		err := provider.Send(context.Background(), Message{Protocol: "20250301-ABC123", Status: models.RequestStatusApproved, Phone: "5511999"})
		require.NoError(t, err)
		require.Equal(t, "Bearer secret", auth)
		require.Equal(t, "20250301-ABC123", received.Protocol)
		require.Equal(t, models.RequestStatusApproved, received.Status)
		require.NotEmpty(t, received.Message)
	})
	t.Run(`gateway error check`, func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		provider := NewInstance(server.URL, "", time.Second)
		err := provider.Send(context.Background(), Message{Protocol: "P", Status: models.RequestStatusRejected, Phone: "1"})
		require.Error(t, err)
	})
	t.Run(`gateway not configured check`, func(t *testing.T) {
		provider := NewInstance("", "", time.Second)
		require.NoError(t, provider.Send(context.Background(), Message{Protocol: "P"}))
	})
	t.Run(`no phone check`, func(t *testing.T) {
		provider := NewInstance("http://127.0.0.1:1", "", time.Second)
		require.Error(t, provider.Send(context.Background(), Message{Protocol: "P"}))
	})
}
