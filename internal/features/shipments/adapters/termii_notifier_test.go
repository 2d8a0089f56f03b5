package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shipment-tracker/internal/core/config"
	"shipment-tracker/internal/core/proxy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTermii(baseURL string) *TermiiNotifier {
	return NewTermiiNotifier(config.SMSConfig{
		BaseURL:  baseURL,
		APIKey:   "tk_test",
		SenderID: "FirstLine",
		Timeout:  time.Second,
	}, proxy.Settings{})
}

func TestTermiiNotifier_Send(t *testing.T) {
	var got termiiSendRequest
	var gotPath, gotContentType string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message_id":"3017544054459657949","message":"Successfully Sent","balance":9,"user":"First Line"}`))
	}))
	defer ts.Close()

	// trailing slash on the base URL must not double up
	err := newTestTermii(ts.URL+"/").Send(context.Background(), "+2348012345678", "Hello Ada")
	require.NoError(t, err)

	assert.Equal(t, "/api/sms/send", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, termiiSendRequest{
		To:      "+2348012345678",
		From:    "FirstLine",
		SMS:     "Hello Ada",
		Type:    "plain",
		Channel: "generic",
		APIKey:  "tk_test",
	}, got)
}

func TestTermiiNotifier_SendNon2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid API key"}`))
	}))
	defer ts.Close()

	err := newTestTermii(ts.URL).Send(context.Background(), "+2348012345678", "Hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestTermiiNotifier_SendUnreadableBodyIsAccepted(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`ok`))
	}))
	defer ts.Close()

	assert.NoError(t, newTestTermii(ts.URL).Send(context.Background(), "+2348012345678", "Hello"))
}

func TestTermiiNotifier_SendHonoursContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := newTestTermii(ts.URL).Send(ctx, "+2348012345678", "Hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to execute request")
}
