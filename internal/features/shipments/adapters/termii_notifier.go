package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"shipment-tracker/internal/core/config"
	"shipment-tracker/internal/core/httpclient"
	"shipment-tracker/internal/core/logger"
	"shipment-tracker/internal/core/proxy"

	"go.uber.org/zap"
)

const termiiSendPath = "/api/sms/send"

// TermiiNotifier implements ports.Notifier using the Termii SMS API.
type TermiiNotifier struct {
	// client is the HTTP client used for API requests.
	client *http.Client
	// config holds the provider credentials.
	config config.SMSConfig
}

type termiiSendRequest struct {
	To      string `json:"to"`
	From    string `json:"from"`
	SMS     string `json:"sms"`
	Type    string `json:"type"`
	Channel string `json:"channel"`
	APIKey  string `json:"api_key"`
}

type termiiSendResponse struct {
	MessageID string `json:"message_id"`
	Message   string `json:"message"`
}

// NewTermiiNotifier creates a new instance of TermiiNotifier.
func NewTermiiNotifier(cfg config.SMSConfig, proxySettings proxy.Settings) *TermiiNotifier {
	return &TermiiNotifier{
		client: httpclient.NewClient(cfg.Timeout, proxySettings),
		config: cfg,
	}
}

// Send delivers one plain text message. Any non-2xx answer is an error.
func (n *TermiiNotifier) Send(ctx context.Context, phoneNumber, message string) error {
	payload, err := json.Marshal(termiiSendRequest{
		To:      phoneNumber,
		From:    n.config.SenderID,
		SMS:     message,
		Type:    "plain",
		Channel: "generic",
		APIKey:  n.config.APIKey,
	})
	if err != nil {
		return fmt.Errorf("failed to encode sms request: %w", err)
	}

	url := strings.TrimRight(n.config.BaseURL, "/") + termiiSendPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sms provider returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out termiiSendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		// The provider accepted the message; the body is informational.
		logger.Get().Debug("Unreadable sms provider response", zap.Error(err))
		return nil
	}

	logger.Get().Debug("SMS accepted", zap.String("message_id", out.MessageID))
	return nil
}
