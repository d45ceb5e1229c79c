package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/arsdatascience/elite-finder-platform/internal/integrations"
)

// defaultGraphBaseURL is the WhatsApp Cloud API endpoint.
const defaultGraphBaseURL = "https://graph.facebook.com/v17.0"

// CloudAdapter sends text messages through the official WhatsApp Cloud
// API (Meta Graph).
type CloudAdapter struct {
	http    *http.Client
	baseURL string
}

// NewCloudAdapter creates a CloudAdapter. A nil client gets the shared
// dispatch client; an empty baseURL targets the real Graph API.
func NewCloudAdapter(client *http.Client, baseURL string) *CloudAdapter {
	if client == nil {
		client = newDispatchClient()
	}
	if baseURL == "" {
		baseURL = defaultGraphBaseURL
	}
	return &CloudAdapter{http: client, baseURL: baseURL}
}

type cloudText struct {
	Body string `json:"body"`
}

type cloudPayload struct {
	MessagingProduct string    `json:"messaging_product"`
	To               string    `json:"to"`
	Type             string    `json:"type"`
	Text             cloudText `json:"text"`
}

// Send implements Adapter against POST {base}/{phoneNumberID}/messages.
func (a *CloudAdapter) Send(ctx context.Context, integ *integrations.Integration, token, to, content string) (json.RawMessage, error) {
	phoneNumberID := integ.ConfigString("phone_number_id", "phoneNumberId")
	if phoneNumberID == "" || token == "" {
		return nil, &ConfigError{
			Platform: integrations.PlatformOfficial,
			Reason:   "missing phone_number_id or access_token",
		}
	}

	payload := cloudPayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             cloudText{Body: content},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal cloud payload: %w", err)
	}

	url := a.baseURL + "/" + phoneNumberID + "/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build cloud request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cloud request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read cloud response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &DispatchError{
			Platform:   integrations.PlatformOfficial,
			StatusCode: resp.StatusCode,
			Message:    extractCloudMessage(respBody, resp.Status),
		}
	}
	return respBody, nil
}

// extractCloudMessage pulls the nested Graph error message.
func extractCloudMessage(body []byte, fallback string) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return fallback
}
