package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/arsdatascience/elite-finder-platform/internal/integrations"
)

// brCountryCode is prefixed to recipients that look like national-format
// Brazilian numbers (10 or 11 digits after stripping).
const brCountryCode = "55"

// EvolutionAdapter sends text messages through an Evolution API
// instance.
type EvolutionAdapter struct {
	http *http.Client
}

// NewEvolutionAdapter creates an EvolutionAdapter. A nil client gets the
// shared dispatch client with its default timeout.
func NewEvolutionAdapter(client *http.Client) *EvolutionAdapter {
	if client == nil {
		client = newDispatchClient()
	}
	return &EvolutionAdapter{http: client}
}

type evolutionOptions struct {
	Delay       int    `json:"delay"`
	Presence    string `json:"presence"`
	LinkPreview bool   `json:"linkPreview"`
}

type evolutionText struct {
	Text string `json:"text"`
}

type evolutionPayload struct {
	Number      string           `json:"number"`
	Options     evolutionOptions `json:"options"`
	TextMessage evolutionText    `json:"textMessage"`
}

// Send implements Adapter against POST {base}/message/sendText/{instance}.
func (a *EvolutionAdapter) Send(ctx context.Context, integ *integrations.Integration, token, to, content string) (json.RawMessage, error) {
	baseURL := integ.ConfigString("baseUrl", "url")
	instance := integ.ConfigString("instanceName", "instance")
	apiKey := token
	if apiKey == "" {
		apiKey = integ.ConfigString("apiKey")
	}
	if baseURL == "" || instance == "" || apiKey == "" {
		return nil, &ConfigError{
			Platform: integrations.PlatformEvolution,
			Reason:   "missing url, instance, or apiKey",
		}
	}

	payload := evolutionPayload{
		Number: normalizeBRNumber(to),
		Options: evolutionOptions{
			Delay:       1200,
			Presence:    "composing",
			LinkPreview: false,
		},
		TextMessage: evolutionText{Text: content},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal evolution payload: %w", err)
	}

	url := strings.TrimRight(baseURL, "/") + "/message/sendText/" + instance
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build evolution request: %w", err)
	}
	req.Header.Set("apikey", apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("evolution request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read evolution response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &DispatchError{
			Platform:   integrations.PlatformEvolution,
			StatusCode: resp.StatusCode,
			Message:    extractEvolutionMessage(respBody, resp.Status),
		}
	}
	return respBody, nil
}

// extractEvolutionMessage pulls the provider's message field out of an
// error body. Evolution returns either a string or an array of strings.
func extractEvolutionMessage(body []byte, fallback string) string {
	var withString struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &withString); err == nil && withString.Message != "" {
		return withString.Message
	}

	var withList struct {
		Message []string `json:"message"`
	}
	if err := json.Unmarshal(body, &withList); err == nil && len(withList.Message) > 0 {
		return strings.Join(withList.Message, "; ")
	}
	return fallback
}

// normalizeBRNumber strips everything but digits and prefixes the
// Brazilian country code when the remainder looks like a national-format
// number. A heuristic carried over from the stored data; numbers should
// ideally arrive in E.164 already.
func normalizeBRNumber(to string) string {
	var b strings.Builder
	for _, r := range to {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 10 || len(digits) == 11 {
		return brCountryCode + digits
	}
	return digits
}
