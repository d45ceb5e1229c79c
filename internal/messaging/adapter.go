// Package messaging dispatches outbound WhatsApp messages through the
// caller's connected provider integration.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/arsdatascience/elite-finder-platform/internal/integrations"
)

// dispatchTimeout bounds every outbound provider call. Providers that
// hang past this are treated as retryable failures by the caller.
const dispatchTimeout = 15 * time.Second

// Adapter translates a generic send request into one provider's wire
// format. Success returns the provider's raw response body; failure is
// always a *DispatchError so callers need no provider-specific handling.
// Adapters never retry.
type Adapter interface {
	// Send delivers content to recipient. token is the decrypted access
	// credential; it may be empty when the integration stores the key in
	// its config blob instead.
	Send(ctx context.Context, integ *integrations.Integration, token, to, content string) (json.RawMessage, error)
}

// ConfigError reports an integration that is missing fields its
// provider requires, or an unknown provider tag.
type ConfigError struct {
	Platform string
	Reason   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("messaging: %s integration misconfigured: %s", e.Platform, e.Reason)
}

// DispatchError reports a non-success response from a provider,
// carrying the provider's extracted error message.
type DispatchError struct {
	Platform   string
	StatusCode int
	Message    string
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("messaging: %s dispatch failed (status %d): %s", e.Platform, e.StatusCode, e.Message)
}

// newDispatchClient builds the shared outbound HTTP client.
func newDispatchClient() *http.Client {
	return &http.Client{Timeout: dispatchTimeout}
}
