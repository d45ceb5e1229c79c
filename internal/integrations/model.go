// Package integrations stores per-user messaging provider credentials.
// Rows are written by the integrations UI flow and read by the dispatch
// router; access tokens are encrypted at rest by the vault.
package integrations

import "time"

// Platform tags for messaging integrations.
const (
	PlatformEvolution = "evolution_api"
	PlatformOfficial  = "official"
)

// Integration statuses.
const (
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
)

// Integration is one provider credential row. AccessToken holds the
// vault ciphertext ("ivHex:cipherHex") or a legacy plaintext token.
type Integration struct {
	ID          int64          `json:"id"`
	UserID      int64          `json:"user_id"`
	Platform    string         `json:"platform"`
	AccessToken string         `json:"-"`
	Config      map[string]any `json:"config"`
	Status      string         `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ConfigString returns the first non-empty string value among the given
// keys. The config blob carries redundant key aliases written by older
// versions (url/baseUrl, instance/instanceName), so readers always probe
// every alias.
func (i *Integration) ConfigString(keys ...string) string {
	for _, k := range keys {
		if v, ok := i.Config[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
