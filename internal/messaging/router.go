package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/arsdatascience/elite-finder-platform/internal/integrations"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var messagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "ef_whatsapp_messages_total",
	Help: "Outbound WhatsApp dispatch attempts by platform and outcome.",
}, []string{"platform", "outcome"})

// integrationSource looks up the caller's connected integration.
// *integrations.Repository satisfies it.
type integrationSource interface {
	GetConnected(ctx context.Context, userID int64) (*integrations.Integration, error)
}

// tokenDecrypter is the vault surface the router needs.
// *vault.Vault satisfies it.
type tokenDecrypter interface {
	Decrypt(ciphertext string) (string, error)
}

// Router selects the caller's active integration, decrypts its
// credential, and hands off to the adapter registered for the
// integration's platform tag. Adding a provider means registering one
// more adapter; the router itself has no provider branching.
type Router struct {
	source   integrationSource
	vault    tokenDecrypter
	adapters map[string]Adapter
	fallback *integrations.Integration
	logger   *zap.Logger
}

// NewRouter creates a Router with no adapters registered.
func NewRouter(source integrationSource, vault tokenDecrypter, logger *zap.Logger) *Router {
	return &Router{
		source:   source,
		vault:    vault,
		adapters: make(map[string]Adapter),
		logger:   logger,
	}
}

// Register binds an adapter to a platform tag.
func (r *Router) Register(platform string, adapter Adapter) {
	r.adapters[platform] = adapter
}

// SetFallback configures environment-provided default credentials used
// only when a caller has no integration row of their own.
func (r *Router) SetFallback(platform, token string, config map[string]any) {
	r.fallback = &integrations.Integration{
		Platform:    platform,
		AccessToken: token,
		Config:      config,
		Status:      integrations.StatusConnected,
	}
}

// SendMessage dispatches content to recipient via the userID's connected
// integration. A caller with no connected integration (and no configured
// fallback) gets (nil, nil): nothing to do, no network call. Provider
// failures surface as *DispatchError; no retries are performed here.
func (r *Router) SendMessage(ctx context.Context, userID int64, to, content string) (json.RawMessage, error) {
	integ, err := r.source.GetConnected(ctx, userID)
	if errors.Is(err, integrations.ErrNotFound) {
		if r.fallback == nil {
			r.logger.Warn("no connected whatsapp integration", zap.Int64("user_id", userID))
			messagesTotal.WithLabelValues("none", "skipped").Inc()
			return nil, nil
		}
		integ = r.fallback
	} else if err != nil {
		return nil, fmt.Errorf("lookup integration: %w", err)
	}

	adapter, ok := r.adapters[integ.Platform]
	if !ok {
		return nil, &ConfigError{Platform: integ.Platform, Reason: "no adapter registered"}
	}

	token, err := r.vault.Decrypt(integ.AccessToken)
	if err != nil {
		// Legacy policy: a credential that fails to decrypt is treated
		// as absent so config-level key aliases can still apply. The
		// error is logged, never silently identical to "no credential".
		r.logger.Error("access token decrypt failed, treating as absent",
			zap.Int64("user_id", userID),
			zap.String("platform", integ.Platform),
			zap.Error(err),
		)
		token = ""
	}

	r.logger.Info("dispatching whatsapp message",
		zap.Int64("user_id", userID),
		zap.String("platform", integ.Platform),
	)

	result, err := adapter.Send(ctx, integ, token, to, content)
	if err != nil {
		messagesTotal.WithLabelValues(integ.Platform, "error").Inc()
		return nil, err
	}
	messagesTotal.WithLabelValues(integ.Platform, "sent").Inc()
	return result, nil
}
