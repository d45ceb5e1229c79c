package integrations

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// tokenEncrypter is the vault surface this package needs.
// *vault.Vault satisfies it.
type tokenEncrypter interface {
	Encrypt(plain string) (string, error)
}

// store is the persistence surface consumed by Service.
// *Repository satisfies it.
type store interface {
	Save(ctx context.Context, i *Integration) error
	SetStatus(ctx context.Context, userID int64, platform, status string) error
}

// Service wraps the repository with credential encryption.
type Service struct {
	repo   store
	vault  tokenEncrypter
	logger *zap.Logger
}

// NewService creates a Service.
func NewService(repo store, vault tokenEncrypter, logger *zap.Logger) *Service {
	return &Service{repo: repo, vault: vault, logger: logger}
}

// Connect stores (or replaces) a user's provider credentials with the
// token encrypted at rest and the status set to connected.
func (s *Service) Connect(ctx context.Context, userID int64, platform, token string, config map[string]any) (*Integration, error) {
	if platform != PlatformEvolution && platform != PlatformOfficial {
		return nil, fmt.Errorf("unknown platform %q", platform)
	}

	ciphertext, err := s.vault.Encrypt(token)
	if err != nil {
		return nil, fmt.Errorf("encrypt access token: %w", err)
	}

	if config == nil {
		config = map[string]any{}
	}
	i := &Integration{
		UserID:      userID,
		Platform:    platform,
		AccessToken: ciphertext,
		Config:      config,
		Status:      StatusConnected,
	}
	if err := s.repo.Save(ctx, i); err != nil {
		return nil, err
	}

	s.logger.Info("integration connected",
		zap.Int64("user_id", userID),
		zap.String("platform", platform),
	)
	return i, nil
}

// Disconnect marks a user's integration as disconnected without
// discarding its credentials.
func (s *Service) Disconnect(ctx context.Context, userID int64, platform string) error {
	return s.repo.SetStatus(ctx, userID, platform, StatusDisconnected)
}
