package agents

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// ValidationError reports malformed or missing input. Raised before any
// database work so a bad request never opens a transaction.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// repo is the persistence interface consumed by Service.
// *Repository satisfies it.
type repo interface {
	Create(ctx context.Context, in *Input) (*Agent, error)
	Update(ctx context.Context, id int64, in *Input) (*Agent, error)
	Get(ctx context.Context, id int64) (*Agent, error)
	List(ctx context.Context, clientID *int64) ([]Summary, error)
	GetPublicBySlug(ctx context.Context, slug string) (*PublicAgent, error)
}

// Service contains business logic for agent configuration management.
type Service struct {
	repo   repo
	logger *zap.Logger
}

// NewService creates a Service.
func NewService(repo repo, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func validate(in *Input) error {
	if in == nil {
		return &ValidationError{Field: "body", Reason: "missing"}
	}
	if in.Identity.Name == "" {
		return &ValidationError{Field: "identity.name", Reason: "required"}
	}
	if p := in.WhatsAppConfig.Provider; p != "" && p != ProviderEvolution && p != ProviderOfficial {
		return &ValidationError{Field: "whatsappConfig.provider", Reason: fmt.Sprintf("unknown provider %q", p)}
	}
	return nil
}

// Create validates and persists a new agent aggregate.
func (s *Service) Create(ctx context.Context, in *Input) (*Agent, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	agent, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	s.logger.Info("agent created",
		zap.Int64("id", agent.ID),
		zap.String("name", agent.Identity.Name),
		zap.String("slug", agent.Identity.Slug),
	)
	return agent, nil
}

// Update validates and rewrites an existing aggregate.
func (s *Service) Update(ctx context.Context, id int64, in *Input) (*Agent, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	agent, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}

	s.logger.Info("agent updated", zap.Int64("id", id))
	return agent, nil
}

// Get returns the full aggregate view.
func (s *Service) Get(ctx context.Context, id int64) (*Agent, error) {
	return s.repo.Get(ctx, id)
}

// List returns agent summaries, optionally scoped to a client.
func (s *Service) List(ctx context.Context, clientID *int64) ([]Summary, error) {
	return s.repo.List(ctx, clientID)
}

// GetPublicBySlug returns the public view of an active agent.
func (s *Service) GetPublicBySlug(ctx context.Context, slug string) (*PublicAgent, error) {
	return s.repo.GetPublicBySlug(ctx, slug)
}

// TestConnection checks that the fields a provider needs are present.
// It performs no network call; it exists so the UI can validate a form
// before saving.
func (s *Service) TestConnection(provider string, config map[string]string) error {
	switch provider {
	case ProviderEvolution:
		if config["baseUrl"] == "" || config["apiKey"] == "" {
			return &ValidationError{Field: "config", Reason: "baseUrl and apiKey are required"}
		}
	case ProviderOfficial:
		if config["phoneNumberId"] == "" || config["accessToken"] == "" {
			return &ValidationError{Field: "config", Reason: "phoneNumberId and accessToken are required"}
		}
	default:
		return &ValidationError{Field: "provider", Reason: fmt.Sprintf("unknown provider %q", provider)}
	}
	return nil
}
