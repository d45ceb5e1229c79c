package integrations_test

import (
	"context"
	"strings"
	"testing"

	"github.com/arsdatascience/elite-finder-platform/internal/integrations"
	"github.com/arsdatascience/elite-finder-platform/internal/vault"
	"go.uber.org/zap"
)

type stubStore struct {
	saved     *integrations.Integration
	statusSet string
}

func (s *stubStore) Save(_ context.Context, i *integrations.Integration) error {
	cp := *i
	s.saved = &cp
	return nil
}

func (s *stubStore) SetStatus(_ context.Context, _ int64, _, status string) error {
	s.statusSet = status
	return nil
}

func testVault(t *testing.T) *vault.Vault {
	t.Helper()
	v, err := vault.New(strings.Repeat("ab", 32), zap.NewNop())
	if err != nil {
		t.Fatalf("new vault: %v", err)
	}
	return v
}

func TestConnect_EncryptsToken(t *testing.T) {
	store := &stubStore{}
	v := testVault(t)
	svc := integrations.NewService(store, v, zap.NewNop())

	integ, err := svc.Connect(context.Background(), 1, integrations.PlatformEvolution, "plain-api-key", map[string]any{
		"baseUrl": "https://evo.example.com",
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	if store.saved == nil {
		t.Fatal("nothing saved")
	}
	if store.saved.AccessToken == "plain-api-key" {
		t.Error("token stored in plaintext")
	}
	if !strings.Contains(store.saved.AccessToken, ":") {
		t.Errorf("token not in ivHex:cipherHex form: %q", store.saved.AccessToken)
	}
	plain, err := v.Decrypt(store.saved.AccessToken)
	if err != nil || plain != "plain-api-key" {
		t.Errorf("decrypt round-trip = %q, %v", plain, err)
	}
	if integ.Status != integrations.StatusConnected {
		t.Errorf("status = %q", integ.Status)
	}
}

func TestConnect_UnknownPlatform(t *testing.T) {
	store := &stubStore{}
	svc := integrations.NewService(store, testVault(t), zap.NewNop())

	if _, err := svc.Connect(context.Background(), 1, "telegram", "t", nil); err == nil {
		t.Fatal("expected an error")
	}
	if store.saved != nil {
		t.Error("nothing should be saved for an unknown platform")
	}
}

func TestDisconnect(t *testing.T) {
	store := &stubStore{}
	svc := integrations.NewService(store, testVault(t), zap.NewNop())

	if err := svc.Disconnect(context.Background(), 1, integrations.PlatformEvolution); err != nil {
		t.Fatalf("disconnect: %v", err)
	}
	if store.statusSet != integrations.StatusDisconnected {
		t.Errorf("status = %q", store.statusSet)
	}
}
