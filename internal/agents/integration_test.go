//go:build integration

package agents_test

import (
	"context"
	"errors"
	"math"
	"os"
	"sort"
	"sync"
	"testing"

	"github.com/arsdatascience/elite-finder-platform/internal/agents"
	"github.com/jackc/pgx/v5/pgxpool"
)

// These tests run against a real Postgres with the migrations applied:
//
//	DATABASE_URL=postgres://... go test -tags integration ./internal/agents/
func setupIntegration(t *testing.T) (*agents.Repository, *pgxpool.Pool) {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set — skipping integration test")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect to postgres: %v", err)
	}
	if err := db.Ping(ctx); err != nil {
		t.Fatalf("ping postgres: %v", err)
	}

	// Clean the aggregate for deterministic tests; satellites cascade.
	db.Exec(ctx, "DELETE FROM chatbots")

	t.Cleanup(db.Close)
	return agents.NewRepository(db), db
}

func integrationInput(name string) *agents.Input {
	return &agents.Input{
		Identity: agents.Identity{
			Name:        name,
			Category:    "finance",
			Description: "integration fixture",
			Status:      agents.StatusActive,
		},
		AIConfig: agents.AIConfig{
			Provider:    "openai",
			Model:       "gpt-4o",
			Temperature: 0.7,
			TopP:        0.9,
			MaxTokens:   1024,
		},
		VectorConfig: agents.VectorConfig{
			ChunkSize:          512,
			RelevanceThreshold: 0.75,
			Filters:            []string{"contracts", "labor", "tax"},
		},
		Prompts: agents.PromptSet{
			System:   "You are a tax assistant.",
			Analysis: "Analyse the case.",
		},
		WhatsAppConfig: agents.WhatsAppConfig{
			Enabled:  true,
			Provider: agents.ProviderEvolution,
			Evolution: agents.EvolutionChannel{
				BaseURL:      "https://evo.example.com",
				InstanceName: "main",
			},
		},
	}
}

func sorted(s []string) []string {
	out := append([]string(nil), s...)
	sort.Strings(out)
	return out
}

func TestCreateGet_RoundTrip(t *testing.T) {
	repo, _ := setupIntegration(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, integrationInput("Round Trip Agent"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 || created.Identity.Slug == "" {
		t.Fatalf("created = %+v", created)
	}

	got, err := repo.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if got.Identity.Name != "Round Trip Agent" || got.Identity.Slug != created.Identity.Slug {
		t.Errorf("identity = %+v", got.Identity)
	}
	if got.AIConfig.Model != "gpt-4o" || got.AIConfig.Temperature != 0.7 || got.AIConfig.MaxTokens != 1024 {
		t.Errorf("ai config = %+v", got.AIConfig)
	}
	if got.VectorConfig.ChunkSize != 512 || got.VectorConfig.RelevanceThreshold != 0.75 {
		t.Errorf("vector config = %+v", got.VectorConfig)
	}
	wantTags := []string{"contracts", "labor", "tax"}
	gotTags := sorted(got.VectorConfig.Filters)
	if len(gotTags) != len(wantTags) {
		t.Fatalf("filters = %v, want %v", gotTags, wantTags)
	}
	for i := range wantTags {
		if gotTags[i] != wantTags[i] {
			t.Fatalf("filters = %v, want %v", gotTags, wantTags)
		}
	}
	if got.Prompts.System != "You are a tax assistant." {
		t.Errorf("prompts = %+v", got.Prompts)
	}
	if !got.WhatsAppConfig.Enabled || got.WhatsAppConfig.Evolution.InstanceName != "main" {
		t.Errorf("whatsapp config = %+v", got.WhatsAppConfig)
	}
}

func TestCreate_AtomicOnSatelliteFailure(t *testing.T) {
	repo, db := setupIntegration(t)
	ctx := context.Background()

	// top_k is an int4 column; this overflows it, failing the AI config
	// insert after the core row was written inside the transaction.
	in := integrationInput("Doomed Agent")
	in.AIConfig.TopK = math.MaxInt32 + 1

	if _, err := repo.Create(ctx, in); err == nil {
		t.Fatal("expected the satellite insert to fail")
	}

	var count int
	if err := db.QueryRow(ctx,
		`SELECT COUNT(*) FROM chatbots WHERE name = $1`, "Doomed Agent",
	).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("core row survived a failed create: %d rows", count)
	}
}

func TestUpdate_FilterTagReplacement(t *testing.T) {
	repo, db := setupIntegration(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, integrationInput("Tag Agent"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	in := integrationInput("Tag Agent")
	in.VectorConfig.Filters = []string{"labor", "civil"} // drops contracts+tax, adds civil
	if _, err := repo.Update(ctx, created.ID, in); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	gotTags := sorted(got.VectorConfig.Filters)
	if len(gotTags) != 2 || gotTags[0] != "civil" || gotTags[1] != "labor" {
		t.Fatalf("filters = %v, want [civil labor]", gotTags)
	}

	// Repeating the same update must not duplicate or churn rows.
	if _, err := repo.Update(ctx, created.ID, in); err != nil {
		t.Fatalf("repeat update: %v", err)
	}
	var count int
	if err := db.QueryRow(ctx, `
		SELECT COUNT(*) FROM agent_vector_filters f
		JOIN agent_vector_configs v ON v.id = f.vector_config_id
		WHERE v.chatbot_id = $1`, created.ID,
	).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("filter rows = %d after idempotent update, want 2", count)
	}
}

func TestUpdate_Errors(t *testing.T) {
	repo, db := setupIntegration(t)
	ctx := context.Background()

	if _, err := repo.Update(ctx, 999999, integrationInput("Ghost")); !errors.Is(err, agents.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	created, err := repo.Create(ctx, integrationInput("Fragile Agent"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// Remove the guaranteed satellite out of band.
	if _, err := db.Exec(ctx,
		`DELETE FROM agent_ai_configs WHERE chatbot_id = $1`, created.ID,
	); err != nil {
		t.Fatalf("delete ai config: %v", err)
	}

	_, err = repo.Update(ctx, created.ID, integrationInput("Fragile Agent"))
	if !errors.Is(err, agents.ErrAggregateCorrupt) {
		t.Fatalf("expected ErrAggregateCorrupt, got %v", err)
	}
}

func TestCreate_ConcurrentSameName(t *testing.T) {
	repo, _ := setupIntegration(t)
	ctx := context.Background()

	const n = 4
	slugs := make([]string, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, err := repo.Create(ctx, integrationInput("Shared Name"))
			if err != nil {
				errs[i] = err
				return
			}
			slugs[i] = a.Identity.Slug
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("concurrent create %d: %v", i, errs[i])
		}
		if seen[slugs[i]] {
			t.Fatalf("duplicate slug %q", slugs[i])
		}
		seen[slugs[i]] = true
	}
}
