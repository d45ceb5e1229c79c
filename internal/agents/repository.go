package agents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/arsdatascience/elite-finder-platform/internal/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when an agent is not found in the database.
var ErrNotFound = errors.New("agent not found")

// ErrAggregateCorrupt is returned when a 1:1 satellite row that Create
// guarantees is missing during an update. Every agent gets its AI config
// row in the same transaction that creates it, so a zero-row update there
// means the aggregate has been tampered with out of band.
var ErrAggregateCorrupt = errors.New("agent aggregate corrupt: ai config row missing")

// Repository persists the agent aggregate across the chatbots table and
// its satellites. All writes run inside a single transaction.
type Repository struct {
	db *pgxpool.Pool
	tx *database.TxRunner
}

// NewRepository creates a Repository over the given pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db, tx: database.NewTxRunner(db)}
}

// Create inserts the full aggregate in one transaction: core row, AI
// config, vector config, filter tags, prompts, and whatsapp config. Any
// failure rolls everything back; no partial aggregate is ever visible.
func (r *Repository) Create(ctx context.Context, in *Input) (*Agent, error) {
	in.applyDefaults()

	advanced, err := json.Marshal(in.AdvancedConfig)
	if err != nil {
		return nil, fmt.Errorf("marshal advanced settings: %w", err)
	}

	agent := &Agent{
		Identity:       in.Identity,
		AIConfig:       in.AIConfig,
		AdvancedConfig: in.AdvancedConfig,
		VectorConfig:   in.VectorConfig,
		Prompts:        in.Prompts,
		WhatsAppConfig: in.WhatsAppConfig,
	}
	agent.VectorConfig.Filters = dedupeTags(in.VectorConfig.Filters)

	err = r.tx.RunInTx(ctx, func(tx pgx.Tx) error {
		slug, err := uniqueSlug(ctx, tx, in.Identity.Name)
		if err != nil {
			return err
		}
		agent.Identity.Slug = slug

		err = tx.QueryRow(ctx, `
			INSERT INTO chatbots (name, description, category, class, specialization_level, status, advanced_settings, client_id, slug)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id, created_at, updated_at`,
			in.Identity.Name, in.Identity.Description, in.Identity.Category,
			in.Identity.Class, in.Identity.SpecializationLevel, in.Identity.Status,
			advanced, in.Identity.ClientID, slug,
		).Scan(&agent.ID, &agent.CreatedAt, &agent.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert agent: %w", err)
		}

		if err := insertAIConfig(ctx, tx, agent.ID, &in.AIConfig); err != nil {
			return err
		}

		vectorID, err := upsertVectorConfig(ctx, tx, agent.ID, &in.VectorConfig)
		if err != nil {
			return err
		}

		for _, tag := range agent.VectorConfig.Filters {
			if _, err := tx.Exec(ctx, `
				INSERT INTO agent_vector_filters (vector_config_id, filter_tag)
				VALUES ($1, $2)`, vectorID, tag,
			); err != nil {
				return fmt.Errorf("insert filter tag %q: %w", tag, err)
			}
		}

		if err := upsertPrompts(ctx, tx, agent.ID, &in.Prompts); err != nil {
			return err
		}
		return upsertWhatsAppConfig(ctx, tx, agent.ID, &in.WhatsAppConfig)
	})
	if err != nil {
		return nil, err
	}
	return agent, nil
}

// Update rewrites the aggregate in one transaction. A row lock on the
// core row is held for the duration so two concurrent updates of the
// same agent serialise instead of losing filter tags to interleaved
// delete/insert.
func (r *Repository) Update(ctx context.Context, id int64, in *Input) (*Agent, error) {
	in.applyDefaults()

	advanced, err := json.Marshal(in.AdvancedConfig)
	if err != nil {
		return nil, fmt.Errorf("marshal advanced settings: %w", err)
	}

	agent := &Agent{
		ID:             id,
		Identity:       in.Identity,
		AIConfig:       in.AIConfig,
		AdvancedConfig: in.AdvancedConfig,
		VectorConfig:   in.VectorConfig,
		Prompts:        in.Prompts,
		WhatsAppConfig: in.WhatsAppConfig,
	}
	agent.VectorConfig.Filters = dedupeTags(in.VectorConfig.Filters)

	err = r.tx.RunInTx(ctx, func(tx pgx.Tx) error {
		var locked int64
		err := tx.QueryRow(ctx,
			`SELECT id FROM chatbots WHERE id = $1 FOR UPDATE`, id,
		).Scan(&locked)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock agent row: %w", err)
		}

		err = tx.QueryRow(ctx, `
			UPDATE chatbots SET
				name = $1, description = $2, category = $3, class = $4,
				specialization_level = $5, status = $6, advanced_settings = $7,
				client_id = $8, updated_at = CURRENT_TIMESTAMP
			WHERE id = $9
			RETURNING slug, created_at, updated_at`,
			in.Identity.Name, in.Identity.Description, in.Identity.Category,
			in.Identity.Class, in.Identity.SpecializationLevel, in.Identity.Status,
			advanced, in.Identity.ClientID, id,
		).Scan(&agent.Identity.Slug, &agent.CreatedAt, &agent.UpdatedAt)
		if err != nil {
			return fmt.Errorf("update agent: %w", err)
		}

		// No insert fallback here: Create guarantees this row, so a
		// zero-row update is a broken invariant, not a first write.
		tag, err := tx.Exec(ctx, `
			UPDATE agent_ai_configs SET
				provider = $1, model = $2, temperature = $3, top_p = $4, top_k = $5,
				max_tokens = $6, timeout = $7, retries = $8, frequency_penalty = $9,
				presence_penalty = $10, stop_sequences = $11, response_mode = $12,
				candidate_count = $13, seed = $14, json_mode = $15
			WHERE chatbot_id = $16`,
			in.AIConfig.Provider, in.AIConfig.Model, in.AIConfig.Temperature,
			in.AIConfig.TopP, in.AIConfig.TopK, in.AIConfig.MaxTokens,
			in.AIConfig.Timeout, in.AIConfig.Retries, in.AIConfig.FrequencyPenalty,
			in.AIConfig.PresencePenalty, in.AIConfig.StopSequences,
			in.AIConfig.ResponseMode, in.AIConfig.CandidateCount, in.AIConfig.Seed,
			in.AIConfig.JSONMode, id,
		)
		if err != nil {
			return fmt.Errorf("update ai config: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrAggregateCorrupt
		}

		vectorID, err := upsertVectorConfig(ctx, tx, id, &in.VectorConfig)
		if err != nil {
			return err
		}

		if err := replaceFilterTags(ctx, tx, vectorID, agent.VectorConfig.Filters); err != nil {
			return err
		}

		if err := upsertPrompts(ctx, tx, id, &in.Prompts); err != nil {
			return err
		}
		return upsertWhatsAppConfig(ctx, tx, id, &in.WhatsAppConfig)
	})
	if err != nil {
		return nil, err
	}
	return agent, nil
}

// Get assembles the aggregate view. The core row and each satellite are
// read independently; missing satellites render as empty sub-objects.
func (r *Repository) Get(ctx context.Context, id int64) (*Agent, error) {
	agent := &Agent{ID: id, AdvancedConfig: map[string]any{}}

	var advanced []byte
	err := r.db.QueryRow(ctx, `
		SELECT name, description, category, class, specialization_level, status,
		       advanced_settings, client_id, slug, created_at, updated_at
		FROM chatbots WHERE id = $1`, id,
	).Scan(
		&agent.Identity.Name, &agent.Identity.Description, &agent.Identity.Category,
		&agent.Identity.Class, &agent.Identity.SpecializationLevel, &agent.Identity.Status,
		&advanced, &agent.Identity.ClientID, &agent.Identity.Slug,
		&agent.CreatedAt, &agent.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get agent: %w", err)
	}
	if len(advanced) > 0 {
		if err := json.Unmarshal(advanced, &agent.AdvancedConfig); err != nil {
			return nil, fmt.Errorf("unmarshal advanced settings: %w", err)
		}
	}

	if err := r.readAIConfig(ctx, id, &agent.AIConfig); err != nil {
		return nil, err
	}

	vectorID, err := r.readVectorConfig(ctx, id, &agent.VectorConfig)
	if err != nil {
		return nil, err
	}
	if vectorID != 0 {
		if agent.VectorConfig.Filters, err = r.readFilterTags(ctx, vectorID); err != nil {
			return nil, err
		}
	}
	if agent.VectorConfig.Filters == nil {
		agent.VectorConfig.Filters = []string{}
	}

	if err := r.readPrompts(ctx, id, &agent.Prompts); err != nil {
		return nil, err
	}
	if err := r.readWhatsAppConfig(ctx, id, &agent.WhatsAppConfig); err != nil {
		return nil, err
	}
	return agent, nil
}

// List returns the summary projection, newest first, optionally filtered
// by client.
func (r *Repository) List(ctx context.Context, clientID *int64) ([]Summary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, category, status, client_id, created_at
		FROM chatbots
		WHERE $1::bigint IS NULL OR client_id = $1
		ORDER BY created_at DESC`, clientID)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.Status, &s.ClientID, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetPublicBySlug returns the unauthenticated view of an active agent.
func (r *Repository) GetPublicBySlug(ctx context.Context, slug string) (*PublicAgent, error) {
	var p PublicAgent
	err := r.db.QueryRow(ctx, `
		SELECT id, name, description, category, class, specialization_level, slug
		FROM chatbots WHERE slug = $1 AND status = 'active'`, slug,
	).Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Class, &p.SpecializationLevel, &p.Slug)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get public agent: %w", err)
	}

	// Model identity only; secrets and prompts stay server-side.
	err = r.db.QueryRow(ctx,
		`SELECT provider, model FROM agent_ai_configs WHERE chatbot_id = $1`, p.ID,
	).Scan(&p.Provider, &p.Model)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get public ai config: %w", err)
	}
	return &p, nil
}

// ── Satellite writes ─────────────────────────────────────────────────────

func insertAIConfig(ctx context.Context, tx pgx.Tx, agentID int64, c *AIConfig) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO agent_ai_configs (
			chatbot_id, provider, model, temperature, top_p, top_k, max_tokens,
			timeout, retries, frequency_penalty, presence_penalty, stop_sequences,
			response_mode, candidate_count, seed, json_mode
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		agentID, c.Provider, c.Model, c.Temperature, c.TopP, c.TopK, c.MaxTokens,
		c.Timeout, c.Retries, c.FrequencyPenalty, c.PresencePenalty, c.StopSequences,
		c.ResponseMode, c.CandidateCount, c.Seed, c.JSONMode,
	)
	if err != nil {
		return fmt.Errorf("insert ai config: %w", err)
	}
	return nil
}

// upsertVectorConfig writes the vector config in a single round trip and
// returns its surrogate id, for both the create and update paths.
func upsertVectorConfig(ctx context.Context, tx pgx.Tx, agentID int64, c *VectorConfig) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO agent_vector_configs (
			chatbot_id, chunking_mode, chunk_size, sensitivity, context_window,
			relevance_threshold, search_mode, enable_reranking, chunking_strategy,
			chunk_delimiter, max_chunk_size, chunk_overlap
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (chatbot_id) DO UPDATE SET
			chunking_mode = EXCLUDED.chunking_mode,
			chunk_size = EXCLUDED.chunk_size,
			sensitivity = EXCLUDED.sensitivity,
			context_window = EXCLUDED.context_window,
			relevance_threshold = EXCLUDED.relevance_threshold,
			search_mode = EXCLUDED.search_mode,
			enable_reranking = EXCLUDED.enable_reranking,
			chunking_strategy = EXCLUDED.chunking_strategy,
			chunk_delimiter = EXCLUDED.chunk_delimiter,
			max_chunk_size = EXCLUDED.max_chunk_size,
			chunk_overlap = EXCLUDED.chunk_overlap
		RETURNING id`,
		agentID, c.ChunkingMode, c.ChunkSize, c.Sensitivity, c.ContextWindow,
		c.RelevanceThreshold, c.SearchMode, c.EnableReranking, c.ChunkingStrategy,
		c.ChunkDelimiter, c.MaxChunkSize, c.ChunkOverlap,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert vector config: %w", err)
	}
	return id, nil
}

// replaceFilterTags reconciles the stored tag set with want using a
// set-diff rather than delete-all-then-insert. The caller holds the row
// lock on the parent chatbots row.
func replaceFilterTags(ctx context.Context, tx pgx.Tx, vectorID int64, want []string) error {
	rows, err := tx.Query(ctx,
		`SELECT filter_tag FROM agent_vector_filters WHERE vector_config_id = $1`, vectorID)
	if err != nil {
		return fmt.Errorf("read filter tags: %w", err)
	}
	existing := make(map[string]bool)
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			rows.Close()
			return err
		}
		existing[tag] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	wanted := make(map[string]bool, len(want))
	for _, tag := range want {
		wanted[tag] = true
		if !existing[tag] {
			if _, err := tx.Exec(ctx, `
				INSERT INTO agent_vector_filters (vector_config_id, filter_tag)
				VALUES ($1, $2)`, vectorID, tag,
			); err != nil {
				return fmt.Errorf("insert filter tag %q: %w", tag, err)
			}
		}
	}
	for tag := range existing {
		if !wanted[tag] {
			if _, err := tx.Exec(ctx, `
				DELETE FROM agent_vector_filters
				WHERE vector_config_id = $1 AND filter_tag = $2`, vectorID, tag,
			); err != nil {
				return fmt.Errorf("delete filter tag %q: %w", tag, err)
			}
		}
	}
	return nil
}

func upsertPrompts(ctx context.Context, tx pgx.Tx, agentID int64, p *PromptSet) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO agent_prompts (
			chatbot_id, system_prompt, response_structure_prompt, vector_search_prompt,
			analysis_prompt, complex_cases_prompt, validation_prompt, script_content
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (chatbot_id) DO UPDATE SET
			system_prompt = EXCLUDED.system_prompt,
			response_structure_prompt = EXCLUDED.response_structure_prompt,
			vector_search_prompt = EXCLUDED.vector_search_prompt,
			analysis_prompt = EXCLUDED.analysis_prompt,
			complex_cases_prompt = EXCLUDED.complex_cases_prompt,
			validation_prompt = EXCLUDED.validation_prompt,
			script_content = EXCLUDED.script_content`,
		agentID, p.System, p.ResponseStructure, p.VectorSearch,
		p.Analysis, p.ComplexCases, p.Validation, p.ScriptContent,
	)
	if err != nil {
		return fmt.Errorf("upsert prompts: %w", err)
	}
	return nil
}

func upsertWhatsAppConfig(ctx context.Context, tx pgx.Tx, agentID int64, c *WhatsAppConfig) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO agent_whatsapp_configs (
			chatbot_id, enabled, provider,
			evolution_base_url, evolution_api_key, evolution_instance_name,
			official_phone_number_id, official_access_token, official_verify_token
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (chatbot_id) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			provider = EXCLUDED.provider,
			evolution_base_url = EXCLUDED.evolution_base_url,
			evolution_api_key = EXCLUDED.evolution_api_key,
			evolution_instance_name = EXCLUDED.evolution_instance_name,
			official_phone_number_id = EXCLUDED.official_phone_number_id,
			official_access_token = EXCLUDED.official_access_token,
			official_verify_token = EXCLUDED.official_verify_token`,
		agentID, c.Enabled, c.Provider,
		nullable(c.Evolution.BaseURL), nullable(c.Evolution.APIKey), nullable(c.Evolution.InstanceName),
		nullable(c.Official.PhoneNumberID), nullable(c.Official.AccessToken), nullable(c.Official.VerifyToken),
	)
	if err != nil {
		return fmt.Errorf("upsert whatsapp config: %w", err)
	}
	return nil
}

// ── Satellite reads ──────────────────────────────────────────────────────

func (r *Repository) readAIConfig(ctx context.Context, id int64, c *AIConfig) error {
	err := r.db.QueryRow(ctx, `
		SELECT provider, model, temperature::float8, top_p::float8, top_k, max_tokens,
		       timeout, retries, frequency_penalty::float8, presence_penalty::float8,
		       stop_sequences, response_mode, candidate_count, seed, json_mode
		FROM agent_ai_configs WHERE chatbot_id = $1`, id,
	).Scan(
		&c.Provider, &c.Model, &c.Temperature, &c.TopP, &c.TopK, &c.MaxTokens,
		&c.Timeout, &c.Retries, &c.FrequencyPenalty, &c.PresencePenalty,
		&c.StopSequences, &c.ResponseMode, &c.CandidateCount, &c.Seed, &c.JSONMode,
	)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("read ai config: %w", err)
	}
	return nil
}

func (r *Repository) readVectorConfig(ctx context.Context, id int64, c *VectorConfig) (int64, error) {
	var vectorID int64
	err := r.db.QueryRow(ctx, `
		SELECT id, chunking_mode, chunk_size, sensitivity, context_window,
		       relevance_threshold::float8, search_mode, enable_reranking,
		       chunking_strategy, chunk_delimiter, max_chunk_size, chunk_overlap
		FROM agent_vector_configs WHERE chatbot_id = $1`, id,
	).Scan(
		&vectorID, &c.ChunkingMode, &c.ChunkSize, &c.Sensitivity, &c.ContextWindow,
		&c.RelevanceThreshold, &c.SearchMode, &c.EnableReranking,
		&c.ChunkingStrategy, &c.ChunkDelimiter, &c.MaxChunkSize, &c.ChunkOverlap,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read vector config: %w", err)
	}
	return vectorID, nil
}

func (r *Repository) readFilterTags(ctx context.Context, vectorID int64) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT filter_tag FROM agent_vector_filters WHERE vector_config_id = $1`, vectorID)
	if err != nil {
		return nil, fmt.Errorf("read filter tags: %w", err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (r *Repository) readPrompts(ctx context.Context, id int64, p *PromptSet) error {
	err := r.db.QueryRow(ctx, `
		SELECT system_prompt, response_structure_prompt, vector_search_prompt,
		       analysis_prompt, complex_cases_prompt, validation_prompt, script_content
		FROM agent_prompts WHERE chatbot_id = $1`, id,
	).Scan(
		&p.System, &p.ResponseStructure, &p.VectorSearch,
		&p.Analysis, &p.ComplexCases, &p.Validation, &p.ScriptContent,
	)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("read prompts: %w", err)
	}
	return nil
}

func (r *Repository) readWhatsAppConfig(ctx context.Context, id int64, c *WhatsAppConfig) error {
	err := r.db.QueryRow(ctx, `
		SELECT enabled, provider,
		       COALESCE(evolution_base_url, ''), COALESCE(evolution_api_key, ''),
		       COALESCE(evolution_instance_name, ''), COALESCE(official_phone_number_id, ''),
		       COALESCE(official_access_token, ''), COALESCE(official_verify_token, '')
		FROM agent_whatsapp_configs WHERE chatbot_id = $1`, id,
	).Scan(
		&c.Enabled, &c.Provider,
		&c.Evolution.BaseURL, &c.Evolution.APIKey, &c.Evolution.InstanceName,
		&c.Official.PhoneNumberID, &c.Official.AccessToken, &c.Official.VerifyToken,
	)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("read whatsapp config: %w", err)
	}
	return nil
}

// ── Helpers ──────────────────────────────────────────────────────────────

func dedupeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// uniqueSlug derives a URL slug from name and suffixes a counter until it
// is free. Runs inside the create transaction. The advisory lock
// serialises concurrent creates that collide on the same base slug; the
// EXISTS probe alone would let both see the slug free and one commit die
// on the UNIQUE constraint.
func uniqueSlug(ctx context.Context, tx pgx.Tx, name string) (string, error) {
	base := slugify(name)

	if _, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1))`, base,
	); err != nil {
		return "", fmt.Errorf("lock slug namespace: %w", err)
	}

	slug := base
	for i := 1; ; i++ {
		var exists bool
		err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM chatbots WHERE slug = $1)`, slug,
		).Scan(&exists)
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

var slugAccents = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a", "ä", "a",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"í", "i", "ì", "i", "î", "i", "ï", "i",
	"ó", "o", "ò", "o", "ô", "o", "õ", "o", "ö", "o",
	"ú", "u", "ù", "u", "û", "u", "ü", "u",
	"ç", "c", "ñ", "n",
)

func slugify(name string) string {
	s := slugAccents.Replace(strings.ToLower(name))
	var b strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "agent"
	}
	return slug
}
