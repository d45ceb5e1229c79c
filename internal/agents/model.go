package agents

import "time"

// Agent statuses as stored in the chatbots table.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusDraft    = "draft"
)

// Messaging channel provider tags.
const (
	ProviderEvolution = "evolution_api"
	ProviderOfficial  = "official"
)

// Identity holds the core attributes of an agent.
type Identity struct {
	Name                string `json:"name"`
	Category            string `json:"category"`
	Description         string `json:"description"`
	Class               string `json:"class"`
	SpecializationLevel int    `json:"specializationLevel"`
	Status              string `json:"status"`
	Slug                string `json:"slug,omitempty"`
	ClientID            *int64 `json:"clientId,omitempty"`
}

// AIConfig is the 1:1 model-call configuration satellite.
type AIConfig struct {
	Provider         string   `json:"provider"`
	Model            string   `json:"model"`
	Temperature      float64  `json:"temperature"`
	TopP             float64  `json:"topP"`
	TopK             int      `json:"topK"`
	MaxTokens        int      `json:"maxTokens"`
	Timeout          int      `json:"timeout"`
	Retries          int      `json:"retries"`
	FrequencyPenalty float64  `json:"frequencyPenalty"`
	PresencePenalty  float64  `json:"presencePenalty"`
	StopSequences    []string `json:"stopSequences,omitempty"`
	ResponseMode     string   `json:"responseMode"`
	CandidateCount   int      `json:"candidateCount"`
	Seed             *int64   `json:"seed,omitempty"`
	JSONMode         bool     `json:"jsonMode"`
}

// VectorConfig is the 1:1 retrieval configuration satellite. Filters is
// a set: order carries no meaning and duplicates are rejected by the
// schema.
type VectorConfig struct {
	ChunkingMode       string   `json:"chunkingMode"`
	ChunkSize          int      `json:"chunkSize"`
	Sensitivity        string   `json:"sensitivity"`
	ContextWindow      int      `json:"contextWindow"`
	RelevanceThreshold float64  `json:"relevanceThreshold"`
	SearchMode         string   `json:"searchMode"`
	EnableReranking    bool     `json:"enableReranking"`
	ChunkingStrategy   string   `json:"chunkingStrategy"`
	ChunkDelimiter     string   `json:"chunkDelimiter"`
	MaxChunkSize       int      `json:"maxChunkSize"`
	ChunkOverlap       int      `json:"chunkOverlap"`
	Filters            []string `json:"filters"`
}

// PromptSet is the 1:1 prompt text satellite.
type PromptSet struct {
	System            string `json:"system"`
	ResponseStructure string `json:"responseStructure"`
	VectorSearch      string `json:"vectorSearch"`
	Analysis          string `json:"analysis"`
	ComplexCases      string `json:"complexCases"`
	Validation        string `json:"validation"`
	ScriptContent     string `json:"scriptContent"`
}

// EvolutionChannel is the Evolution API sub-config of the messaging
// channel, flattened into columns on write.
type EvolutionChannel struct {
	BaseURL      string `json:"baseUrl"`
	APIKey       string `json:"apiKey"`
	InstanceName string `json:"instanceName"`
}

// OfficialChannel is the WhatsApp Cloud API sub-config.
type OfficialChannel struct {
	PhoneNumberID string `json:"phoneNumberId"`
	AccessToken   string `json:"accessToken"`
	VerifyToken   string `json:"verifyToken"`
}

// WhatsAppConfig is the 1:1 messaging channel satellite.
type WhatsAppConfig struct {
	Enabled   bool             `json:"enabled"`
	Provider  string           `json:"provider"`
	Evolution EvolutionChannel `json:"evolution"`
	Official  OfficialChannel  `json:"official"`
}

// Agent is the merged view of the aggregate: core row plus all
// satellites.
type Agent struct {
	ID             int64          `json:"id"`
	Identity       Identity       `json:"identity"`
	AIConfig       AIConfig       `json:"aiConfig"`
	AdvancedConfig map[string]any `json:"advancedConfig"`
	VectorConfig   VectorConfig   `json:"vectorConfig"`
	Prompts        PromptSet      `json:"prompts"`
	WhatsAppConfig WhatsAppConfig `json:"whatsappConfig"`
	CreatedAt      time.Time      `json:"created_at,omitempty"`
	UpdatedAt      time.Time      `json:"updated_at,omitempty"`
}

// Input is the nested write shape accepted by Create and Update. It
// mirrors Agent minus generated fields.
type Input struct {
	Identity       Identity       `json:"identity"`
	AIConfig       AIConfig       `json:"aiConfig"`
	AdvancedConfig map[string]any `json:"advancedConfig"`
	VectorConfig   VectorConfig   `json:"vectorConfig"`
	Prompts        PromptSet      `json:"prompts"`
	WhatsAppConfig WhatsAppConfig `json:"whatsappConfig"`
}

// Summary is the list-view projection of the core row.
type Summary struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Status    string    `json:"status"`
	ClientID  *int64    `json:"client_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PublicAgent is the unauthenticated view exposed by slug. It carries
// no credentials and no prompt material beyond the model identity.
type PublicAgent struct {
	ID                  int64  `json:"id"`
	Name                string `json:"name"`
	Description         string `json:"description"`
	Category            string `json:"category"`
	Class               string `json:"class"`
	SpecializationLevel int    `json:"specializationLevel"`
	Slug                string `json:"slug"`
	Provider            string `json:"provider,omitempty"`
	Model               string `json:"model,omitempty"`
}

// applyDefaults fills the optional fields the UI may omit, matching the
// values the satellite columns default to.
func (in *Input) applyDefaults() {
	if in.AIConfig.ResponseMode == "" {
		in.AIConfig.ResponseMode = "balanced"
	}
	if in.AIConfig.CandidateCount == 0 {
		in.AIConfig.CandidateCount = 1
	}
	if in.VectorConfig.SearchMode == "" {
		in.VectorConfig.SearchMode = "semantic"
	}
	if in.VectorConfig.ChunkingStrategy == "" {
		in.VectorConfig.ChunkingStrategy = "paragraph"
	}
	if in.VectorConfig.ChunkDelimiter == "" {
		in.VectorConfig.ChunkDelimiter = "\n\n"
	}
	if in.VectorConfig.MaxChunkSize == 0 {
		in.VectorConfig.MaxChunkSize = 2048
	}
	if in.VectorConfig.ChunkOverlap == 0 {
		in.VectorConfig.ChunkOverlap = 100
	}
	if in.AdvancedConfig == nil {
		in.AdvancedConfig = map[string]any{}
	}
}
