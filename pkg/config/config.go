// Package config resolves service settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/barekit/orbitai/pkg/deploy"
	"github.com/barekit/orbitai/pkg/llm"
	"github.com/barekit/orbitai/pkg/llm/gemini"
	"github.com/barekit/orbitai/pkg/llm/openai"
	"github.com/barekit/orbitai/pkg/orbit"
	"github.com/barekit/orbitai/pkg/session"
)

// Knowledge store kinds.
const (
	KnowledgeNone     = "none"
	KnowledgeQdrant   = "qdrant"
	KnowledgePostgres = "postgres"
)

// Config is the resolved service configuration.
type Config struct {
	Port      int
	LogLevel  string
	LogFormat string

	SessionTTL    time.Duration
	SessionSweep  time.Duration
	BackendURL    string
	BackendTimeout time.Duration
	CORSOrigins   []string

	GroqAPIKey   string
	GroqBaseURL  string
	GroqModel    string
	OpenAIAPIKey string
	GeminiAPIKey string
	GeminiModel  string
	LLMTimeout   time.Duration

	LedgerType string
	LedgerConn string
	LedgerUser string
	LedgerPass string
	LedgerDB   string

	KnowledgeStore string
	QdrantHost     string
	QdrantPort     int
	KnowledgeDSN   string

	PreflightEnabled bool
	RPCs             map[orbit.ParentChain]string
}

func defaults(v *viper.Viper) {
	v.SetDefault("port", 8000)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("session_ttl_seconds", int(session.DefaultTTL/time.Second))
	v.SetDefault("session_sweep_seconds", 0)
	v.SetDefault("backend_url", deploy.DefaultBaseURL)
	v.SetDefault("backend_timeout_seconds", int(deploy.DefaultTimeout/time.Second))
	v.SetDefault("cors_origins", "*")
	v.SetDefault("groq_base_url", openai.GroqBaseURL)
	v.SetDefault("groq_model", openai.GroqModel)
	v.SetDefault("gemini_model", gemini.DefaultModel)
	v.SetDefault("llm_timeout_seconds", int(llm.DefaultTimeout/time.Second))
	v.SetDefault("ledger_type", "inmemory")
	v.SetDefault("knowledge_store", KnowledgeNone)
	v.SetDefault("qdrant_host", "localhost")
	v.SetDefault("qdrant_port", 6334)
	v.SetDefault("preflight_enabled", false)
}

// Load reads envFile when it exists, then resolves every key from the environment.
// Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	defaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Port:      v.GetInt("port"),
		LogLevel:  strings.ToLower(v.GetString("log_level")),
		LogFormat: strings.ToLower(v.GetString("log_format")),

		SessionTTL:    seconds(v, "session_ttl_seconds"),
		SessionSweep:  seconds(v, "session_sweep_seconds"),
		BackendURL:    v.GetString("backend_url"),
		BackendTimeout: seconds(v, "backend_timeout_seconds"),
		CORSOrigins:   splitList(v.GetString("cors_origins")),

		GroqAPIKey:   v.GetString("groq_api_key"),
		GroqBaseURL:  v.GetString("groq_base_url"),
		GroqModel:    v.GetString("groq_model"),
		OpenAIAPIKey: v.GetString("openai_api_key"),
		GeminiAPIKey: v.GetString("gemini_api_key"),
		GeminiModel:  v.GetString("gemini_model"),
		LLMTimeout:   seconds(v, "llm_timeout_seconds"),

		LedgerType: v.GetString("ledger_type"),
		LedgerConn: v.GetString("ledger_conn"),
		LedgerUser: v.GetString("ledger_user"),
		LedgerPass: v.GetString("ledger_pass"),
		LedgerDB:   v.GetString("ledger_db"),

		KnowledgeStore: strings.ToLower(v.GetString("knowledge_store")),
		QdrantHost:     v.GetString("qdrant_host"),
		QdrantPort:     v.GetInt("qdrant_port"),
		KnowledgeDSN:   v.GetString("knowledge_dsn"),

		PreflightEnabled: v.GetBool("preflight_enabled"),
		RPCs: map[orbit.ParentChain]string{
			orbit.ParentArbitrumSepolia: v.GetString("rpc_arbitrum_sepolia"),
			orbit.ParentArbitrumOne:     v.GetString("rpc_arbitrum_one"),
			orbit.ParentArbitrumNova:    v.GetString("rpc_arbitrum_nova"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT: %d", c.Port)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid LOG_FORMAT: %q", c.LogFormat)
	}
	switch c.KnowledgeStore {
	case KnowledgeNone, KnowledgeQdrant:
	case KnowledgePostgres:
		if c.KnowledgeDSN == "" {
			return errors.New("KNOWLEDGE_DSN is required for the postgres knowledge store")
		}
	default:
		return fmt.Errorf("invalid KNOWLEDGE_STORE: %q", c.KnowledgeStore)
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL_SECONDS must be positive")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func seconds(v *viper.Viper, key string) time.Duration {
	return time.Duration(v.GetInt(key)) * time.Second
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
