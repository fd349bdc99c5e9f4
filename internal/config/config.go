package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type Config struct {
	// HTTP surface
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`

	// LLM settings. The OpenAI-compatible defaults point at Groq, which
	// the chatroom uses as its completion backend. When GROQ_API_KEY is
	// empty, each visitor must supply a key when joining.
	LLMProvider      LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	GroqAPIKey       string      `env:"GROQ_API_KEY"`
	GroqBaseURL      string      `env:"GROQ_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	GroqModel        string      `env:"GROQ_MODEL" envDefault:"llama3-8b-8192"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`

	// Trigger words: a user message starting with one of these
	// (case-insensitive) causes an assistant turn.
	TriggerWords []string `env:"TRIGGER_WORDS" envSeparator:":" envDefault:"nurt:decide"`

	// Market data
	PriceBaseURL string `env:"PRICE_BASE_URL" envDefault:"https://api.coindesk.com"`

	// Prompts
	SystemPromptPath string `env:"SYSTEM_PROMPT_PATH" envDefault:"prompts/system_prompt.txt"`

	// Storage
	HistoryFilePath string `env:"HISTORY_FILE_PATH" envDefault:"data/chat_history.json"`
	PrefsFilePath   string `env:"PREFS_FILE_PATH" envDefault:"data/user_prefs.json"`
	TurnLogPath     string `env:"TURN_LOG_PATH" envDefault:"logs/turns.jsonl"`

	// How often the shared history file is re-checked for writes made
	// by other processes.
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"1s"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
