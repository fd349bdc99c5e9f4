package llm

import (
	"fmt"
	"strings"

	"multichat/internal/config"
)

const (
	ProviderOpenAI = "openai"
	ProviderYandex = "yandex"
)

// Factory creates LLM clients with consistent logic. The API key may be
// the server-wide one from config or a key supplied by a visitor when
// joining the room.
type Factory struct {
	BaseURL          string
	Model            string
	YandexOAuthToken string
	YandexFolderID   string
}

func NewFactory(cfg *config.Config) *Factory {
	return &Factory{
		BaseURL:          cfg.GroqBaseURL,
		Model:            cfg.GroqModel,
		YandexOAuthToken: cfg.YandexOAuthToken,
		YandexFolderID:   cfg.YandexFolderID,
	}
}

func (f *Factory) CreateClient(provider, apiKey string) (Client, error) {
	switch strings.ToLower(provider) {
	case ProviderOpenAI:
		if apiKey == "" {
			return nil, fmt.Errorf("api key is required for provider %s", provider)
		}
		return NewOpenAI(apiKey, f.BaseURL, f.Model), nil
	case ProviderYandex:
		return NewYandex(f.YandexOAuthToken, f.YandexFolderID)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", provider)
	}
}
