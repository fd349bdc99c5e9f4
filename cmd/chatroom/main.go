package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"multichat/internal/chat"
	"multichat/internal/config"
	"multichat/internal/llm"
	"multichat/internal/poller"
	"multichat/internal/prefs"
	"multichat/internal/price"
	"multichat/internal/room"
	"multichat/internal/storage"
	"multichat/internal/web"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	store, err := chat.NewStore(cfg.HistoryFilePath)
	if err != nil {
		log.Fatalf("failed to init history store: %v", err)
	}

	prefRepo, err := prefs.NewFileRepository(cfg.PrefsFilePath)
	if err != nil {
		log.Fatalf("failed to init prefs repo: %v", err)
	}

	factory := llm.NewFactory(cfg)

	// When the server carries its own key every visitor shares one
	// client; otherwise visitors bring a key when joining.
	var defaultClient llm.Client
	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		if cfg.GroqAPIKey != "" {
			defaultClient = llm.NewOpenAI(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.GroqModel)
		} else {
			log.Printf("no GROQ_API_KEY configured, visitors must supply their own key")
		}
	case config.ProviderYandex:
		c, err := factory.CreateClient(llm.ProviderYandex, "")
		if err != nil {
			log.Fatalf("failed to create llm client: %v", err)
		}
		defaultClient = c
	default:
		log.Fatalf("unknown llm provider: %s", cfg.LLMProvider)
	}

	var rec storage.Recorder
	if cfg.TurnLogPath != "" {
		fr, err := storage.NewFileRecorder(cfg.TurnLogPath)
		if err != nil {
			log.Printf("failed to init turn recorder: %v", err)
		} else {
			rec = fr
		}
	}

	systemPrompt := readSystemPrompt(cfg.SystemPromptPath)
	fetcher := price.New(cfg.PriceBaseURL)

	roomSvc := room.New(store, prefRepo, fetcher, factory, defaultClient, rec, cfg.TriggerWords, systemPrompt)

	p := poller.New(store, cfg.PollInterval)
	if err := p.Start(); err != nil {
		log.Fatalf("failed to start poller: %v", err)
	}
	defer p.Stop()

	srv := web.NewServer(roomSvc, p, cfg.PollInterval)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Printf("shutting down")
		if err := srv.Stop(); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}()

	if err := srv.Start(cfg.ListenAddr); err != nil {
		log.Printf("server stopped: %v", err)
	}
}

func readSystemPrompt(path string) string {
	if path == "" {
		return ""
	}
	b, err := os.ReadFile(path)
	if err != nil {
		log.Printf("failed to read system prompt %s: %v", path, err)
		return ""
	}
	return strings.TrimSpace(string(b))
}
