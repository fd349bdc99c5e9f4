// Package room runs chatroom turns: it appends visitor messages to the
// shared history, decides whether a trigger word fired, and when one
// did, folds the market price and the visitor's interests into a
// decision note and asks the completion backend for a reply.
package room

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"multichat/internal/chat"
	"multichat/internal/decision"
	"multichat/internal/identity"
	"multichat/internal/llm"
	"multichat/internal/prefs"
	"multichat/internal/storage"
)

var (
	ErrUsernameRequired = errors.New("username is required")
	ErrAPIKeyRequired   = errors.New("api key is required")
)

// PriceFetcher is satisfied by price.Client.
type PriceFetcher interface {
	Fetch(ctx context.Context) (float64, error)
}

// Session is one visitor's seat in the room. Client is the completion
// client serving this visitor: the server-wide one when the server is
// configured with a key, otherwise one built from the key the visitor
// supplied on join.
type Session struct {
	Token     string
	Username  string
	Icon      string
	Interests []string
	Client    llm.Client
}

type Service struct {
	store         *chat.Store
	prefs         *prefs.FileRepository
	price         PriceFetcher
	factory       *llm.Factory
	defaultClient llm.Client
	recorder      storage.Recorder
	triggers      []string
	systemPrompt  string

	mu       sync.RWMutex
	sessions map[string]*Session
}

func New(store *chat.Store, prefRepo *prefs.FileRepository, fetcher PriceFetcher, factory *llm.Factory, defaultClient llm.Client, rec storage.Recorder, triggers []string, systemPrompt string) *Service {
	return &Service{
		store:         store,
		prefs:         prefRepo,
		price:         fetcher,
		factory:       factory,
		defaultClient: defaultClient,
		recorder:      rec,
		triggers:      triggers,
		systemPrompt:  systemPrompt,
		sessions:      make(map[string]*Session),
	}
}

// RequiresAPIKey reports whether visitors must bring their own key.
func (s *Service) RequiresAPIKey() bool {
	return s.defaultClient == nil
}

// Join admits a visitor: derives their glyph, persists their interests
// (overwriting whatever an earlier visit stored), and hands back a
// session token. A join with no username, or with no usable completion
// client, is rejected and the visitor stays blocked.
func (s *Service) Join(username, interestsRaw, apiKey string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}

	client := s.defaultClient
	if apiKey != "" {
		c, err := s.factory.CreateClient(llm.ProviderOpenAI, apiKey)
		if err != nil {
			return nil, fmt.Errorf("create llm client: %w", err)
		}
		client = c
	}
	if client == nil {
		return nil, ErrAPIKeyRequired
	}

	interests := prefs.ParseInterests(interestsRaw)
	if err := s.prefs.Upsert(username, prefs.Profile{Interests: interests}); err != nil {
		return nil, fmt.Errorf("save interests: %w", err)
	}

	sess := &Session{
		Token:     uuid.NewString(),
		Username:  username,
		Icon:      identity.IconFor(username),
		Interests: interests,
		Client:    client,
	}
	s.mu.Lock()
	s.sessions[sess.Token] = sess
	s.mu.Unlock()
	log.Printf("👋 %s joined the room as %s", username, sess.Icon)
	return sess, nil
}

// Session resolves a token issued by Join.
func (s *Service) Session(token string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[token]
	return sess, ok
}

// TurnResult carries the records a turn appended. Assistant is nil when
// no trigger fired or the completion failed.
type TurnResult struct {
	UserMessage chat.Message
	Assistant   *chat.Message
}

// HandleMessage runs one turn. The visitor's message is appended and
// persisted first, unconditionally. When the message starts with a
// trigger word the price is fetched (failure is non-fatal and turns
// into the "unavailable" wording), the decision note is composed from
// the visitor's stored interests, and the full history plus the note is
// sent to the completion backend. A completion failure is returned to
// the caller and leaves the history with only the visitor's message.
func (s *Service) HandleMessage(ctx context.Context, sess *Session, text string) (TurnResult, error) {
	userMsg := chat.Message{
		Role:       chat.RoleUser,
		Icon:       sess.Icon,
		Content:    text,
		SenderName: sess.Username,
	}
	if err := s.store.Append(userMsg); err != nil {
		return TurnResult{}, fmt.Errorf("persist message: %w", err)
	}
	res := TurnResult{UserMessage: userMsg}

	if !s.triggered(text) {
		s.record(storage.Event{Username: sess.Username, UserMessage: text})
		return res, nil
	}

	btcPrice, err := s.price.Fetch(ctx)
	priceKnown := err == nil
	if err != nil {
		log.Printf("price fetch failed, continuing without it: %v", err)
	}
	note := decision.Compose(sess.Interests, btcPrice, priceKnown)

	history, err := s.store.Load()
	if err != nil {
		return res, fmt.Errorf("load history: %w", err)
	}
	msgs := make([]llm.Message, 0, len(history)+2)
	if s.systemPrompt != "" {
		msgs = append(msgs, llm.Message{Role: "system", Content: s.systemPrompt})
	}
	for _, m := range history {
		msgs = append(msgs, llm.Message{Role: m.Role, Content: m.Content})
	}
	msgs = append(msgs, llm.Message{Role: "system", Content: note})

	resp, err := sess.Client.Generate(ctx, msgs)
	if err != nil {
		s.record(storage.Event{Username: sess.Username, UserMessage: text})
		return res, fmt.Errorf("generate response: %w", err)
	}

	asstMsg := chat.Message{
		Role:    chat.RoleAssistant,
		Icon:    chat.AssistantIcon,
		Content: resp.Content,
	}
	if err := s.store.Append(asstMsg); err != nil {
		return res, fmt.Errorf("persist assistant message: %w", err)
	}
	res.Assistant = &asstMsg

	ev := storage.Event{Username: sess.Username, UserMessage: text, AssistantResponse: resp.Content}
	if priceKnown {
		ev.Price = btcPrice
	}
	s.record(ev)
	return res, nil
}

// Messages returns the full persisted history.
func (s *Service) Messages() ([]chat.Message, error) {
	return s.store.Load()
}

func (s *Service) triggered(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, w := range s.triggers {
		if w != "" && strings.HasPrefix(lower, strings.ToLower(w)) {
			return true
		}
	}
	return false
}

func (s *Service) record(ev storage.Event) {
	if s.recorder == nil {
		return
	}
	ev.Timestamp = time.Now()
	if err := s.recorder.AppendInteraction(ev); err != nil {
		log.Printf("failed to record turn: %v", err)
	}
}
