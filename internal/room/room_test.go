package room

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"multichat/internal/chat"
	"multichat/internal/decision"
	"multichat/internal/identity"
	"multichat/internal/llm"
	"multichat/internal/prefs"
	"multichat/internal/price"
)

type fakeLLM struct {
	resp     llm.Response
	err      error
	calls    int
	lastMsgs []llm.Message
}

func (f *fakeLLM) Generate(_ context.Context, msgs []llm.Message) (llm.Response, error) {
	f.calls++
	f.lastMsgs = msgs
	if f.err != nil {
		return llm.Response{}, f.err
	}
	return f.resp, nil
}

type fakePrice struct {
	v   float64
	err error
}

func (f fakePrice) Fetch(context.Context) (float64, error) { return f.v, f.err }

func newTestRoom(t *testing.T, client llm.Client, fetcher PriceFetcher) (*Service, *chat.Store, *prefs.FileRepository) {
	t.Helper()
	dir := t.TempDir()
	store, err := chat.NewStore(filepath.Join(dir, "chat_history.json"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	prefRepo, err := prefs.NewFileRepository(filepath.Join(dir, "prefs.json"))
	if err != nil {
		t.Fatalf("init prefs: %v", err)
	}
	factory := &llm.Factory{BaseURL: "http://unused", Model: "test-model"}
	svc := New(store, prefRepo, fetcher, factory, client, nil, []string{"nurt", "decide"}, "")
	return svc, store, prefRepo
}

func lastSystemNote(t *testing.T, msgs []llm.Message) string {
	t.Helper()
	if len(msgs) == 0 {
		t.Fatalf("no messages sent to llm")
	}
	last := msgs[len(msgs)-1]
	if last.Role != "system" {
		t.Fatalf("last message should be the injected system note, got role %q", last.Role)
	}
	return last.Content
}

func TestJoinValidation(t *testing.T) {
	fl := &fakeLLM{resp: llm.Response{Content: "ok"}}
	svc, _, prefRepo := newTestRoom(t, fl, fakePrice{v: 100})

	if _, err := svc.Join("", "stuff", ""); !errors.Is(err, ErrUsernameRequired) {
		t.Fatalf("want ErrUsernameRequired, got %v", err)
	}

	sess, err := svc.Join("alice", "investment, technology", "")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if sess.Icon != identity.IconFor("alice") {
		t.Fatalf("icon mismatch: %q", sess.Icon)
	}
	if got, ok := svc.Session(sess.Token); !ok || got != sess {
		t.Fatalf("session not resolvable by token")
	}

	p, ok, err := prefRepo.Get("alice")
	if err != nil || !ok {
		t.Fatalf("interests not persisted: ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(p.Interests, []string{"investment", "technology"}) {
		t.Fatalf("unexpected interests: %+v", p)
	}
}

func TestJoinRequiresAPIKeyWhenNoServerClient(t *testing.T) {
	svc, _, _ := newTestRoom(t, nil, fakePrice{})
	if !svc.RequiresAPIKey() {
		t.Fatalf("room without a default client should require keys")
	}
	if _, err := svc.Join("alice", "", ""); !errors.Is(err, ErrAPIKeyRequired) {
		t.Fatalf("want ErrAPIKeyRequired, got %v", err)
	}
	// A supplied key builds a per-session client via the factory.
	sess, err := svc.Join("alice", "", "gsk_test")
	if err != nil {
		t.Fatalf("join with key: %v", err)
	}
	if sess.Client == nil {
		t.Fatalf("session should carry its own client")
	}
}

func TestNonTriggerMessageSkipsAssistant(t *testing.T) {
	fl := &fakeLLM{resp: llm.Response{Content: "should not appear"}}
	svc, store, _ := newTestRoom(t, fl, fakePrice{v: 100})
	sess, _ := svc.Join("bob", "", "")

	res, err := svc.HandleMessage(context.Background(), sess, "hello everyone")
	if err != nil {
		t.Fatalf("turn: %v", err)
	}
	if res.Assistant != nil {
		t.Fatalf("no assistant turn expected")
	}
	if fl.calls != 0 {
		t.Fatalf("llm should not be called, got %d calls", fl.calls)
	}
	msgs, _ := store.Load()
	if len(msgs) != 1 || msgs[0].SenderName != "bob" {
		t.Fatalf("unexpected history: %+v", msgs)
	}
}

func TestDecideTurnWithPrice(t *testing.T) {
	fl := &fakeLLM{resp: llm.Response{Content: "Here is my take."}}
	svc, store, _ := newTestRoom(t, fl, fakePrice{v: 62000})
	sess, err := svc.Join("alice", "investment, technology", "")
	if err != nil {
		t.Fatalf("join: %v", err)
	}

	res, err := svc.HandleMessage(context.Background(), sess, "decide")
	if err != nil {
		t.Fatalf("turn: %v", err)
	}
	if res.Assistant == nil || res.Assistant.Content != "Here is my take." {
		t.Fatalf("assistant record missing: %+v", res.Assistant)
	}

	note := lastSystemNote(t, fl.lastMsgs)
	// 62000 is at/above the investment threshold.
	if !strings.Contains(note, "waiting for a pullback") {
		t.Fatalf("investment clause missing from note: %q", note)
	}
	if !strings.Contains(note, "technology") {
		t.Fatalf("technology clause missing from note: %q", note)
	}

	msgs, _ := store.Load()
	if len(msgs) != 2 {
		t.Fatalf("want exactly 2 records, got %d", len(msgs))
	}
	if msgs[0].Role != chat.RoleUser || msgs[0].SenderName != "alice" {
		t.Fatalf("first record should be alice's message: %+v", msgs[0])
	}
	if msgs[1].Role != chat.RoleAssistant || msgs[1].Icon != chat.AssistantIcon {
		t.Fatalf("second record should be the assistant: %+v", msgs[1])
	}
}

func TestPriceFailureStillProducesAssistantTurn(t *testing.T) {
	fl := &fakeLLM{resp: llm.Response{Content: "No price, but hello."}}
	svc, store, _ := newTestRoom(t, fl, fakePrice{err: price.ErrUnavailable})
	sess, _ := svc.Join("alice", "technology", "")

	res, err := svc.HandleMessage(context.Background(), sess, "NURT what now?")
	if err != nil {
		t.Fatalf("price failure must not fail the turn: %v", err)
	}
	if res.Assistant == nil {
		t.Fatalf("assistant record expected despite price failure")
	}

	note := lastSystemNote(t, fl.lastMsgs)
	if !strings.Contains(note, decision.UnavailablePhrase) {
		t.Fatalf("note should carry the unavailable phrasing: %q", note)
	}
	if !strings.Contains(note, "technology") {
		t.Fatalf("technology clause should still be present: %q", note)
	}

	msgs, _ := store.Load()
	if len(msgs) != 2 {
		t.Fatalf("want 2 records, got %d", len(msgs))
	}
}

func TestCompletionFailureLeavesOnlyUserMessage(t *testing.T) {
	fl := &fakeLLM{err: errors.New("api down")}
	svc, store, _ := newTestRoom(t, fl, fakePrice{v: 100})
	sess, _ := svc.Join("alice", "investment", "")

	res, err := svc.HandleMessage(context.Background(), sess, "decide please")
	if err == nil {
		t.Fatalf("completion failure should surface as an error")
	}
	if res.Assistant != nil {
		t.Fatalf("no assistant record may be written on failure")
	}

	msgs, _ := store.Load()
	if len(msgs) != 1 || msgs[0].Role != chat.RoleUser {
		t.Fatalf("history must keep only the user's message: %+v", msgs)
	}
}

func TestTriggerMatchingIsCaseInsensitivePrefix(t *testing.T) {
	fl := &fakeLLM{resp: llm.Response{Content: "hi"}}
	svc, _, _ := newTestRoom(t, fl, fakePrice{v: 100})

	cases := map[string]bool{
		"nurt, tell me":      true,
		"  Decide for me":    true,
		"NURTURE the plants": true, // prefix match, same as the original
		"please decide":      false,
		"hello":              false,
	}
	for text, want := range cases {
		if got := svc.triggered(text); got != want {
			t.Errorf("triggered(%q) = %v, want %v", text, got, want)
		}
	}
}

func TestFullHistoryIsSentToModel(t *testing.T) {
	fl := &fakeLLM{resp: llm.Response{Content: "reply"}}
	svc, store, _ := newTestRoom(t, fl, fakePrice{v: 100})
	sess, _ := svc.Join("alice", "", "")

	seed := []chat.Message{
		{Role: chat.RoleUser, Content: "one", SenderName: "bob"},
		{Role: chat.RoleAssistant, Content: "two"},
		{Role: chat.RoleUser, Content: "three", SenderName: "carol"},
	}
	if err := store.Replace(seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := svc.HandleMessage(context.Background(), sess, "decide"); err != nil {
		t.Fatalf("turn: %v", err)
	}
	// seeded 3 + alice's message + injected note
	if len(fl.lastMsgs) != 5 {
		t.Fatalf("want 5 messages sent, got %d", len(fl.lastMsgs))
	}
	if fl.lastMsgs[0].Content != "one" || fl.lastMsgs[3].Content != "decide" {
		t.Fatalf("history not sent in order: %+v", fl.lastMsgs)
	}
}
